package notify

import (
	"context"
	"fmt"
	"net/mail"

	"github.com/keighl/postmark"
)

type PostmarkSender struct {
	client *postmark.Client
	from   string
}

func NewPostmarkSender(serverToken, from, fromName string) *PostmarkSender {
	return &PostmarkSender{
		client: postmark.NewClient(serverToken, ""),
		from:   (&mail.Address{Name: fromName, Address: from}).String(),
	}
}

func (s *PostmarkSender) Send(ctx context.Context, msg Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := s.client.SendEmail(postmark.Email{
		From:     s.from,
		To:       msg.To,
		Subject:  msg.Subject,
		HtmlBody: msg.HTML,
		TextBody: msg.Text,
		Tag:      "order-confirmation",
	})
	if err != nil {
		return fmt.Errorf("postmark send: %w", err)
	}
	return nil
}
