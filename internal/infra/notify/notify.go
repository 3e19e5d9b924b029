package notify

import (
	"context"
	"fmt"

	domorder "example.com/gameshop/internal/domain/order"
)

type Config struct {
	Provider      string
	From          string
	FromName      string
	SMTPAddr      string
	SMTPUsername  string
	SMTPPassword  string
	PostmarkToken string
	SendGridKey   string
}

// Sender delivers a rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Notifier sends order confirmations through a Sender.
type Notifier struct {
	sender Sender
}

func NewNotifier(sender Sender) *Notifier {
	return &Notifier{sender: sender}
}

func (n *Notifier) OrderPaid(ctx context.Context, o *domorder.Order) error {
	if o.CustomerEmail == "" {
		return nil
	}
	msg, err := OrderConfirmation(o)
	if err != nil {
		return err
	}
	return n.sender.Send(ctx, msg)
}

// New builds the sender selected by cfg.Provider. It returns nil for "none".
func New(cfg Config) (*Notifier, error) {
	var sender Sender
	switch cfg.Provider {
	case "", "none":
		return nil, nil
	case "smtp":
		sender = NewSMTPSender(cfg.SMTPAddr, cfg.SMTPUsername, cfg.SMTPPassword, cfg.From, cfg.FromName)
	case "postmark":
		sender = NewPostmarkSender(cfg.PostmarkToken, cfg.From, cfg.FromName)
	case "sendgrid":
		sender = NewSendGridSender(cfg.SendGridKey, cfg.From, cfg.FromName)
	default:
		return nil, fmt.Errorf("unknown notify provider %q", cfg.Provider)
	}
	return NewNotifier(sender), nil
}
