package notify

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/shopspring/decimal"

	domorder "example.com/gameshop/internal/domain/order"
)

type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<p>Bedankt voor je bestelling bij GameShop Enter!</p>
<p>Bestelnummer: <strong>{{.PaymentID}}</strong></p>
<table>
{{- range .Lines}}
<tr><td>{{.Qty}} x {{.Title}}</td><td>{{.Amount}}</td></tr>
{{- end}}
<tr><td><strong>Totaal</strong></td><td><strong>{{.Total}}</strong></td></tr>
</table>
`))

type confirmationLine struct {
	Qty    int64
	Title  string
	Amount string
}

func money(cents int64, currency string) string {
	return currency + " " + decimal.New(cents, -2).StringFixed(2)
}

// OrderConfirmation renders the mail sent when a payment is confirmed.
func OrderConfirmation(o *domorder.Order) (Message, error) {
	lines := make([]confirmationLine, 0, len(o.Items))
	var text strings.Builder
	fmt.Fprintf(&text, "Bedankt voor je bestelling bij GameShop Enter!\n\nBestelnummer: %s\n\n", o.PaymentID)
	for _, it := range o.Items {
		l := confirmationLine{Qty: it.Quantity, Title: it.Title, Amount: money(it.PriceCents*it.Quantity, o.Currency)}
		lines = append(lines, l)
		fmt.Fprintf(&text, "%d x %s  %s\n", l.Qty, l.Title, l.Amount)
	}
	total := money(o.AmountCents, o.Currency)
	fmt.Fprintf(&text, "\nTotaal: %s\n", total)

	var html bytes.Buffer
	err := confirmationHTML.Execute(&html, struct {
		PaymentID string
		Lines     []confirmationLine
		Total     string
	}{o.PaymentID, lines, total})
	if err != nil {
		return Message{}, fmt.Errorf("render confirmation: %w", err)
	}

	return Message{
		To:      o.CustomerEmail,
		Subject: "Je bestelling bij GameShop Enter (" + o.PaymentID + ")",
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
