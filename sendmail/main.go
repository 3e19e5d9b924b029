// Command sendmail sends a sample order confirmation through the configured
// mail provider. Point it at a local Mailpit to check templates and settings.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"example.com/gameshop/internal/config"
	domorder "example.com/gameshop/internal/domain/order"
	dompayment "example.com/gameshop/internal/domain/payment"
	"example.com/gameshop/internal/infra/notify"
	"example.com/gameshop/internal/logging"
)

type options struct {
	to       string
	provider string
	smtpAddr string
	dryRun   bool
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("sendmail", flag.ContinueOnError)
	fs.StringVar(&opts.to, "to", "hello@yopmail.com", "recipient address")
	fs.StringVar(&opts.provider, "provider", "", "override notify.provider (smtp, postmark, sendgrid)")
	fs.StringVar(&opts.smtpAddr, "smtp", "", "override notify.smtp_addr, e.g. localhost:2025")
	fs.BoolVar(&opts.dryRun, "dry-run", false, "print the rendered message instead of sending it")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.to == "" {
		return options{}, fmt.Errorf("-to must not be empty")
	}
	return opts, nil
}

func main() {
	opts, err := parseFlags(os.Args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	_ = godotenv.Load()
	logger := logging.MustNewLogger(logging.Options{Service: "sendmail", Env: "dev", Level: "info"})
	defer func() { _ = logger.Sync() }()

	order := sampleOrder(opts.to)

	if opts.dryRun {
		if err := writeDryRun(os.Stdout, order); err != nil {
			logger.Fatal("render_failed", zap.Error(err))
		}
		return
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		logger.Fatal("config_load_failed", zap.Error(err))
	}
	nc := notifyConfig(cfg, opts)

	n, err := notify.New(nc)
	if err != nil {
		logger.Fatal("notifier_setup_failed", zap.Error(err))
	}
	if n == nil {
		logger.Fatal("notify_provider_disabled", zap.String("hint", "pass -provider or -smtp"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := n.OrderPaid(ctx, order); err != nil {
		logger.Fatal("mail_send_failed", zap.String("provider", nc.Provider), zap.Error(err))
	}
	logger.Info("mail_sent", zap.String("provider", nc.Provider), zap.String("to", opts.to))
}

// notifyConfig applies the command line overrides. -smtp alone implies the smtp provider.
func notifyConfig(cfg config.Config, opts options) notify.Config {
	nc := notify.Config{
		Provider:      cfg.Notify.Provider,
		From:          cfg.Notify.From,
		FromName:      cfg.Notify.FromName,
		SMTPAddr:      cfg.Notify.SMTPAddr,
		SMTPUsername:  cfg.Notify.SMTPUsername,
		SMTPPassword:  cfg.Notify.SMTPPassword,
		PostmarkToken: cfg.Notify.PostmarkToken,
		SendGridKey:   cfg.Notify.SendGridKey,
	}
	if opts.provider != "" {
		nc.Provider = opts.provider
	}
	if opts.smtpAddr != "" {
		nc.SMTPAddr = opts.smtpAddr
		if opts.provider == "" {
			nc.Provider = "smtp"
		}
	}
	return nc
}

func writeDryRun(w io.Writer, order *domorder.Order) error {
	msg, err := notify.OrderConfirmation(order)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "To: %s\nSubject: %s\n\n%s", msg.To, msg.Subject, msg.Text)
	return err
}

func sampleOrder(to string) *domorder.Order {
	p := &dompayment.Payment{
		ID:          "tr_sample",
		Status:      dompayment.StatusPaid,
		AmountCents: 5500,
		Currency:    dompayment.Currency,
		Metadata: dompayment.Metadata{
			Items: []dompayment.LineItem{
				{Title: "Game A", PriceCents: 2000, Quantity: 2, Slug: "game-a"},
				{Title: "Game B", PriceCents: 1500, Quantity: 1, Slug: "game-b"},
			},
			Customer: dompayment.Customer{"email": to},
		},
	}
	return domorder.FromPayment(p, time.Now())
}
