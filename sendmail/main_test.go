package main

import (
	"bytes"
	"flag"
	"testing"

	"github.com/stretchr/testify/require"

	"example.com/gameshop/internal/config"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want options
	}{
		{name: "defaults", args: nil, want: options{to: "hello@yopmail.com"}},
		{
			name: "all set",
			args: []string{"-to", "buyer@example.com", "-provider", "postmark", "-smtp", "localhost:2025", "-dry-run"},
			want: options{to: "buyer@example.com", provider: "postmark", smtpAddr: "localhost:2025", dryRun: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFlags(tt.args)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlags_Errors(t *testing.T) {
	_, err := parseFlags([]string{"-to", ""})
	require.Error(t, err)

	_, err = parseFlags([]string{"-unknown"})
	require.Error(t, err)

	_, err = parseFlags([]string{"-h"})
	require.ErrorIs(t, err, flag.ErrHelp)
}

func TestNotifyConfig_Overrides(t *testing.T) {
	var cfg config.Config
	cfg.Notify.Provider = "none"
	cfg.Notify.SMTPAddr = "mail:25"
	cfg.Notify.From = "shop@example.com"

	nc := notifyConfig(cfg, options{})
	require.Equal(t, "none", nc.Provider)
	require.Equal(t, "mail:25", nc.SMTPAddr)
	require.Equal(t, "shop@example.com", nc.From)

	nc = notifyConfig(cfg, options{smtpAddr: "localhost:2025"})
	require.Equal(t, "smtp", nc.Provider)
	require.Equal(t, "localhost:2025", nc.SMTPAddr)

	nc = notifyConfig(cfg, options{provider: "sendgrid", smtpAddr: "localhost:2025"})
	require.Equal(t, "sendgrid", nc.Provider)
}

func TestWriteDryRun(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, writeDryRun(&buf, sampleOrder("buyer@example.com")))

	out := buf.String()
	require.Contains(t, out, "To: buyer@example.com\n")
	require.Contains(t, out, "Subject: Je bestelling bij GameShop Enter (tr_sample)\n")
	require.Contains(t, out, "2 x Game A")
	require.Contains(t, out, "Totaal: EUR 55.00")
}
