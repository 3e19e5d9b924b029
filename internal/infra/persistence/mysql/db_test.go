package mysql

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseDSN_PinsRepositoryOptions(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
	}{
		{name: "plain", dsn: "user:pass@tcp(localhost:3306)/gameshop"},
		{name: "client found rows on", dsn: "user:pass@tcp(localhost:3306)/gameshop?clientFoundRows=true&parseTime=false"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := ParseDSN(tt.dsn)

			require.NoError(t, err)
			require.False(t, cfg.ClientFoundRows)
			require.True(t, cfg.ParseTime)
			require.Equal(t, "gameshop", cfg.DBName)
			require.NotContains(t, cfg.FormatDSN(), "clientFoundRows=true")
		})
	}
}

func TestParseDSN_Invalid(t *testing.T) {
	_, err := ParseDSN("user:pass@tcp(localhost:3306)gameshop")
	require.Error(t, err)
}

func TestOpen_DoesNotDial(t *testing.T) {
	db, err := Open("user:pass@tcp(127.0.0.1:1)/gameshop?clientFoundRows=true")
	require.NoError(t, err)
	require.NoError(t, db.Close())
}
