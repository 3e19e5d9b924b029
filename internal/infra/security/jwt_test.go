package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestCartToken_RoundTrip(t *testing.T) {
	svc := NewCartTokenService("secret", time.Hour)

	token, err := svc.IssueCartToken("6f1c2c3e-0000-4000-8000-000000000001")
	require.NoError(t, err)

	cartID, err := svc.ParseCartToken(token)
	require.NoError(t, err)
	require.Equal(t, "6f1c2c3e-0000-4000-8000-000000000001", cartID)
}

func TestCartToken_WrongSecret(t *testing.T) {
	token, err := NewCartTokenService("secret", time.Hour).IssueCartToken("abc")
	require.NoError(t, err)

	_, err = NewCartTokenService("other", time.Hour).ParseCartToken(token)
	require.ErrorIs(t, err, ErrInvalidCartToken)
}

func TestCartToken_Expired(t *testing.T) {
	svc := NewCartTokenService("secret", time.Hour)
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }
	token, err := svc.IssueCartToken("abc")
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.ParseCartToken(token)
	require.ErrorIs(t, err, ErrInvalidCartToken)
}

func TestCartToken_Garbage(t *testing.T) {
	svc := NewCartTokenService("secret", time.Hour)

	for _, token := range []string{"", "not-a-jwt", "a.b.c"} {
		_, err := svc.ParseCartToken(token)
		require.ErrorIs(t, err, ErrInvalidCartToken, token)
	}
}

func TestCartToken_RejectsOtherSubjects(t *testing.T) {
	claims := jwt.RegisteredClaims{
		Subject:   "user",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = NewCartTokenService("secret", time.Hour).ParseCartToken(token)
	require.ErrorIs(t, err, ErrInvalidCartToken)
}
