package security

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidCartToken = errors.New("invalid cart token")

const cartTokenSubject = "cart"

// CartTokenService signs the anonymous cart id handed to browsers, so a client
// cannot pick someone else's cart by guessing its key.
type CartTokenService struct {
	secret     []byte
	expiration time.Duration
	now        func() time.Time
}

func NewCartTokenService(secret string, expiration time.Duration) *CartTokenService {
	return &CartTokenService{
		secret:     []byte(secret),
		expiration: expiration,
		now:        time.Now,
	}
}

type cartClaims struct {
	CartID string `json:"cid"`
	jwt.RegisteredClaims
}

func (s *CartTokenService) IssueCartToken(cartID string) (string, error) {
	now := s.now()
	claims := cartClaims{
		CartID: cartID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   cartTokenSubject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *CartTokenService) ParseCartToken(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &cartClaims{}, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithSubject(cartTokenSubject),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		return "", errors.Join(ErrInvalidCartToken, err)
	}

	claims, ok := parsed.Claims.(*cartClaims)
	if !ok || !parsed.Valid || claims.CartID == "" {
		return "", ErrInvalidCartToken
	}
	return claims.CartID, nil
}

// Expiration is how long an issued token stays valid.
func (s *CartTokenService) Expiration() time.Duration {
	return s.expiration
}
