package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadToken = errors.New("invalid token")

// DefaultTokenTTL is used when no TTL is configured.
const DefaultTokenTTL = 30 * time.Minute

func HashPassword(pw string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	return string(b), err
}

// CheckPassword returns false for a malformed hash rather than erroring.
func CheckPassword(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(pw)) == nil
}

type Claims struct {
	jwt.RegisteredClaims
}

// MakeToken issues a signed access token carrying the patient's email as
// subject. No server-side state is written; expiry and signature are the
// only things that make it valid.
func MakeToken(email, secret string, ttl time.Duration) (string, error) {
	c := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString([]byte(secret))
}

// ParseToken verifies signature and expiry and returns the subject email.
// All failure modes — bad signature, malformed payload, missing subject,
// expired — collapse into ErrBadToken; a token is never partially trusted.
func ParseToken(raw, secret string) (string, error) {
	tok, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		// block alg confusion
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrBadToken
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", ErrBadToken
	}
	c, ok := tok.Claims.(*Claims)
	if !ok || !tok.Valid || c.Subject == "" {
		return "", ErrBadToken
	}
	return c.Subject, nil
}
