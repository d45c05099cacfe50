package identity

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
)

// TokenIssuer signs HS256 access tokens. The same secret verifies them in the
// JWT middleware, so tokens from an external provider sharing it are accepted too.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenIssuer(secret []byte, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// Issue returns a signed token for the identity and its expiry.
func (t *TokenIssuer) Issue(identity Identity) (string, time.Time, error) {
	now := t.now()
	expires := now.Add(t.ttl)
	claims := jwt.MapClaims{
		"sub":   identity.ID,
		"email": identity.Email,
		"iat":   now.Unix(),
		"exp":   expires.Unix(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expires, nil
}

// Subject is the authenticated identity carried by a verified token.
type Subject struct {
	ID    string
	Email string
}

// FromCtx extracts the subject from the JWT token stored in c.Locals("user")
// by the JWT middleware.
func FromCtx(c *fiber.Ctx) (Subject, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok || tok == nil {
		return Subject{}, fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return Subject{}, fiber.ErrUnauthorized
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return Subject{}, fiber.ErrUnauthorized
	}
	email, _ := claims["email"].(string)
	return Subject{ID: sub, Email: email}, nil
}
