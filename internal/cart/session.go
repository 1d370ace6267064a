package cart

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

var ErrUnauthorized = errors.New("missing or invalid cart session")

// Session is returned by POST /cart/session. The token identifies an
// anonymous shopping session, not a user.
type Session struct {
	Token     string    `json:"token"`
	SessionID string    `json:"sessionId"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Sessions issues and verifies HS256 session tokens.
type Sessions struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessions(secret string, ttl time.Duration) *Sessions {
	return &Sessions{secret: []byte(secret), ttl: ttl, now: time.Now}
}

func (s *Sessions) Issue() (Session, error) {
	sid := uuid.NewString()
	exp := s.now().Add(s.ttl).UTC().Truncate(time.Second)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid": sid,
		"exp": exp.Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: signed, SessionID: sid, ExpiresAt: exp}, nil
}

// Middleware verifies the bearer token and stores it in c.Locals("user").
// Any failure is a 401.
func (s *Sessions) Middleware() fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: s.secret,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
}

// SessionIDFromCtx reads the sid claim of the verified token.
func SessionIDFromCtx(c *fiber.Ctx) (string, error) {
	tok, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return "", ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", ErrUnauthorized
	}
	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", ErrUnauthorized
	}
	return sid, nil
}
