package session

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
)

// ErrMalformedToken indicates a persistent token that is not identity|id.
var ErrMalformedToken = errors.New("malformed session token")

// DefaultTokenDays is how long the persistent cookie lives.
const DefaultTokenDays = 7

// Token is the client-side persistent session: identity|random-id.
type Token struct {
	Identity  string
	SessionID string
}

// NewToken returns a token with a fresh random session id.
func NewToken(identity string) Token {
	return Token{Identity: identity, SessionID: uuid.NewString()}
}

func (t Token) String() string {
	return t.Identity + "|" + t.SessionID
}

// ParseToken splits identity|id. The id must be a UUID.
func ParseToken(s string) (Token, error) {
	identity, id, ok := strings.Cut(s, "|")
	if !ok || strings.TrimSpace(identity) == "" {
		return Token{}, ErrMalformedToken
	}
	if _, err := uuid.Parse(id); err != nil {
		return Token{}, ErrMalformedToken
	}
	return Token{Identity: identity, SessionID: id}, nil
}

// TokenMaxAge converts a day count into a cookie lifetime.
func TokenMaxAge(days int) time.Duration {
	if days <= 0 {
		days = DefaultTokenDays
	}
	return time.Duration(days) * 24 * time.Hour
}

// CookieName is the name of the persistent session cookie.
const CookieName = "escala_session"

// Codec signs tokens into cookie values and verifies them back, so a client
// cannot mint identity|id pairs of its own.
type Codec struct {
	sc *securecookie.SecureCookie
}

// NewCodec returns a codec authenticating values with hashKey. A nil key
// gets a random one, which invalidates every cookie on restart. Values
// older than days are rejected.
func NewCodec(hashKey []byte, days int) (*Codec, error) {
	if len(hashKey) == 0 {
		hashKey = securecookie.GenerateRandomKey(32)
	}
	if len(hashKey) < 32 {
		return nil, fmt.Errorf("session key must be at least 32 bytes, got %d", len(hashKey))
	}
	sc := securecookie.New(hashKey, nil)
	sc.MaxAge(int(TokenMaxAge(days).Seconds()))
	return &Codec{sc: sc}, nil
}

// Encode returns the signed cookie value of tok.
func (c *Codec) Encode(tok Token) (string, error) {
	return c.sc.Encode(CookieName, tok.String())
}

// Decode verifies value and parses the token inside it. Unsigned, tampered
// and expired values yield ErrMalformedToken.
func (c *Codec) Decode(value string) (Token, error) {
	var raw string
	if err := c.sc.Decode(CookieName, value, &raw); err != nil {
		return Token{}, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	return ParseToken(raw)
}
