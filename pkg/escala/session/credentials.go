package session

import (
	"crypto/subtle"
	"errors"
	"slices"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// ErrInvalidCredentials is returned for an unknown identity or a wrong password.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Roles.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

// User is one entry of the credentials map.
type User struct {
	// PasswordHash is a bcrypt hash. Password is accepted when no hash is set.
	PasswordHash string   `yaml:"password_hash"`
	Password     string   `yaml:"password"`
	Roles        []string `yaml:"roles"`
}

// HasRole reports whether the user holds role. Admins hold every role.
func (u User) HasRole(role string) bool {
	return slices.Contains(u.Roles, role) || slices.Contains(u.Roles, RoleAdmin)
}

// CanEdit reports whether the user may write the schedule back.
func (u User) CanEdit() bool {
	return u.HasRole(RoleEditor)
}

// Credentials maps identities (lower-cased) to users.
type Credentials map[string]User

// Lookup returns the user of identity.
func (c Credentials) Lookup(identity string) (User, bool) {
	u, ok := c[normalizeIdentity(identity)]
	return u, ok
}

// Authenticate checks a password and returns the canonical identity.
func (c Credentials) Authenticate(identity, password string) (string, User, error) {
	id := normalizeIdentity(identity)
	u, ok := c[id]
	if !ok {
		return "", User{}, ErrInvalidCredentials
	}
	if u.PasswordHash != "" {
		if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
			return "", User{}, ErrInvalidCredentials
		}
		return id, u, nil
	}
	if u.Password == "" || subtle.ConstantTimeCompare([]byte(u.Password), []byte(password)) != 1 {
		return "", User{}, ErrInvalidCredentials
	}
	return id, u, nil
}

// Normalize returns a copy with lower-cased identities.
func (c Credentials) Normalize() Credentials {
	out := make(Credentials, len(c))
	for id, u := range c {
		out[normalizeIdentity(id)] = u
	}
	return out
}

func normalizeIdentity(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
