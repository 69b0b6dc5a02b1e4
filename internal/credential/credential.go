// Package credential loads the OrangeHRM client configuration and guards the
// process-wide credentials.
package credential

import (
	"fmt"
	"sync"
)

// GrantType selects how an access token is obtained.
type GrantType string

const (
	GrantClientCredentials GrantType = "client_credentials"
	GrantPassword          GrantType = "password"
)

// Known reports whether g is one of the supported grants.
func (g GrantType) Known() bool {
	return g == GrantClientCredentials || g == GrantPassword
}

const defaultEmployeeID = "0"

// Credentials identify the client against one OrangeHRM instance. It is a
// plain value: copying it yields an independent snapshot.
type Credentials struct {
	BaseURL      string
	GrantType    GrantType
	ClientID     string
	ClientSecret string
	Username     string
	Password     string
	AccessToken  string
	RefreshToken string
	EmployeeID   string
}

// WithAccessToken returns a copy carrying token in place of the current one.
func (c Credentials) WithAccessToken(token string) Credentials {
	c.AccessToken = token
	return c
}

// Authenticated reports whether an access token is present.
func (c Credentials) Authenticated() bool {
	return c.AccessToken != ""
}

// Release zeroes every field.
func (c *Credentials) Release() {
	if c == nil {
		return
	}
	*c = Credentials{}
}

// String never prints secrets or tokens.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{base_url=%s type=%s client_id=%s username=%s token=%t}",
		c.BaseURL, c.GrantType, c.ClientID, c.Username, c.Authenticated())
}

// Store owns the live Credentials. Readers take snapshots; only the startup
// token refresh writes.
type Store struct {
	mu    sync.RWMutex
	creds Credentials
}

func NewStore(c Credentials) *Store {
	return &Store{creds: c}
}

// Snapshot returns an independent copy safe to hand to another goroutine.
func (s *Store) Snapshot() Credentials {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.creds
}

// SetAccessToken replaces the stored token.
func (s *Store) SetAccessToken(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.AccessToken = token
}

// Release zeroes the stored credentials at shutdown.
func (s *Store) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creds.Release()
}
