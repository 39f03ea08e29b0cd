// Package session keeps signed-in admins. The catalog API token lives only in
// the server-side store; the browser holds a signed cookie naming the session.
package session

import (
	"context"
	"time"
)

// Session is one signed-in admin.
type Session struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	APIToken  string    `json:"apiToken"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Token returns the catalog API bearer token, so a Session can be handed to
// apiclient.Client.WithSession.
func (s *Session) Token() string {
	if s == nil {
		return ""
	}
	return s.APIToken
}

// Expired reports whether the session has lapsed at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store persists sessions. Get returns a NotFound error for unknown or
// expired sessions.
type Store interface {
	Save(ctx context.Context, s *Session) error
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
}

type contextKey struct{}

// NewContext stores s in ctx.
func NewContext(ctx context.Context, s *Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session loaded for this request, if any.
func FromContext(ctx context.Context) (*Session, bool) {
	s, ok := ctx.Value(contextKey{}).(*Session)
	return s, ok && s != nil
}
