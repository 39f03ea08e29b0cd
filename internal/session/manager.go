package session

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/eximroyals/storefront/pkg/logger"
)

// Authenticator exchanges admin credentials for a catalog API token.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (string, error)
}

// Manager signs admins in and out and loads their session on each request.
type Manager struct {
	store   Store
	codec   *CookieCodec
	auth    Authenticator
	ttl     time.Duration
	logger  *slog.Logger
	nowFunc func() time.Time
}

// NewManager wires a session manager.
func NewManager(store Store, codec *CookieCodec, auth Authenticator, ttl time.Duration, logger *slog.Logger) *Manager {
	return &Manager{
		store:   store,
		codec:   codec,
		auth:    auth,
		ttl:     ttl,
		logger:  logger,
		nowFunc: time.Now,
	}
}

// Login authenticates against the API, stores the token in a new session and
// sets the session cookie. Any error means the admin is not signed in.
func (m *Manager) Login(ctx context.Context, w http.ResponseWriter, email, password string) (*Session, error) {
	email = strings.TrimSpace(email)
	token, err := m.auth.Login(ctx, email, password)
	if err != nil {
		return nil, err
	}

	now := m.nowFunc()
	s := &Session{
		ID:        uuid.New().String(),
		Email:     email,
		APIToken:  token,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	cookie, err := m.codec.Encode(s.ID)
	if err != nil {
		_ = m.store.Delete(ctx, s.ID)
		return nil, err
	}
	http.SetCookie(w, cookie)

	m.logger.InfoContext(ctx, "admin signed in", slog.String("admin", email))
	return s, nil
}

// Logout deletes the request's session, if any, and clears the cookie.
func (m *Manager) Logout(w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, m.codec.Clear())

	s, ok := FromContext(r.Context())
	if !ok {
		return nil
	}
	if err := m.store.Delete(r.Context(), s.ID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	m.logger.InfoContext(r.Context(), "admin signed out", slog.String("admin", s.Email))
	return nil
}

// Load is middleware that resolves the session cookie into a Session on the
// request context. Requests without a valid session pass through unchanged;
// a cookie that no longer resolves is cleared.
func (m *Manager) Load(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(m.codec.Name())
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		s, err := m.resolve(ctx, cookie.Value)
		if err != nil {
			logger.FromContext(ctx).DebugContext(ctx, "session cookie rejected", slog.String("error", err.Error()))
			http.SetCookie(w, m.codec.Clear())
			next.ServeHTTP(w, r)
			return
		}

		ctx = NewContext(ctx, s)
		ctx = logger.WithAdmin(ctx, s.Email)
		ctx = logger.NewContext(ctx, logger.FromContext(ctx).With(slog.String("admin", s.Email)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Manager) resolve(ctx context.Context, value string) (*Session, error) {
	id, err := m.codec.Decode(value)
	if err != nil {
		return nil, err
	}
	s, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Expired(m.nowFunc()) {
		_ = m.store.Delete(ctx, id)
		return nil, fmt.Errorf("session %s expired", id)
	}
	return s, nil
}

// HasSession reports whether Load attached a session to r.
func HasSession(r *http.Request) bool {
	_, ok := FromContext(r.Context())
	return ok
}
