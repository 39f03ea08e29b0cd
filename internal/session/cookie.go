package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "eximroyals-storefront"

// CookieConfig configures the admin session cookie.
type CookieConfig struct {
	Name   string
	Path   string
	Secret string
	TTL    time.Duration
	Secure bool
}

// CookieCodec signs session ids into HS256 JWT cookies and verifies them.
type CookieCodec struct {
	cfg     CookieConfig
	nowFunc func() time.Time
}

// NewCookieCodec creates a codec. Name and Path default to "er_admin" and
// "/admin".
func NewCookieCodec(cfg CookieConfig) *CookieCodec {
	if cfg.Name == "" {
		cfg.Name = "er_admin"
	}
	if cfg.Path == "" {
		cfg.Path = "/admin"
	}
	return &CookieCodec{cfg: cfg, nowFunc: time.Now}
}

// Name returns the cookie name.
func (c *CookieCodec) Name() string { return c.cfg.Name }

// Encode builds the cookie carrying sessionID.
func (c *CookieCodec) Encode(sessionID string) (*http.Cookie, error) {
	now := c.nowFunc()
	expires := now.Add(c.cfg.TTL)
	claims := jwt.RegisteredClaims{
		ID:        sessionID,
		Issuer:    issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(c.cfg.Secret))
	if err != nil {
		return nil, fmt.Errorf("sign session cookie: %w", err)
	}
	return &http.Cookie{
		Name:     c.cfg.Name,
		Value:    signed,
		Path:     c.cfg.Path,
		Expires:  expires,
		MaxAge:   int(c.cfg.TTL.Seconds()),
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}, nil
}

// Decode verifies the cookie value and returns the session id.
func (c *CookieCodec) Decode(value string) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(value, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(c.cfg.Secret), nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.nowFunc),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return "", fmt.Errorf("verify session cookie: %w", err)
	}
	if !token.Valid || claims.ID == "" {
		return "", errors.New("verify session cookie: missing session id")
	}
	return claims.ID, nil
}

// Clear returns a cookie that removes the session cookie.
func (c *CookieCodec) Clear() *http.Cookie {
	return &http.Cookie{
		Name:     c.cfg.Name,
		Value:    "",
		Path:     c.cfg.Path,
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
