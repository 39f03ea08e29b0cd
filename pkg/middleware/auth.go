package middleware

import (
	"net/http"
	"net/url"
)

// SessionCheck reports whether the request carries a live admin session.
type SessionCheck func(r *http.Request) bool

// RequireAdmin redirects requests without an admin session to loginPath. The
// originally requested path is passed along as ?next= so login can return to
// it.
func RequireAdmin(hasSession SessionCheck, loginPath string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hasSession(r) {
				next.ServeHTTP(w, r)
				return
			}

			target := loginPath
			if r.Method == http.MethodGet {
				target += "?next=" + url.QueryEscape(r.URL.RequestURI())
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// SafeRedirect returns next when it is a local absolute path, otherwise def.
func SafeRedirect(next, def string) string {
	if len(next) < 2 || next[0] != '/' || next[1] == '/' || next[1] == '\\' {
		return def
	}
	u, err := url.Parse(next)
	if err != nil || u.IsAbs() || u.Host != "" {
		return def
	}
	return next
}
