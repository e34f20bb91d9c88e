package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/vaibhavguptahere/smacad-test/internal/ctxkeys"
	"github.com/vaibhavguptahere/smacad-test/internal/model"
)

const (
	AdminPagePrefix = "/admin"
	AdminAPIPrefix  = "/api/admin"
	AdminLoginPage  = "/admin/login"
)

// publicAdminPaths are admin-scoped paths reachable without a session.
var publicAdminPaths = map[string]bool{
	"/admin/login":      true,
	"/admin/setup":      true,
	"/api/admin/login":  true,
	"/api/admin/logout": true,
	"/api/admin/setup":  true,
}

// Decision is the outcome of the admin gate for one request.
type Decision int

const (
	Allow Decision = iota
	Redirect
	Reject
)

func (d Decision) String() string {
	switch d {
	case Redirect:
		return "redirect"
	case Reject:
		return "reject"
	default:
		return "allow"
	}
}

// IsAdminPath reports whether path falls under the admin scope.
func IsAdminPath(path string) bool {
	return underPrefix(path, AdminAPIPrefix) || underPrefix(path, AdminPagePrefix)
}

// IsAPIPath reports whether path is served as JSON.
func IsAPIPath(path string) bool {
	return underPrefix(path, "/api")
}

func underPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Decide is the whole gate rule: admin paths other than the public ones need
// a valid token. API requests are rejected, page loads redirected.
func Decide(path string, tokenValid bool) Decision {
	path = strings.TrimSuffix(path, "/")
	if path == "" {
		path = "/"
	}
	if !IsAdminPath(path) || publicAdminPaths[path] || tokenValid {
		return Allow
	}
	if IsAPIPath(path) {
		return Reject
	}
	return Redirect
}

// TokenVerifier checks a raw token and returns the session it carries.
type TokenVerifier interface {
	VerifyToken(token string) (*model.Session, error)
}

// AdminGate enforces Decide on every request and puts the verified session
// into the request context.
func AdminGate(verifier TokenVerifier, cookieName string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsAdminPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			var session *model.Session
			if cookie, err := r.Cookie(cookieName); err == nil && cookie.Value != "" {
				session, err = verifier.VerifyToken(cookie.Value)
				if err != nil {
					slog.Debug("admin token rejected", "path", r.URL.Path, "error", err)
				}
			}

			switch Decide(r.URL.Path, session != nil) {
			case Reject:
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_ = json.NewEncoder(w).Encode(map[string]string{"error": "unauthorized"})
				return
			case Redirect:
				// For HTMX requests, use HX-Redirect header to force full page redirect
				if r.Header.Get("HX-Request") == "true" {
					w.Header().Set("HX-Redirect", AdminLoginPage)
					w.WriteHeader(http.StatusSeeOther)
					return
				}
				http.Redirect(w, r, AdminLoginPage, http.StatusSeeOther)
				return
			}

			if session != nil {
				r = r.WithContext(ctxkeys.WithSession(r.Context(), session))
			}
			next.ServeHTTP(w, r)
		})
	}
}
