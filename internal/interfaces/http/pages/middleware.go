// Package pages protects the browser-facing page routes. It redirects instead
// of answering 401 and is the only place that refreshes an expired session.
package pages

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
	"go.uber.org/zap"
)

const (
	unauthorizedPath = "/unauthorized"
	customerLogin    = "/login"
)

// Refresher exchanges a refresh token for a new session.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*domain.IdentitySession, error)
}

// Config provides dependencies for Middleware.
type Config struct {
	Logger       *zap.Logger
	Sessions     auth.SessionResolver
	Refresher    Refresher
	CookieSecure bool
}

// Middleware applies the page access policy.
type Middleware struct {
	logger       *zap.Logger
	sessions     auth.SessionResolver
	refresher    Refresher
	cookieSecure bool
}

func NewMiddleware(cfg Config) *Middleware {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Middleware{
		logger:       logger.Named("pages"),
		sessions:     cfg.Sessions,
		refresher:    cfg.Refresher,
		cookieSecure: cfg.CookieSecure,
	}
}

// protectedArea is one row of the prefix table.
type protectedArea struct {
	prefixes  []string
	loginPath string
	role      auth.Role
}

var areas = []protectedArea{
	{prefixes: []string{"/admin"}, loginPath: "/admin/login", role: auth.RoleAdmin},
	{prefixes: []string{"/member"}, loginPath: "/member/login", role: auth.RoleMember},
	{prefixes: []string{"/dashboard", "/my"}, role: auth.RoleCustomer},
}

// Handler wraps next with the redirect policy. /api routes are not touched.
func (m *Middleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path
		if hasPrefix(path, "/api") {
			next.ServeHTTP(w, r)
			return
		}

		r = m.refreshIfExpired(w, r)
		role := auth.Classify(m.sessions.Resolve(r))

		if target, ok := Decide(path, r.URL.RequestURI(), role); ok {
			http.Redirect(w, r, target, http.StatusTemporaryRedirect)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Decide returns the redirect target for a page request, or ok=false to serve it.
// requestURI is the path with its query, used for the customer login return address.
func Decide(path, requestURI string, role auth.Role) (target string, ok bool) {
	if path == "/login" || path == "/signup" {
		if role != auth.RoleUnknown {
			return role.DashboardPath(), true
		}
		return "", false
	}

	for _, area := range areas {
		if !area.matches(path) {
			continue
		}
		if area.loginPath != "" && path == area.loginPath {
			if role == area.role {
				return role.DashboardPath(), true
			}
			return "", false
		}
		switch {
		case role == auth.RoleUnknown && area.loginPath != "":
			return area.loginPath, true
		case role == auth.RoleUnknown:
			return customerLogin + "?redirect=" + url.QueryEscape(requestURI), true
		case role != area.role:
			return unauthorizedPath, true
		}
		return "", false
	}
	return "", false
}

func (a protectedArea) matches(path string) bool {
	for _, prefix := range a.prefixes {
		if hasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// hasPrefix matches whole path segments: /admin and /admin/x, not /administrator.
func hasPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// refreshIfExpired trades the refresh cookie for new tokens when the access
// token no longer verifies. The returned request carries the new access token.
func (m *Middleware) refreshIfExpired(w http.ResponseWriter, r *http.Request) *http.Request {
	if m.refresher == nil || m.sessions.Resolve(r) != nil {
		return r
	}
	refreshCookie, err := r.Cookie(auth.RefreshTokenCookie)
	if err != nil || refreshCookie.Value == "" {
		return r
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	session, err := m.refresher.Refresh(ctx, refreshCookie.Value)
	if err != nil {
		m.logger.Info("session refresh failed", zap.String("path", r.URL.Path), zap.Error(err))
		common.ClearSessionCookies(w, m.cookieSecure)
		return r
	}
	common.SetSessionCookies(w, session, m.cookieSecure)
	return withTokens(r, session)
}

// withTokens replaces the session cookies on a copy of r.
func withTokens(r *http.Request, session *domain.IdentitySession) *http.Request {
	clone := r.Clone(r.Context())
	cookies := r.Cookies()
	clone.Header.Del("Cookie")
	for _, c := range cookies {
		if c.Name == auth.AccessTokenCookie || c.Name == auth.RefreshTokenCookie {
			continue
		}
		clone.AddCookie(c)
	}
	clone.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: session.AccessToken})
	clone.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: session.RefreshToken})
	return clone
}
