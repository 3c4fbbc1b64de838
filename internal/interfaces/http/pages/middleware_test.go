package pages_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/memory"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/pages"
)

var jwtConfig = auth.JWTConfig{Secret: []byte("pages-test-secret-pages-test-000")}

func TestDecide(t *testing.T) {
	tests := []struct {
		name   string
		path   string
		uri    string
		role   auth.Role
		target string
	}{
		{name: "anonymous admin page", path: "/admin/companies", role: auth.RoleUnknown, target: "/admin/login"},
		{name: "anonymous admin root", path: "/admin", role: auth.RoleUnknown, target: "/admin/login"},
		{name: "admin login page is open", path: "/admin/login", role: auth.RoleUnknown},
		{name: "signed-in admin skips login", path: "/admin/login", role: auth.RoleAdmin, target: "/admin"},
		{name: "member on admin page", path: "/admin/tags", role: auth.RoleMember, target: "/unauthorized"},
		{name: "customer on admin page", path: "/admin", role: auth.RoleCustomer, target: "/unauthorized"},
		{name: "admin allowed", path: "/admin/tags", role: auth.RoleAdmin},
		{name: "prefix is segment based", path: "/administrator", role: auth.RoleUnknown},
		{name: "anonymous member page", path: "/member/cases", role: auth.RoleUnknown, target: "/member/login"},
		{name: "admin on member page", path: "/member", role: auth.RoleAdmin, target: "/unauthorized"},
		{name: "member allowed", path: "/member/cases/3", role: auth.RoleMember},
		{name: "anonymous dashboard", path: "/dashboard", uri: "/dashboard?tab=1", role: auth.RoleUnknown, target: "/login?redirect=%2Fdashboard%3Ftab%3D1"},
		{name: "anonymous my page", path: "/my/inquiries/2", role: auth.RoleUnknown, target: "/login?redirect=%2Fmy%2Finquiries%2F2"},
		{name: "member on customer page", path: "/my/inquiries", role: auth.RoleMember, target: "/unauthorized"},
		{name: "customer allowed", path: "/dashboard", role: auth.RoleCustomer},
		{name: "login while signed in", path: "/login", role: auth.RoleCustomer, target: "/dashboard"},
		{name: "signup while signed in", path: "/signup", role: auth.RoleMember, target: "/member"},
		{name: "login anonymous", path: "/login", role: auth.RoleUnknown},
		{name: "public page", path: "/cases/1", role: auth.RoleUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uri := tt.uri
			if uri == "" {
				uri = tt.path
			}
			target, ok := pages.Decide(tt.path, uri, tt.role)
			assert.Equal(t, tt.target != "", ok)
			assert.Equal(t, tt.target, target)
		})
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestMiddleware_Redirects(t *testing.T) {
	mw := pages.NewMiddleware(pages.Config{Sessions: auth.NewJWTSessionResolver(jwtConfig)})
	handler := mw.Handler(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/companies", nil))
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))

	token, err := auth.SignToken(jwtConfig, auth.TokenSpec{AuthID: "m-1", UserType: "member"})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodGet, "/admin/companies", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: token})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/unauthorized", rec.Header().Get("Location"))

	// API routes answer 401 themselves.
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestMiddleware_RefreshesExpiredSession(t *testing.T) {
	ctx := context.Background()
	identity := memory.NewIdentityProvider(jwtConfig)
	_, err := identity.CreateUser(ctx, domain.NewIdentityUser{Email: "admin@example.jp", Password: "password123", UserType: "admin"})
	require.NoError(t, err)
	session, err := identity.SignIn(ctx, "admin@example.jp", "password123")
	require.NoError(t, err)

	expired, err := auth.SignToken(jwtConfig, auth.TokenSpec{AuthID: session.AuthID, UserType: "admin", IssuedAt: time.Now().Add(-2 * time.Hour)})
	require.NoError(t, err)

	mw := pages.NewMiddleware(pages.Config{Sessions: auth.NewJWTSessionResolver(jwtConfig), Refresher: identity})
	var seenToken string
	handler := mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenToken = auth.TokenFromRequest(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: expired})
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: session.RefreshToken})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, seenToken)
	assert.NotEqual(t, expired, seenToken)
	names := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		names[c.Name] = c.MaxAge > 0
	}
	assert.True(t, names[auth.AccessTokenCookie])
	assert.True(t, names[auth.RefreshTokenCookie])

	// The refresh token was rotated; reusing it fails and clears the cookies.
	req = httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.AddCookie(&http.Cookie{Name: auth.RefreshTokenCookie, Value: session.RefreshToken})
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
	for _, c := range rec.Result().Cookies() {
		assert.Equal(t, -1, c.MaxAge)
	}
}

func TestStatic_FallsBackToIndex(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>app</html>"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "app.js"), []byte("console.log(1)"), 0o644))
	handler := pages.Static(dir)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/app.js", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "console.log")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin/companies", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app")

	rec = httptest.NewRecorder()
	pages.Static("").ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
