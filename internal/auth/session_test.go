package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testJWT = JWTConfig{
	Secret:   []byte("test-secret-with-enough-length-000"),
	Issuer:   "https://project.supabase.co/auth/v1",
	Audience: "authenticated",
}

func signClaims(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":          "user-1",
		"email":        "user@example.jp",
		"iss":          testJWT.Issuer,
		"aud":          testJWT.Audience,
		"exp":          time.Now().Add(time.Hour).Unix(),
		"app_metadata": map[string]any{"user_type": "member"},
	}
}

func TestJWTSessionResolver_ParseToken(t *testing.T) {
	resolver := NewJWTSessionResolver(testJWT)

	identity, err := resolver.ParseToken(signClaims(t, testJWT.Secret, validClaims()))
	require.NoError(t, err)
	assert.Equal(t, "user-1", identity.AuthID)
	assert.Equal(t, "user@example.jp", identity.Email)
	assert.Equal(t, RoleMember, Classify(identity))
}

func TestJWTSessionResolver_RejectsInvalidTokens(t *testing.T) {
	resolver := NewJWTSessionResolver(testJWT)

	tests := map[string]func() string{
		"wrong secret": func() string {
			return signClaims(t, []byte("another-secret-another-secret-00"), validClaims())
		},
		"expired": func() string {
			c := validClaims()
			c["exp"] = time.Now().Add(-time.Hour).Unix()
			return signClaims(t, testJWT.Secret, c)
		},
		"wrong issuer": func() string {
			c := validClaims()
			c["iss"] = "https://evil.example"
			return signClaims(t, testJWT.Secret, c)
		},
		"wrong audience": func() string {
			c := validClaims()
			c["aud"] = "anon"
			return signClaims(t, testJWT.Secret, c)
		},
		"missing subject": func() string {
			c := validClaims()
			delete(c, "sub")
			return signClaims(t, testJWT.Secret, c)
		},
		"missing expiry": func() string {
			c := validClaims()
			delete(c, "exp")
			return signClaims(t, testJWT.Secret, c)
		},
		"garbage": func() string { return "not.a.jwt" },
	}

	for name, build := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := resolver.ParseToken(build())
			assert.Error(t, err)
		})
	}
}

func TestJWTSessionResolver_ResolveSources(t *testing.T) {
	resolver := NewJWTSessionResolver(testJWT)
	token := signClaims(t, testJWT.Secret, validClaims())

	fromCookie := httptest.NewRequest(http.MethodGet, "/", nil)
	fromCookie.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: token})
	require.NotNil(t, resolver.Resolve(fromCookie))

	fromHeader := httptest.NewRequest(http.MethodGet, "/", nil)
	fromHeader.Header.Set("Authorization", "Bearer "+token)
	require.NotNil(t, resolver.Resolve(fromHeader))

	anonymous := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Nil(t, resolver.Resolve(anonymous))

	broken := httptest.NewRequest(http.MethodGet, "/", nil)
	broken.Header.Set("Authorization", "Bearer broken")
	assert.Nil(t, resolver.Resolve(broken))
}

func TestSignToken_RoundTrip(t *testing.T) {
	token, err := SignToken(testJWT, TokenSpec{AuthID: "abc", Email: "a@example.jp", UserType: "customer"})
	require.NoError(t, err)

	identity, err := NewJWTSessionResolver(testJWT).ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "abc", identity.AuthID)
	assert.Equal(t, RoleCustomer, Classify(identity))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, RoleUnknown, Classify(nil))
	assert.Equal(t, RoleUnknown, Classify(&Identity{}))
	assert.Equal(t, RoleAdmin, Classify(&Identity{AppMetadata: map[string]any{"user_type": "admin"}}))
	assert.Equal(t, RoleUnknown, Classify(&Identity{AppMetadata: map[string]any{"user_type": "superuser"}}))
	assert.Equal(t, RoleUnknown, Classify(&Identity{AppMetadata: map[string]any{"user_type": 1}}))
}

func TestClassify_IgnoresUserMetadata(t *testing.T) {
	c := validClaims()
	delete(c, "app_metadata")
	c["user_metadata"] = map[string]any{"user_type": "admin"}

	identity, err := NewJWTSessionResolver(testJWT).ParseToken(signClaims(t, testJWT.Secret, c))
	require.NoError(t, err)
	assert.Equal(t, RoleUnknown, Classify(identity))
}
