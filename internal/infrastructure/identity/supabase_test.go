package identity

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *SupabaseClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewSupabaseClient(Config{URL: srv.URL, AnonKey: "anon", ServiceRoleKey: "service"}, nil)
}

func TestCreateUser(t *testing.T) {
	var got map[string]any
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/auth/v1/admin/users", r.URL.Path)
		assert.Equal(t, "service", r.Header.Get("apikey"))
		assert.Equal(t, "Bearer service", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		assert.NoError(t, json.Unmarshal(body, &got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"6f1c","email":"staff@example.jp"}`))
	})

	id, err := client.CreateUser(context.Background(), domain.NewIdentityUser{
		Email: "staff@example.jp", Password: "password1", UserType: domain.UserTypeMember, Name: "担当",
	})
	require.NoError(t, err)
	assert.Equal(t, "6f1c", id)
	assert.Equal(t, true, got["email_confirm"])
	assert.Equal(t, map[string]any{"user_type": "member"}, got["app_metadata"])
}

func TestCreateUser_Duplicate(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":422,"error_code":"email_exists","msg":"A user with this email address has already been registered"}`))
	})

	_, err := client.CreateUser(context.Background(), domain.NewIdentityUser{Email: "dup@example.jp", Password: "password1"})
	assert.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, 1, calls)
}

func TestSignIn(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/v1/token", r.URL.Path)
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"access_token":"at","refresh_token":"rt","expires_in":3600,
			"user":{"id":"u-1","email":"c@example.jp","app_metadata":{"provider":"email","user_type":"customer"}}
		}`))
	})

	session, err := client.SignIn(context.Background(), "c@example.jp", "password1")
	require.NoError(t, err)
	assert.Equal(t, "at", session.AccessToken)
	assert.Equal(t, "rt", session.RefreshToken)
	assert.Equal(t, 3600, session.ExpiresIn)
	assert.Equal(t, "u-1", session.AuthID)
	assert.Equal(t, domain.UserTypeCustomer, session.UserType)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
	})

	_, err := client.SignIn(context.Background(), "c@example.jp", "wrong")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestRefresh_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "refresh_token", r.URL.Query().Get("grant_type"))
		w.WriteHeader(http.StatusBadGateway)
	})

	_, err := client.Refresh(context.Background(), "rt")
	assert.ErrorIs(t, err, domain.ErrUpstream)
}

func TestDeleteUserAndSignOut(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/v1/admin/users/gone":
			w.WriteHeader(http.StatusNotFound)
		case "/auth/v1/admin/users/u-1":
			assert.Equal(t, http.MethodDelete, r.Method)
			w.WriteHeader(http.StatusOK)
		case "/auth/v1/logout":
			assert.Equal(t, "Bearer at", r.Header.Get("Authorization"))
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusTeapot)
		}
	})

	ctx := context.Background()
	assert.NoError(t, client.DeleteUser(ctx, "u-1"))
	assert.NoError(t, client.DeleteUser(ctx, "gone"))
	assert.NoError(t, client.SignOut(ctx, "at"))
}
