// Package identity talks to the Supabase Auth (GoTrue) REST API.
package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/goccy/go-json"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"go.uber.org/zap"
)

// Config holds the project URL and the two API keys.
type Config struct {
	URL            string
	AnonKey        string
	ServiceRoleKey string
	Timeout        time.Duration
}

// SupabaseClient implements domain.IdentityProvider. Requests are never
// retried: user creation is not idempotent.
type SupabaseClient struct {
	http           *resty.Client
	anonKey        string
	serviceRoleKey string
	logger         *zap.Logger
}

func NewSupabaseClient(cfg Config, logger *zap.Logger) *SupabaseClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	client := resty.New().
		SetBaseURL(strings.TrimRight(cfg.URL, "/")+"/auth/v1").
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal

	return &SupabaseClient{
		http:           client,
		anonKey:        cfg.AnonKey,
		serviceRoleKey: cfg.ServiceRoleKey,
		logger:         logger.Named("identity"),
	}
}

type userResponse struct {
	ID          string         `json:"id"`
	Email       string         `json:"email"`
	AppMetadata map[string]any `json:"app_metadata"`
}

type sessionResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int          `json:"expires_in"`
	User         userResponse `json:"user"`
}

// errorResponse covers both the legacy and the current GoTrue error shapes.
type errorResponse struct {
	Code             any    `json:"code"`
	ErrorCode        string `json:"error_code"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e errorResponse) text() string {
	for _, s := range []string{e.Msg, e.Message, e.ErrorDescription, e.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *SupabaseClient) admin(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.serviceRoleKey).
		SetAuthToken(c.serviceRoleKey)
}

func (c *SupabaseClient) public(ctx context.Context) *resty.Request {
	return c.http.R().
		SetContext(ctx).
		SetHeader("apikey", c.anonKey)
}

// CreateUser provisions a confirmed account whose user_type is set in app_metadata.
func (c *SupabaseClient) CreateUser(ctx context.Context, user domain.NewIdentityUser) (string, error) {
	body := map[string]any{
		"email":         user.Email,
		"password":      user.Password,
		"email_confirm": true,
		"app_metadata":  map[string]any{"user_type": user.UserType},
	}
	if user.Name != "" {
		body["user_metadata"] = map[string]any{"name": user.Name}
	}

	var created userResponse
	var apiErr errorResponse
	resp, err := c.admin(ctx).SetBody(body).SetResult(&created).SetError(&apiErr).Post("/admin/users")
	if err != nil {
		return "", c.transportError("create user", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusUnprocessableEntity || resp.StatusCode() == http.StatusConflict {
			return "", domain.Conflict("このメールアドレスは既に登録されています")
		}
		return "", c.statusError("create user", resp, apiErr)
	}
	if created.ID == "" {
		return "", domain.Upstream("認証サービスの応答が不正です", fmt.Errorf("create user: empty id"))
	}
	return created.ID, nil
}

func (c *SupabaseClient) DeleteUser(ctx context.Context, authID string) error {
	var apiErr errorResponse
	resp, err := c.admin(ctx).SetError(&apiErr).SetPathParam("id", authID).Delete("/admin/users/{id}")
	if err != nil {
		return c.transportError("delete user", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil
	}
	if resp.IsError() {
		return c.statusError("delete user", resp, apiErr)
	}
	return nil
}

func (c *SupabaseClient) SignIn(ctx context.Context, email, password string) (*domain.IdentitySession, error) {
	return c.token(ctx, "password", map[string]any{"email": email, "password": password},
		"メールアドレスまたはパスワードが正しくありません")
}

func (c *SupabaseClient) Refresh(ctx context.Context, refreshToken string) (*domain.IdentitySession, error) {
	return c.token(ctx, "refresh_token", map[string]any{"refresh_token": refreshToken},
		"セッションの有効期限が切れました")
}

func (c *SupabaseClient) token(ctx context.Context, grant string, body map[string]any, rejected string) (*domain.IdentitySession, error) {
	var session sessionResponse
	var apiErr errorResponse
	resp, err := c.public(ctx).
		SetQueryParam("grant_type", grant).
		SetBody(body).
		SetResult(&session).
		SetError(&apiErr).
		Post("/token")
	if err != nil {
		return nil, c.transportError("token "+grant, err)
	}
	if resp.IsError() {
		if resp.StatusCode() == http.StatusBadRequest || resp.StatusCode() == http.StatusUnauthorized {
			return nil, domain.Unauthenticated(rejected)
		}
		return nil, c.statusError("token "+grant, resp, apiErr)
	}

	userType, _ := session.User.AppMetadata["user_type"].(string)
	return &domain.IdentitySession{
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		ExpiresIn:    session.ExpiresIn,
		AuthID:       session.User.ID,
		Email:        session.User.Email,
		UserType:     userType,
	}, nil
}

// SignOut revokes the refresh tokens of the session. An already invalid token
// counts as signed out.
func (c *SupabaseClient) SignOut(ctx context.Context, accessToken string) error {
	var apiErr errorResponse
	resp, err := c.public(ctx).SetAuthToken(accessToken).SetError(&apiErr).Post("/logout")
	if err != nil {
		return c.transportError("logout", err)
	}
	switch {
	case resp.StatusCode() == http.StatusUnauthorized, resp.StatusCode() == http.StatusForbidden:
		return nil
	case resp.IsError():
		return c.statusError("logout", resp, apiErr)
	}
	return nil
}

func (c *SupabaseClient) transportError(op string, err error) error {
	c.logger.Error("identity request failed", zap.String("op", op), zap.Error(err))
	return domain.Upstream("認証サービスに接続できません", fmt.Errorf("%s: %w", op, err))
}

func (c *SupabaseClient) statusError(op string, resp *resty.Response, apiErr errorResponse) error {
	c.logger.Warn("identity request rejected",
		zap.String("op", op),
		zap.Int("status", resp.StatusCode()),
		zap.String("message", apiErr.text()),
	)
	return domain.Upstream("認証サービスでエラーが発生しました",
		fmt.Errorf("%s: status %d: %s", op, resp.StatusCode(), apiErr.text()))
}

var _ domain.IdentityProvider = (*SupabaseClient)(nil)
