package auth

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Cookie names written by the identity provider's browser SDK.
const (
	AccessTokenCookie  = "sb-access-token"
	RefreshTokenCookie = "sb-refresh-token"
)

// Identity is the verified principal carried by an access token.
type Identity struct {
	AuthID      string
	Email       string
	AppMetadata map[string]any
	ExpiresAt   time.Time
}

// SessionResolver turns request credentials into an Identity. Missing, expired
// or invalid credentials resolve to nil.
type SessionResolver interface {
	Resolve(r *http.Request) *Identity
}

// JWTConfig holds the verification parameters of the identity provider's tokens.
type JWTConfig struct {
	Secret   []byte
	Issuer   string
	Audience string
}

// JWTSessionResolver verifies HS256 access tokens locally.
type JWTSessionResolver struct {
	cfg JWTConfig
	now func() time.Time
}

func NewJWTSessionResolver(cfg JWTConfig) *JWTSessionResolver {
	return &JWTSessionResolver{cfg: cfg, now: time.Now}
}

// Resolve reads the access-token cookie first and falls back to a Bearer header.
func (s *JWTSessionResolver) Resolve(r *http.Request) *Identity {
	token := TokenFromRequest(r)
	if token == "" {
		return nil
	}
	identity, err := s.ParseToken(token)
	if err != nil {
		return nil
	}
	return identity
}

type sessionClaims struct {
	jwt.RegisteredClaims
	Email        string         `json:"email,omitempty"`
	AppMetadata  map[string]any `json:"app_metadata,omitempty"`
	UserMetadata map[string]any `json:"user_metadata,omitempty"`
}

// ParseToken verifies signature, issuer, audience and validity window.
func (s *JWTSessionResolver) ParseToken(tokenString string) (*Identity, error) {
	if len(s.cfg.Secret) == 0 {
		return nil, fmt.Errorf("認証設定が構成されていません")
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithLeeway(30 * time.Second),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.cfg.Issuer))
	}
	if s.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(s.cfg.Audience))
	}

	claims := &sessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return s.cfg.Secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("アクセストークンが無効です")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("アクセストークンに subject がありません")
	}

	identity := &Identity{
		AuthID:      claims.Subject,
		Email:       claims.Email,
		AppMetadata: claims.AppMetadata,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

// TokenFromRequest extracts the raw access token without verifying it.
func TokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if value := strings.TrimSpace(cookie.Value); value != "" {
			return value
		}
	}

	const bearerPrefix = "Bearer "
	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if !strings.HasPrefix(header, bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
}

// TokenSpec describes an access token to sign with SignToken.
type TokenSpec struct {
	AuthID   string
	Email    string
	UserType string
	TTL      time.Duration
	IssuedAt time.Time
}

// SignToken issues an HS256 token in the identity provider's claim layout.
// Local development and tests use it in place of the real provider.
func SignToken(cfg JWTConfig, spec TokenSpec) (string, error) {
	issuedAt := spec.IssuedAt
	if issuedAt.IsZero() {
		issuedAt = time.Now()
	}
	ttl := spec.TTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   spec.AuthID,
			Issuer:    cfg.Issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(ttl)),
		},
		Email: spec.Email,
	}
	if cfg.Audience != "" {
		claims.Audience = jwt.ClaimStrings{cfg.Audience}
	}
	if spec.UserType != "" {
		claims.AppMetadata = map[string]any{"user_type": spec.UserType}
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(cfg.Secret)
}
