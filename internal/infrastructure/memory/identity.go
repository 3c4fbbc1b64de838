package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

type identityUser struct {
	authID   string
	email    string
	password string
	userType string
}

// IdentityProvider is an in-process stand-in for the hosted auth service. It
// signs tokens with the same JWT configuration the session resolver verifies.
type IdentityProvider struct {
	mu       sync.Mutex
	cfg      auth.JWTConfig
	ttl      time.Duration
	users    map[string]identityUser
	refresh  map[string]string
	revoked  map[string]struct{}
	createFn func(domain.NewIdentityUser) error
}

func NewIdentityProvider(cfg auth.JWTConfig) *IdentityProvider {
	return &IdentityProvider{
		cfg:     cfg,
		ttl:     time.Hour,
		users:   make(map[string]identityUser),
		refresh: make(map[string]string),
		revoked: make(map[string]struct{}),
	}
}

// FailCreateWith makes the next CreateUser calls return err from fn.
func (p *IdentityProvider) FailCreateWith(fn func(domain.NewIdentityUser) error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.createFn = fn
}

// HasUser reports whether an account exists for email.
func (p *IdentityProvider) HasUser(email string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, user := range p.users {
		if user.email == email {
			return true
		}
	}
	return false
}

func (p *IdentityProvider) CreateUser(_ context.Context, user domain.NewIdentityUser) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.createFn != nil {
		if err := p.createFn(user); err != nil {
			return "", err
		}
	}
	for _, existing := range p.users {
		if existing.email == user.Email {
			return "", domain.Conflict("このメールアドレスは既に登録されています")
		}
	}
	authID := uuid.NewString()
	p.users[authID] = identityUser{authID: authID, email: user.Email, password: user.Password, userType: user.UserType}
	return authID, nil
}

func (p *IdentityProvider) DeleteUser(_ context.Context, authID string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.users[authID]; !ok {
		return domain.NotFound("認証ユーザーが見つかりません")
	}
	delete(p.users, authID)
	return nil
}

func (p *IdentityProvider) SignIn(_ context.Context, email, password string) (*domain.IdentitySession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, user := range p.users {
		if user.email == email && user.password == password {
			return p.issue(user)
		}
	}
	return nil, domain.Unauthenticated("メールアドレスまたはパスワードが正しくありません")
}

func (p *IdentityProvider) Refresh(_ context.Context, refreshToken string) (*domain.IdentitySession, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	authID, ok := p.refresh[refreshToken]
	if !ok {
		return nil, domain.Unauthenticated("セッションの有効期限が切れました")
	}
	delete(p.refresh, refreshToken)
	user, ok := p.users[authID]
	if !ok {
		return nil, domain.Unauthenticated("セッションの有効期限が切れました")
	}
	return p.issue(user)
}

func (p *IdentityProvider) SignOut(_ context.Context, accessToken string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.revoked[accessToken] = struct{}{}
	return nil
}

func (p *IdentityProvider) issue(user identityUser) (*domain.IdentitySession, error) {
	token, err := auth.SignToken(p.cfg, auth.TokenSpec{
		AuthID:   user.authID,
		Email:    user.email,
		UserType: user.userType,
		TTL:      p.ttl,
	})
	if err != nil {
		return nil, domain.Upstream("トークンの発行に失敗しました", err)
	}
	refreshToken := uuid.NewString()
	p.refresh[refreshToken] = user.authID
	return &domain.IdentitySession{
		AccessToken:  token,
		RefreshToken: refreshToken,
		ExpiresIn:    int(p.ttl.Seconds()),
		AuthID:       user.authID,
		Email:        user.email,
		UserType:     user.userType,
	}, nil
}

// Revoked reports whether SignOut was called with accessToken.
func (p *IdentityProvider) Revoked(accessToken string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, ok := p.revoked[accessToken]
	return ok
}
