package application

import (
	"context"
	"errors"
	"time"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"go.uber.org/zap"
)

var errAccountUnavailable = domain.Unauthenticated("このアカウントは利用できません")

// authService implements AuthService.
type authService struct {
	identity    domain.IdentityProvider
	provisioner *account.Provisioner
	loader      *auth.RecordLoader
	admins      domain.AdminRepository
	customers   domain.CustomerRepository
	logger      *zap.Logger
	now         func() time.Time
}

func NewAuthService(
	identity domain.IdentityProvider,
	provisioner *account.Provisioner,
	loader *auth.RecordLoader,
	admins domain.AdminRepository,
	customers domain.CustomerRepository,
	logger *zap.Logger,
) AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &authService{
		identity:    identity,
		provisioner: provisioner,
		loader:      loader,
		admins:      admins,
		customers:   customers,
		logger:      logger,
		now:         time.Now,
	}
}

// Signup only ever creates customers; staff accounts are provisioned by admins.
func (s *authService) Signup(ctx context.Context, in account.CustomerInput) (*domain.Customer, error) {
	return s.provisioner.CreateCustomer(ctx, in)
}

// Login signs in and checks that an active row backs the identity. The role
// comes from the token's app_metadata only.
func (s *authService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	normalized, err := domain.NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, domain.Validation("パスワードを入力してください")
	}
	session, err := s.identity.SignIn(ctx, normalized, password)
	if err != nil {
		return nil, err
	}

	role := auth.ParseRole(session.UserType)
	if err := s.checkRecord(ctx, role, session.AuthID); err != nil {
		return nil, err
	}
	return &LoginResult{Session: session, Role: role, RedirectTo: role.DashboardPath()}, nil
}

func (s *authService) Refresh(ctx context.Context, refreshToken string) (*domain.IdentitySession, error) {
	if refreshToken == "" {
		return nil, domain.Unauthenticated("ログインしてください")
	}
	return s.identity.Refresh(ctx, refreshToken)
}

// Logout revokes the session at the provider. An empty token is a no-op.
func (s *authService) Logout(ctx context.Context, accessToken string) error {
	if accessToken == "" {
		return nil
	}
	return s.identity.SignOut(ctx, accessToken)
}

func (s *authService) checkRecord(ctx context.Context, role auth.Role, authID string) error {
	var err error
	switch role {
	case auth.RoleAdmin:
		var admin *domain.Admin
		if admin, err = s.loader.LoadAdmin(ctx, authID); err == nil {
			s.touch(ctx, "admin", func(ctx context.Context, at time.Time) error {
				return s.admins.TouchLastLogin(ctx, admin.ID, at)
			})
		}
	case auth.RoleMember:
		_, err = s.loader.LoadMember(ctx, authID)
	case auth.RoleCustomer:
		var customer *domain.Customer
		if customer, err = s.loader.LoadCustomer(ctx, authID); err == nil {
			s.touch(ctx, "customer", func(ctx context.Context, at time.Time) error {
				return s.customers.TouchLastLogin(ctx, customer.ID, at)
			})
		}
	default:
		return errAccountUnavailable
	}
	if errors.Is(err, auth.ErrRecordMissing) {
		return errAccountUnavailable
	}
	return err
}

// touch records lastLoginAt; failures never block the login.
func (s *authService) touch(ctx context.Context, kind string, fn func(ctx context.Context, at time.Time) error) {
	if err := fn(context.WithoutCancel(ctx), s.now().UTC()); err != nil {
		s.logger.Warn("last login update failed", zap.String("kind", kind), zap.Error(err))
	}
}
