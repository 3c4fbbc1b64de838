// Package account provisions identity-provider users together with their
// local Admin, Member or Customer rows.
package account

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"go.uber.org/zap"
)

const minPasswordLength = 8

type MemberInput struct {
	Name      string
	Email     string
	Password  string
	Role      domain.MemberRole
	CompanyID uint
}

type CustomerInput struct {
	Email       string
	Password    string
	LastName    string
	FirstName   string
	PhoneNumber string
}

type AdminInput struct {
	Name     string
	Email    string
	Password string
	Role     domain.AdminRole
}

// Provisioner creates the identity user first; when the row insert fails the
// identity user is deleted again so no orphan account can sign in.
type Provisioner struct {
	identity  domain.IdentityProvider
	admins    domain.AdminRepository
	members   domain.MemberRepository
	customers domain.CustomerRepository
	companies domain.CompanyRepository
	logger    *zap.Logger
}

func NewProvisioner(
	identity domain.IdentityProvider,
	admins domain.AdminRepository,
	members domain.MemberRepository,
	customers domain.CustomerRepository,
	companies domain.CompanyRepository,
	logger *zap.Logger,
) *Provisioner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Provisioner{
		identity:  identity,
		admins:    admins,
		members:   members,
		customers: customers,
		companies: companies,
		logger:    logger,
	}
}

func (p *Provisioner) CreateMember(ctx context.Context, in MemberInput) (*domain.Member, error) {
	email, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.Validation("名前は必須です")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	role := in.Role
	if role == "" {
		role = domain.MemberRoleGeneral
	}
	if _, err := domain.ParseMemberRole(string(role)); err != nil {
		return nil, err
	}

	if _, err := p.companies.FindByID(ctx, in.CompanyID); err != nil {
		return nil, err
	}
	exists, err := p.members.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflict("このメールアドレスは既に登録されています")
	}

	authID, err := p.identity.CreateUser(ctx, domain.NewIdentityUser{
		Email:    email,
		Password: in.Password,
		UserType: domain.UserTypeMember,
		Name:     name,
	})
	if err != nil {
		return nil, err
	}

	member := &domain.Member{
		AuthID:    authID,
		Email:     email,
		Name:      name,
		Role:      role,
		CompanyID: in.CompanyID,
		IsActive:  true,
	}
	if err := p.members.Create(ctx, member); err != nil {
		p.compensate(ctx, authID, err)
		return nil, err
	}
	return member, nil
}

func (p *Provisioner) CreateCustomer(ctx context.Context, in CustomerInput) (*domain.Customer, error) {
	email, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	lastName := strings.TrimSpace(in.LastName)
	if lastName == "" {
		return nil, domain.Validation("姓は必須です")
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, err
	}
	exists, err := p.customers.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.Conflict("このメールアドレスは既に登録されています")
	}

	authID, err := p.identity.CreateUser(ctx, domain.NewIdentityUser{
		Email:    email,
		Password: in.Password,
		UserType: domain.UserTypeCustomer,
		Name:     lastName,
	})
	if err != nil {
		return nil, err
	}

	customer := &domain.Customer{
		AuthID:      authID,
		Email:       email,
		LastName:    lastName,
		FirstName:   strings.TrimSpace(in.FirstName),
		PhoneNumber: strings.TrimSpace(in.PhoneNumber),
		IsActive:    true,
	}
	if err := p.customers.Create(ctx, customer); err != nil {
		p.compensate(ctx, authID, err)
		return nil, err
	}
	return customer, nil
}

// EnsureAdmin returns the admin registered under the email, creating it when
// absent. created is false when the row already existed.
func (p *Provisioner) EnsureAdmin(ctx context.Context, in AdminInput) (admin *domain.Admin, created bool, err error) {
	email, err := domain.NormalizeEmail(in.Email)
	if err != nil {
		return nil, false, err
	}
	existing, err := p.admins.FindByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, err
	}
	if err := checkPassword(in.Password); err != nil {
		return nil, false, err
	}

	role := in.Role
	if role == "" {
		role = domain.AdminRoleSuperAdmin
	}
	authID, err := p.identity.CreateUser(ctx, domain.NewIdentityUser{
		Email:    email,
		Password: in.Password,
		UserType: domain.UserTypeAdmin,
		Name:     in.Name,
	})
	if err != nil {
		return nil, false, err
	}
	admin = &domain.Admin{
		AuthID:   authID,
		Email:    email,
		Name:     strings.TrimSpace(in.Name),
		Role:     role,
		IsActive: true,
	}
	if err := p.admins.Create(ctx, admin); err != nil {
		p.compensate(ctx, authID, err)
		return nil, false, err
	}
	return admin, true, nil
}

// DeleteIdentity removes the identity user of a deleted row. Failures are
// logged only; the local row is already gone.
func (p *Provisioner) DeleteIdentity(ctx context.Context, authID string) {
	if authID == "" {
		return
	}
	if err := p.identity.DeleteUser(context.WithoutCancel(ctx), authID); err != nil {
		p.logger.Warn("identity user delete failed", zap.String("auth_id", authID), zap.Error(err))
	}
}

func (p *Provisioner) compensate(ctx context.Context, authID string, cause error) {
	p.logger.Warn("row insert failed, removing identity user",
		zap.String("auth_id", authID),
		zap.Error(cause),
	)
	p.DeleteIdentity(ctx, authID)
}

func checkPassword(password string) error {
	if utf8.RuneCountInString(password) < minPasswordLength {
		return domain.Validation("パスワードは8文字以上で入力してください")
	}
	return nil
}
