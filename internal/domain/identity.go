package domain

import "context"

// User types stored in the identity provider's server-set app metadata.
const (
	UserTypeAdmin    = "admin"
	UserTypeMember   = "member"
	UserTypeCustomer = "customer"
)

// NewIdentityUser describes an account to provision at the identity provider.
type NewIdentityUser struct {
	Email    string
	Password string
	UserType string
	Name     string
}

// IdentitySession is a token pair issued by the identity provider.
type IdentitySession struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int
	AuthID       string
	Email        string
	UserType     string
}

// IdentityProvider is the external authentication service.
type IdentityProvider interface {
	CreateUser(ctx context.Context, user NewIdentityUser) (authID string, err error)
	DeleteUser(ctx context.Context, authID string) error
	SignIn(ctx context.Context, email, password string) (*IdentitySession, error)
	Refresh(ctx context.Context, refreshToken string) (*IdentitySession, error)
	SignOut(ctx context.Context, accessToken string) error
}
