package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

var (
	ErrUnauthenticated = errors.New("auth: no valid session")
	ErrWrongRole       = errors.New("auth: role does not match")
	ErrRecordMissing   = errors.New("auth: no active record for identity")
)

// Principal is a resolved session with its application row.
type Principal struct {
	Role     Role
	Identity *Identity
	Admin    *domain.Admin
	Member   *domain.Member
	Customer *domain.Customer
}

// Actor converts the principal for ownership checks.
func (p *Principal) Actor() Actor {
	switch p.Role {
	case RoleAdmin:
		return AdminActor(p.Admin)
	case RoleMember:
		return MemberActor(p.Member)
	case RoleCustomer:
		return CustomerActor(p.Customer)
	default:
		return Actor{}
	}
}

// Guard enforces the role required by an API route. Guards only read and may be
// called any number of times within a request.
type Guard struct {
	sessions SessionResolver
	loader   *RecordLoader
}

func NewGuard(sessions SessionResolver, loader *RecordLoader) *Guard {
	return &Guard{sessions: sessions, loader: loader}
}

func (g *Guard) RequireAdmin(ctx context.Context, r *http.Request) (*domain.Admin, error) {
	identity, err := g.identityWithRole(r, RoleAdmin)
	if err != nil {
		return nil, err
	}
	return g.loader.LoadAdmin(ctx, identity.AuthID)
}

func (g *Guard) RequireMember(ctx context.Context, r *http.Request) (*domain.Member, error) {
	identity, err := g.identityWithRole(r, RoleMember)
	if err != nil {
		return nil, err
	}
	return g.loader.LoadMember(ctx, identity.AuthID)
}

func (g *Guard) RequireCustomer(ctx context.Context, r *http.Request) (*domain.Customer, error) {
	identity, err := g.identityWithRole(r, RoleCustomer)
	if err != nil {
		return nil, err
	}
	return g.loader.LoadCustomer(ctx, identity.AuthID)
}

// Current resolves whichever role the session carries.
func (g *Guard) Current(ctx context.Context, r *http.Request) (*Principal, error) {
	identity := g.sessions.Resolve(r)
	role := Classify(identity)
	principal := &Principal{Role: role, Identity: identity}

	var err error
	switch role {
	case RoleAdmin:
		principal.Admin, err = g.loader.LoadAdmin(ctx, identity.AuthID)
	case RoleMember:
		principal.Member, err = g.loader.LoadMember(ctx, identity.AuthID)
	case RoleCustomer:
		principal.Customer, err = g.loader.LoadCustomer(ctx, identity.AuthID)
	default:
		return nil, ErrUnauthenticated
	}
	if err != nil {
		return nil, err
	}
	return principal, nil
}

func (g *Guard) identityWithRole(r *http.Request, want Role) (*Identity, error) {
	identity := g.sessions.Resolve(r)
	role := Classify(identity)
	if role == RoleUnknown {
		return nil, ErrUnauthenticated
	}
	if role != want {
		return nil, ErrWrongRole
	}
	return identity, nil
}
