package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/memory"
)

var jwtConfig = auth.JWTConfig{Secret: []byte("guard-test-secret-guard-test-000")}

type fixture struct {
	guard    *auth.Guard
	admin    *domain.Admin
	member   *domain.Member
	customer *domain.Customer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	company := &domain.Company{Name: "山田工務店", Email: "info@yamada.example"}
	require.NoError(t, store.Companies().Create(ctx, company))

	admin := &domain.Admin{AuthID: "admin-auth", Email: "admin@example.jp", Name: "管理者", Role: domain.AdminRoleSuperAdmin, IsActive: true}
	require.NoError(t, store.Admins().Create(ctx, admin))
	member := &domain.Member{AuthID: "member-auth", Email: "m@example.jp", Name: "社員", Role: domain.MemberRoleGeneral, CompanyID: company.ID, IsActive: true}
	require.NoError(t, store.Members().Create(ctx, member))
	customer := &domain.Customer{AuthID: "customer-auth", Email: "c@example.jp", LastName: "田中", IsActive: true}
	require.NoError(t, store.Customers().Create(ctx, customer))
	inactive := &domain.Customer{AuthID: "inactive-auth", Email: "x@example.jp", LastName: "停止"}
	require.NoError(t, store.Customers().Create(ctx, inactive))

	loader := auth.NewRecordLoader(store.Admins(), store.Members(), store.Customers())
	return fixture{
		guard:    auth.NewGuard(auth.NewJWTSessionResolver(jwtConfig), loader),
		admin:    admin,
		member:   member,
		customer: customer,
	}
}

func requestAs(t *testing.T, authID, userType string) *http.Request {
	t.Helper()
	r := httptest.NewRequest(http.MethodGet, "/api/x", nil)
	if authID == "" {
		return r
	}
	token, err := auth.SignToken(jwtConfig, auth.TokenSpec{AuthID: authID, UserType: userType})
	require.NoError(t, err)
	r.AddCookie(&http.Cookie{Name: auth.AccessTokenCookie, Value: token})
	return r
}

func TestGuard_RequireAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	admin, err := f.guard.RequireAdmin(ctx, requestAs(t, "admin-auth", "admin"))
	require.NoError(t, err)
	assert.Equal(t, f.admin.ID, admin.ID)

	_, err = f.guard.RequireAdmin(ctx, requestAs(t, "", ""))
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)

	_, err = f.guard.RequireAdmin(ctx, requestAs(t, "member-auth", "member"))
	assert.ErrorIs(t, err, auth.ErrWrongRole)

	_, err = f.guard.RequireAdmin(ctx, requestAs(t, "ghost", "admin"))
	assert.ErrorIs(t, err, auth.ErrRecordMissing)
}

func TestGuard_RequireMemberLoadsCompany(t *testing.T) {
	f := newFixture(t)
	r := requestAs(t, "member-auth", "member")

	member, err := f.guard.RequireMember(context.Background(), r)
	require.NoError(t, err)
	require.NotNil(t, member.Company)
	assert.Equal(t, f.member.CompanyID, member.Company.ID)

	again, err := f.guard.RequireMember(context.Background(), r)
	require.NoError(t, err)
	assert.Equal(t, member.ID, again.ID)
}

func TestGuard_RequireCustomer(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	customer, err := f.guard.RequireCustomer(ctx, requestAs(t, "customer-auth", "customer"))
	require.NoError(t, err)
	assert.Equal(t, f.customer.ID, customer.ID)

	_, err = f.guard.RequireCustomer(ctx, requestAs(t, "inactive-auth", "customer"))
	assert.ErrorIs(t, err, auth.ErrRecordMissing)

	_, err = f.guard.RequireCustomer(ctx, requestAs(t, "customer-auth", "unknown"))
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}

func TestGuard_Current(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	principal, err := f.guard.Current(ctx, requestAs(t, "member-auth", "member"))
	require.NoError(t, err)
	assert.Equal(t, auth.RoleMember, principal.Role)
	assert.Equal(t, auth.Actor{Role: auth.RoleMember, ID: f.member.ID, CompanyID: f.member.CompanyID}, principal.Actor())

	_, err = f.guard.Current(ctx, requestAs(t, "", ""))
	assert.ErrorIs(t, err, auth.ErrUnauthenticated)
}
