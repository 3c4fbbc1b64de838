package member_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/memory"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/member"
	memberapp "github.com/taka-shaka/matching-site-sub001/internal/member/application"
)

var jwtConfig = auth.JWTConfig{Secret: []byte("member-handler-test-secret-00000")}

type fixture struct {
	store        *memory.Store
	router       http.Handler
	ownCompany   *domain.Company
	otherCompany *domain.Company
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	identity := memory.NewIdentityProvider(jwtConfig)
	provisioner := account.NewProvisioner(identity, store.Admins(), store.Members(), store.Customers(), store.Companies(), nil)
	recorder := audit.NewRecorder(store.ActivityLogs(), nil)

	own := &domain.Company{Name: "山田工務店", Email: "info@yamada.example"}
	require.NoError(t, store.Companies().Create(ctx, own))
	other := &domain.Company{Name: "鈴木建設", Email: "info@suzuki.example"}
	require.NoError(t, store.Companies().Create(ctx, other))
	require.NoError(t, store.Members().Create(ctx, &domain.Member{AuthID: "staff-auth", Email: "staff@yamada.example", Name: "山田", Role: domain.MemberRoleGeneral, CompanyID: own.ID, IsActive: true}))

	handler := member.NewHandler(member.Config{
		Guard:          auth.NewGuard(auth.NewJWTSessionResolver(jwtConfig), auth.NewRecordLoader(store.Admins(), store.Members(), store.Customers())),
		CompanyService: memberapp.NewCompanyService(store.Companies(), store.Tags(), recorder),
		StaffService:   memberapp.NewStaffService(store.Members(), provisioner, recorder),
		CaseService:    memberapp.NewCaseService(store.Cases(), store.Tags(), recorder),
		InquiryService: memberapp.NewInquiryService(store.Inquiries(), nil, recorder),
	})
	r := chi.NewRouter()
	r.Route("/api/member", handler.Register)
	return fixture{store: store, router: r, ownCompany: own, otherCompany: other}
}

func (f fixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	token, err := auth.SignToken(jwtConfig, auth.TokenSpec{AuthID: "staff-auth", UserType: "member"})
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func itoa(id uint) string { return strconv.FormatUint(uint64(id), 10) }

func TestCaseRoutes_TagsRoundTrip(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	first := &domain.Tag{Name: "平屋", Category: domain.TagCategoryHouseType}
	require.NoError(t, f.store.Tags().Create(ctx, first))
	second := &domain.Tag{Name: "木造", Category: domain.TagCategoryStructure}
	require.NoError(t, f.store.Tags().Create(ctx, second))

	body := `{"title":"平屋の家","buildingArea":"120.46","budget":30000000,` +
		`"tagIds":[` + itoa(first.ID) + `,` + itoa(second.ID) + `],"imageUrls":["https://img.example/1.jpg"]}`
	rec := f.do(t, http.MethodPost, "/api/member/cases", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode(t, rec)["case"].(map[string]any)
	assert.Equal(t, "DRAFT", created["status"])

	id := strconv.FormatFloat(created["id"].(float64), 'f', 0, 64)
	rec = f.do(t, http.MethodGet, "/api/member/cases/"+id, "")
	require.Equal(t, http.StatusOK, rec.Code)
	detail := decode(t, rec)["case"].(map[string]any)
	assert.Equal(t, "120.46", detail["buildingArea"])

	tags := detail["tags"].([]any)
	require.Len(t, tags, 2)
	got := []float64{tags[0].(map[string]any)["id"].(float64), tags[1].(map[string]any)["id"].(float64)}
	assert.ElementsMatch(t, []float64{float64(first.ID), float64(second.ID)}, got)
	assert.Len(t, detail["images"].([]any), 1)
}

func TestCaseRoutes_ForeignCompany(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	foreign := &domain.ConstructionCase{CompanyID: f.otherCompany.ID, Title: "他社の事例", Status: domain.CaseStatusPublished}
	require.NoError(t, f.store.Cases().Create(ctx, foreign))

	path := "/api/member/cases/" + itoa(foreign.ID)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodGet, path, "").Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodPatch, path, `{"title":"書き換え"}`).Code)
	assert.Equal(t, http.StatusForbidden, f.do(t, http.MethodDelete, path, "").Code)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/api/member/cases/9999", "").Code)

	stored, err := f.store.Cases().FindByID(ctx, foreign.ID)
	require.NoError(t, err)
	assert.Equal(t, "他社の事例", stored.Title)
}

func TestInquiryRoutes_Reply(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inquiry := &domain.Inquiry{CompanyID: f.ownCompany.ID, InquirerName: "田中", InquirerEmail: "tanaka@example.jp", Message: "相談です", Status: domain.InquiryStatusNew}
	require.NoError(t, f.store.Inquiries().Create(ctx, inquiry))

	rec := f.do(t, http.MethodPost, "/api/member/inquiries/"+itoa(inquiry.ID)+"/reply", `{"message":"ご連絡ありがとうございます"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode(t, rec)["inquiry"].(map[string]any)
	assert.Equal(t, "IN_PROGRESS", got["status"])
	assert.NotNil(t, got["respondedAt"])
	responses := got["responses"].([]any)
	require.Len(t, responses, 1)
	assert.Equal(t, "COMPANY", responses[0].(map[string]any)["sender"])

	rec = f.do(t, http.MethodPost, "/api/member/inquiries/"+itoa(inquiry.ID)+"/reply", `{"message":""}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCompanyRoutes_GeneralMemberCannotEdit(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/api/member/company", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "山田工務店", decode(t, rec)["company"].(map[string]any)["name"])

	rec = f.do(t, http.MethodPatch, "/api/member/company", `{"name":"改名"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "この操作は会社管理者のみ実行できます", decode(t, rec)["error"])
}
