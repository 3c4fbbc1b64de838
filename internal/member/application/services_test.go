package application

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/memory"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
	"github.com/taka-shaka/matching-site-sub001/internal/notification/notificationtest"
)

type fixture struct {
	store    *memory.Store
	recorder *audit.Recorder
	owner    *domain.Member
	staff    *domain.Member
	outsider *domain.Member
	tags     []domain.Tag
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()

	own := &domain.Company{Name: "山田工務店", Email: "info@yamada.example"}
	require.NoError(t, store.Companies().Create(ctx, own))
	other := &domain.Company{Name: "佐藤建設", Email: "info@sato.example"}
	require.NoError(t, store.Companies().Create(ctx, other))

	owner := &domain.Member{AuthID: "owner", Email: "owner@yamada.example", Name: "山田", Role: domain.MemberRoleAdmin, CompanyID: own.ID, IsActive: true}
	require.NoError(t, store.Members().Create(ctx, owner))
	staff := &domain.Member{AuthID: "staff", Email: "staff@yamada.example", Name: "田中", Role: domain.MemberRoleGeneral, CompanyID: own.ID, IsActive: true}
	require.NoError(t, store.Members().Create(ctx, staff))
	outsider := &domain.Member{AuthID: "outsider", Email: "m@sato.example", Name: "佐藤", Role: domain.MemberRoleAdmin, CompanyID: other.ID, IsActive: true}
	require.NoError(t, store.Members().Create(ctx, outsider))

	var tags []domain.Tag
	for _, name := range []string{"平屋", "二階建て"} {
		tag := &domain.Tag{Name: name, Category: domain.TagCategoryHouseType}
		require.NoError(t, store.Tags().Create(ctx, tag))
		tags = append(tags, *tag)
	}

	return fixture{
		store:    store,
		recorder: audit.NewRecorder(store.ActivityLogs(), nil),
		owner:    owner,
		staff:    staff,
		outsider: outsider,
		tags:     tags,
	}
}

func (f fixture) cases() CaseService {
	return NewCaseService(f.store.Cases(), f.store.Tags(), f.recorder)
}

func strPtr(s string) *string { return &s }

func TestCaseService_CreateReturnsRequestedTags(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	area := decimal.RequireFromString("120.456")

	created, err := f.cases().Create(ctx, f.staff, CaseCommand{
		Patch: domain.CasePatch{
			Title:        strPtr("海の見える平屋"),
			Prefecture:   strPtr("神奈川県"),
			BuildingArea: &area,
		},
		TagIDs:    []uint{f.tags[0].ID, f.tags[1].ID},
		ImageURLs: []string{"https://img.example/1.jpg", "https://img.example/2.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, f.staff.CompanyID, created.CompanyID)
	assert.Equal(t, f.staff.ID, created.AuthorID)
	assert.Equal(t, domain.CaseStatusDraft, created.Status)
	assert.Equal(t, "120.46", created.BuildingArea.Decimal.String())

	detail, err := f.cases().Detail(ctx, f.staff, created.ID)
	require.NoError(t, err)
	ids := []uint{}
	for _, tag := range detail.Tags {
		ids = append(ids, tag.ID)
	}
	assert.ElementsMatch(t, []uint{f.tags[0].ID, f.tags[1].ID}, ids)
	require.Len(t, detail.Images, 2)
	assert.Equal(t, 1, detail.Images[0].DisplayOrder)

	_, err = f.cases().Create(ctx, f.staff, CaseCommand{
		Patch:  domain.CasePatch{Title: strPtr("不明タグ")},
		TagIDs: []uint{999},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCaseService_ForeignCaseIsForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.cases().Create(ctx, f.owner, CaseCommand{Patch: domain.CasePatch{Title: strPtr("自社の事例")}})
	require.NoError(t, err)

	_, err = f.cases().Detail(ctx, f.outsider, c.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = f.cases().Update(ctx, f.outsider, c.ID, CaseCommand{Patch: domain.CasePatch{Title: strPtr("乗っ取り")}})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.cases().Delete(ctx, f.outsider, c.ID), domain.ErrForbidden)

	_, err = f.cases().Detail(ctx, f.outsider, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, page, err := f.cases().List(ctx, f.outsider, domain.CaseFilter{}, domain.Paging{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, page.Total)
}

func TestCaseService_PublishStampsOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c, err := f.cases().Create(ctx, f.staff, CaseCommand{
		Patch:  domain.CasePatch{Title: strPtr("二世帯住宅")},
		TagIDs: []uint{f.tags[0].ID},
	})
	require.NoError(t, err)
	assert.Nil(t, c.PublishedAt)

	published, err := f.cases().Update(ctx, f.staff, c.ID, CaseCommand{Patch: domain.CasePatch{Status: strPtr("PUBLISHED")}})
	require.NoError(t, err)
	require.NotNil(t, published.PublishedAt)
	require.Len(t, published.Tags, 1, "nil TagIDs keep the current tags")
	first := *published.PublishedAt

	draft, err := f.cases().Update(ctx, f.staff, c.ID, CaseCommand{Patch: domain.CasePatch{Status: strPtr("DRAFT")}, TagIDs: []uint{}})
	require.NoError(t, err)
	assert.Equal(t, domain.CaseStatusDraft, draft.Status)
	assert.Equal(t, first, *draft.PublishedAt)
	assert.Empty(t, draft.Tags)

	_, err = f.cases().Update(ctx, f.staff, c.ID, CaseCommand{Patch: domain.CasePatch{Status: strPtr("ARCHIVED")}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCompanyService_RequiresCompanyAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewCompanyService(f.store.Companies(), f.store.Tags(), f.recorder)

	profile, err := service.Profile(ctx, f.staff)
	require.NoError(t, err)
	assert.Equal(t, "山田工務店", profile.Name)

	_, err = service.UpdateProfile(ctx, f.staff, domain.CompanyProfilePatch{Name: strPtr("改名")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = service.ReplaceTags(ctx, f.staff, []uint{f.tags[0].ID})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := service.UpdateProfile(ctx, f.owner, domain.CompanyProfilePatch{Description: strPtr("自然素材の家づくり")})
	require.NoError(t, err)
	assert.Equal(t, "自然素材の家づくり", updated.Description)

	_, err = service.UpdateProfile(ctx, f.owner, domain.CompanyProfilePatch{Email: strPtr("info@sato.example")})
	assert.ErrorIs(t, err, domain.ErrConflict)

	tagged, err := service.ReplaceTags(ctx, f.owner, []uint{f.tags[1].ID})
	require.NoError(t, err)
	require.Len(t, tagged.Tags, 1)
}

func TestStaffService_CreateInOwnCompany(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	identity := memory.NewIdentityProvider(auth.JWTConfig{Secret: []byte("member-app-test-secret-000000000")})
	provisioner := account.NewProvisioner(identity, f.store.Admins(), f.store.Members(), f.store.Customers(), f.store.Companies(), nil)
	service := NewStaffService(f.store.Members(), provisioner, f.recorder)

	_, err := service.Create(ctx, f.staff, account.MemberInput{Name: "新人", Email: "new@yamada.example", Password: "password123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	created, err := service.Create(ctx, f.owner, account.MemberInput{
		Name: "新人", Email: "new@yamada.example", Password: "password123", CompanyID: f.outsider.CompanyID,
	})
	require.NoError(t, err)
	assert.Equal(t, f.owner.CompanyID, created.CompanyID)
	assert.True(t, identity.HasUser("new@yamada.example"))

	list, page, err := service.List(ctx, f.owner, domain.Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, page.Total)
	for _, m := range list {
		assert.Equal(t, f.owner.CompanyID, m.CompanyID)
	}
}

func TestInquiryService_ReplyMovesNewToInProgress(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	inquiry := &domain.Inquiry{
		CompanyID:     f.staff.CompanyID,
		InquirerName:  "高橋",
		InquirerEmail: "t@example.jp",
		Message:       "見積もりをお願いします",
		Status:        domain.InquiryStatusNew,
	}
	require.NoError(t, f.store.Inquiries().Create(ctx, inquiry))

	mailer := &notificationtest.RecordingMailer{}
	notifier := notification.NewNotifier(notification.Config{Mailer: mailer})
	service := NewInquiryService(f.store.Inquiries(), notifier, f.recorder)

	_, err := service.Reply(ctx, f.outsider, inquiry.ID, "横から返信")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	replied, err := service.Reply(ctx, f.staff, inquiry.ID, "ご連絡ありがとうございます")
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusInProgress, replied.Status)
	require.NotNil(t, replied.RespondedAt)
	require.Len(t, replied.Responses, 1)
	assert.Equal(t, domain.SenderCompany, replied.Responses[0].Sender)
	require.NotNil(t, replied.Responses[0].MemberID)
	assert.Equal(t, f.staff.ID, *replied.Responses[0].MemberID)

	require.NoError(t, notifier.Wait(ctx))
	require.Len(t, mailer.Sent(), 1)
	assert.Equal(t, "t@example.jp", mailer.Sent()[0].To)

	resolved, err := service.Update(ctx, f.staff, inquiry.ID, InquiryPatch{Status: strPtr("RESOLVED")})
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusResolved, resolved.Status)

	again, err := service.Reply(ctx, f.staff, inquiry.ID, "追記です")
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusResolved, again.Status)
	assert.Equal(t, *replied.RespondedAt, *again.RespondedAt)
}
