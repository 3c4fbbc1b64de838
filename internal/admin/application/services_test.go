package application

import (
	"context"
	"errors"
	"testing"

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

const adminID uint = 1

type fixture struct {
	store       *memory.Store
	identity    *memory.IdentityProvider
	provisioner *account.Provisioner
	recorder    *audit.Recorder
}

func newFixture() fixture {
	store := memory.NewStore()
	identity := memory.NewIdentityProvider(auth.JWTConfig{Secret: []byte("admin-app-test-secret-0000000000")})
	return fixture{
		store:       store,
		identity:    identity,
		provisioner: account.NewProvisioner(identity, store.Admins(), store.Members(), store.Customers(), store.Companies(), nil),
		recorder:    audit.NewRecorder(store.ActivityLogs(), nil),
	}
}

func (f fixture) companies() CompanyService {
	return NewCompanyService(f.store.Companies(), f.store.Members(), f.store.Tags(), f.provisioner, f.recorder)
}

func (f fixture) tagService() TagService {
	return NewTagService(f.store.Tags(), f.recorder)
}

func strPtr(s string) *string { return &s }

func (f fixture) logActions(t *testing.T) []string {
	t.Helper()
	logs, _, err := f.store.ActivityLogs().Find(context.Background(), domain.Paging{Limit: domain.MaxPageLimit})
	require.NoError(t, err)
	actions := make([]string, 0, len(logs))
	for _, entry := range logs {
		actions = append(actions, entry.Action)
	}
	return actions
}

func TestCompanyService_Create(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tag, err := f.tagService().Create(ctx, adminID, "平屋", domain.TagCategoryHouseType)
	require.NoError(t, err)

	company, err := f.companies().Create(ctx, adminID, CompanyCommand{
		Profile: domain.CompanyProfilePatch{
			Name:       strPtr(" 山田工務店 "),
			Email:      strPtr("Info@Yamada.example"),
			Prefecture: strPtr("東京都"),
		},
		TagIDs: []uint{tag.ID, tag.ID},
	})
	require.NoError(t, err)
	assert.Equal(t, "山田工務店", company.Name)
	assert.Equal(t, "info@yamada.example", company.Email)
	require.Len(t, company.Tags, 1)
	assert.Contains(t, f.logActions(t), domain.ActionCompanyCreated)

	_, err = f.companies().Create(ctx, adminID, CompanyCommand{
		Profile: domain.CompanyProfilePatch{Name: strPtr("別会社"), Email: strPtr("info@yamada.example")},
	})
	assert.ErrorIs(t, err, domain.ErrConflict)

	_, err = f.companies().Create(ctx, adminID, CompanyCommand{
		Profile: domain.CompanyProfilePatch{Name: strPtr("タグ不正"), Email: strPtr("x@example.jp")},
		TagIDs:  []uint{999},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = f.companies().Create(ctx, adminID, CompanyCommand{Profile: domain.CompanyProfilePatch{Email: strPtr("y@example.jp")}})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCompanyService_UpdateAndReplaceTags(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	company, err := f.companies().Create(ctx, adminID, CompanyCommand{
		Profile: domain.CompanyProfilePatch{Name: strPtr("佐藤建設"), Email: strPtr("sato@example.jp")},
	})
	require.NoError(t, err)

	published := true
	updated, err := f.companies().Update(ctx, adminID, company.ID, CompanyPatch{
		Profile:     domain.CompanyProfilePatch{City: strPtr("渋谷区")},
		IsPublished: &published,
	})
	require.NoError(t, err)
	assert.True(t, updated.IsPublished)
	assert.Equal(t, "渋谷区", updated.City)
	assert.Equal(t, "佐藤建設", updated.Name)

	_, err = f.companies().Update(ctx, adminID, company.ID, CompanyPatch{
		Profile: domain.CompanyProfilePatch{Prefecture: strPtr("東京")},
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	a, err := f.tagService().Create(ctx, adminID, "木造", domain.TagCategoryStructure)
	require.NoError(t, err)
	b, err := f.tagService().Create(ctx, adminID, "平屋", domain.TagCategoryHouseType)
	require.NoError(t, err)
	tagged, err := f.companies().ReplaceTags(ctx, adminID, company.ID, []uint{a.ID, b.ID})
	require.NoError(t, err)
	require.Len(t, tagged.Tags, 2)
	assert.Equal(t, "平屋", tagged.Tags[0].Name, "tags come back in category order")

	_, err = f.companies().ReplaceTags(ctx, adminID, 999, nil)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCompanyService_DeleteRemovesMemberIdentities(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	company, err := f.companies().Create(ctx, adminID, CompanyCommand{
		Profile: domain.CompanyProfilePatch{Name: strPtr("削除予定工務店"), Email: strPtr("del@example.jp")},
	})
	require.NoError(t, err)
	members := NewMemberService(f.store.Members(), f.provisioner, f.recorder)
	_, err = members.Create(ctx, adminID, account.MemberInput{
		Name: "担当", Email: "staff@example.jp", Password: "password123", CompanyID: company.ID,
	})
	require.NoError(t, err)
	require.True(t, f.identity.HasUser("staff@example.jp"))

	require.NoError(t, f.companies().Delete(ctx, adminID, company.ID))
	assert.False(t, f.identity.HasUser("staff@example.jp"))
	_, err = f.store.Companies().FindByID(ctx, company.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, f.companies().Delete(ctx, adminID, company.ID), domain.ErrNotFound)
}

func TestMemberService_UpdateAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	company := &domain.Company{Name: "鈴木ハウス", Email: "suzuki@example.jp"}
	require.NoError(t, f.store.Companies().Create(ctx, company))
	service := NewMemberService(f.store.Members(), f.provisioner, f.recorder)

	member, err := service.Create(ctx, adminID, account.MemberInput{
		Name: "鈴木", Email: "m@example.jp", Password: "password123", CompanyID: company.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.MemberRoleGeneral, member.Role)
	require.NotNil(t, member.Company)

	inactive := false
	updated, err := service.Update(ctx, adminID, member.ID, MemberPatch{Role: strPtr("ADMIN"), IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, domain.MemberRoleAdmin, updated.Role)
	assert.False(t, updated.IsActive)

	_, err = service.Update(ctx, adminID, member.ID, MemberPatch{Role: strPtr("OWNER")})
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, service.Delete(ctx, adminID, member.ID))
	assert.False(t, f.identity.HasUser("m@example.jp"))
	assert.Contains(t, f.logActions(t), domain.ActionMemberDeleted)
}

func TestCustomerService_SetActive(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	customer := &domain.Customer{AuthID: "c-auth", Email: "c@example.jp", LastName: "田中", IsActive: true}
	require.NoError(t, f.store.Customers().Create(ctx, customer))
	service := NewCustomerService(f.store.Customers(), f.provisioner, f.recorder)

	suspended, err := service.SetActive(ctx, adminID, customer.ID, false)
	require.NoError(t, err)
	assert.False(t, suspended.IsActive)

	restored, err := service.SetActive(ctx, adminID, customer.ID, true)
	require.NoError(t, err)
	assert.True(t, restored.IsActive)

	_, err = service.SetActive(ctx, adminID, 404, true)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTagService_ReorderKeepsCategoryContiguous(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	service := f.tagService()
	var ids []uint
	for _, name := range []string{"ナチュラル", "モダン", "和風", "北欧"} {
		tag, err := service.Create(ctx, adminID, name, domain.TagCategoryAtmosphere)
		require.NoError(t, err)
		ids = append(ids, tag.ID)
	}

	moved, err := service.Reorder(ctx, adminID, ids[3], 1)
	require.NoError(t, err)
	assert.Equal(t, 1, moved.DisplayOrder)

	tags, err := service.List(ctx, domain.TagCategoryAtmosphere)
	require.NoError(t, err)
	names := make([]string, 0, len(tags))
	for _, tag := range tags {
		names = append(names, tag.Name)
	}
	assert.Equal(t, []string{"北欧", "ナチュラル", "モダン", "和風"}, names)

	_, err = service.Reorder(ctx, adminID, ids[0], 5)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Contains(t, f.logActions(t), domain.ActionTagReordered)
}

// countingTags records how often the locking repository paths are entered.
type countingTags struct {
	domain.TagRepository
	reorders int
	deletes  int
}

func (c *countingTags) Reorder(ctx context.Context, id uint, newOrder int) (*domain.Tag, error) {
	c.reorders++
	return c.TagRepository.Reorder(ctx, id, newOrder)
}

func (c *countingTags) Delete(ctx context.Context, id uint) error {
	c.deletes++
	return c.TagRepository.Delete(ctx, id)
}

func TestTagService_ReorderNoOpSkipsRepository(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tags := &countingTags{TagRepository: f.store.Tags()}
	service := NewTagService(tags, f.recorder)
	var ids []uint
	for _, name := range []string{"木造", "鉄骨造", "RC造"} {
		tag, err := service.Create(ctx, adminID, name, domain.TagCategoryStructure)
		require.NoError(t, err)
		ids = append(ids, tag.ID)
	}

	same, err := service.Reorder(ctx, adminID, ids[1], 2)
	require.NoError(t, err)
	assert.Equal(t, 2, same.DisplayOrder)
	assert.Zero(t, tags.reorders)

	_, err = service.Reorder(ctx, adminID, ids[1], 4)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.Reorder(ctx, adminID, ids[1], 0)
	assert.ErrorIs(t, err, domain.ErrValidation)
	assert.Zero(t, tags.reorders)
	assert.NotContains(t, f.logActions(t), domain.ActionTagReordered)

	moved, err := service.Reorder(ctx, adminID, ids[1], 3)
	require.NoError(t, err)
	assert.Equal(t, 3, moved.DisplayOrder)
	assert.Equal(t, 1, tags.reorders)
}

func TestTagService_DeleteInUseSkipsRepository(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tags := &countingTags{TagRepository: f.store.Tags()}
	service := NewTagService(tags, f.recorder)
	tag, err := service.Create(ctx, adminID, "ガレージ", domain.TagCategoryPreference)
	require.NoError(t, err)
	_, err = f.companies().Create(ctx, adminID, CompanyCommand{
		Profile: domain.CompanyProfilePatch{Name: strPtr("ガレージハウス工房"), Email: strPtr("garage@example.jp")},
		TagIDs:  []uint{tag.ID},
	})
	require.NoError(t, err)

	assert.ErrorIs(t, service.Delete(ctx, adminID, tag.ID), domain.ErrTagInUse)
	assert.Zero(t, tags.deletes)
}

func TestTagService_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	service := f.tagService()
	tag, err := service.Create(ctx, adminID, "平屋", domain.TagCategoryHouseType)
	require.NoError(t, err)
	assert.Equal(t, 1, tag.DisplayOrder)

	_, err = service.Create(ctx, adminID, "平屋", domain.TagCategoryStructure)
	assert.ErrorIs(t, err, domain.ErrConflict)
	_, err = service.Create(ctx, adminID, "  ", domain.TagCategoryStructure)
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = service.Create(ctx, adminID, "謎", domain.TagCategory("COLOR"))
	assert.ErrorIs(t, err, domain.ErrValidation)

	moved, err := service.Update(ctx, adminID, tag.ID, TagPatch{Category: strPtr("STRUCTURE")})
	require.NoError(t, err)
	assert.Equal(t, domain.TagCategoryStructure, moved.Category)
	assert.Equal(t, 1, moved.DisplayOrder)
}

func TestTagService_DeleteInUse(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	tag, err := f.tagService().Create(ctx, adminID, "平屋", domain.TagCategoryHouseType)
	require.NoError(t, err)
	_, err = f.companies().Create(ctx, adminID, CompanyCommand{
		Profile: domain.CompanyProfilePatch{Name: strPtr("平屋専門"), Email: strPtr("hiraya@example.jp")},
		TagIDs:  []uint{tag.ID},
	})
	require.NoError(t, err)

	err = f.tagService().Delete(ctx, adminID, tag.ID)
	assert.ErrorIs(t, err, domain.ErrTagInUse)
}

func TestGeneralInquiryService_Reply(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	inquiry := &domain.GeneralInquiry{Name: "高橋", Email: "t@example.jp", Subject: "掲載について", Message: "掲載方法を教えてください", Status: domain.InquiryStatusNew}
	require.NoError(t, f.store.GeneralInquiries().Create(ctx, inquiry))

	mailer := &notificationtest.RecordingMailer{}
	notifier := notification.NewNotifier(notification.Config{Mailer: mailer})
	service := NewGeneralInquiryService(f.store.GeneralInquiries(), notifier, f.recorder)

	_, err := service.Reply(ctx, adminID, inquiry.ID, "   ")
	assert.ErrorIs(t, err, domain.ErrValidation)

	replied, err := service.Reply(ctx, adminID, inquiry.ID, "担当よりご連絡いたします")
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusInProgress, replied.Status)
	assert.NotNil(t, replied.RespondedAt)
	require.Len(t, replied.Responses, 1)
	assert.Equal(t, domain.SenderAdmin, replied.Responses[0].Sender)

	require.NoError(t, notifier.Wait(ctx))
	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "t@example.jp", sent[0].To)

	closed, err := service.Update(ctx, adminID, inquiry.ID, InquiryPatch{Status: strPtr("CLOSED"), InternalNotes: strPtr("対応済み")})
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusClosed, closed.Status)
	assert.Equal(t, "対応済み", closed.InternalNotes)

	_, err = service.Update(ctx, adminID, inquiry.ID, InquiryPatch{Status: strPtr("DONE")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDashboardService(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	require.NoError(t, f.store.Companies().Create(ctx, &domain.Company{Name: "A", Email: "a@example.jp", IsPublished: true}))
	require.NoError(t, f.store.Companies().Create(ctx, &domain.Company{Name: "B", Email: "b@example.jp"}))

	failures := notification.NewMemoryFailureLog()
	require.NoError(t, failures.RecordFailure(ctx, notification.FailedNotification{
		ID: "n-1", Kind: notification.KindInquiryReceived, Reference: "inquiry:1", Recipient: "a@example.jp", Subject: "件名", Body: "本文",
	}))
	mailer := &notificationtest.RecordingMailer{}
	service := NewDashboardService(DashboardDeps{
		Companies:        f.store.Companies(),
		Members:          f.store.Members(),
		Customers:        f.store.Customers(),
		Cases:            f.store.Cases(),
		Inquiries:        f.store.Inquiries(),
		GeneralInquiries: f.store.GeneralInquiries(),
		ActivityLogs:     f.store.ActivityLogs(),
		Failures:         failures,
		Mailer:           mailer,
		Audit:            f.recorder,
	})

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stats.Companies)
	assert.EqualValues(t, 1, stats.PublishedCompanies)
	assert.EqualValues(t, 1, stats.PendingNotifications)

	_, err = service.FailedNotifications(ctx, "lost", 10)
	assert.ErrorIs(t, err, domain.ErrValidation)

	mailer.FailWith(errors.New("smtp down"))
	_, err = service.ResendNotification(ctx, adminID, "n-1")
	assert.ErrorIs(t, err, domain.ErrUpstream)

	mailer.FailWith(nil)
	resent, err := service.ResendNotification(ctx, adminID, "n-1")
	require.NoError(t, err)
	assert.Equal(t, notification.StatusSent, resent.Status)
	assert.Equal(t, 2, resent.Attempts)
	assert.Len(t, mailer.Sent(), 1)

	_, err = service.ResendNotification(ctx, adminID, "n-1")
	assert.ErrorIs(t, err, domain.ErrConflict)

	pending, err := service.FailedNotifications(ctx, notification.StatusPending, 0)
	require.NoError(t, err)
	assert.Empty(t, pending)

	logs, page, err := service.ActivityLogs(ctx, domain.Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, page.Total)
	assert.Equal(t, domain.ActionNotificationResent, logs[0].Action)
}
