//go:build integration

package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()
	db, err := Open(ctx, Options{URL: url, MaxOpenConns: 4}, zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, db.Exec("DROP SCHEMA public CASCADE; CREATE SCHEMA public").Error)
	require.NoError(t, AutoMigrate(ctx, db))
	t.Cleanup(func() { _ = Close(db) })
	return db
}

func seedCompany(t *testing.T, store *Store, email string) (*domain.Company, *domain.Member) {
	t.Helper()
	ctx := context.Background()
	company := &domain.Company{Name: "山田工務店", Email: email, Prefecture: "東京都", IsPublished: true}
	require.NoError(t, store.Companies().Create(ctx, company))
	member := &domain.Member{AuthID: "auth-" + email, Email: "staff-" + email, Name: "担当", Role: domain.MemberRoleAdmin, CompanyID: company.ID, IsActive: true}
	require.NoError(t, store.Members().Create(ctx, member))
	return company, member
}

func TestTagRepository_OrdersStayContiguous(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()
	tags := store.Tags()

	var ids []uint
	for _, name := range []string{"平屋", "二階建て", "三階建て", "二世帯"} {
		tag := &domain.Tag{Name: name, Category: domain.TagCategoryHouseType}
		require.NoError(t, tags.Create(ctx, tag))
		ids = append(ids, tag.ID)
	}

	moved, err := tags.Reorder(ctx, ids[3], 1)
	require.NoError(t, err)
	assert.Equal(t, 1, moved.DisplayOrder)
	assertContiguous(t, tags, domain.TagCategoryHouseType)

	_, err = tags.Reorder(ctx, ids[0], 9)
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, tags.Delete(ctx, ids[1]))
	assertContiguous(t, tags, domain.TagCategoryHouseType)

	tag := &domain.Tag{ID: ids[2], Name: "三階建て", Category: domain.TagCategoryStructure}
	require.NoError(t, tags.Update(ctx, tag))
	assert.Equal(t, 1, tag.DisplayOrder)
	assertContiguous(t, tags, domain.TagCategoryHouseType)
	assertContiguous(t, tags, domain.TagCategoryStructure)

	dup := &domain.Tag{Name: "平屋", Category: domain.TagCategoryStructure}
	assert.ErrorIs(t, tags.Create(ctx, dup), domain.ErrConflict)
}

func TestTagRepository_DeleteInUse(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()
	company, _ := seedCompany(t, store, "info@yamada.example")

	tag := &domain.Tag{Name: "自然素材", Category: domain.TagCategoryPreference}
	require.NoError(t, store.Tags().Create(ctx, tag))
	require.NoError(t, store.Companies().ReplaceTags(ctx, company.ID, []uint{tag.ID}))

	assert.ErrorIs(t, store.Tags().Delete(ctx, tag.ID), domain.ErrConflict)

	filtered, total, err := store.Companies().Find(ctx, domain.CompanyFilter{TagIDs: []uint{tag.ID}}, domain.Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, filtered[0].Tags, 1)
}

func TestInquiryRepository_AddResponse(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()
	company, member := seedCompany(t, store, "info@sato.example")

	inquiry := &domain.Inquiry{CompanyID: company.ID, InquirerName: "田中", InquirerEmail: "tanaka@example.jp", Message: "見積もり希望"}
	require.NoError(t, store.Inquiries().Create(ctx, inquiry))

	resp := &domain.InquiryResponse{Sender: domain.SenderCompany, MemberID: &member.ID, Message: "ご連絡ありがとうございます"}
	updated, err := store.Inquiries().AddResponse(ctx, inquiry.ID, resp, domain.InquiryStatus.AfterCompanyReply, true)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusInProgress, updated.Status)
	assert.NotNil(t, updated.RespondedAt)
	require.Len(t, updated.Responses, 1)

	inquiry.Status = domain.InquiryStatusClosed
	require.NoError(t, store.Inquiries().Update(ctx, inquiry))
	_, err = store.Inquiries().AddResponse(ctx, inquiry.ID, &domain.InquiryResponse{Sender: domain.SenderCustomer, Message: "追加"}, domain.InquiryStatus.AfterCustomerReply, false)
	assert.ErrorIs(t, err, domain.ErrValidation)

	reloaded, err := store.Inquiries().FindByID(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Len(t, reloaded.Responses, 1)

	require.NoError(t, store.Members().Delete(ctx, member.ID))
	reloaded, err = store.Inquiries().FindByID(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Nil(t, reloaded.Responses[0].MemberID)
}

func TestCaseRepository_CreateAndFilter(t *testing.T) {
	store := NewStore(openTestDB(t))
	ctx := context.Background()
	company, member := seedCompany(t, store, "info@kato.example")

	tag := &domain.Tag{Name: "木造", Category: domain.TagCategoryStructure}
	require.NoError(t, store.Tags().Create(ctx, tag))

	budget := 3000
	c := &domain.ConstructionCase{
		CompanyID:    company.ID,
		AuthorID:     member.ID,
		Title:        "木の家",
		Status:       domain.CaseStatusPublished,
		Budget:       &budget,
		BuildingArea: decimal.NewNullDecimal(decimal.RequireFromString("105.50")),
		Tags:         []domain.Tag{{ID: tag.ID}},
		Images:       []domain.CaseImage{{ImageURL: "https://img.example/1.jpg"}, {ImageURL: "https://img.example/2.jpg"}},
	}
	require.NoError(t, store.Cases().Create(ctx, c))
	assert.Len(t, c.Images, 2)
	assert.True(t, c.BuildingArea.Decimal.Equal(decimal.RequireFromString("105.5")))

	require.NoError(t, store.Cases().IncrementViewCount(ctx, c.ID))
	minBudget := 2000
	found, total, err := store.Cases().Find(ctx, domain.CaseFilter{MinBudget: &minBudget, TagIDs: []uint{tag.ID}, PublishedCompaniesOnly: true}, domain.Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, 1, found[0].ViewCount)

	require.NoError(t, store.Members().Delete(ctx, member.ID))
	_, err = store.Cases().FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func assertContiguous(t *testing.T, tags *TagRepository, category domain.TagCategory) {
	t.Helper()
	list, err := tags.List(context.Background(), category)
	require.NoError(t, err)
	orders := make([]int, 0, len(list))
	for _, tag := range list {
		orders = append(orders, tag.DisplayOrder)
	}
	assert.True(t, domain.IsContiguous(orders), "orders %v", orders)
}
