package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

func seedTags(t *testing.T, repo *TagRepository, category domain.TagCategory, names ...string) []domain.Tag {
	t.Helper()
	tags := make([]domain.Tag, 0, len(names))
	for _, name := range names {
		tag := &domain.Tag{Name: name, Category: category}
		require.NoError(t, repo.Create(context.Background(), tag))
		tags = append(tags, *tag)
	}
	return tags
}

func orders(t *testing.T, repo *TagRepository, category domain.TagCategory) map[string]int {
	t.Helper()
	list, err := repo.List(context.Background(), category)
	require.NoError(t, err)
	result := make(map[string]int, len(list))
	values := make([]int, 0, len(list))
	for _, tag := range list {
		result[tag.Name] = tag.DisplayOrder
		values = append(values, tag.DisplayOrder)
	}
	require.True(t, domain.IsContiguous(values), "orders %v", values)
	return result
}

func TestTagRepository_CreateAppends(t *testing.T) {
	repo := NewStore().Tags()
	seedTags(t, repo, domain.TagCategoryHouseType, "平屋", "二階建て")
	seedTags(t, repo, domain.TagCategoryStructure, "木造")

	assert.Equal(t, map[string]int{"平屋": 1, "二階建て": 2}, orders(t, repo, domain.TagCategoryHouseType))
	assert.Equal(t, map[string]int{"木造": 1}, orders(t, repo, domain.TagCategoryStructure))

	err := repo.Create(context.Background(), &domain.Tag{Name: "平屋", Category: domain.TagCategoryPreference})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestTagRepository_Reorder(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Tags()
	tags := seedTags(t, repo, domain.TagCategoryAtmosphere, "A", "B", "C", "D")

	moved, err := repo.Reorder(ctx, tags[0].ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, moved.DisplayOrder)
	assert.Equal(t, map[string]int{"B": 1, "C": 2, "A": 3, "D": 4}, orders(t, repo, domain.TagCategoryAtmosphere))

	_, err = repo.Reorder(ctx, tags[3].ID, 1)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"D": 1, "B": 2, "C": 3, "A": 4}, orders(t, repo, domain.TagCategoryAtmosphere))

	before := orders(t, repo, domain.TagCategoryAtmosphere)
	_, err = repo.Reorder(ctx, tags[2].ID, 3)
	require.NoError(t, err)
	assert.Equal(t, before, orders(t, repo, domain.TagCategoryAtmosphere))

	_, err = repo.Reorder(ctx, tags[2].ID, 5)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTagRepository_DeleteRejectsUsedTags(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	repo := store.Tags()
	tags := seedTags(t, repo, domain.TagCategoryPriceRange, "〜2000万円", "2000〜3000万円", "3000万円〜")

	company := &domain.Company{Name: "山田工務店", Email: "info@yamada.example", Tags: []domain.Tag{{ID: tags[1].ID}}}
	require.NoError(t, store.Companies().Create(ctx, company))

	err := repo.Delete(ctx, tags[1].ID)
	assert.ErrorIs(t, err, domain.ErrTagInUse)
	assert.Len(t, orders(t, repo, domain.TagCategoryPriceRange), 3)

	require.NoError(t, repo.Delete(ctx, tags[0].ID))
	assert.Equal(t, map[string]int{"2000〜3000万円": 1, "3000万円〜": 2}, orders(t, repo, domain.TagCategoryPriceRange))
}

func TestTagRepository_UpdateMovesCategory(t *testing.T) {
	ctx := context.Background()
	repo := NewStore().Tags()
	houses := seedTags(t, repo, domain.TagCategoryHouseType, "平屋", "二階建て", "三階建て")
	seedTags(t, repo, domain.TagCategoryStructure, "木造")

	tag := houses[0]
	tag.Category = domain.TagCategoryStructure
	require.NoError(t, repo.Update(ctx, &tag))
	assert.Equal(t, 2, tag.DisplayOrder)

	assert.Equal(t, map[string]int{"二階建て": 1, "三階建て": 2}, orders(t, repo, domain.TagCategoryHouseType))
	assert.Equal(t, map[string]int{"木造": 1, "平屋": 2}, orders(t, repo, domain.TagCategoryStructure))
}

func TestInquiryRepository_AddResponseIsAllOrNothing(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	company := &domain.Company{Name: "佐藤建設", Email: "sato@example.jp"}
	require.NoError(t, store.Companies().Create(ctx, company))

	inquiry := &domain.Inquiry{CompanyID: company.ID, InquirerName: "田中", InquirerEmail: "tanaka@example.jp", Message: "見積もり希望"}
	require.NoError(t, store.Inquiries().Create(ctx, inquiry))
	assert.Equal(t, domain.InquiryStatusNew, inquiry.Status)

	reject := func(domain.InquiryStatus) (domain.InquiryStatus, error) {
		return "", domain.Validation("rejected")
	}
	_, err := store.Inquiries().AddResponse(ctx, inquiry.ID, &domain.InquiryResponse{Sender: domain.SenderCompany, Message: "x"}, reject, true)
	require.ErrorIs(t, err, domain.ErrValidation)

	loaded, err := store.Inquiries().FindByID(ctx, inquiry.ID)
	require.NoError(t, err)
	assert.Empty(t, loaded.Responses)
	assert.Nil(t, loaded.RespondedAt)

	updated, err := store.Inquiries().AddResponse(ctx, inquiry.ID,
		&domain.InquiryResponse{Sender: domain.SenderCompany, Message: "ご連絡ありがとうございます"},
		domain.InquiryStatus.AfterCompanyReply, true)
	require.NoError(t, err)
	assert.Equal(t, domain.InquiryStatusInProgress, updated.Status)
	assert.NotNil(t, updated.RespondedAt)
	require.Len(t, updated.Responses, 1)
	assert.Equal(t, domain.SenderCompany, updated.Responses[0].Sender)
}

func TestCompanyRepository_DeleteCascades(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	company := &domain.Company{Name: "鈴木ホーム", Email: "suzuki@example.jp"}
	require.NoError(t, store.Companies().Create(ctx, company))

	member := &domain.Member{AuthID: "auth-1", Email: "staff@example.jp", Name: "鈴木", Role: domain.MemberRoleAdmin, CompanyID: company.ID, IsActive: true}
	require.NoError(t, store.Members().Create(ctx, member))
	c := &domain.ConstructionCase{CompanyID: company.ID, AuthorID: member.ID, Title: "平屋の家", Status: domain.CaseStatusDraft}
	require.NoError(t, store.Cases().Create(ctx, c))
	inquiry := &domain.Inquiry{CompanyID: company.ID, InquirerName: "客", InquirerEmail: "c@example.jp", Message: "m"}
	require.NoError(t, store.Inquiries().Create(ctx, inquiry))

	require.NoError(t, store.Companies().Delete(ctx, company.ID))

	_, err := store.Members().FindByID(ctx, member.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Cases().FindByID(ctx, c.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = store.Inquiries().FindByID(ctx, inquiry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCustomerRepository_DeleteCascadesInquiries(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	company := &domain.Company{Name: "高橋工務店", Email: "takahashi@example.jp"}
	require.NoError(t, store.Companies().Create(ctx, company))
	customer := &domain.Customer{AuthID: "auth-c", Email: "c@example.jp", LastName: "山本", IsActive: true}
	require.NoError(t, store.Customers().Create(ctx, customer))
	inquiry := &domain.Inquiry{CompanyID: company.ID, CustomerID: &customer.ID, InquirerName: "山本", InquirerEmail: customer.Email, Message: "m"}
	require.NoError(t, store.Inquiries().Create(ctx, inquiry))
	_, err := store.Inquiries().AddResponse(ctx, inquiry.ID, &domain.InquiryResponse{Sender: domain.SenderCustomer, Message: "追記"}, domain.InquiryStatus.AfterCustomerReply, false)
	require.NoError(t, err)
	anonymous := &domain.Inquiry{CompanyID: company.ID, InquirerName: "匿名", InquirerEmail: "anon@example.jp", Message: "m"}
	require.NoError(t, store.Inquiries().Create(ctx, anonymous))

	require.NoError(t, store.Customers().Delete(ctx, customer.ID))

	_, err = store.Inquiries().FindByID(ctx, inquiry.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Empty(t, store.responses[inquiry.ID])
	_, err = store.Inquiries().FindByID(ctx, anonymous.ID)
	require.NoError(t, err)
}

func TestCaseRepository_FindFilters(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	tags := seedTags(t, store.Tags(), domain.TagCategoryHouseType, "平屋", "二階建て")
	published := &domain.Company{Name: "公開社", Email: "pub@example.jp", IsPublished: true}
	hidden := &domain.Company{Name: "非公開社", Email: "hidden@example.jp"}
	require.NoError(t, store.Companies().Create(ctx, published))
	require.NoError(t, store.Companies().Create(ctx, hidden))

	budget := 2500
	cases := []*domain.ConstructionCase{
		{CompanyID: published.ID, Title: "平屋", Status: domain.CaseStatusPublished, Prefecture: "東京都", Budget: &budget, Tags: []domain.Tag{{ID: tags[0].ID}}},
		{CompanyID: published.ID, Title: "下書き", Status: domain.CaseStatusDraft},
		{CompanyID: hidden.ID, Title: "非公開会社の事例", Status: domain.CaseStatusPublished},
	}
	for _, c := range cases {
		require.NoError(t, store.Cases().Create(ctx, c))
	}

	found, total, err := store.Cases().Find(ctx, domain.CaseFilter{Status: domain.CaseStatusPublished, PublishedCompaniesOnly: true}, domain.Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, found, 1)
	assert.Equal(t, "平屋", found[0].Title)
	assert.Len(t, found[0].Tags, 1)

	minBudget := 3000
	_, total, err = store.Cases().Find(ctx, domain.CaseFilter{MinBudget: &minBudget}, domain.Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)

	_, total, err = store.Cases().Find(ctx, domain.CaseFilter{TagIDs: []uint{tags[1].ID}}, domain.Paging{})
	require.NoError(t, err)
	assert.EqualValues(t, 0, total)
}
