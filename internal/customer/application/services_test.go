package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/infrastructure/memory"
)

type fixture struct {
	store   *memory.Store
	company *domain.Company
	alice   *domain.Customer
	bob     *domain.Customer
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore()
	company := &domain.Company{Name: "山田工務店", Email: "info@yamada.example"}
	require.NoError(t, store.Companies().Create(ctx, company))
	alice := &domain.Customer{AuthID: "alice", Email: "alice@example.jp", LastName: "青木", IsActive: true}
	require.NoError(t, store.Customers().Create(ctx, alice))
	bob := &domain.Customer{AuthID: "bob", Email: "bob@example.jp", LastName: "馬場", IsActive: true}
	require.NoError(t, store.Customers().Create(ctx, bob))
	return fixture{store: store, company: company, alice: alice, bob: bob}
}

func (f fixture) inquiry(t *testing.T, owner *domain.Customer, status domain.InquiryStatus) *domain.Inquiry {
	t.Helper()
	id := owner.ID
	inquiry := &domain.Inquiry{
		CompanyID:     f.company.ID,
		CustomerID:    &id,
		InquirerName:  owner.FullName(),
		InquirerEmail: owner.Email,
		Message:       "相談したいです",
		Status:        status,
	}
	require.NoError(t, f.store.Inquiries().Create(context.Background(), inquiry))
	return inquiry
}

func TestInquiryService_ReplyTransitions(t *testing.T) {
	tests := []struct {
		name   string
		status domain.InquiryStatus
		want   domain.InquiryStatus
	}{
		{"resolved reopens", domain.InquiryStatusResolved, domain.InquiryStatusInProgress},
		{"new stays new", domain.InquiryStatusNew, domain.InquiryStatusNew},
		{"in progress stays", domain.InquiryStatusInProgress, domain.InquiryStatusInProgress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			service := NewInquiryService(f.store.Inquiries())
			inquiry := f.inquiry(t, f.alice, tt.status)

			replied, err := service.Reply(context.Background(), f.alice, inquiry.ID, "追加で質問です")
			require.NoError(t, err)
			assert.Equal(t, tt.want, replied.Status)
			require.Len(t, replied.Responses, 1)
			assert.Equal(t, domain.SenderCustomer, replied.Responses[0].Sender)
			assert.Nil(t, replied.RespondedAt)
		})
	}
}

func TestInquiryService_ClosedRejectsReply(t *testing.T) {
	f := newFixture(t)
	service := NewInquiryService(f.store.Inquiries())
	inquiry := f.inquiry(t, f.alice, domain.InquiryStatusClosed)

	_, err := service.Reply(context.Background(), f.alice, inquiry.ID, "まだ聞きたいことが")
	assert.ErrorIs(t, err, domain.ErrValidation)

	detail, err := service.Detail(context.Background(), f.alice, inquiry.ID)
	require.NoError(t, err)
	assert.Empty(t, detail.Responses)
}

func TestInquiryService_ForeignInquiry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewInquiryService(f.store.Inquiries())
	inquiry := f.inquiry(t, f.alice, domain.InquiryStatusNew)

	_, err := service.Detail(ctx, f.bob, inquiry.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = service.Reply(ctx, f.bob, inquiry.ID, "なりすまし")
	assert.ErrorIs(t, err, domain.ErrForbidden)
	_, err = service.Detail(ctx, f.bob, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, page, err := service.List(ctx, f.bob, domain.InquiryFilter{}, domain.Paging{})
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.Zero(t, page.Total)
}

func TestProfileService_Update(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	service := NewProfileService(f.store.Customers())
	first := "花子"
	phone := " 090-0000-0000 "

	updated, err := service.Update(ctx, f.alice, ProfilePatch{FirstName: &first, PhoneNumber: &phone})
	require.NoError(t, err)
	assert.Equal(t, "青木 花子", updated.FullName())
	assert.Equal(t, "090-0000-0000", updated.PhoneNumber)

	blank := " "
	_, err = service.Update(ctx, f.alice, ProfilePatch{LastName: &blank})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
