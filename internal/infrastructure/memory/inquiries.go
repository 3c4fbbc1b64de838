package memory

import (
	"context"
	"slices"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

type InquiryRepository struct{ s *Store }

func (r *InquiryRepository) Find(_ context.Context, filter domain.InquiryFilter, paging domain.Paging) ([]domain.Inquiry, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]domain.Inquiry, 0)
	for _, id := range sortedDesc(r.s.inquiries) {
		inquiry := r.s.inquiries[id]
		if filter.CompanyID != nil && inquiry.CompanyID != *filter.CompanyID {
			continue
		}
		if filter.CustomerID != nil && (inquiry.CustomerID == nil || *inquiry.CustomerID != *filter.CustomerID) {
			continue
		}
		if filter.Status != "" && inquiry.Status != filter.Status {
			continue
		}
		inquiry.Company = r.s.companyRef(inquiry.CompanyID)
		matched = append(matched, inquiry)
	}
	return paginate(matched, paging), int64(len(matched)), nil
}

func (r *InquiryRepository) FindByID(_ context.Context, id uint) (*domain.Inquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.loadInquiry(id)
}

func (r *InquiryRepository) Create(_ context.Context, inquiry *domain.Inquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.companies[inquiry.CompanyID]; !ok {
		return domain.NotFound("会社が見つかりません")
	}
	now := r.s.now()
	inquiry.ID = r.s.nextID("inquiry")
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now
	if inquiry.Status == "" {
		inquiry.Status = domain.InquiryStatusNew
	}
	stored := *inquiry
	stored.Company = nil
	stored.Responses = nil
	r.s.inquiries[inquiry.ID] = stored
	return nil
}

func (r *InquiryRepository) Update(_ context.Context, inquiry *domain.Inquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.inquiries[inquiry.ID]
	if !ok {
		return domain.NotFound("お問い合わせが見つかりません")
	}
	existing.Status = inquiry.Status
	existing.InternalNotes = inquiry.InternalNotes
	existing.UpdatedAt = r.s.now()
	r.s.inquiries[inquiry.ID] = existing
	inquiry.UpdatedAt = existing.UpdatedAt
	return nil
}

// AddResponse applies response and transition under the store lock; a failed
// transition leaves both untouched.
func (r *InquiryRepository) AddResponse(_ context.Context, inquiryID uint, response *domain.InquiryResponse, transition domain.StatusTransition, stampResponded bool) (*domain.Inquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inquiry, ok := r.s.inquiries[inquiryID]
	if !ok {
		return nil, domain.NotFound("お問い合わせが見つかりません")
	}
	next, err := transition(inquiry.Status)
	if err != nil {
		return nil, err
	}

	now := r.s.now()
	response.ID = r.s.nextID("inquiry_response")
	response.InquiryID = inquiryID
	response.CreatedAt = now
	r.s.responses[inquiryID] = append(r.s.responses[inquiryID], *response)

	inquiry.Status = next
	inquiry.UpdatedAt = now
	if stampResponded && inquiry.RespondedAt == nil {
		inquiry.RespondedAt = &now
	}
	r.s.inquiries[inquiryID] = inquiry
	return r.s.loadInquiry(inquiryID)
}

func (r *InquiryRepository) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.inquiries[id]; !ok {
		return domain.NotFound("お問い合わせが見つかりません")
	}
	delete(r.s.inquiries, id)
	delete(r.s.responses, id)
	return nil
}

func (s *Store) loadInquiry(id uint) (*domain.Inquiry, error) {
	inquiry, ok := s.inquiries[id]
	if !ok {
		return nil, domain.NotFound("お問い合わせが見つかりません")
	}
	inquiry.Company = s.companyRef(inquiry.CompanyID)
	inquiry.Responses = slices.Clone(s.responses[id])
	return &inquiry, nil
}

type GeneralInquiryRepository struct{ s *Store }

func (r *GeneralInquiryRepository) Find(_ context.Context, filter domain.GeneralInquiryFilter, paging domain.Paging) ([]domain.GeneralInquiry, int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	matched := make([]domain.GeneralInquiry, 0)
	for _, id := range sortedDesc(r.s.generalInquiries) {
		inquiry := r.s.generalInquiries[id]
		if filter.Status != "" && inquiry.Status != filter.Status {
			continue
		}
		matched = append(matched, inquiry)
	}
	return paginate(matched, paging), int64(len(matched)), nil
}

func (r *GeneralInquiryRepository) FindByID(_ context.Context, id uint) (*domain.GeneralInquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.s.loadGeneralInquiry(id)
}

func (r *GeneralInquiryRepository) Create(_ context.Context, inquiry *domain.GeneralInquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := r.s.now()
	inquiry.ID = r.s.nextID("general_inquiry")
	inquiry.CreatedAt = now
	inquiry.UpdatedAt = now
	if inquiry.Status == "" {
		inquiry.Status = domain.InquiryStatusNew
	}
	stored := *inquiry
	stored.Responses = nil
	r.s.generalInquiries[inquiry.ID] = stored
	return nil
}

func (r *GeneralInquiryRepository) Update(_ context.Context, inquiry *domain.GeneralInquiry) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	existing, ok := r.s.generalInquiries[inquiry.ID]
	if !ok {
		return domain.NotFound("お問い合わせが見つかりません")
	}
	existing.Status = inquiry.Status
	existing.InternalNotes = inquiry.InternalNotes
	existing.UpdatedAt = r.s.now()
	r.s.generalInquiries[inquiry.ID] = existing
	inquiry.UpdatedAt = existing.UpdatedAt
	return nil
}

func (r *GeneralInquiryRepository) AddResponse(_ context.Context, inquiryID uint, response *domain.GeneralInquiryResponse, transition domain.StatusTransition) (*domain.GeneralInquiry, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	inquiry, ok := r.s.generalInquiries[inquiryID]
	if !ok {
		return nil, domain.NotFound("お問い合わせが見つかりません")
	}
	next, err := transition(inquiry.Status)
	if err != nil {
		return nil, err
	}

	now := r.s.now()
	response.ID = r.s.nextID("general_inquiry_response")
	response.GeneralInquiryID = inquiryID
	response.CreatedAt = now
	r.s.generalResponses[inquiryID] = append(r.s.generalResponses[inquiryID], *response)

	inquiry.Status = next
	inquiry.UpdatedAt = now
	if inquiry.RespondedAt == nil {
		inquiry.RespondedAt = &now
	}
	r.s.generalInquiries[inquiryID] = inquiry
	return r.s.loadGeneralInquiry(inquiryID)
}

func (s *Store) loadGeneralInquiry(id uint) (*domain.GeneralInquiry, error) {
	inquiry, ok := s.generalInquiries[id]
	if !ok {
		return nil, domain.NotFound("お問い合わせが見つかりません")
	}
	inquiry.Responses = slices.Clone(s.generalResponses[id])
	return &inquiry, nil
}
