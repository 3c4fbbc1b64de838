package application

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// caseService implements CaseService.
type caseService struct {
	cases domain.CaseRepository
	audit *audit.Recorder
}

func NewCaseService(cases domain.CaseRepository, recorder *audit.Recorder) CaseService {
	return &caseService{cases: cases, audit: recorder}
}

func (s *caseService) List(ctx context.Context, filter domain.CaseFilter, paging domain.Paging) ([]domain.ConstructionCase, domain.Pagination, error) {
	cases, total, err := s.cases.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return cases, pageOf(total, paging), nil
}

func (s *caseService) Detail(ctx context.Context, id uint) (*domain.ConstructionCase, error) {
	return s.cases.FindByID(ctx, id)
}

func (s *caseService) Delete(ctx context.Context, adminID, id uint) error {
	c, err := s.cases.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.cases.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionCaseDeleted, "施工事例「%s」(ID:%d)を削除しました", c.Title, c.ID)
	return nil
}

// inquiryService implements InquiryService.
type inquiryService struct {
	inquiries domain.InquiryRepository
	audit     *audit.Recorder
}

func NewInquiryService(inquiries domain.InquiryRepository, recorder *audit.Recorder) InquiryService {
	return &inquiryService{inquiries: inquiries, audit: recorder}
}

func (s *inquiryService) List(ctx context.Context, filter domain.InquiryFilter, paging domain.Paging) ([]domain.Inquiry, domain.Pagination, error) {
	inquiries, total, err := s.inquiries.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return inquiries, pageOf(total, paging), nil
}

func (s *inquiryService) Detail(ctx context.Context, id uint) (*domain.Inquiry, error) {
	return s.inquiries.FindByID(ctx, id)
}

func (s *inquiryService) Delete(ctx context.Context, adminID, id uint) error {
	if _, err := s.inquiries.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.inquiries.Delete(ctx, id); err != nil {
		return err
	}
	s.audit.ByAdmin(ctx, adminID, domain.ActionInquiryDeleted, "お問い合わせ(ID:%d)を削除しました", id)
	return nil
}
