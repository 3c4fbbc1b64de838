package application

import (
	"context"
	"strings"

	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
)

// inquiryService implements InquiryService.
type inquiryService struct {
	inquiries domain.InquiryRepository
	notifier  *notification.Notifier
	audit     *audit.Recorder
}

func NewInquiryService(inquiries domain.InquiryRepository, notifier *notification.Notifier, recorder *audit.Recorder) InquiryService {
	return &inquiryService{inquiries: inquiries, notifier: notifier, audit: recorder}
}

func (s *inquiryService) List(ctx context.Context, member *domain.Member, filter domain.InquiryFilter, paging domain.Paging) ([]domain.Inquiry, domain.Pagination, error) {
	companyID := member.CompanyID
	filter.CompanyID = &companyID
	filter.CustomerID = nil
	inquiries, total, err := s.inquiries.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return inquiries, domain.NewPagination(total, paging), nil
}

func (s *inquiryService) Detail(ctx context.Context, member *domain.Member, id uint) (*domain.Inquiry, error) {
	return s.load(ctx, member, id)
}

func (s *inquiryService) Update(ctx context.Context, member *domain.Member, id uint, cmd InquiryPatch) (*domain.Inquiry, error) {
	inquiry, err := s.load(ctx, member, id)
	if err != nil {
		return nil, err
	}
	if cmd.Status != nil {
		status, err := domain.ParseInquiryStatus(*cmd.Status)
		if err != nil {
			return nil, err
		}
		inquiry.Status = status
	}
	if cmd.InternalNotes != nil {
		inquiry.InternalNotes = strings.TrimSpace(*cmd.InternalNotes)
	}
	if err := s.inquiries.Update(ctx, inquiry); err != nil {
		return nil, err
	}
	s.audit.ByMember(ctx, member.ID, domain.ActionInquiryUpdated, "お問い合わせ(ID:%d)を%sに更新しました", inquiry.ID, inquiry.Status)
	return s.inquiries.FindByID(ctx, id)
}

// Reply appends a COMPANY response. The status change and respondedAt stamp
// happen in the same transaction as the insert.
func (s *inquiryService) Reply(ctx context.Context, member *domain.Member, id uint, message string) (*domain.Inquiry, error) {
	body, err := domain.NormalizeMessage(message, "返信内容")
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, member, id); err != nil {
		return nil, err
	}
	sender := member.ID
	response := &domain.InquiryResponse{
		Sender:   domain.SenderCompany,
		MemberID: &sender,
		Message:  body,
	}
	inquiry, err := s.inquiries.AddResponse(ctx, id, response, domain.InquiryStatus.AfterCompanyReply, true)
	if err != nil {
		return nil, err
	}
	s.notifier.InquiryReplied(*inquiry, *response)
	s.audit.ByMember(ctx, member.ID, domain.ActionInquiryReplied, "お問い合わせ(ID:%d)に返信しました", inquiry.ID)
	return inquiry, nil
}

func (s *inquiryService) load(ctx context.Context, member *domain.Member, id uint) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, id)
	if inquiry, err = findOrNil(inquiry, err); err != nil {
		return nil, err
	}
	if err := auth.Authorize(auth.MemberActor(member), auth.InquiryResource(inquiry)); err != nil {
		return nil, err
	}
	return inquiry, nil
}
