package application

import (
	"context"
	"strings"

	"github.com/taka-shaka/matching-site-sub001/internal/audit"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
)

// generalInquiryService implements GeneralInquiryService.
type generalInquiryService struct {
	inquiries domain.GeneralInquiryRepository
	notifier  *notification.Notifier
	audit     *audit.Recorder
}

func NewGeneralInquiryService(inquiries domain.GeneralInquiryRepository, notifier *notification.Notifier, recorder *audit.Recorder) GeneralInquiryService {
	return &generalInquiryService{inquiries: inquiries, notifier: notifier, audit: recorder}
}

func (s *generalInquiryService) List(ctx context.Context, filter domain.GeneralInquiryFilter, paging domain.Paging) ([]domain.GeneralInquiry, domain.Pagination, error) {
	inquiries, total, err := s.inquiries.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return inquiries, pageOf(total, paging), nil
}

func (s *generalInquiryService) Detail(ctx context.Context, id uint) (*domain.GeneralInquiry, error) {
	return s.inquiries.FindByID(ctx, id)
}

func (s *generalInquiryService) Update(ctx context.Context, adminID, id uint, cmd InquiryPatch) (*domain.GeneralInquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, id)
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
	s.audit.ByAdmin(ctx, adminID, domain.ActionGeneralInquiryUpdated, "サイトお問い合わせ(ID:%d)を%sに更新しました", inquiry.ID, inquiry.Status)
	return s.inquiries.FindByID(ctx, id)
}

// Reply stores the admin answer, moves NEW to IN_PROGRESS and mails the sender.
func (s *generalInquiryService) Reply(ctx context.Context, adminID, id uint, message string) (*domain.GeneralInquiry, error) {
	body, err := domain.NormalizeMessage(message, "返信内容")
	if err != nil {
		return nil, err
	}
	sender := adminID
	response := &domain.GeneralInquiryResponse{
		Sender:  domain.SenderAdmin,
		AdminID: &sender,
		Message: body,
	}
	inquiry, err := s.inquiries.AddResponse(ctx, id, response, domain.InquiryStatus.AfterCompanyReply)
	if err != nil {
		return nil, err
	}
	s.notifier.GeneralInquiryReplied(*inquiry, *response)
	s.audit.ByAdmin(ctx, adminID, domain.ActionGeneralInquiryReplied, "サイトお問い合わせ(ID:%d)に返信しました", inquiry.ID)
	return inquiry, nil
}
