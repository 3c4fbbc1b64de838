package application

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
)

// inquiryCommandService implements InquiryCommandService.
type inquiryCommandService struct {
	companies        domain.CompanyRepository
	inquiries        domain.InquiryRepository
	generalInquiries domain.GeneralInquiryRepository
	notifier         *notification.Notifier
}

func NewInquiryCommandService(
	companies domain.CompanyRepository,
	inquiries domain.InquiryRepository,
	generalInquiries domain.GeneralInquiryRepository,
	notifier *notification.Notifier,
) InquiryCommandService {
	return &inquiryCommandService{
		companies:        companies,
		inquiries:        inquiries,
		generalInquiries: generalInquiries,
		notifier:         notifier,
	}
}

// Submit stores an inquiry to a published company. A signed-in customer is
// linked to the inquiry so it shows up under /my.
func (s *inquiryCommandService) Submit(ctx context.Context, customer *domain.Customer, cmd SubmitInquiryCommand) (*domain.Inquiry, error) {
	name, err := requiredText(cmd.InquirerName, "お名前", 100)
	if err != nil {
		return nil, err
	}
	email, err := domain.NormalizeEmail(cmd.InquirerEmail)
	if err != nil {
		return nil, err
	}
	message, err := domain.NormalizeMessage(cmd.Message, "お問い合わせ内容")
	if err != nil {
		return nil, err
	}

	company, err := s.companies.FindByID(ctx, cmd.CompanyID)
	if errors.Is(err, domain.ErrNotFound) || (err == nil && !company.IsPublished) {
		return nil, errCompanyNotFound
	}
	if err != nil {
		return nil, err
	}

	inquiry := &domain.Inquiry{
		CompanyID:     company.ID,
		InquirerName:  name,
		InquirerEmail: email,
		InquirerPhone: strings.TrimSpace(cmd.InquirerPhone),
		Message:       message,
		Status:        domain.InquiryStatusNew,
	}
	if customer != nil {
		id := customer.ID
		inquiry.CustomerID = &id
	}
	if err := s.inquiries.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	s.notifier.InquiryReceived(*inquiry, *company)
	return inquiry, nil
}

func (s *inquiryCommandService) SubmitGeneral(ctx context.Context, cmd SubmitGeneralInquiryCommand) (*domain.GeneralInquiry, error) {
	name, err := requiredText(cmd.Name, "お名前", 100)
	if err != nil {
		return nil, err
	}
	email, err := domain.NormalizeEmail(cmd.Email)
	if err != nil {
		return nil, err
	}
	subject, err := requiredText(cmd.Subject, "件名", 200)
	if err != nil {
		return nil, err
	}
	message, err := domain.NormalizeMessage(cmd.Message, "お問い合わせ内容")
	if err != nil {
		return nil, err
	}

	inquiry := &domain.GeneralInquiry{
		Name:    name,
		Email:   email,
		Phone:   strings.TrimSpace(cmd.Phone),
		Subject: subject,
		Message: message,
		Status:  domain.InquiryStatusNew,
	}
	if err := s.generalInquiries.Create(ctx, inquiry); err != nil {
		return nil, err
	}
	s.notifier.GeneralInquiryReceived(*inquiry)
	return inquiry, nil
}

func requiredText(value, label string, limit int) (string, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return "", domain.Validation(label + "は必須です")
	}
	if utf8.RuneCountInString(trimmed) > limit {
		return "", domain.Validation(label + "が長すぎます")
	}
	return trimmed, nil
}
