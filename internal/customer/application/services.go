// Package application holds the signed-in customer's use-cases.
package application

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// ProfileService reads and edits the customer's own record.
type ProfileService interface {
	Profile(ctx context.Context, customer *domain.Customer) (*domain.Customer, error)
	Update(ctx context.Context, customer *domain.Customer, patch ProfilePatch) (*domain.Customer, error)
}

// InquiryService lists the customer's inquiries and lets them answer.
type InquiryService interface {
	List(ctx context.Context, customer *domain.Customer, filter domain.InquiryFilter, paging domain.Paging) ([]domain.Inquiry, domain.Pagination, error)
	Detail(ctx context.Context, customer *domain.Customer, id uint) (*domain.Inquiry, error)
	Reply(ctx context.Context, customer *domain.Customer, id uint, message string) (*domain.Inquiry, error)
}

// ProfilePatch updates only the non-nil fields. Email is owned by the
// identity provider and cannot be changed here.
type ProfilePatch struct {
	LastName    *string
	FirstName   *string
	PhoneNumber *string
}

// profileService implements ProfileService.
type profileService struct {
	customers domain.CustomerRepository
}

func NewProfileService(customers domain.CustomerRepository) ProfileService {
	return &profileService{customers: customers}
}

func (s *profileService) Profile(ctx context.Context, customer *domain.Customer) (*domain.Customer, error) {
	return s.customers.FindByID(ctx, customer.ID)
}

func (s *profileService) Update(ctx context.Context, customer *domain.Customer, patch ProfilePatch) (*domain.Customer, error) {
	current, err := s.customers.FindByID(ctx, customer.ID)
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(auth.CustomerActor(customer), auth.CustomerResource(current)); err != nil {
		return nil, err
	}
	if patch.LastName != nil {
		lastName := strings.TrimSpace(*patch.LastName)
		if lastName == "" {
			return nil, domain.Validation("姓は必須です")
		}
		if utf8.RuneCountInString(lastName) > 50 {
			return nil, domain.Validation("姓は50文字以内で入力してください")
		}
		current.LastName = lastName
	}
	if patch.FirstName != nil {
		current.FirstName = strings.TrimSpace(*patch.FirstName)
	}
	if patch.PhoneNumber != nil {
		current.PhoneNumber = strings.TrimSpace(*patch.PhoneNumber)
	}
	if err := s.customers.Update(ctx, current); err != nil {
		return nil, err
	}
	return s.customers.FindByID(ctx, customer.ID)
}

// inquiryService implements InquiryService.
type inquiryService struct {
	inquiries domain.InquiryRepository
}

func NewInquiryService(inquiries domain.InquiryRepository) InquiryService {
	return &inquiryService{inquiries: inquiries}
}

func (s *inquiryService) List(ctx context.Context, customer *domain.Customer, filter domain.InquiryFilter, paging domain.Paging) ([]domain.Inquiry, domain.Pagination, error) {
	customerID := customer.ID
	filter.CustomerID = &customerID
	filter.CompanyID = nil
	inquiries, total, err := s.inquiries.Find(ctx, filter, paging)
	if err != nil {
		return nil, domain.Pagination{}, err
	}
	return inquiries, domain.NewPagination(total, paging), nil
}

func (s *inquiryService) Detail(ctx context.Context, customer *domain.Customer, id uint) (*domain.Inquiry, error) {
	return s.load(ctx, customer, id)
}

// Reply appends a CUSTOMER response; RESOLVED inquiries reopen and CLOSED ones
// reject the message.
func (s *inquiryService) Reply(ctx context.Context, customer *domain.Customer, id uint, message string) (*domain.Inquiry, error) {
	body, err := domain.NormalizeMessage(message, "返信内容")
	if err != nil {
		return nil, err
	}
	if _, err := s.load(ctx, customer, id); err != nil {
		return nil, err
	}
	response := &domain.InquiryResponse{Sender: domain.SenderCustomer, Message: body}
	return s.inquiries.AddResponse(ctx, id, response, domain.InquiryStatus.AfterCustomerReply, false)
}

func (s *inquiryService) load(ctx context.Context, customer *domain.Customer, id uint) (*domain.Inquiry, error) {
	inquiry, err := s.inquiries.FindByID(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		inquiry, err = nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := auth.Authorize(auth.CustomerActor(customer), auth.InquiryResource(inquiry)); err != nil {
		return nil, err
	}
	return inquiry, nil
}
