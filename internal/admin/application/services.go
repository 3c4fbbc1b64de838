package application

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
)

// CompanyService describes admin company use-cases.
type CompanyService interface {
	List(ctx context.Context, filter domain.CompanyFilter, paging domain.Paging) ([]domain.Company, domain.Pagination, error)
	Detail(ctx context.Context, id uint) (*domain.Company, error)
	Create(ctx context.Context, adminID uint, cmd CompanyCommand) (*domain.Company, error)
	Update(ctx context.Context, adminID, id uint, cmd CompanyPatch) (*domain.Company, error)
	Delete(ctx context.Context, adminID, id uint) error
	ReplaceTags(ctx context.Context, adminID, id uint, tagIDs []uint) (*domain.Company, error)
}

// MemberService describes admin member use-cases.
type MemberService interface {
	List(ctx context.Context, filter domain.MemberFilter, paging domain.Paging) ([]domain.Member, domain.Pagination, error)
	Detail(ctx context.Context, id uint) (*domain.Member, error)
	Create(ctx context.Context, adminID uint, in account.MemberInput) (*domain.Member, error)
	Update(ctx context.Context, adminID, id uint, cmd MemberPatch) (*domain.Member, error)
	Delete(ctx context.Context, adminID, id uint) error
}

// CustomerService describes admin customer use-cases.
type CustomerService interface {
	List(ctx context.Context, filter domain.CustomerFilter, paging domain.Paging) ([]domain.Customer, domain.Pagination, error)
	Detail(ctx context.Context, id uint) (*domain.Customer, error)
	SetActive(ctx context.Context, adminID, id uint, active bool) (*domain.Customer, error)
	Delete(ctx context.Context, adminID, id uint) error
}

// CaseService lets admins moderate construction cases of every company.
type CaseService interface {
	List(ctx context.Context, filter domain.CaseFilter, paging domain.Paging) ([]domain.ConstructionCase, domain.Pagination, error)
	Detail(ctx context.Context, id uint) (*domain.ConstructionCase, error)
	Delete(ctx context.Context, adminID, id uint) error
}

// InquiryService lets admins read and remove company inquiries.
type InquiryService interface {
	List(ctx context.Context, filter domain.InquiryFilter, paging domain.Paging) ([]domain.Inquiry, domain.Pagination, error)
	Detail(ctx context.Context, id uint) (*domain.Inquiry, error)
	Delete(ctx context.Context, adminID, id uint) error
}

// GeneralInquiryService handles site-level contact messages.
type GeneralInquiryService interface {
	List(ctx context.Context, filter domain.GeneralInquiryFilter, paging domain.Paging) ([]domain.GeneralInquiry, domain.Pagination, error)
	Detail(ctx context.Context, id uint) (*domain.GeneralInquiry, error)
	Update(ctx context.Context, adminID, id uint, cmd InquiryPatch) (*domain.GeneralInquiry, error)
	Reply(ctx context.Context, adminID, id uint, message string) (*domain.GeneralInquiry, error)
}

// TagService maintains the tag catalogue.
type TagService interface {
	List(ctx context.Context, category domain.TagCategory) ([]domain.Tag, error)
	Create(ctx context.Context, adminID uint, name string, category domain.TagCategory) (*domain.Tag, error)
	Update(ctx context.Context, adminID, id uint, cmd TagPatch) (*domain.Tag, error)
	Reorder(ctx context.Context, adminID, id uint, displayOrder int) (*domain.Tag, error)
	Delete(ctx context.Context, adminID, id uint) error
}

// DashboardService serves counters, the audit trail and undelivered mails.
type DashboardService interface {
	Stats(ctx context.Context) (Stats, error)
	ActivityLogs(ctx context.Context, paging domain.Paging) ([]domain.ActivityLog, domain.Pagination, error)
	FailedNotifications(ctx context.Context, status string, limit int) ([]notification.FailedNotification, error)
	ResendNotification(ctx context.Context, adminID uint, id string) (*notification.FailedNotification, error)
}

// CompanyCommand contains inputs for creating companies. Name and Email are required.
type CompanyCommand struct {
	Profile     domain.CompanyProfilePatch
	IsPublished bool
	TagIDs      []uint
}

// CompanyPatch updates only the non-nil fields.
type CompanyPatch struct {
	Profile     domain.CompanyProfilePatch
	IsPublished *bool
}

type MemberPatch struct {
	Name     *string
	Role     *string
	IsActive *bool
}

type InquiryPatch struct {
	Status        *string
	InternalNotes *string
}

type TagPatch struct {
	Name     *string
	Category *string
}

// Stats are the admin dashboard counters.
type Stats struct {
	Companies            int64 `json:"companies"`
	PublishedCompanies   int64 `json:"publishedCompanies"`
	Members              int64 `json:"members"`
	Customers            int64 `json:"customers"`
	PublishedCases       int64 `json:"publishedCases"`
	NewInquiries         int64 `json:"newInquiries"`
	NewGeneralInquiries  int64 `json:"newGeneralInquiries"`
	PendingNotifications int64 `json:"pendingNotifications"`
}

func pageOf(total int64, paging domain.Paging) domain.Pagination {
	return domain.NewPagination(total, paging)
}
