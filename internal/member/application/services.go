// Package application holds the company-staff use-cases. Every operation runs
// on behalf of the guard-loaded member and is scoped to the member's company.
package application

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// CompanyService manages the member's own company profile.
type CompanyService interface {
	Profile(ctx context.Context, member *domain.Member) (*domain.Company, error)
	UpdateProfile(ctx context.Context, member *domain.Member, patch domain.CompanyProfilePatch) (*domain.Company, error)
	ReplaceTags(ctx context.Context, member *domain.Member, tagIDs []uint) (*domain.Company, error)
}

// StaffService lists and invites colleagues.
type StaffService interface {
	List(ctx context.Context, member *domain.Member, paging domain.Paging) ([]domain.Member, domain.Pagination, error)
	Create(ctx context.Context, member *domain.Member, in account.MemberInput) (*domain.Member, error)
}

// CaseService manages the company's construction cases.
type CaseService interface {
	List(ctx context.Context, member *domain.Member, filter domain.CaseFilter, paging domain.Paging) ([]domain.ConstructionCase, domain.Pagination, error)
	Detail(ctx context.Context, member *domain.Member, id uint) (*domain.ConstructionCase, error)
	Create(ctx context.Context, member *domain.Member, cmd CaseCommand) (*domain.ConstructionCase, error)
	Update(ctx context.Context, member *domain.Member, id uint, cmd CaseCommand) (*domain.ConstructionCase, error)
	Delete(ctx context.Context, member *domain.Member, id uint) error
}

// InquiryService answers inquiries addressed to the company.
type InquiryService interface {
	List(ctx context.Context, member *domain.Member, filter domain.InquiryFilter, paging domain.Paging) ([]domain.Inquiry, domain.Pagination, error)
	Detail(ctx context.Context, member *domain.Member, id uint) (*domain.Inquiry, error)
	Update(ctx context.Context, member *domain.Member, id uint, cmd InquiryPatch) (*domain.Inquiry, error)
	Reply(ctx context.Context, member *domain.Member, id uint, message string) (*domain.Inquiry, error)
}

// CaseCommand carries case fields. On update, nil TagIDs / ImageURLs keep the
// current associations; an empty slice clears them.
type CaseCommand struct {
	Patch     domain.CasePatch
	TagIDs    []uint
	ImageURLs []string
}

type InquiryPatch struct {
	Status        *string
	InternalNotes *string
}
