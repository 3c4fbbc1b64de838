package domain

import (
	"context"
	"math"
	"time"
)

// Paging controls pagination. Zero values fall back to page 1 / limit 20.
type Paging struct {
	Page  int
	Limit int
}

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Normalize clamps page and limit into their valid ranges. Page is capped so
// that Offset never exceeds math.MaxInt32.
func (p Paging) Normalize() Paging {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit < 1 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	// OFFSET は int32 に収める
	if maxPage := math.MaxInt32/p.Limit + 1; p.Page > maxPage {
		p.Page = maxPage
	}
	return p
}

func (p Paging) Offset() int {
	n := p.Normalize()
	return (n.Page - 1) * n.Limit
}

// Pagination is the metadata returned alongside list responses.
type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPagination(total int64, paging Paging) Pagination {
	p := paging.Normalize()
	pages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	return Pagination{Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}

type CompanyFilter struct {
	Search      string
	Prefecture  string
	IsPublished *bool
	TagIDs      []uint
}

type CompanyRepository interface {
	Find(ctx context.Context, filter CompanyFilter, paging Paging) ([]Company, int64, error)
	FindByID(ctx context.Context, id uint) (*Company, error)
	ExistsByEmail(ctx context.Context, email string, excludeID uint) (bool, error)
	Create(ctx context.Context, company *Company) error
	Update(ctx context.Context, company *Company) error
	ReplaceTags(ctx context.Context, companyID uint, tagIDs []uint) error
	Delete(ctx context.Context, id uint) error
}

type MemberFilter struct {
	CompanyID *uint
	Search    string
}

type MemberRepository interface {
	Find(ctx context.Context, filter MemberFilter, paging Paging) ([]Member, int64, error)
	FindByID(ctx context.Context, id uint) (*Member, error)
	FindByAuthID(ctx context.Context, authID string) (*Member, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, member *Member) error
	Update(ctx context.Context, member *Member) error
	Delete(ctx context.Context, id uint) error
}

type AdminRepository interface {
	FindByAuthID(ctx context.Context, authID string) (*Admin, error)
	FindByEmail(ctx context.Context, email string) (*Admin, error)
	Create(ctx context.Context, admin *Admin) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

type CustomerFilter struct {
	Search   string
	IsActive *bool
}

type CustomerRepository interface {
	Find(ctx context.Context, filter CustomerFilter, paging Paging) ([]Customer, int64, error)
	FindByID(ctx context.Context, id uint) (*Customer, error)
	FindByAuthID(ctx context.Context, authID string) (*Customer, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, customer *Customer) error
	Update(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, id uint) error
	TouchLastLogin(ctx context.Context, id uint, at time.Time) error
}

type CaseFilter struct {
	CompanyID  *uint
	Status     CaseStatus
	Prefecture string
	MinBudget  *int
	MaxBudget  *int
	TagIDs     []uint
	Search     string
	// PublishedCompaniesOnly hides cases of unpublished companies.
	PublishedCompaniesOnly bool
}

// CaseRepository persists construction cases. Create and Update write the
// case's Tags and Images as its full association set.
type CaseRepository interface {
	Find(ctx context.Context, filter CaseFilter, paging Paging) ([]ConstructionCase, int64, error)
	FindByID(ctx context.Context, id uint) (*ConstructionCase, error)
	Create(ctx context.Context, c *ConstructionCase) error
	Update(ctx context.Context, c *ConstructionCase) error
	Delete(ctx context.Context, id uint) error
	IncrementViewCount(ctx context.Context, id uint) error
}

type InquiryFilter struct {
	CompanyID  *uint
	CustomerID *uint
	Status     InquiryStatus
}

// StatusTransition decides the status following a reply; returning an error
// aborts the reply.
type StatusTransition func(current InquiryStatus) (InquiryStatus, error)

type InquiryRepository interface {
	Find(ctx context.Context, filter InquiryFilter, paging Paging) ([]Inquiry, int64, error)
	FindByID(ctx context.Context, id uint) (*Inquiry, error)
	Create(ctx context.Context, inquiry *Inquiry) error
	Update(ctx context.Context, inquiry *Inquiry) error
	// AddResponse stores the response and applies the status transition in one
	// transaction. When stampResponded is set, RespondedAt is filled if empty.
	AddResponse(ctx context.Context, inquiryID uint, response *InquiryResponse, transition StatusTransition, stampResponded bool) (*Inquiry, error)
	Delete(ctx context.Context, id uint) error
}

type GeneralInquiryFilter struct {
	Status InquiryStatus
}

type GeneralInquiryRepository interface {
	Find(ctx context.Context, filter GeneralInquiryFilter, paging Paging) ([]GeneralInquiry, int64, error)
	FindByID(ctx context.Context, id uint) (*GeneralInquiry, error)
	Create(ctx context.Context, inquiry *GeneralInquiry) error
	Update(ctx context.Context, inquiry *GeneralInquiry) error
	AddResponse(ctx context.Context, inquiryID uint, response *GeneralInquiryResponse, transition StatusTransition) (*GeneralInquiry, error)
}

// TagRepository keeps display orders contiguous per category. Every mutating
// method runs as one transaction.
type TagRepository interface {
	List(ctx context.Context, category TagCategory) ([]Tag, error)
	FindByID(ctx context.Context, id uint) (*Tag, error)
	FindByIDs(ctx context.Context, ids []uint) ([]Tag, error)
	ExistsByName(ctx context.Context, name string, excludeID uint) (bool, error)
	CountInCategory(ctx context.Context, category TagCategory) (int, error)
	CountUsage(ctx context.Context, id uint) (int64, error)
	// Create appends the tag at the end of its category.
	Create(ctx context.Context, tag *Tag) error
	// Update renames the tag and, when the category changes, closes the gap in
	// the old category and appends the tag to the new one.
	Update(ctx context.Context, tag *Tag) error
	Reorder(ctx context.Context, id uint, newOrder int) (*Tag, error)
	// Delete rejects tags still referenced by companies or cases.
	Delete(ctx context.Context, id uint) error
}

type ActivityLogRepository interface {
	Append(ctx context.Context, entry *ActivityLog) error
	Find(ctx context.Context, paging Paging) ([]ActivityLog, int64, error)
}

// ErrTagInUse rejects deleting a tag referenced by companies or cases.
var ErrTagInUse = NewError(CodeConflict, "使用中のタグは削除できません", nil)
