package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Admin is a platform administrator. Rows are provisioned by the seed command only.
type Admin struct {
	ID          uint
	AuthID      string
	Email       string
	Name        string
	Role        AdminRole
	IsActive    bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// Member is a staff account scoped to exactly one Company.
type Member struct {
	ID        uint
	AuthID    string
	Email     string
	Name      string
	Role      MemberRole
	CompanyID uint
	Company   *Company
	IsActive  bool
	CreatedAt time.Time
}

// IsCompanyAdmin reports whether the member administers its own company.
func (m Member) IsCompanyAdmin() bool {
	return m.Role == MemberRoleAdmin
}

// Company is a construction company listed on the marketplace.
type Company struct {
	ID          uint
	Name        string
	Description string
	Address     string
	Prefecture  Prefecture
	City        string
	PhoneNumber string
	Email       string
	WebsiteURL  string
	LogoURL     string
	IsPublished bool
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Customer is an end user browsing listings and sending inquiries.
type Customer struct {
	ID          uint
	AuthID      string
	Email       string
	LastName    string
	FirstName   string
	PhoneNumber string
	IsActive    bool
	LastLoginAt *time.Time
	CreatedAt   time.Time
}

// FullName returns the name in Japanese order.
func (c Customer) FullName() string {
	if c.FirstName == "" {
		return c.LastName
	}
	return c.LastName + " " + c.FirstName
}

// ConstructionCase is a portfolio entry owned by a company.
type ConstructionCase struct {
	ID             uint
	CompanyID      uint
	AuthorID       uint
	Title          string
	Description    string
	Prefecture     Prefecture
	City           string
	BuildingArea   decimal.NullDecimal
	Budget         *int
	CompletionYear *int
	MainImageURL   string
	Status         CaseStatus
	ViewCount      int
	PublishedAt    *time.Time
	Company        *Company
	Tags           []Tag
	Images         []CaseImage
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// SetStatus changes the publication status. PublishedAt is stamped on the first
// publication and kept afterwards, even when the case returns to draft.
func (c *ConstructionCase) SetStatus(status CaseStatus, now time.Time) {
	c.Status = status
	if status == CaseStatusPublished && c.PublishedAt == nil {
		published := now
		c.PublishedAt = &published
	}
}

// IsPublished reports whether the case is visible to anonymous visitors.
func (c ConstructionCase) IsPublished() bool {
	return c.Status == CaseStatusPublished
}

// CaseImage is one ordered image of a construction case.
type CaseImage struct {
	ID           uint
	CaseID       uint
	ImageURL     string
	DisplayOrder int
}

// Inquiry is a message from a (possibly anonymous) visitor to a company.
type Inquiry struct {
	ID            uint
	CompanyID     uint
	CustomerID    *uint
	InquirerName  string
	InquirerEmail string
	InquirerPhone string
	Message       string
	Status        InquiryStatus
	InternalNotes string
	RespondedAt   *time.Time
	Company       *Company
	Responses     []InquiryResponse
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// InquiryResponse is one message in an inquiry thread.
type InquiryResponse struct {
	ID        uint
	InquiryID uint
	Sender    ResponseSender
	MemberID  *uint
	Message   string
	CreatedAt time.Time
}

// GeneralInquiry is a site-level contact message answered by admins.
type GeneralInquiry struct {
	ID            uint
	Name          string
	Email         string
	Phone         string
	Subject       string
	Message       string
	Status        InquiryStatus
	InternalNotes string
	RespondedAt   *time.Time
	Responses     []GeneralInquiryResponse
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// GeneralInquiryResponse is one admin answer to a general inquiry.
type GeneralInquiryResponse struct {
	ID               uint
	GeneralInquiryID uint
	Sender           ResponseSender
	AdminID          *uint
	Message          string
	CreatedAt        time.Time
}

// Tag classifies companies and cases. DisplayOrder is contiguous 1..N per category.
type Tag struct {
	ID           uint
	Name         string
	Category     TagCategory
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ActivityLog is an append-only audit entry.
type ActivityLog struct {
	ID        uint
	Action    string
	AdminID   *uint
	MemberID  *uint
	Details   string
	CreatedAt time.Time
}
