package common

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/notification"
)

// Response shapes shared by every audience. JSON keys follow the frontend's
// camelCase contract.

type TagResponse struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	DisplayOrder int    `json:"displayOrder"`
}

type CompanySummary struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Prefecture string `json:"prefecture,omitempty"`
	LogoURL    string `json:"logoUrl,omitempty"`
}

type CompanyResponse struct {
	ID          uint          `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Address     string        `json:"address"`
	Prefecture  string        `json:"prefecture"`
	City        string        `json:"city"`
	PhoneNumber string        `json:"phoneNumber"`
	Email       string        `json:"email"`
	WebsiteURL  string        `json:"websiteUrl"`
	LogoURL     string        `json:"logoUrl"`
	IsPublished bool          `json:"isPublished"`
	Tags        []TagResponse `json:"tags"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

type AdminResponse struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	Name        string     `json:"name"`
	Role        string     `json:"role"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type MemberResponse struct {
	ID        uint            `json:"id"`
	Email     string          `json:"email"`
	Name      string          `json:"name"`
	Role      string          `json:"role"`
	CompanyID uint            `json:"companyId"`
	Company   *CompanySummary `json:"company,omitempty"`
	IsActive  bool            `json:"isActive"`
	CreatedAt time.Time       `json:"createdAt"`
}

type CustomerResponse struct {
	ID          uint       `json:"id"`
	Email       string     `json:"email"`
	LastName    string     `json:"lastName"`
	FirstName   string     `json:"firstName"`
	PhoneNumber string     `json:"phoneNumber"`
	IsActive    bool       `json:"isActive"`
	LastLoginAt *time.Time `json:"lastLoginAt"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type CaseImageResponse struct {
	ID           uint   `json:"id"`
	ImageURL     string `json:"imageUrl"`
	DisplayOrder int    `json:"displayOrder"`
}

type CaseResponse struct {
	ID             uint                `json:"id"`
	CompanyID      uint                `json:"companyId"`
	AuthorID       uint                `json:"authorId"`
	Title          string              `json:"title"`
	Description    string              `json:"description"`
	Prefecture     string              `json:"prefecture"`
	City           string              `json:"city"`
	BuildingArea   *decimal.Decimal    `json:"buildingArea"`
	Budget         *int                `json:"budget"`
	CompletionYear *int                `json:"completionYear"`
	MainImageURL   string              `json:"mainImageUrl"`
	Status         string              `json:"status"`
	ViewCount      int                 `json:"viewCount"`
	PublishedAt    *time.Time          `json:"publishedAt"`
	Company        *CompanySummary     `json:"company,omitempty"`
	Tags           []TagResponse       `json:"tags"`
	Images         []CaseImageResponse `json:"images"`
	CreatedAt      time.Time           `json:"createdAt"`
	UpdatedAt      time.Time           `json:"updatedAt"`
}

type InquiryMessageResponse struct {
	ID        uint      `json:"id"`
	Sender    string    `json:"sender"`
	MemberID  *uint     `json:"memberId,omitempty"`
	AdminID   *uint     `json:"adminId,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

type InquiryResponse struct {
	ID            uint                     `json:"id"`
	CompanyID     uint                     `json:"companyId"`
	CustomerID    *uint                    `json:"customerId"`
	InquirerName  string                   `json:"inquirerName"`
	InquirerEmail string                   `json:"inquirerEmail"`
	InquirerPhone string                   `json:"inquirerPhone"`
	Message       string                   `json:"message"`
	Status        string                   `json:"status"`
	InternalNotes string                   `json:"internalNotes,omitempty"`
	RespondedAt   *time.Time               `json:"respondedAt"`
	Company       *CompanySummary          `json:"company,omitempty"`
	Responses     []InquiryMessageResponse `json:"responses"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

type GeneralInquiryResponse struct {
	ID            uint                     `json:"id"`
	Name          string                   `json:"name"`
	Email         string                   `json:"email"`
	Phone         string                   `json:"phone"`
	Subject       string                   `json:"subject"`
	Message       string                   `json:"message"`
	Status        string                   `json:"status"`
	InternalNotes string                   `json:"internalNotes"`
	RespondedAt   *time.Time               `json:"respondedAt"`
	Responses     []InquiryMessageResponse `json:"responses"`
	CreatedAt     time.Time                `json:"createdAt"`
	UpdatedAt     time.Time                `json:"updatedAt"`
}

type ActivityLogResponse struct {
	ID        uint      `json:"id"`
	Action    string    `json:"action"`
	AdminID   *uint     `json:"adminId"`
	MemberID  *uint     `json:"memberId"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

type FailedNotificationResponse struct {
	ID          string    `json:"id"`
	Kind        string    `json:"kind"`
	Reference   string    `json:"reference"`
	Recipient   string    `json:"recipient"`
	Subject     string    `json:"subject"`
	Error       string    `json:"error"`
	Attempts    int       `json:"attempts"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"createdAt"`
	LastTriedAt time.Time `json:"lastTriedAt"`
}

func NewTagResponse(tag domain.Tag) TagResponse {
	return TagResponse{ID: tag.ID, Name: tag.Name, Category: string(tag.Category), DisplayOrder: tag.DisplayOrder}
}

func NewTagResponses(tags []domain.Tag) []TagResponse {
	items := make([]TagResponse, 0, len(tags))
	for _, tag := range tags {
		items = append(items, NewTagResponse(tag))
	}
	return items
}

func NewCompanySummary(company *domain.Company) *CompanySummary {
	if company == nil {
		return nil
	}
	return &CompanySummary{ID: company.ID, Name: company.Name, Prefecture: company.Prefecture.String(), LogoURL: company.LogoURL}
}

func NewCompanyResponse(company domain.Company) CompanyResponse {
	return CompanyResponse{
		ID:          company.ID,
		Name:        company.Name,
		Description: company.Description,
		Address:     company.Address,
		Prefecture:  company.Prefecture.String(),
		City:        company.City,
		PhoneNumber: company.PhoneNumber,
		Email:       company.Email,
		WebsiteURL:  company.WebsiteURL,
		LogoURL:     company.LogoURL,
		IsPublished: company.IsPublished,
		Tags:        NewTagResponses(company.Tags),
		CreatedAt:   company.CreatedAt,
		UpdatedAt:   company.UpdatedAt,
	}
}

func NewCompanyResponses(companies []domain.Company) []CompanyResponse {
	items := make([]CompanyResponse, 0, len(companies))
	for _, company := range companies {
		items = append(items, NewCompanyResponse(company))
	}
	return items
}

func NewAdminResponse(admin domain.Admin) AdminResponse {
	return AdminResponse{
		ID:          admin.ID,
		Email:       admin.Email,
		Name:        admin.Name,
		Role:        string(admin.Role),
		LastLoginAt: admin.LastLoginAt,
		CreatedAt:   admin.CreatedAt,
	}
}

func NewMemberResponse(member domain.Member) MemberResponse {
	return MemberResponse{
		ID:        member.ID,
		Email:     member.Email,
		Name:      member.Name,
		Role:      string(member.Role),
		CompanyID: member.CompanyID,
		Company:   NewCompanySummary(member.Company),
		IsActive:  member.IsActive,
		CreatedAt: member.CreatedAt,
	}
}

func NewMemberResponses(members []domain.Member) []MemberResponse {
	items := make([]MemberResponse, 0, len(members))
	for _, member := range members {
		items = append(items, NewMemberResponse(member))
	}
	return items
}

func NewCustomerResponse(customer domain.Customer) CustomerResponse {
	return CustomerResponse{
		ID:          customer.ID,
		Email:       customer.Email,
		LastName:    customer.LastName,
		FirstName:   customer.FirstName,
		PhoneNumber: customer.PhoneNumber,
		IsActive:    customer.IsActive,
		LastLoginAt: customer.LastLoginAt,
		CreatedAt:   customer.CreatedAt,
	}
}

func NewCustomerResponses(customers []domain.Customer) []CustomerResponse {
	items := make([]CustomerResponse, 0, len(customers))
	for _, customer := range customers {
		items = append(items, NewCustomerResponse(customer))
	}
	return items
}

func NewCaseResponse(c domain.ConstructionCase) CaseResponse {
	var area *decimal.Decimal
	if c.BuildingArea.Valid {
		value := c.BuildingArea.Decimal
		area = &value
	}
	images := make([]CaseImageResponse, 0, len(c.Images))
	for _, image := range c.Images {
		images = append(images, CaseImageResponse{ID: image.ID, ImageURL: image.ImageURL, DisplayOrder: image.DisplayOrder})
	}
	return CaseResponse{
		ID:             c.ID,
		CompanyID:      c.CompanyID,
		AuthorID:       c.AuthorID,
		Title:          c.Title,
		Description:    c.Description,
		Prefecture:     c.Prefecture.String(),
		City:           c.City,
		BuildingArea:   area,
		Budget:         c.Budget,
		CompletionYear: c.CompletionYear,
		MainImageURL:   c.MainImageURL,
		Status:         string(c.Status),
		ViewCount:      c.ViewCount,
		PublishedAt:    c.PublishedAt,
		Company:        NewCompanySummary(c.Company),
		Tags:           NewTagResponses(c.Tags),
		Images:         images,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

func NewCaseResponses(cases []domain.ConstructionCase) []CaseResponse {
	items := make([]CaseResponse, 0, len(cases))
	for _, c := range cases {
		items = append(items, NewCaseResponse(c))
	}
	return items
}

// NewInquiryResponse renders an inquiry. Internal notes are staff-only and
// dropped when withNotes is false.
func NewInquiryResponse(inquiry domain.Inquiry, withNotes bool) InquiryResponse {
	responses := make([]InquiryMessageResponse, 0, len(inquiry.Responses))
	for _, response := range inquiry.Responses {
		responses = append(responses, InquiryMessageResponse{
			ID:        response.ID,
			Sender:    string(response.Sender),
			MemberID:  response.MemberID,
			Message:   response.Message,
			CreatedAt: response.CreatedAt,
		})
	}
	result := InquiryResponse{
		ID:            inquiry.ID,
		CompanyID:     inquiry.CompanyID,
		CustomerID:    inquiry.CustomerID,
		InquirerName:  inquiry.InquirerName,
		InquirerEmail: inquiry.InquirerEmail,
		InquirerPhone: inquiry.InquirerPhone,
		Message:       inquiry.Message,
		Status:        string(inquiry.Status),
		RespondedAt:   inquiry.RespondedAt,
		Company:       NewCompanySummary(inquiry.Company),
		Responses:     responses,
		CreatedAt:     inquiry.CreatedAt,
		UpdatedAt:     inquiry.UpdatedAt,
	}
	if withNotes {
		result.InternalNotes = inquiry.InternalNotes
	}
	return result
}

func NewInquiryResponses(inquiries []domain.Inquiry, withNotes bool) []InquiryResponse {
	items := make([]InquiryResponse, 0, len(inquiries))
	for _, inquiry := range inquiries {
		items = append(items, NewInquiryResponse(inquiry, withNotes))
	}
	return items
}

func NewGeneralInquiryResponse(inquiry domain.GeneralInquiry) GeneralInquiryResponse {
	responses := make([]InquiryMessageResponse, 0, len(inquiry.Responses))
	for _, response := range inquiry.Responses {
		responses = append(responses, InquiryMessageResponse{
			ID:        response.ID,
			Sender:    string(response.Sender),
			AdminID:   response.AdminID,
			Message:   response.Message,
			CreatedAt: response.CreatedAt,
		})
	}
	return GeneralInquiryResponse{
		ID:            inquiry.ID,
		Name:          inquiry.Name,
		Email:         inquiry.Email,
		Phone:         inquiry.Phone,
		Subject:       inquiry.Subject,
		Message:       inquiry.Message,
		Status:        string(inquiry.Status),
		InternalNotes: inquiry.InternalNotes,
		RespondedAt:   inquiry.RespondedAt,
		Responses:     responses,
		CreatedAt:     inquiry.CreatedAt,
		UpdatedAt:     inquiry.UpdatedAt,
	}
}

func NewActivityLogResponse(entry domain.ActivityLog) ActivityLogResponse {
	return ActivityLogResponse{
		ID:        entry.ID,
		Action:    entry.Action,
		AdminID:   entry.AdminID,
		MemberID:  entry.MemberID,
		Details:   entry.Details,
		CreatedAt: entry.CreatedAt,
	}
}

func NewFailedNotificationResponse(f notification.FailedNotification) FailedNotificationResponse {
	return FailedNotificationResponse{
		ID:          f.ID,
		Kind:        f.Kind,
		Reference:   f.Reference,
		Recipient:   f.Recipient,
		Subject:     f.Subject,
		Error:       f.Error,
		Attempts:    f.Attempts,
		Status:      f.Status,
		CreatedAt:   f.CreatedAt,
		LastTriedAt: f.LastTriedAt,
	}
}
