package postgres

import (
	"time"

	"github.com/shopspring/decimal"
)

// Foreign keys follow the deletion rules of the marketplace: removing a company
// removes everything it owns, removing a member removes the cases they authored,
// removing a customer removes their inquiries, and removing a reply author only
// clears the link.

type adminModel struct {
	ID          uint   `gorm:"primaryKey"`
	AuthID      string `gorm:"size:64;not null;uniqueIndex"`
	Email       string `gorm:"size:255;not null;uniqueIndex"`
	Name        string `gorm:"size:100;not null"`
	Role        string `gorm:"size:20;not null;default:'ADMIN'"`
	IsActive    bool   `gorm:"not null"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	GeneralResponses []generalInquiryResponseModel `gorm:"foreignKey:AdminID;constraint:OnDelete:SET NULL"`
	ActivityLogs     []activityLogModel            `gorm:"foreignKey:AdminID;constraint:OnDelete:SET NULL"`
}

func (adminModel) TableName() string { return "admins" }

type companyModel struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	Address     string `gorm:"size:255"`
	Prefecture  string `gorm:"size:10;index"`
	City        string `gorm:"size:100"`
	PhoneNumber string `gorm:"size:20"`
	Email       string `gorm:"size:255;not null;uniqueIndex"`
	WebsiteURL  string `gorm:"size:255"`
	LogoURL     string `gorm:"size:500"`
	IsPublished bool   `gorm:"not null;index"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Tags      []tagModel     `gorm:"many2many:company_tags;joinForeignKey:CompanyID;joinReferences:TagID;constraint:OnDelete:CASCADE"`
	Members   []memberModel  `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Cases     []caseModel    `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
	Inquiries []inquiryModel `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE"`
}

func (companyModel) TableName() string { return "companies" }

type memberModel struct {
	ID        uint   `gorm:"primaryKey"`
	AuthID    string `gorm:"size:64;not null;uniqueIndex"`
	Email     string `gorm:"size:255;not null;uniqueIndex"`
	Name      string `gorm:"size:100;not null"`
	Role      string `gorm:"size:20;not null;default:'GENERAL'"`
	CompanyID uint   `gorm:"not null;index"`
	IsActive  bool   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Company      *companyModel          `gorm:"foreignKey:CompanyID"`
	Cases        []caseModel            `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Responses    []inquiryResponseModel `gorm:"foreignKey:MemberID;constraint:OnDelete:SET NULL"`
	ActivityLogs []activityLogModel     `gorm:"foreignKey:MemberID;constraint:OnDelete:SET NULL"`
}

func (memberModel) TableName() string { return "members" }

type customerModel struct {
	ID          uint   `gorm:"primaryKey"`
	AuthID      string `gorm:"size:64;not null;uniqueIndex"`
	Email       string `gorm:"size:255;not null;uniqueIndex"`
	LastName    string `gorm:"size:50;not null"`
	FirstName   string `gorm:"size:50"`
	PhoneNumber string `gorm:"size:20"`
	IsActive    bool   `gorm:"not null"`
	LastLoginAt *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Inquiries []inquiryModel `gorm:"foreignKey:CustomerID;constraint:OnDelete:CASCADE"`
}

func (customerModel) TableName() string { return "customers" }

type caseModel struct {
	ID             uint                `gorm:"primaryKey"`
	CompanyID      uint                `gorm:"not null;index"`
	AuthorID       uint                `gorm:"not null;index"`
	Title          string              `gorm:"size:200;not null"`
	Description    string              `gorm:"type:text"`
	Prefecture     string              `gorm:"size:10;index"`
	City           string              `gorm:"size:100"`
	BuildingArea   decimal.NullDecimal `gorm:"type:numeric(10,2)"`
	Budget         *int
	CompletionYear *int
	MainImageURL   string `gorm:"size:500"`
	Status         string `gorm:"size:20;not null;default:'DRAFT';index"`
	ViewCount      int    `gorm:"not null;default:0"`
	PublishedAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time

	Company *companyModel    `gorm:"foreignKey:CompanyID"`
	Tags    []tagModel       `gorm:"many2many:construction_case_tags;joinForeignKey:CaseID;joinReferences:TagID;constraint:OnDelete:CASCADE"`
	Images  []caseImageModel `gorm:"foreignKey:CaseID;constraint:OnDelete:CASCADE"`
}

func (caseModel) TableName() string { return "construction_cases" }

type caseImageModel struct {
	ID           uint   `gorm:"primaryKey"`
	CaseID       uint   `gorm:"not null;index"`
	ImageURL     string `gorm:"size:500;not null"`
	DisplayOrder int    `gorm:"not null"`
}

func (caseImageModel) TableName() string { return "construction_case_images" }

type inquiryModel struct {
	ID            uint   `gorm:"primaryKey"`
	CompanyID     uint   `gorm:"not null;index"`
	CustomerID    *uint  `gorm:"index"`
	InquirerName  string `gorm:"size:100;not null"`
	InquirerEmail string `gorm:"size:255;not null"`
	InquirerPhone string `gorm:"size:20"`
	Message       string `gorm:"type:text;not null"`
	Status        string `gorm:"size:20;not null;default:'NEW';index"`
	InternalNotes string `gorm:"type:text"`
	RespondedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Company   *companyModel          `gorm:"foreignKey:CompanyID"`
	Responses []inquiryResponseModel `gorm:"foreignKey:InquiryID;constraint:OnDelete:CASCADE"`
}

func (inquiryModel) TableName() string { return "inquiries" }

type inquiryResponseModel struct {
	ID        uint   `gorm:"primaryKey"`
	InquiryID uint   `gorm:"not null;index"`
	Sender    string `gorm:"size:20;not null"`
	MemberID  *uint  `gorm:"index"`
	Message   string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (inquiryResponseModel) TableName() string { return "inquiry_responses" }

type generalInquiryModel struct {
	ID            uint   `gorm:"primaryKey"`
	Name          string `gorm:"size:100;not null"`
	Email         string `gorm:"size:255;not null"`
	Phone         string `gorm:"size:20"`
	Subject       string `gorm:"size:200;not null"`
	Message       string `gorm:"type:text;not null"`
	Status        string `gorm:"size:20;not null;default:'NEW';index"`
	InternalNotes string `gorm:"type:text"`
	RespondedAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Responses []generalInquiryResponseModel `gorm:"foreignKey:GeneralInquiryID;constraint:OnDelete:CASCADE"`
}

func (generalInquiryModel) TableName() string { return "general_inquiries" }

type generalInquiryResponseModel struct {
	ID               uint   `gorm:"primaryKey"`
	GeneralInquiryID uint   `gorm:"not null;index"`
	Sender           string `gorm:"size:20;not null"`
	AdminID          *uint  `gorm:"index"`
	Message          string `gorm:"type:text;not null"`
	CreatedAt        time.Time
}

func (generalInquiryResponseModel) TableName() string { return "general_inquiry_responses" }

// tagModel は表示順の一意制約を持たない。並び替え中は一時的に重複するため。
type tagModel struct {
	ID           uint   `gorm:"primaryKey"`
	Name         string `gorm:"size:50;not null;uniqueIndex"`
	Category     string `gorm:"size:20;not null;index:idx_tags_category_order,priority:1"`
	DisplayOrder int    `gorm:"not null;index:idx_tags_category_order,priority:2"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (tagModel) TableName() string { return "tags" }

type activityLogModel struct {
	ID        uint   `gorm:"primaryKey"`
	Action    string `gorm:"size:50;not null;index"`
	AdminID   *uint  `gorm:"index"`
	MemberID  *uint  `gorm:"index"`
	Details   string `gorm:"type:text"`
	CreatedAt time.Time
}

func (activityLogModel) TableName() string { return "activity_logs" }

// companyTagModel と caseTagModel は利用数の集計にだけ使う。
type companyTagModel struct {
	CompanyID uint `gorm:"primaryKey"`
	TagID     uint `gorm:"primaryKey"`
}

func (companyTagModel) TableName() string { return "company_tags" }

type caseTagModel struct {
	CaseID uint `gorm:"primaryKey"`
	TagID  uint `gorm:"primaryKey"`
}

func (caseTagModel) TableName() string { return "construction_case_tags" }
