// Package application serves the anonymous marketplace and the account
// endpoints shared by every role.
package application

import (
	"context"

	"github.com/taka-shaka/matching-site-sub001/internal/account"
	"github.com/taka-shaka/matching-site-sub001/internal/auth"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
)

// CaseQueryService describes read use-cases for published cases.
// CaseQueryService は公開中の施工事例を参照するユースケース。
type CaseQueryService interface {
	List(ctx context.Context, filter domain.CaseFilter, paging domain.Paging) ([]domain.ConstructionCase, domain.Pagination, error)
	Detail(ctx context.Context, id uint) (*domain.ConstructionCase, error)
}

// CompanyQueryService describes read use-cases for published companies.
// CompanyQueryService は公開中の会社を参照するユースケース。
type CompanyQueryService interface {
	List(ctx context.Context, filter domain.CompanyFilter, paging domain.Paging) ([]domain.Company, domain.Pagination, error)
	Detail(ctx context.Context, id uint) (*CompanyDetail, error)
}

// TagQueryService lists the catalogue grouped by category.
type TagQueryService interface {
	Grouped(ctx context.Context) ([]TagGroup, error)
}

// InquiryCommandService accepts messages from visitors.
// InquiryCommandService は訪問者からのお問い合わせを受け付ける。
type InquiryCommandService interface {
	Submit(ctx context.Context, customer *domain.Customer, cmd SubmitInquiryCommand) (*domain.Inquiry, error)
	SubmitGeneral(ctx context.Context, cmd SubmitGeneralInquiryCommand) (*domain.GeneralInquiry, error)
}

// AuthService signs users up and in through the identity provider.
type AuthService interface {
	Signup(ctx context.Context, in account.CustomerInput) (*domain.Customer, error)
	Login(ctx context.Context, email, password string) (*LoginResult, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.IdentitySession, error)
	Logout(ctx context.Context, accessToken string) error
}

// CompanyDetail is a published company with its published cases.
type CompanyDetail struct {
	Company domain.Company
	Cases   []domain.ConstructionCase
}

type TagGroup struct {
	Category domain.TagCategory
	Tags     []domain.Tag
}

// SubmitInquiryCommand captures the inquiry form. CustomerID is never taken
// from the body; it comes from the session.
type SubmitInquiryCommand struct {
	CompanyID     uint
	InquirerName  string
	InquirerEmail string
	InquirerPhone string
	Message       string
}

type SubmitGeneralInquiryCommand struct {
	Name    string
	Email   string
	Phone   string
	Subject string
	Message string
}

// LoginResult is a fresh session and where the browser should go next.
type LoginResult struct {
	Session    *domain.IdentitySession
	Role       auth.Role
	RedirectTo string
}
