package admin

import (
	"net/http"

	adminapp "github.com/taka-shaka/matching-site-sub001/internal/admin/application"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	"github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"
)

type companyRequest struct {
	Name        *string `json:"name" label:"会社名" validate:"omitempty,max=200"`
	Description *string `json:"description" label:"会社紹介" validate:"omitempty,max=5000"`
	Address     *string `json:"address" label:"住所" validate:"omitempty,max=255"`
	Prefecture  *string `json:"prefecture" label:"都道府県" validate:"omitempty,prefecture"`
	City        *string `json:"city" label:"市区町村" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" label:"電話番号" validate:"omitempty,max=20"`
	Email       *string `json:"email" label:"メールアドレス" validate:"omitempty,max=255"`
	WebsiteURL  *string `json:"websiteUrl" label:"WebサイトURL" validate:"omitempty,max=500"`
	LogoURL     *string `json:"logoUrl" label:"ロゴURL" validate:"omitempty,max=500"`
	IsPublished *bool   `json:"isPublished"`
	TagIDs      []uint  `json:"tagIds" label:"タグ" validate:"omitempty,dive,gt=0"`
}

func (req companyRequest) profile() domain.CompanyProfilePatch {
	return domain.CompanyProfilePatch{
		Name:        req.Name,
		Description: req.Description,
		Address:     req.Address,
		Prefecture:  req.Prefecture,
		City:        req.City,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		WebsiteURL:  req.WebsiteURL,
		LogoURL:     req.LogoURL,
	}
}

func (req companyRequest) createCommand() adminapp.CompanyCommand {
	cmd := adminapp.CompanyCommand{Profile: req.profile(), TagIDs: req.TagIDs}
	if req.IsPublished != nil {
		cmd.IsPublished = *req.IsPublished
	}
	return cmd
}

type tagIDsRequest struct {
	TagIDs []uint `json:"tagIds" label:"タグ" validate:"dive,gt=0"`
}

type memberCreateRequest struct {
	Name      string `json:"name" label:"名前" validate:"required,max=100"`
	Email     string `json:"email" label:"メールアドレス" validate:"required,email"`
	Password  string `json:"password" label:"パスワード" validate:"required,min=8"`
	Role      string `json:"role" label:"権限" validate:"omitempty,oneof=ADMIN GENERAL"`
	CompanyID uint   `json:"companyId" label:"会社" validate:"required"`
}

type memberUpdateRequest struct {
	Name     *string `json:"name" label:"名前" validate:"omitempty,max=100"`
	Role     *string `json:"role" label:"権限" validate:"omitempty,oneof=ADMIN GENERAL"`
	IsActive *bool   `json:"isActive"`
}

type customerUpdateRequest struct {
	IsActive *bool `json:"isActive" label:"有効状態" validate:"required"`
}

type inquiryUpdateRequest struct {
	Status        *string `json:"status" label:"ステータス"`
	InternalNotes *string `json:"internalNotes" label:"社内メモ" validate:"omitempty,max=5000"`
}

type replyRequest struct {
	Message string `json:"message" label:"返信内容" validate:"required"`
}

type tagCreateRequest struct {
	Name     string `json:"name" label:"タグ名" validate:"required,max=50"`
	Category string `json:"category" label:"カテゴリ" validate:"required,tagcategory"`
}

type tagUpdateRequest struct {
	Name     *string `json:"name" label:"タグ名" validate:"omitempty,max=50"`
	Category *string `json:"category" label:"カテゴリ" validate:"omitempty,tagcategory"`
}

type tagReorderRequest struct {
	DisplayOrder int `json:"displayOrder" label:"表示順" validate:"required,gte=1"`
}

// currentAdmin returns the admin loaded by RequireAdmin.
func currentAdmin(r *http.Request) *domain.Admin {
	admin, _ := common.AdminFromContext(r.Context())
	return admin
}
