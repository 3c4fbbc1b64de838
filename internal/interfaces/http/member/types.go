package member

import (
	"github.com/shopspring/decimal"
	"github.com/taka-shaka/matching-site-sub001/internal/domain"
	memberapp "github.com/taka-shaka/matching-site-sub001/internal/member/application"
)

type companyProfileRequest struct {
	Name        *string `json:"name" label:"会社名" validate:"omitempty,max=200"`
	Description *string `json:"description" label:"会社紹介" validate:"omitempty,max=5000"`
	Address     *string `json:"address" label:"住所" validate:"omitempty,max=255"`
	Prefecture  *string `json:"prefecture" label:"都道府県" validate:"omitempty,prefecture"`
	City        *string `json:"city" label:"市区町村" validate:"omitempty,max=100"`
	PhoneNumber *string `json:"phoneNumber" label:"電話番号" validate:"omitempty,max=20"`
	Email       *string `json:"email" label:"メールアドレス" validate:"omitempty,max=255"`
	WebsiteURL  *string `json:"websiteUrl" label:"WebサイトURL" validate:"omitempty,max=500"`
	LogoURL     *string `json:"logoUrl" label:"ロゴURL" validate:"omitempty,max=500"`
}

func (req companyProfileRequest) patch() domain.CompanyProfilePatch {
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

type tagIDsRequest struct {
	TagIDs []uint `json:"tagIds" label:"タグ" validate:"dive,gt=0"`
}

type staffCreateRequest struct {
	Name     string `json:"name" label:"名前" validate:"required,max=100"`
	Email    string `json:"email" label:"メールアドレス" validate:"required,email"`
	Password string `json:"password" label:"パスワード" validate:"required,min=8"`
	Role     string `json:"role" label:"権限" validate:"omitempty,oneof=ADMIN GENERAL"`
}

// caseRequest accepts buildingArea as a JSON number or string; decimal
// keeps 120.46 exact either way.
type caseRequest struct {
	Title          *string          `json:"title" label:"タイトル" validate:"omitempty,max=200"`
	Description    *string          `json:"description" label:"説明" validate:"omitempty,max=10000"`
	Prefecture     *string          `json:"prefecture" label:"都道府県" validate:"omitempty,prefecture"`
	City           *string          `json:"city" label:"市区町村" validate:"omitempty,max=100"`
	BuildingArea   *decimal.Decimal `json:"buildingArea" label:"延床面積"`
	Budget         *int             `json:"budget" label:"予算" validate:"omitempty,gte=0"`
	CompletionYear *int             `json:"completionYear" label:"完成年"`
	MainImageURL   *string          `json:"mainImageUrl" label:"メイン画像URL" validate:"omitempty,max=500"`
	Status         *string          `json:"status" label:"公開ステータス" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	TagIDs         []uint           `json:"tagIds" label:"タグ" validate:"omitempty,dive,gt=0"`
	ImageURLs      []string         `json:"imageUrls" label:"画像" validate:"omitempty,max=20,dive,max=500"`
}

func (req caseRequest) command() memberapp.CaseCommand {
	return memberapp.CaseCommand{
		Patch: domain.CasePatch{
			Title:          req.Title,
			Description:    req.Description,
			Prefecture:     req.Prefecture,
			City:           req.City,
			BuildingArea:   req.BuildingArea,
			Budget:         req.Budget,
			CompletionYear: req.CompletionYear,
			MainImageURL:   req.MainImageURL,
			Status:         req.Status,
		},
		TagIDs:    req.TagIDs,
		ImageURLs: req.ImageURLs,
	}
}

type inquiryUpdateRequest struct {
	Status        *string `json:"status" label:"ステータス"`
	InternalNotes *string `json:"internalNotes" label:"社内メモ" validate:"omitempty,max=5000"`
}

type replyRequest struct {
	Message string `json:"message" label:"返信内容" validate:"required"`
}
