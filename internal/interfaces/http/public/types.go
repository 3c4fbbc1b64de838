package public

import "github.com/taka-shaka/matching-site-sub001/internal/interfaces/http/common"

type inquiryCreateRequest struct {
	CompanyID     uint   `json:"companyId" label:"会社" validate:"required"`
	InquirerName  string `json:"inquirerName" label:"お名前" validate:"required,max=100"`
	InquirerEmail string `json:"inquirerEmail" label:"メールアドレス" validate:"required,email"`
	InquirerPhone string `json:"inquirerPhone" label:"電話番号" validate:"omitempty,max=20"`
	Message       string `json:"message" label:"お問い合わせ内容" validate:"required"`
}

type generalInquiryCreateRequest struct {
	Name    string `json:"name" label:"お名前" validate:"required,max=100"`
	Email   string `json:"email" label:"メールアドレス" validate:"required,email"`
	Phone   string `json:"phone" label:"電話番号" validate:"omitempty,max=20"`
	Subject string `json:"subject" label:"件名" validate:"required,max=200"`
	Message string `json:"message" label:"お問い合わせ内容" validate:"required"`
}

type signupRequest struct {
	Email       string `json:"email" label:"メールアドレス" validate:"required,email"`
	Password    string `json:"password" label:"パスワード" validate:"required,min=8,max=72"`
	LastName    string `json:"lastName" label:"姓" validate:"required,max=50"`
	FirstName   string `json:"firstName" label:"名" validate:"omitempty,max=50"`
	PhoneNumber string `json:"phoneNumber" label:"電話番号" validate:"omitempty,max=20"`
}

type loginRequest struct {
	Email    string `json:"email" label:"メールアドレス" validate:"required"`
	Password string `json:"password" label:"パスワード" validate:"required"`
}

// companyDetailResponse is a published company with its published cases.
type companyDetailResponse struct {
	common.CompanyResponse
	Cases []common.CaseResponse `json:"cases"`
}

type tagGroupResponse struct {
	Category string               `json:"category"`
	Tags     []common.TagResponse `json:"tags"`
}
