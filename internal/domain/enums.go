package domain

import "fmt"

type AdminRole string

const (
	AdminRoleSuperAdmin AdminRole = "SUPER_ADMIN"
	AdminRoleAdmin      AdminRole = "ADMIN"
)

// MemberRole is company-local; ADMIN here is not a platform admin.
type MemberRole string

const (
	MemberRoleAdmin   MemberRole = "ADMIN"
	MemberRoleGeneral MemberRole = "GENERAL"
)

func ParseMemberRole(value string) (MemberRole, error) {
	switch MemberRole(value) {
	case MemberRoleAdmin, MemberRoleGeneral:
		return MemberRole(value), nil
	case "":
		return MemberRoleGeneral, nil
	}
	return "", Validation(fmt.Sprintf("不正な権限です: %s", value))
}

type CaseStatus string

const (
	CaseStatusDraft     CaseStatus = "DRAFT"
	CaseStatusPublished CaseStatus = "PUBLISHED"
)

func ParseCaseStatus(value string) (CaseStatus, error) {
	switch CaseStatus(value) {
	case CaseStatusDraft, CaseStatusPublished:
		return CaseStatus(value), nil
	}
	return "", Validation(fmt.Sprintf("不正な公開ステータスです: %s", value))
}

type InquiryStatus string

const (
	InquiryStatusNew        InquiryStatus = "NEW"
	InquiryStatusInProgress InquiryStatus = "IN_PROGRESS"
	InquiryStatusResolved   InquiryStatus = "RESOLVED"
	InquiryStatusClosed     InquiryStatus = "CLOSED"
)

func ParseInquiryStatus(value string) (InquiryStatus, error) {
	switch InquiryStatus(value) {
	case InquiryStatusNew, InquiryStatusInProgress, InquiryStatusResolved, InquiryStatusClosed:
		return InquiryStatus(value), nil
	}
	return "", Validation(fmt.Sprintf("不正な対応ステータスです: %s", value))
}

// AfterCompanyReply is the status an inquiry moves to when the company (or an
// admin, for general inquiries) answers it.
func (s InquiryStatus) AfterCompanyReply() (InquiryStatus, error) {
	if s == InquiryStatusNew {
		return InquiryStatusInProgress, nil
	}
	return s, nil
}

// AfterCustomerReply reopens resolved inquiries. Closed inquiries accept no more
// customer messages.
func (s InquiryStatus) AfterCustomerReply() (InquiryStatus, error) {
	switch s {
	case InquiryStatusResolved:
		return InquiryStatusInProgress, nil
	case InquiryStatusClosed:
		return s, Validation("クローズされたお問い合わせには返信できません")
	}
	return s, nil
}

type ResponseSender string

const (
	SenderCustomer ResponseSender = "CUSTOMER"
	SenderCompany  ResponseSender = "COMPANY"
	SenderAdmin    ResponseSender = "ADMIN"
)

type TagCategory string

const (
	TagCategoryHouseType  TagCategory = "HOUSE_TYPE"
	TagCategoryPriceRange TagCategory = "PRICE_RANGE"
	TagCategoryStructure  TagCategory = "STRUCTURE"
	TagCategoryAtmosphere TagCategory = "ATMOSPHERE"
	TagCategoryPreference TagCategory = "PREFERENCE"
)

// TagCategories lists categories in their UI order.
var TagCategories = []TagCategory{
	TagCategoryHouseType,
	TagCategoryPriceRange,
	TagCategoryStructure,
	TagCategoryAtmosphere,
	TagCategoryPreference,
}

func ParseTagCategory(value string) (TagCategory, error) {
	for _, c := range TagCategories {
		if string(c) == value {
			return c, nil
		}
	}
	return "", Validation(fmt.Sprintf("不正なタグカテゴリです: %s", value))
}

// Activity log actions.
const (
	ActionCompanyCreated        = "COMPANY_CREATED"
	ActionCompanyUpdated        = "COMPANY_UPDATED"
	ActionCompanyDeleted        = "COMPANY_DELETED"
	ActionMemberCreated         = "MEMBER_CREATED"
	ActionMemberUpdated         = "MEMBER_UPDATED"
	ActionMemberDeleted         = "MEMBER_DELETED"
	ActionCustomerUpdated       = "CUSTOMER_UPDATED"
	ActionCustomerDeleted       = "CUSTOMER_DELETED"
	ActionCaseCreated           = "CASE_CREATED"
	ActionCaseUpdated           = "CASE_UPDATED"
	ActionCasePublished         = "CASE_PUBLISHED"
	ActionCaseDeleted           = "CASE_DELETED"
	ActionInquiryReplied        = "INQUIRY_REPLIED"
	ActionInquiryUpdated        = "INQUIRY_UPDATED"
	ActionInquiryDeleted        = "INQUIRY_DELETED"
	ActionGeneralInquiryReplied = "GENERAL_INQUIRY_REPLIED"
	ActionGeneralInquiryUpdated = "GENERAL_INQUIRY_UPDATED"
	ActionTagCreated            = "TAG_CREATED"
	ActionTagUpdated            = "TAG_UPDATED"
	ActionTagReordered          = "TAG_REORDERED"
	ActionTagDeleted            = "TAG_DELETED"
	ActionNotificationResent    = "NOTIFICATION_RESENT"
)
