package auth

import "github.com/taka-shaka/matching-site-sub001/internal/domain"

// Decision is the outcome of an ownership check.
type Decision int

const (
	Allowed Decision = iota
	NotFound
	Forbidden
)

func (d Decision) String() string {
	switch d {
	case Allowed:
		return "allowed"
	case NotFound:
		return "not_found"
	default:
		return "forbidden"
	}
}

// Actor is the authenticated party asking for access.
type Actor struct {
	Role      Role
	ID        uint
	CompanyID uint
}

func AdminActor(admin *domain.Admin) Actor {
	if admin == nil {
		return Actor{}
	}
	return Actor{Role: RoleAdmin, ID: admin.ID}
}

func MemberActor(member *domain.Member) Actor {
	if member == nil {
		return Actor{}
	}
	return Actor{Role: RoleMember, ID: member.ID, CompanyID: member.CompanyID}
}

func CustomerActor(customer *domain.Customer) Actor {
	if customer == nil {
		return Actor{}
	}
	return Actor{Role: RoleCustomer, ID: customer.ID}
}

type ResourceKind int

const (
	KindCompany ResourceKind = iota
	KindConstructionCase
	KindInquiry
	KindCustomer
)

func (k ResourceKind) label() string {
	switch k {
	case KindCompany:
		return "会社"
	case KindConstructionCase:
		return "施工事例"
	case KindInquiry:
		return "お問い合わせ"
	default:
		return "顧客"
	}
}

// Resource is the ownership-relevant projection of a loaded row. A zero
// Resource with Exists=false stands for a lookup that found nothing.
type Resource struct {
	Kind       ResourceKind
	Exists     bool
	ID         uint
	CompanyID  uint
	CustomerID *uint
}

func CompanyResource(company *domain.Company) Resource {
	if company == nil {
		return Resource{Kind: KindCompany}
	}
	return Resource{Kind: KindCompany, Exists: true, ID: company.ID, CompanyID: company.ID}
}

func CaseResource(c *domain.ConstructionCase) Resource {
	if c == nil {
		return Resource{Kind: KindConstructionCase}
	}
	return Resource{Kind: KindConstructionCase, Exists: true, ID: c.ID, CompanyID: c.CompanyID}
}

func InquiryResource(inquiry *domain.Inquiry) Resource {
	if inquiry == nil {
		return Resource{Kind: KindInquiry}
	}
	return Resource{
		Kind:       KindInquiry,
		Exists:     true,
		ID:         inquiry.ID,
		CompanyID:  inquiry.CompanyID,
		CustomerID: inquiry.CustomerID,
	}
}

func CustomerResource(customer *domain.Customer) Resource {
	if customer == nil {
		return Resource{Kind: KindCustomer}
	}
	return Resource{Kind: KindCustomer, Exists: true, ID: customer.ID}
}

// CanAccess decides whether actor may read or mutate res. Missing resources
// are reported before any role rule.
func CanAccess(actor Actor, res Resource) Decision {
	if !res.Exists {
		return NotFound
	}

	switch actor.Role {
	case RoleAdmin:
		return Allowed
	case RoleMember:
		switch res.Kind {
		case KindCompany, KindConstructionCase, KindInquiry:
			if res.CompanyID == actor.CompanyID {
				return Allowed
			}
		}
		return Forbidden
	case RoleCustomer:
		switch res.Kind {
		case KindInquiry:
			if res.CustomerID != nil && *res.CustomerID == actor.ID {
				return Allowed
			}
		case KindCustomer:
			if res.ID == actor.ID {
				return Allowed
			}
		}
		return Forbidden
	default:
		return Forbidden
	}
}

// Authorize is CanAccess expressed as a domain error (nil when allowed).
func Authorize(actor Actor, res Resource) error {
	switch CanAccess(actor, res) {
	case Allowed:
		return nil
	case NotFound:
		return domain.NotFound(res.Kind.label() + "が見つかりません")
	default:
		return domain.Forbidden("この" + res.Kind.label() + "へのアクセス権限がありません")
	}
}

// CanMutateCompanyProfile requires the company-local ADMIN role on top of
// belonging to the company.
func CanMutateCompanyProfile(member *domain.Member) bool {
	return member != nil && member.IsActive && member.IsCompanyAdmin()
}
