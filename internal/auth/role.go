package auth

import "github.com/taka-shaka/matching-site-sub001/internal/domain"

// Role is the closed set of principal kinds.
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleMember
	RoleCustomer
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return domain.UserTypeAdmin
	case RoleMember:
		return domain.UserTypeMember
	case RoleCustomer:
		return domain.UserTypeCustomer
	default:
		return "unknown"
	}
}

// ParseRole maps a user_type value; anything else is RoleUnknown.
func ParseRole(userType string) Role {
	switch userType {
	case domain.UserTypeAdmin:
		return RoleAdmin
	case domain.UserTypeMember:
		return RoleMember
	case domain.UserTypeCustomer:
		return RoleCustomer
	default:
		return RoleUnknown
	}
}

// DashboardPath is the landing page of each role.
func (r Role) DashboardPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleMember:
		return "/member"
	case RoleCustomer:
		return "/dashboard"
	default:
		return "/"
	}
}

// Classify reads the server-set app_metadata.user_type claim. user_metadata is
// editable by the user and never consulted.
func Classify(identity *Identity) Role {
	if identity == nil {
		return RoleUnknown
	}
	userType, _ := identity.AppMetadata["user_type"].(string)
	return ParseRole(userType)
}
