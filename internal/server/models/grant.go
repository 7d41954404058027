package models

const (
	RoleOwner  = "owner"
	RoleMember = "member"
)

type GrantLevel int

const (
	GrantDenied GrantLevel = iota
	GrantMember
	GrantOwner
)

func (l GrantLevel) String() string {
	switch l {
	case GrantOwner:
		return "owner"
	case GrantMember:
		return "member"
	default:
		return "denied"
	}
}

// Grant is the resolved access level of one account on one vault. Role is
// only meaningful for GrantMember.
type Grant struct {
	Level GrantLevel
	Role  string
}

func OwnerGrant() Grant             { return Grant{Level: GrantOwner} }
func MemberGrant(role string) Grant { return Grant{Level: GrantMember, Role: role} }
func DeniedGrant() Grant            { return Grant{Level: GrantDenied} }

func (g Grant) Allowed() bool { return g.Level != GrantDenied }
func (g Grant) IsOwner() bool { return g.Level == GrantOwner }

// RoleLabel is the role shown to users: "owner" for the owner, the
// membership role otherwise, "" when denied.
func (g Grant) RoleLabel() string {
	switch g.Level {
	case GrantOwner:
		return RoleOwner
	case GrantMember:
		return g.Role
	default:
		return ""
	}
}
