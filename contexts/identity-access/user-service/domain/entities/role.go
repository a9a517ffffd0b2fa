package entities

import "strings"

// Role is the leadership position stored on a user account.
type Role string

const (
	RoleFacilityHead Role = "kepala_rutan"
	RoleSectionHead  Role = "kepala_seksi"
	RoleHead         Role = "kepala"
)

// NormalizeRole accepts both upper and lower case spellings.
func NormalizeRole(raw string) Role {
	return Role(strings.ToLower(strings.TrimSpace(raw)))
}

func (r Role) Valid() bool {
	switch r {
	case RoleFacilityHead, RoleSectionHead, RoleHead:
		return true
	default:
		return false
	}
}

// KeepsSeksiName reports whether a section name is stored for the role.
func (r Role) KeepsSeksiName() bool {
	return r == RoleSectionHead || r == RoleHead
}

// Actor is the authenticated caller of a use case.
type Actor struct {
	UserID    string
	Email     string
	Name      string
	Role      Role
	SeksiName string
}

func (a Actor) IsFacilityHead() bool {
	return NormalizeRole(string(a.Role)) == RoleFacilityHead
}
