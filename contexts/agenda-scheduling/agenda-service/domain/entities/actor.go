package entities

import "strings"

type Role string

const (
	RoleFacilityHead Role = "kepala_rutan"
	RoleSectionHead  Role = "kepala_seksi"
	RoleHead         Role = "kepala"
)

// Actor is the authenticated caller as seen by agenda use cases.
type Actor struct {
	UserID    string
	Email     string
	Name      string
	Role      Role
	SeksiName string
}

func (a Actor) normalizedRole() Role {
	return Role(strings.ToLower(strings.TrimSpace(string(a.Role))))
}

func (a Actor) IsFacilityHead() bool {
	return a.normalizedRole() == RoleFacilityHead
}

func (a Actor) IsSectionHead() bool {
	return a.normalizedRole() == RoleSectionHead
}

// Contact is the slice of a user account this context needs for ownership
// display, delegation and notifications.
type Contact struct {
	UserID      string
	Name        string
	Email       string
	Role        Role
	SeksiName   string
	PhoneNumber string
}

// DisplayName renders "Name (Seksi)" when the contact carries a section.
func (c Contact) DisplayName() string {
	if strings.TrimSpace(c.SeksiName) == "" {
		return c.Name
	}
	return c.Name + " (" + c.SeksiName + ")"
}
