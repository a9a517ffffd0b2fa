package entities

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"
)

const MinPasswordLength = 6

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// User is a leadership account. PasswordHash never leaves the module.
type User struct {
	UserID       string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	SeksiName    string
	PhoneNumber  string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile is the editable part of a user.
type Profile struct {
	Name        string
	Email       string
	Role        Role
	SeksiName   string
	PhoneNumber string
}

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewProfile trims and validates profile input. Phone number is optional
// here; create enforces it separately.
func NewProfile(name string, email string, role string, seksiName string, phoneNumber string) (Profile, error) {
	profile := Profile{
		Name:        strings.TrimSpace(name),
		Email:       NormalizeEmail(email),
		Role:        NormalizeRole(role),
		SeksiName:   strings.TrimSpace(seksiName),
		PhoneNumber: strings.TrimSpace(phoneNumber),
	}
	if profile.Name == "" || profile.Email == "" || profile.Role == "" {
		return Profile{}, fmt.Errorf("%w: nama, email, dan role harus diisi", domainerrors.ErrInvalidUser)
	}
	if !emailPattern.MatchString(profile.Email) {
		return Profile{}, fmt.Errorf("%w: format email tidak valid", domainerrors.ErrInvalidUser)
	}
	if !profile.Role.Valid() {
		return Profile{}, fmt.Errorf("%w: role tidak valid", domainerrors.ErrInvalidUser)
	}
	if profile.Role == RoleSectionHead && profile.SeksiName == "" {
		return Profile{}, fmt.Errorf("%w: nama seksi harus diisi untuk kepala seksi", domainerrors.ErrInvalidUser)
	}
	if !profile.Role.KeepsSeksiName() {
		profile.SeksiName = ""
	}
	return profile, nil
}

func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password minimal %d karakter", domainerrors.ErrInvalidUser, MinPasswordLength)
	}
	return nil
}

// Apply copies a validated profile onto the user.
func (u *User) Apply(profile Profile, updatedAt time.Time) {
	u.Name = profile.Name
	u.Email = profile.Email
	u.Role = profile.Role
	u.SeksiName = profile.SeksiName
	if profile.PhoneNumber != "" {
		u.PhoneNumber = profile.PhoneNumber
	}
	u.UpdatedAt = updatedAt.UTC()
}

// SectionLabel renders "Name (Seksi)" used for delegation display.
func (u User) SectionLabel() string {
	if u.SeksiName == "" {
		return u.Name
	}
	return u.Name + " (" + u.SeksiName + ")"
}
