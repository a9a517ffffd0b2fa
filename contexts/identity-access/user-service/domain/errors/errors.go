package errors

import "errors"

var (
	ErrInvalidUser             = errors.New("invalid user")
	ErrInvalidUserID           = errors.New("invalid user id")
	ErrInvalidCredentialsInput = errors.New("email dan password harus diisi")
	ErrInvalidCredentials      = errors.New("email atau password salah")
	ErrUserNotFound            = errors.New("user tidak ditemukan")
	ErrEmailTaken              = errors.New("email sudah digunakan")
	ErrForbidden               = errors.New("forbidden")
	ErrCannotDeleteSelf        = errors.New("tidak bisa menghapus akun sendiri")
	ErrLastFacilityHead        = errors.New("admin terakhir tidak bisa dihapus atau diturunkan")
	ErrUserHasRelatedData      = errors.New("user ini memiliki data terkait")
)
