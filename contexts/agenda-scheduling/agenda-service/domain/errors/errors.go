package errors

import "errors"

var (
	ErrInvalidAgenda          = errors.New("invalid agenda")
	ErrInvalidAgendaID        = errors.New("invalid agenda id")
	ErrAgendaNotFound         = errors.New("agenda tidak ditemukan")
	ErrForbidden              = errors.New("forbidden")
	ErrAgendaAlreadyResponded = errors.New("agenda sudah direspons")
	ErrAttachmentNotPDF       = errors.New("lampiran harus berformat PDF")
	ErrAttachmentTooLarge     = errors.New("lampiran terlalu besar")
	ErrInvalidResponse        = errors.New("invalid response")
	ErrInvalidDelegate        = errors.New("delegasi harus ke kepala seksi yang terdaftar")
	ErrResponseExists         = errors.New("response already exists")
	ErrContactNotFound        = errors.New("contact not found")
)
