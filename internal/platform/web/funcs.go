package web

import (
	"fmt"
	"html/template"
	"strings"
	"time"
	"unicode"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// FuncMap holds the template helpers; times render in location.
func FuncMap(location *time.Location) template.FuncMap {
	if location == nil {
		location = time.UTC
	}
	return template.FuncMap{
		"formatDateTime": func(t time.Time) string { return FormatDateTime(t, location) },
		"inputDateTime":  func(t time.Time) string { return InputDateTime(t, location) },
		"statusLabel":    StatusLabel,
		"decisionLabel":  DecisionLabel,
		"titleCase":      TitleCase,
		"deref": func(value *string) string {
			if value == nil {
				return ""
			}
			return *value
		},
		"dict": dict,
	}
}

// dict builds a map from alternating keys and values so a nested template
// can take more than one argument.
func dict(pairs ...any) (map[string]any, error) {
	if len(pairs)%2 != 0 {
		return nil, fmt.Errorf("dict expects key/value pairs, got %d values", len(pairs))
	}
	out := make(map[string]any, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		key, ok := pairs[i].(string)
		if !ok {
			return nil, fmt.Errorf("dict key %v is not a string", pairs[i])
		}
		out[key] = pairs[i+1]
	}
	return out, nil
}

// InputDateTime formats t for a datetime-local input.
func InputDateTime(t time.Time, location *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if location == nil {
		location = time.UTC
	}
	return t.In(location).Format("2006-01-02T15:04")
}

// FormatDateTime renders "2 Maret 2026 08.00".
func FormatDateTime(t time.Time, location *time.Location) string {
	if t.IsZero() {
		return "-"
	}
	local := t.In(location)
	return fmt.Sprintf("%d %s %d %02d.%02d",
		local.Day(), monthNames[local.Month()-1], local.Year(), local.Hour(), local.Minute())
}

func StatusLabel(status string) string {
	if strings.EqualFold(status, "pending") {
		return "Menunggu"
	}
	return "Selesai"
}

func DecisionLabel(decision string) string {
	switch strings.ToLower(decision) {
	case "hadir":
		return "Hadir"
	case "tidak_hadir":
		return "Tidak Hadir"
	case "diwakilkan":
		return "Diwakilkan"
	default:
		return TitleCase(decision)
	}
}

// TitleCase turns "kepala_seksi" into "Kepala Seksi".
func TitleCase(value string) string {
	value = strings.ToLower(strings.ReplaceAll(value, "_", " "))
	runes := []rune(value)
	start := true
	for i, r := range runes {
		isWord := unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
		if isWord && start {
			runes[i] = unicode.ToUpper(r)
		}
		start = !isWord
	}
	return string(runes)
}

// FriendlyLoginError turns an authentication failure into the message
// shown on the login form.
func FriendlyLoginError(message string) string {
	switch {
	case message == "":
		return ""
	case strings.Contains(message, "CredentialsSignin"),
		strings.Contains(message, "invalid-password"),
		strings.Contains(message, "email atau password salah"):
		return "Email atau password yang Anda masukkan salah."
	case strings.Contains(message, "User not found"):
		return "Akun tidak terdaftar dalam sistem."
	case strings.Contains(message, "Too many requests"), strings.Contains(message, "rate-limit"):
		return "Terlalu banyak percobaan masuk. Silakan coba lagi nanti."
	case strings.Contains(message, "Network Error"):
		return "Koneksi internet bermasalah. Periksa jaringan Anda."
	default:
		return "Terjadi kesalahan sistem. Silakan hubungi admin."
	}
}
