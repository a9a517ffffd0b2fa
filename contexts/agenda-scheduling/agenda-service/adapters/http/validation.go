package httpadapter

import (
	"errors"
	"fmt"
	"strings"
	"time"

	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"

	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

func validateRequest(req any, sentinel error) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", sentinel, err.Error())
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		parts = append(parts, strings.ToLower(fieldErr.Field())+" "+fieldErr.Tag())
	}
	return fmt.Errorf("%w: %s", sentinel, strings.Join(parts, ", "))
}

// ParseDateTime accepts RFC 3339 and zone-less forms; the latter are read
// in location.
func ParseDateTime(raw string, location *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if location == nil {
		location = time.UTC
	}
	for _, layout := range dateTimeLayouts {
		if layout == time.RFC3339 {
			if parsed, err := time.Parse(layout, raw); err == nil {
				return parsed.UTC(), nil
			}
			continue
		}
		if parsed, err := time.ParseInLocation(layout, raw, location); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: format waktu %q tidak dikenali", domainerrors.ErrInvalidAgenda, raw)
}
