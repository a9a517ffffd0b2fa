package httpadapter

import (
	"errors"
	"fmt"
	"strings"

	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"

	"github.com/go-playground/validator/v10"
)

var requestValidator = validator.New(validator.WithRequiredStructEnabled())

func validateRequest(req any) error {
	err := requestValidator.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %s", domainerrors.ErrInvalidUser, err.Error())
	}
	parts := make([]string, 0, len(fieldErrs))
	for _, fieldErr := range fieldErrs {
		parts = append(parts, strings.ToLower(fieldErr.Field())+" "+fieldErr.Tag())
	}
	return fmt.Errorf("%w: %s", domainerrors.ErrInvalidUser, strings.Join(parts, ", "))
}
