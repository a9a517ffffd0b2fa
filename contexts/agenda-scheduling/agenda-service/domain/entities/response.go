package entities

import (
	"fmt"
	"strings"
	"time"

	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
)

// Decision is the facility head's answer to an agenda.
type Decision string

const (
	DecisionAttend   Decision = "hadir"
	DecisionDecline  Decision = "tidak_hadir"
	DecisionDelegate Decision = "diwakilkan"
)

func ParseDecision(raw string) (Decision, error) {
	decision := Decision(strings.ToLower(strings.TrimSpace(raw)))
	switch decision {
	case DecisionAttend, DecisionDecline, DecisionDelegate:
		return decision, nil
	case "":
		return "", fmt.Errorf("%w: tipe respons wajib diisi", domainerrors.ErrInvalidResponse)
	default:
		return "", fmt.Errorf("%w: tipe respons %q tidak dikenal", domainerrors.ErrInvalidResponse, raw)
	}
}

type Response struct {
	ResponseID    string
	AgendaID      string
	ResponderID   string
	ResponderName string
	Type          Decision
	DelegateEmail *string
	DelegateName  *string
	Notes         *string
	RespondedAt   time.Time
}

// Decide sets the decision. Delegate fields are kept only for a
// delegation and cleared for every other decision.
func (r *Response) Decide(decision Decision, delegate *Contact, delegateName string, notes string, at time.Time) error {
	r.Type = decision
	r.DelegateEmail = nil
	r.DelegateName = nil
	r.Notes = optional(notes)
	r.RespondedAt = at.UTC()

	if decision != DecisionDelegate {
		return nil
	}
	if delegate == nil || strings.TrimSpace(delegate.Email) == "" {
		return fmt.Errorf("%w: email delegasi wajib diisi", domainerrors.ErrInvalidDelegate)
	}
	email := strings.ToLower(strings.TrimSpace(delegate.Email))
	name := strings.TrimSpace(delegateName)
	if name == "" {
		name = delegate.DisplayName()
	}
	r.DelegateEmail = &email
	r.DelegateName = &name
	return nil
}

// IsDelegatedTo compares the delegate email case-insensitively.
func (r Response) IsDelegatedTo(email string) bool {
	if r.Type != DecisionDelegate || r.DelegateEmail == nil {
		return false
	}
	return strings.EqualFold(strings.TrimSpace(*r.DelegateEmail), strings.TrimSpace(email))
}

func optional(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
