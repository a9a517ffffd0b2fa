package memory

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"

	"github.com/google/uuid"
)

// SentMessage is a notification captured by the in-memory notifier.
type SentMessage struct {
	Target  string
	Message string
}

// Store backs every agenda port in memory: repository, user directory,
// notifier and attachment storage.
type Store struct {
	mu sync.RWMutex

	agendas  map[string]entities.Agenda
	contacts map[string]entities.Contact
	files    map[string][]byte
	sent     []SentMessage
	sendErr  error
}

func NewStore(contacts []entities.Contact) *Store {
	byID := make(map[string]entities.Contact, len(contacts))
	for _, item := range contacts {
		byID[item.UserID] = item
	}
	return &Store{
		agendas:  make(map[string]entities.Agenda),
		contacts: byID,
		files:    make(map[string][]byte),
	}
}

func (s *Store) ListAgendas(_ context.Context) ([]entities.Agenda, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Agenda, 0, len(s.agendas))
	for _, item := range s.agendas {
		items = append(items, cloneAgenda(item))
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].StartAt.Equal(items[j].StartAt) {
			return items[i].AgendaID < items[j].AgendaID
		}
		return items[i].StartAt.After(items[j].StartAt)
	})
	return items, nil
}

func (s *Store) GetAgenda(_ context.Context, agendaID string) (entities.Agenda, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.agendas[strings.TrimSpace(agendaID)]
	if !exists {
		return entities.Agenda{}, domainerrors.ErrAgendaNotFound
	}
	return cloneAgenda(item), nil
}

func (s *Store) CreateAgenda(_ context.Context, agenda entities.Agenda) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.agendas[agenda.AgendaID]; exists {
		return domainerrors.ErrInvalidAgenda
	}
	if contact, ok := s.contacts[agenda.CreatedBy.UserID]; ok {
		agenda.CreatedBy = entities.Creator{
			UserID:    contact.UserID,
			Name:      contact.Name,
			Email:     contact.Email,
			SeksiName: contact.SeksiName,
		}
	}
	agenda.Response = nil
	s.agendas[agenda.AgendaID] = agenda
	return nil
}

func (s *Store) UpdateAgenda(_ context.Context, agenda entities.Agenda) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.agendas[agenda.AgendaID]
	if !exists {
		return domainerrors.ErrAgendaNotFound
	}
	if current.IsResponded() {
		return domainerrors.ErrAgendaAlreadyResponded
	}
	current.Title = agenda.Title
	current.Description = agenda.Description
	current.Location = agenda.Location
	current.StartAt = agenda.StartAt
	current.EndAt = agenda.EndAt
	current.UpdatedAt = agenda.UpdatedAt
	s.agendas[agenda.AgendaID] = current
	return nil
}

func (s *Store) DeleteAgenda(_ context.Context, agendaID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, exists := s.agendas[agendaID]
	if !exists {
		return domainerrors.ErrAgendaNotFound
	}
	if current.IsResponded() {
		return domainerrors.ErrAgendaAlreadyResponded
	}
	delete(s.agendas, agendaID)
	return nil
}

func (s *Store) CreateResponse(_ context.Context, response entities.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agenda, exists := s.agendas[response.AgendaID]
	if !exists {
		return domainerrors.ErrAgendaNotFound
	}
	if agenda.Response != nil {
		return domainerrors.ErrResponseExists
	}
	stored := response
	agenda.Response = &stored
	agenda.Status = entities.StatusResponded
	agenda.UpdatedAt = response.RespondedAt
	s.agendas[response.AgendaID] = agenda
	return nil
}

func (s *Store) UpdateResponse(_ context.Context, response entities.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	agenda, exists := s.agendas[response.AgendaID]
	if !exists || agenda.Response == nil {
		return domainerrors.ErrAgendaNotFound
	}
	stored := response
	agenda.Response = &stored
	agenda.Status = entities.StatusResponded
	s.agendas[response.AgendaID] = agenda
	return nil
}

func (s *Store) CountAgendas(_ context.Context, status entities.Status) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.agendas {
		if status == "" || item.Status == status {
			count++
		}
	}
	return count, nil
}

func (s *Store) CountResponses(_ context.Context, decision entities.Decision) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.agendas {
		if item.Response == nil {
			continue
		}
		if decision == "" || item.Response.Type == decision {
			count++
		}
	}
	return count, nil
}

// PutContact adds or replaces a directory entry.
func (s *Store) PutContact(contact entities.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contacts[contact.UserID] = contact
}

func (s *Store) FacilityHead(_ context.Context) (entities.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	heads := make([]entities.Contact, 0)
	for _, item := range s.contacts {
		if item.Role == entities.RoleFacilityHead && strings.TrimSpace(item.PhoneNumber) != "" {
			heads = append(heads, item)
		}
	}
	if len(heads) == 0 {
		return entities.Contact{}, domainerrors.ErrContactNotFound
	}
	sort.Slice(heads, func(i, j int) bool { return heads[i].UserID < heads[j].UserID })
	return heads[0], nil
}

func (s *Store) FindByID(_ context.Context, userID string) (entities.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, ok := s.contacts[strings.TrimSpace(userID)]
	if !ok {
		return entities.Contact{}, domainerrors.ErrContactNotFound
	}
	return item, nil
}

func (s *Store) FindByEmail(_ context.Context, email string) (entities.Contact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, item := range s.contacts {
		if strings.EqualFold(item.Email, strings.TrimSpace(email)) {
			return item, nil
		}
	}
	return entities.Contact{}, domainerrors.ErrContactNotFound
}

func (s *Store) Send(_ context.Context, target string, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.sendErr != nil {
		return s.sendErr
	}
	s.sent = append(s.sent, SentMessage{Target: target, Message: message})
	return nil
}

// FailSends makes every following Send return err.
func (s *Store) FailSends(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = err
}

func (s *Store) Sent() []SentMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SentMessage(nil), s.sent...)
}

func (s *Store) Save(_ context.Context, key string, attachment ports.Attachment) (string, error) {
	body, err := io.ReadAll(attachment.Body)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	url := "memory://" + key
	s.files[url] = body
	return url, nil
}

func (s *Store) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, url)
	return nil
}

// File returns a stored attachment body.
func (s *Store) File(url string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	body, ok := s.files[url]
	return bytes.Clone(body), ok
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneAgenda(item entities.Agenda) entities.Agenda {
	if item.Response != nil {
		response := *item.Response
		item.Response = &response
	}
	return item
}
