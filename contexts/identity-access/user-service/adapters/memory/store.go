package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"

	"github.com/google/uuid"
)

// Store is an in-memory UserRepository, Clock and IDGenerator used by tests
// and the in-memory module. Passwords are stored as given by the hasher.
type Store struct {
	mu sync.RWMutex

	users map[string]entities.User
	// referenced marks users that other modules still point at, so delete
	// behaves like the foreign-key restricted table.
	referenced map[string]bool
}

func NewStore(seed []entities.User) *Store {
	users := make(map[string]entities.User, len(seed))
	for _, item := range seed {
		users[item.UserID] = item
	}
	return &Store{
		users:      users,
		referenced: make(map[string]bool),
	}
}

func (s *Store) ListUsers(_ context.Context) ([]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.User, 0, len(s.users))
	for _, item := range s.users {
		items = append(items, item)
	}
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].UserID < items[j].UserID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) ListUsersByRole(_ context.Context, role entities.Role) ([]entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.User, 0)
	for _, item := range s.users {
		if item.Role == role {
			items = append(items, item)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Name < items[j].Name
	})
	return items, nil
}

func (s *Store) GetUser(_ context.Context, userID string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.users[strings.TrimSpace(userID)]
	if !exists {
		return entities.User{}, domainerrors.ErrUserNotFound
	}
	return item, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (entities.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	email = entities.NormalizeEmail(email)
	for _, item := range s.users {
		if item.Email == email {
			return item, nil
		}
	}
	return entities.User{}, domainerrors.ErrUserNotFound
}

func (s *Store) CountUsersByRole(_ context.Context, role entities.Role) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, item := range s.users {
		if item.Role == role {
			count++
		}
	}
	return count, nil
}

func (s *Store) CreateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.UserID]; exists {
		return fmt.Errorf("user %s already exists", user.UserID)
	}
	if s.emailTakenLocked(user.Email, user.UserID) {
		return domainerrors.ErrEmailTaken
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) UpdateUser(_ context.Context, user entities.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.UserID]; !exists {
		return domainerrors.ErrUserNotFound
	}
	if s.emailTakenLocked(user.Email, user.UserID) {
		return domainerrors.ErrEmailTaken
	}
	s.users[user.UserID] = user
	return nil
}

func (s *Store) DeleteUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	userID = strings.TrimSpace(userID)
	if _, exists := s.users[userID]; !exists {
		return domainerrors.ErrUserNotFound
	}
	if s.referenced[userID] {
		return domainerrors.ErrUserHasRelatedData
	}
	delete(s.users, userID)
	return nil
}

// MarkReferenced simulates agendas or responses pointing at the user.
func (s *Store) MarkReferenced(userID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.referenced[userID] = true
}

func (s *Store) emailTakenLocked(email string, exceptID string) bool {
	for _, item := range s.users {
		if item.UserID != exceptID && item.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
