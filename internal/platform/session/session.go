// Package session issues and verifies the signed session token carried in
// the session cookie or an Authorization bearer header.
package session

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	CookieName = "rutan_session"
	issuer     = "rutan-agenda"
)

var ErrNoSession = errors.New("session missing or invalid")

// Identity is what a session proves about its holder.
type Identity struct {
	UserID    string
	Email     string
	Name      string
	Role      string
	SeksiName string
	// ExpiresAt is filled by Parse and ignored by Issue.
	ExpiresAt time.Time
}

type claims struct {
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	SeksiName string `json:"seksi_name,omitempty"`
	jwt.RegisteredClaims
}

type Manager struct {
	secret []byte
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

func NewManager(secret string, ttl time.Duration, secureCookie bool) (*Manager, error) {
	if len(secret) < 16 {
		return nil, errors.New("session secret must be at least 16 characters")
	}
	if ttl <= 0 {
		ttl = 30 * 24 * time.Hour
	}
	return &Manager{
		secret: []byte(secret),
		ttl:    ttl,
		secure: secureCookie,
		now:    time.Now,
	}, nil
}

// WithClock replaces the time source; used by tests.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

func (m *Manager) Issue(identity Identity) (string, time.Time, error) {
	if strings.TrimSpace(identity.UserID) == "" {
		return "", time.Time{}, errors.New("session subject is required")
	}
	issuedAt := m.now().UTC()
	expiresAt := issuedAt.Add(m.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		Email:     identity.Email,
		Name:      identity.Name,
		Role:      identity.Role,
		SeksiName: identity.SeksiName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.UserID,
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign session: %w", err)
	}
	return signed, expiresAt, nil
}

func (m *Manager) Parse(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, ErrNoSession
	}
	parsed := claims{}
	_, err := jwt.ParseWithClaims(raw, &parsed, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %s", ErrNoSession, err.Error())
	}
	if strings.TrimSpace(parsed.Subject) == "" {
		return Identity{}, ErrNoSession
	}
	identity := Identity{
		UserID:    parsed.Subject,
		Email:     parsed.Email,
		Name:      parsed.Name,
		Role:      parsed.Role,
		SeksiName: parsed.SeksiName,
	}
	if parsed.ExpiresAt != nil {
		identity.ExpiresAt = parsed.ExpiresAt.Time.UTC()
	}
	return identity, nil
}

// FromRequest prefers the bearer header and falls back to the cookie.
// bearer reports whether the header was used.
func (m *Manager) FromRequest(r *http.Request) (identity Identity, bearer bool, err error) {
	if header := strings.TrimSpace(r.Header.Get("Authorization")); header != "" {
		scheme, token, ok := strings.Cut(header, " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") {
			return Identity{}, true, ErrNoSession
		}
		identity, err = m.Parse(token)
		return identity, true, err
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Identity{}, false, ErrNoSession
	}
	identity, err = m.Parse(cookie.Value)
	return identity, false, err
}

func (m *Manager) SetCookie(w http.ResponseWriter, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
