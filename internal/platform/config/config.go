package config

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string
	HTTPPort    string
	PostgresDSN string
	AutoMigrate bool

	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	CSRFKey       []byte

	FonnteToken    string
	FonnteBaseURL  string
	NotifyTimezone *time.Location

	UploadDir     string
	PublicBaseURL string

	LogLevel  string
	LogFormat string

	SeedAdmin SeedAdmin
}

// SeedAdmin is the facility head account created on an empty database.
type SeedAdmin struct {
	Name        string
	Email       string
	Password    string
	PhoneNumber string
}

// Load reads an optional .env file from the working directory, then the
// process environment. Variables already set win over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds Config from the process environment only.
func FromEnv() (Config, error) {
	service := os.Getenv("SERVICE_NAME")
	if service == "" {
		service = "rutan-agenda"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}

	secret := strings.TrimSpace(os.Getenv("SESSION_SECRET"))

	ttl := 30 * 24 * time.Hour
	if raw := strings.TrimSpace(os.Getenv("SESSION_TTL")); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			return Config{}, fmt.Errorf("invalid SESSION_TTL %q", raw)
		}
		ttl = parsed
	}

	csrfKey, err := resolveCSRFKey(os.Getenv("CSRF_KEY"), secret)
	if err != nil {
		return Config{}, err
	}

	zone := strings.TrimSpace(os.Getenv("NOTIFY_TIMEZONE"))
	if zone == "" {
		zone = "Asia/Jakarta"
	}
	location, err := time.LoadLocation(zone)
	if err != nil {
		// Minimal containers ship without tzdata; WIB has no DST.
		if zone != "Asia/Jakarta" {
			return Config{}, fmt.Errorf("invalid NOTIFY_TIMEZONE %q: %w", zone, err)
		}
		location = time.FixedZone("WIB", 7*60*60)
	}

	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("FONNTE_BASE_URL")), "/")
	if baseURL == "" {
		baseURL = "https://api.fonnte.com"
	}

	uploadDir := strings.TrimSpace(os.Getenv("UPLOAD_DIR"))
	if uploadDir == "" {
		uploadDir = "./uploads"
	}

	return Config{
		ServiceName: service,
		HTTPPort:    port,
		PostgresDSN: os.Getenv("POSTGRES_DSN"),
		AutoMigrate: envBool("AUTO_MIGRATE", true),

		SessionSecret: secret,
		SessionTTL:    ttl,
		CookieSecure:  envBool("COOKIE_SECURE", false),
		CSRFKey:       csrfKey,

		FonnteToken:    strings.TrimSpace(os.Getenv("FONNTE_TOKEN")),
		FonnteBaseURL:  baseURL,
		NotifyTimezone: location,

		UploadDir:     uploadDir,
		PublicBaseURL: strings.TrimRight(strings.TrimSpace(os.Getenv("PUBLIC_BASE_URL")), "/"),

		LogLevel:  strings.ToLower(strings.TrimSpace(os.Getenv("LOG_LEVEL"))),
		LogFormat: strings.ToLower(strings.TrimSpace(os.Getenv("LOG_FORMAT"))),

		SeedAdmin: SeedAdmin{
			Name:        strings.TrimSpace(os.Getenv("SEED_ADMIN_NAME")),
			Email:       strings.TrimSpace(os.Getenv("SEED_ADMIN_EMAIL")),
			Password:    os.Getenv("SEED_ADMIN_PASSWORD"),
			PhoneNumber: strings.TrimSpace(os.Getenv("SEED_ADMIN_PHONE")),
		},
	}, nil
}

// RequireServer checks the values the api process cannot start without.
func (c Config) RequireServer() error {
	if strings.TrimSpace(c.PostgresDSN) == "" {
		return errors.New("POSTGRES_DSN is required")
	}
	if len(c.SessionSecret) < 16 {
		return errors.New("SESSION_SECRET is required (at least 16 characters)")
	}
	return nil
}

// resolveCSRFKey accepts exactly 32 raw bytes, or derives the key from
// the session secret when unset.
func resolveCSRFKey(raw string, secret string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if len(raw) != 32 {
			return nil, fmt.Errorf("CSRF_KEY must be 32 bytes, got %d", len(raw))
		}
		return []byte(raw), nil
	}
	if secret == "" {
		return nil, nil
	}
	sum := sha256.Sum256([]byte("csrf:" + secret))
	return sum[:], nil
}

func envBool(name string, fallback bool) bool {
	raw := strings.TrimSpace(strings.ToLower(os.Getenv(name)))
	if raw == "" {
		return fallback
	}
	switch raw {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return fallback
	}
}
