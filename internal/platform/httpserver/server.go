package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	agendaservice "rutanagenda/contexts/agenda-scheduling/agenda-service"
	userservice "rutanagenda/contexts/identity-access/user-service"
	"rutanagenda/internal/platform/session"
	"rutanagenda/internal/platform/web"

	"github.com/gorilla/csrf"
	httpSwagger "github.com/swaggo/http-swagger"
	_ "rutanagenda/internal/platform/httpserver/docs"
)

const defaultMaxUploadBytes = 10 << 20

// Options carries the runtime settings the server needs beyond the modules.
type Options struct {
	Addr     string
	Sessions *session.Manager
	Renderer *web.Renderer
	// CSRFKey protects page forms; a random key is used when empty.
	CSRFKey      []byte
	CookieSecure bool
	// UploadDir is served read-only under /files to signed-in users.
	UploadDir      string
	MaxUploadBytes int64
	// Ready reports dependency health for /healthz.
	Ready func(ctx context.Context) error
}

type Server struct {
	mux     *http.ServeMux
	handler http.Handler
	http    *http.Server
	logger  *slog.Logger
	addr    string

	users    userservice.Module
	agendas  agendaservice.Module
	sessions *session.Manager
	pages    *web.Renderer
	csrf     func(http.Handler) http.Handler
	opts     Options
}

func New(users userservice.Module, agendas agendaservice.Module, opts Options, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	if opts.Sessions == nil {
		return nil, errors.New("session manager is required")
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = defaultMaxUploadBytes
	}
	renderer := opts.Renderer
	if renderer == nil {
		var err error
		renderer, err = web.NewRenderer(agendas.Handler.Location, logger)
		if err != nil {
			return nil, err
		}
	}
	csrfKey := opts.CSRFKey
	if len(csrfKey) != 32 {
		generated, err := randomKey(32)
		if err != nil {
			return nil, err
		}
		csrfKey = generated
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     opts.Addr,
		users:    users,
		agendas:  agendas,
		sessions: opts.Sessions,
		pages:    renderer,
		opts:     opts,
	}
	s.csrf = csrf.Protect(csrfKey,
		csrf.Secure(opts.CookieSecure),
		csrf.Path("/"),
		csrf.SameSite(csrf.SameSiteLaxMode),
		csrf.ErrorHandler(http.HandlerFunc(s.handleCSRFFailure)),
	)
	s.registerRoutes()
	s.handler = s.withMiddleware(s.mux)
	s.http = &http.Server{
		Addr:              s.addr,
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      2 * time.Minute,
		IdleTimeout:       2 * time.Minute,
	}
	return s, nil
}

// Handler is the fully wrapped handler used by Start.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)

	s.mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	s.mux.HandleFunc("POST /api/auth/logout", s.handleLogout)
	s.mux.HandleFunc("GET /api/auth/session", s.handleSession)

	s.mux.HandleFunc("GET /api/agendas", s.handleListAgendas)
	s.mux.HandleFunc("POST /api/agendas", s.handleCreateAgenda)
	s.mux.HandleFunc("GET /api/agendas/{agenda_id}", s.handleGetAgenda)
	s.mux.HandleFunc("PUT /api/agendas/{agenda_id}", s.handleUpdateAgenda)
	s.mux.HandleFunc("DELETE /api/agendas/{agenda_id}", s.handleDeleteAgenda)
	s.mux.HandleFunc("POST /api/agendas/{agenda_id}/response", s.handleRespondAgenda)
	s.mux.HandleFunc("GET /api/statistics", s.handleStatistics)

	s.mux.HandleFunc("GET /api/users", s.handleListUsers)
	s.mux.HandleFunc("POST /api/users", s.handleCreateUser)
	s.mux.HandleFunc("GET /api/users/kasi", s.handleListSectionHeads)
	s.mux.HandleFunc("GET /api/users/{user_id}", s.handleGetUser)
	s.mux.HandleFunc("PUT /api/users/{user_id}", s.handleUpdateUser)
	s.mux.HandleFunc("DELETE /api/users/{user_id}", s.handleDeleteUser)

	if strings.TrimSpace(s.opts.UploadDir) != "" {
		s.mux.HandleFunc("GET /files/{path...}", s.handleFile)
	}

	s.registerPages()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.opts.Ready != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.opts.Ready(ctx); err != nil {
			s.logger.Warn("health check failed",
				"event", "http_health_failed",
				"module", "internal/platform/httpserver",
				"layer", "platform",
				"error", err.Error(),
			)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

type errorWriter func(w http.ResponseWriter, status int, code string, message string)

func (s *Server) decodeJSON(w http.ResponseWriter, r *http.Request, dst any, writeErr errorWriter) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErr(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return false
	}
	return true
}
