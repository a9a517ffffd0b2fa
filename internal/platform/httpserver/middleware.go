package httpserver

import (
	"context"
	"crypto/rand"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	agendaerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"

	"github.com/google/uuid"
	"github.com/gorilla/csrf"
	"github.com/gorilla/handlers"
)

type requestIDKey struct{}

// withMiddleware wraps the mux with request ids, access logs and panic
// recovery, outermost first.
func (s *Server) withMiddleware(next http.Handler) http.Handler {
	recovered := handlers.RecoveryHandler(
		handlers.RecoveryLogger(slogPrinter{logger: s.logger}),
		handlers.PrintRecoveryStack(true),
	)(next)
	logged := handlers.CustomLoggingHandler(io.Discard, recovered, s.logAccess)
	return requestID(logged)
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get("X-Request-Id"))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
			r.Header.Set("X-Request-Id", id)
		}
		w.Header().Set("X-Request-Id", id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
	})
}

func requestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

func (s *Server) logAccess(_ io.Writer, params handlers.LogFormatterParams) {
	level := slog.LevelInfo
	if params.StatusCode >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	s.logger.Log(params.Request.Context(), level, "http request",
		"event", "http_request",
		"module", "internal/platform/httpserver",
		"layer", "transport",
		"request_id", params.Request.Header.Get("X-Request-Id"),
		"method", params.Request.Method,
		"path", params.URL.Path,
		"status", params.StatusCode,
		"size", params.Size,
		"duration_ms", time.Since(params.TimeStamp).Milliseconds(),
		"remote_addr", params.Request.RemoteAddr,
	)
}

// slogPrinter adapts slog to the Println logger gorilla/handlers expects.
type slogPrinter struct {
	logger *slog.Logger
}

func (p slogPrinter) Println(v ...any) {
	parts := make([]string, 0, len(v))
	for _, item := range v {
		if err, ok := item.(error); ok {
			parts = append(parts, err.Error())
			continue
		}
		if text, ok := item.(string); ok {
			parts = append(parts, text)
			continue
		}
		parts = append(parts, slog.AnyValue(item).String())
	}
	p.logger.Error("panic recovered",
		"event", "http_panic_recovered",
		"module", "internal/platform/httpserver",
		"layer", "transport",
		"error", strings.Join(parts, " "),
	)
}

// page wraps a dashboard handler with CSRF protection. Without TLS the
// request is marked plaintext so the strict Referer check is skipped.
// Form bodies are capped before the CSRF check parses them.
func (s *Server) page(handler http.HandlerFunc) http.Handler {
	protected := s.csrf(handler)
	limit := s.opts.MaxUploadBytes + multipartMemory
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = &cappedBody{ReadCloser: http.MaxBytesReader(w, r.Body, limit)}
		}
		if !s.opts.CookieSecure {
			r = csrf.PlaintextHTTPRequest(r)
		}
		protected.ServeHTTP(w, r)
	})
}

// cappedBody remembers whether the size cap cut the body short.
type cappedBody struct {
	io.ReadCloser
	exceeded bool
}

func (b *cappedBody) Read(p []byte) (int, error) {
	n, err := b.ReadCloser.Read(p)
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		b.exceeded = true
	}
	return n, err
}

func bodyTooLarge(r *http.Request) bool {
	body, ok := r.Body.(*cappedBody)
	return ok && body.exceeded
}

func (s *Server) handleCSRFFailure(w http.ResponseWriter, r *http.Request) {
	if bodyTooLarge(r) {
		s.logger.Warn("page form too large",
			"event", "http_form_too_large",
			"module", "internal/platform/httpserver",
			"layer", "transport",
			"request_id", requestIDFrom(r.Context()),
			"path", r.URL.Path,
		)
		s.renderErrorPage(w, r, nil, http.StatusRequestEntityTooLarge, agendaerrors.ErrAttachmentTooLarge.Error())
		return
	}
	s.logger.Warn("csrf check failed",
		"event", "http_csrf_rejected",
		"module", "internal/platform/httpserver",
		"layer", "transport",
		"request_id", requestIDFrom(r.Context()),
		"path", r.URL.Path,
		"error", errorString(csrf.FailureReason(r)),
	)
	http.Error(w, "Sesi formulir kedaluwarsa, muat ulang halaman lalu coba lagi.", http.StatusForbidden)
}

func errorString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func randomKey(size int) ([]byte, error) {
	key := make([]byte, size)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}
