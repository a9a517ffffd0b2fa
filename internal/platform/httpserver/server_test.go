package httpserver

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	agendaservice "rutanagenda/contexts/agenda-scheduling/agenda-service"
	agendamemory "rutanagenda/contexts/agenda-scheduling/agenda-service/adapters/memory"
	agendahttp "rutanagenda/contexts/agenda-scheduling/agenda-service/transport/http"
	userservice "rutanagenda/contexts/identity-access/user-service"
	"rutanagenda/contexts/identity-access/user-service/adapters/security"
	userentities "rutanagenda/contexts/identity-access/user-service/domain/entities"
	userhttp "rutanagenda/contexts/identity-access/user-service/transport/http"
	"rutanagenda/internal/app/directory"
	"rutanagenda/internal/platform/session"
)

const testPassword = "rahasia123"

var csrfFieldPattern = regexp.MustCompile(`name="gorilla.csrf.Token" value="([^"]+)"`)

type testEnv struct {
	server      *Server
	agendaStore *agendamemory.Store
	uploadDir   string
	head        userentities.User
	kasi        userentities.User
	otherKasi   userentities.User
}

func newTestServer(t *testing.T) testEnv {
	t.Helper()
	return newTestServerWith(t, nil)
}

func newTestServerWith(t *testing.T, configure func(*Options)) testEnv {
	t.Helper()

	hash, err := security.BcryptHasher{Cost: 4}.Hash(testPassword)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	created := time.Date(2026, 1, 5, 1, 0, 0, 0, time.UTC)
	head := userentities.User{
		UserID: "head-1", Name: "Budi", Email: "kepala@rutan.id", PasswordHash: hash,
		Role: userentities.RoleFacilityHead, PhoneNumber: "6281200000001",
		CreatedAt: created, UpdatedAt: created,
	}
	kasi := userentities.User{
		UserID: "kasi-1", Name: "Sari", Email: "sari@rutan.id", PasswordHash: hash,
		Role: userentities.RoleSectionHead, SeksiName: "Seksi Pelayanan", PhoneNumber: "6281200000002",
		CreatedAt: created, UpdatedAt: created,
	}
	otherKasi := userentities.User{
		UserID: "kasi-2", Name: "Dedi", Email: "dedi@rutan.id", PasswordHash: hash,
		Role: userentities.RoleSectionHead, SeksiName: "Seksi Keamanan", PhoneNumber: "6281200000003",
		CreatedAt: created, UpdatedAt: created,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := userservice.NewInMemoryModule([]userentities.User{head, kasi, otherKasi}, logger)

	agendaStore := agendamemory.NewStore(nil)
	agendas := agendaservice.NewModule(agendaservice.Dependencies{
		Repository:  agendaStore,
		Directory:   directory.New(users.Store),
		Notifier:    agendaStore,
		Storage:     agendaStore,
		Clock:       agendaStore,
		IDGenerator: agendaStore,
		Location:    time.FixedZone("WIB", 7*60*60),
		Logger:      logger,
	})
	agendas.Store = agendaStore

	sessions, err := session.NewManager("test-session-secret-0123456789", time.Hour, false)
	if err != nil {
		t.Fatalf("session manager: %v", err)
	}
	uploadDir := t.TempDir()
	opts := Options{
		Sessions:  sessions,
		CSRFKey:   bytes.Repeat([]byte("k"), 32),
		UploadDir: uploadDir,
	}
	if configure != nil {
		configure(&opts)
	}
	server, err := New(users, agendas, opts, logger)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	return testEnv{
		server:      server,
		agendaStore: agendaStore,
		uploadDir:   uploadDir,
		head:        head,
		kasi:        kasi,
		otherKasi:   otherKasi,
	}
}

func (e testEnv) tokenFor(t *testing.T, user userentities.User) string {
	t.Helper()
	token, _, err := e.server.sessions.Issue(session.Identity{
		UserID:    user.UserID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      string(user.Role),
		SeksiName: user.SeksiName,
	})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	return token
}

func (e testEnv) doJSON(method string, target string, body string, token string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, dst any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), dst); err != nil {
		t.Fatalf("decode body: %v body=%s", err, rr.Body.String())
	}
}

func findCookie(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range rr.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestHealthz(t *testing.T) {
	env := newTestServer(t)
	rr := env.doJSON(http.MethodGet, "/healthz", "", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Header().Get("X-Request-Id") == "" {
		t.Fatalf("expected request id header")
	}
}

func TestAgendaRoutesRequireSession(t *testing.T) {
	env := newTestServer(t)
	for _, target := range []string{"/api/agendas", "/api/statistics", "/api/users", "/api/auth/session"} {
		rr := env.doJSON(http.MethodGet, target, "", "")
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d body=%s", target, rr.Code, rr.Body.String())
		}
	}

	rr := env.doJSON(http.MethodGet, "/api/agendas", "", "not-a-token")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for a forged token, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestLoginSetsSessionCookie(t *testing.T) {
	env := newTestServer(t)
	rr := env.doJSON(http.MethodPost, "/api/auth/login", `{"email":" Sari@Rutan.id ","password":"rahasia123"}`, "")
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp userhttp.LoginResponse
	decodeBody(t, rr, &resp)
	if resp.Token == "" || resp.User.UserID != env.kasi.UserID {
		t.Fatalf("unexpected login response: %+v", resp)
	}
	cookie := findCookie(rr, session.CookieName)
	if cookie == nil || !cookie.HttpOnly {
		t.Fatalf("expected HttpOnly session cookie, got %+v", cookie)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.AddCookie(cookie)
	sessionRR := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(sessionRR, req)
	if sessionRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", sessionRR.Code, sessionRR.Body.String())
	}
	var current userhttp.SessionResponse
	decodeBody(t, sessionRR, &current)
	if current.User.Email != "sari@rutan.id" || current.User.Role != "kepala_seksi" {
		t.Fatalf("unexpected session user: %+v", current.User)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := newTestServer(t)
	rr := env.doJSON(http.MethodPost, "/api/auth/login", `{"email":"sari@rutan.id","password":"salah-total"}`, "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	if findCookie(rr, session.CookieName) != nil {
		t.Fatalf("expected no session cookie on failed login")
	}

	rr = env.doJSON(http.MethodPost, "/api/auth/login", `{"email":"","password":""}`, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = env.doJSON(http.MethodPost, "/api/auth/login", `{"email":`, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed json, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestUserRoutesAreFacilityHeadOnly(t *testing.T) {
	env := newTestServer(t)
	kasiToken := env.tokenFor(t, env.kasi)

	rr := env.doJSON(http.MethodGet, "/api/users", "", kasiToken)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = env.doJSON(http.MethodPost, "/api/users",
		`{"name":"Rina","email":"rina@rutan.id","password":"rahasia123","role":"kepala_seksi","phone_number":"62812"}`, kasiToken)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}

	headToken := env.tokenFor(t, env.head)
	rr = env.doJSON(http.MethodGet, "/api/users/kasi", "", headToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var heads userhttp.ListUsersResponse
	decodeBody(t, rr, &heads)
	if len(heads.Items) != 2 {
		t.Fatalf("expected 2 section heads, got %d", len(heads.Items))
	}

	rr = env.doJSON(http.MethodPost, "/api/users",
		`{"name":"Rina","email":"sari@rutan.id","password":"rahasia123","role":"kepala_seksi","seksi_name":"Seksi Umum","phone_number":"62812"}`,
		headToken)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 for a taken email, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = env.doJSON(http.MethodDelete, "/api/users/"+env.head.UserID, "", headToken)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 when deleting self, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAgendaCreateAndRespondFlow(t *testing.T) {
	env := newTestServer(t)
	kasiToken := env.tokenFor(t, env.kasi)
	headToken := env.tokenFor(t, env.head)

	rr := env.doJSON(http.MethodPost, "/api/agendas",
		`{"title":"Rapat Koordinasi","description":"Evaluasi bulanan","location":"Aula","start_date_time":"2026-03-02T08:00","end_date_time":"2026-03-02T10:00"}`,
		kasiToken)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created agendahttp.AgendaResponse
	decodeBody(t, rr, &created)
	agendaID := created.Agenda.AgendaID
	if created.Agenda.Status != "pending" || created.Agenda.CreatedBy.UserID != env.kasi.UserID {
		t.Fatalf("unexpected agenda: %+v", created.Agenda)
	}
	if want := time.Date(2026, 3, 2, 1, 0, 0, 0, time.UTC); !created.Agenda.StartDateTime.Equal(want) {
		t.Fatalf("expected start %s, got %s", want, created.Agenda.StartDateTime)
	}
	if sent := env.agendaStore.Sent(); len(sent) != 1 || sent[0].Target != env.head.PhoneNumber {
		t.Fatalf("expected facility head notification, got %+v", sent)
	}

	rr = env.doJSON(http.MethodPost, "/api/agendas/"+agendaID+"/response", `{"response_type":"hadir"}`, kasiToken)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for section head response, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = env.doJSON(http.MethodPost, "/api/agendas/"+agendaID+"/response",
		`{"response_type":"diwakilkan","delegate_email":"dedi@rutan.id","notes":"Tolong hadiri"}`, headToken)
	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var responded agendahttp.RespondAgendaResponse
	decodeBody(t, rr, &responded)
	if !responded.Created || responded.Agenda.Status != "responded" {
		t.Fatalf("unexpected respond result: %+v", responded)
	}
	if responded.Response.DelegateName == nil || *responded.Response.DelegateName != "Dedi (Seksi Keamanan)" {
		t.Fatalf("expected delegate name from the directory, got %+v", responded.Response)
	}

	rr = env.doJSON(http.MethodGet, "/api/agendas", "", env.tokenFor(t, env.otherKasi))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var list agendahttp.ListAgendasResponse
	decodeBody(t, rr, &list)
	if len(list.All) != 1 || len(list.Delegated) != 1 || list.Delegated[0].AgendaID != agendaID {
		t.Fatalf("expected the agenda delegated to the second section head, got %+v", list)
	}

	rr = env.doJSON(http.MethodPost, "/api/agendas/"+agendaID+"/response", `{"response_type":"hadir"}`, headToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200 for a changed response, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = env.doJSON(http.MethodPut, "/api/agendas/"+agendaID,
		`{"title":"Ubah","start_date_time":"2026-03-02T08:00","end_date_time":"2026-03-02T10:00"}`, kasiToken)
	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409 editing a responded agenda, got %d body=%s", rr.Code, rr.Body.String())
	}

	rr = env.doJSON(http.MethodGet, "/api/statistics", "", headToken)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	var stats agendahttp.StatisticsResponse
	decodeBody(t, rr, &stats)
	if stats.Agendas.Total != 1 || stats.Agendas.Responded != 1 || stats.Responses.Hadir != 1 {
		t.Fatalf("unexpected statistics: %+v", stats)
	}
}

func TestAgendaValidationErrors(t *testing.T) {
	env := newTestServer(t)
	kasiToken := env.tokenFor(t, env.kasi)

	rr := env.doJSON(http.MethodPost, "/api/agendas", `{"title":"","start_date_time":"2026-03-02T08:00","end_date_time":"2026-03-02T10:00"}`, kasiToken)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = env.doJSON(http.MethodPost, "/api/agendas", `{"title":"Rapat","start_date_time":"besok","end_date_time":"2026-03-02T10:00"}`, kasiToken)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an unparseable time, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = env.doJSON(http.MethodGet, "/api/agendas/does-not-exist", "", kasiToken)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAgendaCreateWithMultipartAttachment(t *testing.T) {
	env := newTestServer(t)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	fields := map[string]string{
		"title":           "Kunjungan Kanwil",
		"location":        "Ruang Rapat",
		"start_date_time": "2026-03-05T09:00",
		"end_date_time":   "2026-03-05T11:00",
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	part, err := writer.CreateFormFile("attachment", "undangan.pdf")
	if err != nil {
		t.Fatalf("create form file: %v", err)
	}
	_, _ = part.Write([]byte("%PDF-1.4 test document"))
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/agendas", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+env.tokenFor(t, env.kasi))
	rr := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created agendahttp.AgendaResponse
	decodeBody(t, rr, &created)
	if created.Agenda.AttachmentURL == "" {
		t.Fatalf("expected attachment url, got %+v", created.Agenda)
	}
	stored, ok := env.agendaStore.File(created.Agenda.AttachmentURL)
	if !ok || !bytes.HasPrefix(stored, []byte("%PDF")) {
		t.Fatalf("expected stored pdf at %s", created.Agenda.AttachmentURL)
	}
}

func TestFilesRequireSession(t *testing.T) {
	env := newTestServer(t)
	target := filepath.Join(env.uploadDir, "agendas", "kasi-1-1.pdf")
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(target, []byte("%PDF-1.4"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	rr := env.doJSON(http.MethodGet, "/files/agendas/kasi-1-1.pdf", "", "")
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
	rr = env.doJSON(http.MethodGet, "/files/agendas/kasi-1-1.pdf", "", env.tokenFor(t, env.head))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if rr.Body.String() != "%PDF-1.4" {
		t.Fatalf("unexpected file body %q", rr.Body.String())
	}
}

func TestDashboardRedirectsToLogin(t *testing.T) {
	env := newTestServer(t)
	rr := env.doJSON(http.MethodGet, "/dashboard", "", "")
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d body=%s", rr.Code, rr.Body.String())
	}
	if location := rr.Header().Get("Location"); location != "/login" {
		t.Fatalf("expected redirect to /login, got %q", location)
	}
}

func TestPageFormsRequireCSRFToken(t *testing.T) {
	env := newTestServer(t)
	form := url.Values{"email": {"sari@rutan.id"}, "password": {testPassword}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rr := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestPageLoginFlow(t *testing.T) {
	env := newTestServer(t)

	getRR := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(getRR, httptest.NewRequest(http.MethodGet, "/login", nil))
	if getRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", getRR.Code, getRR.Body.String())
	}
	match := csrfFieldPattern.FindStringSubmatch(getRR.Body.String())
	if match == nil {
		t.Fatalf("expected csrf field in login page, body=%s", getRR.Body.String())
	}
	cookies := getRR.Result().Cookies()

	post := func(password string) *httptest.ResponseRecorder {
		form := url.Values{
			"email":              {"sari@rutan.id"},
			"password":           {password},
			"gorilla.csrf.Token": {match[1]},
		}
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		for _, cookie := range cookies {
			req.AddCookie(cookie)
		}
		rr := httptest.NewRecorder()
		env.server.Handler().ServeHTTP(rr, req)
		return rr
	}

	failed := post("salah-total")
	if failed.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", failed.Code, failed.Body.String())
	}
	if !strings.Contains(failed.Body.String(), "Email atau password yang Anda masukkan salah.") {
		t.Fatalf("expected friendly login error, body=%s", failed.Body.String())
	}

	rr := post(testPassword)
	if rr.Code != http.StatusSeeOther || rr.Header().Get("Location") != "/dashboard" {
		t.Fatalf("expected redirect to /dashboard, got %d location=%q", rr.Code, rr.Header().Get("Location"))
	}
	sessionCookie := findCookie(rr, session.CookieName)
	if sessionCookie == nil {
		t.Fatalf("expected session cookie after login")
	}

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.AddCookie(sessionCookie)
	dashRR := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(dashRR, req)
	if dashRR.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", dashRR.Code, dashRR.Body.String())
	}
	if !strings.Contains(dashRR.Body.String(), "Ringkasan Dashboard") {
		t.Fatalf("expected dashboard content, body=%s", dashRR.Body.String())
	}
}

func TestUsersPageForbiddenForSectionHead(t *testing.T) {
	env := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/dashboard/users", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieName, Value: env.tokenFor(t, env.kasi)})
	rr := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), "Akses Ditolak") {
		t.Fatalf("expected error page, body=%s", rr.Body.String())
	}
}
