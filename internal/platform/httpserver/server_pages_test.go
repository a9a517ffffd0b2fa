package httpserver

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	agendahttp "rutanagenda/contexts/agenda-scheduling/agenda-service/transport/http"
	userentities "rutanagenda/contexts/identity-access/user-service/domain/entities"
	userhttp "rutanagenda/contexts/identity-access/user-service/transport/http"
	"rutanagenda/internal/platform/session"
)

// browser replays the cookies and the latest form token of one signed-in
// user across page requests.
type browser struct {
	t       *testing.T
	env     testEnv
	cookies map[string]*http.Cookie
	token   string
}

func (e testEnv) browserFor(t *testing.T, user userentities.User) *browser {
	t.Helper()
	b := &browser{t: t, env: e, cookies: map[string]*http.Cookie{}}
	b.cookies[session.CookieName] = &http.Cookie{Name: session.CookieName, Value: e.tokenFor(t, user)}
	return b
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	b.t.Helper()
	for _, cookie := range b.cookies {
		req.AddCookie(cookie)
	}
	rr := httptest.NewRecorder()
	b.env.server.Handler().ServeHTTP(rr, req)
	for _, cookie := range rr.Result().Cookies() {
		b.cookies[cookie.Name] = cookie
	}
	if match := csrfFieldPattern.FindStringSubmatch(rr.Body.String()); match != nil {
		b.token = match[1]
	}
	return rr
}

func (b *browser) get(target string) *httptest.ResponseRecorder {
	b.t.Helper()
	rr := b.do(httptest.NewRequest(http.MethodGet, target, nil))
	if rr.Code != http.StatusOK {
		b.t.Fatalf("GET %s: expected 200, got %d body=%s", target, rr.Code, rr.Body.String())
	}
	return rr
}

func (b *browser) postForm(target string, form url.Values) *httptest.ResponseRecorder {
	b.t.Helper()
	if b.token == "" {
		b.t.Fatalf("POST %s: no form token, GET a page first", target)
	}
	form.Set("gorilla.csrf.Token", b.token)
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) postMultipart(target string, fields map[string]string, fileName string, content []byte) *httptest.ResponseRecorder {
	b.t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField("gorilla.csrf.Token", b.token); err != nil {
		b.t.Fatalf("write token: %v", err)
	}
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			b.t.Fatalf("write field: %v", err)
		}
	}
	if fileName != "" {
		part, err := writer.CreateFormFile("attachment", fileName)
		if err != nil {
			b.t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write(content)
	}
	if err := writer.Close(); err != nil {
		b.t.Fatalf("close writer: %v", err)
	}
	req := httptest.NewRequest(http.MethodPost, target, &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return b.do(req)
}

func expectRedirect(t *testing.T, rr *httptest.ResponseRecorder, prefix string, flash string) string {
	t.Helper()
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d body=%s", rr.Code, rr.Body.String())
	}
	location := rr.Header().Get("Location")
	path, query, _ := strings.Cut(location, "?")
	if !strings.HasPrefix(path, prefix) || query != "flash="+flash {
		t.Fatalf("expected redirect to %s with flash %s, got %q", prefix, flash, location)
	}
	return location
}

func expectPage(t *testing.T, rr *httptest.ResponseRecorder, status int, fragments ...string) {
	t.Helper()
	if rr.Code != status {
		t.Fatalf("expected %d, got %d body=%s", status, rr.Code, rr.Body.String())
	}
	for _, fragment := range fragments {
		if !strings.Contains(rr.Body.String(), fragment) {
			t.Fatalf("expected %q in page, body=%s", fragment, rr.Body.String())
		}
	}
}

func (e testEnv) createAgendaAsKasi(t *testing.T, title string) string {
	t.Helper()
	rr := e.doJSON(http.MethodPost, "/api/agendas",
		`{"title":"`+title+`","location":"Aula","start_date_time":"2026-03-02T08:00","end_date_time":"2026-03-02T10:00"}`,
		e.tokenFor(t, e.kasi))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create agenda: expected 201, got %d body=%s", rr.Code, rr.Body.String())
	}
	var created agendahttp.AgendaResponse
	decodeBody(t, rr, &created)
	return created.Agenda.AgendaID
}

var agendaFields = map[string]string{
	"title":           "Kunjungan Kanwil",
	"description":     "Pemeriksaan administrasi",
	"location":        "Aula Utama",
	"start_date_time": "2026-03-05T09:00",
	"end_date_time":   "2026-03-05T11:00",
}

func TestPageAgendaCreateWithAttachment(t *testing.T) {
	env := newTestServer(t)
	kasi := env.browserFor(t, env.kasi)
	kasi.get("/dashboard/agendas/create")

	rr := kasi.postMultipart("/dashboard/agendas/create", agendaFields, "undangan.pdf", []byte("%PDF-1.4 undangan"))
	location := expectRedirect(t, rr, "/dashboard/agendas/", "agenda_created")

	detail := kasi.get(location)
	expectPage(t, detail, http.StatusOK, "Agenda berhasil dibuat.", "Kunjungan Kanwil")

	agendaID := strings.TrimPrefix(strings.SplitN(location, "?", 2)[0], "/dashboard/agendas/")
	agenda, err := env.agendaStore.GetAgenda(context.Background(), agendaID)
	if err != nil {
		t.Fatalf("get agenda: %v", err)
	}
	if stored, ok := env.agendaStore.File(agenda.AttachmentURL); !ok || !bytes.HasPrefix(stored, []byte("%PDF")) {
		t.Fatalf("expected stored attachment at %q", agenda.AttachmentURL)
	}

	missingTitle := map[string]string{}
	for key, value := range agendaFields {
		missingTitle[key] = value
	}
	missingTitle["title"] = ""
	rr = kasi.postMultipart("/dashboard/agendas/create", missingTitle, "", nil)
	expectPage(t, rr, http.StatusBadRequest, "Buat Agenda", `value="Aula Utama"`, "invalid agenda")

	rr = kasi.postMultipart("/dashboard/agendas/create", agendaFields, "undangan.txt", []byte("bukan pdf"))
	expectPage(t, rr, http.StatusBadRequest, "Buat Agenda", "lampiran harus berformat PDF")
}

func TestPageAgendaEditAndDelete(t *testing.T) {
	env := newTestServer(t)
	agendaID := env.createAgendaAsKasi(t, "Rapat Awal")
	spare := env.createAgendaAsKasi(t, "Rapat Cadangan")
	kasi := env.browserFor(t, env.kasi)

	edit := kasi.get("/dashboard/agendas/" + agendaID + "/edit")
	expectPage(t, edit, http.StatusOK, "Ubah Agenda", `value="Rapat Awal"`, `value="2026-03-02T08:00"`)

	form := url.Values{
		"title":           {"Rapat Evaluasi"},
		"location":        {"Aula"},
		"start_date_time": {"2026-03-02T09:00"},
		"end_date_time":   {"2026-03-02T11:00"},
	}
	rr := kasi.postForm("/dashboard/agendas/"+agendaID+"/edit", form)
	expectRedirect(t, rr, "/dashboard/agendas/"+agendaID, "agenda_updated")
	if agenda, _ := env.agendaStore.GetAgenda(context.Background(), agendaID); agenda.Title != "Rapat Evaluasi" {
		t.Fatalf("expected updated title, got %q", agenda.Title)
	}

	form.Set("end_date_time", "")
	rr = kasi.postForm("/dashboard/agendas/"+agendaID+"/edit", form)
	expectPage(t, rr, http.StatusBadRequest, "Ubah Agenda", `value="Rapat Evaluasi"`)

	other := env.browserFor(t, env.otherKasi)
	other.get("/dashboard")
	form.Set("end_date_time", "2026-03-02T11:00")
	rr = other.postForm("/dashboard/agendas/"+agendaID+"/edit", form)
	expectPage(t, rr, http.StatusForbidden, "Akses Ditolak")
	rr = other.postForm("/dashboard/agendas/"+spare+"/delete", url.Values{})
	expectPage(t, rr, http.StatusForbidden, "Akses Ditolak")

	respond := env.doJSON(http.MethodPost, "/api/agendas/"+agendaID+"/response", `{"response_type":"hadir"}`, env.tokenFor(t, env.head))
	if respond.Code != http.StatusCreated {
		t.Fatalf("respond: expected 201, got %d body=%s", respond.Code, respond.Body.String())
	}
	rr = kasi.postForm("/dashboard/agendas/"+agendaID+"/edit", form)
	expectPage(t, rr, http.StatusConflict, "Ubah Agenda", "agenda sudah direspons")
	rr = kasi.postForm("/dashboard/agendas/"+agendaID+"/delete", url.Values{})
	expectPage(t, rr, http.StatusConflict, "agenda sudah direspons")

	rr = kasi.postForm("/dashboard/agendas/"+spare+"/delete", url.Values{})
	location := expectRedirect(t, rr, "/dashboard", "agenda_deleted")
	expectPage(t, kasi.get(location), http.StatusOK, "Agenda berhasil dihapus.")
	if _, err := env.agendaStore.GetAgenda(context.Background(), spare); err == nil {
		t.Fatalf("expected agenda %s to be deleted", spare)
	}
}

func TestPageAgendaRespondWithDelegate(t *testing.T) {
	env := newTestServer(t)
	agendaID := env.createAgendaAsKasi(t, "Sidak Blok")
	head := env.browserFor(t, env.head)

	detail := head.get("/dashboard/agendas/" + agendaID)
	expectPage(t, detail, http.StatusOK, "Berikan Respons", `<option value="dedi@rutan.id">Dedi (Seksi Keamanan)</option>`)

	rr := head.postForm("/dashboard/agendas/"+agendaID+"/response", url.Values{
		"response_type":  {"diwakilkan"},
		"delegate_email": {"nobody@rutan.id"},
	})
	expectPage(t, rr, http.StatusBadRequest, "Sidak Blok", "delegasi harus ke kepala seksi yang terdaftar")

	rr = head.postForm("/dashboard/agendas/"+agendaID+"/response", url.Values{
		"response_type":  {"diwakilkan"},
		"delegate_email": {"dedi@rutan.id"},
		"notes":          {"Mohon hadir mewakili"},
	})
	location := expectRedirect(t, rr, "/dashboard/agendas/"+agendaID, "response_saved")
	expectPage(t, head.get(location), http.StatusOK, "Respons berhasil disimpan.", "Ubah Respons")

	agenda, err := env.agendaStore.GetAgenda(context.Background(), agendaID)
	if err != nil {
		t.Fatalf("get agenda: %v", err)
	}
	if agenda.Response == nil || agenda.Response.DelegateName == nil || *agenda.Response.DelegateName != "Dedi (Seksi Keamanan)" {
		t.Fatalf("expected delegation to Dedi, got %+v", agenda.Response)
	}

	kasi := env.browserFor(t, env.kasi)
	kasi.get("/dashboard")
	rr = kasi.postForm("/dashboard/agendas/"+agendaID+"/response", url.Values{"response_type": {"hadir"}})
	expectPage(t, rr, http.StatusForbidden, "Akses Ditolak")
}

func TestPageUserManagement(t *testing.T) {
	env := newTestServer(t)
	head := env.browserFor(t, env.head)
	head.get("/dashboard/users/create")

	newUser := url.Values{
		"name":         {"Rina"},
		"email":        {"rina@rutan.id"},
		"password":     {"rahasia123"},
		"role":         {"kepala_seksi"},
		"seksi_name":   {"Seksi Umum"},
		"phone_number": {"081234"},
	}
	rr := head.postForm("/dashboard/users/create", newUser)
	location := expectRedirect(t, rr, "/dashboard/users", "user_created")
	expectPage(t, head.get(location), http.StatusOK, "User berhasil dibuat.", "rina@rutan.id")

	rr = head.postForm("/dashboard/users/create", newUser)
	expectPage(t, rr, http.StatusConflict, "Tambah User", "email sudah digunakan", `value="Rina"`)

	edit := head.get("/dashboard/users/" + env.otherKasi.UserID + "/edit")
	expectPage(t, edit, http.StatusOK, "Ubah User", `value="dedi@rutan.id"`)

	changes := url.Values{
		"name":         {"Dedi Santoso"},
		"email":        {"dedi@rutan.id"},
		"role":         {"kepala_seksi"},
		"seksi_name":   {"Seksi Keamanan"},
		"phone_number": {""},
	}
	rr = head.postForm("/dashboard/users/"+env.otherKasi.UserID+"/edit", changes)
	expectPage(t, rr, http.StatusBadRequest, "Ubah User", "nomor WhatsApp harus diisi")

	changes.Set("phone_number", "0899")
	rr = head.postForm("/dashboard/users/"+env.otherKasi.UserID+"/edit", changes)
	expectRedirect(t, rr, "/dashboard/users", "user_updated")

	apiRR := env.doJSON(http.MethodGet, "/api/users/"+env.otherKasi.UserID, "", env.tokenFor(t, env.head))
	var updated userhttp.UserResponse
	decodeBody(t, apiRR, &updated)
	if updated.User.Name != "Dedi Santoso" || updated.User.PhoneNumber != "0899" {
		t.Fatalf("unexpected updated user: %+v", updated.User)
	}

	rr = head.postForm("/dashboard/users/"+env.otherKasi.UserID+"/delete", url.Values{})
	expectRedirect(t, rr, "/dashboard/users", "user_deleted")
	rr = head.postForm("/dashboard/users/"+env.head.UserID+"/delete", url.Values{})
	expectPage(t, rr, http.StatusBadRequest, "tidak bisa menghapus akun sendiri")

	kasi := env.browserFor(t, env.kasi)
	kasi.get("/dashboard")
	rr = kasi.postForm("/dashboard/users/create", newUser)
	expectPage(t, rr, http.StatusForbidden, "Akses Ditolak")
}

// countingReader reports how much of a request body the server consumed.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

func TestPageFormBodyIsCapped(t *testing.T) {
	env := newTestServerWith(t, func(opts *Options) {
		opts.MaxUploadBytes = 1024
	})
	limit := int64(1024 + multipartMemory)
	kasi := env.browserFor(t, env.kasi)
	kasi.get("/dashboard/agendas/create")

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("gorilla.csrf.Token", kasi.token)
	for key, value := range agendaFields {
		_ = writer.WriteField(key, value)
	}
	_ = writer.WriteField("description", strings.Repeat("x", int(3*limit)))
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	sent := int64(body.Len())
	counter := &countingReader{r: &body}

	req := httptest.NewRequest(http.MethodPost, "/dashboard/agendas/create", counter)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	rr := kasi.do(req)

	expectPage(t, rr, http.StatusRequestEntityTooLarge, "lampiran terlalu besar")
	if counter.n > limit+1 {
		t.Fatalf("server read %d of %d bytes, cap is %d", counter.n, sent, limit)
	}
	items, err := env.agendaStore.ListAgendas(context.Background())
	if err != nil {
		t.Fatalf("list agendas: %v", err)
	}
	if len(items) != 0 {
		t.Fatalf("expected no agenda from an oversized form, got %d", len(items))
	}
}
