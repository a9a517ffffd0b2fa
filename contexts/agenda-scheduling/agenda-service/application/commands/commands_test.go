package commands_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/adapters/memory"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/application/commands"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"
	"rutanagenda/contexts/agenda-scheduling/agenda-service/ports"
)

type fixedClock struct {
	now time.Time
}

func (c fixedClock) Now() time.Time { return c.now }

var (
	testNow = time.Date(2026, time.February, 20, 3, 0, 0, 0, time.UTC)
	wib     = time.FixedZone("WIB", 7*60*60)

	headContact = entities.Contact{
		UserID:      "head-1",
		Name:        "Budi",
		Email:       "karutan@rutan.go.id",
		Role:        entities.RoleFacilityHead,
		PhoneNumber: "081200000001",
	}
	kasiContact = entities.Contact{
		UserID:      "kasi-1",
		Name:        "Sari",
		Email:       "sari@rutan.go.id",
		Role:        entities.RoleSectionHead,
		SeksiName:   "Pelayanan Tahanan",
		PhoneNumber: "081200000002",
	}
	otherKasiContact = entities.Contact{
		UserID:      "kasi-2",
		Name:        "Andi",
		Email:       "andi@rutan.go.id",
		Role:        entities.RoleSectionHead,
		SeksiName:   "Keamanan",
		PhoneNumber: "081200000003",
	}

	headActor      = entities.Actor{UserID: "head-1", Email: "karutan@rutan.go.id", Name: "Budi", Role: entities.RoleFacilityHead}
	kasiActor      = entities.Actor{UserID: "kasi-1", Email: "sari@rutan.go.id", Name: "Sari", Role: entities.RoleSectionHead, SeksiName: "Pelayanan Tahanan"}
	otherKasiActor = entities.Actor{UserID: "kasi-2", Email: "andi@rutan.go.id", Name: "Andi", Role: entities.RoleSectionHead, SeksiName: "Keamanan"}
)

type fixture struct {
	store   *memory.Store
	create  commands.CreateAgendaUseCase
	update  commands.UpdateAgendaUseCase
	remove  commands.DeleteAgendaUseCase
	respond commands.RespondAgendaUseCase
}

func newFixture() fixture {
	store := memory.NewStore([]entities.Contact{headContact, kasiContact, otherKasiContact})
	clock := fixedClock{now: testNow}
	return fixture{
		store: store,
		create: commands.CreateAgendaUseCase{
			Repository:  store,
			Directory:   store,
			Notifier:    store,
			Storage:     store,
			Clock:       clock,
			IDGenerator: store,
			Location:    wib,
		},
		update: commands.UpdateAgendaUseCase{Repository: store, Clock: clock},
		remove: commands.DeleteAgendaUseCase{Repository: store, Storage: store},
		respond: commands.RespondAgendaUseCase{
			Repository:  store,
			Directory:   store,
			Notifier:    store,
			Clock:       clock,
			IDGenerator: store,
			Location:    wib,
		},
	}
}

func agendaCommand(actor entities.Actor) commands.CreateAgendaCommand {
	return commands.CreateAgendaCommand{
		Actor:       actor,
		Title:       "Rapat Koordinasi Keamanan",
		Description: "Evaluasi bulanan",
		Location:    "Aula Rutan",
		StartAt:     time.Date(2026, time.March, 2, 1, 0, 0, 0, time.UTC),
		EndAt:       time.Date(2026, time.March, 2, 3, 0, 0, 0, time.UTC),
	}
}

func (f fixture) createAgenda(t *testing.T, actor entities.Actor) entities.Agenda {
	t.Helper()
	agenda, err := f.create.Execute(context.Background(), agendaCommand(actor))
	if err != nil {
		t.Fatalf("create agenda failed: %v", err)
	}
	return agenda
}

func TestCreateAgendaStoresAttachmentAndNotifiesFacilityHead(t *testing.T) {
	f := newFixture()
	cmd := agendaCommand(kasiActor)
	cmd.Attachment = &ports.Attachment{
		FileName:    "undangan.pdf",
		ContentType: "application/pdf",
		Size:        8,
		Body:        strings.NewReader("%PDF-1.4"),
	}

	agenda, err := f.create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("expected create success, got %v", err)
	}
	if agenda.Status != entities.StatusPending {
		t.Fatalf("expected pending status, got %s", agenda.Status)
	}
	if agenda.CreatedBy.UserID != "kasi-1" || agenda.CreatedBy.SeksiName != "Pelayanan Tahanan" {
		t.Fatalf("unexpected creator: %+v", agenda.CreatedBy)
	}
	wantURL := "memory://agendas/kasi-1-" + "1771556400000" + ".pdf"
	if agenda.AttachmentURL != wantURL {
		t.Fatalf("expected attachment url %s, got %s", wantURL, agenda.AttachmentURL)
	}
	if body, ok := f.store.File(agenda.AttachmentURL); !ok || string(body) != "%PDF-1.4" {
		t.Fatalf("expected stored attachment, got %q (found=%v)", body, ok)
	}

	sent := f.store.Sent()
	if len(sent) != 1 {
		t.Fatalf("expected one notification, got %d", len(sent))
	}
	if sent[0].Target != headContact.PhoneNumber {
		t.Fatalf("expected notification to facility head, got %s", sent[0].Target)
	}
	for _, fragment := range []string{"AGENDA BARU", "Halo *Budi*", "Rapat Koordinasi Keamanan", "2 Maret 2026 08.00 WIB", "Sari"} {
		if !strings.Contains(sent[0].Message, fragment) {
			t.Fatalf("expected message to contain %q, got %q", fragment, sent[0].Message)
		}
	}
}

func TestCreateAgendaRejectsInvalidInput(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*commands.CreateAgendaCommand)
		want   error
	}{
		{
			name:   "missing title",
			mutate: func(cmd *commands.CreateAgendaCommand) { cmd.Title = "  " },
			want:   domainerrors.ErrInvalidAgenda,
		},
		{
			name: "end before start",
			mutate: func(cmd *commands.CreateAgendaCommand) {
				cmd.EndAt = cmd.StartAt.Add(-time.Minute)
			},
			want: domainerrors.ErrInvalidAgenda,
		},
		{
			name: "attachment not pdf",
			mutate: func(cmd *commands.CreateAgendaCommand) {
				cmd.Attachment = &ports.Attachment{FileName: "foto.png", ContentType: "image/png", Size: 4, Body: strings.NewReader("png!")}
			},
			want: domainerrors.ErrAttachmentNotPDF,
		},
		{
			name: "attachment too large",
			mutate: func(cmd *commands.CreateAgendaCommand) {
				cmd.Attachment = &ports.Attachment{
					FileName:    "besar.pdf",
					ContentType: "application/pdf",
					Size:        commands.DefaultMaxAttachmentBytes + 1,
					Body:        strings.NewReader("%PDF"),
				}
			},
			want: domainerrors.ErrAttachmentTooLarge,
		},
		{
			name:   "anonymous caller",
			mutate: func(cmd *commands.CreateAgendaCommand) { cmd.Actor = entities.Actor{} },
			want:   domainerrors.ErrForbidden,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			cmd := agendaCommand(kasiActor)
			tc.mutate(&cmd)

			_, err := f.create.Execute(context.Background(), cmd)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			if len(f.store.Sent()) != 0 {
				t.Fatalf("expected no notification on rejected create")
			}
			count, _ := f.store.CountAgendas(context.Background(), "")
			if count != 0 {
				t.Fatalf("expected no stored agenda, got %d", count)
			}
		})
	}
}

func TestCreateAgendaAcceptsOctetStreamPDF(t *testing.T) {
	f := newFixture()
	cmd := agendaCommand(kasiActor)
	cmd.Attachment = &ports.Attachment{
		FileName:    "SURAT.PDF",
		ContentType: "application/octet-stream",
		Size:        4,
		Body:        strings.NewReader("%PDF"),
	}
	if _, err := f.create.Execute(context.Background(), cmd); err != nil {
		t.Fatalf("expected pdf by extension to be accepted, got %v", err)
	}
}

func TestCreateAgendaSucceedsWhenNotificationFails(t *testing.T) {
	f := newFixture()
	f.store.FailSends(errors.New("gateway down"))

	agenda := f.createAgenda(t, kasiActor)
	if _, err := f.store.GetAgenda(context.Background(), agenda.AgendaID); err != nil {
		t.Fatalf("expected agenda persisted despite notification failure, got %v", err)
	}
}

func TestUpdateAgendaOnlyByCreatorWhilePending(t *testing.T) {
	f := newFixture()
	agenda := f.createAgenda(t, kasiActor)

	update := commands.UpdateAgendaCommand{
		AgendaID:    agenda.AgendaID,
		Title:       "Rapat Koordinasi (revisi)",
		Description: agenda.Description,
		Location:    "Ruang Rapat",
		StartAt:     agenda.StartAt.Add(time.Hour),
		EndAt:       agenda.EndAt.Add(time.Hour),
	}

	update.Actor = otherKasiActor
	if _, err := f.update.Execute(context.Background(), update); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for other section head, got %v", err)
	}
	update.Actor = headActor
	if _, err := f.update.Execute(context.Background(), update); !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden for facility head, got %v", err)
	}

	update.Actor = kasiActor
	updated, err := f.update.Execute(context.Background(), update)
	if err != nil {
		t.Fatalf("expected creator update success, got %v", err)
	}
	if updated.Title != "Rapat Koordinasi (revisi)" || updated.Location != "Ruang Rapat" {
		t.Fatalf("unexpected updated agenda: %+v", updated)
	}
	if !updated.UpdatedAt.Equal(testNow) {
		t.Fatalf("expected updated_at %s, got %s", testNow, updated.UpdatedAt)
	}

	if _, err := f.respond.Execute(context.Background(), commands.RespondAgendaCommand{
		Actor:        headActor,
		AgendaID:     agenda.AgendaID,
		ResponseType: "hadir",
	}); err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if _, err := f.update.Execute(context.Background(), update); !errors.Is(err, domainerrors.ErrAgendaAlreadyResponded) {
		t.Fatalf("expected already responded, got %v", err)
	}
}

func TestUpdateAgendaNotFound(t *testing.T) {
	f := newFixture()
	cmd := agendaCommand(kasiActor)
	_, err := f.update.Execute(context.Background(), commands.UpdateAgendaCommand{
		Actor:    kasiActor,
		AgendaID: "missing",
		Title:    cmd.Title,
		StartAt:  cmd.StartAt,
		EndAt:    cmd.EndAt,
	})
	if !errors.Is(err, domainerrors.ErrAgendaNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestDeleteAgendaRemovesAttachment(t *testing.T) {
	f := newFixture()
	cmd := agendaCommand(kasiActor)
	cmd.Attachment = &ports.Attachment{FileName: "a.pdf", ContentType: "application/pdf", Size: 4, Body: strings.NewReader("%PDF")}
	agenda, err := f.create.Execute(context.Background(), cmd)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	err = f.remove.Execute(context.Background(), commands.DeleteAgendaCommand{Actor: otherKasiActor, AgendaID: agenda.AgendaID})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}

	if err := f.remove.Execute(context.Background(), commands.DeleteAgendaCommand{Actor: kasiActor, AgendaID: agenda.AgendaID}); err != nil {
		t.Fatalf("expected delete success, got %v", err)
	}
	if _, err := f.store.GetAgenda(context.Background(), agenda.AgendaID); !errors.Is(err, domainerrors.ErrAgendaNotFound) {
		t.Fatalf("expected agenda gone, got %v", err)
	}
	if _, ok := f.store.File(agenda.AttachmentURL); ok {
		t.Fatalf("expected attachment removed")
	}
}

func TestDeleteRespondedAgendaRejected(t *testing.T) {
	f := newFixture()
	agenda := f.createAgenda(t, kasiActor)
	if _, err := f.respond.Execute(context.Background(), commands.RespondAgendaCommand{
		Actor:        headActor,
		AgendaID:     agenda.AgendaID,
		ResponseType: "tidak_hadir",
	}); err != nil {
		t.Fatalf("respond failed: %v", err)
	}

	err := f.remove.Execute(context.Background(), commands.DeleteAgendaCommand{Actor: kasiActor, AgendaID: agenda.AgendaID})
	if !errors.Is(err, domainerrors.ErrAgendaAlreadyResponded) {
		t.Fatalf("expected already responded, got %v", err)
	}
}

func TestRespondAgendaDelegationNotifiesCreatorAndDelegate(t *testing.T) {
	f := newFixture()
	agenda := f.createAgenda(t, kasiActor)

	result, err := f.respond.Execute(context.Background(), commands.RespondAgendaCommand{
		Actor:         headActor,
		AgendaID:      agenda.AgendaID,
		ResponseType:  " Diwakilkan ",
		DelegateEmail: "ANDI@rutan.go.id",
		Notes:         "Mohon laporan tertulis",
	})
	if err != nil {
		t.Fatalf("expected respond success, got %v", err)
	}
	if !result.Created {
		t.Fatalf("expected a new response")
	}
	if result.Agenda.Status != entities.StatusResponded {
		t.Fatalf("expected responded status, got %s", result.Agenda.Status)
	}
	response := result.Response
	if response.Type != entities.DecisionDelegate {
		t.Fatalf("expected diwakilkan, got %s", response.Type)
	}
	if response.DelegateEmail == nil || *response.DelegateEmail != "andi@rutan.go.id" {
		t.Fatalf("expected normalized delegate email, got %v", response.DelegateEmail)
	}
	if response.DelegateName == nil || *response.DelegateName != "Andi (Keamanan)" {
		t.Fatalf("expected default delegate name, got %v", response.DelegateName)
	}

	// The first message is the facility head's new-agenda notice.
	sent := f.store.Sent()
	if len(sent) != 3 {
		t.Fatalf("expected three notifications, got %d", len(sent))
	}
	if sent[1].Target != kasiContact.PhoneNumber || !strings.Contains(sent[1].Message, "KEPUTUSAN AGENDA") {
		t.Fatalf("expected decision message to creator, got %+v", sent[1])
	}
	if !strings.Contains(sent[1].Message, "Diwakilkan kepada Andi (Keamanan)") {
		t.Fatalf("expected delegation label, got %q", sent[1].Message)
	}
	if sent[2].Target != otherKasiContact.PhoneNumber || !strings.Contains(sent[2].Message, "DELEGASI AGENDA") {
		t.Fatalf("expected delegation message to delegate, got %+v", sent[2])
	}
}

func TestRespondAgendaResubmissionUpdatesExistingResponse(t *testing.T) {
	f := newFixture()
	agenda := f.createAgenda(t, kasiActor)

	first, err := f.respond.Execute(context.Background(), commands.RespondAgendaCommand{
		Actor:         headActor,
		AgendaID:      agenda.AgendaID,
		ResponseType:  "diwakilkan",
		DelegateEmail: "andi@rutan.go.id",
		DelegateName:  "Pak Andi",
	})
	if err != nil {
		t.Fatalf("first respond failed: %v", err)
	}

	second, err := f.respond.Execute(context.Background(), commands.RespondAgendaCommand{
		Actor:        headActor,
		AgendaID:     agenda.AgendaID,
		ResponseType: "hadir",
	})
	if err != nil {
		t.Fatalf("second respond failed: %v", err)
	}
	if second.Created {
		t.Fatalf("expected update of existing response")
	}
	if second.Response.ResponseID != first.Response.ResponseID {
		t.Fatalf("expected same response id, got %s and %s", first.Response.ResponseID, second.Response.ResponseID)
	}
	if second.Response.DelegateEmail != nil || second.Response.DelegateName != nil {
		t.Fatalf("expected delegate fields cleared, got %+v", second.Response)
	}

	stored, err := f.store.GetAgenda(context.Background(), agenda.AgendaID)
	if err != nil {
		t.Fatalf("get agenda failed: %v", err)
	}
	if stored.Response == nil || stored.Response.Type != entities.DecisionAttend {
		t.Fatalf("expected stored hadir response, got %+v", stored.Response)
	}
}

func TestRespondAgendaGuards(t *testing.T) {
	cases := []struct {
		name string
		cmd  func(agendaID string) commands.RespondAgendaCommand
		want error
	}{
		{
			name: "section head cannot respond",
			cmd: func(agendaID string) commands.RespondAgendaCommand {
				return commands.RespondAgendaCommand{Actor: kasiActor, AgendaID: agendaID, ResponseType: "hadir"}
			},
			want: domainerrors.ErrForbidden,
		},
		{
			name: "unknown response type",
			cmd: func(agendaID string) commands.RespondAgendaCommand {
				return commands.RespondAgendaCommand{Actor: headActor, AgendaID: agendaID, ResponseType: "mungkin"}
			},
			want: domainerrors.ErrInvalidResponse,
		},
		{
			name: "delegation without email",
			cmd: func(agendaID string) commands.RespondAgendaCommand {
				return commands.RespondAgendaCommand{Actor: headActor, AgendaID: agendaID, ResponseType: "diwakilkan"}
			},
			want: domainerrors.ErrInvalidDelegate,
		},
		{
			name: "delegation to unknown email",
			cmd: func(agendaID string) commands.RespondAgendaCommand {
				return commands.RespondAgendaCommand{Actor: headActor, AgendaID: agendaID, ResponseType: "diwakilkan", DelegateEmail: "tamu@rutan.go.id"}
			},
			want: domainerrors.ErrInvalidDelegate,
		},
		{
			name: "delegation to facility head",
			cmd: func(agendaID string) commands.RespondAgendaCommand {
				return commands.RespondAgendaCommand{Actor: headActor, AgendaID: agendaID, ResponseType: "diwakilkan", DelegateEmail: "karutan@rutan.go.id"}
			},
			want: domainerrors.ErrInvalidDelegate,
		},
		{
			name: "missing agenda",
			cmd: func(string) commands.RespondAgendaCommand {
				return commands.RespondAgendaCommand{Actor: headActor, AgendaID: "missing", ResponseType: "hadir"}
			},
			want: domainerrors.ErrAgendaNotFound,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			agenda := f.createAgenda(t, kasiActor)

			_, err := f.respond.Execute(context.Background(), tc.cmd(agenda.AgendaID))
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
			stored, _ := f.store.GetAgenda(context.Background(), agenda.AgendaID)
			if stored.Status != entities.StatusPending {
				t.Fatalf("expected agenda to stay pending, got %s", stored.Status)
			}
		})
	}
}

func TestRespondSkipsNotificationWithoutPhone(t *testing.T) {
	f := newFixture()
	noPhone := kasiContact
	noPhone.PhoneNumber = ""
	f.store.PutContact(noPhone)
	agenda := f.createAgenda(t, kasiActor)

	if _, err := f.respond.Execute(context.Background(), commands.RespondAgendaCommand{
		Actor:        headActor,
		AgendaID:     agenda.AgendaID,
		ResponseType: "hadir",
	}); err != nil {
		t.Fatalf("respond failed: %v", err)
	}
	if sent := f.store.Sent(); len(sent) != 1 {
		t.Fatalf("expected only the facility head notice, got %d", len(sent))
	}
}
