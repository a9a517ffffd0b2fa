package services

import (
	"testing"
	"time"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"

	"github.com/google/go-cmp/cmp"
)

func agendaIDs(items []entities.Agenda) []string {
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.AgendaID)
	}
	return ids
}

func respondedAgenda(id string, creatorID string, decision entities.Decision, delegateEmail string) entities.Agenda {
	response := &entities.Response{ResponseID: "r-" + id, AgendaID: id, Type: decision}
	if delegateEmail != "" {
		response.DelegateEmail = &delegateEmail
	}
	return entities.Agenda{
		AgendaID:  id,
		Status:    entities.StatusResponded,
		CreatedBy: entities.Creator{UserID: creatorID},
		Response:  response,
		StartAt:   time.Date(2026, time.May, 1, 9, 0, 0, 0, time.UTC),
	}
}

func TestPartitionForSectionHead(t *testing.T) {
	agendas := []entities.Agenda{
		{AgendaID: "a1", Status: entities.StatusPending, CreatedBy: entities.Creator{UserID: "kasi-1"}},
		respondedAgenda("a2", "kasi-2", entities.DecisionDelegate, "Budi@Rutan.go.id"),
		respondedAgenda("a3", "kasi-1", entities.DecisionDelegate, "budi@rutan.go.id"),
		respondedAgenda("a4", "kasi-2", entities.DecisionAttend, ""),
		{AgendaID: "a5", Status: entities.StatusPending, CreatedBy: entities.Creator{UserID: "kasi-2"}},
	}
	actor := entities.Actor{UserID: "kasi-1", Email: "budi@rutan.go.id", Role: entities.RoleSectionHead}

	got := PartitionAgendas(actor, agendas)

	if diff := cmp.Diff([]string{"a1", "a3"}, agendaIDs(got.Mine)); diff != "" {
		t.Fatalf("mine mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a2", "a3"}, agendaIDs(got.Delegated)); diff != "" {
		t.Fatalf("delegated mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a1", "a3", "a2"}, agendaIDs(got.Personal)); diff != "" {
		t.Fatalf("personal mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(agendaIDs(agendas), agendaIDs(got.All)); diff != "" {
		t.Fatalf("all mismatch (-want +got):\n%s", diff)
	}
	want := Summary{Total: 5, Pending: 2, Responded: 3, Delegated: 2}
	if diff := cmp.Diff(want, got.Summary); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestPartitionForFacilityHeadCountsAttendedAsMine(t *testing.T) {
	agendas := []entities.Agenda{
		respondedAgenda("a1", "kasi-1", entities.DecisionAttend, ""),
		respondedAgenda("a2", "kasi-1", entities.DecisionDecline, ""),
		respondedAgenda("a3", "kasi-2", entities.DecisionDelegate, "sari@rutan.go.id"),
	}
	actor := entities.Actor{UserID: "head-1", Email: "karutan@rutan.go.id", Role: "KEPALA_RUTAN"}

	got := PartitionAgendas(actor, agendas)

	if diff := cmp.Diff([]string{"a1"}, agendaIDs(got.Mine)); diff != "" {
		t.Fatalf("mine mismatch (-want +got):\n%s", diff)
	}
	if len(got.Delegated) != 0 {
		t.Fatalf("expected no delegated agendas, got %v", agendaIDs(got.Delegated))
	}
	if got.Summary.Total != 3 || got.Summary.Responded != 3 || got.Summary.Pending != 0 {
		t.Fatalf("unexpected summary: %+v", got.Summary)
	}
}

func TestPartitionEmptyInput(t *testing.T) {
	got := PartitionAgendas(entities.Actor{UserID: "u"}, nil)
	if got.All == nil || got.Mine == nil || got.Delegated == nil || got.Personal == nil {
		t.Fatalf("expected non-nil empty slices")
	}
	if got.Summary != (Summary{}) {
		t.Fatalf("expected zero summary, got %+v", got.Summary)
	}
}

func TestDedupeByIDKeepsFirstOccurrence(t *testing.T) {
	first := entities.Agenda{AgendaID: "a1", Title: "first"}
	dup := entities.Agenda{AgendaID: "a1", Title: "dup"}
	other := entities.Agenda{AgendaID: "a2"}

	got := DedupeByID([]entities.Agenda{first, other}, []entities.Agenda{dup})
	if len(got) != 2 || got[0].Title != "first" {
		t.Fatalf("unexpected dedupe result: %+v", got)
	}
}
