package services

import (
	"strings"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
)

// Partition splits the agenda list the way the dashboard shows it.
type Partition struct {
	All       []entities.Agenda
	Mine      []entities.Agenda
	Delegated []entities.Agenda
	// Personal is Mine followed by Delegated with duplicates removed.
	Personal []entities.Agenda
	Summary  Summary
}

type Summary struct {
	Total     int
	Pending   int
	Responded int
	Delegated int
}

// PartitionAgendas expects agendas already in display order and keeps it.
func PartitionAgendas(actor entities.Actor, agendas []entities.Agenda) Partition {
	mine := make([]entities.Agenda, 0)
	delegated := make([]entities.Agenda, 0)
	email := strings.TrimSpace(actor.Email)

	for _, agenda := range agendas {
		if isMine(actor, agenda) {
			mine = append(mine, agenda)
		}
		if email != "" && agenda.Response != nil && agenda.Response.IsDelegatedTo(email) {
			delegated = append(delegated, agenda)
		}
	}

	all := append([]entities.Agenda(nil), agendas...)
	if all == nil {
		all = make([]entities.Agenda, 0)
	}
	personal := DedupeByID(mine, delegated)
	return Partition{
		All:       all,
		Mine:      mine,
		Delegated: delegated,
		Personal:  personal,
		Summary:   Summarize(DedupeByID(all, personal), len(delegated)),
	}
}

func isMine(actor entities.Actor, agenda entities.Agenda) bool {
	if actor.UserID != "" && agenda.CreatedBy.UserID == actor.UserID {
		return true
	}
	return actor.IsFacilityHead() &&
		agenda.Response != nil &&
		agenda.Response.Type == entities.DecisionAttend
}

// DedupeByID concatenates the lists, keeping the first occurrence of
// each agenda id.
func DedupeByID(lists ...[]entities.Agenda) []entities.Agenda {
	seen := make(map[string]struct{})
	result := make([]entities.Agenda, 0)
	for _, list := range lists {
		for _, agenda := range list {
			if _, ok := seen[agenda.AgendaID]; ok {
				continue
			}
			seen[agenda.AgendaID] = struct{}{}
			result = append(result, agenda)
		}
	}
	return result
}

func Summarize(agendas []entities.Agenda, delegated int) Summary {
	summary := Summary{Total: len(agendas), Delegated: delegated}
	for _, agenda := range agendas {
		if agenda.IsResponded() {
			summary.Responded++
		} else {
			summary.Pending++
		}
	}
	return summary
}
