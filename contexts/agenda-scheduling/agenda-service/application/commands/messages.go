package commands

import (
	"fmt"
	"strings"
	"time"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
)

var monthNames = [...]string{
	"Januari", "Februari", "Maret", "April", "Mei", "Juni",
	"Juli", "Agustus", "September", "Oktober", "November", "Desember",
}

// formatSchedule renders "2 Maret 2026 08.00 WIB".
func formatSchedule(at time.Time, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}
	local := at.In(location)
	return fmt.Sprintf("%d %s %d %02d.%02d %s",
		local.Day(),
		monthNames[local.Month()-1],
		local.Year(),
		local.Hour(),
		local.Minute(),
		local.Format("MST"),
	)
}

func orDash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}

func newAgendaMessage(recipient string, agenda entities.Agenda, location *time.Location) string {
	var b strings.Builder
	b.WriteString("🔔 *AGENDA BARU*\n\n")
	fmt.Fprintf(&b, "Halo *%s*, ada agenda baru yang memerlukan respons Anda:\n\n", recipient)
	fmt.Fprintf(&b, "📌 *Judul:* %s\n", agenda.Title)
	fmt.Fprintf(&b, "📍 *Lokasi:* %s\n", orDash(agenda.Location))
	fmt.Fprintf(&b, "📅 *Waktu:* %s\n", formatSchedule(agenda.StartAt, location))
	fmt.Fprintf(&b, "👤 *Pengaju:* %s\n\n", orDash(agenda.CreatedBy.Name))
	b.WriteString("Silakan cek dashboard untuk memberikan keputusan.")
	return b.String()
}

func decisionLabel(response entities.Response) string {
	switch response.Type {
	case entities.DecisionAttend:
		return "Hadir"
	case entities.DecisionDecline:
		return "Tidak Hadir"
	case entities.DecisionDelegate:
		if response.DelegateName != nil {
			return "Diwakilkan kepada " + *response.DelegateName
		}
		return "Diwakilkan"
	default:
		return string(response.Type)
	}
}

func decisionMessage(recipient string, agenda entities.Agenda, response entities.Response, location *time.Location) string {
	var b strings.Builder
	b.WriteString("📋 *KEPUTUSAN AGENDA*\n\n")
	fmt.Fprintf(&b, "Halo *%s*, Kepala Rutan telah merespons agenda Anda:\n\n", recipient)
	fmt.Fprintf(&b, "📌 *Judul:* %s\n", agenda.Title)
	fmt.Fprintf(&b, "📅 *Waktu:* %s\n", formatSchedule(agenda.StartAt, location))
	fmt.Fprintf(&b, "✅ *Keputusan:* %s\n", decisionLabel(response))
	if response.Notes != nil {
		fmt.Fprintf(&b, "📝 *Catatan:* %s\n", *response.Notes)
	}
	b.WriteString("\nSilakan cek dashboard untuk detailnya.")
	return b.String()
}

func delegationMessage(recipient string, agenda entities.Agenda, response entities.Response, location *time.Location) string {
	var b strings.Builder
	b.WriteString("📨 *DELEGASI AGENDA*\n\n")
	fmt.Fprintf(&b, "Halo *%s*, Anda ditugaskan mewakili Kepala Rutan pada agenda berikut:\n\n", recipient)
	fmt.Fprintf(&b, "📌 *Judul:* %s\n", agenda.Title)
	fmt.Fprintf(&b, "📍 *Lokasi:* %s\n", orDash(agenda.Location))
	fmt.Fprintf(&b, "📅 *Waktu:* %s\n", formatSchedule(agenda.StartAt, location))
	if response.Notes != nil {
		fmt.Fprintf(&b, "📝 *Catatan:* %s\n", *response.Notes)
	}
	b.WriteString("\nSilakan cek dashboard untuk detailnya.")
	return b.String()
}
