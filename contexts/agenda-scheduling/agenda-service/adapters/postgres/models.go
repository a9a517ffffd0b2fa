package postgresadapter

import (
	"strings"
	"time"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
)

// userModel is a read-only projection of the users table owned by the
// identity context. Column tags mirror the owning model so migrations
// never alter the table.
type userModel struct {
	UserID    string  `gorm:"column:user_id;primaryKey;size:36"`
	Name      string  `gorm:"column:name;not null"`
	Email     string  `gorm:"column:email;uniqueIndex:idx_users_email;not null"`
	SeksiName *string `gorm:"column:seksi_name"`
}

func (userModel) TableName() string {
	return "users"
}

type agendaModel struct {
	AgendaID      string         `gorm:"column:agenda_id;primaryKey;size:36"`
	Title         string         `gorm:"column:title;not null"`
	Description   *string        `gorm:"column:description"`
	Location      *string        `gorm:"column:location"`
	StartAt       time.Time      `gorm:"column:start_at;not null;index"`
	EndAt         time.Time      `gorm:"column:end_at;not null"`
	AttachmentURL *string        `gorm:"column:attachment_url"`
	Status        string         `gorm:"column:status;not null;index;check:chk_agendas_status,status IN ('pending','responded')"`
	CreatedByID   string         `gorm:"column:created_by_id;not null;index;size:36"`
	CreatedAt     time.Time      `gorm:"column:created_at;not null"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;not null"`
	CreatedBy     userModel      `gorm:"foreignKey:CreatedByID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Response      *responseModel `gorm:"foreignKey:AgendaID;references:AgendaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

func (agendaModel) TableName() string {
	return "agendas"
}

type responseModel struct {
	ResponseID    string    `gorm:"column:response_id;primaryKey;size:36"`
	AgendaID      string    `gorm:"column:agenda_id;not null;uniqueIndex:idx_responses_agenda_id;size:36"`
	ResponderID   string    `gorm:"column:responder_id;not null;index;size:36"`
	ResponseType  string    `gorm:"column:response_type;not null;check:chk_responses_type,response_type IN ('hadir','tidak_hadir','diwakilkan')"`
	DelegateEmail *string   `gorm:"column:delegate_email;check:chk_responses_delegate,response_type = 'diwakilkan' OR (delegate_email IS NULL AND delegate_name IS NULL)"`
	DelegateName  *string   `gorm:"column:delegate_name"`
	Notes         *string   `gorm:"column:notes"`
	RespondedAt   time.Time `gorm:"column:responded_at;not null"`
	Responder     userModel `gorm:"foreignKey:ResponderID;references:UserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (responseModel) TableName() string {
	return "responses"
}

func agendaModelFromEntity(item entities.Agenda) agendaModel {
	return agendaModel{
		AgendaID:      strings.TrimSpace(item.AgendaID),
		Title:         strings.TrimSpace(item.Title),
		Description:   optionalString(item.Description),
		Location:      optionalString(item.Location),
		StartAt:       item.StartAt.UTC(),
		EndAt:         item.EndAt.UTC(),
		AttachmentURL: optionalString(item.AttachmentURL),
		Status:        string(item.Status),
		CreatedByID:   strings.TrimSpace(item.CreatedBy.UserID),
		CreatedAt:     item.CreatedAt.UTC(),
		UpdatedAt:     item.UpdatedAt.UTC(),
	}
}

func (m agendaModel) toEntity() entities.Agenda {
	agenda := entities.Agenda{
		AgendaID:      m.AgendaID,
		Title:         m.Title,
		Description:   valueOrEmpty(m.Description),
		Location:      valueOrEmpty(m.Location),
		StartAt:       m.StartAt.UTC(),
		EndAt:         m.EndAt.UTC(),
		AttachmentURL: valueOrEmpty(m.AttachmentURL),
		Status:        entities.Status(m.Status),
		CreatedBy: entities.Creator{
			UserID:    m.CreatedByID,
			Name:      m.CreatedBy.Name,
			Email:     m.CreatedBy.Email,
			SeksiName: valueOrEmpty(m.CreatedBy.SeksiName),
		},
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
	if m.Response != nil {
		response := m.Response.toEntity()
		agenda.Response = &response
	}
	return agenda
}

func responseModelFromEntity(item entities.Response) responseModel {
	return responseModel{
		ResponseID:    strings.TrimSpace(item.ResponseID),
		AgendaID:      strings.TrimSpace(item.AgendaID),
		ResponderID:   strings.TrimSpace(item.ResponderID),
		ResponseType:  string(item.Type),
		DelegateEmail: copyOptional(item.DelegateEmail),
		DelegateName:  copyOptional(item.DelegateName),
		Notes:         copyOptional(item.Notes),
		RespondedAt:   item.RespondedAt.UTC(),
	}
}

func (m responseModel) toEntity() entities.Response {
	return entities.Response{
		ResponseID:    m.ResponseID,
		AgendaID:      m.AgendaID,
		ResponderID:   m.ResponderID,
		ResponderName: m.Responder.Name,
		Type:          entities.Decision(m.ResponseType),
		DelegateEmail: copyOptional(m.DelegateEmail),
		DelegateName:  copyOptional(m.DelegateName),
		Notes:         copyOptional(m.Notes),
		RespondedAt:   m.RespondedAt.UTC(),
	}
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func copyOptional(value *string) *string {
	if value == nil {
		return nil
	}
	copied := *value
	return &copied
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
