package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"rutanagenda/contexts/agenda-scheduling/agenda-service/domain/entities"
	domainerrors "rutanagenda/contexts/agenda-scheduling/agenda-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Migrate creates agendas and responses. The users table must already
// exist with the identity context's schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&agendaModel{}, &responseModel{})
}

func (r *Repository) withRelations(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("CreatedBy").
		Preload("Response").
		Preload("Response.Responder")
}

func (r *Repository) ListAgendas(ctx context.Context) ([]entities.Agenda, error) {
	var rows []agendaModel
	if err := r.withRelations(ctx).
		Order("start_at DESC").
		Order("agenda_id ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}

	items := make([]entities.Agenda, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items, nil
}

func (r *Repository) GetAgenda(ctx context.Context, agendaID string) (entities.Agenda, error) {
	var row agendaModel
	err := r.withRelations(ctx).
		Where("agenda_id = ?", strings.TrimSpace(agendaID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Agenda{}, domainerrors.ErrAgendaNotFound
		}
		return entities.Agenda{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CreateAgenda(ctx context.Context, agenda entities.Agenda) error {
	row := agendaModelFromEntity(agenda)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		if isUniqueViolation(err) || isForeignKeyViolation(err) {
			return domainerrors.ErrInvalidAgenda
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateAgenda(ctx context.Context, agenda entities.Agenda) error {
	row := agendaModelFromEntity(agenda)
	result := r.db.WithContext(ctx).
		Model(&agendaModel{}).
		Where("agenda_id = ? AND status = ?", row.AgendaID, string(entities.StatusPending)).
		Updates(map[string]any{
			"title":       row.Title,
			"description": row.Description,
			"location":    row.Location,
			"start_at":    row.StartAt,
			"end_at":      row.EndAt,
			"updated_at":  row.UpdatedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrResponded(ctx, row.AgendaID)
	}
	return nil
}

func (r *Repository) DeleteAgenda(ctx context.Context, agendaID string) error {
	agendaID = strings.TrimSpace(agendaID)
	result := r.db.WithContext(ctx).
		Where("agenda_id = ? AND status = ?", agendaID, string(entities.StatusPending)).
		Delete(&agendaModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return r.missingOrResponded(ctx, agendaID)
	}
	return nil
}

func (r *Repository) missingOrResponded(ctx context.Context, agendaID string) error {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&agendaModel{}).
		Where("agenda_id = ?", agendaID).
		Count(&count).
		Error; err != nil {
		return err
	}
	if count == 0 {
		return domainerrors.ErrAgendaNotFound
	}
	return domainerrors.ErrAgendaAlreadyResponded
}

func (r *Repository) CreateResponse(ctx context.Context, response entities.Response) error {
	row := responseModelFromEntity(response)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			switch {
			case isUniqueViolation(err):
				return domainerrors.ErrResponseExists
			case isForeignKeyViolation(err):
				return domainerrors.ErrAgendaNotFound
			case isCheckViolation(err):
				return domainerrors.ErrInvalidResponse
			}
			return err
		}

		result := tx.Model(&agendaModel{}).
			Where("agenda_id = ?", row.AgendaID).
			Updates(map[string]any{
				"status":     string(entities.StatusResponded),
				"updated_at": row.RespondedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAgendaNotFound
		}
		r.logger.Debug("response stored",
			"event", "agenda_response_stored",
			"module", "agenda-scheduling/agenda-service",
			"layer", "adapter",
			"agenda_id", row.AgendaID,
			"response_id", row.ResponseID,
		)
		return nil
	})
}

func (r *Repository) UpdateResponse(ctx context.Context, response entities.Response) error {
	row := responseModelFromEntity(response)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&responseModel{}).
			Where("agenda_id = ?", row.AgendaID).
			Updates(map[string]any{
				"responder_id":   row.ResponderID,
				"response_type":  row.ResponseType,
				"delegate_email": row.DelegateEmail,
				"delegate_name":  row.DelegateName,
				"notes":          row.Notes,
				"responded_at":   row.RespondedAt,
			})
		if result.Error != nil {
			if isCheckViolation(result.Error) {
				return domainerrors.ErrInvalidResponse
			}
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrAgendaNotFound
		}
		return tx.Model(&agendaModel{}).
			Where("agenda_id = ?", row.AgendaID).
			Updates(map[string]any{
				"status":     string(entities.StatusResponded),
				"updated_at": row.RespondedAt,
			}).
			Error
	})
}

func (r *Repository) CountAgendas(ctx context.Context, status entities.Status) (int, error) {
	tx := r.db.WithContext(ctx).Model(&agendaModel{})
	if status != "" {
		tx = tx.Where("status = ?", string(status))
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CountResponses(ctx context.Context, decision entities.Decision) (int, error) {
	tx := r.db.WithContext(ctx).Model(&responseModel{})
	if decision != "" {
		tx = tx.Where("response_type = ?", string(decision))
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return sqliteConstraint(err, "UNIQUE")
}

func isForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23503"
	}
	return sqliteConstraint(err, "FOREIGN KEY")
}

func isCheckViolation(err error) bool {
	if errors.Is(err, gorm.ErrCheckConstraintViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23514"
	}
	return sqliteConstraint(err, "CHECK")
}

// sqliteConstraint matches SQLite constraint errors that gorm leaves
// untranslated, such as RESTRICT actions on delete.
func sqliteConstraint(err error, kind string) bool {
	return strings.Contains(err.Error(), kind+" constraint failed")
}
