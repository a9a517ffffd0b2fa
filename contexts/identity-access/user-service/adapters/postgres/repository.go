package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"rutanagenda/contexts/identity-access/user-service/domain/entities"
	domainerrors "rutanagenda/contexts/identity-access/user-service/domain/errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
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

// Migrate creates the users table. It must run before any table that
// references users.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{})
}

func (r *Repository) ListUsers(ctx context.Context) ([]entities.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) ListUsersByRole(ctx context.Context, role entities.Role) ([]entities.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Where("role = ?", string(role)).
		Order("name ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

func (r *Repository) GetUser(ctx context.Context, userID string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) GetUserByEmail(ctx context.Context, email string) (entities.User, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", entities.NormalizeEmail(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.User{}, domainerrors.ErrUserNotFound
		}
		return entities.User{}, err
	}
	return row.toEntity(), nil
}

func (r *Repository) CountUsersByRole(ctx context.Context, role entities.Role) (int, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("role = ?", string(role)).
		Count(&count).
		Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

func (r *Repository) CreateUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return domainerrors.ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *Repository) UpdateUser(ctx context.Context, user entities.User) error {
	row := userModelFromEntity(user)
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("user_id = ?", row.UserID).
		Updates(map[string]any{
			"name":          row.Name,
			"email":         row.Email,
			"password_hash": row.PasswordHash,
			"role":          row.Role,
			"seksi_name":    row.SeksiName,
			"phone_number":  row.PhoneNumber,
			"updated_at":    row.UpdatedAt,
		})
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrEmailTaken
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

func (r *Repository) DeleteUser(ctx context.Context, userID string) error {
	result := r.db.WithContext(ctx).
		Where("user_id = ?", strings.TrimSpace(userID)).
		Delete(&userModel{})
	if result.Error != nil {
		if isForeignKeyViolation(result.Error) {
			r.logger.Warn("user delete blocked by related rows",
				"event", "user_delete_fk_blocked",
				"module", "identity-access/user-service",
				"layer", "adapter",
				"user_id", userID,
			)
			return domainerrors.ErrUserHasRelatedData
		}
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

type userModel struct {
	UserID       string    `gorm:"column:user_id;primaryKey;size:36"`
	Name         string    `gorm:"column:name;not null"`
	Email        string    `gorm:"column:email;uniqueIndex:idx_users_email;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Role         string    `gorm:"column:role;not null;index;check:chk_users_role,role IN ('kepala_rutan','kepala_seksi','kepala')"`
	SeksiName    *string   `gorm:"column:seksi_name"`
	PhoneNumber  *string   `gorm:"column:phone_number"`
	CreatedAt    time.Time `gorm:"column:created_at;not null"`
	UpdatedAt    time.Time `gorm:"column:updated_at;not null"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromEntity(item entities.User) userModel {
	return userModel{
		UserID:       strings.TrimSpace(item.UserID),
		Name:         strings.TrimSpace(item.Name),
		Email:        entities.NormalizeEmail(item.Email),
		PasswordHash: item.PasswordHash,
		Role:         string(item.Role),
		SeksiName:    optionalString(item.SeksiName),
		PhoneNumber:  optionalString(item.PhoneNumber),
		CreatedAt:    item.CreatedAt.UTC(),
		UpdatedAt:    item.UpdatedAt.UTC(),
	}
}

func (m userModel) toEntity() entities.User {
	return entities.User{
		UserID:       m.UserID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		Role:         entities.Role(m.Role),
		SeksiName:    valueOrEmpty(m.SeksiName),
		PhoneNumber:  valueOrEmpty(m.PhoneNumber),
		CreatedAt:    m.CreatedAt.UTC(),
		UpdatedAt:    m.UpdatedAt.UTC(),
	}
}

func toEntities(rows []userModel) []entities.User {
	items := make([]entities.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toEntity())
	}
	return items
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

func valueOrEmpty(value *string) string {
	if value == nil {
		return ""
	}
	return *value
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

// sqliteConstraint matches SQLite constraint errors that gorm leaves
// untranslated, such as RESTRICT actions on delete.
func sqliteConstraint(err error, kind string) bool {
	return strings.Contains(err.Error(), kind+" constraint failed")
}
