package postgresadapter

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	domainerrors "phonedeck/contexts/identity-access/identity-service/domain/errors"
	"phonedeck/contexts/identity-access/identity-service/ports"

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

func (r *Repository) CreateUser(ctx context.Context, user ports.User) (ports.User, error) {
	row := userModelFromPort(user)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		if isUniqueViolation(err) {
			return ports.User{}, domainerrors.ErrEmailAlreadyRegistered
		}
		return ports.User{}, err
	}
	return row.toPort(), nil
}

func (r *Repository) GetUser(ctx context.Context, email string) (ports.User, bool, error) {
	var row userModel
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		First(&row).
		Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.User{}, false, nil
		}
		return ports.User{}, false, err
	}
	return row.toPort(), true, nil
}

func (r *Repository) ListSellers(ctx context.Context) ([]ports.User, error) {
	var rows []userModel
	if err := r.db.WithContext(ctx).
		Where("role = ?", ports.RoleSeller).
		Order("email ASC").
		Find(&rows).
		Error; err != nil {
		return nil, err
	}
	items := make([]ports.User, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.toPort())
	}
	return items, nil
}

func (r *Repository) SetRole(ctx context.Context, email string, role string, now time.Time) (ports.User, error) {
	key := strings.ToLower(email)
	var out ports.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row userModel
		if err := tx.Where("email = ?", key).First(&row).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domainerrors.ErrUserNotFound
			}
			return err
		}
		if row.Role != ports.RoleNone {
			return domainerrors.ErrRoleAlreadyAssigned
		}
		result := tx.Model(&userModel{}).
			Where("email = ? AND role = ?", key, ports.RoleNone).
			Updates(map[string]any{
				"role":       role,
				"updated_at": now.UTC(),
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domainerrors.ErrRoleAlreadyAssigned
		}
		row.Role = role
		row.UpdatedAt = now.UTC()
		out = row.toPort()
		return nil
	})
	if err != nil {
		return ports.User{}, err
	}
	return out, nil
}

func (r *Repository) SetStatusAdmin(ctx context.Context, email string, now time.Time) (ports.User, error) {
	key := strings.ToLower(email)
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("email = ?", key).
		Updates(map[string]any{
			"status":     ports.StatusAdmin,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return ports.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		return ports.User{}, domainerrors.ErrUserNotFound
	}
	user, _, err := r.GetUser(ctx, key)
	return user, err
}

func (r *Repository) SetVerified(ctx context.Context, email string, now time.Time) (ports.User, error) {
	key := strings.ToLower(email)
	result := r.db.WithContext(ctx).
		Model(&userModel{}).
		Where("email = ? AND role = ?", key, ports.RoleSeller).
		Updates(map[string]any{
			"verified":   true,
			"updated_at": now.UTC(),
		})
	if result.Error != nil {
		return ports.User{}, result.Error
	}
	if result.RowsAffected == 0 {
		_, found, err := r.GetUser(ctx, key)
		if err != nil {
			return ports.User{}, err
		}
		if !found {
			return ports.User{}, domainerrors.ErrUserNotFound
		}
		return ports.User{}, domainerrors.ErrNotSeller
	}
	user, _, err := r.GetUser(ctx, key)
	return user, err
}

func (r *Repository) DeleteUser(ctx context.Context, email string) error {
	result := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(email)).
		Delete(&userModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrUserNotFound
	}
	return nil
}

type userModel struct {
	Email     string    `gorm:"column:email;primaryKey"`
	Name      string    `gorm:"column:name"`
	Role      string    `gorm:"column:role"`
	Status    string    `gorm:"column:status"`
	Verified  bool      `gorm:"column:verified"`
	CreatedAt time.Time `gorm:"column:created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at"`
}

func (userModel) TableName() string {
	return "users"
}

func userModelFromPort(user ports.User) userModel {
	return userModel{
		Email:     strings.ToLower(user.Email),
		Name:      user.Name,
		Role:      user.Role,
		Status:    user.Status,
		Verified:  user.Verified,
		CreatedAt: user.CreatedAt.UTC(),
		UpdatedAt: user.UpdatedAt.UTC(),
	}
}

func (m userModel) toPort() ports.User {
	return ports.User{
		Email:     m.Email,
		Name:      m.Name,
		Role:      m.Role,
		Status:    m.Status,
		Verified:  m.Verified,
		CreatedAt: m.CreatedAt.UTC(),
		UpdatedAt: m.UpdatedAt.UTC(),
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
