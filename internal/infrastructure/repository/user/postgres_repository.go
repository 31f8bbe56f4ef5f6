package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"alethiq-server/services/chat-api/internal/domain/identity"
	"alethiq-server/services/chat-api/internal/infrastructure/database/entities"
	"alethiq-server/services/chat-api/internal/infrastructure/metrics"
	"alethiq-server/services/chat-api/internal/utils/platformerrors"
)

// Repository persists user accounts.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a user repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

var _ identity.Repository = (*Repository)(nil)

// Create inserts the user record.
func (r *Repository) Create(ctx context.Context, u *identity.User) error {
	start := time.Now()
	entity := entities.NewSchemaUser(u)

	if err := r.db.WithContext(ctx).Create(entity).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeConflict,
				fmt.Sprintf("username already taken: %s", u.Username),
				err,
				"9f1e3d5c-7b9a-4d1e-8f3c-5b7d9f1e3c5a",
			)
		}
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create user",
			err,
			"2c4e6a8b-0d2f-4c6e-a8b0-d2f4c6e8a0b2",
		)
	}
	metrics.RecordDBQuery("user_create", time.Since(start).Seconds())

	u.ID = entity.ID
	u.CreatedAt = entity.CreatedAt
	u.UpdatedAt = entity.UpdatedAt
	return nil
}

// FindByUsername fetches a user by username.
func (r *Repository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	return r.findOne(ctx, "username = ?", username, username)
}

// FindByPublicID fetches a user by public ID.
func (r *Repository) FindByPublicID(ctx context.Context, publicID string) (*identity.User, error) {
	return r.findOne(ctx, "public_id = ?", publicID, publicID)
}

func (r *Repository) findOne(ctx context.Context, cond, arg, label string) (*identity.User, error) {
	start := time.Now()
	var entity entities.User
	if err := r.db.WithContext(ctx).Where(cond, arg).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("user not found: %s", label),
				nil,
				"7d9f1b3e-5c7a-4f9d-b1e3-c5a7d9f1b3e5",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to fetch user",
			err,
			"4a6c8e0d-2b4f-4a6c-8e0d-2b4f6a8c0e2d",
		)
	}
	metrics.RecordDBQuery("user_find", time.Since(start).Seconds())

	return entity.EtoD(), nil
}
