package repository

import (
	"context"

	"github.com/crewhub/accounts/internal/model"
	ctxutil "github.com/crewhub/accounts/pkg/context"
	"github.com/crewhub/accounts/pkg/logger"
	"gorm.io/gorm"
)

// EventRepository stores the append-only auth audit trail
type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) Create(ctx context.Context, event *model.AuthEvent) error {
	ctx = ctxutil.WithOperation(ctx, "repository", "Create")

	result := r.db.WithContext(ctx).Create(event)
	if result.Error != nil {
		logger.WarnWithContext(ctx, "Failed to record auth event").
			Uint("user_id", event.UserID).
			String("action", event.Action).
			Err(result.Error).
			Log()
		return result.Error
	}

	return nil
}

func (r *EventRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]model.AuthEvent, error) {
	ctx = ctxutil.WithOperation(ctx, "repository", "ListByUser")

	var events []model.AuthEvent
	result := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		logger.ErrorWithContext(ctx, "Failed to list auth events").
			Uint("user_id", userID).
			Err(result.Error).
			Log()
		return nil, result.Error
	}

	return events, nil
}
