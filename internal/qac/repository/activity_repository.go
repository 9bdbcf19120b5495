package repository

import (
	"context"

	"github.com/Expenditious/qac-system/internal/qac/entity"
	"gorm.io/gorm"
)

type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Create(ctx context.Context, log *entity.ActivityLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByTarget returns the audit events recorded against one row.
func (r *ActivityRepository) ListByTarget(ctx context.Context, table, targetID string) ([]entity.ActivityLog, error) {
	var logs []entity.ActivityLog
	err := r.db.WithContext(ctx).
		Where("target_table = ? AND target_id = ?", table, targetID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
