package service

import (
	"context"

	"github.com/Expenditious/qac-system/internal/qac/entity"
	"github.com/Expenditious/qac-system/internal/qac/repository"
	"go.uber.org/zap"
)

// Actor identifies the authenticated user a request acts as. It is passed
// explicitly into every service call; the core never reads ambient state.
type Actor struct {
	UserID   string
	Username string
	Role     string
	IP       string
}

// ActivityService writes audit trail events. A failed write must never fail
// the operation being logged, so errors are only reported to the logger.
type ActivityService struct {
	repo   *repository.ActivityRepository
	logger *zap.Logger
}

func NewActivityService(repo *repository.ActivityRepository, logger *zap.Logger) *ActivityService {
	return &ActivityService{repo: repo, logger: logger}
}

// Log records one activity event, fire and forget.
func (s *ActivityService) Log(ctx context.Context, actor Actor, action, details, targetTable, targetID string) {
	entry := &entity.ActivityLog{
		ID:          newID(),
		UserID:      actor.UserID,
		UserName:    actor.Username,
		Action:      action,
		Details:     details,
		TargetTable: targetTable,
		TargetID:    targetID,
		IP:          actor.IP,
	}
	if err := s.repo.Create(ctx, entry); err != nil {
		s.logger.Warn("activity log write failed",
			zap.String("action", action),
			zap.String("target_id", targetID),
			zap.Error(err),
		)
	}
}

// ListByTarget returns the events recorded against one row.
func (s *ActivityService) ListByTarget(ctx context.Context, table, targetID string) ([]entity.ActivityLog, error) {
	return s.repo.ListByTarget(ctx, table, targetID)
}
