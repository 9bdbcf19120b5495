package service

import (
	"github.com/Expenditious/qac-system/internal/config"
	"github.com/Expenditious/qac-system/internal/qac/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Services holds all business services.
type Services struct {
	Auth       *AuthService
	Inspection *InspectionService
	Activity   *ActivityService
	Report     *ReportService
}

// NewServices wires services to repositories and shared infrastructure.
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	activity := NewActivityService(repos.Activity, logger)
	numbering := NewNumberingService(repos.Inspection)

	return &Services{
		Auth:       NewAuthService(repos.User, rdb, cfg),
		Inspection: NewInspectionService(repos.Form, repos.Inspection, numbering, activity),
		Activity:   activity,
		Report:     NewReportService(repos.Inspection),
	}
}
