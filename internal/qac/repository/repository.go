package repository

import (
	"errors"

	"github.com/Expenditious/qac-system/internal/qac/entity"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("record not found")
)

// Repositories holds all data access objects.
type Repositories struct {
	Form       *FormRepository
	Inspection *InspectionRepository
	Activity   *ActivityRepository
	User       *UserRepository
}

// NewRepositories wires all repositories to one database handle.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Form:       NewFormRepository(db),
		Inspection: NewInspectionRepository(db),
		Activity:   NewActivityRepository(db),
		User:       NewUserRepository(db),
	}
}

// AutoMigrate creates or updates the qac_* tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Form{},
		&entity.InspectionType{},
		&entity.Parameter{},
		&entity.InspectionMaster{},
		&entity.InspectionDetail{},
		&entity.BottleInspection{},
		&entity.EditHistory{},
		&entity.ActivityLog{},
	)
}
