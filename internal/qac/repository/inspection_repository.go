package repository

import (
	"context"
	"errors"
	"time"

	"github.com/Expenditious/qac-system/internal/qac/entity"
	"gorm.io/gorm"
)

// InspectionRepository is the sole mutator of inspection records and their
// children. Every write of a record graph happens inside one transaction:
// either the whole graph commits or nothing does.
type InspectionRepository struct {
	db *gorm.DB
}

func NewInspectionRepository(db *gorm.DB) *InspectionRepository {
	return &InspectionRepository{db: db}
}

// CreateGraph persists a new master record with its details and bottles as
// one atomic unit. Child rows get their InspectionID assigned here.
func (r *InspectionRepository) CreateGraph(ctx context.Context, master *entity.InspectionMaster, details []entity.InspectionDetail, bottles []entity.BottleInspection) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(master).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].InspectionID = master.ID
			if err := tx.Create(&details[i]).Error; err != nil {
				return err
			}
		}
		for i := range bottles {
			bottles[i].InspectionID = master.ID
			if err := tx.Create(&bottles[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReplaceGraph updates the master row, swaps the full child sets and appends
// the edit history entry, all in one transaction. Prior details and bottles
// are deleted, not merged.
func (r *InspectionRepository) ReplaceGraph(ctx context.Context, master *entity.InspectionMaster, details []entity.InspectionDetail, bottles []entity.BottleInspection, history *entity.EditHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(master).Error; err != nil {
			return err
		}
		if err := tx.Where("inspection_id = ?", master.ID).Delete(&entity.InspectionDetail{}).Error; err != nil {
			return err
		}
		if err := tx.Where("inspection_id = ?", master.ID).Delete(&entity.BottleInspection{}).Error; err != nil {
			return err
		}
		for i := range details {
			details[i].InspectionID = master.ID
			if err := tx.Create(&details[i]).Error; err != nil {
				return err
			}
		}
		for i := range bottles {
			bottles[i].InspectionID = master.ID
			if err := tx.Create(&bottles[i]).Error; err != nil {
				return err
			}
		}
		if err := tx.Create(history).Error; err != nil {
			return err
		}
		return nil
	})
}

// FindByID loads one inspection with its children in stored order.
func (r *InspectionRepository) FindByID(ctx context.Context, id string) (*entity.InspectionMaster, error) {
	var master entity.InspectionMaster
	err := r.db.WithContext(ctx).
		Preload("Form").
		Preload("Type").
		Preload("Details", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC, id ASC")
		}).
		Preload("Bottles", func(db *gorm.DB) *gorm.DB {
			return db.Order("bottle_number ASC")
		}).
		Where("id = ?", id).
		First(&master).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &master, nil
}

// InspectionListParams filters the inspection history listing.
type InspectionListParams struct {
	FormID    string
	TypeID    string
	DateFrom  string
	DateTo    string
	Inspector string
	Status    string
	Page      int
	Size      int
}

// List returns inspection masters newest first with a total count.
func (r *InspectionRepository) List(ctx context.Context, params InspectionListParams) ([]entity.InspectionMaster, int64, error) {
	query := r.db.WithContext(ctx).Model(&entity.InspectionMaster{})

	if params.FormID != "" {
		query = query.Where("form_id = ?", params.FormID)
	}
	if params.TypeID != "" {
		query = query.Where("type_id = ?", params.TypeID)
	}
	if params.DateFrom != "" {
		query = query.Where("inspection_date >= ?", params.DateFrom)
	}
	if params.DateTo != "" {
		query = query.Where("inspection_date <= ?", params.DateTo)
	}
	if params.Inspector != "" {
		query = query.Where("inspector = ?", params.Inspector)
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params.Page <= 0 {
		params.Page = 1
	}
	if params.Size <= 0 {
		params.Size = 20
	}

	var masters []entity.InspectionMaster
	err := query.
		Preload("Form").
		Preload("Type").
		Order("inspection_date DESC, inspection_time DESC").
		Offset((params.Page - 1) * params.Size).
		Limit(params.Size).
		Find(&masters).Error

	return masters, total, err
}

// CountCreatedSince counts masters created at or after the given instant,
// used for the same-day numbering sequence.
func (r *InspectionRepository) CountCreatedSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.InspectionMaster{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

// ListEditHistory returns an inspection's audit entries, newest first.
func (r *InspectionRepository) ListEditHistory(ctx context.Context, inspectionID string) ([]entity.EditHistory, error) {
	var entries []entity.EditHistory
	err := r.db.WithContext(ctx).
		Where("inspection_id = ?", inspectionID).
		Order("created_at DESC, id DESC").
		Find(&entries).Error
	return entries, err
}
