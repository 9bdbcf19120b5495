package repository

import (
	"context"
	"errors"

	"github.com/Expenditious/qac-system/internal/qac/entity"
	"gorm.io/gorm"
)

// FormRepository reads form, type and parameter definitions. Schema data is
// administrator-maintained and effectively immutable at request time, so all
// reads go straight to the database without caching.
type FormRepository struct {
	db *gorm.DB
}

func NewFormRepository(db *gorm.DB) *FormRepository {
	return &FormRepository{db: db}
}

// GetActiveForm resolves a form code. Inactive forms are treated as absent.
func (r *FormRepository) GetActiveForm(ctx context.Context, code string) (*entity.Form, error) {
	var form entity.Form
	err := r.db.WithContext(ctx).
		Where("form_code = ? AND is_active = ?", code, true).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetFormByID loads a form regardless of code, still requiring it active.
func (r *FormRepository) GetFormByID(ctx context.Context, id string) (*entity.Form, error) {
	var form entity.Form
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ?", id, true).
		First(&form).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &form, nil
}

// GetActiveType resolves a type code under a form.
func (r *FormRepository) GetActiveType(ctx context.Context, formID, code string) (*entity.InspectionType, error) {
	var typ entity.InspectionType
	err := r.db.WithContext(ctx).
		Where("form_id = ? AND type_code = ? AND is_active = ?", formID, code, true).
		First(&typ).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &typ, nil
}

// ListActiveForms returns all active forms for menu rendering.
func (r *FormRepository) ListActiveForms(ctx context.Context) ([]entity.Form, error) {
	var forms []entity.Form
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_order ASC, id ASC").
		Find(&forms).Error
	return forms, err
}

// ListActiveTypes returns the active inspection types of a form.
func (r *FormRepository) ListActiveTypes(ctx context.Context, formID string) ([]entity.InspectionType, error) {
	var types []entity.InspectionType
	err := r.db.WithContext(ctx).
		Where("form_id = ? AND is_active = ?", formID, true).
		Order("sort_order ASC, id ASC").
		Find(&types).Error
	return types, err
}

// ListParameters returns a form's active parameters, shared ones plus those
// scoped to the given type. The (sort_order, id) ordering is a contract:
// validation errors and rendering both follow it.
func (r *FormRepository) ListParameters(ctx context.Context, formID string, typeID *string) ([]entity.Parameter, error) {
	q := r.db.WithContext(ctx).
		Where("form_id = ? AND is_active = ?", formID, true)
	if typeID != nil {
		q = q.Where("type_id IS NULL OR type_id = ?", *typeID)
	} else {
		q = q.Where("type_id IS NULL")
	}

	var params []entity.Parameter
	err := q.Order("sort_order ASC, id ASC").Find(&params).Error
	return params, err
}
