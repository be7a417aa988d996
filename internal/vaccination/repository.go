// File: internal/vaccination/repository.go
package vaccination

import (
	"context"
	"errors"
	"fmt"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for vaccination data operations.
type Repository interface {
	Create(ctx context.Context, record *VaccinationRecord) error
	FindByID(ctx context.Context, id uuid.UUID) (*VaccinationRecord, error)
	Save(ctx context.Context, record *VaccinationRecord) error
	List(ctx context.Context, query ListQuery, page, pageSize int) ([]VaccinationRecord, *common.Pagination, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM vaccination repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, record *VaccinationRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*VaccinationRecord, error) {
	var record VaccinationRecord
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Vaccination record not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &record, nil
}

func (r *gormRepository) Save(ctx context.Context, record *VaccinationRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func applyRecordFilters(query *gorm.DB, q ListQuery) *gorm.DB {
	if q.PetID != nil {
		query = query.Where("pet_id = ?", *q.PetID)
	}
	if q.VaccineType != "" {
		query = query.Where("vaccine_type = ?", q.VaccineType)
	}
	return query
}

func (r *gormRepository) List(ctx context.Context, q ListQuery, page, pageSize int) ([]VaccinationRecord, *common.Pagination, error) {
	var records []VaccinationRecord
	var total int64

	base := applyRecordFilters(r.db.WithContext(ctx).Model(&VaccinationRecord{}), q)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("counting vaccination records failed: %v", err))
	}

	pagination := common.NewPagination(total, page, pageSize)

	err := applyRecordFilters(r.db.WithContext(ctx).Model(&VaccinationRecord{}), q).
		Order("administered_date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&records).Error
	if err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("fetching vaccination records failed: %v", err))
	}
	return records, pagination, nil
}

func (r *gormRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&VaccinationRecord{})
	if result.Error != nil {
		return common.ErrStorage.WithDetails(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Vaccination record not found for deletion.")
	}
	return nil
}
