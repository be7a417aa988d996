// File: internal/lostpet/repository.go
package lostpet

import (
	"context"
	"errors"
	"fmt"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for lost-pet data operations.
type Repository interface {
	CreateRecord(ctx context.Context, record *LostRecord) error
	FindRecordByID(ctx context.Context, id uuid.UUID) (*LostRecord, error)
	SaveRecord(ctx context.Context, record *LostRecord) error
	ListRecords(ctx context.Context, query ListQuery, page, pageSize int) ([]LostRecord, *common.Pagination, error)
	CountActiveRecordsForPet(ctx context.Context, petID uuid.UUID) (int64, error)

	CreateSighting(ctx context.Context, report *SightingReport) error
	FindSightingByID(ctx context.Context, id uuid.UUID) (*SightingReport, error)
	ListSightings(ctx context.Context, lostRecordID uuid.UUID, page, pageSize int) ([]SightingReport, *common.Pagination, error)
	SetSightingMatched(ctx context.Context, id uuid.UUID, matched bool) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM lost-pet repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) CreateRecord(ctx context.Context, record *LostRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func (r *gormRepository) FindRecordByID(ctx context.Context, id uuid.UUID) (*LostRecord, error) {
	var record LostRecord
	err := r.db.WithContext(ctx).Preload("Pet").Where("id = ?", id).First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Lost record not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &record, nil
}

func (r *gormRepository) SaveRecord(ctx context.Context, record *LostRecord) error {
	if err := r.db.WithContext(ctx).Save(record).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func applyRecordFilters(query *gorm.DB, q ListQuery) *gorm.DB {
	if q.Status != "" {
		query = query.Where("lost_records.status = ?", q.Status)
	}
	needsPetJoin := q.Type != "" || q.Breed != "" || q.Color != ""
	if needsPetJoin {
		query = query.Joins("JOIN pets ON pets.id = lost_records.pet_id AND pets.deleted_at IS NULL")
		if q.Type != "" {
			query = query.Where("pets.type = ?", q.Type)
		}
		if q.Breed != "" {
			query = query.Where("pets.breed = ?", q.Breed)
		}
		if q.Color != "" {
			query = query.Where("pets.color = ?", q.Color)
		}
	}
	return query
}

func (r *gormRepository) ListRecords(ctx context.Context, q ListQuery, page, pageSize int) ([]LostRecord, *common.Pagination, error) {
	var records []LostRecord
	var total int64

	base := applyRecordFilters(r.db.WithContext(ctx).Model(&LostRecord{}), q)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("counting lost records failed: %v", err))
	}

	pagination := common.NewPagination(total, page, pageSize)

	err := applyRecordFilters(r.db.WithContext(ctx).Model(&LostRecord{}), q).
		Preload("Pet").
		Order("lost_records.created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&records).Error
	if err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("fetching lost records failed: %v", err))
	}
	return records, pagination, nil
}

// CountActiveRecordsForPet counts the pet's lost records that are not yet
// RESOLVED.
func (r *gormRepository) CountActiveRecordsForPet(ctx context.Context, petID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&LostRecord{}).
		Where("pet_id = ? AND status <> ?", petID, StatusResolved).
		Count(&count).Error
	if err != nil {
		return 0, common.ErrStorage.WithDetails(err.Error())
	}
	return count, nil
}

func (r *gormRepository) CreateSighting(ctx context.Context, report *SightingReport) error {
	if report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(report).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func (r *gormRepository) FindSightingByID(ctx context.Context, id uuid.UUID) (*SightingReport, error) {
	var report SightingReport
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Sighting report not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &report, nil
}

func (r *gormRepository) ListSightings(ctx context.Context, lostRecordID uuid.UUID, page, pageSize int) ([]SightingReport, *common.Pagination, error) {
	var reports []SightingReport
	var total int64

	base := r.db.WithContext(ctx).Model(&SightingReport{}).Where("lost_record_id = ?", lostRecordID)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, common.ErrStorage.WithDetails(err.Error())
	}

	pagination := common.NewPagination(total, page, pageSize)

	err := r.db.WithContext(ctx).Model(&SightingReport{}).
		Where("lost_record_id = ?", lostRecordID).
		Order("report_date DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&reports).Error
	if err != nil {
		return nil, nil, common.ErrStorage.WithDetails(err.Error())
	}
	return reports, pagination, nil
}

// SetSightingMatched sets the matched flag. Setting the current value again
// is a no-op, not an error.
func (r *gormRepository) SetSightingMatched(ctx context.Context, id uuid.UUID, matched bool) error {
	result := r.db.WithContext(ctx).Model(&SightingReport{}).
		Where("id = ?", id).
		Update("is_matched", matched)
	if result.Error != nil {
		return common.ErrStorage.WithDetails(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		// Distinguish a missing row from an unchanged one.
		if _, err := r.FindSightingByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
