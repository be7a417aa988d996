// File: internal/transfer/repository.go
package transfer

import (
	"context"
	"errors"
	"fmt"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for transfer data operations.
type Repository interface {
	Transaction(ctx context.Context, fn func(r Repository) error) error
	Create(ctx context.Context, transfer *Transfer) error
	FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transfer, error)
	Save(ctx context.Context, transfer *Transfer) error
	List(ctx context.Context, query ListQuery, page, pageSize int) ([]Transfer, *common.Pagination, error)
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM transfer repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

func (r *gormRepository) Create(ctx context.Context, transfer *Transfer) error {
	if err := r.db.WithContext(ctx).Create(transfer).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	var t Transfer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Transfer not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &t, nil
}

func (r *gormRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	var t Transfer
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&t).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Transfer not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &t, nil
}

func (r *gormRepository) Save(ctx context.Context, transfer *Transfer) error {
	if err := r.db.WithContext(ctx).Save(transfer).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func applyTransferFilters(query *gorm.DB, q ListQuery) *gorm.DB {
	if q.BarangayName != "" {
		query = query.Where("barangay_name = ?", q.BarangayName)
	}
	if q.PetType != "" {
		query = query.Where("pet_type = ?", q.PetType)
	}
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.UserID != nil {
		query = query.Where("user_id = ?", *q.UserID)
	}
	return query
}

func (r *gormRepository) List(ctx context.Context, q ListQuery, page, pageSize int) ([]Transfer, *common.Pagination, error) {
	var transfers []Transfer
	var total int64

	base := applyTransferFilters(r.db.WithContext(ctx).Model(&Transfer{}), q)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("counting transfers failed: %v", err))
	}

	pagination := common.NewPagination(total, page, pageSize)

	err := applyTransferFilters(r.db.WithContext(ctx).Model(&Transfer{}), q).
		Order("request_datetime DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&transfers).Error
	if err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("fetching transfers failed: %v", err))
	}
	return transfers, pagination, nil
}

func (r *gormRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&Transfer{})
	if result.Error != nil {
		return common.ErrStorage.WithDetails(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Transfer not found for deletion.")
	}
	return nil
}
