// File: internal/pet/repository.go
package pet

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Repository defines the interface for pet data operations.
type Repository interface {
	Create(ctx context.Context, pet *Pet) error
	FindByID(ctx context.Context, id uuid.UUID) (*Pet, error)
	Update(ctx context.Context, pet *Pet) error
	Search(ctx context.Context, query SearchQuery, page, pageSize int) ([]Pet, *common.Pagination, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Pet, *common.Pagination, error)
	SoftDeleteCascade(ctx context.Context, id uuid.UUID) error
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM pet repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Create(ctx context.Context, pet *Pet) error {
	if err := r.db.WithContext(ctx).Create(pet).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func (r *gormRepository) FindByID(ctx context.Context, id uuid.UUID) (*Pet, error) {
	var p Pet
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Pet not found with this ID.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &p, nil
}

func (r *gormRepository) Update(ctx context.Context, pet *Pet) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&Pet{}).Where("id = ?", pet.ID).Updates(pet)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Pet not found for update.")
		}
		return nil
	})
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

// applyFilters builds the conjunctive filter set. Filter order is fixed so
// generated SQL stays stable across calls.
func applyFilters(query *gorm.DB, q SearchQuery) *gorm.DB {
	if q.Type != "" {
		query = query.Where("type = ?", q.Type)
	}
	if q.Breed != "" {
		query = query.Where("breed = ?", q.Breed)
	}
	if q.Gender != "" {
		query = query.Where("gender = ?", q.Gender)
	}
	if q.Color != "" {
		query = query.Where("color = ?", q.Color)
	}
	if q.Size != "" {
		query = query.Where("size = ?", q.Size)
	}
	if q.Term != "" {
		term := "%" + q.Term + "%"
		query = query.Where(
			"name ILIKE ? OR type ILIKE ? OR breed ILIKE ? OR color ILIKE ? OR description ILIKE ?",
			term, term, term, term, term,
		)
	}
	return query
}

func (r *gormRepository) Search(ctx context.Context, q SearchQuery, page, pageSize int) ([]Pet, *common.Pagination, error) {
	var pets []Pet
	var total int64

	base := applyFilters(r.db.WithContext(ctx).Model(&Pet{}), q)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("counting pets failed: %v", err))
	}

	pagination := common.NewPagination(total, page, pageSize)

	err := applyFilters(r.db.WithContext(ctx).Model(&Pet{}), q).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&pets).Error
	if err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("fetching pets failed: %v", err))
	}
	return pets, pagination, nil
}

func (r *gormRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Pet, *common.Pagination, error) {
	var pets []Pet
	var total int64

	if err := r.db.WithContext(ctx).Model(&Pet{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, nil, common.ErrStorage.WithDetails(err.Error())
	}

	pagination := common.NewPagination(total, page, pageSize)

	err := r.db.WithContext(ctx).Model(&Pet{}).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&pets).Error
	if err != nil {
		return nil, nil, common.ErrStorage.WithDetails(err.Error())
	}
	return pets, pagination, nil
}

// SoftDeleteCascade soft-deletes the pet together with its lost record and
// adoption listing in one transaction. The delete is refused while any
// adoption request for the pet's listing sits in screening.
func (r *gormRepository) SoftDeleteCascade(ctx context.Context, id uuid.UUID) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inScreening int64
		err := tx.Table("adoption_requests").
			Joins("JOIN adoption_listings ON adoption_listings.id = adoption_requests.listing_id").
			Where("adoption_listings.pet_id = ? AND adoption_requests.status = ?", id, "screening").
			Count(&inScreening).Error
		if err != nil {
			return err
		}
		if inScreening > 0 {
			return common.ErrConflict.WithDetails("Pet cannot be deleted while an adoption request is in screening.")
		}

		result := tx.Where("id = ?", id).Delete(&Pet{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return common.ErrNotFound.WithDetails("Pet not found for deletion.")
		}

		now := time.Now()
		if err := tx.Table("lost_records").
			Where("pet_id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", now).Error; err != nil {
			return err
		}
		if err := tx.Table("adoption_listings").
			Where("pet_id = ? AND deleted_at IS NULL", id).
			Update("deleted_at", now).Error; err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}
