// File: internal/adoption/repository.go
package adoption

import (
	"context"
	"errors"
	"fmt"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository defines the interface for adoption data operations.
// Transaction runs fn against a repository bound to one database
// transaction; the ForUpdate variants take row locks and are only meaningful
// inside such a transaction.
type Repository interface {
	Transaction(ctx context.Context, fn func(r Repository) error) error

	CreateListing(ctx context.Context, listing *AdoptionListing) error
	FindListingByID(ctx context.Context, id uuid.UUID) (*AdoptionListing, error)
	FindListingByIDForUpdate(ctx context.Context, id uuid.UUID) (*AdoptionListing, error)
	SaveListing(ctx context.Context, listing *AdoptionListing) error
	UpdateListingStatus(ctx context.Context, id uuid.UUID, status string) error
	SearchListings(ctx context.Context, query ListingSearchQuery, page, pageSize int) ([]AdoptionListing, *common.Pagination, error)
	CreateViewEvent(ctx context.Context, event *ListingViewEvent) error
	CountViews(ctx context.Context, listingID uuid.UUID) (int64, error)

	CreateRequest(ctx context.Context, request *AdoptionRequest) error
	FindRequestByID(ctx context.Context, id uuid.UUID) (*AdoptionRequest, error)
	FindRequestByIDForUpdate(ctx context.Context, id uuid.UUID) (*AdoptionRequest, error)
	SaveRequest(ctx context.Context, request *AdoptionRequest) error
	ListRequests(ctx context.Context, query RequestListQuery, page, pageSize int) ([]AdoptionRequest, *common.Pagination, error)
	CountOpenRequestsForListing(ctx context.Context, listingID uuid.UUID, excludeRequestID uuid.UUID) (int64, error)
}

type gormRepository struct {
	db *gorm.DB
}

// NewGORMRepository creates a new GORM adoption repository.
func NewGORMRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// Transaction executes fn inside one database transaction. The repository
// handed to fn shares that transaction, so its ForUpdate reads hold their
// locks until commit or rollback.
func (r *gormRepository) Transaction(ctx context.Context, fn func(repo Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepository{db: tx})
	})
}

// CreateListing inserts a listing after verifying no other active listing
// exists for the pet. Active means AVAILABLE or PENDING.
func (r *gormRepository) CreateListing(ctx context.Context, listing *AdoptionListing) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var active int64
		err := tx.Model(&AdoptionListing{}).
			Where("pet_id = ? AND status IN ?", listing.PetID, []string{ListingStatusAvailable, ListingStatusPending}).
			Count(&active).Error
		if err != nil {
			return err
		}
		if active > 0 {
			return common.ErrConflict.WithDetails("An active adoption listing already exists for this pet.")
		}
		return tx.Create(listing).Error
	})
	if err != nil {
		if _, ok := common.IsAPIError(err); ok {
			return err
		}
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func (r *gormRepository) FindListingByID(ctx context.Context, id uuid.UUID) (*AdoptionListing, error) {
	var listing AdoptionListing
	err := r.db.WithContext(ctx).Preload("Pet").Where("id = ?", id).First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Adoption listing not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &listing, nil
}

// FindListingByIDForUpdate loads the listing row under SELECT ... FOR UPDATE.
// No preloads; association rows must not be locked along with it.
func (r *gormRepository) FindListingByIDForUpdate(ctx context.Context, id uuid.UUID) (*AdoptionListing, error) {
	var listing AdoptionListing
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&listing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Adoption listing not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &listing, nil
}

func (r *gormRepository) SaveListing(ctx context.Context, listing *AdoptionListing) error {
	if err := r.db.WithContext(ctx).Save(listing).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

// UpdateListingStatus overwrites the listing status.
func (r *gormRepository) UpdateListingStatus(ctx context.Context, id uuid.UUID, status string) error {
	result := r.db.WithContext(ctx).Model(&AdoptionListing{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"status": status})
	if result.Error != nil {
		return common.ErrStorage.WithDetails(result.Error.Error())
	}
	if result.RowsAffected == 0 {
		return common.ErrNotFound.WithDetails("Adoption listing not found for status update.")
	}
	return nil
}

func applyListingFilters(query *gorm.DB, q ListingSearchQuery) *gorm.DB {
	if q.Status != "" {
		query = query.Where("adoption_listings.status = ?", q.Status)
	}
	needsPetJoin := q.Type != "" || q.Breed != "" || q.Gender != "" || q.Color != "" || q.Size != ""
	if needsPetJoin {
		query = query.Joins("JOIN pets ON pets.id = adoption_listings.pet_id AND pets.deleted_at IS NULL")
		if q.Type != "" {
			query = query.Where("pets.type = ?", q.Type)
		}
		if q.Breed != "" {
			query = query.Where("pets.breed = ?", q.Breed)
		}
		if q.Gender != "" {
			query = query.Where("pets.gender = ?", q.Gender)
		}
		if q.Color != "" {
			query = query.Where("pets.color = ?", q.Color)
		}
		if q.Size != "" {
			query = query.Where("pets.size = ?", q.Size)
		}
	}
	return query
}

func (r *gormRepository) SearchListings(ctx context.Context, q ListingSearchQuery, page, pageSize int) ([]AdoptionListing, *common.Pagination, error) {
	var listings []AdoptionListing
	var total int64

	base := applyListingFilters(r.db.WithContext(ctx).Model(&AdoptionListing{}), q)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("counting listings failed: %v", err))
	}

	pagination := common.NewPagination(total, page, pageSize)

	// Insertion order keeps pages stable while new listings arrive.
	err := applyListingFilters(r.db.WithContext(ctx).Model(&AdoptionListing{}), q).
		Preload("Pet").
		Order("adoption_listings.created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&listings).Error
	if err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("fetching listings failed: %v", err))
	}
	return listings, pagination, nil
}

// CreateViewEvent appends one row to the view log.
func (r *gormRepository) CreateViewEvent(ctx context.Context, event *ListingViewEvent) error {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

// CountViews returns the number of view events for a listing.
func (r *gormRepository) CountViews(ctx context.Context, listingID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&ListingViewEvent{}).
		Where("listing_id = ?", listingID).
		Count(&count).Error
	if err != nil {
		return 0, common.ErrStorage.WithDetails(err.Error())
	}
	return count, nil
}

func (r *gormRepository) CreateRequest(ctx context.Context, request *AdoptionRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func (r *gormRepository) FindRequestByID(ctx context.Context, id uuid.UUID) (*AdoptionRequest, error) {
	var request AdoptionRequest
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Adoption request not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &request, nil
}

// FindRequestByIDForUpdate loads the request row under SELECT ... FOR UPDATE.
func (r *gormRepository) FindRequestByIDForUpdate(ctx context.Context, id uuid.UUID) (*AdoptionRequest, error) {
	var request AdoptionRequest
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.ErrNotFound.WithDetails("Adoption request not found.")
		}
		return nil, common.ErrStorage.WithDetails(err.Error())
	}
	return &request, nil
}

func (r *gormRepository) SaveRequest(ctx context.Context, request *AdoptionRequest) error {
	if err := r.db.WithContext(ctx).Save(request).Error; err != nil {
		return common.ErrStorage.WithDetails(err.Error())
	}
	return nil
}

func applyRequestFilters(query *gorm.DB, q RequestListQuery) *gorm.DB {
	if q.Status != "" {
		query = query.Where("status = ?", q.Status)
	}
	if q.ListingID != nil {
		query = query.Where("listing_id = ?", *q.ListingID)
	}
	if q.AdopterID != nil {
		query = query.Where("adopter_id = ?", *q.AdopterID)
	}
	return query
}

// ListRequests returns requests ordered oldest first, so the first-submitted
// pending request is always first in its listing's queue.
func (r *gormRepository) ListRequests(ctx context.Context, q RequestListQuery, page, pageSize int) ([]AdoptionRequest, *common.Pagination, error) {
	var requests []AdoptionRequest
	var total int64

	base := applyRequestFilters(r.db.WithContext(ctx).Model(&AdoptionRequest{}), q)
	if err := base.Count(&total).Error; err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("counting adoption requests failed: %v", err))
	}

	pagination := common.NewPagination(total, page, pageSize)

	err := applyRequestFilters(r.db.WithContext(ctx).Model(&AdoptionRequest{}), q).
		Order("created_at ASC").
		Limit(pageSize).
		Offset((page - 1) * pageSize).
		Find(&requests).Error
	if err != nil {
		return nil, nil, common.ErrStorage.WithDetails(fmt.Sprintf("fetching adoption requests failed: %v", err))
	}
	return requests, pagination, nil
}

// CountOpenRequestsForListing counts requests still in pending or screening
// for a listing, excluding one request (the one being transitioned).
func (r *gormRepository) CountOpenRequestsForListing(ctx context.Context, listingID uuid.UUID, excludeRequestID uuid.UUID) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&AdoptionRequest{}).
		Where("listing_id = ? AND status IN ?", listingID, []string{RequestStatusPending, RequestStatusScreening})
	if excludeRequestID != uuid.Nil {
		query = query.Where("id <> ?", excludeRequestID)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, common.ErrStorage.WithDetails(err.Error())
	}
	return count, nil
}
