// File: internal/pet/service.go
package pet

import (
	"context"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for pet business logic.
type Service interface {
	CreatePet(ctx context.Context, ownerID uuid.UUID, req CreatePetRequest) (*Pet, error)
	GetPetByID(ctx context.Context, id uuid.UUID) (*Pet, error)
	UpdatePet(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req UpdatePetRequest) (*Pet, error)
	SearchPets(ctx context.Context, query SearchQuery, page, pageSize int) ([]Pet, *common.Pagination, error)
	GetPetsByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Pet, *common.Pagination, error)
	DeletePet(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error
}

// ServiceImplementation implements the pet Service interface.
type ServiceImplementation struct {
	repo   Repository
	logger *zap.Logger
}

// NewService creates a new pet service.
func NewService(repo Repository, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:   repo,
		logger: logger.Named("pet-service"),
	}
}

var _ Service = (*ServiceImplementation)(nil)

// CreatePet registers a new pet for the owner.
func (s *ServiceImplementation) CreatePet(ctx context.Context, ownerID uuid.UUID, req CreatePetRequest) (*Pet, error) {
	p := &Pet{
		OwnerID:     ownerID,
		Name:        req.Name,
		Type:        req.Type,
		Breed:       req.Breed,
		Gender:      req.Gender,
		Age:         req.Age,
		Color:       req.Color,
		Size:        req.Size,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Pet registered",
		zap.String("petID", p.ID.String()),
		zap.String("ownerID", ownerID.String()),
		zap.String("type", p.Type))
	return p, nil
}

// GetPetByID returns a single pet.
func (s *ServiceImplementation) GetPetByID(ctx context.Context, id uuid.UUID) (*Pet, error) {
	return s.repo.FindByID(ctx, id)
}

// UpdatePet applies partial changes. Only the owner or an admin may update.
func (s *ServiceImplementation) UpdatePet(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req UpdatePetRequest) (*Pet, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID && actorRole != shared.RoleAdmin {
		return nil, common.ErrForbidden.WithDetails("Only the owner or an admin can update this pet.")
	}

	if req.Name != nil {
		p.Name = *req.Name
	}
	if req.Breed != nil {
		p.Breed = req.Breed
	}
	if req.Gender != nil {
		p.Gender = *req.Gender
	}
	if req.Age != nil {
		p.Age = req.Age
	}
	if req.Color != nil {
		p.Color = req.Color
	}
	if req.Size != nil {
		p.Size = req.Size
	}
	if req.Description != nil {
		p.Description = req.Description
	}
	if req.ImageURL != nil {
		p.ImageURL = req.ImageURL
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// SearchPets returns a filtered page of pets.
func (s *ServiceImplementation) SearchPets(ctx context.Context, query SearchQuery, page, pageSize int) ([]Pet, *common.Pagination, error) {
	return s.repo.Search(ctx, query, page, pageSize)
}

// GetPetsByOwner returns a page of the owner's pets.
func (s *ServiceImplementation) GetPetsByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Pet, *common.Pagination, error) {
	return s.repo.FindByOwner(ctx, ownerID, page, pageSize)
}

// DeletePet soft-deletes a pet and its dependent records. Only the owner or
// an admin may delete.
func (s *ServiceImplementation) DeletePet(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if p.OwnerID != actorID && actorRole != shared.RoleAdmin {
		return common.ErrForbidden.WithDetails("Only the owner or an admin can delete this pet.")
	}

	if err := s.repo.SoftDeleteCascade(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Pet deleted",
		zap.String("petID", id.String()),
		zap.String("actorID", actorID.String()))
	return nil
}
