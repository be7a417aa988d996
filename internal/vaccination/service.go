// File: internal/vaccination/service.go
package vaccination

import (
	"context"
	"fmt"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/pet"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for vaccination business logic.
type Service interface {
	CreateRecord(ctx context.Context, req CreateRecordRequest) (*VaccinationRecord, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*VaccinationRecord, error)
	ListRecords(ctx context.Context, query ListQuery, page, pageSize int) ([]VaccinationRecord, *common.Pagination, error)
	UpdateRecord(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (*VaccinationRecord, error)
	DeleteRecord(ctx context.Context, id uuid.UUID) error
}

// ServiceImplementation implements the vaccination Service interface.
type ServiceImplementation struct {
	repo       Repository
	petService pet.Service
	logger     *zap.Logger
}

// NewService creates a new vaccination service.
func NewService(repo Repository, petService pet.Service, logger *zap.Logger) *ServiceImplementation {
	return &ServiceImplementation{
		repo:       repo,
		petService: petService,
		logger:     logger.Named("vaccination-service"),
	}
}

var _ Service = (*ServiceImplementation)(nil)

// CreateRecord documents an administered vaccine. The pet must exist and the
// vaccine name must belong to the closed set.
func (s *ServiceImplementation) CreateRecord(ctx context.Context, req CreateRecordRequest) (*VaccinationRecord, error) {
	if !IsValidVaccineType(req.VaccineType) {
		return nil, common.NewValidationAPIError(map[string]string{
			"vaccine_type": fmt.Sprintf("Vaccine type %q is not recognized.", req.VaccineType),
		})
	}
	if _, err := s.petService.GetPetByID(ctx, req.PetID); err != nil {
		return nil, err
	}

	record := &VaccinationRecord{
		PetID:            req.PetID,
		VaccineType:      req.VaccineType,
		OwnerName:        req.OwnerName,
		Contact:          req.Contact,
		AdministeredBy:   req.AdministeredBy,
		AdministeredDate: req.AdministeredDate,
		ExpirationDate:   req.ExpirationDate,
		Notes:            req.Notes,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Vaccination recorded",
		zap.String("recordID", record.ID.String()),
		zap.String("petID", req.PetID.String()),
		zap.String("vaccine", req.VaccineType))
	return record, nil
}

// GetRecord returns a single vaccination record.
func (s *ServiceImplementation) GetRecord(ctx context.Context, id uuid.UUID) (*VaccinationRecord, error) {
	return s.repo.FindByID(ctx, id)
}

// ListRecords returns a filtered page, most recent administration first.
func (s *ServiceImplementation) ListRecords(ctx context.Context, query ListQuery, page, pageSize int) ([]VaccinationRecord, *common.Pagination, error) {
	return s.repo.List(ctx, query, page, pageSize)
}

// UpdateRecord corrects notes or expiration. Everything else on the record
// is history and stays as written.
func (s *ServiceImplementation) UpdateRecord(ctx context.Context, id uuid.UUID, req UpdateRecordRequest) (*VaccinationRecord, error) {
	record, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.ExpirationDate != nil {
		record.ExpirationDate = req.ExpirationDate
	}
	if req.Notes != nil {
		record.Notes = req.Notes
	}

	if err := s.repo.Save(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// DeleteRecord soft-deletes a vaccination record.
func (s *ServiceImplementation) DeleteRecord(ctx context.Context, id uuid.UUID) error {
	return s.repo.SoftDelete(ctx, id)
}
