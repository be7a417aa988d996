// File: internal/lostpet/service.go
package lostpet

import (
	"context"
	"fmt"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/notification"
	"pet_rescue_backend/internal/pet"
	"pet_rescue_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for lost-pet business logic.
type Service interface {
	ReportLost(ctx context.Context, req ReportLostRequest) (*LostRecord, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*LostRecord, error)
	ListRecords(ctx context.Context, query ListQuery, page, pageSize int) ([]LostRecord, *common.Pagination, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*LostRecord, error)

	AddSighting(ctx context.Context, lostRecordID, reporterID uuid.UUID, req AddSightingRequest) (*SightingReport, error)
	GetSighting(ctx context.Context, id uuid.UUID) (*SightingReport, error)
	ListSightings(ctx context.Context, lostRecordID uuid.UUID, page, pageSize int) ([]SightingReport, *common.Pagination, error)
	MarkMatched(ctx context.Context, sightingID uuid.UUID, matched bool) error
}

// ServiceImplementation implements the lost-pet Service interface.
type ServiceImplementation struct {
	repo          Repository
	petService    pet.Service
	notifications notification.Service
	userService   shared.Service
	logger        *zap.Logger
}

// NewService creates a new lost-pet service.
func NewService(
	repo Repository,
	petService pet.Service,
	notifications notification.Service,
	userService shared.Service,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:          repo,
		petService:    petService,
		notifications: notifications,
		userService:   userService,
		logger:        logger.Named("lostpet-service"),
	}
}

var _ Service = (*ServiceImplementation)(nil)

// ReportLost opens a lost record for a pet. A pet carries at most one active
// record at a time.
func (s *ServiceImplementation) ReportLost(ctx context.Context, req ReportLostRequest) (*LostRecord, error) {
	if _, err := s.petService.GetPetByID(ctx, req.PetID); err != nil {
		return nil, err
	}

	active, err := s.repo.CountActiveRecordsForPet(ctx, req.PetID)
	if err != nil {
		return nil, err
	}
	if active > 0 {
		return nil, common.ErrConflict.WithDetails("An active lost record already exists for this pet.")
	}

	record := &LostRecord{
		PetID:             req.PetID,
		LastSeenLocation:  req.LastSeenLocation,
		LastSeenDate:      req.LastSeenDate,
		AdditionalDetails: req.AdditionalDetails,
		Status:            StatusReported,
	}
	if err := s.repo.CreateRecord(ctx, record); err != nil {
		return nil, err
	}

	s.logger.Info("Lost record opened",
		zap.String("recordID", record.ID.String()),
		zap.String("petID", req.PetID.String()))
	return record, nil
}

// GetRecord returns a single lost record.
func (s *ServiceImplementation) GetRecord(ctx context.Context, id uuid.UUID) (*LostRecord, error) {
	return s.repo.FindRecordByID(ctx, id)
}

// ListRecords returns a filtered page of lost records.
func (s *ServiceImplementation) ListRecords(ctx context.Context, query ListQuery, page, pageSize int) ([]LostRecord, *common.Pagination, error) {
	return s.repo.ListRecords(ctx, query, page, pageSize)
}

// UpdateStatus moves a lost record through its lifecycle. The target must be
// in the closed status set; a RESOLVED record admits no further changes.
func (s *ServiceImplementation) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*LostRecord, error) {
	valid := false
	for _, v := range ValidStatuses {
		if status == v {
			valid = true
			break
		}
	}
	if !valid {
		return nil, common.NewValidationAPIError(map[string]string{
			"status": fmt.Sprintf("Status must be one of: %v.", ValidStatuses),
		})
	}

	record, err := s.repo.FindRecordByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == StatusResolved {
		return nil, common.ErrConflict.WithDetails("A resolved lost record can no longer change status.")
	}

	record.Status = status
	record.Pet = nil
	if err := s.repo.SaveRecord(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// AddSighting files a community sighting against a lost record and notifies
// the pet's owner. The notification is best effort.
func (s *ServiceImplementation) AddSighting(ctx context.Context, lostRecordID, reporterID uuid.UUID, req AddSightingRequest) (*SightingReport, error) {
	record, err := s.repo.FindRecordByID(ctx, lostRecordID)
	if err != nil {
		return nil, err
	}

	report := &SightingReport{
		LostRecordID: lostRecordID,
		ReporterID:   reporterID,
		Details:      req.Details,
		Location:     req.Location,
		ReportDate:   req.ReportDate,
		ImageURL:     req.ImageURL,
	}
	if err := s.repo.CreateSighting(ctx, report); err != nil {
		return nil, err
	}

	s.enqueueSightingNotification(ctx, record, report)

	s.logger.Info("Sighting reported",
		zap.String("sightingID", report.ID.String()),
		zap.String("lostRecordID", lostRecordID.String()))
	return report, nil
}

// GetSighting returns a single sighting report.
func (s *ServiceImplementation) GetSighting(ctx context.Context, id uuid.UUID) (*SightingReport, error) {
	return s.repo.FindSightingByID(ctx, id)
}

// ListSightings returns a page of sightings for a lost record.
func (s *ServiceImplementation) ListSightings(ctx context.Context, lostRecordID uuid.UUID, page, pageSize int) ([]SightingReport, *common.Pagination, error) {
	if _, err := s.repo.FindRecordByID(ctx, lostRecordID); err != nil {
		return nil, nil, err
	}
	return s.repo.ListSightings(ctx, lostRecordID, page, pageSize)
}

// MarkMatched flags a sighting as matched (or clears the flag). Idempotent.
func (s *ServiceImplementation) MarkMatched(ctx context.Context, sightingID uuid.UUID, matched bool) error {
	return s.repo.SetSightingMatched(ctx, sightingID, matched)
}

func (s *ServiceImplementation) enqueueSightingNotification(ctx context.Context, record *LostRecord, report *SightingReport) {
	payload := notification.Payload{
		"lost_record_id": record.ID.String(),
		"sighting_id":    report.ID.String(),
		"location":       report.Location,
		"details":        report.Details,
	}
	if record.Pet == nil {
		s.logger.Warn("Sighting notification: lost record has no pet loaded",
			zap.String("recordID", record.ID.String()))
		return
	}
	payload["pet_name"] = record.Pet.Name

	if reporter, err := s.userService.GetUserByID(ctx, report.ReporterID); err == nil {
		payload["reporter_email"] = reporter.Email
	}
	owner, err := s.userService.GetUserByID(ctx, record.Pet.OwnerID)
	if err != nil {
		s.logger.Warn("Sighting notification: owner lookup failed",
			zap.String("ownerID", record.Pet.OwnerID.String()), zap.Error(err))
		return
	}
	payload["owner_email"] = owner.Email

	ownerID := owner.ID
	if _, err := s.notifications.Enqueue(ctx, &ownerID, notification.SightingReported,
		fmt.Sprintf("A sighting of %s has been reported.", record.Pet.Name), payload); err != nil {
		s.logger.Error("Failed to enqueue sighting notification",
			zap.String("sightingID", report.ID.String()), zap.Error(err))
	}
}
