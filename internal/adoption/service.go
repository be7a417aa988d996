// File: internal/adoption/service.go
package adoption

import (
	"context"
	"fmt"
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/notification"
	"pet_rescue_backend/internal/pet"
	"pet_rescue_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for adoption business logic.
type Service interface {
	CreateListing(ctx context.Context, req CreateListingRequest) (*AdoptionListing, error)
	GetListing(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID, recordView bool) (*AdoptionListing, error)
	UpdateListing(ctx context.Context, id uuid.UUID, req UpdateListingRequest) (*AdoptionListing, error)
	SetListingStatus(ctx context.Context, id uuid.UUID, status string) error
	SearchListings(ctx context.Context, query ListingSearchQuery, page, pageSize int) ([]AdoptionListing, *common.Pagination, error)

	SubmitRequest(ctx context.Context, adopterID uuid.UUID, req SubmitRequestRequest) (*AdoptionRequest, error)
	GetRequest(ctx context.Context, id uuid.UUID) (*AdoptionRequest, error)
	UpdateRequestStatus(ctx context.Context, id uuid.UUID, req UpdateRequestStatusRequest) (*AdoptionRequest, error)
	ListRequests(ctx context.Context, query RequestListQuery, page, pageSize int) ([]AdoptionRequest, *common.Pagination, error)
}

// ServiceImplementation implements the adoption Service interface.
type ServiceImplementation struct {
	repo          Repository
	petService    pet.Service
	notifications notification.Service
	userService   shared.Service
	logger        *zap.Logger
}

// NewService creates a new adoption service.
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
		logger:        logger.Named("adoption-service"),
	}
}

var _ Service = (*ServiceImplementation)(nil)

// CreateListing publishes a pet for adoption. The pet must exist and may only
// carry one active listing at a time.
func (s *ServiceImplementation) CreateListing(ctx context.Context, req CreateListingRequest) (*AdoptionListing, error) {
	if _, err := s.petService.GetPetByID(ctx, req.PetID); err != nil {
		return nil, err
	}

	listing := &AdoptionListing{
		PetID:             req.PetID,
		FoundIn:           req.FoundIn,
		AdditionalDetails: req.AdditionalDetails,
		Media:             req.Media,
		IsVaccinated:      req.IsVaccinated,
		IsNeutered:        req.IsNeutered,
		Status:            ListingStatusAvailable,
	}
	if err := s.repo.CreateListing(ctx, listing); err != nil {
		return nil, err
	}

	s.logger.Info("Adoption listing created",
		zap.String("listingID", listing.ID.String()),
		zap.String("petID", req.PetID.String()))
	return listing, nil
}

// GetListing returns a listing with its pet and computed view count. When
// recordView is set, one view event is appended first, so the returned count
// includes the caller's own view.
func (s *ServiceImplementation) GetListing(ctx context.Context, id uuid.UUID, viewerID *uuid.UUID, recordView bool) (*AdoptionListing, error) {
	listing, err := s.repo.FindListingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if recordView {
		event := &ListingViewEvent{ListingID: id, ViewerID: viewerID}
		if err := s.repo.CreateViewEvent(ctx, event); err != nil {
			// A lost view event must not hide the listing.
			s.logger.Warn("Failed to record listing view", zap.String("listingID", id.String()), zap.Error(err))
		}
	}

	count, err := s.repo.CountViews(ctx, id)
	if err != nil {
		return nil, err
	}
	listing.ViewCount = count
	return listing, nil
}

// UpdateListing applies partial detail changes. Status never moves here.
func (s *ServiceImplementation) UpdateListing(ctx context.Context, id uuid.UUID, req UpdateListingRequest) (*AdoptionListing, error) {
	listing, err := s.repo.FindListingByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FoundIn != nil {
		listing.FoundIn = *req.FoundIn
	}
	if req.AdditionalDetails != nil {
		listing.AdditionalDetails = req.AdditionalDetails
	}
	if req.Media != nil {
		listing.Media = req.Media
	}
	if req.IsVaccinated != nil {
		listing.IsVaccinated = *req.IsVaccinated
	}
	if req.IsNeutered != nil {
		listing.IsNeutered = *req.IsNeutered
	}

	// Save with the association detached so GORM does not upsert the pet row.
	listing.Pet = nil
	if err := s.repo.SaveListing(ctx, listing); err != nil {
		return nil, err
	}
	return listing, nil
}

// SetListingStatus is the administrative override. The target must belong to
// the closed status set; no workflow rules apply beyond that.
func (s *ServiceImplementation) SetListingStatus(ctx context.Context, id uuid.UUID, status string) error {
	if !isValidListingStatus(status) {
		return common.NewValidationAPIError(map[string]string{
			"status": fmt.Sprintf("Status must be one of: %v.", ValidListingStatuses),
		})
	}
	if err := s.repo.UpdateListingStatus(ctx, id, status); err != nil {
		return err
	}
	s.logger.Info("Listing status overridden",
		zap.String("listingID", id.String()),
		zap.String("status", status))
	return nil
}

// SearchListings returns a filtered page of listings with view counts.
// Without an explicit status filter only AVAILABLE listings are returned.
func (s *ServiceImplementation) SearchListings(ctx context.Context, query ListingSearchQuery, page, pageSize int) ([]AdoptionListing, *common.Pagination, error) {
	if query.Status == "" {
		query.Status = ListingStatusAvailable
	} else if !isValidListingStatus(query.Status) {
		return nil, nil, common.NewValidationAPIError(map[string]string{
			"status": fmt.Sprintf("Status must be one of: %v.", ValidListingStatuses),
		})
	}
	listings, pagination, err := s.repo.SearchListings(ctx, query, page, pageSize)
	if err != nil {
		return nil, nil, err
	}
	for i := range listings {
		count, err := s.repo.CountViews(ctx, listings[i].ID)
		if err != nil {
			return nil, nil, err
		}
		listings[i].ViewCount = count
	}
	return listings, pagination, nil
}

// SubmitRequest files a new adoption request. The listing must be AVAILABLE;
// anything else is a Conflict. The listing row is locked so a concurrent
// approval cannot race the check.
func (s *ServiceImplementation) SubmitRequest(ctx context.Context, adopterID uuid.UUID, req SubmitRequestRequest) (*AdoptionRequest, error) {
	request := &AdoptionRequest{
		ListingID: req.ListingID,
		AdopterID: adopterID,
		Notes:     req.Notes,
		Status:    RequestStatusPending,
	}

	err := s.repo.Transaction(ctx, func(txRepo Repository) error {
		listing, err := txRepo.FindListingByIDForUpdate(ctx, req.ListingID)
		if err != nil {
			return err
		}
		if listing.Status != ListingStatusAvailable {
			return common.ErrConflict.WithDetails(
				fmt.Sprintf("Listing is not accepting requests (status %s).", listing.Status))
		}
		return txRepo.CreateRequest(ctx, request)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Adoption request submitted",
		zap.String("requestID", request.ID.String()),
		zap.String("listingID", req.ListingID.String()),
		zap.String("adopterID", adopterID.String()))
	return request, nil
}

// GetRequest returns a single adoption request.
func (s *ServiceImplementation) GetRequest(ctx context.Context, id uuid.UUID) (*AdoptionRequest, error) {
	return s.repo.FindRequestByID(ctx, id)
}

// ListRequests returns a filtered page of adoption requests, oldest first.
func (s *ServiceImplementation) ListRequests(ctx context.Context, query RequestListQuery, page, pageSize int) ([]AdoptionRequest, *common.Pagination, error) {
	return s.repo.ListRequests(ctx, query, page, pageSize)
}

// UpdateRequestStatus drives the adoption workflow:
//
//	pending -> screening (schedule required, listing AVAILABLE -> PENDING)
//	screening -> approved (approver and adoption date required, listing -> ADOPTED)
//	pending|screening -> rejected (listing reverts AVAILABLE when no open requests remain)
//
// approved and rejected are terminal; pending is never a valid target. The
// whole transition runs in one transaction with the request row (and the
// listing row when it is touched) locked.
func (s *ServiceImplementation) UpdateRequestStatus(ctx context.Context, id uuid.UUID, req UpdateRequestStatusRequest) (*AdoptionRequest, error) {
	var result *AdoptionRequest
	var screeningListingID uuid.UUID

	err := s.repo.Transaction(ctx, func(txRepo Repository) error {
		request, err := txRepo.FindRequestByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if request.Status == RequestStatusApproved || request.Status == RequestStatusRejected {
			return common.ErrConflict.WithDetails(
				fmt.Sprintf("Request is already %s; terminal states cannot change.", request.Status))
		}

		switch req.Status {
		case RequestStatusScreening:
			if request.Status != RequestStatusPending {
				return common.ErrConflict.WithDetails("Only a pending request can move to screening.")
			}
			if req.Schedule == nil || !req.Schedule.After(time.Now()) {
				return common.NewValidationAPIError(map[string]string{
					"schedule": "A future screening schedule is required.",
				})
			}
			request.Status = RequestStatusScreening
			request.Schedule = req.Schedule
			if err := txRepo.SaveRequest(ctx, request); err != nil {
				return err
			}

			listing, err := txRepo.FindListingByIDForUpdate(ctx, request.ListingID)
			if err != nil {
				return err
			}
			if listing.Status == ListingStatusAvailable {
				if err := txRepo.UpdateListingStatus(ctx, listing.ID, ListingStatusPending); err != nil {
					return err
				}
			}
			screeningListingID = request.ListingID

		case RequestStatusApproved:
			if request.Status != RequestStatusScreening {
				return common.ErrConflict.WithDetails("A request must pass screening before approval.")
			}
			if req.ApprovedBy == nil || req.AdoptionDate == nil {
				return common.NewValidationAPIError(map[string]string{
					"approved_by":   "Approver is required.",
					"adoption_date": "Adoption date is required.",
				})
			}
			request.Status = RequestStatusApproved
			request.ApprovedBy = req.ApprovedBy
			request.AdoptionDate = req.AdoptionDate
			request.AgreementSigned = req.AgreementSigned != nil && *req.AgreementSigned
			if err := txRepo.SaveRequest(ctx, request); err != nil {
				return err
			}

			if _, err := txRepo.FindListingByIDForUpdate(ctx, request.ListingID); err != nil {
				return err
			}
			if err := txRepo.UpdateListingStatus(ctx, request.ListingID, ListingStatusAdopted); err != nil {
				return err
			}

		case RequestStatusRejected:
			request.Status = RequestStatusRejected
			if err := txRepo.SaveRequest(ctx, request); err != nil {
				return err
			}

			listing, err := txRepo.FindListingByIDForUpdate(ctx, request.ListingID)
			if err != nil {
				return err
			}
			open, err := txRepo.CountOpenRequestsForListing(ctx, request.ListingID, request.ID)
			if err != nil {
				return err
			}
			if open == 0 && listing.Status == ListingStatusPending {
				if err := txRepo.UpdateListingStatus(ctx, listing.ID, ListingStatusAvailable); err != nil {
					return err
				}
			}

		case RequestStatusPending:
			return common.ErrConflict.WithDetails("A request cannot move back to pending.")

		default:
			return common.NewValidationAPIError(map[string]string{
				"status": fmt.Sprintf("Unknown request status %q.", req.Status),
			})
		}

		result = request
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Outbox writes sit after the commit; a failed enqueue is logged and the
	// transition stands.
	switch result.Status {
	case RequestStatusScreening:
		s.enqueueScreeningNotification(ctx, result, screeningListingID)
	case RequestStatusApproved:
		s.enqueueOutcomeNotification(ctx, result, notification.AdoptionRequestApproved,
			"Your adoption request has been approved.")
	case RequestStatusRejected:
		s.enqueueOutcomeNotification(ctx, result, notification.AdoptionRequestRejected,
			"Your adoption request has been rejected.")
	}

	s.logger.Info("Adoption request transitioned",
		zap.String("requestID", result.ID.String()),
		zap.String("status", result.Status))
	return result, nil
}

// enqueueScreeningNotification bundles the listing and adopter details the
// screening appointment message needs.
func (s *ServiceImplementation) enqueueScreeningNotification(ctx context.Context, request *AdoptionRequest, listingID uuid.UUID) {
	payload := notification.Payload{}

	listing, err := s.repo.FindListingByID(ctx, listingID)
	if err != nil {
		s.logger.Warn("Screening notification: listing lookup failed",
			zap.String("listingID", listingID.String()), zap.Error(err))
	} else {
		payload["found_in"] = listing.FoundIn
		if listing.AdditionalDetails != nil {
			payload["additional_details"] = *listing.AdditionalDetails
		}
		if listing.Pet != nil {
			payload["pet_name"] = listing.Pet.Name
			if listing.Pet.ImageURL != nil {
				payload["pet_image_url"] = *listing.Pet.ImageURL
			}
		}
	}
	if request.Schedule != nil {
		payload["schedule"] = request.Schedule.Format(ScheduleDisplayLayout)
	}
	if adopter, err := s.userService.GetUserByID(ctx, request.AdopterID); err != nil {
		s.logger.Warn("Screening notification: adopter lookup failed",
			zap.String("adopterID", request.AdopterID.String()), zap.Error(err))
	} else {
		payload["email"] = adopter.Email
	}

	adopterID := request.AdopterID
	if _, err := s.notifications.Enqueue(ctx, &adopterID, notification.AdoptionScreeningScheduled,
		"A screening appointment has been scheduled for your adoption request.", payload); err != nil {
		s.logger.Error("Failed to enqueue screening notification",
			zap.String("requestID", request.ID.String()), zap.Error(err))
	}
}

func (s *ServiceImplementation) enqueueOutcomeNotification(ctx context.Context, request *AdoptionRequest, notifType notification.Type, message string) {
	adopterID := request.AdopterID
	payload := notification.Payload{
		"request_id": request.ID.String(),
		"listing_id": request.ListingID.String(),
	}
	if request.AdoptionDate != nil {
		payload["adoption_date"] = request.AdoptionDate.Format(ScheduleDisplayLayout)
	}
	if _, err := s.notifications.Enqueue(ctx, &adopterID, notifType, message, payload); err != nil {
		s.logger.Error("Failed to enqueue adoption outcome notification",
			zap.String("requestID", request.ID.String()), zap.Error(err))
	}
}

func isValidListingStatus(status string) bool {
	for _, valid := range ValidListingStatuses {
		if status == valid {
			return true
		}
	}
	return false
}
