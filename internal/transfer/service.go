// File: internal/transfer/service.go
package transfer

import (
	"context"
	"fmt"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/notification"
	"pet_rescue_backend/internal/shared"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service defines the interface for transfer business logic.
type Service interface {
	CreateTransfer(ctx context.Context, userID uuid.UUID, req CreateTransferRequest) (*Transfer, error)
	GetTransfer(ctx context.Context, id uuid.UUID) (*Transfer, error)
	ListTransfers(ctx context.Context, query ListQuery, page, pageSize int) ([]Transfer, *common.Pagination, error)
	UpdateTransfer(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req UpdateTransferRequest) (*Transfer, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target string) (*Transfer, error)
	DeleteTransfer(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error
}

// ServiceImplementation implements the transfer Service interface.
type ServiceImplementation struct {
	repo          Repository
	notifications notification.Service
	userService   shared.Service
	logger        *zap.Logger
}

// NewService creates a new transfer service.
func NewService(
	repo Repository,
	notifications notification.Service,
	userService shared.Service,
	logger *zap.Logger,
) *ServiceImplementation {
	return &ServiceImplementation{
		repo:          repo,
		notifications: notifications,
		userService:   userService,
		logger:        logger.Named("transfer-service"),
	}
}

var _ Service = (*ServiceImplementation)(nil)

// CreateTransfer files a new coordination request in PENDING.
func (s *ServiceImplementation) CreateTransfer(ctx context.Context, userID uuid.UUID, req CreateTransferRequest) (*Transfer, error) {
	t := &Transfer{
		UserID:          userID,
		BarangayName:    req.BarangayName,
		Address:         req.Address,
		PetType:         req.PetType,
		RequestDatetime: req.RequestDatetime,
		Status:          StatusPending,
	}
	if err := s.repo.Create(ctx, t); err != nil {
		return nil, err
	}
	s.logger.Info("Transfer created",
		zap.String("transferID", t.ID.String()),
		zap.String("userID", userID.String()))
	return t, nil
}

// GetTransfer returns a single transfer.
func (s *ServiceImplementation) GetTransfer(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	return s.repo.FindByID(ctx, id)
}

// ListTransfers returns a filtered page, most recent request first.
func (s *ServiceImplementation) ListTransfers(ctx context.Context, query ListQuery, page, pageSize int) ([]Transfer, *common.Pagination, error) {
	return s.repo.List(ctx, query, page, pageSize)
}

// UpdateTransfer applies detail changes. Only the requester or an admin may
// edit, and not once the transfer is terminal.
func (s *ServiceImplementation) UpdateTransfer(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req UpdateTransferRequest) (*Transfer, error) {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.UserID != actorID && actorRole != shared.RoleAdmin {
		return nil, common.ErrForbidden.WithDetails("Only the requester or an admin can update this transfer.")
	}
	if t.IsTerminal() {
		return nil, common.ErrConflict.WithDetails(
			fmt.Sprintf("Transfer is %s and can no longer be edited.", t.Status))
	}

	if req.BarangayName != nil {
		t.BarangayName = *req.BarangayName
	}
	if req.Address != nil {
		t.Address = *req.Address
	}
	if req.PetType != nil {
		t.PetType = *req.PetType
	}
	if req.RequestDatetime != nil {
		t.RequestDatetime = *req.RequestDatetime
	}

	if err := s.repo.Save(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateStatus moves a transfer one step through the coordination lifecycle.
// Unknown targets are a validation failure regardless of the current state;
// terminal sources and skipped steps are conflicts.
func (s *ServiceImplementation) UpdateStatus(ctx context.Context, id uuid.UUID, target string) (*Transfer, error) {
	if _, known := knownStatuses[target]; !known {
		return nil, common.NewValidationAPIError(map[string]string{
			"status": fmt.Sprintf("Unknown transfer status %q.", target),
		})
	}

	var result *Transfer
	err := s.repo.Transaction(ctx, func(txRepo Repository) error {
		t, err := txRepo.FindByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}

		if t.IsTerminal() {
			return common.ErrConflict.WithDetails(
				fmt.Sprintf("Transfer is already %s; terminal states cannot change.", t.Status))
		}

		allowed := false
		for _, next := range allowedTransitions[t.Status] {
			if next == target {
				allowed = true
				break
			}
		}
		if !allowed {
			return common.ErrConflict.WithDetails(
				fmt.Sprintf("Transfer cannot move from %s to %s.", t.Status, target))
		}

		t.Status = target
		if err := txRepo.Save(ctx, t); err != nil {
			return err
		}
		result = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.enqueueStatusNotification(ctx, result)

	s.logger.Info("Transfer status updated",
		zap.String("transferID", result.ID.String()),
		zap.String("status", result.Status))
	return result, nil
}

// DeleteTransfer soft-deletes a transfer. Requester or admin only.
func (s *ServiceImplementation) DeleteTransfer(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	t, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if t.UserID != actorID && actorRole != shared.RoleAdmin {
		return common.ErrForbidden.WithDetails("Only the requester or an admin can delete this transfer.")
	}
	return s.repo.SoftDelete(ctx, id)
}

// enqueueStatusNotification is best effort; failures are logged and the
// transition stands.
func (s *ServiceImplementation) enqueueStatusNotification(ctx context.Context, t *Transfer) {
	payload := notification.Payload{
		"transfer_id":   t.ID.String(),
		"barangay_name": t.BarangayName,
		"pet_type":      t.PetType,
		"status":        t.Status,
		"request_date":  t.RequestDatetime.Format(RequestDisplayLayout),
	}
	if requester, err := s.userService.GetUserByID(ctx, t.UserID); err != nil {
		s.logger.Warn("Transfer notification: requester lookup failed",
			zap.String("userID", t.UserID.String()), zap.Error(err))
	} else {
		payload["email"] = requester.Email
	}

	userID := t.UserID
	if _, err := s.notifications.Enqueue(ctx, &userID, notification.TransferStatusChanged,
		fmt.Sprintf("Your transfer request is now %s.", t.Status), payload); err != nil {
		s.logger.Error("Failed to enqueue transfer notification",
			zap.String("transferID", t.ID.String()), zap.Error(err))
	}
}
