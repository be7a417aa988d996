// File: internal/transfer/model.go
package transfer

import (
	"time"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
)

// Transfer statuses. COMPLETED and CANCELLED are terminal.
const (
	StatusPending    = "PENDING"
	StatusAccepted   = "ACCEPTED"
	StatusInProgress = "IN_PROGRESS"
	StatusCompleted  = "COMPLETED"
	StatusCancelled  = "CANCELLED"
)

// allowedTransitions is the step map for transfer coordination. A missing
// source key means the status is terminal.
var allowedTransitions = map[string][]string{
	StatusPending:    {StatusAccepted, StatusCancelled},
	StatusAccepted:   {StatusInProgress, StatusCancelled},
	StatusInProgress: {StatusCompleted, StatusCancelled},
}

// knownStatuses is the closed set of status values.
var knownStatuses = map[string]struct{}{
	StatusPending:    {},
	StatusAccepted:   {},
	StatusInProgress: {},
	StatusCompleted:  {},
	StatusCancelled:  {},
}

// Pet types accepted for a transfer.
const (
	PetTypeDog = "Dog"
	PetTypeCat = "Cat"
)

// RequestDisplayLayout formats the request date for notifications.
const RequestDisplayLayout = "January 02 2006, 3:04 PM"

// Transfer represents a pet transfer coordination request.
type Transfer struct {
	common.BaseModel
	UserID          uuid.UUID `gorm:"type:uuid;not null;index"`
	BarangayName    string    `gorm:"type:varchar(255);not null;index"`
	Address         string    `gorm:"type:text;not null"`
	PetType         string    `gorm:"type:varchar(20);not null"`
	RequestDatetime time.Time `gorm:"not null;index"`
	Status          string    `gorm:"type:varchar(20);not null;default:'PENDING';index"`
}

// TableName specifies the table name for the Transfer model.
func (Transfer) TableName() string {
	return "transfer_coordinations"
}

// IsTerminal reports whether the transfer's status admits no further
// transitions.
func (t *Transfer) IsTerminal() bool {
	_, ok := allowedTransitions[t.Status]
	return !ok
}

// --- DTOs ---

// CreateTransferRequest defines the structure for creating a transfer.
type CreateTransferRequest struct {
	BarangayName    string    `json:"barangay_name" binding:"required,max=255"`
	Address         string    `json:"address" binding:"required"`
	PetType         string    `json:"pet_type" binding:"required,oneof=Dog Cat"`
	RequestDatetime time.Time `json:"request_datetime" binding:"required"`
}

// UpdateTransferRequest defines partial detail updates. Status moves through
// UpdateStatus only.
type UpdateTransferRequest struct {
	BarangayName    *string    `json:"barangay_name,omitempty" binding:"omitempty,max=255"`
	Address         *string    `json:"address,omitempty"`
	PetType         *string    `json:"pet_type,omitempty" binding:"omitempty,oneof=Dog Cat"`
	RequestDatetime *time.Time `json:"request_datetime,omitempty"`
}

// UpdateStatusRequest carries a status transition.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListQuery holds the filters for listing transfers.
type ListQuery struct {
	BarangayName string     `form:"barangay_name"`
	PetType      string     `form:"pet_type"`
	Status       string     `form:"status"`
	UserID       *uuid.UUID `form:"user_id"`
}

// TransferResponse defines the structure for transfer data in API responses.
type TransferResponse struct {
	ID              uuid.UUID `json:"id"`
	UserID          uuid.UUID `json:"user_id"`
	BarangayName    string    `json:"barangay_name"`
	Address         string    `json:"address"`
	PetType         string    `json:"pet_type"`
	RequestDatetime time.Time `json:"request_datetime"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ToTransferResponse converts a Transfer to a TransferResponse DTO.
func ToTransferResponse(t *Transfer) TransferResponse {
	return TransferResponse{
		ID:              t.ID,
		UserID:          t.UserID,
		BarangayName:    t.BarangayName,
		Address:         t.Address,
		PetType:         t.PetType,
		RequestDatetime: t.RequestDatetime,
		Status:          t.Status,
		CreatedAt:       t.CreatedAt,
		UpdatedAt:       t.UpdatedAt,
	}
}
