// File: internal/adoption/model.go
package adoption

import (
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/pet"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// Listing statuses. AVAILABLE is the only state that accepts new adoption
// requests; PENDING means a request is in screening; ADOPTED and WITHDRAWN
// are terminal for the listing lifecycle.
const (
	ListingStatusAvailable = "AVAILABLE"
	ListingStatusPending   = "PENDING"
	ListingStatusAdopted   = "ADOPTED"
	ListingStatusWithdrawn = "WITHDRAWN"
)

// ValidListingStatuses is the closed set accepted by the administrative
// status override.
var ValidListingStatuses = []string{
	ListingStatusAvailable,
	ListingStatusPending,
	ListingStatusAdopted,
	ListingStatusWithdrawn,
}

// Request statuses. approved and rejected are terminal.
const (
	RequestStatusPending   = "pending"
	RequestStatusScreening = "screening"
	RequestStatusApproved  = "approved"
	RequestStatusRejected  = "rejected"
)

// ScheduleDisplayLayout is the human-readable form used in screening
// notifications, e.g. "March 05 2026, 2:30 PM".
const ScheduleDisplayLayout = "January 02 2006, 3:04 PM"

// AdoptionListing is a pet offered for adoption.
type AdoptionListing struct {
	common.BaseModel
	PetID             uuid.UUID      `gorm:"type:uuid;not null;index"`
	Pet               *pet.Pet       `gorm:"foreignKey:PetID"`
	FoundIn           string         `gorm:"type:varchar(255);not null"`
	AdditionalDetails *string        `gorm:"type:text"`
	Media             pq.StringArray `gorm:"type:text[]"`
	IsVaccinated      bool           `gorm:"not null;default:false"`
	IsNeutered        bool           `gorm:"not null;default:false"`
	Status            string         `gorm:"type:varchar(20);not null;default:'AVAILABLE';index"`

	// ViewCount is computed from listing_view_events on read; it is never
	// stored on the row.
	ViewCount int64 `gorm:"-"`
}

// TableName specifies the table name for the AdoptionListing model.
func (AdoptionListing) TableName() string {
	return "adoption_listings"
}

// ListingViewEvent records one view of a listing. The table is append-only;
// nothing updates or deletes rows.
type ListingViewEvent struct {
	ID        uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()"`
	ListingID uuid.UUID  `gorm:"type:uuid;not null;index"`
	ViewerID  *uuid.UUID `gorm:"type:uuid"`
	CreatedAt time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP"`
}

// TableName specifies the table name for the ListingViewEvent model.
func (ListingViewEvent) TableName() string {
	return "listing_view_events"
}

// AdoptionRequest is one adopter's application against a listing. Requests
// are never deleted; the row is the audit trail of the workflow.
type AdoptionRequest struct {
	common.BaseModel
	ListingID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	Listing         *AdoptionListing `gorm:"foreignKey:ListingID"`
	AdopterID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	Notes           *string          `gorm:"type:text"`
	Status          string           `gorm:"type:varchar(20);not null;default:'pending';index"`
	Schedule        *time.Time       `gorm:""`
	ApprovedBy      *uuid.UUID       `gorm:"type:uuid"`
	AdoptionDate    *time.Time       `gorm:""`
	AgreementSigned bool             `gorm:"not null;default:false"`
}

// TableName specifies the table name for the AdoptionRequest model.
func (AdoptionRequest) TableName() string {
	return "adoption_requests"
}

// --- DTOs ---

// CreateListingRequest defines the structure for creating a listing.
type CreateListingRequest struct {
	PetID             uuid.UUID `json:"pet_id" binding:"required"`
	FoundIn           string    `json:"found_in" binding:"required,max=255"`
	AdditionalDetails *string   `json:"additional_details,omitempty"`
	Media             []string  `json:"media,omitempty"`
	IsVaccinated      bool      `json:"is_vaccinated"`
	IsNeutered        bool      `json:"is_neutered"`
}

// UpdateListingRequest defines the structure for partial listing updates.
// Status is deliberately absent; it moves through the workflow or the
// administrative override only.
type UpdateListingRequest struct {
	FoundIn           *string  `json:"found_in,omitempty" binding:"omitempty,max=255"`
	AdditionalDetails *string  `json:"additional_details,omitempty"`
	Media             []string `json:"media,omitempty"`
	IsVaccinated      *bool    `json:"is_vaccinated,omitempty"`
	IsNeutered        *bool    `json:"is_neutered,omitempty"`
}

// SetListingStatusRequest is the administrative status override body.
type SetListingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListingSearchQuery holds the filters for listing search. Pet attribute
// filters join through the pets table.
type ListingSearchQuery struct {
	Status string `form:"status"`
	Type   string `form:"type"`
	Breed  string `form:"breed"`
	Gender string `form:"gender"`
	Color  string `form:"color"`
	Size   string `form:"size"`
}

// SubmitRequestRequest defines the structure for submitting an adoption request.
type SubmitRequestRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Notes     *string   `json:"notes,omitempty"`
}

// UpdateRequestStatusRequest carries a workflow transition. Schedule is
// required when the target is screening; ApprovedBy and AdoptionDate when the
// target is approved. AgreementSigned is recorded as sent; an approval with
// an unsigned agreement stays unsigned.
type UpdateRequestStatusRequest struct {
	Status          string     `json:"status" binding:"required"`
	Schedule        *time.Time `json:"schedule,omitempty"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	AdoptionDate    *time.Time `json:"adoption_date,omitempty"`
	AgreementSigned *bool      `json:"agreement_signed,omitempty"`
}

// RequestListQuery holds the filters for listing adoption requests.
type RequestListQuery struct {
	Status    string     `form:"status"`
	ListingID *uuid.UUID `form:"listing_id"`
	AdopterID *uuid.UUID `form:"adopter_id"`
}

// ListingResponse defines the structure for listing data in API responses.
type ListingResponse struct {
	ID                uuid.UUID        `json:"id"`
	PetID             uuid.UUID        `json:"pet_id"`
	Pet               *pet.PetResponse `json:"pet,omitempty"`
	FoundIn           string           `json:"found_in"`
	AdditionalDetails *string          `json:"additional_details,omitempty"`
	Media             []string         `json:"media,omitempty"`
	IsVaccinated      bool             `json:"is_vaccinated"`
	IsNeutered        bool             `json:"is_neutered"`
	Status            string           `json:"status"`
	ViewCount         int64            `json:"view_count"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToListingResponse converts an AdoptionListing to a ListingResponse DTO.
func ToListingResponse(l *AdoptionListing) ListingResponse {
	resp := ListingResponse{
		ID:                l.ID,
		PetID:             l.PetID,
		FoundIn:           l.FoundIn,
		AdditionalDetails: l.AdditionalDetails,
		Media:             l.Media,
		IsVaccinated:      l.IsVaccinated,
		IsNeutered:        l.IsNeutered,
		Status:            l.Status,
		ViewCount:         l.ViewCount,
		CreatedAt:         l.CreatedAt,
		UpdatedAt:         l.UpdatedAt,
	}
	if l.Pet != nil {
		petResp := pet.ToPetResponse(l.Pet)
		resp.Pet = &petResp
	}
	return resp
}

// RequestResponse defines the structure for adoption request data in API responses.
type RequestResponse struct {
	ID              uuid.UUID  `json:"id"`
	ListingID       uuid.UUID  `json:"listing_id"`
	AdopterID       uuid.UUID  `json:"adopter_id"`
	Notes           *string    `json:"notes,omitempty"`
	Status          string     `json:"status"`
	Schedule        *time.Time `json:"schedule,omitempty"`
	ApprovedBy      *uuid.UUID `json:"approved_by,omitempty"`
	AdoptionDate    *time.Time `json:"adoption_date,omitempty"`
	AgreementSigned bool       `json:"agreement_signed"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// ToRequestResponse converts an AdoptionRequest to a RequestResponse DTO.
func ToRequestResponse(r *AdoptionRequest) RequestResponse {
	return RequestResponse{
		ID:              r.ID,
		ListingID:       r.ListingID,
		AdopterID:       r.AdopterID,
		Notes:           r.Notes,
		Status:          r.Status,
		Schedule:        r.Schedule,
		ApprovedBy:      r.ApprovedBy,
		AdoptionDate:    r.AdoptionDate,
		AgreementSigned: r.AgreementSigned,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
