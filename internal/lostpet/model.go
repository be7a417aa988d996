// File: internal/lostpet/model.go
package lostpet

import (
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/pet"

	"github.com/google/uuid"
)

// Lost record statuses. RESOLVED is terminal; REPORTED, SEARCHING and FOUND
// count as active for the one-active-record-per-pet rule.
const (
	StatusReported  = "REPORTED"
	StatusSearching = "SEARCHING"
	StatusFound     = "FOUND"
	StatusResolved  = "RESOLVED"
)

// ValidStatuses is the closed status set for lost records.
var ValidStatuses = []string{StatusReported, StatusSearching, StatusFound, StatusResolved}

// LostRecord marks a pet as lost.
type LostRecord struct {
	common.BaseModel
	PetID             uuid.UUID `gorm:"type:uuid;not null;index"`
	Pet               *pet.Pet  `gorm:"foreignKey:PetID"`
	LastSeenLocation  string    `gorm:"type:varchar(255);not null"`
	LastSeenDate      time.Time `gorm:"not null"`
	AdditionalDetails *string   `gorm:"type:text"`
	Status            string    `gorm:"type:varchar(20);not null;default:'REPORTED';index"`
}

// TableName specifies the table name for the LostRecord model.
func (LostRecord) TableName() string {
	return "lost_records"
}

// SightingReport is a community report against a lost record. Reports are
// append-only except the IsMatched flag.
type SightingReport struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	LostRecordID uuid.UUID `gorm:"type:uuid;not null;index" json:"lost_record_id"`
	ReporterID   uuid.UUID `gorm:"type:uuid;not null" json:"reporter_id"`
	Details      string    `gorm:"type:text;not null" json:"details"`
	Location     string    `gorm:"type:varchar(255);not null" json:"location"`
	ReportDate   time.Time `gorm:"not null" json:"report_date"`
	ImageURL     *string   `gorm:"type:text" json:"image_url,omitempty"`
	IsMatched    bool      `gorm:"not null;default:false" json:"is_matched"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName specifies the table name for the SightingReport model.
func (SightingReport) TableName() string {
	return "sighting_reports"
}

// --- DTOs ---

// ReportLostRequest defines the structure for reporting a pet lost.
type ReportLostRequest struct {
	PetID             uuid.UUID `json:"pet_id" binding:"required"`
	LastSeenLocation  string    `json:"last_seen_location" binding:"required,max=255"`
	LastSeenDate      time.Time `json:"last_seen_date" binding:"required"`
	AdditionalDetails *string   `json:"additional_details,omitempty"`
}

// UpdateStatusRequest carries a lost record status change.
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// AddSightingRequest defines the structure for filing a sighting report.
type AddSightingRequest struct {
	Details    string    `json:"details" binding:"required"`
	Location   string    `json:"location" binding:"required,max=255"`
	ReportDate time.Time `json:"report_date" binding:"required"`
	ImageURL   *string   `json:"image_url,omitempty"`
}

// MarkMatchedRequest toggles the matched flag on a sighting.
type MarkMatchedRequest struct {
	Matched bool `json:"matched"`
}

// ListQuery holds the filters for listing lost records. Pet attribute
// filters join through the pets table.
type ListQuery struct {
	Status string `form:"status"`
	Type   string `form:"type"`
	Breed  string `form:"breed"`
	Color  string `form:"color"`
}

// LostRecordResponse defines the structure for lost record data in API responses.
type LostRecordResponse struct {
	ID                uuid.UUID        `json:"id"`
	PetID             uuid.UUID        `json:"pet_id"`
	Pet               *pet.PetResponse `json:"pet,omitempty"`
	LastSeenLocation  string           `json:"last_seen_location"`
	LastSeenDate      time.Time        `json:"last_seen_date"`
	AdditionalDetails *string          `json:"additional_details,omitempty"`
	Status            string           `json:"status"`
	CreatedAt         time.Time        `json:"created_at"`
	UpdatedAt         time.Time        `json:"updated_at"`
}

// ToLostRecordResponse converts a LostRecord to a LostRecordResponse DTO.
func ToLostRecordResponse(r *LostRecord) LostRecordResponse {
	resp := LostRecordResponse{
		ID:                r.ID,
		PetID:             r.PetID,
		LastSeenLocation:  r.LastSeenLocation,
		LastSeenDate:      r.LastSeenDate,
		AdditionalDetails: r.AdditionalDetails,
		Status:            r.Status,
		CreatedAt:         r.CreatedAt,
		UpdatedAt:         r.UpdatedAt,
	}
	if r.Pet != nil {
		petResp := pet.ToPetResponse(r.Pet)
		resp.Pet = &petResp
	}
	return resp
}
