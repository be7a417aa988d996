// File: internal/vaccination/model.go
package vaccination

import (
	"time"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
)

// ValidVaccineTypes is the closed set of accepted vaccine names.
var ValidVaccineTypes = []string{
	"Rabies",
	"Distemper",
	"Parvovirus",
	"Adenovirus",
	"Bordetella",
	"Leptospirosis",
	"Lyme Disease",
	"Feline Rabies",
	"Feline Distemper (Panleukopenia)",
	"Feline Calicivirus",
	"Feline Herpesvirus",
	"Feline Leukemia",
	"Other",
}

// IsValidVaccineType reports whether the name belongs to the closed set.
func IsValidVaccineType(name string) bool {
	for _, v := range ValidVaccineTypes {
		if name == v {
			return true
		}
	}
	return false
}

// VaccinationRecord documents one administered vaccine for a pet. The
// medical history is immutable apart from notes and expiration corrections.
type VaccinationRecord struct {
	common.BaseModel
	PetID            uuid.UUID  `gorm:"type:uuid;not null;index"`
	VaccineType      string     `gorm:"type:varchar(100);not null;index"`
	OwnerName        string     `gorm:"type:varchar(255);not null"`
	Contact          string     `gorm:"type:varchar(100);not null"`
	AdministeredBy   string     `gorm:"type:varchar(255);not null"`
	AdministeredDate time.Time  `gorm:"not null;index"`
	ExpirationDate   *time.Time `gorm:""`
	Notes            *string    `gorm:"type:text"`
}

// TableName specifies the table name for the VaccinationRecord model.
func (VaccinationRecord) TableName() string {
	return "vaccination_records"
}

// --- DTOs ---

// CreateRecordRequest defines the structure for recording a vaccination.
type CreateRecordRequest struct {
	PetID            uuid.UUID  `json:"pet_id" binding:"required"`
	VaccineType      string     `json:"vaccine_type" binding:"required,max=100"`
	OwnerName        string     `json:"owner_name" binding:"required,max=255"`
	Contact          string     `json:"contact" binding:"required,max=100"`
	AdministeredBy   string     `json:"administered_by" binding:"required,max=255"`
	AdministeredDate time.Time  `json:"administered_date" binding:"required"`
	ExpirationDate   *time.Time `json:"expiration_date,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
}

// UpdateRecordRequest permits notes and expiration corrections only.
type UpdateRecordRequest struct {
	ExpirationDate *time.Time `json:"expiration_date,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
}

// ListQuery holds the filters for listing vaccination records.
type ListQuery struct {
	PetID       *uuid.UUID `form:"pet_id"`
	VaccineType string     `form:"vaccine_type"`
}

// RecordResponse defines the structure for vaccination data in API responses.
type RecordResponse struct {
	ID               uuid.UUID  `json:"id"`
	PetID            uuid.UUID  `json:"pet_id"`
	VaccineType      string     `json:"vaccine_type"`
	OwnerName        string     `json:"owner_name"`
	Contact          string     `json:"contact"`
	AdministeredBy   string     `json:"administered_by"`
	AdministeredDate time.Time  `json:"administered_date"`
	ExpirationDate   *time.Time `json:"expiration_date,omitempty"`
	Notes            *string    `json:"notes,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToRecordResponse converts a VaccinationRecord to a RecordResponse DTO.
func ToRecordResponse(r *VaccinationRecord) RecordResponse {
	return RecordResponse{
		ID:               r.ID,
		PetID:            r.PetID,
		VaccineType:      r.VaccineType,
		OwnerName:        r.OwnerName,
		Contact:          r.Contact,
		AdministeredBy:   r.AdministeredBy,
		AdministeredDate: r.AdministeredDate,
		ExpirationDate:   r.ExpirationDate,
		Notes:            r.Notes,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}
