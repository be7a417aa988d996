// File: internal/pet/model.go
package pet

import (
	"time"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
)

// Gender values accepted for a pet.
const (
	GenderMale   = "MALE"
	GenderFemale = "FEMALE"
)

// Pet represents a registered pet.
type Pet struct {
	common.BaseModel
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index"`
	Name        string    `gorm:"type:varchar(100);not null"`
	Type        string    `gorm:"type:varchar(50);not null;index"` // species, e.g. "Dog", "Cat"
	Breed       *string   `gorm:"type:varchar(100);index"`
	Gender      string    `gorm:"type:varchar(10);not null"`
	Age         *int      `gorm:""`
	Color       *string   `gorm:"type:varchar(50)"`
	Size        *string   `gorm:"type:varchar(50)"`
	Description *string   `gorm:"type:text"`
	ImageURL    *string   `gorm:"type:text"`
}

// TableName specifies the table name for the Pet model.
func (Pet) TableName() string {
	return "pets"
}

// --- DTOs ---

// CreatePetRequest defines the structure for registering a pet.
type CreatePetRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	Type        string  `json:"type" binding:"required,max=50"`
	Breed       *string `json:"breed,omitempty" binding:"omitempty,max=100"`
	Gender      string  `json:"gender" binding:"required,oneof=MALE FEMALE"`
	Age         *int    `json:"age,omitempty" binding:"omitempty,gte=0"`
	Color       *string `json:"color,omitempty" binding:"omitempty,max=50"`
	Size        *string `json:"size,omitempty" binding:"omitempty,max=50"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// UpdatePetRequest defines the structure for partial pet updates.
type UpdatePetRequest struct {
	Name        *string `json:"name,omitempty" binding:"omitempty,max=100"`
	Breed       *string `json:"breed,omitempty" binding:"omitempty,max=100"`
	Gender      *string `json:"gender,omitempty" binding:"omitempty,oneof=MALE FEMALE"`
	Age         *int    `json:"age,omitempty" binding:"omitempty,gte=0"`
	Color       *string `json:"color,omitempty" binding:"omitempty,max=50"`
	Size        *string `json:"size,omitempty" binding:"omitempty,max=50"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"image_url,omitempty"`
}

// SearchQuery holds the filters accepted by the pet listing endpoints.
// All filters are conjunctive equality matches; Term is a free-text search
// over the descriptive columns.
type SearchQuery struct {
	Type   string `form:"type"`
	Breed  string `form:"breed"`
	Gender string `form:"gender"`
	Color  string `form:"color"`
	Size   string `form:"size"`
	Term   string `form:"q"`
}

// PetResponse defines the structure for pet data sent in API responses.
type PetResponse struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Type        string    `json:"type"`
	Breed       *string   `json:"breed,omitempty"`
	Gender      string    `json:"gender"`
	Age         *int      `json:"age,omitempty"`
	Color       *string   `json:"color,omitempty"`
	Size        *string   `json:"size,omitempty"`
	Description *string   `json:"description,omitempty"`
	ImageURL    *string   `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ToPetResponse converts a Pet model to a PetResponse DTO.
func ToPetResponse(p *Pet) PetResponse {
	return PetResponse{
		ID:          p.ID,
		OwnerID:     p.OwnerID,
		Name:        p.Name,
		Type:        p.Type,
		Breed:       p.Breed,
		Gender:      p.Gender,
		Age:         p.Age,
		Color:       p.Color,
		Size:        p.Size,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
