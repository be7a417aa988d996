// File: internal/user/model.go
package user

import (
	"time"

	"pet_rescue_backend/internal/common"

	"github.com/google/uuid"
)

// User represents the user model in the database.
type User struct {
	common.BaseModel         // Embeds ID, CreatedAt, UpdatedAt, DeletedAt
	Email            string  `gorm:"type:varchar(255);not null;uniqueIndex"`
	PasswordHash     string  `gorm:"type:varchar(255);not null"`
	FirstName        *string `gorm:"type:varchar(100)"`
	LastName         *string `gorm:"type:varchar(100)"`
	PhoneNumber      *string `gorm:"type:varchar(50)"`
	Address          *string `gorm:"type:text"`
	Role             string  `gorm:"type:varchar(50);not null;default:'user'"` // "user" or "admin"
	LastLoginAt      *time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Sanitize removes sensitive information like password hash.
func (u *User) Sanitize() {
	u.PasswordHash = ""
}

// --- DTOs for API requests/responses ---

// CreateUserRequest defines the structure for creating a new user.
type CreateUserRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8,max=72"` // bcrypt max is 72 bytes
	FirstName string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName  string `json:"last_name,omitempty" binding:"omitempty,max=100"`
}

// UpdateUserRequest defines the structure for updating a user's profile.
type UpdateUserRequest struct {
	FirstName   *string `json:"first_name,omitempty" binding:"omitempty,max=100"`
	LastName    *string `json:"last_name,omitempty" binding:"omitempty,max=100"`
	PhoneNumber *string `json:"phone_number,omitempty" binding:"omitempty,max=50"`
	Address     *string `json:"address,omitempty"`
}

// UserResponse defines the structure for user data sent in API responses.
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FirstName   *string    `json:"first_name,omitempty"`
	LastName    *string    `json:"last_name,omitempty"`
	PhoneNumber *string    `json:"phone_number,omitempty"`
	Address     *string    `json:"address,omitempty"`
	Role        string     `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(user *User) UserResponse {
	return UserResponse{
		ID:          user.ID,
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		PhoneNumber: user.PhoneNumber,
		Address:     user.Address,
		Role:        user.Role,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

func (u *User) GetID() uuid.UUID {
	return u.ID
}

func (u *User) GetEmail() string {
	return u.Email
}

func (u *User) GetRole() string {
	return u.Role
}
