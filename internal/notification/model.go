package notification

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type defines the type of notification.
type Type string

const (
	AdoptionScreeningScheduled Type = "adoption_screening_scheduled"
	AdoptionRequestApproved    Type = "adoption_request_approved"
	AdoptionRequestRejected    Type = "adoption_request_rejected"
	TransferStatusChanged      Type = "transfer_status_changed"
	SightingReported           Type = "sighting_reported"
)

// Payload is a free-form JSON document stored in a jsonb column.
type Payload map[string]interface{}

// Value implements driver.Valuer for Payload.
func (p Payload) Value() (driver.Value, error) {
	if p == nil {
		return nil, nil
	}
	return json.Marshal(p)
}

// Scan implements sql.Scanner for Payload.
func (p *Payload) Scan(value interface{}) error {
	if value == nil {
		*p = nil
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type for Payload: %T", value)
	}
	return json.Unmarshal(data, p)
}

// Notification is a row in the outbox. Rows are written in the same request
// that triggered them and delivered later by the dispatcher; DispatchedAt is
// nil until a sink has accepted the row.
type Notification struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key;default:uuid_generate_v4()" json:"id"`
	UserID       *uuid.UUID `gorm:"type:uuid;index:idx_notification_user_status" json:"user_id,omitempty"`
	Type         Type       `gorm:"type:varchar(100);not null" json:"type"`
	Message      string     `gorm:"type:text;not null" json:"message"`
	Payload      Payload    `gorm:"type:jsonb" json:"payload,omitempty"`
	IsRead       bool       `gorm:"not null;default:false;index:idx_notification_user_status" json:"is_read"`
	DispatchedAt *time.Time `gorm:"index" json:"dispatched_at,omitempty"`
	CreatedAt    time.Time  `gorm:"not null;default:CURRENT_TIMESTAMP;index:idx_notification_user_status" json:"created_at"`
}

// TableName specifies the table name for GORM.
func (Notification) TableName() string {
	return "notifications"
}
