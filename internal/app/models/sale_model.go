package models

import (
	"time"

	"github.com/google/uuid"
)

// Sale is the seller-track twin of Purchase: one registration by the
// retail staff member who sold the unit. It consumes the seller track
// of the same serial catalogue row, independently of the buyer track.
type Sale struct {
	ID           uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName     string             `gorm:"not null" json:"full_name"`
	DocumentID   string             `gorm:"not null" json:"document_id"`
	Email        string             `gorm:"not null" json:"email"`
	Phone        string             `json:"phone"`
	StoreName    string             `json:"store_name"`
	SerialNumber string             `gorm:"index;not null" json:"serial_number"`
	ProductName  string             `json:"product_name"`
	Status       RegistrationStatus `gorm:"not null;default:PENDING" json:"status"`
	RejectReason *string            `json:"reject_reason,omitempty"`
	ApprovedAt   *time.Time         `json:"approved_at,omitempty"`
	ReviewedBy   *string            `json:"reviewed_by,omitempty"`
	CreatedAt    time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type SaleSubmitRequest struct {
	FullName      string `json:"full_name" validate:"required,max=255"`
	DocumentID    string `json:"document_id" validate:"required,max=32"`
	Email         string `json:"email" validate:"required,email"`
	Phone         string `json:"phone" validate:"omitempty,max=32"`
	StoreName     string `json:"store_name" validate:"required,max=255"`
	SerialNumber  string `json:"serial_number" validate:"required,max=64"`
	TermsAccepted bool   `json:"terms_accepted" validate:"required,eq=true"`
}
