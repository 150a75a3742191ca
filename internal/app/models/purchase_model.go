package models

import (
	"time"

	"github.com/google/uuid"
)

type RegistrationStatus string

const (
	RegistrationStatusPending  RegistrationStatus = "PENDING"
	RegistrationStatusApproved RegistrationStatus = "APPROVED"
	RegistrationStatusRejected RegistrationStatus = "REJECTED"
)

// IsTerminal reports whether the status can no longer change through
// the approval workflow. APPROVED and REJECTED are both final.
func (s RegistrationStatus) IsTerminal() bool {
	return s == RegistrationStatusApproved || s == RegistrationStatusRejected
}

// Purchase is a buyer-track registration. Its serial is reserved
// atomically with row creation; its status moves PENDING -> APPROVED
// or PENDING -> REJECTED exactly once.
type Purchase struct {
	ID             uuid.UUID          `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	FullName       string             `gorm:"not null" json:"full_name"`
	DocumentID     string             `gorm:"not null" json:"document_id"`
	Email          string             `gorm:"not null" json:"email"`
	Phone          string             `json:"phone"`
	BirthDate      time.Time          `gorm:"not null" json:"birth_date"`
	SerialNumber   string             `gorm:"index;not null" json:"serial_number"`
	ProductName    string             `json:"product_name"`
	DocumentURLs   string             `gorm:"type:text" json:"document_urls"`
	Status         RegistrationStatus `gorm:"not null;default:PENDING" json:"status"`
	RejectReason   *string            `json:"reject_reason,omitempty"`
	DocCheckValid  *bool              `json:"doc_check_valid,omitempty"`
	DocCheckNotes  *string            `json:"doc_check_notes,omitempty"`
	ApprovedAt     *time.Time         `json:"approved_at,omitempty"`
	ReviewedBy     *string            `json:"reviewed_by,omitempty"`
	CreatedAt      time.Time          `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time          `gorm:"autoUpdateTime" json:"updated_at"`
}

type PurchaseSubmitRequest struct {
	FullName      string    `json:"full_name" validate:"required,max=255"`
	DocumentID    string    `json:"document_id" validate:"required,max=32"`
	Email         string    `json:"email" validate:"required,email"`
	Phone         string    `json:"phone" validate:"omitempty,max=32"`
	BirthDate     time.Time `json:"birth_date" validate:"required"`
	SerialNumber  string    `json:"serial_number" validate:"required,max=64"`
	DocumentURLs  []string  `json:"document_urls" validate:"omitempty,dive,url"`
	TermsAccepted bool      `json:"terms_accepted" validate:"required,eq=true"`
}

type ContactUpdateRequest struct {
	FullName *string `json:"full_name,omitempty" validate:"omitempty,max=255"`
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,max=32"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}

// DocumentCheckRequest carries the asynchronous verdict of the external
// document-verification service. Advisory only: it never changes the
// registration status.
type DocumentCheckRequest struct {
	Valid bool    `json:"valid"`
	Notes *string `json:"notes,omitempty" validate:"omitempty,max=2000"`
}
