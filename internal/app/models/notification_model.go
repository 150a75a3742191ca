package models

import (
	"time"

	"github.com/google/uuid"
)

type NotificationChannel string

const (
	NotificationChannelEmail    NotificationChannel = "EMAIL"
	NotificationChannelWhatsApp NotificationChannel = "WHATSAPP"
)

type NotificationKind string

const (
	NotificationKindApproval NotificationKind = "APPROVAL"
	NotificationKindWinner   NotificationKind = "WINNER"
)

type NotificationStatus string

const (
	NotificationStatusPending NotificationStatus = "PENDING"
	NotificationStatusSent    NotificationStatus = "SENT"
	NotificationStatusFailed  NotificationStatus = "FAILED"
)

// NotificationLog records every delivery attempt. Delivery runs outside
// the domain transactions: a failed send never rolls back an approval
// or a draw, it only leaves a FAILED row for retry.
type NotificationLog struct {
	ID        uuid.UUID           `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Recipient string              `gorm:"not null" json:"recipient"`
	Channel   NotificationChannel `gorm:"not null" json:"channel"`
	Kind      NotificationKind    `gorm:"not null" json:"kind"`
	Subject   string              `json:"subject"`
	Body      string              `gorm:"type:text" json:"body"`
	Status    NotificationStatus  `gorm:"not null;default:PENDING;index" json:"status"`
	Attempts  int                 `gorm:"not null;default:0" json:"attempts"`
	LastError *string             `json:"last_error,omitempty"`
	SentAt    *time.Time          `json:"sent_at,omitempty"`
	CreatedAt time.Time           `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime" json:"updated_at"`
}
