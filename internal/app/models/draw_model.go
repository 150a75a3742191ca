package models

import (
	"time"

	"github.com/google/uuid"
)

type DrawStatus string

const (
	DrawStatusPending  DrawStatus = "PENDING"
	DrawStatusExecuted DrawStatus = "EXECUTED"
)

type WinnerType string

const (
	WinnerTypePreselected WinnerType = "PRESELECTED"
	WinnerTypeFinalist    WinnerType = "FINALIST"
)

// DrawResult records one draw. A partial unique index on status
// (idx_draw_results_single_executed) guarantees at most one EXECUTED
// row exists campaign-wide; the service refuses a second execution with
// a conflict before ever touching coupons.
type DrawResult struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Status            DrawStatus `gorm:"not null;default:PENDING" json:"status"`
	PreselectedCount  int        `gorm:"not null" json:"preselected_count"`
	FinalistsCount    int        `gorm:"not null" json:"finalists_count"`
	TotalTickets      int        `json:"total_tickets"`
	TotalParticipants int        `json:"total_participants"`
	Clamped           bool       `json:"clamped"`
	ExecutedBy        string     `json:"executed_by"`
	ExecutedAt        *time.Time `json:"executed_at,omitempty"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// DrawWinner is one winning coupon within a tier. Position is 1-based
// draw order, unique within (draw_id, winner_type). Every FINALIST
// coupon also appears as a PRESELECTED winner of the same draw. Owner
// identity is denormalized at draw time so later contact edits do not
// rewrite history.
type DrawWinner struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	DrawID             uuid.UUID  `gorm:"type:uuid;not null;index" json:"draw_id"`
	CouponID           uuid.UUID  `gorm:"type:uuid;not null" json:"coupon_id"`
	CouponCode         string     `gorm:"not null" json:"coupon_code"`
	WinnerType         WinnerType `gorm:"not null" json:"winner_type"`
	Position           int        `gorm:"not null" json:"position"`
	OwnerName          string     `json:"owner_name"`
	OwnerEmail         string     `json:"owner_email"`
	OwnerPhone         string     `json:"owner_phone"`
	IsNotified         bool       `gorm:"not null;default:false" json:"is_notified"`
	DisqualifiedAt     *time.Time `json:"disqualified_at,omitempty"`
	DisqualifiedReason *string    `json:"disqualified_reason,omitempty"`
	CreatedAt          time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

type DrawExecuteRequest struct {
	PreselectedCount int `json:"preselected_count" validate:"required,min=1"`
	FinalistsCount   int `json:"finalists_count" validate:"required,min=1"`
}

type DrawExecuteResponse struct {
	Draw        *DrawResult  `json:"draw"`
	Preselected []DrawWinner `json:"preselected"`
	Finalists   []DrawWinner `json:"finalists"`
}

type DisqualifyRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=1000"`
}
