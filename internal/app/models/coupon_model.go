package models

import (
	"time"

	"github.com/google/uuid"
)

type CouponStatus string

const (
	CouponStatusActive CouponStatus = "ACTIVE"
	CouponStatusWinner CouponStatus = "WINNER"
	CouponStatusVoid   CouponStatus = "VOID"
)

// Coupon is one lottery entry. Exactly one of PurchaseID/SaleID is set,
// matching OwnerType. Codes are globally unique and immutable once
// issued; only the draw flips ACTIVE -> WINNER, only an owner cascade
// flips to VOID.
type Coupon struct {
	ID           uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	Code         string       `gorm:"uniqueIndex;not null" json:"code"`
	OwnerType    OwnerClass   `gorm:"not null" json:"owner_type"`
	PurchaseID   *uuid.UUID   `gorm:"type:uuid;index" json:"purchase_id,omitempty"`
	SaleID       *uuid.UUID   `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	SerialNumber string       `gorm:"not null" json:"serial_number"`
	ProductName  string       `json:"product_name"`
	Status       CouponStatus `gorm:"not null;default:ACTIVE;index" json:"status"`
	CreatedAt    time.Time    `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"autoUpdateTime" json:"updated_at"`
}

// OwnerKey identifies the person behind the coupon for participant
// counting: coupons from the same registration share one key.
func (c *Coupon) OwnerKey() string {
	if c.OwnerType == OwnerClassSeller && c.SaleID != nil {
		return "SELLER:" + c.SaleID.String()
	}
	if c.PurchaseID != nil {
		return "BUYER:" + c.PurchaseID.String()
	}
	return "UNKNOWN:" + c.ID.String()
}

type ActiveCouponCount struct {
	ActiveCoupons int64 `json:"active_coupons"`
	Participants  int64 `json:"participants"`
}
