package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type SerialStatus string

const (
	SerialStatusAvailable SerialStatus = "AVAILABLE"
	SerialStatusUsed      SerialStatus = "USED"
	SerialStatusBlocked   SerialStatus = "BLOCKED"
)

type ProductTier string

const (
	ProductTierStandard ProductTier = "STANDARD"
	ProductTierPremium  ProductTier = "PREMIUM"
	ProductTierFlagship ProductTier = "FLAGSHIP"
)

// SerialEntry is one catalogue row per manufactured unit. The buyer and
// seller columns form two independent consumption tracks over the same
// physical serial: each track moves AVAILABLE -> USED exactly once,
// atomically with the registration that consumes it.
type SerialEntry struct {
	ID               uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"id"`
	SerialNumber     string          `gorm:"uniqueIndex;not null" json:"serial_number"`
	Tier             ProductTier     `gorm:"not null" json:"tier"`
	CouponMultiplier int             `gorm:"not null" json:"coupon_multiplier"`
	ProductName      string          `json:"product_name"`
	ProductPrice     decimal.Decimal `gorm:"type:decimal(18,2)" json:"product_price"`
	BuyerStatus      SerialStatus    `gorm:"not null;default:AVAILABLE" json:"buyer_status"`
	BuyerPurchaseID  *uuid.UUID      `gorm:"type:uuid" json:"buyer_purchase_id,omitempty"`
	SellerStatus     SerialStatus    `gorm:"not null;default:AVAILABLE" json:"seller_status"`
	SellerSaleID     *uuid.UUID      `gorm:"type:uuid" json:"seller_sale_id,omitempty"`
	CreatedAt        time.Time       `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time       `gorm:"autoUpdateTime" json:"updated_at"`
}

// StatusFor returns the status of the requested track only.
func (e *SerialEntry) StatusFor(class OwnerClass) SerialStatus {
	if class == OwnerClassSeller {
		return e.SellerStatus
	}
	return e.BuyerStatus
}

type SerialCreateRequest struct {
	SerialNumber     string          `json:"serial_number" validate:"required,max=64"`
	Tier             ProductTier     `json:"tier" validate:"required,oneof=STANDARD PREMIUM FLAGSHIP"`
	CouponMultiplier int             `json:"coupon_multiplier" validate:"required,min=1"`
	ProductName      string          `json:"product_name" validate:"required,max=255"`
	ProductPrice     decimal.Decimal `json:"product_price" validate:"omitempty"`

	// SourceLine carries the original line number of a parsed upload
	// (CSV) so row results match the operator's file. Zero for rows
	// submitted directly as JSON.
	SourceLine int `json:"-"`
}

type SerialImportRequest struct {
	Serials []SerialCreateRequest `json:"serials" validate:"required,min=1,dive"`
}

// SerialImportRowResult reports the outcome of one import row. A
// duplicate serial fails its own row without aborting the batch.
type SerialImportRowResult struct {
	Row          int    `json:"row"`
	SerialNumber string `json:"serial_number"`
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
}

type SerialImportResult struct {
	Imported int                     `json:"imported"`
	Failed   int                     `json:"failed"`
	Rows     []SerialImportRowResult `json:"rows"`
}

type SerialLookupResponse struct {
	SerialNumber     string          `json:"serial_number"`
	OwnerClass       OwnerClass      `json:"owner_class"`
	Status           SerialStatus    `json:"status"`
	Tier             ProductTier     `json:"tier"`
	CouponMultiplier int             `json:"coupon_multiplier"`
	ProductName      string          `json:"product_name"`
	ProductPrice     decimal.Decimal `json:"product_price"`
}
