package models

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRegistrationStatusIsTerminal(t *testing.T) {
	assert.False(t, RegistrationStatusPending.IsTerminal())
	assert.True(t, RegistrationStatusApproved.IsTerminal())
	assert.True(t, RegistrationStatusRejected.IsTerminal())
}

func TestParseOwnerClass(t *testing.T) {
	class, ok := ParseOwnerClass("BUYER")
	assert.True(t, ok)
	assert.Equal(t, OwnerClassBuyer, class)

	class, ok = ParseOwnerClass("SELLER")
	assert.True(t, ok)
	assert.Equal(t, OwnerClassSeller, class)

	_, ok = ParseOwnerClass("buyer")
	assert.False(t, ok)
	_, ok = ParseOwnerClass("")
	assert.False(t, ok)
}

func TestCouponOwnerKey(t *testing.T) {
	purchaseID := uuid.New()
	saleID := uuid.New()

	buyer := Coupon{ID: uuid.New(), OwnerType: OwnerClassBuyer, PurchaseID: &purchaseID}
	seller := Coupon{ID: uuid.New(), OwnerType: OwnerClassSeller, SaleID: &saleID}

	assert.Equal(t, "BUYER:"+purchaseID.String(), buyer.OwnerKey())
	assert.Equal(t, "SELLER:"+saleID.String(), seller.OwnerKey())
	assert.NotEqual(t, buyer.OwnerKey(), seller.OwnerKey())
}

func TestSerialEntryStatusFor(t *testing.T) {
	entry := SerialEntry{
		BuyerStatus:  SerialStatusUsed,
		SellerStatus: SerialStatusAvailable,
	}

	assert.Equal(t, SerialStatusUsed, entry.StatusFor(OwnerClassBuyer))
	assert.Equal(t, SerialStatusAvailable, entry.StatusFor(OwnerClassSeller))
}
