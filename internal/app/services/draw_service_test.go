package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tvsorteo/campaign-core/internal/app/models"
)

func makePool(n int) []models.Coupon {
	pool := make([]models.Coupon, n)
	for i := range pool {
		purchaseID := uuid.New()
		pool[i] = models.Coupon{
			ID:         uuid.New(),
			Code:       uuid.NewString()[:8],
			OwnerType:  models.OwnerClassBuyer,
			PurchaseID: &purchaseID,
			Status:     models.CouponStatusActive,
		}
	}
	return pool
}

func couponIDSet(coupons []models.Coupon) map[uuid.UUID]bool {
	set := make(map[uuid.UUID]bool, len(coupons))
	for i := range coupons {
		set[coupons[i].ID] = true
	}
	return set
}

func TestSampleCoupons(t *testing.T) {
	t.Run("draws exactly n distinct coupons from the pool", func(t *testing.T) {
		pool := makePool(50)

		sampled := sampleCoupons(pool, 20)
		require.Len(t, sampled, 20)

		poolSet := couponIDSet(pool)
		seen := make(map[uuid.UUID]bool)
		for _, c := range sampled {
			assert.True(t, poolSet[c.ID], "sampled coupon must come from the pool")
			assert.False(t, seen[c.ID], "coupon %s drawn twice", c.Code)
			seen[c.ID] = true
		}
	})

	t.Run("clamps to pool size when n exceeds it", func(t *testing.T) {
		pool := makePool(7)

		sampled := sampleCoupons(pool, 20)
		require.Len(t, sampled, 7)
		assert.Len(t, couponIDSet(sampled), 7)
	})

	t.Run("does not mutate the input pool", func(t *testing.T) {
		pool := makePool(10)
		original := make([]models.Coupon, len(pool))
		copy(original, pool)

		sampleCoupons(pool, 5)

		for i := range pool {
			assert.Equal(t, original[i].ID, pool[i].ID)
		}
	})

	t.Run("finalists drawn from the preselected set stay a subset", func(t *testing.T) {
		pool := makePool(50)

		preselected := sampleCoupons(pool, 20)
		finalists := sampleCoupons(preselected, 5)
		require.Len(t, finalists, 5)

		preselectedSet := couponIDSet(preselected)
		for _, f := range finalists {
			assert.True(t, preselectedSet[f.ID], "finalist %s was never preselected", f.Code)
		}
	})

	t.Run("every coupon is reachable over repeated draws", func(t *testing.T) {
		pool := makePool(5)

		drawn := make(map[uuid.UUID]bool)
		for i := 0; i < 200; i++ {
			for _, c := range sampleCoupons(pool, 1) {
				drawn[c.ID] = true
			}
		}
		assert.Len(t, drawn, 5, "uniform sampling should eventually hit every coupon")
	})
}

func TestCountParticipants(t *testing.T) {
	t.Run("coupons of one registration count as one participant", func(t *testing.T) {
		purchaseID := uuid.New()
		pool := []models.Coupon{
			{ID: uuid.New(), OwnerType: models.OwnerClassBuyer, PurchaseID: &purchaseID},
			{ID: uuid.New(), OwnerType: models.OwnerClassBuyer, PurchaseID: &purchaseID},
			{ID: uuid.New(), OwnerType: models.OwnerClassBuyer, PurchaseID: &purchaseID},
		}

		assert.Equal(t, 1, countParticipants(pool))
	})

	t.Run("buyer and seller tracks never collapse", func(t *testing.T) {
		sharedID := uuid.New()
		pool := []models.Coupon{
			{ID: uuid.New(), OwnerType: models.OwnerClassBuyer, PurchaseID: &sharedID},
			{ID: uuid.New(), OwnerType: models.OwnerClassSeller, SaleID: &sharedID},
		}

		assert.Equal(t, 2, countParticipants(pool))
	})

	t.Run("empty pool has zero participants", func(t *testing.T) {
		assert.Equal(t, 0, countParticipants(nil))
	})
}
