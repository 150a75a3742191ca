package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"gorm.io/gorm"
)

func createPurchaseRow(t *testing.T, db *gorm.DB, serial string) *models.Purchase {
	t.Helper()

	purchase := &models.Purchase{
		ID:           uuid.New(),
		FullName:     "Ana Souza",
		DocumentID:   "12345678900",
		Email:        "ana@example.com",
		BirthDate:    time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		SerialNumber: serial,
		ProductName:  "TV 55",
		Status:       models.RegistrationStatusPending,
	}
	require.NoError(t, db.Create(purchase).Error)
	return purchase
}

func TestCouponIssue(t *testing.T) {
	db := newTestDB(t)
	svc := NewCouponService(db)

	t.Run("mints one coupon per multiplier unit", func(t *testing.T) {
		p := createPurchaseRow(t, db, "SN200001")

		issued, err := svc.Issue(db, PurchaseOwner(p), 3)
		require.NoError(t, err)
		require.Len(t, issued, 3)

		codes := map[string]bool{}
		for _, c := range issued {
			assert.Equal(t, models.CouponStatusActive, c.Status)
			assert.Equal(t, models.OwnerClassBuyer, c.OwnerType)
			assert.Equal(t, "SN200001", c.SerialNumber)
			codes[c.Code] = true
		}
		assert.Len(t, codes, 3)
	})

	t.Run("issuing again returns the existing set untouched", func(t *testing.T) {
		p := createPurchaseRow(t, db, "SN200002")

		first, err := svc.Issue(db, PurchaseOwner(p), 2)
		require.NoError(t, err)
		require.Len(t, first, 2)

		again, err := svc.Issue(db, PurchaseOwner(p), 2)
		require.NoError(t, err)
		require.Len(t, again, 2)

		want := map[string]bool{first[0].Code: true, first[1].Code: true}
		for _, c := range again {
			assert.True(t, want[c.Code], "re-issue returned a code outside the original set")
		}

		var count int64
		require.NoError(t, db.Model(&models.Coupon{}).Where("purchase_id = ?", p.ID).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})

	t.Run("cardinality mismatch with the stored set is an integrity violation", func(t *testing.T) {
		p := createPurchaseRow(t, db, "SN200003")

		_, err := svc.Issue(db, PurchaseOwner(p), 2)
		require.NoError(t, err)

		_, err = svc.Issue(db, PurchaseOwner(p), 5)
		var appErr *apperrors.AppError
		require.ErrorAs(t, err, &appErr)
		assert.Equal(t, http.StatusInternalServerError, appErr.StatusCode)

		var count int64
		require.NoError(t, db.Model(&models.Coupon{}).Where("purchase_id = ?", p.ID).Count(&count).Error)
		assert.EqualValues(t, 2, count)
	})

	t.Run("multiplier below one is refused", func(t *testing.T) {
		p := createPurchaseRow(t, db, "SN200004")

		_, err := svc.Issue(db, PurchaseOwner(p), 0)
		require.Error(t, err)

		var count int64
		require.NoError(t, db.Model(&models.Coupon{}).Where("purchase_id = ?", p.ID).Count(&count).Error)
		assert.Zero(t, count)
	})
}
