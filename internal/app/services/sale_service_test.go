package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tvsorteo/campaign-core/internal/app/models"
)

func TestSaleReject(t *testing.T) {
	t.Run("rejection after approval is refused and coupons survive", func(t *testing.T) {
		s := newTestServices(t, NewLogSender())
		seedSerial(t, s.db, "SN400001", 2)
		sale := seedPendingSale(t, s.db, "SN400001")

		_, err := s.sales.Approve(sale.ID.String(), "carla")
		require.NoError(t, err)

		_, err = s.sales.Reject(sale.ID.String(), "bruno", &models.RejectRequest{Reason: "not a partner store"})
		requireConflict(t, err)

		var stored models.Sale
		require.NoError(t, s.db.First(&stored, "id = ?", sale.ID).Error)
		assert.Equal(t, models.RegistrationStatusApproved, stored.Status)

		var active int64
		require.NoError(t, s.db.Model(&models.Coupon{}).
			Where("sale_id = ? AND status = ?", sale.ID, models.CouponStatusActive).
			Count(&active).Error)
		assert.EqualValues(t, 2, active)
	})

	t.Run("rejection keeps the seller track consumed", func(t *testing.T) {
		s := newTestServices(t, NewLogSender())
		seedSerial(t, s.db, "SN400002", 2)
		sale := seedPendingSale(t, s.db, "SN400002")

		rejected, err := s.sales.Reject(sale.ID.String(), "carla", &models.RejectRequest{Reason: "receipt does not match"})
		require.NoError(t, err)
		assert.Equal(t, models.RegistrationStatusRejected, rejected.Status)

		var entry models.SerialEntry
		require.NoError(t, s.db.Where("serial_number = ?", "SN400002").First(&entry).Error)
		assert.Equal(t, models.SerialStatusUsed, entry.SellerStatus)
	})
}
