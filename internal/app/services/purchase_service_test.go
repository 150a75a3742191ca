package services

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
)

func TestIsAdult(t *testing.T) {
	now := time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)

	t.Run("exactly 18 today is eligible", func(t *testing.T) {
		birth := time.Date(2008, 9, 1, 12, 0, 0, 0, time.UTC)
		assert.True(t, IsAdult(birth, now))
	})

	t.Run("18 tomorrow is not eligible", func(t *testing.T) {
		birth := time.Date(2008, 9, 2, 12, 0, 0, 0, time.UTC)
		assert.False(t, IsAdult(birth, now))
	})

	t.Run("well over 18 is eligible", func(t *testing.T) {
		birth := time.Date(1980, 1, 15, 0, 0, 0, 0, time.UTC)
		assert.True(t, IsAdult(birth, now))
	})

	t.Run("minor is not eligible", func(t *testing.T) {
		birth := time.Date(2015, 6, 30, 0, 0, 0, 0, time.UTC)
		assert.False(t, IsAdult(birth, now))
	})
}

func requireConflict(t *testing.T, err error) {
	t.Helper()

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusConflict, appErr.StatusCode)
}

func TestPurchaseReject(t *testing.T) {
	t.Run("rejection keeps the serial consumed and issues nothing", func(t *testing.T) {
		s := newTestServices(t, NewLogSender())
		seedSerial(t, s.db, "SN100001", 3)
		p := seedPendingPurchase(t, s.db, "SN100001")

		rejected, err := s.purchases.Reject(p.ID.String(), "carla", &models.RejectRequest{Reason: "blurry invoice photo"})
		require.NoError(t, err)
		assert.Equal(t, models.RegistrationStatusRejected, rejected.Status)
		require.NotNil(t, rejected.RejectReason)
		assert.Equal(t, "blurry invoice photo", *rejected.RejectReason)

		var entry models.SerialEntry
		require.NoError(t, s.db.Where("serial_number = ?", "SN100001").First(&entry).Error)
		assert.Equal(t, models.SerialStatusUsed, entry.BuyerStatus)

		var coupons int64
		require.NoError(t, s.db.Model(&models.Coupon{}).Where("purchase_id = ?", p.ID).Count(&coupons).Error)
		assert.Zero(t, coupons)
	})

	t.Run("rejection after approval is refused and coupons survive", func(t *testing.T) {
		s := newTestServices(t, NewLogSender())
		seedSerial(t, s.db, "SN100002", 3)
		p := seedPendingPurchase(t, s.db, "SN100002")

		_, err := s.purchases.Approve(p.ID.String(), "carla")
		require.NoError(t, err)

		_, err = s.purchases.Reject(p.ID.String(), "bruno", &models.RejectRequest{Reason: "duplicate invoice"})
		requireConflict(t, err)

		var stored models.Purchase
		require.NoError(t, s.db.First(&stored, "id = ?", p.ID).Error)
		assert.Equal(t, models.RegistrationStatusApproved, stored.Status)
		assert.Nil(t, stored.RejectReason)

		var active int64
		require.NoError(t, s.db.Model(&models.Coupon{}).
			Where("purchase_id = ? AND status = ?", p.ID, models.CouponStatusActive).
			Count(&active).Error)
		assert.EqualValues(t, 3, active)
	})

	t.Run("second rejection is refused", func(t *testing.T) {
		s := newTestServices(t, NewLogSender())
		seedSerial(t, s.db, "SN100003", 1)
		p := seedPendingPurchase(t, s.db, "SN100003")

		_, err := s.purchases.Reject(p.ID.String(), "carla", &models.RejectRequest{Reason: "blurry invoice photo"})
		require.NoError(t, err)

		_, err = s.purchases.Reject(p.ID.String(), "bruno", &models.RejectRequest{Reason: "duplicate invoice"})
		requireConflict(t, err)
	})
}

func TestPurchaseContactAndDocumentCheck(t *testing.T) {
	s := newTestServices(t, NewLogSender())
	seedSerial(t, s.db, "SN100004", 2)
	p := seedPendingPurchase(t, s.db, "SN100004")

	approved, err := s.purchases.Approve(p.ID.String(), "carla")
	require.NoError(t, err)

	email := "novo@example.com"
	_, err = s.purchases.UpdateContact(p.ID.String(), &models.ContactUpdateRequest{Email: &email})
	require.NoError(t, err)

	notes := "stamp unreadable"
	_, err = s.purchases.ApplyDocumentCheck(p.ID.String(), &models.DocumentCheckRequest{Valid: false, Notes: &notes})
	require.NoError(t, err)

	// Neither edit may touch the review outcome.
	var stored models.Purchase
	require.NoError(t, s.db.First(&stored, "id = ?", p.ID).Error)
	assert.Equal(t, models.RegistrationStatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedAt)
	assert.Equal(t, approved.ApprovedAt.Unix(), stored.ApprovedAt.Unix())
	require.NotNil(t, stored.ReviewedBy)
	assert.Equal(t, "carla", *stored.ReviewedBy)

	assert.Equal(t, "novo@example.com", stored.Email)
	assert.Equal(t, "Ana Souza", stored.FullName)
	require.NotNil(t, stored.DocCheckValid)
	assert.False(t, *stored.DocCheckValid)
	require.NotNil(t, stored.DocCheckNotes)
	assert.Equal(t, "stamp unreadable", *stored.DocCheckNotes)
}
