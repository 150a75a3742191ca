package services

import (
	stderrors "errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"gorm.io/gorm"
)

// flakySender fails the first n sends and delivers the rest.
type flakySender struct {
	failures int
	sent     int
}

func (s *flakySender) Send(log *models.NotificationLog) error {
	if s.failures > 0 {
		s.failures--
		return stderrors.New("smtp connection refused")
	}
	s.sent++
	return nil
}

func createWinnerRow(t *testing.T, db *gorm.DB) *models.DrawWinner {
	t.Helper()

	winner := &models.DrawWinner{
		ID:         uuid.New(),
		DrawID:     uuid.New(),
		CouponID:   uuid.New(),
		CouponCode: "ABCD2345",
		WinnerType: models.WinnerTypeFinalist,
		Position:   1,
		OwnerName:  "Ana Souza",
		OwnerEmail: "ana@example.com",
	}
	require.NoError(t, db.Create(winner).Error)
	return winner
}

func TestNotifyWinners(t *testing.T) {
	t.Run("marks the winner notified after a delivered send", func(t *testing.T) {
		db := newTestDB(t)
		svc := NewNotificationService(db, NewLogSender())
		winner := createWinnerRow(t, db)

		svc.NotifyWinners([]models.DrawWinner{*winner})

		var stored models.DrawWinner
		require.NoError(t, db.First(&stored, "id = ?", winner.ID).Error)
		assert.True(t, stored.IsNotified)

		var sent int64
		require.NoError(t, db.Model(&models.NotificationLog{}).
			Where("status = ?", models.NotificationStatusSent).Count(&sent).Error)
		assert.EqualValues(t, 1, sent)
	})

	t.Run("failed delivery leaves the winner unnotified for retry", func(t *testing.T) {
		db := newTestDB(t)
		sender := &flakySender{failures: 1}
		svc := NewNotificationService(db, sender)
		winner := createWinnerRow(t, db)

		svc.NotifyWinners([]models.DrawWinner{*winner})

		var stored models.DrawWinner
		require.NoError(t, db.First(&stored, "id = ?", winner.ID).Error)
		assert.False(t, stored.IsNotified)

		var failed int64
		require.NoError(t, db.Model(&models.NotificationLog{}).
			Where("status = ?", models.NotificationStatusFailed).Count(&failed).Error)
		assert.EqualValues(t, 1, failed)

		// The failed row stays retryable.
		retried, err := svc.RetryPending()
		require.NoError(t, err)
		assert.Equal(t, 1, retried)
		assert.Equal(t, 1, sender.sent)

		var remaining int64
		require.NoError(t, db.Model(&models.NotificationLog{}).
			Where("status = ?", models.NotificationStatusFailed).Count(&remaining).Error)
		assert.Zero(t, remaining)
	})
}
