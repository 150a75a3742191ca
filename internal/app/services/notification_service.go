package services

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"gorm.io/gorm"
)

// Sender delivers one notification over its channel. The default
// implementation only logs; real email/WhatsApp integrations plug in
// here without the domain services knowing.
type Sender interface {
	Send(log *models.NotificationLog) error
}

type LogSender struct{}

func NewLogSender() *LogSender {
	return &LogSender{}
}

func (s *LogSender) Send(log *models.NotificationLog) error {
	logrus.WithFields(logrus.Fields{
		"recipient": log.Recipient,
		"channel":   log.Channel,
		"kind":      log.Kind,
	}).Info(log.Subject)
	return nil
}

type NotificationService struct {
	db     *gorm.DB
	sender Sender
}

func NewNotificationService(db *gorm.DB, sender Sender) *NotificationService {
	return &NotificationService{
		db:     db,
		sender: sender,
	}
}

// Queue records a notification and attempts delivery once. Runs after
// the owning domain transaction has committed; any failure here is
// recorded on the log row and never propagated to the caller. Reports
// whether the delivery attempt succeeded.
func (s *NotificationService) Queue(recipient string, channel models.NotificationChannel, kind models.NotificationKind, subject, body string) bool {
	log := &models.NotificationLog{
		Recipient: recipient,
		Channel:   channel,
		Kind:      kind,
		Subject:   subject,
		Body:      body,
		Status:    models.NotificationStatusPending,
	}

	if err := s.db.Create(log).Error; err != nil {
		logrus.Errorf("failed to record notification for %s: %v", recipient, err)
		return false
	}

	return s.attempt(log)
}

func (s *NotificationService) attempt(log *models.NotificationLog) bool {
	log.Attempts++

	sent := true
	if err := s.sender.Send(log); err != nil {
		msg := err.Error()
		log.Status = models.NotificationStatusFailed
		log.LastError = &msg
		sent = false
		logrus.Errorf("notification delivery failed for %s: %v", log.Recipient, err)
	} else {
		now := time.Now()
		log.Status = models.NotificationStatusSent
		log.SentAt = &now
		log.LastError = nil
	}

	if err := s.db.Save(log).Error; err != nil {
		logrus.Errorf("failed to update notification log %s: %v", log.ID, err)
	}

	return sent
}

// NotifyApproval is called after an approval transaction commits.
func (s *NotificationService) NotifyApproval(recipient, fullName string, couponCodes []string) {
	body := fmt.Sprintf("Hi %s, your registration was approved. Your coupon codes: %v", fullName, couponCodes)
	s.Queue(recipient, models.NotificationChannelEmail, models.NotificationKindApproval, "Registration approved", body)
}

// NotifyWinners is called after a draw transaction commits, one
// notification per winner row. A winner is only marked notified once a
// delivery actually went out; failed sends stay in the log for
// RetryPending.
func (s *NotificationService) NotifyWinners(winners []models.DrawWinner) {
	for i := range winners {
		w := &winners[i]
		body := fmt.Sprintf("Congratulations %s! Coupon %s was drawn as %s #%d.",
			w.OwnerName, w.CouponCode, w.WinnerType, w.Position)
		sent := s.Queue(w.OwnerEmail, models.NotificationChannelEmail, models.NotificationKindWinner, "You are a winner", body)
		if !sent {
			continue
		}

		if err := s.db.Model(w).Update("is_notified", true).Error; err != nil {
			logrus.Errorf("failed to mark winner %s notified: %v", w.ID, err)
		}
	}
}

// RetryPending re-attempts every PENDING or FAILED notification and
// returns how many were retried.
func (s *NotificationService) RetryPending() (int, error) {
	var logs []models.NotificationLog
	err := s.db.Where("status IN ?", []models.NotificationStatus{
		models.NotificationStatusPending,
		models.NotificationStatusFailed,
	}).Find(&logs).Error
	if err != nil {
		return 0, errors.NewInternalServerError(err, "Failed to load pending notifications")
	}

	for i := range logs {
		s.attempt(&logs[i])
	}

	return len(logs), nil
}
