package services

import (
	"context"
	"time"

	"github.com/bsm/redislock"
	"github.com/google/uuid"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"github.com/tvsorteo/campaign-core/internal/infrastructures"
	"gorm.io/gorm"
)

const (
	drawLockKey = "campaign:draw:lock"
	drawLockTTL = 2 * time.Minute
)

type DrawService struct {
	db                  *gorm.DB
	validator           *infrastructures.Validator
	locker              *redislock.Client
	auditService        *AuditService
	notificationService *NotificationService
}

func NewDrawService(db *gorm.DB, validator *infrastructures.Validator, locker *redislock.Client, auditService *AuditService, notificationService *NotificationService) *DrawService {
	return &DrawService{
		db:                  db,
		validator:           validator,
		locker:              locker,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

// sampleCoupons draws n coupons uniformly without replacement via a
// partial Fisher-Yates shuffle over a copy of the pool. The returned
// order is the draw order.
func sampleCoupons(pool []models.Coupon, n int) []models.Coupon {
	if n > len(pool) {
		n = len(pool)
	}
	shuffled := make([]models.Coupon, len(pool))
	copy(shuffled, pool)
	for i := 0; i < n; i++ {
		j := i + pkg.RandomIntn(len(shuffled)-i)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled[:n]
}

// countParticipants counts distinct registrations behind the pool.
func countParticipants(pool []models.Coupon) int {
	owners := make(map[string]struct{}, len(pool))
	for i := range pool {
		owners[pool[i].OwnerKey()] = struct{}{}
	}
	return len(owners)
}

// ownerSnapshot is the winner identity denormalized at draw time.
type ownerSnapshot struct {
	Name  string
	Email string
	Phone string
}

func (s *DrawService) loadOwnerSnapshots(tx *gorm.DB, coupons []models.Coupon) (map[uuid.UUID]ownerSnapshot, error) {
	var purchaseIDs, saleIDs []uuid.UUID
	for i := range coupons {
		if coupons[i].PurchaseID != nil {
			purchaseIDs = append(purchaseIDs, *coupons[i].PurchaseID)
		}
		if coupons[i].SaleID != nil {
			saleIDs = append(saleIDs, *coupons[i].SaleID)
		}
	}

	snapshots := make(map[uuid.UUID]ownerSnapshot)

	if len(purchaseIDs) > 0 {
		var purchases []models.Purchase
		if err := tx.Where("id IN ?", purchaseIDs).Find(&purchases).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to load winner purchases")
		}
		for i := range purchases {
			snapshots[purchases[i].ID] = ownerSnapshot{
				Name:  purchases[i].FullName,
				Email: purchases[i].Email,
				Phone: purchases[i].Phone,
			}
		}
	}

	if len(saleIDs) > 0 {
		var sales []models.Sale
		if err := tx.Where("id IN ?", saleIDs).Find(&sales).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to load winner sales")
		}
		for i := range sales {
			snapshots[sales[i].ID] = ownerSnapshot{
				Name:  sales[i].FullName,
				Email: sales[i].Email,
				Phone: sales[i].Phone,
			}
		}
	}

	return snapshots, nil
}

func (s *DrawService) snapshotFor(c *models.Coupon, snapshots map[uuid.UUID]ownerSnapshot) ownerSnapshot {
	if c.PurchaseID != nil {
		return snapshots[*c.PurchaseID]
	}
	if c.SaleID != nil {
		return snapshots[*c.SaleID]
	}
	return ownerSnapshot{}
}

// Execute runs the campaign draw exactly once. The redis lock
// serializes contenders; the transaction plus the single-executed-draw
// check makes the result exclusive and all-or-nothing: either the
// DrawResult, every winner row and every coupon flip commit together,
// or nothing does.
func (s *DrawService) Execute(req *models.DrawExecuteRequest, executedBy string) (*models.DrawExecuteResponse, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if req.FinalistsCount > req.PreselectedCount {
		return nil, errors.NewUnprocessableEntityError("finalists_count must not exceed preselected_count")
	}

	ctx := context.Background()
	lock, err := s.locker.Obtain(ctx, drawLockKey, drawLockTTL, nil)
	if err == redislock.ErrNotObtained {
		return nil, errors.NewConflictError("A draw is already in progress")
	}
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to acquire draw lock")
	}
	defer lock.Release(ctx)

	var response *models.DrawExecuteResponse

	err = s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.DrawResult
		err := tx.Where("status = ?", models.DrawStatusExecuted).First(&existing).Error
		if err == nil {
			return errors.NewConflictError("The draw has already been executed")
		}
		if err != gorm.ErrRecordNotFound {
			return errors.NewInternalServerError(err, "Failed to check previous draws")
		}

		// Snapshot the pool under row locks so no coupon changes
		// status mid-draw.
		var pool []models.Coupon
		if err := tx.Set("gorm:query_option", "FOR UPDATE").
			Where("status = ?", models.CouponStatusActive).
			Order("created_at ASC").
			Find(&pool).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to snapshot active coupons")
		}
		if len(pool) == 0 {
			return errors.NewUnprocessableEntityError("No active coupons to draw from")
		}

		preselectedCount := req.PreselectedCount
		finalistsCount := req.FinalistsCount
		clamped := false
		if preselectedCount > len(pool) {
			preselectedCount = len(pool)
			clamped = true
		}
		if finalistsCount > preselectedCount {
			finalistsCount = preselectedCount
			clamped = true
		}

		now := time.Now()
		draw := &models.DrawResult{
			Status:            models.DrawStatusExecuted,
			PreselectedCount:  preselectedCount,
			FinalistsCount:    finalistsCount,
			TotalTickets:      len(pool),
			TotalParticipants: countParticipants(pool),
			Clamped:           clamped,
			ExecutedBy:        executedBy,
			ExecutedAt:        &now,
		}
		if err := tx.Create(draw).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create draw result")
		}

		preselected := sampleCoupons(pool, preselectedCount)
		// Finalists are a sub-sample of the preselected set, never a
		// fresh draw over the whole pool: a finalist who was never
		// preselected must be impossible.
		finalists := sampleCoupons(preselected, finalistsCount)

		snapshots, err := s.loadOwnerSnapshots(tx, preselected)
		if err != nil {
			return err
		}

		buildWinner := func(c *models.Coupon, winnerType models.WinnerType, position int) models.DrawWinner {
			snap := s.snapshotFor(c, snapshots)
			return models.DrawWinner{
				DrawID:     draw.ID,
				CouponID:   c.ID,
				CouponCode: c.Code,
				WinnerType: winnerType,
				Position:   position,
				OwnerName:  snap.Name,
				OwnerEmail: snap.Email,
				OwnerPhone: snap.Phone,
			}
		}

		winners := make([]models.DrawWinner, 0, len(preselected)+len(finalists))
		couponIDs := make([]uuid.UUID, 0, len(preselected))
		for i := range preselected {
			winners = append(winners, buildWinner(&preselected[i], models.WinnerTypePreselected, i+1))
			couponIDs = append(couponIDs, preselected[i].ID)
		}
		for i := range finalists {
			winners = append(winners, buildWinner(&finalists[i], models.WinnerTypeFinalist, i+1))
		}

		if err := tx.Create(&winners).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create draw winners")
		}

		if err := tx.Model(&models.Coupon{}).
			Where("id IN ?", couponIDs).
			Update("status", models.CouponStatusWinner).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to mark winning coupons")
		}

		response = &models.DrawExecuteResponse{
			Draw:        draw,
			Preselected: winners[:len(preselected)],
			Finalists:   winners[len(preselected):],
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.notificationService.NotifyWinners(response.Preselected)

	if err := s.auditService.LogAudit("draw_results", response.Draw.ID, models.AuditActionDrawExecute, nil, response.Draw, &executedBy); err != nil {
		infrastructures.GetLogger().Errorf("failed to audit draw %s: %v", response.Draw.ID, err)
	}

	return response, nil
}

func (s *DrawService) GetDraw(drawId string) (*models.DrawResult, error) {
	drawUUID, err := uuid.Parse(drawId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid draw ID format")
	}

	var draw models.DrawResult
	err = s.db.Where("id = ?", drawUUID).First(&draw).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Draw not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get draw")
	}

	return &draw, nil
}

func (s *DrawService) GetDraws() ([]models.DrawResult, error) {
	var draws []models.DrawResult
	if err := s.db.Order("created_at DESC").Find(&draws).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get draws")
	}
	return draws, nil
}

func (s *DrawService) GetWinners(drawId string) ([]models.DrawWinner, error) {
	draw, err := s.GetDraw(drawId)
	if err != nil {
		return nil, err
	}

	var winners []models.DrawWinner
	err = s.db.Where("draw_id = ?", draw.ID).
		Order("winner_type ASC, position ASC").
		Find(&winners).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get draw winners")
	}

	return winners, nil
}

// DisqualifyWinner appends a disqualification to one winner row and
// voids the coupon. The draw itself is never reopened or re-run, and
// no replacement winner is promoted automatically.
func (s *DrawService) DisqualifyWinner(drawId, winnerId, reason, disqualifiedBy string) (*models.DrawWinner, error) {
	if reason == "" {
		return nil, errors.NewBadRequestError("Disqualification reason is required")
	}

	draw, err := s.GetDraw(drawId)
	if err != nil {
		return nil, err
	}

	winnerUUID, err := uuid.Parse(winnerId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid winner ID format")
	}

	var winner models.DrawWinner
	err = s.db.Where("id = ? AND draw_id = ?", winnerUUID, draw.ID).First(&winner).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Winner not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get winner")
	}

	if winner.DisqualifiedAt != nil {
		return nil, errors.NewConflictError("Winner has already been disqualified")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		now := time.Now()
		winner.DisqualifiedAt = &now
		winner.DisqualifiedReason = &reason

		if err := tx.Save(&winner).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to disqualify winner")
		}

		// The companion row in the other tier carries the same coupon;
		// disqualify it too so the coupon is out of both tiers.
		if err := tx.Model(&models.DrawWinner{}).
			Where("draw_id = ? AND coupon_id = ? AND id != ?", draw.ID, winner.CouponID, winner.ID).
			Updates(map[string]interface{}{
				"disqualified_at":     now,
				"disqualified_reason": reason,
			}).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to disqualify companion winner rows")
		}

		if err := tx.Model(&models.Coupon{}).
			Where("id = ?", winner.CouponID).
			Update("status", models.CouponStatusVoid).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to void winning coupon")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.auditService.LogAudit("draw_winners", winner.ID, models.AuditActionDisqualify, nil, &winner, &disqualifiedBy); err != nil {
		infrastructures.GetLogger().Errorf("failed to audit disqualification of %s: %v", winner.ID, err)
	}

	return &winner, nil
}
