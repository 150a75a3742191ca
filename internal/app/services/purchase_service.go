package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/infrastructures"
	"gorm.io/gorm"
)

const minimumAge = 18

type PurchaseService struct {
	db                  *gorm.DB
	validator           *infrastructures.Validator
	serialService       *SerialService
	couponService       *CouponService
	auditService        *AuditService
	notificationService *NotificationService
}

func NewPurchaseService(db *gorm.DB, validator *infrastructures.Validator, serialService *SerialService, couponService *CouponService, auditService *AuditService, notificationService *NotificationService) *PurchaseService {
	return &PurchaseService{
		db:                  db,
		validator:           validator,
		serialService:       serialService,
		couponService:       couponService,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

// IsAdult reports whether the birth date is at least 18 years before
// the reference date.
func IsAdult(birthDate, at time.Time) bool {
	cutoff := birthDate.AddDate(minimumAge, 0, 0)
	return !at.Before(cutoff)
}

// Submit registers a buyer. Eligibility is checked before the serial
// is touched so an invalid submission never burns a serial; then the
// reservation and the purchase row are created in one transaction so
// neither exists without the other.
func (s *PurchaseService) Submit(req *models.PurchaseSubmitRequest) (*models.Purchase, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !req.TermsAccepted {
		return nil, errors.NewBadRequestError("Terms and conditions must be accepted")
	}
	if !IsAdult(req.BirthDate, time.Now()) {
		return nil, errors.NewBadRequestError("Participants must be at least 18 years old")
	}

	entry, err := s.serialService.GetSerial(req.SerialNumber)
	if err != nil {
		return nil, err
	}

	purchase := &models.Purchase{
		FullName:     req.FullName,
		DocumentID:   req.DocumentID,
		Email:        req.Email,
		Phone:        req.Phone,
		BirthDate:    req.BirthDate,
		SerialNumber: entry.SerialNumber,
		ProductName:  entry.ProductName,
		DocumentURLs: strings.Join(req.DocumentURLs, "\n"),
		Status:       models.RegistrationStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(purchase).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create purchase")
		}
		return s.serialService.Reserve(tx, entry.SerialNumber, models.OwnerClassBuyer, purchase.ID)
	})
	if err != nil {
		return nil, err
	}

	return purchase, nil
}

func (s *PurchaseService) GetPurchase(purchaseId string) (*models.Purchase, error) {
	purchaseUUID, err := uuid.Parse(purchaseId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid purchase ID format")
	}

	var purchase models.Purchase
	err = s.db.Where("id = ?", purchaseUUID).First(&purchase).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Purchase not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get purchase")
	}

	return &purchase, nil
}

// Approve moves PENDING -> APPROVED and issues the coupon set in the
// same transaction: a purchase is never APPROVED without its coupons
// and never has coupons without being APPROVED.
func (s *PurchaseService) Approve(purchaseId, reviewer string) (*models.Purchase, error) {
	var purchase models.Purchase
	var coupons []models.Coupon

	purchaseUUID, err := uuid.Parse(purchaseId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid purchase ID format")
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").Where("id = ?", purchaseUUID).First(&purchase).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewNotFoundError("Purchase not found")
			}
			return errors.NewInternalServerError(err, "Failed to get purchase")
		}

		if purchase.Status.IsTerminal() {
			return errors.NewConflictError("Purchase has already been reviewed")
		}

		entry, err := s.serialService.GetSerial(purchase.SerialNumber)
		if err != nil {
			return err
		}

		now := time.Now()
		purchase.Status = models.RegistrationStatusApproved
		purchase.ApprovedAt = &now
		purchase.ReviewedBy = &reviewer

		if err := tx.Save(&purchase).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to approve purchase")
		}

		coupons, err = s.couponService.Issue(tx, PurchaseOwner(&purchase), entry.CouponMultiplier)
		return err
	})
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(coupons))
	for i, c := range coupons {
		codes[i] = c.Code
	}
	s.notificationService.NotifyApproval(purchase.Email, purchase.FullName, codes)

	if err := s.auditService.LogAudit("purchases", purchase.ID, models.AuditActionStatusChange, nil, &purchase, &reviewer); err != nil {
		infrastructures.GetLogger().Errorf("failed to audit approval of %s: %v", purchase.ID, err)
	}

	return &purchase, nil
}

// Reject is terminal and requires a reason. The serial stays USED: a
// rejected registration still consumes the physical unit so the same
// serial cannot be resubmitted. The status write is conditional on
// PENDING so a rejection racing an approval can never overwrite the
// committed APPROVED row and orphan its coupons.
func (s *PurchaseService) Reject(purchaseId, reviewer string, req *models.RejectRequest) (*models.Purchase, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	purchaseUUID, err := uuid.Parse(purchaseId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid purchase ID format")
	}

	var purchase models.Purchase
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").Where("id = ?", purchaseUUID).First(&purchase).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewNotFoundError("Purchase not found")
			}
			return errors.NewInternalServerError(err, "Failed to get purchase")
		}

		if purchase.Status.IsTerminal() {
			return errors.NewConflictError("Purchase has already been reviewed")
		}

		res := tx.Model(&models.Purchase{}).
			Where("id = ? AND status = ?", purchase.ID, models.RegistrationStatusPending).
			Updates(map[string]interface{}{
				"status":        models.RegistrationStatusRejected,
				"reject_reason": req.Reason,
				"reviewed_by":   reviewer,
			})
		if res.Error != nil {
			return errors.NewInternalServerError(res.Error, "Failed to reject purchase")
		}
		if res.RowsAffected == 0 {
			return errors.NewConflictError("Purchase has already been reviewed")
		}

		purchase.Status = models.RegistrationStatusRejected
		purchase.RejectReason = &req.Reason
		purchase.ReviewedBy = &reviewer
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.auditService.LogAudit("purchases", purchase.ID, models.AuditActionStatusChange, nil, &purchase, &reviewer); err != nil {
		infrastructures.GetLogger().Errorf("failed to audit rejection of %s: %v", purchase.ID, err)
	}

	return &purchase, nil
}

// ApplyDocumentCheck attaches the asynchronous verdict of the external
// document-verification service. Advisory only: an administrator still
// approves or rejects manually.
func (s *PurchaseService) ApplyDocumentCheck(purchaseId string, req *models.DocumentCheckRequest) (*models.Purchase, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	purchase, err := s.GetPurchase(purchaseId)
	if err != nil {
		return nil, err
	}

	// Column-scoped so a concurrent review cannot be clobbered by a
	// stale full-row write.
	err = s.db.Model(purchase).Updates(map[string]interface{}{
		"doc_check_valid": req.Valid,
		"doc_check_notes": req.Notes,
	}).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update document check")
	}

	purchase.DocCheckValid = &req.Valid
	purchase.DocCheckNotes = req.Notes

	return purchase, nil
}

// UpdateContact edits factual contact fields at any status. Status is
// never touched here.
func (s *PurchaseService) UpdateContact(purchaseId string, req *models.ContactUpdateRequest) (*models.Purchase, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	purchase, err := s.GetPurchase(purchaseId)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
		purchase.FullName = *req.FullName
	}
	if req.Email != nil {
		updates["email"] = *req.Email
		purchase.Email = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
		purchase.Phone = *req.Phone
	}

	if len(updates) == 0 {
		return purchase, nil
	}

	// Only the contact columns are written; status and review fields
	// stay owned by the approval workflow.
	if err := s.db.Model(purchase).Updates(updates).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update purchase")
	}

	return purchase, nil
}

// Delete is the explicit administrative cascade: coupons become VOID,
// the serial reverts to AVAILABLE for a new owner, the purchase row is
// removed. Refused while any coupon of the purchase has already won.
func (s *PurchaseService) Delete(purchaseId, deletedBy string) error {
	purchase, err := s.GetPurchase(purchaseId)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		owner := PurchaseOwner(purchase)

		hasWinner, err := s.couponService.HasWinnerForOwner(tx, owner)
		if err != nil {
			return err
		}
		if hasWinner {
			return errors.NewConflictError("Purchase has a winning coupon and cannot be deleted")
		}

		if err := s.couponService.VoidForOwner(tx, owner); err != nil {
			return err
		}

		if err := s.serialService.Release(tx, purchase.SerialNumber, models.OwnerClassBuyer); err != nil {
			return err
		}

		if err := tx.Delete(purchase).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete purchase")
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.auditService.LogAudit("purchases", purchase.ID, models.AuditActionDelete, purchase, nil, &deletedBy); err != nil {
		infrastructures.GetLogger().Errorf("failed to audit deletion of %s: %v", purchase.ID, err)
	}

	return nil
}

func (s *PurchaseService) GetPurchases(pagination *models.PaginationRequest, status *models.RegistrationStatus) (*models.Pagination[[]models.Purchase], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Purchase{})
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count purchases")
	}

	var purchases []models.Purchase
	query := s.db.Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Limit(pagination.Limit).Offset(offset).Find(&purchases).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get purchases")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Purchase]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      purchases,
	}, nil
}
