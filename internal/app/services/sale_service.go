package services

import (
	"time"

	"github.com/google/uuid"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/infrastructures"
	"gorm.io/gorm"
)

// SaleService runs the seller track. Same machinery as the buyer
// track over the seller columns of the serial catalogue; sellers are
// retail staff, so there is no age gate.
type SaleService struct {
	db                  *gorm.DB
	validator           *infrastructures.Validator
	serialService       *SerialService
	couponService       *CouponService
	auditService        *AuditService
	notificationService *NotificationService
}

func NewSaleService(db *gorm.DB, validator *infrastructures.Validator, serialService *SerialService, couponService *CouponService, auditService *AuditService, notificationService *NotificationService) *SaleService {
	return &SaleService{
		db:                  db,
		validator:           validator,
		serialService:       serialService,
		couponService:       couponService,
		auditService:        auditService,
		notificationService: notificationService,
	}
}

func (s *SaleService) Submit(req *models.SaleSubmitRequest) (*models.Sale, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}
	if !req.TermsAccepted {
		return nil, errors.NewBadRequestError("Terms and conditions must be accepted")
	}

	entry, err := s.serialService.GetSerial(req.SerialNumber)
	if err != nil {
		return nil, err
	}

	sale := &models.Sale{
		FullName:     req.FullName,
		DocumentID:   req.DocumentID,
		Email:        req.Email,
		Phone:        req.Phone,
		StoreName:    req.StoreName,
		SerialNumber: entry.SerialNumber,
		ProductName:  entry.ProductName,
		Status:       models.RegistrationStatusPending,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(sale).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to create sale")
		}
		return s.serialService.Reserve(tx, entry.SerialNumber, models.OwnerClassSeller, sale.ID)
	})
	if err != nil {
		return nil, err
	}

	return sale, nil
}

func (s *SaleService) GetSale(saleId string) (*models.Sale, error) {
	saleUUID, err := uuid.Parse(saleId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid sale ID format")
	}

	var sale models.Sale
	err = s.db.Where("id = ?", saleUUID).First(&sale).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Sale not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get sale")
	}

	return &sale, nil
}

func (s *SaleService) Approve(saleId, reviewer string) (*models.Sale, error) {
	var sale models.Sale

	saleUUID, err := uuid.Parse(saleId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid sale ID format")
	}

	var coupons []models.Coupon
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").Where("id = ?", saleUUID).First(&sale).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewNotFoundError("Sale not found")
			}
			return errors.NewInternalServerError(err, "Failed to get sale")
		}

		if sale.Status.IsTerminal() {
			return errors.NewConflictError("Sale has already been reviewed")
		}

		entry, err := s.serialService.GetSerial(sale.SerialNumber)
		if err != nil {
			return err
		}

		now := time.Now()
		sale.Status = models.RegistrationStatusApproved
		sale.ApprovedAt = &now
		sale.ReviewedBy = &reviewer

		if err := tx.Save(&sale).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to approve sale")
		}

		coupons, err = s.couponService.Issue(tx, SaleOwner(&sale), entry.CouponMultiplier)
		return err
	})
	if err != nil {
		return nil, err
	}

	codes := make([]string, len(coupons))
	for i, c := range coupons {
		codes[i] = c.Code
	}
	s.notificationService.NotifyApproval(sale.Email, sale.FullName, codes)

	if err := s.auditService.LogAudit("sales", sale.ID, models.AuditActionStatusChange, nil, &sale, &reviewer); err != nil {
		infrastructures.GetLogger().Errorf("failed to audit approval of %s: %v", sale.ID, err)
	}

	return &sale, nil
}

func (s *SaleService) Reject(saleId, reviewer string, req *models.RejectRequest) (*models.Sale, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	saleUUID, err := uuid.Parse(saleId)
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid sale ID format")
	}

	// Conditional on PENDING so a rejection racing an approval loses
	// instead of overwriting the committed APPROVED row.
	var sale models.Sale
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Set("gorm:query_option", "FOR UPDATE").Where("id = ?", saleUUID).First(&sale).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return errors.NewNotFoundError("Sale not found")
			}
			return errors.NewInternalServerError(err, "Failed to get sale")
		}

		if sale.Status.IsTerminal() {
			return errors.NewConflictError("Sale has already been reviewed")
		}

		res := tx.Model(&models.Sale{}).
			Where("id = ? AND status = ?", sale.ID, models.RegistrationStatusPending).
			Updates(map[string]interface{}{
				"status":        models.RegistrationStatusRejected,
				"reject_reason": req.Reason,
				"reviewed_by":   reviewer,
			})
		if res.Error != nil {
			return errors.NewInternalServerError(res.Error, "Failed to reject sale")
		}
		if res.RowsAffected == 0 {
			return errors.NewConflictError("Sale has already been reviewed")
		}

		sale.Status = models.RegistrationStatusRejected
		sale.RejectReason = &req.Reason
		sale.ReviewedBy = &reviewer
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.auditService.LogAudit("sales", sale.ID, models.AuditActionStatusChange, nil, &sale, &reviewer); err != nil {
		infrastructures.GetLogger().Errorf("failed to audit rejection of %s: %v", sale.ID, err)
	}

	return &sale, nil
}

func (s *SaleService) Delete(saleId, deletedBy string) error {
	sale, err := s.GetSale(saleId)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		owner := SaleOwner(sale)

		hasWinner, err := s.couponService.HasWinnerForOwner(tx, owner)
		if err != nil {
			return err
		}
		if hasWinner {
			return errors.NewConflictError("Sale has a winning coupon and cannot be deleted")
		}

		if err := s.couponService.VoidForOwner(tx, owner); err != nil {
			return err
		}

		if err := s.serialService.Release(tx, sale.SerialNumber, models.OwnerClassSeller); err != nil {
			return err
		}

		if err := tx.Delete(sale).Error; err != nil {
			return errors.NewInternalServerError(err, "Failed to delete sale")
		}

		return nil
	})
	if err != nil {
		return err
	}

	if err := s.auditService.LogAudit("sales", sale.ID, models.AuditActionDelete, sale, nil, &deletedBy); err != nil {
		infrastructures.GetLogger().Errorf("failed to audit deletion of %s: %v", sale.ID, err)
	}

	return nil
}

func (s *SaleService) GetSales(pagination *models.PaginationRequest, status *models.RegistrationStatus) (*models.Pagination[[]models.Sale], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Sale{})
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count sales")
	}

	var sales []models.Sale
	query := s.db.Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Limit(pagination.Limit).Offset(offset).Find(&sales).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get sales")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Sale]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      sales,
	}, nil
}
