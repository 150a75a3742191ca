package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/app/pkg"
	"gorm.io/gorm"
)

const (
	couponCodeLength      = 8
	couponCodeMaxAttempts = 10
)

type CouponService struct {
	db *gorm.DB
}

func NewCouponService(db *gorm.DB) *CouponService {
	return &CouponService{
		db: db,
	}
}

// CouponOwner abstracts the two registration tracks for issuance.
type CouponOwner struct {
	Class        models.OwnerClass
	PurchaseID   *uuid.UUID
	SaleID       *uuid.UUID
	SerialNumber string
	ProductName  string
}

func PurchaseOwner(p *models.Purchase) CouponOwner {
	return CouponOwner{
		Class:        models.OwnerClassBuyer,
		PurchaseID:   &p.ID,
		SerialNumber: p.SerialNumber,
		ProductName:  p.ProductName,
	}
}

func SaleOwner(s *models.Sale) CouponOwner {
	return CouponOwner{
		Class:        models.OwnerClassSeller,
		SaleID:       &s.ID,
		SerialNumber: s.SerialNumber,
		ProductName:  s.ProductName,
	}
}

func (o CouponOwner) whereClause(tx *gorm.DB) *gorm.DB {
	if o.Class == models.OwnerClassSeller {
		return tx.Where("sale_id = ?", o.SaleID)
	}
	return tx.Where("purchase_id = ?", o.PurchaseID)
}

// Issue mints `multiplier` ACTIVE coupons for the owner inside the
// caller's transaction. Idempotent: an existing full coupon set is
// returned as-is, so a retried approval never yields 2M coupons. An
// existing set with the wrong cardinality is an integrity violation
// and aborts the transaction.
func (s *CouponService) Issue(tx *gorm.DB, owner CouponOwner, multiplier int) ([]models.Coupon, error) {
	if multiplier < 1 {
		return nil, errors.NewIntegrityError("coupon multiplier must be at least 1")
	}

	var existing []models.Coupon
	if err := owner.whereClause(tx.Model(&models.Coupon{})).Find(&existing).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to check existing coupons")
	}
	if len(existing) > 0 {
		if len(existing) != multiplier {
			return nil, errors.NewIntegrityError(fmt.Sprintf(
				"coupon set for serial %s has %d coupons, expected %d",
				owner.SerialNumber, len(existing), multiplier))
		}
		return existing, nil
	}

	coupons := make([]models.Coupon, 0, multiplier)
	for i := 0; i < multiplier; i++ {
		code, err := s.generateUniqueCode(tx)
		if err != nil {
			return nil, err
		}

		coupon := models.Coupon{
			Code:         code,
			OwnerType:    owner.Class,
			PurchaseID:   owner.PurchaseID,
			SaleID:       owner.SaleID,
			SerialNumber: owner.SerialNumber,
			ProductName:  owner.ProductName,
			Status:       models.CouponStatusActive,
		}

		if err := tx.Create(&coupon).Error; err != nil {
			return nil, errors.NewInternalServerError(err, "Failed to create coupon")
		}

		coupons = append(coupons, coupon)
	}

	return coupons, nil
}

// generateUniqueCode retries on collision. The unique index on code is
// the hard guarantee; the pre-check keeps collisions out of the happy
// path.
func (s *CouponService) generateUniqueCode(tx *gorm.DB) (string, error) {
	for attempt := 0; attempt < couponCodeMaxAttempts; attempt++ {
		code := pkg.RandomCode(couponCodeLength)

		var count int64
		if err := tx.Model(&models.Coupon{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", errors.NewInternalServerError(err, "Failed to check coupon code")
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.NewConflictError("Could not generate a unique coupon code")
}

// VoidForOwner flips every coupon of a registration to VOID, as part
// of the owner's hard-delete or disqualification cascade.
func (s *CouponService) VoidForOwner(tx *gorm.DB, owner CouponOwner) error {
	err := owner.whereClause(tx.Model(&models.Coupon{})).
		Update("status", models.CouponStatusVoid).Error
	if err != nil {
		return errors.NewInternalServerError(err, "Failed to void coupons")
	}
	return nil
}

// HasWinnerForOwner reports whether any coupon of the registration has
// already won a draw. A registration with a winning coupon cannot be
// hard-deleted.
func (s *CouponService) HasWinnerForOwner(tx *gorm.DB, owner CouponOwner) (bool, error) {
	var count int64
	err := owner.whereClause(tx.Model(&models.Coupon{})).
		Where("status = ?", models.CouponStatusWinner).
		Count(&count).Error
	if err != nil {
		return false, errors.NewInternalServerError(err, "Failed to check winning coupons")
	}
	return count > 0, nil
}

func (s *CouponService) GetCouponsForOwner(owner CouponOwner) ([]models.Coupon, error) {
	var coupons []models.Coupon
	if err := owner.whereClause(s.db.Model(&models.Coupon{})).Order("created_at ASC").Find(&coupons).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get coupons")
	}
	return coupons, nil
}

func (s *CouponService) GetCoupons(pagination *models.PaginationRequest, status *models.CouponStatus) (*models.Pagination[[]models.Coupon], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.Coupon{})
	if status != nil {
		countQuery = countQuery.Where("status = ?", *status)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count coupons")
	}

	var coupons []models.Coupon
	query := s.db.Order("created_at DESC")
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	if err := query.Limit(pagination.Limit).Offset(offset).Find(&coupons).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get coupons")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.Coupon]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      coupons,
	}, nil
}

// CountActive is the eventually-consistent read path behind the public
// pool counter. Staleness is acceptable here.
func (s *CouponService) CountActive() (*models.ActiveCouponCount, error) {
	var coupons int64
	if err := s.db.Model(&models.Coupon{}).Where("status = ?", models.CouponStatusActive).Count(&coupons).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count active coupons")
	}

	var participants int64
	err := s.db.Model(&models.Coupon{}).
		Where("status = ?", models.CouponStatusActive).
		Distinct("COALESCE(purchase_id, sale_id)").
		Count(&participants).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count participants")
	}

	return &models.ActiveCouponCount{
		ActiveCoupons: coupons,
		Participants:  participants,
	}, nil
}
