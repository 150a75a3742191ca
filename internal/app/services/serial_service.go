package services

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/infrastructures"
	"gorm.io/gorm"
)

type SerialService struct {
	db        *gorm.DB
	validator *infrastructures.Validator
}

func NewSerialService(db *gorm.DB, validator *infrastructures.Validator) *SerialService {
	return &SerialService{
		db:        db,
		validator: validator,
	}
}

// NormalizeSerial is applied to every serial before it touches the
// catalogue: trimmed, uppercased.
func NormalizeSerial(serial string) string {
	return strings.ToUpper(strings.TrimSpace(serial))
}

func trackColumns(class models.OwnerClass) (statusCol, refCol string) {
	if class == models.OwnerClassSeller {
		return "seller_status", "seller_sale_id"
	}
	return "buyer_status", "buyer_purchase_id"
}

func (s *SerialService) CreateSerial(req *models.SerialCreateRequest) (*models.SerialEntry, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	serial := NormalizeSerial(req.SerialNumber)

	var existing models.SerialEntry
	err := s.db.Where("serial_number = ?", serial).First(&existing).Error
	if err == nil {
		return nil, errors.NewConflictError("Serial number already exists")
	}

	entry := &models.SerialEntry{
		SerialNumber:     serial,
		Tier:             req.Tier,
		CouponMultiplier: req.CouponMultiplier,
		ProductName:      req.ProductName,
		ProductPrice:     req.ProductPrice,
		BuyerStatus:      models.SerialStatusAvailable,
		SellerStatus:     models.SerialStatusAvailable,
	}

	if err := s.db.Create(entry).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to create serial entry")
	}

	return entry, nil
}

// ImportSerials inserts catalogue rows in bulk. A duplicate serial
// fails its own row and the batch continues; the result reports every
// row so the operator can fix and re-upload only the failures.
func (s *SerialService) ImportSerials(req *models.SerialImportRequest) (*models.SerialImportResult, error) {
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	result := &models.SerialImportResult{
		Rows: make([]models.SerialImportRowResult, 0, len(req.Serials)),
	}

	for i, row := range req.Serials {
		line := i + 1
		if row.SourceLine > 0 {
			line = row.SourceLine
		}
		rowResult := models.SerialImportRowResult{
			Row:          line,
			SerialNumber: NormalizeSerial(row.SerialNumber),
		}

		if _, err := s.CreateSerial(&row); err != nil {
			rowResult.Error = err.Error()
			result.Failed++
		} else {
			rowResult.Success = true
			result.Imported++
		}

		result.Rows = append(result.Rows, rowResult)
	}

	return result, nil
}

// ImportSerialsCSV reads rows of the form
// serial_number,tier,coupon_multiplier,product_name,product_price
// with an optional header line.
func (s *SerialService) ImportSerialsCSV(r io.Reader) (*models.SerialImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.NewBadRequestError("Invalid CSV body: " + err.Error())
	}

	req := &models.SerialImportRequest{}
	for i, record := range records {
		if i == 0 && len(record) > 0 && strings.EqualFold(record[0], "serial_number") {
			continue
		}
		if len(record) < 4 {
			return nil, errors.NewBadRequestError(fmt.Sprintf("CSV row %d: expected at least 4 columns", i+1))
		}

		multiplier, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, errors.NewBadRequestError(fmt.Sprintf("CSV row %d: invalid coupon_multiplier", i+1))
		}

		price := decimal.Zero
		if len(record) > 4 && strings.TrimSpace(record[4]) != "" {
			price, err = decimal.NewFromString(strings.TrimSpace(record[4]))
			if err != nil {
				return nil, errors.NewBadRequestError(fmt.Sprintf("CSV row %d: invalid product_price", i+1))
			}
		}

		req.Serials = append(req.Serials, models.SerialCreateRequest{
			SerialNumber:     record[0],
			Tier:             models.ProductTier(strings.ToUpper(strings.TrimSpace(record[1]))),
			CouponMultiplier: multiplier,
			ProductName:      strings.TrimSpace(record[3]),
			ProductPrice:     price,
			SourceLine:       i + 1,
		})
	}

	return s.ImportSerials(req)
}

func (s *SerialService) GetSerial(serial string) (*models.SerialEntry, error) {
	var entry models.SerialEntry
	err := s.db.Where("serial_number = ?", NormalizeSerial(serial)).First(&entry).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.NewNotFoundError("Serial number not found")
		}
		return nil, errors.NewInternalServerError(err, "Failed to get serial entry")
	}
	return &entry, nil
}

// Lookup returns the catalogue data plus the status of the requested
// owner-class track only.
func (s *SerialService) Lookup(serial string, class models.OwnerClass) (*models.SerialLookupResponse, error) {
	entry, err := s.GetSerial(serial)
	if err != nil {
		return nil, err
	}

	return &models.SerialLookupResponse{
		SerialNumber:     entry.SerialNumber,
		OwnerClass:       class,
		Status:           entry.StatusFor(class),
		Tier:             entry.Tier,
		CouponMultiplier: entry.CouponMultiplier,
		ProductName:      entry.ProductName,
		ProductPrice:     entry.ProductPrice,
	}, nil
}

// Reserve flips the track from AVAILABLE to USED and stamps the owner
// reference in one conditional UPDATE. Concurrent registrations racing
// on the same serial see exactly one winner; the losers get a conflict
// and no row is partially mutated. Must run inside the transaction
// that creates the referencing Purchase/Sale.
func (s *SerialService) Reserve(tx *gorm.DB, serial string, class models.OwnerClass, ownerID uuid.UUID) error {
	serial = NormalizeSerial(serial)
	statusCol, refCol := trackColumns(class)

	res := tx.Model(&models.SerialEntry{}).
		Where("serial_number = ? AND "+statusCol+" = ?", serial, models.SerialStatusAvailable).
		Updates(map[string]interface{}{
			statusCol: models.SerialStatusUsed,
			refCol:    ownerID,
		})
	if res.Error != nil {
		return errors.NewInternalServerError(res.Error, "Failed to reserve serial")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	// CAS missed: tell the caller whether the serial is unknown,
	// frozen, or already consumed.
	var entry models.SerialEntry
	if err := tx.Where("serial_number = ?", serial).First(&entry).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return errors.NewNotFoundError("Serial number not found")
		}
		return errors.NewInternalServerError(err, "Failed to reserve serial")
	}
	if entry.StatusFor(class) == models.SerialStatusBlocked {
		return errors.NewConflictError("Serial number is blocked")
	}
	return errors.NewConflictError("Serial number has already been used")
}

// Release resets the track to AVAILABLE and clears the owner
// reference. Administrative only: reached through the hard-delete
// cascade, never through rejection.
func (s *SerialService) Release(tx *gorm.DB, serial string, class models.OwnerClass) error {
	statusCol, refCol := trackColumns(class)

	res := tx.Model(&models.SerialEntry{}).
		Where("serial_number = ?", NormalizeSerial(serial)).
		Updates(map[string]interface{}{
			statusCol: models.SerialStatusAvailable,
			refCol:    nil,
		})
	if res.Error != nil {
		return errors.NewInternalServerError(res.Error, "Failed to release serial")
	}
	if res.RowsAffected == 0 {
		return errors.NewNotFoundError("Serial number not found")
	}
	return nil
}

// SetBlocked freezes or unfreezes one track. Blocking only applies to
// serials not yet consumed on that track.
func (s *SerialService) SetBlocked(serial string, class models.OwnerClass, blocked bool) (*models.SerialEntry, error) {
	entry, err := s.GetSerial(serial)
	if err != nil {
		return nil, err
	}

	current := entry.StatusFor(class)
	if current == models.SerialStatusUsed {
		return nil, errors.NewConflictError("Serial number has already been used")
	}

	target := models.SerialStatusAvailable
	if blocked {
		target = models.SerialStatusBlocked
	}

	statusCol, _ := trackColumns(class)
	if err := s.db.Model(entry).Update(statusCol, target).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to update serial status")
	}

	return s.GetSerial(serial)
}

// DeleteSerial removes a catalogue row. Only permitted while both
// tracks are still AVAILABLE; a consumed serial is kept forever.
func (s *SerialService) DeleteSerial(serial string) error {
	entry, err := s.GetSerial(serial)
	if err != nil {
		return err
	}

	if entry.BuyerStatus == models.SerialStatusUsed || entry.SellerStatus == models.SerialStatusUsed {
		return errors.NewConflictError("Serial number has already been used and cannot be deleted")
	}

	if err := s.db.Delete(entry).Error; err != nil {
		return errors.NewInternalServerError(err, "Failed to delete serial entry")
	}

	return nil
}

func (s *SerialService) GetSerials(pagination *models.PaginationRequest, tier *models.ProductTier) (*models.Pagination[[]models.SerialEntry], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	countQuery := s.db.Model(&models.SerialEntry{})
	if tier != nil {
		countQuery = countQuery.Where("tier = ?", *tier)
	}

	var totalItems int64
	if err := countQuery.Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count serial entries")
	}

	var entries []models.SerialEntry
	query := s.db.Order("created_at DESC")
	if tier != nil {
		query = query.Where("tier = ?", *tier)
	}

	err := query.Limit(pagination.Limit).Offset(offset).Find(&entries).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get serial entries")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.SerialEntry]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      entries,
	}, nil
}
