package services

import (
	"bytes"
	"fmt"

	"github.com/tvsorteo/campaign-core/internal/app/errors"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// ExportService builds read-only xlsx projections for the back office.
// No write semantics: exports never touch domain state.
type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) *ExportService {
	return &ExportService{
		db: db,
	}
}

func writeRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

func (s *ExportService) ExportPurchases() (*bytes.Buffer, error) {
	var purchases []models.Purchase
	if err := s.db.Order("created_at ASC").Find(&purchases).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to load purchases for export")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Purchases"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"ID", "Full Name", "Document ID", "Email", "Phone", "Serial", "Product", "Status", "Reject Reason", "Created At"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to write export header")
	}

	for i, p := range purchases {
		reason := ""
		if p.RejectReason != nil {
			reason = *p.RejectReason
		}
		row := []interface{}{
			p.ID.String(), p.FullName, p.DocumentID, p.Email, p.Phone,
			p.SerialNumber, p.ProductName, string(p.Status), reason,
			p.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, errors.NewInternalServerError(err, fmt.Sprintf("Failed to write export row %d", i+2))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to build purchases workbook")
	}
	return buf, nil
}

func (s *ExportService) ExportWinners() (*bytes.Buffer, error) {
	var winners []models.DrawWinner
	err := s.db.Order("winner_type ASC, position ASC").Find(&winners).Error
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to load winners for export")
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := "Winners"
	f.SetSheetName("Sheet1", sheet)

	header := []interface{}{"Draw", "Tier", "Position", "Coupon Code", "Name", "Email", "Phone", "Notified", "Disqualified"}
	if err := writeRow(f, sheet, 1, header); err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to write export header")
	}

	for i, w := range winners {
		disqualified := ""
		if w.DisqualifiedAt != nil {
			disqualified = w.DisqualifiedAt.Format("2006-01-02 15:04:05")
		}
		row := []interface{}{
			w.DrawID.String(), string(w.WinnerType), w.Position, w.CouponCode,
			w.OwnerName, w.OwnerEmail, w.OwnerPhone, w.IsNotified, disqualified,
		}
		if err := writeRow(f, sheet, i+2, row); err != nil {
			return nil, errors.NewInternalServerError(err, fmt.Sprintf("Failed to write export row %d", i+2))
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to build winners workbook")
	}
	return buf, nil
}
