package services

import (
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/infrastructures"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// uuidDefault mirrors gen_random_uuid() from the production schema so
// rows created without an explicit ID still get one.
const uuidDefault = "(lower(hex(randomblob(4)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(2)) || '-' || hex(randomblob(6))))"

var testSchema = []string{
	`CREATE TABLE serial_entries (
		id TEXT PRIMARY KEY DEFAULT %s,
		serial_number TEXT NOT NULL UNIQUE,
		tier TEXT NOT NULL,
		coupon_multiplier INTEGER NOT NULL,
		product_name TEXT,
		product_price NUMERIC DEFAULT 0,
		buyer_status TEXT NOT NULL DEFAULT 'AVAILABLE',
		buyer_purchase_id TEXT,
		seller_status TEXT NOT NULL DEFAULT 'AVAILABLE',
		seller_sale_id TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE purchases (
		id TEXT PRIMARY KEY DEFAULT %s,
		full_name TEXT NOT NULL,
		document_id TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		birth_date DATETIME NOT NULL,
		serial_number TEXT NOT NULL,
		product_name TEXT,
		document_urls TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING',
		reject_reason TEXT,
		doc_check_valid INTEGER,
		doc_check_notes TEXT,
		approved_at DATETIME,
		reviewed_by TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE sales (
		id TEXT PRIMARY KEY DEFAULT %s,
		full_name TEXT NOT NULL,
		document_id TEXT NOT NULL,
		email TEXT NOT NULL,
		phone TEXT,
		store_name TEXT,
		serial_number TEXT NOT NULL,
		product_name TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING',
		reject_reason TEXT,
		approved_at DATETIME,
		reviewed_by TEXT,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE coupons (
		id TEXT PRIMARY KEY DEFAULT %s,
		code TEXT NOT NULL UNIQUE,
		owner_type TEXT NOT NULL,
		purchase_id TEXT,
		sale_id TEXT,
		serial_number TEXT NOT NULL,
		product_name TEXT,
		status TEXT NOT NULL DEFAULT 'ACTIVE',
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE notification_logs (
		id TEXT PRIMARY KEY DEFAULT %s,
		recipient TEXT NOT NULL,
		channel TEXT NOT NULL,
		kind TEXT NOT NULL,
		subject TEXT,
		body TEXT,
		status TEXT NOT NULL DEFAULT 'PENDING',
		attempts INTEGER NOT NULL DEFAULT 0,
		last_error TEXT,
		sent_at DATETIME,
		created_at DATETIME,
		updated_at DATETIME
	)`,
	`CREATE TABLE audit_logs (
		id TEXT PRIMARY KEY DEFAULT %s,
		table_name TEXT NOT NULL,
		record_id TEXT NOT NULL,
		action TEXT NOT NULL,
		old_data TEXT,
		new_data TEXT,
		changed_by TEXT,
		changed_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE draw_winners (
		id TEXT PRIMARY KEY DEFAULT %s,
		draw_id TEXT NOT NULL,
		coupon_id TEXT NOT NULL,
		coupon_code TEXT NOT NULL,
		winner_type TEXT NOT NULL,
		position INTEGER NOT NULL,
		owner_name TEXT,
		owner_email TEXT,
		owner_phone TEXT,
		is_notified INTEGER NOT NULL DEFAULT 0,
		disqualified_at DATETIME,
		disqualified_reason TEXT,
		created_at DATETIME
	)`,
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "campaign.db") + "?_pragma=busy_timeout(5000)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	for _, stmt := range testSchema {
		require.NoError(t, db.Exec(fmt.Sprintf(stmt, uuidDefault)).Error)
	}

	return db
}

type testServices struct {
	db            *gorm.DB
	serials       *SerialService
	coupons       *CouponService
	purchases     *PurchaseService
	sales         *SaleService
	notifications *NotificationService
}

func newTestServices(t *testing.T, sender Sender) *testServices {
	t.Helper()

	db := newTestDB(t)
	validator := infrastructures.NewValidator()
	serials := NewSerialService(db, validator)
	coupons := NewCouponService(db)
	audits := NewAuditService(db)
	notifications := NewNotificationService(db, sender)

	return &testServices{
		db:            db,
		serials:       serials,
		coupons:       coupons,
		purchases:     NewPurchaseService(db, validator, serials, coupons, audits, notifications),
		sales:         NewSaleService(db, validator, serials, coupons, audits, notifications),
		notifications: notifications,
	}
}

func seedSerial(t *testing.T, db *gorm.DB, serial string, multiplier int) *models.SerialEntry {
	t.Helper()

	entry := &models.SerialEntry{
		ID:               uuid.New(),
		SerialNumber:     serial,
		Tier:             models.ProductTierStandard,
		CouponMultiplier: multiplier,
		ProductName:      "TV 55",
	}
	require.NoError(t, db.Create(entry).Error)
	return entry
}

func seedPendingPurchase(t *testing.T, db *gorm.DB, serial string) *models.Purchase {
	t.Helper()

	purchase := &models.Purchase{
		ID:           uuid.New(),
		FullName:     "Ana Souza",
		DocumentID:   "12345678900",
		Email:        "ana@example.com",
		Phone:        "+55 11 99999-0000",
		BirthDate:    time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC),
		SerialNumber: serial,
		ProductName:  "TV 55",
		Status:       models.RegistrationStatusPending,
	}
	require.NoError(t, db.Create(purchase).Error)

	require.NoError(t, db.Model(&models.SerialEntry{}).
		Where("serial_number = ?", serial).
		Updates(map[string]interface{}{
			"buyer_status":      models.SerialStatusUsed,
			"buyer_purchase_id": purchase.ID,
		}).Error)

	return purchase
}

func seedPendingSale(t *testing.T, db *gorm.DB, serial string) *models.Sale {
	t.Helper()

	sale := &models.Sale{
		ID:           uuid.New(),
		FullName:     "Bruno Lima",
		DocumentID:   "98765432100",
		Email:        "bruno@example.com",
		StoreName:    "Loja Centro",
		SerialNumber: serial,
		ProductName:  "TV 55",
		Status:       models.RegistrationStatusPending,
	}
	require.NoError(t, db.Create(sale).Error)

	require.NoError(t, db.Model(&models.SerialEntry{}).
		Where("serial_number = ?", serial).
		Updates(map[string]interface{}{
			"seller_status":  models.SerialStatusUsed,
			"seller_sale_id": sale.ID,
		}).Error)

	return sale
}
