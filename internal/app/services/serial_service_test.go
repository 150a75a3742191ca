package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tvsorteo/campaign-core/internal/app/models"
	"github.com/tvsorteo/campaign-core/internal/infrastructures"
)

func TestNormalizeSerial(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"sn000001", "SN000001"},
		{"  SN000001  ", "SN000001"},
		{"\tsn-abc-42\n", "SN-ABC-42"},
		{"SN000001", "SN000001"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizeSerial(tc.in))
	}
}

func TestTrackColumns(t *testing.T) {
	t.Run("buyer track", func(t *testing.T) {
		statusCol, refCol := trackColumns(models.OwnerClassBuyer)
		assert.Equal(t, "buyer_status", statusCol)
		assert.Equal(t, "buyer_purchase_id", refCol)
	})

	t.Run("seller track", func(t *testing.T) {
		statusCol, refCol := trackColumns(models.OwnerClassSeller)
		assert.Equal(t, "seller_status", statusCol)
		assert.Equal(t, "seller_sale_id", refCol)
	})
}

func TestImportSerialsCSV(t *testing.T) {
	db := newTestDB(t)
	svc := NewSerialService(db, infrastructures.NewValidator())

	body := "serial_number,tier,coupon_multiplier,product_name,product_price\n" +
		"sn300001,standard,3,TV 55,2999.90\n" +
		"SN300001,STANDARD,3,TV 55,2999.90\n" +
		"sn300002,premium,5,TV 65,\n"

	result, err := svc.ImportSerialsCSV(strings.NewReader(body))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Rows, 3)

	// Row numbers match the uploaded file, header line included, so a
	// failure report points at the line the operator has to fix.
	assert.Equal(t, 2, result.Rows[0].Row)
	assert.True(t, result.Rows[0].Success)
	assert.Equal(t, 3, result.Rows[1].Row)
	assert.False(t, result.Rows[1].Success)
	assert.NotEmpty(t, result.Rows[1].Error)
	assert.Equal(t, 4, result.Rows[2].Row)
	assert.True(t, result.Rows[2].Success)
}

func TestImportSerialsRowNumbering(t *testing.T) {
	db := newTestDB(t)
	svc := NewSerialService(db, infrastructures.NewValidator())

	// Direct JSON payloads have no header, rows stay 1-based.
	result, err := svc.ImportSerials(&models.SerialImportRequest{
		Serials: []models.SerialCreateRequest{
			{SerialNumber: "SN300010", Tier: models.ProductTierStandard, CouponMultiplier: 3, ProductName: "TV 55"},
			{SerialNumber: "SN300010", Tier: models.ProductTierStandard, CouponMultiplier: 3, ProductName: "TV 55"},
		},
	})
	require.NoError(t, err)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, 1, result.Rows[0].Row)
	assert.Equal(t, 2, result.Rows[1].Row)
	assert.False(t, result.Rows[1].Success)
}
