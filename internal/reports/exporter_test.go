package reports

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleBills() []BillReportRow {
	return []BillReportRow{{
		ID:          7,
		Month:       "2024-04",
		FlatNumber:  "A-3",
		TenantName:  "Nila Rahman",
		TenantEmail: "nila@example.com",
		Rent:        25000,
		Utilities:   2800,
		Services:    1000,
		Discount:    1000,
		Total:       27800,
		Status:      "unpaid",
		DueDate:     time.Date(2024, time.April, 10, 0, 0, 0, 0, time.UTC),
	}}
}

func newTestExporter() *exporter {
	return &exporter{now: func() time.Time { return time.Date(2024, time.April, 20, 9, 30, 0, 0, time.UTC) }}
}

func TestExporter_BillsCSV(t *testing.T) {
	file, err := newTestExporter().Bills(FormatCSV, sampleBills())
	require.NoError(t, err)

	assert.Equal(t, "bills_report_20240420_093000.csv", file.Filename)
	assert.Equal(t, mimeCSV, file.MimeType)

	records, err := csv.NewReader(bytes.NewReader(file.Data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "Total", records[0][9])
	assert.Equal(t, []string{"7", "2024-04", "A-3", "Nila Rahman", "nila@example.com",
		"25000.00", "2800.00", "1000.00", "1000.00", "27800.00", "unpaid", "2024-04-10"}, records[1])
}

func TestExporter_BillsExcel(t *testing.T) {
	file, err := newTestExporter().Bills(FormatExcel, sampleBills())
	require.NoError(t, err)
	assert.Equal(t, mimeExcel, file.MimeType)

	f, err := excelize.OpenReader(bytes.NewReader(file.Data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Bills"}, f.GetSheetList())
	v, err := f.GetCellValue("Bills", "D2")
	require.NoError(t, err)
	assert.Equal(t, "Nila Rahman", v)
}

func TestExporter_PaymentsPDF(t *testing.T) {
	verified := time.Date(2024, time.April, 12, 11, 0, 0, 0, time.UTC)
	rows := []PaymentReportRow{{
		ID:                 3,
		BillID:             7,
		BillMonth:          "2024-04",
		TenantName:         "Nila Rahman",
		Amount:             27800,
		BkashTransactionID: "TXN123",
		BkashPhoneNumber:   "01712345678",
		Status:             "verified",
		CreatedAt:          verified.Add(-time.Hour),
		VerifiedAt:         &verified,
	}}

	file, err := newTestExporter().Payments(FormatPDF, rows)
	require.NoError(t, err)
	assert.Equal(t, "payments_report_20240420_093000.pdf", file.Filename)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExporter_UnsupportedFormat(t *testing.T) {
	_, err := newTestExporter().Bills("xml", nil)
	assert.EqualError(t, err, "unsupported format: xml")
}
