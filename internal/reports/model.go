package reports

import "time"

const (
	ReportTypeBills    = "bills"
	ReportTypePayments = "payments"

	DateRangeDaily   = "daily"
	DateRangeWeekly  = "weekly"
	DateRangeMonthly = "monthly"
	DateRangeYearly  = "yearly"
	DateRangeCustom  = "custom"

	FormatCSV   = "csv"
	FormatExcel = "excel"
	FormatPDF   = "pdf"
)

const (
	mimeCSV   = "text/csv"
	mimeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimePDF   = "application/pdf"
)

// BillReportRequest filters the bills export. An empty Format asks for a
// JSON preview.
type BillReportRequest struct {
	Month  string `form:"month" binding:"omitempty,yyyymm"`
	Status string `form:"status" binding:"omitempty,oneof=unpaid pending-verification paid"`
	Format string `form:"format" binding:"omitempty,oneof=csv excel pdf"`
}

// PaymentReportRequest filters payments by status and by the date they were
// submitted.
type PaymentReportRequest struct {
	Status    string `form:"status" binding:"omitempty,oneof=pending verified rejected"`
	DateRange string `form:"date_range"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	Format    string `form:"format" binding:"omitempty,oneof=csv excel pdf"`
}

type BillReportRow struct {
	ID          uint      `json:"id"`
	Month       string    `json:"month"`
	FlatNumber  string    `json:"flatNumber"`
	TenantName  string    `json:"tenantName"`
	TenantEmail string    `json:"tenantEmail"`
	Rent        float64   `json:"rent"`
	Utilities   float64   `json:"utilities"`
	Services    float64   `json:"services"`
	Discount    float64   `json:"discount"`
	Total       float64   `json:"total"`
	Status      string    `json:"status"`
	DueDate     time.Time `json:"dueDate"`
}

type PaymentReportRow struct {
	ID                 uint       `json:"id"`
	BillID             uint       `json:"billId"`
	BillMonth          string     `json:"billMonth"`
	TenantName         string     `json:"tenantName"`
	Amount             float64    `json:"amount"`
	BkashTransactionID string     `json:"bkashTransactionId"`
	BkashPhoneNumber   string     `json:"bkashPhoneNumber"`
	Status             string     `json:"status"`
	CreatedAt          time.Time  `json:"createdAt"`
	VerifiedAt         *time.Time `json:"verifiedAt"`
}

// File is a rendered export ready to be streamed back.
type File struct {
	Data     []byte
	Filename string
	MimeType string
}
