package billing

import (
	"time"

	"github.com/housefit/apartment-management-backend/internal/apperrors"
	"github.com/housefit/apartment-management-backend/internal/property"
	"github.com/housefit/apartment-management-backend/utils"
)

const (
	StatusUnpaid              = "unpaid"
	StatusPendingVerification = "pending-verification"
	StatusPaid                = "paid"
)

type Bill struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	FlatID      uint           `gorm:"not null;uniqueIndex:idx_bills_flat_month" json:"flatId"`
	Flat        *property.Flat `gorm:"foreignKey:FlatID" json:"flat,omitempty"`
	TenantID    uint           `gorm:"not null;index:idx_bills_tenant_month,priority:1" json:"tenantId"`
	Month       string         `gorm:"size:7;not null;uniqueIndex:idx_bills_flat_month;index:idx_bills_tenant_month,priority:2" json:"month"`
	Rent        float64        `gorm:"not null" json:"rent"`
	Electricity float64        `gorm:"not null;default:0" json:"electricity"`
	Gas         float64        `gorm:"not null;default:0" json:"gas"`
	Water       float64        `gorm:"not null;default:0" json:"water"`
	Maintenance float64        `gorm:"not null;default:0" json:"maintenance"`
	Cleaning    float64        `gorm:"not null;default:0" json:"cleaning"`
	Garbage     float64        `gorm:"not null;default:0" json:"garbage"`
	Discount    float64        `gorm:"not null;default:0" json:"discount"`
	Total       float64        `gorm:"not null" json:"total"`
	DueDate     time.Time      `gorm:"not null" json:"dueDate"`
	Status      string         `gorm:"size:30;not null;default:'unpaid';index" json:"status"`
	PaymentID   *uint          `json:"paymentId"`
	GeneratedBy uint           `gorm:"not null" json:"generatedBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Charges sums every line item before the discount.
func Charges(b Bill) float64 {
	return b.Rent + b.Electricity + b.Gas + b.Water + b.Maintenance + b.Cleaning + b.Garbage
}

// ComputeTotal is the bill total: every charge minus the discount.
func ComputeTotal(b Bill) float64 {
	return Charges(b) - b.Discount
}

func checkDiscount(b Bill) error {
	if b.Discount > Charges(b) {
		return apperrors.Validation("Discount cannot exceed the bill charges")
	}
	return nil
}

type BillFilter struct {
	Status string
	Month  string
	FlatID *uint
}

// ===============================
// Request DTOs
// ===============================

// GenerateInput leaves rent, maintenance, cleaning and garbage nil to take
// the flat's defaults.
type GenerateInput struct {
	FlatID      uint        `json:"flatId" binding:"required"`
	TenantID    *uint       `json:"tenantId"`
	Month       string      `json:"month" binding:"required,yyyymm"`
	Rent        *float64    `json:"rent" binding:"omitempty,gte=0"`
	Electricity *float64    `json:"electricity" binding:"omitempty,gte=0"`
	Gas         *float64    `json:"gas" binding:"omitempty,gte=0"`
	Water       *float64    `json:"water" binding:"omitempty,gte=0"`
	Maintenance *float64    `json:"maintenance" binding:"omitempty,gte=0"`
	Cleaning    *float64    `json:"cleaning" binding:"omitempty,gte=0"`
	Garbage     *float64    `json:"garbage" binding:"omitempty,gte=0"`
	Discount    float64     `json:"discount" binding:"gte=0"`
	DueDate     *utils.Date `json:"dueDate" binding:"required"`
}

type UpdateInput struct {
	Rent        *float64    `json:"rent" binding:"omitempty,gte=0"`
	Electricity *float64    `json:"electricity" binding:"omitempty,gte=0"`
	Gas         *float64    `json:"gas" binding:"omitempty,gte=0"`
	Water       *float64    `json:"water" binding:"omitempty,gte=0"`
	Maintenance *float64    `json:"maintenance" binding:"omitempty,gte=0"`
	Cleaning    *float64    `json:"cleaning" binding:"omitempty,gte=0"`
	Garbage     *float64    `json:"garbage" binding:"omitempty,gte=0"`
	Discount    *float64    `json:"discount" binding:"omitempty,gte=0"`
	DueDate     *utils.Date `json:"dueDate"`
}

func (in UpdateInput) apply(b *Bill) {
	setIf(&b.Rent, in.Rent)
	setIf(&b.Electricity, in.Electricity)
	setIf(&b.Gas, in.Gas)
	setIf(&b.Water, in.Water)
	setIf(&b.Maintenance, in.Maintenance)
	setIf(&b.Cleaning, in.Cleaning)
	setIf(&b.Garbage, in.Garbage)
	setIf(&b.Discount, in.Discount)
	if in.DueDate != nil && !in.DueDate.IsZero() {
		b.DueDate = in.DueDate.Time
	}
}

func setIf(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func valueOr(v *float64, def float64) float64 {
	if v == nil {
		return def
	}
	return *v
}
