package payment

import (
	"time"

	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/billing"
)

const (
	StatusPending  = "pending"
	StatusVerified = "verified"
	StatusRejected = "rejected"
)

// Payment is a tenant's claim that a bKash transfer settled a bill. It stays
// pending until an admin checks the transaction.
type Payment struct {
	ID                 uint          `gorm:"primaryKey" json:"id"`
	BillID             uint          `gorm:"not null;index" json:"billId"`
	Bill               *billing.Bill `gorm:"foreignKey:BillID" json:"bill,omitempty"`
	UserID             uint          `gorm:"not null;index:idx_payments_user_created,priority:1" json:"userId"`
	User               *auth.User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Amount             float64       `gorm:"not null" json:"amount"`
	BkashTransactionID string        `gorm:"size:50;not null;uniqueIndex" json:"bkashTransactionId"`
	BkashPhoneNumber   string        `gorm:"size:20;not null" json:"bkashPhoneNumber"`
	Status             string        `gorm:"size:20;not null;default:'pending';index" json:"status"`
	VerifiedBy         *uint         `json:"verifiedBy"`
	VerifiedAt         *time.Time    `json:"verifiedAt"`
	RejectionReason    string        `gorm:"type:text" json:"rejectionReason,omitempty"`
	ReceiptURL         string        `gorm:"size:255" json:"receiptUrl,omitempty"`
	CreatedAt          time.Time     `gorm:"index:idx_payments_user_created,priority:2" json:"createdAt"`
	UpdatedAt          time.Time     `json:"updatedAt"`
}

type PaymentFilter struct {
	Status string
	UserID *uint
}

type SubmitInput struct {
	BillID             uint    `json:"billId" binding:"required"`
	Amount             float64 `json:"amount" binding:"required,gt=0"`
	BkashTransactionID string  `json:"bkashTransactionId" binding:"required,max=50"`
	BkashPhoneNumber   string  `json:"bkashPhoneNumber" binding:"required,bdphone"`
	ReceiptURL         string  `json:"receiptUrl" binding:"omitempty,max=255"`
}

type RejectInput struct {
	Reason string `json:"reason"`
}
