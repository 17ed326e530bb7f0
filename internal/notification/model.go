package notification

import (
	"time"
)

const (
	TypeInfo    = "info"
	TypeWarning = "warning"
	TypeSuccess = "success"
	TypeError   = "error"
)

const (
	CategoryBill    = "bill"
	CategoryPayment = "payment"
	CategoryBooking = "booking"
	CategoryProblem = "problem"
	CategoryTree    = "tree"
	CategoryLeave   = "leave"
	CategoryGeneral = "general"
)

// RoleAll addresses every user regardless of role.
const RoleAll = "all"

// recipientRoles are the account roles a role notification can address.
var recipientRoles = []string{"admin", "owner", "tenant", "employee", "visitor"}

// Notification is addressed either to one user or to a role (or "all").
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RecipientID   *uint     `gorm:"index" json:"recipientId,omitempty"`
	RecipientRole *string   `gorm:"size:20;index" json:"recipientRole,omitempty"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Message       string    `gorm:"type:text;not null" json:"message"`
	Type          string    `gorm:"size:20;not null;default:'info'" json:"type"`
	Category      string    `gorm:"size:20;not null;default:'general'" json:"category"`
	RelatedID     *uint     `json:"relatedId,omitempty"`
	RelatedModel  string    `gorm:"size:50" json:"relatedModel,omitempty"`
	IsRead        bool      `gorm:"not null;default:false;index" json:"isRead"`
	SentViaEmail  bool      `gorm:"not null;default:false" json:"sentViaEmail"`
	CreatedAt     time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// DeviceToken is a registered FCM token for push delivery.
type DeviceToken struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	Token      string    `gorm:"size:255;not null;uniqueIndex" json:"token"`
	Platform   string    `gorm:"size:20" json:"platform"` // android, ios, web
	LastUsedAt time.Time `json:"lastUsedAt"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func IsValidType(t string) bool {
	switch t {
	case TypeInfo, TypeWarning, TypeSuccess, TypeError:
		return true
	}
	return false
}

// IsValidRecipientRole reports whether role is an account role or RoleAll.
func IsValidRecipientRole(role string) bool {
	if role == RoleAll {
		return true
	}
	for _, r := range recipientRoles {
		if r == role {
			return true
		}
	}
	return false
}

func IsValidCategory(c string) bool {
	switch c {
	case CategoryBill, CategoryPayment, CategoryBooking, CategoryProblem, CategoryTree, CategoryLeave, CategoryGeneral:
		return true
	}
	return false
}
