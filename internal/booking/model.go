package booking

import (
	"time"

	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/property"
	"github.com/housefit/apartment-management-backend/utils"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type BookingRequest struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	VisitorID     uint           `gorm:"not null;index" json:"visitorId"`
	Visitor       *auth.User     `gorm:"foreignKey:VisitorID" json:"visitor,omitempty"`
	FlatID        uint           `gorm:"not null;index" json:"flatId"`
	Flat          *property.Flat `gorm:"foreignKey:FlatID" json:"flat,omitempty"`
	Message       string         `gorm:"type:text" json:"message"`
	RequestedDate *time.Time     `json:"requestedDate"`
	Status        string         `gorm:"size:20;not null;default:'pending';index" json:"status"`
	AdminResponse string         `gorm:"type:text" json:"adminResponse,omitempty"`
	ReviewedBy    *uint          `json:"reviewedBy"`
	ReviewedAt    *time.Time     `json:"reviewedAt"`
	CreatedAt     time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type SubmitInput struct {
	FlatID        uint        `json:"flatId" binding:"required"`
	Message       string      `json:"message" binding:"max=1000"`
	RequestedDate *utils.Date `json:"requestedDate"`
}

type DecisionInput struct {
	AdminResponse string `json:"adminResponse"`
	Reason        string `json:"reason"`
}

// Text is the admin's note on the decision, whichever field carried it.
func (d DecisionInput) Text() string {
	if d.AdminResponse != "" {
		return d.AdminResponse
	}
	return d.Reason
}
