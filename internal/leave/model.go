package leave

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

// LeaveRequest is a tenant's notice to move out of a flat.
type LeaveRequest struct {
	ID               uint           `gorm:"primaryKey" json:"id"`
	UserID           uint           `gorm:"not null;index:idx_leave_user_status,priority:1" json:"userId"`
	User             *auth.User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	FlatID           uint           `gorm:"not null;index" json:"flatId"`
	Flat             *property.Flat `gorm:"foreignKey:FlatID" json:"flat,omitempty"`
	StartDate        time.Time      `gorm:"not null" json:"startDate"`
	EndDate          time.Time      `gorm:"not null" json:"endDate"`
	Reason           string         `gorm:"type:text;not null" json:"reason"`
	EmergencyContact string         `gorm:"size:100" json:"emergencyContact"`
	Status           string         `gorm:"size:20;not null;default:'pending';index:idx_leave_user_status,priority:2" json:"status"`
	ReviewedBy       *uint          `json:"reviewedBy"`
	ReviewedAt       *time.Time     `json:"reviewedAt"`
	AdminNotes       string         `gorm:"type:text" json:"adminNotes,omitempty"`
	CreatedAt        time.Time      `gorm:"index" json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

type SubmitInput struct {
	FlatID           uint        `json:"flatId" binding:"required"`
	StartDate        *utils.Date `json:"startDate" binding:"required"`
	EndDate          *utils.Date `json:"endDate" binding:"required"`
	Reason           string      `json:"reason" binding:"required,max=1000"`
	EmergencyContact string      `json:"emergencyContact" binding:"max=100"`
}

type DecisionInput struct {
	AdminNotes string `json:"adminNotes"`
}

// nextMonthWindow returns [first day of next month, first day of the month
// after) relative to now, in UTC.
func nextMonthWindow(now time.Time) (time.Time, time.Time) {
	now = now.UTC()
	start := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}
