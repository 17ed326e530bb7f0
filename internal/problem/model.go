package problem

import (
	"time"

	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/internal/employee"
	"github.com/housefit/apartment-management-backend/internal/property"
	"gorm.io/datatypes"
)

const (
	StatusOpen       = "open"
	StatusAssigned   = "assigned"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
	StatusClosed     = "closed"
)

const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

type ProblemReport struct {
	ID          uint                        `gorm:"primaryKey" json:"id"`
	ReportedBy  uint                        `gorm:"not null;index" json:"reportedBy"`
	Reporter    *auth.User                  `gorm:"foreignKey:ReportedBy" json:"reporter,omitempty"`
	FlatID      *uint                       `gorm:"index" json:"flatId"`
	Flat        *property.Flat              `gorm:"foreignKey:FlatID" json:"flat,omitempty"`
	BuildingID  *uint                       `gorm:"index" json:"buildingId"`
	Category    string                      `gorm:"size:30;not null;index" json:"category"`
	Priority    string                      `gorm:"size:10;not null;default:'medium';index:idx_problem_status_priority,priority:2" json:"priority"`
	Title       string                      `gorm:"size:200;not null" json:"title"`
	Description string                      `gorm:"type:text;not null" json:"description"`
	Images      datatypes.JSONSlice[string] `gorm:"type:jsonb" json:"images"`
	Status      string                      `gorm:"size:20;not null;default:'open';index:idx_problem_status_priority,priority:1" json:"status"`
	AssignedTo  *uint                       `gorm:"index" json:"assignedTo"`
	Assignee    *employee.Employee          `gorm:"foreignKey:AssignedTo" json:"assignee,omitempty"`
	AssignedAt  *time.Time                  `json:"assignedAt"`
	ResolvedAt  *time.Time                  `json:"resolvedAt"`
	AdminNotes  string                      `gorm:"type:text" json:"adminNotes,omitempty"`
	CreatedAt   time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt   time.Time                   `json:"updatedAt"`
}

type ProblemFilter struct {
	Status   string
	Category string
	Priority string
}

// SubmitInput binds from JSON or from multipart form fields.
type SubmitInput struct {
	Category    string `json:"category" form:"category" binding:"required,oneof=electricity water-supply cleaning gas garbage sanitary plumbing electrical maintenance security other"`
	Priority    string `json:"priority" form:"priority" binding:"omitempty,oneof=low medium high urgent"`
	Title       string `json:"title" form:"title" binding:"required,max=200"`
	Description string `json:"description" form:"description" binding:"required"`
	FlatID      *uint  `json:"flatId" form:"flatId"`
	BuildingID  *uint  `json:"buildingId" form:"buildingId"`
}

type AssignInput struct {
	EmployeeID uint   `json:"employeeId" binding:"required"`
	AdminNotes string `json:"adminNotes"`
}

type StatusInput struct {
	Status     string `json:"status" binding:"required,oneof=in-progress resolved closed"`
	AdminNotes string `json:"adminNotes"`
}

// allowedFrom lists the states a report may move to target from. Closing
// from anything but resolved is an admin override.
func allowedFrom(target string, admin bool) []string {
	switch target {
	case StatusInProgress:
		return []string{StatusAssigned}
	case StatusResolved:
		return []string{StatusInProgress}
	case StatusClosed:
		if admin {
			return []string{StatusOpen, StatusAssigned, StatusInProgress, StatusResolved}
		}
	}
	return nil
}
