package employee

import (
	"time"

	"github.com/housefit/apartment-management-backend/internal/auth"
	"github.com/housefit/apartment-management-backend/utils"
)

const (
	StatusActive   = "active"
	StatusInactive = "inactive"
	StatusOnLeave  = "on-leave"
)

const (
	RaisePending  = "pending"
	RaiseApproved = "approved"
	RaiseRejected = "rejected"
)

type Employee struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;uniqueIndex" json:"userId"`
	User        *auth.User `gorm:"foreignKey:UserID" json:"user,omitempty"`
	EmployeeID  string     `gorm:"size:50;not null;uniqueIndex" json:"employeeId"`
	Department  string     `gorm:"size:30;not null;index" json:"department"`
	Designation string     `gorm:"size:100;not null" json:"designation"`
	Salary      float64    `gorm:"not null" json:"salary"`
	JoinDate    time.Time  `gorm:"not null" json:"joinDate"`
	Status      string     `gorm:"size:20;not null;default:'active';index" json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// SalaryRaise is an employee's request for a new salary. CurrentSalary is
// the salary at the time of the request.
type SalaryRaise struct {
	ID              uint       `gorm:"primaryKey" json:"id"`
	EmployeeID      uint       `gorm:"not null;index:idx_raise_employee_status,priority:1;uniqueIndex:idx_raise_one_pending,where:status = 'pending'" json:"employeeId"`
	Employee        *Employee  `gorm:"foreignKey:EmployeeID" json:"employee,omitempty"`
	CurrentSalary   float64    `gorm:"not null" json:"currentSalary"`
	RequestedSalary float64    `gorm:"not null" json:"requestedSalary"`
	Reason          string     `gorm:"type:text;not null" json:"reason"`
	Status          string     `gorm:"size:20;not null;default:'pending';index:idx_raise_employee_status,priority:2" json:"status"`
	AdminResponse   string     `gorm:"type:text" json:"adminResponse,omitempty"`
	ReviewedBy      *uint      `json:"reviewedBy"`
	ReviewedAt      *time.Time `json:"reviewedAt"`
	CreatedAt       time.Time  `gorm:"index" json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type EmployeeFilter struct {
	Department string
	Status     string
}

type CreateInput struct {
	UserID      uint        `json:"userId" binding:"required"`
	EmployeeID  string      `json:"employeeId" binding:"required,max=50"`
	Department  string      `json:"department" binding:"required,oneof=electrician cleaner gas plumber security helper maintenance management maid"`
	Designation string      `json:"designation" binding:"required,max=100"`
	Salary      *float64    `json:"salary" binding:"required,gte=0"`
	JoinDate    *utils.Date `json:"joinDate"`
	Status      string      `json:"status" binding:"omitempty,oneof=active inactive on-leave"`
}

type UpdateInput struct {
	Department  *string  `json:"department" binding:"omitempty,oneof=electrician cleaner gas plumber security helper maintenance management maid"`
	Designation *string  `json:"designation" binding:"omitempty,max=100"`
	Salary      *float64 `json:"salary" binding:"omitempty,gte=0"`
	Status      *string  `json:"status" binding:"omitempty,oneof=active inactive on-leave"`
}

func (in UpdateInput) fields() map[string]interface{} {
	fields := map[string]interface{}{}
	if in.Department != nil {
		fields["department"] = *in.Department
	}
	if in.Designation != nil {
		fields["designation"] = *in.Designation
	}
	if in.Salary != nil {
		fields["salary"] = *in.Salary
	}
	if in.Status != nil {
		fields["status"] = *in.Status
	}
	return fields
}

type RaiseInput struct {
	RequestedSalary float64 `json:"requestedSalary" binding:"required,gt=0"`
	Reason          string  `json:"reason" binding:"required,max=1000"`
}

type RaiseDecisionInput struct {
	AdminResponse string `json:"adminResponse"`
}
