package auditlog

import (
	"time"
)

const (
	StatusSuccess = "success"
	StatusFailure = "failure"
)

// AuditLog records one admin decision or sensitive action.
type AuditLog struct {
	ID         uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID     *uint     `gorm:"index" json:"userId"`
	Action     string    `gorm:"size:100;not null;index" json:"action"`
	EntityType string    `gorm:"size:50;index" json:"entityType"`
	EntityID   *uint     `gorm:"index" json:"entityId"`
	Details    string    `gorm:"type:jsonb" json:"details"`
	IPAddress  string    `gorm:"size:45" json:"ipAddress"`
	Status     string    `gorm:"size:20;not null;index" json:"status"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index" json:"createdAt"`
}

func (AuditLog) TableName() string {
	return "audit_logs"
}

// Entry is the input to LogAction.
type Entry struct {
	UserID     *uint
	Action     string
	EntityType string
	EntityID   *uint
	Details    map[string]interface{}
	Status     string
}

// AuditLogResponse joins the acting user's name onto the row.
type AuditLogResponse struct {
	ID         uint      `json:"id"`
	UserID     *uint     `json:"userId"`
	Action     string    `json:"action"`
	EntityType string    `json:"entityType"`
	EntityID   *uint     `json:"entityId"`
	Details    string    `json:"details"`
	IPAddress  string    `json:"ipAddress"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	UserName   *string   `json:"userName,omitempty"`
	UserRole   *string   `json:"userRole,omitempty"`
}

type AuditLogFilter struct {
	UserID     *uint
	Action     string
	EntityType string
	Status     string
	FromDate   *time.Time
	ToDate     *time.Time
	Page       int
	Limit      int
}

type PaginatedAuditLogs struct {
	Data       []AuditLogResponse `json:"data"`
	Total      int64              `json:"total"`
	Page       int                `json:"page"`
	Limit      int                `json:"limit"`
	TotalPages int                `json:"totalPages"`
}
