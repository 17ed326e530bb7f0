package auditlog

import (
	"context"
	"encoding/json"
	"math"

	"github.com/housefit/apartment-management-backend/database"
)

type Service interface {
	LogAction(ctx context.Context, entry Entry) error
	GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error)
	GetAuditLogByID(ctx context.Context, id uint) (*AuditLogResponse, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// LogAction writes an audit row. The client IP is taken from ctx (see WithIP).
func (s *service) LogAction(ctx context.Context, entry Entry) error {
	if entry.Details == nil {
		entry.Details = make(map[string]interface{})
	}
	if entry.Status == "" {
		entry.Status = StatusSuccess
	}

	detailsJSON, err := json.Marshal(entry.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	return s.repo.Create(ctx, &AuditLog{
		UserID:     entry.UserID,
		Action:     entry.Action,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Details:    string(detailsJSON),
		IPAddress:  IPFrom(ctx),
		Status:     entry.Status,
	})
}

func (s *service) GetAuditLogs(ctx context.Context, filter AuditLogFilter) (*PaginatedAuditLogs, error) {
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	logs, total, err := s.repo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, err
	}
	if logs == nil {
		logs = []AuditLogResponse{}
	}

	return &PaginatedAuditLogs{
		Data:       logs,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.Limit))),
	}, nil
}

func (s *service) GetAuditLogByID(ctx context.Context, id uint) (*AuditLogResponse, error) {
	log, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, database.TranslateError(err, "Audit log not found", "")
	}
	return log, nil
}
