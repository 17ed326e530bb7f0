// Package auditlogtest provides an in-memory auditlog.Service for tests.
package auditlogtest

import (
	"context"
	"sync"

	"github.com/housefit/apartment-management-backend/internal/auditlog"
)

type Recorder struct {
	mu      sync.Mutex
	Entries []auditlog.Entry
}

func (r *Recorder) LogAction(_ context.Context, entry auditlog.Entry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Entries = append(r.Entries, entry)
	return nil
}

func (r *Recorder) GetAuditLogs(context.Context, auditlog.AuditLogFilter) (*auditlog.PaginatedAuditLogs, error) {
	return &auditlog.PaginatedAuditLogs{}, nil
}

func (r *Recorder) GetAuditLogByID(context.Context, uint) (*auditlog.AuditLogResponse, error) {
	return nil, nil
}

// Actions lists recorded action names in order.
func (r *Recorder) Actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.Entries))
	for i, e := range r.Entries {
		out[i] = e.Action
	}
	return out
}
