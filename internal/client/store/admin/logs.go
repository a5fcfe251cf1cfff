package admin

import (
	"context"
	"net/url"
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/flagforge/flagforge/internal/client/api"
	"github.com/flagforge/flagforge/internal/models"
)

// Logs pages through the admin audit trail with skip/limit parameters. The
// server reports the full count in an x-total-count header.
type Logs struct {
	api *api.Client
	log *zap.Logger

	mu    sync.Mutex
	logs  []models.AuditLog
	total int
}

// NewLogs constructs the store.
func NewLogs(apiClient *api.Client, log *zap.Logger) *Logs {
	return &Logs{api: apiClient, log: log}
}

// All returns the cached page.
func (l *Logs) All() []models.AuditLog {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.logs
}

// Total returns the reported (or estimated) total entry count.
func (l *Logs) Total() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.total
}

// Fetch loads one page (1-based) of the audit trail, clearing state on
// failure. Without an x-total-count header the total is estimated from the
// page fill: a full page implies at least one more entry.
func (l *Logs) Fetch(ctx context.Context, page, limit int) error {
	if page < 1 {
		page = 1
	}
	query := url.Values{}
	query.Set("skip", strconv.Itoa((page-1)*limit))
	query.Set("limit", strconv.Itoa(limit))

	var list []models.AuditLog
	header, err := l.api.Get(ctx, "/admin/logs/", query, &list)
	if err != nil {
		l.log.Error("failed to fetch audit logs", zap.Error(err))
		l.mu.Lock()
		l.logs = nil
		l.total = 0
		l.mu.Unlock()
		return err
	}

	total := 0
	if v := header.Get("x-total-count"); v != "" {
		total, _ = strconv.Atoi(v)
	} else if len(list) < limit {
		total = (page-1)*limit + len(list)
	} else {
		total = page*limit + 1
	}

	l.mu.Lock()
	l.logs = list
	l.total = total
	l.mu.Unlock()
	return nil
}
