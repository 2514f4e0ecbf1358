package services

import (
	"context"
	"errors"
	"sync"

	"github.com/tropicaldog17/lessondesk/internal/models"
	"github.com/tropicaldog17/lessondesk/internal/repositories"
)

// ---- Mocks for repositories and stores used in unit tests ----

var errAuditDown = errors.New("audit store unavailable")

// failingAuditRepo rejects every append and records how many were attempted.
type failingAuditRepo struct {
	mu       sync.Mutex
	attempts int
}

func (m *failingAuditRepo) Append(_ context.Context, _ *models.AuditLogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attempts++
	return errAuditDown
}

func (m *failingAuditRepo) ListByEntity(_ context.Context, _, _ string) ([]*models.AuditLogEntry, error) {
	return nil, nil
}

var _ repositories.AuditLogRepository = (*failingAuditRepo)(nil)

var errFlagsDown = errors.New("flag store unavailable")

// brokenFlags fails every lookup.
type brokenFlags struct{}

func (brokenFlags) Enabled(_ context.Context, _ string) (bool, error) { return false, errFlagsDown }

// readOnlyFlags has no setter.
type readOnlyFlags struct{ enabled bool }

func (f readOnlyFlags) Enabled(_ context.Context, _ string) (bool, error) { return f.enabled, nil }
