// Package flags answers whether automation is enabled on a channel (the kill-switch).
package flags

import (
	"context"
	"strings"
	"sync"
)

// Store supplies the per-channel automation kill-switch.
type Store interface {
	Enabled(ctx context.Context, channel string) (bool, error)
}

// Setter is implemented by stores that operators can flip at runtime.
type Setter interface {
	SetEnabled(ctx context.Context, channel string, enabled bool) error
}

// Static is an in-process store seeded from configuration. Channels default to enabled.
type Static struct {
	mu       sync.RWMutex
	disabled map[string]bool
}

func NewStatic(disabledChannels []string) *Static {
	s := &Static{disabled: make(map[string]bool, len(disabledChannels))}
	for _, c := range disabledChannels {
		s.disabled[normalize(c)] = true
	}
	return s
}

func (s *Static) Enabled(_ context.Context, channel string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.disabled[normalize(channel)], nil
}

func (s *Static) SetEnabled(_ context.Context, channel string, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if enabled {
		delete(s.disabled, normalize(channel))
	} else {
		s.disabled[normalize(channel)] = true
	}
	return nil
}

func normalize(channel string) string {
	return strings.ToLower(strings.TrimSpace(channel))
}
