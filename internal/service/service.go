// Package service contains application services over the Store: form
// validation, simulated latency and multi-step flows that the Store itself
// does not model.
package service

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/errs"
)

var (
	_ SessionService     = (*SessionServiceImpl)(nil)
	_ CampaignService    = (*CampaignServiceImpl)(nil)
	_ IntegrationService = (*IntegrationServiceImpl)(nil)
	_ ChatService        = (*ChatServiceImpl)(nil)
	_ SettingsService    = (*SettingsServiceImpl)(nil)
)

// Delays are the simulated latencies of the services. Zero disables a delay.
type Delays struct {
	Save      time.Duration
	Edit      time.Duration
	TypingMin time.Duration
	TypingMax time.Duration
}

func nopIfNil(l *zap.Logger) *zap.Logger {
	if l == nil {
		return zap.NewNop()
	}
	return l
}

func notFound(kind, id string) error {
	return fmt.Errorf("%s %q: %w", kind, id, errs.ErrNotFound)
}
