package service

import (
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/seed"
	"github.com/and161185/syncads/internal/state"
	"github.com/and161185/syncads/internal/validate"
)

// IntegrationStore is the part of the Store used by IntegrationService.
type IntegrationStore interface {
	State() state.State
	ToggleIntegration(id model.IntegrationID, connect bool)
}

// IntegrationStatus is a catalog entry with its connection flag.
type IntegrationStatus struct {
	model.Integration
	Connected bool `json:"connected"`
}

// IntegrationService runs the two-state connect flow: Prompt opens it for one
// integration, Confirm with an API key connects, Cancel abandons it.
type IntegrationService interface {
	// Catalog lists every known integration with its connection flag.
	Catalog() []IntegrationStatus
	// Prompt starts connecting id.
	Prompt(id model.IntegrationID) error
	// Pending returns the integration awaiting confirmation.
	Pending() (model.IntegrationID, bool)
	// Confirm connects the pending integration with apiKey.
	Confirm(apiKey string) (model.IntegrationID, error)
	// Cancel abandons the pending prompt.
	Cancel()
	// Disconnect removes id from the connected set.
	Disconnect(id model.IntegrationID) error
}

type IntegrationServiceImpl struct {
	mu      sync.Mutex
	pending model.IntegrationID
	store   IntegrationStore
	log     *zap.Logger
}

// NewIntegrationService constructs IntegrationService.
func NewIntegrationService(store IntegrationStore, log *zap.Logger) *IntegrationServiceImpl {
	return &IntegrationServiceImpl{store: store, log: nopIfNil(log)}
}

// Catalog lists every known integration in catalog order.
func (s *IntegrationServiceImpl) Catalog() []IntegrationStatus {
	st := s.store.State()
	cat := seed.Integrations()
	out := make([]IntegrationStatus, 0, len(cat))
	for _, in := range cat {
		out = append(out, IntegrationStatus{Integration: in, Connected: st.IsConnected(in.ID)})
	}
	return out
}

// Prompt starts connecting id. A previous pending prompt is replaced.
func (s *IntegrationServiceImpl) Prompt(id model.IntegrationID) error {
	if !seed.IsIntegration(id) {
		return fmt.Errorf("integration %q: %w", id, errs.ErrNotFound)
	}
	if s.store.State().IsConnected(id) {
		return fmt.Errorf("integration %q: %w", id, errs.ErrAlreadyExists)
	}
	s.mu.Lock()
	s.pending = id
	s.mu.Unlock()
	return nil
}

// Pending returns the integration awaiting confirmation.
func (s *IntegrationServiceImpl) Pending() (model.IntegrationID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending, s.pending != ""
}

// Confirm connects the pending integration. The key is required but not kept.
func (s *IntegrationServiceImpl) Confirm(apiKey string) (model.IntegrationID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending == "" {
		return "", fmt.Errorf("confirm without prompt: %w", errs.ErrInvalidTransition)
	}
	if strings.TrimSpace(apiKey) == "" {
		fe := validate.FieldErrors{}
		fe.Add("apiKey", "API key is required")
		return "", fe
	}
	id := s.pending
	s.pending = ""
	s.store.ToggleIntegration(id, true)
	s.log.Info("integration connected", zap.String("id", string(id)))
	return id, nil
}

// Cancel abandons the pending prompt, if any.
func (s *IntegrationServiceImpl) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = ""
}

// Disconnect removes id from the connected set. Disconnecting an integration
// that is not connected is not an error.
func (s *IntegrationServiceImpl) Disconnect(id model.IntegrationID) error {
	if !seed.IsIntegration(id) {
		return fmt.Errorf("integration %q: %w", id, errs.ErrNotFound)
	}
	s.store.ToggleIntegration(id, false)
	s.log.Info("integration disconnected", zap.String("id", string(id)))
	return nil
}
