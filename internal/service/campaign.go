package service

import (
	"context"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/and161185/syncads/internal/delay"
	"github.com/and161185/syncads/internal/errs"
	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/state"
	"github.com/and161185/syncads/internal/validate"
)

// CampaignStore is the part of the Store used by CampaignService.
type CampaignStore interface {
	State() state.State
	UpdateCampaign(id string, p model.CampaignPatch) error
	UpdateCampaignStatus(id string, status model.CampaignStatus) error
	DeleteCampaign(id string) bool
}

// CampaignService defines edits of existing campaigns.
type CampaignService interface {
	// Get returns campaign id.
	Get(id string) (model.Campaign, error)
	// Edit validates name and total budget, waits the edit delay and saves.
	Edit(ctx context.Context, id, name string, budgetTotal float64) (model.Campaign, error)
	// ToggleStatus flips an Active campaign to Paused and back.
	ToggleStatus(id string) (model.Campaign, error)
	// Delete removes campaign id and reports whether it existed.
	Delete(id string) bool
}

type CampaignServiceImpl struct {
	store  CampaignStore
	delays Delays
	log    *zap.Logger
}

// NewCampaignService constructs CampaignService.
func NewCampaignService(store CampaignStore, d Delays, log *zap.Logger) *CampaignServiceImpl {
	return &CampaignServiceImpl{store: store, delays: d, log: nopIfNil(log)}
}

func (s *CampaignServiceImpl) Get(id string) (model.Campaign, error) {
	c, ok := s.store.State().Campaign(id)
	if !ok {
		return model.Campaign{}, fmt.Errorf("campaign %q: %w", id, errs.ErrNotFound)
	}
	return c, nil
}

// Edit rules: name has at least 3 characters, budget is positive.
func (s *CampaignServiceImpl) Edit(ctx context.Context, id, name string, budgetTotal float64) (model.Campaign, error) {
	name = strings.TrimSpace(name)
	fe := validate.FieldErrors{}
	if utf8.RuneCountInString(name) < 3 {
		fe.Add("name", "name must have at least 3 characters")
	}
	switch {
	case math.IsNaN(budgetTotal) || math.IsInf(budgetTotal, 0):
		fe.Add("budgetTotal", "total budget must be a number")
	case budgetTotal <= 0:
		fe.Add("budgetTotal", "total budget must be positive")
	}
	if err := fe.Err(); err != nil {
		return model.Campaign{}, err
	}
	if _, err := s.Get(id); err != nil {
		return model.Campaign{}, err
	}
	if err := delay.Wait(ctx, s.delays.Edit); err != nil {
		return model.Campaign{}, err
	}
	if err := s.store.UpdateCampaign(id, model.CampaignPatch{Name: &name, BudgetTotal: &budgetTotal}); err != nil {
		return model.Campaign{}, err
	}
	s.log.Info("campaign edited", zap.String("id", id))
	return s.Get(id)
}

// ToggleStatus refuses completed campaigns with errs.ErrInvalidTransition.
func (s *CampaignServiceImpl) ToggleStatus(id string) (model.Campaign, error) {
	c, err := s.Get(id)
	if err != nil {
		return model.Campaign{}, err
	}
	var next model.CampaignStatus
	switch c.Status {
	case model.StatusActive:
		next = model.StatusPaused
	case model.StatusPaused:
		next = model.StatusActive
	default:
		return model.Campaign{}, fmt.Errorf("campaign %q is %s: %w", id, c.Status, errs.ErrInvalidTransition)
	}
	if err := s.store.UpdateCampaignStatus(id, next); err != nil {
		return model.Campaign{}, err
	}
	s.log.Info("campaign status changed", zap.String("id", id), zap.String("status", string(next)))
	return s.Get(id)
}

func (s *CampaignServiceImpl) Delete(id string) bool {
	ok := s.store.DeleteCampaign(id)
	if ok {
		s.log.Info("campaign deleted", zap.String("id", id))
	}
	return ok
}
