package view

import (
	"slices"

	"github.com/and161185/syncads/internal/model"
)

// ActiveCampaigns returns the Active campaigns ordered by s. limit <= 0
// returns all of them.
func ActiveCampaigns(list []model.Campaign, s Sorter, limit int) []model.Campaign {
	out := s.Apply(Filter{Status: string(model.StatusActive)}.Apply(list))
	if limit > 0 && len(out) > limit {
		out = out[:limit:limit]
	}
	return out
}

// Recent returns the n most recently created campaigns, newest first.
// Campaigns with equal CreatedAt keep collection order.
func Recent(list []model.Campaign, n int) []model.Campaign {
	out := slices.Clone(list)
	slices.SortStableFunc(out, func(a, b model.Campaign) int { return b.CreatedAt.Compare(a.CreatedAt) })
	if n > 0 && len(out) > n {
		out = out[:n:n]
	}
	return out
}

// Summary aggregates the dashboard counters.
type Summary struct {
	Campaigns      int     `json:"campaigns"`
	Active         int     `json:"active"`
	Paused         int     `json:"paused"`
	Completed      int     `json:"completed"`
	BudgetSpent    float64 `json:"budgetSpent"`
	BudgetTotal    float64 `json:"budgetTotal"`
	Impressions    int64   `json:"impressions"`
	Clicks         int64   `json:"clicks"`
	Conversions    int64   `json:"conversions"`
	CTR            float64 `json:"ctr"`
	CPC            float64 `json:"cpc"`
	ConversionRate float64 `json:"conversionRate"`
}

// Summarize totals list. Ratios are 0 when their denominator is 0.
func Summarize(list []model.Campaign) Summary {
	var s Summary
	for _, c := range list {
		s.Campaigns++
		switch c.Status {
		case model.StatusActive:
			s.Active++
		case model.StatusPaused:
			s.Paused++
		case model.StatusCompleted:
			s.Completed++
		}
		s.BudgetSpent += c.BudgetSpent
		s.BudgetTotal += c.BudgetTotal
		s.Impressions += c.Impressions
		s.Clicks += c.Clicks
		s.Conversions += c.Conversions
	}
	if s.Impressions > 0 {
		s.CTR = float64(s.Clicks) / float64(s.Impressions) * 100
	}
	if s.Clicks > 0 {
		s.CPC = s.BudgetSpent / float64(s.Clicks)
		s.ConversionRate = float64(s.Conversions) / float64(s.Clicks) * 100
	}
	return s
}
