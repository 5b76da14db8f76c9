package view

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/and161185/syncads/internal/model"
	"github.com/and161185/syncads/internal/seed"
)

// tenWithThreeActive mirrors the dashboard scenario: 10 campaigns, 3 Active.
func tenWithThreeActive() []model.Campaign {
	list := seed.Campaigns()
	for i := range list {
		switch list[i].ID {
		case "CAM-005", "CAM-009":
			list[i].Status = model.StatusPaused
		}
	}
	return list
}

func ids(list []model.Campaign) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.ID
	}
	return out
}

func clicks(list []model.Campaign) []int64 {
	out := make([]int64, len(list))
	for i, c := range list {
		out[i] = c.Clicks
	}
	return out
}

func TestFilter_ActiveAllPlatformsKeepsOrder(t *testing.T) {
	list := seed.Campaigns()
	got := Filter{Status: "Ativa", Platform: All, Search: ""}.Apply(list)
	assert.Equal(t, []string{"CAM-001", "CAM-003", "CAM-005", "CAM-008", "CAM-009"}, ids(got))
	for _, c := range got {
		assert.Equal(t, model.StatusActive, c.Status)
	}
}

func TestFilter_ANDsPredicates(t *testing.T) {
	list := seed.Campaigns()
	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"platform only", Filter{Status: All, Platform: "LinkedIn"}, []string{"CAM-003", "CAM-006", "CAM-010"}},
		{"status and platform", Filter{Status: "Ativa", Platform: "Meta"}, []string{"CAM-001", "CAM-005", "CAM-009"}},
		{"search is case-insensitive", Filter{Search: "CAMPANHA"}, []string{"CAM-004", "CAM-008"}},
		{"all three", Filter{Status: "Pausada", Platform: "Google Ads", Search: "remarketing"}, []string{"CAM-004"}},
		{"nothing", Filter{Status: "Concluída", Platform: "Meta"}, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.f.Apply(list)))
		})
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	list := seed.Campaigns()
	before := ids(list)
	_ = Filter{Status: "Ativa"}.Apply(list)
	_ = DefaultSorter().Apply(list)
	assert.Equal(t, before, ids(list))
}

func TestSorter_ClicksDescThenAscIsReversed(t *testing.T) {
	list := seed.Campaigns()
	s := DefaultSorter()
	desc := clicks(s.Apply(list))
	s = s.Toggle(SortClicks)
	require.False(t, s.Desc)
	asc := clicks(s.Apply(list))

	for i := range desc {
		assert.Equal(t, desc[i], asc[len(asc)-1-i])
	}
	assert.IsNonIncreasing(t, desc)
}

func TestSorter_StableOnTies(t *testing.T) {
	list := seed.Campaigns()
	// CAM-007 and CAM-010 both have 400 clicks.
	for _, desc := range []bool{true, false} {
		got := ids(Sorter{Key: SortClicks, Desc: desc}.Apply(list))
		assert.Less(t, indexOf(got, "CAM-007"), indexOf(got, "CAM-010"))
	}
}

func TestSorter_Toggle(t *testing.T) {
	s := DefaultSorter()
	assert.Equal(t, Sorter{Key: SortClicks, Desc: true}, s)
	s = s.Toggle(SortName)
	assert.Equal(t, Sorter{Key: SortName, Desc: false}, s)
	s = s.Toggle(SortName)
	assert.Equal(t, Sorter{Key: SortName, Desc: true}, s)
	s = s.Toggle(SortCTR)
	assert.Equal(t, Sorter{Key: SortCTR, Desc: true}, s)
}

func TestSorter_Lexical(t *testing.T) {
	list := []model.Campaign{{ID: "b", Name: "beta"}, {ID: "a", Name: "Alpha"}, {ID: "c", Name: "gamma"}}
	assert.Equal(t, []string{"a", "b", "c"}, ids(Sorter{Key: SortName}.Apply(list)))
}

func TestParseSortKey(t *testing.T) {
	k, err := ParseSortKey("cpc")
	require.NoError(t, err)
	assert.Equal(t, SortCPC, k)
	_, err = ParseSortKey("bogus")
	require.Error(t, err)
}

func TestActiveCampaigns_ThreeOfTen(t *testing.T) {
	got := ActiveCampaigns(tenWithThreeActive(), DefaultSorter(), 0)
	assert.Equal(t, []string{"CAM-008", "CAM-001", "CAM-003"}, ids(got))

	got = ActiveCampaigns(tenWithThreeActive(), DefaultSorter(), 2)
	assert.Len(t, got, 2)
}

func TestRecent(t *testing.T) {
	list := seed.Campaigns()
	list[3].CreatedAt = list[0].CreatedAt.Add(time.Hour)
	assert.Equal(t, []string{"CAM-004", "CAM-001", "CAM-002"}, ids(Recent(list, 3)))
}

func TestSummarize(t *testing.T) {
	list := []model.Campaign{
		{Status: model.StatusActive, BudgetSpent: 100, BudgetTotal: 200, Impressions: 1000, Clicks: 50, Conversions: 5},
		{Status: model.StatusCompleted, BudgetSpent: 100, BudgetTotal: 100, Impressions: 1000, Clicks: 50, Conversions: 5},
	}
	s := Summarize(list)
	assert.Equal(t, 2, s.Campaigns)
	assert.Equal(t, 1, s.Active)
	assert.Equal(t, 1, s.Completed)
	assert.InDelta(t, 5.0, s.CTR, 1e-9)
	assert.InDelta(t, 2.0, s.CPC, 1e-9)
	assert.InDelta(t, 10.0, s.ConversionRate, 1e-9)

	assert.Equal(t, Summary{}, Summarize(nil))
}

func TestPager_LoadMoreUntilExhausted(t *testing.T) {
	list := seed.Campaigns()
	p := NewPager(0, 0)
	assert.Len(t, p.Page(list), PageSize)
	assert.True(t, p.CanLoadMore(len(list)))

	require.NoError(t, p.LoadMore(context.Background()))
	assert.Len(t, p.Page(list), len(list))
	assert.False(t, p.CanLoadMore(len(list)))

	p.Reset()
	assert.Equal(t, PageSize, p.Visible())
}

func TestPager_CancelKeepsCursor(t *testing.T) {
	p := NewPager(2, time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- p.LoadMore(ctx) }()
	require.Eventually(t, p.Loading, time.Second, time.Millisecond)

	// A second request while one is pending is ignored.
	require.NoError(t, p.LoadMore(context.Background()))
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, 2, p.Visible())
	assert.False(t, p.Loading())
}

func indexOf(list []string, v string) int {
	for i, s := range list {
		if s == v {
			return i
		}
	}
	return -1
}
