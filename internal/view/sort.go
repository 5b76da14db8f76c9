package view

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/and161185/syncads/internal/model"
)

// SortKey names a sortable campaign column.
type SortKey string

const (
	SortName        SortKey = "name"
	SortStatus      SortKey = "status"
	SortPlatform    SortKey = "platform"
	SortBudgetSpent SortKey = "budgetSpent"
	SortBudgetTotal SortKey = "budgetTotal"
	SortImpressions SortKey = "impressions"
	SortClicks      SortKey = "clicks"
	SortConversions SortKey = "conversions"
	SortCTR         SortKey = "ctr"
	SortCPC         SortKey = "cpc"
)

var numeric = map[SortKey]func(model.Campaign) float64{
	SortBudgetSpent: func(c model.Campaign) float64 { return c.BudgetSpent },
	SortBudgetTotal: func(c model.Campaign) float64 { return c.BudgetTotal },
	SortImpressions: func(c model.Campaign) float64 { return float64(c.Impressions) },
	SortClicks:      func(c model.Campaign) float64 { return float64(c.Clicks) },
	SortConversions: func(c model.Campaign) float64 { return float64(c.Conversions) },
	SortCTR:         func(c model.Campaign) float64 { return c.CTR },
	SortCPC:         func(c model.Campaign) float64 { return c.CPC },
}

var lexical = map[SortKey]func(model.Campaign) string{
	SortName:     func(c model.Campaign) string { return strings.ToLower(c.Name) },
	SortStatus:   func(c model.Campaign) string { return string(c.Status) },
	SortPlatform: func(c model.Campaign) string { return string(c.Platform) },
}

// ParseSortKey validates a column name.
func ParseSortKey(s string) (SortKey, error) {
	k := SortKey(s)
	if _, ok := numeric[k]; ok {
		return k, nil
	}
	if _, ok := lexical[k]; ok {
		return k, nil
	}
	return "", fmt.Errorf("unknown sort key %q", s)
}

// DefaultDesc is the direction a key starts with: descending for numbers,
// ascending for text.
func (k SortKey) DefaultDesc() bool {
	_, ok := numeric[k]
	return ok
}

// Sorter is the single active (key, direction) pair.
type Sorter struct {
	Key  SortKey `json:"key"`
	Desc bool    `json:"desc"`
}

// DefaultSorter sorts by clicks, descending.
func DefaultSorter() Sorter { return Sorter{Key: SortClicks, Desc: true} }

// Toggle flips the direction when k is already active, otherwise selects k
// with its default direction.
func (s Sorter) Toggle(k SortKey) Sorter {
	if s.Key == k {
		return Sorter{Key: k, Desc: !s.Desc}
	}
	return Sorter{Key: k, Desc: k.DefaultDesc()}
}

// Apply returns a stably sorted copy of list. Equal values keep their
// relative order in both directions. Unknown keys keep the input order.
func (s Sorter) Apply(list []model.Campaign) []model.Campaign {
	out := slices.Clone(list)
	var by func(a, b model.Campaign) int
	if f, ok := numeric[s.Key]; ok {
		by = func(a, b model.Campaign) int { return cmp.Compare(f(a), f(b)) }
	} else if f, ok := lexical[s.Key]; ok {
		by = func(a, b model.Campaign) int { return strings.Compare(f(a), f(b)) }
	} else {
		return out
	}
	slices.SortStableFunc(out, func(a, b model.Campaign) int {
		if s.Desc {
			return by(b, a)
		}
		return by(a, b)
	})
	return out
}
