// Package view holds the derived read models over the campaign collection.
// Every function here is pure: inputs are never mutated and results are
// fresh slices.
package view

import (
	"strings"

	"github.com/and161185/syncads/internal/model"
)

// All is the wildcard value of a status or platform filter.
const All = "Todas"

// Filter ANDs a status predicate, a platform predicate and a case-insensitive
// name substring. Empty Status or Platform behaves like All.
type Filter struct {
	Status   string
	Platform string
	Search   string
}

// Match reports whether c passes every predicate of f.
func (f Filter) Match(c model.Campaign) bool {
	if f.Status != "" && f.Status != All && string(c.Status) != f.Status {
		return false
	}
	if f.Platform != "" && f.Platform != All && string(c.Platform) != f.Platform {
		return false
	}
	if f.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

// Apply returns the campaigns matching f in their original order.
func (f Filter) Apply(list []model.Campaign) []model.Campaign {
	out := make([]model.Campaign, 0, len(list))
	for _, c := range list {
		if f.Match(c) {
			out = append(out, c)
		}
	}
	return out
}
