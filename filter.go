package moderator

import (
	"strings"

	"github.com/samber/lo"
)

// Sentinel filter values meaning "no constraint".
const (
	AnyType     = "all"
	AnyCategory = "All"
	AnyStatus   = "any"
)

// Filter is the set of criteria staff can browse by. Zero fields and the
// Any* sentinels impose no constraint.
//
// Status and Type are pushed down to the store. Category, Station, DateStr
// and Query are evaluated locally on the fetched page because the store
// supports neither substring nor full-text search.
type Filter struct {
	Query    string
	Type     ItemType
	Category string
	Status   Status
	Station  string
	DateStr  string
}

// Normalize returns a copy with free-text fields trimmed (and lower-cased
// where matching is case-insensitive) and sentinels replaced by zero values.
func (f Filter) Normalize() Filter {
	f.Query = strings.ToLower(strings.TrimSpace(f.Query))
	f.Station = strings.ToLower(strings.TrimSpace(f.Station))
	f.DateStr = strings.TrimSpace(f.DateStr)
	f.Category = strings.TrimSpace(f.Category)

	f.Type = lo.Ternary(strings.EqualFold(string(f.Type), AnyType), "", f.Type)
	f.Category = lo.Ternary(f.Category == AnyCategory, "", f.Category)
	f.Status = lo.Ternary(string(f.Status) == AnyStatus, "", f.Status)

	return f
}

// IsZero reports whether the normalized filter constrains nothing.
func (f Filter) IsZero() bool {
	return f.Normalize() == Filter{}
}

// query builds the store query for the predicates the store can evaluate.
func (f Filter) query(limit int) Query {
	f = f.Normalize()

	return Query{
		Status: f.Status,
		Type:   f.Type,
		Limit:  limit,
	}
}

// MatchesLocal evaluates the predicates that are not pushed to the store.
func (f Filter) MatchesLocal(item Item) bool {
	f = f.Normalize()

	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.Station != "" && !strings.Contains(strings.ToLower(item.StationOrTrain), f.Station) {
		return false
	}
	if f.DateStr != "" && item.DateStrNorm != f.DateStr {
		return false
	}
	if f.Query != "" {
		hay := strings.ToLower(item.Title + " " + item.Description + " " + item.StationOrTrain)
		if !strings.Contains(hay, f.Query) {
			return false
		}
	}

	return true
}

// Matches evaluates every predicate of the filter, pushed down or local.
func (f Filter) Matches(item Item) bool {
	f = f.Normalize()

	if f.Status != "" && item.Status != f.Status {
		return false
	}
	if f.Type != "" && item.Type != f.Type {
		return false
	}

	return f.MatchesLocal(item)
}

// applyLocal keeps the items satisfying the local predicates.
func (f Filter) applyLocal(items []Item) []Item {
	f = f.Normalize()

	return lo.Filter(items, func(item Item, _ int) bool {
		return f.MatchesLocal(item)
	})
}
