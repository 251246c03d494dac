// Package listsort derives presentation order for picklist items. Every
// function is pure: inputs are never mutated, a freshly ordered slice is
// returned, and malformed input (empty collections, dangling category ids)
// degrades to documented fallbacks rather than an error.
//
// Name comparisons use Japanese collation, matching the default collation
// of the mobile runtime the persisted data originates from.
package listsort

import (
	"math"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kaimono-app/kaimono/internal/model"
)

// unknownPriority sorts unresolved categories after every real one in
// ascending order.
const unknownPriority = math.MaxInt

var (
	collMu   sync.Mutex
	collator = collate.New(language.Japanese)
)

// compareNames is a locale-aware string compare. The collator is not safe
// for concurrent use, hence the lock.
func compareNames(a, b string) int {
	collMu.Lock()
	defer collMu.Unlock()
	return collator.CompareString(a, b)
}

func direction(dir model.SortDirection) int {
	if dir == model.SortDesc {
		return -1
	}
	return 1
}

// ByName orders items by locale-aware name comparison. Equal names keep
// their relative input order.
func ByName(items []model.ListItem, dir model.SortDirection) []model.ListItem {
	sign := direction(dir)
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.ListItem) int {
		return sign * compareNames(a.Name, b.Name)
	})
	return out
}

// ByPriority orders items by numeric priority, breaking ties by name
// ascending regardless of dir.
func ByPriority(items []model.ListItem, dir model.SortDirection) []model.ListItem {
	sign := direction(dir)
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.ListItem) int {
		if c := compareInts(a.Priority, b.Priority); c != 0 {
			return sign * c
		}
		return compareNames(a.Name, b.Name)
	})
	return out
}

// ByCategory orders items by the display priority of their category,
// resolved against categories. Items whose category is absent or matches
// no registered category sort last in ascending order. Ties break by name
// ascending regardless of dir.
func ByCategory(items []model.ListItem, categories []model.Category, dir model.SortDirection) []model.ListItem {
	prio := priorityIndex(categories)
	sign := direction(dir)
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.ListItem) int {
		if c := compareInts(itemCategoryPriority(a, prio), itemCategoryPriority(b, prio)); c != 0 {
			return sign * c
		}
		return compareNames(a.Name, b.Name)
	})
	return out
}

// ByCreated orders items by creation time, breaking ties by id so the
// order stays deterministic when timestamps collide.
func ByCreated(items []model.ListItem, dir model.SortDirection) []model.ListItem {
	sign := direction(dir)
	out := slices.Clone(items)
	slices.SortStableFunc(out, func(a, b model.ListItem) int {
		if c := compareInt64s(a.CreatedAt, b.CreatedAt); c != 0 {
			return sign * c
		}
		return compareStrings(a.ID, b.ID)
	})
	return out
}

// Apply dispatches to the sorter selected by the list's sort settings.
// An unset or unrecognized sort key falls back to category order.
func Apply(list model.Picklist, categories []model.Category) []model.ListItem {
	dir := list.SortDirection
	switch list.SortBy {
	case model.SortByName:
		return ByName(list.Items, dir)
	case model.SortByPriority:
		return ByPriority(list.Items, dir)
	case model.SortByCreated:
		return ByCreated(list.Items, dir)
	default:
		return ByCategory(list.Items, categories, dir)
	}
}

func priorityIndex(categories []model.Category) map[string]int {
	prio := make(map[string]int, len(categories))
	for _, c := range categories {
		prio[c.ID] = c.Priority
	}
	return prio
}

func itemCategoryPriority(item model.ListItem, prio map[string]int) int {
	// The fallback bucket always sorts per +infinity, even when a
	// registered "other" category carries its own priority.
	if item.Category == "" || item.Category == model.CategoryOther {
		return unknownPriority
	}
	if p, ok := prio[item.Category]; ok {
		return p
	}
	return unknownPriority
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareInt64s(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func compareStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
