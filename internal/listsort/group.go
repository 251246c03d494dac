package listsort

import (
	"slices"

	"github.com/kaimono-app/kaimono/internal/model"
)

// Group is one category bucket of a grouped item view.
type Group struct {
	CategoryID   string           `json:"categoryId"`
	CategoryName string           `json:"categoryName"`
	Items        []model.ListItem `json:"items"`

	priority int
}

// GroupByCategory partitions items into category buckets. Items with an
// absent or unknown category id land in the fallback "other" bucket,
// never dropped. Within a bucket, items are ordered by priority ascending
// then name ascending; dir affects only the order of the buckets
// themselves, which follow category priority. Empty buckets are omitted;
// the fallback bucket sorts per +infinity priority (last ascending, first
// descending).
func GroupByCategory(items []model.ListItem, categories []model.Category, dir model.SortDirection) []Group {
	index := make(map[string]model.Category, len(categories))
	for _, c := range categories {
		index[c.ID] = c
	}

	buckets := make(map[string]*Group)
	var order []string // first-appearance order, the base for the stable bucket sort
	for _, item := range items {
		id := item.Category
		if id == "" {
			id = model.CategoryOther
		}
		if _, known := index[id]; !known && id != model.CategoryOther {
			id = model.CategoryOther
		}

		g, ok := buckets[id]
		if !ok {
			g = &Group{CategoryID: id, CategoryName: groupName(id, index), priority: groupPriority(id, index)}
			buckets[id] = g
			order = append(order, id)
		}
		g.Items = append(g.Items, item)
	}

	sign := direction(dir)
	groups := make([]Group, 0, len(order))
	for _, id := range order {
		g := buckets[id]
		g.Items = ByPriority(g.Items, model.SortAsc)
		groups = append(groups, *g)
	}
	slices.SortStableFunc(groups, func(a, b Group) int {
		if c := compareInts(a.priority, b.priority); c != 0 {
			return sign * c
		}
		return compareNames(a.CategoryName, b.CategoryName)
	})
	return groups
}

func groupName(id string, index map[string]model.Category) string {
	if c, ok := index[id]; ok {
		return c.Name
	}
	return "Other"
}

func groupPriority(id string, index map[string]model.Category) int {
	if id == model.CategoryOther {
		return unknownPriority
	}
	if c, ok := index[id]; ok {
		return c.Priority
	}
	return unknownPriority
}
