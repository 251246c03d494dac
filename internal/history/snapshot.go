// Package history converts completed picklists into immutable history
// entries and answers statistical queries over them.
package history

import (
	"math"
	"time"

	"github.com/kaimono-app/kaimono/internal/clock"
	"github.com/kaimono-app/kaimono/internal/model"
)

// Snapshot builds a HistoryEntry from a completed list. Pure: the list is
// deep-copied, so mutating it afterwards never alters the entry.
// Categories supply breakdown display names; a dangling category id keeps
// its own breakdown bucket named after the id, and items without a
// category land in the synthetic uncategorized bucket.
func Snapshot(list model.Picklist, entryID string, completedAt time.Time, categories []model.Category) model.HistoryEntry {
	items := make([]model.HistoryItem, len(list.Items))
	completed := 0
	for i, it := range list.Items {
		items[i] = model.HistoryItem{
			ID:        it.ID,
			ProductID: it.ProductID,
			Name:      it.Name,
			Quantity:  it.Quantity,
			Unit:      it.Unit,
			MaxPrice:  copyPrice(it.MaxPrice),
			Note:      it.Note,
			Completed: it.Completed,
			Category:  it.Category,
			Priority:  it.Priority,
		}
		if it.Completed {
			completed++
		}
	}

	return model.HistoryEntry{
		ID:                entryID,
		ListID:            list.ID,
		ListName:          list.Name,
		CompletedAt:       clock.Millis(completedAt),
		CompletedDate:     completedAt.Format("2006-01-02"),
		Items:             items,
		TotalItems:        len(items),
		CompletedItems:    completed,
		CompletionRate:    Rate(completed, len(items)),
		CategoryBreakdown: breakdown(list.Items, categories),
	}
}

// Rate is the completion percentage, rounded half away from zero. Zero
// when total is zero.
func Rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(100 * float64(completed) / float64(total)))
}

// breakdown produces one summary per distinct category id among the items,
// in first-appearance order, plus the uncategorized bucket for items with
// no category.
func breakdown(items []model.ListItem, categories []model.Category) []model.CategorySummary {
	names := make(map[string]string, len(categories))
	for _, c := range categories {
		names[c.ID] = c.Name
	}

	byID := make(map[string]*model.CategorySummary)
	var order []string
	for _, it := range items {
		id := it.Category
		name := ""
		if id == "" {
			id = model.UncategorizedBucket
			name = "Uncategorized"
		} else if n, ok := names[id]; ok {
			name = n
		} else {
			name = id
		}

		s, ok := byID[id]
		if !ok {
			s = &model.CategorySummary{CategoryID: id, CategoryName: name}
			byID[id] = s
			order = append(order, id)
		}
		s.TotalItems++
		if it.Completed {
			s.CompletedItems++
		}
	}

	out := make([]model.CategorySummary, 0, len(order))
	for _, id := range order {
		s := byID[id]
		s.CompletionRate = Rate(s.CompletedItems, s.TotalItems)
		out = append(out, *s)
	}
	return out
}

func copyPrice(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
