package listsort

import (
	"testing"

	"github.com/kaimono-app/kaimono/internal/model"
)

var groupCats = []model.Category{
	{ID: "vegetables", Name: "Vegetables", Priority: 10},
	{ID: "meat", Name: "Meat", Priority: 30},
	{ID: "other", Name: "Other", Priority: 120},
}

func TestGroupByCategoryBuckets(t *testing.T) {
	items := []model.ListItem{
		{ID: "1", Name: "beef", Category: "meat", Priority: 2},
		{ID: "2", Name: "carrot", Category: "vegetables", Priority: 2},
		{ID: "3", Name: "onion", Category: "vegetables", Priority: 1},
		{ID: "4", Name: "mystery", Category: "gone", Priority: 2},
		{ID: "5", Name: "loose", Priority: 2},
	}

	groups := GroupByCategory(items, groupCats, model.SortAsc)
	if len(groups) != 3 {
		t.Fatalf("expected 3 groups, got %d", len(groups))
	}

	if groups[0].CategoryID != "vegetables" || groups[1].CategoryID != "meat" || groups[2].CategoryID != "other" {
		t.Fatalf("group order = %s, %s, %s", groups[0].CategoryID, groups[1].CategoryID, groups[2].CategoryID)
	}

	// Intra-bucket: priority asc, then name asc.
	assertOrder(t, groups[0].Items, "onion", "carrot")

	// Unknown and uncategorized items are never dropped.
	assertOrder(t, groups[2].Items, "loose", "mystery")
}

func TestGroupByCategoryDescOnlyReordersBuckets(t *testing.T) {
	items := []model.ListItem{
		{ID: "1", Name: "carrot", Category: "vegetables", Priority: 2},
		{ID: "2", Name: "onion", Category: "vegetables", Priority: 1},
		{ID: "3", Name: "loose", Priority: 2},
	}

	groups := GroupByCategory(items, groupCats, model.SortDesc)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}

	// Fallback bucket first in descending order.
	if groups[0].CategoryID != "other" {
		t.Fatalf("first group = %s, want other", groups[0].CategoryID)
	}

	// Intra-bucket order unaffected by direction.
	assertOrder(t, groups[1].Items, "onion", "carrot")
}

func TestGroupByCategoryOmitsEmptyBuckets(t *testing.T) {
	items := []model.ListItem{
		{ID: "1", Name: "beef", Category: "meat", Priority: 2},
	}

	groups := GroupByCategory(items, groupCats, model.SortAsc)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].CategoryID != "meat" {
		t.Fatalf("group = %s, want meat", groups[0].CategoryID)
	}
}

func TestGroupByCategoryUnknownRegistryName(t *testing.T) {
	// No registry at all: everything lands in a named fallback bucket.
	items := []model.ListItem{
		{ID: "1", Name: "thing", Category: "whatever", Priority: 2},
	}

	groups := GroupByCategory(items, nil, model.SortAsc)
	if len(groups) != 1 {
		t.Fatalf("expected 1 group, got %d", len(groups))
	}
	if groups[0].CategoryID != model.CategoryOther || groups[0].CategoryName != "Other" {
		t.Fatalf("group = %s/%s, want other/Other", groups[0].CategoryID, groups[0].CategoryName)
	}
}
