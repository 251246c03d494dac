package category

import "github.com/kaimono-app/kaimono/internal/model"

// Defaults returns the category set seeded on first run. Ids are fixed
// slugs so the frequent-products catalog can reference them; priorities
// are spaced so user-created categories slot in between.
func Defaults() []model.Category {
	return []model.Category{
		{ID: "vegetables", Name: "Vegetables", DisplayOrder: 1, Priority: 10},
		{ID: "fruits", Name: "Fruits", DisplayOrder: 2, Priority: 20},
		{ID: "meat", Name: "Meat", DisplayOrder: 3, Priority: 30},
		{ID: "fish", Name: "Fish", DisplayOrder: 4, Priority: 40},
		{ID: "dairy", Name: "Dairy & Eggs", DisplayOrder: 5, Priority: 50},
		{ID: "bakery", Name: "Bakery", DisplayOrder: 6, Priority: 60},
		{ID: "pantry", Name: "Pantry", DisplayOrder: 7, Priority: 70},
		{ID: "frozen", Name: "Frozen", DisplayOrder: 8, Priority: 80},
		{ID: "beverages", Name: "Beverages", DisplayOrder: 9, Priority: 90},
		{ID: "snacks", Name: "Snacks", DisplayOrder: 10, Priority: 100},
		{ID: "household", Name: "Household", DisplayOrder: 11, Priority: 110},
		fallbackCategory(),
	}
}

func fallbackCategory() model.Category {
	return model.Category{ID: model.CategoryOther, Name: "Other", DisplayOrder: 12, Priority: 120}
}
