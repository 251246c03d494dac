package model

// CategoryOther is the reserved fallback category. It always exists and
// cannot be deleted; items with a missing or unknown category resolve to it.
const CategoryOther = "other"

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`
	Priority     int    `json:"priority"`
}
