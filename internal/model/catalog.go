package model

// Product is an entry in the frequent-products catalog, read-only from the
// core's perspective. Category is a default; the user can override it on
// the item after quick-add.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
	Unit     string `json:"unit,omitempty"`
}
