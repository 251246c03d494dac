package model

type SortKey string

const (
	SortByName     SortKey = "name"
	SortByCategory SortKey = "category"
	SortByPriority SortKey = "priority"
	SortByCreated  SortKey = "created"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// Item priorities. Lower sorts first.
const (
	PriorityHigh    = 1
	PriorityMid     = 2
	PriorityLow     = 3
	DefaultPriority = PriorityMid
)

type ListItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId,omitempty"`
	Name      string   `json:"name"`
	Quantity  float64  `json:"quantity"`
	Unit      string   `json:"unit,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
	Note      string   `json:"note,omitempty"`
	Completed bool     `json:"completed"`
	// Category references a Category.ID. It may be empty or dangling; the
	// sort engine resolves both to the fallback bucket.
	Category  string `json:"category,omitempty"`
	Priority  int    `json:"priority"`
	CreatedAt int64  `json:"createdAt"`
}

// Picklist is an active, editable shopping list. Items are stored in
// insertion order; presentation order is always derived on read.
type Picklist struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Items           []ListItem    `json:"items"`
	CreatedAt       int64         `json:"createdAt"`
	UpdatedAt       int64         `json:"updatedAt"`
	SortBy          SortKey       `json:"sortBy,omitempty"`
	SortDirection   SortDirection `json:"sortDirection,omitempty"`
	GroupByCategory bool          `json:"groupByCategory"`
}

// Clone returns a deep copy. Callers that hand a Picklist across an
// ownership boundary use this so later mutations cannot alias.
func (p Picklist) Clone() Picklist {
	out := p
	out.Items = make([]ListItem, len(p.Items))
	copy(out.Items, p.Items)
	return out
}
