package model

// UncategorizedBucket keys the synthetic breakdown entry for items whose
// category is absent.
const UncategorizedBucket = "uncategorized"

// HistoryItem is a snapshot of a ListItem at completion time, decoupled
// from the live item so history can never observe later edits.
type HistoryItem struct {
	ID        string   `json:"id"`
	ProductID string   `json:"productId,omitempty"`
	Name      string   `json:"name"`
	Quantity  float64  `json:"quantity"`
	Unit      string   `json:"unit,omitempty"`
	MaxPrice  *float64 `json:"maxPrice,omitempty"`
	Note      string   `json:"note,omitempty"`
	Completed bool     `json:"completed"`
	Category  string   `json:"category,omitempty"`
	Priority  int      `json:"priority"`
}

type CategorySummary struct {
	CategoryID     string `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	TotalItems     int    `json:"totalItems"`
	CompletedItems int    `json:"completedItems"`
	CompletionRate int    `json:"completionRate"`
}

// HistoryEntry is an immutable snapshot of a completed Picklist. Entries are
// never edited after creation; the only mutation is whole-entry deletion.
type HistoryEntry struct {
	ID          string `json:"id"`
	ListID      string `json:"listId"`
	ListName    string `json:"listName"`
	CompletedAt int64  `json:"completedAt"`
	// CompletedDate is the local calendar date of CompletedAt, formatted
	// YYYY-MM-DD so string ranges sort chronologically.
	CompletedDate     string            `json:"completedDate"`
	Items             []HistoryItem     `json:"items"`
	TotalItems        int               `json:"totalItems"`
	CompletedItems    int               `json:"completedItems"`
	CompletionRate    int               `json:"completionRate"`
	CategoryBreakdown []CategorySummary `json:"categoryBreakdown"`
}

// Clone returns a deep copy. Read paths hand entries across an ownership
// boundary with this so a caller writing through the result can never
// reach the stored entry.
func (e HistoryEntry) Clone() HistoryEntry {
	out := e
	out.Items = make([]HistoryItem, len(e.Items))
	copy(out.Items, e.Items)
	for i, it := range e.Items {
		if it.MaxPrice != nil {
			p := *it.MaxPrice
			out.Items[i].MaxPrice = &p
		}
	}
	out.CategoryBreakdown = make([]CategorySummary, len(e.CategoryBreakdown))
	copy(out.CategoryBreakdown, e.CategoryBreakdown)
	return out
}

type DateSummary struct {
	Date                  string `json:"date"`
	EntryCount            int    `json:"entryCount"`
	TotalLists            int    `json:"totalLists"`
	AverageCompletionRate int    `json:"averageCompletionRate"`
}

type TotalStats struct {
	TotalHistories int `json:"totalHistories"`
	// TotalCompletedLists always equals TotalHistories; kept as a distinct
	// field for API stability.
	TotalCompletedLists   int    `json:"totalCompletedLists"`
	AverageCompletionRate int    `json:"averageCompletionRate"`
	MostActiveDate        string `json:"mostActiveDate,omitempty"`
}
