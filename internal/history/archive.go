package history

import (
	"fmt"
	"math"
	"slices"
	"sync"

	"github.com/kaimono-app/kaimono/internal/clock"
	"github.com/kaimono-app/kaimono/internal/id"
	"github.com/kaimono-app/kaimono/internal/kv"
	"github.com/kaimono-app/kaimono/internal/model"
)

// StorageKey is the key-value store key the archive mirrors under. Only
// the entries are persisted; no transient state.
const StorageKey = "shopping-history-storage"

// DefaultRecentLimit caps RecentEntries when the caller passes no limit.
const DefaultRecentLimit = 10

type persisted struct {
	Histories []model.HistoryEntry `json:"histories"`
}

// Archive holds the accumulated history entries, most recent first.
// Entries are immutable once recorded; deletion is the only mutation.
type Archive struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
	clk     clock.Clock
	ids     id.Generator
	mirror  *kv.Mirror
}

// NewArchive creates an empty Archive. mirror may be nil.
func NewArchive(clk clock.Clock, ids id.Generator, mirror *kv.Mirror) *Archive {
	return &Archive{clk: clk, ids: ids, mirror: mirror}
}

// Load rehydrates the archive from the mirror. Must complete before first
// use.
func (a *Archive) Load() error {
	if a.mirror == nil {
		return nil
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	var doc persisted
	if _, err := a.mirror.Load(&doc); err != nil {
		return err
	}
	a.entries = doc.Histories
	return nil
}

// RecordCompletion snapshots the list into a new entry and prepends it,
// keeping the collection most-recent-first.
func (a *Archive) RecordCompletion(list model.Picklist, categories []model.Category) model.HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	entry := Snapshot(list, a.ids.NewID(), a.clk.Now(), categories)
	a.entries = append([]model.HistoryEntry{entry}, a.entries...)
	a.saveLocked()
	return entry.Clone()
}

// Entries returns all entries, most recent first. Entries are deep copies;
// writing through them never reaches the archive.
func (a *Archive) Entries() []model.HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()
	return cloneEntries(a.entries)
}

// Get returns the entry with the given id, or false when absent.
func (a *Archive) Get(entryID string) (model.HistoryEntry, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.entries {
		if e.ID == entryID {
			return e.Clone(), true
		}
	}
	return model.HistoryEntry{}, false
}

// RemoveEntry deletes an entry. Deletion is final; unknown ids are a no-op.
func (a *Archive) RemoveEntry(entryID string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i, e := range a.entries {
		if e.ID == entryID {
			a.entries = slices.Delete(a.entries, i, i+1)
			a.saveLocked()
			return true
		}
	}
	return false
}

// ClearAll deletes every entry.
func (a *Archive) ClearAll() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = nil
	a.saveLocked()
}

// QueryByDate returns entries completed on the given YYYY-MM-DD date, in
// stored (most-recent-first) order.
func (a *Archive) QueryByDate(date string) []model.HistoryEntry {
	return a.QueryByDateRange(date, date)
}

// QueryByDateRange returns entries whose completedDate falls within
// [start, end], inclusive on both ends. An empty bound is open-ended. The
// YYYY-MM-DD format sorts lexicographically in chronological order, so a
// plain string range is exact.
func (a *Archive) QueryByDateRange(start, end string) []model.HistoryEntry {
	a.mu.Lock()
	defer a.mu.Unlock()

	var out []model.HistoryEntry
	for _, e := range a.entries {
		if e.CompletedDate >= start && (end == "" || e.CompletedDate <= end) {
			out = append(out, e.Clone())
		}
	}
	return out
}

// RecentEntries returns the first limit entries of the most-recent-first
// collection, a prefix rather than a new sort. limit <= 0 means the default.
func (a *Archive) RecentEntries(limit int) []model.HistoryEntry {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if limit > len(a.entries) {
		limit = len(a.entries)
	}
	return cloneEntries(a.entries[:limit])
}

func cloneEntries(entries []model.HistoryEntry) []model.HistoryEntry {
	out := make([]model.HistoryEntry, len(entries))
	for i, e := range entries {
		out[i] = e.Clone()
	}
	return out
}

// DateSummaries groups all entries by completion date, most recent date
// first. The average completion rate is the rounded mean over that date's
// entries.
func (a *Archive) DateSummaries() []model.DateSummary {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dateSummariesLocked()
}

func (a *Archive) dateSummariesLocked() []model.DateSummary {
	type acc struct {
		count     int
		rateTotal int
	}
	byDate := make(map[string]*acc)
	var dates []string
	for _, e := range a.entries {
		s, ok := byDate[e.CompletedDate]
		if !ok {
			s = &acc{}
			byDate[e.CompletedDate] = s
			dates = append(dates, e.CompletedDate)
		}
		s.count++
		s.rateTotal += e.CompletionRate
	}

	slices.Sort(dates)
	slices.Reverse(dates)

	out := make([]model.DateSummary, 0, len(dates))
	for _, d := range dates {
		s := byDate[d]
		out = append(out, model.DateSummary{
			Date:                  d,
			EntryCount:            s.count,
			TotalLists:            s.count,
			AverageCompletionRate: roundMean(s.rateTotal, s.count),
		})
	}
	return out
}

// MonthSummary filters DateSummaries down to the given month.
func (a *Archive) MonthSummary(year, month int) []model.DateSummary {
	prefix := fmt.Sprintf("%04d-%02d", year, month)

	a.mu.Lock()
	defer a.mu.Unlock()

	var out []model.DateSummary
	for _, s := range a.dateSummariesLocked() {
		if len(s.Date) >= len(prefix) && s.Date[:len(prefix)] == prefix {
			out = append(out, s)
		}
	}
	return out
}

// TotalStats aggregates over the whole archive. MostActiveDate is the date
// with the highest entry count; ties go to the earliest date.
func (a *Archive) TotalStats() model.TotalStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := model.TotalStats{
		TotalHistories:      len(a.entries),
		TotalCompletedLists: len(a.entries),
	}
	if len(a.entries) == 0 {
		return stats
	}

	rateTotal := 0
	counts := make(map[string]int)
	for _, e := range a.entries {
		rateTotal += e.CompletionRate
		counts[e.CompletedDate]++
	}
	stats.AverageCompletionRate = roundMean(rateTotal, len(a.entries))

	for date, n := range counts {
		switch {
		case n > counts[stats.MostActiveDate]:
			stats.MostActiveDate = date
		case n == counts[stats.MostActiveDate] && date < stats.MostActiveDate:
			stats.MostActiveDate = date
		}
	}
	return stats
}

func roundMean(total, count int) int {
	if count == 0 {
		return 0
	}
	return int(math.Round(float64(total) / float64(count)))
}

func (a *Archive) saveLocked() {
	if a.mirror == nil {
		return
	}
	a.mirror.Put(persisted{Histories: slices.Clone(a.entries)})
}
