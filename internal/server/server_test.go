package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kaimono-app/kaimono/internal/clock"
	"github.com/kaimono-app/kaimono/internal/id"
	"github.com/kaimono-app/kaimono/internal/kv"
	"github.com/kaimono-app/kaimono/internal/model"
)

func newTestServer(t *testing.T) (*Server, *httptest.Server) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	now := time.Date(2026, 3, 14, 10, 0, 0, 0, time.Local)
	srv, err := New(kv.NewMemory(), clock.Fixed{T: now}, &id.Sequence{Prefix: "t"}, logger)
	if err != nil {
		t.Fatalf("new server: %v", err)
	}
	ts := httptest.NewServer(srv.Router())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return srv, ts
}

func do(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, rdr)
	if err != nil {
		t.Fatal(err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
}

func TestHealth(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/health", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestSeededCategories(t *testing.T) {
	_, ts := newTestServer(t)
	resp := do(t, http.MethodGet, ts.URL+"/api/categories", nil)
	var cats []model.Category
	decode(t, resp, &cats)
	if len(cats) != 12 {
		t.Fatalf("seeded %d categories, want 12", len(cats))
	}
	found := false
	for _, c := range cats {
		if c.ID == model.CategoryOther {
			found = true
		}
	}
	if !found {
		t.Error("fallback category missing from seed")
	}
}

func TestListLifecycle(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/lists", map[string]string{"name": "テストリスト"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created model.Picklist
	decode(t, resp, &created)
	if created.Name != "テストリスト" {
		t.Errorf("name = %q", created.Name)
	}
	if created.SortBy != model.SortByCategory || created.SortDirection != model.SortAsc || !created.GroupByCategory {
		t.Errorf("unexpected sort defaults: %+v", created)
	}

	items := []map[string]any{
		{"name": "にんじん", "quantity": 3, "category": "vegetables"},
		{"name": "牛乳", "quantity": 1, "unit": "l", "category": "dairy"},
		{"name": "電池", "quantity": 2},
	}
	resp = do(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/items", ts.URL, created.ID), items)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add items status = %d", resp.StatusCode)
	}
	var added []model.ListItem
	decode(t, resp, &added)
	if len(added) != 3 {
		t.Fatalf("added %d items", len(added))
	}
	for _, it := range added {
		if it.Priority != model.DefaultPriority {
			t.Errorf("item %q priority = %d, want default", it.Name, it.Priority)
		}
	}

	// complete two of the three
	for _, it := range added[:2] {
		resp = do(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/items/%s/toggle", ts.URL, created.ID, it.ID), nil)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("toggle status = %d", resp.StatusCode)
		}
	}

	resp = do(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/complete", ts.URL, created.ID), nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("complete status = %d", resp.StatusCode)
	}
	var entry model.HistoryEntry
	decode(t, resp, &entry)
	if entry.ListName != "テストリスト" {
		t.Errorf("entry list name = %q", entry.ListName)
	}
	if entry.TotalItems != 3 || entry.CompletedItems != 2 || entry.CompletionRate != 67 {
		t.Errorf("entry stats = %d/%d rate %d, want 3/2 rate 67",
			entry.TotalItems, entry.CompletedItems, entry.CompletionRate)
	}
	if entry.CompletedDate != "2026-03-14" {
		t.Errorf("completedDate = %q", entry.CompletedDate)
	}

	// completion removes the list from the active collection
	resp = do(t, http.MethodGet, ts.URL+"/api/lists", nil)
	var lists []model.Picklist
	decode(t, resp, &lists)
	if len(lists) != 0 {
		t.Errorf("active lists after completion = %d, want 0", len(lists))
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/history/"+entry.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("history get status = %d", resp.StatusCode)
	}
}

func TestGroupedView(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/lists", map[string]string{"name": "買い物"})
	var created model.Picklist
	decode(t, resp, &created)

	items := []map[string]any{
		{"name": "きゅうり", "category": "vegetables"},
		{"name": "豚肉", "category": "meat"},
		{"name": "謎の品"}, // no category, lands in the fallback group
	}
	do(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/items", ts.URL, created.ID), items)

	resp = do(t, http.MethodGet, ts.URL+"/api/lists/"+created.ID, nil)
	var view struct {
		model.Picklist
		Groups []struct {
			CategoryID   string           `json:"categoryId"`
			CategoryName string           `json:"categoryName"`
			Items        []model.ListItem `json:"items"`
		} `json:"groups"`
	}
	decode(t, resp, &view)
	if len(view.Groups) != 3 {
		t.Fatalf("groups = %d, want 3", len(view.Groups))
	}
	gotOrder := []string{view.Groups[0].CategoryID, view.Groups[1].CategoryID, view.Groups[2].CategoryID}
	wantOrder := []string{"vegetables", "meat", model.CategoryOther}
	for i := range wantOrder {
		if gotOrder[i] != wantOrder[i] {
			t.Fatalf("group order = %v, want %v", gotOrder, wantOrder)
		}
	}
}

func TestSortSettings(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/lists", map[string]string{"name": "list"})
	var created model.Picklist
	decode(t, resp, &created)

	resp = do(t, http.MethodPut, ts.URL+"/api/lists/"+created.ID+"/sort-settings",
		map[string]any{"sortBy": "name", "sortDirection": "desc", "groupByCategory": false})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var updated model.Picklist
	decode(t, resp, &updated)
	if updated.SortBy != model.SortByName || updated.SortDirection != model.SortDesc || updated.GroupByCategory {
		t.Errorf("sort settings not applied: %+v", updated)
	}
}

func TestQuickAddResolvesCatalog(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/lists", map[string]string{"name": "list"})
	var created model.Picklist
	decode(t, resp, &created)

	resp = do(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/quick-add", ts.URL, created.ID),
		map[string]string{"name": "Milk"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var item model.ListItem
	decode(t, resp, &item)
	if item.Category != "dairy" {
		t.Errorf("category = %q, want dairy", item.Category)
	}
	if item.Quantity != 1 {
		t.Errorf("quantity = %v, want 1", item.Quantity)
	}
}

func TestHistoryStatsAndRecent(t *testing.T) {
	_, ts := newTestServer(t)

	for i := 0; i < 3; i++ {
		resp := do(t, http.MethodPost, ts.URL+"/api/lists", map[string]string{"name": fmt.Sprintf("list-%d", i)})
		var l model.Picklist
		decode(t, resp, &l)
		do(t, http.MethodPost, fmt.Sprintf("%s/api/lists/%s/items", ts.URL, l.ID),
			[]map[string]any{{"name": "item"}})
		do(t, http.MethodPost, ts.URL+"/api/lists/"+l.ID+"/complete", nil)
	}

	resp := do(t, http.MethodGet, ts.URL+"/api/history/stats", nil)
	var stats model.TotalStats
	decode(t, resp, &stats)
	if stats.TotalHistories != 3 || stats.TotalCompletedLists != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.MostActiveDate != "2026-03-14" {
		t.Errorf("mostActiveDate = %q", stats.MostActiveDate)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/history/recent?limit=2", nil)
	var recent []model.HistoryEntry
	decode(t, resp, &recent)
	if len(recent) != 2 {
		t.Errorf("recent = %d entries, want 2", len(recent))
	}
	// newest first
	if recent[0].ListName != "list-2" {
		t.Errorf("first recent entry = %q, want list-2", recent[0].ListName)
	}
}

func TestHistoryDateFilters(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/history?date=not-a-date", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad date status = %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/history?date=2026-03-14", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("date filter status = %d", resp.StatusCode)
	}
	var entries []model.HistoryEntry
	decode(t, resp, &entries)
	if entries == nil {
		t.Error("empty result should encode as [], not null")
	}

	// a one-sided range is open-ended, not an error
	resp = do(t, http.MethodGet, ts.URL+"/api/history?start=2026-03-01", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("open-ended range status = %d, want 200", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, ts.URL+"/api/history?end=2026-03-31", nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("open-ended range status = %d, want 200", resp.StatusCode)
	}
	resp = do(t, http.MethodGet, ts.URL+"/api/history?start=bad", nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("malformed start status = %d, want 400", resp.StatusCode)
	}
}

func TestCategoryCRUDOverHTTP(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodPost, ts.URL+"/api/categories",
		map[string]any{"name": "お酒", "displayOrder": 13, "priority": 125})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var created model.Category
	decode(t, resp, &created)
	if created.Name != "お酒" || created.Priority != 125 {
		t.Errorf("created = %+v", created)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/api/categories/"+model.CategoryOther, nil)
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("deleting fallback category status = %d, want 400", resp.StatusCode)
	}

	resp = do(t, http.MethodDelete, ts.URL+"/api/categories/"+created.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Errorf("delete status = %d", resp.StatusCode)
	}
}

func TestCatalogLookup(t *testing.T) {
	_, ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/api/catalog/lookup?name=milk", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var p model.Product
	decode(t, resp, &p)
	if p.Category != "dairy" {
		t.Errorf("category = %q", p.Category)
	}

	resp = do(t, http.MethodGet, ts.URL+"/api/catalog/lookup?name=zzzz-unknown", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown product status = %d, want 404", resp.StatusCode)
	}
}
