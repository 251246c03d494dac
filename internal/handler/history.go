package handler

import (
	"net/http"
	"regexp"
	"strconv"

	"github.com/kaimono-app/kaimono/internal/history"
	"github.com/kaimono-app/kaimono/internal/model"
	"github.com/kaimono-app/kaimono/internal/websocket"
)

var dateRegexp = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

type HistoryHandler struct {
	archive *history.Archive
	hub     *websocket.Hub
}

func NewHistoryHandler(archive *history.Archive, hub *websocket.Hub) *HistoryHandler {
	return &HistoryHandler{archive: archive, hub: hub}
}

func (h *HistoryHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// List returns history entries, most recent first. Optional ?start and
// ?end (YYYY-MM-DD, both inclusive) filter by completion date; either may
// be omitted for an open-ended range. ?date is a single-day shorthand.
func (h *HistoryHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if date := q.Get("date"); date != "" {
		if !dateRegexp.MatchString(date) {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD")
			return
		}
		writeJSON(w, http.StatusOK, entriesOrEmpty(h.archive.QueryByDate(date)))
		return
	}

	start, end := q.Get("start"), q.Get("end")
	if start != "" || end != "" {
		if start != "" && !dateRegexp.MatchString(start) {
			writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
		if end != "" && !dateRegexp.MatchString(end) {
			writeError(w, http.StatusBadRequest, "end must be YYYY-MM-DD")
			return
		}
		writeJSON(w, http.StatusOK, entriesOrEmpty(h.archive.QueryByDateRange(start, end)))
		return
	}

	writeJSON(w, http.StatusOK, entriesOrEmpty(h.archive.Entries()))
}

func (h *HistoryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, ok := h.archive.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "history entry not found")
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

func (h *HistoryHandler) Recent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	writeJSON(w, http.StatusOK, entriesOrEmpty(h.archive.RecentEntries(limit)))
}

func (h *HistoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	entryID := r.PathValue("id")
	if !h.archive.RemoveEntry(entryID) {
		writeError(w, http.StatusNotFound, "history entry not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityHistory, "deleted", entryID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *HistoryHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.archive.ClearAll()
	h.broadcast(websocket.NewMessage(websocket.EntityHistory, "cleared", "", nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "cleared"})
}

// DateSummaries returns per-date roll-ups, most recent date first.
// Optional ?year and ?month restrict the result to one month.
func (h *HistoryHandler) DateSummaries(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if q.Get("year") != "" || q.Get("month") != "" {
		year, err1 := strconv.Atoi(q.Get("year"))
		month, err2 := strconv.Atoi(q.Get("month"))
		if err1 != nil || err2 != nil || month < 1 || month > 12 {
			writeError(w, http.StatusBadRequest, "year and month must be numeric, month 1-12")
			return
		}
		writeJSON(w, http.StatusOK, summariesOrEmpty(h.archive.MonthSummary(year, month)))
		return
	}
	writeJSON(w, http.StatusOK, summariesOrEmpty(h.archive.DateSummaries()))
}

func (h *HistoryHandler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.archive.TotalStats())
}

func entriesOrEmpty(entries []model.HistoryEntry) []model.HistoryEntry {
	if entries == nil {
		return []model.HistoryEntry{}
	}
	return entries
}

func summariesOrEmpty(s []model.DateSummary) []model.DateSummary {
	if s == nil {
		return []model.DateSummary{}
	}
	return s
}
