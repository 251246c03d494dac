package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/kaimono-app/kaimono/internal/category"
	"github.com/kaimono-app/kaimono/internal/clock"
	"github.com/kaimono-app/kaimono/internal/handler"
	"github.com/kaimono-app/kaimono/internal/history"
	"github.com/kaimono-app/kaimono/internal/id"
	"github.com/kaimono-app/kaimono/internal/kv"
	"github.com/kaimono-app/kaimono/internal/middleware"
	"github.com/kaimono-app/kaimono/internal/picklist"
	ws "github.com/kaimono-app/kaimono/internal/websocket"
)

type Server struct {
	hub       *ws.Hub
	registry  *category.Registry
	lists     *picklist.Collection
	archive   *history.Archive
	picklistH *handler.PicklistHandler
	categoryH *handler.CategoryHandler
	historyH  *handler.HistoryHandler
	catalogH  *handler.CatalogHandler
	mirrors   []*kv.Mirror
	logger    *slog.Logger
}

// New wires the aggregates against the key-value store and rehydrates them.
// Rehydration completes before New returns, so queries are trustworthy from
// the first request.
func New(store kv.Store, clk clock.Clock, ids id.Generator, logger *slog.Logger) (*Server, error) {
	hub := ws.NewHub(logger.With("component", "websocket"))

	categoryMirror := kv.NewMirror(store, category.StorageKey, logger.With("component", "mirror"))
	picklistMirror := kv.NewMirror(store, picklist.StorageKey, logger.With("component", "mirror"))
	historyMirror := kv.NewMirror(store, history.StorageKey, logger.With("component", "mirror"))

	registry := category.NewRegistry(ids, categoryMirror)
	lists := picklist.NewCollection(clk, ids, picklistMirror)
	archive := history.NewArchive(clk, ids, historyMirror)

	if err := registry.Load(); err != nil {
		return nil, fmt.Errorf("load categories: %w", err)
	}
	if err := lists.Load(); err != nil {
		return nil, fmt.Errorf("load picklists: %w", err)
	}
	if err := archive.Load(); err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	return &Server{
		hub:       hub,
		registry:  registry,
		lists:     lists,
		archive:   archive,
		picklistH: handler.NewPicklistHandler(lists, registry, archive, hub),
		categoryH: handler.NewCategoryHandler(registry, hub),
		historyH:  handler.NewHistoryHandler(archive, hub),
		catalogH:  handler.NewCatalogHandler(),
		mirrors:   []*kv.Mirror{categoryMirror, picklistMirror, historyMirror},
		logger:    logger,
	}, nil
}

// Close flushes pending mirror writes.
func (s *Server) Close() {
	for _, m := range s.mirrors {
		m.Close()
	}
}

func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.healthHandler)

	// Picklist routes
	mux.HandleFunc("GET /api/lists", s.picklistH.List)
	mux.HandleFunc("POST /api/lists", s.picklistH.Create)
	mux.HandleFunc("GET /api/lists/{id}", s.picklistH.Get)
	mux.HandleFunc("PATCH /api/lists/{id}", s.picklistH.Update)
	mux.HandleFunc("DELETE /api/lists/{id}", s.picklistH.Delete)
	mux.HandleFunc("PUT /api/lists/{id}/sort-settings", s.picklistH.SetSortSettings)
	mux.HandleFunc("POST /api/lists/{id}/complete", s.picklistH.Complete)

	// Item routes
	mux.HandleFunc("POST /api/lists/{list_id}/items", s.picklistH.AddItems)
	mux.HandleFunc("POST /api/lists/{list_id}/quick-add", s.picklistH.QuickAdd)
	mux.HandleFunc("PATCH /api/lists/{list_id}/items/{id}", s.picklistH.UpdateItem)
	mux.HandleFunc("DELETE /api/lists/{list_id}/items/{id}", s.picklistH.DeleteItem)
	mux.HandleFunc("POST /api/lists/{list_id}/items/{id}/toggle", s.picklistH.ToggleItem)

	// Category routes
	mux.HandleFunc("GET /api/categories", s.categoryH.List)
	mux.HandleFunc("POST /api/categories", s.categoryH.Create)
	mux.HandleFunc("PATCH /api/categories/{id}", s.categoryH.Update)
	mux.HandleFunc("DELETE /api/categories/{id}", s.categoryH.Delete)

	// History routes
	mux.HandleFunc("GET /api/history", s.historyH.List)
	mux.HandleFunc("GET /api/history/recent", s.historyH.Recent)
	mux.HandleFunc("GET /api/history/summaries", s.historyH.DateSummaries)
	mux.HandleFunc("GET /api/history/stats", s.historyH.Stats)
	mux.HandleFunc("GET /api/history/{id}", s.historyH.Get)
	mux.HandleFunc("DELETE /api/history/{id}", s.historyH.Delete)
	mux.HandleFunc("DELETE /api/history", s.historyH.Clear)

	// Catalog lookup
	mux.HandleFunc("GET /api/catalog/lookup", s.catalogH.Lookup)

	// Real-time change notifications
	mux.HandleFunc("GET /ws", ws.Handler(s.hub, s.logger.With("component", "websocket")))

	return middleware.RequestLogger(s.logger.With("component", "http"))(mux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}
