package handler

import (
	"net/http"
	"strings"

	"github.com/kaimono-app/kaimono/internal/catalog"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler {
	return &CatalogHandler{}
}

// Lookup resolves ?name against the frequent-products catalog. 404 when
// the catalog has no match; the UI then adds the item uncategorized.
func (h *CatalogHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	p, ok := catalog.FindByName(name)
	if !ok {
		writeError(w, http.StatusNotFound, "no catalog match")
		return
	}
	writeJSON(w, http.StatusOK, p)
}
