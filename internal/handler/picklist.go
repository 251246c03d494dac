package handler

import (
	"net/http"
	"strings"

	"github.com/kaimono-app/kaimono/internal/catalog"
	"github.com/kaimono-app/kaimono/internal/category"
	"github.com/kaimono-app/kaimono/internal/history"
	"github.com/kaimono-app/kaimono/internal/listsort"
	"github.com/kaimono-app/kaimono/internal/model"
	"github.com/kaimono-app/kaimono/internal/picklist"
	"github.com/kaimono-app/kaimono/internal/websocket"
)

type PicklistHandler struct {
	lists    *picklist.Collection
	registry *category.Registry
	archive  *history.Archive
	hub      *websocket.Hub
}

func NewPicklistHandler(lists *picklist.Collection, registry *category.Registry, archive *history.Archive, hub *websocket.Hub) *PicklistHandler {
	return &PicklistHandler{lists: lists, registry: registry, archive: archive, hub: hub}
}

func (h *PicklistHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

// listView is a Picklist with presentation order applied: Items sorted per
// the list's sort settings, Groups populated when grouping is on.
type listView struct {
	model.Picklist
	Groups []listsort.Group `json:"groups,omitempty"`
}

func (h *PicklistHandler) view(l model.Picklist) listView {
	cats := h.registry.List()
	v := listView{Picklist: l}
	if l.GroupByCategory {
		v.Groups = listsort.GroupByCategory(l.Items, cats, l.SortDirection)
	}
	v.Items = listsort.Apply(l, cats)
	return v
}

func (h *PicklistHandler) List(w http.ResponseWriter, r *http.Request) {
	lists := h.lists.List()
	views := make([]listView, len(lists))
	for i, l := range lists {
		views[i] = h.view(l)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *PicklistHandler) Get(w http.ResponseWriter, r *http.Request) {
	l, ok := h.lists.Get(r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	writeJSON(w, http.StatusOK, h.view(l))
}

type createListRequest struct {
	Name string `json:"name"`
}

func (h *PicklistHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createListRequest
	if !readJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	l := h.lists.Create(req.Name)
	h.broadcast(websocket.NewMessage(websocket.EntityPicklist, "created", l.ID, nil))
	writeJSON(w, http.StatusCreated, h.view(l))
}

type updateListRequest struct {
	Name            *string              `json:"name"`
	SortBy          *model.SortKey       `json:"sortBy"`
	SortDirection   *model.SortDirection `json:"sortDirection"`
	GroupByCategory *bool                `json:"groupByCategory"`
}

func (h *PicklistHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, "name cannot be empty")
			return
		}
		req.Name = &trimmed
	}

	l, ok := h.lists.UpdateMetadata(r.PathValue("id"), picklist.Update{
		Name:            req.Name,
		SortBy:          req.SortBy,
		SortDirection:   req.SortDirection,
		GroupByCategory: req.GroupByCategory,
	})
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityPicklist, "updated", l.ID, nil))
	writeJSON(w, http.StatusOK, h.view(l))
}

// SetSortSettings is Update restricted to the sort fields; a separate
// route so the UI's sort sheet needs no knowledge of list metadata.
func (h *PicklistHandler) SetSortSettings(w http.ResponseWriter, r *http.Request) {
	var req updateListRequest
	if !readJSON(w, r, &req) {
		return
	}
	l, ok := h.lists.SetSortSettings(r.PathValue("id"), req.SortBy, req.SortDirection, req.GroupByCategory)
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityPicklist, "updated", l.ID, nil))
	writeJSON(w, http.StatusOK, h.view(l))
}

func (h *PicklistHandler) Delete(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	if !h.lists.Remove(listID) {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityPicklist, "deleted", listID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// Complete snapshots the list into history and removes it from the active
// collection.
func (h *PicklistHandler) Complete(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("id")
	l, ok := h.lists.Get(listID)
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}

	entry := h.archive.RecordCompletion(l, h.registry.List())
	h.lists.Remove(listID)

	h.broadcast(websocket.NewMessage(websocket.EntityPicklist, "completed", listID, map[string]any{"historyId": entry.ID}))
	writeJSON(w, http.StatusCreated, entry)
}

type itemRequest struct {
	ProductID string   `json:"productId"`
	Name      string   `json:"name"`
	Quantity  float64  `json:"quantity"`
	Unit      string   `json:"unit"`
	MaxPrice  *float64 `json:"maxPrice"`
	Note      string   `json:"note"`
	Category  string   `json:"category"`
	Priority  int      `json:"priority"`
}

func (r itemRequest) newItem() picklist.NewItem {
	return picklist.NewItem{
		ProductID: r.ProductID,
		Name:      r.Name,
		Quantity:  r.Quantity,
		Unit:      r.Unit,
		MaxPrice:  r.MaxPrice,
		Note:      r.Note,
		Category:  r.Category,
		Priority:  r.Priority,
	}
}

func (h *PicklistHandler) AddItems(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("list_id")

	var reqs []itemRequest
	if !readJSON(w, r, &reqs) {
		return
	}
	items := make([]picklist.NewItem, 0, len(reqs))
	for _, req := range reqs {
		req.Name = strings.TrimSpace(req.Name)
		if req.Name == "" {
			writeError(w, http.StatusBadRequest, "item name is required")
			return
		}
		items = append(items, req.newItem())
	}

	added, ok := h.lists.AddItems(listID, items)
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityItem, "created", listID, map[string]any{"count": len(added)}))
	writeJSON(w, http.StatusCreated, added)
}

type quickAddRequest struct {
	Name string `json:"name"`
}

// QuickAdd adds a single item by free-text name, resolving a default
// category and unit from the frequent-products catalog when it matches.
func (h *PicklistHandler) QuickAdd(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("list_id")

	var req quickAddRequest
	if !readJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	item := picklist.NewItem{Name: req.Name, Quantity: 1}
	if p, ok := catalog.FindByName(req.Name); ok {
		item.ProductID = p.ID
		item.Category = p.Category
		item.Unit = p.Unit
	}

	added, ok := h.lists.AddItems(listID, []picklist.NewItem{item})
	if !ok {
		writeError(w, http.StatusNotFound, "list not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityItem, "created", listID, map[string]any{"count": 1}))
	writeJSON(w, http.StatusCreated, added[0])
}

type updateItemRequest struct {
	Name      *string  `json:"name"`
	Quantity  *float64 `json:"quantity"`
	Unit      *string  `json:"unit"`
	MaxPrice  *float64 `json:"maxPrice"`
	Note      *string  `json:"note"`
	Category  *string  `json:"category"`
	Priority  *int     `json:"priority"`
	Completed *bool    `json:"completed"`
}

func (h *PicklistHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req updateItemRequest
	if !readJSON(w, r, &req) {
		return
	}
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		if trimmed == "" {
			writeError(w, http.StatusBadRequest, "item name cannot be empty")
			return
		}
		req.Name = &trimmed
	}

	item, ok := h.lists.UpdateItem(r.PathValue("list_id"), r.PathValue("id"), picklist.ItemUpdate{
		Name:      req.Name,
		Quantity:  req.Quantity,
		Unit:      req.Unit,
		MaxPrice:  req.MaxPrice,
		Note:      req.Note,
		Category:  req.Category,
		Priority:  req.Priority,
		Completed: req.Completed,
	})
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityItem, "updated", item.ID, map[string]any{"listId": r.PathValue("list_id")}))
	writeJSON(w, http.StatusOK, item)
}

func (h *PicklistHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	listID := r.PathValue("list_id")
	itemID := r.PathValue("id")
	if !h.lists.RemoveItem(listID, itemID) {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityItem, "deleted", itemID, map[string]any{"listId": listID}))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *PicklistHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	item, ok := h.lists.ToggleCompleted(r.PathValue("list_id"), r.PathValue("id"))
	if !ok {
		writeError(w, http.StatusNotFound, "item not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityItem, "toggled", item.ID, map[string]any{"completed": item.Completed}))
	writeJSON(w, http.StatusOK, item)
}
