package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kaimono-app/kaimono/internal/category"
	"github.com/kaimono-app/kaimono/internal/websocket"
)

type CategoryHandler struct {
	registry *category.Registry
	hub      *websocket.Hub
}

func NewCategoryHandler(registry *category.Registry, hub *websocket.Hub) *CategoryHandler {
	return &CategoryHandler{registry: registry, hub: hub}
}

func (h *CategoryHandler) broadcast(msg websocket.Message) {
	if h.hub != nil {
		h.hub.Broadcast(msg)
	}
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.registry.List())
}

type categoryRequest struct {
	Name         string `json:"name"`
	DisplayOrder int    `json:"displayOrder"`
	Priority     int    `json:"priority"`
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if !readJSON(w, r, &req) {
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		writeError(w, http.StatusBadRequest, "name is required")
		return
	}

	c := h.registry.Create(req.Name, req.DisplayOrder, req.Priority)
	h.broadcast(websocket.NewMessage(websocket.EntityCategory, "created", c.ID, nil))
	writeJSON(w, http.StatusCreated, c)
}

type updateCategoryRequest struct {
	Name         *string `json:"name"`
	DisplayOrder *int    `json:"displayOrder"`
	Priority     *int    `json:"priority"`
}

func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req updateCategoryRequest
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

	c, ok := h.registry.Update(r.PathValue("id"), category.Update{
		Name:         req.Name,
		DisplayOrder: req.DisplayOrder,
		Priority:     req.Priority,
	})
	if !ok {
		writeError(w, http.StatusNotFound, "category not found")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityCategory, "updated", c.ID, nil))
	writeJSON(w, http.StatusOK, c)
}

func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	categoryID := r.PathValue("id")
	if err := h.registry.Delete(categoryID); err != nil {
		if errors.Is(err, category.ErrReserved) {
			writeError(w, http.StatusBadRequest, "the fallback category cannot be deleted")
			return
		}
		writeError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}
	h.broadcast(websocket.NewMessage(websocket.EntityCategory, "deleted", categoryID, nil))
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
