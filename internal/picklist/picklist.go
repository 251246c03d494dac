// Package picklist owns the mutable collection of active shopping lists and
// mediates every item mutation. Presentation order is never stored: items
// keep insertion order and the sort engine derives views on read.
//
// Mutations targeting an unknown list or item id are uniform no-ops
// signalled by a false return, so callers never need to pre-check
// existence. Every successful mutation bumps the containing list's
// updatedAt and mirrors the collection to the store asynchronously.
package picklist

import (
	"slices"
	"sync"

	"github.com/kaimono-app/kaimono/internal/clock"
	"github.com/kaimono-app/kaimono/internal/id"
	"github.com/kaimono-app/kaimono/internal/kv"
	"github.com/kaimono-app/kaimono/internal/model"
)

// StorageKey is the key-value store key the collection mirrors under.
const StorageKey = "picklist-storage"

type persisted struct {
	Picklists []model.Picklist `json:"picklists"`
}

type Collection struct {
	mu     sync.Mutex
	lists  []model.Picklist
	clk    clock.Clock
	ids    id.Generator
	mirror *kv.Mirror
}

// NewCollection creates an empty Collection. mirror may be nil.
func NewCollection(clk clock.Clock, ids id.Generator, mirror *kv.Mirror) *Collection {
	return &Collection{clk: clk, ids: ids, mirror: mirror}
}

// Load rehydrates the collection from the mirror. Must complete before
// first use.
func (c *Collection) Load() error {
	if c.mirror == nil {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var doc persisted
	if _, err := c.mirror.Load(&doc); err != nil {
		return err
	}
	c.lists = doc.Picklists
	return nil
}

// List returns all active lists in insertion order. Deep copies.
func (c *Collection) List() []model.Picklist {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]model.Picklist, len(c.lists))
	for i, l := range c.lists {
		out[i] = l.Clone()
	}
	return out
}

// Get returns a deep copy of the list, or false when absent.
func (c *Collection) Get(listID string) (model.Picklist, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if l := c.findLocked(listID); l != nil {
		return l.Clone(), true
	}
	return model.Picklist{}, false
}

// Create adds an empty list. New lists default to grouped category order.
func (c *Collection) Create(name string) model.Picklist {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := clock.Millis(c.clk.Now())
	l := model.Picklist{
		ID:              c.ids.NewID(),
		Name:            name,
		Items:           []model.ListItem{},
		CreatedAt:       now,
		UpdatedAt:       now,
		SortBy:          model.SortByCategory,
		SortDirection:   model.SortAsc,
		GroupByCategory: true,
	}
	c.lists = append(c.lists, l)
	c.saveLocked()
	return l.Clone()
}

// Remove deletes a list. History entries are independent snapshots, so no
// cascade is needed.
func (c *Collection) Remove(listID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, l := range c.lists {
		if l.ID == listID {
			c.lists = slices.Delete(c.lists, i, i+1)
			c.saveLocked()
			return true
		}
	}
	return false
}

// Rename sets the list name.
func (c *Collection) Rename(listID, name string) (model.Picklist, bool) {
	return c.UpdateMetadata(listID, Update{Name: &name})
}

// Update carries the optional fields of a metadata update; nil fields are
// left untouched (shallow-merge semantics).
type Update struct {
	Name            *string
	SortBy          *model.SortKey
	SortDirection   *model.SortDirection
	GroupByCategory *bool
}

// UpdateMetadata applies the non-nil fields of upd to the list.
func (c *Collection) UpdateMetadata(listID string, upd Update) (model.Picklist, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.findLocked(listID)
	if l == nil {
		return model.Picklist{}, false
	}
	if upd.Name != nil {
		l.Name = *upd.Name
	}
	if upd.SortBy != nil {
		l.SortBy = *upd.SortBy
	}
	if upd.SortDirection != nil {
		l.SortDirection = *upd.SortDirection
	}
	if upd.GroupByCategory != nil {
		l.GroupByCategory = *upd.GroupByCategory
	}
	c.touchLocked(l)
	c.saveLocked()
	return l.Clone(), true
}

// SetSortSettings partially updates the list's sort settings; unset fields
// keep their previous value.
func (c *Collection) SetSortSettings(listID string, sortBy *model.SortKey, dir *model.SortDirection, groupByCategory *bool) (model.Picklist, bool) {
	return c.UpdateMetadata(listID, Update{SortBy: sortBy, SortDirection: dir, GroupByCategory: groupByCategory})
}

// NewItem is the caller-supplied part of an item; the collection assigns
// id and creation time.
type NewItem struct {
	ProductID string
	Name      string
	Quantity  float64
	Unit      string
	MaxPrice  *float64
	Note      string
	Category  string
	Priority  int
}

// AddItems appends items to the list. Each gets a fresh id; a priority
// outside 1..3 is coerced to the default.
func (c *Collection) AddItems(listID string, items []NewItem) ([]model.ListItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.findLocked(listID)
	if l == nil {
		return nil, false
	}

	now := clock.Millis(c.clk.Now())
	added := make([]model.ListItem, 0, len(items))
	for _, in := range items {
		prio := in.Priority
		if prio < model.PriorityHigh || prio > model.PriorityLow {
			prio = model.DefaultPriority
		}
		item := model.ListItem{
			ID:        c.ids.NewID(),
			ProductID: in.ProductID,
			Name:      in.Name,
			Quantity:  in.Quantity,
			Unit:      in.Unit,
			MaxPrice:  in.MaxPrice,
			Note:      in.Note,
			Category:  in.Category,
			Priority:  prio,
			CreatedAt: now,
		}
		l.Items = append(l.Items, item)
		added = append(added, item)
	}
	c.touchLocked(l)
	c.saveLocked()
	return added, true
}

// ItemUpdate carries the optional fields of an item update.
type ItemUpdate struct {
	Name      *string
	Quantity  *float64
	Unit      *string
	MaxPrice  *float64
	Note      *string
	Category  *string
	Priority  *int
	Completed *bool
}

// UpdateItem applies the non-nil fields of upd to the item.
func (c *Collection) UpdateItem(listID, itemID string, upd ItemUpdate) (model.ListItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, item := c.findItemLocked(listID, itemID)
	if item == nil {
		return model.ListItem{}, false
	}
	if upd.Name != nil {
		item.Name = *upd.Name
	}
	if upd.Quantity != nil {
		item.Quantity = *upd.Quantity
	}
	if upd.Unit != nil {
		item.Unit = *upd.Unit
	}
	if upd.MaxPrice != nil {
		item.MaxPrice = upd.MaxPrice
	}
	if upd.Note != nil {
		item.Note = *upd.Note
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.Priority != nil && *upd.Priority >= model.PriorityHigh && *upd.Priority <= model.PriorityLow {
		item.Priority = *upd.Priority
	}
	if upd.Completed != nil {
		item.Completed = *upd.Completed
	}
	c.touchLocked(l)
	c.saveLocked()
	return *item, true
}

// RemoveItem deletes an item from its list.
func (c *Collection) RemoveItem(listID, itemID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	l := c.findLocked(listID)
	if l == nil {
		return false
	}
	for i, it := range l.Items {
		if it.ID == itemID {
			l.Items = slices.Delete(l.Items, i, i+1)
			c.touchLocked(l)
			c.saveLocked()
			return true
		}
	}
	return false
}

// ToggleCompleted flips an item's completed flag.
func (c *Collection) ToggleCompleted(listID, itemID string) (model.ListItem, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	l, item := c.findItemLocked(listID, itemID)
	if item == nil {
		return model.ListItem{}, false
	}
	item.Completed = !item.Completed
	c.touchLocked(l)
	c.saveLocked()
	return *item, true
}

func (c *Collection) findLocked(listID string) *model.Picklist {
	for i := range c.lists {
		if c.lists[i].ID == listID {
			return &c.lists[i]
		}
	}
	return nil
}

func (c *Collection) findItemLocked(listID, itemID string) (*model.Picklist, *model.ListItem) {
	l := c.findLocked(listID)
	if l == nil {
		return nil, nil
	}
	for i := range l.Items {
		if l.Items[i].ID == itemID {
			return l, &l.Items[i]
		}
	}
	return l, nil
}

func (c *Collection) touchLocked(l *model.Picklist) {
	l.UpdatedAt = clock.Millis(c.clk.Now())
}

func (c *Collection) saveLocked() {
	if c.mirror == nil {
		return
	}
	out := make([]model.Picklist, len(c.lists))
	for i, l := range c.lists {
		out[i] = l.Clone()
	}
	c.mirror.Put(persisted{Picklists: out})
}
