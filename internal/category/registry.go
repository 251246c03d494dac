// Package category owns the registry of item categories: id to name plus the
// display priority the sort engine orders by. Priorities are not unique;
// tie-breaking is the sort engine's concern.
package category

import (
	"errors"
	"slices"
	"sync"

	"github.com/kaimono-app/kaimono/internal/id"
	"github.com/kaimono-app/kaimono/internal/kv"
	"github.com/kaimono-app/kaimono/internal/model"
)

// ErrReserved is returned when deleting the fallback category.
var ErrReserved = errors.New("category is reserved")

// StorageKey is the key-value store key the registry mirrors under.
const StorageKey = "category-storage"

type persisted struct {
	Categories []model.Category `json:"categories"`
}

// Registry is the mutable category collection. Reads hand out copies;
// mutations mirror the full collection to the store asynchronously.
type Registry struct {
	mu         sync.Mutex
	categories []model.Category
	ids        id.Generator
	mirror     *kv.Mirror
}

// NewRegistry creates a Registry. mirror may be nil (no persistence).
func NewRegistry(ids id.Generator, mirror *kv.Mirror) *Registry {
	return &Registry{ids: ids, mirror: mirror}
}

// Load rehydrates the registry from the mirror, seeding the default
// category set on first run. Must complete before first use.
func (r *Registry) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.mirror == nil {
		r.categories = Defaults()
		return nil
	}

	var doc persisted
	ok, err := r.mirror.Load(&doc)
	if err != nil {
		return err
	}
	if !ok {
		r.categories = Defaults()
		r.saveLocked()
		return nil
	}
	r.categories = doc.Categories
	if !r.hasLocked(model.CategoryOther) {
		r.categories = append(r.categories, fallbackCategory())
	}
	return nil
}

func (r *Registry) List() []model.Category {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.categories)
}

func (r *Registry) Get(categoryID string) (model.Category, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.categories {
		if c.ID == categoryID {
			return c, true
		}
	}
	return model.Category{}, false
}

// Create adds a category with a generated id and returns it.
func (r *Registry) Create(name string, displayOrder, priority int) model.Category {
	r.mu.Lock()
	defer r.mu.Unlock()

	c := model.Category{
		ID:           r.ids.NewID(),
		Name:         name,
		DisplayOrder: displayOrder,
		Priority:     priority,
	}
	r.categories = append(r.categories, c)
	r.saveLocked()
	return c
}

// Update applies the non-nil fields of upd to the category. Returns false
// (a no-op) when the id is unknown.
type Update struct {
	Name         *string
	DisplayOrder *int
	Priority     *int
}

func (r *Registry) Update(categoryID string, upd Update) (model.Category, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i := range r.categories {
		if r.categories[i].ID != categoryID {
			continue
		}
		if upd.Name != nil {
			r.categories[i].Name = *upd.Name
		}
		if upd.DisplayOrder != nil {
			r.categories[i].DisplayOrder = *upd.DisplayOrder
		}
		if upd.Priority != nil {
			r.categories[i].Priority = *upd.Priority
		}
		r.saveLocked()
		return r.categories[i], true
	}
	return model.Category{}, false
}

// Delete removes a category. The fallback category is never deletable.
// Unknown ids are a no-op. Items referencing a deleted category keep their
// dangling reference; the sort engine resolves it to the fallback bucket.
func (r *Registry) Delete(categoryID string) error {
	if categoryID == model.CategoryOther {
		return ErrReserved
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, c := range r.categories {
		if c.ID == categoryID {
			r.categories = slices.Delete(r.categories, i, i+1)
			r.saveLocked()
			return nil
		}
	}
	return nil
}

func (r *Registry) hasLocked(categoryID string) bool {
	for _, c := range r.categories {
		if c.ID == categoryID {
			return true
		}
	}
	return false
}

func (r *Registry) saveLocked() {
	if r.mirror == nil {
		return
	}
	r.mirror.Put(persisted{Categories: slices.Clone(r.categories)})
}
