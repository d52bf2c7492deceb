package cart

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Favorites is a persisted set of product identifiers. Pure membership,
// no quantities; persisted through the same Store mechanism as the cart.
type Favorites struct {
	ids   map[string]struct{}
	store Store
}

// OpenFavorites rehydrates the favorites set from its store. Missing or
// corrupt snapshots load as the empty set.
func OpenFavorites(store Store) *Favorites {
	f := &Favorites{ids: map[string]struct{}{}, store: store}
	data, ok, err := store.Load()
	if err != nil || !ok {
		return f
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return f
	}
	for _, id := range ids {
		f.ids[id] = struct{}{}
	}
	return f
}

// Has reports membership.
func (f *Favorites) Has(productID string) bool {
	_, ok := f.ids[productID]
	return ok
}

// Toggle adds the product if absent, removes it if present, and reports
// the resulting membership.
func (f *Favorites) Toggle(productID string) (bool, error) {
	if f.Has(productID) {
		delete(f.ids, productID)
		return false, f.persist()
	}
	f.ids[productID] = struct{}{}
	return true, f.persist()
}

// All returns the member ids in a stable order.
func (f *Favorites) All() []string {
	ids := make([]string, 0, len(f.ids))
	for id := range f.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear empties the set.
func (f *Favorites) Clear() error {
	f.ids = map[string]struct{}{}
	return f.persist()
}

func (f *Favorites) persist() error {
	data, err := json.Marshal(f.All())
	if err != nil {
		return fmt.Errorf("failed to serialize favorites: %w", err)
	}
	if err := f.store.Save(data); err != nil {
		return fmt.Errorf("failed to persist favorites: %w", err)
	}
	return nil
}
