// Package stock compares live backend inventory counts against cart
// quantities so the UI can gate quantity increases before checkout. The
// backend remains the authority on real inventory at order time; this view is
// advisory only.
package stock

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
)

// Levels looks up the currently available quantity for a product.
type Levels interface {
	AvailableQuantity(ctx context.Context, productID string) (int, error)
}

// Reconciler caches a point-in-time snapshot of available quantities for the
// products currently in a cart.
type Reconciler struct {
	levels Levels

	mu        sync.RWMutex
	available map[string]int
}

// NewReconciler creates a Reconciler backed by the given Levels lookup.
func NewReconciler(levels Levels) *Reconciler {
	return &Reconciler{
		levels:    levels,
		available: make(map[string]int),
	}
}

// Refresh fetches the available quantity for each distinct product ID,
// sequentially. The first lookup failure aborts the refresh and is returned
// as a single error; levels fetched before the failure are retained. Products
// with no cached level are treated as unconstrained until the next refresh
// that covers them.
func (r *Reconciler) Refresh(ctx context.Context, productIDs []string) error {
	fetched := make(map[string]int, len(productIDs))
	seen := make(map[string]struct{}, len(productIDs))

	for _, id := range productIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}

		qty, err := r.levels.AvailableQuantity(ctx, id)
		if err != nil {
			r.store(fetched)
			return errors.Wrap(err, "fetch stock level")
		}
		fetched[id] = qty
	}

	r.store(fetched)
	return nil
}

// store replaces the snapshot with the given levels.
func (r *Reconciler) store(levels map[string]int) {
	r.mu.Lock()
	r.available = levels
	r.mu.Unlock()
}

// CanIncrease reports whether a line currently at the given quantity may grow
// by one. Products without a cached stock level are unconstrained.
func (r *Reconciler) CanIncrease(productID string, currentQuantity int) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	avail, ok := r.available[productID]
	if !ok {
		return true
	}
	return currentQuantity+1 <= avail
}

// Available returns the cached level for a product and whether one exists.
func (r *Reconciler) Available(productID string) (int, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	qty, ok := r.available[productID]
	return qty, ok
}
