package catalog

import (
	"context"
	"sync"

	"github.com/go-faster/errors"
	"golang.org/x/sync/singleflight"
)

// ErrUnknownSlug is returned when a slug matches no category or subcategory.
var ErrUnknownSlug = errors.New("unknown slug")

// Lister fetches the category tree from the backend.
type Lister interface {
	Categories(ctx context.Context) ([]Category, error)
	SubCategories(ctx context.Context, categoryID string) ([]SubCategory, error)
}

// Resolver bridges human-readable URL slugs to backend identifiers. Resolved
// entries are cached for the life of the process; concurrent lookups for the
// same slug collapse into one backend request.
type Resolver struct {
	lister Lister
	group  singleflight.Group

	mu       sync.RWMutex
	category map[string]string // slug -> category ID
	sub      map[string]string // "<categoryID>/<slug>" -> subcategory ID
}

// NewResolver creates a Resolver backed by the given Lister.
func NewResolver(lister Lister) *Resolver {
	return &Resolver{
		lister:   lister,
		category: make(map[string]string),
		sub:      make(map[string]string),
	}
}

// CategoryID resolves a category slug to its backend ID, fetching and caching
// the category list on a miss.
func (r *Resolver) CategoryID(ctx context.Context, slug string) (string, error) {
	r.mu.RLock()
	id, ok := r.category[slug]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	_, err, _ := r.group.Do("categories", func() (any, error) {
		cats, err := r.lister.Categories(ctx)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		for _, c := range cats {
			r.category[c.Slug()] = c.ID
		}
		r.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return "", errors.Wrap(err, "list categories")
	}

	r.mu.RLock()
	id, ok = r.category[slug]
	r.mu.RUnlock()
	if !ok {
		return "", ErrUnknownSlug
	}
	return id, nil
}

// SubCategoryID resolves a subcategory slug within a category to its backend
// ID, fetching and caching the category's subcategory list on a miss.
func (r *Resolver) SubCategoryID(ctx context.Context, categoryID, slug string) (string, error) {
	key := categoryID + "/" + slug

	r.mu.RLock()
	id, ok := r.sub[key]
	r.mu.RUnlock()
	if ok {
		return id, nil
	}

	_, err, _ := r.group.Do("sub:"+categoryID, func() (any, error) {
		subs, err := r.lister.SubCategories(ctx, categoryID)
		if err != nil {
			return nil, err
		}
		r.mu.Lock()
		for _, s := range subs {
			r.sub[categoryID+"/"+s.Slug()] = s.ID
		}
		r.mu.Unlock()
		return nil, nil
	})
	if err != nil {
		return "", errors.Wrap(err, "list subcategories")
	}

	r.mu.RLock()
	id, ok = r.sub[key]
	r.mu.RUnlock()
	if !ok {
		return "", ErrUnknownSlug
	}
	return id, nil
}
