// Package prefetch populates the navigation flyout with subcategories when a
// buyer hovers a category, debouncing hover intent so mouse travel does not
// turn into a request per pixel.
package prefetch

import (
	"context"
	"sync"
	"time"

	"github.com/AnasBaqai/cozy-glam/internal/domain/catalog"
)

// DefaultDelay is the hover-intent debounce applied before a fetch is
// dispatched.
const DefaultDelay = 200 * time.Millisecond

// FetchFunc fetches the subcategory list for a category.
type FetchFunc func(ctx context.Context, categoryID string) ([]catalog.SubCategory, error)

// Phase describes what the flyout should render.
type Phase string

const (
	// PhaseIdle means no category is hovered.
	PhaseIdle Phase = "idle"
	// PhasePending means the debounce timer is running; nothing is shown yet.
	PhasePending Phase = "pending"
	// PhaseLoading means a fetch is in flight; the flyout shows a skeleton.
	PhaseLoading Phase = "loading"
	// PhaseReady means subcategories are available to render.
	PhaseReady Phase = "ready"
	// PhaseEmpty means the category has no subcategories, or the fetch
	// failed. Fetch errors are swallowed into this state.
	PhaseEmpty Phase = "empty"
)

// Flyout is a snapshot of the flyout state for one hover target.
type Flyout struct {
	Phase  Phase
	Target string
	Items  []catalog.SubCategory
}

// Prefetcher tracks the current hover target and manages the debounce timer
// and in-flight fetch for it.
//
// Every Hover or Leave bumps a generation counter. The debounce timer and the
// dispatched fetch both capture the generation they were started under, and
// their results are discarded when the generation has moved on. This is what
// keeps a slow response for a category the pointer already left from
// redrawing the flyout.
type Prefetcher struct {
	fetch FetchFunc
	delay time.Duration

	mu    sync.Mutex
	gen   uint64
	timer *time.Timer
	state Flyout
}

// New creates a Prefetcher that dispatches fetches after the given debounce
// delay. A non-positive delay falls back to DefaultDelay.
func New(fetch FetchFunc, delay time.Duration) *Prefetcher {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Prefetcher{
		fetch: fetch,
		delay: delay,
		state: Flyout{Phase: PhaseIdle},
	}
}

// Hover signals that the pointer entered the category with the given ID.
// Any pending timer for a previous target is cancelled; a fetch already in
// flight is not cancelled, but its response will be discarded.
func (p *Prefetcher) Hover(ctx context.Context, categoryID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.state.Phase != PhaseIdle && p.state.Target == categoryID {
		return
	}

	p.gen++
	gen := p.gen
	if p.timer != nil {
		p.timer.Stop()
	}
	p.state = Flyout{Phase: PhasePending, Target: categoryID}

	p.timer = time.AfterFunc(p.delay, func() {
		p.dispatch(ctx, gen, categoryID)
	})
}

// Leave signals that the pointer left the navigation. The pending timer is
// cancelled and the flyout returns to idle.
func (p *Prefetcher) Leave() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.gen++
	if p.timer != nil {
		p.timer.Stop()
		p.timer = nil
	}
	p.state = Flyout{Phase: PhaseIdle}
}

// State returns a snapshot of the current flyout state.
func (p *Prefetcher) State() Flyout {
	p.mu.Lock()
	defer p.mu.Unlock()

	out := p.state
	out.Items = append([]catalog.SubCategory(nil), p.state.Items...)
	return out
}

// dispatch runs on the timer goroutine once the debounce delay elapses.
func (p *Prefetcher) dispatch(ctx context.Context, gen uint64, categoryID string) {
	p.mu.Lock()
	if gen != p.gen {
		p.mu.Unlock()
		return
	}
	p.state = Flyout{Phase: PhaseLoading, Target: categoryID}
	p.mu.Unlock()

	items, err := p.fetch(ctx, categoryID)

	p.mu.Lock()
	defer p.mu.Unlock()
	if gen != p.gen {
		// The pointer moved on while this fetch was in flight.
		return
	}

	switch {
	case err != nil, len(items) == 0:
		p.state = Flyout{Phase: PhaseEmpty, Target: categoryID}
	default:
		p.state = Flyout{Phase: PhaseReady, Target: categoryID, Items: items}
	}
}
