// Package session holds per-browser-session state: the cart, auth token,
// user profile, store-created flag, stock view, navigation flyout, and flash
// messages. It is the service-side analog of the original storefront's
// browser storage and context providers, made an explicit store instead of
// ambient lookups.
package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AnasBaqai/cozy-glam/internal/backend"
	"github.com/AnasBaqai/cozy-glam/internal/domain/cart"
	"github.com/AnasBaqai/cozy-glam/internal/domain/stock"
	"github.com/AnasBaqai/cozy-glam/internal/prefetch"
)

// DefaultTTL is how long an idle session survives before eviction.
const DefaultTTL = 24 * time.Hour

// Session is one browsing session's state.
type Session struct {
	ID     string
	Cart   *cart.Store
	Stock  *stock.Reconciler
	Flyout *prefetch.Prefetcher

	mu           sync.Mutex
	token        string
	user         *backend.User
	storeCreated bool
	flashes      []string
	stockStale   bool
}

// StockStale reports whether the stock snapshot needs a refresh: true for a
// fresh session and after every cart mutation (the cart subscription below
// flips it).
func (s *Session) StockStale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stockStale
}

// MarkStockStale flags the stock snapshot for refresh.
func (s *Session) MarkStockStale() {
	s.mu.Lock()
	s.stockStale = true
	s.mu.Unlock()
}

// ClearStockStale is called after a successful stock refresh.
func (s *Session) ClearStockStale() {
	s.mu.Lock()
	s.stockStale = false
	s.mu.Unlock()
}

// SetAuth records the authentication token and profile returned by the
// backend on login or signup.
func (s *Session) SetAuth(token string, user backend.User) {
	s.mu.Lock()
	s.token = token
	s.user = &user
	s.mu.Unlock()
}

// ClearAuth drops the token and profile (logout).
func (s *Session) ClearAuth() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.storeCreated = false
	s.mu.Unlock()
}

// Token returns the session's bearer token, or "" when not authenticated.
func (s *Session) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

// User returns a copy of the authenticated profile, or nil.
func (s *Session) User() *backend.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

// SetStoreCreated records whether the seller has created a store.
func (s *Session) SetStoreCreated(created bool) {
	s.mu.Lock()
	s.storeCreated = created
	s.mu.Unlock()
}

// StoreCreated reports whether the seller has created a store.
func (s *Session) StoreCreated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.storeCreated
}

// AddFlash queues a one-shot message to show after the next navigation.
func (s *Session) AddFlash(msg string) {
	s.mu.Lock()
	s.flashes = append(s.flashes, msg)
	s.mu.Unlock()
}

// PopFlashes returns queued flash messages and clears them; each message is
// shown exactly once.
func (s *Session) PopFlashes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.flashes
	s.flashes = nil
	return out
}

// Deps are the shared dependencies each new session is wired with.
type Deps struct {
	Levels        stock.Levels
	Fetch         prefetch.FetchFunc
	PrefetchDelay time.Duration
}

// Manager creates, looks up and evicts sessions by ID.
type Manager struct {
	ttl  time.Duration
	deps Deps

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	sess     *Session
	lastSeen time.Time
}

// NewManager creates a Manager. A non-positive ttl falls back to DefaultTTL.
func NewManager(ttl time.Duration, deps Deps) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		ttl:      ttl,
		deps:     deps,
		sessions: make(map[string]*entry),
	}
}

// GetOrCreate returns the session with the given ID, creating a fresh one
// (with a new generated ID) when the ID is empty or unknown.
func (m *Manager) GetOrCreate(id string) *Session {
	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	if id != "" {
		if e, ok := m.sessions[id]; ok {
			e.lastSeen = now
			return e.sess
		}
	}

	sess := &Session{
		ID:         uuid.New().String(),
		Cart:       cart.NewStore(),
		Stock:      stock.NewReconciler(m.deps.Levels),
		Flyout:     prefetch.New(m.deps.Fetch, m.deps.PrefetchDelay),
		stockStale: true,
	}
	// Any cart mutation invalidates the stock snapshot, so the next cart
	// view re-reconciles against live inventory.
	sess.Cart.Subscribe(sess.MarkStockStale)
	m.sessions[sess.ID] = &entry{sess: sess, lastSeen: now}
	return sess
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// StartCleanup launches a background goroutine that evicts sessions idle for
// longer than the TTL. It stops when ctx is cancelled.
func (m *Manager) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				m.evict(now)
			}
		}
	}()
}

func (m *Manager) evict(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, e := range m.sessions {
		if now.Sub(e.lastSeen) >= m.ttl {
			delete(m.sessions, id)
		}
	}
}
