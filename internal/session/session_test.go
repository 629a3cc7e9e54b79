package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopspring/decimal"

	"github.com/AnasBaqai/cozy-glam/internal/backend"
	"github.com/AnasBaqai/cozy-glam/internal/domain/cart"
)

func cartItem(id string) cart.Item {
	return cart.Item{ID: id, Title: id, Price: decimal.NewFromInt(1)}
}

func TestGetOrCreate_EmptyIDCreatesSession(t *testing.T) {
	m := NewManager(time.Hour, Deps{})

	sess := m.GetOrCreate("")

	require.NotNil(t, sess)
	assert.NotEmpty(t, sess.ID)
	assert.NotNil(t, sess.Cart)
	assert.NotNil(t, sess.Stock)
	assert.NotNil(t, sess.Flyout)
	assert.Equal(t, 1, m.Len())
}

func TestGetOrCreate_KnownIDReturnsSameSession(t *testing.T) {
	m := NewManager(time.Hour, Deps{})

	first := m.GetOrCreate("")
	first.Cart.Add(cartItem("p1"))

	again := m.GetOrCreate(first.ID)
	assert.Same(t, first, again)
	assert.Equal(t, 1, again.Cart.TotalCount())
}

func TestGetOrCreate_UnknownIDCreatesFresh(t *testing.T) {
	m := NewManager(time.Hour, Deps{})

	sess := m.GetOrCreate("stale-or-forged")

	assert.NotEqual(t, "stale-or-forged", sess.ID)
}

func TestEvict_IdleSessionsExpire(t *testing.T) {
	m := NewManager(time.Minute, Deps{})
	sess := m.GetOrCreate("")

	m.evict(time.Now().Add(2 * time.Minute))
	assert.Equal(t, 0, m.Len())

	// The old ID no longer resolves; a new session is created.
	fresh := m.GetOrCreate(sess.ID)
	assert.NotEqual(t, sess.ID, fresh.ID)
}

func TestAuthLifecycle(t *testing.T) {
	m := NewManager(time.Hour, Deps{})
	sess := m.GetOrCreate("")

	require.Empty(t, sess.Token())
	require.Nil(t, sess.User())

	sess.SetAuth("tok-1", backend.User{ID: "u1", Name: "Ana", Role: "seller"})
	assert.Equal(t, "tok-1", sess.Token())
	require.NotNil(t, sess.User())
	assert.Equal(t, "Ana", sess.User().Name)

	sess.SetStoreCreated(true)
	assert.True(t, sess.StoreCreated())

	sess.ClearAuth()
	assert.Empty(t, sess.Token())
	assert.Nil(t, sess.User())
	assert.False(t, sess.StoreCreated())
}

func TestStockStale_SetByCartMutations(t *testing.T) {
	m := NewManager(time.Hour, Deps{})
	sess := m.GetOrCreate("")

	require.True(t, sess.StockStale(), "fresh session starts stale")

	sess.ClearStockStale()
	require.False(t, sess.StockStale())

	sess.Cart.Add(cartItem("p1"))
	assert.True(t, sess.StockStale(), "cart mutation invalidates the snapshot")
}

func TestFlashes_ShownExactlyOnce(t *testing.T) {
	m := NewManager(time.Hour, Deps{})
	sess := m.GetOrCreate("")

	sess.AddFlash("product created")
	sess.AddFlash("order placed")

	assert.Equal(t, []string{"product created", "order placed"}, sess.PopFlashes())
	assert.Empty(t, sess.PopFlashes())
}
