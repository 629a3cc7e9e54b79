//go:build integration

package integration

import (
	"net/http"
	"testing"
)

// TestCartFlow walks the buyer journey over real HTTP: add to cart, view the
// cart with live stock, hit the stock ceiling, check out.
func TestCartFlow(t *testing.T) {
	resp := doPost(t, "/api/cart/items", map[string]any{
		"id": "p1", "title": "Ceramic Vase", "price": 30,
	}, "")
	sid := resp.Header.Get("X-Session-ID")
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("add to cart: expected 200, got %d", resp.StatusCode)
	}
	if sid == "" {
		t.Fatal("X-Session-ID header not present")
	}

	resp = doGet(t, "/api/cart", sid)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("view cart: expected 200, got %d", resp.StatusCode)
	}
	cart := decodeJSON[cartResponse](t, resp)
	if cart.StockError {
		t.Fatal("unexpected stock error")
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 1 {
		t.Fatalf("unexpected cart contents: %+v", cart)
	}
	if !cart.Items[0].CanIncrease {
		t.Fatal("expected increase to be allowed with 3 in stock")
	}

	// Two more increases exhaust the stubbed stock of 3.
	for i := 0; i < 2; i++ {
		resp := doPost(t, "/api/cart/items/p1/increase", nil, sid)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("increase: expected 200, got %d", resp.StatusCode)
		}
	}
	resp2 := doPost(t, "/api/cart/items/p1/increase", nil, sid)
	defer resp2.Body.Close()
	gated := decodeJSON[struct {
		Allowed  bool `json:"allowed"`
		Quantity int  `json:"quantity"`
	}](t, resp2)
	if gated.Allowed || gated.Quantity != 3 {
		t.Fatalf("expected gated increase at quantity 3, got %+v", gated)
	}

	resp3 := doPost(t, "/api/checkout", nil, sid)
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusCreated {
		t.Fatalf("checkout: expected 201, got %d", resp3.StatusCode)
	}
	order := decodeJSON[map[string]string](t, resp3)
	if order["orderId"] != "ord-1" {
		t.Fatalf("unexpected order id: %q", order["orderId"])
	}

	resp4 := doGet(t, "/api/cart/badge", sid)
	defer resp4.Body.Close()
	badge := decodeJSON[map[string]int](t, resp4)
	if badge["count"] != 0 {
		t.Fatalf("expected empty cart after checkout, got %d", badge["count"])
	}
}

func TestSessionIsolation(t *testing.T) {
	resp := doPost(t, "/api/cart/items", map[string]any{
		"id": "p2", "title": "Scented Candle", "price": 8.5,
	}, "")
	sid := resp.Header.Get("X-Session-ID")
	resp.Body.Close()

	// A request without the session header gets its own fresh cart.
	resp = doGet(t, "/api/cart/badge", "")
	defer resp.Body.Close()
	badge := decodeJSON[map[string]int](t, resp)
	if badge["count"] != 0 {
		t.Fatalf("expected fresh session to have empty cart, got %d", badge["count"])
	}

	resp2 := doGet(t, "/api/cart/badge", sid)
	defer resp2.Body.Close()
	badge = decodeJSON[map[string]int](t, resp2)
	if badge["count"] != 1 {
		t.Fatalf("expected original session to keep its cart, got %d", badge["count"])
	}
}

func TestCheckout_EmptyCartRejected(t *testing.T) {
	resp := doPost(t, "/api/checkout", nil, "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	body := decodeJSON[errorResponse](t, resp)
	if body.Message != "cart is empty" {
		t.Fatalf("unexpected message: %q", body.Message)
	}
}

func TestCategories(t *testing.T) {
	resp := doGet(t, "/api/categories", "")
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	cats := decodeJSON[[]map[string]any](t, resp)
	if len(cats) != 2 {
		t.Fatalf("expected 2 categories, got %d", len(cats))
	}
	if cats[0]["slug"] != "home-decor" {
		t.Fatalf("unexpected slug: %v", cats[0]["slug"])
	}
}
