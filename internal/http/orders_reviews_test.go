package handlers_test

import (
	"context"
	"testing"

	"pawmart/internal/domain"
)

func placeOrder(t *testing.T, ta *testApp, tok, listingID string, extra map[string]any) domain.Order {
	t.Helper()
	body := map[string]any{
		"listingId": listingID, "buyerName": "Bea Buyer", "quantity": 2,
		"address": "12 Elm Street, Austin TX", "phone": "5551234567",
	}
	for k, v := range extra {
		body[k] = v
	}
	code, out := ta.call(t, "POST", "/orders", tok, body)
	if code != 201 {
		t.Fatalf("place order: %d %s", code, out)
	}
	return decode[domain.Order](t, out)
}

func TestOrderTotalsComeFromListing(t *testing.T) {
	ta := newApp(t, roomyLimits)
	sellerTok, _ := ta.register(t, "seller@example.com", "seller")
	buyerTok, _ := ta.register(t, "buyer@example.com", "buyer")
	l := ta.createListing(t, sellerTok, map[string]any{"price": 19.99})

	o := placeOrder(t, ta, buyerTok, l.ID, map[string]any{"price": 0.01, "productName": "Free stuff", "email": "victim@example.com"})
	if o.Price != 19.99 || o.Total != 39.98 || o.ProductName != "Beagle Puppy" {
		t.Fatalf("client-supplied snapshot accepted: %+v", o)
	}
	if o.BuyerEmail != "buyer@example.com" || o.SellerEmail != "seller@example.com" || o.Status != domain.OrderPending {
		t.Fatalf("unexpected order %+v", o)
	}

	if code, _ := ta.call(t, "POST", "/orders", "", map[string]any{"listingId": l.ID}); code != 401 {
		t.Fatalf("anonymous order: %d", code)
	}
	code, body := ta.call(t, "POST", "/orders", buyerTok, map[string]any{"listingId": l.ID, "buyerName": "B"})
	if code != 400 || len(decode[errResp](t, body).Details) < 2 {
		t.Fatalf("invalid order: %d %s", code, body)
	}
}

func TestOrderListingIsSelfOrAdmin(t *testing.T) {
	ta := newApp(t, roomyLimits)
	sellerTok, _ := ta.register(t, "seller@example.com", "seller")
	buyerTok, _ := ta.register(t, "buyer@example.com", "buyer")
	adminTok := ta.admin(t)
	l := ta.createListing(t, sellerTok, nil)
	placeOrder(t, ta, buyerTok, l.ID, nil)

	if code, _ := ta.call(t, "GET", "/orders/buyer@example.com", sellerTok, nil); code != 403 {
		t.Fatalf("other user: %d", code)
	}
	for _, tok := range []string{buyerTok, adminTok} {
		code, body := ta.call(t, "GET", "/orders/buyer@example.com", tok, nil)
		if code != 200 || len(decode[[]domain.Order](t, body)) != 1 {
			t.Fatalf("allowed: %d %s", code, body)
		}
	}
}

func TestOrderStatusUpdates(t *testing.T) {
	ta := newApp(t, roomyLimits)
	sellerTok, _ := ta.register(t, "seller@example.com", "seller")
	buyerTok, _ := ta.register(t, "buyer@example.com", "buyer")
	strangerTok, _ := ta.register(t, "stranger@example.com", "seller")
	l := ta.createListing(t, sellerTok, nil)
	o := placeOrder(t, ta, buyerTok, l.ID, nil)
	path := "/orders/" + o.ID + "/status"

	stored := func() domain.OrderStatus {
		got, err := ta.deps.OrderHandler.Orders.Orders.Get(context.Background(), o.ID)
		if err != nil {
			t.Fatal(err)
		}
		return got.Status
	}

	code, body := ta.call(t, "PUT", path, sellerTok, map[string]any{"status": "lost-in-space"})
	if code != 400 || stored() != domain.OrderPending {
		t.Fatalf("invalid status: %d %s now=%s", code, body, stored())
	}
	if code, _ := ta.call(t, "PUT", path, strangerTok, map[string]any{"status": "confirmed"}); code != 403 {
		t.Fatalf("stranger: %d", code)
	}
	if code, _ := ta.call(t, "PUT", path, buyerTok, map[string]any{"status": "shipped"}); code != 403 {
		t.Fatalf("buyer ship: %d", code)
	}
	if code, _ := ta.call(t, "PUT", path, sellerTok, map[string]any{"status": "delivered"}); code != 409 {
		t.Fatalf("skipping states: %d", code)
	}
	if stored() != domain.OrderPending {
		t.Fatalf("rejected updates must not change the order, now %s", stored())
	}

	code, body = ta.call(t, "PUT", path, sellerTok, map[string]any{"status": "confirmed"})
	if code != 200 || decode[domain.Order](t, body).Status != domain.OrderConfirmed {
		t.Fatalf("confirm: %d %s", code, body)
	}
	code, body = ta.call(t, "PUT", path, buyerTok, map[string]any{"status": "cancelled"})
	if code != 200 || stored() != domain.OrderCancelled {
		t.Fatalf("buyer cancel: %d %s", code, body)
	}
	if code, _ := ta.call(t, "PUT", path, sellerTok, map[string]any{"status": "shipped"}); code != 409 {
		t.Fatalf("ship after cancel: %d", code)
	}
}

func TestOrderAgainstInactiveListing(t *testing.T) {
	ta := newApp(t, roomyLimits)
	sellerTok, _ := ta.register(t, "seller@example.com", "seller")
	buyerTok, _ := ta.register(t, "buyer@example.com", "buyer")
	l := ta.createListing(t, sellerTok, nil)
	ta.call(t, "PUT", "/listings/"+l.ID, sellerTok, map[string]any{"status": "inactive"})

	code, body := ta.call(t, "POST", "/orders", buyerTok, map[string]any{
		"listingId": l.ID, "buyerName": "Bea", "address": "12 Elm Street, Austin TX", "phone": "5551234567",
	})
	if code != 400 || decode[errResp](t, body).Error != "Listing is not available" {
		t.Fatalf("inactive listing: %d %s", code, body)
	}
	code, _ = ta.call(t, "POST", "/orders", buyerTok, map[string]any{
		"listingId": "no-such-listing", "buyerName": "Bea", "address": "12 Elm Street, Austin TX", "phone": "5551234567",
	})
	if code != 404 {
		t.Fatalf("missing listing: %d", code)
	}
}

func TestSecondReviewRejected(t *testing.T) {
	ta := newApp(t, roomyLimits)
	sellerTok, _ := ta.register(t, "seller@example.com", "seller")
	buyerTok, _ := ta.register(t, "buyer@example.com", "buyer")
	l := ta.createListing(t, sellerTok, nil)

	first := map[string]any{"listingId": l.ID, "rating": 5, "comment": "Wonderful puppy"}
	if code, body := ta.call(t, "POST", "/reviews", buyerTok, first); code != 201 {
		t.Fatalf("first review: %d %s", code, body)
	}
	second := map[string]any{"listingId": l.ID, "rating": 1, "comment": "Actually awful", "buyerEmail": "someone@else.com"}
	code, body := ta.call(t, "POST", "/reviews", buyerTok, second)
	if code != 409 {
		t.Fatalf("second review: %d %s", code, body)
	}

	_, body = ta.call(t, "GET", "/reviews/"+l.ID, "", nil)
	list := decode[[]domain.Review](t, body)
	if len(list) != 1 || list[0].Rating != 5 || list[0].BuyerEmail != "buyer@example.com" {
		t.Fatalf("reviews: %+v", list)
	}

	if code, _ := ta.call(t, "POST", "/reviews", buyerTok, map[string]any{"listingId": l.ID, "rating": 9, "comment": "Off the charts"}); code != 400 {
		t.Fatalf("rating out of range: %d", code)
	}
	if code, _ := ta.call(t, "POST", "/reviews", "", first); code != 401 {
		t.Fatalf("anonymous review: %d", code)
	}
}
