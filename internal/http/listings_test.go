package handlers_test

import (
	"fmt"
	"testing"

	"pawmart/internal/domain"
	"pawmart/internal/query"
)

type listingPage struct {
	Listings   []domain.Listing `json:"listings"`
	Pagination query.Pagination `json:"pagination"`
}

func seedListings(t *testing.T, ta *testApp) string {
	t.Helper()
	tok, _ := ta.register(t, "shop@example.com", "seller")
	for i, c := range []struct {
		category string
		price    float64
		location string
	}{
		{"Pets", 900, "Austin, TX"},
		{"Pets", 400, "Denver, CO"},
		{"Pet Food", 30, "Austin, TX"},
		{"Pet Food", 55, "Boston, MA"},
		{"Accessories", 12, "Austin, TX"},
	} {
		ta.createListing(t, tok, map[string]any{
			"name": fmt.Sprintf("Item %d", i), "category": c.category, "price": c.price, "location": c.location,
		})
	}
	return tok
}

func TestListingsPaginationContract(t *testing.T) {
	ta := newApp(t, roomyLimits)
	seedListings(t, ta)

	code, body := ta.call(t, "GET", "/listings?page=2&limit=2&sortBy=price&sortOrder=asc", "", nil)
	if code != 200 {
		t.Fatalf("%d %s", code, body)
	}
	p := decode[listingPage](t, body)
	want := query.Pagination{CurrentPage: 2, TotalPages: 3, TotalItems: 5, ItemsPerPage: 2}
	if p.Pagination != want {
		t.Fatalf("pagination = %+v, want %+v", p.Pagination, want)
	}
	if len(p.Listings) != 2 || p.Listings[0].Price != 55 || p.Listings[1].Price != 400 {
		t.Fatalf("page 2 by price asc wrong: %+v", p.Listings)
	}

	_, body = ta.call(t, "GET", "/listings?limit=1000000", "", nil)
	if got := decode[listingPage](t, body).Pagination.ItemsPerPage; got != 100 {
		t.Fatalf("limit should be capped at 100, got %d", got)
	}
	_, body = ta.call(t, "GET", "/listings?page=-4&limit=abc", "", nil)
	if got := decode[listingPage](t, body).Pagination; got.CurrentPage != 1 || got.ItemsPerPage != query.DefaultLimit {
		t.Fatalf("coercion wrong: %+v", got)
	}
}

func TestListingsFilters(t *testing.T) {
	ta := newApp(t, roomyLimits)
	seedListings(t, ta)

	count := func(path string) int64 {
		t.Helper()
		code, body := ta.call(t, "GET", path, "", nil)
		if code != 200 {
			t.Fatalf("%s: %d %s", path, code, body)
		}
		return decode[listingPage](t, body).Pagination.TotalItems
	}

	if a, b := count("/listings?category=all"), count("/listings"); a != b || a != 5 {
		t.Fatalf("category=all (%d) must equal omitted (%d)", a, b)
	}
	if n := count("/listings?category=Pet%20Food"); n != 2 {
		t.Fatalf("category filter: %d", n)
	}
	if n := count("/listings?minPrice=30&maxPrice=400"); n != 3 {
		t.Fatalf("price bounds: %d", n)
	}
	if n := count("/listings?location=austin"); n != 3 {
		t.Fatalf("location: %d", n)
	}
	if n := count("/listings/category/Pet%20Food"); n != 2 {
		t.Fatalf("by category route: %d", n)
	}

	for _, bad := range []string{"/listings?sortOrder=sideways", "/listings?sortBy=password", "/listings?minPrice=cheap", "/listings?category=Dragons"} {
		code, body := ta.call(t, "GET", bad, "", nil)
		e := decode[errResp](t, body)
		if code != 400 || e.Error != "Validation failed" || len(e.Details) == 0 {
			t.Fatalf("%s: %d %s", bad, code, body)
		}
	}
}

func TestInactiveListingsHiddenFromPublic(t *testing.T) {
	ta := newApp(t, roomyLimits)
	tok := seedListings(t, ta)
	adminTok := ta.admin(t)
	hidden := ta.createListing(t, tok, map[string]any{"name": "Hidden"})
	if code, body := ta.call(t, "PUT", "/listings/"+hidden.ID, tok, map[string]any{"status": "inactive"}); code != 200 {
		t.Fatalf("deactivate: %d %s", code, body)
	}

	_, body := ta.call(t, "GET", "/listings", "", nil)
	if n := decode[listingPage](t, body).Pagination.TotalItems; n != 5 {
		t.Fatalf("public should see 5, got %d", n)
	}
	_, body = ta.call(t, "GET", "/admin/listings?status=inactive", adminTok, nil)
	if p := decode[listingPage](t, body); p.Pagination.TotalItems != 1 || p.Listings[0].ID != hidden.ID {
		t.Fatalf("admin inactive filter: %+v", p)
	}
}

func TestSearchAndRecent(t *testing.T) {
	ta := newApp(t, roomyLimits)
	seedListings(t, ta)

	code, body := ta.call(t, "GET", "/search", "", nil)
	if code != 400 {
		t.Fatalf("missing q: %d %s", code, body)
	}
	code, body = ta.call(t, "GET", "/search?q=pet%20food", "", nil)
	if code != 200 || decode[listingPage](t, body).Pagination.TotalItems != 2 {
		t.Fatalf("search by category text: %d %s", code, body)
	}

	_, body = ta.call(t, "GET", "/recent-listings", "", nil)
	if got := decode[[]domain.Listing](t, body); len(got) != 5 {
		t.Fatalf("recent: %+v", got)
	}
	_, body = ta.call(t, "GET", "/recent-listings?limit=2", "", nil)
	if got := decode[[]domain.Listing](t, body); len(got) != 2 {
		t.Fatalf("recent limit: %d", len(got))
	}
}

func TestListingDetailWithReviews(t *testing.T) {
	ta := newApp(t, roomyLimits)
	sellerTok, _ := ta.register(t, "seller@example.com", "seller")
	l := ta.createListing(t, sellerTok, nil)

	for i, r := range []int{2, 4, 5} {
		tok, _ := ta.register(t, fmt.Sprintf("rev%d@example.com", i), "buyer")
		code, body := ta.call(t, "POST", "/reviews", tok, map[string]any{"listingId": l.ID, "rating": r, "comment": "Great seller"})
		if code != 201 {
			t.Fatalf("review: %d %s", code, body)
		}
	}
	code, body := ta.call(t, "GET", "/listings/"+l.ID, "", nil)
	d := decode[domain.ListingDetail](t, body)
	if code != 200 || d.ReviewCount != 3 || d.AverageRating != 3.7 || d.Views != 1 {
		t.Fatalf("detail: %d %+v", code, d)
	}

	if code, _ := ta.call(t, "GET", "/listings/00000000-0000-0000-0000-000000000000", "", nil); code != 404 {
		t.Fatalf("missing listing: %d", code)
	}
}

func TestLegacyPriceKeyAccepted(t *testing.T) {
	ta := newApp(t, roomyLimits)
	tok, _ := ta.register(t, "legacy@example.com", "seller")
	body := sampleListing()
	delete(body, "price")
	body["Price"] = 75
	code, out := ta.call(t, "POST", "/listings", tok, body)
	if code != 201 || decode[domain.Listing](t, out).Price != 75 {
		t.Fatalf("legacy Price: %d %s", code, out)
	}
}

func TestSearchMatchesNonASCIIRegardlessOfCase(t *testing.T) {
	ta := newApp(t, roomyLimits)
	sellerTok, _ := ta.register(t, "seller@example.com", "seller")
	ta.createListing(t, sellerTok, map[string]any{"name": "Éclair Chew Toy", "category": "Accessories", "location": "Örebro, Sweden"})
	ta.createListing(t, sellerTok, nil)

	for _, q := range []string{"%C3%A9clair", "%C3%89clair", "%C3%89CLAIR"} {
		code, body := ta.call(t, "GET", "/search?q="+q, "", nil)
		p := decode[listingPage](t, body)
		if code != 200 || p.Pagination.TotalItems != 1 || p.Listings[0].Name != "Éclair Chew Toy" {
			t.Fatalf("search %s: %d %s", q, code, body)
		}
	}
	_, body := ta.call(t, "GET", "/listings?location=%C3%B6rebro", "", nil)
	if p := decode[listingPage](t, body); p.Pagination.TotalItems != 1 {
		t.Fatalf("location filter: %s", body)
	}
}
