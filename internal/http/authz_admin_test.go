package handlers_test

import (
	"strings"
	"testing"

	"pawmart/internal/domain"
	"pawmart/internal/repos"
)

func TestAdminGuardRequiresAdmin(t *testing.T) {
	ta := newApp(t, roomyLimits)
	buyerTok, _ := ta.register(t, "buyer@example.com", "buyer")
	adminTok := ta.admin(t)

	for _, path := range []string{"/admin/users", "/admin/stats", "/admin/listings"} {
		code, body := ta.call(t, "GET", path, buyerTok, nil)
		if code != 403 || decode[errResp](t, body).Error != "Access denied. Admin privileges required." {
			t.Fatalf("%s as buyer: %d %s", path, code, body)
		}
		if code, _ := ta.call(t, "GET", path, "", nil); code != 401 {
			t.Fatalf("%s anonymous: %d", path, code)
		}
		if code, body := ta.call(t, "GET", path, adminTok, nil); code != 200 {
			t.Fatalf("%s as admin: %d %s", path, code, body)
		}
	}

	_, body := ta.call(t, "GET", "/admin/users?limit=1", adminTok, nil)
	if strings.Contains(strings.ToLower(string(body)), "password") || strings.Contains(string(body), "$2") {
		t.Fatalf("password material in user list: %s", body)
	}
	page := decode[struct {
		Users      []domain.User `json:"users"`
		Pagination struct {
			TotalItems int `json:"totalItems"`
			TotalPages int `json:"totalPages"`
		} `json:"pagination"`
	}](t, body)
	if len(page.Users) != 1 || page.Pagination.TotalItems != 2 || page.Pagination.TotalPages != 2 {
		t.Fatalf("unexpected page %+v", page)
	}

	code, body := ta.call(t, "GET", "/admin/stats", adminTok, nil)
	stats := decode[repos.Stats](t, body)
	if code != 200 || stats.TotalUsers != 2 || stats.UsersByRole["admin"] != 1 {
		t.Fatalf("stats: %d %+v", code, stats)
	}
}

func TestRoleChangeAppliesWithoutNewToken(t *testing.T) {
	ta := newApp(t, roomyLimits)
	tok, id := ta.register(t, "eve@example.com", "buyer")
	adminTok := ta.admin(t)

	code, body := ta.call(t, "POST", "/listings", tok, sampleListing())
	if code != 403 || decode[errResp](t, body).Error != "Access denied. Seller privileges required." {
		t.Fatalf("buyer create: %d %s", code, body)
	}

	code, body = ta.call(t, "PUT", "/admin/users/"+id+"/role", adminTok, map[string]any{"role": "wizard"})
	if code != 400 {
		t.Fatalf("bad role: %d %s", code, body)
	}
	code, body = ta.call(t, "PUT", "/admin/users/does-not-exist/role", adminTok, map[string]any{"role": "seller"})
	if code != 404 {
		t.Fatalf("missing user: %d %s", code, body)
	}
	code, body = ta.call(t, "PUT", "/admin/users/"+id+"/role", adminTok, map[string]any{"role": "seller"})
	if code != 200 {
		t.Fatalf("promote: %d %s", code, body)
	}

	l := ta.createListing(t, tok, nil)
	if l.Email != "eve@example.com" {
		t.Fatalf("owner should come from the token: %+v", l)
	}
}
