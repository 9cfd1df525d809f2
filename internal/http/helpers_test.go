package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"pawmart/internal/config"
	"pawmart/internal/domain"
	"pawmart/internal/http/handlers"
	"pawmart/internal/repos"
)

type testApp struct {
	app  *fiber.App
	deps *handlers.Deps
	db   *sqlx.DB
}

var roomyLimits = handlers.Limits{Max: 10000, AuthMax: 10000, Window: time.Minute}

// newApp builds the real route table over an in-memory store.
func newApp(t *testing.T, lim handlers.Limits) *testApp {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	cfg := config.Config{JWTSecret: "test-secret", TokenTTL: time.Hour, BcryptCost: bcrypt.MinCost, MaxPageSize: 100}
	deps := handlers.NewDeps(db, cfg, nil)

	app := fiber.New(fiber.Config{BodyLimit: 1 << 20, ErrorHandler: handlers.ErrorHandler})
	app.Use(recover.New())
	app.Use(requestid.New())
	handlers.Routes(app, deps, lim)
	return &testApp{app: app, deps: deps, db: db}
}

// call sends a JSON request and returns the status and raw body.
func (ta *testApp) call(t *testing.T, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			if err != nil {
				t.Fatal(err)
			}
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := ta.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	out, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, out
}

func decode[T any](t *testing.T, b []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(b, &v); err != nil {
		t.Fatalf("decode %s: %v", string(b), err)
	}
	return v
}

type authResp struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

type errResp struct {
	Error   string   `json:"error"`
	Details []string `json:"details"`
}

// register signs up through the API and returns the token and user id.
func (ta *testApp) register(t *testing.T, email, role string) (string, string) {
	t.Helper()
	code, body := ta.call(t, "POST", "/auth/register", "", map[string]any{
		"name": "Test User", "email": email, "password": "secret123", "role": role,
	})
	if code != fiber.StatusCreated {
		t.Fatalf("register %s: %d %s", email, code, body)
	}
	r := decode[authResp](t, body)
	return r.Token, r.User.ID
}

// admin creates an admin directly in the store; registration cannot grant it.
func (ta *testApp) admin(t *testing.T) string {
	t.Helper()
	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	u := &domain.User{Email: "root@example.com", Name: "Root", Hash: string(hash), Role: domain.RoleAdmin}
	if err := ta.deps.Users.Create(context.Background(), u); err != nil {
		t.Fatal(err)
	}
	tok, err := ta.deps.Tokens.Issue(u)
	if err != nil {
		t.Fatal(err)
	}
	return tok
}

func sampleListing() map[string]any {
	return map[string]any{
		"name":        "Beagle Puppy",
		"category":    "Pets",
		"price":       250.5,
		"location":    "Austin, TX",
		"description": "Friendly beagle puppy, ten weeks old",
		"image":       "https://img.example.com/beagle.jpg",
		"breed":       "Beagle",
		"vaccinated":  true,
	}
}

func (ta *testApp) createListing(t *testing.T, token string, fields map[string]any) domain.Listing {
	t.Helper()
	body := sampleListing()
	for k, v := range fields {
		body[k] = v
	}
	code, out := ta.call(t, "POST", "/listings", token, body)
	if code != fiber.StatusCreated {
		t.Fatalf("create listing: %d %s", code, out)
	}
	return decode[domain.Listing](t, out)
}

type logEntry struct {
	Level  string         `json:"level"`
	Action string         `json:"action"`
	Status int            `json:"status"`
	UserID string         `json:"user_id"`
	Role   string         `json:"role"`
	Fields map[string]any `json:"fields"`
}

// captureLogs temporarily replaces the standard logger output.
func captureLogs(t *testing.T, fn func()) []logEntry {
	t.Helper()
	var buf bytes.Buffer
	var mu sync.Mutex
	oldW := log.Writer()
	oldFlags := log.Flags()
	log.SetOutput(&lockedWriter{w: &buf, mu: &mu})
	log.SetFlags(0)
	defer func() {
		log.SetOutput(oldW)
		log.SetFlags(oldFlags)
	}()

	fn()

	var entries []logEntry
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var e logEntry
		if err := json.Unmarshal([]byte(strings.TrimSpace(line)), &e); err == nil {
			entries = append(entries, e)
		}
	}
	return entries
}

type lockedWriter struct {
	w  *bytes.Buffer
	mu *sync.Mutex
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}

func findLog(entries []logEntry, action string) (logEntry, bool) {
	for _, e := range entries {
		if e.Action == action {
			return e, true
		}
	}
	return logEntry{}, false
}
