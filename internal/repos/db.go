package repos

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"pawmart/internal/domain"
)

func OpenDB(dsn string) (*sqlx.DB, error) {
	// foreign_keys is per connection, so it goes in the DSN rather than the schema script.
	if !strings.Contains(dsn, "_pragma=foreign_keys") {
		sep := "?"
		if strings.Contains(dsn, "?") {
			sep = "&"
		}
		dsn += sep + "_pragma=foreign_keys(1)"
	}
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, err
	}
	// Every connection to ":memory:" is a separate database.
	if strings.Contains(dsn, ":memory:") {
		db.SetMaxOpenConns(1)
	}
	if err = db.Ping(); err != nil {
		return nil, err
	}

	if err := ensureSchema(db); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(db *sqlx.DB) error {
	schema := `
PRAGMA foreign_keys = ON;

-- Users
CREATE TABLE IF NOT EXISTS users(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL UNIQUE,
  name TEXT NOT NULL,
  password_hash TEXT NOT NULL,
  role TEXT NOT NULL CHECK (role IN ('buyer','seller','admin')),
  phone TEXT NOT NULL DEFAULT '',
  address TEXT NOT NULL DEFAULT '',
  verified INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_users_email ON users(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_users_created_at ON users(created_at);

-- Listings
CREATE TABLE IF NOT EXISTS listings(
  id TEXT PRIMARY KEY,
  email TEXT NOT NULL,
  name TEXT NOT NULL,
  category TEXT NOT NULL CHECK (category IN ('Pets','Pet Food','Accessories','Pet Care Products')),
  price NUMERIC NOT NULL CHECK (price > 0),
  location TEXT NOT NULL,
  description TEXT NOT NULL,
  image TEXT NOT NULL,
  breed TEXT NOT NULL DEFAULT '',
  age TEXT NOT NULL DEFAULT '',
  gender TEXT NOT NULL DEFAULT '',
  vaccinated INTEGER NULL,
  trained INTEGER NULL,
  status TEXT NOT NULL DEFAULT 'active' CHECK (status IN ('active','inactive')),
  views INTEGER NOT NULL DEFAULT 0,
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_listings_email      ON listings(LOWER(email));
CREATE INDEX IF NOT EXISTS idx_listings_category   ON listings(category);
CREATE INDEX IF NOT EXISTS idx_listings_status     ON listings(status);
CREATE INDEX IF NOT EXISTS idx_listings_created_at ON listings(created_at);
CREATE INDEX IF NOT EXISTS idx_listings_price      ON listings(price);

-- Orders
CREATE TABLE IF NOT EXISTS orders(
  id TEXT PRIMARY KEY,
  buyer_email TEXT NOT NULL,
  buyer_name TEXT NOT NULL,
  listing_id TEXT NOT NULL,
  seller_email TEXT NOT NULL,
  product_name TEXT NOT NULL,
  price NUMERIC NOT NULL,
  quantity INTEGER NOT NULL CHECK (quantity >= 1),
  total NUMERIC NOT NULL,
  address TEXT NOT NULL,
  phone TEXT NOT NULL,
  status TEXT NOT NULL DEFAULT 'pending'
    CHECK (status IN ('pending','confirmed','shipped','delivered','cancelled')),
  created_at TEXT NOT NULL,
  updated_at TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_orders_buyer      ON orders(LOWER(buyer_email));
CREATE INDEX IF NOT EXISTS idx_orders_created_at ON orders(created_at);

-- Reviews: one per (listing, reviewer)
CREATE TABLE IF NOT EXISTS reviews(
  id TEXT PRIMARY KEY,
  listing_id TEXT NOT NULL REFERENCES listings(id) ON DELETE CASCADE,
  buyer_email TEXT NOT NULL,
  rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 5),
  comment TEXT NOT NULL,
  created_at TEXT NOT NULL
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_reviews_listing_buyer ON reviews(listing_id, LOWER(buyer_email));
`
	_, err := db.Exec(schema)
	return err
}

func now() string { return domain.FormatTime(time.Now()) }

// SeedDemo inserts demo users and listings when the listings table is empty.
func SeedDemo(ctx context.Context, db *sqlx.DB, bcryptCost int) error {
	var n int
	if err := db.GetContext(ctx, &n, `SELECT COUNT(*) FROM listings`); err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	log.Println("[seed] inserting demo users/listings")

	hash, err := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcryptCost)
	if err != nil {
		return err
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	users := []struct {
		email, name string
		role        domain.Role
	}{
		{"seller1@example.com", "Sarah Seller", domain.RoleSeller},
		{"seller2@example.com", "Sam Seller", domain.RoleSeller},
		{"seller3@example.com", "Sky Seller", domain.RoleSeller},
		{"admin@pawmart.local", "Admin", domain.RoleAdmin},
	}
	ts := now()
	for _, u := range users {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO users(id,email,name,password_hash,role,verified,created_at)
			VALUES(?,?,?,?,?,1,?)
			ON CONFLICT(email) DO NOTHING
		`, uuid.NewString(), u.email, u.name, string(hash), string(u.role), ts); err != nil {
			return err
		}
	}

	yes, no := true, false
	day := 24 * time.Hour
	listings := []struct {
		l   domain.Listing
		age time.Duration
	}{
		{domain.Listing{Name: "Golden Retriever Puppy", Category: "Pets", Price: 800, Location: "New York, NY",
			Description: "Beautiful, healthy Golden Retriever puppy. 8 weeks old, vaccinated, and ready for a loving home.",
			Image:       "https://images.unsplash.com/photo-1552053831-71594a27632d?w=500&h=400&fit=crop",
			Email:       "seller1@example.com", Breed: "Golden Retriever", Age: "8 weeks", Gender: "Male",
			Vaccinated: &yes, Trained: &no, Views: 45}, 0},
		{domain.Listing{Name: "Persian Cat", Category: "Pets", Price: 600, Location: "Los Angeles, CA",
			Description: "Adorable Persian cat, 1 year old. Very friendly and well-behaved.",
			Image:       "https://images.unsplash.com/photo-1574144611937-0df059b5ef3e?w=500&h=400&fit=crop",
			Email:       "seller2@example.com", Breed: "Persian", Age: "1 year", Gender: "Female",
			Vaccinated: &yes, Trained: &yes, Views: 32}, day},
		{domain.Listing{Name: "Premium Dog Food - 20kg", Category: "Pet Food", Price: 45, Location: "Chicago, IL",
			Description: "High-quality dry dog food suitable for all breeds. Rich in protein and essential nutrients.",
			Image:       "https://images.unsplash.com/photo-1589924691995-400dc9ecc119?w=500&h=400&fit=crop",
			Email:       "seller3@example.com", Views: 28}, 2 * day},
		{domain.Listing{Name: "Cat Scratching Post", Category: "Accessories", Price: 35, Location: "Houston, TX",
			Description: "Sturdy sisal scratching post with a plush perch on top.",
			Image:       "https://images.unsplash.com/photo-1545249390-6bdfa286032f?w=500&h=400&fit=crop",
			Email:       "seller1@example.com", Views: 12}, 3 * day},
		{domain.Listing{Name: "Flea & Tick Shampoo", Category: "Pet Care Products", Price: 18, Location: "Seattle, WA",
			Description: "Gentle oatmeal shampoo that protects dogs and cats from fleas and ticks.",
			Image:       "https://images.unsplash.com/photo-1583337130417-3346a1be7dee?w=500&h=400&fit=crop",
			Email:       "seller2@example.com", Views: 9}, 4 * day},
	}
	for _, x := range listings {
		l := x.l
		l.ID = uuid.NewString()
		l.Status = domain.ListingActive
		l.CreatedAt = domain.FormatTime(time.Now().Add(-x.age))
		if _, err := tx.NamedExecContext(ctx, insertListingSQL, &l); err != nil {
			return err
		}
	}

	return tx.Commit()
}
