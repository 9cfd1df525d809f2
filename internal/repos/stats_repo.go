package repos

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"pawmart/internal/domain"
)

type Stats struct {
	TotalUsers            int64            `json:"totalUsers"`
	TotalListings         int64            `json:"totalListings"`
	ActiveListings        int64            `json:"activeListings"`
	TotalOrders           int64            `json:"totalOrders"`
	TotalReviews          int64            `json:"totalReviews"`
	NewUsersLast30Days    int64            `json:"newUsersLast30Days"`
	NewListingsLast30Days int64            `json:"newListingsLast30Days"`
	OrdersLast30Days      int64            `json:"ordersLast30Days"`
	UsersByRole           map[string]int64 `json:"usersByRole"`
	OrdersByStatus        map[string]int64 `json:"ordersByStatus"`
}

type StatsRepo struct{ db *sqlx.DB }

func NewStatsRepo(db *sqlx.DB) *StatsRepo { return &StatsRepo{db: db} }

// Collect computes aggregate counts; the 30-day windows end at asOf.
func (r *StatsRepo) Collect(ctx context.Context, asOf time.Time) (Stats, error) {
	since := domain.FormatTime(asOf.Add(-30 * 24 * time.Hour))
	s := Stats{UsersByRole: map[string]int64{}, OrdersByStatus: map[string]int64{}}

	counts := []struct {
		dst  *int64
		sql  string
		args []any
	}{
		{&s.TotalUsers, `SELECT COUNT(*) FROM users`, nil},
		{&s.TotalListings, `SELECT COUNT(*) FROM listings`, nil},
		{&s.ActiveListings, `SELECT COUNT(*) FROM listings WHERE status = 'active'`, nil},
		{&s.TotalOrders, `SELECT COUNT(*) FROM orders`, nil},
		{&s.TotalReviews, `SELECT COUNT(*) FROM reviews`, nil},
		{&s.NewUsersLast30Days, `SELECT COUNT(*) FROM users WHERE created_at >= ?`, []any{since}},
		{&s.NewListingsLast30Days, `SELECT COUNT(*) FROM listings WHERE created_at >= ?`, []any{since}},
		{&s.OrdersLast30Days, `SELECT COUNT(*) FROM orders WHERE created_at >= ?`, []any{since}},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dst, c.sql, c.args...); err != nil {
			return Stats{}, err
		}
	}

	type group struct {
		Key string `db:"k"`
		N   int64  `db:"n"`
	}
	var roles []group
	if err := r.db.SelectContext(ctx, &roles, `SELECT role AS k, COUNT(*) AS n FROM users GROUP BY role`); err != nil {
		return Stats{}, err
	}
	for _, g := range roles {
		s.UsersByRole[g.Key] = g.N
	}
	var statuses []group
	if err := r.db.SelectContext(ctx, &statuses, `SELECT status AS k, COUNT(*) AS n FROM orders GROUP BY status`); err != nil {
		return Stats{}, err
	}
	for _, g := range statuses {
		s.OrdersByStatus[g.Key] = g.N
	}
	return s, nil
}

// Ping reports whether the store answers.
func (r *StatsRepo) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }
