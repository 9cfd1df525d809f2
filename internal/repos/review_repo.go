package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pawmart/internal/domain"
)

type ReviewRepo struct{ db *sqlx.DB }

func NewReviewRepo(db *sqlx.DB) *ReviewRepo { return &ReviewRepo{db: db} }

// Create inserts rv. The unique index on (listing_id, LOWER(buyer_email)) is the
// authoritative duplicate check; a violation yields domain.ErrDuplicateReview.
func (r *ReviewRepo) Create(ctx context.Context, rv *domain.Review) error {
	if rv.ID == "" {
		rv.ID = uuid.NewString()
	}
	rv.BuyerEmail = strings.ToLower(rv.BuyerEmail)
	rv.CreatedAt = now()
	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO reviews(id, listing_id, buyer_email, rating, comment, created_at)
		VALUES(:id, :listing_id, :buyer_email, :rating, :comment, :created_at)
	`, rv)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateReview
	}
	if err != nil {
		return fmt.Errorf("create review: %w", err)
	}
	return nil
}

// ListByListing returns a listing's reviews, newest first.
func (r *ReviewRepo) ListByListing(ctx context.Context, listingID string) ([]domain.Review, error) {
	out := []domain.Review{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT id, listing_id, buyer_email, rating, comment, created_at
		FROM reviews
		WHERE listing_id = ?
		ORDER BY created_at DESC, id DESC
	`, listingID)
	return out, err
}
