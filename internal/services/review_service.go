package services

import (
	"context"

	"pawmart/internal/auth"
	"pawmart/internal/domain"
	"pawmart/internal/repos"
	"pawmart/internal/validate"
)

type ReviewService struct {
	Reviews  *repos.ReviewRepo
	Listings *repos.ListingRepo
}

func NewReviewService(reviews *repos.ReviewRepo, listings *repos.ListingRepo) *ReviewService {
	return &ReviewService{Reviews: reviews, Listings: listings}
}

type ReviewInput struct {
	ListingID string `json:"listingId"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

// Create records the caller's review of a listing. A second review of the same
// listing by the same reviewer fails with domain.ErrDuplicateReview.
func (s *ReviewService) Create(ctx context.Context, id auth.Identity, in ReviewInput) (*domain.Review, error) {
	var details []string
	lid, ok := validate.ID(in.ListingID)
	if !ok {
		details = append(details, `"listingId" is required`)
	}
	if !validate.Rating(in.Rating) {
		details = append(details, `"rating" must be between 1 and 5`)
	}
	comment, ok := validate.Text(in.Comment, 5, 500)
	if !ok {
		details = append(details, `"comment" length must be between 5 and 500 characters`)
	}
	if len(details) > 0 {
		return nil, domain.Invalid(details...)
	}

	if _, err := s.Listings.Get(ctx, lid); err != nil {
		return nil, err
	}
	rv := &domain.Review{ListingID: lid, BuyerEmail: id.Email, Rating: in.Rating, Comment: comment}
	if err := s.Reviews.Create(ctx, rv); err != nil {
		return nil, err
	}
	return rv, nil
}

func (s *ReviewService) ForListing(ctx context.Context, listingID string) ([]domain.Review, error) {
	lid, ok := validate.ID(listingID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	if _, err := s.Listings.Get(ctx, lid); err != nil {
		return nil, err
	}
	return s.Reviews.ListByListing(ctx, lid)
}
