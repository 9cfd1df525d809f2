package services

import (
	"context"
	"math"
	"strconv"
	"strings"

	"pawmart/internal/auth"
	"pawmart/internal/authz"
	"pawmart/internal/domain"
	"pawmart/internal/query"
	"pawmart/internal/repos"
	"pawmart/internal/validate"
)

const (
	RecentDefault = 6
	RecentMax     = 20
)

type ListingService struct {
	Listings *repos.ListingRepo
	Reviews  *repos.ReviewRepo
	MaxLimit int
}

func NewListingService(listings *repos.ListingRepo, reviews *repos.ReviewRepo, maxLimit int) *ListingService {
	return &ListingService{Listings: listings, Reviews: reviews, MaxLimit: maxLimit}
}

type ListingPage struct {
	Listings   []domain.Listing `json:"listings"`
	Pagination query.Pagination `json:"pagination"`
}

func (s *ListingService) page(ctx context.Context, p query.Params, opts query.Options, owner string) (ListingPage, error) {
	opts.MaxLimit = s.MaxLimit
	plan, err := query.Build(p, opts)
	if err != nil {
		return ListingPage{}, err
	}
	plan.Owner = owner
	items, err := s.Listings.Find(ctx, plan)
	if err != nil {
		return ListingPage{}, err
	}
	total, err := s.Listings.Count(ctx, plan)
	if err != nil {
		return ListingPage{}, err
	}
	return ListingPage{Listings: items, Pagination: query.NewPagination(plan.Page, plan.Limit, total)}, nil
}

// Browse lists active listings with filters, sort and paging.
func (s *ListingService) Browse(ctx context.Context, p query.Params) (ListingPage, error) {
	return s.page(ctx, p, query.Options{}, "")
}

func (s *ListingService) ByCategory(ctx context.Context, category string, p query.Params) (ListingPage, error) {
	p.Category = category
	return s.page(ctx, p, query.Options{}, "")
}

// Search matches the text against name, description and category.
func (s *ListingService) Search(ctx context.Context, p query.Params) (ListingPage, error) {
	if strings.TrimSpace(p.Search) == "" {
		return ListingPage{}, domain.Invalid(`"q" is required`)
	}
	if _, ok := validate.Q(p.Search); !ok {
		return ListingPage{}, domain.Invalid(`"q" contains unsupported characters or is too long`)
	}
	return s.page(ctx, p, query.Options{SearchCategory: true}, "")
}

// ByUser lists every listing owned by email, including inactive ones.
func (s *ListingService) ByUser(ctx context.Context, id auth.Identity, email string, p query.Params) (ListingPage, error) {
	if err := authz.Check(id, authz.ReadOwn, email); err != nil {
		return ListingPage{}, err
	}
	return s.page(ctx, p, query.Options{AnyStatus: true}, strings.ToLower(strings.TrimSpace(email)))
}

func (s *ListingService) AdminList(ctx context.Context, id auth.Identity, p query.Params) (ListingPage, error) {
	if err := authz.Check(id, authz.Admin, ""); err != nil {
		return ListingPage{}, err
	}
	return s.page(ctx, p, query.Options{AnyStatus: true}, "")
}

// Recent returns the newest active listings.
func (s *ListingService) Recent(ctx context.Context, limit string) ([]domain.Listing, error) {
	n, err := strconv.Atoi(strings.TrimSpace(limit))
	if err != nil || n < 1 {
		n = RecentDefault
	}
	if n > RecentMax {
		n = RecentMax
	}
	plan, err := query.Build(query.Params{Limit: strconv.Itoa(n)}, query.Options{MaxLimit: RecentMax})
	if err != nil {
		return nil, err
	}
	return s.Listings.Find(ctx, plan)
}

// Get returns the listing with its reviews and bumps its view counter.
func (s *ListingService) Get(ctx context.Context, listingID string) (*domain.ListingDetail, error) {
	lid, ok := validate.ID(listingID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	l, err := s.Listings.Get(ctx, lid)
	if err != nil {
		return nil, err
	}
	if err := s.Listings.IncrementViews(ctx, lid); err == nil {
		l.Views++
	}
	reviews, err := s.Reviews.ListByListing(ctx, lid)
	if err != nil {
		return nil, err
	}
	ratings := make([]int, len(reviews))
	for i, r := range reviews {
		ratings[i] = r.Rating
	}
	return &domain.ListingDetail{
		Listing:       *l,
		Reviews:       reviews,
		ReviewCount:   len(reviews),
		AverageRating: Average(ratings),
	}, nil
}

// Average is the mean rating rounded to one decimal place, 0 when there are none.
func Average(ratings []int) float64 {
	if len(ratings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range ratings {
		sum += r
	}
	return math.Round(float64(sum)/float64(len(ratings))*10) / 10
}

// ListingInput is the client-writable part of a listing. Create requires the core
// fields; update applies whichever fields are present.
type ListingInput struct {
	Name        *string  `json:"name"`
	Category    *string  `json:"category"`
	Price       *float64 `json:"price"`
	Location    *string  `json:"location"`
	Description *string  `json:"description"`
	Image       *string  `json:"image"`
	Breed       *string  `json:"breed"`
	Age         *string  `json:"age"`
	Gender      *string  `json:"gender"`
	Vaccinated  *bool    `json:"vaccinated"`
	Trained     *bool    `json:"trained"`
	Status      *string  `json:"status"`
}

func (in ListingInput) patch(create bool) (domain.ListingPatch, error) {
	var (
		p       domain.ListingPatch
		details []string
	)
	text := func(v *string, field string, min, max int) *string {
		if v == nil {
			if create && min > 0 {
				details = append(details, `"`+field+`" is required`)
			}
			return nil
		}
		s, ok := validate.Text(*v, min, max)
		if !ok {
			details = append(details, `"`+field+`" length must be between `+strconv.Itoa(min)+` and `+strconv.Itoa(max)+` characters`)
		}
		return &s
	}

	p.Name = text(in.Name, "name", 2, 100)
	p.Location = text(in.Location, "location", 2, 100)
	p.Description = text(in.Description, "description", 10, 1000)
	p.Breed = text(in.Breed, "breed", 0, 50)
	p.Age = text(in.Age, "age", 0, 20)

	switch {
	case in.Category != nil:
		c := strings.TrimSpace(*in.Category)
		if !domain.ValidCategory(c) {
			details = append(details, `"category" must be one of [`+strings.Join(domain.Categories, ", ")+`]`)
		}
		p.Category = &c
	case create:
		details = append(details, `"category" is required`)
	}

	switch {
	case in.Price != nil:
		if *in.Price <= 0 || math.IsInf(*in.Price, 0) || math.IsNaN(*in.Price) {
			details = append(details, `"price" must be a positive number`)
		}
		p.Price = in.Price
	case create:
		details = append(details, `"price" is required`)
	}

	switch {
	case in.Image != nil:
		img, ok := validate.URI(*in.Image)
		if !ok {
			details = append(details, `"image" must be a valid uri`)
		}
		p.Image = &img
	case create:
		details = append(details, `"image" is required`)
	}

	if in.Gender != nil {
		g := strings.TrimSpace(*in.Gender)
		if g != "" && g != "Male" && g != "Female" {
			details = append(details, `"gender" must be one of [Male, Female]`)
		}
		p.Gender = &g
	}
	p.Vaccinated = in.Vaccinated
	p.Trained = in.Trained

	if in.Status != nil && !create {
		st := domain.ListingStatus(strings.TrimSpace(*in.Status))
		if !st.Valid() {
			details = append(details, `"status" must be one of [active, inactive]`)
		}
		p.Status = &st
	}

	if len(details) > 0 {
		return domain.ListingPatch{}, domain.Invalid(details...)
	}
	return p, nil
}

// Create stores a new active listing owned by the caller.
func (s *ListingService) Create(ctx context.Context, id auth.Identity, in ListingInput) (*domain.Listing, error) {
	if err := authz.Check(id, authz.CreateListing, ""); err != nil {
		return nil, err
	}
	p, err := in.patch(true)
	if err != nil {
		return nil, err
	}
	l := &domain.Listing{
		Email:       id.Email,
		Name:        *p.Name,
		Category:    *p.Category,
		Price:       *p.Price,
		Location:    *p.Location,
		Description: *p.Description,
		Image:       *p.Image,
		Vaccinated:  p.Vaccinated,
		Trained:     p.Trained,
		Status:      domain.ListingActive,
	}
	if p.Breed != nil {
		l.Breed = *p.Breed
	}
	if p.Age != nil {
		l.Age = *p.Age
	}
	if p.Gender != nil {
		l.Gender = *p.Gender
	}
	if err := s.Listings.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *ListingService) owned(ctx context.Context, id auth.Identity, listingID string) (*domain.Listing, error) {
	lid, ok := validate.ID(listingID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	l, err := s.Listings.Get(ctx, lid)
	if err != nil {
		return nil, err
	}
	if err := authz.Check(id, authz.ModifyListing, l.Email); err != nil {
		return nil, err
	}
	return l, nil
}

// Update merges the provided fields into a listing the caller owns (or any, for admins).
func (s *ListingService) Update(ctx context.Context, id auth.Identity, listingID string, in ListingInput) (*domain.Listing, error) {
	l, err := s.owned(ctx, id, listingID)
	if err != nil {
		return nil, err
	}
	p, err := in.patch(false)
	if err != nil {
		return nil, err
	}
	return s.Listings.Update(ctx, l.ID, p)
}

func (s *ListingService) Delete(ctx context.Context, id auth.Identity, listingID string) error {
	l, err := s.owned(ctx, id, listingID)
	if err != nil {
		return err
	}
	return s.Listings.Delete(ctx, l.ID)
}
