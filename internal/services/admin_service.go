package services

import (
	"context"
	"strings"
	"time"

	"pawmart/internal/auth"
	"pawmart/internal/authz"
	"pawmart/internal/domain"
	"pawmart/internal/query"
	"pawmart/internal/repos"
	"pawmart/internal/validate"
)

type AdminService struct {
	Users    *repos.UserRepo
	Stats    *repos.StatsRepo
	MaxLimit int
	Now      func() time.Time
}

func NewAdminService(users *repos.UserRepo, stats *repos.StatsRepo, maxLimit int) *AdminService {
	return &AdminService{Users: users, Stats: stats, MaxLimit: maxLimit, Now: time.Now}
}

type UserPage struct {
	Users      []domain.User    `json:"users"`
	Pagination query.Pagination `json:"pagination"`
}

// ListUsers returns one page of users, newest first.
func (s *AdminService) ListUsers(ctx context.Context, id auth.Identity, page, limit string) (UserPage, error) {
	if err := authz.Check(id, authz.Admin, ""); err != nil {
		return UserPage{}, err
	}
	plan, err := query.Build(query.Params{Page: page, Limit: limit}, query.Options{MaxLimit: s.MaxLimit})
	if err != nil {
		return UserPage{}, err
	}
	users, err := s.Users.List(ctx, plan.Limit, plan.Skip)
	if err != nil {
		return UserPage{}, err
	}
	total, err := s.Users.Count(ctx)
	if err != nil {
		return UserPage{}, err
	}
	return UserPage{Users: users, Pagination: query.NewPagination(plan.Page, plan.Limit, total)}, nil
}

func (s *AdminService) Overview(ctx context.Context, id auth.Identity) (repos.Stats, error) {
	if err := authz.Check(id, authz.Admin, ""); err != nil {
		return repos.Stats{}, err
	}
	return s.Stats.Collect(ctx, s.Now())
}

func (s *AdminService) ChangeRole(ctx context.Context, id auth.Identity, userID, role string) (*domain.User, error) {
	if err := authz.Check(id, authz.Admin, ""); err != nil {
		return nil, err
	}
	r := domain.Role(strings.TrimSpace(role))
	if !r.Valid() {
		return nil, domain.Invalid(`"role" must be one of [buyer, seller, admin]`)
	}
	uid, ok := validate.ID(userID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	return s.Users.UpdateRole(ctx, uid, r)
}
