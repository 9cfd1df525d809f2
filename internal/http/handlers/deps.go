package handlers

import (
	"time"

	"github.com/jmoiron/sqlx"

	"pawmart/internal/auth"
	"pawmart/internal/config"
	"pawmart/internal/repos"
	"pawmart/internal/services"
)

type Deps struct {
	Tokens *auth.Tokens
	Users  *repos.UserRepo

	AuthHandler     *AuthHandler
	ListingHandler  *ListingHandler
	CategoryHandler *CategoryHandler
	SearchHandler   *SearchHandler
	OrderHandler    *OrderHandler
	ReviewHandler   *ReviewHandler
	AdminHandler    *AdminHandler
	HealthHandler   *HealthHandler
}

func NewDeps(db *sqlx.DB, cfg config.Config, mail services.Mailer) *Deps {
	userRepo := repos.NewUserRepo(db)
	listingRepo := repos.NewListingRepo(db)
	orderRepo := repos.NewOrderRepo(db)
	reviewRepo := repos.NewReviewRepo(db)
	statsRepo := repos.NewStatsRepo(db)

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.TokenTTL)
	authSvc := services.NewAuthService(userRepo, tokens, mail, cfg.BcryptCost)
	listingSvc := services.NewListingService(listingRepo, reviewRepo, cfg.MaxPageSize)
	orderSvc := services.NewOrderService(orderRepo, listingRepo, mail)
	reviewSvc := services.NewReviewService(reviewRepo, listingRepo)
	adminSvc := services.NewAdminService(userRepo, statsRepo, cfg.MaxPageSize)

	return &Deps{
		Tokens: tokens,
		Users:  userRepo,

		AuthHandler:     &AuthHandler{Auth: authSvc},
		ListingHandler:  &ListingHandler{Listings: listingSvc},
		CategoryHandler: &CategoryHandler{Listings: listingSvc},
		SearchHandler:   &SearchHandler{Listings: listingSvc},
		OrderHandler:    &OrderHandler{Orders: orderSvc},
		ReviewHandler:   &ReviewHandler{Reviews: reviewSvc},
		AdminHandler:    &AdminHandler{Admin: adminSvc, Listings: listingSvc},
		HealthHandler:   &HealthHandler{Store: statsRepo, Started: time.Now()},
	}
}
