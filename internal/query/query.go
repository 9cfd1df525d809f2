// Package query turns untrusted listing filter, sort and page parameters into a
// bounded plan that a repository can execute.
package query

import (
	"math"
	"strconv"
	"strings"

	"pawmart/internal/domain"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
	// MaxPage keeps skip well inside int range.
	MaxPage = 1_000_000
)

// Params holds the raw query-string values.
type Params struct {
	Page      string
	Limit     string
	Category  string
	Search    string
	MinPrice  string
	MaxPrice  string
	Location  string
	SortBy    string
	SortOrder string
	Status    string
}

type Options struct {
	DefaultLimit int
	MaxLimit     int
	// SearchCategory extends the text match to the category field.
	SearchCategory bool
	// AnyStatus lets the caller filter on status instead of forcing active listings.
	AnyStatus bool
}

// Plan is a normalized query. Zero values mean "no constraint".
type Plan struct {
	Page  int
	Limit int
	Skip  int

	Category       string
	Search         string
	SearchCategory bool
	MinPrice       *float64
	MaxPrice       *float64
	Location       string
	Status         domain.ListingStatus
	Owner          string

	SortColumn string
	SortDesc   bool
}

var sortColumns = map[string]string{
	"createdAt":  "created_at",
	"created_at": "created_at",
	"addedAt":    "created_at",
	"updatedAt":  "updated_at",
	"price":      "price",
	"Price":      "price",
	"name":       "name",
	"views":      "views",
}

// Build validates p and returns the plan. Page and limit are coerced rather than
// rejected; unknown categories, sort fields and non-numeric prices are rejected.
func Build(p Params, opts Options) (Plan, error) {
	if opts.DefaultLimit <= 0 {
		opts.DefaultLimit = DefaultLimit
	}
	if opts.MaxLimit <= 0 {
		opts.MaxLimit = MaxLimit
	}

	plan := Plan{SearchCategory: opts.SearchCategory, Status: domain.ListingActive}
	plan.Page = positiveInt(p.Page, 1)
	if plan.Page > MaxPage {
		plan.Page = MaxPage
	}
	plan.Limit = positiveInt(p.Limit, opts.DefaultLimit)
	if plan.Limit > opts.MaxLimit {
		plan.Limit = opts.MaxLimit
	}
	plan.Skip = (plan.Page - 1) * plan.Limit

	var details []string

	if c := strings.TrimSpace(p.Category); c != "" && !strings.EqualFold(c, "all") {
		if domain.ValidCategory(c) {
			plan.Category = c
		} else {
			details = append(details, `"category" must be one of [`+strings.Join(domain.Categories, ", ")+"]")
		}
	}

	plan.Search = strings.TrimSpace(p.Search)
	plan.Location = strings.TrimSpace(p.Location)

	var ok bool
	if plan.MinPrice, ok = price(p.MinPrice); !ok {
		details = append(details, `"minPrice" must be a number`)
	}
	if plan.MaxPrice, ok = price(p.MaxPrice); !ok {
		details = append(details, `"maxPrice" must be a number`)
	}

	plan.SortColumn = "created_at"
	if s := strings.TrimSpace(p.SortBy); s != "" {
		col, known := sortColumns[s]
		if known {
			plan.SortColumn = col
		} else {
			details = append(details, `"sortBy" is not a sortable field`)
		}
	}
	switch strings.ToLower(strings.TrimSpace(p.SortOrder)) {
	case "", "desc":
		plan.SortDesc = true
	case "asc":
		plan.SortDesc = false
	default:
		details = append(details, `"sortOrder" must be one of [asc, desc]`)
	}

	if opts.AnyStatus {
		plan.Status = ""
		if s := domain.ListingStatus(strings.TrimSpace(p.Status)); s != "" && !strings.EqualFold(string(s), "all") {
			if s.Valid() {
				plan.Status = s
			} else {
				details = append(details, `"status" must be one of [active, inactive]`)
			}
		}
	}

	if len(details) > 0 {
		return Plan{}, domain.Invalid(details...)
	}
	return plan, nil
}

func positiveInt(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func price(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, false
	}
	return &f, true
}

// Pagination is the page metadata returned alongside a result slice.
type Pagination struct {
	CurrentPage  int   `json:"currentPage"`
	TotalPages   int   `json:"totalPages"`
	TotalItems   int64 `json:"totalItems"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

func NewPagination(page, limit int, total int64) Pagination {
	p := Pagination{CurrentPage: page, TotalItems: total, ItemsPerPage: limit}
	if limit > 0 && total > 0 {
		p.TotalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	return p
}
