package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pawmart/internal/domain"
	"pawmart/internal/query"
)

const listingCols = `id, email, name, category, price, location, description, image, breed, age, gender,
    vaccinated, trained, status, views, created_at, updated_at`

const insertListingSQL = `
	INSERT INTO listings(` + listingCols + `)
	VALUES(:id,:email,:name,:category,:price,:location,:description,:image,:breed,:age,:gender,
	       :vaccinated,:trained,:status,:views,:created_at,:updated_at)`

// sortable guards ORDER BY against plans that did not come from query.Build.
var sortable = map[string]bool{"created_at": true, "updated_at": true, "price": true, "name": true, "views": true}

type ListingRepo struct{ db *sqlx.DB }

func NewListingRepo(db *sqlx.DB) *ListingRepo { return &ListingRepo{db: db} }

// Find returns one page of listings matching plan.
func (r *ListingRepo) Find(ctx context.Context, plan query.Plan) ([]domain.Listing, error) {
	where, args := listingWhere(plan)

	col := plan.SortColumn
	if !sortable[col] {
		col = "created_at"
	}
	dir := "ASC"
	if plan.SortDesc {
		dir = "DESC"
	}

	q := `
  SELECT ` + listingCols + `
  FROM listings
  WHERE ` + where + `
  ORDER BY ` + col + ` ` + dir + `, id ` + dir + `
  LIMIT ? OFFSET ?`
	args = append(args, plan.Limit, plan.Skip)

	out := []domain.Listing{}
	if err := r.db.SelectContext(ctx, &out, q, args...); err != nil {
		return nil, fmt.Errorf("find listings: %w", err)
	}
	return out, nil
}

// Count returns the number of listings matching plan's filter, ignoring paging.
func (r *ListingRepo) Count(ctx context.Context, plan query.Plan) (int64, error) {
	where, args := listingWhere(plan)
	var n int64
	if err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM listings WHERE `+where, args...); err != nil {
		return 0, fmt.Errorf("count listings: %w", err)
	}
	return n, nil
}

func listingWhere(plan query.Plan) (string, []any) {
	where := []string{"1=1"}
	args := []any{}
	if plan.Status != "" {
		where = append(where, "status = ?")
		args = append(args, string(plan.Status))
	}
	if plan.Category != "" {
		where = append(where, "category = ?")
		args = append(args, plan.Category)
	}
	if plan.Owner != "" {
		where = append(where, "fold(email) = fold(?)")
		args = append(args, plan.Owner)
	}
	if plan.Search != "" {
		pat := likePattern(plan.Search)
		cond := `fold(name) LIKE ? ESCAPE '\' OR fold(description) LIKE ? ESCAPE '\'`
		args = append(args, pat, pat)
		if plan.SearchCategory {
			cond += ` OR fold(category) LIKE ? ESCAPE '\'`
			args = append(args, pat)
		}
		where = append(where, "("+cond+")")
	}
	if plan.Location != "" {
		where = append(where, `fold(location) LIKE ? ESCAPE '\'`)
		args = append(args, likePattern(plan.Location))
	}
	if plan.MinPrice != nil {
		where = append(where, "price >= ?")
		args = append(args, *plan.MinPrice)
	}
	if plan.MaxPrice != nil {
		where = append(where, "price <= ?")
		args = append(args, *plan.MaxPrice)
	}
	return strings.Join(where, " AND "), args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern builds a case-insensitive substring pattern with wildcards in s escaped.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *ListingRepo) Get(ctx context.Context, id string) (*domain.Listing, error) {
	var l domain.Listing
	if err := r.db.GetContext(ctx, &l, `SELECT `+listingCols+` FROM listings WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &l, nil
}

// Create inserts l as a new listing owned by l.Email.
func (r *ListingRepo) Create(ctx context.Context, l *domain.Listing) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Status == "" {
		l.Status = domain.ListingActive
	}
	l.Email = strings.ToLower(l.Email)
	l.CreatedAt = now()
	l.UpdatedAt = ""
	if _, err := r.db.NamedExecContext(ctx, insertListingSQL, l); err != nil {
		return fmt.Errorf("create listing: %w", err)
	}
	return nil
}

// Update merges the non-nil fields of p into the listing and refreshes updated_at.
func (r *ListingRepo) Update(ctx context.Context, id string, p domain.ListingPatch) (*domain.Listing, error) {
	sets := []string{"updated_at = ?"}
	args := []any{now()}
	add := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	if p.Name != nil {
		add("name", *p.Name)
	}
	if p.Category != nil {
		add("category", *p.Category)
	}
	if p.Price != nil {
		add("price", *p.Price)
	}
	if p.Location != nil {
		add("location", *p.Location)
	}
	if p.Description != nil {
		add("description", *p.Description)
	}
	if p.Image != nil {
		add("image", *p.Image)
	}
	if p.Breed != nil {
		add("breed", *p.Breed)
	}
	if p.Age != nil {
		add("age", *p.Age)
	}
	if p.Gender != nil {
		add("gender", *p.Gender)
	}
	if p.Vaccinated != nil {
		add("vaccinated", *p.Vaccinated)
	}
	if p.Trained != nil {
		add("trained", *p.Trained)
	}
	if p.Status != nil {
		add("status", string(*p.Status))
	}
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, `UPDATE listings SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update listing: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *ListingRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM listings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete listing: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *ListingRepo) IncrementViews(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE listings SET views = views + 1 WHERE id = ?`, id)
	return err
}
