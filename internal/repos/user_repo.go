package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pawmart/internal/domain"
)

const userCols = `id,email,name,password_hash,role,phone,address,verified,created_at,updated_at`

type UserRepo struct{ DB *sqlx.DB }

func NewUserRepo(db *sqlx.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts u, filling in id and created_at. Duplicate emails yield domain.ErrDuplicateEmail.
func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.CreatedAt == "" {
		u.CreatedAt = now()
	}
	_, err := r.DB.NamedExecContext(ctx, `
		INSERT INTO users(`+userCols+`)
		VALUES(:id,:email,:name,:password_hash,:role,:phone,:address,:verified,:created_at,:updated_at)
	`, u)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateEmail
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepo) ByEmail(ctx context.Context, email string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE LOWER(email)=LOWER(?)`, strings.TrimSpace(email))
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *UserRepo) ByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := r.DB.GetContext(ctx, &u, `SELECT `+userCols+` FROM users WHERE id=?`, id)
	if err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

// UpdateProfile merges the non-nil fields of p and refreshes updated_at.
func (r *UserRepo) UpdateProfile(ctx context.Context, id string, p domain.ProfileUpdate) (*domain.User, error) {
	sets := []string{"updated_at=?"}
	args := []any{now()}
	if p.Name != nil {
		sets = append(sets, "name=?")
		args = append(args, *p.Name)
	}
	if p.Phone != nil {
		sets = append(sets, "phone=?")
		args = append(args, *p.Phone)
	}
	if p.Address != nil {
		sets = append(sets, "address=?")
		args = append(args, *p.Address)
	}
	args = append(args, id)
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.ByID(ctx, id)
}

func (r *UserRepo) UpdateRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	res, err := r.DB.ExecContext(ctx, `UPDATE users SET role=?, updated_at=? WHERE id=?`, string(role), now(), id)
	if err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, domain.ErrNotFound
	}
	return r.ByID(ctx, id)
}

// List returns users newest first.
func (r *UserRepo) List(ctx context.Context, limit, offset int) ([]domain.User, error) {
	out := []domain.User{}
	err := r.DB.SelectContext(ctx, &out, `
		SELECT `+userCols+` FROM users
		ORDER BY created_at DESC, id DESC
		LIMIT ? OFFSET ?
	`, limit, offset)
	return out, err
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.DB.GetContext(ctx, &n, `SELECT COUNT(*) FROM users`)
	return n, err
}
