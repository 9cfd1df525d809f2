package repos

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"pawmart/internal/domain"
)

const orderCols = `id, buyer_email, buyer_name, listing_id, seller_email, product_name, price, quantity, total,
    address, phone, status, created_at, updated_at`

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// Create inserts a new order in pending status.
func (r *OrderRepo) Create(ctx context.Context, o *domain.Order) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	o.BuyerEmail = strings.ToLower(o.BuyerEmail)
	o.SellerEmail = strings.ToLower(o.SellerEmail)
	o.Status = domain.OrderPending
	o.CreatedAt = now()
	o.UpdatedAt = ""
	_, err := r.db.NamedExecContext(ctx, `
	  INSERT INTO orders(`+orderCols+`)
	  VALUES(:id,:buyer_email,:buyer_name,:listing_id,:seller_email,:product_name,:price,:quantity,:total,
	         :address,:phone,:status,:created_at,:updated_at)
	`, o)
	if err != nil {
		return fmt.Errorf("create order: %w", err)
	}
	return nil
}

func (r *OrderRepo) Get(ctx context.Context, id string) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.GetContext(ctx, &o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// ListByBuyer returns a buyer's orders, newest first.
func (r *OrderRepo) ListByBuyer(ctx context.Context, email string) ([]domain.Order, error) {
	out := []domain.Order{}
	err := r.db.SelectContext(ctx, &out, `
		SELECT `+orderCols+`
		FROM orders
		WHERE LOWER(buyer_email) = LOWER(?)
		ORDER BY created_at DESC, id DESC
	`, email)
	return out, err
}

// UpdateStatus moves an order from one status to another. The write only applies
// while the stored status still equals from, so concurrent updates cannot skip states.
func (r *OrderRepo) UpdateStatus(ctx context.Context, id string, from, to domain.OrderStatus) (*domain.Order, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ?, updated_at = ? WHERE id = ? AND status = ?`,
		string(to), now(), id, string(from))
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.Get(ctx, id); err != nil {
			return nil, err
		}
		return nil, domain.ErrInvalidTransition
	}
	return r.Get(ctx, id)
}
