package services

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"pawmart/internal/auth"
	"pawmart/internal/authz"
	"pawmart/internal/domain"
	"pawmart/internal/repos"
	"pawmart/internal/validate"
)

type OrderService struct {
	Orders   *repos.OrderRepo
	Listings *repos.ListingRepo
	Mail     Mailer
}

func NewOrderService(orders *repos.OrderRepo, listings *repos.ListingRepo, mail Mailer) *OrderService {
	return &OrderService{Orders: orders, Listings: listings, Mail: mailerOrNoop(mail)}
}

// OrderInput is the client-supplied part of an order. Product name, price and seller
// always come from the stored listing.
type OrderInput struct {
	ListingID string `json:"listingId"`
	BuyerName string `json:"buyerName"`
	Quantity  int    `json:"quantity"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
}

// Total is price × quantity rounded to cents.
func Total(price float64, qty int) float64 {
	t, _ := decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(qty))).Round(2).Float64()
	return t
}

// Place creates a pending order for the caller against an active listing.
func (s *OrderService) Place(ctx context.Context, id auth.Identity, in OrderInput) (*domain.Order, error) {
	var details []string
	lid, ok := validate.ID(in.ListingID)
	if !ok {
		details = append(details, `"listingId" is required`)
	}
	name, ok := validate.Text(in.BuyerName, 2, 50)
	if !ok {
		details = append(details, `"buyerName" length must be between 2 and 50 characters`)
	}
	if in.Quantity == 0 {
		in.Quantity = 1
	}
	if !validate.Quantity(in.Quantity) {
		details = append(details, `"quantity" must be between 1 and 1000`)
	}
	addr, ok := validate.Text(in.Address, 10, 200)
	if !ok {
		details = append(details, `"address" length must be between 10 and 200 characters`)
	}
	phone, ok := validate.Phone(in.Phone)
	if !ok {
		details = append(details, `"phone" must be 10 to 15 digits`)
	}
	if len(details) > 0 {
		return nil, domain.Invalid(details...)
	}

	l, err := s.Listings.Get(ctx, lid)
	if err != nil {
		return nil, err
	}
	if l.Status != domain.ListingActive {
		return nil, domain.ErrInactiveListing
	}

	o := &domain.Order{
		BuyerEmail:  id.Email,
		BuyerName:   name,
		ListingID:   l.ID,
		SellerEmail: l.Email,
		ProductName: l.Name,
		Price:       l.Price,
		Quantity:    in.Quantity,
		Total:       Total(l.Price, in.Quantity),
		Address:     addr,
		Phone:       phone,
	}
	if err := s.Orders.Create(ctx, o); err != nil {
		return nil, err
	}
	s.Mail.OrderPlaced(o)
	return o, nil
}

// ListForBuyer returns the orders placed by email, newest first.
func (s *OrderService) ListForBuyer(ctx context.Context, id auth.Identity, email string) ([]domain.Order, error) {
	if err := authz.Check(id, authz.ReadOwn, email); err != nil {
		return nil, err
	}
	return s.Orders.ListByBuyer(ctx, strings.TrimSpace(email))
}

// UpdateStatus moves an order along its lifecycle.
func (s *OrderService) UpdateStatus(ctx context.Context, id auth.Identity, orderID, status string) (*domain.Order, error) {
	to := domain.OrderStatus(strings.TrimSpace(status))
	if !to.Valid() {
		return nil, domain.Invalid(`"status" must be one of [pending, confirmed, shipped, delivered, cancelled]`)
	}
	oid, ok := validate.ID(orderID)
	if !ok {
		return nil, domain.ErrNotFound
	}
	o, err := s.Orders.Get(ctx, oid)
	if err != nil {
		return nil, err
	}
	if err := authz.CheckOrderStatus(id, o, to); err != nil {
		return nil, err
	}
	if !domain.CanTransition(o.Status, to) {
		return nil, domain.ErrInvalidTransition
	}
	updated, err := s.Orders.UpdateStatus(ctx, o.ID, o.Status, to)
	if err != nil {
		return nil, err
	}
	s.Mail.OrderStatusChanged(updated)
	return updated, nil
}
