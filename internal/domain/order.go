package domain

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderConfirmed OrderStatus = "confirmed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var validNext = map[OrderStatus]map[OrderStatus]bool{
	OrderPending:   {OrderConfirmed: true, OrderCancelled: true},
	OrderConfirmed: {OrderShipped: true, OrderCancelled: true},
	OrderShipped:   {OrderDelivered: true},
	OrderDelivered: {},
	OrderCancelled: {},
}

func (s OrderStatus) Valid() bool {
	_, ok := validNext[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
// The progression is forward-only.
func CanTransition(from, to OrderStatus) bool {
	return validNext[from][to]
}

type Order struct {
	ID          string      `db:"id" json:"id"`
	BuyerEmail  string      `db:"buyer_email" json:"email"`
	BuyerName   string      `db:"buyer_name" json:"buyerName"`
	ListingID   string      `db:"listing_id" json:"listingId"`
	SellerEmail string      `db:"seller_email" json:"sellerEmail"`
	ProductName string      `db:"product_name" json:"productName"`
	Price       float64     `db:"price" json:"price"`
	Quantity    int         `db:"quantity" json:"quantity"`
	Total       float64     `db:"total" json:"total"`
	Address     string      `db:"address" json:"address"`
	Phone       string      `db:"phone" json:"phone"`
	Status      OrderStatus `db:"status" json:"status"`
	CreatedAt   string      `db:"created_at" json:"createdAt"`
	UpdatedAt   string      `db:"updated_at" json:"updatedAt,omitempty"`
}
