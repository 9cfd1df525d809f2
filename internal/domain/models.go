package domain

import "time"

// TimeLayout is fixed-width so stored timestamps sort lexically in time order.
const TimeLayout = "2006-01-02T15:04:05.000Z"

func FormatTime(t time.Time) string { return t.UTC().Format(TimeLayout) }

// Categories is the closed set of listing categories.
var Categories = []string{"Pets", "Pet Food", "Accessories", "Pet Care Products"}

func ValidCategory(s string) bool {
	for _, c := range Categories {
		if c == s {
			return true
		}
	}
	return false
}

type ListingStatus string

const (
	ListingActive   ListingStatus = "active"
	ListingInactive ListingStatus = "inactive"
)

func (s ListingStatus) Valid() bool { return s == ListingActive || s == ListingInactive }

type Listing struct {
	ID          string        `db:"id" json:"id"`
	Email       string        `db:"email" json:"email"`
	Name        string        `db:"name" json:"name"`
	Category    string        `db:"category" json:"category"`
	Price       float64       `db:"price" json:"price"`
	Location    string        `db:"location" json:"location"`
	Description string        `db:"description" json:"description"`
	Image       string        `db:"image" json:"image"`
	Breed       string        `db:"breed" json:"breed,omitempty"`
	Age         string        `db:"age" json:"age,omitempty"`
	Gender      string        `db:"gender" json:"gender,omitempty"`
	Vaccinated  *bool         `db:"vaccinated" json:"vaccinated,omitempty"`
	Trained     *bool         `db:"trained" json:"trained,omitempty"`
	Status      ListingStatus `db:"status" json:"status"`
	Views       int64         `db:"views" json:"views"`
	CreatedAt   string        `db:"created_at" json:"createdAt"`
	UpdatedAt   string        `db:"updated_at" json:"updatedAt,omitempty"`
}

// ListingPatch is a partial update; nil fields are left untouched.
type ListingPatch struct {
	Name        *string
	Category    *string
	Price       *float64
	Location    *string
	Description *string
	Image       *string
	Breed       *string
	Age         *string
	Gender      *string
	Vaccinated  *bool
	Trained     *bool
	Status      *ListingStatus
}

// ListingDetail is a listing joined with its reviews.
type ListingDetail struct {
	Listing
	Reviews       []Review `json:"reviews"`
	ReviewCount   int      `json:"reviewCount"`
	AverageRating float64  `json:"averageRating"`
}

type Review struct {
	ID         string `db:"id" json:"id"`
	ListingID  string `db:"listing_id" json:"listingId"`
	BuyerEmail string `db:"buyer_email" json:"buyerEmail"`
	Rating     int    `db:"rating" json:"rating"`
	Comment    string `db:"comment" json:"comment"`
	CreatedAt  string `db:"created_at" json:"createdAt"`
}
