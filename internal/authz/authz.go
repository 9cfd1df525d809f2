// Package authz decides whether a verified identity may perform an action on a resource.
package authz

import (
	"errors"
	"strings"

	"pawmart/internal/auth"
	"pawmart/internal/domain"
)

var ErrAccessDenied = errors.New("access denied")

type Action int

const (
	// ReadOwn covers reading a profile, a user's listings or a user's orders.
	ReadOwn Action = iota
	CreateListing
	// ModifyListing covers update and delete.
	ModifyListing
	Admin
)

func (a Action) String() string {
	switch a {
	case ReadOwn:
		return "read_own"
	case CreateListing:
		return "create_listing"
	case ModifyListing:
		return "modify_listing"
	case Admin:
		return "admin"
	}
	return "unknown"
}

// Check applies the rule for action. ownerEmail is the owning email of the target
// resource and is ignored for actions that are not resource-scoped.
func Check(id auth.Identity, action Action, ownerEmail string) error {
	isAdmin := id.Role == domain.RoleAdmin
	switch action {
	case ReadOwn, ModifyListing:
		if isAdmin || sameEmail(id.Email, ownerEmail) {
			return nil
		}
	case CreateListing:
		if isAdmin || id.Role == domain.RoleSeller {
			return nil
		}
	case Admin:
		if isAdmin {
			return nil
		}
	}
	return ErrAccessDenied
}

// CheckOrderStatus gates order status changes: the seller of the order and admins
// may make any allowed transition, the buyer may only cancel.
func CheckOrderStatus(id auth.Identity, o *domain.Order, to domain.OrderStatus) error {
	switch {
	case id.Role == domain.RoleAdmin:
		return nil
	case sameEmail(id.Email, o.SellerEmail):
		return nil
	case sameEmail(id.Email, o.BuyerEmail) && to == domain.OrderCancelled:
		return nil
	}
	return ErrAccessDenied
}

func sameEmail(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	return a != "" && strings.EqualFold(a, b)
}
