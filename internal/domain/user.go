package domain

type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleSeller, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID        string `db:"id" json:"id"`
	Email     string `db:"email" json:"email"`
	Name      string `db:"name" json:"name"`
	Hash      string `db:"password_hash" json:"-"`
	Role      Role   `db:"role" json:"role"`
	Phone     string `db:"phone" json:"phone,omitempty"`
	Address   string `db:"address" json:"address,omitempty"`
	Verified  bool   `db:"verified" json:"verified"`
	CreatedAt string `db:"created_at" json:"createdAt"`
	UpdatedAt string `db:"updated_at" json:"updatedAt,omitempty"`
}

// ProfileUpdate carries the user-editable profile fields; nil means unchanged.
type ProfileUpdate struct {
	Name    *string
	Phone   *string
	Address *string
}
