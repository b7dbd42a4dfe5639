package admins

import "time"

// Admin is a back-office account. The identity provider owns credentials;
// this document only carries the profile and the role string the panel
// checks against.
type Admin struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Sub       string    `bson:"sub" json:"sub"` // identity-provider subject
	Email     string    `bson:"email" json:"email"`
	Name      string    `bson:"name" json:"name"`
	Role      string    `bson:"role" json:"role"`
	Perms     []string  `bson:"perms,omitempty" json:"perms,omitempty"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}

// Role strings as stored on admin documents. "all" predates the master role
// and is kept for existing accounts.
const (
	RoleMaster = "master"
	RoleAdmin  = "all"
	RoleEditor = "editor"
	RoleViewer = "viewer"
)

var roleRank = map[string]int{
	RoleViewer: 0,
	RoleEditor: 1,
	RoleAdmin:  2,
	RoleMaster: 3,
}

// HasAtLeast reports whether role is ranked at or above min. Unknown role
// strings rank below viewer.
func HasAtLeast(role, min string) bool {
	r, ok := roleRank[role]
	if !ok {
		return false
	}
	m, ok := roleRank[min]
	if !ok {
		return false
	}
	return r >= m
}

// CanAccessPanel reports whether the role may enter the admin panel at all.
func CanAccessPanel(role string) bool {
	return HasAtLeast(role, RoleEditor)
}
