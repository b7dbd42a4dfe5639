package sessions

import "time"

// Session is a persistent refresh session for an admin. Role is captured at
// login so a refresh can mint an access token without re-reading the admin
// document.
type Session struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	RefreshToken string    `bson:"refreshToken" json:"refreshToken"`
	Sub          string    `bson:"sub" json:"sub"`
	Role         string    `bson:"role" json:"role"`
	ExpiresAt    time.Time `bson:"expiresAt" json:"expiresAt"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}
