package domain

import "time"

// User is a profile keyed by the identity provider's subject. The delegated
// Google credential lives in the same row but is never part of this struct.
type User struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	PhotoURL    string     `json:"photoURL,omitempty"`
	IsVerified  bool       `json:"isVerified"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	LastLoginAt *time.Time `json:"lastLogin,omitempty"`
}

// Profile is the client-facing view of a user.
type Profile struct {
	User
	IsGoogleConnected bool `json:"isGoogleConnected"`
}

// ProfileUpdate carries the optional fields of a profile edit. Empty values
// leave the stored field untouched.
type ProfileUpdate struct {
	Name  string
	Email string
}

// IsEmpty reports whether the update would change nothing.
func (u ProfileUpdate) IsEmpty() bool {
	return u.Name == "" && u.Email == ""
}
