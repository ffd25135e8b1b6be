package auth

import "time"

type User struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`

	// PasswordHash is a bcrypt hash; it never leaves the repo layer in
	// HTTP responses.
	PasswordHash string `json:"passwordHash,omitempty"`
}

// Public strips credentials for API responses.
func (u User) Public() User {
	u.PasswordHash = ""
	return u
}

type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	TokenHash string    `json:"tokenHash"`
	CreatedAt time.Time `json:"createdAt"`
	LastSeen  time.Time `json:"lastSeen"`
	ExpiresAt time.Time `json:"expiresAt"`
}
