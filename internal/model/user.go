package model

import "time"

// User is the full persisted record. PasswordHash never leaves the
// credential store; handlers only see one of the projections below.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// PublicUser is what API responses carry.
type PublicUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// SafeUser is the identity embedded in a session token.
type SafeUser struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// AuthRecord is the login-time view that includes the digest.
type AuthRecord struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
}

func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (u User) Safe() SafeUser {
	return SafeUser{ID: u.ID, Username: u.Username, Email: u.Email}
}

func (u User) Auth() AuthRecord {
	return AuthRecord{ID: u.ID, Username: u.Username, Email: u.Email, PasswordHash: u.PasswordHash}
}

func (p PublicUser) Safe() SafeUser {
	return SafeUser(p)
}

// NewUser is the insert payload handed to a repository.
type NewUser struct {
	ID           string
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}
