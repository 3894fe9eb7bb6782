package auth

import "time"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is the domain entity.
type User struct {
	ID        int64
	Email     string
	Username  string
	FirstName string
	LastName  string
	Password  string
	Role      string
	CreatedAt time.Time
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Profile is the public representation of a user as seen by a viewer.
type Profile struct {
	Email        string `json:"email"`
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

func (u *User) Profile(subscribed bool) Profile {
	return Profile{
		Email:        u.Email,
		ID:           u.ID,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}
