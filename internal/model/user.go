package model

import "time"

// User mirrors the 'users' table. PasswordHash never leaves the process;
// responses carry the Public projection instead.
type User struct {
	UID          uint64
	Username     string
	Email        string
	PasswordHash string
	Balance      float64
	Phone        string
	Role         string
	CreatedAt    time.Time
}

// PublicUser is the safe projection returned to clients.
type PublicUser struct {
	UID       uint64    `json:"uid"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Role      string    `json:"role"`
	Balance   float64   `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// Public returns the response-safe view of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		UID:       u.UID,
		Username:  u.Username,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      u.Role,
		Balance:   u.Balance,
		CreatedAt: u.CreatedAt,
	}
}

// RoleCustomer is the only role this service ever assigns. It is set
// server-side at registration; client-supplied values are validated
// against it but never stored.
const RoleCustomer = "Customer"
