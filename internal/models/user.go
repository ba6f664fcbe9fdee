package models

import "time"

// User represents a directory record stored in the users table.
type User struct {
	ID           int64     `db:"id" json:"id"`
	Name         string    `db:"name" json:"name"`
	Username     *string   `db:"username" json:"username"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Role         UserRole  `db:"role" json:"role"`
	Phone        *string   `db:"phone" json:"phone"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// UserFilter captures filtering criteria for listing users.
type UserFilter struct {
	Search string
	Roles  []UserRole
	Page   int
	Limit  int
}

// UserPage is the wire shape of GET /users.
type UserPage struct {
	Page     int    `json:"page"`
	Total    int    `json:"total"`
	LastPage int    `json:"lastPage"`
	Message  string `json:"message,omitempty"`
	Users    []User `json:"getAllUsers"`
}

// LastPage returns ceil(total/limit), never less than 1.
func LastPage(total, limit int) int {
	if limit <= 0 || total <= 0 {
		return 1
	}
	return (total + limit - 1) / limit
}
