package model

import "time"

// Role is a coarse-grained permission label attached to a user.
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// Address is the optional postal address of a user.
type Address struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// User represents a user record in the directory.
type User struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	Name         string    `json:"name"`
	Role         Role      `json:"role"`
	Age          *int      `json:"age,omitempty"`
	Address      *Address  `json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// SafeUser is the projection of a User that can leave the process.
type SafeUser struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// Safe strips the password hash and optional profile fields.
func (u *User) Safe() *SafeUser {
	return &SafeUser{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Clone returns a deep copy so stored records are never aliased by callers.
func (u *User) Clone() *User {
	c := *u
	if u.Age != nil {
		age := *u.Age
		c.Age = &age
	}
	if u.Address != nil {
		addr := *u.Address
		c.Address = &addr
	}
	return &c
}
