package models

import "time"

type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserSimple is the minimal user projection embedded in booking and item responses.
type UserSimple struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

func (u *User) Simple() UserSimple {
	return UserSimple{ID: u.ID, Name: u.Name}
}

// UserPatch carries a partial update. Nil fields are left untouched.
type UserPatch struct {
	Name  *string `json:"name"`
	Email *string `json:"email"`
}
