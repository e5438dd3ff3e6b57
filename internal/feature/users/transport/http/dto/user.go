// Package dto defines data transfer objects for the users feature's HTTP transport layer.
package dto

import (
	"time"

	"taskmanager/internal/feature/users/domain/entity"
)

// RegisterReq represents the request body for POST /users.
// Field rules beyond presence are enforced by the usecase so clients get readable messages.
type RegisterReq struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Age      int    `json:"age"`
}

// LoginReq represents the request body for POST /users/login.
type LoginReq struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdatableUserFields lists the keys PATCH /users/me accepts.
var UpdatableUserFields = []string{"name", "email", "password", "age"}

// UpdateUserReq is the body of PATCH /users/me. Absent keys stay nil.
type UpdateUserReq struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Age      *int    `json:"age"`
}

func (r UpdateUserReq) ToPatch() entity.UserPatch {
	return entity.UserPatch{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Age:      r.Age,
	}
}

// UserResponse is the public projection of a user. It never carries the password hash or avatar bytes.
type UserResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Age       int       `json:"age"`
	HasAvatar bool      `json:"has_avatar"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromUser(u *entity.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Age:       u.Age,
		HasAvatar: u.HasAvatar,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// AuthResponse is returned by registration and login.
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}
