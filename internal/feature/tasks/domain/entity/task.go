// Package entity defines the domain entities for the tasks feature.
package entity

import "time"

// Task is a to-do item owned by exactly one user.
type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TaskPatch carries the whitelisted fields of an update. Nil fields are left unchanged.
type TaskPatch struct {
	Description *string
	Completed   *bool
}

func (p TaskPatch) IsEmpty() bool {
	return p.Description == nil && p.Completed == nil
}
