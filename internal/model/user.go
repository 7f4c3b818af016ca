// Package model defines domain entities for the application.
package model

import "time"

// User represents a user record. The ID is assigned by the database on
// insert and the record is immutable after creation.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// CreateUserInput carries the fields a client supplies when creating a user.
type CreateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
