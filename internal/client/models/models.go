// Package models holds the client-side view of the API payloads.
package models

import (
	"fmt"
	"time"
)

type User struct {
	ID         string    `json:"_id"`
	UserName   string    `json:"username"`
	Email      string    `json:"email"`
	IsVerified bool      `json:"isVerified"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type Todo struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// String renders a todo as one list line, e.g. "[x] Buy milk (id)".
func (t Todo) String() string {
	mark := " "
	if t.Completed {
		mark = "x"
	}
	return fmt.Sprintf("[%s] %s (%s)", mark, t.Content, t.ID)
}

// TodoUpdate is a partial update; nil fields are not sent.
type TodoUpdate struct {
	Content   *string `json:"content,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}
