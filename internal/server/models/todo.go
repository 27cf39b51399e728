package models

import "time"

type Todo struct {
	ID        string    `json:"_id"`
	Content   string    `json:"content"`
	Completed bool      `json:"completed"`
	UserID    string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TodoPatch carries the fields of a partial update; nil means "unchanged".
type TodoPatch struct {
	Content   *string
	Completed *bool
}

func (p TodoPatch) IsEmpty() bool {
	return p.Content == nil && p.Completed == nil
}
