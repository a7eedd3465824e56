package models

import "time"

// Task belongs to exactly one mentee. Authorization never consults the task
// directly: it always goes through the task's mentee to its owning mentor.
// Tasks are not cascade-deleted when their mentee is deleted.
type Task struct {
	ID        int64     `json:"id"`
	MenteeID  int64     `json:"mentee_id"`
	Task      string    `json:"task"`
	Done      bool      `json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// MenteeMentorID is the owning mentor of the task's mentee, resolved by
	// join at read time for the two-hop ownership check.
	MenteeMentorID int64 `json:"-"`
}

// CreateTaskRequest is the payload for assigning a task to a mentee
type CreateTaskRequest struct {
	Task string `json:"task" binding:"required,max=255"`
}

// MenteeTasksResponse is the mentee-facing view of their tasks and videos
type MenteeTasksResponse struct {
	Mentee *Mentee   `json:"mentee"`
	Tasks  []*Task   `json:"tasks"`
	Videos []*Upload `json:"videos"`
}
