package models

import "time"

// Upload is a video a mentor attached to a mentee's record. The file itself
// lives in object storage; only the URL is persisted. Like tasks, uploads
// are not cascade-deleted with their mentee.
type Upload struct {
	ID        int64     `json:"id"`
	MenteeID  int64     `json:"mentee_id"`
	VideoURL  string    `json:"video_url"`
	CreatedAt time.Time `json:"created_at"`
}
