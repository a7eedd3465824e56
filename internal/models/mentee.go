package models

import "time"

// Stage is one of nine ordered progression bands a mentee moves through.
type Stage string

const (
	StageE1 Stage = "E1"
	StageE2 Stage = "E2"
	StageE3 Stage = "E3"
	StageE4 Stage = "E4"
	StageE5 Stage = "E5"
	StageE6 Stage = "E6"
	StageE7 Stage = "E7"
	StageE8 Stage = "E8"
	StageE9 Stage = "E9"
)

// StageChoices maps each band to its display label, in order.
var StageChoices = []struct {
	Code  Stage
	Label string
}{
	{StageE1, "10-100k"},
	{StageE2, "100k-200k"},
	{StageE3, "200k-300k"},
	{StageE4, "300k-400k"},
	{StageE5, "400k-500k"},
	{StageE6, "500k-600k"},
	{StageE7, "600k-700k"},
	{StageE8, "700k-800k"},
	{StageE9, "800k-1M"},
}

// IsValid reports whether s is one of the nine bands.
func (s Stage) IsValid() bool {
	for _, c := range StageChoices {
		if c.Code == s {
			return true
		}
	}
	return false
}

// Mentee represents one mentee enrolled by a mentor. Mentees have no user
// account: the capability token is their only credential, assigned exactly
// once at first persistence and never rotated.
type Mentee struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Stage       Stage     `json:"stage"`
	NavigatorID *int64    `json:"navigator_id,omitempty"`
	MentorID    int64     `json:"mentor_id"`
	Token       string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
}

// Navigator is an optional guide a mentor can attach to a mentee.
type Navigator struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	MentorID  int64     `json:"mentor_id"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterMenteeRequest is the payload for enrolling a new mentee
type RegisterMenteeRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Stage       string `json:"stage" binding:"required,oneof=E1 E2 E3 E4 E5 E6 E7 E8 E9"`
	NavigatorID *int64 `json:"navigator_id"`
}

// CreateNavigatorRequest is the payload for adding a navigator
type CreateNavigatorRequest struct {
	Name string `json:"name" binding:"required,max=255"`
}

// StageCount is one bar of the stage distribution shown to mentors
type StageCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// MenteeListResponse is returned from the mentee listing endpoint
type MenteeListResponse struct {
	Mentees    []*Mentee    `json:"mentees"`
	Navigators []*Navigator `json:"navigators"`
	Stages     []StageCount `json:"stages"`
}

// RegisterMenteeResponse is returned after enrolling a mentee. The token is
// surfaced exactly once here so the mentor can hand it to the mentee.
type RegisterMenteeResponse struct {
	Mentee *Mentee `json:"mentee"`
	Token  string  `json:"token"`
}
