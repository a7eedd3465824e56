package models

import "time"

// SlotDuration is the fixed length of one appointment slot.
const SlotDuration = 50 * time.Minute

// AppointmentAvailability is a slot a mentor publishes for booking.
type AppointmentAvailability struct {
	ID              int64     `json:"id"`
	MentorID        int64     `json:"mentor_id"`
	AppointmentDate time.Time `json:"appointment_date"`
	Scheduled       bool      `json:"scheduled"`
}

// EndTime returns when the slot's appointment finishes.
func (a *AppointmentAvailability) EndTime() time.Time {
	return a.AppointmentDate.Add(SlotDuration)
}

// MeetingTopic is a short code for what a meeting is about.
type MeetingTopic string

// TopicChoices maps each meeting topic code to its display label.
var TopicChoices = []struct {
	Code  MeetingTopic
	Label string
}{
	{"D", "Django"},
	{"F", "Flask"},
	{"P", "Basic Python"},
	{"A", "RESTful APIs"},
	{"B", "Databases"},
	{"ORM", "Object-Relational Mapping"},
	{"SQL", "SQL"},
	{"ML", "Machine Learning"},
	{"AI", "Artificial Intelligence"},
	{"TDD", "Test-Driven Development"},
	{"CS", "Data Structures & Algorithms"},
	{"FP", "Functional Programming"},
	{"CI/CD", "Continuous Integration / Continuous Deployment"},
	{"U", "Usability"},
	{"S", "Security"},
	{"AIO", "Async Programming / AsyncIO"},
	{"C", "Cloud Computing"},
	{"R", "RPA (Robotic Process Automation)"},
	{"GIT", "Version Control (Git)"},
	{"T", "Testing"},
	{"DHT", "Technical Skills Development"},
}

// IsValid reports whether t is a known topic code.
func (t MeetingTopic) IsValid() bool {
	for _, c := range TopicChoices {
		if c.Code == t {
			return true
		}
	}
	return false
}

// Meeting is a booked slot between a mentee and their mentor.
type Meeting struct {
	ID             int64        `json:"id"`
	AvailabilityID int64        `json:"availability_id"`
	MenteeID       int64        `json:"mentee_id"`
	Topic          MeetingTopic `json:"topic"`
	Description    string       `json:"description"`
}

// CreateSlotRequest is the payload for publishing an availability slot
type CreateSlotRequest struct {
	Date string `json:"date" binding:"required"` // format: 2006-01-02T15:04
}

// BookMeetingRequest is the payload for a mentee booking a slot
type BookMeetingRequest struct {
	SlotID      int64  `json:"slot_id" binding:"required"`
	Topic       string `json:"topic" binding:"required,max=5"`
	Description string `json:"description" binding:"required"`
}

// AvailableDate is one bookable calendar day shown to a mentee
type AvailableDate struct {
	SlotID  int64  `json:"slot_id"`
	Month   string `json:"month"`
	Weekday string `json:"weekday"`
	Date    string `json:"date"` // format: 02/01/2006
}
