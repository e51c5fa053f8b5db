package models

import "time"

// Reminder is a dated notification entry (bill due, goal check-in, etc.)
type Reminder struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID uint   `gorm:"index;not null" json:"userId"`
	Title  string `gorm:"size:100;not null" json:"title"`

	Date time.Time `gorm:"index" json:"date"`

	CalendarEventID string `gorm:"size:64" json:"calendarEventId,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Reminder) TableName() string {
	return "reminders"
}

// ReminderResponse is a Reminder enriched with temporal status fields
type ReminderResponse struct {
	Reminder
	IsOverdue   bool `json:"isOverdue"`
	IsToday     bool `json:"isToday"`
	DaysUntil   int  `json:"daysUntil"`
	DaysOverdue int  `json:"daysOverdue"`
}

// Enrich computes the temporal status fields as of now
func (r Reminder) Enrich(now time.Time) ReminderResponse {
	resp := ReminderResponse{Reminder: r}

	y1, m1, d1 := r.Date.Date()
	y2, m2, d2 := now.Date()
	resp.IsToday = y1 == y2 && m1 == m2 && d1 == d2

	days := int(r.Date.Sub(now).Hours() / 24)
	if r.Date.Before(now) && !resp.IsToday {
		resp.IsOverdue = true
		resp.DaysOverdue = -days
	} else {
		resp.DaysUntil = days
	}
	return resp
}

// ReminderCount groups a user's reminders by temporal status
type ReminderCount struct {
	Total    int `json:"total"`
	Today    int `json:"today"`
	Upcoming int `json:"upcoming"`
	Overdue  int `json:"overdue"`
}
