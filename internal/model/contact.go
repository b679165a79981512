package model

import "time"

// StatusNew is the status every contact message starts with
const StatusNew = "new"

// ContactMessage represents a contact form submission
type ContactMessage struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Email     string    `json:"email" bson:"email"`
	Message   string    `json:"message" bson:"message"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
	Status    string    `json:"status" bson:"status"` // new, read, ...
}

// Stats holds the aggregate numbers shown on the portfolio page
type Stats struct {
	TotalContacts     int64 `json:"total_contacts"`
	NewContacts       int64 `json:"new_contacts"`
	ProjectsCompleted int   `json:"projects_completed"`
	YearsExperience   int   `json:"years_experience"`
	HappyClients      int   `json:"happy_clients"`
}
