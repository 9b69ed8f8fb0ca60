package crm

import "time"

// ContactLog records a single touchpoint with a client.
type ContactLog struct {
	ID          string    `gorm:"primaryKey" json:"id"`
	ClientID    string    `gorm:"index" json:"client_id"`
	Method      *string   `json:"method"`
	Note        *string   `json:"note"`
	ContactedAt time.Time `json:"contacted_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// Reminder is a follow-up scheduled against a client.
type Reminder struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	ClientID  string    `gorm:"index" json:"client_id"`
	Message   string    `json:"message"`
	DueAt     time.Time `gorm:"index" json:"due_at"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}
