package domain

import "time"

type LogEntry struct {
	ID        string         `db:"id" json:"id"`
	Level     string         `db:"level" json:"level"`
	Message   string         `db:"message" json:"message"`
	Context   map[string]any `db:"context" json:"context,omitempty"`
	RequestID string         `db:"request_id" json:"request_id,omitempty"`
	Timestamp time.Time      `db:"created_at" json:"timestamp"`
}

type App struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	APIKey    string    `db:"api_key" json:"api_key,omitempty"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
