package domain

import "time"

// HealthCheckResult is one historical probe of a configured URL.
// Appended, never mutated.
type HealthCheckResult struct {
	ID         string    `db:"id" json:"id"`
	URL        string    `db:"url" json:"url"`
	Healthy    bool      `db:"healthy" json:"healthy"`
	StatusCode int       `db:"status_code" json:"status_code"`
	DurationMs int64     `db:"duration_ms" json:"duration_ms"`
	CheckedAt  time.Time `db:"checked_at" json:"checked_at"`
}
