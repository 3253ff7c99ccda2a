package protocol

import (
	"time"

	"github.com/Egor213/LogVault/internal/domain"
)

// AppendInput is the body of POST /log. Timestamp is optional; the
// store assigns write time when it is zero.
type AppendInput struct {
	Level     string         `json:"level"`
	Message   string         `json:"message"`
	Context   map[string]any `json:"context,omitempty"`
	RequestID string         `json:"request_id,omitempty"`
	Timestamp time.Time      `json:"timestamp,omitempty"`
}

type AppendBatchInput struct {
	Logs []AppendInput `json:"logs"`
}

// QueryInput filters are optional and conjunctive. Since is inclusive,
// Until is exclusive.
type QueryInput struct {
	Level     string    `json:"level,omitempty"`
	Since     time.Time `json:"since,omitempty"`
	Until     time.Time `json:"until,omitempty"`
	RequestID string    `json:"request_id,omitempty"`
	Limit     int       `json:"limit,omitempty"`
	Offset    int       `json:"offset,omitempty"`
}

// IncrementInput carries either a single level (count 1) or a batch of
// counts. A non-empty Counts slice wins over Level.
type IncrementInput struct {
	Level  string              `json:"level,omitempty"`
	Counts []domain.LevelCount `json:"counts,omitempty"`
}

type RangeInput struct {
	Days int `json:"days"`
}

type PruneInput struct {
	Before time.Time `json:"before"`
}

type PruneResult struct {
	Deleted int64 `json:"deleted"`
}

type SetURLsInput struct {
	URLs []string `json:"urls"`
}

type URLList struct {
	URLs []string `json:"urls"`
}

type RecordResultInput struct {
	Result domain.HealthCheckResult `json:"result"`
}

type HistoryInput struct {
	Since time.Time `json:"since,omitempty"`
	Until time.Time `json:"until,omitempty"`
	Limit int       `json:"limit,omitempty"`
}
