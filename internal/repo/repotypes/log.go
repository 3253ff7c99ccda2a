package repotypes

import (
	"time"
)

// EntryFilter narrows a log query. Zero values mean "no filter".
// Since is inclusive, Until is exclusive.
type EntryFilter struct {
	Level     string
	Since     time.Time
	Until     time.Time
	RequestID string
	Limit     int
	Offset    int
}

type HistoryFilter struct {
	Since time.Time
	Until time.Time
	Limit int
}
