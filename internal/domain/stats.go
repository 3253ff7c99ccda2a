package domain

import "time"

const DateLayout = "2006-01-02"

// DailyStat holds one calendar day's per-level counters for one app.
// Date is the UTC calendar date in YYYY-MM-DD form.
type DailyStat struct {
	Date  string `db:"date" json:"date"`
	Debug int    `db:"debug_count" json:"debug"`
	Info  int    `db:"info_count" json:"info"`
	Warn  int    `db:"warn_count" json:"warn"`
	Error int    `db:"error_count" json:"error"`
}

type LevelCount struct {
	Level string `json:"level"`
	Count int    `json:"count"`
}

func (s *DailyStat) Add(level string, count int) {
	switch level {
	case LevelDebug:
		s.Debug += count
	case LevelInfo:
		s.Info += count
	case LevelWarn:
		s.Warn += count
	case LevelError:
		s.Error += count
	}
}

// DenseRange returns exactly days records going backward from today
// inclusive, most-recent-first. Dates missing from stats come back
// zero-valued instead of being omitted.
func DenseRange(stats []DailyStat, days int, today time.Time) []DailyStat {
	byDate := make(map[string]DailyStat, len(stats))
	for _, s := range stats {
		byDate[s.Date] = s
	}

	out := make([]DailyStat, 0, days)
	day := today.UTC()
	for i := 0; i < days; i++ {
		date := day.AddDate(0, 0, -i).Format(DateLayout)
		if s, ok := byDate[date]; ok {
			out = append(out, s)
		} else {
			out = append(out, DailyStat{Date: date})
		}
	}
	return out
}
