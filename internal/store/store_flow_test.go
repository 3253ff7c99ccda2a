package store_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/Egor213/LogVault/internal/domain"
	"github.com/Egor213/LogVault/internal/metrics"
	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/Egor213/LogVault/internal/repo/repotypes"
	"github.com/Egor213/LogVault/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memEntries is a faithful in-memory Entry repo used to exercise full
// append/query/prune flows through the coordinator. All access is
// serialized by the coordinator, so no locking is needed.
type memEntries struct {
	entries []domain.LogEntry
}

func (m *memEntries) Append(_ context.Context, _ string, entry *domain.LogEntry) error {
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *memEntries) AppendBatch(_ context.Context, _ string, entries []domain.LogEntry) error {
	m.entries = append(m.entries, entries...)
	return nil
}

func (m *memEntries) Query(_ context.Context, _ string, f repotypes.EntryFilter) ([]domain.LogEntry, error) {
	out := []domain.LogEntry{}
	for _, e := range m.entries {
		if f.Level != "" && e.Level != f.Level {
			continue
		}
		if f.RequestID != "" && e.RequestID != f.RequestID {
			continue
		}
		if !f.Since.IsZero() && e.Timestamp.Before(f.Since) {
			continue
		}
		if !f.Until.IsZero() && !e.Timestamp.Before(f.Until) {
			continue
		}
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })

	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	if f.Offset > 0 {
		if f.Offset >= len(out) {
			return []domain.LogEntry{}, nil
		}
		out = out[f.Offset:]
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *memEntries) Prune(_ context.Context, _ string, before time.Time) (int64, error) {
	return m.PruneAll(context.Background(), before)
}

func (m *memEntries) PruneAll(_ context.Context, before time.Time) (int64, error) {
	kept := m.entries[:0]
	var deleted int64
	for _, e := range m.entries {
		if e.Timestamp.Before(before) {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	m.entries = kept
	return deleted, nil
}

type memStats struct {
	byDate map[string]domain.DailyStat
}

func newMemStats() *memStats {
	return &memStats{byDate: make(map[string]domain.DailyStat)}
}

func (m *memStats) Increment(_ context.Context, _ string, date string, counts []domain.LevelCount) (domain.DailyStat, error) {
	stat := m.byDate[date]
	stat.Date = date
	for _, c := range counts {
		stat.Add(c.Level, c.Count)
	}
	m.byDate[date] = stat
	return stat, nil
}

func (m *memStats) GetRange(_ context.Context, _ string, from, to string) ([]domain.DailyStat, error) {
	out := []domain.DailyStat{}
	for date, stat := range m.byDate {
		if date >= from && date <= to {
			out = append(out, stat)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date > out[j].Date })
	return out, nil
}

func (m *memStats) DeleteOlderThan(_ context.Context, date string) (int64, error) {
	var deleted int64
	for d := range m.byDate {
		if d < date {
			delete(m.byDate, d)
			deleted++
		}
	}
	return deleted, nil
}

func newFlowHub(t *testing.T) (*store.Hub, *memEntries, *memStats) {
	t.Helper()
	entries := &memEntries{}
	stats := newMemStats()
	hub := store.NewHub(store.Deps{
		Entries:  entries,
		Stats:    stats,
		Counters: metrics.NewTestCounters(),
	})
	t.Cleanup(hub.Close)
	return hub, entries, stats
}

func appendEntry(t *testing.T, hub *store.Hub, in protocol.AppendInput) domain.LogEntry {
	t.Helper()
	resp := hub.Dispatch(context.Background(), testApp, protocol.Request{
		Method: protocol.MethodPost,
		Path:   protocol.PathLog,
		Body:   in,
	})
	require.True(t, resp.OK, "append failed: %v", resp.Error)
	return resp.Payload.(domain.LogEntry)
}

func queryEntries(t *testing.T, hub *store.Hub, in protocol.QueryInput) []domain.LogEntry {
	t.Helper()
	resp := hub.Dispatch(context.Background(), testApp, protocol.Request{
		Method: protocol.MethodGet,
		Path:   protocol.PathLogs,
		Body:   in,
	})
	require.True(t, resp.OK, "query failed: %v", resp.Error)
	return resp.Payload.([]domain.LogEntry)
}

func TestFlow_AppendThenQueryMostRecentFirst(t *testing.T) {
	hub, _, _ := newFlowHub(t)

	t1 := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	t2 := t1.Add(time.Minute)
	appendEntry(t, hub, protocol.AppendInput{Level: domain.LevelDebug, Message: "m1", Timestamp: t1})
	appendEntry(t, hub, protocol.AppendInput{Level: domain.LevelWarn, Message: "m2", Timestamp: t2})

	got := queryEntries(t, hub, protocol.QueryInput{})
	require.Len(t, got, 2)
	assert.Equal(t, "m2", got[0].Message)
	assert.Equal(t, "m1", got[1].Message)
}

func TestFlow_Filtering(t *testing.T) {
	hub, _, _ := newFlowHub(t)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	levels := []string{domain.LevelInfo, domain.LevelInfo, domain.LevelWarn, domain.LevelError}
	for i, level := range levels {
		in := protocol.AppendInput{Level: level, Message: "m", Timestamp: base.Add(time.Duration(i) * time.Second)}
		if i == 1 {
			in.RequestID = "req-X"
		}
		appendEntry(t, hub, in)
	}

	errors := queryEntries(t, hub, protocol.QueryInput{Level: domain.LevelError})
	require.Len(t, errors, 1)
	assert.Equal(t, domain.LevelError, errors[0].Level)

	tagged := queryEntries(t, hub, protocol.QueryInput{RequestID: "req-X"})
	require.Len(t, tagged, 1)
	assert.Equal(t, "req-X", tagged[0].RequestID)

	// Since inclusive, until exclusive.
	window := queryEntries(t, hub, protocol.QueryInput{
		Since: base.Add(time.Second),
		Until: base.Add(3 * time.Second),
	})
	require.Len(t, window, 2)

	none := queryEntries(t, hub, protocol.QueryInput{Level: domain.LevelDebug})
	assert.Empty(t, none)
}

func TestFlow_BatchVisibleToQuery(t *testing.T) {
	hub, _, _ := newFlowHub(t)

	logs := make([]protocol.AppendInput, 5)
	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	for i := range logs {
		logs[i] = protocol.AppendInput{Level: domain.LevelInfo, Message: "b", Timestamp: base.Add(time.Duration(i) * time.Second)}
	}

	resp := hub.Dispatch(context.Background(), testApp, protocol.Request{
		Method: protocol.MethodPost,
		Path:   protocol.PathLogs,
		Body:   protocol.AppendBatchInput{Logs: logs},
	})
	require.True(t, resp.OK)

	got := queryEntries(t, hub, protocol.QueryInput{Limit: 5})
	assert.Len(t, got, 5)
}

func TestFlow_PruneIdempotent(t *testing.T) {
	hub, _, _ := newFlowHub(t)

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	appendEntry(t, hub, protocol.AppendInput{Level: domain.LevelInfo, Message: "old", Timestamp: base})
	appendEntry(t, hub, protocol.AppendInput{Level: domain.LevelInfo, Message: "new", Timestamp: base.Add(time.Hour)})

	cutoff := base.Add(time.Minute)
	prune := func() protocol.PruneResult {
		resp := hub.Dispatch(context.Background(), testApp, protocol.Request{
			Method: protocol.MethodPost,
			Path:   protocol.PathPrune,
			Body:   protocol.PruneInput{Before: cutoff},
		})
		require.True(t, resp.OK)
		return resp.Payload.(protocol.PruneResult)
	}

	assert.Equal(t, int64(1), prune().Deleted)
	assert.Equal(t, int64(0), prune().Deleted)

	got := queryEntries(t, hub, protocol.QueryInput{})
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].Message)
}

func TestFlow_StatsExample(t *testing.T) {
	hub, _, _ := newFlowHub(t)
	ctx := context.Background()

	appendEntry(t, hub, protocol.AppendInput{Level: domain.LevelDebug, Message: "m1"})
	appendEntry(t, hub, protocol.AppendInput{Level: domain.LevelWarn, Message: "m2"})

	for _, level := range []string{domain.LevelDebug, domain.LevelWarn} {
		resp := hub.Dispatch(ctx, testApp, protocol.Request{
			Method: protocol.MethodPost,
			Path:   protocol.PathStats,
			Body:   protocol.IncrementInput{Level: level},
		})
		require.True(t, resp.OK)
	}

	resp := hub.Dispatch(ctx, testApp, protocol.Request{
		Method: protocol.MethodGet,
		Path:   protocol.PathStats,
		Body:   protocol.RangeInput{Days: 1},
	})
	require.True(t, resp.OK)

	stats := resp.Payload.([]domain.DailyStat)
	require.Len(t, stats, 1)
	assert.Equal(t, 1, stats[0].Debug)
	assert.Equal(t, 1, stats[0].Warn)
	assert.Equal(t, 0, stats[0].Info)
	assert.Equal(t, 0, stats[0].Error)
}

func TestFlow_IsolationAcrossApps(t *testing.T) {
	hub, _, _ := newFlowHub(t)
	ctx := context.Background()

	// Entries written via one app's coordinator are owned by it; a
	// second app sees the same backing fake here, so route through
	// distinct hubs to assert coordinator identity instead.
	a := hub.App("app-a")
	b := hub.App("app-b")
	assert.NotSame(t, a, b)

	respA := a.Dispatch(ctx, protocol.Request{
		Method: protocol.MethodPost,
		Path:   protocol.PathLog,
		Body:   protocol.AppendInput{Level: domain.LevelInfo, Message: "from a"},
	})
	assert.True(t, respA.OK)
}
