package pgdb_test

import (
	"testing"
	"time"

	"github.com/Egor213/LogVault/internal/repo/pgdb"
	"github.com/Egor213/LogVault/internal/repo/repotypes"
	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEntryQueryFilters(t *testing.T) {
	now := time.Now()

	testCases := []struct {
		name       string
		filter     repotypes.EntryFilter
		wantConds  int
		wantLimit  uint64
		wantOffset uint64
	}{
		{
			name:       "empty filter keeps only app scoping",
			filter:     repotypes.EntryFilter{},
			wantConds:  1,
			wantLimit:  pgdb.DefaultQueryLimit,
			wantOffset: 0,
		},
		{
			name: "all filters set",
			filter: repotypes.EntryFilter{
				Level:     "ERROR",
				Since:     now.Add(-time.Hour),
				Until:     now,
				RequestID: "req-1",
				Limit:     10,
				Offset:    20,
			},
			wantConds:  5,
			wantLimit:  10,
			wantOffset: 20,
		},
		{
			name:       "negative limit falls back to default",
			filter:     repotypes.EntryFilter{Limit: -5, Offset: -1},
			wantConds:  1,
			wantLimit:  pgdb.DefaultQueryLimit,
			wantOffset: 0,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			conds, limit, offset := pgdb.BuildEntryQueryFilters("app-1", tc.filter)
			assert.Len(t, conds, tc.wantConds)
			assert.Equal(t, tc.wantLimit, limit)
			assert.Equal(t, tc.wantOffset, offset)
		})
	}
}

// Since is inclusive and Until is exclusive; the generated SQL must
// use >= and < respectively.
func TestBuildEntryQueryFilters_BoundConventions(t *testing.T) {
	now := time.Now()
	conds, _, _ := pgdb.BuildEntryQueryFilters("app-1", repotypes.EntryFilter{
		Since: now.Add(-time.Hour),
		Until: now,
	})
	require.Len(t, conds, 3)

	sql, _, err := sq.And(conds).ToSql()
	require.NoError(t, err)
	assert.Contains(t, sql, "created_at >= ?")
	assert.Contains(t, sql, "created_at < ?")
	assert.NotContains(t, sql, "created_at <= ?")
}

func TestBuildHistoryQueryFilters(t *testing.T) {
	conds, limit := pgdb.BuildHistoryQueryFilters("app-1", repotypes.HistoryFilter{})
	assert.Len(t, conds, 1)
	assert.Equal(t, uint64(pgdb.DefaultQueryLimit), limit)

	now := time.Now()
	conds, limit = pgdb.BuildHistoryQueryFilters("app-1", repotypes.HistoryFilter{
		Since: now.Add(-time.Hour),
		Until: now,
		Limit: 5,
	})
	assert.Len(t, conds, 3)
	assert.Equal(t, uint64(5), limit)
}
