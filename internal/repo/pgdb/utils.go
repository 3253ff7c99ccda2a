package pgdb

import (
	"github.com/Egor213/LogVault/internal/repo/repotypes"
	sq "github.com/Masterminds/squirrel"
)

const DefaultQueryLimit = 100

// BuildEntryQueryFilters turns an EntryFilter into squirrel conditions.
// Since is inclusive, Until is exclusive.
func BuildEntryQueryFilters(appID string, filter repotypes.EntryFilter) ([]sq.Sqlizer, uint64, uint64) {
	conds := []sq.Sqlizer{sq.Eq{"app_id": appID}}

	if filter.Level != "" {
		conds = append(conds, sq.Eq{"level": filter.Level})
	}
	if !filter.Since.IsZero() {
		conds = append(conds, sq.GtOrEq{"created_at": filter.Since})
	}
	if !filter.Until.IsZero() {
		conds = append(conds, sq.Lt{"created_at": filter.Until})
	}
	if filter.RequestID != "" {
		conds = append(conds, sq.Eq{"request_id": filter.RequestID})
	}

	limit := uint64(DefaultQueryLimit)
	if filter.Limit > 0 {
		limit = uint64(filter.Limit)
	}

	offset := uint64(0)
	if filter.Offset > 0 {
		offset = uint64(filter.Offset)
	}

	return conds, limit, offset
}

func BuildHistoryQueryFilters(appID string, filter repotypes.HistoryFilter) ([]sq.Sqlizer, uint64) {
	conds := []sq.Sqlizer{sq.Eq{"app_id": appID}}

	if !filter.Since.IsZero() {
		conds = append(conds, sq.GtOrEq{"checked_at": filter.Since})
	}
	if !filter.Until.IsZero() {
		conds = append(conds, sq.Lt{"checked_at": filter.Until})
	}

	limit := uint64(DefaultQueryLimit)
	if filter.Limit > 0 {
		limit = uint64(filter.Limit)
	}

	return conds, limit
}
