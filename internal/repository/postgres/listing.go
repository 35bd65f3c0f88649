package postgres

import (
	squirrel "github.com/Masterminds/squirrel"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
)

const (
	defaultPageSize = 100
	maxPageSize     = 100
)

// applyListQuery shapes a SELECT with the filters, ordering, and pagination
// carried by a list query. Filter and sort names are resolved through the
// columns allow-list; anything not listed is ignored.
func applyListQuery(sb squirrel.SelectBuilder, q port.ListQuery, columns map[string]string, defaultOrder string) squirrel.SelectBuilder {
	for param, value := range q.Filters {
		if col, ok := columns[param]; ok {
			sb = sb.Where(squirrel.Eq{col: value})
		}
	}

	ordered := false
	for _, s := range q.Sort {
		col, ok := columns[s.Column]
		if !ok {
			continue
		}
		dir := " ASC"
		if s.Desc {
			dir = " DESC"
		}
		sb = sb.OrderBy(col + dir)
		ordered = true
	}
	if !ordered && defaultOrder != "" {
		sb = sb.OrderBy(defaultOrder)
	}

	limit := q.Limit
	if limit <= 0 || limit > maxPageSize {
		limit = defaultPageSize
	}
	page := q.Page
	if page < 1 {
		page = 1
	}

	return sb.Limit(uint64(limit)).Offset(uint64((page - 1) * limit))
}
