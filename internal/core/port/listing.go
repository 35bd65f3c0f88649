package port

// SortField is a single ordering term of a list query.
type SortField struct {
	Column string
	Desc   bool
}

// ListQuery captures the query-shaping parameters accepted by collection
// endpoints: equality filters, multi-column ordering, field projection,
// and page-based pagination.
type ListQuery struct {
	Filters map[string]string
	Sort    []SortField
	Fields  []string
	Page    int
	Limit   int
}

// Offset converts page/limit into a row offset. Page numbering starts at 1.
func (q ListQuery) Offset() int {
	if q.Page < 1 || q.Limit < 1 {
		return 0
	}
	return (q.Page - 1) * q.Limit
}
