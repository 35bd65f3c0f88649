package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/HosseinHeydarpour/apply-app-backend/internal/core/port"
)

// reservedQueryParams never become equality filters.
var reservedQueryParams = map[string]struct{}{
	"page":   {},
	"sort":   {},
	"limit":  {},
	"fields": {},
}

// parseListQuery translates the request's query string into a shaped list
// query. sort accepts comma-separated columns with a leading '-' for
// descending order, fields selects the response keys, page and limit drive
// pagination, and every remaining parameter becomes an equality filter.
func parseListQuery(c *gin.Context) port.ListQuery {
	query := port.ListQuery{
		Filters: make(map[string]string),
	}

	for key, values := range c.Request.URL.Query() {
		if len(values) == 0 || values[0] == "" {
			continue
		}
		if _, reserved := reservedQueryParams[key]; reserved {
			continue
		}
		query.Filters[key] = values[0]
	}

	if raw := c.Query("sort"); raw != "" {
		for _, term := range strings.Split(raw, ",") {
			term = strings.TrimSpace(term)
			if term == "" {
				continue
			}
			field := port.SortField{Column: term}
			if strings.HasPrefix(term, "-") {
				field.Column = term[1:]
				field.Desc = true
			}
			if field.Column != "" {
				query.Sort = append(query.Sort, field)
			}
		}
	}

	if raw := c.Query("fields"); raw != "" {
		for _, field := range strings.Split(raw, ",") {
			field = strings.TrimSpace(field)
			if field != "" {
				query.Fields = append(query.Fields, field)
			}
		}
	}

	if page, err := strconv.Atoi(c.Query("page")); err == nil && page > 0 {
		query.Page = page
	}
	if limit, err := strconv.Atoi(c.Query("limit")); err == nil && limit > 0 {
		query.Limit = limit
	}

	return query
}
