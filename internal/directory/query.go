package directory

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

// DefaultPageSize is the number of rows shown per table page.
const DefaultPageSize = 10

// Query is the table state that drives a list request.
type Query struct {
	Page     int
	PageSize int
	Search   string
	Roles    []models.UserRole
}

func (q Query) normalise() Query {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize <= 0 {
		q.PageSize = DefaultPageSize
	}
	q.Search = strings.TrimSpace(q.Search)
	return q
}

// ComposeQuery builds the GET /users parameters. search is omitted, not sent empty,
// when the trimmed text is blank.
func ComposeQuery(q Query) url.Values {
	q = q.normalise()
	values := url.Values{}
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("limit", strconv.Itoa(q.PageSize))
	if q.Search != "" {
		values.Set("search", q.Search)
	}
	if len(q.Roles) > 0 {
		roles := make([]string, len(q.Roles))
		for i, role := range q.Roles {
			roles[i] = string(role)
		}
		values.Set("role", strings.Join(roles, ","))
	}
	return values
}
