package directory

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

func TestComposeQuery(t *testing.T) {
	tests := []struct {
		name  string
		query Query
		want  url.Values
	}{
		{
			name:  "no search",
			query: Query{Page: 1, PageSize: 10},
			want:  url.Values{"page": {"1"}, "limit": {"10"}},
		},
		{
			name:  "blank search is omitted",
			query: Query{Page: 2, PageSize: 10, Search: "   "},
			want:  url.Values{"page": {"2"}, "limit": {"10"}},
		},
		{
			name:  "search is trimmed",
			query: Query{Page: 1, PageSize: 10, Search: "  ada "},
			want:  url.Values{"page": {"1"}, "limit": {"10"}, "search": {"ada"}},
		},
		{
			name:  "defaults",
			query: Query{},
			want:  url.Values{"page": {"1"}, "limit": {"10"}},
		},
		{
			name:  "roles",
			query: Query{Page: 1, PageSize: 25, Roles: []models.UserRole{models.RoleConsumer, models.RoleStockist}},
			want:  url.Values{"page": {"1"}, "limit": {"25"}, "role": {"consumer,stockist"}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if diff := cmp.Diff(tc.want, ComposeQuery(tc.query)); diff != "" {
				t.Fatalf("ComposeQuery mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestComposeQuerySearchKeyPresence(t *testing.T) {
	inputs := []string{"", " ", "\t\n", "a", " a ", "ada lovelace", "@"}
	for _, search := range inputs {
		values := ComposeQuery(Query{Page: 3, PageSize: 10, Search: search})
		_, present := values["search"]
		wantPresent := len(trimmed(search)) > 0
		if present != wantPresent {
			t.Fatalf("search %q: present=%v want %v", search, present, wantPresent)
		}
	}
}

func trimmed(s string) string {
	return Query{Search: s}.normalise().Search
}
