package directory

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

func TestSummarizeKeepsServerTotal(t *testing.T) {
	view := PageView{
		Page:     2,
		PageSize: 10,
		Total:    57,
		Records: []models.User{
			{ID: 1, Role: models.RoleAdmin},
			{ID: 2, Role: models.RoleDeveloper},
			{ID: 7, Role: models.RoleSuperAdmin},
			{ID: 3, Role: models.RoleWarehouse},
			{ID: 4, Role: models.RoleWebmaster},
			{ID: 5, Role: models.RoleConsumer},
			{ID: 6, Role: "legacy"},
		},
	}

	got := Summarize(view)
	want := StatsSummary{
		Total: 57,
		ByRole: map[models.UserRole]int{
			models.RoleAdmin:      1,
			models.RoleDeveloper:  1,
			models.RoleSuperAdmin: 1,
			models.RoleWarehouse:  1,
			models.RoleWebmaster:  1,
			models.RoleConsumer:   1,
			"legacy":              1,
		},
		Admins: 2,
		Staff:  2,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Summarize mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 0, got.Count(models.RoleDelivery))
}

func TestSummarizeFilteredTotal(t *testing.T) {
	dir := newMemoryDirectory(30)
	client := dir.start(t)
	pager := NewPager(client, Query{}, nil)

	view, err := pager.SetSearch(context.Background(), "user0")
	require.NoError(t, err)

	stats := Summarize(view)
	assert.Equal(t, 9, stats.Total)
	assert.Equal(t, view.Total, stats.Total)
	assert.Len(t, view.Records, 9)

	view, err = pager.SetSearch(context.Background(), "yupimall")
	require.NoError(t, err)
	stats = Summarize(view)
	assert.Equal(t, 30, stats.Total, "total must come from the server, not the page length")
	assert.Len(t, view.Records, 10)
}

func TestSummarizeRegistrations(t *testing.T) {
	stats := SummarizeRegistrations([]models.Registration{
		{Status: models.RegistrationPending},
		{Status: models.RegistrationPending},
		{Status: models.RegistrationApproved},
		{Status: models.RegistrationRejected},
	})
	assert.Equal(t, RegistrationStats{Total: 4, Pending: 2, Approved: 1, Rejected: 1}, stats)
}
