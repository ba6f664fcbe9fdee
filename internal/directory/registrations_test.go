package directory

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

func seedRegistrations() []models.Registration {
	submitted := time.Date(2026, 10, 10, 12, 0, 0, 0, time.UTC)
	return []models.Registration{
		{ID: 1, FirstName: "Siti", LastName: "Rahma", Username: "siti", Email: "siti@partner.test", City: "Bandung", Country: "Indonesia", Plan: "gold", PaymentMethod: "transfer", SponsorID: "YM-001", Status: models.RegistrationPending, RequestedRole: models.RoleDistributor, CreatedAt: submitted},
		{ID: 2, FirstName: "Budi", LastName: "Santoso", Username: "budi", Email: "budi@partner.test", City: "Surabaya", Country: "Indonesia", Status: models.RegistrationApproved, RequestedRole: models.RoleStockist, CreatedAt: submitted},
		{ID: 3, FirstName: "Marie", Username: "marie", Email: "marie@partner.test", City: "Lyon", Country: "France", Status: models.RegistrationRejected, RequestedRole: models.RoleDistributor, CreatedAt: submitted},
	}
}

func newReviewFixture(t *testing.T) (*memoryDirectory, *RegistrationReview) {
	t.Helper()
	dir := newMemoryDirectory(0)
	dir.registrations = seedRegistrations()
	return dir, NewRegistrationReview(dir.start(t), nil)
}

func TestRegistrationListAndStats(t *testing.T) {
	_, review := newReviewFixture(t)

	records, err := review.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 3)
	assert.Equal(t, RegistrationStats{Total: 3, Pending: 1, Approved: 1, Rejected: 1}, review.Stats())
}

func TestFilterRegistrations(t *testing.T) {
	records := seedRegistrations()

	assert.Len(t, FilterRegistrations(records, ""), 3)
	assert.Len(t, FilterRegistrations(records, "indonesia"), 2)
	assert.Len(t, FilterRegistrations(records, "SITI RAHMA"), 1)
	assert.Len(t, FilterRegistrations(records, "lyon"), 1)
	assert.Empty(t, FilterRegistrations(records, "jakarta"))
}

func TestRegistrationDetail(t *testing.T) {
	_, review := newReviewFixture(t)

	detail, err := review.Detail(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Siti Rahma", detail.FullName)
	assert.Equal(t, "Distributor", detail.RequestedRole.Label)
	assert.Equal(t, "Bandung", detail.Address.City)
	assert.Equal(t, "YM-001", detail.Subscription.SponsorID)
	assert.Nil(t, detail.Review)

	_, err = review.Detail(context.Background(), 99)
	assert.Equal(t, "registration not found", DisplayMessage(err))
}

func TestApprovePending(t *testing.T) {
	_, review := newReviewFixture(t)
	_, err := review.List(context.Background())
	require.NoError(t, err)

	updated, err := review.Approve(context.Background(), 1, " welcome aboard ")
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, updated.Status)
	require.NotNil(t, updated.ReviewNote)
	assert.Equal(t, "welcome aboard", *updated.ReviewNote)

	assert.Equal(t, RegistrationStats{Total: 3, Approved: 2, Rejected: 1}, review.Stats())

	detail := NewRegistrationDetail(*updated)
	require.NotNil(t, detail.Review)
	assert.Equal(t, int64(1), detail.Review.ReviewedBy)
}

func TestReviewTerminalIsRejectedLocally(t *testing.T) {
	dir, review := newReviewFixture(t)
	_, err := review.List(context.Background())
	require.NoError(t, err)

	_, err = review.Reject(context.Background(), 2, "")
	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)
	assert.Equal(t, "registration is already approved", DisplayMessage(err))
	assert.Zero(t, dir.requestCount(http.MethodPatch, "/api/v1/registrations"))
}

func TestReviewConflictFromServer(t *testing.T) {
	dir, review := newReviewFixture(t)

	// Not listed locally, so the server decides.
	_, err := review.Approve(context.Background(), 3, "")
	var reqErr *RequestError
	require.ErrorAs(t, err, &reqErr)
	assert.Equal(t, http.StatusConflict, reqErr.Status)
	assert.Equal(t, "registration is no longer pending", DisplayMessage(err))
	assert.Equal(t, 1, dir.requestCount(http.MethodPatch, "/api/v1/registrations/3/status"))
}
