package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/internal/repository"
	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
)

type mockRegistrationRepo struct {
	regs    map[int64]*models.Registration
	updates []repository.ReviewRegistrationParams
	raced   bool
}

func (m *mockRegistrationRepo) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	out := []models.Registration{}
	for _, reg := range m.regs {
		if filter.Status != "" && reg.Status != filter.Status {
			continue
		}
		out = append(out, *reg)
	}
	return out, nil
}

func (m *mockRegistrationRepo) FindByID(ctx context.Context, id int64) (*models.Registration, error) {
	reg, ok := m.regs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copy := *reg
	return &copy, nil
}

func (m *mockRegistrationRepo) UpdateStatus(ctx context.Context, params repository.ReviewRegistrationParams) error {
	if m.raced {
		return sql.ErrNoRows
	}
	m.updates = append(m.updates, params)
	m.regs[params.ID].Status = params.Status
	return nil
}

type recordingEvents struct {
	events []models.RegistrationEvent
}

func (r *recordingEvents) PublishReviewed(ctx context.Context, event models.RegistrationEvent) error {
	r.events = append(r.events, event)
	return nil
}

func newRegistrationFixture() (*RegistrationService, *mockRegistrationRepo, *mockUserRepo, *recordingEvents) {
	repo := &mockRegistrationRepo{regs: map[int64]*models.Registration{
		1: {ID: 1, FirstName: "Ada", LastName: "Obi", Email: "ada@yupimall.test", Status: models.RegistrationPending, RequestedRole: models.RoleDistributor},
		2: {ID: 2, FirstName: "Bo", Email: "bo@yupimall.test", Status: models.RegistrationApproved},
	}}
	audit := newMockUserRepo()
	events := &recordingEvents{}
	svc := NewRegistrationService(repo, audit, events, NewMetricsService(), nil, zap.NewNop())
	svc.now = func() time.Time { return time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC) }
	return svc, repo, audit, events
}

func TestRegistrationServiceListByStatus(t *testing.T) {
	svc, _, _, _ := newRegistrationFixture()

	regs, err := svc.List(context.Background(), models.RegistrationFilter{Status: models.RegistrationPending})
	require.NoError(t, err)
	require.Len(t, regs, 1)
	assert.Equal(t, int64(1), regs[0].ID)

	_, err = svc.List(context.Background(), models.RegistrationFilter{Status: "archived"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestRegistrationServiceApprove(t *testing.T) {
	svc, repo, audit, events := newRegistrationFixture()

	reg, err := svc.Review(context.Background(), 1, ReviewRegistrationRequest{Status: models.RegistrationApproved, Note: " welcome "}, 9, models.RequestMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.RegistrationApproved, reg.Status)
	require.NotNil(t, reg.ReviewNote)
	assert.Equal(t, "welcome", *reg.ReviewNote)
	require.Len(t, repo.updates, 1)
	assert.Equal(t, int64(9), repo.updates[0].ReviewedBy)
	require.Len(t, audit.auditLogs, 1)
	assert.Equal(t, models.AuditActionRegistrationReview, audit.auditLogs[0].Action)
	require.Len(t, events.events, 1)
	assert.Equal(t, models.RoleDistributor, events.events[0].RequestedRole)
}

func TestRegistrationServiceRejectsTerminal(t *testing.T) {
	svc, repo, _, events := newRegistrationFixture()

	_, err := svc.Review(context.Background(), 2, ReviewRegistrationRequest{Status: models.RegistrationRejected}, 9, models.RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
	assert.Empty(t, repo.updates)
	assert.Empty(t, events.events)
}

func TestRegistrationServiceReviewRace(t *testing.T) {
	svc, repo, _, _ := newRegistrationFixture()
	repo.raced = true

	_, err := svc.Review(context.Background(), 1, ReviewRegistrationRequest{Status: models.RegistrationRejected}, 9, models.RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrConflict)
}

func TestRegistrationServiceReviewValidation(t *testing.T) {
	svc, _, _, _ := newRegistrationFixture()

	_, err := svc.Review(context.Background(), 1, ReviewRegistrationRequest{Status: models.RegistrationPending}, 9, models.RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = svc.Review(context.Background(), 404, ReviewRegistrationRequest{Status: models.RegistrationApproved}, 9, models.RequestMeta{})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
