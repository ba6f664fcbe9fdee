package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

var registrationRowColumns = []string{"id", "sponsor_id", "first_name", "last_name", "username", "email", "phone", "address", "city", "country", "zip_code", "plan", "payment_method", "status", "requested_role", "reviewed_by", "reviewed_at", "review_note", "created_at"}

func TestListRegistrations(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(registrationRowColumns).
		AddRow(1, "SP-01", "Ada", "Obi", "adaobi", "ada@yupimall.test", "0101", "12 Rue A", "Abidjan", "CI", "00225", "gold", "mobile_money", "pending", "distributor", nil, nil, nil, now).
		AddRow(2, "SP-02", "Bo", "Ky", "boky", "bo@yupimall.test", "0202", "3 Rue B", "Dakar", "SN", "10000", "silver", "card", "approved", "stockist", 7, now, "ok", now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM registrations ORDER BY created_at DESC, id DESC")).WillReturnRows(rows)

	regs, err := repo.List(context.Background(), models.RegistrationFilter{})
	require.NoError(t, err)
	require.Len(t, regs, 2)
	assert.Equal(t, models.RegistrationPending, regs[0].Status)
	assert.Nil(t, regs[0].ReviewedBy)
	require.NotNil(t, regs[1].ReviewedBy)
	assert.Equal(t, int64(7), *regs[1].ReviewedBy)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListRegistrationsByStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM registrations WHERE status = $1")).
		WithArgs(models.RegistrationPending).
		WillReturnRows(sqlmock.NewRows(registrationRowColumns))

	regs, err := repo.List(context.Background(), models.RegistrationFilter{Status: models.RegistrationPending})
	require.NoError(t, err)
	assert.Empty(t, regs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRegistrationStatusOnlyFromPending(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewRegistrationRepository(db)

	reviewedAt := time.Now().UTC()
	query := regexp.QuoteMeta("UPDATE registrations SET status = $2, reviewed_by = $3, reviewed_at = $4, review_note = $5 WHERE id = $1 AND status = 'pending'")
	mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(query).WillReturnResult(sqlmock.NewResult(0, 0))

	params := ReviewRegistrationParams{ID: 3, Status: models.RegistrationApproved, ReviewedBy: 1, ReviewedAt: reviewedAt}
	require.NoError(t, repo.UpdateStatus(context.Background(), params))
	assert.ErrorIs(t, repo.UpdateStatus(context.Background(), params), sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
