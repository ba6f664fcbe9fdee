package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

const registrationColumns = `id, sponsor_id, first_name, last_name, username, email, phone, address, city, country, zip_code, plan, payment_method, status, requested_role, reviewed_by, reviewed_at, review_note, created_at`

// RegistrationRepository persists partner registrations.
type RegistrationRepository struct {
	db *sqlx.DB
}

// ReviewRegistrationParams describes a status transition.
type ReviewRegistrationParams struct {
	ID         int64
	Status     models.RegistrationStatus
	ReviewedBy int64
	ReviewedAt time.Time
	Note       *string
}

// NewRegistrationRepository constructs the repository.
func NewRegistrationRepository(db *sqlx.DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// List returns every registration, newest first.
func (r *RegistrationRepository) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations`
	var args []interface{}
	if filter.Status != "" {
		query += ` WHERE status = $1`
		args = append(args, filter.Status)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	registrations := []models.Registration{}
	if err := r.db.SelectContext(ctx, &registrations, query, args...); err != nil {
		return nil, fmt.Errorf("list registrations: %w", err)
	}
	return registrations, nil
}

// FindByID loads one registration.
func (r *RegistrationRepository) FindByID(ctx context.Context, id int64) (*models.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1 LIMIT 1`
	var registration models.Registration
	if err := r.db.GetContext(ctx, &registration, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find registration: %w", err)
	}
	return &registration, nil
}

// UpdateStatus moves a pending registration to its review outcome.
// It returns sql.ErrNoRows when the row is missing or no longer pending.
func (r *RegistrationRepository) UpdateStatus(ctx context.Context, params ReviewRegistrationParams) error {
	const query = `UPDATE registrations SET status = $2, reviewed_by = $3, reviewed_at = $4, review_note = $5 WHERE id = $1 AND status = 'pending'`
	res, err := r.db.ExecContext(ctx, query, params.ID, params.Status, params.ReviewedBy, params.ReviewedAt, params.Note)
	if err != nil {
		return fmt.Errorf("update registration status: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update registration rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
