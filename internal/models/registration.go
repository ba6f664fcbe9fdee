package models

import "time"

// RegistrationStatus captures the review state of a partner application.
type RegistrationStatus string

const (
	RegistrationPending  RegistrationStatus = "pending"
	RegistrationApproved RegistrationStatus = "approved"
	RegistrationRejected RegistrationStatus = "rejected"
)

// Terminal reports whether no further transition is allowed.
func (s RegistrationStatus) Terminal() bool {
	return s == RegistrationApproved || s == RegistrationRejected
}

// Registration is a pending-partner application submitted outside the dashboard.
type Registration struct {
	ID            int64              `db:"id" json:"id"`
	SponsorID     string             `db:"sponsor_id" json:"sponsor_id"`
	FirstName     string             `db:"first_name" json:"first_name"`
	LastName      string             `db:"last_name" json:"last_name"`
	Username      string             `db:"username" json:"username"`
	Email         string             `db:"email" json:"email"`
	Phone         string             `db:"phone" json:"phone"`
	Address       string             `db:"address" json:"address"`
	City          string             `db:"city" json:"city"`
	Country       string             `db:"country" json:"country"`
	ZipCode       string             `db:"zip_code" json:"zip_code"`
	Plan          string             `db:"plan" json:"plan"`
	PaymentMethod string             `db:"payment_method" json:"payment_method"`
	Status        RegistrationStatus `db:"status" json:"status"`
	RequestedRole UserRole           `db:"requested_role" json:"requested_role"`
	ReviewedBy    *int64             `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewedAt    *time.Time         `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewNote    *string            `db:"review_note" json:"review_note,omitempty"`
	CreatedAt     time.Time          `db:"created_at" json:"created_at"`
}

// FullName joins first and last name.
func (r Registration) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	default:
		return r.FirstName + " " + r.LastName
	}
}

// RegistrationFilter constrains listing queries.
type RegistrationFilter struct {
	Status RegistrationStatus
}

// RegistrationList is the wire shape of GET /registrations.
type RegistrationList struct {
	Registrations []Registration `json:"registrations"`
}

// RegistrationEvent is published after a review decision.
type RegistrationEvent struct {
	RegistrationID int64              `json:"registration_id"`
	Status         RegistrationStatus `json:"status"`
	RequestedRole  UserRole           `json:"requested_role"`
	Email          string             `json:"email"`
	ReviewedBy     int64              `json:"reviewed_by"`
	ReviewedAt     time.Time          `json:"reviewed_at"`
	Note           string             `json:"note,omitempty"`
}
