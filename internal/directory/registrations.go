package directory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
)

type registrationClient interface {
	ListRegistrations(ctx context.Context, status models.RegistrationStatus) ([]models.Registration, error)
	GetRegistration(ctx context.Context, id int64) (*models.Registration, error)
	ReviewRegistration(ctx context.Context, id int64, status models.RegistrationStatus, note string) (*models.Registration, error)
}

// RegistrationDetail is the read-only projection shown when opening a registration.
type RegistrationDetail struct {
	ID            int64
	FullName      string
	Status        models.RegistrationStatus
	RequestedRole models.RoleInfo
	Submitted     time.Time

	Personal struct {
		Username string
		Email    string
		Phone    string
	}
	Address struct {
		Street  string
		City    string
		Country string
		ZipCode string
	}
	Subscription struct {
		Plan          string
		PaymentMethod string
		SponsorID     string
	}
	Review *RegistrationReviewInfo
}

// RegistrationReviewInfo describes a completed review.
type RegistrationReviewInfo struct {
	ReviewedBy int64
	ReviewedAt time.Time
	Note       string
}

// NewRegistrationDetail projects a registration for display.
func NewRegistrationDetail(reg models.Registration) RegistrationDetail {
	detail := RegistrationDetail{
		ID:            reg.ID,
		FullName:      reg.FullName(),
		Status:        reg.Status,
		RequestedRole: models.LookupRole(reg.RequestedRole),
		Submitted:     reg.CreatedAt,
	}
	detail.Personal.Username = reg.Username
	detail.Personal.Email = reg.Email
	detail.Personal.Phone = reg.Phone
	detail.Address.Street = reg.Address
	detail.Address.City = reg.City
	detail.Address.Country = reg.Country
	detail.Address.ZipCode = reg.ZipCode
	detail.Subscription.Plan = reg.Plan
	detail.Subscription.PaymentMethod = reg.PaymentMethod
	detail.Subscription.SponsorID = reg.SponsorID

	if reg.ReviewedAt != nil {
		info := &RegistrationReviewInfo{ReviewedAt: *reg.ReviewedAt}
		if reg.ReviewedBy != nil {
			info.ReviewedBy = *reg.ReviewedBy
		}
		if reg.ReviewNote != nil {
			info.Note = *reg.ReviewNote
		}
		detail.Review = info
	}
	return detail
}

// RegistrationReview drives the registrations screen: list, search, detail and review.
type RegistrationReview struct {
	client registrationClient
	logger *zap.Logger

	busy    atomic.Bool
	mu      sync.Mutex
	records []models.Registration
}

// NewRegistrationReview builds the registrations workflow.
func NewRegistrationReview(client registrationClient, logger *zap.Logger) *RegistrationReview {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationReview{client: client, logger: logger}
}

// List loads every registration. There is no pagination.
func (r *RegistrationReview) List(ctx context.Context) ([]models.Registration, error) {
	records, err := r.client.ListRegistrations(ctx, "")
	if err != nil {
		return nil, asRequestError("list registrations", err, "Failed to load registrations")
	}
	r.mu.Lock()
	r.records = append([]models.Registration(nil), records...)
	r.mu.Unlock()
	return records, nil
}

// Records returns the last listed registrations.
func (r *RegistrationReview) Records() []models.Registration {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.Registration(nil), r.records...)
}

// Stats counts the last listed registrations by status.
func (r *RegistrationReview) Stats() RegistrationStats {
	return SummarizeRegistrations(r.Records())
}

// Detail opens one registration read-only.
func (r *RegistrationReview) Detail(ctx context.Context, id int64) (RegistrationDetail, error) {
	reg, err := r.client.GetRegistration(ctx, id)
	if err != nil {
		return RegistrationDetail{}, asRequestError("get registration", err, "Failed to load registration")
	}
	return NewRegistrationDetail(*reg), nil
}

// Approve moves a pending registration to approved.
func (r *RegistrationReview) Approve(ctx context.Context, id int64, note string) (*models.Registration, error) {
	return r.review(ctx, id, models.RegistrationApproved, note)
}

// Reject moves a pending registration to rejected.
func (r *RegistrationReview) Reject(ctx context.Context, id int64, note string) (*models.Registration, error) {
	return r.review(ctx, id, models.RegistrationRejected, note)
}

func (r *RegistrationReview) review(ctx context.Context, id int64, status models.RegistrationStatus, note string) (*models.Registration, error) {
	if known, ok := r.find(id); ok && known.Status != models.RegistrationPending {
		return nil, newValidationError("status", fmt.Sprintf("registration is already %s", known.Status))
	}
	note = strings.TrimSpace(note)
	if len(note) > 500 {
		return nil, newValidationError("note", "note must be at most 500 characters")
	}

	if !r.busy.CompareAndSwap(false, true) {
		return nil, ErrMutationInFlight
	}
	defer r.busy.Store(false)

	updated, err := r.client.ReviewRegistration(ctx, id, status, note)
	if err != nil {
		r.logger.Warn("registration review failed", zap.Int64("registration_id", id), zap.String("status", string(status)), zap.Error(err))
		return nil, asRequestError("review registration", err, "Failed to update registration")
	}

	r.mu.Lock()
	for i := range r.records {
		if r.records[i].ID == id {
			r.records[i] = *updated
			break
		}
	}
	r.mu.Unlock()
	return updated, nil
}

func (r *RegistrationReview) find(id int64) (models.Registration, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reg := range r.records {
		if reg.ID == id {
			return reg, true
		}
	}
	return models.Registration{}, false
}

// FilterRegistrations keeps records whose name, username, email, city or country contain search.
func FilterRegistrations(records []models.Registration, search string) []models.Registration {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return append([]models.Registration(nil), records...)
	}
	out := make([]models.Registration, 0, len(records))
	for _, reg := range records {
		fields := []string{reg.FullName(), reg.Username, reg.Email, reg.City, reg.Country}
		for _, field := range fields {
			if strings.Contains(strings.ToLower(field), search) {
				out = append(out, reg)
				break
			}
		}
	}
	return out
}
