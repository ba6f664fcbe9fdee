package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/internal/repository"
	appErrors "github.com/noah-isme/yupiflow-admin/pkg/errors"
)

type registrationRepository interface {
	List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error)
	FindByID(ctx context.Context, id int64) (*models.Registration, error)
	UpdateStatus(ctx context.Context, params repository.ReviewRegistrationParams) error
}

type auditRecorder interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type registrationEvents interface {
	PublishReviewed(ctx context.Context, event models.RegistrationEvent) error
}

// ReviewRegistrationRequest is the PATCH /registrations/:id/status payload.
type ReviewRegistrationRequest struct {
	Status models.RegistrationStatus `json:"status" validate:"required,oneof=approved rejected"`
	Note   string                    `json:"note" validate:"max=500"`
}

// RegistrationService exposes partner registration review.
type RegistrationService struct {
	repo      registrationRepository
	audit     auditRecorder
	events    registrationEvents
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewRegistrationService constructs the service. events and metrics may be nil.
func NewRegistrationService(repo registrationRepository, audit auditRecorder, events registrationEvents, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *RegistrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = models.NewValidator()
	}
	return &RegistrationService{
		repo:      repo,
		audit:     audit,
		events:    events,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// List returns every registration, optionally narrowed by status.
func (s *RegistrationService) List(ctx context.Context, filter models.RegistrationFilter) ([]models.Registration, error) {
	switch filter.Status {
	case "", models.RegistrationPending, models.RegistrationApproved, models.RegistrationRejected:
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "status must be one of pending, approved, rejected")
	}
	regs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list registrations")
	}
	return regs, nil
}

// Get returns one registration.
func (s *RegistrationService) Get(ctx context.Context, id int64) (*models.Registration, error) {
	reg, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "registration not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load registration")
	}
	return reg, nil
}

// Review approves or rejects a pending registration.
func (s *RegistrationService) Review(ctx context.Context, id int64, req ReviewRegistrationRequest, actorID int64, meta models.RequestMeta) (*models.Registration, error) {
	req.Note = strings.TrimSpace(req.Note)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, validationMessage(err, "invalid review payload"))
	}

	reg, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if reg.Status != models.RegistrationPending {
		return nil, appErrors.Clone(appErrors.ErrConflict, "registration is already "+string(reg.Status))
	}

	reviewedAt := s.now()
	params := repository.ReviewRegistrationParams{
		ID:         id,
		Status:     req.Status,
		ReviewedBy: actorID,
		ReviewedAt: reviewedAt,
	}
	if req.Note != "" {
		params.Note = &req.Note
	}
	if err := s.repo.UpdateStatus(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "registration is no longer pending")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update registration")
	}
	s.metrics.RecordRegistrationReview(string(req.Status))

	oldStatus := reg.Status
	reg.Status = req.Status
	reg.ReviewedBy = &actorID
	reg.ReviewedAt = &reviewedAt
	reg.ReviewNote = params.Note

	resourceID := strconv.FormatInt(id, 10)
	oldPayload, _ := json.Marshal(map[string]interface{}{"status": oldStatus})
	newPayload, _ := json.Marshal(map[string]interface{}{"status": reg.Status, "note": req.Note})
	if s.audit != nil {
		if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
			ActorID:    actorRef(actorID),
			Action:     models.AuditActionRegistrationReview,
			Resource:   "registrations",
			ResourceID: &resourceID,
			OldValues:  oldPayload,
			NewValues:  newPayload,
			IPAddress:  meta.IP,
			UserAgent:  meta.UserAgent,
		}); err != nil {
			s.logger.Warn("failed to record registration review audit log", zap.Error(err))
		}
	}

	if s.events != nil {
		event := models.RegistrationEvent{
			RegistrationID: reg.ID,
			Status:         reg.Status,
			RequestedRole:  reg.RequestedRole,
			Email:          reg.Email,
			ReviewedBy:     actorID,
			ReviewedAt:     reviewedAt,
			Note:           req.Note,
		}
		if err := s.events.PublishReviewed(ctx, event); err != nil {
			s.logger.Warn("failed to enqueue registration event", zap.Int64("registration_id", reg.ID), zap.Error(err))
		}
	}

	return reg, nil
}
