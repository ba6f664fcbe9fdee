package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/pkg/jobs"
	"github.com/noah-isme/yupiflow-admin/pkg/mq"
)

const registrationReviewedJob = "registration.reviewed"

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

// RegistrationEventPublisher hands review events to the broker through the job queue.
type RegistrationEventPublisher struct {
	queue   jobDispatcher
	backend mq.Backend
	channel string
	metrics *MetricsService
	logger  *zap.Logger
}

// NewRegistrationEventPublisher constructs the publisher. Call Bind with the queue before use.
func NewRegistrationEventPublisher(backend mq.Backend, channel string, metrics *MetricsService, logger *zap.Logger) *RegistrationEventPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RegistrationEventPublisher{backend: backend, channel: channel, metrics: metrics, logger: logger}
}

// Bind attaches the dispatcher that runs Handle.
func (p *RegistrationEventPublisher) Bind(queue jobDispatcher) {
	p.queue = queue
}

// PublishReviewed enqueues the event for asynchronous delivery.
func (p *RegistrationEventPublisher) PublishReviewed(_ context.Context, event models.RegistrationEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal registration event: %w", err)
	}
	if p.queue == nil {
		return fmt.Errorf("registration events queue not bound")
	}
	return p.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Type: registrationReviewedJob, Payload: payload})
}

// Handle publishes one queued event. It is the queue's job handler.
func (p *RegistrationEventPublisher) Handle(ctx context.Context, job jobs.Job) error {
	var event models.RegistrationEvent
	if err := json.Unmarshal(job.Payload, &event); err != nil {
		p.logger.Error("dropping malformed registration event", zap.String("job_id", job.ID), zap.Error(err))
		return nil
	}

	attrs := map[string]string{
		"type":            job.Type,
		"status":          string(event.Status),
		"registration_id": strconv.FormatInt(event.RegistrationID, 10),
	}
	messageID, err := p.backend.Publish(ctx, p.channel, job.Payload, attrs)
	p.metrics.RecordEventPublish(err)
	if err != nil {
		return fmt.Errorf("publish registration event: %w", err)
	}
	p.logger.Info("registration event published",
		zap.Int64("registration_id", event.RegistrationID),
		zap.String("status", string(event.Status)),
		zap.String("message_id", messageID),
	)
	return nil
}
