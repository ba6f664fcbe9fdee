package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/yupiflow-admin/internal/models"
	"github.com/noah-isme/yupiflow-admin/pkg/jobs"
	"github.com/noah-isme/yupiflow-admin/pkg/mq"
)

type queueStub struct {
	jobs []jobs.Job
}

func (q *queueStub) Enqueue(job jobs.Job) error {
	q.jobs = append(q.jobs, job)
	return nil
}

type backendStub struct {
	channel string
	data    []byte
	attrs   map[string]string
	err     error
}

func (b *backendStub) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	if b.err != nil {
		return "", b.err
	}
	b.channel, b.data, b.attrs = channel, data, attrs
	return "msg-1", nil
}

func (b *backendStub) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return nil
}

func (b *backendStub) Close() error { return nil }

func TestRegistrationEventPublisherRoundTrip(t *testing.T) {
	backend := &backendStub{}
	queue := &queueStub{}
	publisher := NewRegistrationEventPublisher(backend, "registrations.reviewed", nil, zap.NewNop())
	publisher.Bind(queue)

	event := models.RegistrationEvent{RegistrationID: 5, Status: models.RegistrationApproved, Email: "ada@yupimall.test", ReviewedAt: time.Now().UTC()}
	require.NoError(t, publisher.PublishReviewed(context.Background(), event))
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, registrationReviewedJob, queue.jobs[0].Type)

	require.NoError(t, publisher.Handle(context.Background(), queue.jobs[0]))
	assert.Equal(t, "registrations.reviewed", backend.channel)
	assert.Equal(t, "5", backend.attrs["registration_id"])

	var decoded models.RegistrationEvent
	require.NoError(t, json.Unmarshal(backend.data, &decoded))
	assert.Equal(t, event.Email, decoded.Email)
}

func TestRegistrationEventPublisherRetriesOnBrokerError(t *testing.T) {
	backend := &backendStub{err: errors.New("connection reset")}
	publisher := NewRegistrationEventPublisher(backend, "q", NewMetricsService(), zap.NewNop())

	payload, _ := json.Marshal(models.RegistrationEvent{RegistrationID: 1})
	err := publisher.Handle(context.Background(), jobs.Job{ID: "j", Type: registrationReviewedJob, Payload: payload})
	assert.Error(t, err)
}

func TestRegistrationEventPublisherDropsMalformedPayload(t *testing.T) {
	publisher := NewRegistrationEventPublisher(&backendStub{}, "q", nil, nil)
	assert.NoError(t, publisher.Handle(context.Background(), jobs.Job{ID: "j", Payload: []byte("{")}))
}

func TestRegistrationEventPublisherRequiresQueue(t *testing.T) {
	publisher := NewRegistrationEventPublisher(&backendStub{}, "q", nil, nil)
	assert.Error(t, publisher.PublishReviewed(context.Background(), models.RegistrationEvent{}))
}
