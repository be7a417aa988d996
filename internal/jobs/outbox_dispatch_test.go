package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/config"
	"pet_rescue_backend/internal/notification"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockNotificationRepository is a mock type for notification.Repository
type MockNotificationRepository struct {
	mock.Mock
}

func (m *MockNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func (m *MockNotificationRepository) GetByUserID(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	var notifications []notification.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]notification.Notification)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return notifications, pagination, args.Error(2)
}

func (m *MockNotificationRepository) FindByID(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) (*notification.Notification, error) {
	args := m.Called(ctx, notificationID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationRepository) MarkAsRead(ctx context.Context, notificationID uuid.UUID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationRepository) MarkAllAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNotificationRepository) FindUndispatched(ctx context.Context, limit int) ([]notification.Notification, error) {
	args := m.Called(ctx, limit)
	var notifications []notification.Notification
	if args.Get(0) != nil {
		notifications = args.Get(0).([]notification.Notification)
	}
	return notifications, args.Error(1)
}

func (m *MockNotificationRepository) MarkDispatched(ctx context.Context, notificationID uuid.UUID, at time.Time) error {
	args := m.Called(ctx, notificationID, at)
	return args.Error(0)
}

// MockSink is a mock type for notification.Sink
type MockSink struct {
	mock.Mock
}

func (m *MockSink) Deliver(ctx context.Context, n *notification.Notification) error {
	args := m.Called(ctx, n)
	return args.Error(0)
}

func setupOutboxDispatchJob(t *testing.T) (*OutboxDispatchJob, *MockNotificationRepository, *MockSink) {
	repo := new(MockNotificationRepository)
	sink := new(MockSink)
	cfg := &config.Config{
		OutboxDispatchJobSchedule: "@every 1m",
		OutboxDispatchBatchSize:   50,
	}
	job := NewOutboxDispatchJob(repo, sink, zap.NewNop(), cfg)
	return job, repo, sink
}

func outboxRow(message string) notification.Notification {
	userID := uuid.New()
	return notification.Notification{
		ID:      uuid.New(),
		UserID:  &userID,
		Type:    notification.TransferStatusChanged,
		Message: message,
	}
}

func TestOutboxDispatchJob_RunOnce_DeliversAndMarksBatch(t *testing.T) {
	job, repo, sink := setupOutboxDispatchJob(t)
	ctx := context.Background()
	first := outboxRow("first")
	second := outboxRow("second")

	repo.On("FindUndispatched", ctx, 50).Return([]notification.Notification{first, second}, nil)
	sink.On("Deliver", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)
	repo.On("MarkDispatched", ctx, first.ID, mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("MarkDispatched", ctx, second.ID, mock.AnythingOfType("time.Time")).Return(nil)

	dispatched, err := job.RunOnce(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 2, dispatched)
	repo.AssertExpectations(t)
	sink.AssertExpectations(t)
}

func TestOutboxDispatchJob_RunOnce_FailedDeliveryStaysQueued(t *testing.T) {
	job, repo, sink := setupOutboxDispatchJob(t)
	ctx := context.Background()
	failing := outboxRow("failing")
	healthy := outboxRow("healthy")

	repo.On("FindUndispatched", ctx, 50).Return([]notification.Notification{failing, healthy}, nil)
	sink.On("Deliver", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.ID == failing.ID
	})).Return(errors.New("smtp unreachable"))
	sink.On("Deliver", ctx, mock.MatchedBy(func(n *notification.Notification) bool {
		return n.ID == healthy.ID
	})).Return(nil)
	repo.On("MarkDispatched", ctx, healthy.ID, mock.AnythingOfType("time.Time")).Return(nil)

	dispatched, err := job.RunOnce(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 1, dispatched)
	// The failed row is never marked; the next run picks it up again.
	repo.AssertNotCalled(t, "MarkDispatched", mock.Anything, failing.ID, mock.Anything)
}

func TestOutboxDispatchJob_RunOnce_MarkFailureDoesNotCount(t *testing.T) {
	job, repo, sink := setupOutboxDispatchJob(t)
	ctx := context.Background()
	row := outboxRow("delivered but unmarked")

	repo.On("FindUndispatched", ctx, 50).Return([]notification.Notification{row}, nil)
	sink.On("Deliver", ctx, mock.AnythingOfType("*notification.Notification")).Return(nil)
	repo.On("MarkDispatched", ctx, row.ID, mock.AnythingOfType("time.Time")).Return(common.ErrConflict.WithDetails("Notification already dispatched."))

	dispatched, err := job.RunOnce(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, dispatched)
}

func TestOutboxDispatchJob_RunOnce_FetchErrorPropagates(t *testing.T) {
	job, repo, sink := setupOutboxDispatchJob(t)
	ctx := context.Background()

	repo.On("FindUndispatched", ctx, 50).Return(nil, common.ErrStorage.WithDetails("db down"))

	dispatched, err := job.RunOnce(ctx)

	assert.Error(t, err)
	assert.Equal(t, 0, dispatched)
	sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}

func TestOutboxDispatchJob_RunOnce_EmptyOutbox(t *testing.T) {
	job, repo, sink := setupOutboxDispatchJob(t)
	ctx := context.Background()

	repo.On("FindUndispatched", ctx, 50).Return([]notification.Notification{}, nil)

	dispatched, err := job.RunOnce(ctx)

	assert.NoError(t, err)
	assert.Equal(t, 0, dispatched)
	sink.AssertNotCalled(t, "Deliver", mock.Anything, mock.Anything)
}
