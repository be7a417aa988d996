package transfer

import (
	"context"
	"testing"
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/notification"
	"pet_rescue_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockTransferRepository is a mock type for transfer.Repository
type MockTransferRepository struct {
	mock.Mock
}

func (m *MockTransferRepository) Transaction(ctx context.Context, fn func(r Repository) error) error {
	m.Called(ctx, fn)
	return fn(m)
}

func (m *MockTransferRepository) Create(ctx context.Context, transfer *Transfer) error {
	args := m.Called(ctx, transfer)
	if args.Error(0) == nil && transfer.ID == uuid.Nil {
		transfer.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockTransferRepository) FindByID(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transfer), args.Error(1)
}

func (m *MockTransferRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*Transfer, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Transfer), args.Error(1)
}

func (m *MockTransferRepository) Save(ctx context.Context, transfer *Transfer) error {
	args := m.Called(ctx, transfer)
	return args.Error(0)
}

func (m *MockTransferRepository) List(ctx context.Context, query ListQuery, page, pageSize int) ([]Transfer, *common.Pagination, error) {
	args := m.Called(ctx, query, page, pageSize)
	var transfers []Transfer
	if args.Get(0) != nil {
		transfers = args.Get(0).([]Transfer)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return transfers, pagination, args.Error(2)
}

func (m *MockTransferRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockNotificationService is a mock type for notification.Service
type MockNotificationService struct {
	mock.Mock
}

func (m *MockNotificationService) Enqueue(ctx context.Context, userID *uuid.UUID, notifType notification.Type, message string, payload notification.Payload) (*notification.Notification, error) {
	args := m.Called(ctx, userID, notifType, message, payload)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*notification.Notification), args.Error(1)
}

func (m *MockNotificationService) GetNotificationsForUser(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]notification.Notification, *common.Pagination, error) {
	args := m.Called(ctx, userID, page, pageSize)
	var notifs []notification.Notification
	if args.Get(0) != nil {
		notifs = args.Get(0).([]notification.Notification)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return notifs, pagination, args.Error(2)
}

func (m *MockNotificationService) MarkNotificationAsRead(ctx context.Context, notificationID, userID uuid.UUID) error {
	args := m.Called(ctx, notificationID, userID)
	return args.Error(0)
}

func (m *MockNotificationService) MarkAllUserNotificationsAsRead(ctx context.Context, userID uuid.UUID) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

// MockSharedService is a mock type for shared.Service
type MockSharedService struct {
	mock.Mock
}

func (m *MockSharedService) GetUserByID(ctx context.Context, id uuid.UUID) (*shared.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

func (m *MockSharedService) GetUserByEmail(ctx context.Context, email string) (*shared.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.User), args.Error(1)
}

// Test Suite Setup
type TransferServiceTestSuite struct {
	service         Service
	mockRepo        *MockTransferRepository
	mockNotifSvc    *MockNotificationService
	mockUserService *MockSharedService
	logger          *zap.Logger
}

func setupTransferServiceTestSuite(t *testing.T) *TransferServiceTestSuite {
	ts := &TransferServiceTestSuite{}
	ts.mockRepo = new(MockTransferRepository)
	ts.mockNotifSvc = new(MockNotificationService)
	ts.mockUserService = new(MockSharedService)
	ts.logger = zap.NewNop()

	ts.service = NewService(
		ts.mockRepo,
		ts.mockNotifSvc,
		ts.mockUserService,
		ts.logger,
	)
	return ts
}

func sampleTransfer(status string) *Transfer {
	return &Transfer{
		BaseModel:       common.BaseModel{ID: uuid.New()},
		UserID:          uuid.New(),
		BarangayName:    "Barangay Uno",
		Address:         "123 Mabini St",
		PetType:         PetTypeDog,
		RequestDatetime: time.Now().Add(24 * time.Hour),
		Status:          status,
	}
}

// --- Test Cases ---

func TestTransferService_CreateTransfer_StartsPending(t *testing.T) {
	ts := setupTransferServiceTestSuite(t)
	ctx := context.Background()
	userID := uuid.New()

	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*transfer.Transfer")).Return(nil)

	created, err := ts.service.CreateTransfer(ctx, userID, CreateTransferRequest{
		BarangayName:    "Barangay Dos",
		Address:         "456 Rizal Ave",
		PetType:         PetTypeCat,
		RequestDatetime: time.Now().Add(48 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusPending, created.Status)
	assert.Equal(t, userID, created.UserID)
	ts.mockRepo.AssertExpectations(t)
}

func TestTransferService_UpdateStatus_StepsForward(t *testing.T) {
	cases := []struct {
		from   string
		target string
	}{
		{StatusPending, StatusAccepted},
		{StatusPending, StatusCancelled},
		{StatusAccepted, StatusInProgress},
		{StatusAccepted, StatusCancelled},
		{StatusInProgress, StatusCompleted},
		{StatusInProgress, StatusCancelled},
	}
	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.target, func(t *testing.T) {
			ts := setupTransferServiceTestSuite(t)
			ctx := context.Background()
			tr := sampleTransfer(tc.from)

			ts.mockRepo.On("Transaction", ctx, mock.Anything).Return(nil)
			ts.mockRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)
			ts.mockRepo.On("Save", ctx, tr).Return(nil)
			ts.mockUserService.On("GetUserByID", ctx, tr.UserID).Return(&shared.User{ID: tr.UserID, Email: "requester@example.com"}, nil)
			ts.mockNotifSvc.On("Enqueue", ctx, &tr.UserID, notification.TransferStatusChanged, mock.AnythingOfType("string"), mock.Anything).Run(func(args mock.Arguments) {
				payload := args.Get(4).(notification.Payload)
				assert.Equal(t, tc.target, payload["status"])
				assert.Equal(t, "requester@example.com", payload["email"])
			}).Return(&notification.Notification{}, nil)

			result, err := ts.service.UpdateStatus(ctx, tr.ID, tc.target)

			assert.NoError(t, err)
			assert.Equal(t, tc.target, result.Status)
			ts.mockRepo.AssertExpectations(t)
			ts.mockNotifSvc.AssertExpectations(t)
		})
	}
}

func TestTransferService_UpdateStatus_SkippedStepIsConflict(t *testing.T) {
	cases := []struct {
		from   string
		target string
	}{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusCompleted},
		{StatusAccepted, StatusCompleted},
		{StatusInProgress, StatusAccepted},
	}
	for _, tc := range cases {
		t.Run(tc.from+"_to_"+tc.target, func(t *testing.T) {
			ts := setupTransferServiceTestSuite(t)
			ctx := context.Background()
			tr := sampleTransfer(tc.from)

			ts.mockRepo.On("Transaction", ctx, mock.Anything).Return(nil)
			ts.mockRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)

			result, err := ts.service.UpdateStatus(ctx, tr.ID, tc.target)

			assert.Error(t, err)
			assert.Nil(t, result)
			apiErr, ok := common.IsAPIError(err)
			assert.True(t, ok)
			assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
			assert.Equal(t, tc.from, tr.Status)
			ts.mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		})
	}
}

func TestTransferService_UpdateStatus_TerminalIsConflict(t *testing.T) {
	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		t.Run(terminal, func(t *testing.T) {
			ts := setupTransferServiceTestSuite(t)
			ctx := context.Background()
			tr := sampleTransfer(terminal)

			ts.mockRepo.On("Transaction", ctx, mock.Anything).Return(nil)
			ts.mockRepo.On("FindByIDForUpdate", ctx, tr.ID).Return(tr, nil)

			result, err := ts.service.UpdateStatus(ctx, tr.ID, StatusCancelled)

			assert.Error(t, err)
			assert.Nil(t, result)
			apiErr, ok := common.IsAPIError(err)
			assert.True(t, ok)
			assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
			assert.Equal(t, terminal, tr.Status)
		})
	}
}

func TestTransferService_UpdateStatus_UnknownStatusIsValidationError(t *testing.T) {
	ts := setupTransferServiceTestSuite(t)
	ctx := context.Background()

	result, err := ts.service.UpdateStatus(ctx, uuid.New(), "DELIVERED")

	assert.Error(t, err)
	assert.Nil(t, result)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	// The check runs before any row is touched.
	ts.mockRepo.AssertNotCalled(t, "Transaction", mock.Anything, mock.Anything)
	ts.mockRepo.AssertNotCalled(t, "FindByIDForUpdate", mock.Anything, mock.Anything)
}

func TestTransferService_UpdateTransfer_OwnershipAndTerminalGuards(t *testing.T) {
	ts := setupTransferServiceTestSuite(t)
	ctx := context.Background()
	tr := sampleTransfer(StatusPending)
	stranger := uuid.New()
	newBarangay := "Barangay Tres"

	ts.mockRepo.On("FindByID", ctx, tr.ID).Return(tr, nil)

	// A stranger without the admin role is rejected.
	result, err := ts.service.UpdateTransfer(ctx, stranger, shared.RoleUser, tr.ID, UpdateTransferRequest{BarangayName: &newBarangay})
	assert.Error(t, err)
	assert.Nil(t, result)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)

	// An admin may edit someone else's transfer.
	ts.mockRepo.On("Save", ctx, tr).Return(nil)
	result, err = ts.service.UpdateTransfer(ctx, stranger, shared.RoleAdmin, tr.ID, UpdateTransferRequest{BarangayName: &newBarangay})
	assert.NoError(t, err)
	assert.Equal(t, newBarangay, result.BarangayName)

	// A terminal transfer cannot be edited even by its owner.
	done := sampleTransfer(StatusCompleted)
	ts.mockRepo.On("FindByID", ctx, done.ID).Return(done, nil)
	result, err = ts.service.UpdateTransfer(ctx, done.UserID, shared.RoleUser, done.ID, UpdateTransferRequest{BarangayName: &newBarangay})
	assert.Error(t, err)
	assert.Nil(t, result)
	apiErr, ok = common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
}

func TestTransferService_DeleteTransfer_RequesterOnly(t *testing.T) {
	ts := setupTransferServiceTestSuite(t)
	ctx := context.Background()
	tr := sampleTransfer(StatusPending)

	ts.mockRepo.On("FindByID", ctx, tr.ID).Return(tr, nil)

	err := ts.service.DeleteTransfer(ctx, uuid.New(), shared.RoleUser, tr.ID)
	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	ts.mockRepo.AssertNotCalled(t, "SoftDelete", mock.Anything, mock.Anything)

	ts.mockRepo.On("SoftDelete", ctx, tr.ID).Return(nil)
	err = ts.service.DeleteTransfer(ctx, tr.UserID, shared.RoleUser, tr.ID)
	assert.NoError(t, err)
	ts.mockRepo.AssertExpectations(t)
}
