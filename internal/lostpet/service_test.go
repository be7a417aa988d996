package lostpet

import (
	"context"
	"testing"
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/notification"
	"pet_rescue_backend/internal/pet"
	"pet_rescue_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockLostPetRepository is a mock type for lostpet.Repository
type MockLostPetRepository struct {
	mock.Mock
}

func (m *MockLostPetRepository) CreateRecord(ctx context.Context, record *LostRecord) error {
	args := m.Called(ctx, record)
	if args.Error(0) == nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockLostPetRepository) FindRecordByID(ctx context.Context, id uuid.UUID) (*LostRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*LostRecord), args.Error(1)
}

func (m *MockLostPetRepository) SaveRecord(ctx context.Context, record *LostRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockLostPetRepository) ListRecords(ctx context.Context, query ListQuery, page, pageSize int) ([]LostRecord, *common.Pagination, error) {
	args := m.Called(ctx, query, page, pageSize)
	var records []LostRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]LostRecord)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return records, pagination, args.Error(2)
}

func (m *MockLostPetRepository) CountActiveRecordsForPet(ctx context.Context, petID uuid.UUID) (int64, error) {
	args := m.Called(ctx, petID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockLostPetRepository) CreateSighting(ctx context.Context, report *SightingReport) error {
	args := m.Called(ctx, report)
	if args.Error(0) == nil && report.ID == uuid.Nil {
		report.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockLostPetRepository) FindSightingByID(ctx context.Context, id uuid.UUID) (*SightingReport, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*SightingReport), args.Error(1)
}

func (m *MockLostPetRepository) ListSightings(ctx context.Context, lostRecordID uuid.UUID, page, pageSize int) ([]SightingReport, *common.Pagination, error) {
	args := m.Called(ctx, lostRecordID, page, pageSize)
	var reports []SightingReport
	if args.Get(0) != nil {
		reports = args.Get(0).([]SightingReport)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return reports, pagination, args.Error(2)
}

func (m *MockLostPetRepository) SetSightingMatched(ctx context.Context, id uuid.UUID, matched bool) error {
	args := m.Called(ctx, id, matched)
	return args.Error(0)
}

// MockPetService is a mock type for pet.Service
type MockPetService struct {
	mock.Mock
}

func (m *MockPetService) CreatePet(ctx context.Context, ownerID uuid.UUID, req pet.CreatePetRequest) (*pet.Pet, error) {
	args := m.Called(ctx, ownerID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pet.Pet), args.Error(1)
}

func (m *MockPetService) GetPetByID(ctx context.Context, id uuid.UUID) (*pet.Pet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pet.Pet), args.Error(1)
}

func (m *MockPetService) UpdatePet(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID, req pet.UpdatePetRequest) (*pet.Pet, error) {
	args := m.Called(ctx, actorID, actorRole, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pet.Pet), args.Error(1)
}

func (m *MockPetService) SearchPets(ctx context.Context, query pet.SearchQuery, page, pageSize int) ([]pet.Pet, *common.Pagination, error) {
	args := m.Called(ctx, query, page, pageSize)
	var pets []pet.Pet
	if args.Get(0) != nil {
		pets = args.Get(0).([]pet.Pet)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return pets, pagination, args.Error(2)
}

func (m *MockPetService) GetPetsByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]pet.Pet, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	var pets []pet.Pet
	if args.Get(0) != nil {
		pets = args.Get(0).([]pet.Pet)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return pets, pagination, args.Error(2)
}

func (m *MockPetService) DeletePet(ctx context.Context, actorID uuid.UUID, actorRole string, id uuid.UUID) error {
	args := m.Called(ctx, actorID, actorRole, id)
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
type LostPetServiceTestSuite struct {
	service         Service
	mockRepo        *MockLostPetRepository
	mockPetService  *MockPetService
	mockNotifSvc    *MockNotificationService
	mockUserService *MockSharedService
	logger          *zap.Logger
}

func setupLostPetServiceTestSuite(t *testing.T) *LostPetServiceTestSuite {
	ts := &LostPetServiceTestSuite{}
	ts.mockRepo = new(MockLostPetRepository)
	ts.mockPetService = new(MockPetService)
	ts.mockNotifSvc = new(MockNotificationService)
	ts.mockUserService = new(MockSharedService)
	ts.logger = zap.NewNop()

	ts.service = NewService(
		ts.mockRepo,
		ts.mockPetService,
		ts.mockNotifSvc,
		ts.mockUserService,
		ts.logger,
	)
	return ts
}

// --- Test Cases ---

func TestLostPetService_ReportLost_Success(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()
	petID := uuid.New()

	ts.mockPetService.On("GetPetByID", ctx, petID).Return(&pet.Pet{BaseModel: common.BaseModel{ID: petID}, Name: "Muning"}, nil)
	ts.mockRepo.On("CountActiveRecordsForPet", ctx, petID).Return(int64(0), nil)
	ts.mockRepo.On("CreateRecord", ctx, mock.AnythingOfType("*lostpet.LostRecord")).Return(nil)

	record, err := ts.service.ReportLost(ctx, ReportLostRequest{
		PetID:            petID,
		LastSeenLocation: "Quezon Memorial Circle",
		LastSeenDate:     time.Now().Add(-2 * time.Hour),
	})

	assert.NoError(t, err)
	assert.Equal(t, StatusReported, record.Status)
	ts.mockRepo.AssertExpectations(t)
}

func TestLostPetService_ReportLost_ActiveRecordConflict(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()
	petID := uuid.New()

	ts.mockPetService.On("GetPetByID", ctx, petID).Return(&pet.Pet{BaseModel: common.BaseModel{ID: petID}}, nil)
	ts.mockRepo.On("CountActiveRecordsForPet", ctx, petID).Return(int64(1), nil)

	record, err := ts.service.ReportLost(ctx, ReportLostRequest{
		PetID:            petID,
		LastSeenLocation: "Quezon Memorial Circle",
		LastSeenDate:     time.Now(),
	})

	assert.Error(t, err)
	assert.Nil(t, record)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
	ts.mockRepo.AssertNotCalled(t, "CreateRecord", mock.Anything, mock.Anything)
}

func TestLostPetService_UpdateStatus_ClosedSet(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()

	record, err := ts.service.UpdateStatus(ctx, uuid.New(), "MISSING")

	assert.Error(t, err)
	assert.Nil(t, record)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	ts.mockRepo.AssertNotCalled(t, "FindRecordByID", mock.Anything, mock.Anything)
}

func TestLostPetService_UpdateStatus_ResolvedIsTerminal(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()
	record := &LostRecord{
		BaseModel: common.BaseModel{ID: uuid.New()},
		PetID:     uuid.New(),
		Status:    StatusResolved,
	}

	ts.mockRepo.On("FindRecordByID", ctx, record.ID).Return(record, nil)

	updated, err := ts.service.UpdateStatus(ctx, record.ID, StatusSearching)

	assert.Error(t, err)
	assert.Nil(t, updated)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
	assert.Equal(t, StatusResolved, record.Status)
	ts.mockRepo.AssertNotCalled(t, "SaveRecord", mock.Anything, mock.Anything)
}

func TestLostPetService_UpdateStatus_Success(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()
	record := &LostRecord{
		BaseModel: common.BaseModel{ID: uuid.New()},
		PetID:     uuid.New(),
		Status:    StatusReported,
	}

	ts.mockRepo.On("FindRecordByID", ctx, record.ID).Return(record, nil)
	ts.mockRepo.On("SaveRecord", ctx, record).Return(nil)

	updated, err := ts.service.UpdateStatus(ctx, record.ID, StatusFound)

	assert.NoError(t, err)
	assert.Equal(t, StatusFound, updated.Status)
	ts.mockRepo.AssertExpectations(t)
}

func TestLostPetService_AddSighting_NotifiesOwner(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()
	ownerID := uuid.New()
	reporterID := uuid.New()
	record := &LostRecord{
		BaseModel: common.BaseModel{ID: uuid.New()},
		PetID:     uuid.New(),
		Status:    StatusSearching,
		Pet:       &pet.Pet{BaseModel: common.BaseModel{ID: uuid.New()}, OwnerID: ownerID, Name: "Muning"},
	}

	ts.mockRepo.On("FindRecordByID", ctx, record.ID).Return(record, nil)
	ts.mockRepo.On("CreateSighting", ctx, mock.AnythingOfType("*lostpet.SightingReport")).Return(nil)
	ts.mockUserService.On("GetUserByID", ctx, reporterID).Return(&shared.User{ID: reporterID, Email: "witness@example.com"}, nil)
	ts.mockUserService.On("GetUserByID", ctx, ownerID).Return(&shared.User{ID: ownerID, Email: "owner@example.com"}, nil)
	ts.mockNotifSvc.On("Enqueue", ctx, &ownerID, notification.SightingReported, mock.AnythingOfType("string"), mock.Anything).Run(func(args mock.Arguments) {
		payload := args.Get(4).(notification.Payload)
		assert.Equal(t, "Muning", payload["pet_name"])
		assert.Equal(t, "witness@example.com", payload["reporter_email"])
		assert.Equal(t, "owner@example.com", payload["owner_email"])
	}).Return(&notification.Notification{}, nil)

	report, err := ts.service.AddSighting(ctx, record.ID, reporterID, AddSightingRequest{
		Details:    "Spotted near the wet market.",
		Location:   "Kamuning Market",
		ReportDate: time.Now(),
	})

	assert.NoError(t, err)
	assert.False(t, report.IsMatched)
	assert.Equal(t, reporterID, report.ReporterID)
	ts.mockNotifSvc.AssertExpectations(t)
}

func TestLostPetService_AddSighting_NotificationFailureIsNotFatal(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()
	ownerID := uuid.New()
	reporterID := uuid.New()
	record := &LostRecord{
		BaseModel: common.BaseModel{ID: uuid.New()},
		PetID:     uuid.New(),
		Status:    StatusReported,
		Pet:       &pet.Pet{OwnerID: ownerID, Name: "Muning"},
	}

	ts.mockRepo.On("FindRecordByID", ctx, record.ID).Return(record, nil)
	ts.mockRepo.On("CreateSighting", ctx, mock.AnythingOfType("*lostpet.SightingReport")).Return(nil)
	ts.mockUserService.On("GetUserByID", ctx, mock.Anything).Return(&shared.User{ID: ownerID, Email: "owner@example.com"}, nil)
	ts.mockNotifSvc.On("Enqueue", ctx, mock.Anything, notification.SightingReported, mock.AnythingOfType("string"), mock.Anything).Return(nil, common.ErrInternalServer.WithDetails("Could not create notification."))

	report, err := ts.service.AddSighting(ctx, record.ID, reporterID, AddSightingRequest{
		Details:    "Spotted near the wet market.",
		Location:   "Kamuning Market",
		ReportDate: time.Now(),
	})

	assert.NoError(t, err)
	assert.NotNil(t, report)
}

func TestLostPetService_ListSightings_RecordMustExist(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()
	recordID := uuid.New()

	ts.mockRepo.On("FindRecordByID", ctx, recordID).Return(nil, common.ErrNotFound.WithDetails("Lost record not found."))

	reports, pagination, err := ts.service.ListSightings(ctx, recordID, 1, 10)

	assert.Error(t, err)
	assert.Nil(t, reports)
	assert.Nil(t, pagination)
	ts.mockRepo.AssertNotCalled(t, "ListSightings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestLostPetService_MarkMatched(t *testing.T) {
	ts := setupLostPetServiceTestSuite(t)
	ctx := context.Background()
	sightingID := uuid.New()

	ts.mockRepo.On("SetSightingMatched", ctx, sightingID, true).Return(nil)

	assert.NoError(t, ts.service.MarkMatched(ctx, sightingID, true))
	ts.mockRepo.AssertExpectations(t)
}
