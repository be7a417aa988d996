package vaccination

import (
	"context"
	"testing"
	"time"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/pet"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockVaccinationRepository is a mock type for vaccination.Repository
type MockVaccinationRepository struct {
	mock.Mock
}

func (m *MockVaccinationRepository) Create(ctx context.Context, record *VaccinationRecord) error {
	args := m.Called(ctx, record)
	if args.Error(0) == nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockVaccinationRepository) FindByID(ctx context.Context, id uuid.UUID) (*VaccinationRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VaccinationRecord), args.Error(1)
}

func (m *MockVaccinationRepository) Save(ctx context.Context, record *VaccinationRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockVaccinationRepository) List(ctx context.Context, query ListQuery, page, pageSize int) ([]VaccinationRecord, *common.Pagination, error) {
	args := m.Called(ctx, query, page, pageSize)
	var records []VaccinationRecord
	if args.Get(0) != nil {
		records = args.Get(0).([]VaccinationRecord)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return records, pagination, args.Error(2)
}

func (m *MockVaccinationRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
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

// Test Suite Setup
type VaccinationServiceTestSuite struct {
	service        Service
	mockRepo       *MockVaccinationRepository
	mockPetService *MockPetService
	logger         *zap.Logger
}

func setupVaccinationServiceTestSuite(t *testing.T) *VaccinationServiceTestSuite {
	ts := &VaccinationServiceTestSuite{}
	ts.mockRepo = new(MockVaccinationRepository)
	ts.mockPetService = new(MockPetService)
	ts.logger = zap.NewNop()

	ts.service = NewService(ts.mockRepo, ts.mockPetService, ts.logger)
	return ts
}

// --- Test Cases ---

func TestVaccinationService_CreateRecord_Success(t *testing.T) {
	ts := setupVaccinationServiceTestSuite(t)
	ctx := context.Background()
	petID := uuid.New()

	ts.mockPetService.On("GetPetByID", ctx, petID).Return(&pet.Pet{BaseModel: common.BaseModel{ID: petID}}, nil)
	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*vaccination.VaccinationRecord")).Return(nil)

	record, err := ts.service.CreateRecord(ctx, CreateRecordRequest{
		PetID:            petID,
		VaccineType:      "Rabies",
		OwnerName:        "Maria Santos",
		Contact:          "0917-555-0101",
		AdministeredBy:   "Dr. Reyes",
		AdministeredDate: time.Now().AddDate(0, -1, 0),
	})

	assert.NoError(t, err)
	assert.NotNil(t, record)
	assert.Equal(t, "Rabies", record.VaccineType)
	ts.mockRepo.AssertExpectations(t)
	ts.mockPetService.AssertExpectations(t)
}

func TestVaccinationService_CreateRecord_UnknownVaccineType(t *testing.T) {
	ts := setupVaccinationServiceTestSuite(t)
	ctx := context.Background()

	record, err := ts.service.CreateRecord(ctx, CreateRecordRequest{
		PetID:            uuid.New(),
		VaccineType:      "Tetanus",
		OwnerName:        "Maria Santos",
		Contact:          "0917-555-0101",
		AdministeredBy:   "Dr. Reyes",
		AdministeredDate: time.Now(),
	})

	assert.Error(t, err)
	assert.Nil(t, record)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, "VALIDATION_ERROR", apiErr.Code)
	ts.mockPetService.AssertNotCalled(t, "GetPetByID", mock.Anything, mock.Anything)
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVaccinationService_CreateRecord_PetNotFound(t *testing.T) {
	ts := setupVaccinationServiceTestSuite(t)
	ctx := context.Background()
	petID := uuid.New()

	ts.mockPetService.On("GetPetByID", ctx, petID).Return(nil, common.ErrNotFound.WithDetails("Pet not found."))

	record, err := ts.service.CreateRecord(ctx, CreateRecordRequest{
		PetID:            petID,
		VaccineType:      "Distemper",
		OwnerName:        "Maria Santos",
		Contact:          "0917-555-0101",
		AdministeredBy:   "Dr. Reyes",
		AdministeredDate: time.Now(),
	})

	assert.Error(t, err)
	assert.Nil(t, record)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrNotFound.Code, apiErr.Code)
	ts.mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestVaccinationService_UpdateRecord_OnlyNotesAndExpirationChange(t *testing.T) {
	ts := setupVaccinationServiceTestSuite(t)
	ctx := context.Background()
	administered := time.Now().AddDate(0, -6, 0)
	record := &VaccinationRecord{
		BaseModel:        common.BaseModel{ID: uuid.New()},
		PetID:            uuid.New(),
		VaccineType:      "Parvovirus",
		OwnerName:        "Maria Santos",
		Contact:          "0917-555-0101",
		AdministeredBy:   "Dr. Reyes",
		AdministeredDate: administered,
	}

	ts.mockRepo.On("FindByID", ctx, record.ID).Return(record, nil)
	ts.mockRepo.On("Save", ctx, record).Return(nil)

	expiration := administered.AddDate(1, 0, 0)
	notes := "Annual booster scheduled."
	updated, err := ts.service.UpdateRecord(ctx, record.ID, UpdateRecordRequest{
		ExpirationDate: &expiration,
		Notes:          &notes,
	})

	assert.NoError(t, err)
	assert.Equal(t, &expiration, updated.ExpirationDate)
	assert.Equal(t, &notes, updated.Notes)
	// History fields stay as written.
	assert.Equal(t, "Parvovirus", updated.VaccineType)
	assert.Equal(t, administered, updated.AdministeredDate)
	ts.mockRepo.AssertExpectations(t)
}

func TestVaccinationService_DeleteRecord(t *testing.T) {
	ts := setupVaccinationServiceTestSuite(t)
	ctx := context.Background()
	recordID := uuid.New()

	ts.mockRepo.On("SoftDelete", ctx, recordID).Return(nil)

	assert.NoError(t, ts.service.DeleteRecord(ctx, recordID))
	ts.mockRepo.AssertExpectations(t)
}
