package pet

import (
	"context"
	"testing"

	"pet_rescue_backend/internal/common"
	"pet_rescue_backend/internal/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

// MockPetRepository is a mock type for pet.Repository
type MockPetRepository struct {
	mock.Mock
}

func (m *MockPetRepository) Create(ctx context.Context, pet *Pet) error {
	args := m.Called(ctx, pet)
	if args.Error(0) == nil && pet.ID == uuid.Nil {
		pet.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *MockPetRepository) FindByID(ctx context.Context, id uuid.UUID) (*Pet, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Pet), args.Error(1)
}

func (m *MockPetRepository) Update(ctx context.Context, pet *Pet) error {
	args := m.Called(ctx, pet)
	return args.Error(0)
}

func (m *MockPetRepository) Search(ctx context.Context, query SearchQuery, page, pageSize int) ([]Pet, *common.Pagination, error) {
	args := m.Called(ctx, query, page, pageSize)
	var pets []Pet
	if args.Get(0) != nil {
		pets = args.Get(0).([]Pet)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return pets, pagination, args.Error(2)
}

func (m *MockPetRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page, pageSize int) ([]Pet, *common.Pagination, error) {
	args := m.Called(ctx, ownerID, page, pageSize)
	var pets []Pet
	if args.Get(0) != nil {
		pets = args.Get(0).([]Pet)
	}
	var pagination *common.Pagination
	if args.Get(1) != nil {
		pagination = args.Get(1).(*common.Pagination)
	}
	return pets, pagination, args.Error(2)
}

func (m *MockPetRepository) SoftDeleteCascade(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Test Suite Setup
type PetServiceTestSuite struct {
	service  Service
	mockRepo *MockPetRepository
	logger   *zap.Logger
}

func setupPetServiceTestSuite(t *testing.T) *PetServiceTestSuite {
	ts := &PetServiceTestSuite{}
	ts.mockRepo = new(MockPetRepository)
	ts.logger = zap.NewNop()

	ts.service = NewService(ts.mockRepo, ts.logger)
	return ts
}

func samplePet(ownerID uuid.UUID) *Pet {
	return &Pet{
		BaseModel: common.BaseModel{ID: uuid.New()},
		OwnerID:   ownerID,
		Name:      "Bantay",
		Type:      "Dog",
		Gender:    GenderMale,
	}
}

// --- Test Cases ---

func TestPetService_CreatePet_Success(t *testing.T) {
	ts := setupPetServiceTestSuite(t)
	ctx := context.Background()
	ownerID := uuid.New()

	ts.mockRepo.On("Create", ctx, mock.AnythingOfType("*pet.Pet")).Return(nil)

	created, err := ts.service.CreatePet(ctx, ownerID, CreatePetRequest{
		Name:   "Bantay",
		Type:   "Dog",
		Gender: GenderMale,
	})

	assert.NoError(t, err)
	assert.Equal(t, ownerID, created.OwnerID)
	assert.Equal(t, "Bantay", created.Name)
	ts.mockRepo.AssertExpectations(t)
}

func TestPetService_UpdatePet_OwnershipEnforced(t *testing.T) {
	ts := setupPetServiceTestSuite(t)
	ctx := context.Background()
	owner := uuid.New()
	stranger := uuid.New()
	p := samplePet(owner)
	newName := "Bantay Jr."

	ts.mockRepo.On("FindByID", ctx, p.ID).Return(p, nil)

	updated, err := ts.service.UpdatePet(ctx, stranger, shared.RoleUser, p.ID, UpdatePetRequest{Name: &newName})
	assert.Error(t, err)
	assert.Nil(t, updated)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	ts.mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)

	ts.mockRepo.On("Update", ctx, p).Return(nil)

	updated, err = ts.service.UpdatePet(ctx, owner, shared.RoleUser, p.ID, UpdatePetRequest{Name: &newName})
	assert.NoError(t, err)
	assert.Equal(t, newName, updated.Name)

	// An admin may update any pet.
	updated, err = ts.service.UpdatePet(ctx, stranger, shared.RoleAdmin, p.ID, UpdatePetRequest{Name: &newName})
	assert.NoError(t, err)
	assert.NotNil(t, updated)
}

func TestPetService_DeletePet_CascadeConflictPassesThrough(t *testing.T) {
	ts := setupPetServiceTestSuite(t)
	ctx := context.Background()
	owner := uuid.New()
	p := samplePet(owner)
	screeningConflict := common.ErrConflict.WithDetails("Pet has an adoption request in screening.")

	ts.mockRepo.On("FindByID", ctx, p.ID).Return(p, nil)
	ts.mockRepo.On("SoftDeleteCascade", ctx, p.ID).Return(screeningConflict)

	err := ts.service.DeletePet(ctx, owner, shared.RoleUser, p.ID)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrConflict.Code, apiErr.Code)
}

func TestPetService_DeletePet_StrangerForbidden(t *testing.T) {
	ts := setupPetServiceTestSuite(t)
	ctx := context.Background()
	p := samplePet(uuid.New())

	ts.mockRepo.On("FindByID", ctx, p.ID).Return(p, nil)

	err := ts.service.DeletePet(ctx, uuid.New(), shared.RoleUser, p.ID)

	assert.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, common.ErrForbidden.Code, apiErr.Code)
	ts.mockRepo.AssertNotCalled(t, "SoftDeleteCascade", mock.Anything, mock.Anything)
}

func TestPetService_SearchPets_PassesQueryThrough(t *testing.T) {
	ts := setupPetServiceTestSuite(t)
	ctx := context.Background()
	query := SearchQuery{Type: "Cat", Gender: GenderFemale}
	stored := []Pet{*samplePet(uuid.New())}
	pagination := common.NewPagination(1, 1, 10)

	ts.mockRepo.On("Search", ctx, query, 1, 10).Return(stored, pagination, nil)

	pets, gotPagination, err := ts.service.SearchPets(ctx, query, 1, 10)

	assert.NoError(t, err)
	assert.Equal(t, stored, pets)
	assert.Equal(t, pagination, gotPagination)
	ts.mockRepo.AssertExpectations(t)
}
