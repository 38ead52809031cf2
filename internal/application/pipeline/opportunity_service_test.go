package pipeline

import (
	"context"
	"testing"

	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/pipeline"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

// MockOpportunityRepository is a mock implementation of OpportunityRepository
type MockOpportunityRepository struct {
	mock.Mock
}

func (m *MockOpportunityRepository) FindByID(ctx context.Context, id uuid.UUID) (*pipeline.Opportunity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*pipeline.Opportunity, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*pipeline.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]pipeline.Opportunity, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindByStage(ctx context.Context, tenantID uuid.UUID, stage pipeline.Stage, filter shared.Filter) ([]pipeline.Opportunity, error) {
	args := m.Called(ctx, tenantID, stage, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]pipeline.Opportunity, error) {
	args := m.Called(ctx, tenantID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.Opportunity), args.Error(1)
}

func (m *MockOpportunityRepository) Save(ctx context.Context, opportunity *pipeline.Opportunity) error {
	args := m.Called(ctx, opportunity)
	return args.Error(0)
}

func (m *MockOpportunityRepository) SaveWithLock(ctx context.Context, opportunity *pipeline.Opportunity) error {
	args := m.Called(ctx, opportunity)
	return args.Error(0)
}

func (m *MockOpportunityRepository) SaveWithHistory(ctx context.Context, opportunity *pipeline.Opportunity, history *pipeline.StageHistory) error {
	args := m.Called(ctx, opportunity, history)
	return args.Error(0)
}

func (m *MockOpportunityRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockOpportunityRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Verify interface compliance
var _ pipeline.OpportunityRepository = (*MockOpportunityRepository)(nil)

// MockStageHistoryRepository is a mock implementation of StageHistoryRepository
type MockStageHistoryRepository struct {
	mock.Mock
}

func (m *MockStageHistoryRepository) FindByOpportunity(ctx context.Context, tenantID, opportunityID uuid.UUID) ([]pipeline.StageHistory, error) {
	args := m.Called(ctx, tenantID, opportunityID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]pipeline.StageHistory), args.Error(1)
}

// Verify interface compliance
var _ pipeline.StageHistoryRepository = (*MockStageHistoryRepository)(nil)

// MockClientRepository is a mock implementation of directory.ClientRepository
type MockClientRepository struct {
	mock.Mock
}

func (m *MockClientRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*directory.Client, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindByCode(ctx context.Context, tenantID uuid.UUID, code string) (*directory.Client, error) {
	args := m.Called(ctx, tenantID, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindByLegacyRef(ctx context.Context, tenantID uuid.UUID, ref string) (*directory.Client, error) {
	args := m.Called(ctx, tenantID, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Client), args.Error(1)
}

func (m *MockClientRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]directory.Client, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.Client), args.Error(1)
}

func (m *MockClientRepository) Save(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) SaveWithLock(ctx context.Context, client *directory.Client) error {
	args := m.Called(ctx, client)
	return args.Error(0)
}

func (m *MockClientRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockClientRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockClientRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

// Verify interface compliance
var _ directory.ClientRepository = (*MockClientRepository)(nil)

// =============================================================================
// Test Helper Functions
// =============================================================================

func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newOpportunityService() (*OpportunityService, *MockOpportunityRepository, *MockStageHistoryRepository, *MockClientRepository) {
	opportunityRepo := new(MockOpportunityRepository)
	historyRepo := new(MockStageHistoryRepository)
	clientRepo := new(MockClientRepository)
	service := NewOpportunityService(opportunityRepo, historyRepo, clientRepo)
	return service, opportunityRepo, historyRepo, clientRepo
}

func createTestOpportunity(t *testing.T, tenantID uuid.UUID) *pipeline.Opportunity {
	t.Helper()
	opportunity, err := pipeline.NewOpportunity(tenantID, uuid.New(), "HVAC replacement", decimal.NewFromInt(12000))
	require.NoError(t, err)
	return opportunity
}

// =============================================================================
// OpportunityService Tests
// =============================================================================

func TestOpportunityService_Create_Success(t *testing.T) {
	service, opportunityRepo, _, clientRepo := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	clientID := uuid.New()
	client, err := directory.NewClient(tenantID, "ACME-01", "Acme", directory.ClientTypeCompany)
	require.NoError(t, err)

	clientRepo.On("FindByIDForTenant", ctx, tenantID, clientID).Return(client, nil)
	opportunityRepo.On("Save", ctx, mock.AnythingOfType("*pipeline.Opportunity")).Return(nil)

	result, err := service.Create(ctx, tenantID, CreateOpportunityRequest{
		ClientID: clientID,
		Title:    "HVAC replacement",
		Value:    decimal.NewFromInt(12000),
	})

	assert.NoError(t, err)
	assert.Equal(t, "lead", result.Stage)
	assert.Equal(t, "HVAC replacement", result.Title)
	opportunityRepo.AssertExpectations(t)
}

func TestOpportunityService_Create_ClientNotFound(t *testing.T) {
	service, opportunityRepo, _, clientRepo := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	clientID := uuid.New()

	clientRepo.On("FindByIDForTenant", ctx, tenantID, clientID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, tenantID, CreateOpportunityRequest{
		ClientID: clientID,
		Title:    "HVAC replacement",
		Value:    decimal.NewFromInt(12000),
	})

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
	opportunityRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestOpportunityService_AdvanceStage_Success(t *testing.T) {
	service, opportunityRepo, _, _ := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	opportunity := createTestOpportunity(t, tenantID)
	actor := uuid.New()

	opportunityRepo.On("FindByIDForTenant", ctx, tenantID, opportunity.ID).Return(opportunity, nil)
	opportunityRepo.On("SaveWithHistory", ctx, opportunity, mock.AnythingOfType("*pipeline.StageHistory")).Return(nil)

	result, err := service.AdvanceStage(ctx, tenantID, opportunity.ID, AdvanceStageRequest{Stage: "qualified"}, &actor)

	assert.NoError(t, err)
	assert.Equal(t, "qualified", result.Stage)
	opportunityRepo.AssertExpectations(t)
}

func TestOpportunityService_AdvanceStage_SkippedStage(t *testing.T) {
	service, opportunityRepo, _, _ := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	opportunity := createTestOpportunity(t, tenantID)

	opportunityRepo.On("FindByIDForTenant", ctx, tenantID, opportunity.ID).Return(opportunity, nil)

	result, err := service.AdvanceStage(ctx, tenantID, opportunity.ID, AdvanceStageRequest{Stage: "negotiation"}, nil)

	assert.ErrorIs(t, err, shared.ErrInvalidTransition)
	assert.Nil(t, result)
	opportunityRepo.AssertNotCalled(t, "SaveWithHistory", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpportunityService_MarkLost_Success(t *testing.T) {
	service, opportunityRepo, _, _ := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	opportunity := createTestOpportunity(t, tenantID)

	var savedHistory *pipeline.StageHistory
	opportunityRepo.On("FindByIDForTenant", ctx, tenantID, opportunity.ID).Return(opportunity, nil)
	opportunityRepo.On("SaveWithHistory", ctx, opportunity, mock.AnythingOfType("*pipeline.StageHistory")).
		Run(func(args mock.Arguments) { savedHistory = args.Get(2).(*pipeline.StageHistory) }).
		Return(nil)

	result, err := service.MarkLost(ctx, tenantID, opportunity.ID, MarkLostRequest{Reason: "Went with a competitor"}, nil)

	assert.NoError(t, err)
	assert.Equal(t, "lost", result.Stage)
	require.NotNil(t, savedHistory)
	assert.Equal(t, pipeline.StageLead, savedHistory.FromStage)
	assert.Equal(t, pipeline.StageLost, savedHistory.ToStage)
	assert.Equal(t, "Went with a competitor", savedHistory.Reason)
}

func TestOpportunityService_MarkWon_WrongStage(t *testing.T) {
	service, opportunityRepo, _, _ := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	opportunity := createTestOpportunity(t, tenantID)

	opportunityRepo.On("FindByIDForTenant", ctx, tenantID, opportunity.ID).Return(opportunity, nil)

	result, err := service.MarkWon(ctx, tenantID, opportunity.ID, nil)

	assert.Error(t, err)
	assert.Nil(t, result)
	opportunityRepo.AssertNotCalled(t, "SaveWithHistory", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpportunityService_GetHistory(t *testing.T) {
	service, opportunityRepo, historyRepo, _ := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	opportunity := createTestOpportunity(t, tenantID)
	history, err := opportunity.AdvanceStage(pipeline.StageQualified, nil)
	require.NoError(t, err)

	opportunityRepo.On("FindByIDForTenant", ctx, tenantID, opportunity.ID).Return(opportunity, nil)
	historyRepo.On("FindByOpportunity", ctx, tenantID, opportunity.ID).Return([]pipeline.StageHistory{*history}, nil)

	result, err := service.GetHistory(ctx, tenantID, opportunity.ID)

	assert.NoError(t, err)
	require.Len(t, result, 1)
	assert.Equal(t, "lead", result[0].FromStage)
	assert.Equal(t, "qualified", result[0].ToStage)
}

func TestOpportunityService_Delete_OpenOpportunity(t *testing.T) {
	service, opportunityRepo, _, _ := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	opportunity := createTestOpportunity(t, tenantID)

	opportunityRepo.On("FindByIDForTenant", ctx, tenantID, opportunity.ID).Return(opportunity, nil)

	err := service.Delete(ctx, tenantID, opportunity.ID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DELETE", domainErr.Code)
	opportunityRepo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestOpportunityService_Delete_ClosedOpportunity(t *testing.T) {
	service, opportunityRepo, _, _ := newOpportunityService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	opportunity := createTestOpportunity(t, tenantID)
	_, err := opportunity.MarkLost("No budget", nil)
	require.NoError(t, err)

	opportunityRepo.On("FindByIDForTenant", ctx, tenantID, opportunity.ID).Return(opportunity, nil)
	opportunityRepo.On("DeleteForTenant", ctx, tenantID, opportunity.ID).Return(nil)

	err = service.Delete(ctx, tenantID, opportunity.ID)

	assert.NoError(t, err)
	opportunityRepo.AssertExpectations(t)
}
