package billing

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEstimateRepository is a mock implementation of EstimateRepository
type MockEstimateRepository struct {
	mock.Mock
}

func (m *MockEstimateRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Estimate, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Estimate), args.Error(1)
}

func (m *MockEstimateRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Estimate, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Estimate), args.Error(1)
}

func (m *MockEstimateRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Estimate, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Estimate), args.Error(1)
}

func (m *MockEstimateRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Estimate, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Estimate), args.Error(1)
}

func (m *MockEstimateRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]billing.Estimate, error) {
	args := m.Called(ctx, tenantID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Estimate), args.Error(1)
}

func (m *MockEstimateRepository) Save(ctx context.Context, estimate *billing.Estimate) error {
	args := m.Called(ctx, estimate)
	return args.Error(0)
}

func (m *MockEstimateRepository) SaveWithLock(ctx context.Context, estimate *billing.Estimate) error {
	args := m.Called(ctx, estimate)
	return args.Error(0)
}

func (m *MockEstimateRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockEstimateRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Verify interface compliance
var _ billing.EstimateRepository = (*MockEstimateRepository)(nil)

func newEstimateService() (*EstimateService, *MockEstimateRepository, *MockInvoiceRepository, *MockSequenceRepository, *MockClientRepository) {
	estimateRepo := new(MockEstimateRepository)
	invoiceRepo := new(MockInvoiceRepository)
	sequenceRepo := new(MockSequenceRepository)
	clientRepo := new(MockClientRepository)
	service := NewEstimateService(estimateRepo, invoiceRepo, sequenceRepo, clientRepo)
	return service, estimateRepo, invoiceRepo, sequenceRepo, clientRepo
}

func createAcceptedEstimate(t *testing.T, tenantID uuid.UUID) *billing.Estimate {
	t.Helper()
	estimate, err := billing.NewEstimate(tenantID, newTestClientID(), "EST-000001")
	require.NoError(t, err)
	require.NoError(t, estimate.AddItem("Site survey", decimal.NewFromInt(1), decimal.NewFromInt(300)))
	require.NoError(t, estimate.Send())
	require.NoError(t, estimate.Accept())
	return estimate
}

// =============================================================================
// EstimateService Tests
// =============================================================================

func TestEstimateService_Create_Success(t *testing.T) {
	service, estimateRepo, _, sequenceRepo, clientRepo := newEstimateService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	taxRate := decimal.NewFromInt(10)
	req := CreateEstimateRequest{
		ClientID: newTestClientID(),
		Items: []LineItemRequest{
			{Description: "Labor", Quantity: decimal.NewFromInt(8), UnitPrice: decimal.NewFromInt(75)},
		},
		TaxRate: &taxRate,
	}

	clientRepo.On("FindByIDForTenant", ctx, tenantID, req.ClientID).Return(createTestClient(t, tenantID), nil)
	sequenceRepo.On("NextNumber", ctx, tenantID, billing.DocumentKindEstimate).Return(int64(3), nil)
	estimateRepo.On("Save", ctx, mock.AnythingOfType("*billing.Estimate")).Return(nil)

	result, err := service.Create(ctx, tenantID, req)

	assert.NoError(t, err)
	assert.Equal(t, "EST-000003", result.Number)
	assert.Equal(t, "draft", result.Status)
	assert.True(t, result.Subtotal.Equal(decimal.NewFromInt(600)))
	assert.True(t, result.TaxAmount.Equal(decimal.NewFromInt(60)))
	estimateRepo.AssertExpectations(t)
}

func TestEstimateService_Create_ClientNotFound(t *testing.T) {
	service, estimateRepo, _, _, clientRepo := newEstimateService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	req := CreateEstimateRequest{ClientID: newTestClientID()}

	clientRepo.On("FindByIDForTenant", ctx, tenantID, req.ClientID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, tenantID, req)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
	estimateRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEstimateService_Accept_Success(t *testing.T) {
	service, estimateRepo, _, _, _ := newEstimateService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	estimate, err := billing.NewEstimate(tenantID, newTestClientID(), "EST-000002")
	require.NoError(t, err)
	require.NoError(t, estimate.AddItem("Labor", decimal.NewFromInt(1), decimal.NewFromInt(100)))
	require.NoError(t, estimate.Send())

	estimateRepo.On("FindByIDForTenant", ctx, tenantID, estimate.ID).Return(estimate, nil)
	estimateRepo.On("SaveWithLock", ctx, estimate).Return(nil)

	result, err := service.Accept(ctx, tenantID, estimate.ID)

	assert.NoError(t, err)
	assert.Equal(t, "accepted", result.Status)
	estimateRepo.AssertExpectations(t)
}

func TestEstimateService_ConvertToInvoice_Success(t *testing.T) {
	service, estimateRepo, invoiceRepo, sequenceRepo, _ := newEstimateService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	estimate := createAcceptedEstimate(t, tenantID)

	estimateRepo.On("FindByIDForTenant", ctx, tenantID, estimate.ID).Return(estimate, nil)
	sequenceRepo.On("NextNumber", ctx, tenantID, billing.DocumentKindInvoice).Return(int64(9), nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	result, err := service.ConvertToInvoice(ctx, tenantID, estimate.ID)

	assert.NoError(t, err)
	assert.Equal(t, "INV-000009", result.Number)
	assert.Equal(t, "draft", result.Status)
	require.NotNil(t, result.EstimateID)
	assert.Equal(t, estimate.ID, *result.EstimateID)
	assert.True(t, result.Total.Equal(estimate.Total))
	invoiceRepo.AssertExpectations(t)
}

func TestEstimateService_ConvertToInvoice_NotAccepted(t *testing.T) {
	service, estimateRepo, invoiceRepo, sequenceRepo, _ := newEstimateService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	estimate, err := billing.NewEstimate(tenantID, newTestClientID(), "EST-000004")
	require.NoError(t, err)
	require.NoError(t, estimate.AddItem("Labor", decimal.NewFromInt(1), decimal.NewFromInt(100)))
	require.NoError(t, estimate.Send())

	estimateRepo.On("FindByIDForTenant", ctx, tenantID, estimate.ID).Return(estimate, nil)
	sequenceRepo.On("NextNumber", ctx, tenantID, billing.DocumentKindInvoice).Return(int64(10), nil)

	result, err := service.ConvertToInvoice(ctx, tenantID, estimate.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestEstimateService_ExpireStale(t *testing.T) {
	service, estimateRepo, _, _, _ := newEstimateService()

	ctx := context.Background()
	tenantID := newTestTenantID()

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)

	stale, err := billing.NewEstimate(tenantID, newTestClientID(), "EST-000005")
	require.NoError(t, err)
	require.NoError(t, stale.AddItem("Labor", decimal.NewFromInt(1), decimal.NewFromInt(100)))
	require.NoError(t, stale.Send())
	stale.ExpiryDate = &past

	fresh, err := billing.NewEstimate(tenantID, newTestClientID(), "EST-000006")
	require.NoError(t, err)
	require.NoError(t, fresh.AddItem("Labor", decimal.NewFromInt(1), decimal.NewFromInt(100)))
	require.NoError(t, fresh.Send())
	fresh.ExpiryDate = &future

	estimateRepo.On("FindAllForTenant", ctx, tenantID, mock.AnythingOfType("shared.Filter")).
		Return([]billing.Estimate{*stale, *fresh}, nil)
	estimateRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*billing.Estimate")).Return(nil)

	expired, err := service.ExpireStale(ctx, tenantID)

	assert.NoError(t, err)
	assert.Equal(t, 1, expired)
	estimateRepo.AssertNumberOfCalls(t, "SaveWithLock", 1)
}

func TestEstimateService_ExpireStale_WalksAllPages(t *testing.T) {
	service, estimateRepo, _, _, _ := newEstimateService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	past := time.Now().Add(-time.Hour)

	newStale := func(number string) billing.Estimate {
		estimate, err := billing.NewEstimate(tenantID, newTestClientID(), number)
		require.NoError(t, err)
		require.NoError(t, estimate.AddItem("Labor", decimal.NewFromInt(1), decimal.NewFromInt(100)))
		require.NoError(t, estimate.Send())
		estimate.ExpiryDate = &past
		return *estimate
	}

	// A full first page means more rows may follow; the sweep must keep
	// paging until it sees a short page
	firstPage := make([]billing.Estimate, 0, 200)
	for i := 0; i < 200; i++ {
		firstPage = append(firstPage, newStale(fmt.Sprintf("EST-%06d", i+1)))
	}
	secondPage := []billing.Estimate{newStale("EST-000201")}

	estimateRepo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 1
	})).Return(firstPage, nil).Once()
	estimateRepo.On("FindAllForTenant", ctx, tenantID, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Page == 2
	})).Return(secondPage, nil).Once()
	estimateRepo.On("SaveWithLock", ctx, mock.AnythingOfType("*billing.Estimate")).Return(nil)

	expired, err := service.ExpireStale(ctx, tenantID)

	assert.NoError(t, err)
	assert.Equal(t, 201, expired)
	estimateRepo.AssertNumberOfCalls(t, "SaveWithLock", 201)
	estimateRepo.AssertExpectations(t)
}
