package billing

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/directory"
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

// MockInvoiceRepository is a mock implementation of InvoiceRepository
type MockInvoiceRepository struct {
	mock.Mock
}

func (m *MockInvoiceRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByNumber(ctx context.Context, tenantID uuid.UUID, number string) (*billing.Invoice, error) {
	args := m.Called(ctx, tenantID, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) FindOverdue(ctx context.Context, tenantID uuid.UUID, asOf time.Time, filter shared.Filter) ([]billing.Invoice, error) {
	args := m.Called(ctx, tenantID, asOf, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Invoice), args.Error(1)
}

func (m *MockInvoiceRepository) Save(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithLock(ctx context.Context, invoice *billing.Invoice) error {
	args := m.Called(ctx, invoice)
	return args.Error(0)
}

func (m *MockInvoiceRepository) SaveWithPayment(ctx context.Context, invoice *billing.Invoice, payment *billing.Payment) error {
	args := m.Called(ctx, invoice, payment)
	return args.Error(0)
}

func (m *MockInvoiceRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockInvoiceRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Verify interface compliance
var _ billing.InvoiceRepository = (*MockInvoiceRepository)(nil)

// MockPaymentRepository is a mock implementation of PaymentRepository
type MockPaymentRepository struct {
	mock.Mock
}

func (m *MockPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*billing.Payment, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByInvoice(ctx context.Context, tenantID, invoiceID uuid.UUID) ([]billing.Payment, error) {
	args := m.Called(ctx, tenantID, invoiceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindByReference(ctx context.Context, tenantID uuid.UUID, reference string) (*billing.Payment, error) {
	args := m.Called(ctx, tenantID, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]billing.Payment, error) {
	args := m.Called(ctx, tenantID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]billing.Payment), args.Error(1)
}

func (m *MockPaymentRepository) Save(ctx context.Context, payment *billing.Payment) error {
	args := m.Called(ctx, payment)
	return args.Error(0)
}

func (m *MockPaymentRepository) CountForTenant(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).(int64), args.Error(1)
}

// Verify interface compliance
var _ billing.PaymentRepository = (*MockPaymentRepository)(nil)

// MockSequenceRepository is a mock implementation of SequenceRepository
type MockSequenceRepository struct {
	mock.Mock
}

func (m *MockSequenceRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, kind billing.DocumentKind) (int64, error) {
	args := m.Called(ctx, tenantID, kind)
	return args.Get(0).(int64), args.Error(1)
}

// Verify interface compliance
var _ billing.SequenceRepository = (*MockSequenceRepository)(nil)

// MockClientRepository is a mock implementation of directory.ClientRepository.
// Billing services only look clients up, so the write paths are simple passthroughs.
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

func newTestClientID() uuid.UUID {
	return uuid.MustParse("22222222-2222-2222-2222-222222222222")
}

func createTestClient(t *testing.T, tenantID uuid.UUID) *directory.Client {
	t.Helper()
	client, err := directory.NewClient(tenantID, "ACME-01", "Acme Residence", directory.ClientTypeCompany)
	require.NoError(t, err)
	return client
}

func createSentInvoice(t *testing.T, tenantID uuid.UUID) *billing.Invoice {
	t.Helper()
	invoice, err := billing.NewInvoice(tenantID, newTestClientID(), "INV-000001")
	require.NoError(t, err)
	require.NoError(t, invoice.AddItem("Labor", decimal.NewFromInt(4), decimal.NewFromInt(50)))
	require.NoError(t, invoice.Send())
	return invoice
}

func newInvoiceService() (*InvoiceService, *MockInvoiceRepository, *MockPaymentRepository, *MockSequenceRepository, *MockClientRepository) {
	invoiceRepo := new(MockInvoiceRepository)
	paymentRepo := new(MockPaymentRepository)
	sequenceRepo := new(MockSequenceRepository)
	clientRepo := new(MockClientRepository)
	service := NewInvoiceService(invoiceRepo, paymentRepo, sequenceRepo, clientRepo)
	return service, invoiceRepo, paymentRepo, sequenceRepo, clientRepo
}

// =============================================================================
// InvoiceService Tests
// =============================================================================

func TestInvoiceService_Create_Success(t *testing.T) {
	service, invoiceRepo, _, sequenceRepo, clientRepo := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	req := CreateInvoiceRequest{
		ClientID: newTestClientID(),
		Items: []LineItemRequest{
			{Description: "Labor", Quantity: decimal.NewFromInt(4), UnitPrice: decimal.NewFromInt(50)},
		},
	}

	clientRepo.On("FindByIDForTenant", ctx, tenantID, req.ClientID).Return(createTestClient(t, tenantID), nil)
	sequenceRepo.On("NextNumber", ctx, tenantID, billing.DocumentKindInvoice).Return(int64(7), nil)
	invoiceRepo.On("Save", ctx, mock.AnythingOfType("*billing.Invoice")).Return(nil)

	result, err := service.Create(ctx, tenantID, req)

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.Equal(t, "INV-000007", result.Number)
	assert.Equal(t, "draft", result.Status)
	assert.True(t, result.Total.Equal(decimal.NewFromInt(200)))
	invoiceRepo.AssertExpectations(t)
	sequenceRepo.AssertExpectations(t)
}

func TestInvoiceService_Create_ClientNotFound(t *testing.T) {
	service, invoiceRepo, _, _, clientRepo := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	req := CreateInvoiceRequest{ClientID: newTestClientID()}

	clientRepo.On("FindByIDForTenant", ctx, tenantID, req.ClientID).Return(nil, shared.ErrNotFound)

	result, err := service.Create(ctx, tenantID, req)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
	invoiceRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestInvoiceService_Send_Success(t *testing.T) {
	service, invoiceRepo, _, _, _ := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	invoice, err := billing.NewInvoice(tenantID, newTestClientID(), "INV-000002")
	require.NoError(t, err)
	require.NoError(t, invoice.AddItem("Labor", decimal.NewFromInt(1), decimal.NewFromInt(100)))

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)

	result, err := service.Send(ctx, tenantID, invoice.ID)

	assert.NoError(t, err)
	assert.Equal(t, "sent", result.Status)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Send_EmptyInvoice(t *testing.T) {
	service, invoiceRepo, _, _, _ := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	invoice, err := billing.NewInvoice(tenantID, newTestClientID(), "INV-000003")
	require.NoError(t, err)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, invoice.ID).Return(invoice, nil)

	result, err := service.Send(ctx, tenantID, invoice.ID)

	assert.Error(t, err)
	assert.Nil(t, result)
	invoiceRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestInvoiceService_RecordPayment_Success(t *testing.T) {
	service, invoiceRepo, _, _, _ := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	invoice := createSentInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("SaveWithPayment", ctx, invoice, mock.AnythingOfType("*billing.Payment")).Return(nil)

	result, err := service.RecordPayment(ctx, tenantID, invoice.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(50),
		Method: "cash",
	})

	assert.NoError(t, err)
	assert.NotNil(t, result)
	assert.True(t, result.Amount.Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "cash", result.Method)
	assert.Equal(t, billing.InvoiceStatusPartiallyPaid, invoice.Status)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_RecordPayment_DuplicateReference(t *testing.T) {
	service, invoiceRepo, paymentRepo, _, _ := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	invoiceID := uuid.New()
	existing, err := billing.NewPayment(tenantID, invoiceID, decimal.NewFromInt(50), billing.PaymentMethodCard, time.Now())
	require.NoError(t, err)
	require.NoError(t, existing.SetReference("pi_123"))

	paymentRepo.On("FindByReference", ctx, tenantID, "pi_123").Return(existing, nil)

	result, err := service.RecordPayment(ctx, tenantID, invoiceID, RecordPaymentRequest{
		Amount:    decimal.NewFromInt(50),
		Method:    "card",
		Reference: "pi_123",
	})

	assert.NoError(t, err)
	assert.Equal(t, existing.ID, result.ID)
	invoiceRepo.AssertNotCalled(t, "FindByIDForTenant", mock.Anything, mock.Anything, mock.Anything)
	invoiceRepo.AssertNotCalled(t, "SaveWithPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_RecordPayment_Overpayment(t *testing.T) {
	service, invoiceRepo, _, _, _ := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	invoice := createSentInvoice(t, tenantID) // total 200

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, invoice.ID).Return(invoice, nil)

	result, err := service.RecordPayment(ctx, tenantID, invoice.ID, RecordPaymentRequest{
		Amount: decimal.NewFromInt(500),
		Method: "cash",
	})

	assert.ErrorIs(t, err, shared.ErrOverpayment)
	assert.Nil(t, result)
	invoiceRepo.AssertNotCalled(t, "SaveWithPayment", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_Void_Success(t *testing.T) {
	service, invoiceRepo, _, _, _ := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	invoice := createSentInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, invoice.ID).Return(invoice, nil)
	invoiceRepo.On("SaveWithLock", ctx, invoice).Return(nil)

	result, err := service.Void(ctx, tenantID, invoice.ID)

	assert.NoError(t, err)
	assert.Equal(t, "void", result.Status)
	invoiceRepo.AssertExpectations(t)
}

func TestInvoiceService_Delete_NonDraft(t *testing.T) {
	service, invoiceRepo, _, _, _ := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	invoice := createSentInvoice(t, tenantID)

	invoiceRepo.On("FindByIDForTenant", ctx, tenantID, invoice.ID).Return(invoice, nil)

	err := service.Delete(ctx, tenantID, invoice.ID)

	assert.Error(t, err)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "CANNOT_DELETE", domainErr.Code)
	invoiceRepo.AssertNotCalled(t, "DeleteForTenant", mock.Anything, mock.Anything, mock.Anything)
}

func TestInvoiceService_ListPayments(t *testing.T) {
	service, _, paymentRepo, _, _ := newInvoiceService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	invoiceID := uuid.New()
	payment, err := billing.NewPayment(tenantID, invoiceID, decimal.NewFromInt(80), billing.PaymentMethodCheck, time.Now())
	require.NoError(t, err)

	paymentRepo.On("FindByInvoice", ctx, tenantID, invoiceID).Return([]billing.Payment{*payment}, nil)

	result, err := service.ListPayments(ctx, tenantID, invoiceID)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, "check", result[0].Method)
}
