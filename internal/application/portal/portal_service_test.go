package portal

import (
	"context"
	"testing"
	"time"

	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/portal"
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

// MockSessionStore is a mock implementation of portal.SessionStore
type MockSessionStore struct {
	mock.Mock
}

func (m *MockSessionStore) Put(ctx context.Context, session *portal.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionStore) Get(ctx context.Context, token string) (*portal.Session, error) {
	args := m.Called(ctx, token)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portal.Session), args.Error(1)
}

func (m *MockSessionStore) Delete(ctx context.Context, token string) error {
	args := m.Called(ctx, token)
	return args.Error(0)
}

// Verify interface compliance
var _ portal.SessionStore = (*MockSessionStore)(nil)

// MockMessageRepository is a mock implementation of portal.MessageRepository
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) FindByID(ctx context.Context, id uuid.UUID) (*portal.Message, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*portal.Message), args.Error(1)
}

func (m *MockMessageRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]portal.Message, error) {
	args := m.Called(ctx, tenantID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]portal.Message), args.Error(1)
}

func (m *MockMessageRepository) CountUnreadForClient(ctx context.Context, tenantID, clientID uuid.UUID, sender portal.MessageSender) (int64, error) {
	args := m.Called(ctx, tenantID, clientID, sender)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockMessageRepository) Save(ctx context.Context, message *portal.Message) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// Verify interface compliance
var _ portal.MessageRepository = (*MockMessageRepository)(nil)

// MockContactRepository is a mock implementation of directory.ContactRepository
type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) FindByID(ctx context.Context, id uuid.UUID) (*directory.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByIDForTenant(ctx context.Context, tenantID, id uuid.UUID) (*directory.Contact, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*directory.Contact, error) {
	args := m.Called(ctx, tenantID, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*directory.Contact), args.Error(1)
}

func (m *MockContactRepository) FindByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter shared.Filter) ([]directory.Contact, error) {
	args := m.Called(ctx, tenantID, clientID, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]directory.Contact), args.Error(1)
}

func (m *MockContactRepository) Save(ctx context.Context, contact *directory.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *MockContactRepository) DeleteForTenant(ctx context.Context, tenantID, id uuid.UUID) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockContactRepository) CountByClient(ctx context.Context, tenantID, clientID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, clientID)
	return args.Get(0).(int64), args.Error(1)
}

// Verify interface compliance
var _ directory.ContactRepository = (*MockContactRepository)(nil)

// MockEstimateRepository is a mock implementation of billing.EstimateRepository
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

// MockInvoiceRepository is a mock implementation of billing.InvoiceRepository
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

// =============================================================================
// Test Helper Functions
// =============================================================================

func newTestTenantID() uuid.UUID {
	return uuid.MustParse("11111111-1111-1111-1111-111111111111")
}

func newPortalService() (*PortalService, *MockSessionStore, *MockMessageRepository, *MockContactRepository, *MockEstimateRepository, *MockInvoiceRepository) {
	sessionStore := new(MockSessionStore)
	messageRepo := new(MockMessageRepository)
	contactRepo := new(MockContactRepository)
	estimateRepo := new(MockEstimateRepository)
	invoiceRepo := new(MockInvoiceRepository)
	service := NewPortalService(sessionStore, messageRepo, contactRepo, estimateRepo, invoiceRepo, time.Hour)
	return service, sessionStore, messageRepo, contactRepo, estimateRepo, invoiceRepo
}

func createPortalContact(t *testing.T, tenantID uuid.UUID) *directory.Contact {
	t.Helper()
	contact, err := directory.NewContact(tenantID, uuid.New(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)
	require.NoError(t, contact.GrantPortalAccess())
	return contact
}

func createTestSession(t *testing.T, tenantID uuid.UUID) *portal.Session {
	t.Helper()
	session, err := portal.NewSession(tenantID, uuid.New(), uuid.New(), time.Hour)
	require.NoError(t, err)
	return session
}

// =============================================================================
// PortalService Tests
// =============================================================================

func TestPortalService_Login_Success(t *testing.T) {
	service, sessionStore, _, contactRepo, _, _ := newPortalService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	contact := createPortalContact(t, tenantID)

	contactRepo.On("FindByEmail", ctx, tenantID, "jane@example.com").Return(contact, nil)
	sessionStore.On("Put", ctx, mock.AnythingOfType("*portal.Session")).Return(nil)

	result, err := service.Login(ctx, tenantID, LoginRequest{Email: "jane@example.com"})

	assert.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, contact.ClientID, result.ClientID)
	assert.Equal(t, contact.ID, result.ContactID)
	sessionStore.AssertExpectations(t)
}

func TestPortalService_Login_UnknownEmail(t *testing.T) {
	service, sessionStore, _, contactRepo, _, _ := newPortalService()

	ctx := context.Background()
	tenantID := newTestTenantID()

	contactRepo.On("FindByEmail", ctx, tenantID, "ghost@example.com").Return(nil, shared.ErrNotFound)

	result, err := service.Login(ctx, tenantID, LoginRequest{Email: "ghost@example.com"})

	assert.Error(t, err)
	assert.Nil(t, result)
	var domainErr *shared.DomainError
	assert.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "UNAUTHORIZED", domainErr.Code)
	sessionStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestPortalService_Login_NoPortalAccess(t *testing.T) {
	service, sessionStore, _, contactRepo, _, _ := newPortalService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	contact, err := directory.NewContact(tenantID, uuid.New(), "Jane Doe", "jane@example.com")
	require.NoError(t, err)

	contactRepo.On("FindByEmail", ctx, tenantID, "jane@example.com").Return(contact, nil)

	result, err := service.Login(ctx, tenantID, LoginRequest{Email: "jane@example.com"})

	assert.Error(t, err)
	assert.Nil(t, result)
	sessionStore.AssertNotCalled(t, "Put", mock.Anything, mock.Anything)
}

func TestPortalService_Authenticate_Success(t *testing.T) {
	service, sessionStore, _, _, _, _ := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())

	sessionStore.On("Get", ctx, session.Token).Return(session, nil)

	result, err := service.Authenticate(ctx, session.Token)

	assert.NoError(t, err)
	assert.Equal(t, session.ContactID, result.ContactID)
}

func TestPortalService_Authenticate_EmptyToken(t *testing.T) {
	service, sessionStore, _, _, _, _ := newPortalService()

	result, err := service.Authenticate(context.Background(), "")

	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Nil(t, result)
	sessionStore.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestPortalService_Authenticate_Expired(t *testing.T) {
	service, sessionStore, _, _, _, _ := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())
	session.ExpiresAt = time.Now().Add(-time.Minute)

	sessionStore.On("Get", ctx, session.Token).Return(session, nil)
	sessionStore.On("Delete", ctx, session.Token).Return(nil)

	result, err := service.Authenticate(ctx, session.Token)

	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Nil(t, result)
	sessionStore.AssertCalled(t, "Delete", ctx, session.Token)
}

func TestPortalService_Authenticate_UnknownToken(t *testing.T) {
	service, sessionStore, _, _, _, _ := newPortalService()

	ctx := context.Background()
	sessionStore.On("Get", ctx, "bogus").Return(nil, shared.ErrNotFound)

	result, err := service.Authenticate(ctx, "bogus")

	assert.ErrorIs(t, err, ErrInvalidSession)
	assert.Nil(t, result)
}

func TestPortalService_GetEstimate_OtherClient(t *testing.T) {
	service, _, _, _, estimateRepo, _ := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())
	estimate, err := billing.NewEstimate(session.TenantID, uuid.New(), "EST-000001")
	require.NoError(t, err)

	estimateRepo.On("FindByIDForTenant", ctx, session.TenantID, estimate.ID).Return(estimate, nil)

	result, err := service.GetEstimate(ctx, session, estimate.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
}

func TestPortalService_AcceptEstimate_Success(t *testing.T) {
	service, _, _, _, estimateRepo, _ := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())
	estimate, err := billing.NewEstimate(session.TenantID, session.ClientID, "EST-000002")
	require.NoError(t, err)
	require.NoError(t, estimate.AddItem("Site survey", decimal.NewFromInt(1), decimal.NewFromInt(300)))
	require.NoError(t, estimate.Send())

	estimateRepo.On("FindByIDForTenant", ctx, session.TenantID, estimate.ID).Return(estimate, nil)
	estimateRepo.On("SaveWithLock", ctx, estimate).Return(nil)

	result, err := service.AcceptEstimate(ctx, session, estimate.ID)

	assert.NoError(t, err)
	assert.Equal(t, "accepted", result.Status)
	estimateRepo.AssertExpectations(t)
}

func TestPortalService_AcceptEstimate_OtherClient(t *testing.T) {
	service, _, _, _, estimateRepo, _ := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())
	estimate, err := billing.NewEstimate(session.TenantID, uuid.New(), "EST-000003")
	require.NoError(t, err)

	estimateRepo.On("FindByIDForTenant", ctx, session.TenantID, estimate.ID).Return(estimate, nil)

	result, err := service.AcceptEstimate(ctx, session, estimate.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
	estimateRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
}

func TestPortalService_GetInvoice_OtherClient(t *testing.T) {
	service, _, _, _, _, invoiceRepo := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())
	invoice, err := billing.NewInvoice(session.TenantID, uuid.New(), "INV-000001")
	require.NoError(t, err)

	invoiceRepo.On("FindByIDForTenant", ctx, session.TenantID, invoice.ID).Return(invoice, nil)

	result, err := service.GetInvoice(ctx, session, invoice.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
}

func TestPortalService_PostMessage_Success(t *testing.T) {
	service, _, messageRepo, _, _, _ := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())

	messageRepo.On("Save", ctx, mock.AnythingOfType("*portal.Message")).Return(nil)

	result, err := service.PostMessage(ctx, session, PostMessageRequest{Body: "When can you come out?"})

	assert.NoError(t, err)
	assert.Equal(t, "contact", result.Sender)
	assert.Equal(t, session.ClientID, result.ClientID)
	require.NotNil(t, result.ContactID)
	assert.Equal(t, session.ContactID, *result.ContactID)
	messageRepo.AssertExpectations(t)
}

func TestPortalService_StaffReply_Success(t *testing.T) {
	service, _, messageRepo, _, _, _ := newPortalService()

	ctx := context.Background()
	tenantID := newTestTenantID()
	clientID := uuid.New()
	staffID := uuid.New()

	messageRepo.On("Save", ctx, mock.AnythingOfType("*portal.Message")).Return(nil)

	result, err := service.StaffReply(ctx, tenantID, clientID, staffID, PostMessageRequest{Body: "Tuesday morning works."})

	assert.NoError(t, err)
	assert.Equal(t, "staff", result.Sender)
	require.NotNil(t, result.StaffID)
	assert.Equal(t, staffID, *result.StaffID)
}

func TestPortalService_MarkMessageRead_OtherClient(t *testing.T) {
	service, _, messageRepo, _, _, _ := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())
	message, err := portal.NewStaffMessage(session.TenantID, uuid.New(), uuid.New(), "Hello")
	require.NoError(t, err)

	messageRepo.On("FindByID", ctx, message.ID).Return(message, nil)

	result, err := service.MarkMessageRead(ctx, session, message.ID)

	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Nil(t, result)
	messageRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

func TestPortalService_CountUnread(t *testing.T) {
	service, _, messageRepo, _, _, _ := newPortalService()

	ctx := context.Background()
	session := createTestSession(t, newTestTenantID())

	messageRepo.On("CountUnreadForClient", ctx, session.TenantID, session.ClientID, portal.MessageSenderStaff).
		Return(int64(3), nil)

	count, err := service.CountUnread(ctx, session)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
