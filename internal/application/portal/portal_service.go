package portal

import (
	"context"
	"errors"
	"time"

	appbilling "github.com/fieldops/backend/internal/application/billing"
	"github.com/fieldops/backend/internal/domain/billing"
	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/portal"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ErrInvalidSession is returned when a portal token is unknown or expired
var ErrInvalidSession = shared.NewDomainError("INVALID_SESSION", "Portal session is invalid or expired")

// PortalService handles client-portal sessions and the read/respond
// operations available to portal contacts
type PortalService struct {
	sessionStore portal.SessionStore
	messageRepo  portal.MessageRepository
	contactRepo  directory.ContactRepository
	estimateRepo billing.EstimateRepository
	invoiceRepo  billing.InvoiceRepository
	sessionTTL   time.Duration
}

// NewPortalService creates a new PortalService
func NewPortalService(
	sessionStore portal.SessionStore,
	messageRepo portal.MessageRepository,
	contactRepo directory.ContactRepository,
	estimateRepo billing.EstimateRepository,
	invoiceRepo billing.InvoiceRepository,
	sessionTTL time.Duration,
) *PortalService {
	return &PortalService{
		sessionStore: sessionStore,
		messageRepo:  messageRepo,
		contactRepo:  contactRepo,
		estimateRepo: estimateRepo,
		invoiceRepo:  invoiceRepo,
		sessionTTL:   sessionTTL,
	}
}

// Login resolves the contact by email and mints a portal session. The same
// generic error covers unknown emails and contacts without portal access.
func (s *PortalService) Login(ctx context.Context, tenantID uuid.UUID, req LoginRequest) (*LoginResponse, error) {
	contact, err := s.contactRepo.FindByEmail(ctx, tenantID, req.Email)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("UNAUTHORIZED", "Portal access denied")
		}
		return nil, err
	}
	if !contact.HasPortalAccess() {
		return nil, shared.NewDomainError("UNAUTHORIZED", "Portal access denied")
	}

	session, err := portal.NewSession(tenantID, contact.ID, contact.ClientID, s.sessionTTL)
	if err != nil {
		return nil, err
	}

	if err := s.sessionStore.Put(ctx, session); err != nil {
		return nil, err
	}

	return &LoginResponse{
		Token:     session.Token,
		ClientID:  session.ClientID,
		ContactID: session.ContactID,
		ExpiresAt: session.ExpiresAt,
	}, nil
}

// Logout deletes the session behind the token. Unknown tokens are ignored.
func (s *PortalService) Logout(ctx context.Context, token string) error {
	return s.sessionStore.Delete(ctx, token)
}

// Authenticate resolves a portal token to its session
func (s *PortalService) Authenticate(ctx context.Context, token string) (*portal.Session, error) {
	if token == "" {
		return nil, ErrInvalidSession
	}

	session, err := s.sessionStore.Get(ctx, token)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	if session.IsExpired(time.Now()) {
		_ = s.sessionStore.Delete(ctx, token)
		return nil, ErrInvalidSession
	}

	return session, nil
}

// ListEstimates retrieves the estimates belonging to the session's client
func (s *PortalService) ListEstimates(ctx context.Context, session *portal.Session, filter MessageListFilter) ([]appbilling.EstimateResponse, error) {
	estimates, err := s.estimateRepo.FindByClient(ctx, session.TenantID, session.ClientID, buildPortalFilter(filter))
	if err != nil {
		return nil, err
	}
	return appbilling.ToEstimateResponses(estimates), nil
}

// GetEstimate retrieves one of the client's estimates with its line items
func (s *PortalService) GetEstimate(ctx context.Context, session *portal.Session, estimateID uuid.UUID) (*appbilling.EstimateResponse, error) {
	estimate, err := s.findClientEstimate(ctx, session, estimateID)
	if err != nil {
		return nil, err
	}

	response := appbilling.ToEstimateResponse(estimate)
	return &response, nil
}

// AcceptEstimate accepts a sent estimate on behalf of the client
func (s *PortalService) AcceptEstimate(ctx context.Context, session *portal.Session, estimateID uuid.UUID) (*appbilling.EstimateResponse, error) {
	return s.estimateDecision(ctx, session, estimateID, (*billing.Estimate).Accept)
}

// DeclineEstimate declines a sent estimate on behalf of the client
func (s *PortalService) DeclineEstimate(ctx context.Context, session *portal.Session, estimateID uuid.UUID) (*appbilling.EstimateResponse, error) {
	return s.estimateDecision(ctx, session, estimateID, (*billing.Estimate).Decline)
}

func (s *PortalService) estimateDecision(ctx context.Context, session *portal.Session, estimateID uuid.UUID, op func(*billing.Estimate) error) (*appbilling.EstimateResponse, error) {
	estimate, err := s.findClientEstimate(ctx, session, estimateID)
	if err != nil {
		return nil, err
	}

	if err := op(estimate); err != nil {
		return nil, err
	}

	if err := s.estimateRepo.SaveWithLock(ctx, estimate); err != nil {
		return nil, err
	}

	response := appbilling.ToEstimateResponse(estimate)
	return &response, nil
}

// findClientEstimate loads an estimate and hides documents of other clients
// behind a not-found error.
func (s *PortalService) findClientEstimate(ctx context.Context, session *portal.Session, estimateID uuid.UUID) (*billing.Estimate, error) {
	estimate, err := s.estimateRepo.FindByIDForTenant(ctx, session.TenantID, estimateID)
	if err != nil {
		return nil, err
	}
	if estimate.ClientID != session.ClientID {
		return nil, shared.ErrNotFound
	}
	return estimate, nil
}

// ListInvoices retrieves the invoices belonging to the session's client
func (s *PortalService) ListInvoices(ctx context.Context, session *portal.Session, filter MessageListFilter) ([]appbilling.InvoiceResponse, error) {
	invoices, err := s.invoiceRepo.FindByClient(ctx, session.TenantID, session.ClientID, buildPortalFilter(filter))
	if err != nil {
		return nil, err
	}
	return appbilling.ToInvoiceResponses(invoices), nil
}

// GetInvoice retrieves one of the client's invoices with its line items
func (s *PortalService) GetInvoice(ctx context.Context, session *portal.Session, invoiceID uuid.UUID) (*appbilling.InvoiceResponse, error) {
	invoice, err := s.invoiceRepo.FindByIDForTenant(ctx, session.TenantID, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.ClientID != session.ClientID {
		return nil, shared.ErrNotFound
	}

	response := appbilling.ToInvoiceResponse(invoice)
	return &response, nil
}

// ListMessages retrieves the client's message thread, oldest first
func (s *PortalService) ListMessages(ctx context.Context, session *portal.Session, filter MessageListFilter) ([]MessageResponse, error) {
	messages, err := s.messageRepo.FindByClient(ctx, session.TenantID, session.ClientID, buildPortalFilter(filter))
	if err != nil {
		return nil, err
	}
	return ToMessageResponses(messages), nil
}

// PostMessage appends a contact-authored message to the client's thread
func (s *PortalService) PostMessage(ctx context.Context, session *portal.Session, req PostMessageRequest) (*MessageResponse, error) {
	message, err := portal.NewContactMessage(session.TenantID, session.ClientID, session.ContactID, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.Save(ctx, message); err != nil {
		return nil, err
	}

	response := ToMessageResponse(message)
	return &response, nil
}

// StaffReply appends a staff-authored message to a client's thread
func (s *PortalService) StaffReply(ctx context.Context, tenantID, clientID, staffID uuid.UUID, req PostMessageRequest) (*MessageResponse, error) {
	message, err := portal.NewStaffMessage(tenantID, clientID, staffID, req.Body)
	if err != nil {
		return nil, err
	}

	if err := s.messageRepo.Save(ctx, message); err != nil {
		return nil, err
	}

	response := ToMessageResponse(message)
	return &response, nil
}

// MarkMessageRead records that the portal contact read a staff message
func (s *PortalService) MarkMessageRead(ctx context.Context, session *portal.Session, messageID uuid.UUID) (*MessageResponse, error) {
	message, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message.TenantID != session.TenantID || message.ClientID != session.ClientID {
		return nil, shared.ErrNotFound
	}

	message.MarkRead(time.Now())
	if err := s.messageRepo.Save(ctx, message); err != nil {
		return nil, err
	}

	response := ToMessageResponse(message)
	return &response, nil
}

// CountUnread counts staff messages the client has not read yet
func (s *PortalService) CountUnread(ctx context.Context, session *portal.Session) (int64, error) {
	return s.messageRepo.CountUnreadForClient(ctx, session.TenantID, session.ClientID, portal.MessageSenderStaff)
}

func buildPortalFilter(filter MessageListFilter) shared.Filter {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
	}
	if domainFilter.Page == 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize == 0 {
		domainFilter.PageSize = 20
	}
	return domainFilter
}
