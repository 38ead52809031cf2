package directory

import (
	"context"
	"errors"

	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ContactService handles contact-related business operations
type ContactService struct {
	contactRepo directory.ContactRepository
	clientRepo  directory.ClientRepository
}

// NewContactService creates a new ContactService
func NewContactService(contactRepo directory.ContactRepository, clientRepo directory.ClientRepository) *ContactService {
	return &ContactService{
		contactRepo: contactRepo,
		clientRepo:  clientRepo,
	}
}

// Create creates a new contact under a client
func (s *ContactService) Create(ctx context.Context, tenantID, clientID uuid.UUID, req CreateContactRequest) (*ContactResponse, error) {
	// The client must exist and belong to the tenant.
	if _, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID); err != nil {
		return nil, err
	}

	if req.Email != "" {
		if err := s.checkEmailUnique(ctx, tenantID, req.Email); err != nil {
			return nil, err
		}
	}

	contact, err := directory.NewContact(tenantID, clientID, req.Name, req.Email)
	if err != nil {
		return nil, err
	}

	if req.Phone != "" || req.Role != "" {
		if err := contact.Update(contact.Name, contact.Email, req.Phone, req.Role); err != nil {
			return nil, err
		}
	}

	if req.PortalAccess {
		if err := contact.GrantPortalAccess(); err != nil {
			return nil, err
		}
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// GetByID retrieves a contact by ID
func (s *ContactService) GetByID(ctx context.Context, tenantID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// ListByClient retrieves a client's contacts
func (s *ContactService) ListByClient(ctx context.Context, tenantID, clientID uuid.UUID, filter ContactListFilter) ([]ContactResponse, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 50
	}

	contacts, err := s.contactRepo.FindByClient(ctx, tenantID, clientID, shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	})
	if err != nil {
		return nil, err
	}

	return ToContactResponses(contacts), nil
}

// Update updates a contact
func (s *ContactService) Update(ctx context.Context, tenantID, contactID uuid.UUID, req UpdateContactRequest) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}

	name := contact.Name
	email := contact.Email
	phone := contact.Phone
	role := contact.Role

	if req.Name != nil {
		name = *req.Name
	}
	if req.Email != nil {
		if *req.Email != "" && *req.Email != contact.Email {
			if err := s.checkEmailUnique(ctx, tenantID, *req.Email); err != nil {
				return nil, err
			}
		}
		email = *req.Email
	}
	if req.Phone != nil {
		phone = *req.Phone
	}
	if req.Role != nil {
		role = *req.Role
	}

	if err := contact.Update(name, email, phone, role); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// GrantPortalAccess enables portal sign-in for a contact
func (s *ContactService) GrantPortalAccess(ctx context.Context, tenantID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}

	if err := contact.GrantPortalAccess(); err != nil {
		return nil, err
	}

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// RevokePortalAccess disables portal sign-in for a contact
func (s *ContactService) RevokePortalAccess(ctx context.Context, tenantID, contactID uuid.UUID) (*ContactResponse, error) {
	contact, err := s.contactRepo.FindByIDForTenant(ctx, tenantID, contactID)
	if err != nil {
		return nil, err
	}

	contact.RevokePortalAccess()

	if err := s.contactRepo.Save(ctx, contact); err != nil {
		return nil, err
	}

	response := ToContactResponse(contact)
	return &response, nil
}

// Delete soft-deletes a contact
func (s *ContactService) Delete(ctx context.Context, tenantID, contactID uuid.UUID) error {
	return s.contactRepo.DeleteForTenant(ctx, tenantID, contactID)
}

// checkEmailUnique rejects an email already used by another contact in the
// tenant. Portal login resolves contacts by email, so duplicates would make
// login ambiguous.
func (s *ContactService) checkEmailUnique(ctx context.Context, tenantID uuid.UUID, email string) error {
	_, err := s.contactRepo.FindByEmail(ctx, tenantID, email)
	if err == nil {
		return shared.NewDomainError("ALREADY_EXISTS", "Contact with this email already exists")
	}
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	return err
}
