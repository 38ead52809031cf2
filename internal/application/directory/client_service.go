package directory

import (
	"context"

	"github.com/fieldops/backend/internal/domain/directory"
	"github.com/fieldops/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ClientService handles client-related business operations
type ClientService struct {
	clientRepo  directory.ClientRepository
	contactRepo directory.ContactRepository
}

// NewClientService creates a new ClientService
func NewClientService(clientRepo directory.ClientRepository, contactRepo directory.ContactRepository) *ClientService {
	return &ClientService{
		clientRepo:  clientRepo,
		contactRepo: contactRepo,
	}
}

// Create creates a new client
func (s *ClientService) Create(ctx context.Context, tenantID uuid.UUID, req CreateClientRequest) (*ClientResponse, error) {
	exists, err := s.clientRepo.ExistsByCode(ctx, tenantID, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Client with this code already exists")
	}

	client, err := directory.NewClient(tenantID, req.Code, req.Name, directory.ClientType(req.Type))
	if err != nil {
		return nil, err
	}

	if req.Email != "" || req.Phone != "" {
		if err := client.SetContact(req.Email, req.Phone); err != nil {
			return nil, err
		}
	}

	if req.Address != "" || req.City != "" || req.State != "" || req.PostalCode != "" || req.Country != "" {
		if err := client.SetAddress(req.Address, req.City, req.State, req.PostalCode, req.Country); err != nil {
			return nil, err
		}
	}

	if req.TaxID != "" {
		if err := client.SetTaxID(req.TaxID); err != nil {
			return nil, err
		}
	}

	if req.Notes != "" {
		client.SetNotes(req.Notes)
	}

	if err := s.clientRepo.Save(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByID retrieves a client by ID
func (s *ClientService) GetByID(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// GetByCode retrieves a client by code
func (s *ClientService) GetByCode(ctx context.Context, tenantID uuid.UUID, code string) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByCode(ctx, tenantID, code)
	if err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// List retrieves clients with filtering and pagination
func (s *ClientService) List(ctx context.Context, tenantID uuid.UUID, filter ClientListFilter) ([]ClientListResponse, int64, error) {
	domainFilter := buildClientFilter(filter)

	clients, err := s.clientRepo.FindAllForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.clientRepo.CountForTenant(ctx, tenantID, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	return ToClientListResponses(clients), total, nil
}

// Update updates a client
func (s *ClientService) Update(ctx context.Context, tenantID, clientID uuid.UUID, req UpdateClientRequest) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if err := client.Update(*req.Name); err != nil {
			return nil, err
		}
	}

	if req.Email != nil || req.Phone != nil {
		email := client.Email
		phone := client.Phone
		if req.Email != nil {
			email = *req.Email
		}
		if req.Phone != nil {
			phone = *req.Phone
		}
		if err := client.SetContact(email, phone); err != nil {
			return nil, err
		}
	}

	if req.Address != nil || req.City != nil || req.State != nil || req.PostalCode != nil || req.Country != nil {
		address := client.Address
		city := client.City
		state := client.State
		postalCode := client.PostalCode
		country := client.Country

		if req.Address != nil {
			address = *req.Address
		}
		if req.City != nil {
			city = *req.City
		}
		if req.State != nil {
			state = *req.State
		}
		if req.PostalCode != nil {
			postalCode = *req.PostalCode
		}
		if req.Country != nil {
			country = *req.Country
		}

		if err := client.SetAddress(address, city, state, postalCode, country); err != nil {
			return nil, err
		}
	}

	if req.TaxID != nil {
		if err := client.SetTaxID(*req.TaxID); err != nil {
			return nil, err
		}
	}

	if req.Notes != nil {
		client.SetNotes(*req.Notes)
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Activate activates a client
func (s *ClientService) Activate(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	return s.transition(ctx, tenantID, clientID, (*directory.Client).Activate)
}

// Deactivate deactivates a client
func (s *ClientService) Deactivate(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	return s.transition(ctx, tenantID, clientID, (*directory.Client).Deactivate)
}

// Archive archives a client
func (s *ClientService) Archive(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	return s.transition(ctx, tenantID, clientID, (*directory.Client).Archive)
}

// Restore restores an archived client to inactive
func (s *ClientService) Restore(ctx context.Context, tenantID, clientID uuid.UUID) (*ClientResponse, error) {
	return s.transition(ctx, tenantID, clientID, (*directory.Client).Restore)
}

func (s *ClientService) transition(ctx context.Context, tenantID, clientID uuid.UUID, op func(*directory.Client) error) (*ClientResponse, error) {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return nil, err
	}

	if err := op(client); err != nil {
		return nil, err
	}

	if err := s.clientRepo.SaveWithLock(ctx, client); err != nil {
		return nil, err
	}

	response := ToClientResponse(client)
	return &response, nil
}

// Delete soft-deletes a client. Archived clients only, so a delete is
// always a deliberate two-step action.
func (s *ClientService) Delete(ctx context.Context, tenantID, clientID uuid.UUID) error {
	client, err := s.clientRepo.FindByIDForTenant(ctx, tenantID, clientID)
	if err != nil {
		return err
	}

	if !client.IsArchived() {
		return shared.NewDomainError("CANNOT_DELETE", "Only archived clients can be deleted")
	}

	return s.clientRepo.DeleteForTenant(ctx, tenantID, clientID)
}

func buildClientFilter(filter ClientListFilter) shared.Filter {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  make(map[string]any),
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.Type != "" {
		domainFilter.Filters["type"] = filter.Type
	}
	return domainFilter
}
