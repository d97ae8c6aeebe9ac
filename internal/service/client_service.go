package service

import (
	"context"
	"fmt"
	"time"

	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const defaultClientAddress = "N/A"

// ClientServiceImpl implements ports.ClientService. It owns the client
// lifecycle and announces the transitions other components react to; it
// never touches accounts directly.
type ClientServiceImpl struct {
	clientRepo ports.ClientRepository
	publisher  ports.EventPublisher
	log        zerolog.Logger
}

// NewClientService creates a new ClientServiceImpl.
func NewClientService(clientRepo ports.ClientRepository, publisher ports.EventPublisher, log zerolog.Logger) *ClientServiceImpl {
	return &ClientServiceImpl{
		clientRepo: clientRepo,
		publisher:  publisher,
		log:        log,
	}
}

// CreateClient registers a new client in ACTIVE status. Email uniqueness is
// enforced here; missing optional fields get defaults rather than nulls.
func (s *ClientServiceImpl) CreateClient(ctx context.Context, req ports.CreateClientRequest) (*domain.Client, error) {
	if req.FirstName == "" || req.LastName == "" || req.Email == "" {
		return nil, apperror.Validation("first name, last name and email are required")
	}

	existing, err := s.clientRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("check client email: %w", err))
	}
	if existing != nil {
		return nil, apperror.ErrEmailExists()
	}

	address := req.Address
	if address == "" {
		address = defaultClientAddress
	}

	now := time.Now().UTC()
	client := &domain.Client{
		ID:        uuid.New(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   address,
		Status:    domain.ClientStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("create client: %w", err))
	}

	s.publish(ctx, domain.ClientCreatedEvent{
		ClientID:  client.ID,
		FirstName: client.FirstName,
		LastName:  client.LastName,
		Email:     client.Email,
		Phone:     client.Phone,
		CreatedAt: client.CreatedAt,
	})

	s.log.Info().Str("client_id", client.ID.String()).Msg("client created")
	return client, nil
}

// GetClient fetches a client by id.
func (s *ClientServiceImpl) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.clientRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("get client: %w", err))
	}
	if client == nil {
		return nil, apperror.ErrClientNotFound()
	}
	return client, nil
}

// ListClients returns all clients.
func (s *ClientServiceImpl) ListClients(ctx context.Context) ([]domain.Client, error) {
	clients, err := s.clientRepo.List(ctx)
	if err != nil {
		return nil, apperror.InternalError(fmt.Errorf("list clients: %w", err))
	}
	return clients, nil
}

// SuspendClient moves a client to SUSPENDED and announces it. The client
// record commits first; the accounts are blocked asynchronously by whoever
// listens for the event. Suspending an already suspended client is a no-op
// that emits no event.
func (s *ClientServiceImpl) SuspendClient(ctx context.Context, id uuid.UUID, reason string) (*domain.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.Status == domain.ClientStatusSuspended {
		return client, nil
	}

	if err := s.clientRepo.UpdateStatus(ctx, id, domain.ClientStatusSuspended); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("suspend client: %w", err))
	}
	client.Status = domain.ClientStatusSuspended
	client.UpdatedAt = time.Now().UTC()

	s.publish(ctx, domain.ClientSuspendedEvent{
		ClientID:    client.ID,
		Email:       client.Email,
		Reason:      reason,
		SuspendedAt: client.UpdatedAt,
	})

	s.log.Info().Str("client_id", id.String()).Str("reason", reason).Msg("client suspended")
	return client, nil
}

// ActivateClient moves a suspended client back to ACTIVE. Already blocked
// accounts stay blocked; unblocking them is a separate operator action.
func (s *ClientServiceImpl) ActivateClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	client, err := s.GetClient(ctx, id)
	if err != nil {
		return nil, err
	}
	if client.Status == domain.ClientStatusActive {
		return client, nil
	}

	if err := s.clientRepo.UpdateStatus(ctx, id, domain.ClientStatusActive); err != nil {
		return nil, apperror.InternalError(fmt.Errorf("activate client: %w", err))
	}
	client.Status = domain.ClientStatusActive
	client.UpdatedAt = time.Now().UTC()

	s.log.Info().Str("client_id", id.String()).Msg("client activated")
	return client, nil
}

func (s *ClientServiceImpl) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Str("routing_key", event.RoutingKey()).Msg("event publish failed")
	}
}

// clientDirectory exposes the repository's found/not-found convention for
// internal eligibility checks without the service-level error mapping.
type clientDirectory struct {
	repo ports.ClientRepository
}

// NewClientDirectory creates a ports.ClientDirectory over the client repo.
func NewClientDirectory(repo ports.ClientRepository) ports.ClientDirectory {
	return &clientDirectory{repo: repo}
}

func (d *clientDirectory) GetClient(ctx context.Context, id uuid.UUID) (*domain.Client, error) {
	return d.repo.GetByID(ctx, id)
}
