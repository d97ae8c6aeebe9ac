package service

import (
	"context"
	"testing"

	"ledger-core/internal/core/domain"
	"ledger-core/internal/core/ports"
	"ledger-core/internal/core/ports/mocks"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type clientTestDeps struct {
	svc        *ClientServiceImpl
	clientRepo *mocks.MockClientRepository
	publisher  *mocks.MockEventPublisher
	ctrl       *gomock.Controller
}

func setupClientService(t *testing.T) *clientTestDeps {
	ctrl := gomock.NewController(t)
	d := &clientTestDeps{
		clientRepo: mocks.NewMockClientRepository(ctrl),
		publisher:  mocks.NewMockEventPublisher(ctrl),
		ctrl:       ctrl,
	}
	d.svc = NewClientService(d.clientRepo, d.publisher, zerolog.Nop())
	return d
}

func TestClientService_CreateClient_Success(t *testing.T) {
	d := setupClientService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	req := ports.CreateClientRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+33123456789",
	}

	var published domain.Event
	d.clientRepo.EXPECT().GetByEmail(ctx, "ada@example.com").Return(nil, nil)
	d.clientRepo.EXPECT().Create(ctx, gomock.Any()).Return(nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event domain.Event) error {
			published = event
			return nil
		})

	client, err := d.svc.CreateClient(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, client)
	assert.Equal(t, domain.ClientStatusActive, client.Status)
	// Missing address defaults rather than persisting empty.
	assert.Equal(t, "N/A", client.Address)

	require.NotNil(t, published)
	assert.Equal(t, domain.RoutingKeyClientCreated, published.RoutingKey())
	created, ok := published.(domain.ClientCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, client.ID, created.ClientID)
	assert.Equal(t, "ada@example.com", created.Email)
}

func TestClientService_CreateClient_MissingFields(t *testing.T) {
	d := setupClientService(t)
	defer d.ctrl.Finish()

	client, err := d.svc.CreateClient(context.Background(), ports.CreateClientRequest{
		FirstName: "Ada",
	})
	assert.Nil(t, client)
	require.Error(t, err)
	assertAppError(t, err, "VAL_001")
}

func TestClientService_CreateClient_EmailExists(t *testing.T) {
	d := setupClientService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	d.clientRepo.EXPECT().GetByEmail(ctx, "ada@example.com").
		Return(&domain.Client{ID: uuid.New(), Email: "ada@example.com"}, nil)

	client, err := d.svc.CreateClient(ctx, ports.CreateClientRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
	})
	assert.Nil(t, client)
	require.Error(t, err)
	assertAppError(t, err, "CLI_002")
}

func TestClientService_GetClient_NotFound(t *testing.T) {
	d := setupClientService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()
	d.clientRepo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	client, err := d.svc.GetClient(ctx, id)
	assert.Nil(t, client)
	require.Error(t, err)
	assertAppError(t, err, "CLI_001")
}

func TestClientService_SuspendClient_PublishesEvent(t *testing.T) {
	d := setupClientService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()

	var published domain.Event
	d.clientRepo.EXPECT().GetByID(ctx, id).Return(&domain.Client{
		ID:     id,
		Email:  "ada@example.com",
		Status: domain.ClientStatusActive,
	}, nil)
	d.clientRepo.EXPECT().UpdateStatus(ctx, id, domain.ClientStatusSuspended).Return(nil)
	d.publisher.EXPECT().Publish(ctx, gomock.Any()).DoAndReturn(
		func(_ context.Context, event domain.Event) error {
			published = event
			return nil
		})

	client, err := d.svc.SuspendClient(ctx, id, "fraud review")
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusSuspended, client.Status)

	require.NotNil(t, published)
	suspended, ok := published.(domain.ClientSuspendedEvent)
	require.True(t, ok)
	assert.Equal(t, domain.RoutingKeyClientSuspended, suspended.RoutingKey())
	assert.Equal(t, id, suspended.ClientID)
	assert.Equal(t, "fraud review", suspended.Reason)
}

func TestClientService_SuspendClient_AlreadySuspended(t *testing.T) {
	d := setupClientService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()

	// No status write, no event: redelivered suspensions are no-ops.
	d.clientRepo.EXPECT().GetByID(ctx, id).Return(&domain.Client{
		ID:     id,
		Status: domain.ClientStatusSuspended,
	}, nil)

	client, err := d.svc.SuspendClient(ctx, id, "fraud review")
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusSuspended, client.Status)
}

func TestClientService_ActivateClient(t *testing.T) {
	d := setupClientService(t)
	defer d.ctrl.Finish()

	ctx := context.Background()
	id := uuid.New()

	// Reactivation changes the client only; no event is emitted and the
	// blocked accounts stay blocked.
	d.clientRepo.EXPECT().GetByID(ctx, id).Return(&domain.Client{
		ID:     id,
		Status: domain.ClientStatusSuspended,
	}, nil)
	d.clientRepo.EXPECT().UpdateStatus(ctx, id, domain.ClientStatusActive).Return(nil)

	client, err := d.svc.ActivateClient(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, domain.ClientStatusActive, client.Status)
}

func TestClientDirectory_GetClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := mocks.NewMockClientRepository(ctrl)
	dir := NewClientDirectory(repo)

	ctx := context.Background()
	id := uuid.New()
	repo.EXPECT().GetByID(ctx, id).Return(nil, nil)

	client, err := dir.GetClient(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, client)
}
