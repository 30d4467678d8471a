package service

import (
	"context"
	"errors"
	"sort"
	"testing"

	"shopdesk/internal/domain"
	"shopdesk/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Mock repositories and collaborators for testing

type mockOrderRepository struct {
	orders      map[uuid.UUID]*domain.Order
	createCalls int
	failCreate  bool
}

func newMockOrderRepository() *mockOrderRepository {
	return &mockOrderRepository{orders: make(map[uuid.UUID]*domain.Order)}
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	m.createCalls++
	if m.failCreate {
		return errors.New("store unreachable")
	}
	m.orders[order.ID] = order
	return nil
}

func (m *mockOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	return order, nil
}

func (m *mockOrderRepository) List(ctx context.Context) ([]*domain.Order, error) {
	orders := make([]*domain.Order, 0, len(m.orders))
	for _, order := range m.orders {
		orders = append(orders, order)
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders, nil
}

func (m *mockOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) (*domain.Order, error) {
	order, ok := m.orders[id]
	if !ok {
		return nil, repository.ErrOrderNotFound
	}
	order.Status = status
	return order, nil
}

type mockRenderer struct {
	fail  bool
	calls int
}

func (m *mockRenderer) Render(ctx context.Context, order *domain.Order) ([]byte, error) {
	m.calls++
	if m.fail {
		return nil, errors.New("browser crashed")
	}
	return []byte("%PDF-1.4"), nil
}

type mockDispatcher struct {
	fail  bool
	calls int
	last  *domain.Order
}

func (m *mockDispatcher) Send(ctx context.Context, order *domain.Order, pdf []byte) error {
	m.calls++
	m.last = order
	if m.fail {
		return errors.New("relay refused connection")
	}
	return nil
}

func intPtr(v int) *int { return &v }

func validInput() CreateOrderInput {
	return CreateOrderInput{
		CustomerName: "Jane",
		Phone:        "555",
		Email:        "j@x.com",
		Items: []OrderItemInput{
			{ProductID: "p1", ProductName: "Widget", Quantity: intPtr(3)},
		},
	}
}

func TestOrderService_Create_PersistsWithDefaults(t *testing.T) {
	repo := newMockOrderRepository()
	renderer := &mockRenderer{}
	dispatcher := &mockDispatcher{}
	svc := NewOrderService(repo, renderer, dispatcher, zap.NewNop())

	order, emailStatus, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, domain.OrderStatusPending, order.Status)
	assert.False(t, order.CreatedAt.IsZero())
	assert.Equal(t, domain.EmailStatusSent, emailStatus)

	require.Len(t, order.Items, 1)
	assert.Equal(t, "p1", order.Items[0].ProductID)
	assert.Equal(t, "Widget", order.Items[0].ProductName)
	assert.Equal(t, 3, order.Items[0].Quantity)
	assert.Equal(t, "", order.Items[0].Image)
	assert.Equal(t, "", order.Items[0].Brand)

	stored, err := repo.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, stored.ID)
}

func TestOrderService_Create_EmptyItemsFailsBeforePersistence(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo, &mockRenderer{}, &mockDispatcher{}, zap.NewNop())

	input := validInput()
	input.Items = []OrderItemInput{}

	_, _, err := svc.Create(context.Background(), input)

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Order must contain at least one item", vErr.Message)
	assert.Equal(t, 0, repo.createCalls)
}

func TestOrderService_Create_MissingEnvelopeFields(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo, nil, nil, zap.NewNop())

	for _, mutate := range []func(*CreateOrderInput){
		func(in *CreateOrderInput) { in.CustomerName = "" },
		func(in *CreateOrderInput) { in.Phone = "" },
		func(in *CreateOrderInput) { in.Email = "" },
	} {
		input := validInput()
		mutate(&input)

		_, _, err := svc.Create(context.Background(), input)

		var vErr *ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, "Missing required fields: customer_name, phone, and email are required", vErr.Message)
	}
	assert.Equal(t, 0, repo.createCalls)
}

func TestOrderService_Create_ItemValidationMessages(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo, nil, nil, zap.NewNop())

	missingQuantity := validInput()
	missingQuantity.Items[0].Quantity = nil
	_, _, err := svc.Create(context.Background(), missingQuantity)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Each item must have product_id, product_name, and quantity", vErr.Message)

	zeroQuantity := validInput()
	zeroQuantity.Items[0].Quantity = intPtr(0)
	_, _, err = svc.Create(context.Background(), zeroQuantity)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Item quantity must be at least 1", vErr.Message)

	missingName := validInput()
	missingName.Items[0].ProductName = ""
	_, _, err = svc.Create(context.Background(), missingName)
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Each item must have product_id, product_name, and quantity", vErr.Message)

	assert.Equal(t, 0, repo.createCalls)
}

func TestOrderService_Create_RenderFailureDoesNotFailCreate(t *testing.T) {
	repo := newMockOrderRepository()
	renderer := &mockRenderer{fail: true}
	dispatcher := &mockDispatcher{}
	svc := NewOrderService(repo, renderer, dispatcher, zap.NewNop())

	order, emailStatus, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	assert.Equal(t, domain.EmailStatusFailed, emailStatus)
	assert.Equal(t, 0, dispatcher.calls)

	// The persisted order is never rolled back.
	_, err = repo.FindByID(context.Background(), order.ID)
	assert.NoError(t, err)
}

func TestOrderService_Create_DispatchFailureDoesNotFailCreate(t *testing.T) {
	repo := newMockOrderRepository()
	dispatcher := &mockDispatcher{fail: true}
	svc := NewOrderService(repo, &mockRenderer{}, dispatcher, zap.NewNop())

	order, emailStatus, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.EmailStatusFailed, emailStatus)

	_, err = repo.FindByID(context.Background(), order.ID)
	assert.NoError(t, err)
}

func TestOrderService_Create_NoDispatcherSkipsEmail(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo, nil, nil, zap.NewNop())

	_, emailStatus, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, domain.EmailStatusSkipped, emailStatus)
}

func TestOrderService_Create_StoreFailure(t *testing.T) {
	repo := newMockOrderRepository()
	repo.failCreate = true
	renderer := &mockRenderer{}
	svc := NewOrderService(repo, renderer, &mockDispatcher{}, zap.NewNop())

	_, _, err := svc.Create(context.Background(), validInput())
	require.Error(t, err)

	var vErr *ValidationError
	assert.False(t, errors.As(err, &vErr))

	// Rendering is attempted only after the order is durable.
	assert.Equal(t, 0, renderer.calls)
}

func TestOrderService_UpdateStatus_InvalidValue(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo, nil, nil, zap.NewNop())

	order, _, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	_, err = svc.UpdateStatus(context.Background(), order.ID, "shipped")

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Status must be one of: pending, processing, completed, cancelled", vErr.Message)

	// The stored order is never mutated by a rejected update.
	stored, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.OrderStatusPending, stored.Status)
}

func TestOrderService_UpdateStatus_AnyToAny(t *testing.T) {
	repo := newMockOrderRepository()
	svc := NewOrderService(repo, nil, nil, zap.NewNop())

	order, _, err := svc.Create(context.Background(), validInput())
	require.NoError(t, err)

	for _, status := range []string{"completed", "cancelled", "processing", "pending"} {
		updated, err := svc.UpdateStatus(context.Background(), order.ID, status)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatus(status), updated.Status)
	}
}

func TestOrderService_UpdateStatus_NotFound(t *testing.T) {
	svc := NewOrderService(newMockOrderRepository(), nil, nil, zap.NewNop())

	_, err := svc.UpdateStatus(context.Background(), uuid.New(), "completed")
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderService_Get_NotFound(t *testing.T) {
	svc := NewOrderService(newMockOrderRepository(), nil, nil, zap.NewNop())

	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}
