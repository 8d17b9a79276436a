package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/app/repositories"
)

// memToolStock is a mutex-guarded stand-in for the tools collection with
// the same conditional-decrement contract as the Mongo repository.
type memToolStock struct {
	mu    sync.Mutex
	tools map[primitive.ObjectID]models.Tool
}

func newMemToolStock(tools ...models.Tool) *memToolStock {
	m := &memToolStock{tools: map[primitive.ObjectID]models.Tool{}}
	for _, t := range tools {
		m.tools[t.ID] = t
	}
	return m
}

func (m *memToolStock) FindByID(_ context.Context, id primitive.ObjectID) (models.Tool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tools[id]
	if !ok {
		return models.Tool{}, repositories.ErrNotFound
	}
	return t, nil
}

func (m *memToolStock) DecrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tools[id]
	if !ok {
		return repositories.ErrNotFound
	}
	if t.Quantity < quantity {
		return repositories.ErrInsufficientStock
	}
	t.Quantity -= quantity
	m.tools[id] = t
	return nil
}

func (m *memToolStock) IncrementStock(_ context.Context, id primitive.ObjectID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	t, ok := m.tools[id]
	if !ok {
		return repositories.ErrNotFound
	}
	t.Quantity += quantity
	m.tools[id] = t
	return nil
}

func (m *memToolStock) quantity(id primitive.ObjectID) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.tools[id].Quantity
}

// memOrderStore keeps orders in a map; failInsert forces the compensation
// path in Place.
type memOrderStore struct {
	mu         sync.Mutex
	orders     map[primitive.ObjectID]models.Order
	failInsert bool
	failPaid   bool
}

func newMemOrderStore() *memOrderStore {
	return &memOrderStore{orders: map[primitive.ObjectID]models.Order{}}
}

func (m *memOrderStore) Insert(_ context.Context, order models.Order) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert {
		return primitive.NilObjectID, errors.New("write concern timeout")
	}
	order.ID = primitive.NewObjectID()
	m.orders[order.ID] = order
	return order.ID, nil
}

func (m *memOrderStore) FindByID(_ context.Context, id primitive.ObjectID) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return models.Order{}, repositories.ErrNotFound
	}
	return o, nil
}

func (m *memOrderStore) FindByEmail(_ context.Context, email string) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.Order
	for _, o := range m.orders {
		if o.Email == email {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *memOrderStore) All(_ context.Context) ([]models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.Order, 0, len(m.orders))
	for _, o := range m.orders {
		out = append(out, o)
	}
	return out, nil
}

func (m *memOrderStore) Delete(_ context.Context, id primitive.ObjectID) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.orders[id]; !ok {
		return 0, nil
	}
	delete(m.orders, id)
	return 1, nil
}

func (m *memOrderStore) MarkShipped(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Shipped = true
	m.orders[id] = o
	return nil
}

func (m *memOrderStore) MarkPaid(_ context.Context, id primitive.ObjectID, transactionID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failPaid {
		return errors.New("write concern timeout")
	}
	o, ok := m.orders[id]
	if !ok {
		return repositories.ErrNotFound
	}
	o.Paid = true
	o.TransactionID = transactionID
	m.orders[id] = o
	return nil
}

type memReceiptStore struct {
	mu         sync.Mutex
	receipts   []models.PaymentReceipt
	failInsert bool
}

func (m *memReceiptStore) Insert(_ context.Context, receipt models.PaymentReceipt) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failInsert {
		return primitive.NilObjectID, errors.New("write concern timeout")
	}
	receipt.ID = primitive.NewObjectID()
	m.receipts = append(m.receipts, receipt)
	return receipt.ID, nil
}

type fakeAdmins map[string]bool

func (f fakeAdmins) IsAdmin(_ context.Context, email string) (bool, error) {
	return f[email], nil
}

func testTool(quantity int) models.Tool {
	return models.Tool{
		ID:       primitive.NewObjectID(),
		Name:     "Canon EOS R6",
		Price:    2499.00,
		Quantity: quantity,
		MinOrder: 1,
	}
}

func TestPlaceDecrementsStock(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	svc := NewOrderService(stock, orders, &memReceiptStore{}, fakeAdmins{})

	order, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 3,
	})

	require.NoError(t, err)
	assert.False(t, order.ID.IsZero())
	assert.Equal(t, "Canon EOS R6", order.ToolName)
	assert.Equal(t, 2499.00, order.Price)
	assert.False(t, order.Paid)
	assert.False(t, order.Shipped)
	assert.Equal(t, 7, stock.quantity(tool.ID))
}

func TestPlaceIdentityMismatch(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	svc := NewOrderService(stock, newMemOrderStore(), &memReceiptStore{}, fakeAdmins{})

	_, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "someone.else@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 1,
	})

	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, 10, stock.quantity(tool.ID), "stock must be untouched")
}

func TestPlaceInsufficientStock(t *testing.T) {
	tool := testTool(2)
	stock := newMemToolStock(tool)
	svc := NewOrderService(stock, newMemOrderStore(), &memReceiptStore{}, fakeAdmins{})

	_, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 3,
	})

	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
	assert.Equal(t, 2, stock.quantity(tool.ID))
}

func TestPlaceUnknownTool(t *testing.T) {
	stock := newMemToolStock()
	svc := NewOrderService(stock, newMemOrderStore(), &memReceiptStore{}, fakeAdmins{})

	id := primitive.NewObjectID()
	_, err := svc.Place(context.Background(), "ansel@example.com", id, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   id.Hex(),
		Quantity: 1,
	})

	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestPlaceCompensatesFailedInsert(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	orders.failInsert = true
	svc := NewOrderService(stock, orders, &memReceiptStore{}, fakeAdmins{})

	_, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 4,
	})

	assert.ErrorIs(t, err, ErrPartialWrite)
	assert.Equal(t, 10, stock.quantity(tool.ID), "decrement must be compensated")
}

// TestPlaceConcurrentNoOversell hammers one tool with simultaneous orders
// and checks that stock never goes negative and every accepted order is
// backed by a real decrement.
func TestPlaceConcurrentNoOversell(t *testing.T) {
	const (
		workers  = 32
		perOrder = 3
		stockQty = 50 // only 16 of the 32 orders can succeed
	)

	tool := testTool(stockQty)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	svc := NewOrderService(stock, orders, &memReceiptStore{}, fakeAdmins{})

	var wg sync.WaitGroup
	results := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
				Email:    "ansel@example.com",
				ToolID:   tool.ID.Hex(),
				Quantity: perOrder,
			})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	accepted, rejected := 0, 0
	for err := range results {
		switch {
		case err == nil:
			accepted++
		case errors.Is(err, repositories.ErrInsufficientStock):
			rejected++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, workers, accepted+rejected)
	assert.Equal(t, stockQty-accepted*perOrder, stock.quantity(tool.ID),
		"final stock must equal initial minus accepted decrements")
	assert.GreaterOrEqual(t, stock.quantity(tool.ID), 0, "stock must never go negative")

	all, err := orders.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, accepted, "one order document per accepted decrement")
}

func TestDeleteOwnerAndAdminRules(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	svc := NewOrderService(stock, orders, &memReceiptStore{}, fakeAdmins{"boss@example.com": true})

	order, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 1,
	})
	require.NoError(t, err)

	// A stranger may not delete it.
	_, err = svc.Delete(context.Background(), "stranger@example.com", order.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	// An admin may.
	count, err := svc.Delete(context.Background(), "boss@example.com", order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// Deleting an absent id reports zero, not an error.
	count, err = svc.Delete(context.Background(), "ansel@example.com", order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestDeleteByOwner(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	svc := NewOrderService(stock, orders, &memReceiptStore{}, fakeAdmins{})

	order, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 1,
	})
	require.NoError(t, err)

	count, err := svc.Delete(context.Background(), "ansel@example.com", order.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListForUserRequiresMatchingIdentity(t *testing.T) {
	svc := NewOrderService(newMemToolStock(), newMemOrderStore(), &memReceiptStore{}, fakeAdmins{})

	_, err := svc.ListForUser(context.Background(), "ansel@example.com", "someone.else@example.com")
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestConfirmPayment(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	receipts := &memReceiptStore{}
	svc := NewOrderService(stock, orders, receipts, fakeAdmins{})

	order, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 1,
	})
	require.NoError(t, err)

	paid, err := svc.ConfirmPayment(context.Background(), order.ID, "pi_3abc", map[string]interface{}{
		"transactionId": "pi_3abc",
		"amount":        2499.00,
	})

	require.NoError(t, err)
	assert.True(t, paid.Paid)
	assert.Equal(t, "pi_3abc", paid.TransactionID)
	require.Len(t, receipts.receipts, 1)
	assert.Equal(t, order.ID, receipts.receipts[0].OrderID)
}

func TestConfirmPaymentUnknownOrder(t *testing.T) {
	svc := NewOrderService(newMemToolStock(), newMemOrderStore(), &memReceiptStore{}, fakeAdmins{})

	_, err := svc.ConfirmPayment(context.Background(), primitive.NewObjectID(), "pi_3abc", nil)
	assert.ErrorIs(t, err, repositories.ErrNotFound)
}

func TestConfirmPaymentReceiptFailure(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	receipts := &memReceiptStore{failInsert: true}
	svc := NewOrderService(stock, orders, receipts, fakeAdmins{})

	order, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 1,
	})
	require.NoError(t, err)

	_, err = svc.ConfirmPayment(context.Background(), order.ID, "pi_3abc", nil)
	assert.ErrorIs(t, err, ErrPartialWrite)

	// The paid flag must not be set without a receipt.
	got, err := orders.FindByID(context.Background(), order.ID)
	require.NoError(t, err)
	assert.False(t, got.Paid)
}

func TestConfirmPaymentPartialWriteAfterReceipt(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	receipts := &memReceiptStore{}
	svc := NewOrderService(stock, orders, receipts, fakeAdmins{})

	order, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 1,
	})
	require.NoError(t, err)

	orders.failPaid = true
	_, err = svc.ConfirmPayment(context.Background(), order.ID, "pi_3abc", nil)
	assert.ErrorIs(t, err, ErrPartialWrite)
	assert.Len(t, receipts.receipts, 1, "receipt stands even when the flag write fails")

	// A retry after the store recovers applies the idempotent flag write.
	orders.failPaid = false
	paid, err := svc.ConfirmPayment(context.Background(), order.ID, "pi_3abc", nil)
	require.NoError(t, err)
	assert.True(t, paid.Paid)
}

func TestMarkShipped(t *testing.T) {
	tool := testTool(10)
	stock := newMemToolStock(tool)
	orders := newMemOrderStore()
	svc := NewOrderService(stock, orders, &memReceiptStore{}, fakeAdmins{})

	order, err := svc.Place(context.Background(), "ansel@example.com", tool.ID, models.OrderInput{
		Email:    "ansel@example.com",
		ToolID:   tool.ID.Hex(),
		Quantity: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkShipped(context.Background(), order.ID))

	got, err := svc.Get(context.Background(), order.ID)
	require.NoError(t, err)
	assert.True(t, got.Shipped)
	assert.False(t, got.Paid, "shipping does not imply payment")
}
