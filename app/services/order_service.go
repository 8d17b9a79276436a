// Package services holds the storefront workflows between the HTTP layer
// and the repositories. Services accept store interfaces so the workflow
// logic is testable against in-memory fakes.
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/camtools/app/models"
	"github.com/shashiranjanraj/camtools/app/repositories"
	"github.com/shashiranjanraj/camtools/pkg/logger"
	"github.com/shashiranjanraj/camtools/pkg/metrics"
)

// ErrForbidden means the caller's identity does not match the resource owner.
var ErrForbidden = errors.New("forbidden")

// ErrPartialWrite means the second leg of a two-step write failed after the
// first leg was durably applied. Handlers map it to 502; the operation is
// safe to retry because both legs are idempotent or compensated.
var ErrPartialWrite = errors.New("partial write")

// ToolStock is the slice of the catalog store the order workflow needs.
type ToolStock interface {
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Tool, error)
	DecrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
	IncrementStock(ctx context.Context, id primitive.ObjectID, quantity int) error
}

// OrderStore is the order collection surface used by the workflow.
type OrderStore interface {
	Insert(ctx context.Context, order models.Order) (primitive.ObjectID, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Order, error)
	FindByEmail(ctx context.Context, email string) ([]models.Order, error)
	All(ctx context.Context) ([]models.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	MarkShipped(ctx context.Context, id primitive.ObjectID) error
	MarkPaid(ctx context.Context, id primitive.ObjectID, transactionID string) error
}

// ReceiptStore records payment receipts.
type ReceiptStore interface {
	Insert(ctx context.Context, receipt models.PaymentReceipt) (primitive.ObjectID, error)
}

// AdminChecker mirrors policy.AdminChecker for ownership overrides.
type AdminChecker interface {
	IsAdmin(ctx context.Context, email string) (bool, error)
}

// OrderService implements the order workflow: placement with the atomic
// stock decrement, listing, status transitions, and payment confirmation.
type OrderService struct {
	tools    ToolStock
	orders   OrderStore
	receipts ReceiptStore
	admins   AdminChecker
}

func NewOrderService(tools ToolStock, orders OrderStore, receipts ReceiptStore, admins AdminChecker) *OrderService {
	return &OrderService{tools: tools, orders: orders, receipts: receipts, admins: admins}
}

// Place creates an order for the authenticated identity. Stock is taken
// with a single conditional decrement (reject when below the requested
// quantity), then the order document is inserted; if the insert fails the
// decrement is compensated so stock never leaks.
func (s *OrderService) Place(ctx context.Context, identity string, toolID primitive.ObjectID, input models.OrderInput) (models.Order, error) {
	if input.Email != identity {
		return models.Order{}, ErrForbidden
	}

	tool, err := s.tools.FindByID(ctx, toolID)
	if err != nil {
		return models.Order{}, err
	}

	if err := s.tools.DecrementStock(ctx, toolID, input.Quantity); err != nil {
		if errors.Is(err, repositories.ErrInsufficientStock) {
			metrics.OrdersRejected.Inc()
		}
		return models.Order{}, err
	}

	order := models.Order{
		Email:     input.Email,
		ToolID:    toolID,
		ToolName:  tool.Name,
		Quantity:  input.Quantity,
		Price:     tool.Price,
		Shipped:   false,
		Paid:      false,
		CreatedAt: time.Now().UTC(),
	}

	id, err := s.orders.Insert(ctx, order)
	if err != nil {
		// Put the stock back; the decrement already happened.
		if compErr := s.tools.IncrementStock(ctx, toolID, input.Quantity); compErr != nil {
			logger.WithCtx(ctx).Error("stock compensation failed",
				"tool_id", toolID.Hex(), "quantity", input.Quantity, "error", compErr)
		}
		return models.Order{}, fmt.Errorf("%w: insert order: %v", ErrPartialWrite, err)
	}

	order.ID = id
	metrics.OrdersCreated.Inc()
	return order, nil
}

// ListForUser returns the orders owned by email. The authenticated identity
// must match exactly; there is no admin override on this route.
func (s *OrderService) ListForUser(ctx context.Context, identity, email string) ([]models.Order, error) {
	if email != identity {
		return nil, ErrForbidden
	}
	return s.orders.FindByEmail(ctx, email)
}

// ListAll returns every order. The route is admin-gated.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	return s.orders.All(ctx)
}

// Get returns one order by id.
func (s *OrderService) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	return s.orders.FindByID(ctx, id)
}

// Delete removes an order. Only the owner or an admin may delete an
// existing order; deleting an absent id reports zero affected documents.
func (s *OrderService) Delete(ctx context.Context, identity string, id primitive.ObjectID) (int64, error) {
	order, err := s.orders.FindByID(ctx, id)
	if errors.Is(err, repositories.ErrNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	if order.Email != identity {
		isAdmin, err := s.admins.IsAdmin(ctx, identity)
		if err != nil || !isAdmin {
			return 0, ErrForbidden
		}
	}

	return s.orders.Delete(ctx, id)
}

// MarkShipped flips the shipped flag. No check against the paid flag; the
// two transitions are independent.
func (s *OrderService) MarkShipped(ctx context.Context, id primitive.ObjectID) error {
	return s.orders.MarkShipped(ctx, id)
}

// ConfirmPayment records the payment payload as a receipt, then sets
// paid=true and the transaction id on the order. The receipt goes first:
// if the flag update then fails, the receipt stands and the caller gets
// ErrPartialWrite — retrying re-applies an idempotent $set, it does not
// duplicate the order state.
func (s *OrderService) ConfirmPayment(ctx context.Context, id primitive.ObjectID, transactionID string, payload map[string]interface{}) (models.Order, error) {
	if _, err := s.orders.FindByID(ctx, id); err != nil {
		return models.Order{}, err
	}

	receipt := models.PaymentReceipt{
		OrderID:   id,
		Payload:   payload,
		CreatedAt: time.Now().UTC(),
	}
	if _, err := s.receipts.Insert(ctx, receipt); err != nil {
		return models.Order{}, fmt.Errorf("%w: insert receipt: %v", ErrPartialWrite, err)
	}

	if err := s.orders.MarkPaid(ctx, id, transactionID); err != nil {
		logger.WithCtx(ctx).Error("paid flag not set after receipt was recorded",
			"order_id", id.Hex(), "error", err)
		return models.Order{}, fmt.Errorf("%w: mark paid: %v", ErrPartialWrite, err)
	}

	return s.orders.FindByID(ctx, id)
}
