package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
	"github.com/227007/E-commerce-backend/internal/infrastructure/logger"
)

type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, order *entities.Order) error
	PublishOrderCancelled(ctx context.Context, order *entities.Order) error
	Close()
}

// Actor is the authenticated caller, as supplied by the identity layer.
type Actor struct {
	UserID    string
	UserType  string // "user", "company" or "admin"
	CompanyID string
}

func (a Actor) IsAdmin() bool {
	return a.UserType == "admin"
}

func (a Actor) OwnsCompany(companyID string) bool {
	return a.UserType == "company" && a.CompanyID == companyID
}

// OrderItemRequest is one cart entry as submitted by the buyer. CompanyID
// is the company the buyer believes owns the product; verification rejects
// the request if the catalog disagrees.
type OrderItemRequest struct {
	ProductID string
	Quantity  int
	CompanyID string
}

type CreateOrdersInput struct {
	BuyerID         string
	Items           []OrderItemRequest
	ShippingAddress entities.ShippingAddress
	PaymentMethod   entities.PaymentMethod
}

// FailedGroup records a company partition whose persistence failed after
// verification succeeded.
type FailedGroup struct {
	CompanyID string
	Err       error
}

// CreateOrdersResult reports per-company outcomes: a multi-company cart
// yields one order per company, and a persistence failure in one group
// never hides the orders that did get created.
type CreateOrdersResult struct {
	Orders []*entities.Order
	Failed []FailedGroup
}

type OrderUseCase struct {
	orderRepo repositories.OrderRepository
	catalog   repositories.Catalog
	publisher EventPublisher
	logger    *logger.Logger
}

func NewOrderUseCase(orderRepo repositories.OrderRepository, catalog repositories.Catalog, publisher EventPublisher, log *logger.Logger) *OrderUseCase {
	if log == nil {
		log = logger.NewLogger()
	}
	return &OrderUseCase{
		orderRepo: orderRepo,
		catalog:   catalog,
		publisher: publisher,
		logger:    log,
	}
}

// CreateOrders runs the order builder: verify every requested item against
// the catalog, partition verified lines by owning company, price each
// partition and persist one Pending order per company. Verification is
// all-or-nothing for the whole request; after it passes, each company group
// is persisted independently and failures are reported per group.
func (uc *OrderUseCase) CreateOrders(ctx context.Context, in CreateOrdersInput) (*CreateOrdersResult, error) {
	if in.BuyerID == "" {
		return nil, ErrInvalidBuyerID
	}
	if len(in.Items) == 0 {
		return nil, ErrEmptyOrderRequest
	}
	if !entities.ValidPaymentMethod(string(in.PaymentMethod)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, in.PaymentMethod)
	}
	for i, item := range in.Items {
		if item.ProductID == "" || item.CompanyID == "" {
			return nil, fmt.Errorf("%w: item %d is missing product or company", ErrInvalidItem, i)
		}
		if item.Quantity < 1 {
			return nil, fmt.Errorf("%w: item %d has invalid quantity", ErrInvalidItem, i)
		}
	}

	lines, err := uc.verifyItems(ctx, in.Items)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	result := &CreateOrdersResult{}

	for _, group := range partitionByCompany(lines) {
		order, err := uc.placeGroupOrder(ctx, in, group, now)
		if err != nil {
			uc.logger.Error("Failed to place order for company group",
				"buyer_id", in.BuyerID,
				"company_id", group.CompanyID,
				"error", err)
			result.Failed = append(result.Failed, FailedGroup{CompanyID: group.CompanyID, Err: err})
			continue
		}
		result.Orders = append(result.Orders, order)
		uc.publishCreated(order)
	}

	return result, nil
}

// placeGroupOrder reserves stock and persists the order for one company
// group. Stock is taken with conditional decrements so a concurrent order
// cannot slip between check and write; any failure hands back everything
// this group already took.
func (uc *OrderUseCase) placeGroupOrder(ctx context.Context, in CreateOrdersInput, group CompanyOrderGroup, now time.Time) (*entities.Order, error) {
	taken := make([]entities.OrderItemLine, 0, len(group.Lines))
	for _, line := range group.Lines {
		if err := uc.catalog.DecrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			uc.restoreStock(ctx, taken)
			return nil, fmt.Errorf("failed to reserve stock for %s: %w", line.Name, err)
		}
		taken = append(taken, line)
	}

	quote := quoteFor(group.ItemsSubtotal)

	order := &entities.Order{
		OrderID:         uuid.New().String(),
		BuyerID:         in.BuyerID,
		CompanyID:       group.CompanyID,
		Items:           group.Lines,
		ShippingAddress: in.ShippingAddress,
		PaymentMethod:   in.PaymentMethod,
		ItemsPrice:      quote.ItemsPrice,
		TaxPrice:        quote.TaxPrice,
		ShippingPrice:   quote.ShippingPrice,
		TotalPrice:      quote.TotalPrice,
		Status:          entities.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.orderRepo.Create(ctx, order); err != nil {
		uc.restoreStock(ctx, taken)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	return order, nil
}

func (uc *OrderUseCase) restoreStock(ctx context.Context, lines []entities.OrderItemLine) {
	for _, line := range lines {
		if err := uc.catalog.IncrementStock(ctx, line.ProductID, line.Quantity); err != nil {
			uc.logger.Error("Failed to restore stock",
				"product_id", line.ProductID,
				"quantity", line.Quantity,
				"error", err)
		}
	}
}

func (uc *OrderUseCase) GetOrder(ctx context.Context, orderID string, actor Actor) (*entities.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order.BuyerID != actor.UserID && !actor.IsAdmin() && !actor.OwnsCompany(order.CompanyID) {
		return nil, ErrNotAuthorized
	}

	return order, nil
}

// UpdateOrderStatus applies one status-machine transition. The write is
// conditional on the status the caller observed, which makes the Cancelled
// transition, and its stock compensation, exactly-once: a repeated cancel
// finds the order already Cancelled and returns it unchanged.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, orderID, status string, actor Actor) (*entities.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if !entities.ValidStatus(status) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	target := entities.OrderStatus(status)

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order for update: %w", err)
	}
	if !actor.IsAdmin() && !actor.OwnsCompany(order.CompanyID) {
		return nil, ErrNotAuthorized
	}

	if order.Status == target {
		// repeated request; nothing to do, no second compensation
		return order, nil
	}
	if !order.Status.CanTransitionTo(target) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
	}

	if err := uc.orderRepo.UpdateStatus(ctx, orderID, order.Status, target); err != nil {
		if errors.Is(err, repositories.ErrStatusConflict) {
			// lost a race; if the other writer reached the same status the
			// request already succeeded (and any compensation already ran)
			current, gerr := uc.orderRepo.GetByID(ctx, orderID)
			if gerr == nil && current.Status == target {
				return current, nil
			}
			return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, order.Status, target)
		}
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	order.Status = target
	order.UpdatedAt = time.Now()
	if target == entities.StatusDelivered {
		now := time.Now()
		order.IsDelivered = true
		order.DeliveredAt = &now
	}

	if target == entities.StatusCancelled {
		uc.restoreStock(ctx, order.Items)
		uc.publishCancelled(order)
	}

	return order, nil
}

// MarkOrderPaid records the payment gateway result on the order.
func (uc *OrderUseCase) MarkOrderPaid(ctx context.Context, orderID string, result entities.PaymentResult, actor Actor) (*entities.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !actor.IsAdmin() && !actor.OwnsCompany(order.CompanyID) {
		return nil, ErrNotAuthorized
	}

	if err := uc.orderRepo.MarkPaid(ctx, orderID, result); err != nil {
		return nil, fmt.Errorf("failed to mark order paid: %w", err)
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &result
	order.UpdatedAt = now
	return order, nil
}

func (uc *OrderUseCase) AddOrderNote(ctx context.Context, orderID, text string, actor Actor) (*entities.Order, error) {
	if orderID == "" {
		return nil, ErrInvalidOrderID
	}
	if text == "" {
		return nil, ErrEmptyNote
	}

	order, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if !actor.IsAdmin() && !actor.OwnsCompany(order.CompanyID) {
		return nil, ErrNotAuthorized
	}

	note := entities.OrderNote{
		NoteID:      uuid.New().String(),
		AuthorID:    actor.UserID,
		Text:        text,
		IsAdminNote: actor.IsAdmin(),
		CreatedAt:   time.Now(),
	}

	if err := uc.orderRepo.AddNote(ctx, orderID, note); err != nil {
		return nil, fmt.Errorf("failed to add order note: %w", err)
	}

	order.Notes = append(order.Notes, note)
	return order, nil
}

// ListMyOrders returns every order the actor has placed, newest first.
func (uc *OrderUseCase) ListMyOrders(ctx context.Context, actor Actor) ([]entities.Order, error) {
	if actor.UserID == "" {
		return nil, ErrInvalidBuyerID
	}

	orders, _, err := uc.orderRepo.List(ctx, repositories.ListFilter{BuyerID: actor.UserID})
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListCompanyOrders returns the acting company's orders with pagination.
func (uc *OrderUseCase) ListCompanyOrders(ctx context.Context, actor Actor, status string, page, limit int64) ([]entities.Order, int64, error) {
	if actor.UserType != "company" || actor.CompanyID == "" {
		return nil, 0, ErrNotAuthorized
	}
	if status != "" && !entities.ValidStatus(status) {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	orders, total, err := uc.orderRepo.List(ctx, repositories.ListFilter{
		CompanyID: actor.CompanyID,
		Status:    entities.OrderStatus(status),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list company orders: %w", err)
	}
	return orders, total, nil
}

// ListOrders is the admin-wide listing with optional company/status filters.
func (uc *OrderUseCase) ListOrders(ctx context.Context, companyID, status string, page, limit int64) ([]entities.Order, int64, error) {
	if status != "" && !entities.ValidStatus(status) {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}

	orders, total, err := uc.orderRepo.List(ctx, repositories.ListFilter{
		CompanyID: companyID,
		Status:    entities.OrderStatus(status),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, total, nil
}

func (uc *OrderUseCase) publishCreated(order *entities.Order) {
	if uc.publisher == nil {
		return
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := uc.publisher.PublishOrderCreated(pubCtx, order); err != nil {
			uc.logger.Warn("Failed to publish order.created event", "order_id", order.OrderID, "error", err)
		}
	}()
}

func (uc *OrderUseCase) publishCancelled(order *entities.Order) {
	if uc.publisher == nil {
		return
	}
	go func() {
		pubCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := uc.publisher.PublishOrderCancelled(pubCtx, order); err != nil {
			uc.logger.Warn("Failed to publish order.cancelled event", "order_id", order.OrderID, "error", err)
		}
	}()
}
