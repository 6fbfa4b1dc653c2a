package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
)

// OrderRepositoryMemory mirrors the mongo repository for tests and local
// runs, including the conditional status write.
type OrderRepositoryMemory struct {
	mu     sync.RWMutex
	orders map[string]*entities.Order
}

func NewOrderRepositoryMemory() *OrderRepositoryMemory {
	return &OrderRepositoryMemory{
		orders: make(map[string]*entities.Order),
	}
}

func cloneOrder(order *entities.Order) *entities.Order {
	clone := *order
	clone.Items = append([]entities.OrderItemLine(nil), order.Items...)
	clone.Notes = append([]entities.OrderNote(nil), order.Notes...)
	return &clone
}

func (r *OrderRepositoryMemory) Create(ctx context.Context, order *entities.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.orders[order.OrderID]; exists {
		return repositories.ErrOrderAlreadyExists
	}

	r.orders[order.OrderID] = cloneOrder(order)
	return nil
}

func (r *OrderRepositoryMemory) GetByID(ctx context.Context, orderID string) (*entities.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, exists := r.orders[orderID]
	if !exists {
		return nil, repositories.ErrOrderNotFound
	}

	return cloneOrder(order), nil
}

func (r *OrderRepositoryMemory) UpdateStatus(ctx context.Context, orderID string, from, to entities.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[orderID]
	if !exists {
		return repositories.ErrOrderNotFound
	}
	if order.Status != from {
		return repositories.ErrStatusConflict
	}

	now := time.Now()
	order.Status = to
	order.UpdatedAt = now
	if to == entities.StatusDelivered {
		order.IsDelivered = true
		order.DeliveredAt = &now
	}
	return nil
}

func (r *OrderRepositoryMemory) MarkPaid(ctx context.Context, orderID string, payment entities.PaymentResult) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[orderID]
	if !exists {
		return repositories.ErrOrderNotFound
	}

	now := time.Now()
	order.IsPaid = true
	order.PaidAt = &now
	order.PaymentResult = &payment
	order.UpdatedAt = now
	return nil
}

func (r *OrderRepositoryMemory) AddNote(ctx context.Context, orderID string, note entities.OrderNote) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	order, exists := r.orders[orderID]
	if !exists {
		return repositories.ErrOrderNotFound
	}

	order.Notes = append(order.Notes, note)
	order.UpdatedAt = time.Now()
	return nil
}

func (r *OrderRepositoryMemory) List(ctx context.Context, filter repositories.ListFilter) ([]entities.Order, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []entities.Order
	for _, order := range r.orders {
		if filter.BuyerID != "" && order.BuyerID != filter.BuyerID {
			continue
		}
		if filter.CompanyID != "" && order.CompanyID != filter.CompanyID {
			continue
		}
		if filter.Status != "" && order.Status != filter.Status {
			continue
		}
		matched = append(matched, *cloneOrder(order))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		start := (page - 1) * filter.Limit
		if start >= total {
			return nil, total, nil
		}
		end := start + filter.Limit
		if end > total {
			end = total
		}
		matched = matched[start:end]
	}

	return matched, total, nil
}
