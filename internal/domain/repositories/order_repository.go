package repositories

import (
	"context"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
)

// ListFilter narrows and paginates order listings. Zero values mean "no
// filter"; Page/Limit default to 1/10 at the repository.
type ListFilter struct {
	CompanyID string
	BuyerID   string
	Status    entities.OrderStatus
	Page      int64
	Limit     int64
}

type OrderRepository interface {
	Create(ctx context.Context, order *entities.Order) error
	GetByID(ctx context.Context, orderID string) (*entities.Order, error)

	// UpdateStatus moves an order from one status to another as a single
	// conditional write. It fails with ErrStatusConflict when the stored
	// status no longer matches from, so callers can make transitions (and
	// their side effects) exactly-once under concurrent requests.
	UpdateStatus(ctx context.Context, orderID string, from, to entities.OrderStatus) error

	MarkPaid(ctx context.Context, orderID string, result entities.PaymentResult) error
	AddNote(ctx context.Context, orderID string, note entities.OrderNote) error

	List(ctx context.Context, filter ListFilter) ([]entities.Order, int64, error)
}

var (
	ErrOrderNotFound      = &RepositoryError{"order not found"}
	ErrOrderAlreadyExists = &RepositoryError{"order already exists"}
	ErrStatusConflict     = &RepositoryError{"order status changed concurrently"}
)

type RepositoryError struct {
	message string
}

func (e *RepositoryError) Error() string {
	return e.message
}
