package repositories

import (
	"context"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
)

// Catalog is the product store the order builder collaborates with.
// DecrementStock must be conditional at the store (decrement only while
// enough stock remains) rather than check-then-decrement, so concurrent
// orders cannot oversell the same product.
type Catalog interface {
	FindProduct(ctx context.Context, productID string) (*entities.Product, error)
	DecrementStock(ctx context.Context, productID string, quantity int) error
	IncrementStock(ctx context.Context, productID string, quantity int) error
}

var (
	ErrProductNotFound   = &RepositoryError{"product not found"}
	ErrInsufficientStock = &RepositoryError{"insufficient stock"}
)
