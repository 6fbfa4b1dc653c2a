package memory

import (
	"context"
	"sync"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
)

// CatalogMemory is an in-memory product store. Its decrement holds the lock
// across check and write, giving the same decrement-if-sufficient guarantee
// as the mongo catalog's filtered $inc.
type CatalogMemory struct {
	mu       sync.RWMutex
	products map[string]*entities.Product
}

func NewCatalogMemory() *CatalogMemory {
	return &CatalogMemory{
		products: make(map[string]*entities.Product),
	}
}

// Seed inserts or replaces a product.
func (c *CatalogMemory) Seed(product entities.Product) {
	c.mu.Lock()
	defer c.mu.Unlock()

	clone := product
	clone.Images = append([]string(nil), product.Images...)
	c.products[product.ProductID] = &clone
}

func (c *CatalogMemory) FindProduct(ctx context.Context, productID string) (*entities.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	product, exists := c.products[productID]
	if !exists {
		return nil, repositories.ErrProductNotFound
	}

	clone := *product
	clone.Images = append([]string(nil), product.Images...)
	return &clone, nil
}

func (c *CatalogMemory) DecrementStock(ctx context.Context, productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	product, exists := c.products[productID]
	if !exists {
		return repositories.ErrProductNotFound
	}
	if product.Stock < quantity {
		return repositories.ErrInsufficientStock
	}

	product.Stock -= quantity
	return nil
}

func (c *CatalogMemory) IncrementStock(ctx context.Context, productID string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	product, exists := c.products[productID]
	if !exists {
		return repositories.ErrProductNotFound
	}

	product.Stock += quantity
	return nil
}

// Stock reports current stock, for tests.
func (c *CatalogMemory) Stock(productID string) int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if product, exists := c.products[productID]; exists {
		return product.Stock
	}
	return 0
}
