package memory

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
)

func TestCatalogMemory_FindProduct(t *testing.T) {
	catalog := NewCatalogMemory()
	catalog.Seed(entities.Product{ProductID: "p1", Name: "Widget", Price: 9.99, Stock: 3, CompanyID: "c1", Images: []string{"a.jpg"}})

	product, err := catalog.FindProduct(context.Background(), "p1")
	assert.NoError(t, err)
	assert.Equal(t, "Widget", product.Name)

	// callers get a copy, not the stored product
	product.Stock = 0
	product.Images[0] = "tampered.jpg"
	again, _ := catalog.FindProduct(context.Background(), "p1")
	assert.Equal(t, 3, again.Stock)
	assert.Equal(t, "a.jpg", again.Images[0])

	_, err = catalog.FindProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, repositories.ErrProductNotFound)
}

func TestCatalogMemory_DecrementStock(t *testing.T) {
	catalog := NewCatalogMemory()
	catalog.Seed(entities.Product{ProductID: "p1", Stock: 5, CompanyID: "c1"})

	assert.NoError(t, catalog.DecrementStock(context.Background(), "p1", 3))
	assert.Equal(t, 2, catalog.Stock("p1"))

	err := catalog.DecrementStock(context.Background(), "p1", 3)
	assert.ErrorIs(t, err, repositories.ErrInsufficientStock)
	assert.Equal(t, 2, catalog.Stock("p1"))

	assert.NoError(t, catalog.IncrementStock(context.Background(), "p1", 3))
	assert.Equal(t, 5, catalog.Stock("p1"))
}

func TestCatalogMemory_ConcurrentDecrementNeverOversells(t *testing.T) {
	const stock = 50
	const workers = 200

	catalog := NewCatalogMemory()
	catalog.Seed(entities.Product{ProductID: "p1", Stock: stock, CompanyID: "c1"})

	var succeeded atomic.Int64
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			if err := catalog.DecrementStock(context.Background(), "p1", 1); err == nil {
				succeeded.Add(1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(stock), succeeded.Load())
	assert.Equal(t, 0, catalog.Stock("p1"))
}
