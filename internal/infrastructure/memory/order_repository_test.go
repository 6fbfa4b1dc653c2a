package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
)

func pendingOrder(orderID string) *entities.Order {
	return &entities.Order{
		OrderID:   orderID,
		BuyerID:   "buyer1",
		CompanyID: "companyA",
		Status:    entities.StatusPending,
		Items:     []entities.OrderItemLine{{ProductID: "p1", Quantity: 1, UnitPrice: 10, CompanyID: "companyA"}},
		CreatedAt: time.Now(),
	}
}

func TestOrderRepositoryMemory_CreateAndGet(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()

	assert.NoError(t, repo.Create(ctx, pendingOrder("o1")))
	assert.ErrorIs(t, repo.Create(ctx, pendingOrder("o1")), repositories.ErrOrderAlreadyExists)

	order, err := repo.GetByID(ctx, "o1")
	assert.NoError(t, err)
	assert.Equal(t, "buyer1", order.BuyerID)

	// mutating the returned order must not touch the stored one
	order.Status = entities.StatusDelivered
	stored, _ := repo.GetByID(ctx, "o1")
	assert.Equal(t, entities.StatusPending, stored.Status)

	_, err = repo.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, repositories.ErrOrderNotFound)
}

func TestOrderRepositoryMemory_UpdateStatusIsConditional(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()
	assert.NoError(t, repo.Create(ctx, pendingOrder("o1")))

	assert.NoError(t, repo.UpdateStatus(ctx, "o1", entities.StatusPending, entities.StatusProcessing))

	// a second writer that still observed Pending loses
	err := repo.UpdateStatus(ctx, "o1", entities.StatusPending, entities.StatusCancelled)
	assert.ErrorIs(t, err, repositories.ErrStatusConflict)

	order, _ := repo.GetByID(ctx, "o1")
	assert.Equal(t, entities.StatusProcessing, order.Status)

	assert.ErrorIs(t, repo.UpdateStatus(ctx, "missing", entities.StatusPending, entities.StatusProcessing), repositories.ErrOrderNotFound)
}

func TestOrderRepositoryMemory_UpdateStatusDelivered(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()

	order := pendingOrder("o1")
	order.Status = entities.StatusShipped
	assert.NoError(t, repo.Create(ctx, order))

	assert.NoError(t, repo.UpdateStatus(ctx, "o1", entities.StatusShipped, entities.StatusDelivered))

	stored, _ := repo.GetByID(ctx, "o1")
	assert.True(t, stored.IsDelivered)
	assert.NotNil(t, stored.DeliveredAt)
}

func TestOrderRepositoryMemory_MarkPaidAndAddNote(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()
	assert.NoError(t, repo.Create(ctx, pendingOrder("o1")))

	payment := entities.PaymentResult{ID: "pay-1", Status: "COMPLETED"}
	assert.NoError(t, repo.MarkPaid(ctx, "o1", payment))

	note := entities.OrderNote{NoteID: "n1", AuthorID: "staff1", Text: "fragile", CreatedAt: time.Now()}
	assert.NoError(t, repo.AddNote(ctx, "o1", note))

	order, _ := repo.GetByID(ctx, "o1")
	assert.True(t, order.IsPaid)
	assert.Equal(t, "pay-1", order.PaymentResult.ID)
	assert.Len(t, order.Notes, 1)

	assert.ErrorIs(t, repo.MarkPaid(ctx, "missing", payment), repositories.ErrOrderNotFound)
	assert.ErrorIs(t, repo.AddNote(ctx, "missing", note), repositories.ErrOrderNotFound)
}

func TestOrderRepositoryMemory_List(t *testing.T) {
	repo := NewOrderRepositoryMemory()
	ctx := context.Background()

	base := time.Now()
	for i := 0; i < 5; i++ {
		order := pendingOrder(fmt.Sprintf("o%d", i))
		order.CreatedAt = base.Add(time.Duration(i) * time.Minute)
		if i%2 == 1 {
			order.CompanyID = "companyB"
		}
		assert.NoError(t, repo.Create(ctx, order))
	}

	orders, total, err := repo.List(ctx, repositories.ListFilter{CompanyID: "companyA"})
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	// newest first
	assert.Equal(t, "o4", orders[0].OrderID)
	assert.Equal(t, "o0", orders[2].OrderID)

	orders, total, err = repo.List(ctx, repositories.ListFilter{Page: 2, Limit: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, orders, 2)
	assert.Equal(t, "o2", orders[0].OrderID)

	orders, total, err = repo.List(ctx, repositories.ListFilter{Page: 9, Limit: 2})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Empty(t, orders)

	_, total, err = repo.List(ctx, repositories.ListFilter{Status: entities.StatusCancelled})
	assert.NoError(t, err)
	assert.Zero(t, total)
}
