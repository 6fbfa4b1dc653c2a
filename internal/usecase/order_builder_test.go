package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
)

func line(productID, companyID string, qty int, price float64) entities.OrderItemLine {
	return entities.OrderItemLine{
		ProductID: productID,
		Name:      productID,
		Quantity:  qty,
		UnitPrice: price,
		CompanyID: companyID,
	}
}

func TestPartitionByCompany_FirstSeenOrder(t *testing.T) {
	lines := []entities.OrderItemLine{
		line("p1", "companyB", 1, 10),
		line("p2", "companyA", 2, 20),
		line("p3", "companyB", 3, 30),
		line("p4", "companyC", 1, 5),
	}

	groups := partitionByCompany(lines)

	assert.Len(t, groups, 3)
	assert.Equal(t, "companyB", groups[0].CompanyID)
	assert.Equal(t, "companyA", groups[1].CompanyID)
	assert.Equal(t, "companyC", groups[2].CompanyID)

	// relative line order survives within each group
	assert.Equal(t, []entities.OrderItemLine{lines[0], lines[2]}, groups[0].Lines)
	assert.Equal(t, []entities.OrderItemLine{lines[1]}, groups[1].Lines)

	assert.InDelta(t, 100.0, groups[0].ItemsSubtotal, 1e-9)
	assert.InDelta(t, 40.0, groups[1].ItemsSubtotal, 1e-9)
	assert.InDelta(t, 5.0, groups[2].ItemsSubtotal, 1e-9)
}

func TestPartitionByCompany_ConservesTotalValue(t *testing.T) {
	lines := []entities.OrderItemLine{
		line("p1", "a", 2, 49.99),
		line("p2", "b", 1, 0.01),
		line("p3", "a", 7, 13.37),
		line("p4", "c", 3, 99.95),
		line("p5", "b", 1, 42),
	}

	whole := 0.0
	for _, l := range lines {
		whole += l.LineTotal()
	}

	split := 0.0
	for _, g := range partitionByCompany(lines) {
		split += g.ItemsSubtotal
	}

	assert.InDelta(t, whole, split, 1e-9)
}

func TestPartitionByCompany_Empty(t *testing.T) {
	assert.Empty(t, partitionByCompany(nil))
}

func TestQuoteFor_ShippingBoundary(t *testing.T) {
	// free shipping strictly over 100
	assert.Equal(t, 10.0, quoteFor(100.00).ShippingPrice)
	assert.Equal(t, 0.0, quoteFor(100.01).ShippingPrice)
	assert.Equal(t, 10.0, quoteFor(0).ShippingPrice)
}

func TestQuoteFor_Tax(t *testing.T) {
	assert.InDelta(t, 30.0, quoteFor(200).TaxPrice, 1e-9)
}

func TestQuoteFor_TotalIdentity(t *testing.T) {
	for _, itemsPrice := range []float64{0, 0.01, 30, 99.99, 100, 100.01, 200, 1234.56} {
		q := quoteFor(itemsPrice)
		assert.Equal(t, q.ItemsPrice+q.TaxPrice+q.ShippingPrice, q.TotalPrice)
	}
}

func TestQuoteFor_WorkedExample(t *testing.T) {
	// companyA: 2 x 50 = 100 -> shipping applies
	a := quoteFor(100)
	assert.InDelta(t, 15.0, a.TaxPrice, 1e-9)
	assert.Equal(t, 10.0, a.ShippingPrice)
	assert.InDelta(t, 125.0, a.TotalPrice, 1e-9)

	// companyB: 1 x 30 = 30
	b := quoteFor(30)
	assert.InDelta(t, 4.5, b.TaxPrice, 1e-9)
	assert.Equal(t, 10.0, b.ShippingPrice)
	assert.InDelta(t, 44.5, b.TotalPrice, 1e-9)
}
