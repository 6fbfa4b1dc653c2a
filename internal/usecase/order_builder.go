package usecase

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
)

const (
	taxRate          = 0.15
	freeShippingOver = 100.0
	flatShippingFee  = 10.0
)

// verifyConcurrency caps parallel catalog lookups per request.
const verifyConcurrency = 8

// CompanyOrderGroup holds the lines of one owning company during order
// construction. It is transient: groups are priced and persisted as orders,
// never stored themselves.
type CompanyOrderGroup struct {
	CompanyID     string
	Lines         []entities.OrderItemLine
	ItemsSubtotal float64
}

// verifyItems resolves every requested item against the catalog and builds
// price/name snapshots. It is read-only and all-or-nothing: the first
// failing item rejects the whole request and no stock is touched. Lookups
// run concurrently but the result preserves the request order.
func (uc *OrderUseCase) verifyItems(ctx context.Context, items []OrderItemRequest) ([]entities.OrderItemLine, error) {
	lines := make([]entities.OrderItemLine, len(items))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(verifyConcurrency)

	for i, item := range items {
		i, item := i, item // per-iteration copies: required for correctness before Go 1.22 loop semantics
		g.Go(func() error {
			product, err := uc.catalog.FindProduct(ctx, item.ProductID)
			if err != nil {
				if errors.Is(err, repositories.ErrProductNotFound) {
					return fmt.Errorf("%w: %s", repositories.ErrProductNotFound, item.ProductID)
				}
				return fmt.Errorf("failed to look up product %s: %w", item.ProductID, err)
			}
			if product.CompanyID != item.CompanyID {
				return fmt.Errorf("%w: product %s is owned by company %s", ErrCompanyMismatch, product.Name, product.CompanyID)
			}
			if product.Stock < item.Quantity {
				return fmt.Errorf("%w: %s has %d left, requested %d", repositories.ErrInsufficientStock, product.Name, product.Stock, item.Quantity)
			}

			lines[i] = entities.OrderItemLine{
				ProductID: product.ProductID,
				Name:      product.Name,
				Quantity:  item.Quantity,
				UnitPrice: product.Price,
				Image:     product.FirstImage(),
				CompanyID: product.CompanyID,
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return lines, nil
}

// partitionByCompany splits a verified, company-agnostic cart into one
// group per owning company. Line order within a group and the order of the
// groups themselves follow first appearance in the cart, so output is
// deterministic. Pure; input is already verified.
func partitionByCompany(lines []entities.OrderItemLine) []CompanyOrderGroup {
	index := make(map[string]int, len(lines))
	var groups []CompanyOrderGroup

	for _, line := range lines {
		i, ok := index[line.CompanyID]
		if !ok {
			i = len(groups)
			index[line.CompanyID] = i
			groups = append(groups, CompanyOrderGroup{CompanyID: line.CompanyID})
		}
		groups[i].Lines = append(groups[i].Lines, line)
		groups[i].ItemsSubtotal += line.LineTotal()
	}
	return groups
}

type priceQuote struct {
	ItemsPrice    float64
	TaxPrice      float64
	ShippingPrice float64
	TotalPrice    float64
}

// quoteFor prices one company group: 15% tax, flat shipping fee waived for
// subtotals strictly over the threshold. Values stay unrounded here;
// rounding to cents happens once, at the response boundary.
func quoteFor(itemsPrice float64) priceQuote {
	shipping := flatShippingFee
	if itemsPrice > freeShippingOver {
		shipping = 0
	}
	tax := itemsPrice * taxRate

	return priceQuote{
		ItemsPrice:    itemsPrice,
		TaxPrice:      tax,
		ShippingPrice: shipping,
		TotalPrice:    itemsPrice + tax + shipping,
	}
}
