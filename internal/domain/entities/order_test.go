package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to processing", StatusPending, StatusProcessing, true},
		{"processing to shipped", StatusProcessing, StatusShipped, true},
		{"shipped to delivered", StatusShipped, StatusDelivered, true},
		{"pending to cancelled", StatusPending, StatusCancelled, true},
		{"processing to cancelled", StatusProcessing, StatusCancelled, true},
		{"shipped to cancelled", StatusShipped, StatusCancelled, true},
		{"pending skips to shipped", StatusPending, StatusShipped, false},
		{"pending skips to delivered", StatusPending, StatusDelivered, false},
		{"backwards shipped to processing", StatusShipped, StatusProcessing, false},
		{"delivered is terminal", StatusDelivered, StatusCancelled, false},
		{"cancelled is terminal", StatusCancelled, StatusPending, false},
		{"cancelled stays cancelled", StatusCancelled, StatusCancelled, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus("Pending"))
	assert.True(t, ValidStatus("Cancelled"))
	assert.False(t, ValidStatus("pending"))
	assert.False(t, ValidStatus("PAID"))
	assert.False(t, ValidStatus(""))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod("COD"))
	assert.True(t, ValidPaymentMethod("CreditCard"))
	assert.True(t, ValidPaymentMethod("PayPal"))
	assert.False(t, ValidPaymentMethod("Bitcoin"))
	assert.False(t, ValidPaymentMethod(""))
}

func TestOrderItemLine_LineTotal(t *testing.T) {
	line := OrderItemLine{Quantity: 3, UnitPrice: 19.99}
	assert.InDelta(t, 59.97, line.LineTotal(), 1e-9)
}

func TestProduct_FirstImage(t *testing.T) {
	assert.Equal(t, "a.jpg", (&Product{Images: []string{"a.jpg", "b.jpg"}}).FirstImage())
	assert.Equal(t, "", (&Product{}).FirstImage())
}
