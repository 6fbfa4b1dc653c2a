package handlers

import (
	"math"
	"time"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
)

type OrderItemInput struct {
	ProductID string `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
	CompanyID string `json:"company_id" binding:"required"`
}

type AddressInput struct {
	Address    string `json:"address" binding:"required"`
	City       string `json:"city" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
	Country    string `json:"country" binding:"required"`
}

type CreateOrderRequest struct {
	OrderItems      []OrderItemInput `json:"order_items" binding:"required,min=1,dive"`
	ShippingAddress AddressInput     `json:"shipping_address" binding:"required"`
	PaymentMethod   string           `json:"payment_method" binding:"required,oneof=COD CreditCard PayPal"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type PayOrderRequest struct {
	ID         string `json:"id" binding:"required"`
	Status     string `json:"status" binding:"required"`
	UpdateTime string `json:"update_time"`
	Payer      struct {
		EmailAddress string `json:"email_address"`
	} `json:"payer"`
}

type AddNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

type OrderItemResponse struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image,omitempty"`
	CompanyID string  `json:"company_id"`
}

type OrderResponse struct {
	OrderID         string                   `json:"order_id"`
	BuyerID         string                   `json:"buyer_id"`
	CompanyID       string                   `json:"company_id"`
	Items           []OrderItemResponse      `json:"items"`
	ShippingAddress entities.ShippingAddress `json:"shipping_address"`
	PaymentMethod   string                   `json:"payment_method"`
	PaymentResult   *entities.PaymentResult  `json:"payment_result,omitempty"`
	ItemsPrice      float64                  `json:"items_price"`
	TaxPrice        float64                  `json:"tax_price"`
	ShippingPrice   float64                  `json:"shipping_price"`
	TotalPrice      float64                  `json:"total_price"`
	IsPaid          bool                     `json:"is_paid"`
	PaidAt          *time.Time               `json:"paid_at,omitempty"`
	IsDelivered     bool                     `json:"is_delivered"`
	DeliveredAt     *time.Time               `json:"delivered_at,omitempty"`
	Status          string                   `json:"status"`
	Notes           []entities.OrderNote     `json:"notes,omitempty"`
	CreatedAt       time.Time                `json:"created_at"`
}

type FailedGroupResponse struct {
	CompanyID string `json:"company_id"`
	Error     string `json:"error"`
}

type CreateOrdersResponse struct {
	Orders       []OrderResponse       `json:"orders"`
	FailedGroups []FailedGroupResponse `json:"failed_groups,omitempty"`
}

type PagedOrdersResponse struct {
	Orders      []OrderResponse `json:"orders"`
	TotalPages  int64           `json:"total_pages"`
	CurrentPage int64           `json:"current_page"`
	TotalOrders int64           `json:"total_orders"`
}

// round2 rounds money for presentation. Stored values stay unrounded so
// rounding error never compounds across partitions.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func fromOrder(order *entities.Order) OrderResponse {
	items := make([]OrderItemResponse, len(order.Items))
	for i, item := range order.Items {
		items[i] = OrderItemResponse{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: round2(item.UnitPrice),
			Image:     item.Image,
			CompanyID: item.CompanyID,
		}
	}

	return OrderResponse{
		OrderID:         order.OrderID,
		BuyerID:         order.BuyerID,
		CompanyID:       order.CompanyID,
		Items:           items,
		ShippingAddress: order.ShippingAddress,
		PaymentMethod:   string(order.PaymentMethod),
		PaymentResult:   order.PaymentResult,
		ItemsPrice:      round2(order.ItemsPrice),
		TaxPrice:        round2(order.TaxPrice),
		ShippingPrice:   round2(order.ShippingPrice),
		TotalPrice:      round2(order.TotalPrice),
		IsPaid:          order.IsPaid,
		PaidAt:          order.PaidAt,
		IsDelivered:     order.IsDelivered,
		DeliveredAt:     order.DeliveredAt,
		Status:          string(order.Status),
		Notes:           order.Notes,
		CreatedAt:       order.CreatedAt,
	}
}

func fromOrders(orders []entities.Order) []OrderResponse {
	out := make([]OrderResponse, len(orders))
	for i := range orders {
		out[i] = fromOrder(&orders[i])
	}
	return out
}
