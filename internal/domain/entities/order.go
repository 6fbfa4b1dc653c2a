package entities

import "time"

type OrderStatus string

const (
	StatusPending    OrderStatus = "Pending"
	StatusProcessing OrderStatus = "Processing"
	StatusShipped    OrderStatus = "Shipped"
	StatusDelivered  OrderStatus = "Delivered"
	StatusCancelled  OrderStatus = "Cancelled"
)

func ValidStatus(status string) bool {
	switch OrderStatus(status) {
	case StatusPending, StatusProcessing, StatusShipped, StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// fulfilment rank; Cancelled sits outside the progression
var statusRank = map[OrderStatus]int{
	StatusPending:    0,
	StatusProcessing: 1,
	StatusShipped:    2,
	StatusDelivered:  3,
}

func (s OrderStatus) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransitionTo reports whether the status machine allows moving from s
// to next. Fulfilment advances one step at a time; any non-terminal status
// may move to Cancelled.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s.Terminal() {
		return false
	}
	if next == StatusCancelled {
		return true
	}
	from, ok1 := statusRank[s]
	to, ok2 := statusRank[next]
	return ok1 && ok2 && to == from+1
}

type PaymentMethod string

const (
	PaymentCOD        PaymentMethod = "COD"
	PaymentCreditCard PaymentMethod = "CreditCard"
	PaymentPayPal     PaymentMethod = "PayPal"
)

func ValidPaymentMethod(method string) bool {
	switch PaymentMethod(method) {
	case PaymentCOD, PaymentCreditCard, PaymentPayPal:
		return true
	}
	return false
}

// OrderItemLine is a snapshot of a product taken at verification time.
// Later catalog changes never alter the line of an existing order.
type OrderItemLine struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	Image     string  `json:"image"`
	CompanyID string  `json:"company_id"`
}

func (l OrderItemLine) LineTotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

type ShippingAddress struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

type PaymentResult struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	UpdateTime   string `json:"update_time"`
	EmailAddress string `json:"email_address"`
}

type OrderNote struct {
	NoteID      string    `json:"note_id"`
	AuthorID    string    `json:"author_id"`
	Text        string    `json:"text"`
	IsAdminNote bool      `json:"is_admin_note"`
	CreatedAt   time.Time `json:"created_at"`
}

// Order is one per-company order produced from a multi-company cart. Its
// lines are immutable after creation; only status, payment and notes mutate.
type Order struct {
	OrderID         string          `json:"order_id"`
	BuyerID         string          `json:"buyer_id"`
	CompanyID       string          `json:"company_id"`
	Items           []OrderItemLine `json:"items"`
	ShippingAddress ShippingAddress `json:"shipping_address"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
	PaymentResult   *PaymentResult  `json:"payment_result,omitempty"`
	ItemsPrice      float64         `json:"items_price"`
	TaxPrice        float64         `json:"tax_price"`
	ShippingPrice   float64         `json:"shipping_price"`
	TotalPrice      float64         `json:"total_price"`
	IsPaid          bool            `json:"is_paid"`
	PaidAt          *time.Time      `json:"paid_at,omitempty"`
	IsDelivered     bool            `json:"is_delivered"`
	DeliveredAt     *time.Time      `json:"delivered_at,omitempty"`
	Status          OrderStatus     `json:"status"`
	Notes           []OrderNote     `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}
