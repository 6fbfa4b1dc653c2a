package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
)

type OrderDocument struct {
	ID              primitive.ObjectID     `bson:"_id,omitempty"`
	OrderID         string                 `bson:"order_id"`
	BuyerID         string                 `bson:"buyer_id"`
	CompanyID       string                 `bson:"company_id"`
	Items           []ItemDocument         `bson:"items"`
	ShippingAddress AddressDocument        `bson:"shipping_address"`
	PaymentMethod   string                 `bson:"payment_method"`
	PaymentResult   *PaymentResultDocument `bson:"payment_result,omitempty"`
	ItemsPrice      float64                `bson:"items_price"`
	TaxPrice        float64                `bson:"tax_price"`
	ShippingPrice   float64                `bson:"shipping_price"`
	TotalPrice      float64                `bson:"total_price"`
	IsPaid          bool                   `bson:"is_paid"`
	PaidAt          *time.Time             `bson:"paid_at,omitempty"`
	IsDelivered     bool                   `bson:"is_delivered"`
	DeliveredAt     *time.Time             `bson:"delivered_at,omitempty"`
	Status          string                 `bson:"status"`
	Notes           []NoteDocument         `bson:"notes,omitempty"`
	CreatedAt       time.Time              `bson:"created_at"`
	UpdatedAt       time.Time              `bson:"updated_at"`
}

type ItemDocument struct {
	ProductID string  `bson:"product_id"`
	Name      string  `bson:"name"`
	Quantity  int     `bson:"quantity"`
	UnitPrice float64 `bson:"unit_price"`
	Image     string  `bson:"image"`
	CompanyID string  `bson:"company_id"`
}

type AddressDocument struct {
	Address    string `bson:"address"`
	City       string `bson:"city"`
	PostalCode string `bson:"postal_code"`
	Country    string `bson:"country"`
}

type PaymentResultDocument struct {
	ID           string `bson:"id"`
	Status       string `bson:"status"`
	UpdateTime   string `bson:"update_time"`
	EmailAddress string `bson:"email_address"`
}

type NoteDocument struct {
	NoteID      string    `bson:"note_id"`
	AuthorID    string    `bson:"author_id"`
	Text        string    `bson:"text"`
	IsAdminNote bool      `bson:"is_admin_note"`
	CreatedAt   time.Time `bson:"created_at"`
}

type ProductDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	ProductID string             `bson:"product_id"`
	Name      string             `bson:"name"`
	Price     float64            `bson:"price"`
	Stock     int                `bson:"stock"`
	CompanyID string             `bson:"company_id"`
	Images    []string           `bson:"images"`
}

func toOrderDocument(order *entities.Order) *OrderDocument {
	doc := &OrderDocument{
		OrderID:   order.OrderID,
		BuyerID:   order.BuyerID,
		CompanyID: order.CompanyID,
		Items:     make([]ItemDocument, len(order.Items)),
		ShippingAddress: AddressDocument{
			Address:    order.ShippingAddress.Address,
			City:       order.ShippingAddress.City,
			PostalCode: order.ShippingAddress.PostalCode,
			Country:    order.ShippingAddress.Country,
		},
		PaymentMethod: string(order.PaymentMethod),
		ItemsPrice:    order.ItemsPrice,
		TaxPrice:      order.TaxPrice,
		ShippingPrice: order.ShippingPrice,
		TotalPrice:    order.TotalPrice,
		IsPaid:        order.IsPaid,
		PaidAt:        order.PaidAt,
		IsDelivered:   order.IsDelivered,
		DeliveredAt:   order.DeliveredAt,
		Status:        string(order.Status),
		CreatedAt:     order.CreatedAt,
		UpdatedAt:     order.UpdatedAt,
	}

	for i, item := range order.Items {
		doc.Items[i] = ItemDocument{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Image:     item.Image,
			CompanyID: item.CompanyID,
		}
	}

	if order.PaymentResult != nil {
		doc.PaymentResult = &PaymentResultDocument{
			ID:           order.PaymentResult.ID,
			Status:       order.PaymentResult.Status,
			UpdateTime:   order.PaymentResult.UpdateTime,
			EmailAddress: order.PaymentResult.EmailAddress,
		}
	}

	for _, note := range order.Notes {
		doc.Notes = append(doc.Notes, NoteDocument{
			NoteID:      note.NoteID,
			AuthorID:    note.AuthorID,
			Text:        note.Text,
			IsAdminNote: note.IsAdminNote,
			CreatedAt:   note.CreatedAt,
		})
	}

	return doc
}

func toOrderEntity(doc *OrderDocument) *entities.Order {
	items := make([]entities.OrderItemLine, len(doc.Items))
	for i, item := range doc.Items {
		items[i] = entities.OrderItemLine{
			ProductID: item.ProductID,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Image:     item.Image,
			CompanyID: item.CompanyID,
		}
	}

	order := &entities.Order{
		OrderID:   doc.OrderID,
		BuyerID:   doc.BuyerID,
		CompanyID: doc.CompanyID,
		Items:     items,
		ShippingAddress: entities.ShippingAddress{
			Address:    doc.ShippingAddress.Address,
			City:       doc.ShippingAddress.City,
			PostalCode: doc.ShippingAddress.PostalCode,
			Country:    doc.ShippingAddress.Country,
		},
		PaymentMethod: entities.PaymentMethod(doc.PaymentMethod),
		ItemsPrice:    doc.ItemsPrice,
		TaxPrice:      doc.TaxPrice,
		ShippingPrice: doc.ShippingPrice,
		TotalPrice:    doc.TotalPrice,
		IsPaid:        doc.IsPaid,
		PaidAt:        doc.PaidAt,
		IsDelivered:   doc.IsDelivered,
		DeliveredAt:   doc.DeliveredAt,
		Status:        entities.OrderStatus(doc.Status),
		CreatedAt:     doc.CreatedAt,
		UpdatedAt:     doc.UpdatedAt,
	}

	if doc.PaymentResult != nil {
		order.PaymentResult = &entities.PaymentResult{
			ID:           doc.PaymentResult.ID,
			Status:       doc.PaymentResult.Status,
			UpdateTime:   doc.PaymentResult.UpdateTime,
			EmailAddress: doc.PaymentResult.EmailAddress,
		}
	}

	for _, note := range doc.Notes {
		order.Notes = append(order.Notes, entities.OrderNote{
			NoteID:      note.NoteID,
			AuthorID:    note.AuthorID,
			Text:        note.Text,
			IsAdminNote: note.IsAdminNote,
			CreatedAt:   note.CreatedAt,
		})
	}

	return order
}

func toProductEntity(doc *ProductDocument) *entities.Product {
	return &entities.Product{
		ProductID: doc.ProductID,
		Name:      doc.Name,
		Price:     doc.Price,
		Stock:     doc.Stock,
		CompanyID: doc.CompanyID,
		Images:    doc.Images,
	}
}
