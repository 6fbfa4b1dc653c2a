package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/227007/E-commerce-backend/internal/domain/entities"
	"github.com/227007/E-commerce-backend/internal/domain/repositories"
	"github.com/227007/E-commerce-backend/internal/infrastructure/logger"
)

type OrderRepositoryMongo struct {
	collection *mongo.Collection
	logger     *logger.Logger
}

func NewOrderRepositoryMongo(db *mongo.Database, logger *logger.Logger) (*OrderRepositoryMongo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	collection := db.Collection("orders")

	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "order_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create order index: %w", err)
	}

	return &OrderRepositoryMongo{
		collection: collection,
		logger:     logger,
	}, nil
}

func (r *OrderRepositoryMongo) Create(ctx context.Context, order *entities.Order) error {
	doc := toOrderDocument(order)

	_, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repositories.ErrOrderAlreadyExists
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	return nil
}

func (r *OrderRepositoryMongo) GetByID(ctx context.Context, orderID string) (*entities.Order, error) {
	var doc OrderDocument
	err := r.collection.FindOne(ctx, bson.M{"order_id": orderID}).Decode(&doc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, repositories.ErrOrderNotFound
		}
		return nil, fmt.Errorf("failed to find order: %w", err)
	}

	return toOrderEntity(&doc), nil
}

// UpdateStatus performs the transition as one conditional write: the filter
// matches the status the caller observed, so a concurrent transition makes
// this a no-op reported as ErrStatusConflict instead of a silent overwrite.
func (r *OrderRepositoryMongo) UpdateStatus(ctx context.Context, orderID string, from, to entities.OrderStatus) error {
	now := time.Now()
	set := bson.M{
		"status":     string(to),
		"updated_at": now,
	}
	if to == entities.StatusDelivered {
		set["is_delivered"] = true
		set["delivered_at"] = now
	}

	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"order_id": orderID, "status": string(from)},
		bson.M{"$set": set},
	)
	if err != nil {
		return fmt.Errorf("failed to update order status: %w", err)
	}

	if result.MatchedCount == 0 {
		// order missing, or its status moved under us
		count, cerr := r.collection.CountDocuments(ctx, bson.M{"order_id": orderID})
		if cerr != nil {
			return fmt.Errorf("failed to check order existence: %w", cerr)
		}
		if count == 0 {
			return repositories.ErrOrderNotFound
		}
		return repositories.ErrStatusConflict
	}

	r.logger.Info("Order status updated",
		"order_id", orderID,
		"from", string(from),
		"to", string(to))

	return nil
}

func (r *OrderRepositoryMongo) MarkPaid(ctx context.Context, orderID string, payment entities.PaymentResult) error {
	now := time.Now()
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"order_id": orderID},
		bson.M{"$set": bson.M{
			"is_paid":    true,
			"paid_at":    now,
			"updated_at": now,
			"payment_result": PaymentResultDocument{
				ID:           payment.ID,
				Status:       payment.Status,
				UpdateTime:   payment.UpdateTime,
				EmailAddress: payment.EmailAddress,
			},
		}},
	)
	if err != nil {
		return fmt.Errorf("failed to mark order paid: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepositoryMongo) AddNote(ctx context.Context, orderID string, note entities.OrderNote) error {
	result, err := r.collection.UpdateOne(
		ctx,
		bson.M{"order_id": orderID},
		bson.M{
			"$push": bson.M{"notes": NoteDocument{
				NoteID:      note.NoteID,
				AuthorID:    note.AuthorID,
				Text:        note.Text,
				IsAdminNote: note.IsAdminNote,
				CreatedAt:   note.CreatedAt,
			}},
			"$set": bson.M{"updated_at": time.Now()},
		},
	)
	if err != nil {
		return fmt.Errorf("failed to add order note: %w", err)
	}
	if result.MatchedCount == 0 {
		return repositories.ErrOrderNotFound
	}

	return nil
}

func (r *OrderRepositoryMongo) List(ctx context.Context, filter repositories.ListFilter) ([]entities.Order, int64, error) {
	query := bson.M{}
	if filter.BuyerID != "" {
		query["buyer_id"] = filter.BuyerID
	}
	if filter.CompanyID != "" {
		query["company_id"] = filter.CompanyID
	}
	if filter.Status != "" {
		query["status"] = string(filter.Status)
	}

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count orders: %w", err)
	}

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if filter.Limit > 0 {
		page := filter.Page
		if page < 1 {
			page = 1
		}
		opts.SetSkip((page - 1) * filter.Limit).SetLimit(filter.Limit)
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []entities.Order
	for cursor.Next(ctx) {
		var doc OrderDocument
		if err := cursor.Decode(&doc); err != nil {
			return nil, 0, fmt.Errorf("failed to decode order: %w", err)
		}
		orders = append(orders, *toOrderEntity(&doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate orders: %w", err)
	}

	return orders, total, nil
}
