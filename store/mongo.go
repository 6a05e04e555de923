package store

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"bismi-shop/lifecycle"
	"bismi-shop/models"
)

// MongoOrders persists orders in the orders collection.
type MongoOrders struct {
	Collection *mongo.Collection
}

func NewMongoOrders(client *mongo.Client) *MongoOrders {
	return &MongoOrders{Collection: client.Database("bismi").Collection("orders")}
}

// FindByToken looks up the order carrying an idempotency token.
func (s *MongoOrders) FindByToken(ctx context.Context, token string) (*models.Order, error) {
	var order models.Order
	err := s.Collection.FindOne(ctx, bson.M{"idempotencyToken": token}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order by token: %w", err)
	}
	return &order, nil
}

// Insert creates the order document and fills in its assigned id.
func (s *MongoOrders) Insert(ctx context.Context, order *models.Order) error {
	res, err := s.Collection.InsertOne(ctx, order)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateToken
		}
		return fmt.Errorf("insert order: %w", err)
	}
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		order.ID = id
	}
	return nil
}

// Get fetches one order by hex id. A malformed id is a not-found, not an
// I/O failure.
func (s *MongoOrders) Get(ctx context.Context, id string) (*models.Order, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}
	var order models.Order
	err = s.Collection.FindOne(ctx, bson.M{"_id": oid}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get order: %w", err)
	}
	return &order, nil
}

// LatestByMobile returns the customer's most recent order, for tracking.
func (s *MongoOrders) LatestByMobile(ctx context.Context, mobile string) (*models.Order, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	var order models.Order
	err := s.Collection.FindOne(ctx, bson.M{"mobile": mobile}, opts).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find order by mobile: %w", err)
	}
	return &order, nil
}

// List pages orders newest first. The returned cursor is empty when the page
// was not full, i.e. there is nothing further back.
func (s *MongoOrders) List(ctx context.Context, f ListFilter) ([]models.Order, string, error) {
	filter := bson.M{}
	if f.Status != "" {
		filter["status"] = f.Status
	}
	if f.Mobile != "" {
		filter["mobile"] = f.Mobile
	}
	if f.After != "" {
		createdAt, id, err := decodeCursor(f.After)
		if err != nil {
			return nil, "", err
		}
		filter["$or"] = bson.A{
			bson.M{"createdAt": bson.M{"$lt": createdAt}},
			bson.M{"createdAt": createdAt, "_id": bson.M{"$lt": id}},
		}
	}

	limit := f.Limit
	if limit <= 0 {
		limit = 15
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetLimit(limit)

	cursor, err := s.Collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, "", fmt.Errorf("list orders: %w", err)
	}
	defer cursor.Close(ctx)

	var orders []models.Order
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, "", fmt.Errorf("read orders: %w", err)
	}

	next := ""
	if int64(len(orders)) == limit {
		last := orders[len(orders)-1]
		next = encodeCursor(last.CreatedAt, last.ID)
	}
	return orders, next, nil
}

// UpdateStatus applies one state-machine transition. The write is guarded on
// the expected current status, so a concurrent transition loses cleanly
// instead of double-applying; nothing but status and updatedAt changes.
func (s *MongoOrders) UpdateStatus(ctx context.Context, id string, to models.Status, t lifecycle.Transitions) (*models.Order, error) {
	order, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !t.Known(to) {
		return nil, &lifecycle.TransitionError{From: order.Status, To: to}
	}
	if err := t.Check(order.Status, to); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	res, err := s.Collection.UpdateOne(ctx,
		bson.M{"_id": order.ID, "status": order.Status},
		bson.M{"$set": bson.M{"status": to, "updatedAt": now}},
	)
	if err != nil {
		return nil, fmt.Errorf("update order status: %w", err)
	}
	if res.MatchedCount == 0 {
		// Status moved underneath us; report against the fresh state.
		fresh, gerr := s.Get(ctx, id)
		if gerr != nil {
			return nil, gerr
		}
		return nil, &lifecycle.TransitionError{From: fresh.Status, To: to}
	}

	order.Status = to
	order.UpdatedAt = now
	return order, nil
}

// CountToday tallies today's orders by status for the dashboard.
func (s *MongoOrders) CountToday(ctx context.Context, now time.Time) (*StatusCounts, error) {
	cursor, err := s.Collection.Find(ctx, bson.M{
		"createdAt": bson.M{"$gte": StartOfDay(now)},
	})
	if err != nil {
		return nil, fmt.Errorf("count today's orders: %w", err)
	}
	defer cursor.Close(ctx)

	counts := &StatusCounts{ByStatus: map[models.Status]int{}}
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return nil, fmt.Errorf("decode order: %w", err)
		}
		counts.Total++
		counts.ByStatus[order.Status]++
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("count today's orders: %w", err)
	}
	return counts, nil
}

// MongoProducts reads the product catalog.
type MongoProducts struct {
	Collection *mongo.Collection
}

func NewMongoProducts(client *mongo.Client) *MongoProducts {
	return &MongoProducts{Collection: client.Database("bismi").Collection("products")}
}

// FetchActive returns active products, optionally category-filtered, sorted
// case-insensitively by name. Sorting happens here rather than in the query
// so no compound server-side index is required.
func (s *MongoProducts) FetchActive(ctx context.Context, category string) ([]models.Product, error) {
	filter := bson.M{"isActive": true}
	if category != "" {
		filter["category"] = category
	}

	cursor, err := s.Collection.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("read products: %w", err)
	}

	sort.SliceStable(products, func(i, j int) bool {
		return strings.ToLower(products[i].Name) < strings.ToLower(products[j].Name)
	})
	return products, nil
}
