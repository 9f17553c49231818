package automation

import (
	"context"
	"errors"
	"time"

	"khesed-tek/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ExecutionRepository is insert-only for writes; executions are never updated,
// only pruned by age.
type ExecutionRepository interface {
	Insert(ctx context.Context, execution *AutomationExecution) error
	GetByID(ctx context.Context, churchID, id string) (*AutomationExecution, error)
	List(ctx context.Context, churchID string, filter ExecutionFilter) ([]AutomationExecution, error)
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
	EnsureIndexes(ctx context.Context) error
}

type ExecutionRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewExecutionRepository(mongodb *database.MongodbDB) ExecutionRepository {
	return &ExecutionRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_executions"),
	}
}

func (r *ExecutionRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "church_id", Value: 1}, {Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "church_id", Value: 1}, {Key: "rule_id", Value: 1}}},
		{Keys: bson.D{{Key: "church_id", Value: 1}, {Key: "source_type", Value: 1}, {Key: "source_id", Value: 1}}},
	})
	return err
}

func (r *ExecutionRepositoryImpl) Insert(ctx context.Context, execution *AutomationExecution) error {
	if execution.ID.IsZero() {
		execution.ID = primitive.NewObjectID()
	}
	_, err := r.Collection.InsertOne(ctx, execution)
	return err
}

func (r *ExecutionRepositoryImpl) GetByID(ctx context.Context, churchID, id string) (*AutomationExecution, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrExecutionNotFound
	}
	var execution AutomationExecution
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid, "church_id": churchID}).Decode(&execution)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrExecutionNotFound
		}
		return nil, err
	}
	return &execution, nil
}

func (r *ExecutionRepositoryImpl) List(ctx context.Context, churchID string, filter ExecutionFilter) ([]AutomationExecution, error) {
	query := bson.M{"church_id": churchID}
	if filter.RuleID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.RuleID)
		if err != nil {
			return []AutomationExecution{}, nil
		}
		query["rule_id"] = oid
	}
	if filter.SourceType != "" {
		query["source_type"] = filter.SourceType
	}
	if filter.SourceID != "" {
		query["source_id"] = filter.SourceID
	}

	limit := filter.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	opts := options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(limit)

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	executions := []AutomationExecution{}
	if err := cursor.All(ctx, &executions); err != nil {
		return nil, err
	}
	return executions, nil
}

func (r *ExecutionRepositoryImpl) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.Collection.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
