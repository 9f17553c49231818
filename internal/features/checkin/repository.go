package checkin

import (
	"context"
	"time"

	"khesed-tek/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type CheckInRepository interface {
	Create(ctx context.Context, checkIn *CheckIn) error
	List(ctx context.Context, churchID string, firstTimeOnly bool, limit int64) ([]CheckIn, error)
}

type CheckInRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewCheckInRepository(mongodb *database.MongodbDB) CheckInRepository {
	return &CheckInRepositoryImpl{
		Collection: mongodb.DB.Collection("check_ins"),
	}
}

func (r *CheckInRepositoryImpl) Create(ctx context.Context, checkIn *CheckIn) error {
	checkIn.ID = primitive.NewObjectID()
	if checkIn.CheckedInAt.IsZero() {
		checkIn.CheckedInAt = time.Now().UTC()
	}
	_, err := r.Collection.InsertOne(ctx, checkIn)
	return err
}

func (r *CheckInRepositoryImpl) List(ctx context.Context, churchID string, firstTimeOnly bool, limit int64) ([]CheckIn, error) {
	query := bson.M{"church_id": churchID}
	if firstTimeOnly {
		query["is_first_time"] = true
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	opts := options.Find().SetSort(bson.M{"checked_in_at": -1}).SetLimit(limit)
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	checkIns := []CheckIn{}
	if err := cursor.All(ctx, &checkIns); err != nil {
		return nil, err
	}
	return checkIns, nil
}
