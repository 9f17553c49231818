package prayer

import (
	"context"
	"time"

	"khesed-tek/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PrayerRepository interface {
	Create(ctx context.Context, req *PrayerRequest) error
	List(ctx context.Context, churchID string, status Status, urgentOnly bool) ([]PrayerRequest, error)
}

type PrayerRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewPrayerRepository(mongodb *database.MongodbDB) PrayerRepository {
	return &PrayerRepositoryImpl{
		Collection: mongodb.DB.Collection("prayer_requests"),
	}
}

func (r *PrayerRepositoryImpl) Create(ctx context.Context, req *PrayerRequest) error {
	req.ID = primitive.NewObjectID()
	req.CreatedAt = time.Now().UTC()
	if req.Status == "" {
		req.Status = StatusOpen
	}
	_, err := r.Collection.InsertOne(ctx, req)
	return err
}

func (r *PrayerRepositoryImpl) List(ctx context.Context, churchID string, status Status, urgentOnly bool) ([]PrayerRequest, error) {
	query := bson.M{"church_id": churchID}
	if status != "" {
		query["status"] = status
	}
	if urgentOnly {
		query["is_urgent"] = true
	}

	cursor, err := r.Collection.Find(ctx, query, options.Find().SetSort(bson.M{"created_at": -1}).SetLimit(200))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []PrayerRequest{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}
