package notification

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

var ErrNotificationNotFound = errors.New("notification not found")

type NotificationRepository interface {
	Create(ctx context.Context, notification *Notification) error
	ListForUser(ctx context.Context, churchID, userID string, page, limit int64) ([]Notification, int64, error)
	UnreadCount(ctx context.Context, churchID, userID string) (int64, error)
	MarkAsRead(ctx context.Context, churchID, userID, id string) error
}

type NotificationRepositoryImpl struct {
	collection *mongo.Collection
}

func NewNotificationRepository(db *database.MongodbDB) NotificationRepository {
	return &NotificationRepositoryImpl{
		collection: db.DB.Collection("notifications"),
	}
}

// visibleTo matches notifications addressed to the user or to the whole church
func visibleTo(churchID, userID string) bson.M {
	return bson.M{
		"church_id": churchID,
		"$or": bson.A{
			bson.M{"user_id": userID},
			bson.M{"user_id": bson.M{"$exists": false}},
		},
	}
}

func (r *NotificationRepositoryImpl) Create(ctx context.Context, notification *Notification) error {
	notification.ID = primitive.NewObjectID()
	notification.CreatedAt = time.Now().UTC()
	notification.IsRead = false
	if notification.Type == "" {
		notification.Type = NotificationTypeInfo
	}
	_, err := r.collection.InsertOne(ctx, notification)
	return err
}

func (r *NotificationRepositoryImpl) ListForUser(ctx context.Context, churchID, userID string, page, limit int64) ([]Notification, int64, error) {
	filter := visibleTo(churchID, userID)

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((page - 1) * limit).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	notifications := []Notification{}
	if err = cursor.All(ctx, &notifications); err != nil {
		return nil, 0, err
	}
	return notifications, total, nil
}

func (r *NotificationRepositoryImpl) UnreadCount(ctx context.Context, churchID, userID string) (int64, error) {
	filter := visibleTo(churchID, userID)
	filter["is_read"] = false
	return r.collection.CountDocuments(ctx, filter)
}

func (r *NotificationRepositoryImpl) MarkAsRead(ctx context.Context, churchID, userID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotificationNotFound
	}
	filter := visibleTo(churchID, userID)
	filter["_id"] = oid
	now := time.Now().UTC()
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"is_read": true, "read_at": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotificationNotFound
	}
	return nil
}
