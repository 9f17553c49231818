package audit

import (
	"context"

	common_models "khesed-tek/internal/common/models"
	"khesed-tek/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type AuditRepository interface {
	Create(ctx context.Context, log common_models.AuditLog) error
	List(ctx context.Context, churchID string, filter LogFilter) ([]common_models.AuditLog, error)
}

type AuditRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAuditRepository(mongodb *database.MongodbDB) AuditRepository {
	return &AuditRepositoryImpl{
		Collection: mongodb.DB.Collection("audit_logs"),
	}
}

func (r *AuditRepositoryImpl) Create(ctx context.Context, log common_models.AuditLog) error {
	_, err := r.Collection.InsertOne(ctx, log)
	return err
}

func (r *AuditRepositoryImpl) List(ctx context.Context, churchID string, filter LogFilter) ([]common_models.AuditLog, error) {
	opts := options.Find().
		SetLimit(filter.Limit).
		SetSkip(filter.offset()).
		SetSort(bson.D{{Key: "timestamp", Value: -1}})

	query := bson.M{"church_id": churchID}
	for field, value := range map[string]string{
		"module":    filter.Module,
		"record_id": filter.RecordID,
		"action":    filter.Action,
		"actor_id":  filter.ActorID,
	} {
		if value != "" {
			query[field] = value
		}
	}

	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	logs := []common_models.AuditLog{}
	if err := cursor.All(ctx, &logs); err != nil {
		return nil, err
	}
	return logs, nil
}
