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

type AutomationRepository interface {
	RuleStore
	Create(ctx context.Context, rule *AutomationRule) error
	GetByID(ctx context.Context, churchID, id string) (*AutomationRule, error)
	List(ctx context.Context, churchID string, filter RuleFilter) ([]AutomationRule, error)
	Update(ctx context.Context, rule *AutomationRule) error
	Delete(ctx context.Context, churchID, id string) error
	SetEnabled(ctx context.Context, churchID, id string, enabled bool) error
	EnsureIndexes(ctx context.Context) error
}

type AutomationRepositoryImpl struct {
	Collection *mongo.Collection
}

func NewAutomationRepository(mongodb *database.MongodbDB) AutomationRepository {
	return &AutomationRepositoryImpl{
		Collection: mongodb.DB.Collection("automation_rules"),
	}
}

func (r *AutomationRepositoryImpl) EnsureIndexes(ctx context.Context) error {
	_, err := r.Collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "church_id", Value: 1},
			{Key: "trigger_type", Value: 1},
			{Key: "enabled", Value: 1},
			{Key: "priority", Value: -1},
			{Key: "created_at", Value: 1},
		},
	})
	return err
}

func (r *AutomationRepositoryImpl) Create(ctx context.Context, rule *AutomationRule) error {
	now := time.Now().UTC()
	rule.ID = primitive.NewObjectID()
	rule.CreatedAt = now
	rule.UpdatedAt = now
	_, err := r.Collection.InsertOne(ctx, rule)
	return err
}

func (r *AutomationRepositoryImpl) GetByID(ctx context.Context, churchID, id string) (*AutomationRule, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrRuleNotFound
	}
	var rule AutomationRule
	err = r.Collection.FindOne(ctx, bson.M{"_id": oid, "church_id": churchID}).Decode(&rule)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrRuleNotFound
		}
		return nil, err
	}
	return &rule, nil
}

func (r *AutomationRepositoryImpl) FindEnabled(ctx context.Context, churchID string, triggerType TriggerType) ([]AutomationRule, error) {
	opts := options.Find().SetSort(bson.D{{Key: "priority", Value: -1}, {Key: "created_at", Value: 1}})
	return r.find(ctx, bson.M{"church_id": churchID, "trigger_type": triggerType, "enabled": true}, opts)
}

func (r *AutomationRepositoryImpl) List(ctx context.Context, churchID string, filter RuleFilter) ([]AutomationRule, error) {
	query := bson.M{"church_id": churchID}
	if filter.TriggerType != "" {
		query["trigger_type"] = filter.TriggerType
	}
	if filter.Enabled != nil {
		query["enabled"] = *filter.Enabled
	}
	opts := options.Find().SetSort(bson.D{{Key: "trigger_type", Value: 1}, {Key: "priority", Value: -1}, {Key: "created_at", Value: 1}})
	return r.find(ctx, query, opts)
}

func (r *AutomationRepositoryImpl) find(ctx context.Context, query bson.M, opts *options.FindOptions) ([]AutomationRule, error) {
	cursor, err := r.Collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)
	rules := []AutomationRule{}
	if err = cursor.All(ctx, &rules); err != nil {
		return nil, err
	}
	return rules, nil
}

func (r *AutomationRepositoryImpl) Update(ctx context.Context, rule *AutomationRule) error {
	rule.UpdatedAt = time.Now().UTC()
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": rule.ID, "church_id": rule.ChurchID},
		bson.M{"$set": bson.M{
			"name":         rule.Name,
			"description":  rule.Description,
			"trigger_type": rule.TriggerType,
			"priority":     rule.Priority,
			"enabled":      rule.Enabled,
			"conditions":   rule.Conditions,
			"actions":      rule.Actions,
			"updated_at":   rule.UpdatedAt,
		}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (r *AutomationRepositoryImpl) Delete(ctx context.Context, churchID, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRuleNotFound
	}
	res, err := r.Collection.DeleteOne(ctx, bson.M{"_id": oid, "church_id": churchID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrRuleNotFound
	}
	return nil
}

func (r *AutomationRepositoryImpl) SetEnabled(ctx context.Context, churchID, id string, enabled bool) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrRuleNotFound
	}
	res, err := r.Collection.UpdateOne(ctx,
		bson.M{"_id": oid, "church_id": churchID},
		bson.M{"$set": bson.M{"enabled": enabled, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrRuleNotFound
	}
	return nil
}
