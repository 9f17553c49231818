package source

import (
	"context"
	"errors"
	"fmt"
	"time"

	"khesed-tek/internal/database"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	TypeCheckIn             = "check_in"
	TypePrayerRequest       = "prayer_request"
	TypeMember              = "member"
	TypeDonation            = "donation"
	TypeEventRegistration   = "event_registration"
	TypeVolunteerAssignment = "volunteer_assignment"
)

var collections = map[string]string{
	TypeCheckIn:             "check_ins",
	TypePrayerRequest:       "prayer_requests",
	TypeMember:              "members",
	TypeDonation:            "donations",
	TypeEventRegistration:   "event_registrations",
	TypeVolunteerAssignment: "volunteer_assignments",
}

var (
	ErrUnknownSourceType = errors.New("unknown source type")
	ErrSourceNotFound    = errors.New("source record not found")
)

// Flags are the automation bookkeeping fields embedded in every source record
type Flags struct {
	AutomationTriggered    bool       `bson:"automation_triggered" json:"automation_triggered"`
	AutomationTriggeredAt  *time.Time `bson:"automation_triggered_at,omitempty" json:"automation_triggered_at,omitempty"`
	AutomationExecutionIDs []string   `bson:"automation_execution_ids,omitempty" json:"automation_execution_ids,omitempty"`
	Tags                   []string   `bson:"tags,omitempty" json:"tags,omitempty"`
}

// SourceStore reads and writes the automation flags and tags of source records
type SourceStore struct {
	db  *mongo.Database
	now func() time.Time
}

func NewSourceStore(mongodb *database.MongodbDB) *SourceStore {
	return &SourceStore{
		db:  mongodb.DB,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func CollectionFor(sourceType string) (string, error) {
	name, ok := collections[sourceType]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownSourceType, sourceType)
	}
	return name, nil
}

// recordID accepts ObjectID hex ids and falls back to plain string ids
func recordID(id string) interface{} {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

func (s *SourceStore) collection(sourceType string) (*mongo.Collection, error) {
	name, err := CollectionFor(sourceType)
	if err != nil {
		return nil, err
	}
	return s.db.Collection(name), nil
}

// ClaimAutomation sets the automation flag with a conditional write. Only the
// call that flips the flag gets true; a record that is already flagged gets false.
func (s *SourceStore) ClaimAutomation(ctx context.Context, churchID, sourceType, sourceID string) (bool, error) {
	coll, err := s.collection(sourceType)
	if err != nil {
		return false, err
	}
	id := recordID(sourceID)

	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, "church_id": churchID, "automation_triggered": bson.M{"$ne": true}},
		bson.M{"$set": bson.M{"automation_triggered": true, "automation_triggered_at": s.now()}},
	)
	if err != nil {
		return false, err
	}
	if res.MatchedCount == 1 {
		return true, nil
	}

	n, err := coll.CountDocuments(ctx, bson.M{"_id": id, "church_id": churchID})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, ErrSourceNotFound
	}
	return false, nil
}

// ReleaseAutomation clears a claim that produced no executions so a retry can run
func (s *SourceStore) ReleaseAutomation(ctx context.Context, churchID, sourceType, sourceID string) error {
	coll, err := s.collection(sourceType)
	if err != nil {
		return err
	}
	_, err = coll.UpdateOne(ctx,
		bson.M{
			"_id":                        recordID(sourceID),
			"church_id":                  churchID,
			"automation_triggered":       true,
			"automation_execution_ids.0": bson.M{"$exists": false},
		},
		bson.M{
			"$set":   bson.M{"automation_triggered": false},
			"$unset": bson.M{"automation_triggered_at": ""},
		},
	)
	return err
}

// AppendExecutionIDs adds execution ids to the record with set semantics
func (s *SourceStore) AppendExecutionIDs(ctx context.Context, churchID, sourceType, sourceID string, executionIDs []string) error {
	if len(executionIDs) == 0 {
		return nil
	}
	coll, err := s.collection(sourceType)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": recordID(sourceID), "church_id": churchID},
		bson.M{"$addToSet": bson.M{"automation_execution_ids": bson.M{"$each": executionIDs}}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSourceNotFound
	}
	return nil
}

// TagRecord adds a tag to the source record; tagging twice is a no-op
func (s *SourceStore) TagRecord(ctx context.Context, churchID, sourceType, sourceID, tag string) error {
	coll, err := s.collection(sourceType)
	if err != nil {
		return err
	}
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": recordID(sourceID), "church_id": churchID},
		bson.M{"$addToSet": bson.M{"tags": tag}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrSourceNotFound
	}
	return nil
}
