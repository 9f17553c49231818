package source

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestCollectionFor(t *testing.T) {
	tests := []struct {
		sourceType string
		want       string
		wantErr    bool
	}{
		{TypeCheckIn, "check_ins", false},
		{TypePrayerRequest, "prayer_requests", false},
		{TypeVolunteerAssignment, "volunteer_assignments", false},
		{"sermon", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.sourceType, func(t *testing.T) {
			got, err := CollectionFor(tt.sourceType)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnknownSourceType)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRecordID(t *testing.T) {
	oid := primitive.NewObjectID()
	assert.Equal(t, oid, recordID(oid.Hex()))
	assert.Equal(t, "ci_123", recordID("ci_123"))
}

var storeNow = time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

func newTestStore(mt *mtest.T) *SourceStore {
	return &SourceStore{db: mt.DB, now: func() time.Time { return storeNow }}
}

func updateResponse(matched, modified int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: matched}, bson.E{Key: "nModified", Value: modified})
}

// firstUpdate returns the query and update documents of an update command
func firstUpdate(t *testing.T, mt *mtest.T) (bson.Raw, bson.Raw) {
	t.Helper()
	started := mt.GetStartedEvent()
	require.NotNil(t, started)
	require.Equal(t, "update", started.CommandName)

	updates, err := started.Command.Lookup("updates").Array().Values()
	require.NoError(t, err)
	require.Len(t, updates, 1)
	doc := updates[0].Document()
	return doc.Lookup("q").Document(), doc.Lookup("u").Document()
}

func TestSourceStore_ClaimAutomation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("flips an unflagged record", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		claimed, err := store.ClaimAutomation(context.Background(), "t1", TypeCheckIn, "ci_1")
		require.NoError(t, err)
		assert.True(t, claimed)

		q, u := firstUpdate(t, mt)
		assert.Equal(t, "ci_1", q.Lookup("_id").StringValue())
		assert.Equal(t, "t1", q.Lookup("church_id").StringValue())
		assert.True(t, q.Lookup("automation_triggered", "$ne").Boolean())
		assert.True(t, u.Lookup("$set", "automation_triggered").Boolean())
		assert.True(t, storeNow.Equal(u.Lookup("$set", "automation_triggered_at").Time()))
	})

	mt.Run("loses against an earlier claim", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(
			updateResponse(0, 0),
			mtest.CreateCursorResponse(0, "khesed.check_ins", mtest.FirstBatch, bson.D{{Key: "_id", Value: 1}, {Key: "n", Value: 1}}),
		)

		claimed, err := store.ClaimAutomation(context.Background(), "t1", TypeCheckIn, "ci_1")
		require.NoError(t, err)
		assert.False(t, claimed)
	})

	mt.Run("reports a missing record", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(
			updateResponse(0, 0),
			mtest.CreateCursorResponse(0, "khesed.check_ins", mtest.FirstBatch),
		)

		_, err := store.ClaimAutomation(context.Background(), "t1", TypeCheckIn, "ci_404")
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})

	mt.Run("rejects unknown source types", func(mt *mtest.T) {
		store := newTestStore(mt)

		_, err := store.ClaimAutomation(context.Background(), "t1", "sermon", "s_1")
		assert.ErrorIs(t, err, ErrUnknownSourceType)
	})
}

func TestSourceStore_AppendExecutionIDs(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("adds ids with set semantics", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		err := store.AppendExecutionIDs(context.Background(), "t1", TypeCheckIn, "ci_123", []string{"ex_1", "ex_2"})
		require.NoError(t, err)

		q, u := firstUpdate(t, mt)
		assert.Equal(t, "t1", q.Lookup("church_id").StringValue())
		_, err = q.LookupErr("automation_triggered")
		assert.Error(t, err, "appending does not depend on the flag")

		each, err := u.Lookup("$addToSet", "automation_execution_ids", "$each").Array().Values()
		require.NoError(t, err)
		require.Len(t, each, 2)
		assert.Equal(t, "ex_1", each[0].StringValue())
		assert.Equal(t, "ex_2", each[1].StringValue())
	})

	mt.Run("missing record", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(updateResponse(0, 0))

		err := store.AppendExecutionIDs(context.Background(), "t1", TypeCheckIn, "ci_404", []string{"ex_1"})
		assert.ErrorIs(t, err, ErrSourceNotFound)
	})

	mt.Run("no ids is a no-op", func(mt *mtest.T) {
		store := newTestStore(mt)

		require.NoError(t, store.AppendExecutionIDs(context.Background(), "t1", TypeCheckIn, "ci_1", nil))
		assert.Nil(t, mt.GetStartedEvent())
	})
}

func TestSourceStore_ReleaseAutomation(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("only clears claims without executions", func(mt *mtest.T) {
		store := newTestStore(mt)
		mt.AddMockResponses(updateResponse(1, 1))

		require.NoError(t, store.ReleaseAutomation(context.Background(), "t1", TypePrayerRequest, "pr_1"))

		q, u := firstUpdate(t, mt)
		assert.True(t, q.Lookup("automation_triggered").Boolean())
		assert.False(t, q.Lookup("automation_execution_ids.0", "$exists").Boolean())
		assert.False(t, u.Lookup("$set", "automation_triggered").Boolean())
		_, err := u.LookupErr("$unset", "automation_triggered_at")
		assert.NoError(t, err)
	})
}
