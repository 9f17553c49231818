package prayer

import (
	"context"
	"testing"

	"khesed-tek/internal/features/automation"
	"khesed-tek/internal/features/source"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockPrayerRepo struct {
	Created []PrayerRequest
}

func (m *MockPrayerRepo) Create(ctx context.Context, req *PrayerRequest) error {
	req.ID = primitive.NewObjectID()
	req.Status = StatusOpen
	m.Created = append(m.Created, *req)
	return nil
}

func (m *MockPrayerRepo) List(ctx context.Context, churchID string, status Status, urgentOnly bool) ([]PrayerRequest, error) {
	return m.Created, nil
}

type MockDispatcher struct {
	Requests []automation.TriggerRequest
}

func (m *MockDispatcher) Dispatch(ctx context.Context, req automation.TriggerRequest) <-chan automation.TriggerResult {
	m.Requests = append(m.Requests, req)
	ch := make(chan automation.TriggerResult)
	close(ch)
	return ch
}

func TestPrayerService_Submit(t *testing.T) {
	tests := []struct {
		name     string
		req      PrayerRequest
		wantType automation.TriggerType
		wantName string
	}{
		{
			name:     "regular request",
			req:      PrayerRequest{RequesterName: "Luis", Request: "For my family"},
			wantType: automation.TriggerPrayerRequestSubmitted,
			wantName: "Luis",
		},
		{
			name:     "urgent anonymous request",
			req:      PrayerRequest{Request: "Surgery tomorrow", IsUrgent: true, IsAnonymous: true},
			wantType: automation.TriggerPrayerRequestUrgent,
			wantName: "Anonymous",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dispatcher := &MockDispatcher{}
			svc := NewPrayerService(&MockPrayerRepo{}, dispatcher)

			req := tt.req
			require.NoError(t, svc.Submit(context.Background(), "t1", &req))

			require.Len(t, dispatcher.Requests, 1)
			got := dispatcher.Requests[0]
			assert.Equal(t, tt.wantType, got.Type)
			assert.Equal(t, source.TypePrayerRequest, got.SourceType)
			assert.Equal(t, req.ID.Hex(), got.SourceID)
			assert.Equal(t, tt.wantName, got.Data["requesterName"])
			assert.Equal(t, tt.req.IsUrgent, got.Data["isUrgent"])
		})
	}
}

func TestPrayerService_SubmitValidation(t *testing.T) {
	dispatcher := &MockDispatcher{}
	svc := NewPrayerService(&MockPrayerRepo{}, dispatcher)

	err := svc.Submit(context.Background(), "t1", &PrayerRequest{RequesterName: "Luis"})
	assert.ErrorIs(t, err, ErrInvalidPrayerRequest)

	err = svc.Submit(context.Background(), "t1", &PrayerRequest{Request: "help"})
	assert.ErrorIs(t, err, ErrInvalidPrayerRequest, "name required unless anonymous")

	assert.Empty(t, dispatcher.Requests)
}
