package checkin

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"khesed-tek/internal/config"
	"khesed-tek/internal/features/automation"
	"khesed-tek/internal/features/source"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockCheckInRepo struct {
	Created   []CheckIn
	CreateErr error
}

func (m *MockCheckInRepo) Create(ctx context.Context, checkIn *CheckIn) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	checkIn.ID = primitive.NewObjectID()
	m.Created = append(m.Created, *checkIn)
	return nil
}

func (m *MockCheckInRepo) List(ctx context.Context, churchID string, firstTimeOnly bool, limit int64) ([]CheckIn, error) {
	return m.Created, nil
}

type MockDispatcher struct {
	Requests []automation.TriggerRequest
}

func (m *MockDispatcher) Dispatch(ctx context.Context, req automation.TriggerRequest) <-chan automation.TriggerResult {
	m.Requests = append(m.Requests, req)
	ch := make(chan automation.TriggerResult, 1)
	ch <- automation.TriggerResult{Request: req, Summary: &automation.TriggerSummary{}}
	close(ch)
	return ch
}

func TestCheckInService_DispatchesOneTrigger(t *testing.T) {
	tests := []struct {
		name      string
		firstTime bool
		want      automation.TriggerType
	}{
		{"first time visitor", true, automation.TriggerVisitorFirstTime},
		{"returning visitor", false, automation.TriggerVisitorCheckedIn},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &MockCheckInRepo{}
			dispatcher := &MockDispatcher{}
			svc := NewCheckInService(repo, dispatcher)

			checkIn := &CheckIn{FirstName: "Ana", LastName: "Ruiz", Email: "ana@example.com", IsFirstTime: tt.firstTime}
			require.NoError(t, svc.CheckIn(context.Background(), "t1", checkIn))

			require.Len(t, dispatcher.Requests, 1)
			req := dispatcher.Requests[0]
			assert.Equal(t, tt.want, req.Type)
			assert.Equal(t, "t1", req.ChurchID)
			assert.Equal(t, source.TypeCheckIn, req.SourceType)
			assert.Equal(t, checkIn.ID.Hex(), req.SourceID)
			assert.Equal(t, "Ana Ruiz", req.Data["visitorName"])
			assert.Equal(t, tt.firstTime, req.Data["isFirstTime"])
			assert.Equal(t, "ana@example.com", req.Data["visitorEmail"])
		})
	}
}

func TestCheckInService_NoDispatchOnFailure(t *testing.T) {
	dispatcher := &MockDispatcher{}

	svc := NewCheckInService(&MockCheckInRepo{}, dispatcher)
	err := svc.CheckIn(context.Background(), "t1", &CheckIn{Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidCheckIn)

	svc = NewCheckInService(&MockCheckInRepo{CreateErr: errors.New("duplicate key")}, dispatcher)
	err = svc.CheckIn(context.Background(), "t1", &CheckIn{FirstName: "Ana"})
	assert.Error(t, err)

	assert.Empty(t, dispatcher.Requests)
}

func TestCheckInApi_Create(t *testing.T) {
	dispatcher := &MockDispatcher{}
	controller := NewCheckInController(NewCheckInService(&MockCheckInRepo{}, dispatcher))

	app := fiber.New()
	NewCheckInApi(controller, &config.Config{SkipAuth: true}).Setup(app)

	req := httptest.NewRequest("POST", "/api/check-ins", strings.NewReader(`{"first_name":"Ana","is_first_time":true}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Church-Id", "grace")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	require.Len(t, dispatcher.Requests, 1)
	assert.Equal(t, "grace", dispatcher.Requests[0].ChurchID)

	bad := httptest.NewRequest("POST", "/api/check-ins", strings.NewReader(`{"last_name":"Ruiz"}`))
	bad.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(bad)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
