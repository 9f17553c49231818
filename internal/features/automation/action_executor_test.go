package automation

import (
	"context"
	"errors"
	"testing"

	"khesed-tek/internal/features/notification"
	"khesed-tek/internal/features/task"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestActionExecutor_FailureDoesNotStopLaterActions(t *testing.T) {
	email := &MockEmailSender{Err: errSendFailed}
	tasks := &MockTaskCreator{}
	notifier := &MockNotifier{}
	executor := NewActionExecutor(email, nil, nil, tasks, notifier, nil, zap.NewNop())

	rule := newRule("t1", TriggerVisitorFirstTime, "welcome", 0, fixedTime)
	rule.Actions = []Action{
		{Type: ActionSendEmail, Config: map[string]interface{}{"to": "{{visitorEmail}}", "subject": "Welcome"}},
		{Type: ActionCreateTask, Config: map[string]interface{}{"title": "Call {{visitorName}}", "priority": "high", "due_in_days": float64(2)}},
		{Type: ActionCreateNotification, Config: map[string]interface{}{"title": "New visitor", "message": "{{visitorName}} checked in"}},
	}
	event := visitorEvent(t, map[string]interface{}{"visitorEmail": "a@b.com", "visitorName": "Ana"})
	source := SourceRef{Type: "check_in", ID: "ci_123"}

	outcomes := executor.ExecuteActions(context.Background(), rule, event, source)

	require.Len(t, outcomes, 3)
	assert.False(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Error, "connection refused")
	assert.True(t, outcomes[1].Success)
	assert.True(t, outcomes[2].Success)
	for _, o := range outcomes {
		assert.False(t, o.ExecutedAt.IsZero())
	}

	require.Len(t, email.Sent, 1)
	assert.Equal(t, "a@b.com", email.Sent[0].To)

	require.Len(t, tasks.Tasks, 1)
	created := tasks.Tasks[0]
	assert.Equal(t, "Call Ana", created.Title)
	assert.Equal(t, task.PriorityHigh, created.Priority)
	assert.Equal(t, "check_in", created.SourceType)
	assert.Equal(t, "ci_123", created.SourceID)
	assert.Equal(t, rule.ID.Hex(), created.RuleID)
	require.NotNil(t, created.DueDate)

	require.Len(t, notifier.Notifications, 1)
	assert.Equal(t, "Ana checked in", notifier.Notifications[0].Message)
	assert.Equal(t, notification.NotificationTypeAutomation, notifier.Notifications[0].Type)
}

func TestActionExecutor_MissingCollaborator(t *testing.T) {
	executor := NewActionExecutor(nil, nil, nil, nil, nil, nil, zap.NewNop())
	event := visitorEvent(t, nil)

	tests := []Action{
		{Type: ActionSendEmail, Config: map[string]interface{}{"to": "a@b.com"}},
		{Type: ActionSendSMS, Config: map[string]interface{}{"to": "+1555", "message": "hi"}},
		{Type: ActionSendWhatsApp, Config: map[string]interface{}{"to": "+1555", "message": "hi"}},
		{Type: ActionCreateTask, Config: map[string]interface{}{"title": "x"}},
		{Type: ActionTagRecord, Config: map[string]interface{}{"tag": "x"}},
		{Type: ActionCreateNotification, Config: map[string]interface{}{"title": "x"}},
	}

	for _, action := range tests {
		t.Run(string(action.Type), func(t *testing.T) {
			err := executor.ExecuteAction(context.Background(), action, AutomationRule{}, event, SourceRef{})
			assert.True(t, errors.Is(err, errCollaboratorMissing))
		})
	}
}

func TestActionExecutor_ConfigErrors(t *testing.T) {
	sms := &MockSMSSender{}
	tagger := &MockTagger{}
	executor := NewActionExecutor(&MockEmailSender{}, sms, nil, &MockTaskCreator{}, &MockNotifier{}, tagger, zap.NewNop())
	event := visitorEvent(t, map[string]interface{}{"visitorPhone": ""})

	tests := []struct {
		name   string
		action Action
		source SourceRef
	}{
		{"email without recipient", Action{Type: ActionSendEmail, Config: map[string]interface{}{"subject": "x"}}, SourceRef{}},
		{"sms recipient renders empty", Action{Type: ActionSendSMS, Config: map[string]interface{}{"to": "{{visitorPhone}}", "message": "hi"}}, SourceRef{}},
		{"tag without source", Action{Type: ActionTagRecord, Config: map[string]interface{}{"tag": "visitor"}}, SourceRef{}},
		{"unknown action", Action{Type: "SEND_FAX"}, SourceRef{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := executor.ExecuteAction(context.Background(), tt.action, AutomationRule{}, event, tt.source)
			assert.Error(t, err)
		})
	}
	assert.Empty(t, sms.To)
	assert.Empty(t, tagger.Tags)
}

func TestActionExecutor_TagRecord(t *testing.T) {
	tagger := &MockTagger{}
	executor := NewActionExecutor(nil, nil, nil, nil, nil, tagger, zap.NewNop())
	event := visitorEvent(t, map[string]interface{}{"serviceName": "sunday"})

	err := executor.ExecuteAction(context.Background(),
		Action{Type: ActionTagRecord, Config: map[string]interface{}{"tag": "visited-{{serviceName}}"}},
		AutomationRule{}, event, SourceRef{Type: "check_in", ID: "ci_1"})

	require.NoError(t, err)
	assert.Equal(t, []string{"check_in/ci_1:visited-sunday"}, tagger.Tags)
}

type panickingSender struct{}

func (panickingSender) SendSMS(ctx context.Context, to, body string) error {
	panic("boom")
}

func TestActionExecutor_RecoversFromPanics(t *testing.T) {
	executor := NewActionExecutor(nil, panickingSender{}, nil, nil, nil, nil, zap.NewNop())
	rule := AutomationRule{Actions: []Action{
		{Type: ActionSendSMS, Config: map[string]interface{}{"to": "+1555", "message": "hi"}},
	}}

	var outcomes []ActionOutcome
	assert.NotPanics(t, func() {
		outcomes = executor.ExecuteActions(context.Background(), rule, visitorEvent(t, nil), SourceRef{})
	})
	require.Len(t, outcomes, 1)
	assert.False(t, outcomes[0].Success)
	assert.Contains(t, outcomes[0].Error, "panicked")
}
