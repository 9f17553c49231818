package automation

import (
	"context"
	"errors"
	"slices"
	"sync"
	"time"

	"khesed-tek/internal/features/notification"
	"khesed-tek/internal/features/task"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MockRuleRepo struct {
	Rules   []AutomationRule
	FindErr error
}

func (m *MockRuleRepo) FindEnabled(ctx context.Context, churchID string, triggerType TriggerType) ([]AutomationRule, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	out := []AutomationRule{}
	for _, r := range m.Rules {
		if r.ChurchID == churchID && r.TriggerType == triggerType && r.Enabled {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *MockRuleRepo) Create(ctx context.Context, rule *AutomationRule) error {
	rule.ID = primitive.NewObjectID()
	m.Rules = append(m.Rules, *rule)
	return nil
}

func (m *MockRuleRepo) GetByID(ctx context.Context, churchID, id string) (*AutomationRule, error) {
	for i := range m.Rules {
		if m.Rules[i].ID.Hex() == id && m.Rules[i].ChurchID == churchID {
			rule := m.Rules[i]
			return &rule, nil
		}
	}
	return nil, ErrRuleNotFound
}

func (m *MockRuleRepo) List(ctx context.Context, churchID string, filter RuleFilter) ([]AutomationRule, error) {
	return m.Rules, nil
}

func (m *MockRuleRepo) Update(ctx context.Context, rule *AutomationRule) error {
	for i := range m.Rules {
		if m.Rules[i].ID == rule.ID {
			m.Rules[i] = *rule
			return nil
		}
	}
	return ErrRuleNotFound
}

func (m *MockRuleRepo) Delete(ctx context.Context, churchID, id string) error {
	for i := range m.Rules {
		if m.Rules[i].ID.Hex() == id {
			m.Rules = append(m.Rules[:i], m.Rules[i+1:]...)
			return nil
		}
	}
	return ErrRuleNotFound
}

func (m *MockRuleRepo) SetEnabled(ctx context.Context, churchID, id string, enabled bool) error {
	for i := range m.Rules {
		if m.Rules[i].ID.Hex() == id {
			m.Rules[i].Enabled = enabled
			return nil
		}
	}
	return ErrRuleNotFound
}

func (m *MockRuleRepo) EnsureIndexes(ctx context.Context) error { return nil }

type MockExecutionRepo struct {
	mu        sync.Mutex
	Inserted  []AutomationExecution
	InsertErr error
}

func (m *MockExecutionRepo) Insert(ctx context.Context, execution *AutomationExecution) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.Inserted = append(m.Inserted, *execution)
	return nil
}

func (m *MockExecutionRepo) GetByID(ctx context.Context, churchID, id string) (*AutomationExecution, error) {
	for i := range m.Inserted {
		if m.Inserted[i].ID.Hex() == id {
			return &m.Inserted[i], nil
		}
	}
	return nil, ErrExecutionNotFound
}

func (m *MockExecutionRepo) List(ctx context.Context, churchID string, filter ExecutionFilter) ([]AutomationExecution, error) {
	return m.Inserted, nil
}

func (m *MockExecutionRepo) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

func (m *MockExecutionRepo) EnsureIndexes(ctx context.Context) error { return nil }

type markedSource struct {
	triggered bool
	ids       []string
}

// MockMarker mimics the conditional writes of the source store in memory
type MockMarker struct {
	mu        sync.Mutex
	Sources   map[string]*markedSource
	Flips     int
	Claims    int
	Releases  int
	Appends   int
	ClaimErr  error
	AppendErr error
}

func NewMockMarker() *MockMarker {
	return &MockMarker{Sources: map[string]*markedSource{}}
}

func (m *MockMarker) source(sourceType, sourceID string) *markedSource {
	key := sourceType + "/" + sourceID
	s, ok := m.Sources[key]
	if !ok {
		s = &markedSource{}
		m.Sources[key] = s
	}
	return s
}

func (m *MockMarker) ClaimAutomation(ctx context.Context, churchID, sourceType, sourceID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Claims++
	if m.ClaimErr != nil {
		return false, m.ClaimErr
	}
	s := m.source(sourceType, sourceID)
	if s.triggered {
		return false, nil
	}
	s.triggered = true
	m.Flips++
	return true, nil
}

func (m *MockMarker) ReleaseAutomation(ctx context.Context, churchID, sourceType, sourceID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Releases++
	if s := m.source(sourceType, sourceID); len(s.ids) == 0 {
		s.triggered = false
	}
	return nil
}

func (m *MockMarker) AppendExecutionIDs(ctx context.Context, churchID, sourceType, sourceID string, executionIDs []string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Appends++
	if m.AppendErr != nil {
		return m.AppendErr
	}
	s := m.source(sourceType, sourceID)
	for _, id := range executionIDs {
		if !slices.Contains(s.ids, id) {
			s.ids = append(s.ids, id)
		}
	}
	return nil
}

type sentEmail struct {
	To, Subject, Body string
}

type MockEmailSender struct {
	mu    sync.Mutex
	Sent  []sentEmail
	Err   error
	Delay time.Duration
}

func (m *MockEmailSender) SendEmail(ctx context.Context, to, subject, body string) error {
	if m.Delay > 0 {
		time.Sleep(m.Delay)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, sentEmail{To: to, Subject: subject, Body: body})
	return m.Err
}

type MockSMSSender struct {
	To, Body []string
	Err      error
}

func (m *MockSMSSender) SendSMS(ctx context.Context, to, body string) error {
	m.To = append(m.To, to)
	m.Body = append(m.Body, body)
	return m.Err
}

type MockTaskCreator struct {
	Tasks []task.Task
}

func (m *MockTaskCreator) Create(ctx context.Context, t *task.Task) error {
	m.Tasks = append(m.Tasks, *t)
	return nil
}

type MockNotifier struct {
	Notifications []notification.Notification
}

func (m *MockNotifier) Create(ctx context.Context, n *notification.Notification) error {
	m.Notifications = append(m.Notifications, *n)
	return nil
}

type MockTagger struct {
	Tags []string
}

func (m *MockTagger) TagRecord(ctx context.Context, churchID, sourceType, sourceID, tag string) error {
	m.Tags = append(m.Tags, sourceType+"/"+sourceID+":"+tag)
	return nil
}

type MockBroadcaster struct {
	Messages []interface{}
}

func (m *MockBroadcaster) Broadcast(churchID string, message interface{}) int {
	m.Messages = append(m.Messages, message)
	return 1
}

var errSendFailed = errors.New("smtp: connection refused")
