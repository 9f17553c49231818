package automation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"khesed-tek/internal/features/notification"
	"khesed-tek/internal/features/task"

	"go.uber.org/zap"
)

var errCollaboratorMissing = errors.New("provider not configured")

// ActionExecutor runs a matched rule's actions in order. A failing action is
// recorded and the next one still runs.
type ActionExecutor interface {
	ExecuteActions(ctx context.Context, rule AutomationRule, event Event, source SourceRef) []ActionOutcome
	ExecuteAction(ctx context.Context, action Action, rule AutomationRule, event Event, source SourceRef) error
}

type ActionExecutorImpl struct {
	email    EmailSender
	sms      SMSSender
	whatsapp WhatsAppSender
	tasks    TaskCreator
	notifier Notifier
	tagger   RecordTagger
	logger   *zap.Logger
	now      func() time.Time
}

func NewActionExecutor(
	email EmailSender,
	sms SMSSender,
	whatsapp WhatsAppSender,
	tasks TaskCreator,
	notifier Notifier,
	tagger RecordTagger,
	logger *zap.Logger,
) ActionExecutor {
	return &ActionExecutorImpl{
		email:    email,
		sms:      sms,
		whatsapp: whatsapp,
		tasks:    tasks,
		notifier: notifier,
		tagger:   tagger,
		logger:   logger,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (e *ActionExecutorImpl) ExecuteActions(ctx context.Context, rule AutomationRule, event Event, source SourceRef) []ActionOutcome {
	outcomes := make([]ActionOutcome, 0, len(rule.Actions))
	for i, action := range rule.Actions {
		err := e.safeExecute(ctx, action, rule, event, source)
		outcome := ActionOutcome{
			ActionType: action.Type,
			Success:    err == nil,
			ExecutedAt: e.now(),
		}
		if err != nil {
			outcome.Error = err.Error()
			e.logger.Warn("automation action failed",
				zap.String("tenant_id", event.TenantID),
				zap.String("rule_id", rule.ID.Hex()),
				zap.Int("action_index", i),
				zap.String("action_type", string(action.Type)),
				zap.Error(err),
			)
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

func (e *ActionExecutorImpl) safeExecute(ctx context.Context, action Action, rule AutomationRule, event Event, source SourceRef) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("action panicked: %v", r)
		}
	}()
	return e.ExecuteAction(ctx, action, rule, event, source)
}

func (e *ActionExecutorImpl) ExecuteAction(ctx context.Context, action Action, rule AutomationRule, event Event, source SourceRef) error {
	switch action.Type {
	case ActionSendEmail:
		return e.executeSendEmail(ctx, action.Config, event)
	case ActionSendSMS:
		return e.executeSendSMS(ctx, action.Config, event)
	case ActionSendWhatsApp:
		return e.executeSendWhatsApp(ctx, action.Config, event)
	case ActionCreateTask:
		return e.executeCreateTask(ctx, action.Config, rule, event, source)
	case ActionTagRecord:
		return e.executeTagRecord(ctx, action.Config, event, source)
	case ActionCreateNotification:
		return e.executeCreateNotification(ctx, action.Config, event)
	default:
		return fmt.Errorf("unsupported action type: %s", action.Type)
	}
}

func (e *ActionExecutorImpl) executeSendEmail(ctx context.Context, config map[string]interface{}, event Event) error {
	if e.email == nil {
		return fmt.Errorf("email: %w", errCollaboratorMissing)
	}
	to := renderConfig(config, "to", event)
	if to == "" {
		return errors.New("email recipient (to) is required")
	}
	subject := renderConfig(config, "subject", event)
	body := renderConfig(config, "body", event)

	return e.email.SendEmail(ctx, to, subject, body)
}

func (e *ActionExecutorImpl) executeSendSMS(ctx context.Context, config map[string]interface{}, event Event) error {
	if e.sms == nil {
		return fmt.Errorf("sms: %w", errCollaboratorMissing)
	}
	to := renderConfig(config, "to", event)
	if to == "" {
		return errors.New("sms recipient (to) is required")
	}
	message := renderConfig(config, "message", event)
	if message == "" {
		return errors.New("sms message is required")
	}
	return e.sms.SendSMS(ctx, to, message)
}

func (e *ActionExecutorImpl) executeSendWhatsApp(ctx context.Context, config map[string]interface{}, event Event) error {
	if e.whatsapp == nil {
		return fmt.Errorf("whatsapp: %w", errCollaboratorMissing)
	}
	to := renderConfig(config, "to", event)
	if to == "" {
		return errors.New("whatsapp recipient (to) is required")
	}
	message := renderConfig(config, "message", event)
	if message == "" {
		return errors.New("whatsapp message is required")
	}
	return e.whatsapp.SendWhatsApp(ctx, to, message)
}

func (e *ActionExecutorImpl) executeCreateTask(ctx context.Context, config map[string]interface{}, rule AutomationRule, event Event, source SourceRef) error {
	if e.tasks == nil {
		return fmt.Errorf("tasks: %w", errCollaboratorMissing)
	}
	title := renderConfig(config, "title", event)
	if title == "" {
		return errors.New("task title is required")
	}

	t := &task.Task{
		ChurchID:    event.TenantID,
		Title:       title,
		Description: renderConfig(config, "description", event),
		AssignedTo:  renderConfig(config, "assigned_to", event),
		Priority:    task.ParsePriority(strings.ToUpper(renderConfig(config, "priority", event))),
		Status:      task.StatusPending,
		SourceType:  source.Type,
		SourceID:    source.ID,
		RuleID:      rule.ID.Hex(),
		CreatedAt:   e.now(),
	}
	if days, ok := configInt(config, "due_in_days"); ok && days >= 0 {
		due := e.now().AddDate(0, 0, days)
		t.DueDate = &due
	}

	if err := e.tasks.Create(ctx, t); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return nil
}

func (e *ActionExecutorImpl) executeTagRecord(ctx context.Context, config map[string]interface{}, event Event, source SourceRef) error {
	if e.tagger == nil {
		return fmt.Errorf("tagging: %w", errCollaboratorMissing)
	}
	tag := strings.TrimSpace(renderConfig(config, "tag", event))
	if tag == "" {
		return errors.New("tag is required")
	}
	if source.IsZero() {
		return errors.New("no source record to tag")
	}
	if err := e.tagger.TagRecord(ctx, event.TenantID, source.Type, source.ID, tag); err != nil {
		return fmt.Errorf("failed to tag record: %w", err)
	}
	return nil
}

func (e *ActionExecutorImpl) executeCreateNotification(ctx context.Context, config map[string]interface{}, event Event) error {
	if e.notifier == nil {
		return fmt.Errorf("notifications: %w", errCollaboratorMissing)
	}
	title := renderConfig(config, "title", event)
	if title == "" {
		return errors.New("notification title is required")
	}

	n := &notification.Notification{
		ChurchID: event.TenantID,
		UserID:   renderConfig(config, "user_id", event),
		Title:    title,
		Message:  renderConfig(config, "message", event),
		Link:     renderConfig(config, "link", event),
		Type:     notification.NotificationTypeAutomation,
	}
	if err := e.notifier.Create(ctx, n); err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}
	return nil
}

// renderConfig reads a config entry and renders it as a template
func renderConfig(config map[string]interface{}, key string, event Event) string {
	raw, ok := config[key]
	if !ok || raw == nil {
		return ""
	}
	text, ok := raw.(string)
	if !ok {
		text = formatValue(raw)
	}
	return strings.TrimSpace(RenderTemplate(text, event))
}

func configInt(config map[string]interface{}, key string) (int, bool) {
	switch v := config[key].(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		return int(n), err == nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		return n, err == nil
	}
	return 0, false
}
