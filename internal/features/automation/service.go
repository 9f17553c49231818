package automation

import (
	"context"

	common_models "khesed-tek/internal/common/models"
	"khesed-tek/internal/config"
	"khesed-tek/internal/features/audit"

	"go.uber.org/zap"
)

type AutomationService interface {
	CreateRule(ctx context.Context, rule *AutomationRule) error
	GetRule(ctx context.Context, id string) (*AutomationRule, error)
	ListRules(ctx context.Context, filter RuleFilter) ([]AutomationRule, error)
	UpdateRule(ctx context.Context, rule *AutomationRule) error
	DeleteRule(ctx context.Context, id string) error
	SetRuleEnabled(ctx context.Context, id string, enabled bool) error

	GetExecution(ctx context.Context, id string) (*AutomationExecution, error)
	ListExecutions(ctx context.Context, filter ExecutionFilter) ([]AutomationExecution, error)

	// Core Logic
	TriggerAutomations(ctx context.Context, req TriggerRequest) (*TriggerSummary, error)
}

type invocationState string

const (
	stateReceived      invocationState = "RECEIVED"
	stateRulesSelected invocationState = "RULES_SELECTED"
	stateEvaluating    invocationState = "EVALUATING"
	stateMatched       invocationState = "MATCHED"
	stateSkipped       invocationState = "SKIPPED"
	stateExecuting     invocationState = "EXECUTING"
	stateRecorded      invocationState = "RECORDED"
	stateDone          invocationState = "DONE"
	stateFailed        invocationState = "FAILED"
)

type AutomationServiceImpl struct {
	Repo        AutomationRepository
	Executions  ExecutionRepository
	Selector    *RuleSelector
	Evaluator   *ConditionEvaluator
	Executor    ActionExecutor
	Recorder    *ExecutionRecorder
	Cache       *RuleCache
	Audit       audit.AuditService
	Broadcaster ExecutionBroadcaster
	Logger      *zap.Logger
}

func NewAutomationService(
	repo AutomationRepository,
	executions ExecutionRepository,
	selector *RuleSelector,
	evaluator *ConditionEvaluator,
	executor ActionExecutor,
	recorder *ExecutionRecorder,
	cache *RuleCache,
	auditService audit.AuditService,
	broadcaster ExecutionBroadcaster,
	logger *zap.Logger,
) AutomationService {
	return &AutomationServiceImpl{
		Repo:        repo,
		Executions:  executions,
		Selector:    selector,
		Evaluator:   evaluator,
		Executor:    executor,
		Recorder:    recorder,
		Cache:       cache,
		Audit:       auditService,
		Broadcaster: broadcaster,
		Logger:      logger,
	}
}

// NewConfiguredEvaluator builds the evaluator with the configured equality mode
func NewConfiguredEvaluator(cfg *config.Config) *ConditionEvaluator {
	return NewConditionEvaluator(ParseEqualityMode(cfg.EqualityMode))
}

func churchFromContext(ctx context.Context) string {
	churchID, _ := ctx.Value(common_models.TenantIDKey).(string)
	return churchID
}

func (s *AutomationServiceImpl) logChange(ctx context.Context, recordID string, change common_models.Change) {
	if s.Audit == nil {
		return
	}
	if err := s.Audit.LogChange(ctx, common_models.AuditActionAutomation, "automation", recordID, map[string]common_models.Change{
		"rule": change,
	}); err != nil {
		s.Logger.Warn("audit log failed", zap.String("rule_id", recordID), zap.Error(err))
	}
}

func (s *AutomationServiceImpl) CreateRule(ctx context.Context, rule *AutomationRule) error {
	rule.ChurchID = churchFromContext(ctx)
	if rule.ChurchID == "" {
		return invalidRule("church scope missing")
	}
	if err := ValidateRule(rule); err != nil {
		return err
	}
	if err := s.Repo.Create(ctx, rule); err != nil {
		return err
	}
	s.Cache.InvalidateChurch(ctx, rule.ChurchID)
	s.logChange(ctx, rule.ID.Hex(), common_models.Change{New: rule})
	return nil
}

func (s *AutomationServiceImpl) GetRule(ctx context.Context, id string) (*AutomationRule, error) {
	return s.Repo.GetByID(ctx, churchFromContext(ctx), id)
}

func (s *AutomationServiceImpl) ListRules(ctx context.Context, filter RuleFilter) ([]AutomationRule, error) {
	return s.Repo.List(ctx, churchFromContext(ctx), filter)
}

func (s *AutomationServiceImpl) UpdateRule(ctx context.Context, rule *AutomationRule) error {
	oldRule, err := s.GetRule(ctx, rule.ID.Hex())
	if err != nil {
		return err
	}

	rule.ChurchID = oldRule.ChurchID
	rule.CreatedAt = oldRule.CreatedAt
	if err := ValidateRule(rule); err != nil {
		return err
	}
	if err := s.Repo.Update(ctx, rule); err != nil {
		return err
	}
	s.Cache.InvalidateChurch(ctx, rule.ChurchID)
	s.logChange(ctx, rule.ID.Hex(), common_models.Change{Old: oldRule, New: rule})
	return nil
}

func (s *AutomationServiceImpl) DeleteRule(ctx context.Context, id string) error {
	oldRule, err := s.GetRule(ctx, id)
	if err != nil {
		return err
	}
	if err := s.Repo.Delete(ctx, oldRule.ChurchID, id); err != nil {
		return err
	}
	s.Cache.InvalidateChurch(ctx, oldRule.ChurchID)
	s.logChange(ctx, id, common_models.Change{Old: oldRule, New: "DELETED"})
	return nil
}

func (s *AutomationServiceImpl) SetRuleEnabled(ctx context.Context, id string, enabled bool) error {
	churchID := churchFromContext(ctx)
	if err := s.Repo.SetEnabled(ctx, churchID, id, enabled); err != nil {
		return err
	}
	s.Cache.InvalidateChurch(ctx, churchID)
	s.logChange(ctx, id, common_models.Change{New: map[string]bool{"enabled": enabled}})
	return nil
}

func (s *AutomationServiceImpl) GetExecution(ctx context.Context, id string) (*AutomationExecution, error) {
	return s.Executions.GetByID(ctx, churchFromContext(ctx), id)
}

func (s *AutomationServiceImpl) ListExecutions(ctx context.Context, filter ExecutionFilter) ([]AutomationExecution, error) {
	return s.Executions.List(ctx, churchFromContext(ctx), filter)
}

// TriggerAutomations runs every enabled rule of the church for the event.
// Only normalization and rule selection errors are returned; action and
// recording failures are logged and absorbed.
func (s *AutomationServiceImpl) TriggerAutomations(ctx context.Context, req TriggerRequest) (*TriggerSummary, error) {
	logger := s.Logger.With(
		zap.String("tenant_id", req.ChurchID),
		zap.String("trigger_type", string(req.Type)),
	)
	transition := func(state invocationState, fields ...zap.Field) {
		logger.Debug("automation state", append(fields, zap.String("state", string(state)))...)
	}

	transition(stateReceived)
	event, err := NewEvent(req.Type, req.ChurchID, req.Data)
	if err != nil {
		transition(stateFailed, zap.Error(err))
		return nil, err
	}

	source := req.Source()
	sourceFields := []zap.Field{zap.String("source_type", source.Type), zap.String("source_id", source.ID)}
	held := true
	claimed, err := s.Recorder.Claim(ctx, event.TenantID, source)
	switch {
	case err != nil:
		held = false
		logger.Warn("could not claim source record, continuing unguarded", append(sourceFields, zap.Error(err))...)
	case !claimed:
		logger.Info("automations already triggered for source", sourceFields...)
		transition(stateDone)
		return &TriggerSummary{ExecutionIDs: []string{}, AlreadyTriggered: true}, nil
	}

	rules, err := s.Selector.Select(ctx, event.TenantID, event.Type)
	if err != nil {
		if held {
			if rerr := s.Recorder.Release(ctx, event.TenantID, source); rerr != nil {
				logger.Error("failed to release source record", append(sourceFields, zap.Error(rerr))...)
			}
		}
		transition(stateFailed, zap.Error(err))
		return nil, err
	}
	transition(stateRulesSelected, zap.Int("candidates", len(rules)))

	summary := &TriggerSummary{ExecutionIDs: []string{}}
	for _, rule := range rules {
		ruleID := zap.String("rule_id", rule.ID.Hex())
		summary.RulesEvaluated++

		transition(stateEvaluating, ruleID)
		if !s.Evaluator.Matches(rule.Conditions, event) {
			transition(stateSkipped, ruleID)
			continue
		}
		transition(stateMatched, ruleID)

		transition(stateExecuting, ruleID)
		outcomes := s.Executor.ExecuteActions(ctx, rule, event, source)
		summary.RulesTriggered++

		result := RuleResult{
			RuleID:   rule.ID.Hex(),
			RuleName: rule.Name,
			Status:   executionStatus(outcomes),
			Outcomes: outcomes,
		}

		execution, err := s.Recorder.Record(ctx, rule, event, source, outcomes)
		if err != nil {
			logger.Error("failed to record automation execution", ruleID, zap.Error(err))
			summary.Results = append(summary.Results, result)
			continue
		}
		result.ExecutionID = execution.ID.Hex()
		summary.Results = append(summary.Results, result)
		summary.ExecutionIDs = append(summary.ExecutionIDs, result.ExecutionID)
		transition(stateRecorded, ruleID, zap.String("execution_id", result.ExecutionID))

		if s.Broadcaster != nil {
			s.Broadcaster.Broadcast(event.TenantID, newEnvelope("automation.executed", execution))
		}
	}

	if len(summary.ExecutionIDs) > 0 && !source.IsZero() {
		if held {
			err = s.Recorder.AppendExecutionIDs(ctx, event.TenantID, source, summary.ExecutionIDs)
		} else {
			_, err = s.Recorder.MarkAutomationTriggered(ctx, event.TenantID, source.Type, source.ID, summary.ExecutionIDs)
		}
		if err != nil {
			logger.Error("failed to flag source record", append(sourceFields, zap.Error(err))...)
		}
	}

	transition(stateDone, zap.Int("rules_triggered", summary.RulesTriggered))
	if summary.RulesTriggered > 0 {
		logger.Info("automations triggered",
			zap.Int("rules_triggered", summary.RulesTriggered),
			zap.Strings("execution_ids", summary.ExecutionIDs),
		)
	}
	return summary, nil
}

type broadcastEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

func newEnvelope(event string, data interface{}) broadcastEnvelope {
	return broadcastEnvelope{Event: event, Data: data}
}
