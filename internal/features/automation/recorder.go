package automation

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

var errMarkerMissing = errors.New("source marker not configured")

// ExecutionRecorder persists one execution per matched rule and flags the source record
type ExecutionRecorder struct {
	repo   ExecutionRepository
	marker SourceMarker
	logger *zap.Logger
	now    func() time.Time
}

func NewExecutionRecorder(repo ExecutionRepository, marker SourceMarker, logger *zap.Logger) *ExecutionRecorder {
	return &ExecutionRecorder{
		repo:   repo,
		marker: marker,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func executionStatus(outcomes []ActionOutcome) ExecutionStatus {
	failed := 0
	for _, o := range outcomes {
		if !o.Success {
			failed++
		}
	}
	switch {
	case failed == 0:
		return ExecutionSuccess
	case failed == len(outcomes):
		return ExecutionFailed
	default:
		return ExecutionPartial
	}
}

func (r *ExecutionRecorder) Record(ctx context.Context, rule AutomationRule, event Event, source SourceRef, outcomes []ActionOutcome) (*AutomationExecution, error) {
	if outcomes == nil {
		outcomes = []ActionOutcome{}
	}
	execution := &AutomationExecution{
		ID:          primitive.NewObjectID(),
		ChurchID:    event.TenantID,
		RuleID:      rule.ID,
		RuleName:    rule.Name,
		TriggerType: event.Type,
		SourceType:  source.Type,
		SourceID:    source.ID,
		EventData:   event.Data,
		Outcomes:    outcomes,
		Status:      executionStatus(outcomes),
		CreatedAt:   r.now(),
	}
	if err := r.repo.Insert(ctx, execution); err != nil {
		return nil, err
	}
	return execution, nil
}

// Claim takes the source record for this invocation. It returns false when an
// earlier invocation already holds it. Events without a source, or a recorder
// without a marker, have nothing to guard and are always claimed.
func (r *ExecutionRecorder) Claim(ctx context.Context, churchID string, source SourceRef) (bool, error) {
	if r.marker == nil || source.IsZero() {
		return true, nil
	}
	claimed, err := r.marker.ClaimAutomation(ctx, churchID, source.Type, source.ID)
	if err != nil {
		return false, err
	}
	if claimed {
		r.logger.Debug("source record claimed",
			zap.String("tenant_id", churchID),
			zap.String("source_type", source.Type),
			zap.String("source_id", source.ID),
		)
	}
	return claimed, nil
}

// Release hands a claim back when the invocation failed before running any rule
func (r *ExecutionRecorder) Release(ctx context.Context, churchID string, source SourceRef) error {
	if r.marker == nil || source.IsZero() {
		return nil
	}
	return r.marker.ReleaseAutomation(ctx, churchID, source.Type, source.ID)
}

// AppendExecutionIDs links recorded executions to a claimed source record
func (r *ExecutionRecorder) AppendExecutionIDs(ctx context.Context, churchID string, source SourceRef, executionIDs []string) error {
	if r.marker == nil {
		return errMarkerMissing
	}
	return r.marker.AppendExecutionIDs(ctx, churchID, source.Type, source.ID, executionIDs)
}

// MarkAutomationTriggered flags the source at most once and appends execution ids
// without duplicates. The bool is true only for the call that flipped the flag.
func (r *ExecutionRecorder) MarkAutomationTriggered(ctx context.Context, churchID, sourceType, sourceID string, executionIDs []string) (bool, error) {
	if r.marker == nil {
		return false, errMarkerMissing
	}
	source := SourceRef{Type: sourceType, ID: sourceID}
	flipped, err := r.Claim(ctx, churchID, source)
	if err != nil {
		return false, err
	}
	if err := r.AppendExecutionIDs(ctx, churchID, source, executionIDs); err != nil {
		return flipped, err
	}
	return flipped, nil
}
