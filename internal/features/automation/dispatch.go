package automation

import (
	"context"
	"fmt"
	"time"

	"khesed-tek/internal/config"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"
)

// Trigger is the part of AutomationService the dispatcher needs
type Trigger interface {
	TriggerAutomations(ctx context.Context, req TriggerRequest) (*TriggerSummary, error)
}

type TriggerResult struct {
	Request TriggerRequest
	Summary *TriggerSummary
	Err     error
}

// Dispatcher runs automations off the request path. Feature handlers call
// Dispatch after their own write succeeded and may ignore the returned channel;
// failures always go to the error channel (log, Sentry, OnError).
type Dispatcher struct {
	trigger Trigger
	timeout time.Duration
	logger  *zap.Logger

	// OnError is called for every failed invocation when set
	OnError func(req TriggerRequest, err error)
}

func NewDispatcher(svc AutomationService, cfg *config.Config, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		trigger: svc,
		timeout: cfg.AutomationTimeout,
		logger:  logger,
	}
}

// Dispatch starts the trigger detached from the caller's cancellation. The
// channel receives exactly one result and is then closed.
func (d *Dispatcher) Dispatch(ctx context.Context, req TriggerRequest) <-chan TriggerResult {
	results := make(chan TriggerResult, 1)
	runCtx := context.WithoutCancel(ctx)

	go func() {
		defer close(results)

		if d.timeout > 0 {
			var cancel context.CancelFunc
			runCtx, cancel = context.WithTimeout(runCtx, d.timeout)
			defer cancel()
		}

		summary, err := d.run(runCtx, req)
		if err != nil {
			d.reportError(req, err)
		} else {
			d.logger.Info("automation trigger completed",
				zap.String("tenant_id", req.ChurchID),
				zap.String("trigger_type", string(req.Type)),
				zap.Int("rules_triggered", summary.RulesTriggered),
				zap.Strings("execution_ids", summary.ExecutionIDs),
			)
		}
		results <- TriggerResult{Request: req, Summary: summary, Err: err}
	}()

	return results
}

func (d *Dispatcher) run(ctx context.Context, req TriggerRequest) (summary *TriggerSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("automation trigger panicked: %v", r)
		}
	}()
	return d.trigger.TriggerAutomations(ctx, req)
}

func (d *Dispatcher) reportError(req TriggerRequest, err error) {
	d.logger.Error("automation trigger failed",
		zap.String("tenant_id", req.ChurchID),
		zap.String("trigger_type", string(req.Type)),
		zap.String("source_type", req.SourceType),
		zap.String("source_id", req.SourceID),
		zap.Error(err),
	)

	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("tenant_id", req.ChurchID)
		scope.SetTag("trigger_type", string(req.Type))
		sentry.CaptureException(err)
	})

	if d.OnError != nil {
		d.OnError(req, err)
	}
}
