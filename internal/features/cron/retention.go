package cron_feature

import (
	"context"
	"time"

	"khesed-tek/internal/config"
	"khesed-tek/internal/features/automation"

	"go.uber.org/zap"
)

const ExecutionRetentionJob = "automation-execution-retention"

type executionPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// NewExecutionRetentionJob prunes execution records older than the configured
// retention. ok is false when retention is disabled.
func NewExecutionRetentionJob(executions automation.ExecutionRepository, cfg *config.Config, logger *zap.Logger) (Job, bool) {
	if cfg.Retention.ExecutionMaxAge <= 0 {
		return Job{}, false
	}
	return Job{
		Name:     ExecutionRetentionJob,
		Schedule: cfg.Retention.Schedule,
		Timeout:  5 * time.Minute,
		Run:      pruneExecutions(executions, cfg.Retention.ExecutionMaxAge, logger, time.Now),
	}, true
}

func pruneExecutions(repo executionPruner, maxAge time.Duration, logger *zap.Logger, now func() time.Time) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		cutoff := now().UTC().Add(-maxAge)
		deleted, err := repo.DeleteOlderThan(ctx, cutoff)
		if err != nil {
			return err
		}
		if deleted > 0 {
			logger.Info("Pruned automation executions", zap.Int64("deleted", deleted), zap.Time("cutoff", cutoff))
		}
		return nil
	}
}
