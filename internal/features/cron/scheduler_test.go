package cron_feature

import (
	"context"
	"errors"
	"testing"
	"time"

	"khesed-tek/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestScheduler_Register(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	noop := func(ctx context.Context) error { return nil }

	assert.Error(t, s.Register(Job{Name: "bad", Schedule: "every day", Run: noop}))
	require.NoError(t, s.Register(Job{Name: "prune", Schedule: "@daily", Run: noop}))
	require.NoError(t, s.Register(Job{Name: "prune", Schedule: "0 3 * * *", Run: noop}))

	assert.Equal(t, []string{"prune"}, s.Jobs())
	assert.Len(t, s.scheduler.Entries(), 1)
}

func TestScheduler_RunRecoversPanics(t *testing.T) {
	s := NewScheduler(zap.NewNop())
	assert.NotPanics(t, func() {
		s.run(Job{Name: "boom", Run: func(ctx context.Context) error { panic("nil pointer") }})
	})
}

type fakePruner struct {
	cutoff time.Time
	err    error
}

func (f *fakePruner) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return 3, f.err
}

func TestPruneExecutions(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	pruner := &fakePruner{}

	run := pruneExecutions(pruner, 30*24*time.Hour, zap.NewNop(), func() time.Time { return now })
	require.NoError(t, run(context.Background()))
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), pruner.cutoff)

	pruner.err = errors.New("timeout")
	assert.Error(t, run(context.Background()))
}

func TestNewExecutionRetentionJob_Disabled(t *testing.T) {
	_, ok := NewExecutionRetentionJob(nil, &config.Config{}, zap.NewNop())
	assert.False(t, ok)

	cfg := &config.Config{Retention: config.RetentionConfig{ExecutionMaxAge: time.Hour, Schedule: "@daily"}}
	job, ok := NewExecutionRetentionJob(nil, cfg, zap.NewNop())
	assert.True(t, ok)
	assert.Equal(t, ExecutionRetentionJob, job.Name)
}
