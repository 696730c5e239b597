package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lromero-dev/altiplano-backend/pkg/logger"
)

type fakeJob struct {
	name string
	runs int
	err  error
}

func (f *fakeJob) Name() string { return f.name }

func (f *fakeJob) Run(ctx context.Context) error {
	f.runs++
	return f.err
}

type fakeLock struct {
	acquired  bool
	acquireOK bool
	released  int
}

func (f *fakeLock) Acquire(ctx context.Context) (bool, error) {
	f.acquired = true
	return f.acquireOK, nil
}

func (f *fakeLock) Release(ctx context.Context) error {
	f.released++
	return nil
}

func TestRegistry_SkipsNilJobs(t *testing.T) {
	t.Parallel()

	registry := NewRegistry(&fakeJob{name: "a"}, nil, &fakeJob{name: "b"})
	registry.Register(nil)

	jobs := registry.Jobs()
	require.Len(t, jobs, 2)
	require.Equal(t, "a", jobs[0].Name())
	require.Equal(t, "b", jobs[1].Name())
}

func TestRunCycle_RunsAllJobsDespiteFailures(t *testing.T) {
	t.Parallel()

	failing := &fakeJob{name: "failing", err: errors.New("boom")}
	healthy := &fakeJob{name: "healthy"}
	lock := &fakeLock{acquireOK: true}

	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: NewRegistry(failing, healthy),
		Lock:     lock,
		Interval: time.Hour,
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))
	require.Equal(t, 1, failing.runs)
	require.Equal(t, 1, healthy.runs)
	require.Equal(t, 1, lock.released)
}

func TestRunCycle_SkipsWhenLockHeldElsewhere(t *testing.T) {
	t.Parallel()

	job := &fakeJob{name: "job"}
	lock := &fakeLock{acquireOK: false}

	svc, err := NewService(ServiceParams{
		Logger:   logger.New(logger.Options{ServiceName: "cron-test"}),
		Registry: NewRegistry(job),
		Lock:     lock,
		Interval: time.Hour,
	})
	require.NoError(t, err)

	require.NoError(t, svc.runCycle(context.Background()))
	require.Zero(t, job.runs)
	require.Zero(t, lock.released)
}

func TestNewService_RequiresLock(t *testing.T) {
	t.Parallel()

	_, err := NewService(ServiceParams{
		Logger: logger.New(logger.Options{ServiceName: "cron-test"}),
	})
	require.Error(t, err)
}
