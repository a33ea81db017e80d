package services

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingJob struct {
	name     string
	schedule Schedule
	runs     atomic.Int32
}

func (j *countingJob) Name() string       { return j.name }
func (j *countingJob) Schedule() Schedule { return j.schedule }
func (j *countingJob) Execute(context.Context) error {
	j.runs.Add(1)
	return nil
}

func TestSchedulerService_AddAndTrigger(t *testing.T) {
	scheduler := NewSchedulerService()
	job := &countingJob{name: "Counter", schedule: Hourly}

	require.NoError(t, scheduler.AddJob(job))
	assert.Equal(t, 1, scheduler.GetJobCount())

	require.NoError(t, scheduler.TriggerJobByName(context.Background(), "Counter"))
	assert.Eventually(t, func() bool { return job.runs.Load() == 1 }, time.Second, 10*time.Millisecond)

	assert.Error(t, scheduler.TriggerJobByName(context.Background(), "Missing"))
}

func TestSchedulerService_StartStop(t *testing.T) {
	scheduler := NewSchedulerService()
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	assert.False(t, scheduler.IsRunning(), "no jobs means no start")

	require.NoError(t, scheduler.AddJob(&countingJob{name: "Daily", schedule: Daily}))
	require.NoError(t, scheduler.Start(ctx))
	assert.True(t, scheduler.IsRunning())

	require.NoError(t, scheduler.Stop(ctx))
	assert.False(t, scheduler.IsRunning())
}

func TestSchedulerService_RejectsUnknownSchedule(t *testing.T) {
	scheduler := NewSchedulerService()
	assert.Error(t, scheduler.AddJob(&countingJob{name: "Odd", schedule: Schedule(42)}))
	assert.Equal(t, 0, scheduler.GetJobCount())
}
