package offline

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingDrainer struct {
	calls atomic.Int32
}

func (d *countingDrainer) Drain(ctx context.Context) (DrainReport, bool) {
	d.calls.Add(1)
	return DrainReport{}, true
}

func TestMonitor_DrainsOnceOnReconnect(t *testing.T) {
	remote := &fakeRemote{healthErr: errors.New("offline")}
	drainer := &countingDrainer{}
	monitor := NewMonitor(drainer, remote, time.Hour, time.Hour)
	ctx := context.Background()

	assert.False(t, monitor.Check(ctx))
	assert.Zero(t, drainer.calls.Load())

	remote.setHealth(nil)
	assert.True(t, monitor.Check(ctx))
	assert.True(t, monitor.Check(ctx))
	assert.Equal(t, int32(1), drainer.calls.Load())

	remote.setHealth(errors.New("offline"))
	assert.False(t, monitor.Check(ctx))
	remote.setHealth(nil)
	assert.True(t, monitor.Check(ctx))
	assert.Equal(t, int32(2), drainer.calls.Load())
}

func TestMonitor_TickOnlyWhileOnline(t *testing.T) {
	remote := &fakeRemote{healthErr: errors.New("offline")}
	drainer := &countingDrainer{}
	monitor := NewMonitor(drainer, remote, time.Hour, time.Hour)
	ctx := context.Background()

	assert.False(t, monitor.Tick(ctx))
	assert.Zero(t, drainer.calls.Load())

	remote.setHealth(nil)
	monitor.Check(ctx)
	assert.True(t, monitor.Tick(ctx))
	assert.Equal(t, int32(2), drainer.calls.Load())
}

func TestMonitor_StartDrainsWhenOnline(t *testing.T) {
	drainer := &countingDrainer{}
	monitor := NewMonitor(drainer, &fakeRemote{}, time.Hour, time.Hour)

	require.NoError(t, monitor.Start(context.Background()))
	require.NoError(t, monitor.Start(context.Background()))
	defer monitor.Stop()

	assert.True(t, monitor.Online())
	assert.Equal(t, int32(1), drainer.calls.Load())
}

func TestMonitor_StartOffline(t *testing.T) {
	drainer := &countingDrainer{}
	monitor := NewMonitor(drainer, &fakeRemote{healthErr: errors.New("offline")}, 0, 0)

	require.NoError(t, monitor.Start(context.Background()))
	monitor.Stop()
	monitor.Stop()

	assert.False(t, monitor.Online())
	assert.Zero(t, drainer.calls.Load())
	assert.Equal(t, DEFAULT_PROBE_INTERVAL, monitor.probeInterval)
	assert.Equal(t, DEFAULT_SYNC_INTERVAL, monitor.syncInterval)
}
