package offline

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/go-co-op/gocron"
)

const (
	DEFAULT_PROBE_INTERVAL = 15 * time.Second
	DEFAULT_SYNC_INTERVAL  = 5 * time.Minute
	PROBE_TIMEOUT          = 5 * time.Second
)

type drainer interface {
	Drain(ctx context.Context) (DrainReport, bool)
}

// Monitor drains the queue whenever the server becomes reachable and on a fixed
// interval while it stays reachable.
type Monitor struct {
	drainer       drainer
	remote        RemoteAPI
	probeInterval time.Duration
	syncInterval  time.Duration
	online        atomic.Bool
	scheduler     *gocron.Scheduler
	mu            sync.Mutex
	running       bool
	ctx           context.Context
	cancel        context.CancelFunc
	log           logger.Logger
}

func NewMonitor(engine drainer, remote RemoteAPI, probeInterval, syncInterval time.Duration) *Monitor {
	if probeInterval <= 0 {
		probeInterval = DEFAULT_PROBE_INTERVAL
	}
	if syncInterval <= 0 {
		syncInterval = DEFAULT_SYNC_INTERVAL
	}

	return &Monitor{
		drainer:       engine,
		remote:        remote,
		probeInterval: probeInterval,
		syncInterval:  syncInterval,
		log:           logger.New("offline").File("monitor"),
	}
}

// Start probes once, drains if already online, then schedules the probe and the
// periodic sync.
func (m *Monitor) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	log := m.log.Function("Start")
	if m.running {
		log.Info("Monitor already running")
		return nil
	}

	m.ctx, m.cancel = context.WithCancel(ctx)

	if m.probe(m.ctx) {
		m.online.Store(true)
		m.drainer.Drain(m.ctx)
	}

	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	if _, err := scheduler.Every(m.probeInterval).WaitForSchedule().Do(func() {
		m.Check(m.ctx)
	}); err != nil {
		m.cancel()
		return log.Err("failed to schedule connectivity probe", err)
	}

	if _, err := scheduler.Every(m.syncInterval).WaitForSchedule().Do(func() {
		m.Tick(m.ctx)
	}); err != nil {
		m.cancel()
		return log.Err("failed to schedule periodic sync", err)
	}

	scheduler.StartAsync()
	m.scheduler = scheduler
	m.running = true

	log.Info("Monitor started",
		"online", m.online.Load(),
		"probeInterval", m.probeInterval,
		"syncInterval", m.syncInterval,
	)
	return nil
}

func (m *Monitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return
	}

	m.cancel()
	m.scheduler.Stop()
	m.running = false
	m.log.Function("Stop").Info("Monitor stopped")
}

// Check probes the server and drains exactly once on an offline to online transition.
func (m *Monitor) Check(ctx context.Context) bool {
	online := m.probe(ctx)
	wasOnline := m.online.Swap(online)

	log := m.log.Function("Check")
	switch {
	case online && !wasOnline:
		log.Info("Connection restored, draining queue")
		m.drainer.Drain(ctx)
	case !online && wasOnline:
		log.Warn("Connection lost, queueing locally")
	}

	return online
}

// Tick is the periodic sync; it only drains while online.
func (m *Monitor) Tick(ctx context.Context) bool {
	if !m.online.Load() {
		return false
	}
	_, ran := m.drainer.Drain(ctx)
	return ran
}

func (m *Monitor) Online() bool {
	return m.online.Load()
}

func (m *Monitor) probe(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, PROBE_TIMEOUT)
	defer cancel()

	return m.remote.Health(ctx) == nil
}
