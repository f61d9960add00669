package timekeeper

import (
	"context"
	"sync"
	"time"

	"powertimer/internal/core/commands"
	"powertimer/internal/core/model"
	xlog "powertimer/internal/log"

	"github.com/rs/zerolog"
)

// Inhibitor acquires a system sleep inhibition.
type Inhibitor interface {
	Acquire(ctx context.Context, appID, reason string) (Lease, error)
}

// Lease is a held sleep inhibition.
type Lease interface {
	Release(ctx context.Context) error
}

// Config contains runtime options for TimeKeeper.
type Config struct {
	TickInterval   time.Duration
	AppID          string
	InhibitReason  string
	InhibitTimeout time.Duration
	CommandTimeout time.Duration
	Logger         *zerolog.Logger
}

// TimeKeeper is the countdown state machine.
type TimeKeeper struct {
	mu        sync.Mutex
	config    model.TimerConfig
	options   Config
	registry  *commands.Registry
	inhibitor Inhibitor
	logger    zerolog.Logger

	state     State
	remaining int
	player    string
	keepAwake bool

	episode    uint64
	stopCh     chan struct{}
	completing bool
	lease      *leaseRequest
	lastLease  *leaseRequest

	events []chan Event
	closed bool
	wg     sync.WaitGroup
}

// leaseRequest tracks one inhibition acquisition. done is closed once the
// request can no longer hold a lease, so the next request waits for it.
type leaseRequest struct {
	lease    Lease
	previous *leaseRequest
	done     chan struct{}
	once     sync.Once
}

func (request *leaseRequest) finish() {
	request.once.Do(func() {
		close(request.done)
	})
}

// New creates an idle TimeKeeper. A nil registry behaves as an empty one.
func New(config model.TimerConfig, registry *commands.Registry, options Config) *TimeKeeper {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.InhibitTimeout <= 0 {
		options.InhibitTimeout = 5 * time.Second
	}
	if options.CommandTimeout <= 0 {
		options.CommandTimeout = 10 * time.Second
	}
	logger := xlog.WithComponent("timekeeper")
	if options.Logger != nil {
		logger = *options.Logger
	}
	if registry == nil {
		registry = commands.NewRegistry(logger)
	}

	return &TimeKeeper{
		config:   config.Normalize(),
		options:  options,
		registry: registry,
		logger:   logger,
		state:    StateIdle,
		player:   model.PlayerNone,
	}
}

// SetInhibitor injects the sleep inhibitor used while keep-awake is enabled.
func (keeper *TimeKeeper) SetInhibitor(inhibitor Inhibitor) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.inhibitor = inhibitor
}

// UpdateOptions applies user settings. The player selection is left alone.
func (keeper *TimeKeeper) UpdateOptions(options model.Options) {
	keeper.registry.ApplySelection(options.EndCommands)

	keeper.mu.Lock()
	keeper.keepAwake = options.KeepAwake
	keeper.mu.Unlock()
}

// Subscribe registers a new observer channel.
func (keeper *TimeKeeper) Subscribe(buffer int) <-chan Event {
	if buffer <= 0 {
		buffer = 1
	}
	ch := make(chan Event, buffer)
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed {
		close(ch)
		return ch
	}
	keeper.events = append(keeper.events, ch)
	return ch
}

// Snapshot returns the current observable state.
func (keeper *TimeKeeper) Snapshot() Snapshot {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	return keeper.snapshotLocked()
}

// Start begins a countdown of the configured duration. Only valid when idle.
func (keeper *TimeKeeper) Start() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || keeper.state != StateIdle || keeper.completing {
		return
	}
	keeper.startLocked(time.Now())
}

// Toggle starts an idle timer, or pauses/resumes a running one.
func (keeper *TimeKeeper) Toggle() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	if keeper.closed || keeper.completing {
		return
	}

	switch keeper.state {
	case StateIdle:
		if keeper.remaining == 0 {
			keeper.startLocked(time.Now())
		}
	case StateRunning:
		keeper.state = StatePaused
		keeper.emitLocked(Event{Type: EventStateChange, Snapshot: keeper.snapshotLocked(), At: time.Now()})
	case StatePaused:
		keeper.state = StateRunning
		keeper.emitLocked(Event{Type: EventStateChange, Snapshot: keeper.snapshotLocked(), At: time.Now()})
	}
}

// Stop cancels the countdown from any state and releases the inhibition.
func (keeper *TimeKeeper) Stop() {
	keeper.stop(0, false)
}

// AdjustDuration moves the configured duration one step up (+1) or down (-1).
// A running countdown is not affected.
func (keeper *TimeKeeper) AdjustDuration(direction int) {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.config = keeper.config.Adjust(direction)
	keeper.emitLocked(Event{Type: EventConfigChange, Snapshot: keeper.snapshotLocked(), At: time.Now()})
}

// CycleStep advances to the next adjustment step.
func (keeper *TimeKeeper) CycleStep() {
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.config = keeper.config.NextStep()
	keeper.emitLocked(Event{Type: EventConfigChange, Snapshot: keeper.snapshotLocked(), At: time.Now()})
}

// SelectPlayer sets the player targeted by the pause command.
func (keeper *TimeKeeper) SelectPlayer(player string) {
	if player == "" {
		player = model.PlayerNone
	}
	keeper.mu.Lock()
	defer keeper.mu.Unlock()
	keeper.player = player
	keeper.emitLocked(Event{Type: EventConfigChange, Snapshot: keeper.snapshotLocked(), At: time.Now()})
}

// Close stops the countdown, waits for background work and closes observers.
func (keeper *TimeKeeper) Close() {
	keeper.mu.Lock()
	if keeper.closed {
		keeper.mu.Unlock()
		return
	}
	keeper.closed = true
	keeper.mu.Unlock()

	keeper.stop(0, false)
	keeper.wg.Wait()

	keeper.mu.Lock()
	events := keeper.events
	keeper.events = nil
	keeper.mu.Unlock()

	for _, ch := range events {
		close(ch)
	}
}

func (keeper *TimeKeeper) startLocked(now time.Time) {
	keeper.episode++
	episode := keeper.episode
	keeper.state = StateRunning
	keeper.remaining = keeper.config.DurationMinutes * 60

	stopCh := make(chan struct{})
	keeper.stopCh = stopCh
	keeper.wg.Add(1)
	go keeper.run(episode, stopCh)

	if keeper.keepAwake && keeper.inhibitor != nil {
		keeper.requestLeaseLocked()
	}

	keeper.logger.Info().
		Str("event", "timer.started").
		Int("minutes", keeper.config.DurationMinutes).
		Str("player", keeper.player).
		Msg("countdown started")

	snapshot := keeper.snapshotLocked()
	keeper.emitLocked(Event{Type: EventStarted, Snapshot: snapshot, At: now})
	keeper.emitLocked(Event{Type: EventStateChange, Snapshot: snapshot, At: now})
}

func (keeper *TimeKeeper) run(episode uint64, stopCh <-chan struct{}) {
	defer keeper.wg.Done()
	ticker := time.NewTicker(keeper.options.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-stopCh:
			return
		case tickTime := <-ticker.C:
			keeper.tick(episode, tickTime)
		}
	}
}

func (keeper *TimeKeeper) tick(episode uint64, tickTime time.Time) {
	keeper.mu.Lock()
	if episode != keeper.episode || keeper.completing || keeper.state != StateRunning {
		keeper.mu.Unlock()
		return
	}

	keeper.remaining--
	if keeper.remaining > 0 {
		keeper.emitLocked(Event{Type: EventProgress, Snapshot: keeper.snapshotLocked(), At: tickTime})
		keeper.mu.Unlock()
		return
	}

	keeper.remaining = 0
	keeper.completing = true
	keeper.cancelTickLocked()
	env := commands.Env{SelectedPlayer: keeper.player}
	keeper.emitLocked(Event{Type: EventProgress, Snapshot: keeper.snapshotLocked(), At: tickTime})
	keeper.mu.Unlock()

	keeper.complete(episode, env)
}

func (keeper *TimeKeeper) complete(episode uint64, env commands.Env) {
	ctx, cancel := context.WithTimeout(context.Background(), keeper.options.CommandTimeout)
	defer cancel()

	attempted := keeper.registry.ExecuteAll(ctx, env)
	keeper.logger.Info().
		Str("event", "timer.completed").
		Int("commands", attempted).
		Msg("countdown finished")

	keeper.stop(episode, true)
}

// stop resets to idle. A non-zero episode limits the reset to that episode.
func (keeper *TimeKeeper) stop(episode uint64, completed bool) {
	keeper.mu.Lock()
	if episode != 0 && episode != keeper.episode {
		keeper.mu.Unlock()
		return
	}
	wasActive := keeper.state != StateIdle || keeper.completing

	keeper.cancelTickLocked()
	keeper.episode++
	keeper.state = StateIdle
	keeper.remaining = 0
	keeper.completing = false

	request := keeper.lease
	keeper.lease = nil
	var lease Lease
	if request != nil {
		lease = request.lease
	}

	now := time.Now()
	snapshot := keeper.snapshotLocked()
	if completed {
		keeper.emitLocked(Event{Type: EventCompleted, Snapshot: snapshot, At: now})
	}
	if wasActive {
		keeper.emitLocked(Event{Type: EventStateChange, Snapshot: snapshot, At: now})
	}
	keeper.mu.Unlock()

	if lease != nil {
		keeper.releaseLease(lease)
		request.finish()
	}
}

func (keeper *TimeKeeper) cancelTickLocked() {
	if keeper.stopCh != nil {
		close(keeper.stopCh)
		keeper.stopCh = nil
	}
}

func (keeper *TimeKeeper) requestLeaseLocked() {
	request := &leaseRequest{
		previous: keeper.lastLease,
		done:     make(chan struct{}),
	}
	keeper.lease = request
	keeper.lastLease = request

	inhibitor := keeper.inhibitor
	keeper.wg.Add(1)
	go keeper.acquireLease(inhibitor, request)
}

func (keeper *TimeKeeper) acquireLease(inhibitor Inhibitor, request *leaseRequest) {
	defer keeper.wg.Done()
	if request.previous != nil {
		<-request.previous.done
	}

	ctx, cancel := context.WithTimeout(context.Background(), keeper.options.InhibitTimeout)
	defer cancel()
	lease, err := inhibitor.Acquire(ctx, keeper.options.AppID, keeper.options.InhibitReason)
	if err != nil {
		keeper.logger.Warn().
			Err(err).
			Str("event", "inhibit.acquire_failed").
			Msg("sleep inhibition unavailable, countdown continues")
		request.finish()
		return
	}

	keeper.mu.Lock()
	if keeper.lease == request {
		request.lease = lease
		keeper.mu.Unlock()
		return
	}
	keeper.mu.Unlock()

	keeper.logger.Debug().
		Str("event", "inhibit.late_lease").
		Msg("lease arrived after countdown ended, releasing")
	keeper.releaseLease(lease)
	request.finish()
}

func (keeper *TimeKeeper) releaseLease(lease Lease) {
	ctx, cancel := context.WithTimeout(context.Background(), keeper.options.InhibitTimeout)
	defer cancel()
	if err := lease.Release(ctx); err != nil {
		keeper.logger.Warn().
			Err(err).
			Str("event", "inhibit.release_failed").
			Msg("failed to release sleep inhibition")
	}
}

func (keeper *TimeKeeper) snapshotLocked() Snapshot {
	return Snapshot{
		State:            keeper.state,
		RemainingSeconds: keeper.remaining,
		DurationMinutes:  keeper.config.DurationMinutes,
		StepMinutes:      keeper.config.StepMinutes(),
		SelectedPlayer:   keeper.player,
		LeaseHeld:        keeper.lease != nil && keeper.lease.lease != nil,
	}
}

func (keeper *TimeKeeper) emitLocked(event Event) {
	for _, ch := range keeper.events {
		select {
		case ch <- event:
		default:
		}
	}
}
