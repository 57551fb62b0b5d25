package engine

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/channel"
	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
	"github.com/okanbasoglu/outreach-dispatch-service/pkg/logger"
)

// State of the dispatch engine. A run walks
// running -> (waiting_manual | waiting_automatic) -> running -> ... ->
// completed, with aborted reachable from any non-terminal state.
type State string

const (
	StateIdle             State = "idle"
	StateRunning          State = "running"
	StateWaitingManual    State = "waiting_manual"
	StateWaitingAutomatic State = "waiting_automatic"
	StateCompleted        State = "completed"
	StateAborted          State = "aborted"
)

func (s State) Terminal() bool {
	return s == StateCompleted || s == StateAborted
}

// ActionLauncher triggers a channel action on the host platform. Trigger has
// no completion signal: a nil error means the trigger was accepted, nothing
// more. Reset drops any reused view handle so a new run never navigates a
// stale view from a prior session.
type ActionLauncher interface {
	Trigger(ctx context.Context, action domain.ActionDescriptor) error
	Reset()
}

// AttemptSink receives exactly one record per dispatch attempt.
type AttemptSink interface {
	Append(ctx context.Context, ownerID string, rec domain.AttemptRecord) error
}

// SessionStore is the remote persistence seam. All calls are best-effort;
// none are required for local correctness.
type SessionStore interface {
	CreateSession(ctx context.Context, s domain.Session) (string, error)
	UpdateSessionProgress(ctx context.Context, ownerID, sessionID string, completed int) error
}

// Defaults are the channel-default timings applied when a start request does
// not override them.
type Defaults struct {
	CallDelay        time.Duration
	SMSDelay         time.Duration
	WhatsAppDelay    time.Duration
	BroadcastStagger time.Duration
	StoreTimeout     time.Duration
}

var ErrRunInProgress = errors.New("a dispatch run is already in progress")

// StartParams describes one run over an ordered target queue. Targets must
// be non-empty strings; ingestion filters blanks before they get here.
type StartParams struct {
	Targets     []string
	Channel     domain.Channel
	MessageBody string
	Mode        domain.PacingMode
	SessionName string
	OwnerID     string
}

// Engine sequences channel actions over a target queue. One goroutine per
// run; dispatch order is strictly sequential for automatic/manual pacing so
// attempt records keep the queue's total order. Broadcast is the one
// exception: its triggers are independent and fire concurrently.
type Engine struct {
	launcher ActionLauncher
	log      AttemptSink
	store    SessionStore // nil when remote persistence is disabled
	defaults Defaults

	mu      sync.RWMutex
	state   State
	run     *run
	stopped bool

	advanceChan chan struct{}
	stopChan    chan struct{}
	doneChan    chan struct{}
}

type run struct {
	targets        []string
	channel        domain.Channel
	body           string
	mode           domain.PacingMode
	ownerID        string
	sessionID      string
	sessionName    string
	index          int
	completed      int
	startedAt      time.Time
	lastDispatchAt time.Time
}

func New(launcher ActionLauncher, log AttemptSink, store SessionStore, defaults Defaults) *Engine {
	if defaults.StoreTimeout <= 0 {
		defaults.StoreTimeout = 5 * time.Second
	}
	return &Engine{
		launcher: launcher,
		log:      log,
		store:    store,
		defaults: defaults,
		state:    StateIdle,
	}
}

// Start validates the run and launches the run goroutine. Only validation
// failures (and a run already in progress) are returned as errors; every
// failure after Start returns is attempt-scoped and recorded in the log.
func (e *Engine) Start(ctx context.Context, p StartParams) error {
	if err := channel.ValidateRun(p.Targets, p.Channel, p.MessageBody, p.Mode); err != nil {
		return err
	}

	mode := e.applyDefaults(p.Channel, p.Mode)

	e.mu.Lock()
	if !e.state.Terminal() && e.state != StateIdle {
		e.mu.Unlock()
		return ErrRunInProgress
	}

	targets := make([]string, len(p.Targets))
	copy(targets, p.Targets)

	e.state = StateRunning
	e.stopped = false
	e.run = &run{
		targets:     targets,
		channel:     p.Channel,
		body:        p.MessageBody,
		mode:        mode,
		ownerID:     p.OwnerID,
		sessionName: p.SessionName,
		startedAt:   time.Now().UTC(),
	}
	e.advanceChan = make(chan struct{}, 1)
	e.stopChan = make(chan struct{})
	e.doneChan = make(chan struct{})
	stop, advance, done := e.stopChan, e.advanceChan, e.doneChan
	e.mu.Unlock()

	// Stale view handles from a prior session must never be reused.
	e.launcher.Reset()

	logger.Infof("Starting %s run: %d targets, %s pacing", p.Channel, len(targets), mode.Kind)

	go e.runLoop(ctx, stop, advance, done)

	return nil
}

// Advance resumes a run suspended in manual wait. Any call while the engine
// is not in waiting_manual is a no-op, so duplicate triggers from the caller
// can never advance past the same index twice.
func (e *Engine) Advance() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.state != StateWaitingManual {
		return false
	}

	select {
	case e.advanceChan <- struct{}{}:
		return true
	default:
		return false
	}
}

// Abort moves a non-terminal run to aborted and releases any pending wait.
// Already-written attempt records stay; an active audio capture is not
// touched and must be stopped explicitly.
func (e *Engine) Abort() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case StateRunning, StateWaitingManual, StateWaitingAutomatic:
	default:
		return false
	}
	if e.stopped {
		return false
	}

	e.stopped = true
	e.state = StateAborted
	close(e.stopChan)

	logger.Warnf("Run aborted at index %d of %d", e.run.index, len(e.run.targets))

	return true
}

// Done reports when the current run goroutine has exited. Nil before the
// first Start.
func (e *Engine) Done() <-chan struct{} {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.doneChan
}

func (e *Engine) applyDefaults(ch domain.Channel, mode domain.PacingMode) domain.PacingMode {
	if mode.Delay <= 0 {
		switch ch {
		case domain.ChannelCall:
			mode.Delay = e.defaults.CallDelay
		case domain.ChannelSMS:
			mode.Delay = e.defaults.SMSDelay
		case domain.ChannelWhatsApp:
			mode.Delay = e.defaults.WhatsAppDelay
		}
	}
	if mode.Stagger <= 0 {
		mode.Stagger = e.defaults.BroadcastStagger
	}
	return mode
}

func (e *Engine) runLoop(ctx context.Context, stop <-chan struct{}, advance <-chan struct{}, done chan struct{}) {
	defer close(done)

	e.createSession(ctx)

	e.mu.RLock()
	r := e.run
	e.mu.RUnlock()

	if r.mode.Kind == domain.PacingBroadcast {
		e.broadcast(ctx, r, stop)
		return
	}

	for i := 0; i < len(r.targets); i++ {
		e.mu.Lock()
		e.run.index = i
		e.mu.Unlock()

		e.dispatch(ctx, r, r.targets[i])

		if !e.waitBeforeAdvance(ctx, r, stop, advance) {
			return
		}

		e.advanced()
	}

	e.complete(r)
}

// dispatch triggers one target and appends exactly one attempt record. A
// failed trigger is recorded and the run moves on; a single bad number must
// not halt the queue.
func (e *Engine) dispatch(ctx context.Context, r *run, target string) {
	rec := domain.AttemptRecord{
		Number:    target,
		Channel:   r.channel,
		Status:    r.channel.DispatchedStatus(),
		Timestamp: time.Now().UTC(),
	}
	if sid := e.sessionID(); sid != "" {
		rec.SessionID = &sid
	}

	desc, err := channel.BuildAction(target, r.channel, r.body)
	if err == nil {
		err = e.launcher.Trigger(ctx, desc)
	}
	if err != nil {
		logger.Errorf("Dispatch to %s failed: %v", target, err)
		detail := err.Error()
		rec.Status = domain.StatusFailed
		rec.ErrorDetail = &detail
	}

	e.appendAttempt(ctx, r.ownerID, rec)

	e.mu.Lock()
	e.run.lastDispatchAt = rec.Timestamp
	e.mu.Unlock()
}

// waitBeforeAdvance suspends after a dispatch according to the pacing mode.
// Returns false when the run was aborted or the context cancelled; pending
// timers are released before returning.
func (e *Engine) waitBeforeAdvance(ctx context.Context, r *run, stop <-chan struct{}, advance <-chan struct{}) bool {
	switch r.mode.Kind {
	case domain.PacingAutomatic:
		e.setState(StateWaitingAutomatic)

		timer := time.NewTimer(r.mode.Delay)
		select {
		case <-timer.C:
		case <-stop:
			timer.Stop()
			return false
		case <-ctx.Done():
			timer.Stop()
			e.markAborted()
			return false
		}

	case domain.PacingManual:
		// Drain a leftover signal so a race from the previous wait can
		// never auto-advance this one.
		e.mu.Lock()
		select {
		case <-e.advanceChan:
		default:
		}
		if !e.state.Terminal() {
			e.state = StateWaitingManual
		}
		e.mu.Unlock()

		select {
		case <-advance:
		case <-stop:
			return false
		case <-ctx.Done():
			e.markAborted()
			return false
		}
	}

	e.setState(StateRunning)

	return true
}

// broadcast fires every target with a fixed stagger and no per-target wait
// state. The host platform gives no per-target acknowledgement in this mode,
// so records are written as the triggers are scheduled.
func (e *Engine) broadcast(ctx context.Context, r *run, stop <-chan struct{}) {
	for i, target := range r.targets {
		if i > 0 {
			select {
			case <-time.After(r.mode.Stagger):
			case <-stop:
				return
			case <-ctx.Done():
				e.markAborted()
				return
			}
		}

		rec := domain.AttemptRecord{
			Number:    target,
			Channel:   r.channel,
			Status:    r.channel.DispatchedStatus(),
			Timestamp: time.Now().UTC(),
		}
		if sid := e.sessionID(); sid != "" {
			rec.SessionID = &sid
		}

		desc, err := channel.BuildAction(target, r.channel, r.body)
		if err != nil {
			detail := err.Error()
			rec.Status = domain.StatusFailed
			rec.ErrorDetail = &detail
		} else {
			// Triggers are independent here; they must not block each other.
			go func(desc domain.ActionDescriptor, target string) {
				if err := e.launcher.Trigger(ctx, desc); err != nil {
					logger.Errorf("Broadcast trigger for %s failed: %v", target, err)
				}
			}(desc, target)
		}

		e.appendAttempt(ctx, r.ownerID, rec)

		e.mu.Lock()
		e.run.index = i
		e.run.completed = i + 1
		e.run.lastDispatchAt = rec.Timestamp
		e.mu.Unlock()
	}

	e.complete(r)
}

func (e *Engine) appendAttempt(ctx context.Context, ownerID string, rec domain.AttemptRecord) {
	if err := e.log.Append(ctx, ownerID, rec); err != nil {
		logger.Errorf("Failed to append attempt record for %s: %v", rec.Number, err)
	}
}

// createSession registers the run with the remote store when an owner is
// present. Failure is logged and the run proceeds with local-only logging;
// sessions are analytics, not dispatch correctness.
func (e *Engine) createSession(ctx context.Context) {
	e.mu.RLock()
	r := e.run
	e.mu.RUnlock()

	if e.store == nil || r.ownerID == "" {
		return
	}

	cctx, cancel := context.WithTimeout(ctx, e.defaults.StoreTimeout)
	defer cancel()

	id, err := e.store.CreateSession(cctx, domain.Session{
		OwnerID:      r.ownerID,
		Name:         r.sessionName,
		Channel:      r.channel,
		TotalTargets: len(r.targets),
		StartedAt:    r.startedAt,
	})
	if err != nil {
		logger.Warnf("Remote session create failed, continuing with local-only logging: %v", err)
		return
	}

	e.mu.Lock()
	e.run.sessionID = id
	e.mu.Unlock()

	logger.Infof("Session %s created for %d targets", id, len(r.targets))
}

func (e *Engine) advanced() {
	e.mu.Lock()
	e.run.completed++
	completed := e.run.completed
	owner, sid := e.run.ownerID, e.run.sessionID
	e.mu.Unlock()

	e.pushProgress(owner, sid, completed)
}

func (e *Engine) complete(r *run) {
	e.mu.Lock()
	if e.state.Terminal() {
		e.mu.Unlock()
		return
	}
	e.state = StateCompleted
	e.run.completed = len(r.targets)
	owner, sid := e.run.ownerID, e.run.sessionID
	e.mu.Unlock()

	e.pushProgress(owner, sid, len(r.targets))

	logger.Infof("Run completed: %d targets dispatched", len(r.targets))
}

// pushProgress mirrors the completed count to the remote session, fire and
// forget: a stalled store write must never block the next dispatch.
func (e *Engine) pushProgress(owner, sessionID string, completed int) {
	if e.store == nil || owner == "" || sessionID == "" {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), e.defaults.StoreTimeout)
		defer cancel()

		if err := e.store.UpdateSessionProgress(ctx, owner, sessionID, completed); err != nil {
			logger.Warnf("Session progress update failed: %v", err)
		}
	}()
}

func (e *Engine) setState(s State) {
	e.mu.Lock()
	if !e.state.Terminal() {
		e.state = s
	}
	e.mu.Unlock()
}

func (e *Engine) markAborted() {
	e.mu.Lock()
	e.stopped = true
	e.state = StateAborted
	e.mu.Unlock()
}

func (e *Engine) sessionID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.run.sessionID
}
