package engine

import (
	"time"

	"github.com/okanbasoglu/outreach-dispatch-service/internal/domain"
)

// RunStatus is a snapshot of the engine's progress for the caller's UI.
type RunStatus struct {
	State          State             `json:"state"`
	Channel        domain.Channel    `json:"channel,omitempty"`
	Pacing         domain.PacingKind `json:"pacing,omitempty"`
	TotalTargets   int               `json:"totalTargets"`
	CompletedCount int               `json:"completedCount"`
	CurrentIndex   int               `json:"currentIndex"`
	CurrentTarget  string            `json:"currentTarget,omitempty"`
	SessionID      string            `json:"sessionId,omitempty"`
	SessionName    string            `json:"sessionName,omitempty"`
	StartedAt      time.Time         `json:"startedAt,omitempty"`
	LastDispatchAt time.Time         `json:"lastDispatchAt,omitempty"`
}

func (e *Engine) Status() RunStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()

	status := RunStatus{State: e.state}
	if e.run == nil {
		return status
	}

	status.Channel = e.run.channel
	status.Pacing = e.run.mode.Kind
	status.TotalTargets = len(e.run.targets)
	status.CompletedCount = e.run.completed
	status.CurrentIndex = e.run.index
	if e.run.index < len(e.run.targets) {
		status.CurrentTarget = e.run.targets[e.run.index]
	}
	status.SessionID = e.run.sessionID
	status.SessionName = e.run.sessionName
	status.StartedAt = e.run.startedAt
	status.LastDispatchAt = e.run.lastDispatchAt

	return status
}

// Active reports whether a run is currently in a non-terminal state.
func (e *Engine) Active() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state == StateRunning || e.state == StateWaitingManual || e.state == StateWaitingAutomatic
}
