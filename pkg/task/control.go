// Package task provides cooperative process control and progress reporting
// for long-running batch operations. A [Controller] holds a single explicit
// state value polled by worker loops at item boundaries, and a [Broadcaster]
// fans progress and result events out to subscribers.
package task

import (
	"context"
	"errors"
	"sync/atomic"
	"time"
)

// State is the lifecycle of a batch operation. Transitions are cooperative:
// a running loop only observes the state at the checkpoints it defines.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StatePaused
	StateStopRequested
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateStopRequested:
		return "stop-requested"
	}

	return "unknown"
}

var (
	// ErrStopped is returned by [Controller.Checkpoint] after a stop request.
	ErrStopped = errors.New("stop requested")

	// ErrNotRunning is returned when pause or stop is requested while idle.
	ErrNotRunning = errors.New("no operation is running")

	// ErrNotPaused is returned when resume is requested without a pause.
	ErrNotPaused = errors.New("operation is not paused")
)

// Controller is a shared three-state flag consumed cooperatively by batch
// loops. All methods are safe for concurrent use.
type Controller struct {
	state   atomic.Int32
	current atomic.Int64
	poll    time.Duration
}

// NewController creates an idle [Controller]. The poll interval bounds how
// quickly a paused loop notices resume and stop requests.
func NewController(poll time.Duration) *Controller {
	if poll <= 0 {
		poll = 100 * time.Millisecond
	}

	return &Controller{poll: poll}
}

// Start transitions to running and resets the item counter.
func (c *Controller) Start() {
	c.current.Store(0)
	c.state.Store(int32(StateRunning))
}

// Pause requests that the running loop hold at its next checkpoint.
func (c *Controller) Pause() error {
	if !c.state.CompareAndSwap(int32(StateRunning), int32(StatePaused)) {
		return ErrNotRunning
	}

	return nil
}

// Resume lets a paused loop continue.
func (c *Controller) Resume() error {
	if !c.state.CompareAndSwap(int32(StatePaused), int32(StateRunning)) {
		return ErrNotPaused
	}

	return nil
}

// Stop requests that the loop exit at its next checkpoint. Stopping a paused
// loop releases it.
func (c *Controller) Stop() error {
	switch State(c.state.Load()) {
	case StateRunning, StatePaused:
		c.state.Store(int32(StateStopRequested))

		return nil
	default:
		return ErrNotRunning
	}
}

// Reset returns the controller to idle.
func (c *Controller) Reset() {
	c.current.Store(0)
	c.state.Store(int32(StateIdle))
}

// State returns the current state.
func (c *Controller) State() State {
	return State(c.state.Load())
}

// SetCurrent records the index of the item being processed.
func (c *Controller) SetCurrent(i int) {
	c.current.Store(int64(i))
}

// Current returns the index of the item being processed.
func (c *Controller) Current() int {
	return int(c.current.Load())
}

// Checkpoint is called by batch loops between work items. It returns
// immediately while running, blocks while paused, and returns [ErrStopped]
// once a stop was requested. A canceled context ends the wait and is
// reported ahead of the controller state.
func (c *Controller) Checkpoint(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		switch State(c.state.Load()) {
		case StateStopRequested:
			return ErrStopped

		case StatePaused:
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.poll):
			}

		default:
			return nil
		}
	}
}
