// Package core provides the engine facade: a high-level wrapper around the
// scheduler that exposes cycle stepping and read-only snapshots.
package core

import (
	"github.com/gosim/tomasulo/asm"
	"github.com/gosim/tomasulo/snapshot"
	"github.com/gosim/tomasulo/timing/latency"
	"github.com/gosim/tomasulo/timing/scheduler"
)

// Engine is the cycle-accurate Tomasulo engine: a scheduler plus the
// bookkeeping a driver needs (cycle count, halted state, snapshotting).
type Engine struct {
	sched *scheduler.Scheduler
}

// NewEngine creates an Engine for program, configured with cfg.
func NewEngine(program []asm.Instruction, cfg *latency.LatencyConfig) *Engine {
	return &Engine{sched: scheduler.New(program, cfg)}
}

// AdvanceOneCycle runs exactly one Issue / Execute / Write Result cycle —
// a single non-blocking tick — and reports whether any
// forward progress remains possible afterward.
func (e *Engine) AdvanceOneCycle() bool {
	if !e.sched.HasPendingWork() {
		return false
	}
	e.sched.Tick()
	return e.sched.HasPendingWork()
}

// Cycle returns the current cycle counter.
func (e *Engine) Cycle() int {
	return e.sched.Cycle
}

// Halted reports whether every instruction has completed and no station is
// busy, i.e. no further AdvanceOneCycle call would change anything.
func (e *Engine) Halted() bool {
	return !e.sched.HasPendingWork()
}

// Snapshot takes a read-only, point-in-time copy of engine state.
func (e *Engine) Snapshot() snapshot.Snapshot {
	return snapshot.Take(e.sched)
}

// Reset restores the engine to its state immediately after NewEngine.
func (e *Engine) Reset() {
	e.sched.Reset()
}

// Scheduler exposes the underlying scheduler for callers that need direct
// access (e.g. invariant checks in tests).
func (e *Engine) Scheduler() *scheduler.Scheduler {
	return e.sched
}
