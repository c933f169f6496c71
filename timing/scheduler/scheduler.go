// Package scheduler implements the per-cycle Tomasulo state machine: Issue,
// Execute, and Write Result across the reservation-station pool, with
// results broadcast over the Common Data Bus. This is the core engine;
// everything else in this repository is a collaborator around it.
package scheduler

import (
	"github.com/gosim/tomasulo/asm"
	"github.com/gosim/tomasulo/regfile"
	"github.com/gosim/tomasulo/timing/latency"
	"github.com/gosim/tomasulo/timing/rs"
)

// Scheduler drives one program through the three pipeline phases, one cycle
// at a time.
type Scheduler struct {
	Program []asm.Instruction
	PC      int
	Cycle   int

	Registers regfile.RegisterFile
	Status    regfile.StatusTable
	Pool      *rs.Pool

	config *latency.LatencyConfig
}

// New creates a Scheduler for program, using cfg for per-operation
// latencies and bank capacities. Each instruction's timestamps must already
// be unset (asm.NewInstruction / asm.Load do this).
func New(program []asm.Instruction, cfg *latency.LatencyConfig) *Scheduler {
	return &Scheduler{
		Program: program,
		Pool:    rs.NewPool(cfg),
		config:  cfg,
	}
}

// stationRef identifies a station issued during the current tick, so the
// Execute phase can skip it: a freshly issued station has not yet reached
// the "state as it was at cycle start" that Execute operates on.
type stationRef struct {
	bank  asm.Bank
	index int
	ok    bool
}

// Tick advances the scheduler by exactly one cycle, running Issue, Execute,
// and Write Result in that order, then advancing the cycle counter. It
// never blocks: a single call always advances exactly one cycle.
func (s *Scheduler) Tick() {
	issued := s.doIssue()
	s.doExecute(issued)
	s.doWriteResult()
	s.Cycle++
}

// HasPendingWork reports whether any forward progress remains possible: an
// unissued instruction, or a station still busy.
func (s *Scheduler) HasPendingWork() bool {
	if s.PC < len(s.Program) {
		return true
	}
	pending := false
	s.Pool.AllStations(func(_ regfile.Tag, _ asm.Bank, _ int, st *rs.Station) {
		if st.Busy {
			pending = true
		}
	})
	return pending
}

// doIssue attempts to issue the instruction at PC into a free station of its
// bank. On structural hazard (no free station), it stalls: no state is
// changed and the same instruction is retried next cycle.
func (s *Scheduler) doIssue() stationRef {
	if s.PC >= len(s.Program) {
		return stationRef{}
	}

	inst := &s.Program[s.PC]
	bank := inst.Op.Bank()
	index, ok := s.Pool.FreeIndex(bank)
	if !ok {
		return stationRef{}
	}

	st := s.Pool.Station(bank, index)
	st.Clear()
	st.Busy = true
	st.Op = inst.Op
	st.Dest = inst.Dest
	st.OwnerInstructionIndex = s.PC
	st.Qj = regfile.NoProducer
	st.Qk = regfile.NoProducer

	tag := s.Pool.TagOf(bank, index)

	if inst.Op.UsesSrc1() {
		if s.Status.Ready(inst.Src1) {
			st.Vj = s.Registers.Read(inst.Src1)
		} else {
			st.Qj = s.Status.TagOf(inst.Src1)
		}
	}

	if inst.Op.UsesSrc2() {
		if s.Status.Ready(inst.Src2) {
			st.Vk = s.Registers.Read(inst.Src2)
		} else {
			st.Qk = s.Status.TagOf(inst.Src2)
		}
	}

	if inst.Op == asm.OpLoad || inst.Op == asm.OpStore {
		st.A = inst.Imm
	}

	st.RemainingLatency = s.config.LatencyFor(inst.Op)

	if inst.Op.WritesDest() {
		s.Status.Rename(inst.Dest, tag)
	}

	inst.Issued = s.Cycle
	s.PC++

	return stationRef{bank: bank, index: index, ok: true}
}

// doExecute decrements the remaining latency of every busy station whose
// operands are fully resolved, skipping the station issued this same cycle
// (see stationRef) and any station whose operands were only just resolved
// by this cycle's own Write Result phase, which has not run yet.
func (s *Scheduler) doExecute(skip stationRef) {
	s.Pool.AllStations(func(_ regfile.Tag, bank asm.Bank, index int, st *rs.Station) {
		if !st.Busy {
			return
		}
		if skip.ok && bank == skip.bank && index == skip.index {
			return
		}
		if st.Qj != regfile.NoProducer || st.Qk != regfile.NoProducer {
			return
		}
		if st.RemainingLatency <= 0 {
			return
		}

		st.RemainingLatency--
		if st.RemainingLatency == 0 {
			s.Program[st.OwnerInstructionIndex].Executed = s.Cycle
		}
	})
}

// doWriteResult commits and broadcasts every station whose latency has
// reached zero, applying the stale-tag rule below. The idealized CDB lets
// every eligible station write back in the same cycle; there is no
// single-port arbitration.
func (s *Scheduler) doWriteResult() {
	s.Pool.AllStations(func(tag regfile.Tag, _ asm.Bank, _ int, st *rs.Station) {
		if !st.Busy || st.RemainingLatency != 0 {
			return
		}

		result, hasResult := computeResult(st)

		if st.Op.WritesDest() {
			if s.Status.ClearIfMatches(st.Dest, tag) {
				s.Registers.Write(st.Dest, result)
			}
			// Stale tag: a later instruction re-renamed Dest. The result is
			// still broadcast below for any in-flight consumer, but the
			// architectural register is owned by the newer producer.
		}

		if hasResult {
			s.Pool.Broadcast(tag, result)
		}

		inst := &s.Program[st.OwnerInstructionIndex]
		inst.Written = s.Cycle
		inst.Completed = s.Cycle

		st.Clear()
	})
}

// computeResult evaluates a station's operation. The second return value is
// false for Store and Nop, which complete without producing a CDB value.
func computeResult(st *rs.Station) (float64, bool) {
	switch st.Op {
	case asm.OpAdd:
		return st.Vj + st.Vk, true
	case asm.OpSub:
		return st.Vj - st.Vk, true
	case asm.OpMul:
		return st.Vj * st.Vk, true
	case asm.OpDiv:
		return st.Vj / st.Vk, true
	case asm.OpLoad:
		// Memory is a stub: every load yields the constant 1.0.
		return 1.0, true
	default:
		return 0, false
	}
}

// Reset restores the scheduler to its state immediately after New, rewinding
// the program counter and cycle counter and clearing the register file,
// status table, and station pool. Instruction timestamps are also rewound.
func (s *Scheduler) Reset() {
	s.PC = 0
	s.Cycle = 0
	s.Registers.Reset()
	s.Status.Reset()
	s.Pool.Reset()
	for i := range s.Program {
		s.Program[i].Issued = asm.UnsetTimestamp
		s.Program[i].Executed = asm.UnsetTimestamp
		s.Program[i].Written = asm.UnsetTimestamp
		s.Program[i].Completed = asm.UnsetTimestamp
	}
}
