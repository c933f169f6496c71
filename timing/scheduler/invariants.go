package scheduler

import (
	"fmt"

	"github.com/gosim/tomasulo/asm"
	"github.com/gosim/tomasulo/regfile"
	"github.com/gosim/tomasulo/timing/rs"
)

// CheckInvariants evaluates the scheduler's consistency invariants and
// returns a human-readable violation for each one that fails. It is meant to
// be called after every Tick in tests; an empty result means the scheduler
// is in a consistent state.
func (s *Scheduler) CheckInvariants() []string {
	var violations []string

	tagOwner := make(map[regfile.Tag]struct {
		bank  asm.Bank
		index int
		dest  uint8
	})
	s.Pool.AllStations(func(tag regfile.Tag, bank asm.Bank, index int, st *rs.Station) {
		if !st.Busy {
			return
		}
		tagOwner[tag] = struct {
			bank  asm.Bank
			index int
			dest  uint8
		}{bank, index, st.Dest}
	})

	// Invariant 1: every non-ready register-status entry names exactly one
	// busy station whose dest is that register.
	for r := 0; r < regfile.NumRegisters; r++ {
		tag := s.Status.TagOf(uint8(r))
		if tag == regfile.NoProducer {
			continue
		}
		owner, ok := tagOwner[tag]
		if !ok {
			violations = append(violations, fmt.Sprintf(
				"register %d names tag %d with no busy station", r, tag))
			continue
		}
		if owner.dest != uint8(r) {
			violations = append(violations, fmt.Sprintf(
				"register %d names tag %d, but that station's dest is %d", r, tag, owner.dest))
		}
	}

	// Invariant 2: every awaited tag names a busy station.
	s.Pool.AllStations(func(_ regfile.Tag, _ asm.Bank, _ int, st *rs.Station) {
		if !st.Busy {
			return
		}
		if st.Qj != regfile.NoProducer {
			if _, ok := tagOwner[st.Qj]; !ok {
				violations = append(violations, fmt.Sprintf(
					"station awaits Qj=%d with no busy station", st.Qj))
			}
		}
		if st.Qk != regfile.NoProducer {
			if _, ok := tagOwner[st.Qk]; !ok {
				violations = append(violations, fmt.Sprintf(
					"station awaits Qk=%d with no busy station", st.Qk))
			}
		}
	})

	// Invariant 3: timestamps are non-decreasing in (issued, executed,
	// written, completed) wherever set.
	for i, inst := range s.Program {
		stamps := []int{inst.Issued, inst.Executed, inst.Written, inst.Completed}
		last := asm.UnsetTimestamp
		for _, v := range stamps {
			if v == asm.UnsetTimestamp {
				continue
			}
			if last != asm.UnsetTimestamp && v < last {
				violations = append(violations, fmt.Sprintf(
					"instruction %d has out-of-order timestamps %v", i, stamps))
				break
			}
			last = v
		}
	}

	// Invariant 4: written never precedes issued + latency(op).
	for i, inst := range s.Program {
		if inst.Issued == asm.UnsetTimestamp || inst.Written == asm.UnsetTimestamp {
			continue
		}
		minWritten := inst.Issued + s.config.LatencyFor(inst.Op)
		if inst.Written < minWritten {
			violations = append(violations, fmt.Sprintf(
				"instruction %d written at %d before issued(%d)+latency(%d)=%d",
				i, inst.Written, inst.Issued, s.config.LatencyFor(inst.Op), minWritten))
		}
	}

	// Invariant 5: PC equals the count of instructions whose issued is set.
	issuedCount := 0
	for _, inst := range s.Program {
		if inst.Issued != asm.UnsetTimestamp {
			issuedCount++
		}
	}
	if s.PC != issuedCount {
		violations = append(violations, fmt.Sprintf(
			"pc=%d does not match issued-instruction count=%d", s.PC, issuedCount))
	}

	return violations
}
