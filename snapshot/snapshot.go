// Package snapshot provides a read-only status view of the scheduler: a
// point-in-time copy of engine state, and a fixed-width text renderer for
// it. It never mutates the engine it observes.
package snapshot

import (
	"fmt"
	"strings"

	"github.com/gosim/tomasulo/asm"
	"github.com/gosim/tomasulo/regfile"
	"github.com/gosim/tomasulo/timing/rs"
	"github.com/gosim/tomasulo/timing/scheduler"
)

// StationView is a read-only copy of one reservation station, tagged with
// its global tag and bank.
type StationView struct {
	Tag   regfile.Tag
	Bank  asm.Bank
	Index int
	Busy  bool
	Op    asm.Operation
	Dest  uint8
	Vj    float64
	Vk    float64
	Qj    regfile.Tag
	Qk    regfile.Tag
	A     int

	RemainingLatency int
}

// InstructionView is a read-only copy of one program instruction's decoded
// fields and phase timestamps.
type InstructionView struct {
	Index      int
	Op         asm.Operation
	Dest       uint8
	Src1, Src2 uint8
	Imm        int
	Issued     int
	Executed   int
	Written    int
	Completed  int
}

// Snapshot is a plain-value, point-in-time copy of engine state: taking one
// does not hold a reference into the live engine, so continuing to advance
// the engine afterward cannot change a Snapshot already taken.
type Snapshot struct {
	Cycle        int
	Registers    [regfile.NumRegisters]float64
	Status       [regfile.NumRegisters]regfile.Tag
	Stations     []StationView
	Instructions []InstructionView
}

// Take captures the current state of s.
func Take(s *scheduler.Scheduler) Snapshot {
	snap := Snapshot{
		Cycle:     s.Cycle,
		Registers: s.Registers.Values,
		Status:    s.Status.Producer,
	}

	s.Pool.AllStations(func(tag regfile.Tag, bank asm.Bank, index int, st *rs.Station) {
		snap.Stations = append(snap.Stations, StationView{
			Tag:              tag,
			Bank:             bank,
			Index:            index,
			Busy:             st.Busy,
			Op:               st.Op,
			Dest:             st.Dest,
			Vj:               st.Vj,
			Vk:               st.Vk,
			Qj:               st.Qj,
			Qk:               st.Qk,
			A:                st.A,
			RemainingLatency: st.RemainingLatency,
		})
	})

	for i, inst := range s.Program {
		snap.Instructions = append(snap.Instructions, InstructionView{
			Index:     i,
			Op:        inst.Op,
			Dest:      inst.Dest,
			Src1:      inst.Src1,
			Src2:      inst.Src2,
			Imm:       inst.Imm,
			Issued:    inst.Issued,
			Executed:  inst.Executed,
			Written:   inst.Written,
			Completed: inst.Completed,
		})
	}

	return snap
}

// bankName renders a Bank the way the status table prints it.
func bankName(b asm.Bank) string {
	switch b {
	case asm.BankAddSub:
		return "AddSub"
	case asm.BankMulDiv:
		return "MulDiv"
	case asm.BankLoad:
		return "Load"
	case asm.BankStore:
		return "Store"
	default:
		return "?"
	}
}

// stamp renders a timestamp, showing "-" for asm.UnsetTimestamp.
func stamp(v int) string {
	if v == asm.UnsetTimestamp {
		return "-"
	}
	return fmt.Sprintf("%d", v)
}

// String renders the snapshot as a fixed-width text table, the status view
// the CLI driver prints between cycles.
func (s Snapshot) String() string {
	var b strings.Builder

	fmt.Fprintf(&b, "cycle %d\n", s.Cycle)

	fmt.Fprintf(&b, "\nregisters:\n")
	for r := 0; r < regfile.NumRegisters; r++ {
		tagStr := "ready"
		if s.Status[r] != regfile.NoProducer {
			tagStr = fmt.Sprintf("tag=%d", s.Status[r])
		}
		fmt.Fprintf(&b, "  R%-2d = %-12g %s\n", r, s.Registers[r], tagStr)
	}

	fmt.Fprintf(&b, "\nreservation stations:\n")
	for _, st := range s.Stations {
		if !st.Busy {
			continue
		}
		fmt.Fprintf(&b,
			"  [%-6s #%d tag=%-2d] op=%-5s dest=R%-2d Vj=%-10g Qj=%-2d Vk=%-10g Qk=%-2d A=%-4d remaining=%d\n",
			bankName(st.Bank), st.Index, st.Tag, st.Op, st.Dest, st.Vj, st.Qj, st.Vk, st.Qk, st.A, st.RemainingLatency)
	}

	fmt.Fprintf(&b, "\ninstructions:\n")
	for _, inst := range s.Instructions {
		fmt.Fprintf(&b,
			"  #%-3d %-5s dest=R%-2d src1=R%-2d src2=R%-2d imm=%-4d issued=%-3s executed=%-3s written=%-3s completed=%-3s\n",
			inst.Index, inst.Op, inst.Dest, inst.Src1, inst.Src2, inst.Imm,
			stamp(inst.Issued), stamp(inst.Executed), stamp(inst.Written), stamp(inst.Completed))
	}

	return b.String()
}
