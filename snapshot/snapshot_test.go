package snapshot_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/gosim/tomasulo/asm"
	"github.com/gosim/tomasulo/regfile"
	"github.com/gosim/tomasulo/snapshot"
	"github.com/gosim/tomasulo/timing/latency"
	"github.com/gosim/tomasulo/timing/scheduler"
)

func TestSnapshot(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Snapshot Suite")
}

var _ = Describe("Take", func() {
	It("captures a busy station and a pending instruction", func() {
		program := []asm.Instruction{
			asm.NewInstruction(asm.OpAdd, 1, 2, 3, 0),
		}
		s := scheduler.New(program, latency.DefaultLatencyConfig())
		s.Tick()

		snap := snapshot.Take(s)
		Expect(snap.Cycle).To(Equal(1))
		Expect(snap.Instructions).To(HaveLen(1))
		Expect(snap.Instructions[0].Issued).To(Equal(0))

		busy := 0
		for _, st := range snap.Stations {
			if st.Busy {
				busy++
				Expect(st.Op).To(Equal(asm.OpAdd))
				Expect(st.Dest).To(Equal(uint8(1)))
			}
		}
		Expect(busy).To(Equal(1))
	})

	It("is a point-in-time copy: later ticks do not change an earlier snapshot", func() {
		program := []asm.Instruction{
			asm.NewInstruction(asm.OpAdd, 1, 2, 3, 0),
		}
		s := scheduler.New(program, latency.DefaultLatencyConfig())
		s.Tick()
		snap := snapshot.Take(s)

		s.Tick()
		s.Tick()

		Expect(snap.Cycle).To(Equal(1))
		Expect(snap.Instructions[0].Written).To(Equal(asm.UnsetTimestamp))
	})

	It("reflects register values and status tags at capture time", func() {
		program := []asm.Instruction{
			asm.NewInstruction(asm.OpAdd, 1, 2, 3, 0),
		}
		s := scheduler.New(program, latency.DefaultLatencyConfig())
		s.Tick()

		snap := snapshot.Take(s)
		Expect(snap.Status[1]).NotTo(Equal(regfile.NoProducer))
		Expect(snap.Registers[1]).To(Equal(0.0))
	})
})

var _ = Describe("Snapshot.String", func() {
	It("renders cycle, register, station, and instruction sections", func() {
		program := []asm.Instruction{
			asm.NewInstruction(asm.OpAdd, 1, 2, 3, 0),
		}
		s := scheduler.New(program, latency.DefaultLatencyConfig())
		s.Tick()

		text := snapshot.Take(s).String()
		Expect(text).To(ContainSubstring("cycle 1"))
		Expect(text).To(ContainSubstring("registers:"))
		Expect(text).To(ContainSubstring("reservation stations:"))
		Expect(text).To(ContainSubstring("instructions:"))
		Expect(text).To(ContainSubstring("ADD"))
	})

	It("renders an unset timestamp as a dash", func() {
		program := []asm.Instruction{
			asm.NewInstruction(asm.OpAdd, 1, 2, 3, 0),
		}
		s := scheduler.New(program, latency.DefaultLatencyConfig())

		text := snapshot.Take(s).String()
		Expect(text).To(ContainSubstring("issued=-"))
	})
})
