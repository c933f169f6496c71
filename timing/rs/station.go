// Package rs implements the reservation-station pool: the four disjoint
// banks of stations (add/sub, mul/div, load, store) and the bank/tag
// arithmetic used to translate between (bank, index) and the global station
// tag.
package rs

import (
	"github.com/gosim/tomasulo/asm"
	"github.com/gosim/tomasulo/regfile"
	"github.com/gosim/tomasulo/timing/latency"
)

// Station is one reservation station (or load/store buffer). Fields beyond
// Busy are undefined when the station is free.
type Station struct {
	Busy bool
	Op   asm.Operation
	Dest uint8

	// Vj, Vk are operand values, valid only when the matching Qj/Qk is
	// regfile.NoProducer.
	Vj, Vk float64

	// Qj, Qk are the tags this station is waiting on. NoProducer means the
	// matching operand is ready. Qk is unused by Load and Store.
	Qj, Qk regfile.Tag

	// A is the address immediate, used only by Load/Store.
	A int

	// RemainingLatency counts down to zero during Execute.
	RemainingLatency int

	// OwnerInstructionIndex names the program instruction occupying this
	// station. Timestamps are always updated through this index, never by
	// scanning for a matching destination register, since multiple
	// instructions may target the same register across the run.
	OwnerInstructionIndex int
}

// Clear resets a station to the free state.
func (s *Station) Clear() {
	*s = Station{}
}

// Pool holds the four reservation-station banks as a single flat arena,
// which is what makes the CDB broadcast a single sweep.
type Pool struct {
	AddSub []Station
	MulDiv []Station
	Load   []Station
	Store  []Station
}

// bankBase is the number of tags assigned to every bank earlier than the
// given one.
func (p *Pool) bankBase(bank asm.Bank) int {
	base := 0
	if bank > asm.BankAddSub {
		base += len(p.AddSub)
	}
	if bank > asm.BankMulDiv {
		base += len(p.MulDiv)
	}
	if bank > asm.BankLoad {
		base += len(p.Load)
	}
	return base
}

// NewPool allocates a pool with the bank capacities from cfg, all stations
// free.
func NewPool(cfg *latency.LatencyConfig) *Pool {
	return &Pool{
		AddSub: make([]Station, cfg.Capacity(asm.BankAddSub)),
		MulDiv: make([]Station, cfg.Capacity(asm.BankMulDiv)),
		Load:   make([]Station, cfg.Capacity(asm.BankLoad)),
		Store:  make([]Station, cfg.Capacity(asm.BankStore)),
	}
}

// bankSlice returns the slice backing the given bank.
func (p *Pool) bankSlice(bank asm.Bank) []Station {
	switch bank {
	case asm.BankAddSub:
		return p.AddSub
	case asm.BankMulDiv:
		return p.MulDiv
	case asm.BankLoad:
		return p.Load
	case asm.BankStore:
		return p.Store
	default:
		return nil
	}
}

// TagOf returns the global tag for station index i within bank: tag =
// bankBase + i + 1.
func (p *Pool) TagOf(bank asm.Bank, i int) regfile.Tag {
	return regfile.Tag(p.bankBase(bank) + i + 1)
}

// Locate returns the bank and index for a global tag, and whether the tag
// names a real station in this pool. Tag 0 (NoProducer) never resolves.
func (p *Pool) Locate(tag regfile.Tag) (bank asm.Bank, index int, ok bool) {
	if tag == regfile.NoProducer {
		return 0, 0, false
	}

	remaining := int(tag) - 1
	banks := []asm.Bank{asm.BankAddSub, asm.BankMulDiv, asm.BankLoad, asm.BankStore}
	for _, b := range banks {
		size := len(p.bankSlice(b))
		if remaining < size {
			return b, remaining, true
		}
		remaining -= size
	}
	return 0, 0, false
}

// Station returns a pointer to the station identified by (bank, index).
func (p *Pool) Station(bank asm.Bank, index int) *Station {
	slice := p.bankSlice(bank)
	if index < 0 || index >= len(slice) {
		return nil
	}
	return &slice[index]
}

// StationByTag returns a pointer to the station holding tag, or nil if the
// tag does not name a live station in this pool.
func (p *Pool) StationByTag(tag regfile.Tag) *Station {
	bank, index, ok := p.Locate(tag)
	if !ok {
		return nil
	}
	return p.Station(bank, index)
}

// FreeIndex returns the index of a free station in bank, and whether one was
// found. This is the structural-hazard check: Issue stalls (not an error)
// when this returns false.
func (p *Pool) FreeIndex(bank asm.Bank) (int, bool) {
	slice := p.bankSlice(bank)
	for i := range slice {
		if !slice[i].Busy {
			return i, true
		}
	}
	return 0, false
}

// AllStations calls fn for every station across all four banks, tagged with
// its global tag, bank, and in-bank index. Used by the CDB broadcast sweep,
// the Execute tick, and snapshotting — the single sweep the flat-arena
// representation enables.
func (p *Pool) AllStations(fn func(tag regfile.Tag, bank asm.Bank, index int, s *Station)) {
	for _, bank := range []asm.Bank{asm.BankAddSub, asm.BankMulDiv, asm.BankLoad, asm.BankStore} {
		slice := p.bankSlice(bank)
		for i := range slice {
			fn(p.TagOf(bank, i), bank, i, &slice[i])
		}
	}
}

// Broadcast delivers value to every busy station awaiting tag on either
// operand slot, implementing the CDB broadcast.
func (p *Pool) Broadcast(tag regfile.Tag, value float64) {
	p.AllStations(func(_ regfile.Tag, _ asm.Bank, _ int, st *Station) {
		if !st.Busy {
			return
		}
		if st.Qj == tag {
			st.Vj = value
			st.Qj = regfile.NoProducer
		}
		if st.Qk == tag {
			st.Vk = value
			st.Qk = regfile.NoProducer
		}
	})
}

// Reset frees every station in every bank.
func (p *Pool) Reset() {
	for i := range p.AddSub {
		p.AddSub[i].Clear()
	}
	for i := range p.MulDiv {
		p.MulDiv[i].Clear()
	}
	for i := range p.Load {
		p.Load[i].Clear()
	}
	for i := range p.Store {
		p.Store[i].Clear()
	}
}
