// Package latency provides the per-operation latency and reservation-station
// bank-capacity configuration for the Tomasulo scheduler, loadable from a
// JSON file.
package latency

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/gosim/tomasulo/asm"
)

// LatencyConfig holds the fixed latencies and bank capacities that form the
// scheduler's external contract.
type LatencyConfig struct {
	// AddSubLatency is the cycle count for Add and Sub. Default: 2.
	AddSubLatency int `json:"add_sub_latency"`

	// MulLatency is the cycle count for Mul. Default: 10.
	MulLatency int `json:"mul_latency"`

	// DivLatency is the cycle count for Div. Default: 40.
	DivLatency int `json:"div_latency"`

	// LoadLatency is the cycle count for Load. Default: 2.
	LoadLatency int `json:"load_latency"`

	// StoreLatency is the cycle count for Store. Default: 2.
	StoreLatency int `json:"store_latency"`

	// AddSubStations is the add/sub bank capacity. Default: 6.
	AddSubStations int `json:"add_sub_stations"`

	// MulDivStations is the mul/div bank capacity. Default: 6.
	MulDivStations int `json:"mul_div_stations"`

	// LoadBuffers is the load-buffer bank capacity. Default: 4.
	LoadBuffers int `json:"load_buffers"`

	// StoreBuffers is the store-buffer bank capacity. Default: 4.
	StoreBuffers int `json:"store_buffers"`
}

// DefaultLatencyConfig returns the default latencies and capacities.
func DefaultLatencyConfig() *LatencyConfig {
	return &LatencyConfig{
		AddSubLatency:  2,
		MulLatency:     10,
		DivLatency:     40,
		LoadLatency:    2,
		StoreLatency:   2,
		AddSubStations: 6,
		MulDivStations: 6,
		LoadBuffers:    4,
		StoreBuffers:   4,
	}
}

// LoadLatencyConfig reads a JSON file and unmarshals it onto a copy of the
// defaults, so a config file that only overrides a subset of fields leaves
// the rest at their defaults.
func LoadLatencyConfig(path string) (*LatencyConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("latency: failed to read config file: %w", err)
	}

	config := DefaultLatencyConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("latency: failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("latency: invalid config: %w", err)
	}

	return config, nil
}

// SaveConfig writes the config to path as indented JSON.
func (c *LatencyConfig) SaveConfig(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("latency: failed to serialize config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("latency: failed to write config file: %w", err)
	}

	return nil
}

// Validate checks that every latency and bank capacity is positive and that
// the total tag space fits in a byte-sized tag.
func (c *LatencyConfig) Validate() error {
	fields := map[string]int{
		"add_sub_latency":  c.AddSubLatency,
		"mul_latency":      c.MulLatency,
		"div_latency":      c.DivLatency,
		"load_latency":     c.LoadLatency,
		"store_latency":    c.StoreLatency,
		"add_sub_stations": c.AddSubStations,
		"mul_div_stations": c.MulDivStations,
		"load_buffers":     c.LoadBuffers,
		"store_buffers":    c.StoreBuffers,
	}
	for name, v := range fields {
		if v <= 0 {
			return fmt.Errorf("%s must be > 0", name)
		}
	}

	total := c.AddSubStations + c.MulDivStations + c.LoadBuffers + c.StoreBuffers
	if total > 255 {
		return fmt.Errorf("total station capacity %d exceeds the 255-tag space", total)
	}

	return nil
}

// Clone returns a deep copy of the config.
func (c *LatencyConfig) Clone() *LatencyConfig {
	clone := *c
	return &clone
}

// LatencyFor returns the fixed latency, in cycles, for the given operation.
// Nop takes the add/sub latency, since it is issued into that bank.
func (c *LatencyConfig) LatencyFor(op asm.Operation) int {
	switch op {
	case asm.OpAdd, asm.OpSub, asm.OpNop:
		return c.AddSubLatency
	case asm.OpMul:
		return c.MulLatency
	case asm.OpDiv:
		return c.DivLatency
	case asm.OpLoad:
		return c.LoadLatency
	case asm.OpStore:
		return c.StoreLatency
	default:
		return c.AddSubLatency
	}
}

// Capacity returns the number of stations in the given bank.
func (c *LatencyConfig) Capacity(bank asm.Bank) int {
	switch bank {
	case asm.BankAddSub:
		return c.AddSubStations
	case asm.BankMulDiv:
		return c.MulDivStations
	case asm.BankLoad:
		return c.LoadBuffers
	case asm.BankStore:
		return c.StoreBuffers
	default:
		return 0
	}
}
