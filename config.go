package ocho

import (
	"encoding/json"
	"fmt"
	"os"
)

// Config resolves the documented chip-8 dialect ambiguities and sets
// the execution speed. It is read-only for the lifetime of a run.
//
// The color fields are consumed by renderers only; the core never
// interprets them.
type Config struct {
	// Target fetch-execute rate of the run loop.
	InstructionsPerSecond uint `json:"instructions_per_second"`
	// 8XY6/8XYE shift VY into VX (legacy) instead of shifting VX in place.
	ShiftUsesVY bool `json:"shift_use_vy"`
	// BNNN jumps to NNN+V0 (legacy) instead of NNN+VX.
	JumpOffsetUsesV0 bool `json:"jump_offset_use_v0"`
	// FX55/FX65 leave the index register advanced past the block.
	StoreMemoryAdvancesIndex bool `json:"store_memory_update_index"`
	// Renderer colors as RRGGBB hex strings.
	Foreground string `json:"foreground"`
	Background string `json:"background"`
}

// DefaultConfig favors the common modern interpretation of the
// ambiguous instructions.
func DefaultConfig() Config {
	return Config{
		InstructionsPerSecond:    700,
		ShiftUsesVY:              true,
		JumpOffsetUsesV0:         true,
		StoreMemoryAdvancesIndex: false,
		Foreground:               "000000",
		Background:               "FFFFFF",
	}
}

// LoadConfig reads a JSON config file. Fields missing from the file
// keep their default values.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	contents, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("reading config file: %w", err)
	}
	if err := json.Unmarshal(contents, &config); err != nil {
		return config, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return config, nil
}
