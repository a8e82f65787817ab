package ocho_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/guslan/ocho"
	"github.com/retroenv/retrogolib/assert"
)

func TestDefaultConfig(t *testing.T) {
	config := ocho.DefaultConfig()

	assert.Equal(t, uint(700), config.InstructionsPerSecond)
	assert.True(t, config.ShiftUsesVY)
	assert.True(t, config.JumpOffsetUsesV0)
	assert.False(t, config.StoreMemoryAdvancesIndex)
	assert.Equal(t, "000000", config.Foreground)
	assert.Equal(t, "FFFFFF", config.Background)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	contents := `{"instructions_per_second": 500, "shift_use_vy": false, "foreground": "00FF00"}`
	assert.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	config, err := ocho.LoadConfig(path)
	assert.NoError(t, err)

	assert.Equal(t, uint(500), config.InstructionsPerSecond)
	assert.False(t, config.ShiftUsesVY)
	assert.Equal(t, "00FF00", config.Foreground)
	// Fields absent from the file keep their defaults.
	assert.True(t, config.JumpOffsetUsesV0)
	assert.Equal(t, "FFFFFF", config.Background)
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := ocho.LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.json")
	assert.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err = ocho.LoadConfig(path)
	assert.Error(t, err)
}
