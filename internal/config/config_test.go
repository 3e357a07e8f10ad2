package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func validConfig() Config {
	return Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Simulation: SimulationConfig{
			TickRate:   60,
			MaxCatchUp: 5,
		},
		Content: ContentConfig{
			WeaponsDir:    "content/weapons",
			DispensersDir: "content/dispensers",
			ScriptsDir:    "content/scripts/dispensers",
		},
		Scripting: ScriptingConfig{
			InstructionLimit: 100_000,
		},
		Console: ConsoleConfig{
			Stdin:        true,
			TelnetHost:   "127.0.0.1",
			WriteTimeout: 5 * time.Second,
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestSimulationStep(t *testing.T) {
	cfg := validConfig()
	cfg.Simulation.TickRate = 50
	assert.Equal(t, 20*time.Millisecond, cfg.Simulation.Step())
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
logging:
  level: debug
  format: console
simulation:
  tick_rate: 30
content:
  weapons_dir: /tmp/weapons
  dispensers_dir: /tmp/dispensers
`), 0644)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 30, cfg.Simulation.TickRate)
	assert.Equal(t, 5, cfg.Simulation.MaxCatchUp, "default must fill unset keys")
	assert.Equal(t, "/tmp/weapons", cfg.Content.WeaponsDir)
	assert.Equal(t, "content/scripts/dispensers", cfg.Content.ScriptsDir)
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: info\n"), 0644))
	t.Setenv("ARSENAL_SIMULATION_TICK_RATE", "120")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 120, cfg.Simulation.TickRate)
}

func TestLoadInvalidPath(t *testing.T) {
	_, err := Load("/nonexistent/path.yaml")
	assert.Error(t, err)
}

func TestDefaultsAreValid(t *testing.T) {
	cfg, err := LoadFromViper(Defaults())
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.Simulation.TickRate)
	assert.Equal(t, "content/weapons", cfg.Content.WeaponsDir)
}

func TestValidateLoggingLevel(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		cfg := validConfig()
		cfg.Logging.Level = level
		assert.NoError(t, cfg.Validate(), "level %q should be valid", level)
	}
	cfg := validConfig()
	cfg.Logging.Level = "trace"
	assert.Error(t, cfg.Validate())
}

func TestValidateLoggingFormat(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		cfg := validConfig()
		cfg.Logging.Format = format
		assert.NoError(t, cfg.Validate(), "format %q should be valid", format)
	}
	cfg := validConfig()
	cfg.Logging.Format = "xml"
	assert.Error(t, cfg.Validate())
}

func TestValidateContentDirs(t *testing.T) {
	cfg := validConfig()
	cfg.Content.WeaponsDir = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Content.DispensersDir = ""
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Content.ScriptsDir = ""
	assert.NoError(t, cfg.Validate(), "scripts_dir is optional")
}

func TestValidateConsole(t *testing.T) {
	cfg := validConfig()
	cfg.Console.Stdin = false
	assert.Error(t, cfg.Validate(), "no console at all")

	cfg.Console.TelnetPort = 4100
	assert.NoError(t, cfg.Validate())
	assert.True(t, cfg.Console.TelnetEnabled())
	assert.Equal(t, "127.0.0.1:4100", cfg.Console.TelnetAddr())

	cfg = validConfig()
	cfg.Console.TelnetPort = 70000
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Console.ReadTimeout = -time.Second
	assert.Error(t, cfg.Validate())
}

func TestLoadConsoleDurations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
console:
  telnet_port: 4100
  read_timeout: 10m
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.True(t, cfg.Console.Stdin)
	assert.Equal(t, 10*time.Minute, cfg.Console.ReadTimeout)
	assert.Equal(t, 5*time.Second, cfg.Console.WriteTimeout)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "loud"
	cfg.Simulation.MaxCatchUp = 0
	cfg.Scripting.InstructionLimit = -1

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
	assert.Contains(t, err.Error(), "simulation.max_catch_up")
	assert.Contains(t, err.Error(), "scripting.instruction_limit")
}

// Property-based tests

func TestPropertyValidTickRate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rate := rapid.IntRange(1, 1000).Draw(t, "tick_rate")
		cfg := validConfig()
		cfg.Simulation.TickRate = rate
		if err := cfg.Validate(); err != nil {
			t.Fatalf("valid tick rate %d rejected: %v", rate, err)
		}
		if cfg.Simulation.Step() <= 0 {
			t.Fatalf("tick rate %d produced non-positive step", rate)
		}
	})
}

func TestPropertyInvalidTickRate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		rate := rapid.OneOf(
			rapid.IntRange(-1000, 0),
			rapid.IntRange(1001, 100000),
		).Draw(t, "tick_rate")
		cfg := validConfig()
		cfg.Simulation.TickRate = rate
		if err := cfg.Validate(); err == nil {
			t.Fatalf("invalid tick rate %d accepted", rate)
		}
	})
}
