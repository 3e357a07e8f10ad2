// Package config provides Viper-based configuration loading for the arsenal runner.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", "error".
	Level string `mapstructure:"level"`
	// Format is the log output format: "json" or "console".
	Format string `mapstructure:"format"`
}

// SimulationConfig holds fixed-step simulation settings.
type SimulationConfig struct {
	// TickRate is the number of simulation steps per wall-clock second.
	TickRate int `mapstructure:"tick_rate"`
	// MaxCatchUp caps how many steps the loop runs for a single wall-clock
	// tick when it falls behind.
	MaxCatchUp int `mapstructure:"max_catch_up"`
}

// Step returns the simulated duration of one tick.
//
// Precondition: TickRate > 0.
// Postcondition: Returns time.Second / TickRate.
func (s SimulationConfig) Step() time.Duration {
	return time.Second / time.Duration(s.TickRate)
}

// ContentConfig holds the locations of YAML and Lua content.
type ContentConfig struct {
	// WeaponsDir is the directory of weapon profile YAML files.
	WeaponsDir string `mapstructure:"weapons_dir"`
	// DispensersDir is the directory of dispenser (chest) YAML files.
	DispensersDir string `mapstructure:"dispensers_dir"`
	// ScriptsDir is the directory of dispenser Lua scripts; empty disables scripting.
	ScriptsDir string `mapstructure:"scripts_dir"`
}

// ScriptingConfig holds Lua sandbox settings.
type ScriptingConfig struct {
	// InstructionLimit is the per-call opcode budget; 0 uses the sandbox default.
	InstructionLimit int `mapstructure:"instruction_limit"`
}

// ConsoleConfig holds the text console settings.
type ConsoleConfig struct {
	// Stdin enables the console on standard input and output.
	Stdin bool `mapstructure:"stdin"`
	// Color enables ANSI styling of console output.
	Color bool `mapstructure:"color"`
	// TelnetHost is the bind address of the optional telnet console.
	TelnetHost string `mapstructure:"telnet_host"`
	// TelnetPort is the TCP port of the telnet console; 0 disables it.
	TelnetPort int `mapstructure:"telnet_port"`
	// ReadTimeout is the per-read timeout for telnet connections; 0 waits forever.
	ReadTimeout time.Duration `mapstructure:"read_timeout"`
	// WriteTimeout is the per-write timeout for telnet connections.
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// TelnetEnabled reports whether the telnet console should listen.
func (c ConsoleConfig) TelnetEnabled() bool {
	return c.TelnetPort != 0
}

// TelnetAddr returns the "host:port" listen address.
//
// Postcondition: Returns a non-empty string in "host:port" format.
func (c ConsoleConfig) TelnetAddr() string {
	return fmt.Sprintf("%s:%d", c.TelnetHost, c.TelnetPort)
}

// Config is the top-level application configuration.
type Config struct {
	Logging    LoggingConfig    `mapstructure:"logging"`
	Simulation SimulationConfig `mapstructure:"simulation"`
	Content    ContentConfig    `mapstructure:"content"`
	Scripting  ScriptingConfig  `mapstructure:"scripting"`
	Console    ConsoleConfig    `mapstructure:"console"`
}

// Validate checks all configuration invariants.
//
// Postcondition: Returns nil if configuration is valid, or an error describing all violations.
func (c Config) Validate() error {
	var errs []string

	if err := validateLogging(c.Logging); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateSimulation(c.Simulation); err != nil {
		errs = append(errs, err.Error())
	}
	if err := validateContent(c.Content); err != nil {
		errs = append(errs, err.Error())
	}
	if c.Scripting.InstructionLimit < 0 {
		errs = append(errs, fmt.Sprintf("scripting.instruction_limit must be >= 0, got %d", c.Scripting.InstructionLimit))
	}
	if err := validateConsole(c.Console); err != nil {
		errs = append(errs, err.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func validateLogging(l LoggingConfig) error {
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[l.Level] {
		return fmt.Errorf("logging.level must be one of [debug, info, warn, error], got %q", l.Level)
	}
	validFormats := map[string]bool{"json": true, "console": true}
	if !validFormats[l.Format] {
		return fmt.Errorf("logging.format must be one of [json, console], got %q", l.Format)
	}
	return nil
}

func validateSimulation(s SimulationConfig) error {
	var errs []string
	if s.TickRate < 1 || s.TickRate > 1000 {
		errs = append(errs, fmt.Sprintf("simulation.tick_rate must be 1-1000, got %d", s.TickRate))
	}
	if s.MaxCatchUp < 1 {
		errs = append(errs, fmt.Sprintf("simulation.max_catch_up must be >= 1, got %d", s.MaxCatchUp))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

func validateContent(c ContentConfig) error {
	var errs []string
	if c.WeaponsDir == "" {
		errs = append(errs, "content.weapons_dir must not be empty")
	}
	if c.DispensersDir == "" {
		errs = append(errs, "content.dispensers_dir must not be empty")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

func validateConsole(c ConsoleConfig) error {
	var errs []string
	if c.TelnetPort < 0 || c.TelnetPort > 65535 {
		errs = append(errs, fmt.Sprintf("console.telnet_port must be 0-65535, got %d", c.TelnetPort))
	}
	if c.ReadTimeout < 0 {
		errs = append(errs, "console.read_timeout must be >= 0")
	}
	if c.WriteTimeout < 0 {
		errs = append(errs, "console.write_timeout must be >= 0")
	}
	if !c.Stdin && !c.TelnetEnabled() {
		errs = append(errs, "console: at least one of stdin or telnet_port must be enabled")
	}
	if len(errs) > 0 {
		return errors.New(strings.Join(errs, "; "))
	}
	return nil
}

// Load reads configuration from the given file path, applies environment variable
// overrides, and validates the result.
//
// Precondition: path must be a valid file path to a YAML configuration file.
// Postcondition: Returns a valid Config or a non-nil error.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)

	// Environment variable overrides with ARSENAL_ prefix
	v.SetEnvPrefix("ARSENAL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("reading config file: %w", err)
	}
	return LoadFromViper(v)
}

// LoadFromViper builds a Config from an already-configured Viper instance.
//
// Precondition: v must be non-nil and have configuration values set.
// Postcondition: Returns a valid Config or a non-nil error.
func LoadFromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshalling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Defaults returns a Viper instance carrying only the built-in defaults.
//
// Postcondition: LoadFromViper(Defaults()) succeeds.
func Defaults() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("simulation.tick_rate", 60)
	v.SetDefault("simulation.max_catch_up", 5)

	v.SetDefault("content.weapons_dir", "content/weapons")
	v.SetDefault("content.dispensers_dir", "content/dispensers")
	v.SetDefault("content.scripts_dir", "content/scripts/dispensers")

	v.SetDefault("scripting.instruction_limit", 100_000)

	v.SetDefault("console.stdin", true)
	v.SetDefault("console.color", false)
	v.SetDefault("console.telnet_host", "127.0.0.1")
	v.SetDefault("console.telnet_port", 0)
	v.SetDefault("console.read_timeout", "0s")
	v.SetDefault("console.write_timeout", "5s")
}
