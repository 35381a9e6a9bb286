package main

import (
	"github.com/BurntSushi/toml"

	"github.com/ezrec/toast/emulator"
)

// Config is the optional TOML configuration of the tool.
type Config struct {
	Memory    uint              `toml:"memory"`    // Memory size in bytes, 0 for the default.
	MaxSteps  int               `toml:"max_steps"` // Step budget, 0 or less is unbounded.
	Strict    bool              `toml:"strict"`
	LiExact   bool              `toml:"li_exact"`
	Verbose   bool              `toml:"verbose"`
	Predefine map[string]string `toml:"predefine"` // Extra assembler equates.
}

// DefaultConfig returns the configuration used without a config file.
func DefaultConfig() Config {
	return Config{
		MaxSteps: emulator.MAX_STEPS,
	}
}

// LoadConfig reads a TOML config file on top of the defaults.
func LoadConfig(name string) (cfg Config, err error) {
	cfg = DefaultConfig()

	md, err := toml.DecodeFile(name, &cfg)
	if err != nil {
		return
	}

	if undecoded := md.Undecoded(); len(undecoded) != 0 {
		err = ErrConfigKey(undecoded[0].String())
		return
	}

	return
}

// Emulator creates an emulator configured by cfg.
func (cfg *Config) Emulator() (emu *emulator.Emulator) {
	emu = emulator.NewEmulator(cfg.Memory)
	emu.Verbose = cfg.Verbose
	emu.MaxSteps = cfg.MaxSteps
	emu.Assembler.Strict = cfg.Strict
	emu.Assembler.LiExact = cfg.LiExact
	for k, v := range cfg.Predefine {
		emu.Assembler.Predefine(k, v)
	}

	return
}
