package main

import (
	"fmt"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/bootctl/internal/config"
)

const EnvConfigPath = "BOOTCTL_CONFIG"

type demoConfig struct {
	Boot    config.BootConfig
	Payload payloadConfig
}

type payloadConfig struct {
	RunFor     time.Duration
	ExitStatus int
}

type payloadFileConfig struct {
	Payload struct {
		RunFor     string `toml:"run_for"`
		ExitStatus int    `toml:"exit_status"`
	} `toml:"payload"`
}

// loadDemoConfig reads one TOML file: the boot keys go through the
// shared loader, the [payload] table is demo-only and parsed here.
func loadDemoConfig(path string) (demoConfig, error) {
	bootCfg, err := config.LoadBootConfig(path)
	if err != nil {
		return demoConfig{}, err
	}

	var raw payloadFileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return demoConfig{}, fmt.Errorf("payload config load failed (%s): %w", path, err)
	}

	cfg := demoConfig{Boot: bootCfg}
	if meta.IsDefined("payload", "run_for") {
		d, err := time.ParseDuration(raw.Payload.RunFor)
		if err != nil {
			return demoConfig{}, fmt.Errorf("payload run_for invalid: %w", err)
		}
		if d < 0 {
			return demoConfig{}, fmt.Errorf("payload run_for must not be negative")
		}
		cfg.Payload.RunFor = d
	}
	if meta.IsDefined("payload", "exit_status") {
		cfg.Payload.ExitStatus = raw.Payload.ExitStatus
	}
	return cfg, nil
}
