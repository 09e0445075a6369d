package config

import (
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/danmuck/bootctl/internal/kernel"
)

type BootConfig struct {
	ThreadName     string
	MainStackBytes int
	MaxThreads     int
	AdminAddr      string
	CorsOrigins    []string
}

func DefaultBootConfig() BootConfig {
	return BootConfig{
		ThreadName:     "main",
		MainStackBytes: kernel.DefaultMainStackBytes,
		MaxThreads:     16,
	}
}

type fileConfig struct {
	ThreadName     string   `toml:"thread_name"`
	MainStackBytes int      `toml:"main_stack_bytes"`
	MaxThreads     int      `toml:"max_threads"`
	AdminAddr      string   `toml:"admin_addr"`
	CorsOrigins    []string `toml:"cors_origins"`
}

func LoadBootConfig(path string) (BootConfig, error) {
	cfg := DefaultBootConfig()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return BootConfig{}, fmt.Errorf("boot config load failed (%s): %w", path, err)
	}

	if meta.IsDefined("thread_name") && strings.TrimSpace(raw.ThreadName) != "" {
		cfg.ThreadName = strings.TrimSpace(raw.ThreadName)
	}
	// An explicit zero stays zero; the scheduler rejects it at creation
	// instead of the loader papering over it with the default.
	if meta.IsDefined("main_stack_bytes") {
		cfg.MainStackBytes = raw.MainStackBytes
	}
	if meta.IsDefined("max_threads") {
		cfg.MaxThreads = raw.MaxThreads
	}
	if meta.IsDefined("admin_addr") {
		cfg.AdminAddr = strings.TrimSpace(raw.AdminAddr)
	}
	if meta.IsDefined("cors_origins") {
		cfg.CorsOrigins = raw.CorsOrigins
	}

	if err := ValidateBootConfig(cfg); err != nil {
		return BootConfig{}, err
	}
	return cfg, nil
}

func ValidateBootConfig(cfg BootConfig) error {
	if strings.TrimSpace(cfg.ThreadName) == "" {
		return fmt.Errorf("boot config missing thread name")
	}
	if cfg.MainStackBytes < 0 {
		return fmt.Errorf("boot config main_stack_bytes must not be negative")
	}
	if cfg.MaxThreads <= 0 {
		return fmt.Errorf("boot config max_threads must be positive")
	}
	return nil
}
