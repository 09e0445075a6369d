package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/danmuck/bootctl/internal/kernel"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadBootConfigDefaults(t *testing.T) {
	path := writeConfig(t, "")
	cfg, err := LoadBootConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ThreadName != "main" {
		t.Fatalf("unexpected thread name: %q", cfg.ThreadName)
	}
	if cfg.MainStackBytes != kernel.DefaultMainStackBytes {
		t.Fatalf("unexpected stack bytes: %d", cfg.MainStackBytes)
	}
	if cfg.MaxThreads != 16 {
		t.Fatalf("unexpected max threads: %d", cfg.MaxThreads)
	}
	if cfg.AdminAddr != "" {
		t.Fatalf("unexpected admin addr: %q", cfg.AdminAddr)
	}
}

func TestLoadBootConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
thread_name = "boot-main"
main_stack_bytes = 32768
max_threads = 4
admin_addr = "127.0.0.1:7031"
cors_origins = ["http://localhost:3000"]
`)
	cfg, err := LoadBootConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.ThreadName != "boot-main" {
		t.Fatalf("unexpected thread name: %q", cfg.ThreadName)
	}
	if cfg.MainStackBytes != 32768 {
		t.Fatalf("unexpected stack bytes: %d", cfg.MainStackBytes)
	}
	if cfg.MaxThreads != 4 {
		t.Fatalf("unexpected max threads: %d", cfg.MaxThreads)
	}
	if cfg.AdminAddr != "127.0.0.1:7031" {
		t.Fatalf("unexpected admin addr: %q", cfg.AdminAddr)
	}
	if len(cfg.CorsOrigins) != 1 || cfg.CorsOrigins[0] != "http://localhost:3000" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CorsOrigins)
	}
}

func TestExplicitZeroStackSurvivesLoading(t *testing.T) {
	path := writeConfig(t, "main_stack_bytes = 0\n")
	cfg, err := LoadBootConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.MainStackBytes != 0 {
		t.Fatalf("explicit zero stack papered over: %d", cfg.MainStackBytes)
	}
}

func TestLoadBootConfigRejectsNegativeStack(t *testing.T) {
	path := writeConfig(t, "main_stack_bytes = -1\n")
	if _, err := LoadBootConfig(path); err == nil {
		t.Fatalf("expected error for negative stack size")
	}
}

func TestLoadBootConfigRejectsZeroMaxThreads(t *testing.T) {
	path := writeConfig(t, "max_threads = 0\n")
	if _, err := LoadBootConfig(path); err == nil {
		t.Fatalf("expected error for zero max_threads")
	}
}

func TestLoadBootConfigMissingFile(t *testing.T) {
	if _, err := LoadBootConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}
