package main

import (
	"os"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bootctl/internal/boot"
	"github.com/danmuck/bootctl/internal/inspect"
	"github.com/danmuck/bootctl/internal/kernel/hostkernel"
	"github.com/danmuck/bootctl/internal/observability"
)

func main() {
	observability.InitLogger("bootctl")

	configPath := os.Getenv(EnvConfigPath)
	if configPath == "" {
		configPath = "cmd/bootctl/config.toml"
	}
	cfg, err := loadDemoConfig(configPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load boot config")
	}
	log.Info().Str("path", configPath).Msg("loaded boot config")

	observability.RegisterMetrics()
	sched := hostkernel.NewWithConfig(hostkernel.Config{MaxThreads: cfg.Boot.MaxThreads})

	if cfg.Boot.AdminAddr != "" {
		admin := inspect.NewServer("bootctl", sched, cfg.Boot.CorsOrigins)
		go func() {
			if err := admin.Serve(cfg.Boot.AdminAddr); err != nil {
				log.Error().Err(err).Msg("admin surface stopped")
			}
		}()
	}

	b := boot.NewWithConfig(
		boot.Config{
			ThreadName:     cfg.Boot.ThreadName,
			MainStackBytes: cfg.Boot.MainStackBytes,
		},
		payloadEntry(cfg.Payload),
		sched,
		hostkernel.ProcessExiter{},
	)

	// Either the payload ends the process through the termination
	// primitive, or Main comes back after the join; both are fine.
	os.Exit(b.Main(len(os.Args), os.Args))
}

// payloadEntry builds the demo program body. A real integrator supplies
// its own EntryFunc here and ignores the payload config entirely.
func payloadEntry(cfg payloadConfig) boot.EntryFunc {
	return func(argc int, argv []string) int {
		log.Info().
			Int("argc", argc).
			Strs("argv", argv).
			Msg("payload running on kernel main thread")
		if cfg.RunFor > 0 {
			time.Sleep(cfg.RunFor)
		}
		return cfg.ExitStatus
	}
}
