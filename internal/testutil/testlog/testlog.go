package testlog

import (
	"os"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

var configureOnce sync.Once

// Start puts the global logger in test shape: debug level, console
// output, no timestamps. Safe to call from every test.
func Start(t *testing.T) {
	t.Helper()
	configureOnce.Do(func() {
		output := zerolog.ConsoleWriter{Out: os.Stdout, NoColor: true}
		log.Logger = zerolog.New(output).Level(zerolog.DebugLevel).With().Logger()
	})
	log.Debug().Str("test", t.Name()).Msg("start")
}
