// Package boot turns a conventional process entry point into the
// kernel's single scheduled "main" thread and keeps the hosting process
// alive for that thread's lifetime. It owns the argument capsule, the
// main thread's execution stack and the thread handle for the whole
// process duration; the scheduler and the termination primitive are
// collaborators supplied by the integrator.
package boot

import (
	"runtime"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bootctl/internal/kernel"
)

// EntryFunc is the user program body run on the kernel main thread. The
// argument count and vector are passed through verbatim from whatever
// produced them; a body that never returns is a valid terminal state.
type EntryFunc func(argc int, argv []string) int

// Process is the whole-process entry point capability. Bootstrap is the
// default implementation; a deployment that needs custom startup wires
// its own Process in its cmd package and this default never runs.
type Process interface {
	Main(argc int, argv []string) int
}

// capsule packs the entry call for the kernel's single-opaque-argument
// thread body. Written exactly once before the main thread is created
// and read exactly once by the trampoline; it lives on the Bootstrap so
// the thread can never outlive it.
type capsule struct {
	entry EntryFunc
	argc  int
	argv  []string
}

type Config struct {
	ThreadName     string
	MainStackBytes int
}

func DefaultConfig() Config {
	return Config{
		ThreadName:     "main",
		MainStackBytes: kernel.DefaultMainStackBytes,
	}
}

// Bootstrap is the default Process. One instance exists per process and
// it is never torn down: capsule, stack buffer and thread handle stay
// reachable for as long as the main thread may observe them.
type Bootstrap struct {
	cfg   Config
	entry EntryFunc
	sched kernel.Scheduler
	exit  kernel.Exiter

	args  capsule
	stack []byte
	main  kernel.Thread
}

func New(entry EntryFunc, sched kernel.Scheduler, exit kernel.Exiter) *Bootstrap {
	return NewWithConfig(DefaultConfig(), entry, sched, exit)
}

func NewWithConfig(cfg Config, entry EntryFunc, sched kernel.Scheduler, exit kernel.Exiter) *Bootstrap {
	if cfg.ThreadName == "" {
		cfg.ThreadName = DefaultConfig().ThreadName
	}
	return &Bootstrap{cfg: cfg, entry: entry, sched: sched, exit: exit}
}

// trampoline matches kernel.ThreadFunc. It reinterprets the opaque
// argument as the capsule, invokes the user entry point with the stored
// count and vector, and turns the integer result into process
// termination. Panics out of the entry are the user program's problem.
func (b *Bootstrap) trampoline(arg any) {
	c := arg.(*capsule)
	b.exit.Exit(c.entry(c.argc, c.argv))
}

// Main is the bootstrap driver and lifetime synchronizer. Ordering is
// load-bearing: scheduler init, capsule population, stack reservation,
// thread creation, scheduler start, then (only on collaborators that
// hand control back) a join that holds the process open until the main
// thread finishes.
//
// There are two valid completions. On targets where the termination
// primitive halts the environment, the trampoline ends the process and
// the tail of Main is never observed. Otherwise Main returns 0 after
// the join. Callers must accept both.
func (b *Bootstrap) Main(argc int, argv []string) int {
	log.Info().
		Int("cpus", runtime.NumCPU()).
		Str("thread", b.cfg.ThreadName).
		Int("stack_bytes", b.cfg.MainStackBytes).
		Msg("bootstrap")

	if err := b.sched.Initialize(); err != nil {
		log.Error().Err(err).Msg("scheduler init failed")
		return 1
	}

	b.args = capsule{entry: b.entry, argc: argc, argv: argv}

	// An undersized or zero stack is deliberately passed through: the
	// scheduler owns that verdict and must never let it succeed
	// silently.
	if n := b.cfg.MainStackBytes; n > 0 {
		b.stack = make([]byte, n)
	}

	attr := kernel.Attributes{
		Name:  b.cfg.ThreadName,
		Stack: b.stack,
	}

	main, err := b.sched.Create(attr, b.trampoline, &b.args)
	if err != nil {
		log.Error().Err(err).Str("thread", attr.Name).Msg("main thread create failed")
		return 1
	}
	b.main = main

	if b.sched.Start() == kernel.StartReturnsControl {
		if err := b.main.Join(); err != nil {
			log.Error().Err(err).Str("thread", b.main.Name()).Msg("main thread join failed")
			return 1
		}
	}
	return 0
}

var _ Process = (*Bootstrap)(nil)
