// Package hostkernel is a host-simulated implementation of the kernel
// collaborator contracts. Threads are backed by goroutines, stacks are
// accounted but not consumed, and Start hands control back to the
// caller the way synthetic POSIX targets do. It exists so the bootstrap
// path is runnable and testable on a development host.
package hostkernel

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/danmuck/bootctl/internal/kernel"
	"github.com/danmuck/bootctl/internal/observability"
)

// ThreadState tracks a thread through the table.
type ThreadState string

const (
	StateReady   ThreadState = "ready"
	StateRunning ThreadState = "running"
	StateDone    ThreadState = "done"
)

type Config struct {
	MaxThreads int
}

func DefaultConfig() Config {
	return Config{MaxThreads: 16}
}

type thread struct {
	name       string
	body       kernel.ThreadFunc
	arg        any
	stackBytes int

	state ThreadState // guarded by sched.mu
	done  chan struct{}
}

func (t *thread) Name() string {
	return t.name
}

func (t *thread) Join() error {
	<-t.done
	return nil
}

// ThreadStatus is a point-in-time view of one table entry, shaped for
// the admin surface.
type ThreadStatus struct {
	Name       string      `json:"name"`
	State      ThreadState `json:"state"`
	StackBytes int         `json:"stack_bytes"`
}

// Scheduler keeps a named thread table and dispatches every created
// thread when Start is called. Creation is only legal between
// Initialize and Start; anything else is a fatal configuration error
// surfaced to the caller.
type Scheduler struct {
	cfg Config

	mu          sync.Mutex
	initialized bool
	started     bool
	table       map[string]*thread
	order       []*thread
}

func New() *Scheduler {
	return NewWithConfig(DefaultConfig())
}

func NewWithConfig(cfg Config) *Scheduler {
	if cfg.MaxThreads <= 0 {
		cfg.MaxThreads = DefaultConfig().MaxThreads
	}
	return &Scheduler{cfg: cfg}
}

func (s *Scheduler) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.initialized {
		return nil
	}
	s.table = make(map[string]*thread, s.cfg.MaxThreads)
	s.initialized = true
	log.Debug().Int("max_threads", s.cfg.MaxThreads).Msg("scheduler initialized")
	return nil
}

func (s *Scheduler) Create(attr kernel.Attributes, body kernel.ThreadFunc, arg any) (kernel.Thread, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.admit(attr, body); err != nil {
		observability.RecordThreadCreateFailure(attr.Name)
		return nil, err
	}

	t := &thread{
		name:       attr.Name,
		body:       body,
		arg:        arg,
		stackBytes: len(attr.Stack),
		state:      StateReady,
		done:       make(chan struct{}),
	}
	s.table[t.name] = t
	s.order = append(s.order, t)

	observability.RecordThreadCreated(t.name, t.stackBytes)
	log.Debug().Str("thread", t.name).Int("stack_bytes", t.stackBytes).Msg("thread created")
	return t, nil
}

func (s *Scheduler) admit(attr kernel.Attributes, body kernel.ThreadFunc) error {
	if !s.initialized {
		return fmt.Errorf("create %q: %w", attr.Name, kernel.ErrNotInitialized)
	}
	if s.started {
		return fmt.Errorf("create %q: %w", attr.Name, kernel.ErrAlreadyStarted)
	}
	if body == nil {
		return fmt.Errorf("create %q: nil thread body", attr.Name)
	}
	if len(attr.Stack) == 0 {
		return fmt.Errorf("create %q: %w", attr.Name, kernel.ErrZeroStack)
	}
	if _, exists := s.table[attr.Name]; exists {
		return fmt.Errorf("create %q: %w", attr.Name, kernel.ErrDuplicateName)
	}
	if len(s.order) >= s.cfg.MaxThreads {
		return fmt.Errorf("create %q: %w", attr.Name, kernel.ErrTableExhausted)
	}
	return nil
}

// Start dispatches every thread in creation order and returns control to
// the caller. A real embedded scheduler would never come back from here;
// on a host it always does, which is exactly the StartReturnsControl leg
// of the contract.
func (s *Scheduler) Start() kernel.StartOutcome {
	s.mu.Lock()
	if !s.initialized || s.started {
		s.mu.Unlock()
		return kernel.StartReturnsControl
	}
	s.started = true
	ready := append([]*thread(nil), s.order...)
	s.mu.Unlock()

	log.Debug().Int("threads", len(ready)).Msg("scheduler start")
	for _, t := range ready {
		go s.dispatch(t)
	}
	return kernel.StartReturnsControl
}

func (s *Scheduler) dispatch(t *thread) {
	s.setState(t, StateRunning)
	observability.RecordThreadStart(t.name)
	began := time.Now()

	defer func() {
		s.setState(t, StateDone)
		observability.RecordThreadExit(t.name, time.Since(began))
		close(t.done)
	}()

	t.body(t.arg)
}

func (s *Scheduler) setState(t *thread, state ThreadState) {
	s.mu.Lock()
	t.state = state
	s.mu.Unlock()
}

// Snapshot returns the thread table in creation order.
func (s *Scheduler) Snapshot() []ThreadStatus {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]ThreadStatus, 0, len(s.order))
	for _, t := range s.order {
		out = append(out, ThreadStatus{Name: t.name, State: t.state, StackBytes: t.stackBytes})
	}
	return out
}

// Lookup returns the status of one named thread.
func (s *Scheduler) Lookup(name string) (ThreadStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.table[name]
	if !ok {
		return ThreadStatus{}, false
	}
	return ThreadStatus{Name: t.name, State: t.state, StackBytes: t.stackBytes}, true
}

var _ kernel.Scheduler = (*Scheduler)(nil)
