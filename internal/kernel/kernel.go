// Package kernel declares the collaborator contracts the bootstrap path
// depends on: a scheduler that creates and dispatches threads, opaque
// thread handles, and a process-termination primitive. Implementations
// live elsewhere (hostkernel for development hosts); nothing in this
// package schedules anything itself.
package kernel

import "errors"

// DefaultMainStackBytes sizes the main thread's execution stack when no
// configuration overrides it.
const DefaultMainStackBytes = 64 * 1024

var (
	ErrNotInitialized = errors.New("kernel: scheduler not initialized")
	ErrAlreadyStarted = errors.New("kernel: scheduler already started")
	ErrZeroStack      = errors.New("kernel: zero-size thread stack")
	ErrDuplicateName  = errors.New("kernel: duplicate thread name")
	ErrTableExhausted = errors.New("kernel: thread table exhausted")
)

// ThreadFunc is the fixed thread-body signature the scheduler dispatches.
// The single opaque argument carries whatever context the creator packed
// for the body; the scheduler never inspects it.
type ThreadFunc func(arg any)

// Attributes describe a thread to create. The stack region is caller-owned
// and must stay live for the whole lifetime of the created thread; the
// scheduler accounts it verbatim, so base and length must reference the
// real buffer exactly.
type Attributes struct {
	Name  string
	Stack []byte
}

// Thread is an opaque handle to one kernel-scheduled execution context.
type Thread interface {
	Name() string
	// Join blocks until the thread body returns. There is no timeout;
	// an unbounded wait is the intended contract at a process-lifetime
	// boundary.
	Join() error
}

// StartOutcome reports how Start resolved. A scheduler that permanently
// takes over the calling context never returns from Start at all;
// StartRunsForever exists so test doubles can model that contract
// without blocking, and callers must handle both values without
// assuming either.
type StartOutcome int

const (
	StartRunsForever StartOutcome = iota
	StartReturnsControl
)

// Scheduler is the kernel-side contract the bootstrap drives. Initialize
// must complete before any Create; Create must precede Start. Failures
// at Create are fatal configuration errors by contract: callers do not
// retry.
type Scheduler interface {
	Initialize() error
	Create(attr Attributes, body ThreadFunc, arg any) (Thread, error)
	Start() StartOutcome
}

// Exiter ends the hosting process or environment with the given status.
// Implementations do not return; the interface exists so tests can
// observe the status instead of dying.
type Exiter interface {
	Exit(code int)
}
