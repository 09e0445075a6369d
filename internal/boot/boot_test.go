package boot

import (
	"errors"
	"testing"
	"time"

	"github.com/danmuck/bootctl/internal/kernel"
	"github.com/danmuck/bootctl/internal/testutil/testlog"
)

// fakeThread completes as soon as the scheduler has run its body.
type fakeThread struct {
	name    string
	joinErr error
	joined  bool
}

func (t *fakeThread) Name() string { return t.name }

func (t *fakeThread) Join() error {
	t.joined = true
	return t.joinErr
}

// fakeScheduler records the call sequence and runs the created body
// inline when Start is called, then hands control back.
type fakeScheduler struct {
	calls []string

	createdAttr kernel.Attributes
	createdArg  any
	body        kernel.ThreadFunc

	createErr error
	joinErr   error
	thread    *fakeThread
}

func (s *fakeScheduler) Initialize() error {
	s.calls = append(s.calls, "initialize")
	return nil
}

func (s *fakeScheduler) Create(attr kernel.Attributes, body kernel.ThreadFunc, arg any) (kernel.Thread, error) {
	s.calls = append(s.calls, "create")
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.createdAttr = attr
	s.createdArg = arg
	s.body = body
	s.thread = &fakeThread{name: attr.Name, joinErr: s.joinErr}
	return s.thread, nil
}

func (s *fakeScheduler) Start() kernel.StartOutcome {
	s.calls = append(s.calls, "start")
	s.body(s.createdArg)
	return kernel.StartReturnsControl
}

// recordingExiter observes the termination request without dying.
type recordingExiter struct {
	called bool
	code   int
}

func (e *recordingExiter) Exit(code int) {
	e.called = true
	e.code = code
}

func TestMainPassesArgsThroughVerbatim(t *testing.T) {
	testlog.Start(t)

	argv := []string{"prog", "-x", "42"}
	var gotArgc int
	var gotArgv []string
	entry := func(argc int, args []string) int {
		gotArgc = argc
		gotArgv = args
		return 0
	}

	sched := &fakeScheduler{}
	exit := &recordingExiter{}
	b := New(entry, sched, exit)
	if status := b.Main(len(argv), argv); status != 0 {
		t.Fatalf("main status: %d", status)
	}
	if gotArgc != 3 {
		t.Fatalf("argc mutated in transit: %d", gotArgc)
	}
	if len(gotArgv) != 3 || &gotArgv[0] != &argv[0] {
		t.Fatalf("argv copied or mutated in transit: %v", gotArgv)
	}
}

func TestExitStatusCarriedVerbatim(t *testing.T) {
	testlog.Start(t)

	for _, status := range []int{0, 7, -3, 255, -2147483648} {
		entry := func(int, []string) int { return status }
		sched := &fakeScheduler{}
		exit := &recordingExiter{}
		b := New(entry, sched, exit)
		b.Main(1, []string{"prog"})
		if !exit.called {
			t.Fatalf("status %d: termination never requested", status)
		}
		if exit.code != status {
			t.Fatalf("status %d: exit carried %d", status, exit.code)
		}
	}
}

func TestBootstrapOrdering(t *testing.T) {
	testlog.Start(t)

	sched := &fakeScheduler{}
	b := New(func(int, []string) int { return 0 }, sched, &recordingExiter{})
	b.Main(1, []string{"prog"})

	want := []string{"initialize", "create", "start"}
	if len(sched.calls) != len(want) {
		t.Fatalf("unexpected call sequence: %v", sched.calls)
	}
	for i, call := range want {
		if sched.calls[i] != call {
			t.Fatalf("call %d: got %q want %q (sequence %v)", i, sched.calls[i], call, sched.calls)
		}
	}
}

func TestAttributesReferenceStackBufferExactly(t *testing.T) {
	testlog.Start(t)

	sched := &fakeScheduler{}
	cfg := Config{ThreadName: "main", MainStackBytes: 4096}
	b := NewWithConfig(cfg, func(int, []string) int { return 0 }, sched, &recordingExiter{})
	b.Main(1, []string{"prog"})

	if sched.createdAttr.Name != "main" {
		t.Fatalf("thread name: %q", sched.createdAttr.Name)
	}
	if len(sched.createdAttr.Stack) != 4096 {
		t.Fatalf("stack size installed: %d", len(sched.createdAttr.Stack))
	}
	if &sched.createdAttr.Stack[0] != &b.stack[0] {
		t.Fatalf("attributes alias a different buffer")
	}
}

func TestCreateFailureIsFatalAndStartNeverRuns(t *testing.T) {
	testlog.Start(t)

	sched := &fakeScheduler{createErr: kernel.ErrTableExhausted}
	exit := &recordingExiter{}
	b := New(func(int, []string) int { return 0 }, sched, exit)
	if status := b.Main(1, []string{"prog"}); status == 0 {
		t.Fatalf("create failure reported success")
	}
	if exit.called {
		t.Fatalf("termination requested after failed create")
	}
	for _, call := range sched.calls {
		if call == "start" {
			t.Fatalf("scheduler started after failed create")
		}
	}
}

func TestJoinFailurePropagatesNonZero(t *testing.T) {
	testlog.Start(t)

	sched := &fakeScheduler{joinErr: errors.New("wait interrupted")}
	b := New(func(int, []string) int { return 0 }, sched, &recordingExiter{})
	if status := b.Main(1, []string{"prog"}); status == 0 {
		t.Fatalf("join failure reported success")
	}
}

// foreverScheduler models the embedded contract: Start never hands
// control back.
type foreverScheduler struct {
	fakeScheduler
	release chan struct{}
}

func (s *foreverScheduler) Start() kernel.StartOutcome {
	<-s.release
	return kernel.StartRunsForever
}

func TestStartNeverReturningLeavesSynchronizerUnreached(t *testing.T) {
	testlog.Start(t)

	sched := &foreverScheduler{release: make(chan struct{})}
	b := New(func(int, []string) int { return 0 }, sched, &recordingExiter{})

	done := make(chan int, 1)
	go func() {
		done <- b.Main(1, []string{"prog"})
	}()

	select {
	case status := <-done:
		t.Fatalf("main returned %d past a non-returning start", status)
	case <-time.After(100 * time.Millisecond):
	}

	// Release the double so the goroutine can wind down; the variant it
	// returns must skip the join entirely.
	close(sched.release)
	if status := <-done; status != 0 {
		t.Fatalf("runs-forever variant status: %d", status)
	}
	if sched.thread.joined {
		t.Fatalf("join attempted on runs-forever variant")
	}
}
