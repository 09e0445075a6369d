package hostkernel

import (
	"os"

	"github.com/danmuck/bootctl/internal/kernel"
)

// ProcessExiter terminates the hosting process via os.Exit. Deferred
// functions and other goroutines do not get a say; that matches the
// termination primitive's contract.
type ProcessExiter struct{}

func (ProcessExiter) Exit(code int) {
	os.Exit(code)
}

var _ kernel.Exiter = ProcessExiter{}
