package hardhat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"time"

	"github.com/NilFoundation/solbuild/common"
	"github.com/NilFoundation/solbuild/common/logging"
)

const (
	// DefaultTimeout bounds a single flattener invocation. Hardhat spawning a
	// node process can hang on a broken project setup; the bound turns that
	// into a per-file failure instead of a stuck run.
	DefaultTimeout = 2 * time.Minute

	retryBaseDelay = time.Second
	retryMaxDelay  = 10 * time.Second
)

// DefaultCommand is the external flattening tool. The contract path is
// appended as the last argument.
var DefaultCommand = []string{"npx", "hardhat", "flatten"}

// Flattener invokes the external contract-flattening tool, one contract per
// call, capturing its standard output as the flattened source.
type Flattener struct {
	command []string
	timeout time.Duration
	retries uint32
	logger  logging.Logger
}

type Option func(*Flattener)

// WithCommand overrides the flattening command line.
func WithCommand(command []string) Option {
	return func(f *Flattener) {
		if len(command) > 0 {
			f.command = command
		}
	}
}

// WithTimeout overrides the per-invocation timeout. Zero disables it.
func WithTimeout(timeout time.Duration) Option {
	return func(f *Flattener) {
		f.timeout = timeout
	}
}

// WithRetries enables retrying of failed invocations up to the given number
// of attempts in total.
func WithRetries(retries uint32) Option {
	return func(f *Flattener) {
		f.retries = retries
	}
}

func New(logger logging.Logger, options ...Option) *Flattener {
	f := &Flattener{
		command: DefaultCommand,
		timeout: DefaultTimeout,
		logger:  logger,
	}
	for _, o := range options {
		o(f)
	}
	return f
}

// Command returns the command line used for path, for diagnostics.
func (f *Flattener) Command(path string) []string {
	return append(append([]string{}, f.command...), path)
}

// Flatten runs the tool for the given contract and returns its standard
// output. A non-zero exit status, a timeout or a missing tool all come back
// as an error carrying the tool's stderr; the caller decides whether the run
// continues.
func (f *Flattener) Flatten(ctx context.Context, path string) ([]byte, error) {
	if f.retries == 0 {
		return f.flattenOnce(ctx, path)
	}

	runner := common.NewRetryRunner(common.RetryConfig{
		ShouldRetry: common.LimitRetries(f.retries),
		NextDelay:   common.DelayExponential(retryBaseDelay, retryMaxDelay),
	}, f.logger)

	var output []byte
	err := runner.Do(ctx, func(ctx context.Context) error {
		var err error
		output, err = f.flattenOnce(ctx, path)
		return err
	})
	return output, err
}

func (f *Flattener) flattenOnce(ctx context.Context, path string) ([]byte, error) {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	args := f.Command(path)
	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf

	output, err := cmd.Output()
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("flattening of %s aborted: %w", path, ctxErr)
		}
		return nil, fmt.Errorf("failed to execute `%s`: %w.\n%s", cmd, err, stderrBuf.String())
	}
	return output, nil
}
