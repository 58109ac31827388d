package hardhat

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/NilFoundation/solbuild/common/logging"
	"github.com/stretchr/testify/require"
)

func TestFlattenCapturesStdout(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a.sol")
	require.NoError(t, os.WriteFile(path, []byte("contract A {}\n"), 0o644))

	// `cat <path>` stands in for the flattener: output equals the input file.
	f := New(logging.Nop(), WithCommand([]string{"cat"}))
	out, err := f.Flatten(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, "contract A {}\n", string(out))
}

func TestFlattenNonZeroExit(t *testing.T) {
	t.Parallel()

	f := New(logging.Nop(), WithCommand([]string{"false"}))
	_, err := f.Flatten(context.Background(), "whatever.sol")
	require.Error(t, err)
	require.Contains(t, err.Error(), "false")
}

func TestFlattenTimeout(t *testing.T) {
	t.Parallel()

	// The contract path is appended as the last argument; route it to $1 so
	// GNU sleep does not reject it as an invalid interval.
	f := New(logging.Nop(), WithCommand([]string{"sh", "-c", "sleep 10", "sh"}), WithTimeout(50*time.Millisecond))
	_, err := f.Flatten(context.Background(), "whatever.sol")
	require.Error(t, err)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestFlattenRetriesEventuallyFails(t *testing.T) {
	t.Parallel()

	f := New(logging.Nop(), WithCommand([]string{"false"}), WithRetries(2))
	start := time.Now()
	_, err := f.Flatten(context.Background(), "whatever.sol")
	require.Error(t, err)
	// one retry delay of ~1s between the two attempts
	require.GreaterOrEqual(t, time.Since(start), retryBaseDelay)
}

func TestCommandAppendsPath(t *testing.T) {
	t.Parallel()

	f := New(logging.Nop())
	require.Equal(t, []string{"npx", "hardhat", "flatten", "a.sol"}, f.Command("a.sol"))
}
