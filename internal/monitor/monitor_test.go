package monitor

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fueltrace/fleetsim/internal/logging"
	"github.com/fueltrace/fleetsim/internal/sim"
)

func testDeps(t *testing.T) Dependencies {
	t.Helper()
	engine, err := sim.New(sim.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	require.NoError(t, err)

	return Dependencies{
		Engine:     engine,
		LogManager: logging.NewSlogManager(),
		StatusFile: filepath.Join(t.TempDir(), "status.json"),
		Interval:   10 * time.Millisecond,
	}
}

func TestServiceWritesStatusFile(t *testing.T) {
	deps := testDeps(t)
	s := NewService(deps)

	require.NoError(t, s.Start())
	defer s.Stop()

	assert.True(t, s.IsRunning())

	// Wait for at least one interval to elapse.
	require.Eventually(t, func() bool {
		data, err := os.ReadFile(deps.StatusFile)
		return err == nil && len(data) > 0
	}, time.Second, 10*time.Millisecond)

	data, err := os.ReadFile(deps.StatusFile)
	require.NoError(t, err)

	var status sim.Status
	require.NoError(t, json.Unmarshal(data, &status))
	assert.Equal(t, 6, status.Trucks)
	assert.False(t, status.Running)
}

func TestServiceStopIsIdempotent(t *testing.T) {
	s := NewService(testDeps(t))

	require.NoError(t, s.Start())
	s.Stop()

	assert.Eventually(t, func() bool { return !s.IsRunning() }, time.Second, 5*time.Millisecond)
	s.Stop()
}

func TestStartTwiceIsNoOp(t *testing.T) {
	s := NewService(testDeps(t))

	require.NoError(t, s.Start())
	require.NoError(t, s.Start())
	s.Stop()
}

func TestDefaultInterval(t *testing.T) {
	s := NewService(Dependencies{})
	assert.Equal(t, time.Second, s.deps.Interval)
}
