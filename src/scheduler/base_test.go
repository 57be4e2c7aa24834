package scheduler_test

import (
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stocksim/src/scheduler"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestScheduledTaskRunsAndCancels(t *testing.T) {
	var runs atomic.Int32
	task, err := scheduler.NewScheduledTask("test-task", "@every 100ms", testLogger(), func() {
		runs.Add(1)
	})
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 3*time.Second, 50*time.Millisecond)

	task.Cancel()
	// Let any in-flight invocation drain before sampling.
	time.Sleep(150 * time.Millisecond)
	settled := runs.Load()
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, settled, runs.Load())
}

func TestScheduledTaskRejectsBadSpec(t *testing.T) {
	_, err := scheduler.NewScheduledTask("bad", "not a cron spec", testLogger(), func() {})
	require.Error(t, err)
}
