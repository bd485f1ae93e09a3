package scheduler

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddRejectsInvalidSpec(t *testing.T) {
	s := New()
	assert.Error(t, s.Add("not a cron spec", "broken", func() {}))
	assert.NoError(t, s.Add("@every 1h", "hourly", func() {}))
	assert.NoError(t, s.Add("0 */6 * * *", "quarter_daily", func() {}))
}

func TestScheduledJobRuns(t *testing.T) {
	s := New()

	var runs atomic.Int32
	require.NoError(t, s.Add("@every 10ms", "tick", func() {
		runs.Add(1)
	}))

	s.Start()
	defer s.Stop()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestStopWaitsForRunningJob(t *testing.T) {
	s := New()

	started := make(chan struct{})
	var finished atomic.Bool
	require.NoError(t, s.Add("@every 10ms", "slow", func() {
		select {
		case started <- struct{}{}:
		default:
		}
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	}))

	s.Start()
	<-started
	s.Stop()

	assert.True(t, finished.Load(), "Stop must wait for the in-flight run")
}
