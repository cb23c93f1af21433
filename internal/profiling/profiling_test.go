package profiling

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTrackAccumulates(t *testing.T) {
	ResetFrame()
	for i := 0; i < 3; i++ {
		stop := Track("test.op")
		time.Sleep(time.Millisecond)
		stop()
	}
	snap := Snapshot()
	assert.GreaterOrEqual(t, snap["test.op"], 3*time.Millisecond)
	assert.Equal(t, 3, Calls("test.op"))

	ResetFrame()
	assert.Empty(t, Snapshot())
	assert.Zero(t, Calls("test.op"))
}

func TestFormatMs(t *testing.T) {
	assert.Equal(t, "4ms", formatMs(4*time.Millisecond))
	assert.Equal(t, "2.5ms", formatMs(2500*time.Microsecond))
	assert.Equal(t, "0ms", formatMs(0))
}

func TestTopNOrdersByDuration(t *testing.T) {
	ResetFrame()
	mu.Lock()
	frameTotals["a"] = 1 * time.Millisecond
	frameTotals["b"] = 3 * time.Millisecond
	frameTotals["c"] = 2 * time.Millisecond
	mu.Unlock()

	assert.Equal(t, "b:3ms, c:2ms", TopN(2))
	assert.Equal(t, "b:3ms, c:2ms, a:1ms", TopN(10))
	ResetFrame()
}
