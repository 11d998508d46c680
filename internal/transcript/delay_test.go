package transcript

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRandomDelayDuration(t *testing.T) {
	d := RandomDelay{Min: 500 * time.Millisecond, Max: 1500 * time.Millisecond}
	for i := 0; i < 200; i++ {
		got := d.duration()
		assert.GreaterOrEqual(t, got, d.Min)
		assert.LessOrEqual(t, got, d.Max)
	}

	assert.Equal(t, time.Second, RandomDelay{Min: time.Second, Max: time.Second}.duration())
	assert.Equal(t, time.Duration(0), RandomDelay{}.duration())
}

func TestRandomDelaySleepsWithinRange(t *testing.T) {
	d := RandomDelay{Min: 30 * time.Millisecond, Max: 40 * time.Millisecond}
	start := time.Now()
	d.Wait()
	elapsed := time.Since(start)
	assert.GreaterOrEqual(t, elapsed, d.Min)
	assert.Less(t, elapsed, time.Second)
}

func TestNoDelay(t *testing.T) {
	start := time.Now()
	NoDelay{}.Wait()
	assert.Less(t, time.Since(start), 50*time.Millisecond)
}
