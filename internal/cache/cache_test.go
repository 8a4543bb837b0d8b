package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is an adjustable clock for TTL tests.
type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func TestReadAbsentKey(t *testing.T) {
	c := New()

	_, ok := c.Read("missing")
	assert.False(t, ok)
}

func TestWriteThenRead(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewWithClock(clock.Now)

	c.Write("key", "value", time.Second)

	got, ok := c.Read("key")
	require.True(t, ok)
	assert.Equal(t, "value", got)
}

func TestReadAfterExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewWithClock(clock.Now)

	c.Write("key", "value", time.Second)

	clock.Advance(1100 * time.Millisecond)

	_, ok := c.Read("key")
	assert.False(t, ok)

	// The stale entry is evicted on read.
	assert.Equal(t, 0, c.Len())
}

func TestReadAtExactTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewWithClock(clock.Now)

	c.Write("key", "value", time.Second)

	// An entry is valid strictly before the TTL elapses, not at it.
	clock.Advance(time.Second)

	_, ok := c.Read("key")
	assert.False(t, ok)
}

func TestWriteReplacesEntry(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewWithClock(clock.Now)

	c.Write("key", "old", time.Second)
	clock.Advance(900 * time.Millisecond)
	c.Write("key", "new", time.Second)

	// The rewrite restarts the TTL from its own timestamp.
	clock.Advance(900 * time.Millisecond)

	got, ok := c.Read("key")
	require.True(t, ok)
	assert.Equal(t, "new", got)
}

func TestWriteDefaultTTL(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewWithClock(clock.Now)

	c.Write("key", "value", 0)

	clock.Advance(DefaultTTL - time.Second)
	_, ok := c.Read("key")
	assert.True(t, ok)

	clock.Advance(2 * time.Second)
	_, ok = c.Read("key")
	assert.False(t, ok)
}

func TestSweepEvictsExpired(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	c := NewWithClock(clock.Now)

	c.Write("fresh", 1, time.Hour)
	c.Write("stale", 2, time.Second)

	clock.Advance(time.Minute)
	c.sweep()

	assert.Equal(t, 1, c.Len())
	_, ok := c.Read("fresh")
	assert.True(t, ok)
}
