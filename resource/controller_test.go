package resource

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Positive(t, cfg.MaxWorkers)
	assert.Zero(t, cfg.MemoryLimitBytes)
	assert.Zero(t, cfg.IOLimitBytesPerSec)

	c := NewController(cfg)
	assert.Equal(t, cfg.MaxWorkers, c.MaxWorkers())
}

func TestController_Memory(t *testing.T) {
	// Test with limit
	c := NewController(Config{MemoryLimitBytes: 100})

	// Acquire 50
	err := c.AcquireMemory(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(50), c.MemoryUsage())

	// Acquire 40
	err = c.AcquireMemory(context.Background(), 40)
	require.NoError(t, err)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// TryAcquire 20 (should fail)
	ok := c.TryAcquireMemory(20)
	assert.False(t, ok)
	assert.Equal(t, int64(90), c.MemoryUsage())

	// Acquire 20 (should block/timeout)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err = c.AcquireMemory(ctx, 20)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Release 50
	c.ReleaseMemory(50)
	assert.Equal(t, int64(40), c.MemoryUsage())

	// Now Acquire 20 should succeed
	err = c.AcquireMemory(context.Background(), 20)
	require.NoError(t, err)
	assert.Equal(t, int64(60), c.MemoryUsage())
}

func TestController_UnlimitedMemory(t *testing.T) {
	c := NewController(Config{MemoryLimitBytes: 0})

	err := c.AcquireMemory(context.Background(), 1000)
	require.NoError(t, err)
	assert.Equal(t, int64(1000), c.MemoryUsage())

	c.ReleaseMemory(500)
	assert.Equal(t, int64(500), c.MemoryUsage())
}

func TestController_Workers(t *testing.T) {
	c := NewController(Config{MaxWorkers: 2})
	assert.Equal(t, int64(2), c.MaxWorkers())

	// Acquire 2
	require.NoError(t, c.AcquireWorker(context.Background()))
	require.NoError(t, c.AcquireWorker(context.Background()))

	// Try 3rd
	assert.False(t, c.TryAcquireWorker())

	// Release 1
	c.ReleaseWorker()

	// Try 3rd again
	assert.True(t, c.TryAcquireWorker())
}

func TestController_NilSafe(t *testing.T) {
	var c *Controller

	assert.Equal(t, int64(1), c.MaxWorkers())
	require.NoError(t, c.AcquireWorker(context.Background()))
	assert.True(t, c.TryAcquireWorker())
	c.ReleaseWorker()
	require.NoError(t, c.AcquireMemory(context.Background(), 10))
	c.ReleaseMemory(10)
	require.NoError(t, c.AcquireIO(context.Background(), 1024))
}

func TestRateLimitedWriter(t *testing.T) {
	// 1KB/s with a burst of 1KB: the first write passes immediately.
	c := NewController(Config{IOLimitBytesPerSec: 1024})

	var buf bytes.Buffer
	w := NewRateLimitedWriter(&buf, c, context.Background())

	n, err := w.Write([]byte("hello"))
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", buf.String())
}

func TestRateLimitedReader(t *testing.T) {
	c := NewController(Config{IOLimitBytesPerSec: 1024})

	r := NewRateLimitedReader(bytes.NewReader([]byte("hello")), c, context.Background())

	buf := make([]byte, 5)
	n, err := r.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
	assert.Equal(t, "hello", string(buf))
}
