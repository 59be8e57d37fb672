package whiteboard

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigationGuard_AcquireRelease(t *testing.T) {
	var disabled, enabled, pushes atomic.Int32

	g := NewNavigationGuard(GuardHooks{
		DisablePageScroll: func() { disabled.Add(1) },
		EnablePageScroll:  func() { enabled.Add(1) },
		RePush:            func() { pushes.Add(1) },
	}, 5*time.Millisecond)

	g.Acquire()
	require.True(t, g.Held())
	assert.Equal(t, int32(1), disabled.Load())
	assert.GreaterOrEqual(t, pushes.Load(), int32(1), "guard arms immediately on acquire")

	// The guard keeps re-pushing while held.
	require.Eventually(t, func() bool { return pushes.Load() >= 3 }, time.Second, time.Millisecond)

	g.Release()
	assert.False(t, g.Held())
	assert.Equal(t, int32(1), enabled.Load())

	// No more pushes after release.
	settled := pushes.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, pushes.Load())
}

func TestNavigationGuard_ReentrantAcquire(t *testing.T) {
	var disabled atomic.Int32
	g := NewNavigationGuard(GuardHooks{
		DisablePageScroll: func() { disabled.Add(1) },
	}, 5*time.Millisecond)

	g.Acquire()
	g.Acquire()
	assert.Equal(t, int32(1), disabled.Load(), "re-acquiring while held is a no-op")
	g.Release()
}

func TestNavigationGuard_DoubleReleaseSafe(t *testing.T) {
	var enabled atomic.Int32
	g := NewNavigationGuard(GuardHooks{
		EnablePageScroll: func() { enabled.Add(1) },
	}, 5*time.Millisecond)

	g.Release() // not held: no-op
	assert.Zero(t, enabled.Load())

	g.Acquire()
	g.Release()
	g.Release()
	assert.Equal(t, int32(1), enabled.Load())
}

func TestNavigationGuard_ReacquireAfterRelease(t *testing.T) {
	var pushes atomic.Int32
	g := NewNavigationGuard(GuardHooks{RePush: func() { pushes.Add(1) }}, 5*time.Millisecond)

	g.Acquire()
	g.Release()

	g.Acquire()
	require.True(t, g.Held())
	require.Eventually(t, func() bool { return pushes.Load() >= 2 }, time.Second, time.Millisecond)
	g.Release()
}

func TestNavigationGuard_NilHooks(t *testing.T) {
	g := NewNavigationGuard(GuardHooks{}, time.Millisecond)
	g.Acquire()
	time.Sleep(5 * time.Millisecond)
	g.Release()
}
