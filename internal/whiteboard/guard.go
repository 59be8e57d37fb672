package whiteboard

import (
	"sync"
	"time"
)

// GuardHooks are the page-level interceptions the guard manages while the
// pointer is over the canvas. RePush counteracts a browser "back" navigation
// by re-pushing the current location; it is re-armed on an interval because
// a single push is not enough against rapid trackpad gesture sequences.
type GuardHooks struct {
	DisablePageScroll func()
	EnablePageScroll  func()
	RePush            func()
}

// NavigationGuard is a scoped resource: acquired on pointer-enter, released
// deterministically on pointer-leave or unmount. While held it suppresses
// browser navigation gestures; releasing restores normal page behavior and
// stops the timer, so nothing leaks application-wide.
type NavigationGuard struct {
	hooks    GuardHooks
	interval time.Duration

	mu   sync.Mutex
	stop chan struct{}
	done chan struct{}
}

const defaultGuardInterval = 100 * time.Millisecond

func NewNavigationGuard(hooks GuardHooks, interval time.Duration) *NavigationGuard {
	if interval <= 0 {
		interval = defaultGuardInterval
	}
	return &NavigationGuard{hooks: hooks, interval: interval}
}

// Acquire starts the guard. Re-acquiring while held is a no-op.
func (g *NavigationGuard) Acquire() {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.stop != nil {
		return
	}

	if g.hooks.DisablePageScroll != nil {
		g.hooks.DisablePageScroll()
	}
	if g.hooks.RePush != nil {
		g.hooks.RePush()
	}

	g.stop = make(chan struct{})
	g.done = make(chan struct{})

	go g.run(g.stop, g.done)
}

func (g *NavigationGuard) run(stop, done chan struct{}) {
	ticker := time.NewTicker(g.interval)
	defer ticker.Stop()
	defer close(done)

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if g.hooks.RePush != nil {
				g.hooks.RePush()
			}
		}
	}
}

// Release stops the guard and restores page scroll. Safe to call when not
// held, and safe to call more than once.
func (g *NavigationGuard) Release() {
	g.mu.Lock()
	stop, done := g.stop, g.done
	g.stop, g.done = nil, nil
	g.mu.Unlock()

	if stop == nil {
		return
	}

	close(stop)
	<-done

	if g.hooks.EnablePageScroll != nil {
		g.hooks.EnablePageScroll()
	}
}

// Held reports whether the guard is currently acquired.
func (g *NavigationGuard) Held() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stop != nil
}
