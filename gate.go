package vdisk

import "sync/atomic"

// Gate is the pause/resume switch for file downloads. The zero value is running.
type Gate struct {
	paused atomic.Bool
}

// Pause makes subsequent downloads fail with ErrUnavailable.
func (g *Gate) Pause() {
	g.paused.Store(true)
}

// Resume re-enables downloads.
func (g *Gate) Resume() {
	g.paused.Store(false)
}

// Paused reports whether downloads are currently refused.
func (g *Gate) Paused() bool {
	return g.paused.Load()
}
