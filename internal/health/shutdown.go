package health

import "sync/atomic"

var ready atomic.Bool

func init() {
	ready.Store(true)
}

// SetReady toggles the readiness gate. Graceful shutdown flips it off first
// so load balancers drain the instance before connections close.
func SetReady(v bool) {
	ready.Store(v)
}

// IsReady reports the current state of the readiness gate.
func IsReady() bool {
	return ready.Load()
}
