package adapter

import "time"

// SystemClock supplies wall-clock time in UTC. The only place the engine
// reads the real clock; everything downstream takes it through port.Clock.
type SystemClock struct{}

// NewSystemClock creates a SystemClock.
func NewSystemClock() SystemClock { return SystemClock{} }

// Now returns the current UTC time.
func (SystemClock) Now() time.Time { return time.Now().UTC() }
