package node

import (
    "time"

    "lightmesh/pkg/route"
)

// Clock is the node's millisecond tick source. It may wrap.
type Clock interface {
    Now() route.Tick
}

// SystemClock counts milliseconds since it was created.
type SystemClock struct{ start time.Time }

func NewSystemClock() *SystemClock { return &SystemClock{start: time.Now()} }

func (c *SystemClock) Now() route.Tick { return route.Tick(uint32(time.Since(c.start).Milliseconds())) }

// ManualClock only moves when told to. Used by the simulator and tests.
type ManualClock struct{ now route.Tick }

func NewManualClock(start route.Tick) *ManualClock { return &ManualClock{now: start} }

func (c *ManualClock) Now() route.Tick { return c.now }

func (c *ManualClock) Advance(d time.Duration) { c.now += route.Tick(ticks(d)) }
