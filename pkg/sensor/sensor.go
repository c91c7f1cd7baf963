// Package sensor provides host stand-ins for the mote's light sensor.
package sensor

import (
    "fmt"
    "math/rand"
    "sync"
)

// Sensor yields one raw reading per call.
type Sensor interface {
    Sample() uint16
}

// Constant always reads the same value.
type Constant uint16

func (c Constant) Sample() uint16 { return uint16(c) }

// RandomWalk drifts by at most Step per sample, clamped to [Min, Max].
type RandomWalk struct {
    mu       sync.Mutex
    rng      *rand.Rand
    cur      int
    Step     int
    Min, Max int
}

// NewRandomWalk starts at start with the given step, seeded for
// reproducible runs.
func NewRandomWalk(start, step int, seed int64) *RandomWalk {
    w := &RandomWalk{rng: rand.New(rand.NewSource(seed)), Step: step, Min: 0, Max: 1023}
    w.cur = clamp(start, w.Min, w.Max)
    return w
}

func (w *RandomWalk) Sample() uint16 {
    w.mu.Lock(); defer w.mu.Unlock()
    if w.Step > 0 { w.cur += w.rng.Intn(2*w.Step+1) - w.Step }
    w.cur = clamp(w.cur, w.Min, w.Max)
    return uint16(w.cur)
}

// Uniform draws readings uniformly from [Lo, Hi).
type Uniform struct {
    mu     sync.Mutex
    rng    *rand.Rand
    Lo, Hi uint16
}

func NewUniform(lo, hi uint16, seed int64) *Uniform {
    if hi <= lo { hi = lo + 1 }
    return &Uniform{rng: rand.New(rand.NewSource(seed)), Lo: lo, Hi: hi}
}

func (u *Uniform) Sample() uint16 {
    u.mu.Lock(); defer u.mu.Unlock()
    return u.Lo + uint16(u.rng.Intn(int(u.Hi-u.Lo)))
}

// New builds a sensor by config name. value is the constant reading, the
// random walk's start, or the uniform band's lower edge.
func New(kind string, value int, seed int64) (Sensor, error) {
    switch kind {
    case "constant":
        return Constant(uint16(clamp(value, 0, 0xFFFF))), nil
    case "random", "":
        return NewRandomWalk(value, 8, seed), nil
    case "uniform":
        lo := uint16(clamp(value, 0, 0xFFFF-10))
        return NewUniform(lo, lo+10, seed), nil
    default:
        return nil, fmt.Errorf("sensor: unknown kind %q", kind)
    }
}

func clamp(v, lo, hi int) int {
    if v < lo { return lo }
    if v > hi { return hi }
    return v
}
