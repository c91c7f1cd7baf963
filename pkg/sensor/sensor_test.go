package sensor

import "testing"

func TestConstant(t *testing.T) {
    s, err := New("constant", 645, 1)
    if err != nil { t.Fatalf("new: %v", err) }
    for i := 0; i < 3; i++ {
        if v := s.Sample(); v != 645 { t.Fatalf("sample = %d", v) }
    }
}

func TestRandomWalkStaysInBand(t *testing.T) {
    w := NewRandomWalk(5, 8, 42)
    prev := 5
    for i := 0; i < 1000; i++ {
        v := int(w.Sample())
        if v < w.Min || v > w.Max { t.Fatalf("sample %d out of range", v) }
        if d := v - prev; d > 8 || d < -8 { t.Fatalf("step %d too large", d) }
        prev = v
    }
}

func TestRandomWalkIsSeeded(t *testing.T) {
    a, b := NewRandomWalk(500, 8, 7), NewRandomWalk(500, 8, 7)
    for i := 0; i < 50; i++ {
        if a.Sample() != b.Sample() { t.Fatalf("same seed diverged at %d", i) }
    }
}

func TestUniform(t *testing.T) {
    s, err := New("uniform", 20, 3)
    if err != nil { t.Fatalf("new: %v", err) }
    for i := 0; i < 500; i++ {
        if v := s.Sample(); v < 20 || v >= 30 { t.Fatalf("sample %d outside [20,30)", v) }
    }
    u := NewUniform(5, 5, 1)
    if v := u.Sample(); v != 5 { t.Fatalf("degenerate band sample = %d", v) }
}

func TestUnknownKind(t *testing.T) {
    if _, err := New("lux", 0, 0); err == nil { t.Fatalf("unknown kind accepted") }
}
