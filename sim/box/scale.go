package box

import "fmt"

// Scaler converts boxes between the index spaces of two refinement levels.
// A positive levelDelta maps a box into a finer index space.
type Scaler interface {
	ScaleBox(b Box, levelDelta int) Box
}

// PowerTwo refines by a factor of two per level. Coarsening requires every
// bound to be divisible by the factor; anything else is a layout error and
// panics, since the rescale could not be inverted.
type PowerTwo struct{}

// ScaleBox implements Scaler.
func (PowerTwo) ScaleBox(b Box, levelDelta int) Box {
	switch {
	case levelDelta == 0:
		return b
	case levelDelta > 0:
		f := 1 << levelDelta
		return Box{Lo: b.Lo.Mul(Dot{f, f, f}), Hi: b.Hi.Mul(Dot{f, f, f})}
	}
	f := 1 << -levelDelta
	var r Box
	for a := 0; a < 3; a++ {
		if b.Lo[a]%f != 0 || b.Hi[a]%f != 0 {
			panic(fmt.Sprintf("box: cannot coarsen %s by %d levels: bounds not divisible by %d", b, -levelDelta, f))
		}
		r.Lo[a] = b.Lo[a] / f
		r.Hi[a] = b.Hi[a] / f
	}
	return r
}
