// Package box implements the integer index-range algebra shared by every
// layer of the scheduler: boxes, their intersections and differences,
// translation, envelope growth, and rescaling between refinement levels.
//
// A Box is an inclusive range on each axis. Two-dimensional boxes are
// represented as flat 3D boxes whose z range is [0,0], so the same code
// serves both dimensionalities.
package box

import "fmt"

// Dot is an integer index in up to three dimensions. 2D dots keep z = 0.
type Dot [3]int

// Dot2D returns the 2D index (x, y).
func Dot2D(x, y int) Dot { return Dot{x, y, 0} }

// Dot3D returns the 3D index (x, y, z).
func Dot3D(x, y, z int) Dot { return Dot{x, y, z} }

// Add returns d + o.
func (d Dot) Add(o Dot) Dot { return Dot{d[0] + o[0], d[1] + o[1], d[2] + o[2]} }

// Sub returns d - o.
func (d Dot) Sub(o Dot) Dot { return Dot{d[0] - o[0], d[1] - o[1], d[2] - o[2]} }

// Neg returns -d.
func (d Dot) Neg() Dot { return Dot{-d[0], -d[1], -d[2]} }

// Mul returns d scaled component-wise by o.
func (d Dot) Mul(o Dot) Dot { return Dot{d[0] * o[0], d[1] * o[1], d[2] * o[2]} }

// IsZero reports whether every component is zero.
func (d Dot) IsZero() bool { return d == Dot{} }

func (d Dot) String() string { return fmt.Sprintf("(%d,%d,%d)", d[0], d[1], d[2]) }

// Box is an inclusive index range [Lo, Hi] on every axis.
type Box struct {
	Lo, Hi Dot
}

// New2D returns the box [x0..x1]×[y0..y1] with a flat z range.
func New2D(x0, x1, y0, y1 int) Box {
	return Box{Lo: Dot{x0, y0, 0}, Hi: Dot{x1, y1, 0}}
}

// New3D returns the box [x0..x1]×[y0..y1]×[z0..z1].
func New3D(x0, x1, y0, y1, z0, z1 int) Box {
	return Box{Lo: Dot{x0, y0, z0}, Hi: Dot{x1, y1, z1}}
}

// Empty reports whether the box contains no cell.
func (b Box) Empty() bool {
	for a := 0; a < 3; a++ {
		if b.Hi[a] < b.Lo[a] {
			return true
		}
	}
	return false
}

// Extent returns the number of cells along each axis.
func (b Box) Extent() Dot {
	return Dot{b.Hi[0] - b.Lo[0] + 1, b.Hi[1] - b.Lo[1] + 1, b.Hi[2] - b.Lo[2] + 1}
}

// Volume returns the number of cells in the box, 0 for an empty box.
func (b Box) Volume() int {
	if b.Empty() {
		return 0
	}
	e := b.Extent()
	return e[0] * e[1] * e[2]
}

// Intersect returns the common part of b and o. The boolean is false when
// the two boxes are disjoint.
func (b Box) Intersect(o Box) (Box, bool) {
	var r Box
	for a := 0; a < 3; a++ {
		r.Lo[a] = max(b.Lo[a], o.Lo[a])
		r.Hi[a] = min(b.Hi[a], o.Hi[a])
		if r.Hi[a] < r.Lo[a] {
			return Box{}, false
		}
	}
	return r, true
}

// Intersects reports whether b and o share at least one cell.
func (b Box) Intersects(o Box) bool {
	_, ok := b.Intersect(o)
	return ok
}

// Contains reports whether o lies entirely inside b.
func (b Box) Contains(o Box) bool {
	for a := 0; a < 3; a++ {
		if o.Lo[a] < b.Lo[a] || o.Hi[a] > b.Hi[a] {
			return false
		}
	}
	return true
}

// ContainsDot reports whether d lies inside b.
func (b Box) ContainsDot(d Dot) bool {
	for a := 0; a < 3; a++ {
		if d[a] < b.Lo[a] || d[a] > b.Hi[a] {
			return false
		}
	}
	return true
}

// Shift translates the box by d.
func (b Box) Shift(d Dot) Box {
	return Box{Lo: b.Lo.Add(d), Hi: b.Hi.Add(d)}
}

// Enlarge grows the first dims axes by w cells on both sides.
func (b Box) Enlarge(w, dims int) Box {
	for a := 0; a < dims; a++ {
		b.Lo[a] -= w
		b.Hi[a] += w
	}
	return b
}

// Except returns a set of pairwise disjoint boxes whose union is b minus o.
// The pieces are cut as slabs, axis by axis, so b is returned unchanged when
// the two boxes do not intersect.
func (b Box) Except(o Box) []Box {
	inter, ok := b.Intersect(o)
	if !ok {
		return []Box{b}
	}
	var pieces []Box
	rest := b
	for a := 0; a < 3; a++ {
		if rest.Lo[a] < inter.Lo[a] {
			p := rest
			p.Hi[a] = inter.Lo[a] - 1
			pieces = append(pieces, p)
			rest.Lo[a] = inter.Lo[a]
		}
		if rest.Hi[a] > inter.Hi[a] {
			p := rest
			p.Lo[a] = inter.Hi[a] + 1
			pieces = append(pieces, p)
			rest.Hi[a] = inter.Hi[a]
		}
	}
	return pieces
}

// Each calls fn for every cell of the box in x-major order.
func (b Box) Each(fn func(Dot)) {
	for x := b.Lo[0]; x <= b.Hi[0]; x++ {
		for y := b.Lo[1]; y <= b.Hi[1]; y++ {
			for z := b.Lo[2]; z <= b.Hi[2]; z++ {
				fn(Dot{x, y, z})
			}
		}
	}
}

func (b Box) String() string {
	if b.Lo[2] == 0 && b.Hi[2] == 0 {
		return fmt.Sprintf("[%d..%d]x[%d..%d]", b.Lo[0], b.Hi[0], b.Lo[1], b.Hi[1])
	}
	return fmt.Sprintf("[%d..%d]x[%d..%d]x[%d..%d]", b.Lo[0], b.Hi[0], b.Lo[1], b.Hi[1], b.Lo[2], b.Hi[2])
}
