package world

import "math"

// Vec2 is a 2D position or velocity in world units.
type Vec2 struct {
	X, Y float64
}

func (v Vec2) Add(o Vec2) Vec2       { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2       { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(k float64) Vec2  { return Vec2{v.X * k, v.Y * k} }
func (v Vec2) LenSq() float64        { return v.X*v.X + v.Y*v.Y }
func (v Vec2) DistSq(o Vec2) float64 { return v.Sub(o).LenSq() }

// Toward returns a vector of length speed pointing from v to target.
// Zero when the points coincide.
func (v Vec2) Toward(target Vec2, speed float64) Vec2 {
	d := target.Sub(v)
	l := d.LenSq()
	if l == 0 {
		return Vec2{}
	}
	return d.Scale(speed / math.Sqrt(l))
}

// Bounds is the playable rectangle, origin at the top-left corner.
type Bounds struct {
	Width  float64
	Height float64
}

// Contains reports whether p lies inside the rectangle (edges inclusive).
func (b Bounds) Contains(p Vec2) bool {
	return p.X >= 0 && p.Y >= 0 && p.X <= b.Width && p.Y <= b.Height
}
