// Package geom holds the small amount of 2D math the arena needs.
package geom

import "math"

// Vec2 is a point or direction in arena pixels (or normalized 0-1 space for templates).
type Vec2 struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
}

func V(x, y float64) Vec2 { return Vec2{X: x, Y: y} }

func (v Vec2) Add(o Vec2) Vec2         { return Vec2{v.X + o.X, v.Y + o.Y} }
func (v Vec2) Sub(o Vec2) Vec2         { return Vec2{v.X - o.X, v.Y - o.Y} }
func (v Vec2) Scale(f float64) Vec2    { return Vec2{v.X * f, v.Y * f} }
func (v Vec2) Len() float64            { return math.Hypot(v.X, v.Y) }
func (v Vec2) Dist(o Vec2) float64     { return v.Sub(o).Len() }
func (v Vec2) Mul(sx, sy float64) Vec2 { return Vec2{v.X * sx, v.Y * sy} }

// Rect is an axis-aligned rectangle with its origin at the top-left corner.
type Rect struct {
	X float64 `yaml:"x"`
	Y float64 `yaml:"y"`
	W float64 `yaml:"w"`
	H float64 `yaml:"h"`
}

func (r Rect) Contains(p Vec2) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Inflate grows the rect by m on every side.
func (r Rect) Inflate(m float64) Rect {
	return Rect{X: r.X - m, Y: r.Y - m, W: r.W + 2*m, H: r.H + 2*m}
}

// Scale maps a normalized rect into a w x h space.
func (r Rect) Scale(w, h float64) Rect {
	return Rect{X: r.X * w, Y: r.Y * h, W: r.W * w, H: r.H * h}
}

func (r Rect) Center() Vec2 { return Vec2{r.X + r.W/2, r.Y + r.H/2} }

// Circle is used for weighted spawn regions and exclusion zones.
type Circle struct {
	Center Vec2    `yaml:"center"`
	Radius float64 `yaml:"radius"`
}

func (c Circle) Contains(p Vec2) bool {
	return c.Center.Dist(p) <= c.Radius
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
