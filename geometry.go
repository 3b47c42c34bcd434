// Copyright (C) 2022, VigilantDoomer
//
// This file is part of CarveBSP program.
//
// CarveBSP is free software: you can redistribute it
// and/or modify it under the terms of GNU General Public License
// as published by the Free Software Foundation, either version 2 of
// the License, or (at your option) any later version.
//
// CarveBSP is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with CarveBSP.  If not, see <https://www.gnu.org/licenses/>.

// geometry
package main

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/exp/constraints"
)

// Vec2f is a point or a vector. Map coordinates are integer on disk, but all
// splitting happens in float32
type Vec2f = mgl32.Vec2

type Number interface {
	constraints.Signed | constraints.Float
}

// Sign returns -1, 0 or +1
func Sign[T Number](x T) int {
	if x < 0 {
		return -1
	} else if x > 0 {
		return 1
	} else {
		return 0
	}
}

func Abs[T Number](x T) T {
	if x < 0 {
		return -x
	}
	return x
}

func Dist(a, b Vec2f) float32 {
	return b.Sub(a).Len()
}

func VecToString(v Vec2f) string {
	return fmt.Sprintf("(%v,%v)", v.X(), v.Y())
}

// Line is a directed line segment from A to B
type Line struct {
	A, B Vec2f
}

func (l Line) Dx() float32 {
	return l.B.X() - l.A.X()
}

func (l Line) Dy() float32 {
	return l.B.Y() - l.A.Y()
}

func (l Line) Length() float32 {
	return Dist(l.A, l.B)
}

// SideOf is the exact (no tolerance) sign of the cross product of line
// direction and vector to p
func (l Line) SideOf(p Vec2f) int {
	return Sign(l.Dx()*(p.Y()-l.A.Y()) - l.Dy()*(p.X()-l.A.X()))
}

// Intersects returns true when segments l and o have at least one common
// point. Touching at endpoints and collinear overlap count
func (l Line) Intersects(o Line) bool {
	d1 := o.SideOf(l.A)
	d2 := o.SideOf(l.B)
	d3 := l.SideOf(o.A)
	d4 := l.SideOf(o.B)
	if d1*d2 < 0 && d3*d4 < 0 {
		return true
	}
	if d1 == 0 && onSegment(o, l.A) {
		return true
	}
	if d2 == 0 && onSegment(o, l.B) {
		return true
	}
	if d3 == 0 && onSegment(l, o.A) {
		return true
	}
	if d4 == 0 && onSegment(l, o.B) {
		return true
	}
	return false
}

// p is known to be collinear with l; is it within l's extent?
func onSegment(l Line, p Vec2f) bool {
	return math32.Min(l.A.X(), l.B.X()) <= p.X() &&
		p.X() <= math32.Max(l.A.X(), l.B.X()) &&
		math32.Min(l.A.Y(), l.B.Y()) <= p.Y() &&
		p.Y() <= math32.Max(l.A.Y(), l.B.Y())
}

// Box is an axis-aligned bounding box, min and max corners inclusive
type Box struct {
	min, max Vec2f
}

func NewBox(min, max Vec2f) Box {
	return Box{min: min, max: max}
}

// BoxAround is a degenerate box consisting of a single point, ready to be
// extended
func BoxAround(p Vec2f) Box {
	return Box{min: p, max: p}
}

// Extend the box so that p fits inside
func (b *Box) Extend(p Vec2f) {
	if p.X() < b.min.X() {
		b.min[0] = p.X()
	} else if p.X() > b.max.X() {
		b.max[0] = p.X()
	}

	if p.Y() < b.min.Y() {
		b.min[1] = p.Y()
	} else if p.Y() > b.max.Y() {
		b.max[1] = p.Y()
	}
}

func (b Box) Union(o Box) Box {
	b.Extend(o.min)
	b.Extend(o.max)
	return b
}

func (b Box) Min() Vec2f { return b.min }

func (b Box) Max() Vec2f { return b.max }

func (b Box) Size() Vec2f { return b.max.Sub(b.min) }

func (b Box) Width() float32 { return b.max.X() - b.min.X() }

func (b Box) Height() float32 { return b.max.Y() - b.min.Y() }

// Corners are named in screen convention (y grows downwards), same as the
// map view of an editor would show the box flipped
func (b Box) TopLeft() Vec2f { return b.min }

func (b Box) TopRight() Vec2f { return Vec2f{b.max.X(), b.min.Y()} }

func (b Box) BottomLeft() Vec2f { return Vec2f{b.min.X(), b.max.Y()} }

func (b Box) BottomRight() Vec2f { return b.max }

func (b Box) Contains(p Vec2f) bool {
	return p.X() >= b.min.X() && p.X() <= b.max.X() &&
		p.Y() >= b.min.Y() && p.Y() <= b.max.Y()
}

// ContainsLine is the blockmap predicate: either endpoint lies within the box
// or the line crosses one of box's four edges. A line that only grazes a
// corner counts too
func (b Box) ContainsLine(l Line) bool {
	if b.Contains(l.A) || b.Contains(l.B) {
		return true
	}
	tl, tr := b.TopLeft(), b.TopRight()
	bl, br := b.BottomLeft(), b.BottomRight()
	return l.Intersects(Line{tl, tr}) || l.Intersects(Line{tr, br}) ||
		l.Intersects(Line{br, bl}) || l.Intersects(Line{bl, tl})
}

func (b Box) String() string {
	return fmt.Sprintf("[%s-%s]", VecToString(b.min), VecToString(b.max))
}

// Poly is a polygon with implicit closure: last point connects to the first
type Poly struct {
	points []Vec2f
}

func NewPoly(points ...Vec2f) Poly {
	return Poly{points: append([]Vec2f(nil), points...)}
}

// PolyFromBox creates a rectangle going around the box corners
func PolyFromBox(b Box) Poly {
	return NewPoly(b.min, Vec2f{b.min.X(), b.max.Y()}, b.max,
		Vec2f{b.max.X(), b.min.Y()})
}

func (p *Poly) Add(v Vec2f) {
	p.points = append(p.points, v)
}

func (p Poly) Len() int {
	return len(p.points)
}

// At wraps around, so that At(Len()) is the first point again
func (p Poly) At(i int) Vec2f {
	return p.points[i%len(p.points)]
}

func (p Poly) Points() []Vec2f {
	return p.points
}

// Area by shoelace formula, always non-negative
func (p Poly) Area() float32 {
	if len(p.points) < 3 {
		return 0
	}
	var sum float32
	for i := 0; i < len(p.points); i++ {
		a := p.At(i)
		b := p.At(i + 1)
		sum += a.X()*b.Y() - b.X()*a.Y()
	}
	return math32.Abs(sum) / 2
}

// PointInside is true for points inside or on the border of a convex polygon.
// Vertices are matched exactly
func (p Poly) PointInside(v Vec2f) bool {
	pos, neg := 0, 0
	for i := 0; i < len(p.points); i++ {
		if p.At(i) == v {
			return true
		}
		side := Line{p.At(i), p.At(i + 1)}.SideOf(v)
		if side > 0 {
			pos++
		}
		if side < 0 {
			neg++
		}
		if pos > 0 && neg > 0 {
			return false
		}
	}
	return true
}

func (p Poly) Bounds() Box {
	if len(p.points) == 0 {
		return Box{}
	}
	b := BoxAround(p.points[0])
	for _, v := range p.points[1:] {
		b.Extend(v)
	}
	return b
}
