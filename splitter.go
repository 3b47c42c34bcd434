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

// splitter
package main

import (
	"github.com/chewxy/math32"
)

// Side values. For points, SIDE_ON means "within collinearity band". For
// lines, the same value means the line straddles the splitter and is to be cut
const (
	SIDE_LEFT     = -1
	SIDE_ON       = 0
	SIDE_STRADDLE = 0
	SIDE_RIGHT    = 1
)

// Points this close to the partition line (in map units) are considered to
// lie on it. Intersection vertices accumulated over a chain of splits are
// never precise, and this absorbs their error
const COLLINEAR_EPSILON = float32(2.0)

// A seg collinear with partition line that runs in the same direction goes
// here, the one running the opposite way goes to the other side. Don't change
// it: output is expected to be reproducible
const COLLINEAR_SAME_DIRECTION_SIDE = SIDE_LEFT

// Splitter is the partition line, built from the seg chosen by PickNode
type Splitter struct {
	P      Vec2f // start point
	Dx, Dy float32
	mlog   *MiniLogger // where to complain about parallel lines; nil goes to Log
}

func SplitterFromLine(l Line) Splitter {
	return Splitter{
		P:  l.A,
		Dx: l.Dx(),
		Dy: l.Dy(),
	}
}

func SplitterFromSeg(seg *NodeSeg, mlog *MiniLogger) Splitter {
	s := SplitterFromLine(seg.Line())
	s.mlog = mlog
	return s
}

// Reversed runs along the same line in the opposite direction
func (s Splitter) Reversed() Splitter {
	return Splitter{
		P:    Vec2f{s.P.X() + s.Dx, s.P.Y() + s.Dy},
		Dx:   -s.Dx,
		Dy:   -s.Dy,
		mlog: s.mlog,
	}
}

// PointSide returns SIDE_LEFT, SIDE_ON or SIDE_RIGHT
func (s Splitter) PointSide(p Vec2f) int {
	cross := s.Dx*(p.Y()-s.P.Y()) - s.Dy*(p.X()-s.P.X())
	if s.Dx == 0 {
		if math32.Abs(p.X()-s.P.X()) <= COLLINEAR_EPSILON {
			return SIDE_ON
		}
	} else if s.Dy == 0 {
		if math32.Abs(p.Y()-s.P.Y()) <= COLLINEAR_EPSILON {
			return SIDE_ON
		}
	} else {
		// Squared distance from p to the line is cross^2 / (dx^2 + dy^2)
		lenSq := s.Dx*s.Dx + s.Dy*s.Dy
		if cross*cross <= COLLINEAR_EPSILON*COLLINEAR_EPSILON*lenSq {
			return SIDE_ON
		}
	}
	return Sign(cross)
}

// LineSide returns SIDE_LEFT or SIDE_RIGHT when the whole line is on one side,
// SIDE_STRADDLE when it needs to be cut
func (s Splitter) LineSide(l Line) int {
	s1 := s.PointSide(l.A)
	s2 := s.PointSide(l.B)

	if s1 == s2 {
		if s1 == SIDE_ON {
			// collinear with partition line
			if Sign(s.Dx) == Sign(l.Dx()) && Sign(s.Dy) == Sign(l.Dy()) {
				return COLLINEAR_SAME_DIRECTION_SIDE
			}
			return -COLLINEAR_SAME_DIRECTION_SIDE
		}
		return s1
	}

	// touches partition line with one end
	if s1 == SIDE_ON {
		return s2
	}
	if s2 == SIDE_ON {
		return s1
	}

	return SIDE_STRADDLE
}

func (s Splitter) SegSide(seg *NodeSeg) int {
	return s.LineSide(seg.Line())
}

// IntersectAt finds where the (infinite) partition line meets the (infinite)
// line l. Only call it when it's known they are not parallel: for parallel
// lines error is logged and origin is returned
func (s Splitter) IntersectAt(l Line) Vec2f {
	a1 := s.Dy
	b1 := -s.Dx
	c1 := s.Dy*s.P.X() - s.Dx*s.P.Y()

	a2 := l.B.Y() - l.A.Y()
	b2 := l.A.X() - l.B.X()
	c2 := a2*l.A.X() + b2*l.A.Y()

	det := a1*b2 - a2*b1
	if det == 0 {
		s.mlog.Error("Error: partition line %s-(%v,%v) is parallel to line %s-%s, can't intersect.\n",
			VecToString(s.P), s.Dx, s.Dy, VecToString(l.A), VecToString(l.B))
		return Vec2f{0, 0}
	}

	x := (b2*c1 - b1*c2) / det
	y := (a1*c2 - a2*c1) / det
	return Vec2f{x, y}
}

// CutSeg splits the seg that straddles partition line in two. First returned
// seg is on the left, second on the right. The piece that starts at seg's
// original start keeps the offset, the other has it advanced by its distance
// from the start
func (s Splitter) CutSeg(seg *NodeSeg) (NodeSeg, NodeSeg) {
	ip := s.IntersectAt(seg.Line())

	near := *seg
	near.P2 = ip

	far := *seg
	far.P1 = ip
	far.Offset = seg.Offset + Dist(seg.P1, ip)

	if s.PointSide(seg.P1) == SIDE_LEFT {
		return near, far
	}
	return far, near
}

// CutPoly divides convex polygon in two: left and right of partition line.
// Points on the line go to both
func (s Splitter) CutPoly(poly Poly) (Poly, Poly) {
	var left, right Poly
	n := poly.Len()
	for i := 0; i < n; i++ {
		prev := poly.At(i + n - 1)
		cur := poly.At(i)
		sPrev := s.PointSide(prev)
		sCur := s.PointSide(cur)

		if sCur == SIDE_ON {
			left.Add(cur)
			right.Add(cur)
			continue
		}

		if sPrev != SIDE_ON && sPrev != sCur {
			// edge crosses partition line
			ip := s.IntersectAt(Line{prev, cur})
			left.Add(ip)
			right.Add(ip)
		}

		if sCur == SIDE_LEFT {
			left.Add(cur)
		} else {
			right.Add(cur)
		}
	}
	return left, right
}
