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

// nodegen
package main

import (
	"fmt"

	"github.com/chewxy/math32"
)

// NodeSeg is a seg while nodes are being built: float coordinates, offset
// not yet truncated
type NodeSeg struct {
	P1, P2  Vec2f
	Side    bool    // false - seg follows same direction as linedef, true - the opposite
	Offset  float32 // distance along linedef to start of seg
	Linedef uint16
}

func (s *NodeSeg) Line() Line {
	return Line{s.P1, s.P2}
}

func (s *NodeSeg) Length() float32 {
	return Dist(s.P1, s.P2)
}

// Angle in binary angle measurement units, half circle is 0x8000. Negative
// angles wrap around
func (s *NodeSeg) Angle() uint16 {
	dx := s.P2.X() - s.P1.X()
	dy := s.P2.Y() - s.P1.Y()
	bam := math32.Atan2(dy, dx) * 0x8000 / math32.Pi
	return uint16(int32(bam))
}

func (s *NodeSeg) getFlip() uint16 {
	if s.Side {
		return 1
	}
	return 0
}

func (s *NodeSeg) String() string {
	return fmt.Sprintf("Linedef: %d Flip: %d Offset: %v %s - %s",
		s.Linedef, s.getFlip(), s.Offset, VecToString(s.P1), VecToString(s.P2))
}

// BspNode is either *NodeLeaf or *NodeInProcess
type BspNode interface {
	Bounds() Box
	isBspNode()
}

// NodeLeaf is what becomes a subsector. It never has zero segs: it is only
// created from a seg list that no partition line could split
type NodeLeaf struct {
	Segs   []NodeSeg
	Bbox   Box
	Region Poly // convex area left after carving by every leaf seg
}

func (n *NodeLeaf) Bounds() Box { return n.Bbox }

func (n *NodeLeaf) isBspNode() {}

// NodeInProcess is a node that has partition line and two children
type NodeInProcess struct {
	Part         Splitter
	Lbox         Box // left bounding box
	Rbox         Box // right bounding box
	nextL, nextR BspNode
}

func (n *NodeInProcess) Bounds() Box { return n.Lbox.Union(n.Rbox) }

func (n *NodeInProcess) isBspNode() {}

func (n *NodeInProcess) Left() BspNode { return n.nextL }

func (n *NodeInProcess) Right() BspNode { return n.nextR }

type NodesTotals struct {
	numNodes    int
	numSSectors int
	numSegs     int
	numSplits   int
}

// NodesWork is private working set of a single nodes build. Nothing in it is
// shared with builds of other levels
type NodesWork struct {
	mlog      *MiniLogger
	splitCost int
	totals    NodesTotals
	// Output
	vi     *VertexInterner
	output *NodesOutput
}

func NewNodesWork(splitCost int, mlog *MiniLogger) *NodesWork {
	return &NodesWork{
		mlog:      mlog,
		splitCost: splitCost,
	}
}

// createSegs makes one seg per linedef in its own direction, and another,
// reversed, one for two-sided linedefs. Order is linedef order, front seg
// before back seg
func createSegs(lines []Linedef, vertices []Vertex, mlog *MiniLogger) []NodeSeg {
	res := make([]NodeSeg, 0, len(lines)*2)
	for i, line := range lines {
		v1 := vertices[line.StartVertex]
		v2 := vertices[line.EndVertex]
		if v1 == v2 {
			mlog.Verbose(1, "Linedef %d has zero length - no segs created for it.\n", i)
			continue
		}
		p1 := Vec2f{float32(v1.XPos), float32(v1.YPos)}
		p2 := Vec2f{float32(v2.XPos), float32(v2.YPos)}
		res = append(res, NodeSeg{
			P1:      p1,
			P2:      p2,
			Side:    false,
			Offset:  0,
			Linedef: uint16(i),
		})
		if line.Flags&LF_TWOSIDED != 0 {
			res = append(res, NodeSeg{
				P1:      p2,
				P2:      p1,
				Side:    true,
				Offset:  0,
				Linedef: uint16(i),
			})
		}
	}
	return res
}

// BuildTree builds the whole tree. Bounds is level's bounding box, it is what
// root node's polygon is. Empty seg list produces nil (empty) tree
func (w *NodesWork) BuildTree(segs []NodeSeg, bounds Box) BspNode {
	if len(segs) == 0 {
		return nil
	}
	return CreateNode(w, segs, PolyFromBox(bounds))
}

// CreateNode is the recursive part. It either returns a leaf (no seg can
// serve as partition line) or a node with children built from segs on each
// side of the chosen partition line, and with the polygon cut in two
func CreateNode(w *NodesWork, segs []NodeSeg, poly Poly) BspNode {
	best, ok := PickNode_traditional(w, segs)
	if !ok {
		leaf := &NodeLeaf{
			Segs:   segs,
			Bbox:   segsBounds(segs),
			Region: carve(segs, poly),
		}
		w.totals.numSSectors++
		w.totals.numSegs += len(segs)
		w.mlog.Verbose(3, "Subsector %d: %d segs, region area %v.\n",
			w.totals.numSSectors-1, len(segs), leaf.Region.Area())
		return leaf
	}

	part := SplitterFromSeg(&segs[best], w.mlog)
	front, back := w.DivideSegs(segs, best, part)
	lpoly, rpoly := part.CutPoly(poly)

	node := &NodeInProcess{Part: part}
	node.nextL = CreateNode(w, front, lpoly)
	node.nextR = CreateNode(w, back, rpoly)
	node.Lbox = node.nextL.Bounds()
	node.Rbox = node.nextR.Bounds()
	w.totals.numNodes++
	return node
}

// DivideSegs sorts segs to left (front) and right (back) lists relative to
// the partition line made from segs[partIdx]. Segs that straddle the line are
// cut in two. Partition seg itself goes to the front
func (w *NodesWork) DivideSegs(segs []NodeSeg, partIdx int,
	part Splitter) ([]NodeSeg, []NodeSeg) {
	front := make([]NodeSeg, 0, len(segs))
	back := make([]NodeSeg, 0, len(segs))
	for i := range segs {
		if i == partIdx {
			front = append(front, segs[i])
			continue
		}
		switch part.SegSide(&segs[i]) {
		case SIDE_LEFT:
			{
				front = append(front, segs[i])
			}
		case SIDE_RIGHT:
			{
				back = append(back, segs[i])
			}
		default:
			{
				l, r := part.CutSeg(&segs[i])
				front = append(front, l)
				back = append(back, r)
				w.totals.numSplits++
			}
		}
	}
	return front, back
}

// carve cuts the polygon by every seg of the leaf, each time retaining the
// left piece. What's left is the leaf's own convex region
func carve(segs []NodeSeg, poly Poly) Poly {
	carved := poly
	for i := range segs {
		carved, _ = SplitterFromSeg(&segs[i], nil).CutPoly(carved)
	}
	return carved
}

func segsBounds(segs []NodeSeg) Box {
	bbox := BoxAround(segs[0].P1)
	for i := range segs {
		bbox.Extend(segs[i].P1)
		bbox.Extend(segs[i].P2)
	}
	return bbox
}

func HeightOfNodes(node BspNode) int {
	n, ok := node.(*NodeInProcess)
	if !ok {
		if node == nil {
			return 0
		}
		return 1
	}
	lHeight := HeightOfNodes(n.nextL) + 1
	rHeight := HeightOfNodes(n.nextR) + 1
	if lHeight < rHeight {
		return rHeight
	}
	return lHeight
}

// Leaves lists leaves in the order they are serialized (left subtree first)
func Leaves(node BspNode) []*NodeLeaf {
	var res []*NodeLeaf
	var visit func(BspNode)
	visit = func(node BspNode) {
		switch n := node.(type) {
		case *NodeLeaf:
			{
				res = append(res, n)
			}
		case *NodeInProcess:
			{
				visit(n.nextL)
				visit(n.nextR)
			}
		}
	}
	visit(node)
	return res
}
