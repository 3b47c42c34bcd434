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

// node_outro
package main

import (
	"github.com/chewxy/math32"
	"github.com/pkg/errors"
)

// Vanilla limits for the number of records that are referenced by 16-bit
// indices. Child references additionally reserve the top bit for the
// subsector flag
const (
	MAX_VERTICES = 65536
	MAX_SEGS     = 65536
	MAX_SSECTORS = 32768
	MAX_NODES    = 32768
)

var ErrNodesOverflow = errors.New("too many records for vanilla nodes format")

// NodesOutput is what goes into level lumps once nodes are built. Linedefs
// are a copy of the input with vertex indices pointing to the new Vertices
type NodesOutput struct {
	Vertices []Vertex
	Segs     []Seg
	SSectors []SubSector
	Nodes    []Node
	Linedefs []Linedef
	Height   int
}

// BuildNodes does the whole thing: segs from linedefs, the tree, and the
// lump records
func BuildNodes(lines []Linedef, vertices []Vertex, bounds Box, splitCost int,
	mlog *MiniLogger) (*NodesOutput, error) {
	w := NewNodesWork(splitCost, mlog)
	segs := createSegs(lines, vertices, mlog)
	mlog.Verbose(1, "Created %d segs from %d linedefs.\n", len(segs), len(lines))
	root := w.BuildTree(segs, bounds)
	mlog.Verbose(1, "Tree has %d nodes and %d subsectors, %d segs were split.\n",
		w.totals.numNodes, w.totals.numSSectors, w.totals.numSplits)
	if w.tooManyRecords() {
		return nil, errors.Wrapf(ErrNodesOverflow,
			"%d nodes, %d subsectors, %d segs", w.totals.numNodes,
			w.totals.numSSectors, w.totals.numSegs)
	}
	out := w.Serialize(root, lines, vertices)
	if len(out.Vertices) > MAX_VERTICES {
		return nil, errors.Wrapf(ErrNodesOverflow, "%d vertices",
			len(out.Vertices))
	}
	return out, nil
}

func (w *NodesWork) tooManyRecords() bool {
	return w.totals.numNodes > MAX_NODES || w.totals.numSSectors > MAX_SSECTORS ||
		w.totals.numSegs > MAX_SEGS
}

// Serialize flattens the tree. Vertices of the original linedefs are
// interned first, so they keep their relative order, then come the vertices
// introduced by splits
func (w *NodesWork) Serialize(root BspNode, lines []Linedef,
	vertices []Vertex) *NodesOutput {
	w.vi = NewVertexInterner()
	w.output = &NodesOutput{
		Segs:     make([]Seg, 0, w.totals.numSegs),
		SSectors: make([]SubSector, 0, w.totals.numSSectors),
		Nodes:    make([]Node, 0, w.totals.numNodes),
		Linedefs: make([]Linedef, len(lines)),
	}
	for i, line := range lines {
		v1 := vertices[line.StartVertex]
		v2 := vertices[line.EndVertex]
		line.StartVertex = uint16(w.vi.SelectVertexExact(v1.XPos, v1.YPos))
		line.EndVertex = uint16(w.vi.SelectVertexExact(v2.XPos, v2.YPos))
		w.output.Linedefs[i] = line
	}
	if root != nil {
		w.reverseNodes(root)
	}
	w.output.Vertices = w.vi.Vertices()
	w.output.Height = HeightOfNodes(root)
	return w.output
}

// reverseNodes writes children before the parent, so that whoever is higher in
// the tree always has a larger index and the root node ends up last.
// Returns the reference to store in parent's child field
func (w *NodesWork) reverseNodes(node BspNode) uint16 {
	switch n := node.(type) {
	case *NodeLeaf:
		{
			return w.convertLeaf(n) | SSECTOR_NORMAL_MASK
		}
	case *NodeInProcess:
		{
			lchild := w.reverseNodes(n.nextL)
			rchild := w.reverseNodes(n.nextR)
			w.output.Nodes = append(w.output.Nodes, Node{
				X:      RoundToInt16(n.Part.P.X()),
				Y:      RoundToInt16(n.Part.P.Y()),
				Dx:     RoundToInt16(n.Part.Dx),
				Dy:     RoundToInt16(n.Part.Dy),
				Lbox:   boxToNodeBounds(n.Lbox),
				Rbox:   boxToNodeBounds(n.Rbox),
				LChild: lchild,
				RChild: rchild,
			})
			return uint16(len(w.output.Nodes) - 1)
		}
	default:
		{
			Log.Panic("Unknown node type %T\n", node)
		}
	}
	return 0
}

func (w *NodesWork) convertLeaf(leaf *NodeLeaf) uint16 {
	ssIdx := len(w.output.SSectors)
	w.output.SSectors = append(w.output.SSectors, SubSector{
		SegCount: uint16(len(leaf.Segs)),
		FirstSeg: uint16(len(w.output.Segs)),
	})
	for i := range leaf.Segs {
		w.output.Segs = append(w.output.Segs, w.convertSeg(&leaf.Segs[i]))
	}
	return uint16(ssIdx)
}

func (w *NodesWork) convertSeg(s *NodeSeg) Seg {
	return Seg{
		StartVertex: uint16(w.vi.SelectVertexRounded(s.P1)),
		EndVertex:   uint16(w.vi.SelectVertexRounded(s.P2)),
		Angle:       s.Angle(),
		Linedef:     s.Linedef,
		Flip:        s.getFlip(),
		Offset:      uint16(int32(s.Offset)),
	}
}

// Bounds are widened to integer grid so that the box still encloses all of
// node's geometry
func boxToNodeBounds(b Box) [4]int16 {
	var res [4]int16
	res[BB_TOP] = int16(math32.Ceil(b.Max().Y()))
	res[BB_BOTTOM] = int16(math32.Floor(b.Min().Y()))
	res[BB_LEFT] = int16(math32.Floor(b.Min().X()))
	res[BB_RIGHT] = int16(math32.Ceil(b.Max().X()))
	return res
}
