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

package main

import (
	"github.com/chewxy/math32"
)

// VertexInterner hands out indices into the new VERTEXES lump. Same (x, y)
// always yields the same index, new coordinates are appended in order of
// first lookup. Matching is exact - float vertices are rounded to the map
// grid before lookup
type VertexInterner struct {
	vertices []Vertex
	index    map[Vertex]int
}

func NewVertexInterner() *VertexInterner {
	return &VertexInterner{
		index: make(map[Vertex]int),
	}
}

func (vi *VertexInterner) SelectVertexExact(x, y int16) int {
	v := Vertex{XPos: x, YPos: y}
	if idx, ok := vi.index[v]; ok {
		return idx
	}
	idx := len(vi.vertices)
	vi.vertices = append(vi.vertices, v)
	vi.index[v] = idx
	return idx
}

func (vi *VertexInterner) SelectVertexRounded(v Vec2f) int {
	return vi.SelectVertexExact(RoundToInt16(v.X()), RoundToInt16(v.Y()))
}

func (vi *VertexInterner) Len() int {
	return len(vi.vertices)
}

func (vi *VertexInterner) Vertices() []Vertex {
	return vi.vertices
}

// RoundToInt16 rounds half away from zero
func RoundToInt16(x float32) int16 {
	if x < 0 {
		return -int16(math32.Floor(-x + 0.5))
	}
	return int16(math32.Floor(x + 0.5))
}
