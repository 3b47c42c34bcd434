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
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

// Fixtures shared by tests. Every room is a single sector, linedefs go
// clockwise (v[i] -> v[i+1], last one closes the loop), so that front side
// faces the inside

func roomVertices(coords ...int16) []Vertex {
	res := make([]Vertex, 0, len(coords)/2)
	for i := 0; i+1 < len(coords); i += 2 {
		res = append(res, Vertex{XPos: coords[i], YPos: coords[i+1]})
	}
	return res
}

func roomLinedefs(numVertices int) []Linedef {
	res := make([]Linedef, numVertices)
	for i := range res {
		res[i] = Linedef{
			StartVertex: uint16(i),
			EndVertex:   uint16((i + 1) % numVertices),
			Flags:       LF_IMPASSABLE,
			FrontSdef:   uint16(i),
			BackSdef:    SIDEDEF_NONE,
		}
	}
	return res
}

// 128x128 square, convex
func squareRoom() ([]Linedef, []Vertex) {
	vertices := roomVertices(0, 0, 0, 128, 128, 128, 128, 0)
	return roomLinedefs(len(vertices)), vertices
}

// L-shaped room, 256x256 with the top right quarter cut out
func lRoom() ([]Linedef, []Vertex) {
	vertices := roomVertices(0, 0, 0, 256, 128, 256, 128, 128, 256, 128, 256, 0)
	return roomLinedefs(len(vertices)), vertices
}

// Square cut in two halves by a two-sided linedef at x = 64. Linedef 6 is
// the two-sided one
func splitSquareRoom() ([]Linedef, []Vertex) {
	vertices := roomVertices(0, 0, 0, 128, 64, 128, 128, 128, 128, 0, 64, 0)
	lines := roomLinedefs(len(vertices))
	lines = append(lines, Linedef{
		StartVertex: 5,
		EndVertex:   2,
		Flags:       LF_TWOSIDED,
		FrontSdef:   6,
		BackSdef:    7,
	})
	return lines, vertices
}

func boundsBox(vertices []Vertex) Box {
	return GetBounds(vertices).Box()
}

// levelLumps encodes a single sector level made of lines and vertices. All
// sidedefs face sector 0
func levelLumps(t *testing.T, name string, lines []Linedef, vertices []Vertex) []WadLump {
	numSidedefs := 0
	for _, line := range lines {
		if line.FrontSdef != SIDEDEF_NONE && int(line.FrontSdef) >= numSidedefs {
			numSidedefs = int(line.FrontSdef) + 1
		}
		if line.BackSdef != SIDEDEF_NONE && int(line.BackSdef) >= numSidedefs {
			numSidedefs = int(line.BackSdef) + 1
		}
	}
	sidedefs := make([]Sidedef, numSidedefs)
	for i := range sidedefs {
		sidedefs[i].MidName = lumpNameToBytes("STARTAN3")
	}
	things := []Thing{{XPos: 32, YPos: 32, Angle: 90, Type: 1, Flags: 7}}
	sectors := []Sector{{
		FloorHeight:   0,
		CeilingHeight: 128,
		FloorName:     lumpNameToBytes("FLOOR4_8"),
		CeilingName:   lumpNameToBytes("CEIL3_5"),
		LightLevel:    160,
	}}
	encode := func(data interface{}) []byte {
		b, err := ConvertGenericLump(data)
		require.NoError(t, err)
		return b
	}
	return []WadLump{
		{Name: name, Data: []byte{}},
		{Name: "THINGS", Data: encode(things)},
		{Name: "LINEDEFS", Data: encode(lines)},
		{Name: "SIDEDEFS", Data: encode(sidedefs)},
		{Name: "VERTEXES", Data: encode(vertices)},
		{Name: "SECTORS", Data: encode(sectors)},
	}
}

func lumpNames(wad *Wad) []string {
	res := make([]string, len(wad.Lumps))
	for i, lump := range wad.Lumps {
		res[i] = lump.Name
	}
	return res
}

// Tests that touch global config or log restore them afterwards
func withConfig(t *testing.T, cfg *ProgramConfig) {
	saved := config
	config = cfg
	t.Cleanup(func() { config = saved })
}

func withQuietLog(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	saved := Log
	var stdout, stderr bytes.Buffer
	Log = CreateLogger(&stdout, &stderr)
	t.Cleanup(func() { Log = saved })
	return &stdout, &stderr
}
