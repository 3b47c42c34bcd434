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
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockmapWords(t *testing.T, data []byte) []uint16 {
	require.Zero(t, len(data)%2)
	res := make([]uint16, len(data)/2)
	for i := range res {
		res[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return res
}

func TestBlockmapSquareRoom(t *testing.T) {
	lines, vertices := squareRoom()
	bm := CreateBlockmap(lines, vertices, GetBounds(vertices))
	data, err := bm.GetBytes()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 0, 1, 1, 5, 0, 0, 1, 2, 3, 0xFFFF},
		blockmapWords(t, data))
}

func TestBlockmapLRoom(t *testing.T) {
	lines, vertices := lRoom()
	bm := CreateBlockmap(lines, vertices, GetBounds(vertices))
	assert.Equal(t, BlockMapHeader{XMin: 0, YMin: 0, XBlocks: 2, YBlocks: 2}, bm.Header())
	assert.Equal(t, BlockLines{0, 2, 3, 5}, bm.Blocklist(0, 0))
	assert.Equal(t, BlockLines{2, 3, 4, 5}, bm.Blocklist(1, 0))
	assert.Equal(t, BlockLines{0, 1, 2, 3}, bm.Blocklist(0, 1))
	assert.Equal(t, BlockLines{1, 2, 3, 4}, bm.Blocklist(1, 1))
	assert.Equal(t, 4, bm.NumDistinctLists())
}

func TestBlockmapSharesIdenticalLists(t *testing.T) {
	vertices := roomVertices(0, 0, 0, 512, 512, 512, 512, 0)
	lines := roomLinedefs(len(vertices))
	bm := CreateBlockmap(lines, vertices, GetBounds(vertices))
	require.Equal(t, uint16(4), bm.Header().XBlocks)
	require.Equal(t, uint16(4), bm.Header().YBlocks)
	assert.Equal(t, 9, bm.NumDistinctLists())

	data, err := bm.GetBytes()
	require.NoError(t, err)
	words := blockmapWords(t, data)
	require.Len(t, words, 50)
	offsets := words[BLOCKMAP_HEADER_WORDS : BLOCKMAP_HEADER_WORDS+16]
	assert.Equal(t, []uint16{
		20, 24, 24, 27,
		31, 34, 34, 36,
		31, 34, 34, 36,
		39, 43, 43, 46,
	}, offsets)
	// empty list is just the markers
	assert.Equal(t, []uint16{BLOCKLIST_START, BLOCKLIST_END}, words[34:36])
}

func TestBlockmapDeterministic(t *testing.T) {
	lines, vertices := splitSquareRoom()
	first, err := CreateBlockmap(lines, vertices, GetBounds(vertices)).GetBytes()
	require.NoError(t, err)
	second, err := CreateBlockmap(lines, vertices, GetBounds(vertices)).GetBytes()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestBlockmapRoundTrip(t *testing.T) {
	vertices := roomVertices(-300, -200, -300, 450, 200, 450, 200, 100, 700, 100, 700, -200)
	lines := roomLinedefs(len(vertices))
	bm := CreateBlockmap(lines, vertices, GetBounds(vertices))
	data, err := bm.GetBytes()
	require.NoError(t, err)

	header, lists, err := DecodeBlockmap(data)
	require.NoError(t, err)
	assert.Equal(t, bm.Header(), header)
	assert.Equal(t, int16(-300), header.XMin)
	assert.Equal(t, int16(-200), header.YMin)
	require.Len(t, lists, int(header.XBlocks)*int(header.YBlocks))

	// Recompute each block's list straight from the predicate
	for y := 0; y < int(header.YBlocks); y++ {
		for x := 0; x < int(header.XBlocks); x++ {
			box := bm.BlockBox(x, y)
			want := BlockLines{}
			for i, line := range lines {
				v1, v2 := vertices[line.StartVertex], vertices[line.EndVertex]
				l := Line{
					A: Vec2f{float32(v1.XPos), float32(v1.YPos)},
					B: Vec2f{float32(v2.XPos), float32(v2.YPos)},
				}
				if box.ContainsLine(l) {
					want = append(want, uint16(i))
				}
			}
			assert.Equal(t, want, lists[y*int(header.XBlocks)+x], "block (%d, %d)", x, y)
		}
	}
}

func TestBlockmapEmptyMap(t *testing.T) {
	bm := CreateBlockmap(nil, nil, GetBounds(nil))
	data, err := bm.GetBytes()
	require.NoError(t, err)
	assert.Equal(t, []uint16{0, 0, 0, 0}, blockmapWords(t, data))
	header, lists, err := DecodeBlockmap(data)
	require.NoError(t, err)
	assert.Equal(t, BlockMapHeader{}, header)
	assert.Empty(t, lists)
}

func TestBlockmapTooBig(t *testing.T) {
	bm := &Blockmap{
		header:    BlockMapHeader{XBlocks: 300, YBlocks: 300},
		blocklist: make([]BlockLines, 300*300),
	}
	_, err := bm.GetBytes()
	assert.ErrorIs(t, err, ErrBlockmapTooBig)
}

func TestDecodeBlockmapRejectsBrokenData(t *testing.T) {
	lines, vertices := squareRoom()
	data, err := CreateBlockmap(lines, vertices, GetBounds(vertices)).GetBytes()
	require.NoError(t, err)

	_, _, err = DecodeBlockmap(data[:6])
	assert.Error(t, err, "too short for header")

	_, _, err = DecodeBlockmap(data[:8])
	assert.Error(t, err, "offset table missing")

	_, _, err = DecodeBlockmap(data[:len(data)-2])
	assert.Error(t, err, "no terminator")

	broken := append([]byte(nil), data...)
	binary.LittleEndian.PutUint16(broken[10:], 7) // start marker itself
	_, _, err = DecodeBlockmap(broken)
	assert.Error(t, err, "no start marker")
}

func TestBlocklistHash(t *testing.T) {
	a := BlockLines{1, 2, 3}
	b := BlockLines{1, 2, 3}
	c := BlockLines{3, 2, 1}
	assert.Equal(t, a.Hash(), b.Hash())
	assert.True(t, CompareBlocklist(a, b))
	assert.False(t, CompareBlocklist(a, c))
	assert.False(t, CompareBlocklist(a, a[:2]))
	assert.True(t, CompareBlocklist(nil, BlockLines{}))
}
