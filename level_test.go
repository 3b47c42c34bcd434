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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lRoomWad(t *testing.T) *Wad {
	lines, vertices := lRoom()
	return &Wad{
		MagicSig: PWAD_MAGIC_SIG,
		Lumps:    levelLumps(t, "MAP01", lines, vertices),
	}
}

func TestGetBounds(t *testing.T) {
	_, vertices := lRoom()
	b := GetBounds(vertices)
	assert.Equal(t, LevelBounds{Xmin: 0, Ymin: 0, Xmax: 256, Ymax: 256}, b)
	assert.Equal(t, Vec2f{0, 0}, b.Offset())
	assert.Equal(t, Vec2f{256, 256}, b.Size())

	b = GetBounds(roomVertices(-64, 32, 96, -16))
	assert.Equal(t, LevelBounds{Xmin: -64, Ymin: -16, Xmax: 96, Ymax: 32}, b)
	assert.Equal(t, Vec2f{160, 48}, b.Size())

	assert.Equal(t, LevelBounds{}, GetBounds(nil))
}

func TestLoadLevel(t *testing.T) {
	wad := lRoomWad(t)
	l, err := LoadLevel(wad, wad.FindLevel("MAP01"))
	require.NoError(t, err)
	lines, vertices := lRoom()
	assert.Equal(t, lines, l.Linedefs)
	assert.Equal(t, vertices, l.Vertices)
	assert.Len(t, l.Sidedefs, 6)
	assert.Len(t, l.Sectors, 1)
	assert.Len(t, l.Things, 1)
	assert.NoError(t, l.Validate())
}

func TestLoadLevelMalformed(t *testing.T) {
	wad := lRoomWad(t)
	wad.Lumps = append(wad.Lumps[:4], wad.Lumps[5:]...) // drop VERTEXES
	_, err := LoadLevel(wad, wad.FindLevel("MAP01"))
	assert.ErrorIs(t, err, ErrMissingLump)

	wad = lRoomWad(t)
	require.True(t, wad.ReplaceLevelLump(wad.FindLevel("MAP01"), "LINEDEFS", make([]byte, 15)))
	_, err = LoadLevel(wad, wad.FindLevel("MAP01"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	wad := lRoomWad(t)
	l, err := LoadLevel(wad, wad.FindLevel("MAP01"))
	require.NoError(t, err)

	l.Linedefs[2].EndVertex = 6
	assert.ErrorIs(t, l.Validate(), ErrLevelInvalid)

	l.Linedefs[2].EndVertex = 3
	l.Linedefs[2].BackSdef = 6
	assert.ErrorIs(t, l.Validate(), ErrLevelInvalid)

	l.Linedefs[2].BackSdef = SIDEDEF_NONE
	l.Sidedefs[0].Sector = 1
	assert.ErrorIs(t, l.Validate(), ErrLevelInvalid)
}

func TestDoLevel(t *testing.T) {
	withConfig(t, DefaultConfig())
	wad := lRoomWad(t)
	require.NoError(t, DoLevel(wad, wad.FindLevel("MAP01"), nil))
	assert.Equal(t, []string{"MAP01", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES",
		"SEGS", "SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP"}, lumpNames(wad))

	vertices, err := ParseGenericLump[Vertex](wad.ReadLevelLump(wad.FindLevel("MAP01"), "VERTEXES"),
		DOOM_VERTEX_SIZE, "VERTEXES")
	require.NoError(t, err)
	assert.Len(t, vertices, 7)
	assert.Len(t, wad.ReadLevelLump(wad.FindLevel("MAP01"), "SEGS"), 7*12)
	assert.Len(t, wad.ReadLevelLump(wad.FindLevel("MAP01"), "SSECTORS"), 2*4)
	assert.Len(t, wad.ReadLevelLump(wad.FindLevel("MAP01"), "NODES"), 28)
	assert.Equal(t, []byte{0}, wad.ReadLevelLump(wad.FindLevel("MAP01"), "REJECT"))

	header, lists, err := DecodeBlockmap(wad.ReadLevelLump(wad.FindLevel("MAP01"), "BLOCKMAP"))
	require.NoError(t, err)
	assert.Equal(t, uint16(2), header.XBlocks)
	assert.Equal(t, BlockLines{1, 2, 3, 4}, lists[3])
}

func TestDoLevelRejectModes(t *testing.T) {
	cfg := DefaultConfig()
	cfg.RebuildNodes = false
	cfg.RebuildBlockmap = false
	withConfig(t, cfg)

	wad := lRoomWad(t)
	require.NoError(t, wad.SaveLevelLump(wad.FindLevel("MAP01"), "REJECT", []byte{0xAA}))
	require.NoError(t, DoLevel(wad, wad.FindLevel("MAP01"), nil))
	assert.Equal(t, []byte{0xAA}, wad.ReadLevelLump(wad.FindLevel("MAP01"), "REJECT"), "existing reject is kept")
	assert.False(t, wad.HasLevelLump(wad.FindLevel("MAP01"), "NODES"))

	cfg.Reject = REJECT_ZEROFILLED
	require.NoError(t, DoLevel(wad, wad.FindLevel("MAP01"), nil))
	assert.Equal(t, []byte{0}, wad.ReadLevelLump(wad.FindLevel("MAP01"), "REJECT"))

	cfg.Reject = REJECT_DONTTOUCH
	wad = lRoomWad(t)
	require.NoError(t, DoLevel(wad, wad.FindLevel("MAP01"), nil))
	assert.False(t, wad.HasLevelLump(wad.FindLevel("MAP01"), "REJECT"))
}

func TestZeroRejectSize(t *testing.T) {
	assert.Equal(t, 0, ZeroRejectSize(0))
	assert.Equal(t, 1, ZeroRejectSize(1))
	assert.Equal(t, 2, ZeroRejectSize(3))
	assert.Equal(t, 8, ZeroRejectSize(8))
	assert.Equal(t, 13, ZeroRejectSize(10))
}

func TestDoLevelLeavesBrokenLevelAlone(t *testing.T) {
	withConfig(t, DefaultConfig())
	lines, vertices := lRoom()
	lines[0].EndVertex = 100
	wad := &Wad{MagicSig: PWAD_MAGIC_SIG, Lumps: levelLumps(t, "MAP01", lines, vertices)}
	before := lumpNames(wad)
	err := DoLevel(wad, wad.FindLevel("MAP01"), nil)
	assert.ErrorIs(t, err, ErrLevelInvalid)
	assert.Equal(t, before, lumpNames(wad))
}

func TestProcessLevels(t *testing.T) {
	withConfig(t, DefaultConfig())
	_, stderr := withQuietLog(t)

	lines, vertices := lRoom()
	broken := append([]Linedef(nil), lines...)
	broken[3].EndVertex = 77
	sq, sqVertices := squareRoom()
	lumps := levelLumps(t, "MAP01", lines, vertices)
	lumps = append(lumps, levelLumps(t, "MAP02", broken, vertices)...)
	lumps = append(lumps, levelLumps(t, "MAP03", sq, sqVertices)...)
	wad := &Wad{MagicSig: PWAD_MAGIC_SIG, Lumps: lumps}

	done, failed := ProcessLevels(wad)
	assert.Equal(t, 2, done)
	assert.Equal(t, 1, failed)
	assert.True(t, wad.HasLevelLump(wad.FindLevel("MAP01"), "NODES"))
	assert.False(t, wad.HasLevelLump(wad.FindLevel("MAP02"), "NODES"))
	assert.True(t, wad.HasLevelLump(wad.FindLevel("MAP03"), "BLOCKMAP"))
	assert.Contains(t, stderr.String(), "MAP02")
}

func TestProcessLevelsSameName(t *testing.T) {
	withConfig(t, DefaultConfig())
	withQuietLog(t)

	sq, sqVertices := squareRoom()
	lines, vertices := lRoom()
	lumps := levelLumps(t, "MAP01", sq, sqVertices)
	lumps = append(lumps, levelLumps(t, "MAP01", lines, vertices)...)
	wad := &Wad{MagicSig: PWAD_MAGIC_SIG, Lumps: lumps}

	done, failed := ProcessLevels(wad)
	assert.Equal(t, 2, done)
	assert.Equal(t, 0, failed)

	levelNames := []string{"MAP01", "THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES",
		"SEGS", "SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP"}
	assert.Equal(t, append(levelNames, levelNames...), lumpNames(wad))

	markers := wad.LevelMarkers()
	require.Equal(t, []int{0, 11}, markers)
	assert.Len(t, wad.ReadLevelLump(markers[0], "SEGS"), 4*12)
	assert.Len(t, wad.ReadLevelLump(markers[0], "SSECTORS"), 4)
	assert.Empty(t, wad.ReadLevelLump(markers[0], "NODES"))
	assert.Len(t, wad.ReadLevelLump(markers[1], "SEGS"), 7*12)
	assert.Len(t, wad.ReadLevelLump(markers[1], "SSECTORS"), 2*4)
	assert.Len(t, wad.ReadLevelLump(markers[1], "NODES"), 28)
}

func TestProcessLevelsFilter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FilterLevel = [][]byte{[]byte("MAP02"), []byte("MAP09")}
	withConfig(t, cfg)
	_, stderr := withQuietLog(t)

	lines, vertices := lRoom()
	lumps := levelLumps(t, "MAP01", lines, vertices)
	lumps = append(lumps, levelLumps(t, "MAP02", lines, vertices)...)
	wad := &Wad{MagicSig: PWAD_MAGIC_SIG, Lumps: lumps}

	done, failed := ProcessLevels(wad)
	assert.Equal(t, 1, done)
	assert.Equal(t, 0, failed)
	assert.False(t, wad.HasLevelLump(wad.FindLevel("MAP01"), "NODES"))
	assert.True(t, wad.HasLevelLump(wad.FindLevel("MAP02"), "NODES"))
	assert.Contains(t, stderr.String(), "MAP09")
	assert.NotContains(t, stderr.String(), "MAP02")
}

func TestCanRebuildThisLevel(t *testing.T) {
	cfg := DefaultConfig()
	withConfig(t, cfg)
	assert.True(t, CanRebuildThisLevel([]byte("MAP01")))

	cfg.FilterLevel = [][]byte{[]byte("MAP01"), []byte("E1M1")}
	assert.True(t, CanRebuildThisLevel([]byte("E1M1")))
	assert.False(t, CanRebuildThisLevel([]byte("MAP02")))

	cfg.FilterProhibitsLevels = true
	assert.False(t, CanRebuildThisLevel([]byte("E1M1")))
	assert.True(t, CanRebuildThisLevel([]byte("MAP02")))
}
