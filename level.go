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

	"github.com/pkg/errors"
)

var ErrMissingLump = errors.New("missing lump")
var ErrLevelInvalid = errors.New("level data is invalid")

type LevelBounds struct {
	Xmin int16
	Ymin int16
	Xmax int16
	Ymax int16
}

// Level is DOOM format map data, loaded from lumps that follow its marker
type Level struct {
	Name     string
	Marker   int // directory index of level marker lump
	Things   []Thing
	Linedefs []Linedef
	Sidedefs []Sidedef
	Vertices []Vertex
	Sectors  []Sector
}

// What gets written back into level, in the order lumps are saved
type levelLumpData struct {
	name string
	data []byte
}

// LoadLevel reads and parses required lumps of the level whose marker is at
// the given directory index
func LoadLevel(wad *Wad, marker int) (*Level, error) {
	name := wad.LevelName(marker)
	if name == "" {
		return nil, errors.Errorf("no level marker at lump %d", marker)
	}
	for _, req := range LUMP_MUSTEXIST {
		if !wad.HasLevelLump(marker, req) {
			return nil, errors.Wrapf(ErrMissingLump, "level %s has no %s", name, req)
		}
	}
	l := &Level{Name: name, Marker: marker}
	var err error
	if l.Things, err = ParseGenericLump[Thing](wad.ReadLevelLump(marker, "THINGS"),
		DOOM_THING_SIZE, "THINGS"); err != nil {
		return nil, err
	}
	if l.Linedefs, err = ParseGenericLump[Linedef](wad.ReadLevelLump(marker, "LINEDEFS"),
		DOOM_LINEDEF_SIZE, "LINEDEFS"); err != nil {
		return nil, err
	}
	if l.Sidedefs, err = ParseGenericLump[Sidedef](wad.ReadLevelLump(marker, "SIDEDEFS"),
		DOOM_SIDEDEF_SIZE, "SIDEDEFS"); err != nil {
		return nil, err
	}
	if l.Vertices, err = ParseGenericLump[Vertex](wad.ReadLevelLump(marker, "VERTEXES"),
		DOOM_VERTEX_SIZE, "VERTEXES"); err != nil {
		return nil, err
	}
	if l.Sectors, err = ParseGenericLump[Sector](wad.ReadLevelLump(marker, "SECTORS"),
		DOOM_SECTOR_SIZE, "SECTORS"); err != nil {
		return nil, err
	}
	return l, nil
}

// Validate checks that every index stored in level data points to something
// that exists
func (l *Level) Validate() error {
	numVertices := len(l.Vertices)
	numSidedefs := len(l.Sidedefs)
	for i, line := range l.Linedefs {
		if int(line.StartVertex) >= numVertices || int(line.EndVertex) >= numVertices {
			return errors.Wrapf(ErrLevelInvalid,
				"linedef %d references vertex %d-%d, but there are only %d vertices",
				i, line.StartVertex, line.EndVertex, numVertices)
		}
		if line.FrontSdef != SIDEDEF_NONE && int(line.FrontSdef) >= numSidedefs {
			return errors.Wrapf(ErrLevelInvalid,
				"linedef %d references front sidedef %d, but there are only %d sidedefs",
				i, line.FrontSdef, numSidedefs)
		}
		if line.BackSdef != SIDEDEF_NONE && int(line.BackSdef) >= numSidedefs {
			return errors.Wrapf(ErrLevelInvalid,
				"linedef %d references back sidedef %d, but there are only %d sidedefs",
				i, line.BackSdef, numSidedefs)
		}
	}
	for i, side := range l.Sidedefs {
		if int(side.Sector) >= len(l.Sectors) {
			return errors.Wrapf(ErrLevelInvalid,
				"sidedef %d references sector %d, but there are only %d sectors",
				i, side.Sector, len(l.Sectors))
		}
	}
	return nil
}

func (l *Level) Bounds() LevelBounds {
	return GetBounds(l.Vertices)
}

// GetBounds returns (0,0)-(0,0) when there are no vertices
func GetBounds(vertices []Vertex) LevelBounds {
	if len(vertices) == 0 {
		return LevelBounds{}
	}
	Xmin := int16(32767)
	Ymin := int16(32767)
	Xmax := int16(-32768)
	Ymax := int16(-32768)
	for _, v := range vertices {
		if v.XPos < Xmin {
			Xmin = v.XPos
		}
		if v.YPos < Ymin {
			Ymin = v.YPos
		}
		if v.XPos > Xmax {
			Xmax = v.XPos
		}
		if v.YPos > Ymax {
			Ymax = v.YPos
		}
	}
	return LevelBounds{
		Xmin: Xmin,
		Ymin: Ymin,
		Xmax: Xmax,
		Ymax: Ymax,
	}
}

func (b LevelBounds) Offset() Vec2f {
	return Vec2f{float32(b.Xmin), float32(b.Ymin)}
}

func (b LevelBounds) Size() Vec2f {
	return Vec2f{float32(int(b.Xmax) - int(b.Xmin)), float32(int(b.Ymax) - int(b.Ymin))}
}

func (b LevelBounds) Box() Box {
	return NewBox(b.Offset(), b.Offset().Add(b.Size()))
}

// Reject lump size that fits a bit for each pair of sectors
func ZeroRejectSize(numSectors int) int {
	return (numSectors*numSectors + 7) / 8
}

// Rebuild computes new lumps for the level according to config. Nothing is
// written to wad until everything has been built, so a failure leaves level
// intact
func (l *Level) Rebuild(wad *Wad, mlog *MiniLogger) ([]levelLumpData, error) {
	res := make([]levelLumpData, 0, len(LUMP_CREATE)+2)
	bounds := l.Bounds()
	mlog.Verbose(1, "Bounds: (%d, %d) - (%d, %d)\n", bounds.Xmin, bounds.Ymin,
		bounds.Xmax, bounds.Ymax)

	if config.RebuildNodes {
		nodes, err := BuildNodes(l.Linedefs, l.Vertices, bounds.Box(),
			config.PickNodeFactor, mlog)
		if err != nil {
			return nil, err
		}
		mlog.Printf("Nodes: %d segs, %d subsectors, %d nodes, %d vertices, tree height %d\n",
			len(nodes.Segs), len(nodes.SSectors), len(nodes.Nodes),
			len(nodes.Vertices), nodes.Height)
		parts := []struct {
			name string
			data interface{}
		}{
			{"LINEDEFS", nodes.Linedefs},
			{"VERTEXES", nodes.Vertices},
			{"SEGS", nodes.Segs},
			{"SSECTORS", nodes.SSectors},
			{"NODES", nodes.Nodes},
		}
		for _, part := range parts {
			data, err := ConvertGenericLump(part.data)
			if err != nil {
				return nil, errors.WithMessagef(err, "lump %s", part.name)
			}
			res = append(res, levelLumpData{name: part.name, data: data})
		}
	}

	switch config.Reject {
	case REJECT_ZEROFILLED:
		{
			res = append(res, levelLumpData{name: "REJECT",
				data: make([]byte, ZeroRejectSize(len(l.Sectors)))})
		}
	case REJECT_KEEP:
		{
			if !wad.HasLevelLump(l.Marker, "REJECT") {
				mlog.Printf("No REJECT, creating zero-filled one\n")
				res = append(res, levelLumpData{name: "REJECT",
					data: make([]byte, ZeroRejectSize(len(l.Sectors)))})
			}
		}
	}

	if config.RebuildBlockmap {
		bm := CreateBlockmap(l.Linedefs, l.Vertices, bounds)
		data, err := bm.GetBytes()
		if err != nil {
			return nil, err
		}
		mlog.Printf("Blockmap: %dx%d blocks, %d distinct lists, %d bytes\n",
			bm.header.XBlocks, bm.header.YBlocks, bm.NumDistinctLists(), len(data))
		if config.VerbosityLevel >= 2 {
			verifyBlockmap(bm, data, mlog)
		}
		res = append(res, levelLumpData{name: "BLOCKMAP", data: data})
	}
	return res, nil
}

// verifyBlockmap decodes what was just encoded and compares it to the lists
// it was built from
func verifyBlockmap(bm *Blockmap, data []byte, mlog *MiniLogger) {
	header, lists, err := DecodeBlockmap(data)
	if err != nil {
		mlog.Error("Blockmap self-check failed: %s\n", err.Error())
		return
	}
	if header != bm.header {
		mlog.Error("Blockmap self-check failed: header mismatch %v vs %v\n",
			header, bm.header)
		return
	}
	for i := range lists {
		if !CompareBlocklist(lists[i], bm.blocklist[i]) {
			mlog.Error("Blockmap self-check failed: block %d decodes as %v instead of %v\n",
				i, lists[i], bm.blocklist[i])
			return
		}
	}
	mlog.Verbose(2, "Blockmap self-check passed.\n")
}

// DoLevel rebuilds a single level inside the wad, the one whose marker is at
// the given directory index. On error the level is left as it was
func DoLevel(wad *Wad, marker int, mlog *MiniLogger) error {
	name := wad.LevelName(marker)
	if wad.HasLevelLump(marker, "BEHAVIOR") {
		return errors.Errorf("level %s is in Hexen format, which is not supported", name)
	}
	l, err := LoadLevel(wad, marker)
	if err != nil {
		return err
	}
	mlog.Verbose(1, "Loaded %d things, %d linedefs, %d sidedefs, %d vertices, %d sectors\n",
		len(l.Things), len(l.Linedefs), len(l.Sidedefs), len(l.Vertices), len(l.Sectors))
	if err := l.Validate(); err != nil {
		return err
	}
	lumps, err := l.Rebuild(wad, mlog)
	if err != nil {
		return errors.WithMessagef(err, "level %s", name)
	}
	for _, lname := range LUMP_CREATE {
		if !wad.HasLevelLump(marker, lname) && hasLump(lumps, lname) {
			mlog.Verbose(1, "Lump %s didn't exist, it will be created.\n", lname)
		}
	}
	for _, lump := range lumps {
		if err := wad.SaveLevelLump(marker, lump.name, lump.data); err != nil {
			return err
		}
	}
	return nil
}

func hasLump(lumps []levelLumpData, name string) bool {
	for _, lump := range lumps {
		if lump.name == name {
			return true
		}
	}
	return false
}

// CanRebuildThisLevel tells whether level passes -m / -x filter
func CanRebuildThisLevel(name []byte) bool {
	if len(config.FilterLevel) == 0 {
		return true
	}
	listed := false
	for _, filter := range config.FilterLevel {
		if bytes.Equal(filter, name) {
			listed = true
			break
		}
	}
	return listed != config.FilterProhibitsLevels
}
