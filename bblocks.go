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

// bblocks
package main

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

var ErrBlockmapTooBig = errors.New("blockmap offsets don't fit in 16 bits")

// Words of header: XMin, YMin, XBlocks, YBlocks
const BLOCKMAP_HEADER_WORDS = 4

type BlockLines []uint16

type Blockmap struct {
	blocklist []BlockLines // [<blocknum,num_line>] -> linedef's index in LINEDEFS lump
	header    BlockMapHeader
}

// Cells with identical linedef lists share the physical list in the lump
type blocklistGroup struct {
	lines BlockLines
	cells []int
}

// CreateBlockmap puts every linedef into every 128x128 block it touches. The
// grid starts at level's minimum corner. Blocks are scanned row by row,
// linedefs are tested in index order, so lists come out sorted
func CreateBlockmap(lines []Linedef, vertices []Vertex, bounds LevelBounds) *Blockmap {
	xblocks := (int(bounds.Xmax) - int(bounds.Xmin) + BLOCK_WIDTH - 1) >> BLOCK_BITS
	yblocks := (int(bounds.Ymax) - int(bounds.Ymin) + BLOCK_WIDTH - 1) >> BLOCK_BITS
	bm := &Blockmap{
		header: BlockMapHeader{
			XMin:    bounds.Xmin,
			YMin:    bounds.Ymin,
			XBlocks: uint16(xblocks),
			YBlocks: uint16(yblocks),
		},
		blocklist: make([]BlockLines, xblocks*yblocks),
	}

	lineGeom := make([]Line, len(lines))
	for i, line := range lines {
		v1 := vertices[line.StartVertex]
		v2 := vertices[line.EndVertex]
		lineGeom[i] = Line{
			A: Vec2f{float32(v1.XPos), float32(v1.YPos)},
			B: Vec2f{float32(v2.XPos), float32(v2.YPos)},
		}
	}

	for y := 0; y < yblocks; y++ {
		for x := 0; x < xblocks; x++ {
			box := bm.BlockBox(x, y)
			bl := make(BlockLines, 0)
			for i := range lineGeom {
				if box.ContainsLine(lineGeom[i]) {
					bl = append(bl, uint16(i))
				}
			}
			bm.blocklist[y*xblocks+x] = bl
		}
	}
	return bm
}

// BlockBox is the area covered by block (x, y), borders inclusive
func (bm *Blockmap) BlockBox(x, y int) Box {
	xmin := float32(int(bm.header.XMin) + x*BLOCK_WIDTH)
	ymin := float32(int(bm.header.YMin) + y*BLOCK_WIDTH)
	return NewBox(Vec2f{xmin, ymin},
		Vec2f{xmin + BLOCK_WIDTH, ymin + BLOCK_WIDTH})
}

func (bm *Blockmap) Header() BlockMapHeader {
	return bm.header
}

// Blocklist returns linedefs of block (x, y)
func (bm *Blockmap) Blocklist(x, y int) BlockLines {
	return bm.blocklist[y*int(bm.header.XBlocks)+x]
}

// groupBlocklists groups cells by identical content. Groups come in the
// order their first cell was encountered
func (bm *Blockmap) groupBlocklists() []blocklistGroup {
	groups := make([]blocklistGroup, 0)
	buckets := make(map[uint][]int) // hash -> indices into groups
	for cell, bl := range bm.blocklist {
		hash := bl.Hash()
		found := -1
		for _, gi := range buckets[hash] {
			if CompareBlocklist(groups[gi].lines, bl) {
				found = gi
				break
			}
		}
		if found < 0 {
			groups = append(groups, blocklistGroup{lines: bl})
			found = len(groups) - 1
			buckets[hash] = append(buckets[hash], found)
		}
		groups[found].cells = append(groups[found].cells, cell)
	}
	return groups
}

// NumDistinctLists is how many physical lists the lump will have
func (bm *Blockmap) NumDistinctLists() int {
	return len(bm.groupBlocklists())
}

// GetBytes returns BLOCKMAP lump: header, offset table (word offsets from
// lump start), then one 0000-prefixed, FFFF-terminated list per group of
// identical blocklists
func (bm *Blockmap) GetBytes() ([]byte, error) {
	groups := bm.groupBlocklists()
	totalblocks := len(bm.blocklist)

	lumpWords := BLOCKMAP_HEADER_WORDS + totalblocks
	for _, g := range groups {
		lumpWords += len(g.lines) + 2
	}

	lumpWriter := CreateFixedWriterWrapper(make([]byte, 0, lumpWords*2), 0)
	if err := binary.Write(lumpWriter, binary.LittleEndian, bm.header); err != nil {
		return nil, errors.Wrap(err, "couldn't write blockmap header")
	}
	// Move writing cursor past block table, to write blocklists themselves
	tableStart := BLOCKMAP_HEADER_WORDS * 2
	if err := lumpWriter.Seek(tableStart + totalblocks*2); err != nil {
		return nil, err
	}

	offsets := make([]uint16, totalblocks)
	offset := BLOCKMAP_HEADER_WORDS + totalblocks
	for _, g := range groups {
		if offset > 0xFFFF {
			return nil, errors.Wrapf(ErrBlockmapTooBig,
				"list offset %d", offset)
		}
		for _, cell := range g.cells {
			offsets[cell] = uint16(offset)
		}
		if _, err := lumpWriter.WriteWithOrder(binary.LittleEndian, []uint16{BLOCKLIST_START}); err != nil {
			return nil, err
		}
		if _, err := lumpWriter.WriteWithOrder(binary.LittleEndian, g.lines); err != nil {
			return nil, err
		}
		if _, err := lumpWriter.WriteWithOrder(binary.LittleEndian, []uint16{BLOCKLIST_END}); err != nil {
			return nil, err
		}
		offset += len(g.lines) + 2
	}

	// Now patch the block table
	if err := lumpWriter.Seek(tableStart); err != nil {
		return nil, err
	}
	if _, err := lumpWriter.WriteWithOrder(binary.LittleEndian, offsets); err != nil {
		return nil, err
	}
	return lumpWriter.GetBytes(), nil
}

// DecodeBlockmap parses BLOCKMAP lump back into per-block linedef lists
func DecodeBlockmap(data []byte) (BlockMapHeader, []BlockLines, error) {
	var header BlockMapHeader
	if len(data) < BLOCKMAP_HEADER_WORDS*2 {
		return header, nil, errors.Errorf("blockmap too short: %d bytes", len(data))
	}
	header.XMin = int16(binary.LittleEndian.Uint16(data[0:]))
	header.YMin = int16(binary.LittleEndian.Uint16(data[2:]))
	header.XBlocks = binary.LittleEndian.Uint16(data[4:])
	header.YBlocks = binary.LittleEndian.Uint16(data[6:])
	words := len(data) / 2
	totalblocks := int(header.XBlocks) * int(header.YBlocks)
	if BLOCKMAP_HEADER_WORDS+totalblocks > words {
		return header, nil, errors.Errorf("blockmap truncated: %d blocks need %d words, have %d",
			totalblocks, BLOCKMAP_HEADER_WORDS+totalblocks, words)
	}
	word := func(i int) uint16 {
		return binary.LittleEndian.Uint16(data[i*2:])
	}
	res := make([]BlockLines, totalblocks)
	for i := 0; i < totalblocks; i++ {
		pos := int(word(BLOCKMAP_HEADER_WORDS + i))
		if pos >= words || word(pos) != BLOCKLIST_START {
			return header, nil, errors.Errorf("block %d: no list start at word %d", i, pos)
		}
		bl := make(BlockLines, 0)
		pos++
		for {
			if pos >= words {
				return header, nil, errors.Errorf("block %d: list is not terminated", i)
			}
			w := word(pos)
			if w == BLOCKLIST_END {
				break
			}
			bl = append(bl, w)
			pos++
		}
		res[i] = bl
	}
	return header, res, nil
}

func (bl BlockLines) Hash() uint {
	// same hash function as Zdbsp courtesy of Marisa Heit
	hash := uint(0)
	for i := 0; i < len(bl); i++ {
		hash = hash*12235 + uint(bl[i])
	}
	return hash & 0x7fffffff
}

func CompareBlocklist(bl1 BlockLines, bl2 BlockLines) bool {
	if len(bl1) != len(bl2) {
		return false
	}
	for i := 0; i < len(bl1); i++ {
		if bl1[i] != bl2[i] {
			return false
		}
	}
	return true
}
