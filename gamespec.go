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

// Wad specifications for Doom-format levels
package main

import (
	"regexp"
)

// Both brought in accordance with Prboom-Plus 2.6.1um map name ranges, except
// that E1M0x is possible (when it is probably shouldn't be) since I don't
// want to complicate these regexp's (and E9M97 is perfectly legal, for example)
var MAP_SEQUEL *regexp.Regexp = regexp.MustCompile(`^MAP[0-9][0-9]$`)
var MAP_ExMx *regexp.Regexp = regexp.MustCompile(`^E[1-9]M[0-9][0-9]?$`)

const BLOCK_WIDTH = 128
const BLOCK_BITS = uint16(7) // replaces division by BLOCK_WIDTH with right shift

const IWAD_MAGIC_SIG = uint32(0x44415749) // ASCII - 'IWAD'
const PWAD_MAGIC_SIG = uint32(0x44415750) // ASCII - 'PWAD'

// COMMON linedef flags: for Doom & derivatives
const LF_IMPASSABLE = uint16(0x0001)
const LF_TWOSIDED = uint16(0x0004)

const SIDEDEF_NONE = uint16(0xFFFF)

// Child reference in a node record points to subsector, not another node,
// when this bit is set
const SSECTOR_NORMAL_MASK = uint16(0x8000)

// Blocklist markers
const BLOCKLIST_START = uint16(0x0000)
const BLOCKLIST_END = uint16(0xFFFF)

// Wad header, 12 bytes.
type WadHeader struct {
	MagicSig       uint32
	LumpCount      uint32 // vanilla treats this as signed int32
	DirectoryStart uint32 // vanilla treats this as signed int32
}

// Lump entries listed one after another comprise the directory,
// the first such lump entry is found at WadHeader.DirectoryStart offset into
// the wad file.
// Each lump entry is 16 bytes long
type LumpEntry struct {
	FilePos uint32 // vanilla treats this as signed int32
	Size    uint32 // vanilla treats this as signed int32
	Name    [8]byte
}

// This is Doom/Heretic/Strife thing. Not Hexen thing
type Thing struct {
	XPos  int16
	YPos  int16
	Angle int16
	Type  int16
	Flags int16
}

// Doom/Heretic linedef format
type Linedef struct {
	// Vanilla treats ALL fields as signed int16
	StartVertex uint16
	EndVertex   uint16
	Flags       uint16
	Action      uint16
	Tag         uint16
	FrontSdef   uint16 // Front Sidedef number
	BackSdef    uint16 // Back Sidedef number (0xFFFF special value for one-sided line)
}

type Sidedef struct {
	XOffset int16
	YOffset int16
	UpName  [8]byte // name of upper texture
	LoName  [8]byte // name of lower texture
	MidName [8]byte // name of middle texture
	Sector  uint16  // sector number; vanilla treats this as signed int16
}

// As the result of building nodes and thus constructing SEGS, VERTEXES lump is
// rewritten to contain only vertices actually in use
type Vertex struct {
	XPos int16
	YPos int16
}

type Seg struct {
	StartVertex uint16
	EndVertex   uint16
	Angle       uint16 // binary angle measurement, full circle is 65536
	Linedef     uint16
	Flip        uint16 // 0 = same direction as linedef, 1 = reversed
	Offset      uint16 // distance along linedef to start of seg
}

type SubSector struct {
	SegCount uint16
	FirstSeg uint16
}

// Node record as stored in NODES lump. Left child is the one the seg that
// produced the partition line faces (front), right child is the back one.
// Child references with SSECTOR_NORMAL_MASK set are subsector indices
type Node struct {
	X      int16
	Y      int16
	Dx     int16
	Dy     int16
	Lbox   [4]int16
	Rbox   [4]int16
	LChild uint16
	RChild uint16
}

// Indices into Node.Lbox / Node.Rbox
const BB_TOP = 0
const BB_BOTTOM = 1
const BB_LEFT = 2
const BB_RIGHT = 3

type Sector struct {
	FloorHeight   int16
	CeilingHeight int16
	FloorName     [8]byte
	CeilingName   [8]byte
	LightLevel    uint16
	Special       uint16
	Tag           uint16
}

// NOTE There is no type for reject - it is a stream of bits packed into bytes

type BlockMapHeader struct {
	XMin    int16
	YMin    int16
	XBlocks uint16
	YBlocks uint16
}

const DOOM_THING_SIZE = 10   // Size of "Thing" struct
const DOOM_LINEDEF_SIZE = 14 // Size of "Linedef" struct
const DOOM_SIDEDEF_SIZE = 30 // Size of "Sidedef" struct
const DOOM_VERTEX_SIZE = 4   // Size of "Vertex" struct
const DOOM_SECTOR_SIZE = 26  // Size of "Sector" struct

// Returns whether the string in lumpName represents Doom level marker,
// i.e. MAP02, E3M1
func IsALevel(lumpName []byte) bool {
	return MAP_SEQUEL.Match(lumpName) || MAP_ExMx.Match(lumpName)
}
