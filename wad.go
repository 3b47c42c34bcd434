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
	"encoding/binary"
	"io"

	"github.com/pkg/errors"
)

var LUMP_SORT_ORDER = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS", "SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP"}
var LUMP_MUSTEXIST = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SECTORS"}
var LUMP_CREATE = []string{"SEGS", "SSECTORS", "NODES", "REJECT", "BLOCKMAP"}

// Lumps that may follow level marker. Hexen ones are recognised so that they
// stay attached to their level, even though Hexen format is not rebuilt
var LUMP_LEVEL_SPEC = []string{"THINGS", "LINEDEFS", "SIDEDEFS", "VERTEXES", "SEGS", "SSECTORS", "NODES", "SECTORS", "REJECT", "BLOCKMAP", "BEHAVIOR", "SCRIPTS"}

var ErrNotAWad = errors.New("not a wad")

type WadLump struct {
	Name string
	Data []byte
}

// Wad is the whole archive loaded in memory. Levels are edited in place, and
// then the whole thing is written out anew
type Wad struct {
	MagicSig uint32
	Lumps    []WadLump
}

// ByteSliceBeforeTerm returns a part of the original bytes
// excluding everything that starts with zero-byte character.
// This allows string operations (such as pattern matching) to be performed
// correctly on returned value
func ByteSliceBeforeTerm(b []byte) []byte {
	i := bytes.IndexByte(b, 0)
	if i == -1 {
		return b
	} else {
		return b[:i]
	}
}

func lumpNameToBytes(name string) [8]byte {
	var res [8]byte
	copy(res[:], name)
	return res
}

func ReadWad(f io.ReadSeeker) (*Wad, error) {
	fileSize, err := f.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't determine file size")
	}
	if _, err = f.Seek(0, io.SeekStart); err != nil {
		return nil, errors.Wrap(err, "couldn't seek to file start")
	}

	wh := new(WadHeader)
	err = binary.Read(f, binary.LittleEndian, wh)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't read file header")
	}
	if wh.MagicSig != IWAD_MAGIC_SIG && wh.MagicSig != PWAD_MAGIC_SIG {
		return nil, ErrNotAWad
	}

	dirEnd := int64(wh.DirectoryStart) + int64(wh.LumpCount)*int64(binary.Size(LumpEntry{}))
	if dirEnd > fileSize {
		return nil, errors.Errorf("directory (%d lumps at offset %d) goes past the end of file (%d bytes)",
			wh.LumpCount, wh.DirectoryStart, fileSize)
	}
	_, err = f.Seek(int64(wh.DirectoryStart), io.SeekStart)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't move to wad's directory structure (%d offset)",
			wh.DirectoryStart)
	}

	// Read in whole directory at once
	le := make([]LumpEntry, wh.LumpCount)
	err = binary.Read(f, binary.LittleEndian, le)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read lump info from a wad's directory")
	}

	wad := &Wad{
		MagicSig: wh.MagicSig,
		Lumps:    make([]WadLump, 0, len(le)),
	}
	for i, entry := range le {
		name := string(ByteSliceBeforeTerm(entry.Name[:]))
		if int64(entry.FilePos)+int64(entry.Size) > fileSize {
			return nil, errors.Errorf("lump %d (%s) goes past the end of file", i, name)
		}
		data := make([]byte, entry.Size)
		if entry.Size > 0 {
			if _, err = f.Seek(int64(entry.FilePos), io.SeekStart); err != nil {
				return nil, errors.Wrapf(err, "couldn't seek to lump %d (%s)", i, name)
			}
			if _, err = io.ReadFull(f, data); err != nil {
				return nil, errors.Wrapf(err, "couldn't read lump %d (%s)", i, name)
			}
		}
		wad.Lumps = append(wad.Lumps, WadLump{Name: name, Data: data})
	}
	return wad, nil
}

// WriteTo writes header, then lumps in directory order, then the directory
func (w *Wad) WriteTo(out io.Writer) (int64, error) {
	headerSize := uint32(binary.Size(WadHeader{}))
	curPos := headerSize
	le := make([]LumpEntry, len(w.Lumps))
	for i, lump := range w.Lumps {
		le[i] = LumpEntry{
			FilePos: curPos,
			Size:    uint32(len(lump.Data)),
			Name:    lumpNameToBytes(lump.Name),
		}
		curPos += uint32(len(lump.Data))
	}
	wh := WadHeader{
		MagicSig:       w.MagicSig,
		LumpCount:      uint32(len(w.Lumps)),
		DirectoryStart: curPos,
	}

	written := int64(0)
	if err := binary.Write(out, binary.LittleEndian, wh); err != nil {
		return written, errors.Wrap(err, "couldn't write wad header")
	}
	written += int64(headerSize)
	for _, lump := range w.Lumps {
		n, err := out.Write(lump.Data)
		written += int64(n)
		if err != nil {
			return written, errors.Wrapf(err, "couldn't write lump %s", lump.Name)
		}
	}
	if err := binary.Write(out, binary.LittleEndian, le); err != nil {
		return written, errors.Wrap(err, "couldn't write wad directory")
	}
	written += int64(binary.Size(le))
	return written, nil
}

func isLevelSpec(name string) bool {
	return findName(LUMP_LEVEL_SPEC, name) >= 0
}

func findName(list []string, name string) int {
	for i, s := range list {
		if s == name {
			return i
		}
	}
	return -1
}

// LevelMarkers lists directory indices of all level markers. Indices shift
// when lumps are inserted, so don't keep them across modifications
func (w *Wad) LevelMarkers() []int {
	res := make([]int, 0)
	for marker := w.NextLevel(-1); marker >= 0; marker = w.NextLevel(marker) {
		res = append(res, marker)
	}
	return res
}

// NextLevel returns index of the first level marker after the lump at index
// after, or -1. Lumps are only ever inserted after a marker, so rebuilding
// the level at after and then calling NextLevel(after) reaches the next one
func (w *Wad) NextLevel(after int) int {
	for i := after + 1; i < len(w.Lumps); i++ {
		if IsALevel([]byte(w.Lumps[i].Name)) {
			return i
		}
	}
	return -1
}

// FindLevel returns index of the first level marker named levelName, or -1.
// A wad may contain more than one marker with the same name, everything that
// processes levels goes by index instead
func (w *Wad) FindLevel(levelName string) int {
	for marker := w.NextLevel(-1); marker >= 0; marker = w.NextLevel(marker) {
		if w.Lumps[marker].Name == levelName {
			return marker
		}
	}
	return -1
}

func (w *Wad) isMarker(marker int) bool {
	return marker >= 0 && marker < len(w.Lumps) &&
		IsALevel([]byte(w.Lumps[marker].Name))
}

// LevelName returns name of the marker lump, or empty string if marker is not
// an index of one
func (w *Wad) LevelName(marker int) string {
	if !w.isMarker(marker) {
		return ""
	}
	return w.Lumps[marker].Name
}

// levelLumpIndex searches lumps belonging to level (they immediately follow
// the marker) for the named one
func (w *Wad) levelLumpIndex(marker int, name string) int {
	if !w.isMarker(marker) {
		return -1
	}
	for i := marker + 1; i < len(w.Lumps); i++ {
		if !isLevelSpec(w.Lumps[i].Name) {
			break
		}
		if w.Lumps[i].Name == name {
			return i
		}
	}
	return -1
}

// ReadLevelLump returns nil if level has no such lump
func (w *Wad) ReadLevelLump(marker int, name string) []byte {
	idx := w.levelLumpIndex(marker, name)
	if idx < 0 {
		return nil
	}
	return w.Lumps[idx].Data
}

func (w *Wad) HasLevelLump(marker int, name string) bool {
	return w.levelLumpIndex(marker, name) >= 0
}

// ReplaceLevelLump returns false if there is nothing to replace
func (w *Wad) ReplaceLevelLump(marker int, name string, data []byte) bool {
	idx := w.levelLumpIndex(marker, name)
	if idx < 0 {
		return false
	}
	w.Lumps[idx].Data = data
	return true
}

// InsertLevelLump puts a new lump right after the lump named after. Returns
// false if level or that lump doesn't exist
func (w *Wad) InsertLevelLump(marker int, after, name string, data []byte) bool {
	idx := w.levelLumpIndex(marker, after)
	if idx < 0 {
		return false
	}
	w.insertAt(idx+1, WadLump{Name: name, Data: data})
	return true
}

func (w *Wad) insertAt(idx int, lump WadLump) {
	w.Lumps = append(w.Lumps, WadLump{})
	copy(w.Lumps[idx+1:], w.Lumps[idx:])
	w.Lumps[idx] = lump
}

// SaveLevelLump replaces lump if it exists, otherwise inserts it after the
// closest lump that precedes it in LUMP_SORT_ORDER (or after level marker).
// Marker itself never moves, markers of the levels that follow do
func (w *Wad) SaveLevelLump(marker int, name string, data []byte) error {
	if !w.isMarker(marker) {
		return errors.Errorf("no level marker at lump %d", marker)
	}
	if w.ReplaceLevelLump(marker, name, data) {
		return nil
	}
	if findName(LUMP_MUSTEXIST, name) >= 0 {
		return errors.Wrapf(ErrMissingLump, "level %s is missing required lump %s",
			w.Lumps[marker].Name, name)
	}
	order := findName(LUMP_SORT_ORDER, name)
	for i := order - 1; i >= 0; i-- {
		if w.InsertLevelLump(marker, LUMP_SORT_ORDER[i], name, data) {
			return nil
		}
	}
	w.insertAt(marker+1, WadLump{Name: name, Data: data})
	return nil
}
