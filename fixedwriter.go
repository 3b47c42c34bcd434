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

// fixedwriter
package main

import (
	"encoding/binary"

	"github.com/pkg/errors"
)

// Writer to fixed-size byte slice which can't be grown whatsoever. BLOCKMAP
// size is known before it is written, and offsets get patched in after the
// lists are written, so writer needs to seek back
// Trying to write past capacity will fail
type FixedWriterWrapper struct {
	data   []byte
	offset int // offset at which data gets writen by call to Write. Can be changed with Seek
}

func CreateFixedWriterWrapper(data []byte, offset int) *FixedWriterWrapper {
	result := new(FixedWriterWrapper)
	result.data = data
	result.offset = offset
	return result
}

// Changes offset (relative to the beginning of backing storage) at which
// next Write call will write bytes
// If requested to move beyond length but within capacity, will automatically
// increase length
func (w *FixedWriterWrapper) Seek(offset int) error {
	if offset > cap(w.data) {
		return errors.Errorf("seek out of range: %d, capacity %d", offset, cap(w.data))
	}
	w.offset = offset
	if offset > len(w.data) {
		w.data = w.data[:offset]
	}
	return nil
}

func (w *FixedWriterWrapper) GetBytes() []byte {
	return w.data
}

// grow makes sure towrite bytes can be written at current offset
func (w *FixedWriterWrapper) grow(towrite int) error {
	if w.offset+towrite > cap(w.data) {
		// don't bother writing incomplete data!
		return errors.Errorf("insufficient buffer size: want %d bytes have %d bytes",
			towrite, cap(w.data)-w.offset)
	}
	if w.offset+towrite > len(w.data) {
		w.data = w.data[:w.offset+towrite]
	}
	return nil
}

// Write bytes at current offset, and move offset
func (w *FixedWriterWrapper) Write(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if err := w.grow(len(p)); err != nil {
		return 0, err
	}
	copy(w.data[w.offset:], p)
	w.offset += len(p)
	return len(p), nil
}

// Writes uint16 slice with respect to endianness set by order, without
// intermediary byte slice that binary.Write would allocate
func (w *FixedWriterWrapper) WriteWithOrder(order binary.ByteOrder, p []uint16) (n int, err error) {
	towrite := len(p) << 1
	if towrite == 0 {
		return 0, nil
	}
	if err := w.grow(towrite); err != nil {
		return 0, err
	}
	a := w.offset
	for i := 0; i < len(p); i++ {
		order.PutUint16(w.data[a:], p[i])
		a += 2
	}
	w.offset += towrite
	return len(p), nil
}
