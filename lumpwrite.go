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

// lumpwrite
package main

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// ConvertGenericLump encodes typed array of structures that represent game
// data into lump bytes, little endian
func ConvertGenericLump(data interface{}) ([]byte, error) {
	var buf bytes.Buffer
	buf.Grow(binary.Size(data))
	err := binary.Write(&buf, binary.LittleEndian, data)
	if err != nil {
		return nil, errors.Wrap(err, "couldn't encode lump")
	}
	return buf.Bytes(), nil
}

// ParseGenericLump decodes lump bytes into a slice of records of size
// recordSize. Lump size must be a multiple of the record size
func ParseGenericLump[T any](data []byte, recordSize int, name string) ([]T, error) {
	if len(data)%recordSize != 0 {
		return nil, errors.Errorf("%s lump size %d is not a multiple of %d",
			name, len(data), recordSize)
	}
	res := make([]T, len(data)/recordSize)
	err := binary.Read(bytes.NewReader(data), binary.LittleEndian, res)
	if err != nil {
		return nil, errors.Wrapf(err, "couldn't decode %s lump", name)
	}
	return res, nil
}
