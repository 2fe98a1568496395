// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package machine

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
)

// LoadImage reads one image into memory: a big-endian origin word, then
// big-endian words placed consecutively from the origin. Reading stops at the
// top of memory; whatever the file holds beyond 65536-origin words is
// ignored. A file that ends mid-word is a load error. Loading does not touch
// the registers, so several images can be loaded before one run.
func (mc *Machine) LoadImage(reader io.Reader) error {
	scratch := make([]byte, 2)

	if _, err := io.ReadFull(reader, scratch); err != nil {
		return fmt.Errorf("reading image origin: %w", err)
	}

	origin := binary.BigEndian.Uint16(scratch)

	for addr := uint32(origin); addr < 1<<16; addr++ {
		_, err := io.ReadFull(reader, scratch)

		if err == io.EOF {
			return nil
		} else if err != nil {
			return fmt.Errorf("reading image word at %#04x: %w", addr, err)
		}

		mc.State.Memory[addr] = binary.BigEndian.Uint16(scratch)
	}

	return nil
}

// LoadImageFile loads the image at path.
func (mc *Machine) LoadImageFile(path string) error {
	file, err := os.Open(path)

	if err != nil {
		return err
	}

	defer file.Close()

	if err := mc.LoadImage(file); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	return nil
}
