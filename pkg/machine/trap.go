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
	"errors"
	"io"
)

// traps maps a vector to its built-in service routine. Dispatching through
// an unknown vector is a fault, not a jump into nothing.
var traps = map[uint16]func(*Machine) error{
	TRAP_GETC:  (*Machine).trapGetc,
	TRAP_OUT:   (*Machine).trapOut,
	TRAP_PUTS:  (*Machine).trapPuts,
	TRAP_IN:    (*Machine).trapIn,
	TRAP_PUTSP: (*Machine).trapPutsp,
	TRAP_HALT:  (*Machine).trapHalt,
}

// TRAP |1111    |0000   |trapvect8       | Service routine call
// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
//
// R7 receives the post-fetch PC before dispatch, so a routine implemented as
// a subroutine could return with JMP R7. The built-in routines never touch
// the condition flags.
func (i Trap) execute(mc *Machine) error {
	mc.State.Registers[7] = mc.State.PC

	routine, ok := traps[i.Vector]

	if !ok {
		return &UnknownTrapFault{
			Vector: i.Vector,
			Addr:   mc.State.PC - 1,
		}
	}

	return routine(mc)
}

// trapGetc reads one key into R0 without echoing it. An exhausted keyboard
// reads as NUL so an image polling for input cannot wedge the host.
func (mc *Machine) trapGetc() error {
	key, err := mc.readKey()

	if err != nil {
		if !errors.Is(err, io.EOF) {
			return err
		}
		key = 0
	}

	mc.State.Registers[0] = uint16(key)

	return nil
}

// trapOut writes the low byte of R0.
func (mc *Machine) trapOut() error {
	if err := mc.writeByte(byte(mc.State.Registers[0])); err != nil {
		return err
	}

	return mc.flushDisplay()
}

// trapPuts writes the character in each cell from the address in R0 up to,
// and not including, the first zero cell.
func (mc *Machine) trapPuts() error {
	addr := mc.State.Registers[0]

	for {
		cell := mc.read(addr)

		if cell == 0 {
			break
		}

		if err := mc.writeByte(byte(cell)); err != nil {
			return err
		}

		addr++
	}

	return mc.flushDisplay()
}

// trapIn prompts, reads one key, echoes it, and stores it in R0.
func (mc *Machine) trapIn() error {
	if err := mc.writeString("Enter a character: "); err != nil {
		return err
	}

	if err := mc.flushDisplay(); err != nil {
		return err
	}

	key, err := mc.readKey()

	if err != nil {
		if !errors.Is(err, io.EOF) {
			return err
		}
		key = 0
	}

	if err := mc.writeByte(key); err != nil {
		return err
	}

	if err := mc.flushDisplay(); err != nil {
		return err
	}

	mc.State.Registers[0] = uint16(key)

	return nil
}

// trapPutsp writes two packed characters per cell, low byte first, from the
// address in R0 up to the first zero cell. A zero high byte ends its cell
// early, which is how odd-length strings are packed.
func (mc *Machine) trapPutsp() error {
	addr := mc.State.Registers[0]

	for {
		cell := mc.read(addr)

		if cell == 0 {
			break
		}

		if err := mc.writeByte(byte(cell)); err != nil {
			return err
		}

		if high := byte(cell >> 8); high != 0 {
			if err := mc.writeByte(high); err != nil {
				return err
			}
		}

		addr++
	}

	return mc.flushDisplay()
}

// trapHalt writes the halt notice and clears Running, the machine's only
// path out of the run loop.
func (mc *Machine) trapHalt() error {
	mc.Running = false

	if err := mc.writeString("HALT\n"); err != nil {
		return err
	}

	return mc.flushDisplay()
}

func (mc *Machine) readKey() (byte, error) {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		return 0, io.EOF
	}

	return mc.Devices.Keyboard.ReadKey()
}

func (mc *Machine) writeByte(b byte) error {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	return mc.Devices.Display.WriteByte(b)
}

func (mc *Machine) writeString(s string) error {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	_, err := mc.Devices.Display.WriteString(s)

	return err
}

func (mc *Machine) flushDisplay() error {
	if mc.Devices == nil || mc.Devices.Display == nil {
		return nil
	}

	return mc.Devices.Display.Flush()
}
