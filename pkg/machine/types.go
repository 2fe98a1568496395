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
	"bufio"
	"fmt"
)

// Keyboard is the machine's input collaborator. Poll answers quickly (a
// short bounded wait at most) and never consumes a key by itself; ReadKey
// blocks until a key arrives or the device gives up, in which case the error
// explains why. A device past the end of its input returns io.EOF, which the
// machine treats as "no key", never as a fault.
type Keyboard interface {
	Poll() bool
	ReadKey() (byte, error)
}

// DeviceHandler collects the machine's external devices. A nil Keyboard
// polls as "no key"; a nil Display discards output.
type DeviceHandler struct {
	Keyboard Keyboard
	Display  *bufio.Writer
}

// MachineState is the complete register file and address space. The zero
// value is a blank machine; Machine.Reset establishes the start-of-run
// invariants (PC at the user space origin, condition flags ZERO).
type MachineState struct {
	Registers [8]uint16
	PC        uint16
	Cond      uint16
	Memory    [1 << 16]uint16
}

// Machine executes images against a MachineState through the devices in
// DeviceHandler.
type Machine struct {
	Devices *DeviceHandler
	State   MachineState

	// Running is set when Run starts and cleared only by the HALT trap.
	Running bool

	// AllowReserved makes the reserved opcodes (RES, RTI) no-ops instead of
	// faults, for images written against more permissive machines.
	AllowReserved bool

	// Cycles counts instructions executed since the last Reset.
	Cycles uint64
}

// Snapshot is the register file at a point in time, in a shape convenient
// for dumping once a run finishes.
type Snapshot struct {
	Registers [8]uint16
	PC        uint16
	Cond      uint16
	Cycles    uint64
}

// ReservedOpcodeFault reports execution of RES or RTI, which this machine
// does not implement.
type ReservedOpcodeFault struct {
	Opcode uint16
	Addr   uint16
}

func (f *ReservedOpcodeFault) Error() string {
	return fmt.Sprintf(
		"reserved opcode %#04b at %#04x", f.Opcode, f.Addr,
	)
}

// UnknownTrapFault reports a TRAP with a vector outside the service-routine
// table.
type UnknownTrapFault struct {
	Vector uint16
	Addr   uint16
}

func (f *UnknownTrapFault) Error() string {
	return fmt.Sprintf(
		"unknown trap vector %#02x at %#04x", f.Vector, f.Addr,
	)
}
