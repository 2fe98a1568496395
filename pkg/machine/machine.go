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
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
)

// Reset returns the machine to its start-of-run state: memory and registers
// zeroed, PC at the user space origin, condition flags ZERO.
func (mc *Machine) Reset() {
	mc.State = MachineState{
		PC:   MEMSPACE_USER,
		Cond: FLAG_ZERO,
	}

	mc.Running = false
	mc.Cycles = 0
}

// setFlags derives the condition flags from a freshly written register
// value. Exactly one flag survives.
func (mc *Machine) setFlags(value uint16) {
	if value == 0 {
		mc.State.Cond = FLAG_ZERO
	} else if value>>15 == 1 {
		mc.State.Cond = FLAG_NEG
	} else {
		mc.State.Cond = FLAG_POS
	}
}

// Step runs one fetch/decode/execute cycle. The PC moves past the
// instruction during the fetch, so PC-relative operands are measured from
// the following instruction.
func (mc *Machine) Step() error {
	word := mc.read(mc.State.PC)

	mc.State.PC++
	mc.Cycles++

	instruction := Decode(word)

	if logrus.IsLevelEnabled(logrus.DebugLevel) {
		logrus.WithFields(logrus.Fields{
			"pc":    fmt.Sprintf("%#04x", mc.State.PC-1),
			"word":  fmt.Sprintf("%#04x", word),
			"instr": fmt.Sprintf("%T", instruction),
		}).Debug("step")
	}

	return instruction.execute(mc)
}

// Run drives the fetch-execute loop until the HALT trap clears Running, an
// instruction faults, or ctx is cancelled. Cancellation is checked between
// cycles; instructions themselves never suspend, except for the keyboard
// waits inside GETC and IN, which unwind with the context error of their
// device.
func (mc *Machine) Run(ctx context.Context) error {
	mc.Running = true

	for mc.Running {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := mc.Step(); err != nil {
			return err
		}
	}

	return nil
}

// Snapshot captures the register file for inspection after a run.
func (mc *Machine) Snapshot() Snapshot {
	return Snapshot{
		Registers: mc.State.Registers,
		PC:        mc.State.PC,
		Cond:      mc.State.Cond,
		Cycles:    mc.Cycles,
	}
}
