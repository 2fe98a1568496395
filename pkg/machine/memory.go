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

// read returns the cell at addr. Reading KBSR is the single read with a side
// effect: the keyboard is polled first, and KBSR/KBDR are refreshed to
// describe the waiting key, if any. Every 16-bit address is valid.
func (mc *Machine) read(addr uint16) uint16 {
	if addr == DEV_KBSR {
		mc.pollKeyboard()
	}

	return mc.State.Memory[addr]
}

// write stores value at addr unconditionally. Writes have no device side
// effects, including writes to the keyboard registers.
func (mc *Machine) write(addr uint16, value uint16) {
	mc.State.Memory[addr] = value
}

// pollKeyboard refreshes KBSR and KBDR from the keyboard device. A waiting
// key is consumed into KBDR with the ready bit set in KBSR; no key, a missing
// device, or a device error all leave KBSR clear.
func (mc *Machine) pollKeyboard() {
	if mc.Devices == nil || mc.Devices.Keyboard == nil {
		mc.State.Memory[DEV_KBSR] = 0
		return
	}

	if !mc.Devices.Keyboard.Poll() {
		mc.State.Memory[DEV_KBSR] = 0
		return
	}

	key, err := mc.Devices.Keyboard.ReadKey()

	if err != nil {
		mc.State.Memory[DEV_KBSR] = 0
		return
	}

	mc.State.Memory[DEV_KBSR] = 1 << 15
	mc.State.Memory[DEV_KBDR] = uint16(key)
}
