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

// Executors run after the fetch has advanced the PC, so State.PC is the
// address of the following instruction wherever PC-relative arithmetic
// appears below. The seven result-producing opcodes (ADD, AND, NOT, LD, LDI,
// LDR, LEA) are the only writers of the condition flags.

func (i Add) execute(mc *Machine) error {
	operand := mc.State.Registers[i.SR2]

	if i.Imm {
		operand = i.Imm5
	}

	mc.State.Registers[i.DR] = mc.State.Registers[i.SR1] + operand
	mc.setFlags(mc.State.Registers[i.DR])

	return nil
}

func (i And) execute(mc *Machine) error {
	operand := mc.State.Registers[i.SR2]

	if i.Imm {
		operand = i.Imm5
	}

	mc.State.Registers[i.DR] = mc.State.Registers[i.SR1] & operand
	mc.setFlags(mc.State.Registers[i.DR])

	return nil
}

func (i Not) execute(mc *Machine) error {
	mc.State.Registers[i.DR] = ^mc.State.Registers[i.SR]
	mc.setFlags(mc.State.Registers[i.DR])

	return nil
}

func (i Br) execute(mc *Machine) error {
	if i.Flags&mc.State.Cond != 0 {
		mc.State.PC += i.Offset
	}

	return nil
}

func (i Jmp) execute(mc *Machine) error {
	mc.State.PC = mc.State.Registers[i.Base]

	return nil
}

func (i Jsr) execute(mc *Machine) error {
	// The target is taken before R7 is written so that JSRR through R7 jumps
	// through the old value.
	target := mc.State.PC + i.Offset

	if !i.Rel {
		target = mc.State.Registers[i.Base]
	}

	mc.State.Registers[7] = mc.State.PC
	mc.State.PC = target

	return nil
}

func (i Ld) execute(mc *Machine) error {
	mc.State.Registers[i.DR] = mc.read(mc.State.PC + i.Offset)
	mc.setFlags(mc.State.Registers[i.DR])

	return nil
}

func (i Ldi) execute(mc *Machine) error {
	mc.State.Registers[i.DR] = mc.read(mc.read(mc.State.PC + i.Offset))
	mc.setFlags(mc.State.Registers[i.DR])

	return nil
}

func (i Ldr) execute(mc *Machine) error {
	mc.State.Registers[i.DR] = mc.read(
		mc.State.Registers[i.Base] + i.Offset,
	)
	mc.setFlags(mc.State.Registers[i.DR])

	return nil
}

func (i Lea) execute(mc *Machine) error {
	mc.State.Registers[i.DR] = mc.State.PC + i.Offset
	mc.setFlags(mc.State.Registers[i.DR])

	return nil
}

func (i St) execute(mc *Machine) error {
	mc.write(mc.State.PC+i.Offset, mc.State.Registers[i.SR])

	return nil
}

func (i Sti) execute(mc *Machine) error {
	mc.write(mc.read(mc.State.PC+i.Offset), mc.State.Registers[i.SR])

	return nil
}

func (i Str) execute(mc *Machine) error {
	mc.write(
		mc.State.Registers[i.Base]+i.Offset,
		mc.State.Registers[i.SR],
	)

	return nil
}

func (i Reserved) execute(mc *Machine) error {
	if mc.AllowReserved {
		return nil
	}

	return &ReservedOpcodeFault{
		Opcode: i.Opcode,
		Addr:   mc.State.PC - 1,
	}
}
