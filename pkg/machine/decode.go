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
	"github.com/Feltenball/TinyVM/pkg/encoding"
)

// Instruction is one decoded instruction word. The variant set is closed:
// every opcode value decodes to exactly one of the types below, and execution
// is a method, so no variant can exist without a handler. Offsets and
// immediates are sign-extended here, once; executors never see raw bit
// ranges.
type Instruction interface {
	execute(mc *Machine) error
}

// Add is register or immediate addition.
type Add struct {
	DR, SR1 uint16
	Imm     bool
	SR2     uint16
	Imm5    uint16
}

// And is register or immediate bitwise AND.
type And struct {
	DR, SR1 uint16
	Imm     bool
	SR2     uint16
	Imm5    uint16
}

// Not is bitwise complement.
type Not struct {
	DR, SR uint16
}

// Br is a conditional branch; Flags is the requested NZP mask in
// condition-flag order.
type Br struct {
	Flags  uint16
	Offset uint16
}

// Jmp transfers control through a base register (RET when the register is
// R7, by convention only).
type Jmp struct {
	Base uint16
}

// Jsr is a subroutine call, PC-relative when Rel is set, through Base
// otherwise.
type Jsr struct {
	Rel    bool
	Offset uint16
	Base   uint16
}

// Ld is a PC-relative load.
type Ld struct {
	DR     uint16
	Offset uint16
}

// Ldi is a PC-relative load through one level of indirection.
type Ldi struct {
	DR     uint16
	Offset uint16
}

// Ldr is a base+offset load.
type Ldr struct {
	DR, Base uint16
	Offset   uint16
}

// Lea loads the computed address itself.
type Lea struct {
	DR     uint16
	Offset uint16
}

// St is a PC-relative store.
type St struct {
	SR     uint16
	Offset uint16
}

// Sti is a PC-relative store through one level of indirection.
type Sti struct {
	SR     uint16
	Offset uint16
}

// Str is a base+offset store.
type Str struct {
	SR, Base uint16
	Offset   uint16
}

// Trap invokes a built-in service routine.
type Trap struct {
	Vector uint16
}

// Reserved covers the two opcode values without defined behavior on this
// machine, RES and RTI. The executor decides whether that faults.
type Reserved struct {
	Opcode uint16
}

// Decode splits an instruction word into its variant per the addressing-mode
// layout of the opcode in bits 15:12. Decode never fails: RES and RTI decode
// to Reserved.
func Decode(word uint16) Instruction {
	switch word >> 12 {

	// ADD  |0001    |DR   |SR1  |0|00 |SR2   | Register  addition
	// ADD  |0001    |DR   |SR1  |1|imm5      | Immediate addition
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ADD:
		add := Add{
			DR:  (word >> 9) & 0x7,
			SR1: (word >> 6) & 0x7,
		}

		if (word>>5)&0x1 == 1 {
			add.Imm = true
			add.Imm5 = encoding.SignExtend(word&0x1F, 5)
		} else {
			add.SR2 = word & 0x7
		}

		return add

	// AND  |0101    |DR   |SR1  |0|00 |SR2   | Register  bitwise
	// AND  |0101    |DR   |SR1  |1|imm5      | Immediate bitwise
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_AND:
		and := And{
			DR:  (word >> 9) & 0x7,
			SR1: (word >> 6) & 0x7,
		}

		if (word>>5)&0x1 == 1 {
			and.Imm = true
			and.Imm5 = encoding.SignExtend(word&0x1F, 5)
		} else {
			and.SR2 = word & 0x7
		}

		return and

	// BR   |0000    |N|Z|P|PCoffset9         | Conditional branch
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_BR:
		return Br{
			Flags:  (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}

	// JMP  |1100    |000  |BaseR|000000      | Jump
	// RET  |1100    |000  |111  |000000      | Return
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JMP:
		return Jmp{
			Base: (word >> 6) & 0x7,
		}

	// JSR  |0100    |1|PCoffset11            | Jump to subroutine
	// JSRR |0100    |0|00 |BaseR|000000      | Jump to subroutine register
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_JSR:
		if (word>>11)&0x1 == 1 {
			return Jsr{
				Rel:    true,
				Offset: encoding.SignExtend(word&0x7FF, 11),
			}
		}

		return Jsr{
			Base: (word >> 6) & 0x7,
		}

	// LD   |0010    |DR   |PCoffset9         | Load
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LD:
		return Ld{
			DR:     (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}

	// LDI  |1010    |DR   |PCoffset9         | Load indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDI:
		return Ldi{
			DR:     (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}

	// LDR  |0110    |DR   |BaseR|offset6     | Load base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LDR:
		return Ldr{
			DR:     (word >> 9) & 0x7,
			Base:   (word >> 6) & 0x7,
			Offset: encoding.SignExtend(word&0x3F, 6),
		}

	// LEA  |1110    |DR   |PCoffset9         | Load effective address
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_LEA:
		return Lea{
			DR:     (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}

	// NOT  |1001    |DR   |SR   |1|11111     | Bitwise complement
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_NOT:
		return Not{
			DR: (word >> 9) & 0x7,
			SR: (word >> 6) & 0x7,
		}

	// ST   |0011    |SR   |PCoffset9         | Store
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_ST:
		return St{
			SR:     (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}

	// STI  |1011    |SR   |PCoffset9         | Store indirect
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STI:
		return Sti{
			SR:     (word >> 9) & 0x7,
			Offset: encoding.SignExtend(word&0x1FF, 9),
		}

	// STR  |0111    |SR   |BaseR|offset6     | Store base+offset
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_STR:
		return Str{
			SR:     (word >> 9) & 0x7,
			Base:   (word >> 6) & 0x7,
			Offset: encoding.SignExtend(word&0x3F, 6),
		}

	// TRAP |1111    |0000   |trapvect8       | Service routine call
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	case OP_TRAP:
		return Trap{
			Vector: encoding.ZeroExtend(word, 8),
		}

	// RES  |1101    |                        | Reserved (illegal)
	// RTI  |1000    |000000000000            | Return from interrupt
	// ---- [ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ _ ]
	default:
		return Reserved{
			Opcode: word >> 12,
		}
	}
}
