/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

package chip8

/// Op identifies one of the CHIP-8 operations an opcode decodes to.
///
type Op uint8

/// Every operation in the instruction set. The comment on each is the
/// opcode pattern it is decoded from.
///
const (
	OpInvalid     Op = iota
	OpCls            // 00E0
	OpRet            // 00EE
	OpSys            // 0NNN
	OpJump           // 1NNN
	OpCall           // 2NNN
	OpSkipEqImm      // 3XNN
	OpSkipNeImm      // 4XNN
	OpSkipEqReg      // 5XY0
	OpLoadImm        // 6XNN
	OpAddImm         // 7XNN
	OpLoadReg        // 8XY0
	OpOr             // 8XY1
	OpAnd            // 8XY2
	OpXor            // 8XY3
	OpAddReg         // 8XY4
	OpSub            // 8XY5
	OpShr            // 8XY6
	OpSubn           // 8XY7
	OpShl            // 8XYE
	OpSkipNeReg      // 9XY0
	OpLoadI          // ANNN
	OpJumpOffset     // BNNN
	OpRnd            // CXNN
	OpDraw           // DXYN
	OpSkipKey        // EX9E
	OpSkipNotKey     // EXA1
	OpLoadDelay      // FX07
	OpWaitKey        // FX0A
	OpSetDelay       // FX15
	OpSetSound       // FX18
	OpAddI           // FX1E
	OpLoadFont       // FX29
	OpBCD            // FX33
	OpStoreRegs      // FX55
	OpLoadRegs       // FX65
)

var opNames = [...]string{
	OpInvalid:    "??",
	OpCls:        "CLS",
	OpRet:        "RET",
	OpSys:        "SYS",
	OpJump:       "JP",
	OpCall:       "CALL",
	OpSkipEqImm:  "SE",
	OpSkipNeImm:  "SNE",
	OpSkipEqReg:  "SE",
	OpLoadImm:    "LD",
	OpAddImm:     "ADD",
	OpLoadReg:    "LD",
	OpOr:         "OR",
	OpAnd:        "AND",
	OpXor:        "XOR",
	OpAddReg:     "ADD",
	OpSub:        "SUB",
	OpShr:        "SHR",
	OpSubn:       "SUBN",
	OpShl:        "SHL",
	OpSkipNeReg:  "SNE",
	OpLoadI:      "LD",
	OpJumpOffset: "JP",
	OpRnd:        "RND",
	OpDraw:       "DRW",
	OpSkipKey:    "SKP",
	OpSkipNotKey: "SKNP",
	OpLoadDelay:  "LD",
	OpWaitKey:    "LD",
	OpSetDelay:   "LD",
	OpSetSound:   "LD",
	OpAddI:       "ADD",
	OpLoadFont:   "LD",
	OpBCD:        "LD",
	OpStoreRegs:  "LD",
	OpLoadRegs:   "LD",
}

/// String returns the assembler mnemonic of the operation.
///
func (op Op) String() string {
	if int(op) < len(opNames) {
		return opNames[op]
	}

	return opNames[OpInvalid]
}

/// Instruction is a decoded opcode. The operand fields are always
/// extracted; which of them are meaningful depends on Op.
///
type Instruction struct {
	/// Opcode is the raw 16-bit instruction word.
	///
	Opcode uint16

	/// Op is the decoded operation.
	///
	Op Op

	/// X and Y are the register operands (second and third nibble).
	///
	X, Y uint

	/// N is the low nibble, NN the low byte.
	///
	N  byte
	NN byte

	/// NNN is the 12-bit address operand.
	///
	NNN uint16
}

/// Decode a 16-bit opcode. Decoding never fails; opcodes outside the
/// instruction set decode to OpInvalid.
///
func Decode(opcode uint16) Instruction {
	inst := Instruction{
		Opcode: opcode,
		X:      uint(opcode>>8) & 0xF,
		Y:      uint(opcode>>4) & 0xF,
		N:      byte(opcode & 0xF),
		NN:     byte(opcode & 0xFF),
		NNN:    opcode & 0xFFF,
	}

	inst.Op = decodeOp(opcode)

	return inst
}

func decodeOp(opcode uint16) Op {
	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return OpCls
		case 0x00EE:
			return OpRet
		}
		return OpSys
	case 0x1:
		return OpJump
	case 0x2:
		return OpCall
	case 0x3:
		return OpSkipEqImm
	case 0x4:
		return OpSkipNeImm
	case 0x5:
		if opcode&0xF == 0 {
			return OpSkipEqReg
		}
	case 0x6:
		return OpLoadImm
	case 0x7:
		return OpAddImm
	case 0x8:
		switch opcode & 0xF {
		case 0x0:
			return OpLoadReg
		case 0x1:
			return OpOr
		case 0x2:
			return OpAnd
		case 0x3:
			return OpXor
		case 0x4:
			return OpAddReg
		case 0x5:
			return OpSub
		case 0x6:
			return OpShr
		case 0x7:
			return OpSubn
		case 0xE:
			return OpShl
		}
	case 0x9:
		if opcode&0xF == 0 {
			return OpSkipNeReg
		}
	case 0xA:
		return OpLoadI
	case 0xB:
		return OpJumpOffset
	case 0xC:
		return OpRnd
	case 0xD:
		return OpDraw
	case 0xE:
		switch opcode & 0xFF {
		case 0x9E:
			return OpSkipKey
		case 0xA1:
			return OpSkipNotKey
		}
	case 0xF:
		switch opcode & 0xFF {
		case 0x07:
			return OpLoadDelay
		case 0x0A:
			return OpWaitKey
		case 0x15:
			return OpSetDelay
		case 0x18:
			return OpSetSound
		case 0x1E:
			return OpAddI
		case 0x29:
			return OpLoadFont
		case 0x33:
			return OpBCD
		case 0x55:
			return OpStoreRegs
		case 0x65:
			return OpLoadRegs
		}
	}

	return OpInvalid
}
