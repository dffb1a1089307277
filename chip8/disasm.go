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

import "fmt"

/// Disassemble the instruction at an address, prefixed with the address.
///
func (vm *CHIP_8) Disassemble(address uint16) string {
	if int(address) >= len(vm.Memory)-1 {
		return ""
	}

	// fetch the instruction at this location
	inst := vm.Read(address)

	// end of program memory?
	if inst == 0 {
		return fmt.Sprintf("%04X -", address)
	}

	return fmt.Sprintf("%04X - %s", address, Disassemble(Decode(inst)))
}

/// Disassemble a decoded instruction into assembler syntax.
///
func Disassemble(inst Instruction) string {
	x, y := inst.X, inst.Y

	// operands
	var s string

	switch inst.Op {
	case OpCls, OpRet:
		return inst.Op.String()
	case OpSys, OpJump, OpCall:
		s = fmt.Sprintf("#%03X", inst.NNN)
	case OpSkipEqImm, OpSkipNeImm, OpLoadImm, OpAddImm, OpRnd:
		s = fmt.Sprintf("V%X, #%02X", x, inst.NN)
	case OpSkipEqReg, OpSkipNeReg, OpLoadReg, OpOr, OpAnd, OpXor, OpAddReg, OpSub, OpSubn:
		s = fmt.Sprintf("V%X, V%X", x, y)
	case OpShr, OpShl:
		if x == y {
			s = fmt.Sprintf("V%X", x)
		} else {
			s = fmt.Sprintf("V%X, V%X", x, y)
		}
	case OpLoadI:
		s = fmt.Sprintf("I, #%03X", inst.NNN)
	case OpJumpOffset:
		s = fmt.Sprintf("V0, #%03X", inst.NNN)
	case OpDraw:
		s = fmt.Sprintf("V%X, V%X, %d", x, y, inst.N)
	case OpSkipKey, OpSkipNotKey:
		s = fmt.Sprintf("V%X", x)
	case OpLoadDelay:
		s = fmt.Sprintf("V%X, DT", x)
	case OpWaitKey:
		s = fmt.Sprintf("V%X, K", x)
	case OpSetDelay:
		s = fmt.Sprintf("DT, V%X", x)
	case OpSetSound:
		s = fmt.Sprintf("ST, V%X", x)
	case OpAddI:
		s = fmt.Sprintf("I, V%X", x)
	case OpLoadFont:
		s = fmt.Sprintf("F, V%X", x)
	case OpBCD:
		s = fmt.Sprintf("B, V%X", x)
	case OpStoreRegs:
		s = fmt.Sprintf("[I], V%X", x)
	case OpLoadRegs:
		s = fmt.Sprintf("V%X, [I]", x)
	default:
		return inst.Op.String()
	}

	return fmt.Sprintf("%-6s %s", inst.Op, s)
}
