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

/// Execute a decoded instruction. The program counter has already been
/// advanced past it; pc is the address it was fetched from.
///
func (vm *CHIP_8) execute(pc uint16, inst Instruction) error {
	x, y := inst.X, inst.Y

	switch inst.Op {
	case OpCls:
		vm.cls()
	case OpRet:
		return vm.ret(pc)
	case OpJump:
		vm.jump(inst.NNN)
	case OpCall:
		return vm.call(pc, inst.NNN)
	case OpSkipEqImm:
		vm.skipIf(x, inst.NN)
	case OpSkipNeImm:
		vm.skipIfNot(x, inst.NN)
	case OpSkipEqReg:
		vm.skipIfXY(x, y)
	case OpLoadImm:
		vm.loadX(x, inst.NN)
	case OpAddImm:
		vm.addX(x, inst.NN)
	case OpLoadReg:
		vm.loadXY(x, y)
	case OpOr:
		vm.or(x, y)
	case OpAnd:
		vm.and(x, y)
	case OpXor:
		vm.xor(x, y)
	case OpAddReg:
		vm.addXY(x, y)
	case OpSub:
		vm.subXY(x, y)
	case OpShr:
		vm.shr(x, y)
	case OpSubn:
		vm.subYX(x, y)
	case OpShl:
		vm.shl(x, y)
	case OpSkipNeReg:
		vm.skipIfNotXY(x, y)
	case OpLoadI:
		vm.loadI(inst.NNN)
	case OpJumpOffset:
		vm.jumpV0(x, inst.NNN)
	case OpRnd:
		vm.rnd(x, inst.NN)
	case OpDraw:
		vm.drw(x, y, inst.N)
	case OpSkipKey:
		vm.skipIfPressed(x)
	case OpSkipNotKey:
		vm.skipIfNotPressed(x)
	case OpLoadDelay:
		vm.loadXDT(x)
	case OpWaitKey:
		vm.loadXK(x)
	case OpSetDelay:
		vm.loadDTX(x)
	case OpSetSound:
		vm.loadSTX(x)
	case OpAddI:
		vm.addIX(x)
	case OpLoadFont:
		vm.loadF(x)
	case OpBCD:
		vm.loadB(x)
	case OpStoreRegs:
		vm.saveRegs(x)
	case OpLoadRegs:
		vm.loadRegs(x)
	default:
		// SYS calls native 1802 code, which isn't emulated
		return &InvalidOpcodeError{Opcode: inst.Opcode, PC: pc}
	}

	return nil
}

/// call a subroutine at address.
///
func (vm *CHIP_8) call(pc, address uint16) error {
	if vm.SP >= StackDepth {
		return &StackError{Overflow: true, Depth: vm.SP, PC: pc}
	}

	// push the return address
	vm.Stack[vm.SP] = vm.PC
	vm.SP += 1

	// jump to address
	vm.PC = address

	return nil
}

/// return from subroutine.
///
func (vm *CHIP_8) ret(pc uint16) error {
	if vm.SP == 0 {
		return &StackError{Depth: vm.SP, PC: pc}
	}

	// pop the return address
	vm.SP -= 1
	vm.PC = vm.Stack[vm.SP]

	return nil
}

/// jump to address.
///
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

/// jump to address + v0 (or + vx).
///
func (vm *CHIP_8) jumpV0(x uint, address uint16) {
	if vm.Quirks.JumpOffset == JumpVX {
		vm.PC = address + uint16(vm.V[x])
	} else {
		vm.PC = address + uint16(vm.V[0])
	}
}

/// skip next instruction if vx == n.
///
func (vm *CHIP_8) skipIf(x uint, b byte) {
	if vm.V[x] == b {
		vm.PC += 2
	}
}

/// skip next instruction if vx != n.
///
func (vm *CHIP_8) skipIfNot(x uint, b byte) {
	if vm.V[x] != b {
		vm.PC += 2
	}
}

/// skip next instruction if vx == vy.
///
func (vm *CHIP_8) skipIfXY(x, y uint) {
	if vm.V[x] == vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if vx != vy.
///
func (vm *CHIP_8) skipIfNotXY(x, y uint) {
	if vm.V[x] != vm.V[y] {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is pressed.
///
func (vm *CHIP_8) skipIfPressed(x uint) {
	if vm.Pressed(uint(vm.V[x])) {
		vm.PC += 2
	}
}

/// skip next instruction if key(vx) is not pressed.
///
func (vm *CHIP_8) skipIfNotPressed(x uint) {
	if !vm.Pressed(uint(vm.V[x])) {
		vm.PC += 2
	}
}

/// load n into vx.
///
func (vm *CHIP_8) loadX(x uint, b byte) {
	vm.V[x] = b
}

/// load y into vx.
///
func (vm *CHIP_8) loadXY(x, y uint) {
	vm.V[x] = vm.V[y]
}

/// load delay timer into vx.
///
func (vm *CHIP_8) loadXDT(x uint) {
	vm.V[x] = vm.DT
}

/// load vx into delay timer.
///
func (vm *CHIP_8) loadDTX(x uint) {
	vm.DT = vm.V[x]
}

/// load vx into sound timer.
///
func (vm *CHIP_8) loadSTX(x uint) {
	vm.ST = vm.V[x]
}

/// load vx with next key hit. Doesn't block; Step polls until then.
///
func (vm *CHIP_8) loadXK(x uint) {
	vm.waiting = true
	vm.waitReg = x

	// only a key pressed from now on counts
	vm.held = vm.Keys
}

/// load address register.
///
func (vm *CHIP_8) loadI(address uint16) {
	vm.I = address
}

/// write the BCD of vx to I, I+1 and I+2.
///
func (vm *CHIP_8) loadB(x uint) {
	n := uint16(vm.V[x])
	b := uint16(0)

	// double dabble: adjust digits, then shift in the next bit
	for i := uint(0); i < 8; i++ {
		if (b>>0)&0xF >= 5 {
			b += 3
		}
		if (b>>4)&0xF >= 5 {
			b += 3 << 4
		}
		if (b>>8)&0xF >= 5 {
			b += 3 << 8
		}

		b = (b << 1) | (n >> (7 - i) & 1)
	}

	vm.write(vm.I+0, byte(b>>8)&0xF)
	vm.write(vm.I+1, byte(b>>4)&0xF)
	vm.write(vm.I+2, byte(b>>0)&0xF)
}

/// load font sprite for vx into I.
///
func (vm *CHIP_8) loadF(x uint) {
	vm.I = uint16(vm.V[x]&0xF) * FontSize
}

/// or vx with vy into vx.
///
func (vm *CHIP_8) or(x, y uint) {
	vm.V[x] |= vm.V[y]
}

/// and vx with vy into vx.
///
func (vm *CHIP_8) and(x, y uint) {
	vm.V[x] &= vm.V[y]
}

/// xor vx with vy into vx.
///
func (vm *CHIP_8) xor(x, y uint) {
	vm.V[x] ^= vm.V[y]
}

// shiftSource returns the register SHR and SHL read from.
func (vm *CHIP_8) shiftSource(x, y uint) byte {
	if vm.Quirks.Shift == ShiftVY {
		return vm.V[y]
	}

	return vm.V[x]
}

/// shl 1 bit into vx, set carry to MSB before shift.
///
func (vm *CHIP_8) shl(x, y uint) {
	v := vm.shiftSource(x, y)

	vm.V[x] = v << 1
	vm.V[0xF] = v >> 7
}

/// shr 1 bit into vx, set carry to LSB before shift.
///
func (vm *CHIP_8) shr(x, y uint) {
	v := vm.shiftSource(x, y)

	vm.V[x] = v >> 1
	vm.V[0xF] = v & 1
}

/// add n to vx. Doesn't touch the carry.
///
func (vm *CHIP_8) addX(x uint, b byte) {
	vm.V[x] += b
}

/// add vy to vx and set carry.
///
func (vm *CHIP_8) addXY(x, y uint) {
	sum := uint16(vm.V[x]) + uint16(vm.V[y])

	vm.V[x] = byte(sum)
	vm.V[0xF] = byte(sum >> 8)
}

/// add vx to i.
///
func (vm *CHIP_8) addIX(x uint) {
	vm.I += uint16(vm.V[x])
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *CHIP_8) subXY(x, y uint) {
	var c byte

	if vm.V[x] >= vm.V[y] {
		c = 1
	}

	vm.V[x] -= vm.V[y]
	vm.V[0xF] = c
}

/// subtract vx from vy and store in vx, set carry if no borrow.
///
func (vm *CHIP_8) subYX(x, y uint) {
	var c byte

	if vm.V[y] >= vm.V[x] {
		c = 1
	}

	vm.V[x] = vm.V[y] - vm.V[x]
	vm.V[0xF] = c
}

/// load a random number & n into vx.
///
func (vm *CHIP_8) rnd(x uint, b byte) {
	vm.V[x] = byte(vm.rng.Intn(256)) & b
}

/// save registers v0..vx to I.
///
func (vm *CHIP_8) saveRegs(x uint) {
	for i := uint(0); i <= x; i++ {
		vm.write(vm.I+uint16(i), vm.V[i])
	}

	if vm.Quirks.LoadStore == IndexIncrements {
		vm.I += uint16(x) + 1
	}
}

/// load registers v0..vx from I.
///
func (vm *CHIP_8) loadRegs(x uint) {
	for i := uint(0); i <= x; i++ {
		vm.V[i] = vm.read(vm.I + uint16(i))
	}

	if vm.Quirks.LoadStore == IndexIncrements {
		vm.I += uint16(x) + 1
	}
}
