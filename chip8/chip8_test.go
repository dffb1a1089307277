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

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

// testVM assembles source and loads it into a machine with a fixed
// random seed.
func testVM(t *testing.T, source string, opts ...Option) *CHIP_8 {
	t.Helper()

	asm, err := Assemble([]byte(source))
	assert.NoError(t, err)

	vm := New(append([]Option{WithRandSource(rand.NewSource(1))}, opts...)...)
	assert.NoError(t, vm.LoadAssembly(asm))

	return vm
}

// steps executes n instructions, failing on any error.
func steps(t *testing.T, vm *CHIP_8, n int) {
	t.Helper()

	for i := 0; i < n; i++ {
		assert.NoError(t, vm.Step())
	}
}

func TestNew(t *testing.T) {
	vm := New()

	assert.Equal(t, uint16(ProgramStart), vm.PC)
	assert.Equal(t, uint(0), vm.SP)
	assert.Equal(t, uint16(0), vm.I)
	assert.Equal(t, Font[:], vm.Memory[:len(Font)])
	assert.Equal(t, make([]byte, MemorySize-len(Font)), vm.Memory[len(Font):])
	assert.Equal(t, [ScreenWidth * ScreenHeight]byte{}, vm.Video)
	assert.Equal(t, DefaultQuirks, vm.Quirks)
}

func TestLoad(t *testing.T) {
	vm := New()

	assert.NoError(t, vm.Load([]byte{0x12, 0x34}))
	assert.Equal(t, byte(0x12), vm.Memory[0x200])
	assert.Equal(t, byte(0x34), vm.Memory[0x201])

	// exactly fills memory
	assert.NoError(t, vm.Load(make([]byte, MemorySize-ProgramStart)))
	assert.Equal(t, byte(0), vm.Memory[0x200])

	// the font survives a load
	assert.Equal(t, Font[:], vm.Memory[:len(Font)])
}

func TestLoadTooLarge(t *testing.T) {
	vm := New()
	assert.NoError(t, vm.Load([]byte{0xAB}))

	err := vm.Load(make([]byte, MemorySize-ProgramStart+1))

	var sizeErr *RomSizeError
	assert.Equal(t, true, errors.As(err, &sizeErr))
	assert.Equal(t, MemorySize-ProgramStart+1, sizeErr.Size)
	assert.Equal(t, MemorySize-ProgramStart, sizeErr.Free)

	// nothing was written
	assert.Equal(t, byte(0xAB), vm.Memory[0x200])

	assert.Equal(t, ErrNoProgram, vm.Load(nil))
}

func TestLoadKeepsState(t *testing.T) {
	vm := testVM(t, "\tLD V0, #07\n\tLD DT, V0\n\tLD V1, #01\n")
	steps(t, vm, 2)

	vm.Video[5] = 1
	vm.Memory[0x10] = 0xAB

	assert.NoError(t, vm.Load([]byte{0x12, 0x00}))

	// only program memory changed
	assert.Equal(t, byte(7), vm.V[0])
	assert.Equal(t, byte(7), vm.DT)
	assert.Equal(t, uint16(0x204), vm.PC)
	assert.Equal(t, byte(1), vm.Video[5])
	assert.Equal(t, byte(0xAB), vm.Memory[0x10])
	assert.Equal(t, []byte{0x12, 0x00, 0x00, 0x00}, vm.Memory[0x200:0x204])

	// reset restarts on the new program
	vm.Reset()

	assert.Equal(t, uint16(ProgramStart), vm.PC)
	assert.Equal(t, byte(0), vm.DT)
	assert.Equal(t, Font[0x10], vm.Memory[0x10])
	assert.Equal(t, byte(0x12), vm.Memory[0x200])
}

func TestResetKeepsKeys(t *testing.T) {
	vm := testVM(t, "\tSKNP V0\n")
	vm.PressKey(3)

	vm.Reset()

	assert.Equal(t, true, vm.Pressed(3))
}

func TestReset(t *testing.T) {
	vm := testVM(t, `
	LD   V0, #10
	LD   DT, V0
	LD   I, #300
	LD   [I], V0
	DRW  V0, V0, 1
	`)
	steps(t, vm, 5)

	vm.Reset()

	assert.Equal(t, uint16(ProgramStart), vm.PC)
	assert.Equal(t, byte(0), vm.V[0])
	assert.Equal(t, byte(0), vm.DT)
	assert.Equal(t, byte(0), vm.Memory[0x300])
	assert.Equal(t, [ScreenWidth * ScreenHeight]byte{}, vm.Video)
	assert.Equal(t, byte(0x60), vm.Memory[0x200])
}

func TestAddCarry(t *testing.T) {
	tests := []struct {
		x, y   byte
		result byte
		carry  byte
	}{
		{0, 0, 0, 0},
		{254, 1, 255, 0},
		{255, 0, 255, 0},
		{255, 1, 0, 1},
		{255, 255, 254, 1},
		{128, 128, 0, 1},
	}

	for _, test := range tests {
		vm := testVM(t, "\tADD V1, V2\n")
		vm.V[1], vm.V[2], vm.V[0xF] = test.x, test.y, 0x55
		steps(t, vm, 1)

		msg := fmt.Sprintf("%d + %d", test.x, test.y)
		assert.Equal(t, test.result, vm.V[1], msg)
		assert.Equal(t, test.carry, vm.V[0xF], msg)
	}
}

func TestSubBorrow(t *testing.T) {
	tests := []struct {
		x, y byte
		sub  byte
		subn byte
		vf   byte // for SUB; SUBN is the mirror
		vfn  byte
	}{
		{5, 5, 0, 0, 1, 1},
		{5, 4, 1, 0xFF, 1, 0},
		{4, 5, 0xFF, 1, 0, 1},
		{0, 0, 0, 0, 1, 1},
		{0, 255, 1, 255, 0, 1},
		{255, 0, 255, 1, 1, 0},
	}

	for _, test := range tests {
		msg := fmt.Sprintf("%d, %d", test.x, test.y)

		vm := testVM(t, "\tSUB V1, V2\n")
		vm.V[1], vm.V[2] = test.x, test.y
		steps(t, vm, 1)
		assert.Equal(t, test.sub, vm.V[1], msg)
		assert.Equal(t, test.vf, vm.V[0xF], msg)

		vm = testVM(t, "\tSUBN V1, V2\n")
		vm.V[1], vm.V[2] = test.x, test.y
		steps(t, vm, 1)
		assert.Equal(t, test.subn, vm.V[1], msg)
		assert.Equal(t, test.vfn, vm.V[0xF], msg)
	}
}

func TestFlagWrittenLast(t *testing.T) {
	vm := testVM(t, "\tADD VF, V0\n")
	vm.V[0], vm.V[0xF] = 1, 0xFF
	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[0xF])

	vm = testVM(t, "\tSUB VF, V0\n")
	vm.V[0], vm.V[0xF] = 1, 0x10
	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[0xF])

	vm = testVM(t, "\tSHR VF\n")
	vm.V[0xF] = 0x02
	steps(t, vm, 1)
	assert.Equal(t, byte(0), vm.V[0xF])
}

func TestShift(t *testing.T) {
	tests := []struct {
		source string
		v      byte
		result byte
		flag   byte
	}{
		{"\tSHR V1\n", 0x01, 0x00, 1},
		{"\tSHR V1\n", 0x02, 0x01, 0},
		{"\tSHR V1\n", 0xFF, 0x7F, 1},
		{"\tSHL V1\n", 0x80, 0x00, 1},
		{"\tSHL V1\n", 0x7F, 0xFE, 0},
		{"\tSHL V1\n", 0xFF, 0xFE, 1},
	}

	for _, test := range tests {
		vm := testVM(t, test.source)
		vm.V[1] = test.v
		steps(t, vm, 1)

		assert.Equal(t, test.result, vm.V[1], test.source)
		assert.Equal(t, test.flag, vm.V[0xF], test.source)
	}
}

func TestShiftQuirk(t *testing.T) {
	source := "\tSHL V1, V2\n\tSHR V3, V2\n"

	// VY is ignored by default
	vm := testVM(t, source)
	vm.V[1], vm.V[2], vm.V[3] = 0x01, 0x81, 0x08
	steps(t, vm, 2)
	assert.Equal(t, byte(0x02), vm.V[1])
	assert.Equal(t, byte(0x04), vm.V[3])
	assert.Equal(t, byte(0), vm.V[0xF])

	quirks := DefaultQuirks
	quirks.Shift = ShiftVY

	vm = testVM(t, source, WithQuirks(quirks))
	vm.V[1], vm.V[2], vm.V[3] = 0x01, 0x81, 0x08
	steps(t, vm, 2)
	assert.Equal(t, byte(0x02), vm.V[1])
	assert.Equal(t, byte(0x40), vm.V[3])
	assert.Equal(t, byte(1), vm.V[0xF])
	assert.Equal(t, byte(0x81), vm.V[2])
}

func TestLogic(t *testing.T) {
	vm := testVM(t, `
	LD   V0, $1100
	LD   V1, $1010
	LD   V2, V0
	OR   V2, V1
	LD   V3, V0
	AND  V3, V1
	LD   V4, V0
	XOR  V4, V1
	ADD  V5, 200
	ADD  V5, 100
	`)
	vm.V[0xF] = 7
	steps(t, vm, 10)

	assert.Equal(t, byte(0xE), vm.V[2])
	assert.Equal(t, byte(0x8), vm.V[3])
	assert.Equal(t, byte(0x6), vm.V[4])

	// ADD Vx, byte wraps and leaves the flag alone
	assert.Equal(t, byte(44), vm.V[5])
	assert.Equal(t, byte(7), vm.V[0xF])
}

func TestSkip(t *testing.T) {
	tests := []struct {
		source string
		skip   bool
	}{
		{"\tSE V1, #20\n", true},
		{"\tSE V1, #21\n", false},
		{"\tSNE V1, #21\n", true},
		{"\tSNE V1, #20\n", false},
		{"\tSE V1, V2\n", true},
		{"\tSE V1, V3\n", false},
		{"\tSNE V1, V3\n", true},
		{"\tSNE V1, V2\n", false},
	}

	for _, test := range tests {
		vm := testVM(t, test.source)
		vm.V[1], vm.V[2], vm.V[3] = 0x20, 0x20, 0x21
		steps(t, vm, 1)

		if test.skip {
			assert.Equal(t, uint16(0x204), vm.PC, test.source)
		} else {
			assert.Equal(t, uint16(0x202), vm.PC, test.source)
		}
	}
}

func TestJump(t *testing.T) {
	vm := testVM(t, "\tJP #345\n")
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x345), vm.PC)

	vm = testVM(t, "\tJP V0, #300\n")
	vm.V[0], vm.V[3] = 0x10, 0x20
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x310), vm.PC)

	quirks := DefaultQuirks
	quirks.JumpOffset = JumpVX

	vm = testVM(t, "\tJP V0, #300\n", WithQuirks(quirks))
	vm.V[0], vm.V[3] = 0x10, 0x20
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x320), vm.PC)
}

func TestCallReturn(t *testing.T) {
	source := `
	CALL ROUTINE
	PAD  #FE
.ROUTINE
	RET
	`

	for depth := 1; depth <= StackDepth; depth++ {
		vm := testVM(t, source)

		// pretend to already be nested
		vm.SP = uint(depth - 1)

		steps(t, vm, 1)
		assert.Equal(t, uint16(0x300), vm.PC)
		assert.Equal(t, uint(depth), vm.SP)

		steps(t, vm, 1)
		assert.Equal(t, uint16(0x202), vm.PC)
		assert.Equal(t, uint(depth-1), vm.SP)
	}
}

func TestStackOverflow(t *testing.T) {
	vm := testVM(t, ".LOOP\n\tCALL LOOP\n")
	steps(t, vm, StackDepth)
	assert.Equal(t, uint(StackDepth), vm.SP)

	err := vm.Step()

	var stackErr *StackError
	assert.Equal(t, true, errors.As(err, &stackErr))
	assert.Equal(t, true, stackErr.Overflow)
	assert.Equal(t, uint(StackDepth), stackErr.Depth)
	assert.Equal(t, true, vm.Halted())
	assert.Equal(t, true, IsFatal(err))

	// halted until reset
	assert.Equal(t, err, vm.Step())

	vm.Reset()
	assert.NoError(t, vm.Step())
}

func TestStackUnderflow(t *testing.T) {
	vm := testVM(t, "\tRET\n")

	err := vm.Step()

	var stackErr *StackError
	assert.Equal(t, true, errors.As(err, &stackErr))
	assert.Equal(t, false, stackErr.Overflow)
	assert.Equal(t, uint(0), stackErr.Depth)
	assert.Equal(t, "stack underflow at 0200 (depth 0)", err.Error())
}

func TestInvalidOpcode(t *testing.T) {
	for _, opcode := range []uint16{0x5001, 0x800F, 0x9009, 0xE000, 0xF0FF, 0x0123, 0x0000} {
		vm, err := LoadROM([]byte{0x00, 0xE0, byte(opcode >> 8), byte(opcode)})
		assert.NoError(t, err)

		steps(t, vm, 1)
		err = vm.Step()

		var opErr *InvalidOpcodeError
		assert.Equal(t, true, errors.As(err, &opErr))
		assert.Equal(t, opcode, opErr.Opcode)
		assert.Equal(t, uint16(0x202), opErr.PC)
		assert.Equal(t, int64(1), vm.Cycles)
	}
}

func TestLoadI(t *testing.T) {
	vm := testVM(t, `
	LD   I, #123
	ADD  I, V0
	`)
	vm.V[0] = 0xFF
	steps(t, vm, 2)
	assert.Equal(t, uint16(0x222), vm.I)
}

func TestFont(t *testing.T) {
	vm := testVM(t, "\tLD F, V0\n")
	vm.V[0] = 0x1A
	steps(t, vm, 1)

	assert.Equal(t, uint16(50), vm.I)
	assert.Equal(t, Font[50:55], vm.Memory[50:55])
}

func TestBCD(t *testing.T) {
	tests := []struct {
		v      byte
		digits []byte
	}{
		{255, []byte{2, 5, 5}},
		{0, []byte{0, 0, 0}},
		{9, []byte{0, 0, 9}},
		{10, []byte{0, 1, 0}},
		{100, []byte{1, 0, 0}},
		{199, []byte{1, 9, 9}},
	}

	for _, test := range tests {
		vm := testVM(t, "\tLD I, #300\n\tLD B, V4\n")
		vm.V[4] = test.v
		steps(t, vm, 2)

		assert.Equal(t, test.digits, vm.Memory[0x300:0x303], fmt.Sprint(test.v))
		assert.Equal(t, uint16(0x300), vm.I)
	}
}

func TestRegisterBlock(t *testing.T) {
	vm := testVM(t, `
	LD   I, #400
	LD   [I], V3
	LD   V3, [I]
	`)
	vm.V = [16]byte{0x11, 0x22, 0x33, 0x44, 0x55}

	steps(t, vm, 2)
	assert.Equal(t, []byte{0x11, 0x22, 0x33, 0x44, 0x00}, vm.Memory[0x400:0x405])
	assert.Equal(t, uint16(0x400), vm.I)

	// mutate memory around the block and clear the registers
	vm.Memory[0x3FF] = 0x99
	vm.Memory[0x404] = 0x99
	vm.V = [16]byte{}

	steps(t, vm, 1)
	assert.Equal(t, [16]byte{0x11, 0x22, 0x33, 0x44}, vm.V)
	assert.Equal(t, uint16(0x400), vm.I)
}

func TestRegisterBlockIncrement(t *testing.T) {
	quirks := DefaultQuirks
	quirks.LoadStore = IndexIncrements

	vm := testVM(t, "\tLD I, #400\n\tLD [I], V2\n\tLD V2, [I]\n", WithQuirks(quirks))

	steps(t, vm, 2)
	assert.Equal(t, uint16(0x403), vm.I)

	// the load starts where the store left off
	vm.I = 0x400
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x403), vm.I)
}

func TestAddressWrap(t *testing.T) {
	vm := testVM(t, "\tLD I, #FFF\n\tLD [I], V1\n")
	vm.V[0], vm.V[1] = 0xAA, 0xBB
	steps(t, vm, 2)

	assert.Equal(t, byte(0xAA), vm.Memory[0xFFF])
	assert.Equal(t, byte(0xBB), vm.Memory[0x000])

	// fetch wraps too
	vm = New()
	vm.PC = 0xFFF
	vm.Memory[0xFFF] = 0x60
	vm.Memory[0x000] = 0x42
	assert.NoError(t, vm.Step())
	assert.Equal(t, byte(0x42), vm.V[0])
}

func TestRandom(t *testing.T) {
	vm := testVM(t, `
	RND  V0, 0
	RND  V1, #0F
	RND  V2, #F0
	`)
	vm.V[0] = 0xFF
	steps(t, vm, 3)

	assert.Equal(t, byte(0), vm.V[0])
	assert.Equal(t, byte(0), vm.V[1]&0xF0)
	assert.Equal(t, byte(0), vm.V[2]&0x0F)

	// same seed, same numbers
	other := testVM(t, "\tRND V1, #0F\n\tRND V1, #0F\n")
	steps(t, other, 2)

	again := testVM(t, "\tRND V1, #0F\n\tRND V1, #0F\n")
	steps(t, again, 2)
	assert.Equal(t, other.V[1], again.V[1])
}

func TestTimers(t *testing.T) {
	vm := testVM(t, `
	LD   V0, 2
	LD   DT, V0
	LD   ST, V0
	LD   V1, DT
	`)
	steps(t, vm, 3)

	assert.Equal(t, byte(2), vm.GetDelayTimer())
	assert.Equal(t, true, vm.Buzzer())

	vm.Tick()
	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[1])

	vm.Tick()
	assert.Equal(t, byte(0), vm.GetDelayTimer())
	assert.Equal(t, byte(0), vm.GetSoundTimer())
	assert.Equal(t, false, vm.Buzzer())

	// timers stop at zero
	vm.Tick()
	assert.Equal(t, byte(0), vm.DT)
	assert.Equal(t, byte(0), vm.ST)
}

func TestKeys(t *testing.T) {
	source := "\tSKP V0\n\tSKNP V0\n"

	vm := testVM(t, source)
	vm.V[0] = 0x5
	vm.PressKey(0x5)
	steps(t, vm, 1)
	assert.Equal(t, uint16(0x204), vm.PC)

	vm = testVM(t, source)
	vm.V[0] = 0x5
	steps(t, vm, 2)
	assert.Equal(t, uint16(0x206), vm.PC)

	// out of range keys are never pressed
	vm = testVM(t, source)
	vm.V[0] = 0x20
	vm.SetKey(0x20, true)
	steps(t, vm, 2)
	assert.Equal(t, uint16(0x206), vm.PC)
	assert.Equal(t, [16]bool{}, vm.Keys)

	vm.PressKey(3)
	vm.ReleaseKey(3)
	assert.Equal(t, false, vm.Pressed(3))
}

func TestWaitKey(t *testing.T) {
	vm := testVM(t, `
	LD   V2, K
	LD   V3, #FF
	`)

	// a key already down doesn't satisfy the wait
	vm.PressKey(1)

	steps(t, vm, 1)
	assert.Equal(t, true, vm.Waiting())

	steps(t, vm, 10)
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.Equal(t, true, vm.Waiting())
	assert.Equal(t, int64(1), vm.Cycles)

	vm.PressKey(0xC)
	steps(t, vm, 1)
	assert.Equal(t, false, vm.Waiting())
	assert.Equal(t, byte(0xC), vm.V[2])
	assert.Equal(t, uint16(0x202), vm.PC)

	steps(t, vm, 1)
	assert.Equal(t, byte(0xFF), vm.V[3])
}

func TestWaitKeyRepress(t *testing.T) {
	vm := testVM(t, "\tLD V2, K\n")
	vm.PressKey(1)
	steps(t, vm, 2)

	vm.ReleaseKey(1)
	steps(t, vm, 1)
	assert.Equal(t, true, vm.Waiting())

	vm.PressKey(1)
	steps(t, vm, 1)
	assert.Equal(t, false, vm.Waiting())
	assert.Equal(t, byte(1), vm.V[2])
}

func TestBreakpoint(t *testing.T) {
	vm := testVM(t, `
	LD   V0, 1
	BREAK check v0
	LD   V1, 2
	SE   V0, V1
	ASSERT never
	LD   V2, 3
	`)
	steps(t, vm, 1)

	err := vm.Step()

	var bp *Breakpoint
	assert.Equal(t, true, errors.As(err, &bp))
	assert.Equal(t, uint16(0x202), bp.Address)
	assert.Equal(t, "CHECK V0", bp.Reason)
	assert.Equal(t, false, IsFatal(err))
	assert.Equal(t, false, vm.Halted())
	assert.Equal(t, byte(0), vm.V[1])

	// resumes past the breakpoint, the assert doesn't fire
	steps(t, vm, 3)
	assert.Equal(t, byte(2), vm.V[1])
	assert.Equal(t, byte(3), vm.V[2])
}

func TestStepOver(t *testing.T) {
	vm := testVM(t, `
	CALL ROUTINE
	LD   V1, 1
.ROUTINE
	LD   V0, 1
	RET
	`)

	vm.SetOverBreakpoint()
	steps(t, vm, 3)

	err := vm.Step()

	var bp *Breakpoint
	assert.Equal(t, true, errors.As(err, &bp))
	assert.Equal(t, uint16(0x202), vm.PC)
	assert.Equal(t, 0, len(vm.Breakpoints))

	steps(t, vm, 1)
	assert.Equal(t, byte(1), vm.V[1])
}

func TestToggleBreakpoint(t *testing.T) {
	vm := New()

	vm.ToggleBreakpoint()
	assert.Equal(t, 1, len(vm.Breakpoints))

	vm.ToggleBreakpoint()
	assert.Equal(t, 0, len(vm.Breakpoints))
}
