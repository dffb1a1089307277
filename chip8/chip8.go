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
	"math/rand"
	"os"
	"time"
)

const (
	/// MemorySize is the size of addressable memory.
	///
	MemorySize = 0x1000

	/// ProgramStart is where programs are loaded and execution begins.
	///
	ProgramStart = 0x200

	/// StackDepth is the maximum number of nested subroutine calls.
	///
	StackDepth = 16
)

/// CHIP_8 virtual machine emulator. A machine is owned by a single
/// goroutine; run independent instances for concurrent machines.
///
type CHIP_8 struct {
	/// ROM is the pristine memory image: the font sprites and the loaded
	/// program. Memory is reset back to it.
	///
	ROM [MemorySize]byte

	/// Memory addressable by CHIP-8. The first 512 bytes are reserved
	/// for the font sprites.
	///
	Memory [MemorySize]byte

	/// Video memory (64x32). One byte per pixel, 0 or 1, row-major.
	///
	Video [ScreenWidth * ScreenHeight]byte

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// Stack holds return addresses. SP is the number of addresses on
	/// it, so 0 is empty and StackDepth is full.
	///
	Stack [StackDepth]uint16
	SP    uint

	/// I is the address register. Only the low 12 bits address memory.
	///
	I uint16

	/// V are the 16 virtual registers. VF doubles as the flag register.
	///
	V [16]byte

	/// DT and ST are the delay and sound timers, decremented by Tick.
	///
	DT byte
	ST byte

	/// Cycles is how many instructions have executed since reset.
	///
	Cycles int64

	/// Keys hold the current state for the 16-key pad keys.
	///
	Keys [16]bool

	/// Quirks fixes the behavior of ambiguous instructions.
	///
	Quirks Quirks

	/// Breakpoints by address.
	///
	Breakpoints map[uint16]Breakpoint

	/// Fault is the fatal error that halted the machine, if any.
	///
	Fault error

	// key wait state (FX0A)
	waiting bool
	waitReg uint
	held    [16]bool

	// set after reporting a breakpoint so the next step executes it
	resume bool

	rng *rand.Rand
}

/// Option configures a new machine.
///
type Option func(vm *CHIP_8)

/// WithQuirks sets the instruction quirks.
///
func WithQuirks(q Quirks) Option {
	return func(vm *CHIP_8) {
		vm.Quirks = q
	}
}

/// WithRandSource sets the source RND draws from. Tests use a fixed
/// seed to get deterministic programs.
///
func WithRandSource(src rand.Source) Option {
	return func(vm *CHIP_8) {
		vm.rng = rand.New(src)
	}
}

/// New returns a machine with no program loaded.
///
func New(opts ...Option) *CHIP_8 {
	vm := &CHIP_8{
		Quirks:      DefaultQuirks,
		Breakpoints: make(map[uint16]Breakpoint),
	}

	for _, opt := range opts {
		opt(vm)
	}

	if vm.rng == nil {
		vm.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	// the font lives at the bottom of memory
	copy(vm.ROM[:], Font[:])

	vm.Reset()

	return vm
}

/// Load a program into memory at 0x200. If it doesn't fit, nothing is
/// written and a *RomSizeError is returned. Only memory at and above
/// 0x200 changes; call Reset to restart the machine on the program.
///
func (vm *CHIP_8) Load(program []byte) error {
	if len(program) == 0 {
		return ErrNoProgram
	}

	if free := MemorySize - ProgramStart; len(program) > free {
		return &RomSizeError{Size: len(program), Free: free}
	}

	// clear any previous program
	for i := ProgramStart; i < MemorySize; i++ {
		vm.ROM[i] = 0
		vm.Memory[i] = 0
	}

	copy(vm.ROM[ProgramStart:], program)
	copy(vm.Memory[ProgramStart:], program)

	return nil
}

/// LoadROM from a byte array and return a new CHIP-8 virtual machine.
///
func LoadROM(program []byte, opts ...Option) (*CHIP_8, error) {
	vm := New(opts...)

	if err := vm.Load(program); err != nil {
		return nil, err
	}

	return vm, nil
}

/// LoadFile loads a ROM file and returns a new CHIP-8 virtual machine.
///
func LoadFile(file string, opts ...Option) (*CHIP_8, error) {
	program, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}

	return LoadROM(program, opts...)
}

/// LoadAssembly loads an assembled program and its breakpoints.
///
func (vm *CHIP_8) LoadAssembly(asm *Assembly) error {
	if err := vm.Load(asm.ROM); err != nil {
		return err
	}

	vm.Breakpoints = make(map[uint16]Breakpoint)

	for _, bp := range asm.Breakpoints {
		vm.Breakpoints[bp.Address] = bp
	}

	return nil
}

/// Reset the CHIP-8 virtual machine to its just-loaded state. This is
/// the only way to recover from a fault.
///
func (vm *CHIP_8) Reset() {
	vm.Memory = vm.ROM

	// reset video memory
	vm.Video = [ScreenWidth * ScreenHeight]byte{}

	// keys belong to the host and stay as they are

	// reset program counter and stack
	vm.PC = ProgramStart
	vm.Stack = [StackDepth]uint16{}
	vm.SP = 0

	// reset address register
	vm.I = 0

	// reset virtual registers
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	vm.Cycles = 0
	vm.Fault = nil

	// not waiting for a key
	vm.waiting = false
	vm.waitReg = 0
	vm.held = [16]bool{}

	vm.resume = false
}

/// Halted returns true if a fatal error stopped the machine.
///
func (vm *CHIP_8) Halted() bool {
	return vm.Fault != nil
}

/// Step the CHIP-8 virtual machine a single instruction. While waiting
/// for a key no instruction is fetched; the keypad is polled instead.
///
/// A *Breakpoint is returned (without executing anything) when PC
/// reaches a breakpoint; the following Step executes the instruction.
/// Any other error is fatal and is returned again by every Step until
/// the machine is reset.
///
func (vm *CHIP_8) Step() error {
	if vm.Fault != nil {
		return vm.Fault
	}

	if vm.waiting {
		vm.pollKeys()
		return nil
	}

	if bp, ok := vm.checkBreakpoint(); ok {
		return bp
	}

	pc := vm.PC
	inst := Decode(vm.fetch())

	if err := vm.execute(pc, inst); err != nil {
		vm.Fault = err
		return err
	}

	// increment the cycle count
	vm.Cycles += 1

	return nil
}

/// Fetch the next 16-bit instruction to execute and advance the program
/// counter past it.
///
func (vm *CHIP_8) fetch() uint16 {
	i := vm.PC

	// advance the program counter
	vm.PC += 2

	// return the 16-bit instruction
	return uint16(vm.read(i))<<8 | uint16(vm.read(i+1))
}

// read a byte of memory, wrapping the address.
func (vm *CHIP_8) read(address uint16) byte {
	return vm.Memory[address&AddressMask]
}

// write a byte of memory, wrapping the address.
func (vm *CHIP_8) write(address uint16, b byte) {
	vm.Memory[address&AddressMask] = b
}

/// Read returns the opcode at an address without executing it.
///
func (vm *CHIP_8) Read(address uint16) uint16 {
	return uint16(vm.read(address))<<8 | uint16(vm.read(address+1))
}
