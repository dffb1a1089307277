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
)

/// InvalidOpcodeError is returned by Step when the fetched opcode does
/// not decode to an executable CHIP-8 instruction. It is fatal: the
/// machine stays halted until Reset.
///
type InvalidOpcodeError struct {
	/// Opcode is the raw 16-bit instruction word.
	///
	Opcode uint16

	/// PC is the address the opcode was fetched from.
	///
	PC uint16
}

func (e *InvalidOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode %04X at %04X", e.Opcode, e.PC)
}

/// StackError is returned when a CALL would push a 17th return address
/// or a RET is executed with an empty stack.
///
type StackError struct {
	/// Overflow is true for a push onto a full stack, false for a pop
	/// from an empty one.
	///
	Overflow bool

	/// Depth is the stack depth when the fault occurred.
	///
	Depth uint

	/// PC is the address of the faulting instruction.
	///
	PC uint16
}

func (e *StackError) Error() string {
	if e.Overflow {
		return fmt.Sprintf("stack overflow at %04X (depth %d)", e.PC, e.Depth)
	}

	return fmt.Sprintf("stack underflow at %04X (depth %d)", e.PC, e.Depth)
}

/// RomSizeError is returned when a program image doesn't fit in the
/// memory above the program start address.
///
type RomSizeError struct {
	Size int
	Free int
}

func (e *RomSizeError) Error() string {
	return fmt.Sprintf("program too large: %d bytes, %d bytes free", e.Size, e.Free)
}

// ErrNoProgram is returned when attempting to load an empty program.
var ErrNoProgram = errors.New("empty program")

/// IsFatal returns true if err halts the machine. Breakpoints are the
/// only non-fatal errors Step returns.
///
func IsFatal(err error) bool {
	var bp *Breakpoint

	if err == nil {
		return false
	}

	return !errors.As(err, &bp)
}
