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

/// Breakpoint stops Step before the instruction at Address executes.
/// It is returned by Step as an error, but isn't fatal.
///
type Breakpoint struct {
	/// Address of the instruction to break on.
	///
	Address uint16

	/// Conditional breakpoints (ASSERT) only break if VF is set.
	///
	Conditional bool

	/// Reason is shown to the user when the breakpoint is hit.
	///
	Reason string

	/// Once breakpoints are removed when hit.
	///
	Once bool
}

func (bp *Breakpoint) Error() string {
	if bp.Reason == "" {
		return fmt.Sprintf("breakpoint at %04X", bp.Address)
	}

	return fmt.Sprintf("breakpoint at %04X: %s", bp.Address, bp.Reason)
}

/// checkBreakpoint returns the breakpoint at PC if it should break now.
///
func (vm *CHIP_8) checkBreakpoint() (*Breakpoint, bool) {
	if vm.resume {
		vm.resume = false
		return nil, false
	}

	bp, ok := vm.Breakpoints[vm.PC]
	if !ok {
		return nil, false
	}

	if bp.Conditional && vm.V[0xF] == 0 {
		return nil, false
	}

	if bp.Once {
		delete(vm.Breakpoints, vm.PC)
	} else {
		vm.resume = true
	}

	return &bp, true
}

/// SetBreakpoint adds an unconditional breakpoint at address.
///
func (vm *CHIP_8) SetBreakpoint(address uint16, reason string) {
	vm.Breakpoints[address] = Breakpoint{Address: address, Reason: reason}
}

/// ClearBreakpoint removes the breakpoint at address, if any.
///
func (vm *CHIP_8) ClearBreakpoint(address uint16) {
	delete(vm.Breakpoints, address)
}

/// ToggleBreakpoint at the current program counter.
///
func (vm *CHIP_8) ToggleBreakpoint() {
	if _, ok := vm.Breakpoints[vm.PC]; ok {
		vm.ClearBreakpoint(vm.PC)
	} else {
		vm.SetBreakpoint(vm.PC, "user break")
	}
}

/// SetOverBreakpoint sets a one-shot breakpoint on the instruction after
/// the current one, so a CALL runs to completion before breaking again.
///
func (vm *CHIP_8) SetOverBreakpoint() {
	address := vm.PC + 2

	if _, ok := vm.Breakpoints[address]; !ok {
		vm.Breakpoints[address] = Breakpoint{
			Address: address,
			Reason:  "step over",
			Once:    true,
		}
	}

	// don't stop on a breakpoint at the current instruction
	vm.resume = true
}
