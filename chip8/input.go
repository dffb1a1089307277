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

/// SetKey sets the state of one of the 16 pad keys. Keys outside the
/// pad are ignored.
///
func (vm *CHIP_8) SetKey(key uint, pressed bool) {
	if key < uint(len(vm.Keys)) {
		vm.Keys[key] = pressed
	}
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *CHIP_8) PressKey(key uint) {
	vm.SetKey(key, true)
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *CHIP_8) ReleaseKey(key uint) {
	vm.SetKey(key, false)
}

/// Pressed returns true if key is down. Keys outside the pad are never
/// pressed.
///
func (vm *CHIP_8) Pressed(key uint) bool {
	return key < uint(len(vm.Keys)) && vm.Keys[key]
}

/// Waiting returns true while an LD Vx, K instruction waits for a key.
///
func (vm *CHIP_8) Waiting() bool {
	return vm.waiting
}

/// pollKeys completes a key wait when any key goes from released to
/// pressed. The lowest such key wins.
///
func (vm *CHIP_8) pollKeys() {
	for k, down := range vm.Keys {
		if down && !vm.held[k] {
			vm.V[vm.waitReg] = byte(k)

			// clear wait flag
			vm.waiting = false
			break
		}
	}

	vm.held = vm.Keys
}
