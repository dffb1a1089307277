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

/// TimerFrequency is the rate (Hz) the host should call Tick at.
///
const TimerFrequency = 60

/// Tick counts both timers down by one, stopping at zero.
///
func (vm *CHIP_8) Tick() {
	if vm.DT > 0 {
		vm.DT -= 1
	}

	if vm.ST > 0 {
		vm.ST -= 1
	}
}

/// GetDelayTimer returns the delay timer register.
///
func (vm *CHIP_8) GetDelayTimer() byte {
	return vm.DT
}

/// GetSoundTimer returns the sound timer register.
///
func (vm *CHIP_8) GetSoundTimer() byte {
	return vm.ST
}

/// Buzzer returns true while the sound timer is running.
///
func (vm *CHIP_8) Buzzer() bool {
	return vm.ST > 0
}
