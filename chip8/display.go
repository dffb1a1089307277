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

const (
	/// ScreenWidth and ScreenHeight are the display size in pixels.
	///
	ScreenWidth  = 64
	ScreenHeight = 32
)

/// GetResolution returns the width and height of the CHIP-8 display.
///
func (vm *CHIP_8) GetResolution() (uint, uint) {
	return ScreenWidth, ScreenHeight
}

/// Pixel returns true if the pixel at <x,y> is on. Coordinates wrap.
///
func (vm *CHIP_8) Pixel(x, y uint) bool {
	return vm.Video[(y%ScreenHeight)*ScreenWidth+x%ScreenWidth] != 0
}

/// Clear the video display memory.
///
func (vm *CHIP_8) cls() {
	for i := range vm.Video {
		vm.Video[i] = 0
	}
}

/// draw an n-row sprite at I to video memory at vx, vy. Pixels past an
/// edge wrap around to the opposite edge. VF is set if any pixel that
/// was on is turned off.
///
func (vm *CHIP_8) drw(x, y uint, n byte) {
	c := byte(0)

	// origin wraps onto the screen
	ox := uint(vm.V[x]) % ScreenWidth
	oy := uint(vm.V[y]) % ScreenHeight

	// draw each row of the sprite
	for row := uint(0); row < uint(n); row++ {
		s := vm.read(vm.I + uint16(row))

		// which scan line will it render on
		line := (oy + row) % ScreenHeight * ScreenWidth

		// msb is the leftmost pixel
		for bit := uint(0); bit < 8; bit++ {
			if s&(0x80>>bit) == 0 {
				continue
			}

			p := line + (ox+bit)%ScreenWidth

			// collision if the pixel is turned off
			c |= vm.Video[p]

			vm.Video[p] ^= 1
		}
	}

	// set carry flag if any collision occurred
	vm.V[0xF] = c
}
