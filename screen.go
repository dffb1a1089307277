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

package main

import (
	"github.com/massung/CHIP-8/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Bytes per pixel of the screen texture.
	///
	scrDepth = 4
)

var (
	/// Screen is the texture the CHIP-8 video memory is copied to.
	///
	Screen *sdl.Texture

	/// Pixels of the screen texture.
	///
	Pixels = make([]byte, chip8.ScreenWidth*chip8.ScreenHeight*scrDepth)

	/// Colors of lit and unlit pixels.
	///
	Foreground = sdl.Color{R: 17, G: 29, B: 43, A: 255}
	Background = sdl.Color{R: 143, G: 145, B: 133, A: 255}
)

/// InitScreen creates the texture for the CHIP-8 video memory.
///
func InitScreen() error {
	var err error

	Screen, err = Renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STREAMING), chip8.ScreenWidth, chip8.ScreenHeight)

	return err
}

/// RefreshScreen with the CHIP-8 video memory.
///
func RefreshScreen(vm *chip8.CHIP_8) error {
	for i, cell := range vm.Video {
		c := Background
		if cell != 0 {
			c = Foreground
		}

		p := i * scrDepth

		Pixels[p] = c.R
		Pixels[p+1] = c.G
		Pixels[p+2] = c.B
		Pixels[p+3] = c.A
	}

	return Screen.Update(nil, Pixels, chip8.ScreenWidth*scrDepth)
}

/// CopyScreen to the renderer, stretched to fit.
///
func CopyScreen(x, y, w, h int32) {
	Renderer.Copy(Screen, nil, &sdl.Rect{X: x, Y: y, W: w, H: h})
}
