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
	"fmt"
	"time"

	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Size of the main window.
	///
	WindowWidth  = 640
	WindowHeight = 456

	/// Scale of each CHIP-8 pixel.
	///
	PixelScale = 6
)

var (
	/// The SDL Window and Renderer.
	///
	Window   *sdl.Window
	Renderer *sdl.Renderer
)

/// RunWindow opens the debugger window and runs the emulator until
/// the window is closed. Must be called from the main thread.
///
func RunWindow(title string) error {
	var err error

	if err = sdl.Init(sdl.INIT_VIDEO); err != nil {
		return fmt.Errorf("initializing SDL: %w", err)
	}
	defer sdl.Quit()

	// create the main window and renderer
	flags := uint32(sdl.WINDOW_OPENGL)
	if Window, Renderer, err = sdl.CreateWindowAndRenderer(WindowWidth, WindowHeight, flags); err != nil {
		return fmt.Errorf("creating window: %w", err)
	}
	defer Window.Destroy()
	defer Renderer.Destroy()

	Window.SetTitle(title)

	// initialize subsystems
	if err = InitScreen(); err != nil {
		return fmt.Errorf("creating screen: %w", err)
	}

	if err = InitFont(); err != nil {
		return fmt.Errorf("creating font: %w", err)
	}

	video := time.NewTicker(Frame)
	defer video.Stop()

	last := time.Now()

	// loop until window closed or user quit
	for ProcessEvents() {
		now := <-video.C

		Emu.Advance(now.Sub(last))
		last = now

		if err = Refresh(); err != nil {
			return err
		}
	}

	return nil
}

/// Refresh redraws the whole window.
///
func Refresh() error {
	Renderer.SetDrawColor(32, 42, 53, 255)
	Renderer.Clear()

	sw := int32(64 * PixelScale)
	sh := int32(32 * PixelScale)

	// frame various portions of the app
	DrawFrame(8, 8, sw+4, sh+4)
	DrawFrame(sw+20, 8, WindowWidth-sw-28, sh+4)
	DrawFrame(8, sh+20, 236, WindowHeight-sh-28)
	DrawFrame(252, sh+20, WindowWidth-260, WindowHeight-sh-28)

	// update the video screen and copy it
	if err := RefreshScreen(Emu.VM); err != nil {
		return fmt.Errorf("updating screen: %w", err)
	}

	CopyScreen(10, 10, sw, sh)

	// debug assembly, registers and log
	DebugAssembly(int(sw)+24, 12)
	DebugRegisters(12, int(sh)+24)
	DebugLog(256, int(sh)+24)

	// show the new frame
	Renderer.Present()

	return nil
}

/// DrawFrame draws a sunken frame around an area.
///
func DrawFrame(x, y, w, h int32) {
	Renderer.SetDrawColor(0, 0, 0, 255)
	Renderer.DrawLine(x, y, x+w, y)
	Renderer.DrawLine(x, y, x, y+h)

	// highlight
	Renderer.SetDrawColor(95, 112, 120, 255)
	Renderer.DrawLine(x+w, y, x+w, y+h)
	Renderer.DrawLine(x, y+h, x+w, y+h)
}
