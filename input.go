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
	"errors"
	"log/slog"

	"github.com/sqweek/dialog"
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]uint{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM. Returns false
/// once the window is closed.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			if key, ok := KeyMap[ev.Keysym.Scancode]; ok {
				Emu.VM.SetKey(key, ev.Type == sdl.KEYDOWN)
			} else if ev.Type == sdl.KEYDOWN {
				ProcessKey(ev.Keysym.Scancode, ev.Keysym.Mod)
			}
		}
	}

	return true
}

/// ProcessKey handles the emulation and debugger keys.
///
func ProcessKey(code sdl.Scancode, mod uint16) {
	switch code {
	case sdl.SCANCODE_ESCAPE:
		Log.Logln("Unloading ROM")
		Emu.Unload()
	case sdl.SCANCODE_BACKSPACE:
		Emu.Reset(mod&sdl.KMOD_CTRL != 0)
	case sdl.SCANCODE_UP, sdl.SCANCODE_PAGEUP:
		DebugScroll(-1)
	case sdl.SCANCODE_DOWN, sdl.SCANCODE_PAGEDOWN:
		DebugScroll(1)
	case sdl.SCANCODE_HOME:
		Log.Home()
	case sdl.SCANCODE_END:
		Log.End()
	case sdl.SCANCODE_F2:
		if err := Emu.Reload(); err != nil {
			slog.Error("reload failed", "err", err)
		}
	case sdl.SCANCODE_F3:
		LoadDialog()
	case sdl.SCANCODE_H:
		DebugHelp()
	case sdl.SCANCODE_LEFTBRACKET:
		Emu.DecSpeed()
	case sdl.SCANCODE_RIGHTBRACKET:
		Emu.IncSpeed()
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		Emu.TogglePause()
	case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
		Emu.Step()
	case sdl.SCANCODE_F7, sdl.SCANCODE_F11:
		Emu.StepOver()
	case sdl.SCANCODE_F8:
		if Emu.Paused {
			DebugMemory()
		}
	case sdl.SCANCODE_F9:
		if Emu.Paused {
			Emu.VM.ToggleBreakpoint()
		}
	}
}

/// LoadDialog asks for a file to load.
///
func LoadDialog() {
	file, err := dialog.File().
		Title("Load CHIP-8 program").
		Filter("All files", "*").
		Filter("CHIP-8 ROM", "ch8", "rom").
		Filter("CHIP-8 source", "c8", "asm").
		Load()
	if err != nil {
		if !errors.Is(err, dialog.ErrCancelled) {
			slog.Error("open dialog", "err", err)
		}

		return
	}

	if err = Emu.Load(file); err != nil {
		slog.Error("load failed", "err", err)
		dialog.Message("%v", err).Title("Load failed").Error()
	}
}
