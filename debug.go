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
	"log/slog"
	"os"

	"github.com/bradleyjkemp/memviz"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	/// Number of instructions shown in the assembly listing.
	///
	listingSize = 13

	/// Number of log lines shown.
	///
	logSize = 16

	/// Widest log line shown, in characters.
	///
	logWidth = 52
)

var (
	/// Address is the first address shown in the assembly listing.
	///
	Address uint16

	/// Log is the text shown in the debug log panel.
	///
	Log = NewLog()
)

/// DebugHelp shows the help text in the log.
///
func DebugHelp() {
	Log.Logln("Virtual keys:")
	Log.Log("  1-2-3-4")
	Log.Log("  Q-W-E-R")
	Log.Log("  A-S-D-F")
	Log.Log("  Z-X-C-V")
	Log.Logln("Emulation keys:")
	Log.Log("  ESC      - Unload ROM")
	Log.Log("  BS       - Reset (+CTRL paused)")
	Log.Log("  F2       - Reload ROM")
	Log.Log("  F3       - Open ROM")
	Log.Log("  SPACE/F5 - Pause")
	Log.Log("  F6/F10   - Step")
	Log.Log("  F7/F11   - Step over")
	Log.Log("  F8       - Dump machine graph")
	Log.Log("  F9       - Toggle breakpoint")
	Log.Log("  [ ]      - Speed -/+")
	Log.Log("  UP/DOWN  - Scroll log")
	Log.Log("  H        - Help")
}

/// DebugAssembly renders the disassembled instructions around the
/// program counter.
///
func DebugAssembly(x, y int) {
	vm := Emu.VM

	// keep the listing still until the PC leaves it
	if vm.PC < Address || vm.PC >= Address+listingSize*2 || (vm.PC-Address)&1 == 1 {
		Address = vm.PC
		if Address >= 2 {
			Address -= 2
		}
	}

	for i := 0; i < listingSize; i++ {
		address := Address + uint16(i*2)
		line := y + i*LineHeight

		if address == vm.PC {
			if Emu.Paused {
				Renderer.SetDrawColor(176, 32, 57, 255)
			} else {
				Renderer.SetDrawColor(57, 102, 176, 255)
			}

			// highlight the current instruction
			Renderer.FillRect(&sdl.Rect{
				X: int32(x),
				Y: int32(line) - 1,
				W: 200,
				H: LineHeight,
			})
		}

		if _, ok := vm.Breakpoints[address]; ok {
			DrawTextColor("*", x, line, 255, 96, 96)
		}

		DrawText(vm.Disassemble(address), x+GlyphWidth, line)
	}
}

/// DebugRegisters shows the current value of all the CHIP-8 registers.
///
func DebugRegisters(x, y int) {
	vm := Emu.VM

	for i := 0; i < 8; i++ {
		DrawText(fmt.Sprintf("V%X-%02X", i, vm.V[i]), x, y+i*LineHeight)
		DrawText(fmt.Sprintf("V%X-%02X", i+8, vm.V[i+8]), x+56, y+i*LineHeight)
	}

	// shift over for the other registers
	x += 120

	DrawText(fmt.Sprintf("PC-%04X", vm.PC), x, y)
	DrawText(fmt.Sprintf("SP-%d", vm.SP), x, y+LineHeight)
	DrawText(fmt.Sprintf("I -%04X", vm.I), x, y+LineHeight*2)
	DrawText(fmt.Sprintf("DT-%02X", vm.GetDelayTimer()), x, y+LineHeight*4)
	DrawText(fmt.Sprintf("ST-%02X", vm.GetSoundTimer()), x, y+LineHeight*5)

	if vm.Buzzer() {
		DrawTextColor("BEEP", x+56, y+LineHeight*5, 255, 200, 64)
	}

	DrawText(fmt.Sprintf("%d IPS", Emu.Speed), x, y+LineHeight*7)

	if vm.Waiting() {
		DrawTextColor("WAITING FOR KEY", x, y+LineHeight*8, 255, 200, 64)
	}
}

/// DebugLog shows the current log text.
///
func DebugLog(x, y int) {
	for _, line := range Log.Window(logSize) {
		if len(line) > logWidth {
			line = line[:logWidth-3] + "..."
		}

		DrawText(line, x, y)

		// advance to the next line
		y += LineHeight
	}
}

/// DebugMemory writes a graph of the machine state to a dot file.
///
func DebugMemory() {
	f, err := os.CreateTemp("", "chip8-*.dot")
	if err != nil {
		slog.Error("dumping machine", "err", err)
		return
	}
	defer f.Close()

	memviz.Map(f, Emu.VM)

	slog.Info("machine graph written", "file", f.Name())
}

/// DebugScroll scrolls the log up (-1) or down (1).
///
func DebugScroll(d int) {
	if d < 0 {
		Log.ScrollUp()
	} else {
		Log.ScrollDown(logSize)
	}
}
