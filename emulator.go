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
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/massung/CHIP-8/chip8"
)

const (
	/// DefaultSpeed is the number of instructions executed per second.
	/// Roughly what an 1802 running the original interpreter managed.
	///
	DefaultSpeed = 500

	/// MinSpeed and MaxSpeed clamp the speed controls.
	///
	MinSpeed = 60
	MaxSpeed = 6000

	/// Frame is the period of one timer tick.
	///
	Frame = time.Second / chip8.TimerFrequency

	/// maxLag is the most time Advance will catch up on at once.
	///
	maxLag = 10 * Frame
)

/// Boot is shown when no ROM is loaded: "C8" and a wait for a key.
///
const Boot = `
	CLS
	LD V0, #C
	LD F, V0
	LD V1, 22
	LD V2, 13
	DRW V1, V2, 5
	LD V0, 8
	LD F, V0
	ADD V1, 12
	DRW V1, V2, 5
.LOOP	LD V0, K
	JP LOOP
`

/// Emulator runs a CHIP-8 machine in real time.
///
type Emulator struct {
	/// VM is the machine being emulated.
	///
	VM *chip8.CHIP_8

	/// File is the ROM or source file currently loaded, empty when
	/// running the boot program.
	///
	File string

	/// Speed is the number of instructions executed per second.
	///
	Speed int

	/// Paused stops Advance from running the machine.
	///
	Paused bool

	log *slog.Logger

	// time not yet spent running frames
	lag time.Duration
}

/// NewEmulator creates a machine running the boot program.
///
func NewEmulator(quirks chip8.Quirks, log *slog.Logger) *Emulator {
	vm := chip8.New(
		chip8.WithQuirks(quirks),
		chip8.WithRandSource(rand.NewSource(time.Now().UnixNano())),
	)

	e := &Emulator{
		VM:    vm,
		Speed: DefaultSpeed,
		log:   log,
	}

	e.Unload()

	return e
}

/// Load a ROM image or assembler source file into the machine.
///
func (e *Emulator) Load(file string) error {
	program, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("reading file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(file)) {
	case ".c8", ".asm":
		asm, err := chip8.Assemble(program)
		if err != nil {
			return fmt.Errorf("assembling %s: %w", filepath.Base(file), err)
		}

		if err = e.VM.LoadAssembly(asm); err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(file), err)
		}

		e.log.Info("assembled", "file", file, "size", len(asm.ROM), "breakpoints", len(asm.Breakpoints))
	default:
		if err := e.VM.Load(program); err != nil {
			return fmt.Errorf("loading %s: %w", filepath.Base(file), err)
		}

		e.VM.Breakpoints = make(map[uint16]chip8.Breakpoint)

		e.log.Info("loaded", "file", file, "size", len(program))
	}

	// restart on the new program
	e.VM.Reset()

	e.File = file
	e.lag = 0

	return nil
}

/// Reload the current file from disk, or the boot program.
///
func (e *Emulator) Reload() error {
	if e.File == "" {
		e.Unload()
		return nil
	}

	return e.Load(e.File)
}

/// Unload the current ROM and go back to the boot program.
///
func (e *Emulator) Unload() {
	asm, err := chip8.Assemble([]byte(Boot))
	if err != nil {
		panic(err)
	}

	if err = e.VM.LoadAssembly(asm); err != nil {
		panic(err)
	}

	e.VM.Reset()

	e.File = ""
	e.lag = 0
}

/// Reset the machine, optionally coming back up paused.
///
func (e *Emulator) Reset(paused bool) {
	e.VM.Reset()

	e.Paused = paused
	e.lag = 0

	e.log.Info("reset", "file", e.File)
}

/// IncSpeed doubles the speed of the emulation.
///
func (e *Emulator) IncSpeed() {
	e.SetSpeed(e.Speed * 2)
}

/// DecSpeed halves the speed of the emulation.
///
func (e *Emulator) DecSpeed() {
	e.SetSpeed(e.Speed / 2)
}

/// SetSpeed clamps and sets the instructions per second.
///
func (e *Emulator) SetSpeed(speed int) {
	if speed < MinSpeed {
		speed = MinSpeed
	}

	if speed > MaxSpeed {
		speed = MaxSpeed
	}

	e.Speed = speed

	e.log.Info("speed", "speed", e.Speed)
}

/// TogglePause pauses or resumes emulation.
///
func (e *Emulator) TogglePause() {
	e.Paused = !e.Paused
	e.lag = 0

	if e.Paused {
		e.log.Debug("paused", "pc", hex16(e.VM.PC))
	}
}

/// Step executes a single instruction while paused.
///
func (e *Emulator) Step() {
	if !e.Paused || e.VM.Halted() {
		return
	}

	if err := e.VM.Step(); err != nil {
		var bp *chip8.Breakpoint

		// already paused on it, so step past it
		if errors.As(err, &bp) {
			err = e.VM.Step()
		}

		if err != nil {
			e.fault(err)
		}
	}
}

/// StepOver runs until the instruction after the current one.
///
func (e *Emulator) StepOver() {
	if e.Paused {
		e.VM.SetOverBreakpoint()
		e.Paused = false
	}
}

/// Advance the machine by elapsed wall time, running one frame per
/// 60th of a second.
///
func (e *Emulator) Advance(elapsed time.Duration) {
	if e.Paused {
		return
	}

	e.lag += elapsed

	// don't try to catch up after a stall
	if e.lag > maxLag {
		e.lag = maxLag
	}

	for e.lag >= Frame && !e.Paused {
		e.lag -= Frame
		e.RunFrame()
	}
}

/// RunFrame executes one frame worth of instructions, then ticks the
/// timers. A machine waiting for a key runs no further instructions
/// this frame.
///
func (e *Emulator) RunFrame() {
	if e.VM.Halted() {
		e.Paused = true
		return
	}

	cycles := e.Speed / chip8.TimerFrequency
	if cycles < 1 {
		cycles = 1
	}

	for i := 0; i < cycles; i++ {
		if err := e.VM.Step(); err != nil {
			e.fault(err)
			return
		}

		if e.VM.Waiting() {
			break
		}
	}

	e.VM.Tick()
}

/// fault pauses emulation and logs why.
///
func (e *Emulator) fault(err error) {
	var bp *chip8.Breakpoint

	e.Paused = true
	e.lag = 0

	if errors.As(err, &bp) {
		e.log.Info("break", "pc", hex16(bp.Address), "reason", bp.Reason)
		return
	}

	var op *chip8.InvalidOpcodeError

	if errors.As(err, &op) {
		e.log.Error("machine halted", "pc", hex16(op.PC), "opcode", hex16(op.Opcode), "err", err)
		return
	}

	e.log.Error("machine halted", "pc", hex16(e.VM.PC), "err", err)
}

func hex16(n uint16) string {
	return fmt.Sprintf("%04X", n)
}
