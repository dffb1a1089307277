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
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/massung/CHIP-8/chip8"
	"github.com/retroenv/retrogolib/buildinfo"
	"github.com/sqweek/dialog"
)

var (
	version = "0.2.0"
	commit  = ""
	date    = ""
)

/// The emulator being run.
///
var Emu *Emulator

type optionFlags struct {
	rom   string
	speed int

	term   bool
	paused bool
	debug  bool
	stats  string

	shiftVY      bool
	loadStoreInc bool
	jumpVX       bool

	version bool
}

func init() {
	runtime.LockOSThread()
}

func main() {
	options := readArguments()

	if options.version {
		fmt.Printf("chip-8 version: %s\n", buildinfo.Version(version, commit, date))
		return
	}

	if err := run(options); err != nil {
		fmt.Fprintln(os.Stderr, fmt.Errorf("chip-8: %w", err))
		os.Exit(1)
	}
}

func readArguments() optionFlags {
	flags := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	options := optionFlags{}

	flags.StringVar(&options.rom, "rom", "", "ROM image or .c8/.asm source file to load")
	flags.IntVar(&options.speed, "speed", DefaultSpeed, "instructions executed per second")
	flags.BoolVar(&options.term, "term", false, "run in the terminal instead of a window")
	flags.BoolVar(&options.paused, "paused", false, "start with emulation paused")
	flags.BoolVar(&options.debug, "debug", false, "show debug log messages")
	flags.StringVar(&options.stats, "stats", "", "serve runtime statistics on this address, e.g. localhost:12600")
	flags.BoolVar(&options.shiftVY, "shift-vy", false, "SHR/SHL shift VY into VX")
	flags.BoolVar(&options.loadStoreInc, "loadstore-inc", false, "LD [I], VX and LD VX, [I] advance I")
	flags.BoolVar(&options.jumpVX, "jump-vx", false, "JP V0, NNN jumps to XNN + VX")
	flags.BoolVar(&options.version, "version", false, "print the version and exit")

	_ = flags.Parse(os.Args[1:])

	if options.rom == "" && flags.NArg() > 0 {
		options.rom = flags.Arg(0)
	}

	return options
}

/// quirks returns the machine quirks selected on the command line.
///
func (options optionFlags) quirks() chip8.Quirks {
	q := chip8.DefaultQuirks

	if options.shiftVY {
		q.Shift = chip8.ShiftVY
	}

	if options.loadStoreInc {
		q.LoadStore = chip8.IndexIncrements
	}

	if options.jumpVX {
		q.JumpOffset = chip8.JumpVX
	}

	return q
}

func run(options optionFlags) error {
	level := slog.LevelInfo
	if options.debug {
		level = slog.LevelDebug
	}

	// the terminal owns stdout/stderr while running
	var next slog.Handler
	if !options.term {
		next = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
	}

	logger := slog.New(NewLogHandler(Log, level, next))
	slog.SetDefault(logger)

	logger.Info("chip-8", "version", buildinfo.Version(version, commit, date))

	if options.stats != "" {
		launchStats(options.stats)
	}

	Emu = NewEmulator(options.quirks(), logger)
	Emu.SetSpeed(options.speed)
	Emu.Paused = options.paused

	if options.term {
		return runTerminal(options)
	}

	// ask for a program when none was given
	if options.rom == "" {
		file, err := dialog.File().Title("Load CHIP-8 program").Load()
		if err == nil {
			options.rom = file
		}
	}

	if options.rom != "" {
		if err := Emu.Load(options.rom); err != nil {
			return err
		}
	}

	title := "CHIP-8"
	if Emu.File != "" {
		title = "CHIP-8 - " + filepath.Base(Emu.File)
	}

	DebugHelp()

	return RunWindow(title)
}

func runTerminal(options optionFlags) error {
	if options.rom != "" {
		if err := Emu.Load(options.rom); err != nil {
			return err
		}
	}

	t, err := NewTerminal()
	if err != nil {
		return err
	}

	err = t.Run(Emu)

	// show what was logged once the screen is restored
	for _, line := range Log.Lines() {
		fmt.Fprintln(os.Stderr, line)
	}

	return err
}

/// launchStats serves the runtime statistics viewer in the background.
///
func launchStats(addr string) {
	go func() {
		viewer.SetConfiguration(viewer.WithAddr(addr))
		mgr := statsview.New()
		mgr.Start()
	}()

	slog.Info("stats server available", "url", "http://"+addr+"/debug/statsview")
}
