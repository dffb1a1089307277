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
	"bytes"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/massung/CHIP-8/chip8"
	"github.com/pkg/term/termios"
	"golang.org/x/sys/unix"
	"golang.org/x/term"
)

const (
	/// Smallest terminal the screen fits in: 64 columns, 16 rows of
	/// half-blocks and a status line.
	///
	TermWidth  = chip8.ScreenWidth
	TermHeight = chip8.ScreenHeight/2 + 1

	/// Terminals only send key presses. A key is held down this long
	/// after the last byte for it is read.
	///
	KeyHold = 200 * time.Millisecond
)

var (
	/// Mapping of terminal input to CHIP-8 keys.
	///
	TermKeyMap = map[byte]uint{
		'x': 0x0,
		'1': 0x1,
		'2': 0x2,
		'3': 0x3,
		'q': 0x4,
		'w': 0x5,
		'e': 0x6,
		'a': 0x7,
		's': 0x8,
		'd': 0x9,
		'z': 0xA,
		'c': 0xB,
		'4': 0xC,
		'r': 0xD,
		'f': 0xE,
		'v': 0xF,
	}

	/// Half-block glyphs indexed by top | bottom<<1.
	///
	halfBlocks = [4]string{" ", "▀", "▄", "█"}

	// ErrTermTooSmall is returned when the terminal can't fit the screen.
	ErrTermTooSmall = errors.New("terminal too small")

	// ErrNotTerminal is returned when stdin or stdout isn't a terminal.
	ErrNotTerminal = errors.New("not a terminal")
)

/// Terminal runs the emulator in a text terminal.
///
type Terminal struct {
	in  *os.File
	out *os.File

	// terminal settings to restore on exit
	orig unix.Termios

	// when each held key is released
	release [16]time.Time
}

/// NewTerminal checks stdin and stdout can host the emulator.
///
func NewTerminal() (*Terminal, error) {
	t := &Terminal{in: os.Stdin, out: os.Stdout}

	if !term.IsTerminal(int(t.in.Fd())) || !term.IsTerminal(int(t.out.Fd())) {
		return nil, ErrNotTerminal
	}

	w, h, err := term.GetSize(int(t.out.Fd()))
	if err != nil {
		return nil, fmt.Errorf("getting terminal size: %w", err)
	}

	if w < TermWidth || h < TermHeight {
		return nil, fmt.Errorf("%w: %dx%d, need %dx%d", ErrTermTooSmall, w, h, TermWidth, TermHeight)
	}

	return t, nil
}

/// enableRawMode stops the terminal from echoing and buffering input.
///
func (t *Terminal) enableRawMode() error {
	if err := termios.Tcgetattr(t.in.Fd(), &t.orig); err != nil {
		return err
	}

	raw := t.orig
	termios.Cfmakeraw(&raw)

	if err := termios.Tcsetattr(t.in.Fd(), termios.TCSANOW, &raw); err != nil {
		return err
	}

	// hide the cursor and clear the screen
	_, err := t.out.WriteString("\x1b[?25l\x1b[2J")

	return err
}

/// disableRawMode restores the terminal.
///
func (t *Terminal) disableRawMode() {
	t.out.WriteString("\x1b[0m\x1b[2J\x1b[H\x1b[?25h")
	termios.Tcsetattr(t.in.Fd(), termios.TCSANOW, &t.orig)
}

/// Run the emulator until Esc or Ctrl-C.
///
func (t *Terminal) Run(emu *Emulator) error {
	if err := t.enableRawMode(); err != nil {
		return fmt.Errorf("enabling raw mode: %w", err)
	}
	defer t.disableRawMode()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sig)

	input := make(chan []byte, 16)
	done := make(chan struct{})
	defer close(done)

	go t.readInput(input, done)

	video := time.NewTicker(Frame)
	defer video.Stop()

	last := time.Now()

	for {
		select {
		case <-sig:
			return nil
		case b, ok := <-input:
			if !ok || !t.processInput(emu, b, time.Now()) {
				return nil
			}
		case now := <-video.C:
			t.releaseKeys(emu.VM, now)

			emu.Advance(now.Sub(last))
			last = now

			if _, err := t.out.Write(RenderTerminal(emu)); err != nil {
				return err
			}
		}
	}
}

/// readInput sends chunks of bytes read from the terminal until the
/// read fails or done is closed. A pending read on a terminal can't be
/// interrupted, so after done closes the goroutine exits on the next
/// byte or EOF (or with the process).
///
func (t *Terminal) readInput(input chan<- []byte, done <-chan struct{}) {
	defer close(input)

	buf := make([]byte, 64)

	for {
		n, err := t.in.Read(buf)
		if err != nil {
			return
		}

		select {
		case input <- append([]byte(nil), buf[:n]...):
		case <-done:
			return
		}
	}
}

/// processInput handles one chunk of input. Returns false to quit.
///
func (t *Terminal) processInput(emu *Emulator, b []byte, now time.Time) bool {
	if len(b) == 0 {
		return true
	}

	// a lone escape quits, longer ones are escape sequences
	if b[0] == 0x1B {
		return len(b) > 1
	}

	for _, c := range b {
		if key, ok := TermKeyMap[c|0x20]; ok {
			emu.VM.PressKey(key)
			t.release[key] = now.Add(KeyHold)
			continue
		}

		switch c {
		case 0x03:
			return false
		case ' ':
			emu.TogglePause()
		case 0x7F, 0x08:
			emu.Reset(false)
		case '[':
			emu.DecSpeed()
		case ']':
			emu.IncSpeed()
		case 'n':
			emu.Step()
		}
	}

	return true
}

/// releaseKeys releases every key whose hold time is over.
///
func (t *Terminal) releaseKeys(vm *chip8.CHIP_8, now time.Time) {
	for key, at := range t.release {
		if !at.IsZero() && !now.Before(at) {
			vm.ReleaseKey(uint(key))
			t.release[key] = time.Time{}
		}
	}
}

/// RenderTerminal draws the screen with two pixel rows per line,
/// followed by a status line.
///
func RenderTerminal(emu *Emulator) []byte {
	var buf bytes.Buffer

	vm := emu.VM

	// home the cursor
	buf.WriteString("\x1b[H")

	for y := uint(0); y < chip8.ScreenHeight; y += 2 {
		for x := uint(0); x < chip8.ScreenWidth; x++ {
			i := 0

			if vm.Pixel(x, y) {
				i |= 1
			}

			if vm.Pixel(x, y+1) {
				i |= 2
			}

			buf.WriteString(halfBlocks[i])
		}

		buf.WriteString("\r\n")
	}

	// status line
	status := fmt.Sprintf("PC %04X  I %03X  %d IPS", vm.PC, vm.I&chip8.AddressMask, emu.Speed)

	switch {
	case vm.Halted():
		status += "  HALTED"
	case emu.Paused:
		status += "  PAUSED"
	case vm.Waiting():
		status += "  KEY?"
	}

	if vm.Buzzer() {
		status += "  BEEP"
	}

	fmt.Fprintf(&buf, "%-*s", chip8.ScreenWidth, status)

	return buf.Bytes()
}
