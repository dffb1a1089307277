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
	"os"
	"strings"
	"testing"
	"time"

	"github.com/retroenv/retrogolib/assert"
)

func TestRenderTerminal(t *testing.T) {
	e := testProgram(t, `
	LD I, SPRITE
	DRW V0, V0, 3
.LOOP	JP LOOP
.SPRITE	BYTE $11......, $1......., $.1......
`)

	assert.NoError(t, e.VM.Step())
	assert.NoError(t, e.VM.Step())

	out := RenderTerminal(e)
	lines := strings.Split(string(out), "\r\n")

	assert.Equal(t, 17, len(lines))
	assert.Equal(t, "\x1b[H█▀"+strings.Repeat(" ", 62), lines[0])
	assert.Equal(t, " ▀"+strings.Repeat(" ", 62), lines[1])
	assert.Equal(t, strings.Repeat(" ", 64), lines[15])

	status := lines[16]

	assert.Equal(t, 64, len(status))
	assert.Equal(t, true, strings.HasPrefix(status, "PC 0204  I 206  500 IPS"))
}

func TestRenderTerminalStatus(t *testing.T) {
	e := testProgram(t, "\tLD V0, K")

	e.RunFrame()
	assert.Equal(t, true, bytes.Contains(RenderTerminal(e), []byte("KEY?")))

	e.Paused = true
	assert.Equal(t, true, bytes.Contains(RenderTerminal(e), []byte("PAUSED")))
}

func TestTerminalKeys(t *testing.T) {
	e := testEmulator(t)
	term := &Terminal{}
	now := time.Now()

	assert.Equal(t, true, term.processInput(e, []byte("1W"), now))
	assert.Equal(t, true, e.VM.Pressed(0x1))
	assert.Equal(t, true, e.VM.Pressed(0x5))

	// keys stay down for the hold window
	term.releaseKeys(e.VM, now.Add(KeyHold/2))
	assert.Equal(t, true, e.VM.Pressed(0x1))

	// repeated bytes extend the hold
	assert.Equal(t, true, term.processInput(e, []byte("1"), now.Add(KeyHold/2)))

	term.releaseKeys(e.VM, now.Add(KeyHold))
	assert.Equal(t, true, e.VM.Pressed(0x1))
	assert.Equal(t, false, e.VM.Pressed(0x5))

	term.releaseKeys(e.VM, now.Add(KeyHold*2))
	assert.Equal(t, false, e.VM.Pressed(0x1))
}

func TestTerminalCommands(t *testing.T) {
	e := testEmulator(t)
	term := &Terminal{}
	now := time.Now()

	assert.Equal(t, true, term.processInput(e, []byte(" "), now))
	assert.Equal(t, true, e.Paused)

	assert.Equal(t, true, term.processInput(e, []byte("]"), now))
	assert.Equal(t, DefaultSpeed*2, e.Speed)

	// arrow keys are escape sequences, not a quit
	assert.Equal(t, true, term.processInput(e, []byte("\x1b[A"), now))

	assert.Equal(t, false, term.processInput(e, []byte{0x1B}, now))
	assert.Equal(t, false, term.processInput(e, []byte{0x03}, now))
}

func TestTerminalReadInput(t *testing.T) {
	r, w, err := os.Pipe()
	assert.NoError(t, err)
	defer r.Close()

	term := &Terminal{in: r}
	input := make(chan []byte)
	done := make(chan struct{})

	go term.readInput(input, done)

	_, err = w.Write([]byte("1"))
	assert.NoError(t, err)
	assert.Equal(t, []byte("1"), <-input)

	// the reader stops once done closes and the pending read returns
	close(done)
	assert.NoError(t, w.Close())

	for range input {
	}
}
