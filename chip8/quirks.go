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

/// ShiftQuirk selects the source register of SHR (8XY6) and SHL (8XYE).
///
type ShiftQuirk int

const (
	/// ShiftVX shifts VX in place and ignores VY (CHIP-48, SCHIP).
	///
	ShiftVX ShiftQuirk = iota

	/// ShiftVY stores VY shifted into VX (COSMAC VIP).
	///
	ShiftVY
)

/// LoadStoreQuirk selects what FX55 and FX65 do to the I register.
///
type LoadStoreQuirk int

const (
	/// IndexUnchanged leaves I pointing at the start of the block.
	///
	IndexUnchanged LoadStoreQuirk = iota

	/// IndexIncrements leaves I pointing just past the block (I += X+1).
	///
	IndexIncrements
)

/// JumpQuirk selects the offset register of BNNN.
///
type JumpQuirk int

const (
	/// JumpV0 jumps to NNN + V0.
	///
	JumpV0 JumpQuirk = iota

	/// JumpVX jumps to XNN + VX (CHIP-48, SCHIP).
	///
	JumpVX
)

/// Quirks fixes the behavior of the instructions historical interpreters
/// disagree on. It is chosen once per machine, never inferred per ROM.
///
type Quirks struct {
	Shift      ShiftQuirk
	LoadStore  LoadStoreQuirk
	JumpOffset JumpQuirk
}

/// DefaultQuirks are the conventions most modern ROMs expect.
///
var DefaultQuirks = Quirks{
	Shift:      ShiftVX,
	LoadStore:  IndexUnchanged,
	JumpOffset: JumpV0,
}

// Fixed policies. These aren't configurable.
const (
	// AddressMask wraps every memory access and fetch to 12 bits.
	AddressMask = 0xFFF

	// FlagWrittenLast means arithmetic opcodes store VF after the result,
	// so an instruction targeting VF ends up holding the flag.
	FlagWrittenLast = true

	// SpritesWrap means sprite pixels past an edge reappear on the
	// opposite edge instead of being clipped.
	SpritesWrap = true
)
