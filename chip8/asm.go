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

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
)

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at 0x200.
	///
	ROM []byte

	/// Breakpoints is a list of BREAK and ASSERT addresses.
	///
	Breakpoints []Breakpoint

	/// Label mapping.
	///
	Labels map[string]token

	/// Addresses with unresolved labels.
	///
	Unresolved map[int]string
}

/// Assemble CHIP-8 source code.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	// create an empty, return assembly
	out = &Assembly{
		ROM:         make([]byte, ProgramStart, MemorySize),
		Breakpoints: make([]Breakpoint, 0, 10),
		Labels:      make(map[string]token),
		Unresolved:  make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok && line == 0 {
				err = e
			} else if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	reader := bytes.NewReader(bytes.ToUpper(program))
	scanner := bufio.NewScanner(reader)

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&tokenScanner{bytes: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic("program too large")
		}
	}

	// clear the line number as we're done assembling
	line = 0

	out.resolve()

	// drop the first 512 bytes from the rom
	out.ROM = out.ROM[ProgramStart:]

	if len(out.ROM) == 0 {
		panic(ErrNoProgram)
	}

	return
}

/// Resolve all forward label references.
///
func (a *Assembly) resolve() {
	addresses := make([]int, 0, len(a.Unresolved))

	for address := range a.Unresolved {
		addresses = append(addresses, address)
	}

	// deterministic error reporting
	sort.Ints(addresses)

	for _, address := range addresses {
		label := a.Unresolved[address]

		t, ok := a.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}

		if t.typ != TOKEN_LIT {
			panic(fmt.Errorf("label does not resolve to address: %s", label))
		}

		// all label addresses fit in 12 bits; keep the opcode nibble
		a.ROM[address] = byte(t.val.(int)>>8) | (a.ROM[address] & 0xF0)
		a.ROM[address+1] = byte(t.val.(int) & 0xFF)

		delete(a.Unresolved, address)
	}
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *tokenScanner) {
	t := s.scanToken()

	// assign labels
	if t.typ == TOKEN_LABEL {
		t = a.assembleLabel(t.val.(string), s)
	}

	// continue assembling
	switch t.typ {
	case TOKEN_INSTRUCTION:
		a.ROM = append(a.ROM, a.assembleInstruction(t.val.(string), s.scanOperands())...)
	case TOKEN_BREAK:
		a.assembleBreakpoint(s, false)
	case TOKEN_ASSERT:
		a.assembleBreakpoint(s, true)
	case TOKEN_END:
	default:
		panic("unexpected token")
	}
}

/// Scan for a label and add it to the assembly.
///
func (a *Assembly) assembleLabel(label string, s *tokenScanner) token {
	if _, exists := a.Labels[label]; exists {
		panic("duplicate label")
	}

	// by default, the label is assigned the current address
	a.Labels[label] = token{typ: TOKEN_LIT, val: len(a.ROM)}

	// scan the next token
	t := s.scanToken()

	// if EQU or VAR, reassign the label
	if t.typ == TOKEN_EQU || t.typ == TOKEN_VAR {
		v := s.scanToken()

		// equ requires a literal, and var requires a v-register
		if (t.typ == TOKEN_EQU && v.typ == TOKEN_LIT) || (t.typ == TOKEN_VAR && v.typ == TOKEN_V) {
			a.Labels[label] = v

			// should be the final token
			if t = s.scanToken(); t.typ == TOKEN_END {
				return t
			}
		}

		panic("illegal label assignment")
	}

	return t
}

/// Create a new breakpoint at the current address.
///
func (a *Assembly) assembleBreakpoint(s *tokenScanner, conditional bool) {
	reason := s.scanToEnd().val.(string)

	a.Breakpoints = append(a.Breakpoints, Breakpoint{
		Address:     uint16(len(a.ROM)),
		Conditional: conditional,
		Reason:      reason,
	})
}

/// Compile a single instruction.
///
func (a *Assembly) assembleInstruction(i string, tokens []token) []byte {
	switch i {
	case "CLS":
		return a.assembleNoOperands(tokens, 0x00E0)
	case "RET":
		return a.assembleNoOperands(tokens, 0x00EE)
	case "SYS":
		return a.assembleAddress(tokens, 0x0000)
	case "CALL":
		return a.assembleAddress(tokens, 0x2000)
	case "JP":
		return a.assembleJP(tokens)
	case "SE":
		return a.assembleSkip(tokens, 0x3000, 0x5000)
	case "SNE":
		return a.assembleSkip(tokens, 0x4000, 0x9000)
	case "SKP":
		return a.assembleX(tokens, 0xE09E)
	case "SKNP":
		return a.assembleX(tokens, 0xE0A1)
	case "OR":
		return a.assembleXY(tokens, 0x8001)
	case "AND":
		return a.assembleXY(tokens, 0x8002)
	case "XOR":
		return a.assembleXY(tokens, 0x8003)
	case "SUB":
		return a.assembleXY(tokens, 0x8005)
	case "SUBN":
		return a.assembleXY(tokens, 0x8007)
	case "SHR":
		return a.assembleShift(tokens, 0x8006)
	case "SHL":
		return a.assembleShift(tokens, 0x800E)
	case "ADD":
		return a.assembleADD(tokens)
	case "BCD":
		return a.assembleX(tokens, 0xF033)
	case "RND":
		return a.assembleRND(tokens)
	case "DRW":
		return a.assembleDRW(tokens)
	case "LD":
		return a.assembleLD(tokens)
	case "BYTE":
		return a.assembleBYTE(tokens)
	case "WORD":
		return a.assembleWORD(tokens)
	case "ALIGN":
		return a.assembleALIGN(tokens)
	case "PAD":
		return a.assemblePAD(tokens)
	}

	panic("illegal instruction")
}

/// Assemble a single operand, expanding label references.
///
func (a *Assembly) assembleOperand(t token) token {
	return a.assembleOperandAt(t, 0)
}

/// Assemble an operand that will be written offset bytes past the end
/// of the ROM.
///
func (a *Assembly) assembleOperandAt(t token, offset int) token {
	if t.typ == TOKEN_REF {
		label := t.val.(string)
		if v, exists := a.Labels[label]; exists {
			t = v
		} else {
			t = token{typ: TOKEN_LIT, val: ProgramStart}

			// add an unresolved address
			a.Unresolved[len(a.ROM)+offset] = label
		}
	}

	return t
}

/// Match the desired tokens with a list of tokens. Expand defines and labels.
///
func (a *Assembly) assembleOperands(tokens []token, m ...tokenType) ([]token, bool) {
	ops := make([]token, 0, 3)

	// the number of desired tokens should match
	if len(tokens) != len(m) {
		return nil, false
	}

	// expand and compare the token types
	for i, typ := range m {
		t := a.assembleOperand(tokens[i])

		// compare token types
		if t.typ != typ {
			return nil, false
		}

		// append the operand
		ops = append(ops, t)
	}

	return ops, true
}

/// Encode a 16-bit opcode.
///
func word(op int) []byte {
	return []byte{byte(op >> 8), byte(op)}
}

/// Returns the integer value of a literal if 0 <= value < limit.
///
func literal(t token, limit int) (int, bool) {
	n := t.val.(int)

	return n, n >= 0 && n < limit
}

/// Returns the integer value of a literal byte. Negative bytes are
/// allowed, they wrap.
///
func literalByte(t token) (int, bool) {
	n := t.val.(int)

	return n & 0xFF, n >= -0x80 && n < 0x100
}

/// Assemble an instruction without operands.
///
func (a *Assembly) assembleNoOperands(tokens []token, op int) []byte {
	if len(tokens) == 0 {
		return word(op)
	}

	panic("illegal instruction")
}

/// Assemble an instruction with a single 12-bit address operand.
///
func (a *Assembly) assembleAddress(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if n, ok := literal(ops[0], 0x1000); ok {
			return word(op | n)
		}
	}

	panic("illegal instruction")
}

/// Assemble an instruction with a single v-register operand.
///
func (a *Assembly) assembleX(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		return word(op | ops[0].val.(int)<<8)
	}

	panic("illegal instruction")
}

/// Assemble an instruction with two v-register operands.
///
func (a *Assembly) assembleXY(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return word(op | ops[0].val.(int)<<8 | ops[1].val.(int)<<4)
	}

	panic("illegal instruction")
}

/// Assemble a JP instruction.
///
func (a *Assembly) assembleJP(tokens []token) []byte {
	if len(tokens) == 1 {
		return a.assembleAddress(tokens, 0x1000)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		if n, ok := literal(ops[1], 0x1000); ok && ops[0].val.(int) == 0 {
			return word(0xB000 | n)
		}
	}

	panic("illegal instruction")
}

/// Assemble a SE or SNE instruction.
///
func (a *Assembly) assembleSkip(tokens []token, imm, reg int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		if b, ok := literalByte(ops[1]); ok {
			return word(imm | ops[0].val.(int)<<8 | b)
		}
	}

	if _, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return a.assembleXY(tokens, reg)
	}

	panic("illegal instruction")
}

/// Assemble a SHR or SHL instruction. The one operand form shifts VX in
/// place.
///
func (a *Assembly) assembleShift(tokens []token, op int) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V); ok {
		x := ops[0].val.(int)

		return word(op | x<<8 | x<<4)
	}

	return a.assembleXY(tokens, op)
}

/// Assemble an ADD instruction.
///
func (a *Assembly) assembleADD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		if b, ok := literalByte(ops[1]); ok {
			return word(0x7000 | ops[0].val.(int)<<8 | b)
		}
	}

	if _, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return a.assembleXY(tokens, 0x8004)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_V); ok {
		return word(0xF01E | ops[1].val.(int)<<8)
	}

	panic("illegal instruction")
}

/// Assemble a RND instruction.
///
func (a *Assembly) assembleRND(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		if b, ok := literal(ops[1], 0x100); ok {
			return word(0xC000 | ops[0].val.(int)<<8 | b)
		}
	}

	panic("illegal instruction")
}

/// Assemble a DRW instruction.
///
func (a *Assembly) assembleDRW(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V, TOKEN_LIT); ok {
		if n, ok := literal(ops[2], 0x10); ok {
			return word(0xD000 | ops[0].val.(int)<<8 | ops[1].val.(int)<<4 | n)
		}
	}

	panic("illegal instruction")
}

/// Assemble a LD instruction.
///
func (a *Assembly) assembleLD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_LIT); ok {
		if b, ok := literalByte(ops[1]); ok {
			return word(0x6000 | ops[0].val.(int)<<8 | b)
		}
	}

	if _, ok := a.assembleOperands(tokens, TOKEN_V, TOKEN_V); ok {
		return a.assembleXY(tokens, 0x8000)
	}

	if ops, ok := a.assembleOperands(tokens, TOKEN_I, TOKEN_LIT); ok {
		if n, ok := literal(ops[1], 0x1000); ok {
			return word(0xA000 | n)
		}
	}

	// the remaining forms all encode FX__
	forms := []struct {
		dst, src tokenType
		op       int
	}{
		{TOKEN_V, TOKEN_DT, 0xF007},
		{TOKEN_V, TOKEN_K, 0xF00A},
		{TOKEN_DT, TOKEN_V, 0xF015},
		{TOKEN_ST, TOKEN_V, 0xF018},
		{TOKEN_F, TOKEN_V, 0xF029},
		{TOKEN_B, TOKEN_V, 0xF033},
		{TOKEN_EFFECTIVE_ADDRESS, TOKEN_V, 0xF055},
		{TOKEN_V, TOKEN_EFFECTIVE_ADDRESS, 0xF065},
	}

	for _, form := range forms {
		if ops, ok := a.assembleOperands(tokens, form.dst, form.src); ok {
			x := ops[0]
			if form.src == TOKEN_V {
				x = ops[1]
			}

			return word(form.op | x.val.(int)<<8)
		}
	}

	panic("illegal instruction")
}

/// Assemble a BYTE directive.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		op := a.assembleOperand(t)

		switch op.typ {
		case TOKEN_LIT:
			n, ok := literalByte(op)
			if !ok {
				panic("invalid byte")
			}

			b = append(b, byte(n))
		case TOKEN_TEXT:
			b = append(b, op.val.(string)...)
		default:
			panic("invalid byte")
		}
	}

	return b
}

/// Assemble a WORD directive.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		op := a.assembleOperandAt(t, len(b))

		if op.typ != TOKEN_LIT {
			panic("invalid word")
		}

		n, ok := literal(op, 0x10000)
		if !ok {
			panic("invalid word")
		}

		// store msb first
		b = append(b, word(n)...)
	}

	return b
}

/// Assemble an ALIGN directive.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		n := ops[0].val.(int)

		if n > 0 && n&(n-1) == 0 {
			pad := (n - len(a.ROM)&(n-1)) & (n - 1)

			// reserve pad bytes to meet alignment
			return make([]byte, pad)
		}
	}

	panic("illegal alignment")
}

/// Assemble a PAD directive.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if ops, ok := a.assembleOperands(tokens, TOKEN_LIT); ok {
		if n, ok := literal(ops[0], MemorySize-len(a.ROM)+1); ok {
			return make([]byte, n)
		}
	}

	panic("illegal size")
}
