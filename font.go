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
	"image"

	"github.com/veandco/go-sdl2/sdl"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	/// First and last printable characters in the font texture.
	///
	firstGlyph = 0x20
	lastGlyph  = 0x7E

	/// Size of each character cell.
	///
	GlyphWidth  = 7
	GlyphHeight = 13

	/// LineHeight is the vertical advance between lines of text.
	///
	LineHeight = 14
)

var (
	/// Texture containing a predefined font for debugging, etc.
	///
	Font *sdl.Texture
)

/// FontAtlas renders every printable character side by side into an
/// image, white on transparent.
///
func FontAtlas() *image.RGBA {
	face := basicfont.Face7x13
	n := lastGlyph - firstGlyph + 1

	img := image.NewRGBA(image.Rect(0, 0, n*face.Advance, face.Height))
	d := font.Drawer{
		Dst:  img,
		Src:  image.White,
		Face: face,
	}

	for i := 0; i < n; i++ {
		d.Dot = fixed.P(i*face.Advance, face.Ascent)
		d.DrawString(string(rune(firstGlyph + i)))
	}

	return img
}

/// InitFont creates the font texture.
///
func InitFont() error {
	img := FontAtlas()
	size := img.Bounds().Size()

	var err error

	Font, err = Renderer.CreateTexture(uint32(sdl.PIXELFORMAT_ABGR8888), int(sdl.TEXTUREACCESS_STATIC), int32(size.X), int32(size.Y))
	if err != nil {
		return err
	}

	if err = Font.Update(nil, img.Pix, img.Stride); err != nil {
		return err
	}

	return Font.SetBlendMode(sdl.BlendMode(sdl.BLENDMODE_BLEND))
}

/// DrawText using the loaded font.
///
func DrawText(s string, x, y int) {
	src := sdl.Rect{W: GlyphWidth, H: GlyphHeight}
	dst := sdl.Rect{
		X: int32(x),
		Y: int32(y),
		W: GlyphWidth,
		H: GlyphHeight,
	}

	// loop over all the characters in the string
	for _, c := range s {
		if c > firstGlyph && c <= lastGlyph {
			src.X = int32(c-firstGlyph) * GlyphWidth

			// draw the character to the renderer
			Renderer.Copy(Font, &src, &dst)
		}

		// advance
		dst.X += GlyphWidth
	}
}

/// DrawTextColor draws text tinted with a color.
///
func DrawTextColor(s string, x, y int, r, g, b uint8) {
	Font.SetColorMod(r, g, b)
	DrawText(s, x, y)
	Font.SetColorMod(255, 255, 255)
}
