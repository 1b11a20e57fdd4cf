package canvas

import (
	"image"
	"image/color"
	"strconv"
)

// digitGlyphs holds 3x5 pixel patterns for the digits, one row per
// byte with the high bit on the left.
var digitGlyphs = [10][5]uint8{
	{0b111, 0b101, 0b101, 0b101, 0b111}, // 0
	{0b010, 0b110, 0b010, 0b010, 0b111}, // 1
	{0b111, 0b001, 0b111, 0b100, 0b111}, // 2
	{0b111, 0b001, 0b111, 0b001, 0b111}, // 3
	{0b101, 0b101, 0b111, 0b001, 0b001}, // 4
	{0b111, 0b100, 0b111, 0b001, 0b111}, // 5
	{0b111, 0b100, 0b111, 0b101, 0b111}, // 6
	{0b111, 0b001, 0b001, 0b001, 0b001}, // 7
	{0b111, 0b101, 0b111, 0b101, 0b111}, // 8
	{0b111, 0b101, 0b111, 0b001, 0b111}, // 9
}

// letterGlyphs covers the handful of characters the canvas tags use.
var letterGlyphs = map[rune][5]uint8{
	'L': {0b100, 0b100, 0b100, 0b100, 0b111},
	'E': {0b111, 0b100, 0b110, 0b100, 0b111},
	'V': {0b101, 0b101, 0b101, 0b101, 0b010},
	'-': {0b000, 0b000, 0b111, 0b000, 0b000},
}

// glyphFor returns the 3x5 pattern for a character, or an empty
// pattern when the character has no glyph.
func glyphFor(ch rune) [5]uint8 {
	if ch >= '0' && ch <= '9' {
		return digitGlyphs[ch-'0']
	}
	if ch >= 'a' && ch <= 'z' {
		ch = ch - 'a' + 'A'
	}
	return letterGlyphs[ch]
}

// drawTag renders text with the 3x5 glyph set, anchored at its
// top-left corner.
func drawTag(img *image.RGBA, text string, x, y int, col color.RGBA, scale int) {
	if scale < 1 {
		scale = 1
	}
	advance := 4 * scale
	for i, ch := range text {
		pattern := glyphFor(ch)
		cx := x + i*advance
		for row := 0; row < 5; row++ {
			for bit := 0; bit < 3; bit++ {
				if pattern[row]&(1<<(2-bit)) == 0 {
					continue
				}
				for dy := 0; dy < scale; dy++ {
					for dx := 0; dx < scale; dx++ {
						setPixel(img, cx+bit*scale+dx, y+row*scale+dy, col)
					}
				}
			}
		}
	}
}

// tagWidth reports the pixel width drawTag uses for text.
func tagWidth(text string, scale int) int {
	if len(text) == 0 {
		return 0
	}
	return len(text)*4*scale - scale
}

func levelTag(level int) string {
	return "LEVEL " + strconv.Itoa(level)
}
