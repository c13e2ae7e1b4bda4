// Package renderer draws the arena, agents and relationship arrows with raylib.
package renderer

import (
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ErrBadColor is returned for palette entries that are not #rrggbb.
var ErrBadColor = errors.New("renderer: bad color")

// ParseHex converts a "#rrggbb" string to an opaque color.
func ParseHex(s string) (rl.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 || len(hex) == len(s) {
		return rl.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return rl.Color{}, fmt.Errorf("%w: %q", ErrBadColor, s)
	}
	return rl.Color{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}

// Palette hands out agent colors in a shuffled order, wrapping around
// once every color has been used.
type Palette struct {
	base   []rl.Color
	colors []rl.Color
	next   int
	rng    *rand.Rand
}

// NewPalette parses the given colors and shuffles them with rng.
func NewPalette(hexes []string, rng *rand.Rand) (*Palette, error) {
	if len(hexes) == 0 {
		return nil, fmt.Errorf("%w: empty palette", ErrBadColor)
	}
	base := make([]rl.Color, 0, len(hexes))
	for _, h := range hexes {
		c, err := ParseHex(h)
		if err != nil {
			return nil, err
		}
		base = append(base, c)
	}
	p := &Palette{base: base, colors: make([]rl.Color, len(base)), rng: rng}
	p.Reset()
	return p, nil
}

// Next returns the next color.
func (p *Palette) Next() rl.Color {
	c := p.colors[p.next]
	p.next = (p.next + 1) % len(p.colors)
	return c
}

// Len returns the number of distinct colors.
func (p *Palette) Len() int {
	return len(p.base)
}

// Reset reshuffles the palette and starts from its first color.
func (p *Palette) Reset() {
	copy(p.colors, p.base)
	p.rng.Shuffle(len(p.colors), func(i, j int) {
		p.colors[i], p.colors[j] = p.colors[j], p.colors[i]
	})
	p.next = 0
}
