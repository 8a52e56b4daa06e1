// Package generator produces random passwords from a letter, digit and
// symbol alphabet.
//
// Characters are drawn independently and uniformly, with replacement, from
// the chosen alphabet. There is no guarantee that a password contains a
// character from every enabled class. The default source is math/rand/v2,
// which is not a vetted secret generator.
package generator

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"strings"
)

const (
	Letters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"
	Digits  = "0123456789"
	Symbols = "!@#$%^&*()_+-=[]{}|;:,.<>?"
)

// Length bounds offered by the presentation layer.
const (
	MinLength     = 8
	MaxLength     = 64
	DefaultLength = 16
)

// ErrInvalidLength is returned for negative lengths.
var ErrInvalidLength = errors.New("password length must not be negative")

// Source yields uniform integers in [0, n). *rand.Rand satisfies it.
type Source interface {
	IntN(n int) int
}

// FloatSource adapts a generator of uniform floats in [0, 1) into a Source
// using floor(f * n).
type FloatSource func() float64

func (f FloatSource) IntN(n int) int {
	i := int(math.Floor(f() * float64(n)))
	// Guard against sources that return exactly 1.
	return min(i, n-1)
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Generator builds passwords from a Source.
type Generator struct {
	src Source
}

// New creates a Generator. A nil src uses the math/rand/v2 global source.
func New(src Source) *Generator {
	if src == nil {
		src = globalSource{}
	}
	return &Generator{src: src}
}

// NewSeeded creates a Generator with a deterministic PCG source.
func NewSeeded(seed1, seed2 uint64) *Generator {
	return New(rand.New(rand.NewPCG(seed1, seed2)))
}

// Alphabet returns the characters a password may be drawn from: letters,
// then digits and symbols when enabled.
func Alphabet(includeNumbers, includeSymbols bool) string {
	var b strings.Builder
	b.WriteString(Letters)
	if includeNumbers {
		b.WriteString(Digits)
	}
	if includeSymbols {
		b.WriteString(Symbols)
	}
	return b.String()
}

// Generate returns a password of exactly length characters. A length of
// zero yields an empty string.
func (g *Generator) Generate(length int, includeNumbers, includeSymbols bool) (string, error) {
	if length < 0 {
		return "", fmt.Errorf("%w: %d", ErrInvalidLength, length)
	}
	chars := Alphabet(includeNumbers, includeSymbols)

	out := make([]byte, length)
	for i := range out {
		out[i] = chars[g.src.IntN(len(chars))]
	}
	return string(out), nil
}

var defaultGenerator = New(nil)

// Generate draws a password from the package default source.
func Generate(length int, includeNumbers, includeSymbols bool) (string, error) {
	return defaultGenerator.Generate(length, includeNumbers, includeSymbols)
}
