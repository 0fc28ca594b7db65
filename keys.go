package keycalc

import "unicode"

// Keys contains the runes which name calculator keys: digits, the decimal
// point, Operators, C for clear entry, A for clear all, and = for equals.
// Lowercase c and a are accepted as well.
const Keys = "0123456789." + Operators + "CcAa="

// Press applies the key named by r. Whitespace is ignored. For any rune that
// names no key, the result is an *UnknownKeyError and the Builder is
// unchanged.
func (b *Builder) Press(r rune) error {
	return b.press(r, 1)
}

func (b *Builder) press(r rune, col int) error {
	switch {
	case '0' <= r && r <= '9':
		b.Digit(r)
	case r == '.':
		b.Decimal()
	case opFor(r) != OpNone:
		b.Operator(r)
	case r == 'C', r == 'c':
		b.ClearEntry()
	case r == 'A', r == 'a':
		b.Reset()
	case r == '=':
		b.Equals()
	case unicode.IsSpace(r):
	default:
		return &UnknownKeyError{Key: r, Col: col}
	}
	return nil
}

// PressAll applies each key in a sequence, e.g. "12+34C5=". It stops at the
// first rune that names no key and returns an *UnknownKeyError with its
// position; keys before it remain applied.
func (b *Builder) PressAll(keys string) error {
	col := 0
	for _, r := range keys {
		col++
		if err := b.press(r, col); err != nil {
			return err
		}
	}
	return nil
}
