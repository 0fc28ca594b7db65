package keycalc_test

import (
	"errors"
	"testing"

	"github.com/zephyrtronium/keycalc"
)

func TestPressAllKeys(t *testing.T) {
	for _, r := range keycalc.Keys {
		b := keycalc.NewBuilder()
		if err := b.Press(r); err != nil {
			t.Errorf("key %q rejected: %v", r, err)
		}
	}
}

func TestPressUnknown(t *testing.T) {
	cases := []struct {
		name string
		keys string
		key  rune
		col  int
		text string
	}{
		{"first", "x", 'x', 1, "0"},
		{"later", "12+x3", 'x', 4, "12+"},
		{"bracket", "(1)", '(', 1, "0"},
		{"multibyte", "1×2π", 'π', 4, "1*2"},
		{"after-space", "1 %", '%', 3, "1"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := keycalc.NewBuilder()
			err := b.PressAll(c.keys)
			var ke *keycalc.UnknownKeyError
			if !errors.As(err, &ke) {
				t.Fatalf("keys %q: %#v is not *keycalc.UnknownKeyError", c.keys, err)
			}
			if ke.Key != c.key || ke.Pos() != c.col {
				t.Errorf("keys %q: want %q at %d, got %q at %d", c.keys, c.key, c.col, ke.Key, ke.Pos())
			}
			if got := b.Text(); got != c.text {
				t.Errorf("keys %q: want expression %q, got %q", c.keys, c.text, got)
			}
		})
	}
}

func TestPressCase(t *testing.T) {
	upper := keycalc.NewBuilder()
	lower := keycalc.NewBuilder()
	upper.PressAll("12+34C5=")
	lower.PressAll("12+34c5=")
	if upper.Text() != lower.Text() || upper.Result() != lower.Result() {
		t.Errorf("C and c differ: %q=%q vs %q=%q", upper.Text(), upper.Result(), lower.Text(), lower.Result())
	}
	lower.Press('a')
	if lower.Text() != "0" || lower.Result() != "0" {
		t.Errorf("a did not reset: %q=%q", lower.Text(), lower.Result())
	}
}

func TestPressEquals(t *testing.T) {
	b := keycalc.NewBuilder()
	b.PressAll("2*3+4")
	if err := b.Press('='); err != nil {
		t.Fatal(err)
	}
	if got := b.Result(); got != "10" {
		t.Errorf("want 10, got %q", got)
	}
}
