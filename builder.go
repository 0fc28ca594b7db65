package keycalc

// ErrorText is the result text shown when evaluating an expression fails.
const ErrorText = "Error"

// Builder builds an expression one key at a time, the way a pocket calculator
// does. Edits that make no sense, like a second decimal point in one number or
// an operator with nothing before it, are ignored rather than reported, so the
// expression text is always something a person could have typed. Evaluation
// errors surface only through Equals.
//
// The zero value is an empty Builder with no options. It is not safe to use a
// Builder concurrently.
type Builder struct {
	buf    []byte
	result string
	err    error

	max    int
	notify func(expr, result string)

	m machine
}

// isOperator reports whether c is an operator as written in the expression
// buffer.
func isOperator(c byte) bool {
	return c == '+' || c == '-' || c == '*' || c == '/'
}

// lastOperatorIndex returns the index of the last operator in buf, or -1 if
// there is none. Everything after it is the number currently being entered.
func lastOperatorIndex(buf []byte) int {
	for i := len(buf) - 1; i >= 0; i-- {
		if isOperator(buf[i]) {
			return i
		}
	}
	return -1
}

// LastIsOperator reports whether the most recent input left an operator at the
// end of the expression.
func (b *Builder) LastIsOperator() bool {
	return len(b.buf) > 0 && isOperator(b.buf[len(b.buf)-1])
}

// HasDecimal reports whether the number currently being entered already has a
// decimal point.
func (b *Builder) HasDecimal() bool {
	for i := len(b.buf) - 1; i >= 0; i-- {
		switch c := b.buf[i]; {
		case c == '.':
			return true
		case isOperator(c):
			return false
		}
	}
	return false
}

// fits reports whether n more bytes fit under the length limit.
func (b *Builder) fits(n int) bool {
	return b.max <= 0 || len(b.buf)+n <= b.max
}

// changed tells the display about the new state.
func (b *Builder) changed() {
	if b.notify != nil {
		b.notify(b.Text(), b.Result())
	}
}

// Digit appends a digit to the expression. Runes other than 0 through 9 are
// ignored.
func (b *Builder) Digit(r rune) {
	if r < '0' || r > '9' || !b.fits(1) {
		return
	}
	b.buf = append(b.buf, byte(r))
	b.changed()
}

// Decimal adds a decimal point to the number being entered. If no number has
// been started, it starts one with "0.". If the number already has a decimal
// point, Decimal does nothing.
func (b *Builder) Decimal() {
	if len(b.buf) == 0 || b.LastIsOperator() {
		if !b.fits(2) {
			return
		}
		b.buf = append(b.buf, '0', '.')
		b.changed()
		return
	}
	if b.HasDecimal() || !b.fits(1) {
		return
	}
	b.buf = append(b.buf, '.')
	b.changed()
}

// Operator appends a binary operator, one of Operators. Other runes are
// ignored. If the expression ends in an operator already, the new one replaces
// it. On an empty expression, only - is accepted, and it is entered as "0-" so
// that the expression is still a valid subtraction.
func (b *Builder) Operator(r rune) {
	op := opFor(r)
	if op == OpNone {
		return
	}
	c := op.String()[0]
	switch {
	case len(b.buf) == 0:
		if op != OpSub || !b.fits(2) {
			return
		}
		b.buf = append(b.buf, '0', c)
	case b.LastIsOperator():
		b.buf[len(b.buf)-1] = c
	default:
		if !b.fits(1) {
			return
		}
		b.buf = append(b.buf, c)
	}
	b.changed()
}

// ClearEntry removes the last entry from the expression: the trailing operator
// if there is one, otherwise the whole number being entered.
func (b *Builder) ClearEntry() {
	if len(b.buf) == 0 {
		return
	}
	if b.LastIsOperator() {
		b.buf = b.buf[:len(b.buf)-1]
	} else {
		b.buf = b.buf[:lastOperatorIndex(b.buf)+1]
	}
	b.changed()
}

// Reset clears the expression and the last result.
func (b *Builder) Reset() {
	b.buf = b.buf[:0]
	b.result = ""
	b.err = nil
	b.changed()
}

// Equals evaluates the expression and returns the result text, which is
// ErrorText if evaluation fails. The expression is left as it was, so more
// input continues it. The result is also available from Result, and any error
// from Err.
func (b *Builder) Equals() string {
	v, err := b.eval(string(b.buf))
	b.err = err
	if err != nil {
		b.result = ErrorText
	} else {
		b.result = Format(v)
	}
	b.changed()
	return b.result
}

// eval runs the evaluation pipeline on expression text, reusing the
// Builder's stack.
func (b *Builder) eval(src string) (float64, error) {
	toks, err := Tokenize(src)
	if err != nil {
		return 0, err
	}
	post, err := ToPostfix(toks)
	if err != nil {
		return 0, err
	}
	return b.m.run(post)
}

// Text returns the expression text to display, which is "0" when the
// expression is empty.
func (b *Builder) Text() string {
	if len(b.buf) == 0 {
		return "0"
	}
	return string(b.buf)
}

// Len returns the length in bytes of the expression. Unlike the length of
// Text, it is 0 for an empty expression.
func (b *Builder) Len() int {
	return len(b.buf)
}

// Result returns the text of the last result, which is "0" before any
// evaluation and after Reset.
func (b *Builder) Result() string {
	if b.result == "" {
		return "0"
	}
	return b.result
}

// Err returns the error from the last call to Equals, if it failed. The error
// unwraps to ErrMalformed or ErrDivisionByZero.
func (b *Builder) Err() error {
	return b.err
}
