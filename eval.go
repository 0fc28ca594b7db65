package keycalc

import (
	"errors"
	"io"
	"math"
	"strconv"
	"strings"
)

// MinDivisor is the smallest divisor magnitude allowed in a division.
const MinDivisor = 1e-15

// machine evaluates postfix token sequences. It is not safe to use a machine
// concurrently. The stack is reused between evaluations.
type machine struct {
	stack []float64
}

// push pushes a value onto the stack.
func (m *machine) push(v float64) {
	m.stack = append(m.stack, v)
}

// pop removes the top from the stack and returns it.
func (m *machine) pop() float64 {
	r := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]
	return r
}

// run evaluates a postfix token sequence.
func (m *machine) run(toks []Token) (float64, error) {
	m.stack = m.stack[:0]
	for _, tok := range toks {
		switch tok.Kind {
		case TokenNum:
			v, err := num(tok)
			if err != nil {
				return 0, err
			}
			m.push(v)
		case TokenOp:
			if _, ok := tok.Op.info(); !ok {
				return 0, &OperatorError{Col: tok.Pos, Token: tok}
			}
			if len(m.stack) < 2 {
				return 0, &OperandError{Col: tok.Pos, Op: tok.Op, Have: len(m.stack)}
			}
			b := m.pop()
			a := m.pop()
			r, err := apply(a, tok, b)
			if err != nil {
				return 0, err
			}
			m.push(r)
		default:
			return 0, &OperatorError{Col: tok.Pos, Token: tok}
		}
	}
	if len(m.stack) != 1 {
		return 0, &StackError{Len: len(m.stack)}
	}
	return m.stack[0], nil
}

// apply computes a op b for the operator token op.
func apply(a float64, op Token, b float64) (float64, error) {
	switch op.Op {
	case OpAdd:
		return a + b, nil
	case OpSub:
		return a - b, nil
	case OpMul:
		return a * b, nil
	case OpDiv:
		if math.Abs(b) < MinDivisor {
			return 0, &DivisionError{Col: op.Pos, X: a, Y: b}
		}
		return a / b, nil
	default:
		panic("keycalc: apply on invalid operator " + op.String())
	}
}

// num parses the value of a number token. Only plain decimal text is
// accepted, i.e. an optional - followed by digits with at most one dot.
// Values too large for a float64 become infinities.
func num(tok Token) (float64, error) {
	if !isDecimal(tok.Text) {
		return 0, &LexError{Text: tok.Text, Kind: "number", Col: tok.Pos}
	}
	v, err := strconv.ParseFloat(tok.Text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, &LexError{Text: tok.Text, Kind: "number", Col: tok.Pos}
	}
	return v, nil
}

func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	dig, dot := false, false
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case '0' <= c && c <= '9':
			dig = true
		case c == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return dig
}

// EvalPostfix evaluates a token sequence in postfix order. Operators lacking
// two operands produce an OperandError, and a sequence which does not reduce
// to exactly one value produces a StackError. A divisor with magnitude below
// MinDivisor produces a DivisionError.
func EvalPostfix(toks []Token) (float64, error) {
	var m machine
	return m.run(toks)
}

// Eval is a shortcut to tokenize an infix expression, reorder it, and
// evaluate it.
func Eval(src io.RuneScanner) (float64, error) {
	toks, err := Lex(src)
	if err != nil {
		return 0, err
	}
	post, err := ToPostfix(toks)
	if err != nil {
		return 0, err
	}
	return EvalPostfix(post)
}

// EvalString is a shortcut to evaluate a string expression.
func EvalString(src string) (float64, error) {
	return Eval(strings.NewReader(src))
}
