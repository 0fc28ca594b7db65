package keycalc

import (
	"strconv"
	"strings"
)

// Op is a binary arithmetic operator.
type Op int8

const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "Op(" + strconv.Itoa(int(op)) + ")"
	}
}

type operator struct {
	// prec is the precedence value. Higher is more binding.
	prec int8
	// right indicates right-associativity.
	right bool
}

// operators is the precedence table, indexed by Op. An entry with zero prec
// is not an operator.
var operators = [...]operator{
	OpAdd: {1, false},
	OpSub: {1, false},
	OpMul: {2, false},
	OpDiv: {2, false},
}

// info gets the precedence entry for an operator. The second result is false
// if op is not a valid operator.
func (op Op) info() (operator, bool) {
	if op <= OpNone || int(op) >= len(operators) {
		return operator{}, false
	}
	return operators[op], true
}

// yields reports whether an operator on the stack must be output before cur
// is pushed.
func (p operator) yields(cur operator) bool {
	if p.prec != cur.prec {
		return p.prec > cur.prec
	}
	return !cur.right
}

// ToPostfix reorders an infix token sequence into postfix order according to
// operator precedence. There is no grouping; all operators are binary and
// left-associative, so "1-2-3" is "1 2 - 3 -". ToPostfix does not check that
// operators have operands. The only error is an OperatorError for a token
// that is not a valid number or operator.
func ToPostfix(toks []Token) ([]Token, error) {
	out := make([]Token, 0, len(toks))
	var stack []Token
	for _, tok := range toks {
		switch tok.Kind {
		case TokenNum:
			out = append(out, tok)
		case TokenOp:
			cur, ok := tok.Op.info()
			if !ok {
				return nil, &OperatorError{Col: tok.Pos, Token: tok}
			}
			for len(stack) > 0 {
				top := stack[len(stack)-1]
				p, _ := top.Op.info()
				if !p.yields(cur) {
					break
				}
				out = append(out, top)
				stack = stack[:len(stack)-1]
			}
			stack = append(stack, tok)
		default:
			return nil, &OperatorError{Col: tok.Pos, Token: tok}
		}
	}
	for i := len(stack) - 1; i >= 0; i-- {
		out = append(out, stack[i])
	}
	return out, nil
}

// Postfix formats a token sequence as space-separated text, e.g. "2 3 4 * +".
// Operators are written in their canonical ASCII form.
func Postfix(toks []Token) string {
	var b strings.Builder
	for i, tok := range toks {
		if i > 0 {
			b.WriteByte(' ')
		}
		switch tok.Kind {
		case TokenNum:
			b.WriteString(tok.Text)
		case TokenOp:
			b.WriteString(tok.Op.String())
		default:
			// Invalid tokens use invalid characters.
			b.WriteByte('$')
		}
	}
	return b.String()
}
