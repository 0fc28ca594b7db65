package keycalc

import (
	"errors"
	"strconv"
)

var (
	// ErrMalformed is the error kind for expressions that cannot be
	// tokenized or evaluated. Every LexError, OperandError, and StackError
	// unwraps to it.
	ErrMalformed = errors.New("malformed expression")
	// ErrDivisionByZero is the error kind for a division whose divisor is
	// too close to zero. DivisionError unwraps to it.
	ErrDivisionByZero = errors.New("division by zero")
)

// LexError indicates an invalid token. It implements InputError.
type LexError struct {
	// Text is the token the lexer was scanning when the invalid rune was
	// encountered, plus the invalid rune.
	Text string
	// Kind is the type of token the lexer was scanning. This is "number" or
	// the empty string if a token kind hadn't been decided.
	Kind string
	// Col is the column of the start of the token.
	Col int
}

func (err *LexError) Error() string {
	if err.Kind == "" {
		return errpos(err.Col, "invalid token "+strconv.Quote(err.Text))
	}
	return errpos(err.Col, "invalid "+err.Kind+" token "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}

func (err *LexError) Unwrap() error {
	return ErrMalformed
}

// OperatorError indicates a token which is not a valid operator or number,
// which can only be created outside the tokenizer. It implements InputError.
type OperatorError struct {
	// Col is the position of the token.
	Col int
	// Token is the offending token.
	Token Token
}

func (err *OperatorError) Error() string {
	return errpos(err.Col, "invalid token "+err.Token.String())
}

func (err *OperatorError) Pos() int {
	return err.Col
}

func (err *OperatorError) Unwrap() error {
	return ErrMalformed
}

// OperandError indicates an operator reached during evaluation without two
// operands to apply it to. It implements InputError.
type OperandError struct {
	// Col is the position of the operator.
	Col int
	// Op is the operator.
	Op Op
	// Have is the number of operands that were available.
	Have int
}

func (err *OperandError) Error() string {
	return errpos(err.Col, "operator "+err.Op.String()+" needs 2 operands, have "+strconv.Itoa(err.Have))
}

func (err *OperandError) Pos() int {
	return err.Col
}

func (err *OperandError) Unwrap() error {
	return ErrMalformed
}

// StackError indicates that evaluation finished with other than exactly one
// value, i.e. an empty expression or numbers with no operator between them.
type StackError struct {
	// Len is the number of values left.
	Len int
}

func (err *StackError) Error() string {
	if err.Len == 0 {
		return "no expression"
	}
	return strconv.Itoa(err.Len) + " values with no operator between them"
}

func (err *StackError) Unwrap() error {
	return ErrMalformed
}

// DivisionError is an error returned when the divisor of a division is too
// close to zero. It implements InputError.
type DivisionError struct {
	// Col is the position of the division operator.
	Col int
	// X is the dividend.
	X float64
	// Y is the divisor.
	Y float64
}

func (err *DivisionError) Error() string {
	return errpos(err.Col, "division of "+strconv.FormatFloat(err.X, 'g', -1, 64)+" by "+strconv.FormatFloat(err.Y, 'g', -1, 64))
}

func (err *DivisionError) Pos() int {
	return err.Col
}

func (err *DivisionError) Unwrap() error {
	return ErrDivisionByZero
}

// UnknownKeyError is returned by Press and PressAll for a rune that names no
// calculator key.
type UnknownKeyError struct {
	// Key is the rune.
	Key rune
	// Col is the 1-based rune index of the key in its sequence.
	Col int
}

func (err *UnknownKeyError) Error() string {
	return errpos(err.Col, "unknown key "+strconv.QuoteRune(err.Key))
}

func (err *UnknownKeyError) Pos() int {
	return err.Col
}

// errpos is a shortcut to create an error message with a position.
func errpos(pos int, msg string) string {
	return strconv.Itoa(pos) + ": " + msg
}

// InputError is an error with position information. Every error resulting from
// invalid input except StackError implements InputError.
type InputError interface {
	error
	// Pos returns the position of the error as the number of runes up to and
	// including the start of the token that caused the error.
	Pos() int
}

var (
	_ InputError = (*LexError)(nil)
	_ InputError = (*OperatorError)(nil)
	_ InputError = (*OperandError)(nil)
	_ InputError = (*DivisionError)(nil)
	_ InputError = (*UnknownKeyError)(nil)
)
