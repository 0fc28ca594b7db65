// Package keycalc implements a four-function calculator driven by key presses.
//
// A Builder takes digits, decimal points, operators, and clears one at a time
// and keeps the expression typed so far, e.g. "12+3.5*2". Equals evaluates it
// with the usual precedence, so that is 19, not 31. Operators are the four
// binary operators + - * /, with × and ÷ accepted as spellings of * and /.
// There are no brackets.
//
// The evaluation pipeline is also available by itself: Tokenize turns text
// into tokens, ToPostfix reorders them by precedence, EvalPostfix computes
// the value, and Format renders it for display.
package keycalc
