package keycalc

import (
	"errors"
	"io"
	"strconv"
	"strings"
	"unicode"
)

// Token is a number or an operator in an expression.
type Token struct {
	// Kind is the type of the token.
	Kind TokenKind
	// Op is the operator of an operator token.
	Op Op
	// Text is the source text of the token. For numbers, this includes a
	// leading - if the lexer folded a unary minus into the number.
	Text string
	// Pos is the column of the first rune of the token, counting from 1.
	Pos int
}

func (t Token) String() string {
	return t.Kind.String() + ":" + t.Text + "@" + strconv.Itoa(t.Pos)
}

// Num creates a number token. It is intended for building token sequences
// programmatically; Tokenize is the usual source of tokens.
func Num(text string) Token {
	return Token{Kind: TokenNum, Text: text}
}

// Oper creates an operator token.
func Oper(op Op) Token {
	return Token{Kind: TokenOp, Op: op, Text: op.String()}
}

// TokenKind is the type of a token.
type TokenKind int8

const (
	TokenNone TokenKind = iota
	// TokenNum is a decimal number, possibly negative.
	TokenNum
	// TokenOp is a binary operator.
	TokenOp
)

func (k TokenKind) String() string {
	switch k {
	case TokenNone:
		return "None"
	case TokenNum:
		return "Num"
	case TokenOp:
		return "Op"
	default:
		return "TokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Operators contains the runes which are considered to be operators. × and ÷
// are the same operators as * and /.
const Operators = "+-*/×÷"

// opFor gets the operator for a rune, or OpNone if the rune is not one of
// Operators.
func opFor(r rune) Op {
	switch r {
	case '+':
		return OpAdd
	case '-':
		return OpSub
	case '*', '×':
		return OpMul
	case '/', '÷':
		return OpDiv
	default:
		return OpNone
	}
}

type lexer struct {
	src io.RuneScanner
	buf strings.Builder
	// col is the number of runes read from src.
	col int
	// prev is the kind of the last token returned by next.
	prev TokenKind
}

func lex(src io.RuneScanner) *lexer {
	return &lexer{src: src}
}

// readRune reads a rune from the src and updates the lexer's position info.
func (l *lexer) readRune() (r rune, err error) {
	r, sz, err := l.src.ReadRune()
	if sz > 0 {
		l.col++
	}
	return r, err
}

// unreadRune unreads a rune from the src and updates the lexer's position
// info. Panics if unreading returns an error.
func (l *lexer) unreadRune() {
	if err := l.src.UnreadRune(); err != nil {
		panic(err)
	}
	l.col--
}

// next scans the next token from the input. At the end of the input, the
// error is io.EOF.
func (l *lexer) next() (Token, error) {
	defer l.buf.Reset()
	for {
		tok := Token{Pos: l.col + 1}
		r, err := l.readRune()
		if err != nil {
			return tok, err
		}
		switch {
		case unicode.IsSpace(r):
			continue
		case '0' <= r && r <= '9', r == '.':
			l.unreadRune()
			if err := l.scanNum(tok.Pos); err != nil {
				return tok, err
			}
			tok.Kind = TokenNum
			tok.Text = l.buf.String()
		case r == '-' && l.prev != TokenNum:
			// Nothing to subtract from, so the minus belongs to the number
			// after it if there is one.
			num, err := l.scanSigned(tok.Pos)
			if err != nil {
				return tok, err
			}
			if num {
				tok.Kind = TokenNum
				tok.Text = l.buf.String()
			} else {
				tok.Kind = TokenOp
				tok.Op = OpSub
				tok.Text = "-"
			}
		default:
			op := opFor(r)
			if op == OpNone {
				// Write the rune so that it shows up in the error message.
				l.buf.WriteRune(r)
				return tok, &LexError{Text: l.buf.String(), Col: tok.Pos}
			}
			tok.Kind = TokenOp
			tok.Op = op
			tok.Text = string(r)
		}
		l.prev = tok.Kind
		return tok, nil
	}
}

// scanSigned scans a number following a minus sign that the lexer has already
// read. If the next rune cannot start a number, it is left unread and the
// result is false.
func (l *lexer) scanSigned(col int) (bool, error) {
	r, err := l.readRune()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	l.unreadRune()
	if !('0' <= r && r <= '9' || r == '.') {
		return false, nil
	}
	l.buf.WriteByte('-')
	return true, l.scanNum(col)
}

// scanNum scans a maximal run of digits and dots into the lexer's buffer. The
// run must contain at least one digit and at most one dot.
func (l *lexer) scanNum(col int) error {
	var dig bool
	dots := 0
	for {
		r, err := l.readRune()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if r == '.' {
			dots++
		} else if '0' <= r && r <= '9' {
			dig = true
		} else {
			l.unreadRune()
			break
		}
		l.buf.WriteRune(r)
	}
	if !dig || dots > 1 {
		return &LexError{Text: l.buf.String(), Kind: "number", Col: col}
	}
	return nil
}

// Lex scans an entire expression into tokens. Whitespace between tokens is
// ignored. A - with no number or operator to its left is folded into the
// number following it, so "-5*-3" is the two numbers -5 and -3 with an
// operator between them. Errors from src other than io.EOF are returned as-is;
// all others unwrap to ErrMalformed.
func Lex(src io.RuneScanner) ([]Token, error) {
	scan := lex(src)
	var toks []Token
	for {
		tok, err := scan.next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return toks, nil
			}
			return nil, err
		}
		toks = append(toks, tok)
	}
}

// Tokenize is a shortcut to lex a string expression.
func Tokenize(src string) ([]Token, error) {
	return Lex(strings.NewReader(src))
}
