// Package lexer implements the scanner described in spec §4.1: a
// single-pass, byte-at-a-time state machine that turns a source buffer into
// a token stream terminated by EOF, accumulating diagnostics rather than
// aborting on the first bad byte.
package lexer

import (
	"golox/internal/diagnostics"
	"golox/internal/token"
)

// Scanner walks the byte-slice src exactly once.
type Scanner struct {
	src  []byte
	idx  int // index of the current byte; -1 before the first next()
	ch   byte
	line int
	col  int
	diag *diagnostics.Bag
}

// New creates a Scanner over src. diag receives UnexpectedCharacter and
// UnterminatedString diagnostics as scanning proceeds.
func New(src []byte, diag *diagnostics.Bag) *Scanner {
	return &Scanner{src: src, idx: -1, line: 1, col: 0, diag: diag}
}

func (s *Scanner) next() bool {
	if s.idx >= len(s.src)-1 {
		s.idx = len(s.src)
		return false
	}
	s.idx++
	s.ch = s.src[s.idx]
	if s.ch == '\n' {
		s.line++
		s.col = 0
	} else {
		s.col++
	}
	return true
}

func (s *Scanner) peek() byte {
	if s.idx+1 >= len(s.src) {
		return 0
	}
	return s.src[s.idx+1]
}

func (s *Scanner) peekTwo() byte {
	if s.idx+2 >= len(s.src) {
		return 0
	}
	return s.src[s.idx+2]
}

func (s *Scanner) pos() token.Pos {
	return token.Pos{Line: s.line, Col: s.col}
}

func (s *Scanner) make(typ token.Type, start int) token.Token {
	return token.Token{Type: typ, Start: start, End: s.idx + 1, Pos: s.pos(), Src: s.src}
}

// twoByte consumes a trailing '=' if present and returns a twoChar token,
// otherwise a oneChar token.
func (s *Scanner) twoByte(oneChar, twoChar token.Type, start int) token.Token {
	if s.peek() == '=' {
		s.next()
		return s.make(twoChar, start)
	}
	return s.make(oneChar, start)
}

func (s *Scanner) comment() {
	for s.peek() != '\n' && s.peek() != 0 {
		s.next()
	}
}

func (s *Scanner) stringLiteral(start int) (token.Token, bool) {
	for {
		if !s.next() {
			s.diag.ReportError(diagnostics.Context{
				Kind: diagnostics.UnterminatedString, Message: "Unterminated string.",
				Line: s.line, Col: s.col,
			})
			return token.Token{}, false
		}
		if s.ch == '"' {
			break
		}
	}
	return s.make(token.STRING, start), true
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

func (s *Scanner) number(start int) token.Token {
	for isDigit(s.peek()) {
		s.next()
	}
	if s.peek() == '.' && isDigit(s.peekTwo()) {
		s.next()
		for isDigit(s.peek()) {
			s.next()
		}
	}
	return s.make(token.NUMBER, start)
}

func (s *Scanner) identifier(start int) token.Token {
	for isAlphaNumeric(s.peek()) {
		s.next()
	}
	typ := token.IDENTIFIER
	if kw, ok := token.Reserved[string(s.src[start:s.idx+1])]; ok {
		typ = kw
	}
	return s.make(typ, start)
}

// Scan tokenizes the whole source buffer, always terminating with a single
// EOF token (spec §9, open question iii).
func (s *Scanner) Scan() []token.Token {
	toks := make([]token.Token, 0, len(s.src)/4+1)

	for s.next() {
		start := s.idx
		switch s.ch {
		case ' ', '\t', '\r', '\n':
			// whitespace, already tracked by next()
		case '(':
			toks = append(toks, s.make(token.LEFT_PAREN, start))
		case ')':
			toks = append(toks, s.make(token.RIGHT_PAREN, start))
		case '{':
			toks = append(toks, s.make(token.LEFT_BRACE, start))
		case '}':
			toks = append(toks, s.make(token.RIGHT_BRACE, start))
		case ',':
			toks = append(toks, s.make(token.COMMA, start))
		case '.':
			toks = append(toks, s.make(token.DOT, start))
		case '-':
			toks = append(toks, s.make(token.MINUS, start))
		case '+':
			toks = append(toks, s.make(token.PLUS, start))
		case ';':
			toks = append(toks, s.make(token.SEMICOLON, start))
		case '*':
			toks = append(toks, s.make(token.STAR, start))
		case '/':
			if s.peek() == '/' {
				s.comment()
			} else {
				toks = append(toks, s.make(token.SLASH, start))
			}
		case '=':
			toks = append(toks, s.twoByte(token.EQUAL, token.EQUAL_EQUAL, start))
		case '!':
			toks = append(toks, s.twoByte(token.BANG, token.BANG_EQUAL, start))
		case '<':
			toks = append(toks, s.twoByte(token.LESS, token.LESS_EQUAL, start))
		case '>':
			toks = append(toks, s.twoByte(token.GREATER, token.GREATER_EQUAL, start))
		case '"':
			if tok, ok := s.stringLiteral(start); ok {
				toks = append(toks, tok)
			}
		default:
			switch {
			case isDigit(s.ch):
				toks = append(toks, s.number(start))
			case isAlpha(s.ch):
				toks = append(toks, s.identifier(start))
			default:
				s.diag.ReportError(diagnostics.Context{
					Kind:    diagnostics.UnexpectedCharacter,
					Message: "Unexpected character.",
					Line:    s.line, Col: s.col,
					Lexeme: string(s.ch),
				})
			}
		}
	}

	toks = append(toks, token.Token{Type: token.EOF, Start: len(s.src), End: len(s.src), Pos: s.pos(), Src: s.src})
	return toks
}
