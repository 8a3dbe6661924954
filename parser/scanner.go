package parser

import (
	"strconv"
	"unicode/utf8"

	"github.com/cmdneo/tree_lox/diag"
	"github.com/cmdneo/tree_lox/token"
	"github.com/cmdneo/tree_lox/value"
)

const EOF_CHAR = '\x00'

type Scanner struct {
	source   string
	start    int
	current  int
	line     int
	reporter diag.Reporter
	hadError bool
}

func NewScanner(source string, reporter diag.Reporter) *Scanner {
	return &Scanner{source: source, line: 1, reporter: reporter}
}

func (s *Scanner) HadError() bool {
	return s.hadError
}

// Returns the next valid token. Invalid characters and unterminated strings
// are reported and skipped, END_OF_FILE is returned once the input is exhausted.
func (s *Scanner) NextToken() token.Token {
	for {
		s.skipBlanksAndComments()
		s.start = s.current

		if s.isAtEnd() {
			return s.makeTok(token.END_OF_FILE)
		}

		if tok, ok := s.scanToken(); ok {
			return tok
		}
	}
}

func (s *Scanner) scanToken() (token.Token, bool) {
	c := s.advance()

	switch c {
	case '(':
		return s.makeTok(token.LEFT_PAREN), true
	case ')':
		return s.makeTok(token.RIGHT_PAREN), true
	case '{':
		return s.makeTok(token.LEFT_BRACE), true
	case '}':
		return s.makeTok(token.RIGHT_BRACE), true

	case '-':
		return s.makeTok(token.MINUS), true
	case '+':
		return s.makeTok(token.PLUS), true
	case '*':
		return s.makeTok(token.STAR), true
	case '/':
		return s.makeTok(token.SLASH), true

	case ',':
		return s.makeTok(token.COMMA), true
	case '.':
		return s.makeTok(token.DOT), true
	case ';':
		return s.makeTok(token.SEMICOLON), true
	case ':':
		return s.makeTok(token.COLON), true
	case '?':
		return s.makeTok(token.QUESTION), true

	case '!':
		return s.makeTok(s.either('=', token.BANG_EQUAL, token.BANG)), true
	case '=':
		return s.makeTok(s.either('=', token.EQUAL_EQUAL, token.EQUAL)), true
	case '<':
		return s.makeTok(s.either('=', token.LESS_EQUAL, token.LESS)), true
	case '>':
		return s.makeTok(s.either('=', token.GREATER_EQUAL, token.GREATER)), true

	case '"':
		return s.scanString()
	}

	if isDigit(c) {
		return s.scanNumber()
	}

	if isIdentFirstChar(c) {
		return s.scanIdentifier(), true
	}

	// A multi-byte character is reported once.
	if c >= utf8.RuneSelf {
		_, size := utf8.DecodeRuneInString(s.source[s.current-1:])
		s.current += size - 1
	}

	s.error("Unexpected character.")
	return token.Token{}, false
}

func (s *Scanner) scanString() (token.Token, bool) {
	for !s.isAtEnd() {
		if s.advance() == '"' {
			tok := s.makeTok(token.STRING)
			tok.Literal = value.String(s.source[s.start+1 : s.current-1])
			return tok, true
		}
	}

	s.error("Unterminated string.")
	return token.Token{}, false
}

func (s *Scanner) scanNumber() (token.Token, bool) {
	for isDigit(s.peek()) {
		s.advance()
	}

	// A trailing '.' is not part of the number.
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance() // Eat the '.'
		for isDigit(s.peek()) {
			s.advance()
		}
	}

	tok := s.makeTok(token.NUMBER)
	// ParseFloat always uses '.' as the decimal separator.
	val, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		s.error("Invalid number.")
		return token.Token{}, false
	}

	tok.Literal = value.Number(val)
	return tok, true
}

func (s *Scanner) scanIdentifier() token.Token {
	for isIdentChar(s.peek()) {
		s.advance()
	}

	tok := s.makeTok(token.IDENTIFIER)
	if kind, ok := token.Keywords[tok.Lexeme]; ok {
		tok.Kind = kind
	}

	return tok
}

// Utility methods
// -----------------------------------------------
func (s *Scanner) skipBlanksAndComments() {
	for !s.isAtEnd() {
		switch s.peek() {
		case ' ', '\t', '\r', '\n', '\v':
			s.advance()

		case '/':
			switch s.peekNext() {
			case '/':
				for !s.isAtEnd() && s.peek() != '\n' {
					s.advance()
				}
			case '*':
				s.skipBlockComment()
			default:
				return
			}

		default:
			return
		}
	}
}

// Block comments do not nest, the first "*/" closes the comment.
// An unclosed comment runs to the end of input.
func (s *Scanner) skipBlockComment() {
	s.advance() // '/'
	s.advance() // '*'

	for !s.isAtEnd() {
		if s.peek() == '*' && s.peekNext() == '/' {
			s.advance()
			s.advance()
			return
		}
		s.advance()
	}
}

func (s *Scanner) either(expected byte, matched, otherwise token.TokenKind) token.TokenKind {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) error(message string) {
	s.hadError = true
	if s.reporter != nil {
		s.reporter.Report(diag.AtLine(s.line, message))
	}
}

func (s *Scanner) makeTok(kind token.TokenKind) token.Token {
	return token.Token{Kind: kind, Lexeme: s.source[s.start:s.current], Line: s.line}
}

// Scanner character matching and processing methods
// --------------------------------------------------------
func (s *Scanner) match(expected byte) bool {
	if s.peek() == expected && !s.isAtEnd() {
		s.advance()
		return true
	}
	return false
}

func (s *Scanner) peekNext() byte {
	if s.current+1 < len(s.source) {
		return s.source[s.current+1]
	}
	return EOF_CHAR
}

func (s *Scanner) peek() byte {
	if !s.isAtEnd() {
		return s.source[s.current]
	}
	return EOF_CHAR
}

func (s *Scanner) advance() byte {
	if s.isAtEnd() {
		return EOF_CHAR
	}

	ret := s.source[s.current]
	s.current++
	if ret == '\n' {
		s.line++
	}

	return ret
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

// Character class functions
// --------------------------------------------------------
func isDigit(c byte) bool {
	return '0' <= c && c <= '9'
}

func isIdentChar(c byte) bool {
	return isIdentFirstChar(c) || isDigit(c)
}

func isIdentFirstChar(c byte) bool {
	return c == '_' ||
		'a' <= c && c <= 'z' ||
		'A' <= c && c <= 'Z'
}
