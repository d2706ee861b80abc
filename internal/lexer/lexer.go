// Package lexer splits AWK program text into tokens.
package lexer

import (
	"strings"

	"github.com/kolkov/nawk/internal/token"
)

// Lexer scans AWK source one byte at a time. Non-ASCII bytes pass through
// string and regex literals untouched.
type Lexer struct {
	src     []byte
	ch      byte // current byte, 0 at end of input
	offset  int  // offset of the byte after ch
	pos     token.Position
	nextPos token.Position

	hadSpace bool        // white space preceded the current token
	lastTok  token.Token // previous token, decides whether / starts a regex
}

// New returns a Lexer reading src.
func New(src []byte) *Lexer {
	l := &Lexer{src: src, nextPos: token.Position{Line: 1, Column: 1}}
	l.next()
	return l
}

// NewFromString returns a Lexer reading src.
func NewFromString(src string) *Lexer {
	return New([]byte(src))
}

// Token is a scanned token.
type Token struct {
	Type  token.Token
	Pos   token.Position
	Value string // literal text, or an error message for ILLEGAL
}

// Scan returns the next token.
func (l *Lexer) Scan() Token {
	tok := l.scan()
	l.lastTok = tok.Type
	return tok
}

// HadSpace reports whether white space preceded the last scanned token.
// A user function call requires the ( to follow the name directly.
func (l *Lexer) HadSpace() bool {
	return l.hadSpace
}

// two-character operators keyed by their first byte; the single-byte
// token is used when the second byte does not match.
type opChoice struct {
	single token.Token
	pairs  map[byte]token.Token
}

var operators = map[byte]opChoice{
	'+': {token.ADD, map[byte]token.Token{'+': token.INCR, '=': token.ADD_ASSIGN}},
	'-': {token.SUB, map[byte]token.Token{'-': token.DECR, '=': token.SUB_ASSIGN}},
	'*': {token.MUL, map[byte]token.Token{'=': token.MUL_ASSIGN}},
	'%': {token.MOD, map[byte]token.Token{'=': token.MOD_ASSIGN}},
	'^': {token.POW, map[byte]token.Token{'=': token.POW_ASSIGN}},
	'=': {token.ASSIGN, map[byte]token.Token{'=': token.EQUALS}},
	'!': {token.NOT, map[byte]token.Token{'=': token.NOT_EQUALS, '~': token.NOT_MATCH}},
	'<': {token.LESS, map[byte]token.Token{'=': token.LTE}},
	'>': {token.GREATER, map[byte]token.Token{'=': token.GTE, '>': token.APPEND}},
	'&': {token.ILLEGAL, map[byte]token.Token{'&': token.AND}},
	'|': {token.PIPE, map[byte]token.Token{'|': token.OR}},
	'~': {token.MATCH, nil},
	'(': {token.LPAREN, nil},
	')': {token.RPAREN, nil},
	'{': {token.LBRACE, nil},
	'}': {token.RBRACE, nil},
	'[': {token.LBRACKET, nil},
	']': {token.RBRACKET, nil},
	',': {token.COMMA, nil},
	';': {token.SEMICOLON, nil},
	':': {token.COLON, nil},
	'?': {token.QUESTION, nil},
	'$': {token.DOLLAR, nil},
}

func (l *Lexer) scan() Token {
	l.skipWhitespace()
	if l.ch == '#' {
		l.skipComment()
	}
	pos := l.pos

	switch ch := l.ch; {
	case ch == 0:
		return Token{Type: token.EOF, Pos: pos}
	case ch == '\n':
		l.next()
		return Token{Type: token.NEWLINE, Pos: pos}
	case ch == '/':
		if l.canBeRegex() {
			return l.scanRegex(pos)
		}
		l.next()
		if l.ch == '=' {
			l.next()
			return Token{Type: token.DIV_ASSIGN, Pos: pos, Value: "/="}
		}
		return Token{Type: token.DIV, Pos: pos, Value: "/"}
	case ch == '"':
		return l.scanString(pos)
	case isDigit(ch) || ch == '.' && l.offset < len(l.src) && isDigit(l.src[l.offset]):
		return l.scanNumber(pos)
	case isIdentStart(ch):
		return l.scanIdent(pos)
	}

	op, ok := operators[l.ch]
	if !ok {
		ch := l.ch
		l.next()
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "unexpected character " + quoteByte(ch)}
	}
	first := l.ch
	l.next()
	if t, ok := op.pairs[l.ch]; ok {
		l.next()
		return Token{Type: t, Pos: pos, Value: t.String()}
	}
	if op.single == token.ILLEGAL {
		return Token{Type: token.ILLEGAL, Pos: pos, Value: "unexpected character " + quoteByte(first)}
	}
	return Token{Type: op.single, Pos: pos, Value: op.single.String()}
}

func (l *Lexer) scanRegex(pos token.Position) Token {
	l.next()
	var re []byte
	for l.ch != '/' {
		switch l.ch {
		case 0, '\n':
			return Token{Type: token.ILLEGAL, Pos: pos, Value: "newline in regular expression " + string(re)}
		case '\\':
			l.next()
			switch l.ch {
			case 0, '\n':
				return Token{Type: token.ILLEGAL, Pos: pos, Value: "newline in regular expression " + string(re)}
			case '/':
				re = append(re, '/')
			default:
				re = append(re, '\\', l.ch)
			}
		default:
			re = append(re, l.ch)
		}
		l.next()
	}
	l.next()
	return Token{Type: token.REGEX, Pos: pos, Value: string(re)}
}

var simpleEscapes = map[byte]byte{
	'n': '\n', 't': '\t', 'r': '\r', 'b': '\b', 'f': '\f', 'v': '\v', 'a': '\a',
	'\\': '\\', '"': '"', '/': '/',
}

// Unescape processes the escapes of a string literal in s, for values that
// come from command-line assignments.
func Unescape(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}
	b := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 == len(s) {
			b = append(b, s[i])
			continue
		}
		i++
		if c, ok := simpleEscapes[s[i]]; ok {
			b = append(b, c)
			continue
		}
		if s[i] >= '0' && s[i] <= '7' {
			n := 0
			for j := 0; j < 3 && i < len(s) && s[i] >= '0' && s[i] <= '7'; j++ {
				n = n*8 + int(s[i]-'0')
				i++
			}
			i--
			b = append(b, byte(n))
			continue
		}
		b = append(b, '\\', s[i])
	}
	return string(b)
}

func (l *Lexer) scanString(pos token.Position) Token {
	l.next()
	var sb []byte
	for l.ch != '"' {
		if l.ch == 0 || l.ch == '\n' {
			return Token{Type: token.ILLEGAL, Pos: pos, Value: "non-terminated string " + string(sb)}
		}
		if l.ch != '\\' {
			sb = append(sb, l.ch)
			l.next()
			continue
		}
		l.next()
		if c, ok := simpleEscapes[l.ch]; ok {
			sb = append(sb, c)
			l.next()
			continue
		}
		switch {
		case l.ch >= '0' && l.ch <= '7':
			n := 0
			for i := 0; i < 3 && l.ch >= '0' && l.ch <= '7'; i++ {
				n = n*8 + int(l.ch-'0')
				l.next()
			}
			sb = append(sb, byte(n))
		case l.ch == 'x':
			l.next()
			if !isHexDigit(l.ch) {
				sb = append(sb, '\\', 'x')
				continue
			}
			n := 0
			for i := 0; i < 2 && isHexDigit(l.ch); i++ {
				n = n*16 + hexValue(l.ch)
				l.next()
			}
			sb = append(sb, byte(n))
		case l.ch == '\n':
			// backslash-newline continues the string
			l.next()
		case l.ch == 0:
			return Token{Type: token.ILLEGAL, Pos: pos, Value: "non-terminated string " + string(sb)}
		default:
			sb = append(sb, '\\', l.ch)
			l.next()
		}
	}
	l.next()
	return Token{Type: token.STRING, Pos: pos, Value: string(sb)}
}

// scanNumber scans a decimal constant. An e or E only belongs to the number
// when digits follow it, so 1e+x scans as 1, e, +, x.
func (l *Lexer) scanNumber(pos token.Position) Token {
	start := pos.Offset
	for isDigit(l.ch) {
		l.next()
	}
	if l.ch == '.' {
		l.next()
		for isDigit(l.ch) {
			l.next()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && l.hasExponent() {
		l.next()
		if l.ch == '+' || l.ch == '-' {
			l.next()
		}
		for isDigit(l.ch) {
			l.next()
		}
	}
	return Token{Type: token.NUMBER, Pos: pos, Value: string(l.src[start:l.endOffset()])}
}

func (l *Lexer) hasExponent() bool {
	i := l.offset
	if i < len(l.src) && (l.src[i] == '+' || l.src[i] == '-') {
		i++
	}
	return i < len(l.src) && isDigit(l.src[i])
}

func (l *Lexer) scanIdent(pos token.Position) Token {
	start := pos.Offset
	for isIdentStart(l.ch) || isDigit(l.ch) {
		l.next()
	}
	name := string(l.src[start:l.endOffset()])
	return Token{Type: token.LookupIdent(name), Pos: pos, Value: name}
}

// endOffset is the offset just past the last consumed byte.
func (l *Lexer) endOffset() int {
	if l.ch == 0 {
		return len(l.src)
	}
	return l.pos.Offset
}

func (l *Lexer) skipWhitespace() {
	l.hadSpace = false
	for {
		switch l.ch {
		case ' ', '\t', '\r':
			l.hadSpace = true
			l.next()
		case '\\':
			// backslash-newline joins lines
			if l.offset >= len(l.src) || l.src[l.offset] != '\n' {
				return
			}
			l.hadSpace = true
			l.next()
			l.next()
		default:
			return
		}
	}
}

func (l *Lexer) skipComment() {
	for l.ch != 0 && l.ch != '\n' {
		l.next()
	}
}

func (l *Lexer) next() {
	if l.offset >= len(l.src) {
		l.ch = 0
		l.pos = l.nextPos
		return
	}
	l.pos = l.nextPos
	l.ch = l.src[l.offset]
	l.offset++
	l.nextPos.Offset = l.offset
	if l.ch == '\n' {
		l.nextPos.Line++
		l.nextPos.Column = 1
	} else {
		l.nextPos.Column++
	}
}

// canBeRegex reports whether a / after the previous token opens a regex
// rather than dividing.
func (l *Lexer) canBeRegex() bool {
	switch l.lastTok {
	case token.NAME, token.NUMBER, token.STRING, token.REGEX,
		token.RPAREN, token.RBRACKET, token.DOLLAR, token.INCR, token.DECR:
		return false
	}
	return !l.lastTok.IsBuiltin()
}

func quoteByte(c byte) string {
	if c >= ' ' && c < 0x7f {
		return "'" + string(c) + "'"
	}
	return "0x" + string("0123456789abcdef"[c>>4]) + string("0123456789abcdef"[c&15])
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isHexDigit(ch byte) bool {
	return isDigit(ch) || (ch >= 'a' && ch <= 'f') || (ch >= 'A' && ch <= 'F')
}

func hexValue(ch byte) int {
	switch {
	case ch >= 'a':
		return int(ch-'a') + 10
	case ch >= 'A':
		return int(ch-'A') + 10
	}
	return int(ch - '0')
}

func isIdentStart(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}
