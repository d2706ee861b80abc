// Package token defines the lexical tokens of the AWK language.
package token

import "strconv"

// Token is the type of a lexical token.
type Token uint8

const (
	ILLEGAL Token = iota
	EOF
	NEWLINE

	NAME
	NUMBER
	STRING
	REGEX

	ADD
	ADD_ASSIGN
	SUB
	SUB_ASSIGN
	MUL
	MUL_ASSIGN
	DIV
	DIV_ASSIGN
	MOD
	MOD_ASSIGN
	POW
	POW_ASSIGN
	ASSIGN
	EQUALS
	NOT_EQUALS
	LESS
	LTE
	GREATER
	GTE
	AND
	OR
	NOT
	MATCH
	NOT_MATCH
	INCR
	DECR
	APPEND
	PIPE
	LPAREN
	RPAREN
	LBRACE
	RBRACE
	LBRACKET
	RBRACKET
	COMMA
	SEMICOLON
	COLON
	QUESTION
	DOLLAR

	// Keywords run from BEGIN to IN.
	BEGIN
	END
	IF
	ELSE
	WHILE
	FOR
	DO
	BREAK
	CONTINUE
	FUNCTION
	RETURN
	DELETE
	EXIT
	NEXT
	GETLINE
	PRINT
	PRINTF
	IN

	// Builtin functions run from F_ATAN2 to F_TOUPPER.
	F_ATAN2
	F_CLOSE
	F_COS
	F_EXP
	F_FFLUSH
	F_GSUB
	F_INDEX
	F_INT
	F_LENGTH
	F_LOG
	F_MATCH
	F_RAND
	F_SIN
	F_SPLIT
	F_SPRINTF
	F_SQRT
	F_SRAND
	F_SUB
	F_SUBSTR
	F_SYSTEM
	F_TOLOWER
	F_TOUPPER

	numTokens
)

// spelling is the source text of each fixed token, or a short
// description for the others.
var spelling = [numTokens]string{
	ILLEGAL: "<illegal>",
	EOF:     "EOF",
	NEWLINE: "<newline>",
	NAME:    "name",
	NUMBER:  "number",
	STRING:  "string",
	REGEX:   "regex",

	ADD: "+", ADD_ASSIGN: "+=", SUB: "-", SUB_ASSIGN: "-=",
	MUL: "*", MUL_ASSIGN: "*=", DIV: "/", DIV_ASSIGN: "/=",
	MOD: "%", MOD_ASSIGN: "%=", POW: "^", POW_ASSIGN: "^=",
	ASSIGN: "=", EQUALS: "==", NOT_EQUALS: "!=",
	LESS: "<", LTE: "<=", GREATER: ">", GTE: ">=",
	AND: "&&", OR: "||", NOT: "!", MATCH: "~", NOT_MATCH: "!~",
	INCR: "++", DECR: "--", APPEND: ">>", PIPE: "|",
	LPAREN: "(", RPAREN: ")", LBRACE: "{", RBRACE: "}",
	LBRACKET: "[", RBRACKET: "]", COMMA: ",", SEMICOLON: ";",
	COLON: ":", QUESTION: "?", DOLLAR: "$",

	BEGIN: "BEGIN", END: "END", IF: "if", ELSE: "else",
	WHILE: "while", FOR: "for", DO: "do", BREAK: "break",
	CONTINUE: "continue", FUNCTION: "function", RETURN: "return",
	DELETE: "delete", EXIT: "exit", NEXT: "next", GETLINE: "getline",
	PRINT: "print", PRINTF: "printf", IN: "in",

	F_ATAN2: "atan2", F_CLOSE: "close", F_COS: "cos", F_EXP: "exp",
	F_FFLUSH: "fflush", F_GSUB: "gsub", F_INDEX: "index", F_INT: "int",
	F_LENGTH: "length", F_LOG: "log", F_MATCH: "match", F_RAND: "rand",
	F_SIN: "sin", F_SPLIT: "split", F_SPRINTF: "sprintf", F_SQRT: "sqrt",
	F_SRAND: "srand", F_SUB: "sub", F_SUBSTR: "substr", F_SYSTEM: "system",
	F_TOLOWER: "tolower", F_TOUPPER: "toupper",
}

// words maps reserved identifiers to their tokens.
var words = make(map[string]Token, F_TOUPPER-BEGIN+1)

func init() {
	for t := BEGIN; t <= F_TOUPPER; t++ {
		words[spelling[t]] = t
	}
}

// IsBuiltin reports whether t names a builtin function.
func (t Token) IsBuiltin() bool {
	return t >= F_ATAN2 && t <= F_TOUPPER
}

// LookupIdent returns the keyword or builtin token spelled ident, or NAME.
func LookupIdent(ident string) Token {
	if t, ok := words[ident]; ok {
		return t
	}
	return NAME
}

// String returns the source form of an operator, keyword or builtin, or a
// description of any other token.
func (t Token) String() string {
	if t < numTokens {
		return spelling[t]
	}
	return "token(" + strconv.Itoa(int(t)) + ")"
}
