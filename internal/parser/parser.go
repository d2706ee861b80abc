// Package parser builds node trees from AWK source.
//
// The parser is a recursive descent parser. It enters identifiers and
// literals into the symbol table it is given, so the tree it returns is
// bound to that table and must be run by the interpreter that owns it.
package parser

import (
	"github.com/kolkov/nawk/internal/lexer"
	"github.com/kolkov/nawk/internal/node"
	"github.com/kolkov/nawk/internal/token"
	"github.com/kolkov/nawk/internal/types"
)

// Names of the two constants every table carries.
const (
	ZeroName = "0"
	NullName = "$zero&null"
)

// Parser holds the state of one parse.
type Parser struct {
	lexer   *lexer.Lexer
	tok     lexer.Token
	prevTok lexer.Token
	errors  ErrorList

	tab    *types.Table
	zero   *types.Cell // literal 0; $0 is $(zero)
	null   *types.Cell // empty constant used for truth tests
	funcs  map[string]*node.Func
	calls  []call
	ranges int

	inAction  bool           // inside a pattern-action rule
	inPrint   bool           // a bare > ends the expression
	funcName  string         // function being parsed, if any
	params    map[string]int // its parameter slots
	loopDepth int
}

type call struct {
	name  string
	nargs int
	pos   token.Position
}

// Parse parses a whole program into a tree whose cells live in tab.
func Parse(src string, tab *types.Table) (*node.Tree, error) {
	p := newParser([]byte(src), tab)
	tree := p.parseProgram()
	p.checkCalls()
	p.checkGroupings(tree)
	if err := p.errors.err(); err != nil {
		return nil, err
	}
	return tree, nil
}

// ParseExpr parses a single expression.
func ParseExpr(src string, tab *types.Table) (*node.Node, error) {
	p := newParser([]byte(src), tab)
	n := p.parseExpr()
	if p.tok.Type != token.EOF {
		p.errorf("unexpected %s", p.tokenDesc())
	}
	if err := p.errors.err(); err != nil {
		return nil, err
	}
	return n, nil
}

func newParser(src []byte, tab *types.Table) *Parser {
	p := &Parser{
		lexer: lexer.New(src),
		tab:   tab,
		funcs: make(map[string]*node.Func),
	}
	p.zero = tab.Insert(ZeroName, "0", 0, types.NUM|types.STR|types.CON|types.DONTFREE)
	p.null = tab.Insert(NullName, "", 0, types.NUM|types.STR|types.CON|types.DONTFREE)
	p.zero.Kind, p.null.Kind = types.KindConst, types.KindConst
	p.next()
	return p
}

// -----------------------------------------------------------------------------
// Token handling
// -----------------------------------------------------------------------------

func (p *Parser) next() {
	p.prevTok = p.tok
	p.tok = p.lexer.Scan()
}

func (p *Parser) expect(tok token.Token) bool {
	if p.tok.Type != tok {
		p.errorf("expected %s, got %s", tok, p.tokenDesc())
		return false
	}
	p.next()
	return true
}

func (p *Parser) match(types ...token.Token) bool {
	for _, t := range types {
		if p.tok.Type == t {
			return true
		}
	}
	return false
}

// tokenDesc describes the current token for error messages.
func (p *Parser) tokenDesc() string {
	switch p.tok.Type {
	case token.NAME, token.NUMBER:
		return p.tok.Value
	case token.STRING:
		return `"` + p.tok.Value + `"`
	case token.ILLEGAL:
		return p.tok.Value
	case token.NEWLINE:
		return "newline"
	case token.EOF:
		return "end of file"
	}
	return p.tok.Type.String()
}

func (p *Parser) error(err *ParseError) {
	p.errors = append(p.errors, err)
}

func (p *Parser) errorf(format string, args ...any) {
	p.error(errorf(p.tok.Pos, format, args...))
}

// at stamps n with the line of the last consumed token.
func (p *Parser) at(n *node.Node) *node.Node {
	if n != nil && n.Line == 0 {
		n.Line = p.prevTok.Pos.Line
	}
	return n
}

func (p *Parser) optionalNewlines() {
	for p.tok.Type == token.NEWLINE {
		p.next()
	}
}

func (p *Parser) commaNewlines() {
	p.expect(token.COMMA)
	p.optionalNewlines()
}

func (p *Parser) isTerminator() bool {
	return p.match(token.NEWLINE, token.SEMICOLON, token.RBRACE, token.EOF)
}

func (p *Parser) skipTerminators() {
	for p.match(token.NEWLINE, token.SEMICOLON) {
		p.next()
	}
}

// endSimple reports an error unless a simple statement is properly ended.
func (p *Parser) endSimple() {
	if !p.isTerminator() {
		p.errorf("unexpected %s", p.tokenDesc())
		p.next()
	}
}

// -----------------------------------------------------------------------------
// Cells
// -----------------------------------------------------------------------------

func (p *Parser) numberNode(text string) *node.Node {
	c := p.tab.Insert(text, text, types.Atof(text), types.CON|types.NUM)
	if c.Kind == types.KindVar {
		c.Kind = types.KindConst
	}
	return node.CellNode(c)
}

// stringNode returns a string constant. The table key carries a trailing
// blank so constants never collide with names or numbers.
func (p *Parser) stringNode(s string) *node.Node {
	c := p.tab.Insert(s+" ", s, 0, types.CON|types.STR|types.DONTFREE)
	c.Kind = types.KindConst
	return node.CellNode(c)
}

func (p *Parser) regexNode(re string) *node.Node {
	c := &types.Cell{Kind: types.KindConst, Name: "/" + re + "/", Sval: re, Flags: types.CON | types.STR | types.DONTFREE}
	return p.at(node.Op1(node.Regex, node.CellNode(c)))
}

// nameNode returns a reference to a variable, parameter or array name.
func (p *Parser) nameNode(name string, pos token.Position) *node.Node {
	if i, ok := p.params[name]; ok {
		return p.at(node.ArgNode(i))
	}
	if _, ok := p.funcs[name]; ok || name == p.funcName {
		p.error(errorf(pos, "can't use function %s as a variable", name))
	}
	return node.CellNode(p.tab.Insert(name, "", 0, types.NUM|types.STR|types.DONTFREE))
}

// arrayNode is nameNode for a name used with a subscript. A global turns
// into an array as soon as it is seen that way.
func (p *Parser) arrayNode(name string, pos token.Position) *node.Node {
	n := p.nameNode(name, pos)
	if n.IsValue() {
		c := n.Cell
		switch {
		case c.IsFunc():
			p.error(errorf(pos, "%s is a function, not an array", name))
		case !c.IsArray():
			if c.Flags&types.CON != 0 {
				p.error(errorf(pos, "can't use %s as an array", name))
				break
			}
			c.MakeArray(types.NSYMTAB)
			c.Kind = types.KindArray
		}
	}
	return n
}

// notnull turns a value into a truth test by comparing it with the empty
// constant. Operators that already yield a boolean are left alone.
func (p *Parser) notnull(n *node.Node) *node.Node {
	if n.IsValue() {
		return p.at(node.Op2(node.Ne, n, node.CellNode(p.null)))
	}
	switch n.Op {
	case node.Lt, node.Le, node.Eq, node.Ne, node.Gt, node.Ge,
		node.And, node.Or, node.Not, node.Match, node.NotMatch, node.Regex, node.In:
		return n
	}
	return p.at(node.Op2(node.Ne, n, node.CellNode(p.null)))
}

func isLValue(n *node.Node) bool {
	switch {
	case n.IsValue():
		return n.Cell.Flags&(types.CON|types.FCN|types.ARR) == 0
	case n.Op == node.Indirect, n.Op == node.ArrayRef, n.Op == node.Arg:
		return true
	}
	return false
}

// -----------------------------------------------------------------------------
// Program structure
// -----------------------------------------------------------------------------

func (p *Parser) parseProgram() *node.Tree {
	var begin, rules, end *node.Node
	needsTerminator := false

	for p.tok.Type != token.EOF {
		if needsTerminator {
			if !p.match(token.NEWLINE, token.SEMICOLON) {
				p.errorf("unexpected %s", p.tokenDesc())
				p.next()
			}
			needsTerminator = false
		}
		p.skipTerminators()

		switch p.tok.Type {
		case token.EOF:
		case token.BEGIN:
			p.next()
			p.optionalNewlines()
			begin = node.Link(begin, p.parseBlock())
		case token.END:
			p.next()
			p.optionalNewlines()
			end = node.Link(end, p.parseBlock())
		case token.FUNCTION:
			p.parseFunction()
		default:
			p.inAction = true
			rule, hasAction := p.parseRule()
			rules = node.Link(rules, rule)
			needsTerminator = !hasAction
			p.inAction = false
		}
	}

	root := node.Stat3(node.Program, begin, rules, end)
	root.Line = 1
	return &node.Tree{Root: root, Funcs: p.funcs, Ranges: p.ranges}
}

// parseRule parses "pattern", "pattern { action }", "{ action }" or a
// range "pattern, pattern { action }".
func (p *Parser) parseRule() (*node.Node, bool) {
	line := p.tok.Pos.Line
	var pat1, pat2 *node.Node
	if p.tok.Type != token.LBRACE {
		pat1 = p.notnull(p.parseExpr())
		if p.tok.Type == token.COMMA {
			p.next()
			p.optionalNewlines()
			pat2 = p.notnull(p.parseExpr())
		}
	}

	var action *node.Node
	hasAction := p.tok.Type == token.LBRACE
	if hasAction {
		action = p.parseBlock()
	} else {
		action = node.Stat2(node.Print, node.RecordNode(p.zero), nil)
		action.Line = line
	}

	var rule *node.Node
	if pat2 != nil {
		rule = node.Stat3(node.Pastat2, pat1, pat2, action)
		rule.Aux = p.ranges
		p.ranges++
	} else {
		rule = node.Stat2(node.Pastat, pat1, action)
	}
	rule.Line = line
	return rule, hasAction
}

func (p *Parser) parseFunction() {
	pos := p.tok.Pos
	p.next()
	name := p.tok.Value
	if !p.expect(token.NAME) {
		return
	}
	if _, ok := p.funcs[name]; ok {
		p.error(errorf(pos, "function %s redefined", name))
	}
	c := p.tab.Insert(name, "", 0, types.FCN)
	if c.IsArray() {
		p.error(errorf(pos, "%s is an array, not a function", name))
	}
	c.Flags = types.FCN
	c.Kind = types.KindFunc

	if !p.expect(token.LPAREN) {
		return
	}
	f := &node.Func{Name: name, Line: pos.Line}
	params := make(map[string]int)
	for p.tok.Type != token.RPAREN && p.tok.Type != token.EOF {
		if len(f.Params) > 0 {
			p.commaNewlines()
		}
		param := p.tok.Value
		if !p.expect(token.NAME) {
			break
		}
		if param == name {
			p.errorf("can't use function name %s as a parameter", name)
		}
		if _, dup := params[param]; dup {
			p.errorf("duplicate parameter %s in function %s", param, name)
		}
		params[param] = len(f.Params)
		f.Params = append(f.Params, param)
	}
	p.expect(token.RPAREN)
	p.optionalNewlines()

	// Registered before the body so recursive calls resolve.
	p.funcs[name] = f
	p.funcName, p.params = name, params
	f.Body = p.parseBlock()
	p.funcName, p.params = "", nil
}

// parseBlock parses { statements } into a chain.
func (p *Parser) parseBlock() *node.Node {
	if !p.expect(token.LBRACE) {
		p.next()
		return nil
	}
	var chain *node.Node
	for {
		p.skipTerminators()
		if p.match(token.RBRACE, token.EOF) {
			break
		}
		chain = node.Link(chain, p.parseStmt())
	}
	p.expect(token.RBRACE)
	return chain
}

// -----------------------------------------------------------------------------
// Statements
// -----------------------------------------------------------------------------

func (p *Parser) parseStmt() *node.Node {
	line := p.tok.Pos.Line
	var n *node.Node

	switch p.tok.Type {
	case token.IF:
		n = p.parseIf()
	case token.WHILE:
		n = p.parseWhile()
	case token.FOR:
		n = p.parseFor()
	case token.DO:
		n = p.parseDo()
		p.endSimple()
	case token.LBRACE:
		return p.parseBlock()

	case token.BREAK, token.CONTINUE:
		op := node.Break
		if p.tok.Type == token.CONTINUE {
			op = node.Continue
		}
		if p.loopDepth == 0 {
			p.errorf("%s is illegal outside of loops", p.tok.Value)
		}
		p.next()
		n = node.Stat1(op, nil)
		p.endSimple()

	case token.NEXT:
		if !p.inAction && p.funcName == "" {
			p.errorf("next is illegal inside BEGIN/END")
		}
		p.next()
		n = node.Stat1(node.Next, nil)
		p.endSimple()

	case token.EXIT:
		p.next()
		var code *node.Node
		if !p.isTerminator() {
			code = p.parseExpr()
		}
		n = node.Stat1(node.Exit, code)
		p.endSimple()

	case token.RETURN:
		if p.funcName == "" {
			p.errorf("return not in function")
		}
		p.next()
		var value *node.Node
		if !p.isTerminator() {
			value = p.parseExpr()
		}
		n = node.Stat1(node.Return, value)
		p.endSimple()

	default:
		n = p.parseSimpleStmt()
		p.endSimple()
	}

	if n != nil && n.Line == 0 {
		n.Line = line
	}
	return n
}

// parseSimpleStmt parses print, printf, delete or an expression statement.
func (p *Parser) parseSimpleStmt() *node.Node {
	line := p.tok.Pos.Line
	var n *node.Node
	switch p.tok.Type {
	case token.PRINT, token.PRINTF:
		n = p.parsePrint()
	case token.DELETE:
		n = p.parseDelete()
	default:
		n = node.ExprToStat(p.parseExpr())
	}
	n.Line = line
	return n
}

func (p *Parser) parseCond() *node.Node {
	p.expect(token.LPAREN)
	cond := p.notnull(p.parseExpr())
	p.expect(token.RPAREN)
	p.optionalNewlines()
	return cond
}

func (p *Parser) parseIf() *node.Node {
	p.next()
	cond := p.parseCond()
	then := p.parseBody()

	// else may follow a terminator: if (x) a; else b
	p.skipTerminators()

	var els *node.Node
	if p.tok.Type == token.ELSE {
		p.next()
		p.optionalNewlines()
		els = p.parseBody()
	}
	return node.Stat3(node.If, cond, then, els)
}

func (p *Parser) parseWhile() *node.Node {
	p.next()
	cond := p.parseCond()
	return node.Stat2(node.While, cond, p.parseLoopBody())
}

func (p *Parser) parseDo() *node.Node {
	p.next()
	p.optionalNewlines()
	body := p.parseLoopBody()
	p.skipTerminators()
	if !p.expect(token.WHILE) {
		return node.Stat2(node.Do, body, nil)
	}
	p.expect(token.LPAREN)
	cond := p.notnull(p.parseExpr())
	p.expect(token.RPAREN)
	return node.Stat2(node.Do, body, cond)
}

// parseFor parses both for (init; cond; post) and for (k in a).
func (p *Parser) parseFor() *node.Node {
	p.next()
	p.expect(token.LPAREN)

	var init *node.Node
	if p.tok.Type != token.SEMICOLON {
		init = p.parseSimpleStmt()
	}

	if init != nil && p.tok.Type == token.RPAREN && init.Op == node.In {
		p.next()
		p.optionalNewlines()
		v := init.Args[0]
		if v.Next != nil || !(v.IsValue() || v.Op == node.Arg) || !isLValue(v) {
			p.errorf("expected 'for (var in array)'")
		}
		return node.Stat3(node.ForIn, v, init.Args[1], p.parseLoopBody())
	}

	p.expect(token.SEMICOLON)
	p.optionalNewlines()
	var cond *node.Node
	if p.tok.Type != token.SEMICOLON {
		cond = p.notnull(p.parseExpr())
	}
	p.expect(token.SEMICOLON)
	p.optionalNewlines()
	var post *node.Node
	if p.tok.Type != token.RPAREN {
		post = p.parseSimpleStmt()
	}
	p.expect(token.RPAREN)
	p.optionalNewlines()
	return node.Stat4(node.For, init, cond, post, p.parseLoopBody())
}

func (p *Parser) parseLoopBody() *node.Node {
	p.loopDepth++
	body := p.parseBody()
	p.loopDepth--
	return body
}

// parseBody parses the statement controlled by if, while, for or do.
func (p *Parser) parseBody() *node.Node {
	if p.tok.Type == token.SEMICOLON {
		p.next()
		return nil
	}
	return p.parseStmt()
}

func (p *Parser) parseDelete() *node.Node {
	p.next()
	pos := p.tok.Pos
	name := p.tok.Value
	if !p.expect(token.NAME) {
		return node.Stat2(node.Delete, node.CellNode(p.null), nil)
	}
	arr := p.arrayNode(name, pos)
	var subs *node.Node
	if p.tok.Type == token.LBRACKET {
		p.next()
		subs = p.parseSubscripts()
	}
	return node.Stat2(node.Delete, arr, subs)
}

// parsePrint parses print and printf with an optional redirection.
func (p *Parser) parsePrint() *node.Node {
	op := node.Print
	if p.tok.Type == token.PRINTF {
		op = node.Printf
	}
	p.next()

	var args *node.Node
	p.inPrint = true
	if !p.isTerminator() && !p.match(token.GREATER, token.APPEND, token.PIPE) {
		args = p.parseExpr()
		for p.tok.Type == token.COMMA {
			p.commaNewlines()
			args = node.Link(args, p.parseExpr())
		}
	}
	p.inPrint = false

	// print (a, b) prints a list, not a grouping
	if args != nil && args.Next == nil && args.Op == node.Grouping && args.Kind == node.Expr {
		args = args.Args[0]
	}
	if op == node.Printf && args == nil {
		p.errorf("printf: no format")
	}

	var dest *node.Node
	redirect := token.ILLEGAL
	if p.match(token.GREATER, token.APPEND, token.PIPE) {
		redirect = p.tok.Type
		p.next()
		dest = p.parseConcat()
	}
	n := node.Stat2(op, args, dest)
	n.Aux = int(redirect)
	return n
}

// -----------------------------------------------------------------------------
// Expressions, lowest precedence first
// -----------------------------------------------------------------------------

func (p *Parser) parseExpr() *node.Node {
	return p.parseAssign()
}

var assignOps = map[token.Token]node.Op{
	token.ASSIGN:     node.Assign,
	token.ADD_ASSIGN: node.AddEq,
	token.SUB_ASSIGN: node.SubEq,
	token.MUL_ASSIGN: node.MulEq,
	token.DIV_ASSIGN: node.DivEq,
	token.MOD_ASSIGN: node.ModEq,
	token.POW_ASSIGN: node.PowEq,
}

func (p *Parser) parseAssign() *node.Node {
	left := p.parseTernary()
	op, ok := assignOps[p.tok.Type]
	if !ok {
		return left
	}
	p.next()
	p.optionalNewlines()
	right := p.parseAssign()

	if isLValue(left) {
		return p.at(node.Op2(op, left, right))
	}
	// "1 && x = 1" assigns to x: the grammar reaches the assignment with a
	// boolean whose right operand is the real target.
	if left.IsExpr() {
		switch left.Op {
		case node.And, node.Or:
			if target := p.unwrapNotnull(left.Args[1]); isLValue(target) {
				left.Args[1] = p.notnull(p.at(node.Op2(op, target, right)))
				return left
			}
		case node.Eq, node.Ne, node.Lt, node.Le, node.Gt, node.Ge, node.Match, node.NotMatch:
			if isLValue(left.Args[1]) {
				left.Args[1] = p.at(node.Op2(op, left.Args[1], right))
				return left
			}
		}
	}
	p.errorf("assignment to non-lvalue")
	return left
}

func (p *Parser) unwrapNotnull(n *node.Node) *node.Node {
	if n.Op == node.Ne && n.IsExpr() && n.Args[1].IsValue() && n.Args[1].Cell == p.null {
		return n.Args[0]
	}
	return n
}

func (p *Parser) parseTernary() *node.Node {
	cond := p.parseOr()
	if p.tok.Type != token.QUESTION {
		return cond
	}
	p.next()
	p.optionalNewlines()
	a := p.parseTernary()
	p.optionalNewlines()
	p.expect(token.COLON)
	p.optionalNewlines()
	b := p.parseTernary()
	return p.at(node.Op3(node.CondExpr, p.notnull(cond), a, b))
}

func (p *Parser) parseOr() *node.Node {
	left := p.parseAnd()
	for p.tok.Type == token.OR {
		p.next()
		p.optionalNewlines()
		right := p.parseAnd()
		left = p.at(node.Op2(node.Or, p.notnull(left), p.notnull(right)))
	}
	return left
}

func (p *Parser) parseAnd() *node.Node {
	left := p.parseIn()
	for p.tok.Type == token.AND {
		p.next()
		p.optionalNewlines()
		right := p.parseIn()
		left = p.at(node.Op2(node.And, p.notnull(left), p.notnull(right)))
	}
	return left
}

func (p *Parser) parseIn() *node.Node {
	left := p.parseMatch()
	for p.tok.Type == token.IN {
		p.next()
		pos := p.tok.Pos
		name := p.tok.Value
		if !p.expect(token.NAME) {
			return left
		}
		subs := left
		if left.Op == node.Grouping && left.IsExpr() {
			subs = left.Args[0]
		}
		left = p.at(node.Op2(node.In, subs, p.arrayNode(name, pos)))
	}
	return left
}

func (p *Parser) parseMatch() *node.Node {
	left := p.parseCompare()
	for p.match(token.MATCH, token.NOT_MATCH) {
		op := node.Match
		if p.tok.Type == token.NOT_MATCH {
			op = node.NotMatch
		}
		p.next()
		right := p.parseCompare()
		left = p.at(node.Op2(op, left, right))
	}
	return left
}

var compareOps = map[token.Token]node.Op{
	token.EQUALS:     node.Eq,
	token.NOT_EQUALS: node.Ne,
	token.LESS:       node.Lt,
	token.LTE:        node.Le,
	token.GREATER:    node.Gt,
	token.GTE:        node.Ge,
}

// parseCompare parses a non-associative comparison. Inside print a bare >
// is a redirection.
func (p *Parser) parseCompare() *node.Node {
	left := p.parseConcat()
	op, ok := compareOps[p.tok.Type]
	if !ok || (p.inPrint && p.tok.Type == token.GREATER) {
		return left
	}
	p.next()
	right := p.parseConcat()
	return p.at(node.Op2(op, left, right))
}

func (p *Parser) parseConcat() *node.Node {
	left := p.parseAdditive()
	for p.canStartConcat() {
		right := p.parseAdditive()
		left = p.at(node.Op2(node.Concat, left, right))
	}
	return left
}

// canStartConcat reports whether the current token can begin the right
// operand of an implicit concatenation.
func (p *Parser) canStartConcat() bool {
	switch p.tok.Type {
	case token.DOLLAR, token.NAME, token.NUMBER, token.STRING,
		token.LPAREN, token.INCR, token.DECR:
		return true
	}
	return p.tok.Type.IsBuiltin()
}

func (p *Parser) parseAdditive() *node.Node {
	left := p.parseMultiplicative()
	for p.match(token.ADD, token.SUB) {
		op := node.Add
		if p.tok.Type == token.SUB {
			op = node.Sub
		}
		p.next()
		right := p.parseMultiplicative()
		left = p.at(node.Op2(op, left, right))
	}
	return left
}

func (p *Parser) parseMultiplicative() *node.Node {
	left := p.parseUnary()
	for p.match(token.MUL, token.DIV, token.MOD) {
		op := map[token.Token]node.Op{token.MUL: node.Mul, token.DIV: node.Div, token.MOD: node.Mod}[p.tok.Type]
		p.next()
		right := p.parseUnary()
		left = p.at(node.Op2(op, left, right))
	}
	return left
}

func (p *Parser) parseUnary() *node.Node {
	switch p.tok.Type {
	case token.NOT:
		p.next()
		return p.at(node.Op1(node.Not, p.notnull(p.parseUnary())))
	case token.SUB:
		p.next()
		return p.at(node.Op1(node.UMinus, p.parseUnary()))
	case token.ADD:
		p.next()
		return p.at(node.Op1(node.UPlus, p.parseUnary()))
	}
	return p.parsePow()
}

// parsePow parses right-associative exponentiation; the exponent may carry
// its own unary sign, as in 2^-1.
func (p *Parser) parsePow() *node.Node {
	left := p.parseIncDec()
	if p.tok.Type != token.POW {
		return left
	}
	p.next()
	right := p.parseUnaryPow()
	return p.at(node.Op2(node.Pow, left, right))
}

func (p *Parser) parseUnaryPow() *node.Node {
	switch p.tok.Type {
	case token.SUB:
		p.next()
		return p.at(node.Op1(node.UMinus, p.parseUnaryPow()))
	case token.ADD:
		p.next()
		return p.at(node.Op1(node.UPlus, p.parseUnaryPow()))
	}
	return p.parsePow()
}

func (p *Parser) parseIncDec() *node.Node {
	if p.match(token.INCR, token.DECR) {
		op := node.PreIncr
		if p.tok.Type == token.DECR {
			op = node.PreDecr
		}
		tok := p.tok.Type
		p.next()
		target := p.parseIncDec()
		if !isLValue(target) {
			p.errorf("%s applied to non-lvalue", tok)
		}
		return p.at(node.Op1(op, target))
	}
	n := p.parseField()
	if p.match(token.INCR, token.DECR) && isLValue(n) {
		op := node.PostIncr
		if p.tok.Type == token.DECR {
			op = node.PostDecr
		}
		p.next()
		return p.at(node.Op1(op, n))
	}
	return n
}

// parseField parses $expr, where expr is a primary possibly preceded by
// signs or increments: $NF, $(i+1), $-1, $++i.
func (p *Parser) parseField() *node.Node {
	if p.tok.Type != token.DOLLAR {
		return p.parsePrimary()
	}
	p.next()
	var index *node.Node
	switch p.tok.Type {
	case token.SUB:
		p.next()
		index = p.at(node.Op1(node.UMinus, p.parseField()))
	case token.ADD:
		p.next()
		index = p.at(node.Op1(node.UPlus, p.parseField()))
	case token.INCR, token.DECR:
		index = p.parseIncDec()
	default:
		index = p.parseField()
	}
	return p.at(node.Op1(node.Indirect, index))
}

func (p *Parser) parsePrimary() *node.Node {
	pos := p.tok.Pos
	switch p.tok.Type {
	case token.NUMBER:
		n := p.numberNode(p.tok.Value)
		p.next()
		return n

	case token.STRING:
		n := p.stringNode(p.tok.Value)
		p.next()
		return n

	case token.REGEX:
		re := p.tok.Value
		p.next()
		return p.regexNode(re)

	case token.LPAREN:
		p.next()
		return p.parseGrouping(pos)

	case token.NAME:
		name := p.tok.Value
		p.next()
		if p.tok.Type == token.LBRACKET {
			p.next()
			arr := p.arrayNode(name, pos)
			subs := p.parseSubscripts()
			return p.at(node.Op2(node.ArrayRef, arr, subs))
		}
		if p.tok.Type == token.LPAREN && !p.lexer.HadSpace() {
			return p.parseCall(name, pos)
		}
		return p.nameNode(name, pos)

	case token.GETLINE:
		p.errorf("getline is not supported")
		p.next()
		return node.CellNode(p.null)

	default:
		if p.tok.Type.IsBuiltin() {
			return p.parseBuiltin()
		}
		p.errorf("syntax error at %s", p.tokenDesc())
		if p.tok.Type != token.EOF {
			p.next()
		}
		return node.CellNode(p.null)
	}
}

// parseGrouping parses what follows "(": a parenthesized expression or an
// (a, b) list, which is only legal before "in" or as print arguments.
func (p *Parser) parseGrouping(pos token.Position) *node.Node {
	save := p.inPrint
	p.inPrint = false
	p.optionalNewlines()
	list := p.parseExpr()
	count := 1
	for p.tok.Type == token.COMMA {
		p.commaNewlines()
		list = node.Link(list, p.parseExpr())
		count++
	}
	p.optionalNewlines()
	p.expect(token.RPAREN)
	p.inPrint = save
	if count == 1 {
		return list
	}
	n := node.Op1(node.Grouping, list)
	n.Line = pos.Line
	return n
}

// parseSubscripts parses "expr, expr ]" after an opening bracket.
func (p *Parser) parseSubscripts() *node.Node {
	save := p.inPrint
	p.inPrint = false
	subs := p.parseExpr()
	for p.tok.Type == token.COMMA {
		p.commaNewlines()
		subs = node.Link(subs, p.parseExpr())
	}
	p.expect(token.RBRACKET)
	p.inPrint = save
	return subs
}

// parseArgs parses "(a, b, ...)" and returns the chain and its length.
func (p *Parser) parseArgs() (*node.Node, int) {
	save := p.inPrint
	p.inPrint = false
	defer func() { p.inPrint = save }()

	if !p.expect(token.LPAREN) {
		return nil, 0
	}
	p.optionalNewlines()
	var args *node.Node
	count := 0
	for p.tok.Type != token.RPAREN && p.tok.Type != token.EOF {
		if count > 0 {
			p.commaNewlines()
		}
		args = node.Link(args, p.parseExpr())
		count++
		p.optionalNewlines()
		if !p.match(token.COMMA, token.RPAREN) {
			break
		}
	}
	p.expect(token.RPAREN)
	return args, count
}

func (p *Parser) parseCall(name string, pos token.Position) *node.Node {
	if _, ok := p.params[name]; ok {
		p.error(errorf(pos, "can't call parameter %s", name))
	}
	c := p.tab.Insert(name, "", 0, types.FCN)
	if c.IsArray() {
		p.error(errorf(pos, "%s is an array, not a function", name))
	}
	c.Flags = types.FCN
	c.Kind = types.KindFunc

	args, count := p.parseArgs()
	p.calls = append(p.calls, call{name: name, nargs: count, pos: pos})
	n := node.Op2(node.Call, node.CellNode(c), args)
	n.Line = pos.Line
	return n
}

// checkCalls verifies every call site against the function definitions.
func (p *Parser) checkCalls() {
	for _, c := range p.calls {
		f, ok := p.funcs[c.name]
		switch {
		case !ok:
			p.error(errorf(c.pos, "calling undefined function %s", c.name))
		case c.nargs > len(f.Params):
			p.error(errorf(c.pos, "function %s called with %d args, accepts only %d", c.name, c.nargs, len(f.Params)))
		}
	}
}

// checkGroupings reports (a, b) lists left outside print and "in".
func (p *Parser) checkGroupings(tree *node.Tree) {
	check := func(n *node.Node) bool {
		if n.Op == node.Grouping && n.IsExpr() {
			p.error(errorf(token.Position{Line: n.Line}, "unexpected comma-separated expression list"))
		}
		return true
	}
	node.Walk(tree.Root, check)
	for _, f := range tree.Funcs {
		node.Walk(f.Body, check)
	}
}

// arity of each builtin: minimum and maximum argument counts.
var arity = map[token.Token][2]int{
	token.F_LENGTH:  {0, 1},
	token.F_SUBSTR:  {2, 3},
	token.F_INDEX:   {2, 2},
	token.F_SPLIT:   {2, 3},
	token.F_SPRINTF: {1, -1},
	token.F_SUB:     {2, 3},
	token.F_GSUB:    {2, 3},
	token.F_MATCH:   {2, 2},
	token.F_TOLOWER: {1, 1},
	token.F_TOUPPER: {1, 1},
	token.F_INT:     {1, 1},
	token.F_SQRT:    {1, 1},
	token.F_EXP:     {1, 1},
	token.F_LOG:     {1, 1},
	token.F_SIN:     {1, 1},
	token.F_COS:     {1, 1},
	token.F_ATAN2:   {2, 2},
	token.F_RAND:    {0, 0},
	token.F_SRAND:   {0, 1},
	token.F_SYSTEM:  {1, 1},
	token.F_CLOSE:   {1, 1},
	token.F_FFLUSH:  {0, 1},
}

func (p *Parser) parseBuiltin() *node.Node {
	pos := p.tok.Pos
	fn := p.tok.Type
	p.next()

	var args *node.Node
	count := 0
	// length without parentheses means length($0)
	if fn != token.F_LENGTH || p.tok.Type == token.LPAREN {
		args, count = p.parseArgs()
	}

	r := arity[fn]
	if count < r[0] || (r[1] >= 0 && count > r[1]) {
		p.error(errorf(pos, "%s: wrong number of arguments (%d)", fn, count))
	}

	switch fn {
	case token.F_SPLIT:
		if count >= 2 {
			a := args.Next
			if a.IsValue() && !a.Cell.IsArray() && a.Cell.Flags&types.CON == 0 && !a.Cell.IsFunc() {
				a.Cell.MakeArray(types.NSYMTAB)
				a.Cell.Kind = types.KindArray
			}
			if !(a.IsValue() && a.Cell.IsArray()) && a.Op != node.Arg {
				p.error(errorf(pos, "split: second argument must be an array name"))
			}
		}
	case token.F_SUB, token.F_GSUB:
		if count == 3 && !isLValue(args.Next.Next) {
			p.error(errorf(pos, "%s: third argument must be a variable, field or array element", fn))
		}
	}

	n := node.Op1(node.Builtin, args)
	n.Aux = int(fn)
	n.Line = pos.Line
	return n
}
