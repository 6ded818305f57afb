package main

import (
	"strings"

	"github.com/goforj/godump"
)

//
// The teacher grammar is small enough that a hand recursive-descent
// parser beats a generated one.  Each source line parses to exactly
// one statement node.  Precedence, loosest first:
//
//	|  &  (comparisons)  + -  * / %  (unary - + !)  atom
//
// Indexing and calls bind tighter than any binary operator
//

type parser struct {
	tokens []Lval
	idx    int
	stmtNo int
	line   string
}

func (p *parser) cur() *Lval {

	return &p.tokens[p.idx]
}

func (p *parser) advance() *Lval {

	t := &p.tokens[p.idx]
	if t.token != EOL {
		p.idx++
	}

	return t
}

func (p *parser) accept(token int) bool {

	if p.cur().token == token {
		p.idx++
		return true
	}

	return false
}

func (p *parser) expect(token int) *Lval {

	t := p.cur()
	if t.token != token {
		parseErrorStmt(p.stmtNo, "Expected %s, got %s",
			tokenNames[token], tokenNames[t.token])
	}

	return p.advance()
}

func (p *parser) expectIdent() string {

	return p.expect(IDENT).stringVal
}

//
// Node constructors, with the trace-dump hook
//

func makeStmtNode(token int, operands ...*exprNode) *stmtNode {

	node := &stmtNode{token: token, operands: operands}

	if g.traceDump {
		godump.Dump(node)
	}

	return node
}

func makeExprNode(token int, tokenData any, operands ...*exprNode) *exprNode {

	return &exprNode{token: token, tokenData: tokenData, operands: operands}
}

//
// Parse one source line.  Returns the statement (nil for a blank
// line or a bare statement number, which is a deletion directive)
// and the leading statement number (0 if there was none, which makes
// the statement immediate-mode only)
//

func parseLine(line string) (*stmtNode, int) {

	yylex := NewLexer(line)

	p := &parser{tokens: yylex.tokens, line: yylex.line}

	if p.cur().token == EOL {
		return nil, 0
	}

	if p.cur().token == INTEGER {
		no := p.cur().int64Val

		if no <= 0 || no > 1<<30 {
			parseErrorStmt(0, "Illegal line number %d", no)
		}

		p.stmtNo = int(no)
		p.idx++

		if p.cur().token == EOL {
			return nil, p.stmtNo
		}
	}

	stmt := p.parseStmt(false)
	p.expect(EOL)

	stmt.line = yylex.line
	stmt.stmtNo = p.stmtNo

	return stmt, p.stmtNo
}

//
// Parse one statement.  The embedded flag is set for the branches of
// an IF, where the block-structured loop statements make no sense
// (they pair up across whole lines, not inside one)
//

func (p *parser) parseStmt(embedded bool) *stmtNode {

	t := p.cur()

	if embedded {
		switch t.token {
		case FOR, NEXT, WHILE, LOOP:
			parseErrorStmt(p.stmtNo,
				"%s is not allowed inside if", tokenNames[t.token])
		}
	}

	switch t.token {
	default:
		parseErrorStmt(p.stmtNo, "Expected statement, got %s",
			tokenNames[t.token])
		panic("not reached")

	case FOR:
		p.idx++
		stmt := makeStmtNode(FOR)
		stmt.varName = p.expectIdent()
		p.expect(EQ)
		start := p.parseExpr()
		p.expect(TO)
		end := p.parseExpr()

		step := makeExprNode(INTEGER, int64(1))
		if p.accept(STEP) {
			step = p.parseExpr()
		}

		stmt.operands = []*exprNode{start, end, step}
		return stmt

	case NEXT:
		p.idx++
		stmt := makeStmtNode(NEXT)
		stmt.varName = p.expectIdent()
		return stmt

	case IF:
		p.idx++
		cond := p.parseExpr()
		p.expect(THEN)
		stmt := makeStmtNode(IF, cond)
		stmt.body = p.parseStmt(true)
		if p.accept(ELSE) {
			stmt.alt = p.parseStmt(true)
		}
		return stmt

	case WHILE:
		p.idx++
		return makeStmtNode(WHILE, p.parseExpr())

	case LOOP, RET, END:
		p.idx++
		return makeStmtNode(t.token)

	case GOTO, GOSUB:
		p.idx++
		target := p.expect(INTEGER)
		return makeStmtNode(t.token,
			makeExprNode(INTEGER, target.int64Val))

	case PRINT, STR, INT:
		p.idx++
		return makeStmtNode(t.token, p.parseExpr())

	case DOT, LINE:
		p.idx++
		return makeStmtNode(t.token,
			p.parseExpr(), p.parseExpr(), p.parseExpr())

	case CLS:
		p.idx++
		args := p.parseExprList()
		if len(args) > 1 {
			parseErrorStmt(p.stmtNo,
				"cls expects at most one argument")
		}
		return makeStmtNode(CLS, args...)

	case POLY:
		p.idx++
		args := p.parseExprList()
		if len(args) < 2 {
			parseErrorStmt(p.stmtNo,
				"poly expects at least two arguments")
		}
		return makeStmtNode(POLY, args...)

	case IDENT:
		p.idx++
		stmt := makeStmtNode(ASSIGN)
		stmt.varName = t.stringVal

		if p.accept(LBRACK) {
			index := p.parseExpr()
			p.expect(RBRACK)
			p.expect(EQ)
			stmt.operands = []*exprNode{index, p.parseExpr()}
		} else {
			p.expect(EQ)
			stmt.operands = []*exprNode{p.parseExpr()}
		}

		return stmt
	}
}

//
// Whitespace-separated expression list, as used by the variadic
// drawing statements.  Expressions are self-delimiting, so we just
// keep parsing until end of line (or the else of an embedding if)
//

func (p *parser) parseExprList() []*exprNode {

	var args []*exprNode

	for p.cur().token != EOL && p.cur().token != ELSE {
		args = append(args, p.parseExpr())
	}

	return args
}

func (p *parser) parseExpr() *exprNode {

	return p.parseOr()
}

func (p *parser) parseOr() *exprNode {

	return p.parseBinary((*parser).parseAnd, PIPE)
}

func (p *parser) parseAnd() *exprNode {

	return p.parseBinary((*parser).parseCmp, AMP)
}

func (p *parser) parseCmp() *exprNode {

	if p.accept(BANG) {
		return makeExprNode(BANG, nil, p.parseCmp())
	}

	return p.parseBinary((*parser).parseAdd,
		LT, GT, LE, GE, EQEQ, NE)
}

func (p *parser) parseAdd() *exprNode {

	return p.parseBinary((*parser).parseMul, PLUS, MINUS)
}

func (p *parser) parseMul() *exprNode {

	switch p.cur().token {
	case PLUS, MINUS:
		op := p.advance().token
		return makeExprNode(op, nil, p.parseMul())
	}

	return p.parseBinary((*parser).parseAtom, STAR, SLASH, PERCENT)
}

func (p *parser) parseBinary(sub func(*parser) *exprNode,
	ops ...int) *exprNode {

	left := sub(p)

	for {
		matched := false
		for _, op := range ops {
			if p.cur().token == op {
				p.idx++
				left = makeExprNode(op, nil, left, sub(p))
				matched = true
				break
			}
		}

		if !matched {
			return left
		}
	}
}

func (p *parser) parseAtom() *exprNode {

	t := p.cur()

	var node *exprNode

	switch t.token {
	default:
		parseErrorStmt(p.stmtNo, "Expected expression, got %s",
			tokenNames[t.token])

	case INTEGER:
		p.idx++
		node = makeExprNode(INTEGER, t.int64Val)

	case FLOAT:
		p.idx++
		node = makeExprNode(FLOAT, t.float64Val)

	case STRING:
		p.idx++
		node = makeExprNode(STRING, t.stringVal)

	case IDENT:
		p.idx++

		if p.accept(LPAR) {
			node = makeExprNode(CALL, t.stringVal, p.parseArgs()...)
		} else {
			node = makeExprNode(IDENT, t.stringVal)
		}

	case STR, INT:

		// the coercion keywords double as expression functions

		p.idx++
		p.expect(LPAR)
		node = makeExprNode(CALL, tokenNames[t.token], p.parseArgs()...)

	case LBRACK:

		// null-initialized array constructor [n]

		p.idx++
		size := p.parseExpr()
		p.expect(RBRACK)
		node = makeExprNode(NULLARRAY, nil, size)

	case LBRACE:

		// array literal {e1, e2, ...}

		p.idx++
		var elems []*exprNode
		for p.cur().token != RBRACE {
			elems = append(elems, p.parseExpr())
			if !p.accept(COMMA) {
				break
			}
		}
		p.expect(RBRACE)
		node = makeExprNode(ARRAY, nil, elems...)

	case LPAR:
		p.idx++
		node = p.parseExpr()
		p.expect(RPAR)
	}

	//
	// Postfix indexing binds tighter than any binary operator
	//

	for p.accept(LBRACK) {
		index := p.parseExpr()
		p.expect(RBRACK)
		node = makeExprNode(INDEX, nil, node, index)
	}

	return node
}

func (p *parser) parseArgs() []*exprNode {

	var args []*exprNode

	for p.cur().token != RPAR && p.cur().token != EOL {
		args = append(args, p.parseExpr())
		if !p.accept(COMMA) {
			break
		}
	}

	p.expect(RPAR)

	return args
}

//
// Load a whole program from source text.  Parse errors abort the
// load entirely: no partial program runs.  After all lines are in,
// pre-scan the store to pair each while with its loop, so mismatches
// surface now rather than mid-run
//

func loadProgram(text string) (err error) {

	defer recoverInterpError(&err)

	initAvl()
	initializeRun()

	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}

		stmt, stmtNo := parseLine(line)

		if stmtNo == 0 {
			parseErrorStmt(0, "Missing line number: %q", line)
		}

		if stmt == nil {
			removeStmtNo(stmtNo)
			continue
		}

		insertStmtNode(stmt, stmtNo)
	}

	scanLoopPairs()

	clearModified()

	return nil
}

//
// Walk the program in line order pairing while/loop statements.
// The match table is what lets a false while condition jump past
// its loop without a runtime scan
//

func scanLoopPairs() {

	g.whileMatch = make(map[int]int)

	var whileStack []int

	for stmt := stmtAvlTreeFirstInOrder(); stmt != nil; stmt = stmtAvlTreeNextInOrder(stmt) {

		switch stmt.token {
		case WHILE:
			whileStack = append(whileStack, stmt.stmtNo)

		case LOOP:
			if len(whileStack) == 0 {
				parseErrorStmt(stmt.stmtNo,
					"loop without matching while")
			}

			whileNo := whileStack[len(whileStack)-1]
			whileStack = whileStack[:len(whileStack)-1]

			g.whileMatch[whileNo] = stmt.stmtNo
		}
	}

	if len(whileStack) > 0 {
		parseErrorStmt(whileStack[len(whileStack)-1],
			"while without matching loop")
	}
}
