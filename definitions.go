package main

import (
	"io"
	"time"

	"github.com/danswartzendruber/avl"
	"github.com/danswartzendruber/liner"
)

//
// Constants
//

const VERSION = "1.0.0"

const basFileSuffix = ".bas"

const gosubStackMax = 64
const loopStackMax = 64

const maxLineLen = 255

// Default surface geometry, matching the classic 480x300 console

const surfaceWidth = 480
const surfaceHeight = 300

const minWindowCols = 40

const myPrompt = "% "

//
// Token codes.  The lexer produces the literal, identifier, keyword
// and operator codes.  The parser additionally produces the node-only
// codes (ASSIGN and beyond), which never appear in a token stream
//

const (
	EOL = iota
	INTEGER
	FLOAT
	STRING
	IDENT

	// Keywords

	FOR
	TO
	STEP
	NEXT
	IF
	THEN
	ELSE
	WHILE
	LOOP
	GOSUB
	RET
	GOTO
	PRINT
	STR
	INT
	DOT
	LINE
	POLY
	CLS
	END

	// Operators and brackets

	PLUS
	MINUS
	STAR
	SLASH
	PERCENT
	LT
	GT
	LE
	GE
	EQEQ
	NE
	EQ
	AMP
	PIPE
	BANG
	LPAR
	RPAR
	LBRACK
	RBRACK
	LBRACE
	RBRACE
	COMMA

	// Node-only codes

	ASSIGN
	CALL
	INDEX
	ARRAY
	NULLARRAY
)

//
// Loop frame kinds
//

const (
	forFrame = iota
	whileFrame
)

//
// Type definitions
//

type Lval struct {
	token      int
	int64Val   int64
	float64Val float64
	stringVal  string
	column     int
}

type Lexer struct {
	tokens []Lval
	line   string
}

//
// An expression node.  tokenData holds the literal value for
// INTEGER/FLOAT/STRING nodes, and the identifier name for IDENT
// and CALL nodes.  Everything else lives in operands
//

type exprNode struct {
	token     int
	tokenData any
	operands  []*exprNode
	column    int
}

//
// A statement node.  Owned by the program store once inserted, and
// immutable from then on.  varName is the target for ASSIGN, FOR
// and NEXT statements.  body/alt are the embedded statements of an
// IF, and are never in the program store themselves
//

type stmtNode struct {
	avl      avl.AvlNode
	token    int
	stmtNo   int
	line     string
	varName  string
	operands []*exprNode
	body     *stmtNode
	alt      *stmtNode
}

//
// A gosub call frame is just the statement to resume at.  Loop
// frames cover both FOR and WHILE
//

type loopFrameNode struct {
	kind      int
	varName   string
	endVal    any
	stepVal   any
	bodyStmt  *stmtNode
	whileStmt *stmtNode
}

type window struct {
	rows int
	cols int
}

//
// This structure contains the non-persistent state of a running
// program.  Reset by initializeRun
//

type run struct {
	curStmt    *stmtNode
	nextStmt   *stmtNode
	vars       map[string]any
	gosubStack []*stmtNode
	loopStack  []*loopFrameNode
	halted     bool
}

var r run

//
// This structure contains persistent interpreter state
//

var g struct {
	program         *avl.AvlNode
	whileMatch      map[int]int
	surface         *surface
	output          io.Writer
	parserLiner     *liner.State
	programFilename string
	window          window
	startTime       time.Time
	modified        bool
	exiting         bool
	running         bool
	interrupted     bool
	traceExec       bool
	traceDump       bool
}

//
// Runtime statistics for the executing program
//

var s struct {
	elapsed       time.Time
	utime         int64
	stime         int64
	numStatements int64
}

//
// The null sentinel occupying unset elements of a null-initialized
// array.  Distinct from integer 0: reading one is a runtime error
//

type nullValue struct{}

var keywordMap map[string]int

var tokenNames = map[int]string{
	EOL: "end of line", INTEGER: "integer", FLOAT: "float",
	STRING: "string", IDENT: "identifier", FOR: "for", TO: "to",
	STEP: "step", NEXT: "next", IF: "if", THEN: "then", ELSE: "else",
	WHILE: "while", LOOP: "loop", GOSUB: "gosub", RET: "ret",
	GOTO: "goto", PRINT: "print", STR: "str", INT: "int", DOT: "dot",
	LINE: "line", POLY: "poly", CLS: "cls", END: "end", PLUS: "'+'",
	MINUS: "'-'", STAR: "'*'", SLASH: "'/'", PERCENT: "'%'",
	LT: "'<'", GT: "'>'", LE: "'<='", GE: "'>='", EQEQ: "'=='",
	NE: "'<>'", EQ: "'='", AMP: "'&'", PIPE: "'|'", BANG: "'!'",
	LPAR: "'('", RPAR: "')'", LBRACK: "'['", RBRACK: "']'",
	LBRACE: "'{'", RBRACE: "'}'", COMMA: "','",
}
