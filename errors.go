package main

import (
	"fmt"
	"runtime"
	"strings"
)

//
// Error kinds.  LexError and ParseError are load-time: a program
// with either never starts executing.  The rest transition a running
// program to the faulted state at the offending statement
//

const (
	LexError = iota + 1
	ParseError
	EvalError
	UndefinedLine
	UnbalancedRet
	UnmatchedNext
	UnmatchedLoop
	IndexError
	ColorError
)

var errorKindNames = map[int]string{
	LexError:      "LexError",
	ParseError:    "ParseError",
	EvalError:     "EvalError",
	UndefinedLine: "UndefinedLine",
	UnbalancedRet: "UnbalancedRet",
	UnmatchedNext: "UnmatchedNext",
	UnmatchedLoop: "UnmatchedLoop",
	IndexError:    "IndexError",
	ColorError:    "ColorError",
}

//
// Manifest constants for the recurring error messages
//

const (
	EDIVISIONBYZERO  = "Division by zero"
	ESUBSCRIPT       = "Subscript out of range"
	EUNSETELEMENT    = "Unset array element"
	EUNDEFINEDVAR    = "Variable %q not defined"
	EGOSUBOVERFLOW   = "GOSUB stack overflow"
	ELOOPOVERFLOW    = "Loop stack overflow"
	EINTERRUPTED     = "Interrupted"
	EUNTERMINATED    = "Unterminated string literal"
	EUNKNOWNCHAR     = "Unrecognized character %q"
	EUNKNOWNCOLOR    = "Unknown color %q"
	EBADCOLORINDEX   = "Color index %d out of range"
	EWANTARGS        = "%s expects %d argument(s), got %d"
	EUNKNOWNFUNCTION = "Unknown function %q"
)

//
// interpError is what the runtime and load-time panics carry.  It
// records the error kind and the offending statement number (0 when
// there is no meaningful one, e.g. an immediate-mode statement)
//

type interpError struct {
	kind   int
	stmtNo int
	msg    string
}

func (e *interpError) Error() string {

	if e.stmtNo != 0 {
		return fmt.Sprintf("%s at line %d: %s",
			errorKindNames[e.kind], e.stmtNo, e.msg)
	}

	return fmt.Sprintf("%s: %s", errorKindNames[e.kind], e.msg)
}

//
// Internal error info - an interpreter bug, not a user program error
//

type basicErrorInfo struct {
	msg  string
	file string
	line int
}

//
// A couple of handy 'assert' functions
//

func basicAssert(chk bool, f string, args ...any) {

	if !chk {
		fatalError(f, args...)
	}
}

func runtimeCheck(chk bool, kind int, f string, args ...any) {

	if !chk {
		runtimeError(kind, f, args...)
	}
}

//
// Throw a runtime error for the statement currently executing.
// The panic is recovered by the run/load entry points, which hand
// the interpError back to the host as an ordinary error
//

func runtimeError(kind int, f string, args ...any) {

	stmtNo := 0
	if r.curStmt != nil {
		stmtNo = r.curStmt.stmtNo
	}

	panic(&interpError{kind: kind, stmtNo: stmtNo,
		msg: fmt.Sprintf(f, args...)})
}

//
// Load-time errors.  These abort loading entirely - no partial
// program ever runs
//

func parseErrorStmt(stmtNo int, f string, args ...any) {

	panic(&interpError{kind: ParseError, stmtNo: stmtNo,
		msg: fmt.Sprintf(f, args...)})
}

func lexErrorStmt(stmtNo int, f string, args ...any) {

	panic(&interpError{kind: LexError, stmtNo: stmtNo,
		msg: fmt.Sprintf(f, args...)})
}

//
// Recover an interpError panic into *errp.  Anything else keeps
// propagating: those are interpreter bugs
//

func recoverInterpError(errp *error) {

	if p := recover(); p != nil {
		if ie, ok := p.(*interpError); ok {
			*errp = ie
		} else {
			panic(p)
		}
	}
}

//
// Runtime errors raised by the interpreter itself.  Almost always
// due to a basicAssert failure.  We find the filename and line number
// of our caller, and stuff those into the basicErrorInfo structure
// before calling panic
//

func fatalError(f string, args ...any) {

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		crash("Unable to find caller frame!\n")
	}

	msg := strings.TrimRight(fmt.Sprintf(f, args...), "\n")

	panic(&basicErrorInfo{msg, file, line})
}

func unexpectedTokenError(token int) {

	fatalError("Unexpected token %s", tokenNames[token])
}

func unexpectedTypeError(item any) {

	fatalError("Unexpected type %T", item)
}
