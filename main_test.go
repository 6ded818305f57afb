package main

import (
	"bytes"
	"testing"
)

//
// Test scaffolding.  Interpreter state is global, so every test
// starts from a fresh store, run state and surface, with output
// captured in a buffer
//

func resetInterp(tb testing.TB) *bytes.Buffer {

	tb.Helper()

	initAvl()
	initializeRun()
	initDraw(surfaceWidth, surfaceHeight)

	buf := &bytes.Buffer{}
	g.output = buf

	g.traceExec = false
	g.traceDump = false
	g.interrupted = false
	g.running = false

	return buf
}

func loadSource(tb testing.TB, text string) *bytes.Buffer {

	tb.Helper()

	buf := resetInterp(tb)

	if err := loadProgram(text); err != nil {
		tb.Fatalf("load failed: %v", err)
	}

	return buf
}

func runSource(tb testing.TB, text string) *bytes.Buffer {

	tb.Helper()

	buf := loadSource(tb, text)

	if err := executeRun(nil); err != nil {
		tb.Fatalf("run failed: %v", err)
	}

	return buf
}

//
// Load must succeed, run must fail
//

func runSourceErr(tb testing.TB, text string) error {

	tb.Helper()

	loadSource(tb, text)

	err := executeRun(nil)
	if err == nil {
		tb.Fatalf("run succeeded, expected error")
	}

	return err
}

//
// Load must fail
//

func loadSourceErr(tb testing.TB, text string) error {

	tb.Helper()

	resetInterp(tb)

	err := loadProgram(text)
	if err == nil {
		tb.Fatalf("load succeeded, expected error")
	}

	return err
}

func errKind(tb testing.TB, err error) int {

	tb.Helper()

	ie, ok := err.(*interpError)
	if !ok {
		tb.Fatalf("expected *interpError, got %T (%v)", err, err)
	}

	return ie.kind
}

//
// Evaluate a standalone expression against the current run state
//

func evalExprValue(expr string) (val any, err error) {

	defer recoverInterpError(&err)

	p := &parser{tokens: NewLexer(expr).tokens}

	node := p.parseExpr()

	val = evaluateExpr(node)

	return val, nil
}

func evalExpr(tb testing.TB, expr string) any {

	tb.Helper()

	val, err := evalExprValue(expr)
	if err != nil {
		tb.Fatalf("eval %q failed: %v", expr, err)
	}

	return val
}
