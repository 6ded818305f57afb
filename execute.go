package main

import (
	"io"
	"time"
)

//
// The execution engine.  A synchronous step loop: each iteration
// executes exactly one statement, so the host can interleave a
// cancellation check (or rendering, in a graphical host) between
// statements.  Control flow never uses host-level recursion or
// loops: goto, gosub, ret, for/next and while/loop all just set
// r.nextStmt
//

func initializeRun() {

	r = run{}

	initSymbolTable()

	r.gosubStack = make([]*stmtNode, 0, gosubStackMax)
	r.loopStack = make([]*loopFrameNode, 0, loopStackMax)
}

//
// Run the loaded program from its first statement.  The cancel
// callback is polled at every statement boundary: when it reports
// true, the run halts cleanly, exactly as if the program had ended.
// A nil callback means run to completion.  Errors come back as
// *interpError values
//

func executeRun(cancel func() bool) (err error) {

	defer recoverInterpError(&err)

	initializeRun()
	resetStatistics()

	g.running = true
	defer func() { g.running = false }()

	r.curStmt = stmtAvlTreeFirstInOrder()

	for r.curStmt != nil && !r.halted {

		if cancel != nil && cancel() {
			break
		}

		if g.interrupted {
			g.interrupted = false
			runtimeError(EvalError, EINTERRUPTED)
		}

		if g.traceExec {
			tracePrintf("%d: %s", r.curStmt.stmtNo, r.curStmt.line)
		}

		r.nextStmt = stmtAvlTreeNextStmt(r.curStmt)

		executeStmt(r.curStmt)

		s.numStatements++

		r.curStmt = r.nextStmt
	}

	return nil
}

//
// Execute one statement in the current run state
//

func executeStmt(stmt *stmtNode) {

	switch stmt.token {
	default:
		unexpectedTokenError(stmt.token)

	case ASSIGN:
		executeAssign(stmt)

	case PRINT:
		executePrint(stmt)

	case STR:
		formatValue(evaluateExpr(stmt.operands[0]), false)

	case INT:
		toInteger(evaluateExpr(stmt.operands[0]))

	case IF:
		executeIf(stmt)

	case FOR:
		executeFor(stmt)

	case NEXT:
		executeNext(stmt)

	case WHILE:
		executeWhile(stmt)

	case LOOP:
		executeLoop(stmt)

	case GOTO:
		r.nextStmt = lookupTargetStmt(stmt)

	case GOSUB:
		executeGosub(stmt)

	case RET:
		executeReturn(stmt)

	case END:
		r.halted = true

	case DOT:
		executeDot(stmt)

	case LINE:
		executeLine(stmt)

	case POLY:
		executePoly(stmt)

	case CLS:
		executeCls(stmt)
	}
}

func executeAssign(stmt *stmtNode) {

	if len(stmt.operands) == 1 {
		storeSymbolValue(stmt.varName, evaluateExpr(stmt.operands[0]))
		return
	}

	basicAssert(len(stmt.operands) == 2, "ASSIGN botch")

	val := lookupSymbolValue(stmt.varName)

	arr, ok := val.([]any)
	runtimeCheck(ok, IndexError,
		"Variable %q is not an array", stmt.varName)

	index := toInteger(evaluateExpr(stmt.operands[0]))
	runtimeCheck(index >= 0 && index < int64(len(arr)),
		IndexError, ESUBSCRIPT)

	arr[index] = evaluateExpr(stmt.operands[1])
}

func executePrint(stmt *stmtNode) {

	val := evaluateExpr(stmt.operands[0])

	io.WriteString(g.output, formatValue(val, true)+"\n")
}

func executeIf(stmt *stmtNode) {

	if isTruthy(evaluateExpr(stmt.operands[0])) {
		executeStmt(stmt.body)
	} else if stmt.alt != nil {
		executeStmt(stmt.alt)
	}
}

//
// FOR bounds are end-exclusive in both directions: the loop body
// runs while var < end (positive step) or var > end (negative step).
// A loop that is done before it starts pushes no frame at all and
// control drops past the matching next
//

func executeFor(stmt *stmtNode) {

	startVal := evaluateExpr(stmt.operands[0])
	endVal := evaluateExpr(stmt.operands[1])
	stepVal := evaluateExpr(stmt.operands[2])

	runtimeCheck(isNumeric(startVal) && isNumeric(endVal) &&
		isNumeric(stepVal), EvalError, "for bounds must be numeric")

	storeSymbolValue(stmt.varName, startVal)

	if !forLoopContinues(startVal, endVal, stepVal) {
		r.nextStmt = skipPastMatchingNext(stmt)
		return
	}

	checkLoopStack()

	r.loopStack = append(r.loopStack, &loopFrameNode{
		kind:     forFrame,
		varName:  stmt.varName,
		endVal:   endVal,
		stepVal:  stepVal,
		bodyStmt: r.nextStmt,
	})
}

func forLoopContinues(val, endVal, stepVal any) bool {

	if comparisonValue(stepVal) < 0 {
		return comparisonValue(val) > comparisonValue(endVal)
	}

	return comparisonValue(val) < comparisonValue(endVal)
}

//
// A zero-trip for has no frame to consume, so the matching next is
// found by a forward depth-counting scan.  FOR and NEXT are barred
// from if branches by the parser, which is what makes this scan
// sound
//

func skipPastMatchingNext(forStmt *stmtNode) *stmtNode {

	depth := 0

	for stmt := stmtAvlTreeNextStmt(forStmt); stmt != nil; stmt = stmtAvlTreeNextStmt(stmt) {

		switch stmt.token {
		case FOR:
			depth++

		case NEXT:
			if depth == 0 {
				return stmtAvlTreeNextStmt(stmt)
			}
			depth--
		}
	}

	runtimeError(UnmatchedNext,
		"for %q has no matching next", forStmt.varName)

	panic("not reached")
}

func executeNext(stmt *stmtNode) {

	frame := topLoopFrame()

	runtimeCheck(frame != nil && frame.kind == forFrame &&
		frame.varName == stmt.varName, UnmatchedNext,
		"next %q without matching for", stmt.varName)

	val := arith(PLUS, lookupSymbolValue(stmt.varName), frame.stepVal)

	storeSymbolValue(stmt.varName, val)

	if forLoopContinues(val, frame.endVal, frame.stepVal) {
		r.nextStmt = frame.bodyStmt
	} else {
		popLoopFrame()
	}
}

//
// A true while pushes a frame and falls through; a false one jumps
// past the matching loop, found in the pairing table the loader
// built.  The matching loop always jumps back here, so every
// iteration re-evaluates the condition at the while itself
//

func executeWhile(stmt *stmtNode) {

	if isTruthy(evaluateExpr(stmt.operands[0])) {
		checkLoopStack()

		r.loopStack = append(r.loopStack, &loopFrameNode{
			kind:      whileFrame,
			whileStmt: stmt,
		})
		return
	}

	loopNo, ok := g.whileMatch[stmt.stmtNo]
	runtimeCheck(ok, UnmatchedLoop, "while without matching loop")

	loopStmt := stmtAvlTreeLookup(loopNo)
	basicAssert(loopStmt != nil, "loop %d vanished", loopNo)

	r.nextStmt = stmtAvlTreeNextStmt(loopStmt)
}

func executeLoop(stmt *stmtNode) {

	frame := topLoopFrame()

	runtimeCheck(frame != nil && frame.kind == whileFrame,
		UnmatchedLoop, "loop without matching while")

	popLoopFrame()

	r.nextStmt = frame.whileStmt
}

func topLoopFrame() *loopFrameNode {

	if len(r.loopStack) == 0 {
		return nil
	}

	return r.loopStack[len(r.loopStack)-1]
}

func popLoopFrame() {

	basicAssert(len(r.loopStack) > 0, "loop stack underflow")

	r.loopStack = r.loopStack[:len(r.loopStack)-1]
}

func checkLoopStack() {

	runtimeCheck(len(r.loopStack) < loopStackMax, EvalError,
		ELOOPOVERFLOW)
}

func lookupTargetStmt(stmt *stmtNode) *stmtNode {

	target := int(stmt.operands[0].tokenData.(int64))

	tstmt := stmtAvlTreeLookup(target)
	runtimeCheck(tstmt != nil, UndefinedLine,
		"Line %d not found", target)

	return tstmt
}

//
// gosub saves the fall-through statement, which by the time we get
// here is already in r.nextStmt.  ret restores it
//

func executeGosub(stmt *stmtNode) {

	target := lookupTargetStmt(stmt)

	runtimeCheck(len(r.gosubStack) < gosubStackMax, EvalError,
		EGOSUBOVERFLOW)

	r.gosubStack = append(r.gosubStack, r.nextStmt)

	r.nextStmt = target
}

func executeReturn(stmt *stmtNode) {

	runtimeCheck(len(r.gosubStack) > 0, UnbalancedRet,
		"ret without gosub")

	r.nextStmt = r.gosubStack[len(r.gosubStack)-1]
	r.gosubStack = r.gosubStack[:len(r.gosubStack)-1]
}

//
// Drawing statements.  dot takes bare x y coordinates; line and
// poly take 2-element array points
//

func executeDot(stmt *stmtNode) {

	x := toCoord(evaluateExpr(stmt.operands[0]))
	y := toCoord(evaluateExpr(stmt.operands[1]))
	colorIdx := decodeColor(evaluateExpr(stmt.operands[2]))

	g.surface.pixel(x, y, colorIdx)
}

func executeLine(stmt *stmtNode) {

	p1 := pointFromValue(evaluateExpr(stmt.operands[0]))
	p2 := pointFromValue(evaluateExpr(stmt.operands[1]))
	colorIdx := decodeColor(evaluateExpr(stmt.operands[2]))

	g.surface.line(p1[0], p1[1], p2[0], p2[1], colorIdx)
}

//
// poly accepts either inline points followed by a color, or one
// array-of-points followed by a color
//

func executePoly(stmt *stmtNode) {

	n := len(stmt.operands)
	basicAssert(n >= 2, "POLY botch")

	colorIdx := decodeColor(evaluateExpr(stmt.operands[n-1]))

	vals := make([]any, 0, n-1)
	for _, op := range stmt.operands[:n-1] {
		vals = append(vals, evaluateExpr(op))
	}

	if len(vals) == 1 {
		if arr, ok := vals[0].([]any); ok && len(arr) > 0 {
			if _, nested := arr[0].([]any); nested {
				vals = arr
			}
		}
	}

	points := make([][2]int, 0, len(vals))
	for _, val := range vals {
		points = append(points, pointFromValue(val))
	}

	g.surface.poly(points, colorIdx)
}

func executeCls(stmt *stmtNode) {

	colorIdx := colorBlack
	if len(stmt.operands) == 1 {
		colorIdx = decodeColor(evaluateExpr(stmt.operands[0]))
	}

	g.surface.clear(colorIdx)
}

func pointFromValue(val any) [2]int {

	arr, ok := val.([]any)
	runtimeCheck(ok && len(arr) == 2, EvalError,
		"Expected a 2-element array point, got %s",
		formatValue(val, true))

	return [2]int{toCoord(arr[0]), toCoord(arr[1])}
}

//
// Run statistics, reported by the stats command
//

func resetStatistics() {

	s.elapsed = time.Now()
	s.numStatements = 0

	s.utime, s.stime = getCPUInfo(1)
}

func printStatistics() {

	elapsed := time.Since(s.elapsed)

	utime, stime := getCPUInfo(1)

	myPrintf("%d %s executed\n", s.numStatements,
		pluralize("statement", s.numStatements))
	myPrintf("Elapsed time %v\n", elapsed.Round(time.Millisecond))
	myPrintf("CPU time: user %s sys %s\n",
		formatCPUTime(utime-s.utime), formatCPUTime(stime-s.stime))
}
