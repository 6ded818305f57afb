package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"runtime/pprof"
	"strings"
	"syscall"
	"time"

	"golang.org/x/term"
)

const clearScreenSeq = "\033[H\033[2J"

//
// Tricky: init is called under the hood by the GO runtime when
// we fire up, so there are no visible calls to it!  Only state
// that library use (and the tests) need goes here - terminal and
// signal setup waits for main
//

func init() {

	initMaps()

	g.output = os.Stdout
	g.startTime = time.Now()

	initAvl()

	initializeRun()

	initDraw(surfaceWidth, surfaceHeight)
}

func main() {

	initEnv()

	//
	// Close the Liner instance on the way out, to make sure we end
	// up back in normal (cooked) terminal mode
	//

	defer func() {
		cleanupLiners()
	}()

	initClock()

	clearScreen()

	printVersionInfo()

	switch len(os.Args) {
	default:
		crash("Usage: drawbasic [program]")

	case 1:
		// nothing to do

	case 2:
		executeOld(os.Args[1])
	}

	//
	// Run the signal handling code in a goroutine
	//

	go sigHdlr()

	//
	// Loop forever, or until we quit
	//

	for !g.exiting {
		g.running = false

		call(commandLine)
	}
}

func initEnv() {

	checkTerminal()

	setupWindow()

	setupLiners()
}

//
// Read terminal geometry, rechecked on SIGWINCH
//

func setupWindow() {

	var err error

	g.window.cols, g.window.rows, err = term.GetSize(0)
	if err != nil {
		crash("Unable to read terminal parameters")
	}

	if g.window.cols < minWindowCols {
		crash(fmt.Sprintf("Terminal width must be >= %d characters",
			minWindowCols))
	}
}

//
// Map keyword spellings to their token codes.  The low-level lexer
// identifies keywords as plain identifiers; getLexeme corrects the
// mis-lexing through this map
//

func initMaps() {

	keywordMap = make(map[string]int)

	for tok := FOR; tok <= END; tok++ {
		keywordMap[tokenNames[tok]] = tok
	}
}

func writeGoroutineStacks() {

	name := "goroutines-stacks"
	mode := (os.O_CREATE | os.O_WRONLY)

	dumpFile, err := os.OpenFile(name, mode, 0644)
	if err != nil {
		iErr := err.(*os.PathError)
		fmt.Fprintf(os.Stderr, "Unable to open %s (%s)\n",
			name, iErr.Err.Error())
		return
	}

	_ = pprof.Lookup("goroutine").WriteTo(dumpFile, 2)

	m := fmt.Sprintf("Dumping goroutine stacks to %v and exiting", name)

	crash(m)
}

func sigHdlr() {

	ch := make(chan os.Signal, 1)

	signal.Ignore(syscall.SIGTSTP)

	signal.Notify(ch, syscall.SIGQUIT)
	signal.Notify(ch, syscall.SIGINT)
	signal.Notify(ch, syscall.SIGWINCH)

	for {
		sig := <-ch

		switch sig {

		default:
			crash(fmt.Sprintf("Unexpected signal %d", sig))

		case syscall.SIGWINCH:
			setupWindow()

		case syscall.SIGQUIT:
			writeGoroutineStacks() // does not return

		case syscall.SIGINT:
			g.interrupted = true
		}
	}
}

//
// Called by the deferred recovery function in call().  User program
// errors come through as *interpError and just get printed; a
// basicErrorInfo is an interpreter bug and earns a stack trace
//

func decodePanic(e any) {

	switch e := e.(type) {
	default:
		fmt.Printf("%v\n", e)

		debug.PrintStack()

	case *interpError:
		myPrintln(e.Error())

		if g.running {
			r.curStmt = nil
		}

	case *basicErrorInfo:
		fmt.Printf("%q at %s line %d\n", e.msg,
			filepath.Base(e.file), e.line)

		debug.PrintStack()
	}
}

//
// Wrapper routine for a function.  We need this so that panic calls
// can be caught and decoded before returning to our caller
//

func call(f func()) {

	defer func() {
		err := recover()
		if err != nil {
			decodePanic(err)
		}
	}()

	f()
}

//
// Read and process one command line.  A leading statement number
// means program entry; a known command word runs that command; and
// anything else is tried as an immediate statement
//

func commandLine() {

	line, eof := readLine(g.parserLiner, myPrompt, true)
	if eof {
		executeBye()
		return
	}

	line = trimWhitespace(line)
	if line == "" {
		return
	}

	if leadingStmtNo(line) > 0 {
		stmt, stmtNo := parseLine(line)

		if stmt == nil {
			removeStmtNo(stmtNo)
		} else {
			insertStmtNode(stmt, stmtNo)
		}

		return
	}

	fields := strings.Fields(line)

	switch fields[0] {
	default:
		executeImmediate(line)

	case "run":
		executeRunCommand()

	case "list":
		executeList()

	case "new":
		executeNew()

	case "old":
		executeOldCommand(fields[1:])

	case "save":
		executeSave(fields[1:])

	case "shot":
		executeShot(fields[1:])

	case "stats":
		printStatistics()

	case "trace":
		executeTrace(fields[1:])

	case "help":
		executeHelp(fields[1:])

	case "bye":
		executeBye()
	}
}

//
// Immediate statements execute against the current variables and
// surface, with no current statement.  Control flow makes no sense
// without a program counter, so it is refused here
//

func executeImmediate(line string) {

	stmt, _ := parseLine(line)

	switch stmt.token {
	case FOR, NEXT, WHILE, LOOP, GOTO, GOSUB, RET:
		parseErrorStmt(0, "%s is only legal inside a program",
			tokenNames[stmt.token])
	}

	r.curStmt = nil
	r.nextStmt = nil

	executeStmt(stmt)
}

func executeRunCommand() {

	if stmtAvlTreeFirstInOrder() == nil {
		myPrintln("No program to run")
		return
	}

	scanLoopPairs()

	if err := executeRun(nil); err != nil {
		myPrintln(err.Error())
		printStatistics()
	}
}

func executeList() {

	for stmt := stmtAvlTreeFirstInOrder(); stmt != nil; stmt = stmtAvlTreeNextInOrder(stmt) {
		myPrintln(stmt.line)
	}
}

func executeNew() {

	if !checkModified() {
		return
	}

	initAvl()

	initializeRun()

	setProgramFilename("")

	clearModified()
}

func executeOldCommand(args []string) {

	if len(args) != 1 {
		myPrintln("Usage: old <filename>")
		return
	}

	if !checkModified() {
		return
	}

	executeOld(args[0])
}

func executeOld(filename string) {

	filename = programFilePath(filename)

	text, err := os.ReadFile(filename)
	if err != nil {
		myPrintf("Unable to read %q (%v)\n", filename, err)
		return
	}

	if err := loadProgram(string(text)); err != nil {
		myPrintln(err.Error())
		return
	}

	setProgramFilename(filename)
}

func executeSave(args []string) {

	name := g.programFilename

	if len(args) > 1 {
		myPrintln("Usage: save [filename]")
		return
	}

	if len(args) == 1 {
		name = programFilePath(args[0])
	}

	if name == "" {
		myPrintln("Filename required")
		return
	}

	if name != g.programFilename && !checkOverwrite(name) {
		return
	}

	if err := saveProgram(name); err != nil {
		myPrintf("Unable to save %q (%v)\n", name, err)
		return
	}

	setProgramFilename(name)

	clearModified()
}

func saveProgram(name string) error {

	var sb strings.Builder

	for stmt := stmtAvlTreeFirstInOrder(); stmt != nil; stmt = stmtAvlTreeNextInOrder(stmt) {
		sb.WriteString(stmt.line)
		sb.WriteByte('\n')
	}

	return os.WriteFile(name, []byte(sb.String()), 0644)
}

//
// Write the current surface out as a PNG
//

func executeShot(args []string) {

	name := "screenshot.png"

	if len(args) > 1 {
		myPrintln("Usage: shot [filename]")
		return
	}

	if len(args) == 1 {
		name = args[0]
	}

	if err := writeSurfacePNG(name); err != nil {
		myPrintf("Unable to write %q (%v)\n", name, err)
		return
	}

	myPrintf("Wrote %s\n", name)
}

func executeTrace(args []string) {

	if len(args) != 1 {
		myPrintf("Statement trace %s, parse trace %s\n",
			switchSetting(g.traceExec), switchSetting(g.traceDump))
		return
	}

	switch args[0] {
	default:
		myPrintln("Usage: trace [exec|dump]")

	case "exec":
		g.traceExec = !g.traceExec
		myPrintf("Statement trace %s\n", switchSetting(g.traceExec))

	case "dump":
		g.traceDump = !g.traceDump
		myPrintf("Parse trace %s\n", switchSetting(g.traceDump))
	}
}

func executeBye() {

	if !checkModified() {
		return
	}

	printCpuUsage()

	g.exiting = true
}

//
// Program files carry a .bas suffix, added when not given
//

func programFilePath(name string) string {

	if filepath.Ext(name) == "" {
		name += basFileSuffix
	}

	return name
}

func printVersionInfo() {

	myPrintf("drawbasic version %s\n", VERSION)
}

//
// Clear the screen and position the cursor at column 0 of the
// last line
//

func clearScreen() {

	fmt.Print(clearScreenSeq)
	for i := 0; i < g.window.rows; i++ {
		fmt.Println()
	}
}
