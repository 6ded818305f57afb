package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
	"unicode"

	"github.com/danswartzendruber/liner"
	"github.com/tklauser/go-sysconf"
	"golang.org/x/term"
)

//
// Ensure we are connected to a tty!
//

func checkTerminal() {

	if !term.IsTerminal(2) {
		crash("")
	}

	if !term.IsTerminal(0) {
		crash("Standard input must be a terminal")
	}

	if !term.IsTerminal(1) {
		crash("Standard output must be a terminal")
	}
}

//
// One Liner instance, for the command prompt.  The Close method is
// documented as 'restoring the terminal to its previous state', so
// it must be run before any exit path, including crash()
//

func setupLiners() {
	g.parserLiner = setupLiner(false)
}

func setupLiner(allowCtrlC bool) *liner.State {

	l := liner.NewLiner()

	l.SetMultiLineMode(allowCtrlC)

	return l
}

func cleanupLiners() {
	cleanupLiner(&g.parserLiner)
}

func cleanupLiner(linerState **liner.State) {

	if *linerState != nil {
		(*linerState).Close()
		*linerState = nil
	}
}

//
// Read a line from the terminal, with editing and history.  The
// second return value is true on EOF (^D at the start of a line)
//

func readLine(l *liner.State, prompt string, history bool) (string, bool) {

	s, err := l.Prompt(prompt)

	if err != nil {
		switch err {
		default:
			crash(fmt.Sprintf("readLine error: %q\n", err))

		case io.EOF:
			return "", true

		case liner.ErrPromptAborted:

			// ^C at the prompt just discards the line

			return "", false
		}
	}

	if len(s) > maxLineLen {
		myPrintf("Line too long (max %d characters)\n", maxLineLen)
		return "", false
	}

	if history && s != "" {
		l.AppendHistory(s)
	}

	return s, false
}

//
// Prettify the input string.  Eliminate leading and trailing
// whitespace, and replace multiple whitespace characters elsewhere
// with a single space character if not inside a quoted string
//

func trimWhitespace(s string) string {

	src := []byte(s)
	var dst []byte
	var lastWasBlank bool
	var quoting bool

	for _, ch := range src {
		if ch == '"' {
			quoting = !quoting
			dst = append(dst, ch)
			lastWasBlank = false
			continue
		}

		if quoting {
			dst = append(dst, ch)
			continue
		}

		if unicode.IsSpace(rune(ch)) {
			if !lastWasBlank {
				lastWasBlank = true
				dst = append(dst, byte(' '))
			} else {
				// extra whitespace character - discard
			}
		} else {
			lastWasBlank = false
			dst = append(dst, ch)
		}
	}

	dst = bytes.TrimLeft(dst, " \t")
	dst = bytes.TrimRight(dst, " \t")

	return string(dst)
}

//
// Interpreter messages go to the same stream as program output, so
// a test host capturing g.output sees both
//

func myPrintln(l ...any) {

	fmt.Fprintln(g.output, l...)
}

func myPrintf(f string, args ...any) {

	fmt.Fprintf(g.output, f, args...)
}

func mySprintf(f string, args ...any) string {

	return fmt.Sprintf(f, args...)
}

func tracePrintf(f string, args ...any) {

	fmt.Fprintf(g.output, "==> "+f+"\n", args...)
}

func fileExists(filename string) bool {

	if _, err := os.Stat(filename); err == nil {
		return true
	} else {
		return false
	}
}

func setProgramFilename(name string) {

	g.programFilename = name
}

//
// Prompt user for an action requiring a yes/no
//

func promptYesNo(msg string) bool {

	for {
		prompt := fmt.Sprintf("%s (yes/no)? ", msg)
		line, _ := readLine(g.parserLiner, prompt, false)

		switch line {
		default:
			myPrintln("Answer yes or no!")
			continue

		case "yes":
			return true

		case "no":
			return false
		}
	}
}

//
// If the file already exists, prompt for confirmation
//

func checkOverwrite(filename string) bool {

	if !fileExists(filename) {
		return true
	}

	return promptYesNo(fmt.Sprintf("Overwrite %s", filename))
}

func pluralize(str string, anum any) string {

	var num int
	retString := str

	switch anum.(type) {
	default:
		unexpectedTypeError(anum)

	case int:
		num = anum.(int)

	case int64:
		num = int(anum.(int64))
	}

	//
	// Oddity: 0 is considered plural
	//

	if num != 1 {
		retString += "s"
	}

	return retString
}

func switchSetting(b bool) string {

	if b {
		return "on"
	}

	return "off"
}

func checkModified() bool {

	if g.modified {
		if !promptYesNo("Discard modified program") {
			myPrintln("Please save the current program first")
			return false
		}
	}

	return true
}

//
// Initialize the clock
//

func initClock() {

	s.elapsed = time.Now()
	s.utime, s.stime = getCPUInfo(1)
}

func printCpuUsage() {

	elapsed := time.Since(s.elapsed)
	utime, stime := getCPUInfo(1)

	myPrintf("CPU Usage: elapsed = %s / user = %s / system = %s\n",
		formatCPUTime(int64(elapsed.Seconds())),
		formatCPUTime(utime-s.utime), formatCPUTime(stime-s.stime))
}

func formatCPUTime(t int64) string {

	var h, m int64

	if t >= 3600 {
		h = t / 3600
		t = t % 3600
	}

	if t >= 60 {
		m = t / 60
		t = t % 60
	}

	return fmt.Sprintf("%02d:%02d:%02d", h, m, t)
}

func getCPUInfo(divisor int64) (int64, int64) {

	clktck, err := sysconf.Sysconf(sysconf.SC_CLK_TCK)
	if err != nil {
		panic(err)
	} else {
		clktck /= divisor
	}

	contents, err := os.ReadFile("/proc/self/stat")
	if err != nil {
		panic(err)
	}

	fields := strings.Fields(string(contents))

	utime, err := strconv.ParseInt(fields[13], 10, 64)
	if err != nil {
		panic(err)
	}

	stime, err := strconv.ParseInt(fields[14], 10, 64)
	if err != nil {
		panic(err)
	}

	return utime / clktck, stime / clktck
}

//
// Unrecoverable internal error.  Messages go to standard error, but
// dup the fd first and close both standard streams, in case another
// goroutine is writing to the terminal.  Make sure to call
// cleanupLiners, so the terminal state is sane
//

func crash(msg string) {

	var w *os.File

	cleanupLiners()

	if msg != "" {
		fd, err := syscall.Dup(int(os.Stderr.Fd()))
		if err == nil {
			os.Stdout.Close()
			os.Stderr.Close()
			w = os.NewFile(uintptr(fd), "stdout on new fd")
		} else {
			w = os.Stderr
		}

		fmt.Fprintln(w, msg)
	}

	os.Exit(1)
}
