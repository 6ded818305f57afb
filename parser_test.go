package main

import (
	"testing"
)

func TestParseStatementKinds(t *testing.T) {

	resetInterp(t)

	cases := []struct {
		line        string
		wantToken   int
		wantStmtNo  int
		wantNumOps  int
		wantVarName string
	}{
		{"10 x = 5", ASSIGN, 10, 1, "x"},
		{"10 a[2] = 5", ASSIGN, 10, 2, "a"},
		{"print 1 + 2", PRINT, 0, 1, ""},
		{"20 str {1, 2}", STR, 20, 1, ""},
		{"20 int \"42\"", INT, 20, 1, ""},
		{"30 for i = 0 to 5 step 2", FOR, 30, 3, "i"},
		{"35 next i", NEXT, 35, 0, "i"},
		{"40 goto 10", GOTO, 40, 1, ""},
		{"45 gosub 10", GOSUB, 45, 1, ""},
		{"50 ret", RET, 50, 0, ""},
		{"55 end", END, 55, 0, ""},
		{"60 while x < 3", WHILE, 60, 1, ""},
		{"65 loop", LOOP, 65, 0, ""},
		{"70 dot 1 2 3", DOT, 70, 3, ""},
		{"75 line {0, 0} {5, 5} \"red\"", LINE, 75, 3, ""},
		{"80 poly {0, 0} {0, 10} {10, 0} 2", POLY, 80, 4, ""},
		{"85 cls", CLS, 85, 0, ""},
		{"86 cls \"white\"", CLS, 86, 1, ""},
	}

	for _, c := range cases {
		stmt, stmtNo := parseLine(c.line)

		if stmt == nil {
			t.Errorf("%q: got nil statement", c.line)
			continue
		}

		if stmt.token != c.wantToken {
			t.Errorf("%q: got %s, want %s", c.line,
				tokenNames[stmt.token], tokenNames[c.wantToken])
		}

		if stmtNo != c.wantStmtNo {
			t.Errorf("%q: got statement number %d, want %d",
				c.line, stmtNo, c.wantStmtNo)
		}

		if len(stmt.operands) != c.wantNumOps {
			t.Errorf("%q: got %d operands, want %d", c.line,
				len(stmt.operands), c.wantNumOps)
		}

		if stmt.varName != c.wantVarName {
			t.Errorf("%q: got variable %q, want %q", c.line,
				stmt.varName, c.wantVarName)
		}
	}
}

func TestParseIfBranches(t *testing.T) {

	resetInterp(t)

	stmt, _ := parseLine("10 if x < 3 then print 1 else y = 2")

	if stmt.token != IF {
		t.Fatalf("got %s, want if", tokenNames[stmt.token])
	}

	if stmt.body == nil || stmt.body.token != PRINT {
		t.Errorf("then branch is not a print statement")
	}

	if stmt.alt == nil || stmt.alt.token != ASSIGN {
		t.Errorf("else branch is not an assignment")
	}

	stmt, _ = parseLine("10 if x then print 1")
	if stmt.alt != nil {
		t.Errorf("expected no else branch")
	}
}

//
// A bare statement number is a deletion directive
//

func TestParseBareNumber(t *testing.T) {

	resetInterp(t)

	stmt, stmtNo := parseLine("10")

	if stmt != nil || stmtNo != 10 {
		t.Errorf("got (%v, %d), want (nil, 10)", stmt, stmtNo)
	}
}

func TestParseErrors(t *testing.T) {

	cases := []struct {
		name string
		text string
	}{
		{"missing line number", "print 1"},
		{"bad for target", "10 for 1 = 2 to 3"},
		{"loop statement inside if", "10 if 1 then while 1"},
		{"for inside if", "10 if 1 then for i = 0 to 2"},
		{"computed goto", "10 goto x"},
		{"poly needs two arguments", "10 poly {0, 0}"},
		{"missing rhs", "10 x ="},
		{"trailing junk", "10 x = 1 2"},
		{"while without loop", "10 while 1"},
		{"loop without while", "10 loop"},
		{"crossed while pairs", "10 while 1\n20 loop\n30 loop"},
		{"zero line number", "0 print 1"},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := loadSourceErr(t, c.text)

			if errKind(t, err) != ParseError {
				t.Errorf("got %v, want a ParseError", err)
			}
		})
	}
}

//
// Entering a line with an existing statement number replaces the old
// statement; a bare number removes it
//

func TestProgramStoreEditing(t *testing.T) {

	loadSource(t, "10 print 1\n20 print 2\n10 print 9")

	stmt := stmtAvlTreeFirstInOrder()
	if stmt.line != "10 print 9" {
		t.Errorf("got %q, want %q", stmt.line, "10 print 9")
	}

	stmt = stmtAvlTreeNextInOrder(stmt)
	if stmt.line != "20 print 2" {
		t.Errorf("got %q, want %q", stmt.line, "20 print 2")
	}

	loadSource(t, "10 print 1\n20 print 2\n10")

	stmt = stmtAvlTreeFirstInOrder()
	if stmt.line != "20 print 2" {
		t.Errorf("got %q, want %q", stmt.line, "20 print 2")
	}
}

func TestProgramStoreLookup(t *testing.T) {

	loadSource(t, "10 print 1\n20 print 2\n30 print 3")

	if stmt := stmtAvlTreeLookup(20); stmt == nil || stmt.stmtNo != 20 {
		t.Errorf("lookup 20 failed")
	}

	if stmt := stmtAvlTreeLookup(25); stmt != nil {
		t.Errorf("lookup 25 found %v", stmt)
	}

	stmt := stmtAvlTreeLookup(10)
	next := stmtAvlTreeNextStmt(stmt)
	if next == nil || next.stmtNo != 20 {
		t.Errorf("fall-through successor of 10 is not 20")
	}
}
