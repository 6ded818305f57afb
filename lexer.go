package main

import (
	"strconv"
	"strings"
	"text/scanner"
	"unicode"
)

//
// Lex one line of source into its token sequence.  The line number
// prefix (if any) comes back as an ordinary INTEGER token in front;
// the parser peels it off.  An EOL token always terminates the slice
//

func NewLexer(line string) *Lexer {

	lexer := &Lexer{}

	//
	// Ugly: the low-level scanner will get confused if it sees
	// something like '100end', as the '100e' will look like the
	// beginning of a floating point number in exponential format,
	// and the 'nd' will trigger an invalid floating point constant
	// error.  If we see a line starting with a digit, insert a single
	// space after the last digit in the sequence.  The subsequent call
	// to trimWhitespace will make sure the line is pretty-printed
	//

	if len(line) > 0 && unicode.IsDigit(rune(line[0])) {
		for i := 1; i < len(line); i++ {
			if !unicode.IsDigit(rune(line[i])) {
				line = line[:i] + " " + line[i:]
				break
			}
		}
	}

	lexer.line = trimWhitespace(line)

	myScanner(lexer)

	return (lexer)
}

func saveToken(yylex *Lexer, tok Lval) {
	yylex.tokens = append(yylex.tokens, tok)
}

//
// This routine scans lexemes from the current input line, appending
// them to the lexer token slice until EOF, at which point it appends
// an EOL token and returns
//

func myScanner(yylex *Lexer) {

	var s scanner.Scanner

	//
	// For diagnostics only: if the line leads with a statement
	// number, errors should name it
	//

	stmtNo := leadingStmtNo(yylex.line)

	sinput := strings.NewReader(yylex.line)

	s.Init(sinput)
	s.Mode = scanner.ScanIdents | scanner.ScanInts | scanner.ScanFloats
	s.IsIdentRune = basicIdent
	s.Error = dummyScannerError

	for {
		t, eof := getLexeme(&s, stmtNo)

		if eof {
			t = Lval{token: EOL}
			t.column = s.Pos().Column
			saveToken(yylex, t)
			return
		}

		saveToken(yylex, t)
	}
}

func getLexeme(s *scanner.Scanner, stmtNo int) (Lval, bool) {

	var t Lval

	tok := s.Scan()
	txt := s.TokenText()

	if tok == scanner.EOF {
		return Lval{}, true
	}

	switch tok {
	case scanner.Ident:

		txt = strings.ToLower(txt)

		//
		// Look the identifier up in the keyword lexeme map,
		// and return the keyword if found
		//

		if keyword, ok := keywordMap[txt]; ok {
			t = Lval{token: keyword}
			break
		}

		t = Lval{token: IDENT}
		t.stringVal = txt

	case '"':
		t = lexString(s, stmtNo)

	case scanner.Int:

		//
		// If we scanned an integer, but it's out of range for a
		// 64-bit integer, re-parse it as a float
		//

		i, e := strconv.ParseInt(txt, 10, 64)
		if e != nil {
			if e.(*strconv.NumError).Err == strconv.ErrRange {
				f, e := strconv.ParseFloat(txt, 64)
				if e != nil {
					lexErrorStmt(stmtNo, "Invalid number %q", txt)
				}
				t = Lval{token: FLOAT}
				t.float64Val = f
			} else {
				lexErrorStmt(stmtNo, "Invalid number %q", txt)
			}
		} else {
			t = Lval{token: INTEGER}
			t.int64Val = i
		}

	case scanner.Float:
		f, e := strconv.ParseFloat(txt, 64)
		if e != nil {
			lexErrorStmt(stmtNo, "Invalid number %q", txt)
		}

		t = Lval{token: FLOAT}
		t.float64Val = f

	case '=':
		if s.Peek() == '=' {
			_ = s.Next()
			t = Lval{token: EQEQ}
		} else {
			t = Lval{token: EQ}
		}

	case '<':
		if s.Peek() == '>' {
			_ = s.Next()
			t = Lval{token: NE}
		} else if s.Peek() == '=' {
			_ = s.Next()
			t = Lval{token: LE}
		} else {
			t = Lval{token: LT}
		}

	case '>':
		if s.Peek() == '=' {
			_ = s.Next()
			t = Lval{token: GE}
		} else {
			t = Lval{token: GT}
		}

	case '+':
		t = Lval{token: PLUS}

	case '-':
		t = Lval{token: MINUS}

	case '*':
		t = Lval{token: STAR}

	case '/':
		t = Lval{token: SLASH}

	case '%':
		t = Lval{token: PERCENT}

	case '&':
		t = Lval{token: AMP}

	case '|':
		t = Lval{token: PIPE}

	case '!':
		t = Lval{token: BANG}

	case '(':
		t = Lval{token: LPAR}

	case ')':
		t = Lval{token: RPAR}

	case '[':
		t = Lval{token: LBRACK}

	case ']':
		t = Lval{token: RBRACK}

	case '{':
		t = Lval{token: LBRACE}

	case '}':
		t = Lval{token: RBRACE}

	case ',':
		t = Lval{token: COMMA}

	default:
		lexErrorStmt(stmtNo, EUNKNOWNCHAR, string(tok))
	}

	t.column = s.Position.Column

	return t, false
}

//
// Scan a double-quoted string.  No escape processing: every byte up
// to the closing quote is taken verbatim
//

func lexString(s *scanner.Scanner, stmtNo int) Lval {

	var buf []byte

	for {
		rch := s.Next()

		if rch == scanner.EOF {
			lexErrorStmt(stmtNo, EUNTERMINATED)
		}

		// we now have a complete string

		if rch == '"' {
			t := Lval{token: STRING}
			t.stringVal = string(buf)
			return t
		}

		// something else, append to buf and keep going

		buf = append(buf, byte(rch))
	}
}

//
// This is a dummy to suppress reporting of errors by the scanner
//

func dummyScannerError(s *scanner.Scanner, msg string) {
}

//
// Ident predicate routine for text/scanner.  Identifiers start with
// a letter or underscore and continue with letters, digits and
// underscores
//

func basicIdent(ch rune, pos int) bool {

	if pos == 0 {
		return unicode.IsLetter(ch) || ch == '_'
	}

	return unicode.IsLetter(ch) || unicode.IsDigit(ch) || ch == '_'
}

//
// Extract the statement number a line leads with, for diagnostics.
// Returns 0 if the line has no numeric prefix
//

func leadingStmtNo(line string) int {

	i := 0
	for i < len(line) && unicode.IsDigit(rune(line[i])) {
		i++
	}

	if i == 0 {
		return 0
	}

	n, err := strconv.Atoi(line[:i])
	if err != nil {
		return 0
	}

	return n
}
