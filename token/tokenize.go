package token

import "bytes"

// tkState tracks where we are within the current statement. The same
// character means different things depending on position: a '+' between
// quoted arguments is concatenation, a '+' inside a bare keyword is just a
// byte of the keyword.
type tkState struct {
	stmtTok int // tokens seen since the last ';', '{' or '}'
	depth   int // open blocks
}

type lexer struct {
	d         []byte
	i         int
	line      int
	lineStart int
	ts        tkState
}

func (lx *lexer) pos() Pos {
	return Pos{Line: lx.line, Col: lx.i - lx.lineStart + 1}
}

func (lx *lexer) nl() {
	lx.line++
	lx.lineStart = lx.i + 1
}

// Tokenize lexes a whole YANG document. Whitespace and comments are
// discarded; '+' concatenation is folded into single quoted-string tokens.
func Tokenize(dst []Token, src []byte) ([]Token, error) {
	lx := &lexer{d: src, line: 1}
	n := len(src)
	for {
		if err := lx.skipSpace(); err != nil {
			return nil, err
		}
		if lx.i >= n {
			break
		}
		c := lx.d[lx.i]
		switch c {
		case ';':
			dst = append(dst, Token{Type: TSemi, Bytes: lx.d[lx.i : lx.i+1], Pos: lx.pos()})
			lx.i++
			lx.ts.stmtTok = 0
		case '{':
			dst = append(dst, Token{Type: TLBrace, Bytes: lx.d[lx.i : lx.i+1], Pos: lx.pos()})
			lx.i++
			lx.ts.depth++
			lx.ts.stmtTok = 0
		case '}':
			if lx.ts.depth == 0 {
				return nil, NewTokenizeErr(ErrUnbalanced, lx.pos())
			}
			dst = append(dst, Token{Type: TRBrace, Bytes: lx.d[lx.i : lx.i+1], Pos: lx.pos()})
			lx.i++
			lx.ts.depth--
			lx.ts.stmtTok = 0
		case '"', '\'':
			tok, err := lx.quoted()
			if err != nil {
				return nil, err
			}
			dst = append(dst, tok)
			lx.ts.stmtTok++
		default:
			tok := lx.unquoted()
			dst = append(dst, tok)
			lx.ts.stmtTok++
		}
	}
	if lx.ts.depth != 0 {
		return nil, NewTokenizeErr(ErrUnbalanced, lx.pos())
	}
	return dst, nil
}

// skipSpace discards whitespace, line comments and block comments.
func (lx *lexer) skipSpace() error {
	n := len(lx.d)
	for lx.i < n {
		switch c := lx.d[lx.i]; c {
		case ' ', '\t', '\r', '\v', '\f':
			lx.i++
		case '\n':
			lx.nl()
			lx.i++
		case '/':
			if lx.i+1 >= n {
				return nil
			}
			switch lx.d[lx.i+1] {
			case '/':
				for lx.i < n && lx.d[lx.i] != '\n' {
					lx.i++
				}
			case '*':
				start := lx.pos()
				lx.i += 2
				for {
					if lx.i+1 >= n {
						return NewTokenizeErr(ErrUnterminatedComment, start)
					}
					if lx.d[lx.i] == '*' && lx.d[lx.i+1] == '/' {
						lx.i += 2
						break
					}
					if lx.d[lx.i] == '\n' {
						lx.nl()
					}
					lx.i++
				}
			default:
				return nil
			}
		default:
			return nil
		}
	}
	return nil
}

// quoted reads a quoted string at the current position and then folds any
// '+' concatenation chain that follows it. Concatenation only applies in
// argument position; a quoted string in keyword position is left alone for
// the builder to reject.
func (lx *lexer) quoted() (Token, error) {
	start := lx.pos()
	seg, err := lx.quotedSegment()
	if err != nil {
		return Token{}, err
	}
	for lx.ts.stmtTok >= 1 {
		mark := *lx
		if err := lx.skipSpace(); err != nil {
			return Token{}, err
		}
		if lx.i >= len(lx.d) || lx.d[lx.i] != '+' {
			*lx = mark
			break
		}
		plus := lx.pos()
		lx.i++
		if err := lx.skipSpace(); err != nil {
			return Token{}, err
		}
		if lx.i >= len(lx.d) || (lx.d[lx.i] != '"' && lx.d[lx.i] != '\'') {
			return Token{}, NewTokenizeErr(ErrConcatOperand, plus)
		}
		next, err := lx.quotedSegment()
		if err != nil {
			return Token{}, err
		}
		seg = append(seg, next...)
	}
	return Token{Type: TQString, Bytes: seg, Pos: start}, nil
}

// quotedSegment reads one quoted string. Double quotes process backslash
// escapes; single quotes are verbatim.
func (lx *lexer) quotedSegment() ([]byte, error) {
	start := lx.pos()
	quote := lx.d[lx.i]
	lx.i++
	var out []byte
	n := len(lx.d)
	for {
		if lx.i >= n {
			return nil, NewTokenizeErr(ErrUnterminatedString, start)
		}
		c := lx.d[lx.i]
		if c == quote {
			lx.i++
			return out, nil
		}
		if c == '\n' {
			lx.nl()
		}
		if c == '\\' && quote == '"' {
			if lx.i+1 >= n {
				return nil, NewTokenizeErr(ErrUnterminatedString, start)
			}
			switch e := lx.d[lx.i+1]; e {
			case 'n':
				out = append(out, '\n')
			case 't':
				out = append(out, '\t')
			case '"':
				out = append(out, '"')
			case '\\':
				out = append(out, '\\')
			default:
				return nil, NewTokenizeErr(ErrBadEscape, lx.pos())
			}
			lx.i += 2
			continue
		}
		out = append(out, c)
		lx.i++
	}
}

// unquotedEnd holds the bytes that terminate an unquoted string.
var unquotedEnd = []byte(" \t\r\n\v\f;{}\"'")

func (lx *lexer) unquoted() Token {
	start := lx.pos()
	from := lx.i
	n := len(lx.d)
	for lx.i < n {
		c := lx.d[lx.i]
		if bytes.IndexByte(unquotedEnd, c) >= 0 {
			break
		}
		// a comment opener ends an unquoted string
		if c == '/' && lx.i+1 < n && (lx.d[lx.i+1] == '/' || lx.d[lx.i+1] == '*') {
			break
		}
		lx.i++
	}
	return Token{Type: TUString, Bytes: lx.d[from:lx.i], Pos: start}
}
