package cpu

import (
	"errors"
	"iter"
	"strconv"
)

// Lexer scans assembly text into tokens.
//
// Words are separated by spaces, tabs, or newlines. A word starting
// with '#' is a decimal integer immediate, a word starting with '$' is
// a decimal register index, and any other word is a mnemonic. A ';'
// comments out the rest of the line.
//
// A Lexer is single use: once the end of input has been reached, every
// further call to Next returns the TOKEN_EOF token again.
type Lexer struct {
	text      string
	offset    int
	line      int
	lineStart int
	done      bool
}

// NewLexer creates a lexer over the source text.
func NewLexer(text string) *Lexer {
	return &Lexer{
		text: text,
		line: 1,
	}
}

// isSeparator returns true for characters that end a word.
func isSeparator(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', ';':
		return true
	}
	return false
}

// eof returns the end of input token.
func (lex *Lexer) eof() Token {
	return Token{
		Kind: TOKEN_EOF,
		Span: Span{
			Offset: len(lex.text),
			Line:   lex.line,
			Column: lex.offset - lex.lineStart + 1,
		},
	}
}

// skipLine advances to the next newline, without consuming it.
func (lex *Lexer) skipLine() {
	for lex.offset < len(lex.text) && lex.text[lex.offset] != '\n' {
		lex.offset++
	}
}

// Next returns the next token.
//
// On a malformed word, Next returns a TOKEN_ERROR token spanning the
// word and an *ErrLexical. The remainder of that line is skipped, so the
// next call resumes on the following line.
func (lex *Lexer) Next() (tok Token, err error) {
	for !lex.done && lex.offset < len(lex.text) {
		switch lex.text[lex.offset] {
		case ' ', '\t', '\r':
			lex.offset++
		case '\n':
			lex.offset++
			lex.line++
			lex.lineStart = lex.offset
		case ';':
			lex.skipLine()
		default:
			return lex.word()
		}
	}

	lex.done = true
	tok = lex.eof()
	return
}

// word scans a single word.
func (lex *Lexer) word() (tok Token, err error) {
	start := lex.offset
	for lex.offset < len(lex.text) && !isSeparator(lex.text[lex.offset]) {
		lex.offset++
	}

	text := lex.text[start:lex.offset]
	tok.Span = Span{
		Offset: start,
		Length: lex.offset - start,
		Line:   lex.line,
		Column: start - lex.lineStart + 1,
	}

	defer func() {
		if err != nil {
			tok.Kind = TOKEN_ERROR
			err = &ErrLexical{Line: tok.Line, Column: tok.Column, Text: text, Err: err}
			lex.skipLine()
		}
	}()

	switch text[0] {
	case '#':
		var value int64
		value, err = strconv.ParseInt(text[1:], 10, 32)
		if err != nil {
			err = ErrMalformedInteger
			return
		}
		tok.Kind = TOKEN_INTEGER
		tok.Value = int32(value)
	case '$':
		var index uint64
		index, err = strconv.ParseUint(text[1:], 10, 8)
		if err != nil {
			err = ErrMalformedRegister
			return
		}
		tok.Kind = TOKEN_REGISTER
		tok.Register = uint8(index)
	default:
		op, ok := LookupMnemonic(text)
		if !ok {
			err = ErrUnknownMnemonic
			return
		}
		tok.Kind = TOKEN_OPERATION
		tok.Opcode = op
	}

	return
}

// Tokens returns the remaining tokens as a sequence of token and error
// pairs. The sequence ends after the TOKEN_EOF token.
func (lex *Lexer) Tokens() iter.Seq2[Token, error] {
	return func(yield func(Token, error) bool) {
		for {
			tok, err := lex.Next()
			if !yield(tok, err) {
				return
			}
			if err == nil && tok.Kind == TOKEN_EOF {
				return
			}
		}
	}
}

// Tokenize scans all of the text. The returned tokens never include
// TOKEN_ERROR tokens; every lexical error is in the joined error.
func Tokenize(text string) (tokens []Token, err error) {
	var errs []error
	for tok, tok_err := range NewLexer(text).Tokens() {
		if tok_err != nil {
			errs = append(errs, tok_err)
			continue
		}
		tokens = append(tokens, tok)
	}

	err = errors.Join(errs...)
	return
}
