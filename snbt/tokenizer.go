package snbt

import (
	"io"
	"unicode"
	"unicode/utf8"

	"github.com/jmoiron/nbtedit/nbt"
)

// TokenType classifies a lexical token of SNBT text.
type TokenType int

const (
	BeginCompound TokenType = iota + 1 // {
	EndCompound                        // }
	BeginList                          // [
	BeginArray                         // [B; [I; or [L;
	EndList                            // ]
	Separator                          // ,
	NameValueSeparator                 // :
	Value                              // quoted string or unquoted run
)

var tokenNames = map[TokenType]string{
	BeginCompound:      "'{'",
	EndCompound:        "'}'",
	BeginList:          "'['",
	BeginArray:         "array header",
	EndList:            "']'",
	Separator:          "','",
	NameValueSeparator: "':'",
	Value:              "value",
}

func (t TokenType) String() string {
	if s, ok := tokenNames[t]; ok {
		return s
	}
	return "invalid token"
}

// Token is one lexical unit. Text is the raw source span, quotes and
// escapes included; Offset is its byte offset in the input.
type Token struct {
	Type   TokenType
	Text   string
	Offset int
}

// Quoted reports whether a Value token is a quoted string.
func (t Token) Quoted() bool {
	return t.Type == Value && len(t.Text) > 0 && isQuote(t.Text[0])
}

// Tokenizer splits SNBT text into tokens in a single forward pass.
type Tokenizer struct {
	src string
	pos int
}

// NewTokenizer returns a tokenizer over src.
func NewTokenizer(src string) *Tokenizer {
	return &Tokenizer{src: src}
}

// Offset returns the byte offset of the next unread character.
func (t *Tokenizer) Offset() int { return t.pos }

func isQuote(c byte) bool { return c == '"' || c == '\'' }

// isDelim reports whether c ends an unquoted run.
func isDelim(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ',', ':', ';', '"', '\'':
		return true
	}
	return false
}

func (t *Tokenizer) skipSpace() {
	for t.pos < len(t.src) {
		c := t.src[t.pos]
		if c < utf8.RuneSelf {
			if !unicode.IsSpace(rune(c)) {
				return
			}
			t.pos++
			continue
		}
		r, size := utf8.DecodeRuneInString(t.src[t.pos:])
		if !unicode.IsSpace(r) {
			return
		}
		t.pos += size
	}
}

func (t *Tokenizer) emit(typ TokenType, start, end int) (Token, error) {
	t.pos = end
	return Token{Type: typ, Text: t.src[start:end], Offset: start}, nil
}

// Next returns the next token, or io.EOF when only whitespace remains.
func (t *Tokenizer) Next() (Token, error) {
	t.skipSpace()
	start := t.pos
	if start >= len(t.src) {
		return Token{}, io.EOF
	}
	switch c := t.src[start]; c {
	case '{':
		return t.emit(BeginCompound, start, start+1)
	case '}':
		return t.emit(EndCompound, start, start+1)
	case '[':
		if start+2 < len(t.src) && t.src[start+2] == ';' {
			switch t.src[start+1] {
			case 'B', 'I', 'L':
				return t.emit(BeginArray, start, start+3)
			}
		}
		return t.emit(BeginList, start, start+1)
	case ']':
		return t.emit(EndList, start, start+1)
	case ',':
		return t.emit(Separator, start, start+1)
	case ':':
		return t.emit(NameValueSeparator, start, start+1)
	case ';':
		return Token{}, nbt.Errorf(nbt.ErrMalformed, int64(start), "unexpected ';'")
	case '"', '\'':
		end, err := scanQuoted(t.src, start)
		if err != nil {
			return Token{}, err
		}
		return t.emit(Value, start, end)
	}
	end := start
	for end < len(t.src) {
		c := t.src[end]
		if c < utf8.RuneSelf {
			if isDelim(c) || unicode.IsSpace(rune(c)) {
				break
			}
			end++
			continue
		}
		r, size := utf8.DecodeRuneInString(t.src[end:])
		if unicode.IsSpace(r) {
			break
		}
		end += size
	}
	return t.emit(Value, start, end)
}

// scanQuoted returns the end offset of the quoted string starting at
// src[start]. Backslash escapes the following byte.
func scanQuoted(src string, start int) (int, error) {
	q := src[start]
	for i := start + 1; i < len(src); i++ {
		switch src[i] {
		case '\\':
			if i+1 >= len(src) {
				return 0, nbt.Errorf(nbt.ErrMalformed, int64(start), "unterminated escape sequence")
			}
			i++
		case q:
			return i + 1, nil
		}
	}
	return 0, nbt.Errorf(nbt.ErrMalformed, int64(start), "unterminated string")
}
