package snbt

import (
	"strconv"
	"strings"

	"github.com/jmoiron/nbtedit/nbt"
)

// parseNumber converts an unquoted numeric literal. A trailing b, s, l, f
// or d (either case) selects Byte, Short, Long, Float or Double. Anything
// else must be a plain integer, read as an Int.
func parseNumber(text string, off int) (nbt.Tag, error) {
	body, suffix := text[:len(text)-1], text[len(text)-1]
	bad := func() (nbt.Tag, error) {
		return nil, nbt.Errorf(nbt.ErrMalformed, int64(off), "invalid number %q", text)
	}
	switch suffix {
	case 'b', 'B':
		n, err := strconv.ParseInt(body, 10, 8)
		if err != nil {
			return bad()
		}
		return nbt.Byte(n), nil
	case 's', 'S':
		n, err := strconv.ParseInt(body, 10, 16)
		if err != nil {
			return bad()
		}
		return nbt.Short(n), nil
	case 'l', 'L':
		n, err := strconv.ParseInt(body, 10, 64)
		if err != nil {
			return bad()
		}
		return nbt.Long(n), nil
	case 'f', 'F':
		f, err := strconv.ParseFloat(body, 32)
		if err != nil || !decimalBody(body) {
			return bad()
		}
		return nbt.Float(f), nil
	case 'd', 'D':
		f, err := strconv.ParseFloat(body, 64)
		if err != nil || !decimalBody(body) {
			return bad()
		}
		return nbt.Double(f), nil
	}
	if suffix < '0' || suffix > '9' {
		return bad()
	}
	n, err := strconv.ParseInt(text, 10, 32)
	if err != nil {
		return bad()
	}
	return nbt.Int(n), nil
}

// decimalBody rejects the hex, underscore and named forms strconv accepts
// but SNBT does not, except for the infinities the writer produces.
func decimalBody(s string) bool {
	t := strings.TrimLeft(s, "+-")
	if t == "Inf" {
		return len(s) > len(t)
	}
	for i := 0; i < len(t); i++ {
		switch c := t[i]; {
		case c >= '0' && c <= '9', c == '.', c == 'e', c == 'E', c == '+', c == '-':
		default:
			return false
		}
	}
	return t != ""
}

// formatFloat renders the shortest text that reads back to the same
// float32. Infinities keep their sign ("+Inf") and so parse as numbers.
func formatFloat(f float32) string {
	return strconv.FormatFloat(float64(f), 'g', -1, 32)
}

func formatDouble(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
