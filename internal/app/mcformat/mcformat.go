// Package mcformat renders Minecraft formatting codes embedded in NBT
// strings as HTML.
package mcformat

import (
	"html/template"
	"strings"
)

// style is the formatting in effect at some point of a string.
type style struct {
	color     byte
	bold      bool
	italic    bool
	underline bool
	strike    bool
	obf       bool
}

func (s style) zero() bool { return s == style{} }

func (s style) class() string {
	classes := make([]string, 0, 6)
	classes = append(classes, "mc-text")
	if s.color != 0 {
		classes = append(classes, "mc-c"+string(rune(s.color)))
	}
	if s.bold {
		classes = append(classes, "mc-bold")
	}
	if s.italic {
		classes = append(classes, "mc-italic")
	}
	if s.underline {
		classes = append(classes, "mc-underline")
	}
	if s.strike {
		classes = append(classes, "mc-strike")
	}
	if s.obf {
		classes = append(classes, "mc-obf")
	}
	return strings.Join(classes, " ")
}

// apply updates s for the format code c, reporting whether c is a known
// code.  Color codes clear the other formats like the game client does.
func (s *style) apply(c rune) bool {
	switch {
	case c >= '0' && c <= '9', c >= 'a' && c <= 'f':
		*s = style{color: byte(c)}
	case c >= 'A' && c <= 'F':
		*s = style{color: byte(c - 'A' + 'a')}
	default:
		switch c | 0x20 {
		case 'k':
			s.obf = true
		case 'l':
			s.bold = true
		case 'm':
			s.strike = true
		case 'n':
			s.underline = true
		case 'o':
			s.italic = true
		case 'r':
			*s = style{}
		default:
			return false
		}
	}
	return true
}

// IsPrefix reports whether r introduces a format code.  Both the section
// sign and the ampersand used by config files are accepted.
func IsPrefix(r rune) bool { return r == '§' || r == '&' }

// Format converts the format codes in s to spans carrying CSS classes such
// as `mc-ca` or `mc-bold`.  Unknown codes are emitted as text.
func Format(s string) template.HTML {
	var (
		b    strings.Builder
		cur  style
		open bool
		run  strings.Builder
	)
	flush := func() {
		if run.Len() == 0 {
			return
		}
		if !open {
			b.WriteString(`<span class="`)
			b.WriteString(cur.class())
			b.WriteString(`">`)
			open = true
		}
		b.WriteString(template.HTMLEscapeString(run.String()))
		run.Reset()
	}
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if IsPrefix(r) && i+1 < len(rs) {
			next := cur
			if next.apply(rs[i+1]) {
				flush()
				if open && next != cur {
					b.WriteString("</span>")
					open = false
				}
				cur = next
				i++
				continue
			}
		}
		run.WriteRune(r)
	}
	flush()
	if open {
		b.WriteString("</span>")
	}
	return template.HTML(b.String())
}

// Strip removes format codes from s, leaving the visible text.
func Strip(s string) string {
	if !strings.ContainsAny(s, "&§") {
		return s
	}
	var b strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		if IsPrefix(rs[i]) && i+1 < len(rs) {
			var st style
			if st.apply(rs[i+1]) {
				i++
				continue
			}
		}
		b.WriteRune(rs[i])
	}
	return b.String()
}
