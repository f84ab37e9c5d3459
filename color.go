package main

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/jmoiron/nbtedit/snbt"
)

// colorStyler colors SNBT output by token class.
type colorStyler map[snbt.Class]*color.Color

func newColorStyler() colorStyler {
	s := colorStyler{
		snbt.Punct:  color.New(color.FgHiBlack),
		snbt.Name:   color.RGB(196, 96, 16),
		snbt.Text:   color.New(color.FgGreen),
		snbt.Number: color.RGB(128, 216, 236),
	}
	// the caller already decided to color, even when color.NoColor is set
	for _, c := range s {
		c.EnableColor()
	}
	return s
}

func (s colorStyler) Style(c snbt.Class, text string) string {
	if col, ok := s[c]; ok {
		return col.Sprint(text)
	}
	return text
}

// useColor reports whether output to w should be colored. An explicit
// flag wins; otherwise color is used on terminals.
func useColor(w io.Writer, flag bool, changed bool) bool {
	if changed {
		return flag
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
