package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fatih/color"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"

	"github.com/jmoiron/nbtedit/nbt"
	"github.com/jmoiron/nbtedit/snbt"
)

// errDiffers is returned by diff when the documents are not equal.
var errDiffers = errors.New("documents differ")

func newDiffCmd() *cobra.Command {
	var colored bool

	cmd := &cobra.Command{
		Use:   "diff <a> <b>",
		Short: "Compare two NBT documents",
		Long: `Compare two NBT documents of any encoding.

Documents are equal when they hold the same tags, regardless of the order
of compound entries. Otherwise a line diff of their indented SNBT forms
is printed and the command exits with status 1.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := readDocument(args[0], cmd.InOrStdin(), nil)
			if err != nil {
				return err
			}
			b, err := readDocument(args[1], cmd.InOrStdin(), nil)
			if err != nil {
				return err
			}
			if nbt.Equal(a.Root.AsCompound(), b.Root.AsCompound()) {
				debugf("documents are equal")
				return nil
			}
			out := cmd.OutOrStdout()
			diffs, err := lineDiff(a.Root, b.Root)
			if err != nil {
				return err
			}
			del, ins := fmt.Sprint, fmt.Sprint
			if useColor(out, colored, cmd.Flags().Changed("color")) {
				red, green := color.New(color.FgRed), color.New(color.FgGreen)
				red.EnableColor()
				green.EnableColor()
				del, ins = red.Sprint, green.Sprint
			}
			fmt.Fprintf(out, "--- %s\n+++ %s\n", args[0], args[1])
			for _, d := range diffs {
				for _, line := range strings.SplitAfter(strings.TrimSuffix(d.Text, "\n"), "\n") {
					line = strings.TrimSuffix(line, "\n")
					switch d.Type {
					case diffpatch.DiffDelete:
						fmt.Fprintln(out, del("-"+line))
					case diffpatch.DiffInsert:
						fmt.Fprintln(out, ins("+"+line))
					default:
						fmt.Fprintln(out, " "+line)
					}
				}
			}
			return errDiffers
		},
	}

	cmd.Flags().BoolVar(&colored, "color", false, "colorize output (default: when stdout is a terminal)")

	return cmd
}

// lineDiff diffs the indented SNBT renderings of a and b line by line.
func lineDiff(a, b *nbt.Root) ([]diffpatch.Diff, error) {
	ta, err := snbt.MarshalIndent(&nbt.Root{Compound: a.Compound})
	if err != nil {
		return nil, err
	}
	tb, err := snbt.MarshalIndent(&nbt.Root{Compound: b.Compound})
	if err != nil {
		return nil, err
	}
	dmp := diffpatch.New()
	ca, cb, lines := dmp.DiffLinesToChars(ta+"\n", tb+"\n")
	diffs := dmp.DiffMain(ca, cb, false)
	return dmp.DiffCharsToLines(diffs, lines), nil
}
