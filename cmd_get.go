package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmoiron/nbtedit/internal/nbtfile"
	"github.com/jmoiron/nbtedit/nbt"
	"github.com/jmoiron/nbtedit/snbt"
)

func newGetCmd() *cobra.Command {
	var (
		from    encodingFlag
		compact bool
	)

	cmd := &cobra.Command{
		Use:   "get <file> <path>",
		Short: "Print the tag at a path without decoding the whole file",
		Long: `Print the tag found at a slash separated path, such as
Data/Player/Inventory/0/id. Compound entries are matched by name and list
items by index.

Binary files are streamed: everything off the path is skipped without
being decoded. SNBT files are parsed in full.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, segs := args[0], nbt.SplitPath(args[1])

			var (
				t     nbt.Tag
				found bool
				err   error
			)
			text := strings.EqualFold(filepath.Ext(name), ".snbt")
			if from.set {
				text = from.enc == nbtfile.SNBT
			}
			if text {
				doc, rerr := readDocument(name, cmd.InOrStdin(), &from)
				if rerr != nil {
					return rerr
				}
				t, found, err = doc.Lookup(segs)
			} else {
				f, oerr := os.Open(name)
				if oerr != nil {
					return oerr
				}
				defer f.Close()
				t, found, err = nbtfile.Lookup(f, from.enc.Format(), !from.set, segs)
			}
			if err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
			if !found {
				return fmt.Errorf("%s: no tag at %q", name, args[1])
			}

			var s string
			if compact {
				s, err = snbt.Marshal(t)
			} else {
				s, err = snbt.MarshalIndent(t)
			}
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), s)
			return err
		},
	}

	cmd.Flags().Var(&from, "from", "input encoding: java, bedrock, snbt or auto")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "print on a single line")

	return cmd
}
