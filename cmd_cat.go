package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmoiron/nbtedit/nbt"
	"github.com/jmoiron/nbtedit/snbt"
)

func newCatCmd() *cobra.Command {
	var (
		from    encodingFlag
		compact bool
		colored bool
	)

	cmd := &cobra.Command{
		Use:   "cat [file]",
		Short: "Print an NBT file as SNBT",
		Long: `Print an NBT file as SNBT to stdout.

The file may be Java or Bedrock binary NBT, compressed or not, or SNBT
text. Its encoding is detected unless --from is given. With no file, or
"-", the document is read from stdin.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			doc, err := readDocument(name, cmd.InOrStdin(), &from)
			if err != nil {
				return err
			}
			if doc.Root.Name != "" {
				debugf("dropping root name %q", doc.Root.Name)
			}
			out := cmd.OutOrStdout()
			enc := snbt.NewEncoder(out)
			enc.SetIndent(!compact)
			if useColor(out, colored, cmd.Flags().Changed("color")) {
				enc.SetStyler(newColorStyler())
			}
			if err := enc.Encode(&nbt.Root{Compound: doc.Root.Compound}); err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			_, err = fmt.Fprintln(out)
			return err
		},
	}

	cmd.Flags().Var(&from, "from", "input encoding: java, bedrock, snbt or auto")
	cmd.Flags().BoolVarP(&compact, "compact", "c", false, "print on a single line")
	cmd.Flags().BoolVar(&colored, "color", false, "colorize output (default: when stdout is a terminal)")

	return cmd
}
