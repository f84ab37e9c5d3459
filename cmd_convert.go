package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmoiron/nbtedit/internal/nbtfile"
)

func newConvertCmd() *cobra.Command {
	var (
		from, to encodingFlag
		compress compressionFlag
		version  uint32
	)

	cmd := &cobra.Command{
		Use:   "convert <in> [out]",
		Short: "Convert between NBT encodings and compressions",
		Long: `Convert an NBT document between Java binary, Bedrock binary and SNBT,
optionally changing its compression.

The output keeps the input's encoding and compression unless --to or
--compress is given. When out ends in .snbt and --to is not set, SNBT
is written. With no out, or "-", the result goes to stdout.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0], cmd.InOrStdin(), &from)
			if err != nil {
				return err
			}
			out := "-"
			if len(args) == 2 {
				out = args[1]
			}

			switch {
			case to.set:
				doc.Encoding = to.enc
			case strings.EqualFold(filepath.Ext(out), ".snbt"):
				doc.Encoding = nbtfile.SNBT
			}
			if compress.set {
				doc.Compression = compress.c
			}
			if cmd.Flags().Changed("level-header") {
				doc.Header, doc.Version = true, version
			}
			if doc.Encoding != nbtfile.Bedrock {
				doc.Header = false
			}

			data, err := doc.Bytes()
			if err != nil {
				return fmt.Errorf("encode: %w", err)
			}
			debugf("writing %s, %s compression, %d bytes", doc.Encoding, doc.Compression, len(data))
			if out == "-" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(out, data, 0644)
		},
	}

	cmd.Flags().Var(&from, "from", "input encoding: java, bedrock, snbt or auto")
	cmd.Flags().Var(&to, "to", "output encoding: java, bedrock or snbt")
	cmd.Flags().Var(&compress, "compress", "output compression: none, gzip, zlib, zstd or lz4")
	cmd.Flags().Uint32Var(&version, "level-header", 10, "write a Bedrock level.dat header with this storage version")

	return cmd
}
