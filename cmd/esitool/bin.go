package main

import (
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/rvollmer/esitool/internal/errors"
	"github.com/rvollmer/esitool/internal/esi"
)

type binFlags struct {
	output string
}

func newBinCmd() *cobra.Command {
	flags := &binFlags{}

	cmd := &cobra.Command{
		Use:   "bin <device.xml>",
		Short: "Build a binary SII image from ESI XML",
		Long: `Parse an ESI device description and emit the binary SII image for
its first device. The preamble checksum is computed, device strings are
interned into the string table, and catalogs are written in their
canonical order.

Vendor Id, ProductCode and RevisionNo must be present; an incomplete
identity is rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBin(args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "-", "Output file (\"-\" for stdout)")

	return cmd
}

func runBin(path string, flags *binFlags) error {
	_, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.WrapDocumentError(err, path)
	}
	doc, err := esi.Parse(data)
	if err != nil {
		return apperrors.WrapDocumentError(err, path)
	}
	img, err := esi.BuildImage(doc)
	if err != nil {
		return apperrors.WrapDocumentError(err, path)
	}

	log.Verbose("built image: %d catalogs, %d strings", len(img.Catalogs), img.Strings.Len())
	return writeOutput(flags.output, img.Encode())
}
