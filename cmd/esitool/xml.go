package main

import (
	"github.com/spf13/cobra"

	"github.com/rvollmer/esitool/internal/esi"
)

type xmlFlags struct {
	output string
}

func newXMLCmd() *cobra.Command {
	flags := &xmlFlags{}

	cmd := &cobra.Command{
		Use:   "xml <image>",
		Short: "Convert a binary SII image to ESI XML",
		Long: `Decode a binary or Intel HEX SII image and emit the equivalent ESI
device description XML. String indices are resolved against the image's
string table; unknown catalogs have no XML representation and are not
exported.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runXML(args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "-", "Output file (\"-\" for stdout)")

	return cmd
}

func runXML(path string, flags *xmlFlags) error {
	_, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	img, _, err := decodeImageFile(path, log)
	if err != nil {
		return err
	}

	doc := esi.BuildDocument(img)
	data, err := esi.Marshal(doc)
	if err != nil {
		return err
	}
	return writeOutput(flags.output, data)
}
