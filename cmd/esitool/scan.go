package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rvollmer/esitool/internal/capture"
	"github.com/rvollmer/esitool/internal/sii"
	"github.com/rvollmer/esitool/internal/ui"
)

type scanFlags struct {
	outputDir string
	station   int
}

func newScanCmd() *cobra.Command {
	flags := &scanFlags{}

	cmd := &cobra.Command{
		Use:   "scan <capture.pcap>",
		Short: "Reconstruct EEPROM images from an EtherCAT capture",
		Long: `Scan a pcap file for EtherCAT EEPROM traffic and rebuild the SII
image of every slave the master read during the capture. Address
register writes are paired with the data register reads that follow;
offsets the master never touched are filled with 0xFF.

Reconstructed images are written as <station>.bin into --output-dir,
or printed as a summary when no directory is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.outputDir, "output-dir", "d", "", "Directory to write reconstructed images to")
	cmd.Flags().IntVar(&flags.station, "station", -1, "Only extract this station address")

	return cmd
}

func runScan(path string, flags *scanFlags) error {
	_, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	scanner, err := capture.ScanFile(path)
	if err != nil {
		return err
	}

	stations := scanner.Stations()
	if flags.station >= 0 {
		stations = filterStation(stations, uint16(flags.station))
	}
	if len(stations) == 0 {
		return fmt.Errorf("no EEPROM reads found in %s", path)
	}

	for _, station := range stations {
		img, _ := scanner.Image(station)
		summary := describeImage(img, log)
		fmt.Fprintf(os.Stdout, "%s %s\n",
			ui.HeaderStyle.Render(fmt.Sprintf("station %d:", station)),
			fmt.Sprintf("%d bytes, %s", len(img), summary))

		if flags.outputDir != "" {
			out := filepath.Join(flags.outputDir, fmt.Sprintf("%d.bin", station))
			if err := os.WriteFile(out, img, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			log.Info("wrote %s", out)
		}
	}
	return nil
}

func filterStation(stations []uint16, want uint16) []uint16 {
	for _, s := range stations {
		if s == want {
			return []uint16{s}
		}
	}
	return nil
}

// describeImage tries to decode a reconstructed image and names it.
func describeImage(data []byte, log sii.Logger) string {
	img, err := sii.Decode(data, log)
	if err != nil {
		return "incomplete image"
	}
	if g := img.General(); g != nil {
		if name := img.Strings.Resolve(int(g.NameIndex)); name != "" {
			return name
		}
	}
	return fmt.Sprintf("vendor 0x%08x product 0x%08x", img.Config.VendorID, img.Config.ProductID)
}
