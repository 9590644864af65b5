package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/rvollmer/esitool/internal/config"
	"github.com/rvollmer/esitool/internal/device"
	apperrors "github.com/rvollmer/esitool/internal/errors"
	"github.com/rvollmer/esitool/internal/logging"
	"github.com/rvollmer/esitool/internal/sii"
	"github.com/rvollmer/esitool/internal/ui"
)

type deviceFlags struct {
	position int
	master   int
	tool     string
	timeout  time.Duration
	output   string
	yes      bool
}

func newDeviceCmd() *cobra.Command {
	flags := &deviceFlags{}

	cmd := &cobra.Command{
		Use:   "device",
		Short: "Read or write EEPROM images on live slaves",
		Long: `Talk to slaves on a running bus through the IgH "ethercat" command
line tool. Without --position the slave is picked interactively from
the bus listing.`,
	}

	cmd.PersistentFlags().IntVarP(&flags.position, "position", "p", -1, "Ring position of the slave (interactive selection if omitted)")
	cmd.PersistentFlags().IntVarP(&flags.master, "master", "m", -1, "Master index (overrides config)")
	cmd.PersistentFlags().StringVar(&flags.tool, "tool", "", "ethercat tool binary (overrides config)")
	cmd.PersistentFlags().DurationVar(&flags.timeout, "timeout", 0, "Per-invocation timeout (overrides config)")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the slaves on the bus",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceList(flags)
		},
	}

	readCmd := &cobra.Command{
		Use:   "read",
		Short: "Read a slave's EEPROM image",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceRead(flags)
		},
	}
	readCmd.Flags().StringVarP(&flags.output, "output", "o", "-", "Output file (\"-\" for stdout)")

	writeCmd := &cobra.Command{
		Use:   "write <image>",
		Short: "Write an EEPROM image to a slave",
		Long: `Write a binary or Intel HEX SII image to a slave's EEPROM. The image
is decoded first and rejected if it is structurally unusable; the write
is confirmed interactively unless --yes is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDeviceWrite(flags, args[0])
		},
	}
	writeCmd.Flags().BoolVarP(&flags.yes, "yes", "y", false, "Skip the confirmation prompt")

	cmd.AddCommand(listCmd)
	cmd.AddCommand(readCmd)
	cmd.AddCommand(writeCmd)

	return cmd
}

// access builds the device accessor from flags and config.
func access(cfg *config.Config, flags *deviceFlags, log *logging.Logger) *device.Access {
	tool := cfg.Device.Tool
	if flags.tool != "" {
		tool = flags.tool
	}
	master := cfg.Device.Master
	if flags.master >= 0 {
		master = flags.master
	}
	timeout := cfg.Device.Timeout
	if flags.timeout > 0 {
		timeout = flags.timeout
	}
	return device.New(tool, master, timeout, log)
}

// pickPosition resolves the target slave, interactively when needed.
func pickPosition(ctx context.Context, acc *device.Access, flags *deviceFlags) (int, error) {
	if flags.position >= 0 {
		return flags.position, nil
	}
	slaves, err := acc.Slaves(ctx)
	if err != nil {
		return 0, apperrors.WrapDeviceError(err, -1)
	}
	return ui.SelectSlave(slaves)
}

func runDeviceList(flags *deviceFlags) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	acc := access(cfg, flags, log)
	slaves, err := acc.Slaves(context.Background())
	if err != nil {
		return apperrors.WrapDeviceError(err, -1)
	}
	if len(slaves) == 0 {
		fmt.Fprintln(os.Stdout, "No slaves found")
		return nil
	}
	for _, s := range slaves {
		fmt.Fprintln(os.Stdout, s.String())
	}
	return nil
}

func runDeviceRead(flags *deviceFlags) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	ctx := context.Background()
	acc := access(cfg, flags, log)
	position, err := pickPosition(ctx, acc, flags)
	if err != nil {
		return err
	}

	data, err := acc.ReadSII(ctx, position)
	if err != nil {
		return apperrors.WrapDeviceError(err, position)
	}
	log.Info("read %d bytes from slave %d", len(data), position)
	log.LogHex("sii image", data)
	return writeOutput(flags.output, data)
}

func runDeviceWrite(flags *deviceFlags, path string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	data, err := readImageFile(path)
	if err != nil {
		return apperrors.WrapImageError(err, path)
	}
	img, err := sii.Decode(data, log)
	if err != nil {
		return apperrors.WrapImageError(err, path)
	}

	ctx := context.Background()
	acc := access(cfg, flags, log)
	position, err := pickPosition(ctx, acc, flags)
	if err != nil {
		return err
	}

	if !flags.yes && cfg.Device.ForceSafe {
		ok, err := confirmWrite(img, position)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("write aborted")
		}
	}

	if err := acc.WriteSII(ctx, position, data); err != nil {
		return apperrors.WrapDeviceError(err, position)
	}
	log.Info("wrote %d bytes to slave %d", len(data), position)
	fmt.Fprintln(os.Stdout, ui.SuccessStyle.Render(fmt.Sprintf("wrote %d bytes to slave %d", len(data), position)))
	return nil
}

func confirmWrite(img *sii.Image, position int) (bool, error) {
	title := fmt.Sprintf("Write image (vendor 0x%08x, product 0x%08x) to slave %d?",
		img.Config.VendorID, img.Config.ProductID, position)
	ok := false
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description("This overwrites the slave's EEPROM.").
				Value(&ok),
		),
	)
	if err := form.Run(); err != nil {
		return false, fmt.Errorf("confirmation aborted: %w", err)
	}
	return ok, nil
}
