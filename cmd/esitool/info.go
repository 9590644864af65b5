package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rvollmer/esitool/internal/sii"
	"github.com/rvollmer/esitool/internal/ui"
)

type infoFlags struct {
	verify bool
}

func newInfoCmd() *cobra.Command {
	flags := &infoFlags{}

	cmd := &cobra.Command{
		Use:   "info <image>",
		Short: "Show the decoded contents of an SII image",
		Long: `Decode a binary or Intel HEX SII image and print its contents:
device identity, PDI configuration, mailbox windows and every catalog.
String and data type indices are resolved against the image's string
table.

With --verify each catalog is additionally re-encoded and compared
against its stored bytes, flagging sections that would not survive a
round trip unchanged.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInfo(args[0], flags)
		},
	}

	cmd.Flags().BoolVar(&flags.verify, "verify", false, "Re-encode each catalog and compare against stored bytes")

	return cmd
}

func runInfo(path string, flags *infoFlags) error {
	_, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Close()

	img, _, err := decodeImageFile(path, log)
	if err != nil {
		return err
	}

	fmt.Fprint(os.Stdout, renderImage(img, flags.verify))
	return nil
}

// renderImage formats the decoded image for the terminal.
func renderImage(img *sii.Image, verify bool) string {
	var b strings.Builder

	b.WriteString(ui.TitleStyle.Render("SII image"))
	b.WriteString("\n\n")

	b.WriteString(ui.HeaderStyle.Render("Identity"))
	b.WriteString("\n")
	writeField(&b, "Vendor ID", fmt.Sprintf("0x%08x", img.Config.VendorID))
	writeField(&b, "Product code", fmt.Sprintf("0x%08x", img.Config.ProductID))
	writeField(&b, "Revision", fmt.Sprintf("0x%08x", img.Config.RevisionID))
	writeField(&b, "Serial", fmt.Sprintf("0x%08x", img.Config.Serial))

	b.WriteString("\n")
	b.WriteString(ui.HeaderStyle.Render("PDI"))
	b.WriteString("\n")
	writeField(&b, "Control", fmt.Sprintf("0x%04x", img.Preamble.PDICtrl))
	writeField(&b, "Configuration", fmt.Sprintf("0x%04x 0x%04x", img.Preamble.PDIConf, img.Preamble.PDIConf2))
	writeField(&b, "Sync impulse", fmt.Sprintf("%d", img.Preamble.SyncImpulse))
	writeField(&b, "Alias", fmt.Sprintf("%d", img.Preamble.Alias))
	writeField(&b, "Checksum", fmt.Sprintf("0x%02x", img.Preamble.Checksum))

	b.WriteString("\n")
	b.WriteString(ui.HeaderStyle.Render("Mailbox"))
	b.WriteString("\n")
	writeField(&b, "Protocols", mailboxProtocols(img.Config.MailboxProtocol))
	writeField(&b, "Standard recv", fmt.Sprintf("0x%04x/%d", img.Config.StdRecvMboxOffset, img.Config.StdRecvMboxSize))
	writeField(&b, "Standard send", fmt.Sprintf("0x%04x/%d", img.Config.StdSendMboxOffset, img.Config.StdSendMboxSize))
	writeField(&b, "Bootstrap recv", fmt.Sprintf("0x%04x/%d", img.Config.BootRecvMboxOffset, img.Config.BootRecvMboxSize))
	writeField(&b, "Bootstrap send", fmt.Sprintf("0x%04x/%d", img.Config.BootSendMboxOffset, img.Config.BootSendMboxSize))
	writeField(&b, "EEPROM size", fmt.Sprintf("%d KiBit", (int(img.Config.EEPROMSize)+1)*128*8/1024))

	for _, cat := range img.Catalogs {
		b.WriteString("\n")
		header := fmt.Sprintf("Catalog %d (%s)", cat.Category(), sii.CategoryName(cat.Category()))
		b.WriteString(ui.HeaderStyle.Render(header))
		if verify {
			if mismatches, ok := sii.VerifyCatalog(cat, img.Strings); ok {
				b.WriteString("  ")
				if len(mismatches) == 0 {
					b.WriteString(ui.SuccessStyle.Render("[round trip ok]"))
				} else {
					b.WriteString(ui.WarningStyle.Render(fmt.Sprintf("[%d byte(s) differ from stored]", len(mismatches))))
				}
			}
		}
		b.WriteString("\n")
		renderCatalog(&b, img, cat)
	}

	return b.String()
}

func renderCatalog(b *strings.Builder, img *sii.Image, cat sii.Catalog) {
	switch c := cat.(type) {
	case *sii.StringsCatalog:
		for i, s := range img.Strings.Entries() {
			if i == 0 {
				continue
			}
			writeField(b, fmt.Sprintf("%d", i), fmt.Sprintf("%q", s))
		}
	case *sii.GeneralCatalog:
		writeField(b, "Name", img.Strings.Resolve(int(c.NameIndex)))
		writeField(b, "Group", img.Strings.Resolve(int(c.GroupIndex)))
		writeField(b, "Order", img.Strings.Resolve(int(c.OrderIndex)))
		writeField(b, "CoE details", fmt.Sprintf("0x%02x", c.CoEDetails))
		writeField(b, "FoE details", fmt.Sprintf("0x%02x", c.FoEDetails))
		writeField(b, "Ports", fmt.Sprintf("0x%02x 0x%02x", c.PhysPort01, c.PhysPort23))
	case *sii.FmmuCatalog:
		for i, e := range c.Entries {
			writeField(b, fmt.Sprintf("FMMU%d", i), e.UsageName())
		}
	case *sii.SyncManagerCatalog:
		for i, e := range c.Entries {
			writeField(b, fmt.Sprintf("SM%d", i),
				fmt.Sprintf("%s start 0x%04x size %d ctrl 0x%02x enable %d",
					e.TypeName(), e.PhysAddress, e.Length, e.Control, e.Enable))
		}
	case *sii.PdoCatalog:
		writeField(b, "Index", fmt.Sprintf("0x%04x", c.Index))
		writeField(b, "Name", img.Strings.Resolve(int(c.NameIndex)))
		writeField(b, "Sync manager", fmt.Sprintf("%d", c.SyncManager))
		writeField(b, "Flags", fmt.Sprintf("0x%04x", c.Flags))
		for _, e := range c.Entries {
			writeField(b, fmt.Sprintf("  0x%04x:%02x", e.Index, e.SubIndex),
				fmt.Sprintf("%s, %d bits, %s", img.Strings.Resolve(int(e.NameIndex)), e.BitLength, e.DataType))
		}
	case *sii.DClockCatalog:
		writeField(b, "Name", img.Strings.Resolve(int(c.NameIndex)))
		writeField(b, "Cycle time 0", fmt.Sprintf("%d ns", c.CycleTime0))
		writeField(b, "Shift time 0", fmt.Sprintf("%d ns", c.ShiftTime0))
		writeField(b, "Assign/activate", fmt.Sprintf("0x%04x", c.AssignActivate))
	case *sii.UnknownCatalog:
		writeField(b, "Size", fmt.Sprintf("%d bytes (kept verbatim)", len(c.Data)))
	}
}

func writeField(b *strings.Builder, label, value string) {
	b.WriteString("  ")
	b.WriteString(ui.LabelStyle.Render(fmt.Sprintf("%-16s", label)))
	b.WriteString(value)
	b.WriteString("\n")
}

func mailboxProtocols(mask uint16) string {
	var names []string
	for _, p := range []struct {
		bit  uint16
		name string
	}{
		{sii.MailboxEoE, "EoE"},
		{sii.MailboxCoE, "CoE"},
		{sii.MailboxFoE, "FoE"},
		{sii.MailboxVoE, "VoE"},
	} {
		if mask&p.bit != 0 {
			names = append(names, p.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, " ")
}
