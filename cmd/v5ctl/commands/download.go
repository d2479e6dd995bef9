package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/transfer"
)

var (
	downloadVendor string
	downloadTarget string
	downloadAddr   uint32
	downloadSize   uint32
	downloadOut    string
)

var downloadCmd = &cobra.Command{
	Use:   "download <name>",
	Short: "Download a file from the brain's flash to a local path",
	Args:  cobra.ExactArgs(1),
	RunE:  runDownload,
}

func init() {
	downloadCmd.Flags().StringVar(&downloadVendor, "vendor", "user", "file vendor: user|sys")
	downloadCmd.Flags().StringVar(&downloadTarget, "target", "flash", "storage target: flash|ddr|screen|cbuf")
	downloadCmd.Flags().Uint32Var(&downloadAddr, "addr", 0, "load address")
	downloadCmd.Flags().Uint32Var(&downloadSize, "size", 0, "expected file size in bytes")
	downloadCmd.Flags().StringVar(&downloadOut, "out", "", "local output path (default: <name>)")
}

func parseVendor(name string) (packets.FileVendor, error) {
	switch name {
	case "user":
		return packets.VendorUser, nil
	case "sys":
		return packets.VendorSys, nil
	default:
		return 0, fmt.Errorf("v5ctl: unknown vendor %q (want user|sys)", name)
	}
}

func parseTarget(name string) (packets.FileTarget, error) {
	switch name {
	case "flash":
		return packets.TargetFlash, nil
	case "ddr":
		return packets.TargetDDR, nil
	case "screen":
		return packets.TargetScreen, nil
	case "cbuf":
		return packets.TargetCbuf, nil
	default:
		return 0, fmt.Errorf("v5ctl: unknown target %q (want flash|ddr|screen|cbuf)", name)
	}
}

func runDownload(cmd *cobra.Command, args []string) error {
	name := args[0]
	vendor, err := parseVendor(downloadVendor)
	if err != nil {
		return err
	}
	target, err := parseTarget(downloadTarget)
	if err != nil {
		return err
	}

	conn, cleanup, err := openConnection()
	if err != nil {
		return err
	}
	defer cleanup()

	transport, err := parseTransport(transportName)
	if err != nil {
		return err
	}

	progress := func(p float64) { fmt.Printf("\rdownloading %s: %5.1f%%", name, p) }
	data, err := transfer.DownloadFile(conn, transport, transfer.DownloadRequest{
		Name:     name,
		FileSize: downloadSize,
		Vendor:   vendor,
		Target:   target,
		Addr:     downloadAddr,
	}, progress)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("v5ctl: download %s: %w", name, err)
	}

	out := downloadOut
	if out == "" {
		out = name
	}
	return os.WriteFile(out, data, 0o644)
}
