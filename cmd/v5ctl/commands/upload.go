package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/transfer"
)

var (
	uploadVendor      string
	uploadTarget      string
	uploadAddr        uint32
	uploadName        string
	uploadLinkedFile  string
	uploadAfterUpload string
	uploadCompress    bool
)

var uploadCmd = &cobra.Command{
	Use:   "upload <local-path>",
	Short: "Upload a local file to the brain's flash",
	Args:  cobra.ExactArgs(1),
	RunE:  runUpload,
}

func init() {
	uploadCmd.Flags().StringVar(&uploadVendor, "vendor", "user", "file vendor: user|sys")
	uploadCmd.Flags().StringVar(&uploadTarget, "target", "flash", "storage target: flash|ddr|screen|cbuf")
	uploadCmd.Flags().Uint32Var(&uploadAddr, "addr", 0x03800000, "load address")
	uploadCmd.Flags().StringVar(&uploadName, "name", "", "remote file name (default: local base name)")
	uploadCmd.Flags().StringVar(&uploadLinkedFile, "link", "", "name of an already-uploaded file this one depends on")
	uploadCmd.Flags().StringVar(&uploadAfterUpload, "after", "nothing", "action after upload: nothing|run|showrun")
	uploadCmd.Flags().BoolVar(&uploadCompress, "compress", false, "gzip the payload before uploading")
}

func parseAfterUpload(name string) (packets.AfterUpload, error) {
	switch name {
	case "nothing":
		return packets.AfterUploadDoNothing, nil
	case "run":
		return packets.AfterUploadRunProgram, nil
	case "showrun":
		return packets.AfterUploadShowRunScreen, nil
	default:
		return 0, fmt.Errorf("v5ctl: unknown after-upload action %q (want nothing|run|showrun)", name)
	}
}

func runUpload(cmd *cobra.Command, args []string) error {
	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("v5ctl: read %s: %w", path, err)
	}

	vendor, err := parseVendor(uploadVendor)
	if err != nil {
		return err
	}
	target, err := parseTarget(uploadTarget)
	if err != nil {
		return err
	}
	after, err := parseAfterUpload(uploadAfterUpload)
	if err != nil {
		return err
	}

	name := uploadName
	if name == "" {
		name = filepath.Base(path)
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

	progress := func(p float64) { fmt.Printf("\ruploading %s: %5.1f%%", name, p) }
	err = transfer.UploadFile(conn, transport, transfer.UploadRequest{
		Name:        name,
		Vendor:      vendor,
		Target:      target,
		Addr:        uploadAddr,
		Data:        data,
		LinkedFile:  uploadLinkedFile,
		AfterUpload: after,
		Compress:    uploadCompress,
	}, progress)
	fmt.Println()
	if err != nil {
		return fmt.Errorf("v5ctl: upload %s: %w", path, err)
	}
	return nil
}
