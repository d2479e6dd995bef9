package commands

import (
	"fmt"
	"image/png"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/v5kit/v5serial/pkg/connection"
	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/screen"
	"github.com/v5kit/v5serial/pkg/transfer"
)

var screenshotOut string

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the brain's screen and save it as a PNG",
	RunE:  runScreenshot,
}

func init() {
	screenshotCmd.Flags().StringVar(&screenshotOut, "out", "screen.png", "output PNG path")
}

var screenCaptureDecoder = connection.ReplyDecoder[packets.Ack]{
	Recognize: packets.RecognizeScreenCaptureReply,
	Decode:    packets.DecodeScreenCaptureReply,
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	conn, cleanup, err := openConnection()
	if err != nil {
		return err
	}
	defer cleanup()

	transport, err := parseTransport(transportName)
	if err != nil {
		return err
	}

	ack, err := connection.Handshake(conn, packets.ScreenCaptureCommand{}, screenCaptureDecoder, 2*time.Second, 2)
	if err != nil {
		return fmt.Errorf("v5ctl: screen capture: %w", err)
	}
	if !ack.OK() {
		return fmt.Errorf("v5ctl: screen capture: device nacked: %s", ack)
	}

	raw, err := transfer.DownloadFile(conn, transport, transfer.DownloadRequest{
		Name:     "screen",
		FileSize: screen.BufferSize,
		Vendor:   packets.VendorSys,
		Target:   packets.TargetCbuf,
		Addr:     0,
	}, nil)
	if err != nil {
		return fmt.Errorf("v5ctl: download screen buffer: %w", err)
	}

	img, err := screen.Decode(raw)
	if err != nil {
		return fmt.Errorf("v5ctl: decode screen buffer: %w", err)
	}

	f, err := os.Create(screenshotOut)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, img)
}
