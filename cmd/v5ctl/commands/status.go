package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/v5kit/v5serial/pkg/connection"
	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/telemetry"
)

var statusRedisAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Query system version, status, and radio link quality",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusRedisAddr, "redis-addr", "", "republish the results to this Redis address")
}

var systemVersionDecoder = connection.ReplyDecoder[packets.SystemVersionReply]{
	Recognize: packets.RecognizeSystemVersionReply,
	Decode:    packets.DecodeSystemVersionReply,
}

var systemStatusDecoder = connection.ReplyDecoder[packets.GetSystemStatusReply]{
	Recognize: packets.RecognizeGetSystemStatusReply,
	Decode:    packets.DecodeGetSystemStatusReply,
}

var radioStatusDecoder = connection.ReplyDecoder[packets.GetRadioStatusReply]{
	Recognize: packets.RecognizeGetRadioStatusReply,
	Decode:    packets.DecodeGetRadioStatusReply,
}

func runStatus(cmd *cobra.Command, args []string) error {
	conn, cleanup, err := openConnection()
	if err != nil {
		return err
	}
	defer cleanup()

	ver, err := connection.Handshake(conn, packets.SystemVersionCommand{}, systemVersionDecoder, 2*time.Second, 2)
	if err != nil {
		return fmt.Errorf("v5ctl: system version: %w", err)
	}
	fmt.Printf("version:  %s  product=%#x  flags=%#x\n", ver.Version, ver.ProductType, ver.Flags)

	status, err := connection.Handshake(conn, packets.GetSystemStatusCommand{}, systemStatusDecoder, 2*time.Second, 2)
	if err != nil {
		return fmt.Errorf("v5ctl: system status: %w", err)
	}
	fmt.Printf("system:   sys=%s cpu0=%s cpu1=%s touch=%s id=%#x\n",
		status.SystemVersion, status.CPU0Version, status.CPU1Version, status.TouchVersion, status.SystemID)

	radio, err := connection.Handshake(conn, packets.GetRadioStatusCommand{}, radioStatusDecoder, 2*time.Second, 2)
	if err != nil {
		return fmt.Errorf("v5ctl: radio status: %w", err)
	}
	fmt.Printf("radio:    quality=%d strength=%d channel=%d\n", radio.Quality, radio.Strength, radio.Channel)

	if statusRedisAddr == "" {
		return nil
	}
	sink, err := telemetry.New(statusRedisAddr, "", 0)
	if err != nil {
		return fmt.Errorf("v5ctl: connect telemetry sink: %w", err)
	}
	defer sink.Close()
	if err := sink.PublishSystemStatus(status); err != nil {
		return err
	}
	return sink.PublishRadioStatus(radio)
}
