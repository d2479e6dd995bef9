package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/v5kit/v5serial/pkg/connection"
	"github.com/v5kit/v5serial/pkg/packets"
)

var matchTime uint32

var matchCmd = &cobra.Command{
	Use:   "match <disabled|driver|auto>",
	Short: "Send a CompetitionControl command to change match phase",
	Args:  cobra.ExactArgs(1),
	RunE:  runMatch,
}

func init() {
	matchCmd.Flags().Uint32Var(&matchTime, "time", 0, "match clock value, in the device's native units")
}

var competitionControlDecoder = connection.ReplyDecoder[packets.CompetitionControlReply]{
	Recognize: packets.RecognizeCompetitionControlReply,
	Decode:    packets.DecodeCompetitionControlReply,
}

func parseCompetitionMode(name string) (packets.CompetitionMode, error) {
	switch name {
	case "disabled":
		return packets.CompetitionModeDisabled, nil
	case "driver":
		return packets.CompetitionModeDriver, nil
	case "auto":
		return packets.CompetitionModeAuto, nil
	default:
		return 0, fmt.Errorf("v5ctl: unknown match mode %q (want disabled|driver|auto)", name)
	}
}

func runMatch(cmd *cobra.Command, args []string) error {
	mode, err := parseCompetitionMode(args[0])
	if err != nil {
		return err
	}

	conn, cleanup, err := openConnection()
	if err != nil {
		return err
	}
	defer cleanup()

	reply, err := connection.Handshake(conn, packets.CompetitionControlCommand{Mode: mode, Time: matchTime}, competitionControlDecoder, 2*time.Second, 2)
	if err != nil {
		return fmt.Errorf("v5ctl: competition control: %w", err)
	}
	if !reply.Ack.OK() {
		return fmt.Errorf("v5ctl: competition control: device nacked: %s", reply.Ack)
	}
	fmt.Printf("match mode set to %s\n", args[0])
	return nil
}
