package packets

import (
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/wire"
)

// CompetitionMode selects the match phase a CompetitionControl command puts
// the brain into.
type CompetitionMode uint8

// Mode values are bit-flag combinations the way the real field encodes
// them, not a sequential enum: Auto carries both the autonomous bit (0x02)
// and the competition-connected bit (0x08).
const (
	CompetitionModeDisabled CompetitionMode = 0x00
	CompetitionModeDriver   CompetitionMode = 0x08
	CompetitionModeAuto     CompetitionMode = 0x0A
)

// CompetitionControlCommand is the end-to-end scenario from spec.md §8.3:
// encoding {mode=Auto, time=0} over primary 0x58 / extended 0xC1 must
// produce `C9 36 B8 47 58 C1 07 0A 00 00 00 00 <crc16-be>`.
type CompetitionControlCommand struct {
	Mode CompetitionMode
	Time uint32
}

func (c CompetitionControlCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 5)
	payload = append(payload, byte(c.Mode))
	payload = wire.PutUint32(payload, c.Time)
	return frame.EncodeExtendedCommand(PrimaryControllerC, ExtCompetitionControl, payload)
}

func RecognizeCompetitionControlReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryControllerC, ExtCompetitionControl)
}

type CompetitionControlReply struct {
	Ack Ack
}

func DecodeCompetitionControlReply(data []byte) (CompetitionControlReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return CompetitionControlReply{}, 0, err
	}
	return CompetitionControlReply{Ack: Ack(r.Ack)}, n, nil
}
