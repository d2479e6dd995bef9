package packets

import (
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/wire"
)

// FileTransferInitCommand begins a chunked file-transfer session. Its
// payload is exactly 52 bytes: operation(1)|target(1)|vendor(1)|options(1)|
// file_size(4)|load_addr(4)|write_crc(4)|metadata(12)|file_name(24).
type FileTransferInitCommand struct {
	Operation FileOperation
	Target    FileTarget
	Vendor    FileVendor
	Options   FileTransferOptions
	FileSize  uint32
	LoadAddr  uint32
	WriteCRC  uint32
	Metadata  FileMetadata
	FileName  string
}

func (c FileTransferInitCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 52)
	payload = append(payload, byte(c.Operation), byte(c.Target), byte(c.Vendor), byte(c.Options))
	payload = wire.PutUint32(payload, c.FileSize)
	payload = wire.PutUint32(payload, c.LoadAddr)
	payload = wire.PutUint32(payload, c.WriteCRC)
	var err error
	payload, err = c.Metadata.Encode(payload)
	if err != nil {
		return nil, err
	}
	name, err := wire.FixedStringCap(23, c.FileName)
	if err != nil {
		return nil, err
	}
	payload = name.Encode(payload)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFileTransferInit, payload)
}

// FileTransferInitReply carries the transfer handle on success. FileCRC
// arrives big-endian on the wire (unlike every other multi-byte field in
// this reply) and must be byte-swapped relative to wire.DecodeUint32.
type FileTransferInitReply struct {
	Ack     Ack
	Handle  TransferHandle
	Payload []byte
}

func RecognizeFileTransferInitReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtFileTransferInit)
}

func DecodeFileTransferInitReply(data []byte) (FileTransferInitReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return FileTransferInitReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 10 {
		return FileTransferInitReply{Ack: ack, Payload: r.Payload}, n, nil
	}
	window, _, err := wire.DecodeUint16(r.Payload)
	if err != nil {
		return FileTransferInitReply{}, 0, err
	}
	fileSize, _, err := wire.DecodeUint32(r.Payload[2:])
	if err != nil {
		return FileTransferInitReply{}, 0, err
	}
	fileCRC, _, err := wire.DecodeUint32BE(r.Payload[6:])
	if err != nil {
		return FileTransferInitReply{}, 0, err
	}
	return FileTransferInitReply{
		Ack: ack,
		Handle: TransferHandle{
			WindowSize: window,
			FileSize:   fileSize,
			FileCRC:    fileCRC,
		},
		Payload: r.Payload,
	}, n, nil
}

// FileTransferExitCommand commits or aborts the transfer.
type FileTransferExitCommand struct {
	Action AfterUpload
}

func (c FileTransferExitCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFileTransferExit, []byte{byte(c.Action)})
}

func RecognizeFileTransferExitReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtFileTransferExit)
}

func DecodeFileTransferExitReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// FileDataWriteCommand writes one chunk at addr.
type FileDataWriteCommand struct {
	Addr  uint32
	Chunk []byte
}

func (c FileDataWriteCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 4+len(c.Chunk))
	payload = wire.PutUint32(payload, c.Addr)
	payload = append(payload, c.Chunk...)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFileDataWrite, payload)
}

func RecognizeFileDataWriteReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtFileDataWrite)
}

func DecodeFileDataWriteReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// FileDataReadCommand requests one chunk at addr.
type FileDataReadCommand struct {
	Addr uint32
	Size uint16
}

func (c FileDataReadCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 6)
	payload = wire.PutUint32(payload, c.Addr)
	payload = wire.PutUint16(payload, c.Size)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFileDataRead, payload)
}

func RecognizeFileDataReadReply(data []byte) bool {
	return frame.RecognizeFileReadReply(data, PrimaryUserCDC, ExtFileDataRead)
}

// FileDataReadReply is the dedicated decode path for FileDataRead's
// nonstandard reply framing (see pkg/frame's FileReadReply doc comment).
type FileDataReadReply struct {
	Ack  Ack
	Data []byte
}

func DecodeFileDataReadReply(data []byte) (FileDataReadReply, int, error) {
	r, n, err := frame.DecodeFileReadReply(data)
	if err != nil {
		return FileDataReadReply{}, 0, err
	}
	if r.Ack != nil {
		return FileDataReadReply{Ack: Ack(*r.Ack)}, n, nil
	}
	return FileDataReadReply{Ack: AckSuccess, Data: r.Payload}, n, nil
}

// FileLinkCommand associates a hot binary's dependent library for the
// device to resolve when the program is run.
type FileLinkCommand struct {
	Vendor       FileVendor
	RequiredFile string
}

func (c FileLinkCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 26)
	payload = append(payload, byte(c.Vendor), 0x00)
	name, err := wire.FixedStringCap(23, c.RequiredFile)
	if err != nil {
		return nil, err
	}
	payload = name.Encode(payload)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFileLink, payload)
}

func RecognizeFileLinkReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtFileLink)
}

func DecodeFileLinkReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// FileFormatCommand reformats the device's user filesystem. Confirm must
// equal frame.FileFormatConfirmation or the device rejects the request.
type FileFormatCommand struct {
	Confirm [4]byte
}

func (c FileFormatCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFileFormat, c.Confirm[:])
}

func RecognizeFileFormatReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtFileFormat)
}

func DecodeFileFormatReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// FileClearUpCommand aborts an in-progress transfer without committing.
type FileClearUpCommand struct{}

func (FileClearUpCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtFileClearUp, nil)
}

func RecognizeFileClearUpReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtFileClearUp)
}

func DecodeFileClearUpReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// LoadFileActionCommand requests the device run or stop a previously
// uploaded program slot without a transfer session.
type LoadFileActionCommand struct {
	Vendor FileVendor
	Action AfterUpload
	Name   string
}

func (c LoadFileActionCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 26)
	payload = append(payload, byte(c.Vendor), byte(c.Action))
	name, err := wire.FixedStringCap(23, c.Name)
	if err != nil {
		return nil, err
	}
	payload = name.Encode(payload)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtLoadFileAction, payload)
}

func RecognizeLoadFileActionReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtLoadFileAction)
}

func DecodeLoadFileActionReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}
