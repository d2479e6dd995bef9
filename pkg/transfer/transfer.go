// Package transfer implements the chunked file-transfer operations of
// spec.md §4.5 on top of pkg/connection and pkg/packets: DownloadFile,
// UploadFile, and the hot/cold composition UploadProgram performs for
// VEX program slots.
package transfer

import (
	"bytes"
	"compress/gzip"
	"time"

	"github.com/v5kit/v5serial/pkg/connection"
	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/wire"
)

const (
	initTimeout  = 2 * time.Second
	chunkTimeout = 2 * time.Second
	exitTimeout  = 2 * time.Second
	writeRetries = 5
)

var initDecoder = connection.ReplyDecoder[packets.FileTransferInitReply]{
	Recognize: packets.RecognizeFileTransferInitReply,
	Decode:    packets.DecodeFileTransferInitReply,
}

var readDecoder = connection.ReplyDecoder[packets.FileDataReadReply]{
	Recognize: packets.RecognizeFileDataReadReply,
	Decode:    packets.DecodeFileDataReadReply,
}

var writeDecoder = connection.ReplyDecoder[packets.Ack]{
	Recognize: packets.RecognizeFileDataWriteReply,
	Decode:    packets.DecodeFileDataWriteReply,
}

var exitDecoder = connection.ReplyDecoder[packets.Ack]{
	Recognize: packets.RecognizeFileTransferExitReply,
	Decode:    packets.DecodeFileTransferExitReply,
}

var linkDecoder = connection.ReplyDecoder[packets.Ack]{
	Recognize: packets.RecognizeFileLinkReply,
	Decode:    packets.DecodeFileLinkReply,
}

// ProgressFunc is invoked after each chunk with progress in [0, 100].
// DownloadFile counts only the bytes kept after trimming the final chunk,
// so a complete download reports exactly 100.
type ProgressFunc func(percent float64)

// DownloadRequest names the file to pull and where on-device it lives.
type DownloadRequest struct {
	Name     string
	FileSize uint32
	Vendor   packets.FileVendor
	Target   packets.FileTarget
	Addr     uint32
}

// DownloadFile implements spec.md §4.5's DownloadFile: init, then chunked
// FileDataRead reads, trimming the device's over-read on the final chunk.
func DownloadFile(conn *connection.Connection, transport connection.Transport, req DownloadRequest, progress ProgressFunc) ([]byte, error) {
	initCmd := packets.FileTransferInitCommand{
		Operation: packets.OperationRead,
		Target:    req.Target,
		Vendor:    req.Vendor,
		Options:   packets.OptionNone,
		FileSize:  req.FileSize,
		LoadAddr:  req.Addr,
		WriteCRC:  0,
		FileName:  req.Name,
	}
	initReply, err := connection.Handshake(conn, initCmd, initDecoder, initTimeout, 2)
	if err != nil {
		return nil, err
	}

	chunk := initReply.Handle.MaxChunk(transport.MaxChunk())
	if chunk <= 0 {
		chunk = 244
	}
	fileSize := int(initReply.Handle.FileSize)
	out := make([]byte, 0, fileSize)

	for offset := 0; offset < fileSize; {
		want := chunk
		if offset+want > fileSize {
			want = fileSize - offset
		}
		readCmd := packets.FileDataReadCommand{Addr: req.Addr + uint32(offset), Size: uint16(chunk)}
		reply, err := connection.Handshake(conn, readCmd, readDecoder, chunkTimeout, 2)
		if err != nil {
			return nil, err
		}
		data := reply.Data
		if len(data) > want {
			data = data[:want]
		}
		out = append(out, data...)
		offset += len(data)
		if progress != nil {
			progress(float64(len(out)) / float64(fileSize) * 100)
		}
		if len(reply.Data) < chunk {
			break
		}
	}
	return out, nil
}

// UploadRequest names the file to push, where it lives on-device, and the
// options governing linking and post-upload behavior.
type UploadRequest struct {
	Name        string
	Metadata    packets.FileMetadata
	Vendor      packets.FileVendor
	Target      packets.FileTarget
	Addr        uint32
	Data        []byte
	LinkedFile  string
	AfterUpload packets.AfterUpload
	Compress    bool
}

// UploadFile implements spec.md §4.5's UploadFile: CRC, init with
// Overwrite, optional FileLink, chunked writes with 4-byte alignment
// padding on the final chunk, then FileTransferExit.
func UploadFile(conn *connection.Connection, transport connection.Transport, req UploadRequest, progress ProgressFunc) error {
	data := req.Data
	if req.Compress {
		var buf bytes.Buffer
		gz := gzip.NewWriter(&buf)
		if _, err := gz.Write(data); err != nil {
			return err
		}
		if err := gz.Close(); err != nil {
			return err
		}
		data = buf.Bytes()
	}

	crc := wire.CRC32(data)
	initCmd := packets.FileTransferInitCommand{
		Operation: packets.OperationWrite,
		Target:    req.Target,
		Vendor:    req.Vendor,
		Options:   packets.OptionOverwrite,
		FileSize:  uint32(len(data)),
		LoadAddr:  req.Addr,
		WriteCRC:  crc,
		Metadata:  req.Metadata,
		FileName:  req.Name,
	}
	initReply, err := connection.Handshake(conn, initCmd, initDecoder, initTimeout, 2)
	if err != nil {
		return err
	}
	if !initReply.Ack.OK() {
		return nackError{initReply.Ack}
	}

	if req.LinkedFile != "" {
		linkCmd := packets.FileLinkCommand{Vendor: req.Vendor, RequiredFile: req.LinkedFile}
		ack, err := connection.Handshake(conn, linkCmd, linkDecoder, initTimeout, 2)
		if err != nil {
			return err
		}
		if !ack.OK() {
			return nackError{ack}
		}
	}

	chunkSize := initReply.Handle.MaxChunk(transport.MaxChunk())
	if chunkSize <= 0 {
		chunkSize = 244
	}
	total := len(data)

	for offset := 0; offset < total; offset += chunkSize {
		end := offset + chunkSize
		if end > total {
			end = total
		}
		chunk := data[offset:end]
		if len(chunk) < chunkSize && len(chunk)%4 != 0 {
			padded := make([]byte, (len(chunk)+3)/4*4)
			copy(padded, chunk)
			chunk = padded
		}
		writeCmd := packets.FileDataWriteCommand{Addr: req.Addr + uint32(offset), Chunk: chunk}
		if transport.WaitsForWriteAck() {
			ack, err := connection.Handshake(conn, writeCmd, writeDecoder, chunkTimeout, writeRetries)
			if err != nil {
				return err
			}
			if !ack.OK() {
				return nackError{ack}
			}
		} else {
			if err := conn.Send(writeCmd); err != nil {
				return err
			}
		}
		if progress != nil {
			progress(float64(end) / float64(total) * 100)
		}
	}

	exitCmd := packets.FileTransferExitCommand{Action: req.AfterUpload}
	ack, err := connection.Handshake(conn, exitCmd, exitDecoder, exitTimeout, 2)
	if err != nil {
		return err
	}
	if !ack.OK() {
		return nackError{ack}
	}
	return nil
}

// nackError wraps a protocol NACK ack code as an error, per spec.md §7's
// taxonomy: NACKs propagate as-is rather than being retried by handshake.
type nackError struct{ ack packets.Ack }

func (e nackError) Error() string { return "transfer: device nacked: " + e.ack.String() }
