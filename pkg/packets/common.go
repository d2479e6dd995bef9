// Package packets implements the typed command/reply catalog on top of
// pkg/frame: one struct pair per packet family, each carrying its own
// recognize/encode/decode trio in the shape pkg/frame's Design Notes
// describe (constant-time non-consuming recognize, consuming decode).
package packets

import "github.com/v5kit/v5serial/pkg/wire"

// Primary opcodes. Nearly everything routes through the User-CDC primary;
// CompetitionControl goes over the controller's own primary and
// SystemVersion is a Simple-family packet with its own top-level opcode.
const (
	PrimaryUserCDC     byte = 0x56
	PrimaryControllerC byte = 0x58
	PrimarySystemVer   byte = 0xA4
)

// Extended opcodes within PrimaryUserCDC, grouped as spec.md's packet
// catalog table groups them.
const (
	ExtFileTransferInit byte = 0x11
	ExtFileTransferExit byte = 0x12
	ExtFileDataWrite    byte = 0x13
	ExtFileDataRead     byte = 0x14

	ExtGetDirectoryFileCount byte = 0x15
	ExtGetDirectoryEntry     byte = 0x16
	ExtGetFileMetadata       byte = 0x17
	ExtSetFileMetadata       byte = 0x18
	ExtEraseFile             byte = 0x19
	ExtFileLink              byte = 0x1A
	ExtFileFormat            byte = 0x1B
	ExtFileClearUp           byte = 0x1C
	ExtLoadFileAction        byte = 0x1E

	ExtGetSystemFlags  byte = 0x20
	ExtGetSystemStatus byte = 0x22
	ExtGetFdtStatus    byte = 0x23
	ExtGetDeviceStatus byte = 0x21
	ExtGetRadioStatus  byte = 0x26
	ExtGetLogCount     byte = 0x24
	ExtReadLogPage     byte = 0x25

	ExtUserDataPacket byte = 0x27
	ExtScreenCapture  byte = 0x28
	ExtDashTouch      byte = 0x2A
	ExtDashSelect     byte = 0x2B
	ExtKvLoad         byte = 0x2E
	ExtKvSave         byte = 0x2F

	ExtCatalogSlot1To4 byte = 0x31
	ExtCatalogSlot5To8 byte = 0x32
)

// ExtCompetitionControl is carried over PrimaryControllerC, not PrimaryUserCDC.
const ExtCompetitionControl byte = 0xC1

// Ack is the one-byte acknowledgement code on every Extended reply. 0x76
// is success; 0xA7 marks a controller smartfield sub-frame (treated as
// success with an opaque payload per spec.md §9 open question (c)); the
// rest is a closed set of protocol NACKs.
type Ack byte

const (
	AckSuccess               Ack = 0x76
	AckSmartfieldSubframe    Ack = 0xA7
	AckBadChecksum           Ack = 0xCE
	AckBadLength             Ack = 0xD0
	AckOverrun               Ack = 0xD1
	AckMisalignedTransfer    Ack = 0xD2
	AckAddressMismatch       Ack = 0xD3
	AckUninitializedTransfer Ack = 0xD4
	AckDirectoryMissing      Ack = 0xD5
	AckQuotaExceeded         Ack = 0xD6
	AckDiskFull              Ack = 0xD7
	AckTimeout               Ack = 0xD8
	AckWriteError            Ack = 0xD9
)

// OK reports whether the ack represents success (including the smartfield
// sub-frame case, which carries a differently shaped but successful reply).
func (a Ack) OK() bool { return a == AckSuccess || a == AckSmartfieldSubframe }

func (a Ack) String() string {
	switch a {
	case AckSuccess:
		return "success"
	case AckSmartfieldSubframe:
		return "smartfield-subframe"
	case AckBadChecksum:
		return "bad-checksum"
	case AckBadLength:
		return "bad-length"
	case AckOverrun:
		return "overrun"
	case AckMisalignedTransfer:
		return "misaligned-transfer"
	case AckAddressMismatch:
		return "address-mismatch"
	case AckUninitializedTransfer:
		return "uninitialized-transfer"
	case AckDirectoryMissing:
		return "directory-missing"
	case AckQuotaExceeded:
		return "quota-exceeded"
	case AckDiskFull:
		return "disk-full"
	case AckTimeout:
		return "nack-timeout"
	case AckWriteError:
		return "write-error"
	default:
		return "unknown-ack"
	}
}

// FileVendor identifies the owner of a file-transfer target.
type FileVendor byte

const (
	VendorUser    FileVendor = 0x01
	VendorSys     FileVendor = 0x0F
	VendorDev1    FileVendor = 0x02
	VendorDev2    FileVendor = 0x03
	VendorDev3    FileVendor = 0x04
	VendorDev4    FileVendor = 0x05
	VendorDev5    FileVendor = 0x06
	VendorDev6    FileVendor = 0x07
	VendorVexVM   FileVendor = 0x08
	VendorVision  FileVendor = 0x09
	VendorDash    FileVendor = 0x0A
	VendorIQSystem FileVendor = 0x0B
)

// FileTarget identifies the storage target for a file-transfer operation.
type FileTarget byte

const (
	TargetDDR  FileTarget = 0x00
	TargetFlash FileTarget = 0x01
	TargetScreen FileTarget = 0x02
	TargetCbuf FileTarget = 0x03
)

// FileOperation selects read vs write for FileTransferInit.
type FileOperation byte

const (
	OperationRead  FileOperation = 0x01
	OperationWrite FileOperation = 0x02
)

// FileTransferOptions are bit flags carried in FileTransferInit.
type FileTransferOptions byte

const (
	OptionNone      FileTransferOptions = 0x00
	OptionOverwrite FileTransferOptions = 0x01
)

// ExtensionType classifies a file's binary layout in its FileMetadata tuple.
type ExtensionType byte

const (
	ExtensionBinary          ExtensionType = 0x00
	ExtensionVM              ExtensionType = 0x06
	ExtensionEncryptedBinary ExtensionType = 0x80
	ExtensionZipped          ExtensionType = 0x40
)

// AfterUpload selects the device's action once a file-transfer exit commits.
type AfterUpload byte

const (
	AfterUploadDoNothing     AfterUpload = 0x00
	AfterUploadRunProgram    AfterUpload = 0x01
	AfterUploadHalt          AfterUpload = 0x02
	AfterUploadShowRunScreen AfterUpload = 0x03
)

// FileMetadata is the 12-byte tuple described in spec.md §3:
// extension(3 raw bytes, no NUL) | extension_type(1) | timestamp(4) | version(4).
// Unlike every other fixed-capacity string in the catalog, extension is not
// a generic FixedString<N>: it is 3 raw, zero-padded bytes with no trailing
// NUL terminator.
type FileMetadata struct {
	Extension     string
	ExtensionType ExtensionType
	Timestamp     int32
	Version       wire.Version
}

const fileMetadataLen = 12

func (m FileMetadata) Encode(dst []byte) ([]byte, error) {
	dst, err := wire.EncodeRawFixedBytes(dst, 3, m.Extension)
	if err != nil {
		return nil, err
	}
	dst = append(dst, byte(m.ExtensionType))
	dst = wire.PutInt32(dst, m.Timestamp)
	dst = m.Version.Encode(dst)
	return dst, nil
}

// DecodeFileMetadata decodes a 12-byte metadata tuple. present is false if
// the leading extension byte is 0xFF, per the DirectoryEntry presence rule
// in spec.md §4.3; the caller still consumes fileMetadataLen bytes either
// way and the returned value is the zero FileMetadata when absent.
func DecodeFileMetadata(data []byte) (m FileMetadata, present bool, consumed int, err error) {
	if len(data) < fileMetadataLen {
		return FileMetadata{}, false, 0, wire.NewUnexpectedEnd()
	}
	if data[0] == 0xFF {
		return FileMetadata{}, false, fileMetadataLen, nil
	}
	ext, n, err := wire.DecodeRawFixedBytes(data, 3)
	if err != nil {
		return FileMetadata{}, false, 0, err
	}
	off := n
	extType, n, err := wire.DecodeUint8(data[off:])
	if err != nil {
		return FileMetadata{}, false, 0, err
	}
	off += n
	ts, n, err := wire.DecodeInt32(data[off:])
	if err != nil {
		return FileMetadata{}, false, 0, err
	}
	off += n
	ver, n, err := wire.DecodeVersion(data[off:])
	if err != nil {
		return FileMetadata{}, false, 0, err
	}
	off += n
	return FileMetadata{Extension: ext, ExtensionType: ExtensionType(extType), Timestamp: ts, Version: ver}, true, off, nil
}

// TransferHandle is the ephemeral result of a successful FileTransferInit.
type TransferHandle struct {
	WindowSize uint16
	FileSize   uint32
	FileCRC    uint32
}

// MaxChunk returns the per-chunk payload cap for the given transport max
// (244 on Bluetooth, unbounded otherwise, per spec.md §4.4/§4.5).
func (h TransferHandle) MaxChunk(transportMax int) int {
	chunk := int(h.WindowSize)
	if transportMax > 0 && transportMax < chunk {
		chunk = transportMax
	}
	return chunk
}
