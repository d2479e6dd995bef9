package packets

import (
	"github.com/v5kit/v5serial/pkg/frame"
	"github.com/v5kit/v5serial/pkg/wire"
)

// GetDirectoryFileCountCommand enumerates files belonging to vendor.
type GetDirectoryFileCountCommand struct {
	Vendor FileVendor
	// reserved is always encoded as 0 per spec.md §9 open question (b):
	// its exact semantics aren't documented upstream.
}

func (c GetDirectoryFileCountCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetDirectoryFileCount, []byte{byte(c.Vendor), 0x00})
}

func RecognizeGetDirectoryFileCountReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetDirectoryFileCount)
}

type GetDirectoryFileCountReply struct {
	Ack   Ack
	Count uint16
}

func DecodeGetDirectoryFileCountReply(data []byte) (GetDirectoryFileCountReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return GetDirectoryFileCountReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 2 {
		return GetDirectoryFileCountReply{Ack: ack}, n, nil
	}
	count, _, err := wire.DecodeUint16(r.Payload)
	if err != nil {
		return GetDirectoryFileCountReply{}, 0, err
	}
	return GetDirectoryFileCountReply{Ack: ack, Count: count}, n, nil
}

// GetDirectoryEntryCommand fetches the file at index idx within vendor's
// directory.
type GetDirectoryEntryCommand struct {
	Index  uint8
	Vendor FileVendor
}

func (c GetDirectoryEntryCommand) Encode() ([]byte, error) {
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetDirectoryEntry, []byte{c.Index, byte(c.Vendor)})
}

func RecognizeGetDirectoryEntryReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetDirectoryEntry)
}

// DirectoryEntry carries a file's size, load address, and metadata. The
// metadata block is absent when its leading byte is 0xFF; spec.md requires
// the 12 bytes be consumed regardless so the file name that follows stays
// aligned.
type DirectoryEntry struct {
	Ack              Ack
	FileSize         uint32
	LoadAddr         uint32
	MetadataPresent  bool
	Metadata         FileMetadata
	FileName         string
}

func DecodeGetDirectoryEntryReply(data []byte) (DirectoryEntry, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return DirectoryEntry{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 8+fileMetadataLen {
		return DirectoryEntry{Ack: ack}, n, nil
	}
	off := 0
	fileSize, m, err := wire.DecodeUint32(r.Payload[off:])
	if err != nil {
		return DirectoryEntry{}, 0, err
	}
	off += m
	loadAddr, m, err := wire.DecodeUint32(r.Payload[off:])
	if err != nil {
		return DirectoryEntry{}, 0, err
	}
	off += m
	meta, present, m, err := DecodeFileMetadata(r.Payload[off:])
	if err != nil {
		return DirectoryEntry{}, 0, err
	}
	off += m
	name := ""
	if off < len(r.Payload) {
		fs, _, err := wire.DecodeFixedString(r.Payload[off:], len(r.Payload[off:])-1)
		if err == nil {
			name = fs.String()
		}
	}
	return DirectoryEntry{
		Ack: ack, FileSize: fileSize, LoadAddr: loadAddr,
		MetadataPresent: present, Metadata: meta, FileName: name,
	}, n, nil
}

// GetFileMetadataCommand looks up a named file's metadata by vendor.
type GetFileMetadataCommand struct {
	Vendor FileVendor
	Option uint8
	Name   string
}

func (c GetFileMetadataCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 26)
	payload = append(payload, byte(c.Vendor), c.Option)
	name, err := wire.FixedStringCap(23, c.Name)
	if err != nil {
		return nil, err
	}
	payload = name.Encode(payload)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtGetFileMetadata, payload)
}

func RecognizeGetFileMetadataReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtGetFileMetadata)
}

// FileMetadataReply wraps FileMetadata plus file placement in a presence
// sentinel: a leading vendor byte of 0xFF means "no such file" (Present is
// false and every other field is zero); 0x00 means the file exists but
// carries no link; any other value is the linked file's vendor.
type FileMetadataReply struct {
	Ack         Ack
	Present     bool
	Vendor      FileVendor
	FileSize    uint32
	LoadAddr    uint32
	Metadata    FileMetadata
	LinkedName  string
}

func DecodeGetFileMetadataReply(data []byte) (FileMetadataReply, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return FileMetadataReply{}, 0, err
	}
	ack := Ack(r.Ack)
	if !ack.OK() || len(r.Payload) < 1 {
		return FileMetadataReply{Ack: ack}, n, nil
	}
	if r.Payload[0] == 0xFF {
		return FileMetadataReply{Ack: ack, Present: false}, n, nil
	}
	off := 0
	vendor, m, err := wire.DecodeUint8(r.Payload[off:])
	if err != nil {
		return FileMetadataReply{}, 0, err
	}
	off += m
	if len(r.Payload[off:]) < 8+fileMetadataLen {
		return FileMetadataReply{Ack: ack, Present: true, Vendor: FileVendor(vendor)}, n, nil
	}
	fileSize, m, err := wire.DecodeUint32(r.Payload[off:])
	if err != nil {
		return FileMetadataReply{}, 0, err
	}
	off += m
	loadAddr, m, err := wire.DecodeUint32(r.Payload[off:])
	if err != nil {
		return FileMetadataReply{}, 0, err
	}
	off += m
	meta, _, m, err := DecodeFileMetadata(r.Payload[off:])
	if err != nil {
		return FileMetadataReply{}, 0, err
	}
	off += m
	linked := ""
	if off < len(r.Payload) {
		fs, _, err := wire.DecodeFixedString(r.Payload[off:], len(r.Payload[off:])-1)
		if err == nil {
			linked = fs.String()
		}
	}
	return FileMetadataReply{
		Ack: ack, Present: true, Vendor: FileVendor(vendor),
		FileSize: fileSize, LoadAddr: loadAddr, Metadata: meta, LinkedName: linked,
	}, n, nil
}

// SetFileMetadataCommand updates a file's metadata tuple in place.
type SetFileMetadataCommand struct {
	Vendor   FileVendor
	Addr     uint32
	Metadata FileMetadata
	Name     string
}

func (c SetFileMetadataCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 1+4+fileMetadataLen+24)
	payload = append(payload, byte(c.Vendor))
	payload = wire.PutUint32(payload, c.Addr)
	var err error
	payload, err = c.Metadata.Encode(payload)
	if err != nil {
		return nil, err
	}
	name, err := wire.FixedStringCap(23, c.Name)
	if err != nil {
		return nil, err
	}
	payload = name.Encode(payload)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtSetFileMetadata, payload)
}

func RecognizeSetFileMetadataReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtSetFileMetadata)
}

func DecodeSetFileMetadataReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}

// EraseFileCommand deletes a named file owned by vendor.
type EraseFileCommand struct {
	Vendor FileVendor
	Erase  uint8
	Name   string
}

func (c EraseFileCommand) Encode() ([]byte, error) {
	payload := make([]byte, 0, 26)
	payload = append(payload, byte(c.Vendor), c.Erase)
	name, err := wire.FixedStringCap(23, c.Name)
	if err != nil {
		return nil, err
	}
	payload = name.Encode(payload)
	return frame.EncodeExtendedCommand(PrimaryUserCDC, ExtEraseFile, payload)
}

func RecognizeEraseFileReply(data []byte) bool {
	return frame.RecognizeExtendedReply(data, PrimaryUserCDC, ExtEraseFile)
}

func DecodeEraseFileReply(data []byte) (Ack, int, error) {
	r, n, err := frame.DecodeExtendedReply(data)
	if err != nil {
		return 0, 0, err
	}
	return Ack(r.Ack), n, nil
}
