package transfer

import (
	"fmt"

	"github.com/v5kit/v5serial/pkg/connection"
	"github.com/v5kit/v5serial/pkg/manifest"
	"github.com/v5kit/v5serial/pkg/packets"
)

// Load addresses from spec.md §6.
const (
	UserProgramLoadAddr uint32 = 0x03800000
	ProsHotBinLoadAddr  uint32 = 0x07800000
)

// Program describes one VEX program-slot upload: a manifest plus one
// monolithic binary, or a hot/cold pair sharing a slot.
type Program struct {
	Slot        int
	Manifest    manifest.Config
	Cold        []byte
	Hot         []byte
	AfterUpload packets.AfterUpload
	Compress    bool
}

func slotBinName(slot int) string    { return fmt.Sprintf("slot_%d.bin", slot) }
func slotLibName(slot int) string    { return fmt.Sprintf("slot_%d_lib.bin", slot) }
func slotManifestName(slot int) string { return fmt.Sprintf("slot_%d.ini", slot) }

// UploadProgram implements spec.md §4.5's UploadProgram: an .ini manifest
// upload plus one or two .bin uploads. When both hot and cold binaries are
// present, cold goes first to ProsHotBinLoadAddr with AfterUploadDoNothing,
// then hot goes to UserProgramLoadAddr linked to the cold binary's name
// with the caller's chosen after-upload action. A monolith (Cold empty)
// goes to UserProgramLoadAddr with no link.
func UploadProgram(conn *connection.Connection, transport connection.Transport, p Program, progress ProgressFunc) error {
	p.Manifest.Program.Slot = p.Slot
	iniBytes, err := manifest.Encode(p.Manifest)
	if err != nil {
		return fmt.Errorf("transfer: encode manifest: %w", err)
	}

	if err := UploadFile(conn, transport, UploadRequest{
		Name:        slotManifestName(p.Slot),
		Vendor:      packets.VendorUser,
		Target:      packets.TargetFlash,
		Addr:        UserProgramLoadAddr,
		Data:        iniBytes,
		AfterUpload: packets.AfterUploadDoNothing,
		Compress:    p.Compress,
	}, progress); err != nil {
		return fmt.Errorf("transfer: upload manifest: %w", err)
	}

	if len(p.Cold) > 0 {
		if err := UploadFile(conn, transport, UploadRequest{
			Name:        slotLibName(p.Slot),
			Vendor:      packets.VendorUser,
			Target:      packets.TargetFlash,
			Addr:        ProsHotBinLoadAddr,
			Data:        p.Cold,
			AfterUpload: packets.AfterUploadDoNothing,
			Compress:    p.Compress,
		}, progress); err != nil {
			return fmt.Errorf("transfer: upload cold binary: %w", err)
		}

		if err := UploadFile(conn, transport, UploadRequest{
			Name:        slotBinName(p.Slot),
			Vendor:      packets.VendorUser,
			Target:      packets.TargetFlash,
			Addr:        UserProgramLoadAddr,
			Data:        p.Hot,
			LinkedFile:  slotLibName(p.Slot),
			AfterUpload: p.AfterUpload,
			Compress:    p.Compress,
		}, progress); err != nil {
			return fmt.Errorf("transfer: upload hot binary: %w", err)
		}
		return nil
	}

	if err := UploadFile(conn, transport, UploadRequest{
		Name:        slotBinName(p.Slot),
		Vendor:      packets.VendorUser,
		Target:      packets.TargetFlash,
		Addr:        UserProgramLoadAddr,
		Data:        p.Hot,
		AfterUpload: p.AfterUpload,
		Compress:    p.Compress,
	}, progress); err != nil {
		return fmt.Errorf("transfer: upload monolith binary: %w", err)
	}
	return nil
}
