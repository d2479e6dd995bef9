// Package manifest writes the project.ini sidecar UploadProgram uploads
// alongside a VEX program's binaries, following the PROS/vexide manifest
// convention recovered from original_source/examples/upload_program.rs: a
// [project] section naming the build toolchain, and a [program] section
// describing the slot the binary occupies.
package manifest

import (
	"bytes"
	"fmt"

	"github.com/go-ini/ini"
)

// Project describes the toolchain that produced the program, the [project]
// section's sole field in the original manifest.
type Project struct {
	IDE string
}

// Program describes the program slot this manifest accompanies, mirroring
// the original's [program] section.
type Program struct {
	Description string
	Icon        string
	IconAlt     string
	Slot        int
	Name        string
}

// Config is the full project.ini document.
type Config struct {
	Project Project
	Program Program
}

// Encode renders cfg as an INI document, the manifest UploadProgram writes
// to the device alongside the .bin file(s) for a slot.
func Encode(cfg Config) ([]byte, error) {
	f := ini.Empty()

	project, err := f.NewSection("project")
	if err != nil {
		return nil, fmt.Errorf("manifest: new project section: %w", err)
	}
	if _, err := project.NewKey("ide", cfg.Project.IDE); err != nil {
		return nil, fmt.Errorf("manifest: set ide: %w", err)
	}

	program, err := f.NewSection("program")
	if err != nil {
		return nil, fmt.Errorf("manifest: new program section: %w", err)
	}
	for k, v := range map[string]string{
		"description": cfg.Program.Description,
		"icon":        cfg.Program.Icon,
		"iconalt":     cfg.Program.IconAlt,
		"slot":        fmt.Sprintf("%d", cfg.Program.Slot),
		"name":        cfg.Program.Name,
	} {
		if _, err := program.NewKey(k, v); err != nil {
			return nil, fmt.Errorf("manifest: set %s: %w", k, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("manifest: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses an existing project.ini document, used to inspect a slot
// that's already occupied before overwriting it.
func Decode(data []byte) (Config, error) {
	f, err := ini.Load(data)
	if err != nil {
		return Config{}, fmt.Errorf("manifest: decode: %w", err)
	}
	var cfg Config
	if s, err := f.GetSection("project"); err == nil {
		cfg.Project.IDE = s.Key("ide").String()
	}
	if s, err := f.GetSection("program"); err == nil {
		cfg.Program.Description = s.Key("description").String()
		cfg.Program.Icon = s.Key("icon").String()
		cfg.Program.IconAlt = s.Key("iconalt").String()
		cfg.Program.Slot, _ = s.Key("slot").Int()
		cfg.Program.Name = s.Key("name").String()
	}
	return cfg, nil
}
