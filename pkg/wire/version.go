package wire

import "fmt"

// Version is the four-field major.minor.build.beta firmware version tuple
// used throughout the packet catalog.
type Version struct {
	Major uint8
	Minor uint8
	Build uint8
	Beta  uint8
}

// Encode appends the wire form (major, minor, build, beta) to dst.
func (v Version) Encode(dst []byte) []byte {
	return append(dst, v.Major, v.Minor, v.Build, v.Beta)
}

// DecodeVersion reads a Version from the front of data in (major, minor,
// build, beta) order, the order every field uses except the SystemStatus
// touch-version field, which is reversed (see packets.DecodeGetSystemStatusReply).
func DecodeVersion(data []byte) (Version, int, error) {
	if len(data) < 4 {
		return Version{}, 0, NewUnexpectedEnd()
	}
	return Version{Major: data[0], Minor: data[1], Build: data[2], Beta: data[3]}, 4, nil
}

// DecodeVersionReversed reads a Version stored beta, build, minor, major —
// the layout SystemStatus uses for its "touch version" field.
func DecodeVersionReversed(data []byte) (Version, int, error) {
	if len(data) < 4 {
		return Version{}, 0, NewUnexpectedEnd()
	}
	return Version{Beta: data[0], Build: data[1], Minor: data[2], Major: data[3]}, 4, nil
}

// String renders the version as "major.minor.build.beta".
func (v Version) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", v.Major, v.Minor, v.Build, v.Beta)
}
