package wire

import "time"

// J2000Epoch is 2000-01-01T00:00:00Z, the base for every file-metadata
// timestamp field.
var J2000Epoch = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)

// J2000EpochUnix is J2000Epoch expressed as Unix seconds.
const J2000EpochUnix = 946684800

// EncodeTimestamp converts a wall-clock time into the signed 32-bit
// milliseconds-since-J2000 value file metadata carries on the wire.
func EncodeTimestamp(t time.Time) int32 {
	return int32(t.UnixMilli() - J2000EpochUnix*1000)
}

// DecodeTimestamp converts a wire timestamp back into a wall-clock time.
func DecodeTimestamp(v int32) time.Time {
	return time.UnixMilli(int64(v) + J2000EpochUnix*1000).UTC()
}
