// Package telemetry republishes decoded V5 device replies into Redis,
// using pkg/redis's WriteAndPublish helpers the way
// pkg/service/redis_handlers.go used them for vehicle telemetry, applied
// here to V5 device telemetry instead.
package telemetry

import (
	"fmt"
	"strconv"

	"github.com/v5kit/v5serial/pkg/packets"
	"github.com/v5kit/v5serial/pkg/redis"
)

// Redis hash keys, one per telemetry surface, mirroring the teacher's
// per-subsystem key-per-hash convention (KeyVehicle, KeyBatterySlot1, ...).
const (
	KeySystem  = "v5:system"
	KeyRadio   = "v5:radio"
	KeyDevices = "v5:devices"
)

// Sink writes decoded replies to Redis hashes and publishes a field-name
// notification on each hash's key.
type Sink struct {
	client *redis.Client
}

// New connects to addr and verifies the connection with a PING.
func New(addr, password string, db int) (*Sink, error) {
	client, err := redis.New(addr, password, db)
	if err != nil {
		return nil, fmt.Errorf("telemetry: %w", err)
	}
	return &Sink{client: client}, nil
}

// Close closes the underlying Redis connection.
func (s *Sink) Close() error {
	return s.client.Close()
}

func (s *Sink) writeAndPublish(key, field, value string) error {
	if err := s.client.WriteAndPublishString(key, field, value); err != nil {
		return fmt.Errorf("telemetry: publish %s.%s: %w", key, field, err)
	}
	return nil
}

// PublishSystemStatus writes a GetSystemStatus reply's fields to KeySystem.
func (s *Sink) PublishSystemStatus(r packets.GetSystemStatusReply) error {
	fields := map[string]string{
		"system-version": r.SystemVersion.String(),
		"cpu0-version":   r.CPU0Version.String(),
		"cpu1-version":   r.CPU1Version.String(),
		"touch-version":  r.TouchVersion.String(),
		"system-id":      strconv.FormatUint(uint64(r.SystemID), 10),
		"unique-id":      strconv.FormatUint(uint64(r.Details.UniqueID), 10),
	}
	for field, value := range fields {
		if err := s.writeAndPublish(KeySystem, field, value); err != nil {
			return err
		}
	}
	return nil
}

// PublishRadioStatus writes a GetRadioStatus reply's fields to KeyRadio.
func (s *Sink) PublishRadioStatus(r packets.GetRadioStatusReply) error {
	fields := map[string]string{
		"quality":   strconv.FormatInt(int64(r.Quality), 10),
		"strength":  strconv.FormatInt(int64(r.Strength), 10),
		"channel":   strconv.FormatUint(uint64(r.Channel), 10),
		"time-slot": strconv.FormatUint(uint64(r.TimeSlot), 10),
	}
	for field, value := range fields {
		if err := s.writeAndPublish(KeyRadio, field, value); err != nil {
			return err
		}
	}
	return nil
}

// PublishDeviceStatus writes a GetDeviceStatus reply's smart-device list to
// KeyDevices, one field per occupied port.
func (s *Sink) PublishDeviceStatus(r packets.GetDeviceStatusReply) error {
	for _, d := range r.Devices {
		field := fmt.Sprintf("port-%d", d.Port)
		value := fmt.Sprintf("type=%d,version=%d,status=%d", d.Type, d.Version, d.Status)
		if err := s.writeAndPublish(KeyDevices, field, value); err != nil {
			return err
		}
	}
	return nil
}
