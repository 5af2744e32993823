package punch

import (
	"fmt"

	"github.com/danielgtaylor/huma/v2"
)

type Type string

const (
	TypeCheckIn    Type = "check-in"
	TypeBreakStart Type = "break-start"
	TypeBreakEnd   Type = "break-end"
	TypeCheckOut   Type = "check-out"
)

func (Type) Schema() huma.Schema {
	return huma.Schema{
		Type: "string",
		Enum: []any{
			string(TypeCheckIn),
			string(TypeBreakStart),
			string(TypeBreakEnd),
			string(TypeCheckOut),
		},
		Description: "Punch event type",
		Examples:    []any{TypeCheckIn},
	}
}

// Validate implements the huma.Validatable interface.
func (t Type) Validate() error {
	switch t {
	case TypeCheckIn, TypeBreakStart, TypeBreakEnd, TypeCheckOut:
		return nil
	}
	return fmt.Errorf("%w: unknown punch type %q", ErrInvalidRecord, string(t))
}

// String returns the wire representation of the type.
func (t Type) String() string {
	return string(t)
}

// DisplayName returns a human-readable label for the type.
func (t Type) DisplayName() string {
	switch t {
	case TypeCheckIn:
		return "Check in"
	case TypeBreakStart:
		return "Break start"
	case TypeBreakEnd:
		return "Break end"
	case TypeCheckOut:
		return "Check out"
	default:
		return "Unknown"
	}
}

type Device string

const (
	DeviceWeb    Device = "web"
	DeviceMobile Device = "mobile"
	DeviceTotem  Device = "totem"
	DeviceQRCode Device = "qrcode"
)

func (Device) Schema() huma.Schema {
	return huma.Schema{
		Type: "string",
		Enum: []any{
			string(DeviceWeb),
			string(DeviceMobile),
			string(DeviceTotem),
			string(DeviceQRCode),
		},
		Description: "Device the punch was recorded from",
		Examples:    []any{DeviceWeb},
	}
}

// Validate implements the huma.Validatable interface.
func (d Device) Validate() error {
	switch d {
	case DeviceWeb, DeviceMobile, DeviceTotem, DeviceQRCode:
		return nil
	}
	return fmt.Errorf("%w: unknown device %q", ErrInvalidRecord, string(d))
}

// String returns the wire representation of the device.
func (d Device) String() string {
	return string(d)
}
