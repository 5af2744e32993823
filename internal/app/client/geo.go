package client

import (
	"context"

	"punchclock/internal/domain/punch"
)

// Locator resolves the device's current position. Location capture is
// best effort: a failing locator never blocks a punch.
type Locator interface {
	Current(ctx context.Context) (*punch.GeoLocation, error)
}

// StaticLocator always reports the same position. Fixed installations
// like wall totems and QR kiosks use it.
type StaticLocator struct {
	Location punch.GeoLocation
}

func (l *StaticLocator) Current(_ context.Context) (*punch.GeoLocation, error) {
	loc := l.Location
	return &loc, nil
}

// NopLocator reports no position at all.
type NopLocator struct{}

func (NopLocator) Current(_ context.Context) (*punch.GeoLocation, error) {
	return nil, nil
}
