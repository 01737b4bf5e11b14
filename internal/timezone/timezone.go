// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package timezone provides pure conversion helpers between stored UTC
// instants and a named display zone. Persisted instants are always UTC;
// these helpers are used only when formatting responses.
package timezone

import (
	"fmt"
	"time"
)

// Display formats used in API responses.
const (
	DateTimeFormat = "2006-01-02 15:04"
	DateFormat     = "2006-01-02"
	USDateFormat   = "01/02/2006"
	Time12Format   = "3:04 PM"
)

// Localize converts a stored UTC instant to the named zone.
func Localize(utc time.Time, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone %q: %w", zone, err)
	}
	return utc.In(loc), nil
}

// ToUTC interprets a wall-clock instant in the named zone and returns the
// corresponding UTC instant.
func ToUTC(local time.Time, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("load zone %q: %w", zone, err)
	}
	return time.Date(
		local.Year(), local.Month(), local.Day(),
		local.Hour(), local.Minute(), local.Second(), local.Nanosecond(),
		loc,
	).UTC(), nil
}

// FormatInZone localizes a UTC instant and formats it with layout. An
// unknown zone falls back to UTC rather than failing a response.
func FormatInZone(utc time.Time, zone, layout string) string {
	local, err := Localize(utc, zone)
	if err != nil {
		local = utc
	}
	return local.Format(layout)
}
