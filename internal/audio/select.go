package audio

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Selection is the resolved input source plus fallback context.
type Selection struct {
	Device   Device
	Warning  string
	Fallback bool
}

// SelectDevice resolves audio.input/audio.fallback preferences against live sources.
func SelectDevice(ctx context.Context, input string, fallback string) (Selection, error) {
	devices, err := ListDevices(ctx)
	if err != nil {
		return Selection{}, err
	}
	return selectFromList(devices, input, fallback)
}

// selectFromList picks the preferred source, falling back when it is muted or
// unavailable. "default" (or empty) names the server default source.
func selectFromList(devices []Device, input string, fallback string) (Selection, error) {
	if len(devices) == 0 {
		return Selection{}, errors.New("no audio input devices found")
	}

	primary, err := resolve(devices, input)
	if err != nil {
		return Selection{}, fmt.Errorf("audio.input: %w", err)
	}
	if primary.Usable() {
		return Selection{Device: primary}, nil
	}

	reason := "unavailable"
	if primary.Muted {
		reason = "muted"
	}

	backup, err := resolve(devices, fallback)
	if err != nil {
		return Selection{}, fmt.Errorf("primary input %q is %s and audio.fallback: %w", primary.ID, reason, err)
	}
	switch {
	case !backup.Available:
		return Selection{}, fmt.Errorf("audio fallback device %q is not available", backup.ID)
	case backup.Muted:
		return Selection{}, fmt.Errorf("audio fallback device %q is muted", backup.ID)
	}

	return Selection{
		Device:   backup,
		Warning:  fmt.Sprintf("audio.input %q is %s; falling back to %q", primary.ID, reason, backup.ID),
		Fallback: primary.ID != backup.ID,
	}, nil
}

// resolve finds the default source or the first source whose id or
// description contains term.
func resolve(devices []Device, term string) (Device, error) {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" || term == "default" {
		for _, dev := range devices {
			if dev.Default {
				return dev, nil
			}
		}
		return Device{}, errors.New("default audio source is unavailable")
	}

	for _, dev := range devices {
		if deviceMatches(dev, term) {
			return dev, nil
		}
	}
	return Device{}, fmt.Errorf("%q did not match any device", term)
}

// deviceMatches reports whether a lower-cased term matches a device id or description.
func deviceMatches(device Device, term string) bool {
	if term == "" {
		return false
	}
	return strings.Contains(strings.ToLower(device.ID), term) ||
		strings.Contains(strings.ToLower(device.Description), term)
}
