// Package script reads JSONL input-session event scripts for offline replay.
package script

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rbright/voxfield/internal/session"
)

// line is one decoded script entry.
type line struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Mode  string `json:"mode"`
	Start *int   `json:"start"`
	End   *int   `json:"end"`
}

// ReadFile parses the script at path.
func ReadFile(path string) ([]session.Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open script %s: %w", path, err)
	}
	defer f.Close()

	events, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return events, nil
}

// Read parses one event per line. Blank lines and lines starting with // are skipped.
func Read(r io.Reader) ([]session.Event, error) {
	var events []session.Event

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for lineNo := 1; scanner.Scan(); lineNo++ {
		raw := bytes.TrimSpace(scanner.Bytes())
		if len(raw) == 0 || bytes.HasPrefix(raw, []byte("//")) {
			continue
		}

		ev, err := parseLine(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read script: %w", err)
	}
	return events, nil
}

func parseLine(raw []byte) (session.Event, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()

	var l line
	if err := dec.Decode(&l); err != nil {
		return session.Event{}, fmt.Errorf("decode event: %w", err)
	}
	if dec.More() {
		return session.Event{}, fmt.Errorf("expected one JSON object per line")
	}

	switch kind := session.EventKind(strings.ToLower(strings.TrimSpace(l.Type))); kind {
	case session.EventText:
		mode, err := session.ParseEventMode(l.Mode)
		if err != nil {
			return session.Event{}, err
		}
		return session.Event{Kind: kind, Text: l.Text, Mode: mode}, nil
	case session.EventType:
		if l.Text == "" {
			return session.Event{}, fmt.Errorf("type event requires text")
		}
		return session.Event{Kind: kind, Text: l.Text}, nil
	case session.EventSelect:
		if l.Start == nil {
			return session.Event{}, fmt.Errorf("select event requires start")
		}
		end := *l.Start
		if l.End != nil {
			end = *l.End
		}
		if *l.Start < 0 || end < 0 {
			return session.Event{}, fmt.Errorf("select bounds must be >= 0")
		}
		return session.Event{Kind: kind, Start: *l.Start, End: end}, nil
	case session.EventResume:
		return session.Event{Kind: kind}, nil
	case "":
		return session.Event{}, fmt.Errorf("event type is required")
	default:
		return session.Event{}, fmt.Errorf("unknown event type %q", l.Type)
	}
}
