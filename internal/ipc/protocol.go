// Package ipc carries input-session commands and host events over a unix socket
// as one JSON object per line.
package ipc

import (
	"fmt"
	"strings"
)

const (
	CommandStatus = "status"
	CommandStop   = "stop"
	CommandCancel = "cancel"
	CommandText   = "text"
	CommandSelect = "select"
	CommandType   = "type"
	CommandResume = "resume"
)

// Request is one client command. Text/Mode apply to text and type commands;
// Start/End apply to select.
type Request struct {
	Command string `json:"command"`
	Text    string `json:"text,omitempty"`
	Mode    string `json:"mode,omitempty"`
	Start   int    `json:"start,omitempty"`
	End     int    `json:"end,omitempty"`
}

// Response is the server reply for one Request.
type Response struct {
	OK      bool   `json:"ok"`
	State   string `json:"state,omitempty"`
	Message string `json:"message,omitempty"`
	Text    string `json:"text,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Validate rejects requests whose payload cannot apply to their command.
func (r Request) Validate() error {
	switch strings.TrimSpace(r.Command) {
	case "":
		return fmt.Errorf("command is required")
	case CommandSelect:
		if r.Start < 0 || r.End < 0 {
			return fmt.Errorf("select bounds must be >= 0 (got %d..%d)", r.Start, r.End)
		}
	case CommandType:
		if r.Text == "" {
			return fmt.Errorf("type requires text")
		}
	}
	return nil
}
