// Package hypr wraps the hyprctl calls used to paste committed text.
package hypr

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// Binary is the Hyprland control CLI.
const Binary = "hyprctl"

// ActiveWindow identifies the window that receives the paste shortcut.
type ActiveWindow struct {
	Address string `json:"address"`
	Class   string `json:"class"`
}

// QueryActiveWindow asks hyprctl for the focused window; an empty address is an error.
func QueryActiveWindow(ctx context.Context) (ActiveWindow, error) {
	output, err := run(ctx, "-j", "activewindow")
	if err != nil {
		return ActiveWindow{}, err
	}

	var window ActiveWindow
	if err := json.Unmarshal(output, &window); err != nil {
		return ActiveWindow{}, fmt.Errorf("decode hyprctl activewindow json: %w", err)
	}
	window.Address = strings.TrimSpace(window.Address)
	window.Class = strings.TrimSpace(window.Class)
	if window.Address == "" {
		return ActiveWindow{}, fmt.Errorf("hyprctl activewindow returned empty address")
	}
	return window, nil
}

// SendShortcut dispatches a literal sendshortcut payload such as "CTRL,V,address:0x1".
func SendShortcut(ctx context.Context, payload string) error {
	payload = strings.TrimSpace(payload)
	if payload == "" {
		return fmt.Errorf("sendshortcut requires a non-empty payload")
	}
	_, err := run(ctx, "--quiet", "dispatch", "sendshortcut", payload)
	return err
}

// run executes hyprctl and folds its combined output into failures.
func run(ctx context.Context, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, Binary, args...).CombinedOutput()
	if err != nil {
		if trimmed := strings.TrimSpace(string(out)); trimmed != "" {
			return nil, fmt.Errorf("hyprctl %v failed: %w (%s)", args, err, trimmed)
		}
		return nil, fmt.Errorf("hyprctl %v failed: %w", args, err)
	}
	return out, nil
}
