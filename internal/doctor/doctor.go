// Package doctor runs readiness diagnostics for config, desktop tools, audio,
// and the speech recognizer.
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rbright/voxfield/internal/audio"
	"github.com/rbright/voxfield/internal/config"
	"github.com/rbright/voxfield/internal/hypr"
	"github.com/rbright/voxfield/internal/recognizer"
)

// Check is one doctor assertion result.
type Check struct {
	Name    string
	Pass    bool
	Message string
}

// Report is the full doctor output.
type Report struct {
	Checks []Check
}

// OK returns true when all checks pass.
func (r Report) OK() bool {
	for _, check := range r.Checks {
		if !check.Pass {
			return false
		}
	}
	return true
}

// String renders the report as user-facing text output.
func (r Report) String() string {
	var b strings.Builder
	for _, check := range r.Checks {
		status := "OK"
		if !check.Pass {
			status = "FAIL"
		}
		fmt.Fprintf(&b, "[%s] %s: %s\n", status, check.Name, check.Message)
	}
	return strings.TrimSuffix(b.String(), "\n")
}

// Run executes environment/config/runtime checks for a loaded config.
func Run(ctx context.Context, loaded config.Loaded) Report {
	cfg := loaded.Config
	checks := []Check{checkConfig(loaded), checkText(cfg.Text)}

	checks = append(checks, checkEnv("XDG_SESSION_TYPE", func(v string) bool {
		return strings.EqualFold(strings.TrimSpace(v), "wayland")
	}, "session type is wayland", "expected XDG_SESSION_TYPE=wayland"))

	checks = append(checks, checkCommand(cfg.Clipboard.Argv, "clipboard_cmd"))

	if cfg.Paste.Enable {
		if len(cfg.PasteCmd.Argv) > 0 {
			checks = append(checks, checkCommand(cfg.PasteCmd.Argv, "paste_cmd"))
		} else {
			checks = append(checks,
				checkEnv("HYPRLAND_INSTANCE_SIGNATURE", func(v string) bool {
					return strings.TrimSpace(v) != ""
				}, "Hyprland session detected", "HYPRLAND_INSTANCE_SIGNATURE is empty"),
				checkBinary(hypr.Binary, "default paste path requires hyprctl"),
			)
		}
	}

	checks = append(checks, checkAudioSelection(ctx, cfg.Audio))
	checks = append(checks, checkRecognizer(ctx, cfg.Recognizer))

	return Report{Checks: checks}
}

func checkConfig(loaded config.Loaded) Check {
	message := fmt.Sprintf("loaded %q", loaded.Path)
	if !loaded.Exists {
		message = fmt.Sprintf("%q not found; using defaults", loaded.Path)
	}
	if n := len(loaded.Warnings); n > 0 {
		message += fmt.Sprintf(" (%d warning(s))", n)
	}
	return Check{Name: "config", Pass: true, Message: message}
}

// checkText validates the normalizer settings the session will run with.
func checkText(cfg config.TextConfig) Check {
	opts, err := cfg.NormalizerOptions()
	if err != nil {
		return Check{Name: "text", Pass: false, Message: err.Error()}
	}
	return Check{Name: "text", Pass: true, Message: fmt.Sprintf(
		"auto_capitalize=%t insert_lookahead=%s normalize_unicode=%t",
		opts.AutoCapitalize, opts.InsertPolicy, opts.NormalizeUnicode,
	)}
}

// checkEnv validates an environment variable through a caller-supplied predicate.
func checkEnv(name string, predicate func(string) bool, okMsg, failMsg string) Check {
	if predicate(os.Getenv(name)) {
		return Check{Name: name, Pass: true, Message: okMsg}
	}
	return Check{Name: name, Pass: false, Message: failMsg}
}

// checkCommand validates that argv contains a runnable command.
func checkCommand(argv []string, name string) Check {
	if len(argv) == 0 {
		return Check{Name: name, Pass: false, Message: "command is empty"}
	}
	return checkBinary(argv[0], fmt.Sprintf("%s command is available", name))
}

// checkBinary validates that a binary exists in PATH.
func checkBinary(bin string, okMsg string) Check {
	path, err := exec.LookPath(bin)
	if err != nil {
		return Check{Name: bin, Pass: false, Message: fmt.Sprintf("binary not found in PATH: %s", bin)}
	}
	return Check{Name: bin, Pass: true, Message: fmt.Sprintf("found at %s (%s)", path, okMsg)}
}

// checkAudioSelection runs live source selection to surface fallback issues.
func checkAudioSelection(ctx context.Context, cfg config.AudioConfig) Check {
	selection, err := audio.SelectDevice(ctx, cfg.Input, cfg.Fallback)
	if err != nil {
		return Check{Name: "audio.device", Pass: false, Message: err.Error()}
	}
	message := fmt.Sprintf("selected %q", selection.Device.ID)
	if selection.Warning != "" {
		message += " (" + selection.Warning + ")"
	}
	return Check{Name: "audio.device", Pass: true, Message: message}
}

// checkRecognizer probes the recognizer gRPC endpoint.
func checkRecognizer(ctx context.Context, cfg config.RecognizerConfig) Check {
	ready, err := recognizer.Probe(ctx, cfg.GRPC, cfg.ReadyTimeout())
	if err != nil {
		return Check{Name: "recognizer.grpc", Pass: false, Message: err.Error()}
	}
	return Check{Name: "recognizer.grpc", Pass: true, Message: fmt.Sprintf(
		"ready at %s (health %s, %dms)", ready.Endpoint, ready.Health, ready.Latency.Milliseconds(),
	)}
}
