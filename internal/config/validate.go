package config

import (
	"fmt"
	"strings"
)

// Validate enforces config invariants and returns non-fatal warnings.
func Validate(cfg Config) ([]Warning, error) {
	warnings := make([]Warning, 0)

	if strings.TrimSpace(cfg.Recognizer.GRPC) == "" {
		return nil, fmt.Errorf("recognizer.grpc must not be empty")
	}
	if cfg.Recognizer.ReadyTimeoutMS <= 0 {
		return nil, fmt.Errorf("recognizer.ready_timeout_ms must be > 0")
	}
	if _, err := cfg.Text.NormalizerOptions(); err != nil {
		return nil, fmt.Errorf("text.insert_lookahead: %w", err)
	}
	if len(cfg.Clipboard.Argv) == 0 {
		return nil, fmt.Errorf("clipboard_cmd must not be empty")
	}

	if cfg.Paste.Enable && cfg.PasteCmd.Raw != "" && len(cfg.PasteCmd.Argv) == 0 {
		return nil, fmt.Errorf("paste_cmd is configured but empty")
	}
	if cfg.Paste.Enable && len(cfg.PasteCmd.Argv) == 0 && strings.TrimSpace(cfg.Paste.Shortcut) == "" {
		return nil, fmt.Errorf("paste.shortcut must not be empty when paste.enable=true and paste_cmd is unset")
	}

	if cfg.Paste.Enable && len(cfg.PasteCmd.Argv) > 0 && cfg.Paste.Shortcut != Default().Paste.Shortcut {
		warnings = append(warnings, Warning{Message: "paste.shortcut is ignored while paste_cmd is set"})
	}

	return warnings, nil
}
