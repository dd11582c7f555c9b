// Package output hands the final field text to the desktop: clipboard first,
// then an optional paste into the focused window.
package output

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"time"

	"github.com/rbright/voxfield/internal/config"
)

const (
	clipboardTimeout = 2 * time.Second
	pasteCmdTimeout  = 2 * time.Second
	shortcutTimeout  = 1200 * time.Millisecond
)

// Committer writes committed text to the clipboard and optionally pastes it.
type Committer struct {
	clipboard []string
	pasteCmd  []string
	paste     config.PasteConfig
	logger    *slog.Logger
}

// NewCommitter builds a committer from runtime config.
func NewCommitter(cfg config.Config, logger *slog.Logger) *Committer {
	return &Committer{
		clipboard: cfg.Clipboard.Argv,
		pasteCmd:  cfg.PasteCmd.Argv,
		paste:     cfg.Paste,
		logger:    logger,
	}
}

// Commit sets the clipboard to text. Paste failures are logged, never returned,
// since the clipboard already holds the text.
func (c *Committer) Commit(ctx context.Context, text string) error {
	if text == "" {
		return nil
	}

	clipboardCtx, cancel := context.WithTimeout(ctx, clipboardTimeout)
	defer cancel()
	if err := runCommandWithInput(clipboardCtx, c.clipboard, text); err != nil {
		return fmt.Errorf("set clipboard: %w", err)
	}

	if !c.paste.Enable {
		return nil
	}
	if err := c.dispatchPaste(ctx); err != nil && c.logger != nil {
		c.logger.Error("paste dispatch failed; clipboard remains set", "error", err.Error())
	}
	return nil
}

// dispatchPaste prefers paste_cmd and falls back to a Hyprland shortcut.
func (c *Committer) dispatchPaste(ctx context.Context) error {
	if len(c.pasteCmd) > 0 {
		pasteCtx, cancel := context.WithTimeout(ctx, pasteCmdTimeout)
		defer cancel()
		return runCommandWithInput(pasteCtx, c.pasteCmd, "")
	}

	pasteCtx, cancel := context.WithTimeout(ctx, shortcutTimeout)
	defer cancel()
	return defaultPaste(pasteCtx, c.paste.Shortcut)
}

// runCommandWithInput executes argv, writing input to its stdin when non-empty.
func runCommandWithInput(ctx context.Context, argv []string, input string) error {
	if len(argv) == 0 {
		return fmt.Errorf("command argv cannot be empty")
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("open stdin for %s: %w", argv[0], err)
	}
	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start command %s: %w", argv[0], err)
	}

	if input != "" {
		if _, err := stdin.Write([]byte(input)); err != nil {
			_ = stdin.Close()
			_ = cmd.Wait()
			return fmt.Errorf("write stdin for %s: %w", argv[0], err)
		}
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait for %s: %w", argv[0], err)
	}
	return nil
}
