// Package app wires parsed commands to sessions, IPC forwarding, and diagnostics.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/rbright/voxfield/internal/audio"
	"github.com/rbright/voxfield/internal/cli"
	"github.com/rbright/voxfield/internal/config"
	"github.com/rbright/voxfield/internal/doctor"
	"github.com/rbright/voxfield/internal/ipc"
	"github.com/rbright/voxfield/internal/logging"
	"github.com/rbright/voxfield/internal/output"
	"github.com/rbright/voxfield/internal/recognizer"
	"github.com/rbright/voxfield/internal/script"
	"github.com/rbright/voxfield/internal/session"
	"github.com/rbright/voxfield/internal/version"
)

const forwardTimeout = 220 * time.Millisecond

type Runner struct {
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger
}

func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	r := Runner{Stdout: stdout, Stderr: stderr}
	return r.Execute(ctx, args)
}

func (r Runner) Execute(ctx context.Context, args []string) int {
	parsed, err := cli.Parse(args)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n\n", err)
		fmt.Fprint(r.Stderr, cli.HelpText("voxfield"))
		return 2
	}

	if parsed.ShowHelp {
		fmt.Fprint(r.Stdout, cli.HelpText("voxfield"))
		return 0
	}

	if parsed.Command == cli.CommandVersion {
		fmt.Fprintln(r.Stdout, version.String())
		return 0
	}

	logRuntime, err := logging.New()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = logRuntime.Close() }()

	logger := r.Logger
	if logger == nil {
		logger = logRuntime.Logger
	}

	cfgLoaded, err := config.Load(parsed.ConfigPath)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		logger.Error("load config failed", "error", err.Error())
		return 1
	}
	for _, w := range cfgLoaded.Warnings {
		msg := w.Message
		if w.Line > 0 {
			msg = fmt.Sprintf("line %d: %s", w.Line, w.Message)
		}
		fmt.Fprintf(r.Stderr, "warning: %s\n", msg)
		logger.Warn("config warning", "line", w.Line, "message", w.Message)
	}

	logger.Info("command start",
		"command", parsed.Command,
		"config", cfgLoaded.Path,
		"log", logRuntime.Path,
	)

	switch parsed.Command {
	case cli.CommandDoctor:
		report := doctor.Run(ctx, cfgLoaded)
		fmt.Fprintln(r.Stdout, report.String())
		if report.OK() {
			return 0
		}
		return 1
	case cli.CommandDevices:
		return r.commandDevices(ctx)
	case cli.CommandStatus:
		return r.commandStatus(ctx)
	case cli.CommandServe:
		return r.commandServe(ctx, cfgLoaded.Config, logger)
	case cli.CommandReplay:
		return r.commandReplay(cfgLoaded.Config, logger, parsed.ScriptPath)
	case cli.CommandStop, cli.CommandCancel, cli.CommandResume:
		return r.forwardOrFail(ctx, ipc.Request{Command: string(parsed.Command)}, false)
	case cli.CommandText:
		return r.forwardOrFail(ctx, ipc.Request{Command: ipc.CommandText, Text: parsed.Text, Mode: parsed.Mode}, true)
	case cli.CommandType:
		return r.forwardOrFail(ctx, ipc.Request{Command: ipc.CommandType, Text: parsed.Text}, true)
	case cli.CommandSelect:
		return r.forwardOrFail(ctx, ipc.Request{Command: ipc.CommandSelect, Start: parsed.Start, End: parsed.End}, true)
	default:
		fmt.Fprintf(r.Stderr, "error: unsupported command %q\n", parsed.Command)
		return 2
	}
}

func (r Runner) commandDevices(ctx context.Context) int {
	devices, err := audio.ListDevices(ctx)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if len(devices) == 0 {
		fmt.Fprintln(r.Stdout, "no audio devices found")
		return 1
	}

	for _, device := range devices {
		fmt.Fprintln(r.Stdout, formatDevice(device))
	}
	return 0
}

func formatDevice(device audio.Device) string {
	yesNo := func(v bool) string {
		if v {
			return "yes"
		}
		return "no"
	}
	defaultMark := " "
	if device.Default {
		defaultMark = "*"
	}
	return fmt.Sprintf(
		"%s id=%s | description=%q | state=%s | available=%s | muted=%s",
		defaultMark,
		device.ID,
		device.Description,
		device.State,
		yesNo(device.Available),
		yesNo(device.Muted),
	)
}

func (r Runner) commandStatus(ctx context.Context) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}

	resp, handled, err := tryForward(ctx, socketPath, ipc.Request{Command: ipc.CommandStatus})
	if !handled {
		fmt.Fprintln(r.Stdout, "idle")
		return 0
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if resp.State == "" {
		resp.State = "idle"
	}
	fmt.Fprintln(r.Stdout, resp.State)
	if resp.Text != "" {
		fmt.Fprintf(r.Stdout, "text: %q\n", resp.Text)
	}
	return 0
}

// forwardOrFail sends req to the active session. printText echoes the field
// contents returned by event commands.
func (r Runner) forwardOrFail(ctx context.Context, req ipc.Request, printText bool) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	resp, handled, err := tryForward(ctx, socketPath, req)
	if !handled {
		fmt.Fprintf(r.Stderr, "error: no active voxfield session\n")
		return 1
	}
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	switch {
	case printText:
		fmt.Fprintln(r.Stdout, resp.Text)
	case resp.Message != "":
		fmt.Fprintln(r.Stdout, resp.Message)
	}
	return 0
}

// newController builds a session over an empty field from runtime config.
func newController(cfg config.Config, logger *slog.Logger, committer session.Committer) (*session.Controller, error) {
	opts, err := cfg.Text.NormalizerOptions()
	if err != nil {
		return nil, fmt.Errorf("text options: %w", err)
	}
	return session.NewController(logger, nil, recognizer.Spacing(cfg.Recognizer), opts, committer), nil
}

func (r Runner) commandServe(ctx context.Context, cfg config.Config, logger *slog.Logger) int {
	socketPath, err := ipc.RuntimeSocketPath()
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	controller, err := newController(cfg, logger, output.NewCommitter(cfg, logger))
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	listener, err := ipc.Acquire(ctx, socketPath, 180*time.Millisecond, 8, func(context.Context) error {
		logger.Warn("reclaimed stale session socket", "socket", socketPath)
		return nil
	})
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	defer func() {
		_ = listener.Close()
		_ = os.Remove(socketPath)
	}()

	serverCtx, serverCancel := context.WithCancel(ctx)
	defer serverCancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- ipc.Serve(serverCtx, listener, controller)
	}()
	logger.Info("session serving", "socket", socketPath)

	result := controller.Run(ctx)
	serverCancel()
	if serverErr := <-serverErrCh; serverErr != nil {
		fmt.Fprintf(r.Stderr, "error: ipc server failed: %v\n", serverErr)
		return 1
	}

	logSessionResult(logger, result)

	if result.Cancelled {
		fmt.Fprintln(r.Stdout, "cancelled")
		return 0
	}
	if result.Err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", result.Err)
		return 1
	}
	fmt.Fprintln(r.Stdout, result.Text)
	return 0
}

func (r Runner) commandReplay(cfg config.Config, logger *slog.Logger, path string) int {
	events, err := script.ReadFile(path)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	controller, err := newController(cfg, logger, nil)
	if err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}
	if err := controller.Replay(events); err != nil {
		fmt.Fprintf(r.Stderr, "error: %v\n", err)
		return 1
	}

	status := controller.Status()
	logger.Info("replay complete", "script", path, "events", status.Events, "phase", string(status.Phase))
	fmt.Fprintln(r.Stdout, status.Text)
	return 0
}

func logSessionResult(logger *slog.Logger, result session.Result) {
	if logger == nil {
		return
	}
	fields := []any{
		"state", result.State,
		"cancelled", result.Cancelled,
		"events", result.Events,
		"started_at", result.StartedAt.Format(time.RFC3339Nano),
		"finished_at", result.FinishedAt.Format(time.RFC3339Nano),
		"duration_ms", result.FinishedAt.Sub(result.StartedAt).Milliseconds(),
		"text_length", len([]rune(result.Text)),
	}

	if result.Err != nil {
		logger.Error("session failed", append(fields, "error", result.Err.Error())...)
		return
	}
	logger.Info("session complete", fields...)
}

// tryForward reports handled=false when no session owns socketPath.
func tryForward(ctx context.Context, socketPath string, req ipc.Request) (ipc.Response, bool, error) {
	resp, err := ipc.Send(ctx, socketPath, req, forwardTimeout)
	if err == nil {
		if resp.OK {
			return resp, true, nil
		}
		return resp, true, errors.New(resp.Error)
	}
	if ipc.IsNoListener(err) {
		return ipc.Response{}, false, nil
	}
	return ipc.Response{}, true, fmt.Errorf("forward command %q: %w", req.Command, err)
}
