// Package cli parses voxfield command-line arguments.
package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/rbright/voxfield/internal/textnorm"
)

type Command string

const (
	CommandServe   Command = "serve"
	CommandText    Command = "text"
	CommandSelect  Command = "select"
	CommandType    Command = "type"
	CommandResume  Command = "resume"
	CommandStop    Command = "stop"
	CommandCancel  Command = "cancel"
	CommandStatus  Command = "status"
	CommandReplay  Command = "replay"
	CommandDevices Command = "devices"
	CommandDoctor  Command = "doctor"
	CommandVersion Command = "version"
	CommandHelp    Command = "help"
)

// commandArgs parses the arguments following a command into parsed.
type commandArgs func(parsed *Parsed, args []string) error

var validCommands = map[Command]commandArgs{
	CommandServe:   noArgs,
	CommandText:    parseTextArgs,
	CommandSelect:  parseSelectArgs,
	CommandType:    parseTypeArgs,
	CommandResume:  noArgs,
	CommandStop:    noArgs,
	CommandCancel:  noArgs,
	CommandStatus:  noArgs,
	CommandReplay:  parseReplayArgs,
	CommandDevices: noArgs,
	CommandDoctor:  noArgs,
	CommandVersion: noArgs,
	CommandHelp:    noArgs,
}

// Parsed is the resolved invocation. Text/Mode serve text and type, Start/End
// serve select, and ScriptPath serves replay.
type Parsed struct {
	Command    Command
	ConfigPath string
	ShowHelp   bool

	Text       string
	Mode       string
	Start      int
	End        int
	ScriptPath string
}

func Parse(args []string) (Parsed, error) {
	parsed := Parsed{Command: CommandHelp, ShowHelp: true}

	for i := 0; i < len(args); i++ {
		arg := args[i]

		switch arg {
		case "-h", "--help":
			parsed.ShowHelp = true
			parsed.Command = CommandHelp
		case "--version":
			parsed.ShowHelp = false
			parsed.Command = CommandVersion
		case "--config":
			i++
			if i >= len(args) {
				return Parsed{}, errors.New("--config requires a path")
			}
			parsed.ConfigPath = args[i]
		default:
			if strings.HasPrefix(arg, "-") {
				return Parsed{}, fmt.Errorf("unknown flag: %s", arg)
			}

			cmd := Command(arg)
			parseArgs, ok := validCommands[cmd]
			if !ok {
				return Parsed{}, fmt.Errorf("unknown command: %s", arg)
			}

			parsed.Command = cmd
			parsed.ShowHelp = cmd == CommandHelp
			if err := parseArgs(&parsed, args[i+1:]); err != nil {
				return Parsed{}, fmt.Errorf("%s: %w", cmd, err)
			}
			return parsed, nil
		}
	}

	return parsed, nil
}

func noArgs(parsed *Parsed, args []string) error {
	if len(args) > 0 {
		return fmt.Errorf("unexpected arguments after command %q", parsed.Command)
	}
	return nil
}

func parseTextArgs(parsed *Parsed, args []string) error {
	var words []string
	for i := 0; i < len(args); i++ {
		switch arg := args[i]; {
		case arg == "--":
			words = append(words, args[i+1:]...)
			i = len(args)
		case arg == "--mode":
			i++
			if i >= len(args) {
				return errors.New("--mode requires a value")
			}
			if _, err := textnorm.ParseMode(args[i]); err != nil {
				return err
			}
			parsed.Mode = strings.ToLower(args[i])
		case strings.HasPrefix(arg, "--mode="):
			value := strings.TrimPrefix(arg, "--mode=")
			if _, err := textnorm.ParseMode(value); err != nil {
				return err
			}
			parsed.Mode = strings.ToLower(value)
		case strings.HasPrefix(arg, "-") && len(words) == 0:
			return fmt.Errorf("unknown flag: %s", arg)
		default:
			words = append(words, arg)
		}
	}
	if len(words) == 0 {
		return errors.New("requires recognized text")
	}
	parsed.Text = strings.Join(words, " ")
	return nil
}

func parseTypeArgs(parsed *Parsed, args []string) error {
	if len(args) > 0 && args[0] == "--" {
		args = args[1:]
	}
	text := strings.Join(args, " ")
	if text == "" {
		return errors.New("requires text to type")
	}
	parsed.Text = text
	return nil
}

func parseSelectArgs(parsed *Parsed, args []string) error {
	if len(args) == 0 || len(args) > 2 {
		return errors.New("usage: select START [END]")
	}

	start, err := parseOffset("START", args[0])
	if err != nil {
		return err
	}
	end := start
	if len(args) == 2 {
		if end, err = parseOffset("END", args[1]); err != nil {
			return err
		}
	}
	parsed.Start, parsed.End = start, end
	return nil
}

func parseOffset(name, raw string) (int, error) {
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer (got %q)", name, raw)
	}
	return value, nil
}

func parseReplayArgs(parsed *Parsed, args []string) error {
	if len(args) != 1 || strings.TrimSpace(args[0]) == "" {
		return errors.New("usage: replay FILE")
	}
	parsed.ScriptPath = args[0]
	return nil
}

func HelpText(binaryName string) string {
	return fmt.Sprintf(`Usage:
  %[1]s [--config PATH] <command> [args]

Commands:
  serve                     Own an input session until stop or cancel
  text [--mode M] WORDS...  Deliver a recognized chunk (standard|partial|final|insert)
  select START [END]        Move the cursor or select a range
  type WORDS...             Simulate the user typing at the cursor
  resume                    Resume the session and resync on the next chunk
  status                    Print the session phase and field text
  stop                      End the session and commit the field text
  cancel                    End the session and discard the field text
  replay FILE               Run a JSONL event script offline and print the field
  devices                   List available input devices
  doctor                    Run configuration and environment checks
  version                   Print version information
  help                      Show this help

Flags:
  --config PATH   Config file path (default: $XDG_CONFIG_HOME/voxfield/config.jsonc)
  -h, --help      Show help
  --version       Show version
`, binaryName)
}
