package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

type jsoncConfig struct {
	Recognizer *jsoncRecognizer `json:"recognizer"`
	Text       *jsoncText       `json:"text"`
	Audio      *jsoncAudio      `json:"audio"`
	Paste      *jsoncPaste      `json:"paste"`

	ClipboardCmd *string `json:"clipboard_cmd"`
	PasteCmd     *string `json:"paste_cmd"`
}

type jsoncRecognizer struct {
	GRPC           *string `json:"grpc"`
	AddsSpaces     *bool   `json:"adds_spaces"`
	ReadyTimeoutMS *int    `json:"ready_timeout_ms"`
}

type jsoncText struct {
	AutoCapitalize   *bool   `json:"auto_capitalize"`
	InsertLookahead  *string `json:"insert_lookahead"`
	NormalizeUnicode *bool   `json:"normalize_unicode"`
}

type jsoncAudio struct {
	Input    *string `json:"input"`
	Fallback *string `json:"fallback"`
}

type jsoncPaste struct {
	Enable   *bool   `json:"enable"`
	Shortcut *string `json:"shortcut"`
}

// Parse reads JSONC configuration content layered over base.
//
// Empty content yields base unchanged; anything else must be one JSON object.
func Parse(content string, base Config) (Config, []Warning, error) {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" {
		warnings, err := Validate(base)
		if err != nil {
			return Config{}, nil, err
		}
		return base, warnings, nil
	}

	normalized, err := normalizeJSONC(content)
	if err != nil {
		return Config{}, nil, err
	}
	if !strings.HasPrefix(strings.TrimSpace(normalized), "{") {
		return Config{}, nil, errors.New("config must be a JSONC object")
	}

	decoder := json.NewDecoder(strings.NewReader(normalized))
	decoder.DisallowUnknownFields()

	var payload jsoncConfig
	if err := decoder.Decode(&payload); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}
	if err := ensureSingleJSONValue(decoder); err != nil {
		return Config{}, nil, wrapJSONDecodeError(normalized, err)
	}

	cfg := base
	if err := payload.applyTo(&cfg); err != nil {
		return Config{}, nil, err
	}

	warnings, err := Validate(cfg)
	if err != nil {
		return Config{}, nil, err
	}
	return cfg, warnings, nil
}

func (payload jsoncConfig) applyTo(cfg *Config) error {
	if r := payload.Recognizer; r != nil {
		setString(&cfg.Recognizer.GRPC, r.GRPC)
		setBool(&cfg.Recognizer.AddsSpaces, r.AddsSpaces)
		setInt(&cfg.Recognizer.ReadyTimeoutMS, r.ReadyTimeoutMS)
	}

	if text := payload.Text; text != nil {
		setBool(&cfg.Text.AutoCapitalize, text.AutoCapitalize)
		setString(&cfg.Text.InsertLookahead, text.InsertLookahead)
		setBool(&cfg.Text.NormalizeUnicode, text.NormalizeUnicode)
	}

	if audio := payload.Audio; audio != nil {
		setString(&cfg.Audio.Input, audio.Input)
		setString(&cfg.Audio.Fallback, audio.Fallback)
	}

	if paste := payload.Paste; paste != nil {
		setBool(&cfg.Paste.Enable, paste.Enable)
		setString(&cfg.Paste.Shortcut, paste.Shortcut)
	}

	if payload.ClipboardCmd != nil {
		command, err := parseCommand(*payload.ClipboardCmd)
		if err != nil {
			return fmt.Errorf("invalid clipboard_cmd: %w", err)
		}
		cfg.Clipboard = command
	}

	if payload.PasteCmd != nil {
		command, err := parseCommand(*payload.PasteCmd)
		if err != nil {
			return fmt.Errorf("invalid paste_cmd: %w", err)
		}
		cfg.PasteCmd = command
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

func setBool(dst *bool, src *bool) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func parseCommand(raw string) (CommandConfig, error) {
	argv, err := parseArgv(raw)
	if err != nil {
		return CommandConfig{}, err
	}
	return CommandConfig{Raw: raw, Argv: argv}, nil
}

func ensureSingleJSONValue(decoder *json.Decoder) error {
	var extra struct{}
	err := decoder.Decode(&extra)
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err == nil {
		return fmt.Errorf("multiple JSON values are not allowed")
	}
	return err
}

func wrapJSONDecodeError(content string, err error) error {
	var offset int64 = -1

	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		offset = typeErr.Offset
	}
	if offset < 0 {
		return err
	}

	line, col := offsetToLineCol(content, offset)
	return fmt.Errorf("line %d column %d: %w", line, col, err)
}

func offsetToLineCol(content string, offset int64) (int, int) {
	if offset <= 0 {
		return 1, 1
	}

	limit := int(offset)
	if limit > len(content) {
		limit = len(content)
	}

	prefix := content[:max(limit-1, 0)]
	line := strings.Count(prefix, "\n") + 1
	col := len(prefix) - strings.LastIndex(prefix, "\n")
	return line, col
}
