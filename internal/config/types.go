// Package config resolves, parses, validates, and defaults voxfield configuration.
package config

import (
	"time"

	"github.com/rbright/voxfield/internal/textnorm"
)

// Config is the fully materialized runtime configuration used by voxfield.
type Config struct {
	Recognizer RecognizerConfig
	Text       TextConfig
	Audio      AudioConfig
	Paste      PasteConfig
	Clipboard  CommandConfig
	PasteCmd   CommandConfig
}

// RecognizerConfig describes the speech engine feeding recognized chunks.
type RecognizerConfig struct {
	GRPC           string
	AddsSpaces     bool
	ReadyTimeoutMS int
}

// ReadyTimeout returns the readiness probe budget as a duration.
func (c RecognizerConfig) ReadyTimeout() time.Duration {
	return time.Duration(c.ReadyTimeoutMS) * time.Millisecond
}

// TextConfig controls how recognized chunks are merged into the field.
type TextConfig struct {
	AutoCapitalize   bool
	InsertLookahead  string
	NormalizeUnicode bool
}

// NormalizerOptions converts text settings into normalizer options.
func (c TextConfig) NormalizerOptions() (textnorm.Options, error) {
	policy, err := textnorm.ParseInsertPolicy(c.InsertLookahead)
	if err != nil {
		return textnorm.Options{}, err
	}
	return textnorm.Options{
		AutoCapitalize:   c.AutoCapitalize,
		InsertPolicy:     policy,
		NormalizeUnicode: c.NormalizeUnicode,
	}, nil
}

// AudioConfig controls preferred and fallback input-source selection.
type AudioConfig struct {
	Input    string
	Fallback string
}

// PasteConfig controls post-commit paste behavior.
type PasteConfig struct {
	Enable   bool
	Shortcut string
}

// CommandConfig stores a raw command string and its parsed argv form.
type CommandConfig struct {
	Raw  string
	Argv []string
}

// Warning is a non-fatal parse/validation message.
type Warning struct {
	Line    int
	Message string
}
