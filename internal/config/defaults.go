package config

// Default returns the canonical runtime configuration used when no file is present.
func Default() Config {
	clipboard := "wl-copy --trim-newline"

	return Config{
		Recognizer: RecognizerConfig{
			GRPC:           "127.0.0.1:50051",
			AddsSpaces:     false,
			ReadyTimeoutMS: 2000,
		},
		Text: TextConfig{
			AutoCapitalize:   true,
			InsertLookahead:  "skip",
			NormalizeUnicode: true,
		},
		Audio: AudioConfig{
			Input:    "default",
			Fallback: "default",
		},
		Paste:     PasteConfig{Enable: true, Shortcut: "CTRL,V"},
		Clipboard: CommandConfig{Raw: clipboard, Argv: mustParseArgv(clipboard)},
	}
}
