package hypr

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestQueryActiveWindowTrimsFields(t *testing.T) {
	installHyprctlStub(t, `
if [[ "${1:-}" == "-j" && "${2:-}" == "activewindow" ]]; then
  echo '{"address":" 0xabc ","class":" kitty "}'
  exit 0
fi
exit 1
`)

	window, err := QueryActiveWindow(context.Background())
	require.NoError(t, err)
	require.Equal(t, ActiveWindow{Address: "0xabc", Class: "kitty"}, window)
}

func TestQueryActiveWindowRejectsEmptyAddress(t *testing.T) {
	installHyprctlStub(t, `echo '{"address":"","class":"kitty"}'`)

	_, err := QueryActiveWindow(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "empty address")
}

func TestQueryActiveWindowRejectsBadJSON(t *testing.T) {
	installHyprctlStub(t, `echo 'not json'`)

	_, err := QueryActiveWindow(context.Background())
	require.Error(t, err)
	require.Contains(t, err.Error(), "decode hyprctl activewindow json")
}

func TestSendShortcutDispatchesPayload(t *testing.T) {
	argsFile := filepath.Join(t.TempDir(), "hypr-args.log")
	t.Setenv("HYPR_ARGS_FILE", argsFile)
	installHyprctlStub(t, `printf '%s\n' "$*" >> "${HYPR_ARGS_FILE}"`)

	require.NoError(t, SendShortcut(context.Background(), " CTRL,V,address:0xabc "))

	data, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	require.Equal(t, "--quiet dispatch sendshortcut CTRL,V,address:0xabc", strings.TrimSpace(string(data)))
}

func TestSendShortcutRequiresNonEmptyPayload(t *testing.T) {
	err := SendShortcut(context.Background(), " ")
	require.Error(t, err)
	require.Contains(t, err.Error(), "non-empty payload")
}

func TestSendShortcutReturnsCombinedOutputOnFailure(t *testing.T) {
	installHyprctlStub(t, `
echo 'boom from hyprctl' >&2
exit 1
`)

	err := SendShortcut(context.Background(), "CTRL,V,address:0xabc")
	require.Error(t, err)
	require.Contains(t, err.Error(), "boom from hyprctl")
}

func installHyprctlStub(t *testing.T, body string) {
	t.Helper()

	dir := t.TempDir()
	path := filepath.Join(dir, Binary)
	script := "#!/usr/bin/env bash\nset -euo pipefail\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	t.Setenv("PATH", dir+":"+os.Getenv("PATH"))
}
