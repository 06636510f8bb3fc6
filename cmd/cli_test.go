package cmd

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bnema/gtv-cli/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeADB = `#!/bin/sh
case "$1" in
  version)
    echo "Android Debug Bridge version 1.0.41"
    ;;
  connect)
    if [ -n "$FAKE_ADB_CONNECT" ]; then
      echo "$FAKE_ADB_CONNECT"
    else
      echo "connected to $2"
    fi
    ;;
  mdns)
    echo "List of discovered mdns services"
    ;;
  -s)
    case "$4" in
      "getprop ro.product.model") echo "Chromecast" ;;
      "getprop ro.build.version.release") echo "12" ;;
      *) echo "$2 $4" >> "$FAKE_ADB_LOG" ;;
    esac
    ;;
  *)
    exit 1
    ;;
esac
`

type cliEnv struct {
	home      string
	cachePath string
	shellLog  string
}

// newCLIEnv isolates config, cache and adb for one test. The adb binary is
// a shell script that records every shell command it receives.
func newCLIEnv(t *testing.T) cliEnv {
	t.Helper()

	if runtime.GOOS == "windows" {
		t.Skip("fake adb is a shell script")
	}

	home := t.TempDir()
	env := cliEnv{
		home:      home,
		cachePath: filepath.Join(home, "cache", ".gtv_device.json"),
		shellLog:  filepath.Join(home, "adb-shell.log"),
	}

	adbPath := filepath.Join(home, "adb")
	require.NoError(t, os.WriteFile(adbPath, []byte(fakeADB), 0o755))

	t.Setenv("HOME", home)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(home, ".config"))
	t.Setenv("GTV_CACHE_PATH", env.cachePath)
	t.Setenv("GTV_ADB_PATH", adbPath)
	t.Setenv("GTV_RETRY_DELAYS", "1ms")
	t.Setenv("GTV_HOST", "")
	t.Setenv("GTV_PORT", "")
	t.Setenv("NO_COLOR", "1")
	t.Setenv("FAKE_ADB_LOG", env.shellLog)
	t.Setenv("FAKE_ADB_CONNECT", "")

	return env
}

func (e cliEnv) shellCommands(t *testing.T) []string {
	t.Helper()

	data, err := os.ReadFile(e.shellLog)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func executeCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	root := newRootCmd(newApp(nil))
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	newCLIEnv(t)

	stdout, _, err := executeCLI(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestConfigShowReflectsEnvironment(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("GTV_TUBI_PACKAGE", "com.tubitv.beta")

	stdout, _, err := executeCLI(t, "config", "show", "--format", "json")
	require.NoError(t, err)
	require.True(t, json.Valid([]byte(stdout)))

	var doc struct {
		Cache struct {
			Path string `json:"path"`
		} `json:"cache"`
		Packages struct {
			Tubi string `json:"tubi"`
		} `json:"packages"`
		Retry struct {
			Delays []string `json:"delays"`
		} `json:"retry"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &doc))
	assert.Equal(t, env.cachePath, doc.Cache.Path)
	assert.Equal(t, "com.tubitv.beta", doc.Packages.Tubi)
	assert.Equal(t, []string{"1ms"}, doc.Retry.Delays)
}

func TestConfigShowRejectsUnknownFormat(t *testing.T) {
	newCLIEnv(t)

	_, _, err := executeCLI(t, "config", "show", "--format", "ini")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"ini"`)
}

func TestPlayDryRunPrintsIntentWithoutConnecting(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := executeCLI(t, "play", "--dry-run", "https://youtu.be/dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Contains(t, stdout, "would play youtube video dQw4w9WgXcQ")
	assert.Contains(t, stdout, "am start -a android.intent.action.VIEW -d 'https://www.youtube.com/watch?v=dQw4w9WgXcQ' -p 'com.google.android.youtube.tv'")
	assert.NoFileExists(t, env.cachePath)
	assert.Empty(t, env.shellCommands(t))
}

func TestPlayDryRunJSONUsesPackageFlag(t *testing.T) {
	newCLIEnv(t)

	stdout, _, err := executeCLI(t, "play", "--dry-run", "--json", "--tubi-package", "com.tubitv.kids", "https://tubitv.com/movies/100")
	require.NoError(t, err)

	var result struct {
		Action struct {
			Kind string `json:"kind"`
			URL  string `json:"url"`
		} `json:"action"`
		Command string `json:"command"`
		DryRun  bool   `json:"dry_run"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &result))
	assert.True(t, result.DryRun)
	assert.Equal(t, "tubi", result.Action.Kind)
	assert.Equal(t, "https://tubitv.com/movies/100", result.Action.URL)
	assert.Contains(t, result.Command, "-p 'com.tubitv.kids'")
}

func TestPlayGlobalSearchRequiresSeasonAndEpisode(t *testing.T) {
	newCLIEnv(t)

	_, _, err := executeCLI(t, "play", "--dry-run", "--app", "peacock", "--season", "2", "the office")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingArgs)
	assert.Equal(t, domain.ExitUsage, domain.ExitCode(err))
	assert.Contains(t, Diagnostic(err), "episode")
	assert.Contains(t, Diagnostic(err), usageHint)
}

func TestPlayLaunchesYouTubeOnExplicitDevice(t *testing.T) {
	env := newCLIEnv(t)

	stdout, _, err := executeCLI(t, "--host", "192.168.1.40", "--port", "5555", "--no-input", "play", "dQw4w9WgXcQ")
	require.NoError(t, err)
	assert.Equal(t, "playing youtube video dQw4w9WgXcQ on 192.168.1.40:5555\n", stdout)
	assert.Equal(t, []string{
		"192.168.1.40:5555 am start -a android.intent.action.VIEW -d 'https://www.youtube.com/watch?v=dQw4w9WgXcQ' -p 'com.google.android.youtube.tv'",
	}, env.shellCommands(t))

	data, err := os.ReadFile(env.cachePath)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ip": "192.168.1.40", "port": 5555}`, string(data))
}

func TestPauseAndResumeUseCachedDevice(t *testing.T) {
	env := newCLIEnv(t)
	require.NoError(t, os.MkdirAll(filepath.Dir(env.cachePath), 0o755))
	require.NoError(t, os.WriteFile(env.cachePath, []byte(`{"ip": "10.0.0.7", "port": 41234}`), 0o600))

	stdout, _, err := executeCLI(t, "--no-input", "pause")
	require.NoError(t, err)
	assert.Equal(t, "paused 10.0.0.7:41234\n", stdout)

	stdout, _, err = executeCLI(t, "--no-input", "resume")
	require.NoError(t, err)
	assert.Equal(t, "resumed 10.0.0.7:41234\n", stdout)

	assert.Equal(t, []string{
		"10.0.0.7:41234 input keyevent KEYCODE_MEDIA_PAUSE",
		"10.0.0.7:41234 input keyevent KEYCODE_MEDIA_PLAY",
	}, env.shellCommands(t))
}

func TestEnvironmentAddressNeedsBothParts(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("GTV_HOST", "192.168.1.77")
	t.Setenv("GTV_PORT", "6000")

	stdout, _, err := executeCLI(t, "--no-input", "pause")
	require.NoError(t, err)
	assert.Equal(t, "paused 192.168.1.77:6000\n", stdout)
	assert.Equal(t, []string{"192.168.1.77:6000 input keyevent KEYCODE_MEDIA_PAUSE"}, env.shellCommands(t))
}

func TestInvalidEnvironmentPortIsUsageError(t *testing.T) {
	newCLIEnv(t)
	t.Setenv("GTV_PORT", "seventy")

	_, _, err := executeCLI(t, "--no-input", "pause")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GTV_PORT")
	assert.Equal(t, domain.ExitUsage, domain.ExitCode(err))
}

func TestRefusedConnectionReportsConnectionError(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("FAKE_ADB_CONNECT", "failed to connect to '192.168.1.40:5555': Connection refused")

	_, _, err := executeCLI(t, "--host", "192.168.1.40", "--port", "5555", "--no-input", "pause")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConnectionRefused)
	assert.Equal(t, domain.ExitConnection, domain.ExitCode(err))
	assert.Empty(t, env.shellCommands(t))
	assert.NoFileExists(t, env.cachePath)
}

func TestStatusRendersDeviceProperties(t *testing.T) {
	newCLIEnv(t)

	stdout, _, err := executeCLI(t, "--host", "192.168.1.40", "--port", "5555", "--no-input", "status")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Chromecast")
	assert.Contains(t, stdout, "192.168.1.40:5555")
	assert.Contains(t, stdout, "none before this run")
}

func TestStatusJSONOutput(t *testing.T) {
	newCLIEnv(t)

	stdout, _, err := executeCLI(t, "--host", "192.168.1.40", "--port", "5555", "--no-input", "status", "--json")
	require.NoError(t, err)
	assert.True(t, json.Valid([]byte(stdout)))
	assert.Contains(t, stdout, "Chromecast")
	assert.Contains(t, stdout, `"12"`)
}

func TestDoctorReportsMissingHelpersAsWarnings(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("GTV_RESOLVER_COMMAND", filepath.Join(env.home, "missing-resolver"))
	t.Setenv("GTV_AUTOMATION_COMMAND", filepath.Join(env.home, "missing-automation"))

	stdout, _, err := executeCLI(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, stdout, "checks: 6  ok: 4  warnings: 2  errors: 0")
	assert.Contains(t, stdout, "Android Debug Bridge version 1.0.41")
	assert.Contains(t, stdout, "no device saved yet")
}

func TestDoctorFailsRequiredAdbCheck(t *testing.T) {
	env := newCLIEnv(t)
	t.Setenv("GTV_ADB_PATH", filepath.Join(env.home, "no-adb"))
	t.Setenv("GTV_RESOLVER_COMMAND", filepath.Join(env.home, "adb-missing-too"))

	stdout, _, err := executeCLI(t, "doctor", "--json")
	require.NoError(t, err)

	var report struct {
		Results []struct {
			Name     string `json:"name"`
			Severity string `json:"severity"`
			Hint     string `json:"hint"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &report))
	require.NotEmpty(t, report.Results)
	assert.Equal(t, "adb", report.Results[0].Name)
	assert.Equal(t, "error", report.Results[0].Severity)
	assert.Contains(t, report.Results[0].Hint, "platform-tools")
}

func TestBrokenConfigFileFailsEveryCommand(t *testing.T) {
	env := newCLIEnv(t)
	configPath := filepath.Join(env.home, "broken.toml")
	require.NoError(t, os.WriteFile(configPath, []byte("[adb\n"), 0o600))

	_, _, err := executeCLI(t, "--config", configPath, "status")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}

func TestUnknownCommandIsRejected(t *testing.T) {
	newCLIEnv(t)

	_, _, err := executeCLI(t, "rewind")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown command "rewind"`)
	assert.Equal(t, domain.ExitUsage, domain.ExitCode(err))
}
