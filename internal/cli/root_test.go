package cli

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "padconv", cmd.Use)
	assert.Contains(t, cmd.Long, "contact-sensor configuration")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	commands := []string{"convert", "config", "profiles", "history"}

	for _, cmdName := range commands {
		t.Run(cmdName, func(t *testing.T) {
			subCmd, _, err := cmd.Find([]string{cmdName})
			require.NoError(t, err, "Command %s should exist", cmdName)
			require.NotNil(t, subCmd)
			assert.Equal(t, cmdName, subCmd.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	verboseFlag := cmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, verboseFlag)
	assert.Equal(t, "v", verboseFlag.Shorthand)
	assert.Equal(t, "false", verboseFlag.DefValue)

	formatFlag := cmd.PersistentFlags().Lookup("format")
	require.NotNil(t, formatFlag)
	assert.Equal(t, "text", formatFlag.DefValue)
}

func TestConvertFlags(t *testing.T) {
	t.Setenv(EnvSourceDir, "")
	t.Setenv(EnvHostCmd, "")

	root := NewRootCommand()
	convertCmd, _, err := root.Find([]string{"convert"})
	require.NoError(t, err)

	// The root command carries the same flags, since it runs convert.
	for _, cmd := range []*cobra.Command{root, convertCmd} {
		for name, def := range map[string]string{
			"source-dir":   ".",
			"asset":        "inspire_hand_with_sensors",
			"profile":      "thumb4",
			"profiles-dir": "",
			"host-cmd":     "",
			"db":           "",
			"metrics-file": "",
		} {
			f := cmd.Flags().Lookup(name)
			require.NotNil(t, f, "%s --%s", cmd.Name(), name)
			assert.Equal(t, def, f.DefValue, "%s --%s", cmd.Name(), name)
		}
	}
}

func TestConvertFlags_EnvDefaults(t *testing.T) {
	t.Setenv(EnvSourceDir, "/data/hands")
	t.Setenv(EnvHostCmd, "/opt/isaac/python.sh bridge.py")

	cmd := NewRootCommand()
	assert.Equal(t, "/data/hands", cmd.Flags().Lookup("source-dir").DefValue)
	assert.Equal(t, "/opt/isaac/python.sh bridge.py", cmd.Flags().Lookup("host-cmd").DefValue)
}

func TestConfigCommandHasNoHostFlag(t *testing.T) {
	cmd := NewRootCommand()
	configCmd, _, err := cmd.Find([]string{"config"})
	require.NoError(t, err)
	assert.Nil(t, configCmd.Flags().Lookup("host-cmd"))
	assert.NotNil(t, configCmd.Flags().Lookup("profile"))
}

func TestHistoryCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	historyCmd, _, err := cmd.Find([]string{"history"})
	require.NoError(t, err)

	dbFlag := historyCmd.Flags().Lookup("db")
	require.NotNil(t, dbFlag)
	assert.Equal(t, "", dbFlag.DefValue)

	limitFlag := historyCmd.Flags().Lookup("limit")
	require.NotNil(t, limitFlag)
	assert.Equal(t, "20", limitFlag.DefValue)
}

func TestFormatValidation(t *testing.T) {
	assert.True(t, isValidFormat("text"))
	assert.True(t, isValidFormat("json"))

	assert.False(t, isValidFormat("xml"))
	assert.False(t, isValidFormat(""))
	assert.False(t, isValidFormat("TEXT"))
}

func TestExecute_InvalidFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute([]string{"--format", "invalid", "profiles"}, &stdout, &stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "invalid format")
}

func TestExecute_UnknownFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute([]string{"--no-such-flag"}, &stdout, &stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stderr.String(), "unknown flag")
}

func TestExecute_UnexpectedArgument(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute([]string{"hand.urdf"}, &stdout, &stderr)
	assert.Equal(t, ExitCommandError, code)
}

func TestExecute_MissingURDFExitsOne(t *testing.T) {
	dir := t.TempDir()
	var stdout, stderr bytes.Buffer

	code := Execute([]string{"--source-dir", dir}, &stdout, &stderr)
	assert.Equal(t, ExitFailure, code)
	assert.Contains(t, stdout.String(), "Error [E010]: source URDF not found")
	// Reported once, through the formatter.
	assert.NotContains(t, stderr.String(), "Error [E010]")

	assertNotExists(t, filepath.Join(dir, "inspire_hand_with_sensors", "usd", "inspire_hand_processed_with_pads.usd"))
	assertNotExists(t, filepath.Join(dir, "inspire_hand_with_sensors", "config", "inspire_hand_processed_with_pads.yaml"))
}

func TestExecute_UnknownProfileExitsTwo(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := Execute([]string{"config", "--source-dir", t.TempDir(), "--profile", "pinky9"}, &stdout, &stderr)
	assert.Equal(t, ExitCommandError, code)
	assert.Contains(t, stdout.String(), "Error [E021]")
	assert.Contains(t, stdout.String(), "pinky9")
}
