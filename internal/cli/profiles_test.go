package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCommand(t *testing.T, cmd *cobra.Command, args ...string) (*bytes.Buffer, error) {
	t.Helper()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	return buf, cmd.Execute()
}

func TestProfiles_Text(t *testing.T) {
	out, err := runCommand(t, NewProfilesCommand(&RootOptions{Format: "text"}))
	require.NoError(t, err)

	lines := bytes.Split(bytes.TrimSpace(out.Bytes()), []byte("\n"))
	require.Len(t, lines, 3)
	assert.Contains(t, string(lines[0]), "PROFILE")
	assert.Regexp(t, `^little2\s+12\s+952\s+`, string(lines[1]))
	assert.Regexp(t, `^thumb4\*\s+17\s+997\s+`, string(lines[2]))
}

func TestProfiles_JSON(t *testing.T) {
	out, err := runCommand(t, NewProfilesCommand(&RootOptions{Format: "json"}))
	require.NoError(t, err)

	var resp struct {
		Status string           `json:"status"`
		Data   []ProfileSummary `json:"data"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.Len(t, resp.Data, 2)

	want := ProfileSummary{
		Name:      "thumb4",
		Title:     resp.Data[1].Title,
		AssetKey:  "inspire_hand_with_all_pads",
		NewGroup:  "thumb_sensor_4_pads",
		Groups:    17,
		TotalPads: 997,
		Default:   true,
	}
	if diff := cmp.Diff(want, resp.Data[1]); diff != "" {
		t.Errorf("thumb4 summary mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, resp.Data[0].Default)
}

func TestProfiles_Detail(t *testing.T) {
	out, err := runCommand(t, NewProfilesCommand(&RootOptions{Format: "text"}), "thumb4")
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "total: 997 contact points across 17 sensors")
	assert.Regexp(t, `\+ thumb_sensor_4_pads\s+9\s+3x3`, text)
	assert.Regexp(t, `  palm_pads\s+112\s+14x8`, text)
}

func TestProfiles_DetailUnknown(t *testing.T) {
	out, err := runCommand(t, NewProfilesCommand(&RootOptions{Format: "text"}), "index9")
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out.String(), "Error [E021]")
}

func TestProfiles_ProfilesDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bench.cue"), []byte(`
package profiles

profile: bench: {
	title:     "Bench rig"
	asset_key: "bench_rig"
	groups: [{
		name:         "probe_pads"
		label:        "probe"
		prim_path:    "/bench/probe_pad_*"
		sensor_count: 6
		grid: [2, 3]
		color: "black"
	}]
}
`), 0644))

	out, err := runCommand(t, NewProfilesCommand(&RootOptions{Format: "text"}), "--profiles-dir", dir)
	require.NoError(t, err)
	assert.Regexp(t, `(?m)^bench\s+1\s+6\s+Bench rig$`, out.String())
}

func TestProfiles_InvalidProfilesDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.cue"), []byte(`
package profiles

profile: bad: {
	title:     "Bad"
	asset_key: "bad"
	groups: [{
		name:         "probe_pads"
		label:        "probe"
		prim_path:    "/bad/probe_pad_*"
		sensor_count: 7
		grid: [2, 3]
		color: "black"
	}]
}
`), 0644))

	out, err := runCommand(t, NewProfilesCommand(&RootOptions{Format: "json"}), "--profiles-dir", dir)
	assert.Equal(t, ExitCommandError, GetExitCode(err))

	var resp CLIResponse
	require.NoError(t, json.Unmarshal(out.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "E105", resp.Error.Code)
}
