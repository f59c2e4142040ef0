package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/roach88/focusnav/internal/platform"
	"github.com/roach88/focusnav/internal/store"
	"github.com/roach88/focusnav/internal/supports"
	"github.com/roach88/focusnav/internal/testutil"
)

func init() {
	color.NoColor = true
}

const (
	ie11UA    = "Mozilla/5.0 (Windows NT 10.0; WOW64; Trident/7.0; rv:11.0) like Gecko"
	testPage  = "testdata/page.html"
	chrome60  = "chrome60"
	firefox52 = "firefox52"
)

// textOptions returns root options as they are after a text-format
// PersistentPreRun with an empty configuration.
func textOptions() *RootOptions {
	return &RootOptions{Format: "text"}
}

func jsonOptions() *RootOptions {
	return &RootOptions{Format: "json"}
}

// runCommand executes a subcommand on its own, so the root pre-run (which
// loads the user's configuration) is skipped.
func runCommand(t *testing.T, newCmd func(*RootOptions) *cobra.Command, opts *RootOptions, args ...string) (string, error) {
	t.Helper()
	cmd := newCmd(opts)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

// decodeData unmarshals the data payload of a JSON CLI response.
func decodeData(t *testing.T, output string, v any) CLIResponse {
	t.Helper()
	var resp struct {
		Status string          `json:"status"`
		Data   json.RawMessage `json:"data"`
		Error  *CLIError       `json:"error"`
	}
	require.NoError(t, json.Unmarshal([]byte(output), &resp), "output: %s", output)
	if v != nil && len(resp.Data) > 0 {
		require.NoError(t, json.Unmarshal(resp.Data, v))
	}
	return CLIResponse{Status: resp.Status, Error: resp.Error}
}

// seedStore records one probe run for userAgent and returns the database
// path.
func seedStore(t *testing.T, userAgent string, caps supports.Set) string {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "capabilities.db")
	st, err := store.Open(dbPath, store.WithIDGenerator(testutil.NewFixedIDGenerator()))
	require.NoError(t, err)
	defer st.Close()

	_, err = st.SaveRun(context.Background(), platform.Parse(userAgent), "browser:test", caps)
	require.NoError(t, err)
	return dbPath
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
