package main

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nao1215/surveydash"
	"github.com/nao1215/surveydash/derive"
	"github.com/nao1215/surveydash/domain/model"
	"github.com/nao1215/surveydash/present"
)

// run executes the CLI with args and returns stdout and stderr
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// writeSnapshots writes a small harmonised survey and its correlation matrix
func writeSnapshots(t *testing.T) string {
	t.Helper()

	text, num := model.Text, model.Number
	survey, err := model.NewTable(surveydash.SnapshotSurvey,
		model.Header{"id", "country", "survey_type", "foi4", "protectops3[vpn]"},
		[]model.Record{
			{num(1), text("United Kingdom"), text("CSO"), text("Very helpful"), model.Bool(true)},
			{num(2), text("Germany"), text("CSO"), text("Helpful in parts"), model.Bool(false)},
			{num(3), text("Germany"), text("CSO"), text("Very helpful"), model.Bool(true)},
			{num(1), text("France"), text("Media"), text("Very helpful"), model.Bool(true)},
		})
	require.NoError(t, err)
	corr, err := derive.MatrixTable(surveydash.SnapshotCorrelation, derive.Matrix{
		Names:  []string{"country", "foi4"},
		Values: [][]float64{{1, 0.3}, {0.3, 1}},
	})
	require.NoError(t, err)

	dir := t.TempDir()
	store := surveydash.NewSnapshotStore(dir, surveydash.NewSnapshotOptions().WithFormats(surveydash.FormatParquet))
	for _, table := range []*model.Table{survey, corr} {
		_, err := store.Write(context.Background(), table)
		require.NoError(t, err)
	}
	return dir
}

func TestReport(t *testing.T) {
	t.Parallel()

	dir := writeSnapshots(t)

	t.Run("counts", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "report", "counts", "foi4", "--snapshot-dir", dir)
		require.NoError(t, err)

		var got present.Bars
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, "foi4", got.Variable)
		assert.Equal(t, 4, got.Total)
		assert.Equal(t, []derive.Count{{Label: "Very helpful", Count: 3}, {Label: "Helpful in parts", Count: 1}}, got.Bars)
	})

	t.Run("counts filtered with sql", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "report", "counts", "foi4", "--snapshot-dir", dir, "--where", "country = 'Germany'")
		require.NoError(t, err)

		var got present.Bars
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, 2, got.Total)
		assert.Equal(t, []derive.Count{{Label: "Helpful in parts", Count: 1}, {Label: "Very helpful", Count: 1}}, got.Bars)
	})

	t.Run("histogram", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "report", "hist", "protectops3", "--snapshot-dir", dir, "--where", `survey_type = 'CSO'`)
		require.NoError(t, err)

		var got present.Histogram
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		counts := make(map[string]int)
		for _, row := range got.Rows {
			if row.Option == "VPN" {
				counts[row.Country] = row.Count
			}
		}
		assert.Equal(t, map[string]int{"United Kingdom": 1, "Germany": 1, "France": 0}, counts)
	})

	t.Run("heatmap", func(t *testing.T) {
		t.Parallel()
		out, _, err := run(t, "report", "heatmap", "--snapshot-dir", dir)
		require.NoError(t, err)

		var got present.Heatmap
		require.NoError(t, json.Unmarshal([]byte(out), &got))
		assert.Equal(t, []string{"country", "foi4"}, got.Labels)
		require.NotNil(t, got.Cells[0][1])
		assert.InDelta(t, 0.3, *got.Cells[0][1], 1e-12)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()
		_, _, err := run(t, "report", "counts", "nosuch", "--snapshot-dir", dir)
		assert.ErrorIs(t, err, derive.ErrUnknownVariable)

		_, _, err = run(t, "report", "stacked", "foi4", "--snapshot-dir", dir)
		assert.ErrorIs(t, err, present.ErrUnknownFamily)

		_, _, err = run(t, "report", "counts", "foi4", "--snapshot-dir", dir, "--where", "nosuch = 1")
		assert.Error(t, err)

		_, _, err = run(t, "report", "heatmap", "--sig", "--snapshot-dir", dir)
		assert.ErrorIs(t, err, surveydash.ErrFileNotFound)

		_, _, err = run(t, "report", "counts", "--snapshot-dir", dir)
		assert.Error(t, err, "variable argument required")
	})
}

func TestBuild_Errors(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, "build", "--raw-dir", filepath.Join(t.TempDir(), "missing"), "--out-dir", t.TempDir())
	assert.Error(t, err)

	_, _, err = run(t, "build", "--raw-dir", t.TempDir(), "--out-dir", t.TempDir(), "--compress", "rar")
	assert.ErrorIs(t, err, surveydash.ErrUnsupportedFormat)

	_, _, err = run(t, "build", "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestFetch(t *testing.T) {
	t.Parallel()

	csv := "id;lastpage;startlanguage\n1;5;en\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Method string `json:"method"`
			ID     int    `json:"id"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		var result any = "OK"
		switch req.Method {
		case "get_session_key":
			result = "key"
		case "export_responses":
			result = base64.StdEncoding.EncodeToString([]byte(csv))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"id": req.ID, "result": result, "error": nil})
	}))
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	rawDir := filepath.Join(dir, "raw")
	cfgPath := filepath.Join(dir, "surveydash.yaml")
	cfg := fmt.Sprintf(`remote:
  url: %s
  username: admin
  uid: 1
  password: secret
surveys:
  - {variant: cso, country: UK, id: 1}
  - {variant: media, country: FR, id: 2}
raw_dir: %s
`, srv.URL, rawDir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o600))

	out, _, err := run(t, "fetch", "--config", cfgPath, "--log-json")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(rawDir, "cso_uk.csv"), filepath.Join(rawDir, "media_fr.csv")},
		strings.Fields(out))

	got, err := os.ReadFile(filepath.Join(rawDir, "media_fr.csv"))
	require.NoError(t, err)
	assert.Equal(t, csv, string(got))
}

func TestFetch_MissingCredentials(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "surveydash.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("surveys:\n  - {variant: cso, country: UK, id: 1}\n"), 0o600))

	_, _, err := run(t, "fetch", "--config", cfgPath)
	assert.Error(t, err)
}
