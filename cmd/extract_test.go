package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sells-group/datextract/internal/extract"
	"github.com/sells-group/datextract/internal/model"
	"github.com/sells-group/datextract/internal/source"
	"github.com/sells-group/datextract/internal/store"
)

const leaseText = "This Agreement is dated as of June 1, 2017 between the parties."

func writeDoc(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func newTestBatch(st store.Store) *batch {
	p := extract.DefaultParams()
	p.Threshold = 0
	return &batch{
		ext:         extract.New(nil, extract.WithLogger(zap.NewNop())),
		loader:      source.New(source.Options{MaxRetries: 1}),
		store:       st,
		params:      p,
		concurrency: 2,
		stdin:       strings.NewReader("Term: 2016-03-01 to 2016-03-10."),
	}
}

func annotatedDates(anns []model.DateAnnotation) []string {
	var out []string
	for _, a := range anns {
		out = append(out, a.Date.String())
	}
	return out
}

func TestBatchRun_OrderAndErrors(t *testing.T) {
	dir := t.TempDir()
	lease := writeDoc(t, dir, "lease.txt", leaseText)
	missing := filepath.Join(dir, "missing.txt")

	results, err := newTestBatch(nil).run(context.Background(), []string{lease, missing, "-"})
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, lease, results[0].ref)
	require.NoError(t, results[0].err)
	assert.Equal(t, lease, results[0].doc.Source)
	assert.Contains(t, annotatedDates(results[0].anns), "2017-06-01")
	assert.Empty(t, results[0].runID)

	assert.Equal(t, missing, results[1].ref)
	require.Error(t, results[1].err)

	require.NoError(t, results[2].err)
	assert.Equal(t, "stdin", results[2].doc.Source)
	assert.Equal(t, []string{"2016-03-01", "2016-03-10"}, annotatedDates(results[2].anns))
}

func TestBatchRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	lease := writeDoc(t, t.TempDir(), "lease.txt", leaseText)
	_, err := newTestBatch(nil).run(ctx, []string{lease})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "context canceled")
}

func TestBatchRun_SavesRuns(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, err := store.Open(ctx, "sqlite", filepath.Join(dir, "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck

	lease := writeDoc(t, dir, "lease.txt", leaseText)
	missing := filepath.Join(dir, "missing.txt")

	results, err := newTestBatch(st).run(ctx, []string{lease, missing})
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.NotEmpty(t, results[0].runID)
	run, err := st.GetRun(ctx, results[0].runID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, run.Status)
	assert.Equal(t, lease, run.Source)
	assert.Equal(t, "en", run.Params.Locale)
	assert.Equal(t, annotatedDates(results[0].anns), annotatedDates(run.Annotations))

	require.NotEmpty(t, results[1].runID)
	run, err = st.GetRun(ctx, results[1].runID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, run.Status)
	assert.NotEmpty(t, run.Error)
	assert.Empty(t, run.Annotations)

	failed, err := st.ListRuns(ctx, store.RunFilter{Status: model.RunStatusFailed})
	require.NoError(t, err)
	assert.Len(t, failed, 1)
}

// execute runs the root command in a temp working directory so no
// config.yaml is picked up.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(origDir) }) //nolint:errcheck
	withConfig(t, nil)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestExtractCommand_CSV(t *testing.T) {
	lease := writeDoc(t, t.TempDir(), "lease.txt", leaseText)

	out, err := execute(t, "extract", lease, "--format", "csv", "--threshold", "0")
	require.NoError(t, err)

	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(records), 2)
	assert.Equal(t, "source", records[0][0])

	var found bool
	for _, rec := range records[1:] {
		assert.Equal(t, lease, rec[0])
		if rec[4] == "2017-06-01" {
			found = true
		}
	}
	assert.True(t, found, "expected 2017-06-01 in %q", out)
}

func TestExtractCommand_XLSXNeedsOutput(t *testing.T) {
	lease := writeDoc(t, t.TempDir(), "lease.txt", leaseText)

	_, err := execute(t, "extract", lease, "--format", "xlsx")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires --output")
}
