package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/datextract/internal/model"
)

func TestOpen_SQLite(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "open.db")

	st, err := Open(context.Background(), "sqlite", dsn)
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	// Schema is applied by Open.
	_, err = st.CreateRun(context.Background(), "doc.txt", model.RunParams{})
	require.NoError(t, err)
}

func TestOpen_SQLiteDefaultDSN(t *testing.T) {
	tmpDir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(tmpDir))
	defer os.Chdir(origDir) //nolint:errcheck

	st, err := Open(context.Background(), "sqlite", "")
	require.NoError(t, err)
	defer st.Close() //nolint:errcheck

	_, statErr := os.Stat(filepath.Join(tmpDir, "datextract.db"))
	assert.NoError(t, statErr)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	_, err := Open(context.Background(), "mysql", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported driver: mysql")
}

func TestOpen_PostgresBadDSN(t *testing.T) {
	_, err := Open(context.Background(), "postgres", "://not a dsn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "postgres: parse config")
}

func TestRunFilterLimit(t *testing.T) {
	assert.Equal(t, DefaultListLimit, RunFilter{}.limit())
	assert.Equal(t, DefaultListLimit, RunFilter{Limit: -3}.limit())
	assert.Equal(t, 7, RunFilter{Limit: 7}.limit())
}

func TestFailMessage(t *testing.T) {
	assert.Equal(t, "unknown error", failMessage(nil))
	assert.Equal(t, "boom", failMessage(errors.New("boom")))
}

func TestAnnotationRows(t *testing.T) {
	rows := annotationRows("run-1", testAnnotations())
	require.Len(t, rows, 2)
	assert.Equal(t, []any{"run-1", 0, 9, 24, "of June 1, 2017", "2017-06-01", 0.91}, rows[0])
	assert.Equal(t, "2018-08-06T10:30:00-05:00", rows[1][5])
	assert.Len(t, rows[1], len(annotationColumns))
}
