package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/datextract/internal/model"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func testParams() model.RunParams {
	return model.RunParams{
		Locale:    "en-US",
		Threshold: 0.5,
		BaseDate:  time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func testAnnotations() []model.DateAnnotation {
	clock := model.Date{Time: time.Date(2018, time.August, 6, 10, 30, 0, 0, time.FixedZone("", -5*3600)), HasClock: true}
	return []model.DateAnnotation{
		{Coords: model.Span{Start: 9, End: 24}, Text: "of June 1, 2017", Date: model.NewDate(2017, time.June, 1), Score: 0.91},
		{Coords: model.Span{Start: 40, End: 70}, Text: "August 6, 2018 at 10:30 am EST", Date: clock, Score: 0.66},
	}
}

func TestSQLite_CreateAndGetRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "contract.txt", testParams())
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, "contract.txt", got.Source)
	assert.Equal(t, model.RunStatusRunning, got.Status)
	assert.Equal(t, "en-US", got.Params.Locale)
	assert.InDelta(t, 0.5, got.Params.Threshold, 1e-9)
	assert.True(t, got.Params.BaseDate.Equal(testParams().BaseDate))
	assert.Empty(t, got.Annotations)
}

func TestSQLite_GetRun_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.GetRun(context.Background(), "nonexistent")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
	assert.True(t, eris.Is(err, ErrRunNotFound))
}

func TestSQLite_SaveAnnotations_RoundTrip(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "contract.txt", testParams())
	require.NoError(t, err)

	want := testAnnotations()
	require.NoError(t, st.SaveAnnotations(ctx, run.ID, want))
	require.NoError(t, st.CompleteRun(ctx, run.ID))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusComplete, got.Status)
	require.Len(t, got.Annotations, 2)
	for i := range want {
		assert.Equal(t, want[i].Coords, got.Annotations[i].Coords)
		assert.Equal(t, want[i].Text, got.Annotations[i].Text)
		assert.True(t, want[i].Date.Equal(got.Annotations[i].Date), got.Annotations[i].Date.String())
		assert.Equal(t, want[i].Date.String(), got.Annotations[i].Date.String())
		assert.InDelta(t, want[i].Score, got.Annotations[i].Score, 1e-9)
	}
}

func TestSQLite_SaveAnnotations_Replaces(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "a.txt", testParams())
	require.NoError(t, err)
	require.NoError(t, st.SaveAnnotations(ctx, run.ID, testAnnotations()))
	require.NoError(t, st.SaveAnnotations(ctx, run.ID, testAnnotations()[:1]))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, got.Annotations, 1)
	assert.Equal(t, "of June 1, 2017", got.Annotations[0].Text)

	require.NoError(t, st.SaveAnnotations(ctx, run.ID, nil))
	got, err = st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Annotations)
}

func TestSQLite_SaveAnnotations_UnknownRun(t *testing.T) {
	st := newTestSQLiteStore(t)

	err := st.SaveAnnotations(context.Background(), "missing", testAnnotations())
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRunNotFound))
}

func TestSQLite_FailRun(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	run, err := st.CreateRun(ctx, "https://example.com/doc", testParams())
	require.NoError(t, err)
	require.NoError(t, st.FailRun(ctx, run.ID, eris.New("fetch: status 404")))

	got, err := st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RunStatusFailed, got.Status)
	assert.Contains(t, got.Error, "status 404")

	require.NoError(t, st.FailRun(ctx, run.ID, nil))
	got, err = st.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, "unknown error", got.Error)
}

func TestSQLite_StatusUpdate_NotFound(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	assert.True(t, errors.Is(st.CompleteRun(ctx, "missing"), ErrRunNotFound))
	assert.True(t, errors.Is(st.FailRun(ctx, "missing", nil), ErrRunNotFound))
}

func TestSQLite_ListRuns_Filters(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	var ids []string
	for _, src := range []string{"a.txt", "b.txt", "a.txt"} {
		run, err := st.CreateRun(ctx, src, testParams())
		require.NoError(t, err)
		ids = append(ids, run.ID)
	}
	require.NoError(t, st.CompleteRun(ctx, ids[0]))

	all, err := st.ListRuns(ctx, RunFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 3)

	complete, err := st.ListRuns(ctx, RunFilter{Status: model.RunStatusComplete})
	require.NoError(t, err)
	require.Len(t, complete, 1)
	assert.Equal(t, ids[0], complete[0].ID)

	bySource, err := st.ListRuns(ctx, RunFilter{Source: "a.txt"})
	require.NoError(t, err)
	assert.Len(t, bySource, 2)

	limited, err := st.ListRuns(ctx, RunFilter{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, limited, 2)

	rest, err := st.ListRuns(ctx, RunFilter{Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Len(t, rest, 1)
}

func TestSQLite_ListRuns_Empty(t *testing.T) {
	st := newTestSQLiteStore(t)

	runs, err := st.ListRuns(context.Background(), RunFilter{})
	require.NoError(t, err)
	assert.Empty(t, runs)
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	assert.NoError(t, st.Migrate(context.Background()))
}
