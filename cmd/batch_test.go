package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/takeoff-cli/internal/catalog"
	"github.com/sells-group/takeoff-cli/internal/config"
	"github.com/sells-group/takeoff-cli/internal/extractor"
	"github.com/sells-group/takeoff-cli/internal/model"
	"github.com/sells-group/takeoff-cli/internal/parser"
	"github.com/sells-group/takeoff-cli/internal/store"
)

func writePagesJSON(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	doc := `[{"page_number":1,"text":` + jsonString(text) + `}]`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func TestExpandPaths_Literal(t *testing.T) {
	paths, err := expandPaths([]string{"no-such-file.json"})
	require.NoError(t, err)
	assert.Equal(t, []string{"no-such-file.json"}, paths)
}

func TestExpandPaths_Glob(t *testing.T) {
	dir := t.TempDir()
	a := writePagesJSON(t, dir, "a.json", "QTY: 2 Floor Drain FD-100")
	b := writePagesJSON(t, dir, "b.json", "QTY: 1 Roof Drain RD-200")

	paths, err := expandPaths([]string{filepath.Join(dir, "*.json")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{a, b}, paths)
}

func TestProcessBatch(t *testing.T) {
	cfg = &config.Config{}
	cfg.Extract.PdfToTextPath = "pdftotext"

	dir := t.TempDir()
	good := writePagesJSON(t, dir, "good.json", "QTY: 2 Floor Drain FD-100")
	bad := filepath.Join(dir, "missing.json")

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	ctx := context.Background()
	require.NoError(t, st.Migrate(ctx))

	svc := extractor.New(parser.New(catalog.New()))

	require.NoError(t, processBatch(ctx, []string{good, bad}, 2, svc, st))

	runs, err := st.ListRuns(ctx, model.RunFilter{})
	require.NoError(t, err)
	require.Len(t, runs, 2)

	byStatus := map[model.RunStatus]model.Run{}
	for _, r := range runs {
		byStatus[r.Status] = r
	}

	completed, ok := byStatus[model.RunCompleted]
	require.True(t, ok, "expected one completed run")
	assert.Equal(t, good, completed.Source)
	require.NotNil(t, completed.Result)
	assert.Greater(t, completed.Result.Summary.TotalItems, 0)

	failed, ok := byStatus[model.RunFailed]
	require.True(t, ok, "expected one failed run")
	assert.Equal(t, bad, failed.Source)
	assert.NotEmpty(t, failed.Error)
}

func TestProcessBatch_Empty(t *testing.T) {
	cfg = &config.Config{}

	st, err := store.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))

	svc := extractor.New(parser.New(catalog.New()))
	require.NoError(t, processBatch(context.Background(), nil, 0, svc, st))
}
