package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naveenbxyz/spexplorer/internal/core/domain"
	"github.com/naveenbxyz/spexplorer/internal/core/ports/driven"
)

func newTestConnector(t *testing.T, root string) *Connector {
	t.Helper()
	cfg, err := ParseConfig(domain.Source{
		ID:     "test-source",
		Type:   "filesystem",
		Config: map[string]string{"path": root},
	})
	require.NoError(t, err)
	return New("test-source", cfg)
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// drainPull reads both channels until they close.
func drainPull(t *testing.T, files <-chan domain.RemoteFile, errs <-chan error) ([]domain.RemoteFile, []error) {
	t.Helper()
	var out []domain.RemoteFile
	var es []error
	for files != nil || errs != nil {
		select {
		case f, ok := <-files:
			if !ok {
				files = nil
				continue
			}
			out = append(out, f)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			es = append(es, err)
		}
	}
	return out, es
}

// drainChanges reads both channels until they close.
func drainChanges(t *testing.T, changes <-chan domain.FileChange, errs <-chan error) ([]domain.FileChange, []error) {
	t.Helper()
	var out []domain.FileChange
	var es []error
	for changes != nil || errs != nil {
		select {
		case c, ok := <-changes:
			if !ok {
				changes = nil
				continue
			}
			out = append(out, c)
		case err, ok := <-errs:
			if !ok {
				errs = nil
				continue
			}
			es = append(es, err)
		}
	}
	return out, es
}

func TestNew(t *testing.T) {
	t.Run("creates connector", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())

		require.NotNil(t, connector)
		assert.Equal(t, "filesystem", connector.Type())
		assert.Equal(t, "test-source", connector.SourceID())
	})

	t.Run("implements Connector interface", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())
		var _ driven.Connector = connector
	})
}

func TestParseConfig(t *testing.T) {
	t.Run("requires path", func(t *testing.T) {
		cfg, err := ParseConfig(domain.Source{
			ID:     "s1",
			Type:   "filesystem",
			Config: map[string]string{},
		})

		assert.Nil(t, cfg)
		assert.ErrorIs(t, err, ErrConfigMissingPath)
	})

	t.Run("defaults patterns to spreadsheets", func(t *testing.T) {
		cfg, err := ParseConfig(domain.Source{
			ID:     "s1",
			Type:   "filesystem",
			Config: map[string]string{"path": "/data"},
		})

		require.NoError(t, err)
		assert.Equal(t, "/data", cfg.Root)
		assert.Equal(t, DefaultPatterns, cfg.Patterns)
	})

	t.Run("parses custom patterns", func(t *testing.T) {
		cfg, err := ParseConfig(domain.Source{
			ID:   "s1",
			Type: "filesystem",
			Config: map[string]string{
				"path":     "/data",
				"patterns": "client_*.xlsx, *.xls",
			},
		})

		require.NoError(t, err)
		assert.Equal(t, []string{"client_*.xlsx", "*.xls"}, cfg.Patterns)
	})
}

func TestConnector_Capabilities(t *testing.T) {
	connector := newTestConnector(t, t.TempDir())

	caps := connector.Capabilities()

	assert.True(t, caps.SupportsIncremental, "should support incremental pull")
	assert.True(t, caps.SupportsWatch, "should support watch")
	assert.True(t, caps.SupportsValidation, "should support validation")
	assert.True(t, caps.SupportsCursorReturn, "should support cursor return")
	assert.False(t, caps.RequiresAuth, "local source needs no auth")
	assert.False(t, caps.SupportsRateLimiting, "no rate limiting locally")
}

func TestConnector_Validate(t *testing.T) {
	t.Run("succeeds for existing directory", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())

		err := connector.Validate(context.Background())

		assert.NoError(t, err)
	})

	t.Run("fails for missing directory", func(t *testing.T) {
		connector := newTestConnector(t, "/nonexistent/path/nowhere")

		err := connector.Validate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})

	t.Run("fails for file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "report.xlsx", "data")
		connector := newTestConnector(t, path)

		err := connector.Validate(context.Background())

		require.Error(t, err)
		assert.Contains(t, err.Error(), "not a directory")
	})

	t.Run("fails after close", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())
		require.NoError(t, connector.Close())

		err := connector.Validate(context.Background())

		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
	})
}

func TestConnector_FullPull(t *testing.T) {
	t.Run("emits only matching spreadsheets", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "report.xlsx", "xlsx-bytes")
		writeFile(t, dir, "legacy.xls", "xls-bytes")
		writeFile(t, dir, "notes.txt", "text")
		writeFile(t, dir, ".hidden.xlsx", "hidden")
		writeFile(t, dir, "~$report.xlsx", "lock")

		connector := newTestConnector(t, dir)
		files, errs := connector.FullPull(context.Background())
		got, es := drainPull(t, files, errs)

		names := make([]string, 0, len(got))
		for _, f := range got {
			names = append(names, f.Name)
		}
		assert.ElementsMatch(t, []string{"report.xlsx", "legacy.xls"}, names)

		require.Len(t, es, 1)
		pc, ok := driven.IsPullComplete(es[0])
		require.True(t, ok, "expected PullComplete, got %v", es[0])
		_, err := strconv.ParseInt(pc.NewCursor, 10, 64)
		assert.NoError(t, err, "cursor should be unix nanos")
	})

	t.Run("walks nested folders and keeps relative paths", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, filepath.Join("uk", "acme", "report.xlsx"), "nested")

		connector := newTestConnector(t, dir)
		files, errs := connector.FullPull(context.Background())
		got, es := drainPull(t, files, errs)

		require.Len(t, got, 1)
		assert.Equal(t, "uk/acme/report.xlsx", got[0].Path)
		assert.Equal(t, "report.xlsx", got[0].Name)
		assert.Equal(t, "test-source", got[0].SourceID)
		assert.Equal(t, []byte("nested"), got[0].Content)
		assert.False(t, got[0].Modified.IsZero())
		assert.Equal(t, int64(len("nested")), got[0].Size)

		require.Len(t, es, 1)
		_, ok := driven.IsPullComplete(es[0])
		assert.True(t, ok)
	})

	t.Run("skips hidden directories", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, filepath.Join(".git", "blob.xlsx"), "ignored")
		writeFile(t, dir, "kept.xlsx", "kept")

		connector := newTestConnector(t, dir)
		files, errs := connector.FullPull(context.Background())
		got, _ := drainPull(t, files, errs)

		require.Len(t, got, 1)
		assert.Equal(t, "kept.xlsx", got[0].Name)
	})

	t.Run("empty directory completes with cursor", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())

		files, errs := connector.FullPull(context.Background())
		got, es := drainPull(t, files, errs)

		assert.Empty(t, got)
		require.Len(t, es, 1)
		_, ok := driven.IsPullComplete(es[0])
		assert.True(t, ok)
	})

	t.Run("reports closed connector", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())
		require.NoError(t, connector.Close())

		files, errs := connector.FullPull(context.Background())
		got, es := drainPull(t, files, errs)

		assert.Empty(t, got)
		require.Len(t, es, 1)
		assert.ErrorIs(t, es[0], domain.ErrConnectorClosed)
	})

	t.Run("honours custom patterns", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "client_acme.xlsx", "wanted")
		writeFile(t, dir, "summary.xlsx", "unwanted")

		cfg, err := ParseConfig(domain.Source{
			ID:   "s1",
			Type: "filesystem",
			Config: map[string]string{
				"path":     dir,
				"patterns": "client_*.xlsx",
			},
		})
		require.NoError(t, err)
		connector := New("s1", cfg)

		files, errs := connector.FullPull(context.Background())
		got, _ := drainPull(t, files, errs)

		require.Len(t, got, 1)
		assert.Equal(t, "client_acme.xlsx", got[0].Name)
	})
}

func TestConnector_IncrementalPull(t *testing.T) {
	t.Run("empty cursor emits everything as created", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "report.xlsx", "data")

		connector := newTestConnector(t, dir)
		changes, errs := connector.IncrementalPull(context.Background(), domain.PullState{
			SourceID: "test-source",
		})
		got, es := drainChanges(t, changes, errs)

		require.Len(t, got, 1)
		assert.Equal(t, domain.ChangeCreated, got[0].Type)
		assert.Equal(t, "report.xlsx", got[0].File.Name)

		require.Len(t, es, 1)
		pc, ok := driven.IsPullComplete(es[0])
		require.True(t, ok)
		assert.NotEmpty(t, pc.NewCursor)
	})

	t.Run("future cursor emits nothing", func(t *testing.T) {
		dir := t.TempDir()
		writeFile(t, dir, "report.xlsx", "data")

		connector := newTestConnector(t, dir)
		cursor := strconv.FormatInt(time.Now().Add(time.Hour).UnixNano(), 10)
		changes, errs := connector.IncrementalPull(context.Background(), domain.PullState{
			SourceID: "test-source",
			Cursor:   cursor,
		})
		got, es := drainChanges(t, changes, errs)

		assert.Empty(t, got)
		require.Len(t, es, 1)
		_, ok := driven.IsPullComplete(es[0])
		assert.True(t, ok)
	})

	t.Run("emits files modified after cursor", func(t *testing.T) {
		dir := t.TempDir()
		oldPath := writeFile(t, dir, "old.xlsx", "old")
		newPath := writeFile(t, dir, "new.xlsx", "new")

		past := time.Now().Add(-2 * time.Hour)
		require.NoError(t, os.Chtimes(oldPath, past, past))
		recent := time.Now()
		require.NoError(t, os.Chtimes(newPath, recent, recent))

		connector := newTestConnector(t, dir)
		cursor := strconv.FormatInt(time.Now().Add(-time.Hour).UnixNano(), 10)
		changes, errs := connector.IncrementalPull(context.Background(), domain.PullState{
			SourceID: "test-source",
			Cursor:   cursor,
		})
		got, es := drainChanges(t, changes, errs)

		require.Len(t, got, 1)
		assert.Equal(t, domain.ChangeUpdated, got[0].Type)
		assert.Equal(t, "new.xlsx", got[0].File.Name)

		require.Len(t, es, 1)
		_, ok := driven.IsPullComplete(es[0])
		assert.True(t, ok)
	})

	t.Run("rejects malformed cursor", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())

		changes, errs := connector.IncrementalPull(context.Background(), domain.PullState{
			SourceID: "test-source",
			Cursor:   "not-a-number",
		})
		got, es := drainChanges(t, changes, errs)

		assert.Empty(t, got)
		require.Len(t, es, 1)
		assert.Contains(t, es[0].Error(), "invalid cursor format")
	})
}

func TestConnector_Watch(t *testing.T) {
	t.Run("fails on closed connector", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())
		require.NoError(t, connector.Close())

		ch, err := connector.Watch(context.Background())

		assert.Nil(t, ch)
		assert.ErrorIs(t, err, domain.ErrConnectorClosed)
	})

	t.Run("emits created change for new spreadsheet", func(t *testing.T) {
		dir := t.TempDir()
		connector := newTestConnector(t, dir)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		writeFile(t, dir, "fresh.xlsx", "content")

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeCreated, change.Type)
			assert.Equal(t, "fresh.xlsx", change.File.Name)
			assert.Equal(t, []byte("content"), change.File.Content)
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for create event")
		}
	})

	t.Run("emits deleted change for removed spreadsheet", func(t *testing.T) {
		dir := t.TempDir()
		path := writeFile(t, dir, "doomed.xlsx", "content")
		connector := newTestConnector(t, dir)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		require.NoError(t, os.Remove(path))

		select {
		case change := <-changes:
			assert.Equal(t, domain.ChangeDeleted, change.Type)
			assert.Equal(t, "doomed.xlsx", change.File.Name)
			assert.Equal(t, "doomed.xlsx", change.File.Path)
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for delete event")
		}
	})

	t.Run("channel closes on context cancellation", func(t *testing.T) {
		connector := newTestConnector(t, t.TempDir())

		ctx, cancel := context.WithCancel(context.Background())
		changes, err := connector.Watch(ctx)
		require.NoError(t, err)

		cancel()

		select {
		case _, ok := <-changes:
			assert.False(t, ok, "channel should be closed")
		case <-time.After(3 * time.Second):
			t.Fatal("timed out waiting for channel close")
		}
	})
}

func TestWantsFile(t *testing.T) {
	connector := newTestConnector(t, "/data")

	tests := []struct {
		name string
		file string
		want bool
	}{
		{name: "xlsx file", file: "report.xlsx", want: true},
		{name: "xls file", file: "legacy.xls", want: true},
		{name: "uppercase", file: "REPORT.XLSX", want: true},
		{name: "text file", file: "notes.txt", want: false},
		{name: "hidden file", file: ".report.xlsx", want: false},
		{name: "excel lock file", file: "~$report.xlsx", want: false},
		{name: "csv file", file: "data.csv", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connector.wantsFile(tt.file))
		})
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Run("encodes and decodes", func(t *testing.T) {
		now := time.Now()

		decoded, err := decodeCursor(encodeCursor(now))

		require.NoError(t, err)
		assert.Equal(t, now.UnixNano(), decoded.UnixNano())
	})

	t.Run("empty cursor is zero time", func(t *testing.T) {
		decoded, err := decodeCursor("")

		require.NoError(t, err)
		assert.True(t, decoded.IsZero())
	})
}
