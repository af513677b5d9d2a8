package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rdml-cli/internal/config"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.Config
		want    interface{}
		wantErr bool
	}{
		{"base url", config.Config{BaseURL: "https://example.com/rdml"}, &HTTPLoader{}, false},
		{"source dir", config.Config{SourceDir: "scripts"}, DirLoader{}, false},
		{"base url wins", config.Config{SourceDir: "scripts", BaseURL: "https://example.com"}, &HTTPLoader{}, false},
		{"nothing configured", config.Config{}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(&tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, tt.want, l)
		})
	}
}

func TestDirLoader_Load(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "town/inn.rdml", `<proc name="inn"/>`)

	l := DirLoader{Root: dir}

	src, err := l.Load(context.Background(), "town/inn.rdml")
	require.NoError(t, err)
	assert.Equal(t, `<proc name="inn"/>`, src)

	_, err = l.Load(context.Background(), "missing.rdml")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDirLoader_RejectsEscapingPaths(t *testing.T) {
	l := DirLoader{Root: t.TempDir()}

	for _, p := range []string{"../secret", "/etc/passwd", "a/../../b", "", "."} {
		t.Run(p, func(t *testing.T) {
			_, err := l.Load(context.Background(), p)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid script path")
		})
	}
}

func TestDirLoader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := DirLoader{Root: t.TempDir()}.Load(ctx, "a.rdml")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPLoader_Load(t *testing.T) {
	var capturedPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		capturedPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<wait time="1"/>`))
	}))
	defer server.Close()

	l := NewHTTPLoader(server.URL + "/rdml/")
	src, err := l.Load(context.Background(), "events/intro.rdml")
	require.NoError(t, err)
	assert.Equal(t, `<wait time="1"/>`, src)
	assert.Equal(t, "/rdml/events/intro.rdml", capturedPath)
}

func TestHTTPLoader_ErrorResponse(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantMsg    string
	}{
		{"not found", http.StatusNotFound, "no such file", "404 Not Found: no such file"},
		{"forbidden", http.StatusForbidden, "", "403 Forbidden"},
		{"server error", http.StatusInternalServerError, strings.Repeat("x", 500), "500 Internal Server Error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewHTTPLoader(server.URL).Load(context.Background(), "a.rdml")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)

			var se *StatusError
			require.ErrorAs(t, err, &se)
			assert.Equal(t, tt.statusCode, se.StatusCode)
			assert.LessOrEqual(t, len(se.Body), maxErrorBody+3)
		})
	}
}

func TestHTTPLoader_ContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewHTTPLoader(server.URL).Load(ctx, "a.rdml")
	require.Error(t, err)
}

func TestLoadAll(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.rdml", "A")
	writeFile(t, dir, "b.rdml", "B")
	writeFile(t, dir, "c/d.rdml", "D")

	files, err := LoadAll(context.Background(), DirLoader{Root: dir}, []string{"c/d.rdml", "a.rdml", "b.rdml"})
	require.NoError(t, err)
	assert.Equal(t, []File{
		{Path: "c/d.rdml", Src: "D"},
		{Path: "a.rdml", Src: "A"},
		{Path: "b.rdml", Src: "B"},
	}, files)
}

func TestLoadAll_Empty(t *testing.T) {
	files, err := LoadAll(context.Background(), DirLoader{Root: t.TempDir()}, nil)
	require.NoError(t, err)
	assert.Empty(t, files)
}

func TestLoadAll_FirstErrorWins(t *testing.T) {
	var requests atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.URL.Path == "/bad.rdml" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	files, err := LoadAll(context.Background(), NewHTTPLoader(server.URL), []string{"good.rdml", "bad.rdml"})
	require.Error(t, err)
	assert.Nil(t, files)
	assert.Contains(t, err.Error(), "404")
	assert.GreaterOrEqual(t, requests.Load(), int32(1))
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "x.rdml", "file")

	src, err := ReadInput(filepath.Join(dir, "x.rdml"), nil)
	require.NoError(t, err)
	assert.Equal(t, "file", src)

	src, err = ReadInput("-", strings.NewReader("stdin"))
	require.NoError(t, err)
	assert.Equal(t, "stdin", src)

	_, err = ReadInput(filepath.Join(dir, "missing.rdml"), nil)
	assert.Error(t, err)
}
