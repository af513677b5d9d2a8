package init

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/open-cli-collective/rdml-cli/internal/config"
)

func TestVerifySource_DirWithPaths(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "intro.rdml"), []byte(`<proc name="intro"/>`), 0644))

	cfg := &config.Config{SourceDir: dir, Paths: []string{"intro.rdml"}}
	assert.NoError(t, verifySource(context.Background(), cfg))

	cfg.Paths = append(cfg.Paths, "missing.rdml")
	err := verifySource(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.rdml")
}

func TestVerifySource_DirOnly(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "intro.rdml")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name       string
		sourceDir  string
		errContain string
	}{
		{"existing folder", dir, ""},
		{"missing folder", filepath.Join(dir, "nope"), "source folder not found"},
		{"file instead of folder", file, "not a folder"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := verifySource(context.Background(), &config.Config{SourceDir: tt.sourceDir})
			if tt.errContain == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContain)
		})
	}
}

func TestVerifySource_StatusCodes(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    bool
		errContain string
	}{
		{"200 OK", http.StatusOK, false, ""},
		{"401 Unauthorized", http.StatusUnauthorized, true, "401 Unauthorized"},
		{"404 Not Found", http.StatusNotFound, true, "404 Not Found"},
		{"502 Bad Gateway", http.StatusBadGateway, true, "502 Bad Gateway"},
		{"503 Service Unavailable", http.StatusServiceUnavailable, true, "503 Service Unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/rdml/intro.rdml", r.URL.Path)
				w.WriteHeader(tt.statusCode)
			}))
			defer server.Close()

			cfg := &config.Config{BaseURL: server.URL, Paths: []string{"intro.rdml"}}
			cfg.NormalizeBaseURL()

			err := verifySource(context.Background(), cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContain)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestVerifySource_URLWithoutPaths(t *testing.T) {
	assert.NoError(t, verifySource(context.Background(), &config.Config{BaseURL: "http://localhost:99999/rdml"}))
}

func TestVerifySource_NetworkError(t *testing.T) {
	cfg := &config.Config{
		BaseURL: "http://localhost:99999/rdml", // Non-existent server
		Paths:   []string{"intro.rdml"},
	}

	err := verifySource(context.Background(), cfg)
	require.Error(t, err)
}

func TestVerifySource_NoSource(t *testing.T) {
	err := verifySource(context.Background(), &config.Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no script source configured")
}

func TestNewCmdInit_Flags(t *testing.T) {
	cmd := NewCmdInit()

	// Verify command structure
	assert.Equal(t, "init", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"source-dir", "base-url", "paths"} {
		flag := cmd.Flags().Lookup(name)
		require.NotNil(t, flag, name)
		assert.Equal(t, "", flag.DefValue)
	}

	noVerifyFlag := cmd.Flags().Lookup("no-verify")
	require.NotNil(t, noVerifyFlag)
	assert.Equal(t, "false", noVerifyFlag.DefValue)
}
