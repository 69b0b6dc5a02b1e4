package main

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lahirunirmalx/cOrange/internal/config"
	"github.com/lahirunirmalx/cOrange/internal/orangehrm"
)

func TestRunRequest(t *testing.T) {
	s := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case orangehrm.TokenPath:
			_, _ = w.Write([]byte(`{"access_token":"tok"}`))
		case "/api/employees":
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
			_, _ = w.Write([]byte(`{"data":[{"empNumber":7}]}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer s.Close()

	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(configPath, []byte(`
base_url = "`+s.URL+`"
client_id = "api_client"
client_secret = "s3cret"
type = "client_credentials"
`), 0600))
	t.Setenv("CONFIG_FILE", configPath)
	t.Setenv("JOURNAL_FILE", filepath.Join(dir, "journal.log"))

	var out bytes.Buffer
	err := runRequest(context.Background(), "get", "/api/employees", "", &out, config.WithHTTPClient(s.Client()))

	require.NoError(t, err)
	assert.Equal(t, "{\"data\":[{\"empNumber\":7}]}\n", out.String())
}

func TestRunRequestUnknownMethod(t *testing.T) {
	err := runRequest(context.Background(), "TRACE", "/api/employees", "", &bytes.Buffer{})
	require.ErrorContains(t, err, "unsupported HTTP method")
}
