package main

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const storedSnapshot = `{"ioPrice":2.5,"usdCnyRate":7.2,"processorData":[` +
	`{"datetime":"2024-06-01T10:00:00","processors":[{"name":"high speed","reward":1.5}]},` +
	`{"datetime":"2024-06-01T11:00:00","processors":[{"name":"high speed","reward":1.25}]}]}`

func TestExportCommand_FromService(t *testing.T) {
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/data/processor-data" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(storedSnapshot))
	}))
	defer service.Close()

	out := filepath.Join(t.TempDir(), "trend.xlsx")
	rootCmd.SetArgs([]string{"export", "--service-url", service.URL, "--out", out})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Series")
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, []string{"datetime", "high speed"}, rows[0])
}

func TestDownloadCommand_RejectsNonPositiveHours(t *testing.T) {
	rootCmd.SetArgs([]string{"download", "--hours", "0", "--dir", t.TempDir()})

	err := rootCmd.ExecuteContext(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "hours must be positive")
}

func TestPublishCommand_SendsNumbers(t *testing.T) {
	ticker := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"IOUSDT","price":"2.5"}`))
	}))
	defer ticker.Close()

	fx := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"base":"USD","rates":{"CNY":7.2}}`))
	}))
	defer fx.Close()

	var received []byte
	service := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		received = body
		_, _ = w.Write([]byte("Data saved"))
	}))
	defer service.Close()

	rootCmd.SetArgs([]string{"publish",
		"--dir", t.TempDir(),
		"--service-url", service.URL,
		"--ticker-url", ticker.URL,
		"--fx-url", fx.URL,
	})

	require.NoError(t, rootCmd.ExecuteContext(context.Background()))

	require.NotEmpty(t, received)
	assert.Contains(t, string(received), `"ioPrice":2.5`)
	assert.Contains(t, string(received), `"usdCnyRate":7.2`)
}
