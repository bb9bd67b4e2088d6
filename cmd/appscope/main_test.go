package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := listener.Addr().(*net.TCPAddr).Port
	require.NoError(t, listener.Close())
	return port
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "appscope.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRun_MissingConfig(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	err := run(ctx, Opts{Config: "non-existent-config.yml"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load config")
}

func TestRun_InvalidConfig(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "broken yaml", content: "invalid: yaml: content: ["},
		{name: "unknown provider", content: "llm:\n  provider: llama\n"},
		{name: "poll wait too long", content: "server:\n  timeout: 10s\n  poll_wait: 20s\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			err := run(ctx, Opts{Config: writeConfig(t, tt.content)})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "failed to load config")
		})
	}
}

func TestLoadConfig_DefaultMissing(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := loadConfig(defaultConfigPath)
	require.NoError(t, err)
	assert.Equal(t, ":8080", cfg.Server.Listen)
	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.False(t, cfg.Journal.Enabled)
}

func TestRun_ServerStartStop(t *testing.T) {
	port := freePort(t)
	dsn := "file:" + filepath.Join(t.TempDir(), "journal.db") + "?mode=rwc&_txlock=immediate"
	cfgPath := writeConfig(t, fmt.Sprintf(`
server:
  listen: "127.0.0.1:1"
  timeout: 5s
  poll_wait: 1s
journal:
  enabled: true
  dsn: %q
`, dsn))
	t.Setenv("API_KEY", "")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		// listen flag overrides the config file
		done <- run(ctx, Opts{Config: cfgPath, Listen: fmt.Sprintf("127.0.0.1:%d", port)})
	}()

	base := fmt.Sprintf("http://127.0.0.1:%d", port)
	require.Eventually(t, func() bool {
		resp, err := http.Get(base + "/ping")
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		body, _ := io.ReadAll(resp.Body)
		return resp.StatusCode == http.StatusOK && string(body) == "pong"
	}, 5*time.Second, 50*time.Millisecond)

	resp, err := http.Get(base + "/api/v1/runs")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode, "journal is wired when enabled")
	var runs []map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	assert.Empty(t, runs)

	resp, err = http.Get(base + "/")
	require.NoError(t, err)
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "Waiting to analyze your next target app.")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("server shutdown timeout")
	}
}

func TestSetupLog(t *testing.T) {
	t.Run("debug mode enabled", func(t *testing.T) {
		SetupLog(true, false)
	})

	t.Run("debug mode disabled", func(t *testing.T) {
		SetupLog(false, false)
	})

	t.Run("with secrets and no color", func(t *testing.T) {
		SetupLog(true, true, "secret1", "secret2")
	})
}
