package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func freePort(t *testing.T) int {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	return ln.Addr().(*net.TCPAddr).Port
}

func startTestServer(t *testing.T) (string, context.CancelFunc, chan error) {
	t.Helper()

	port := freePort(t)
	t.Setenv("FG_STOCK_CONFIG", "")
	t.Setenv("HTTP_HOST", "127.0.0.1")
	t.Setenv("HTTP_PORT", strconv.Itoa(port))
	t.Setenv("LOGGER_LEVEL", "error")

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() {
		errCh <- run(ctx, nil)
	}()

	return "http://127.0.0.1:" + strconv.Itoa(port), cancel, errCh
}

func waitForHealthReady(t *testing.T, client *http.Client, baseURL string) *http.Response {
	t.Helper()

	var resp *http.Response
	var err error

	for i := 0; i < 20; i++ {
		resp, err = client.Get(baseURL + "/api/health")
		if err == nil {
			return resp
		}
		time.Sleep(100 * time.Millisecond)
	}

	t.Fatalf("failed to call /api/health: %v", err)
	return nil
}

func waitForShutdown(t *testing.T, errCh chan error) {
	t.Helper()

	select {
	case <-time.After(5 * time.Second):
		t.Fatalf("run(ctx) did not exit after cancel")
	case err := <-errCh:
		assert.NoError(t, err)
	}
}

func TestRun_HealthEndpoint(t *testing.T) {
	baseURL, cancel, errCh := startTestServer(t)
	defer cancel()

	client := &http.Client{Timeout: 3 * time.Second}

	resp := waitForHealthReady(t, client, baseURL)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, `{"status":"healthy","service":"fg-stock-dashboard-api"}`, strings.TrimSpace(string(body)))

	req, err := http.NewRequest(http.MethodGet, baseURL+"/api/health", http.NoBody)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.test")

	resp, err = client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "https://example.test", resp.Header.Get("Access-Control-Allow-Origin"))

	cancel()
	waitForShutdown(t, errCh)
}

func TestRun_InvalidConfig(t *testing.T) {
	t.Setenv("FG_STOCK_CONFIG", "")
	t.Setenv("LOGGER_LOGGER", "logrus")

	err := run(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestRun_BadFlag(t *testing.T) {
	err := run(context.Background(), []string{"--unknown"})
	assert.Error(t, err)
}
