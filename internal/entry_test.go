package internal

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lifemirror/lifemirror/internal/clock"
	"github.com/lifemirror/lifemirror/internal/export"
	"github.com/lifemirror/lifemirror/internal/identity"
	"github.com/lifemirror/lifemirror/internal/metrics"
	"github.com/lifemirror/lifemirror/internal/models"
)

const testSecret = "0123456789abcdef0123"

func testConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "lifemirror.db")
	cfg.Auth.Secret = testSecret
	require.NoError(t, cfg.Validate())
	return cfg
}

func newTestHandler(t *testing.T, cfg *Config) (http.Handler, *core) {
	t.Helper()
	c, err := openCore(cfg, clock.FixedDate("2024-06-15"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.db.Close() })

	v, err := newVerifier(cfg.Auth)
	require.NoError(t, err)
	return newHandler(c, v, nil, metrics.New()), c
}

func get(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandler_Health(t *testing.T) {
	h, c := newTestHandler(t, testConfig(t))

	rec := get(h, "/health/live", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = get(h, "/health/ready", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	require.NoError(t, c.db.Close())
	rec = get(h, "/health/ready", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}

func TestHandler_APIRequiresToken(t *testing.T) {
	cfg := testConfig(t)
	h, _ := newTestHandler(t, cfg)

	assert.Equal(t, http.StatusUnauthorized, get(h, "/api/tasks", "").Code)

	token, err := IssueToken(cfg, "alice", time.Hour)
	require.NoError(t, err)
	rec := get(h, "/api/tasks", token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_MetricsExposeRoutePattern(t *testing.T) {
	cfg := testConfig(t)
	h, _ := newTestHandler(t, cfg)

	get(h, "/health/live", "")
	rec := get(h, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `lifemirror_http_requests_total{method="GET",route="/health/live",status="200"} 1`)
}

func TestNewVerifier(t *testing.T) {
	v, err := newVerifier(AuthConfig{Mode: AuthModeDisabled, DevOwner: "dev"})
	require.NoError(t, err)
	owner, err := v.Verify(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "dev", owner)

	v, err = newVerifier(AuthConfig{Mode: AuthModeJWT, Secret: testSecret})
	require.NoError(t, err)
	assert.IsType(t, &identity.JWT{}, v)

	_, err = newVerifier(AuthConfig{Mode: "ldap"})
	assert.Error(t, err)
}

func TestIssueToken_DisabledAuth(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth = AuthConfig{Mode: AuthModeDisabled, DevOwner: "dev"}
	_, err := IssueToken(cfg, "alice", time.Hour)
	assert.Error(t, err)
}

func TestExport_EndToEnd(t *testing.T) {
	cfg := testConfig(t)
	clk := clock.FixedDate("2024-06-15")

	c, err := openCore(cfg, clk, nil)
	require.NoError(t, err)
	_, err = c.services.Tasks.Create(context.Background(), "alice", models.TaskInput{
		Text: "Pay rent",
		Date: "2024-06-15",
		Type: models.TaskTypeTask,
	})
	require.NoError(t, err)
	require.NoError(t, c.db.Close())

	out := filepath.Join(t.TempDir(), "snapshot")
	m, err := Export(context.Background(), "alice", out,
		WithConfig(cfg), WithClock(clk), WithLogOutput(&strings.Builder{}))
	require.NoError(t, err)
	assert.Equal(t, "alice", m.Owner)
	assert.Contains(t, m.Files, "tasks.yaml")

	data, err := os.ReadFile(filepath.Join(out, export.ManifestFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), "owner: alice")
	tasks, err := os.ReadFile(filepath.Join(out, "tasks.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(tasks), "Pay rent")
}

func TestCommands_RequireOwner(t *testing.T) {
	cfg := testConfig(t)
	_, err := Export(context.Background(), "", t.TempDir(), WithConfig(cfg))
	assert.Error(t, err)
	assert.Error(t, RunMCP(context.Background(), "", WithConfig(cfg)))
}

func TestRun_RequiresConfig(t *testing.T) {
	assert.Error(t, Run(context.Background()))
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRun_StopsOnSignalWithConfigWatcher(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.HTTP.Port = freePort(t)

	configPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("app:\n  log_level: info\n"), 0o600))

	sigs := make(chan chan<- os.Signal, 1)
	done := make(chan error, 1)
	go func() {
		done <- Run(context.Background(),
			WithConfig(cfg),
			WithConfigPath(configPath),
			WithLogOutput(io.Discard),
			func(a *application) {
				a.notifySignals = func(c chan<- os.Signal) { sigs <- c }
			})
	}()

	var quit chan<- os.Signal
	select {
	case quit = <-sigs:
	case <-time.After(5 * time.Second):
		t.Fatal("Run never subscribed to shutdown signals")
	}
	require.Eventually(t, func() bool {
		resp, err := http.Get(fmt.Sprintf("http://127.0.0.1:%d/health/live", cfg.App.HTTP.Port))
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusOK
	}, 5*time.Second, 20*time.Millisecond)

	quit <- syscall.SIGTERM

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after SIGTERM")
	}
}

func TestRun_StopsOnContextCancel(t *testing.T) {
	cfg := testConfig(t)
	cfg.App.HTTP.Port = freePort(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Run(ctx, WithConfig(cfg), WithLogOutput(io.Discard))
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancellation")
	}
}
