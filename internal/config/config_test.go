package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/five82/postboard/internal/placeholder"
	"github.com/five82/postboard/internal/query"
	"github.com/five82/postboard/internal/session"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIBase != placeholder.DefaultBaseURL {
		t.Fatalf("APIBase = %q, want %q", cfg.APIBase, placeholder.DefaultBaseURL)
	}
	if cfg.RequestTimeout != defaultRequestTimeout {
		t.Fatalf("RequestTimeout = %v, want %v", cfg.RequestTimeout, defaultRequestTimeout)
	}
	if cfg.RateLimit != defaultRateLimit {
		t.Fatalf("RateLimit = %v, want %v", cfg.RateLimit, defaultRateLimit)
	}
	if cfg.WriteStrategy != session.ApplyEcho {
		t.Fatalf("WriteStrategy = %q, want echo", cfg.WriteStrategy)
	}
	if cfg.PageSize != query.DefaultPageSize {
		t.Fatalf("PageSize = %d, want %d", cfg.PageSize, query.DefaultPageSize)
	}
	if cfg.RefreshEvery != 0 {
		t.Fatalf("RefreshEvery = %v, want disabled", cfg.RefreshEvery)
	}

	wantLog, err := expandPath(defaultLogPath)
	if err != nil {
		t.Fatalf("expandPath(defaultLogPath) returned error: %v", err)
	}
	if cfg.LogPath != wantLog {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath, wantLog)
	}
	if cfg.MetricsAddr != "" {
		t.Fatalf("MetricsAddr = %q, want empty", cfg.MetricsAddr)
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	path := writeConfig(t, `
api_base = "  http://localhost:3000/api  "
request_timeout = " 3s "
rate_limit = 2.5
write_strategy = "DRAFT"
page_size = 25
refresh_every = "1m"
log_path = "  ~/logs/pb.log  "
log_level = "Debug"
metrics_addr = " 127.0.0.1:9310 "
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	want := Config{
		APIBase:        "http://localhost:3000/api",
		RequestTimeout: 3 * time.Second,
		RateLimit:      2.5,
		WriteStrategy:  session.ApplyDraft,
		PageSize:       25,
		RefreshEvery:   time.Minute,
		LogPath:        filepath.Join(home, "logs", "pb.log"),
		LogLevel:       "debug",
		MetricsAddr:    "127.0.0.1:9310",
	}
	if cfg != want {
		t.Fatalf("Load = %+v\nwant   %+v", cfg, want)
	}
}

func TestLoad_IntegerRateLimitAndZeroDisables(t *testing.T) {
	cfg, err := Load(writeConfig(t, "rate_limit = 0\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RateLimit != 0 {
		t.Fatalf("RateLimit = %v, want 0", cfg.RateLimit)
	}

	cfg, err = Load(writeConfig(t, "rate_limit = 12\n"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.RateLimit != 12 {
		t.Fatalf("RateLimit = %v, want 12", cfg.RateLimit)
	}
}

func TestLoad_EmptyValuesUseDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load(writeConfig(t, `
api_base = "   "
request_timeout = ""
write_strategy = ""
page_size = 0
log_path = ""
log_level = " "
`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	def := Default()
	if cfg != def {
		t.Fatalf("Load = %+v, want defaults %+v", cfg, def)
	}
}

func TestLoad_StreamLogPathsAreNotExpanded(t *testing.T) {
	cfg, err := Load(writeConfig(t, `log_path = "stderr"`))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.LogPath != "stderr" {
		t.Fatalf("LogPath = %q, want stderr", cfg.LogPath)
	}
}

func TestLoad_InvalidValuesFail(t *testing.T) {
	cases := map[string]string{
		"syntax":            `api_base = [`,
		"duration":          `request_timeout = "soon"`,
		"negative duration": `refresh_every = "-5s"`,
		"negative rate":     `rate_limit = -1`,
		"rate type":         `rate_limit = "fast"`,
		"strategy":          `write_strategy = "merge"`,
		"page size":         `page_size = -2`,
		"log level":         `log_level = "chatty"`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			if err == nil {
				t.Fatalf("Load returned nil error, want parse error")
			}
			if !strings.Contains(err.Error(), "parse config") {
				t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
			}
		})
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestPrefsPath_SitsBesideConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	if got, want := PrefsPath(""), filepath.Join(home, ".config", "postboard", "prefs.toml"); got != want {
		t.Fatalf("PrefsPath(\"\") = %q, want %q", got, want)
	}
	dir := t.TempDir()
	if got, want := PrefsPath(filepath.Join(dir, "custom.toml")), filepath.Join(dir, "prefs.toml"); got != want {
		t.Fatalf("PrefsPath = %q, want %q", got, want)
	}
}
