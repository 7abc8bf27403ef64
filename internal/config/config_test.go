package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/limitdiff/internal/limits"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %q, want %q", cfg.Server.Host, "0.0.0.0")
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 8080)
	}
	if cfg.Compare.MaxConcurrent != 4 {
		t.Errorf("Compare.MaxConcurrent = %d, want %d", cfg.Compare.MaxConcurrent, 4)
	}
	if cfg.Compare.MaxFileSize != 32<<20 {
		t.Errorf("Compare.MaxFileSize = %d, want %d", cfg.Compare.MaxFileSize, 32<<20)
	}
	if cfg.Compare.Timeout != time.Minute {
		t.Errorf("Compare.Timeout = %v, want 1m", cfg.Compare.Timeout)
	}
	if !cfg.Parse.BlankIsNull {
		t.Error("Parse.BlankIsNull = false, want true")
	}
}

func TestParseConfig_DefaultsMatchEngine(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff(limits.DefaultOptions(), cfg.Parse.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("COMPARE_MAX_CONCURRENT", "10")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LIMITDIFF_PARAMETRIC", "Parametric Name")
	t.Setenv("LIMITDIFF_METRICS", "lower, upper")
	t.Setenv("LIMITDIFF_BEGIN_FROM_PARAMETRIC", "true")
	t.Setenv("LIMITDIFF_BLANK_IS_NULL", "false")
	t.Setenv("LIMITDIFF_SHEET", "Limits")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Compare.MaxConcurrent != 10 {
		t.Errorf("Compare.MaxConcurrent = %d, want %d", cfg.Compare.MaxConcurrent, 10)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Parse.Sheet != "Limits" {
		t.Errorf("Parse.Sheet = %q, want Limits", cfg.Parse.Sheet)
	}

	want := limits.Options{
		ParametricMarker:    "Parametric Name",
		MetricLabels:        []string{"lower", "upper"},
		IncludeMarkerColumn: true,
		NullTokens:          []string{"N/A", "NULL", "-"},
		KeyRowMarker:        "key",
	}
	if diff := cmp.Diff(want, cfg.Parse.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_Duration(t *testing.T) {
	t.Setenv("COMPARE_MAX_WAIT_TIME", "45s")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "2m")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Compare.MaxWaitTime != 45*time.Second {
		t.Errorf("Compare.MaxWaitTime = %v, want %v", cfg.Compare.MaxWaitTime, 45*time.Second)
	}
	if cfg.Server.ShutdownTimeout != 2*time.Minute {
		t.Errorf("Server.ShutdownTimeout = %v, want %v", cfg.Server.ShutdownTimeout, 2*time.Minute)
	}
}

func TestLoad_InvalidValue(t *testing.T) {
	tests := []struct {
		env, value string
	}{
		{"SERVER_PORT", "eighty"},
		{"COMPARE_TIMEOUT", "soon"},
		{"LIMITDIFF_BLANK_IS_NULL", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatal("Load() succeeded, want error")
			}
			if !strings.Contains(err.Error(), tt.env) {
				t.Errorf("error %q does not name %s", err, tt.env)
			}
		})
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 172.16.0.0/12,,192.168.0.0/16")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	want := []string{"10.0.0.0/8", "172.16.0.0/12", "192.168.0.0/16"}
	if diff := cmp.Diff(want, cfg.Security.TrustedProxies); diff != "" {
		t.Errorf("TrustedProxies mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	t.Setenv("SERVER_PORT", "70000")
	t.Setenv("LOG_LEVEL", "chatty")
	t.Setenv("COMPARE_MAX_CONCURRENT", "-1")

	_, err := Load()
	if err == nil {
		t.Fatal("Load() succeeded, want validation error")
	}
	for _, want := range []string{"SERVER_PORT", "LOG_LEVEL", "COMPARE_MAX_CONCURRENT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention %s", err, want)
		}
	}
}

func TestValidate_EmptyMarker(t *testing.T) {
	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}
	cfg.Parse.KeyMarker = " "

	err = cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "key row marker") {
		t.Errorf("Validate() = %v, want key row marker error", err)
	}
}

func TestValidate_RequireAPIKeyWithoutKeys(t *testing.T) {
	t.Setenv("REQUIRE_API_KEY", "true")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "API_KEYS") {
		t.Errorf("Load() = %v, want API_KEYS error", err)
	}

	t.Setenv("API_KEYS", "k1,k2")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(cfg.Security.APIKeys) != 2 {
		t.Errorf("APIKeys = %q, want 2 keys", cfg.Security.APIKeys)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 9000, ":9000"},
		{"::1", 8080, "[::1]:8080"},
	}

	for _, tt := range tests {
		c := ServerConfig{Host: tt.host, Port: tt.port}
		if got := c.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestConfigString(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	s := cfg.String()
	for _, want := range []string{`Marker: "parametric"`, "Port: 8080", "MaxConcurrent: 4"} {
		if !strings.Contains(s, want) {
			t.Errorf("String() = %q, missing %q", s, want)
		}
	}
}

func TestProfile_Apply(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tester.yaml")
	data := `
parametric: Test Name
metrics: [lo, hi]
nulls: ["NA", ""]
sheet: Limits
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadEnv()
	if err != nil {
		t.Fatalf("LoadEnv() error = %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	p.Apply(&cfg.Parse)

	want := limits.Options{
		ParametricMarker: "Test Name",
		MetricLabels:     []string{"lo", "hi"},
		NullTokens:       []string{"NA", ""},
		KeyRowMarker:     "key",
	}
	if diff := cmp.Diff(want, cfg.Parse.Options()); diff != "" {
		t.Errorf("Options() mismatch (-want +got):\n%s", diff)
	}
	if cfg.Parse.Sheet != "Limits" {
		t.Errorf("Sheet = %q, want Limits", cfg.Parse.Sheet)
	}
}

func TestParseProfile(t *testing.T) {
	t.Run("empty document keeps everything", func(t *testing.T) {
		p, err := ParseProfile(nil)
		if err != nil {
			t.Fatalf("ParseProfile() error = %v", err)
		}
		pc := ParseConfig{ParametricMarker: "parametric", BlankIsNull: true}
		p.Apply(&pc)
		if pc.ParametricMarker != "parametric" || !pc.BlankIsNull {
			t.Errorf("empty profile changed config: %+v", pc)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		if _, err := ParseProfile([]byte("parametrik: x\n")); err == nil {
			t.Error("ParseProfile() accepted an unknown key")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadProfile(filepath.Join(t.TempDir(), "none.yaml"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Errorf("LoadProfile() error = %v, want os.ErrNotExist", err)
		}
	})
}
