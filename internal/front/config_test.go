package front

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "front.env")
	env := "BACKEND_URL=http://api:9000\nAPI_KEY=abcdef123456\nREQUEST_TIMEOUT=15\nALLOW_ORIGINS=http://a.test, http://b.test\nCOOKIE_SECURE=TRUE\n"
	if err := os.WriteFile(path, []byte(env), 0o600); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides variables that are already set
	for _, k := range []string{"BACKEND_URL", "API_KEY", "REQUEST_TIMEOUT", "ALLOW_ORIGINS", "COOKIE_SECURE", "SESSION_COOKIE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}

	cfg := loadConfig(path)
	if cfg.ConfigPath != "front.env" {
		t.Errorf("ConfigPath = %q", cfg.ConfigPath)
	}
	if cfg.BackendURL != "http://api:9000" || cfg.APIKey != "abcdef123456" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Errorf("RequestTimeout = %v", cfg.RequestTimeout)
	}
	if !reflect.DeepEqual(cfg.AllowedOrigins, []string{"http://a.test", "http://b.test"}) {
		t.Errorf("AllowedOrigins = %q", cfg.AllowedOrigins)
	}
	if !cfg.CookieSecure || cfg.SessionCookie != "token" {
		t.Errorf("cookie settings = %v %q", cfg.CookieSecure, cfg.SessionCookie)
	}

	dump := cfg.toString()
	if strings.Contains(dump, "abcdef123456") {
		t.Error("config dump leaks the api key")
	}
	if !strings.Contains(dump, "ab********56") {
		t.Errorf("masked key missing from dump:\n%s", dump)
	}
}

func TestGetDurationEnv(t *testing.T) {
	tests := []struct {
		value string
		want  time.Duration
	}{
		{"", 0},
		{"2m", 2 * time.Minute},
		{"30", 30 * time.Second},
		{"soon", 0},
	}

	for _, tt := range tests {
		t.Setenv("TEST_TIMEOUT", tt.value)
		if got := getDurationEnv("TEST_TIMEOUT", 0); got != tt.want {
			t.Errorf("getDurationEnv(%q) = %v, expected %v", tt.value, got, tt.want)
		}
	}
}

func TestMaskSecret(t *testing.T) {
	if got := maskSecret("abc"); got != "***" {
		t.Errorf("maskSecret(abc) = %q", got)
	}
	if got := maskSecret(""); got != "" {
		t.Errorf("maskSecret(\"\") = %q", got)
	}
}
