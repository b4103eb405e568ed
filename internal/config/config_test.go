package config

import (
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/shiftboard/internal/grid"
)

func baseVars() map[string]string {
	return map[string]string{"BACKEND_URL": "http://localhost:8081"}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://localhost:8081")

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
	if cfg.Backend.Timeout != 10*time.Second {
		t.Errorf("Backend.Timeout = %v, want 10s", cfg.Backend.Timeout)
	}
	if !cfg.Cache.KeepPreviousData {
		t.Error("Cache.KeepPreviousData = false, want true")
	}
	if cfg.Cache.FetchTimeout != 0 {
		t.Errorf("Cache.FetchTimeout = %v, want 0", cfg.Cache.FetchTimeout)
	}
	if cfg.TimeStyle() != grid.TimeCompact {
		t.Errorf("TimeStyle() = %q, want compact", cfg.TimeStyle())
	}
	if cfg.Rate.RequestsPerMinute != 120 {
		t.Errorf("Rate.RequestsPerMinute = %d, want %d", cfg.Rate.RequestsPerMinute, 120)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	vars := baseVars()
	vars["SERVER_PORT"] = "9090"
	vars["CACHE_KEEP_PREVIOUS_DATA"] = "false"
	vars["DISPLAY_TIME_STYLE"] = "padded"
	vars["LOG_LEVEL"] = "debug"
	vars["BACKEND_API_KEY"] = "secret"

	cfg, err := LoadFrom(MapLookup(vars))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("Server.Port = %d, want %d", cfg.Server.Port, 9090)
	}
	if cfg.Cache.KeepPreviousData {
		t.Error("Cache.KeepPreviousData = true, want false")
	}
	if cfg.TimeStyle() != grid.TimePadded {
		t.Errorf("TimeStyle() = %q, want padded", cfg.TimeStyle())
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Backend.APIKey != "secret" {
		t.Errorf("Backend.APIKey = %q, want secret", cfg.Backend.APIKey)
	}
}

func TestLoad_AltEnvVar(t *testing.T) {
	cfg, err := LoadFrom(MapLookup(map[string]string{
		"API_URL": "https://api.example.com",
		"PORT":    "3000",
	}))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	if cfg.Backend.URL != "https://api.example.com" {
		t.Errorf("Backend.URL = %q", cfg.Backend.URL)
	}
	if cfg.Server.Port != 3000 {
		t.Errorf("Server.Port = %d, want 3000", cfg.Server.Port)
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	_, err := LoadFrom(MapLookup(nil))
	if err == nil {
		t.Fatal("LoadFrom() should fail when BACKEND_URL is missing")
	}
	if !strings.Contains(err.Error(), "BACKEND_URL") {
		t.Errorf("error = %v, should name BACKEND_URL", err)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "CACHE_FETCH_TIMEOUT", "soon"},
		{"bad int", "SERVER_PORT", "eighty"},
		{"bad bool", "CACHE_KEEP_PREVIOUS_DATA", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := baseVars()
			vars[tt.key] = tt.val
			_, err := LoadFrom(MapLookup(vars))
			if err == nil || !strings.Contains(err.Error(), tt.key) {
				t.Errorf("LoadFrom() error = %v, want error naming %s", err, tt.key)
			}
		})
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	vars := baseVars()
	vars["TRUSTED_PROXIES"] = "10.0.0.0/8, 192.168.0.0/16 ,,127.0.0.1"

	cfg, err := LoadFrom(MapLookup(vars))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	want := []string{"10.0.0.0/8", "192.168.0.0/16", "127.0.0.1"}
	if len(cfg.Security.TrustedProxies) != len(want) {
		t.Fatalf("TrustedProxies = %v, want %v", cfg.Security.TrustedProxies, want)
	}
	for i, p := range want {
		if cfg.Security.TrustedProxies[i] != p {
			t.Errorf("TrustedProxies[%d] = %q, want %q", i, cfg.Security.TrustedProxies[i], p)
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		val     string
		wantErr string
	}{
		{"port out of range", "SERVER_PORT", "70000", "SERVER_PORT"},
		{"backend not http", "BACKEND_URL", "ftp://files", "BACKEND_URL"},
		{"backend no host", "BACKEND_URL", "http://", "BACKEND_URL"},
		{"time style", "DISPLAY_TIME_STYLE", "iso", "DISPLAY_TIME_STYLE"},
		{"log level", "LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"log format", "LOG_FORMAT", "xml", "LOG_FORMAT"},
		{"rate", "RATE_LIMIT_REQUESTS_PER_MINUTE", "0", "RATE_LIMIT_REQUESTS_PER_MINUTE"},
		{"negative fetch timeout", "CACHE_FETCH_TIMEOUT", "-1s", "CACHE_FETCH_TIMEOUT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vars := baseVars()
			vars[tt.key] = tt.val
			_, err := LoadFrom(MapLookup(vars))
			if err == nil {
				t.Fatal("LoadFrom() error = nil, want validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %s", err, tt.wantErr)
			}
		})
	}
}

func TestValidate_AggregatesErrors(t *testing.T) {
	vars := baseVars()
	vars["LOG_LEVEL"] = "loud"
	vars["LOG_FORMAT"] = "yaml"

	_, err := LoadFrom(MapLookup(vars))
	if err == nil {
		t.Fatal("LoadFrom() error = nil")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") || !strings.Contains(err.Error(), "LOG_FORMAT") {
		t.Errorf("error = %v, want both failures listed", err)
	}
}

func TestServerAddr(t *testing.T) {
	tests := []struct {
		host string
		port int
		want string
	}{
		{"0.0.0.0", 8080, "0.0.0.0:8080"},
		{"", 3000, ":3000"},
		{"::1", 9000, "[::1]:9000"},
	}

	for _, tt := range tests {
		cfg := ServerConfig{Host: tt.host, Port: tt.port}
		if got := cfg.Addr(); got != tt.want {
			t.Errorf("Addr() = %q, want %q", got, tt.want)
		}
	}
}

func TestConfigString_MasksAPIKey(t *testing.T) {
	vars := baseVars()
	vars["BACKEND_API_KEY"] = "super-secret"

	cfg, err := LoadFrom(MapLookup(vars))
	if err != nil {
		t.Fatalf("LoadFrom() error = %v", err)
	}

	s := cfg.String()
	if strings.Contains(s, "super-secret") {
		t.Errorf("String() leaks the API key: %s", s)
	}
	if !strings.Contains(s, "[MASKED]") {
		t.Errorf("String() = %s, want masked key", s)
	}
}
