package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestEnvOverrides(t *testing.T) {
	tests := []struct {
		name    string
		envKey  string
		envVal  string
		check   func(c *Config) string
		want    string
		initial string
	}{
		{
			name:   "api url override",
			envKey: "SHOPCHAT_API_URL",
			envVal: "http://example.com/api/v1",
			check:  func(c *Config) string { return c.APIBaseURL },
			want:   "http://example.com/api/v1",
		},
		{
			name:   "data dir override",
			envKey: "SHOPCHAT_DATA_DIR",
			envVal: "/tmp/shopchat-test",
			check:  func(c *Config) string { return c.DataDirectory },
			want:   "/tmp/shopchat-test",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Setenv(tt.envKey, tt.envVal)
			defer os.Unsetenv(tt.envKey)

			cfg := &Config{
				DataDirectory: "~/.local/share/shopchat",
				APIBaseURL:    "http://localhost:8000/api/v1",
			}
			cfg.applyEnvOverrides()

			if got := tt.check(cfg); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestCheckDebug(t *testing.T) {
	tests := []struct {
		value string
		want  bool
	}{
		{"true", true},
		{"1", true},
		{"", false},
		{"0", false},
		{"yes", false},
	}

	for _, tt := range tests {
		t.Run("value "+tt.value, func(t *testing.T) {
			if tt.value == "" {
				os.Unsetenv("SHOPCHAT_DEBUG")
			} else {
				os.Setenv("SHOPCHAT_DEBUG", tt.value)
				defer os.Unsetenv("SHOPCHAT_DEBUG")
			}
			if got := CheckDebug(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestGetDefaultDataDir(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix layout only")
	}

	t.Setenv("HOME", "/home/shopper")

	want := filepath.Join("/home/shopper", ".local", "share", "shopchat")
	if got := GetDefaultDataDir(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestExpandPath(t *testing.T) {
	home := GetHomeDir()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"tilde", "~/data", filepath.Join(home, "data")},
		{"absolute untouched", "/var/lib/shopchat", "/var/lib/shopchat"},
		{"cleaned", "/var//lib/../lib/shopchat", "/var/lib/shopchat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandPath(tt.in); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}
