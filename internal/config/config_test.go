package config

import (
	"os"
	"testing"
)

func TestGetEnvWithDefault(t *testing.T) {
	testCases := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "should return env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "from_env",
			expected:     "from_env",
		},
		{
			name:         "should return default when env not set",
			key:          "MISSING_KEY",
			defaultValue: "default_value",
			envValue:     "",
			expected:     "default_value",
		},
		{
			name:         "should return empty string default",
			key:          "EMPTY_KEY",
			defaultValue: "",
			envValue:     "",
			expected:     "",
		},
	}

	for _, tt := range testCases {
		t.Run(tt.name, func(t *testing.T) {
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			got := GetEnvWithDefault(tt.key, tt.defaultValue)
			if got != tt.expected {
				t.Errorf("GetEnvWithDefault(%q, %q) = %q, want %q", tt.key, tt.defaultValue, got, tt.expected)
			}
		})
	}
}

func TestGetEnvAsType(t *testing.T) {
	os.Setenv("TEST_INT", "42")
	os.Setenv("TEST_BOOL", "true")
	os.Setenv("TEST_BAD_INT", "not-a-number")
	defer func() {
		os.Unsetenv("TEST_INT")
		os.Unsetenv("TEST_BOOL")
		os.Unsetenv("TEST_BAD_INT")
	}()

	if got := GetEnvAsType("TEST_INT", 0); got != 42 {
		t.Errorf("GetEnvAsType int = %d, want 42", got)
	}
	if got := GetEnvAsType("TEST_BOOL", false); got != true {
		t.Errorf("GetEnvAsType bool = %v, want true", got)
	}
	if got := GetEnvAsType("TEST_BAD_INT", 7); got != 7 {
		t.Errorf("GetEnvAsType invalid int = %d, want fallback 7", got)
	}
	if got := GetEnvAsType("TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("GetEnvAsType unset = %q, want fallback", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Port)
	}
	if cfg.DBDriver != "sqlite" {
		t.Errorf("default db driver = %q, want sqlite", cfg.DBDriver)
	}
}

func TestLoadConfigRejectsBadRedirectURL(t *testing.T) {
	os.Setenv("GOOGLE_REDIRECT_URL", "not a url")
	defer os.Unsetenv("GOOGLE_REDIRECT_URL")

	if _, err := LoadConfig(); err == nil {
		t.Error("LoadConfig() accepted an invalid redirect URL")
	}
}

func TestConfigStringMasksSecrets(t *testing.T) {
	cfg := &Config{
		JWTSecret:          "super-secret",
		DBPassword:         "hunter2",
		GoogleClientSecret: "google-secret",
	}

	s := cfg.String()
	for _, secret := range []string{"super-secret", "hunter2", "google-secret"} {
		if contains(s, secret) {
			t.Errorf("Config.String() leaked secret %q", secret)
		}
	}
}

func contains(s, sub string) bool {
	for i := 0; i+len(sub) <= len(s); i++ {
		if s[i:i+len(sub)] == sub {
			return true
		}
	}
	return false
}
