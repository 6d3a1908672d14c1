package config

import (
	"os"
	"testing"
)

func TestGetEnvOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal string
		expected   string
	}{
		{"uses env value", "TEST_VAR_1", "hello", "default", "hello"},
		{"uses default when empty", "TEST_VAR_2", "", "default", "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %q, got %q", tc.expected, result)
			}
		})
	}
}

func TestGetEnvAsIntOrDefault(t *testing.T) {
	tests := []struct {
		name       string
		key        string
		envValue   string
		defaultVal int
		expected   int
	}{
		{"parses integer", "TEST_INT_1", "42", 10, 42},
		{"uses default for empty", "TEST_INT_2", "", 10, 10},
		{"uses default for non-numeric", "TEST_INT_3", "abc", 10, 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.envValue != "" {
				os.Setenv(tc.key, tc.envValue)
				defer os.Unsetenv(tc.key)
			}

			result := getEnvAsIntOrDefault(tc.key, tc.defaultVal)
			if result != tc.expected {
				t.Errorf("Expected %d, got %d", tc.expected, result)
			}
		})
	}
}

func TestMustGetEnv_Panics(t *testing.T) {
	defer func() {
		if r := recover(); r == nil {
			t.Error("Expected panic for missing required env var")
		}
	}()

	os.Unsetenv("NONEXISTENT_REQUIRED_VAR")
	mustGetEnv("NONEXISTENT_REQUIRED_VAR")
}

func TestMustGetEnv_ReturnsValue(t *testing.T) {
	os.Setenv("TEST_REQUIRED", "value123")
	defer os.Unsetenv("TEST_REQUIRED")

	result := mustGetEnv("TEST_REQUIRED")
	if result != "value123" {
		t.Errorf("Expected 'value123', got %q", result)
	}
}

func TestLoadValidatesThresholdOrdering(t *testing.T) {
	for k, v := range map[string]string{
		"DATABASE_URL":   "postgres://localhost/intervia",
		"REDIS_URL":      "redis://localhost:6379",
		"JWT_SECRET":     "0123456789abcdef0123456789abcdef",
		"GEMINI_API_KEY": "test-key",
	} {
		os.Setenv(k, v)
		defer os.Unsetenv(k)
	}

	// Half above full is nonsense and must be rejected.
	os.Setenv("SCORE_FULL_THRESHOLD", "50")
	os.Setenv("SCORE_HALF_THRESHOLD", "80")
	defer os.Unsetenv("SCORE_FULL_THRESHOLD")
	defer os.Unsetenv("SCORE_HALF_THRESHOLD")

	if _, err := Load(); err == nil {
		t.Error("Expected error for inverted score thresholds")
	}
}

func TestLoadDefaults(t *testing.T) {
	for k, v := range map[string]string{
		"DATABASE_URL":   "postgres://localhost/intervia",
		"REDIS_URL":      "redis://localhost:6379",
		"JWT_SECRET":     "0123456789abcdef0123456789abcdef",
		"GEMINI_API_KEY": "test-key",
	} {
		os.Setenv(k, v)
		defer os.Unsetenv(k)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.ScoreFullThreshold != 90 || cfg.ScoreHalfThreshold != 60 || cfg.ScoreQuarterThreshold != 30 {
		t.Errorf("score thresholds = %d/%d/%d, want 90/60/30",
			cfg.ScoreFullThreshold, cfg.ScoreHalfThreshold, cfg.ScoreQuarterThreshold)
	}
	if cfg.WeightEasy != 1 || cfg.WeightMedium != 3 || cfg.WeightHard != 5 {
		t.Errorf("weights = %d/%d/%d, want 1/3/5", cfg.WeightEasy, cfg.WeightMedium, cfg.WeightHard)
	}
}
