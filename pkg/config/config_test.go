package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	t.Setenv(EnvGatewayBaseURL, "https://api.example.test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "dev" {
		t.Fatalf("expected App.Env default dev, got %q", cfg.App.Env)
	}
	if cfg.Gateway.RequestTimeout != 10*time.Second {
		t.Fatalf("unexpected request timeout: %v", cfg.Gateway.RequestTimeout)
	}
	if cfg.Cart.DebounceWindow != 700*time.Millisecond {
		t.Fatalf("unexpected debounce window: %v", cfg.Cart.DebounceWindow)
	}
	if cfg.Cart.QuantityMax != 99 {
		t.Fatalf("unexpected quantity max: %d", cfg.Cart.QuantityMax)
	}
}

func TestLoad_MissingGatewayURLDefersToProfile(t *testing.T) {
	if err := os.Unsetenv(EnvGatewayBaseURL); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvGatewayBaseURL, err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("missing url should defer validation to the profile overlay: %v", err)
	}
	if err := cfg.ValidateGateway(); err == nil {
		t.Fatal("expected validation to fail with no url from any source")
	}

	cfg.ApplyProfile(Profile{GatewayURL: "https://shop.example.test"})
	if err := cfg.ValidateGateway(); err != nil {
		t.Fatalf("profile-supplied url should validate: %v", err)
	}
}

func TestLoad_RejectsNonHTTPBaseURL(t *testing.T) {
	t.Setenv(EnvGatewayBaseURL, "ftp://api.example.test")

	if _, err := Load(); err == nil {
		t.Fatal("expected non-http base url to be rejected")
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}

func TestLoadProfileMissingFileYieldsEmpty(t *testing.T) {
	profile, err := LoadProfile(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("missing profile should not error: %v", err)
	}
	if profile.GatewayURL != "" || profile.Token != "" {
		t.Fatalf("expected empty profile, got %+v", profile)
	}
}

func TestLoadProfileParsesAndTrims(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.toml")
	body := "gateway_url = \" https://shop.example.test \"\ntoken = \"abc123\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if profile.GatewayURL != "https://shop.example.test" {
		t.Fatalf("unexpected gateway url %q", profile.GatewayURL)
	}
	if profile.Token != "abc123" {
		t.Fatalf("unexpected token %q", profile.Token)
	}

	cfg := &Config{}
	cfg.ApplyProfile(profile)
	if cfg.Gateway.BaseURL != "https://shop.example.test" {
		t.Fatalf("profile should fill unset base url, got %q", cfg.Gateway.BaseURL)
	}
}
