package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want 44100", cfg.SampleRate)
	}
	if cfg.BitDepth != 16 {
		t.Errorf("bit depth = %d, want 16", cfg.BitDepth)
	}
	if cfg.DefaultWPM != 150 {
		t.Errorf("wpm = %d, want 150", cfg.DefaultWPM)
	}
	if cfg.DefaultDuration != 3.0 {
		t.Errorf("duration = %v, want 3.0", cfg.DefaultDuration)
	}
	if cfg.DefaultStyle != "General Purpose" {
		t.Errorf("style = %q", cfg.DefaultStyle)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.OpenAIModel)
	}
	if cfg.IsConfigured() {
		t.Error("fresh config reports configured")
	}
	if cfg.PreferredDeviceIndex != nil {
		t.Error("fresh config has a preferred device index")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	idx := 2
	cfg := DefaultConfig()
	cfg.BasePath = "/data/voice"
	cfg.DefaultWPM = 120
	cfg.DefaultStyle = "Prose"
	cfg.PreferredDeviceIndex = &idx
	cfg.PreferredDeviceName = "USB Microphone"
	cfg.AutogenerateNext = true

	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if loaded.BasePath != cfg.BasePath {
		t.Errorf("base path = %q, want %q", loaded.BasePath, cfg.BasePath)
	}
	if loaded.DefaultWPM != 120 {
		t.Errorf("wpm = %d, want 120", loaded.DefaultWPM)
	}
	if loaded.DefaultStyle != "Prose" {
		t.Errorf("style = %q, want Prose", loaded.DefaultStyle)
	}
	if loaded.PreferredDeviceIndex == nil || *loaded.PreferredDeviceIndex != 2 {
		t.Errorf("device index = %v, want 2", loaded.PreferredDeviceIndex)
	}
	if loaded.PreferredDeviceName != "USB Microphone" {
		t.Errorf("device name = %q", loaded.PreferredDeviceName)
	}
	if !loaded.AutogenerateNext {
		t.Error("autogenerate flag lost")
	}
	if !loaded.IsConfigured() {
		t.Error("loaded config reports unconfigured")
	}
}

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SampleRate != 44100 || cfg.BasePath != "" {
		t.Errorf("missing file did not yield defaults: %+v", cfg)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("malformed config accepted")
	}
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	// Fields absent from the file keep their default values.
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"base_path": "/data/voice"}`), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.BasePath != "/data/voice" {
		t.Errorf("base path = %q", cfg.BasePath)
	}
	if cfg.SampleRate != 44100 {
		t.Errorf("sample rate = %d, want default 44100", cfg.SampleRate)
	}
	if cfg.OpenAIModel != "gpt-4o-mini" {
		t.Errorf("model = %q, want default", cfg.OpenAIModel)
	}
}

func TestLoadWithFallbackExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.BasePath = "/data/explicit"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded, err := LoadWithFallback(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.BasePath != "/data/explicit" {
		t.Errorf("base path = %q", loaded.BasePath)
	}
}

func TestAPIKeyNotInConfigFile(t *testing.T) {
	// The credential lives in the keychain; the JSON file must never
	// carry it.
	path := filepath.Join(t.TempDir(), "config.json")
	cfg := DefaultConfig()
	cfg.BasePath = "/data/voice"
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, banned := range []string{"api_key", "sk-"} {
		if strings.Contains(strings.ToLower(string(data)), banned) {
			t.Errorf("config file contains %q", banned)
		}
	}
}
