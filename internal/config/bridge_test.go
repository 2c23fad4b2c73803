package config

import (
	"os"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.KeyDeserializer != "string" {
		t.Errorf("KeyDeserializer default = %q, want %q", cfg.KeyDeserializer, "string")
	}
	if cfg.ValueDeserializer != "bytearray" {
		t.Errorf("ValueDeserializer default = %q, want %q", cfg.ValueDeserializer, "bytearray")
	}
	if cfg.AutoOffsetReset != "latest" {
		t.Errorf("AutoOffsetReset default = %q, want %q", cfg.AutoOffsetReset, "latest")
	}
	if cfg.EnableAutoCommit {
		t.Errorf("EnableAutoCommit default = true, want false")
	}
}

func TestLoad_UnsupportedSchemaVersion(t *testing.T) {
	dir := t.TempDir()
	path := dir + "/bridge.yaml"
	if err := os.WriteFile(path, []byte("schema_version: v2\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for unsupported schema_version")
	}
}
