package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"LEDGER_BACKEND", "LEDGER_DB_PATH", "LEDGER_CURRENCY", "DEBUG"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendSQLite || cfg.DBPath != "ledger.db" || cfg.Currency != "CNY" || cfg.Debug {
		t.Errorf("defaults = %+v", cfg)
	}
}

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v, missing file should fall back to defaults", err)
	}
	if cfg.Backend != BackendSQLite {
		t.Errorf("Backend = %q", cfg.Backend)
	}
}

func TestLoadFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := "backend: memory\ndb_path: /tmp/x.db\ncurrency: USD\ndebug: true\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendMemory || cfg.DBPath != "/tmp/x.db" || cfg.Currency != "USD" || !cfg.Debug {
		t.Errorf("Load() = %+v", cfg)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("backend: sqlite\ncurrency: USD\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LEDGER_BACKEND", "memory")
	t.Setenv("LEDGER_CURRENCY", "EUR")
	t.Setenv("DEBUG", "true")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Backend != BackendMemory || cfg.Currency != "EUR" || !cfg.Debug {
		t.Errorf("Load() = %+v, env should win over the file", cfg)
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	clearEnv(t)
	t.Setenv("LEDGER_BACKEND", "postgres")
	if _, err := Load(""); err == nil {
		t.Error("Load() should reject an unknown backend")
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- not yaml"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Load() should surface a YAML parse error")
	}
}
