package models

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWithDefaults(t *testing.T) {
	cfg := Config{}.WithDefaults()
	if cfg.DatabaseName != DefaultDatabaseName {
		t.Errorf("DatabaseName = %q, want %q", cfg.DatabaseName, DefaultDatabaseName)
	}
	if cfg.CacheDir != filepath.Join(DefaultDataDir, "cache") {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
	if cfg.RequestTimeout != DefaultRequestTimeout {
		t.Errorf("RequestTimeout = %v, want %v", cfg.RequestTimeout, DefaultRequestTimeout)
	}
	if cfg.CrawlDelay != 0 {
		t.Errorf("CrawlDelay = %v, want 0", cfg.CrawlDelay)
	}

	testCfg := Config{Testing: true}.WithDefaults()
	if testCfg.DatabaseName != DefaultTestDBName {
		t.Errorf("testing DatabaseName = %q, want %q", testCfg.DatabaseName, DefaultTestDBName)
	}
	if testCfg.CacheDir != filepath.Join(DefaultTestDataDir, "cache") {
		t.Errorf("testing CacheDir = %q", testCfg.CacheDir)
	}
	if want := filepath.Join(DefaultTestDataDir, "tmp.db"); testCfg.DBPath() != want {
		t.Errorf("testing DBPath() = %q, want %q", testCfg.DBPath(), want)
	}

	custom := Config{DatabaseName: "mine", CacheDir: "/tmp/c"}.WithDefaults()
	if custom.DatabaseName != "mine" || custom.CacheDir != "/tmp/c" {
		t.Errorf("WithDefaults() overwrote set fields: %+v", custom)
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "deepfield.yaml")
	content := "database_name: history\ncrawl_delay: 5s\ncache_dir: /var/cache/deepfield\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.DatabaseName != "history" {
		t.Errorf("DatabaseName = %q, want history", cfg.DatabaseName)
	}
	if cfg.CrawlDelay != 5*time.Second {
		t.Errorf("CrawlDelay = %v, want 5s", cfg.CrawlDelay)
	}
	if cfg.CacheDir != "/var/cache/deepfield" {
		t.Errorf("CacheDir = %q", cfg.CacheDir)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v, want nil for a missing file", err)
	}
	if cfg.DatabaseName == "" {
		t.Error("defaults were not applied")
	}
}

func TestLoadConfigEnv(t *testing.T) {
	t.Setenv(TestingEnv, "1")
	t.Setenv("DEEPFIELD_CRAWL_DELAY", "4s")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !cfg.Testing {
		t.Error("Testing = false, want true")
	}
	if cfg.DatabaseName != DefaultTestDBName {
		t.Errorf("DatabaseName = %q, want %q", cfg.DatabaseName, DefaultTestDBName)
	}
	if cfg.CrawlDelay != 4*time.Second {
		t.Errorf("CrawlDelay = %v, want 4s", cfg.CrawlDelay)
	}
}

func TestValidateDatabaseName(t *testing.T) {
	tests := []struct {
		name    string
		wantErr bool
	}{
		{"stats", false},
		{"my_stats", false},
		{"", true},
		{"stats.db", true},
		{"dir/stats", true},
	}
	for _, tt := range tests {
		if err := ValidateDatabaseName(tt.name); (err != nil) != tt.wantErr {
			t.Errorf("ValidateDatabaseName(%q) error = %v, wantErr %v", tt.name, err, tt.wantErr)
		}
	}
}

func TestParseRunners(t *testing.T) {
	tests := []struct {
		in   string
		want OnBase
	}{
		{"---", Empty},
		{"1--", First},
		{"-2-", Second},
		{"--3", Third},
		{"1-3", First | Third},
		{"123", First | Second | Third},
	}
	for _, tt := range tests {
		if got := ParseRunners(tt.in); got != tt.want {
			t.Errorf("ParseRunners(%q) = %d, want %d", tt.in, got, tt.want)
		}
		if got := tt.want.String(); got != tt.in {
			t.Errorf("OnBase(%d).String() = %q, want %q", tt.want, got, tt.in)
		}
	}
}

func TestParseHandedness(t *testing.T) {
	for in, want := range map[string]Handedness{"Left": Left, "Right": Right, "Both": Both} {
		got, err := ParseHandedness(in)
		if err != nil || got != want {
			t.Errorf("ParseHandedness(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseHandedness("Unknown"); err == nil {
		t.Error("ParseHandedness(Unknown) should fail")
	}
}
