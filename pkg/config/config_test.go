package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/sdejongh/codecompass/pkg/models"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	if cfg.Performance.BufferSize != 8192 {
		t.Errorf("BufferSize = %d, want 8192", cfg.Performance.BufferSize)
	}
	if cfg.Output.Directory != "output" {
		t.Errorf("Output.Directory = %s, want output", cfg.Output.Directory)
	}
	if cfg.Mode() != models.ModeDeep {
		t.Errorf("Mode() = %s, want deep", cfg.Mode())
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"HashAlgorithm", func(c *Config) { c.HashAlgorithm = "crc32" }, "hash_algorithm"},
		{"MaxWorkers", func(c *Config) { c.Performance.MaxWorkers = 0 }, "performance.max_workers"},
		{"BufferSize", func(c *Config) { c.Performance.BufferSize = 512 }, "performance.buffer_size"},
		{"BandwidthLimit", func(c *Config) { c.Performance.BandwidthLimit = -1 }, "performance.bandwidth_limit"},
		{"OutputFormat", func(c *Config) { c.Output.Format = "xml" }, "output.format"},
		{"LogFormat", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"LogLevel", func(c *Config) { c.Logging.Level = "trace" }, "logging.level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			var vErr *models.ValidationError
			if !errors.As(err, &vErr) {
				t.Fatalf("Validate() error = %v, want *models.ValidationError", err)
			}
			if vErr.Field != tt.field {
				t.Errorf("Field = %s, want %s", vErr.Field, tt.field)
			}
		})
	}
}

func TestRequirePaths(t *testing.T) {
	cfg := Default()
	if err := cfg.RequirePaths(); err == nil {
		t.Error("RequirePaths() should fail without a base path")
	}

	cfg.BasePath = "base"
	var vErr *models.ValidationError
	if err := cfg.RequirePaths(); !errors.As(err, &vErr) || vErr.Field != "target_project_path" {
		t.Errorf("RequirePaths() error = %v, want target_project_path", err)
	}

	cfg.TargetPath = "target"
	if err := cfg.RequirePaths(); err != nil {
		t.Errorf("RequirePaths() error = %v", err)
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `base_project_path: ../canonical
target_project_path: ../fork
ignored_patterns: [".git", "*.min.js"]
ignored_file_extensions: [".log"]
quick_scan: true
hash_algorithm: md5
performance:
  max_workers: 4
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}

	if cfg.BasePath != "../canonical" || cfg.TargetPath != "../fork" {
		t.Errorf("paths = %s, %s", cfg.BasePath, cfg.TargetPath)
	}
	if !reflect.DeepEqual(cfg.IgnoredPatterns, []string{".git", "*.min.js"}) {
		t.Errorf("IgnoredPatterns = %v", cfg.IgnoredPatterns)
	}
	if !cfg.QuickScan || cfg.Mode() != models.ModeQuick {
		t.Error("quick_scan not applied")
	}
	if cfg.HashAlgorithm != "md5" || cfg.Performance.MaxWorkers != 4 {
		t.Errorf("hash = %s, workers = %d", cfg.HashAlgorithm, cfg.Performance.MaxWorkers)
	}
	// Unset keys keep their defaults
	if cfg.Performance.BufferSize != 8192 || cfg.Output.Format != "text" {
		t.Errorf("defaults lost: buffer = %d, format = %s", cfg.Performance.BufferSize, cfg.Output.Format)
	}

	rules := cfg.IgnoreRules()
	if !reflect.DeepEqual(rules.Extensions, []string{".log"}) {
		t.Errorf("IgnoreRules().Extensions = %v", rules.Extensions)
	}
}

func TestLoadFromFileJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
  "base_project_path": "/srv/base",
  "target_project_path": "/srv/target",
  "ignored_patterns": ["node_modules", "build/*"],
  "ignored_file_extensions": [".pyc", ".log"]
}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if cfg.BasePath != "/srv/base" || cfg.TargetPath != "/srv/target" {
		t.Errorf("paths = %s, %s", cfg.BasePath, cfg.TargetPath)
	}
	if !reflect.DeepEqual(cfg.IgnoredExtensions, []string{".pyc", ".log"}) {
		t.Errorf("IgnoredExtensions = %v", cfg.IgnoredExtensions)
	}
}

func TestLoadFromFileErrors(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing", func(t *testing.T) {
		if _, err := LoadFromFile(filepath.Join(dir, "nope.yaml")); err == nil {
			t.Error("LoadFromFile() should fail for a missing file")
		}
	})

	t.Run("Malformed", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		os.WriteFile(path, []byte("ignored_patterns: [unclosed"), 0644)
		if _, err := LoadFromFile(path); err == nil {
			t.Error("LoadFromFile() should fail for malformed YAML")
		}
	})

	t.Run("Invalid", func(t *testing.T) {
		path := filepath.Join(dir, "invalid.yaml")
		os.WriteFile(path, []byte("hash_algorithm: sha1\n"), 0644)
		_, err := LoadFromFile(path)
		var vErr *models.ValidationError
		if !errors.As(err, &vErr) {
			t.Errorf("LoadFromFile() error = %v, want wrapped ValidationError", err)
		}
	})
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := Default()
	cfg.BasePath = "a"
	cfg.TargetPath = "b"
	cfg.IgnoredExtensions = []string{".tmp"}
	cfg.Output.Format = "json"

	if err := SaveToFile(cfg, path); err != nil {
		t.Fatalf("SaveToFile() error = %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile() error = %v", err)
	}
	if !reflect.DeepEqual(cfg, loaded) {
		t.Errorf("reloaded config = %+v, want %+v", loaded, cfg)
	}

	bad := Default()
	bad.Performance.MaxWorkers = 0
	if err := SaveToFile(bad, path); err == nil {
		t.Error("SaveToFile() should refuse an invalid config")
	}
}

func TestResolveAndLoad(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	work := t.TempDir()

	t.Run("NothingFound", func(t *testing.T) {
		cfg, used, err := Load("", work)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if used != "" {
			t.Errorf("used = %s, want none", used)
		}
		if !reflect.DeepEqual(cfg, Default()) {
			t.Error("Load() without files should return defaults")
		}
	})

	t.Run("UserConfig", func(t *testing.T) {
		userPath := filepath.Join(home, ".config", "codecompass", "config.yaml")
		os.MkdirAll(filepath.Dir(userPath), 0755)
		os.WriteFile(userPath, []byte("quick_scan: true\n"), 0644)

		cfg, used, err := Load("", work)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if used != userPath || !cfg.QuickScan {
			t.Errorf("used = %s, quick = %v", used, cfg.QuickScan)
		}
	})

	t.Run("WorkingDirBeatsUser", func(t *testing.T) {
		local := filepath.Join(work, "config.json")
		os.WriteFile(local, []byte(`{"base_project_path": "here"}`), 0644)

		cfg, used, err := Load("", work)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if used != local || cfg.BasePath != "here" {
			t.Errorf("used = %s, base = %s", used, cfg.BasePath)
		}
	})

	t.Run("ExplicitWins", func(t *testing.T) {
		explicit := filepath.Join(t.TempDir(), "custom.yaml")
		os.WriteFile(explicit, []byte("base_project_path: explicit\n"), 0644)

		cfg, used, err := Load(explicit, work)
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if used != explicit || cfg.BasePath != "explicit" {
			t.Errorf("used = %s, base = %s", used, cfg.BasePath)
		}
	})

	t.Run("ExplicitMissing", func(t *testing.T) {
		if _, _, err := Load(filepath.Join(work, "absent.yaml"), work); err == nil {
			t.Error("Load() should fail when the explicit file is missing")
		}
	})
}
