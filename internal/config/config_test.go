package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"curator/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := config.Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Naming.MaxFilenameLength != 255 {
		t.Fatalf("unexpected default max_filename_length: %d", cfg.Naming.MaxFilenameLength)
	}
	if cfg.Integrity.HashAlgorithm != "sha256" {
		t.Fatalf("unexpected default hash algorithm: %s", cfg.Integrity.HashAlgorithm)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curator.toml")
	content := `
[paths]
inbox_dir = "` + filepath.Join(dir, "in") + `"
vault_dir = "` + filepath.Join(dir, "vault") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[integrity]
hash_algorithm = "SHA1"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("unexpected resolution: exists=%v path=%s", exists, resolved)
	}
	if cfg.Integrity.HashAlgorithm != "sha1" {
		t.Fatalf("expected normalized sha1, got %s", cfg.Integrity.HashAlgorithm)
	}
	if !filepath.IsAbs(cfg.Paths.VaultDir) {
		t.Fatalf("expected absolute vault dir, got %s", cfg.Paths.VaultDir)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"bad algorithm", func(c *config.Config) { c.Integrity.HashAlgorithm = "crc32" }, "hash_algorithm"},
		{"tiny filename limit", func(c *config.Config) { c.Naming.MaxFilenameLength = 8 }, "max_filename_length"},
		{"zero workers", func(c *config.Config) { c.Run.Workers = 0 }, "workers"},
		{"threshold range", func(c *config.Config) { c.Run.AmbiguityThreshold = 1.5 }, "ambiguity_threshold"},
		{"empty pattern", func(c *config.Config) { c.Naming.Pattern = " " }, "pattern"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.InboxDir = "/tmp/in"
			cfg.Paths.VaultDir = "/tmp/vault"
			cfg.Paths.LogDir = "/tmp/logs"
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("expected error mentioning %q, got %v", tc.want, err)
			}
		})
	}
}

func TestCategoryFolder(t *testing.T) {
	cfg := config.Default()
	cfg.Categories.Photos = "bilder"
	if got := cfg.CategoryFolder("photos"); got != "bilder" {
		t.Fatalf("CategoryFolder(photos) = %s", got)
	}
	if got := cfg.CategoryFolder("unheard-of"); got != "other" {
		t.Fatalf("CategoryFolder(unknown) = %s", got)
	}
}
