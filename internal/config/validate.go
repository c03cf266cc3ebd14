package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	for _, field := range []*string{
		&c.Paths.InboxDir,
		&c.Paths.VaultDir,
		&c.Paths.LogDir,
		&c.Paths.QuarantineDir,
		&c.Paths.DuplicatesDir,
	} {
		if strings.TrimSpace(*field) == "" {
			*field = ""
			continue
		}
		expanded, err := ExpandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}
	c.Integrity.HashAlgorithm = strings.ToLower(strings.TrimSpace(c.Integrity.HashAlgorithm))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	return nil
}

// Validate checks configuration invariants after normalization.
func (c *Config) Validate() error {
	if c.Paths.InboxDir == "" {
		return fmt.Errorf("config: inbox_dir must be set")
	}
	if c.Paths.VaultDir == "" {
		return fmt.Errorf("config: vault_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return fmt.Errorf("config: log_dir must be set")
	}
	switch c.Integrity.HashAlgorithm {
	case "sha256", "sha1", "md5":
	default:
		return fmt.Errorf("config: hash_algorithm %q unsupported (sha256, sha1, md5)", c.Integrity.HashAlgorithm)
	}
	if c.Naming.MaxFilenameLength < 32 {
		return fmt.Errorf("config: max_filename_length %d too small (minimum 32)", c.Naming.MaxFilenameLength)
	}
	if c.Naming.MaxPathLength < c.Naming.MaxFilenameLength {
		return fmt.Errorf("config: max_path_length %d smaller than max_filename_length %d",
			c.Naming.MaxPathLength, c.Naming.MaxFilenameLength)
	}
	if strings.TrimSpace(c.Naming.Pattern) == "" {
		return fmt.Errorf("config: naming pattern must not be empty")
	}
	if c.Run.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1")
	}
	if c.Run.AmbiguityThreshold < 0 || c.Run.AmbiguityThreshold > 1 {
		return fmt.Errorf("config: ambiguity_threshold %v outside [0,1]", c.Run.AmbiguityThreshold)
	}
	return nil
}
