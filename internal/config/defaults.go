package config

// Default returns the baseline configuration before any file overrides.
func Default() Config {
	return Config{
		Paths: Paths{
			InboxDir: "~/curator/inbox",
			VaultDir: "~/curator/vault",
			LogDir:   "~/curator/logs",
		},
		Categories: Categories{
			Photos:    "photos",
			Documents: "documents",
			Videos:    "videos",
			Audio:     "audio",
			Archives:  "archives",
			Other:     "other",
		},
		Naming: Naming{
			Pattern:           "{date}-{time}-{device}-{size}",
			MaxFilenameLength: 255,
			MaxPathLength:     260,
		},
		Integrity: Integrity{
			HashAlgorithm: "sha256",
		},
		Run: Run{
			Workers:            4,
			AmbiguityThreshold: 0.5,
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
