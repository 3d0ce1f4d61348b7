// Package config provides centralized default configuration values.
package config

import "github.com/brianly1003/autosort/internal/domain/rules"

// DefaultTransientExtensions lists extensions of partially written files that
// must never be classified. Browsers write downloads under these names and
// rename them once complete.
//
// Users can extend this via config.yaml: watcher.transient_extensions
var DefaultTransientExtensions = []string{
	".tmp",
	".crdownload",
}

// DefaultRules returns the rule set used when the config file has none.
// Every rule routes to default_target_folder/<category>.
func DefaultRules() []rules.Rule {
	return []rules.Rule{
		{
			Category: "Documents",
			Extensions: []string{
				".pdf", ".doc", ".docx", ".txt", ".xls", ".xlsx",
				".ppt", ".pptx", ".csv", ".md",
			},
		},
		{
			Category: "Images",
			Extensions: []string{
				".jpg", ".jpeg", ".png", ".gif", ".bmp", ".svg",
				".webp", ".tiff", ".jfif",
			},
		},
		{
			Category:   "Zip",
			Extensions: []string{".zip", ".rar", ".7z", ".tar", ".gz"},
		},
		{
			Category:   "Videos",
			Extensions: []string{".mp4", ".avi", ".mov", ".wmv", ".flv", ".mkv"},
		},
		{
			Category:   "Audio",
			Extensions: []string{".mp3", ".wav", ".flac", ".aac", ".ogg"},
		},
		{
			Category: "Exe",
			Extensions: []string{
				".ipa", ".apk", ".dmg", ".pkg", ".deb", ".rpm", ".exe", ".msi",
			},
		},
		{
			Category: "Code",
			Extensions: []string{
				".py", ".json", ".js", ".html", ".css", ".java", ".c", ".cpp",
				".h", ".php", ".sh", ".bat", ".xml", ".jsx", ".ts", ".tsx",
				".scss", ".less", ".kt", ".cs", ".rb", ".go", ".swift", ".m",
				".mm", ".bash", ".zsh", ".cmd", ".ps1", ".yml", ".yaml", ".ini",
				".cfg", ".conf", ".sql", ".lua", ".pl", ".r", ".dart", ".rs",
				".vue", ".svelte", ".gradle", ".properties", ".toml", ".lock",
				".gitignore", ".dockerfile", ".makefile", ".htm", ".keystore",
				".json5", ".plist", ".sketch",
			},
		},
	}
}

// Default returns a configuration populated with defaults only, bound to the
// given config file path.
func Default(file string) *Config {
	cfg := &Config{
		Rules:             DefaultRules(),
		ShowNotifications: true,
		Watcher: WatcherConfig{
			SettleMS:            500,
			StopGraceMS:         5000,
			TransientExtensions: append([]string(nil), DefaultTransientExtensions...),
		},
		Server: ServerConfig{
			Enabled: true,
			Host:    "127.0.0.1",
			Port:    8767,
		},
		Logging: LoggingConfig{
			Level:       "info",
			Format:      "console",
			FileEnabled: true,
		},
		History: HistoryConfig{
			Enabled:    true,
			MaxEntries: 5000,
		},
		file: file,
	}
	_ = postProcess(cfg)
	return cfg
}
