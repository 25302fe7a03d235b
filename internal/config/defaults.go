package config

const (
	defaultDateSource = "mtime"
	defaultTimezone   = "Local"
	defaultCollision  = CollisionRename
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Collision policies for same-named files in the duplicates folder.
const (
	CollisionRename    = "rename"
	CollisionSkip      = "skip"
	CollisionOverwrite = "overwrite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Organize: Organize{
			DateSource:       defaultDateSource,
			Timezone:         defaultTimezone,
			Collision:        defaultCollision,
			PrecreateFolders: true,
		},
		Paths: Paths{
			StateDir: defaultStateDir(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
