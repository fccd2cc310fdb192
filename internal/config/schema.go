package config

import "grimm.is/pywall/internal/brand"

// Section and key names used by the rest of the tool.
const (
	SectionFiletype = "FILETYPE"
	SectionGUI      = "GUI"
	SectionUI       = "UI"
	SectionDebug    = "DEBUG"

	KeyAcceptedTypes    = "accepted_types"
	KeyBlacklistedNames = "blacklisted_names"
	KeyRecursive        = "recursive"
	KeyExactSuffix      = "exact_suffix"

	KeyAdvancedMode = "advanced_mode"
	KeyStylesheet   = "stylesheet"
	KeyFirstRun     = "first_run"

	KeyShowNotifications = "show_notifications"

	KeyCreateLogs          = "create_logs"
	KeyCreateExceptionLogs = "create_exception_logs"
	KeyVersion             = "version"
	KeyShell               = "shell"
)

// Key is a schema key with its default value.
type Key struct {
	Name    string
	Default string
}

// Section is an ordered group of keys.
type Section struct {
	Name string
	Keys []Key
}

// Schema is the compiled-in document layout. Order is preserved when a
// default document is written.
type Schema struct {
	Sections []Section
	// Version is written to DEBUG.version on every validation pass that
	// finds a different value. Empty disables the version check.
	Version string
}

// DefaultSchema returns the schema for the running build.
func DefaultSchema() Schema {
	return Schema{
		Version: brand.Version,
		Sections: []Section{
			{Name: SectionFiletype, Keys: []Key{
				{KeyAcceptedTypes, ".exe"},
				{KeyBlacklistedNames, ""},
				{KeyRecursive, "true"},
				{KeyExactSuffix, "false"},
			}},
			{Name: SectionGUI, Keys: []Key{
				{KeyAdvancedMode, "false"},
				{KeyStylesheet, "dark_red.xml"},
				{KeyFirstRun, "true"},
			}},
			{Name: SectionUI, Keys: []Key{
				{KeyShowNotifications, "true"},
			}},
			{Name: SectionDebug, Keys: []Key{
				{KeyCreateLogs, "false"},
				{KeyCreateExceptionLogs, "true"},
				{KeyVersion, brand.Version},
				{KeyShell, "false"},
			}},
		},
	}
}

// Default returns the schema default for section/key.
func (s Schema) Default(section, key string) (string, bool) {
	for _, sec := range s.Sections {
		if sec.Name != section {
			continue
		}
		for _, k := range sec.Keys {
			if k.Name == key {
				if section == SectionDebug && key == KeyVersion && s.Version != "" {
					return s.Version, true
				}
				return k.Default, true
			}
		}
	}
	return "", false
}
