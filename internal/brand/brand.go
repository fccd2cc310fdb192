// Package brand provides centralized branding constants.
// This makes it easy to fork or white-label the tool by changing brand.json.
//
// The brand identity is loaded from brand.json at compile time via go:embed.
package brand

import (
	_ "embed"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
)

//go:embed brand.json
var brandJSON []byte

// Brand holds all branding information
type Brand struct {
	Name            string `json:"name"`
	LowerName       string `json:"lowerName"`
	Vendor          string `json:"vendor"`
	Repository      string `json:"repository"`
	Description     string `json:"description"`
	Tagline         string `json:"tagline"`
	ConfigEnvPrefix string `json:"configEnvPrefix"`
	ConfigDirName   string `json:"configDirName"`
	ConfigFileName  string `json:"configFileName"`
	MarkerFileName  string `json:"markerFileName"`
	LogDirName      string `json:"logDirName"`
	BinaryName      string `json:"binaryName"`
	RulePrefix      string `json:"rulePrefix"`
	Copyright       string `json:"copyright"`
	License         string `json:"license"`
}

var b Brand

func init() {
	if err := json.Unmarshal(brandJSON, &b); err != nil {
		panic("failed to parse brand.json: " + err.Error())
	}

	Name = b.Name
	LowerName = b.LowerName
	Vendor = b.Vendor
	Repository = b.Repository
	Description = b.Description
	Tagline = b.Tagline
	ConfigEnvPrefix = b.ConfigEnvPrefix
	ConfigDirName = b.ConfigDirName
	ConfigFileName = b.ConfigFileName
	MarkerFileName = b.MarkerFileName
	LogDirName = b.LogDirName
	BinaryName = b.BinaryName
	RulePrefix = b.RulePrefix
	Copyright = b.Copyright
	License = b.License
}

var (
	Name            string
	LowerName       string
	Vendor          string
	Repository      string
	Description     string
	Tagline         string
	ConfigEnvPrefix string
	ConfigDirName   string
	ConfigFileName  string
	MarkerFileName  string
	LogDirName      string
	BinaryName      string
	RulePrefix      string
	Copyright       string
	License         string

	// Version is set at build time via -ldflags
	Version   = "v1.8"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// Get returns the full Brand struct
func Get() Brand {
	return b
}

// ExecutableName returns the platform file name of the binary
// (pywall.exe on Windows, pywall elsewhere).
func ExecutableName() string {
	if runtime.GOOS == "windows" {
		return BinaryName + ".exe"
	}
	return BinaryName
}

// GetConfigDir returns the per-user config directory, checking env vars first.
// Priority: PYWALL_CONFIG_DIR > PYWALL_PREFIX/config > <user config dir>/PyWall
func GetConfigDir() string {
	if dir := os.Getenv(ConfigEnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	if prefix := os.Getenv(ConfigEnvPrefix + "_PREFIX"); prefix != "" {
		return filepath.Join(prefix, "config")
	}
	base, err := os.UserConfigDir()
	if err != nil {
		// No HOME or AppData: use the working directory.
		base, _ = os.Getwd()
	}
	return filepath.Join(base, ConfigDirName)
}

// GetLogDir returns the log directory.
// Priority: PYWALL_LOG_DIR > <config dir>/Logs
func GetLogDir() string {
	if dir := os.Getenv(ConfigEnvPrefix + "_LOG_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(GetConfigDir(), LogDirName)
}

// GetConfigPath returns the full path of the settings document.
func GetConfigPath() string {
	return filepath.Join(GetConfigDir(), ConfigFileName)
}

// GetMarkerPath returns the full path of the install-location marker.
func GetMarkerPath() string {
	return filepath.Join(GetConfigDir(), MarkerFileName)
}
