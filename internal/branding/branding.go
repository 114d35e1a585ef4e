// Package branding provides compile-time identity values for the CLI.
//
// The values live in branding.yaml next to this file and are baked into
// the binary with //go:embed.
package branding

import (
	_ "embed"
	"strings"
	"sync"

	"go.yaml.in/yaml/v3"
)

//go:embed branding.yaml
var rawBranding []byte

var (
	once     sync.Once
	defaults brand
)

type brand struct {
	CLIName     string `yaml:"cli_name"`
	DisplayName string `yaml:"display_name"`
	Description string `yaml:"description"`
	HomeDir     string `yaml:"home_dir"`
	EnvPrefix   string `yaml:"env_prefix"`
	GoModule    string `yaml:"go_module"`
	APIURL      string `yaml:"api_url"`
}

func load() {
	once.Do(func() {
		// Hard defaults in case the embedded file is missing/empty.
		defaults = brand{
			CLIName:     "modsync",
			DisplayName: "ModSync",
			Description: "Keep a directory of Minecraft mods in step with Modrinth",
			HomeDir:     ".modsync",
			EnvPrefix:   "MODSYNC",
			GoModule:    "github.com/modsync/modsync",
			APIURL:      "https://api.modrinth.com/v2",
		}
		_ = yaml.Unmarshal(rawBranding, &defaults)
	})
}

// CLIName returns the root command name (e.g., "modsync").
func CLIName() string { load(); return defaults.CLIName }

// DisplayName returns the human-readable product name.
func DisplayName() string { load(); return defaults.DisplayName }

// Description returns the short product description.
func Description() string { load(); return defaults.Description }

// HomeDir returns the dot-directory name under $HOME (e.g., ".modsync").
func HomeDir() string { load(); return defaults.HomeDir }

// EnvPrefix returns the environment variable prefix (e.g., "MODSYNC").
func EnvPrefix() string { load(); return defaults.EnvPrefix }

// APIURL returns the default registry API base URL.
func APIURL() string { load(); return defaults.APIURL }

// UserAgent returns the User-Agent sent with every registry request.
// Modrinth asks clients to identify themselves uniquely.
func UserAgent(version string) string {
	load()
	return defaults.CLIName + "/" + version + " (" + defaults.GoModule + ")"
}

// EnvVar returns a fully qualified env var name, e.g., EnvVar("loader") → "MODSYNC_LOADER".
func EnvVar(suffix string) string {
	load()
	return defaults.EnvPrefix + "_" + strings.ToUpper(suffix)
}
