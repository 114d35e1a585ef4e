package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/modsync/modsync/internal/branding"
	"github.com/modsync/modsync/internal/modrinth"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	fileName = "config"
	fileType = "yaml"

	// BackupDirName is the backup subdirectory used when none is configured.
	BackupDirName = "backup"

	// MinTimeout is the shortest request timeout Validate accepts.
	MinTimeout = time.Second
)

// Keys understood in the config file and as MODSYNC_<KEY> env vars.
const (
	KeyModsDir     = "mods_dir"
	KeyBackupDir   = "backup_dir"
	KeyGameVersion = "game_version"
	KeyLoader      = "loader"
	KeyAPIURL      = "api_url"
	KeyMirror      = "mirror"
	KeyExtension   = "extension"
	KeyTimeout     = "timeout"
	KeyLogLevel    = "log_level"
	KeyMetricsFile = "metrics_file"
)

// flagNames maps config keys to their command-line flag.
var flagNames = map[string]string{
	KeyModsDir:     "dir",
	KeyBackupDir:   "backup-dir",
	KeyGameVersion: "game-version",
	KeyLoader:      "loader",
	KeyAPIURL:      "api-url",
	KeyMirror:      "mirror",
	KeyExtension:   "extension",
	KeyTimeout:     "timeout",
	KeyLogLevel:    "log-level",
	KeyMetricsFile: "metrics-file",
}

// Config is the fully resolved configuration for a run. It is built once
// and passed by value; nothing mutates it afterwards.
type Config struct {
	ModsDir     string
	BackupDir   string
	Target      modrinth.Target
	APIURL      string
	Mirror      string
	Extension   string
	Timeout     time.Duration
	LogLevel    string
	MetricsFile string
	DryRun      bool
}

// Dir returns the path to the config directory (~/.modsync/).
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", branding.HomeDir())
	}
	return filepath.Join(home, branding.HomeDir())
}

// FilePath returns the full path to the default config file.
func FilePath() string {
	return filepath.Join(Dir(), fileName+"."+fileType)
}

// RegisterFlags adds every configuration flag to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("config", "", "Config file (default "+FilePath()+")")
	fs.StringP(flagNames[KeyModsDir], "d", "mods", "Directory containing the installed mods")
	fs.String(flagNames[KeyBackupDir], "", "Directory receiving replaced mods (default <dir>/"+BackupDirName+")")
	fs.StringP(flagNames[KeyGameVersion], "g", "", "Minecraft version releases must support (e.g. 1.21.8)")
	fs.StringP(flagNames[KeyLoader], "l", "fabric", "Mod loader releases must support (fabric, quilt, forge, neoforge)")
	fs.String(flagNames[KeyAPIURL], branding.APIURL(), "Registry API base URL")
	fs.String(flagNames[KeyMirror], "", "Download mirror; file URLs become <mirror>/<filename>")
	fs.String(flagNames[KeyExtension], ".jar", "File extension of managed mods")
	fs.Duration(flagNames[KeyTimeout], 60*time.Second, "Timeout for each registry request")
	fs.String(flagNames[KeyLogLevel], "info", "Log level (debug, info, warn, error)")
	fs.String(flagNames[KeyMetricsFile], "", "Write Prometheus textfile metrics here after the run")
}

// Load resolves a Config from fs, the environment, and the config file.
// fs must have been populated by RegisterFlags and parsed.
func Load(fs *pflag.FlagSet) (Config, error) {
	v := viper.New()
	v.SetEnvPrefix(branding.EnvPrefix())
	v.AutomaticEnv()

	for key, name := range flagNames {
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return Config{}, fmt.Errorf("binding flag --%s: %w", name, err)
		}
	}

	configFile, _ := fs.GetString("config")
	explicit := configFile != ""
	if !explicit {
		configFile = FilePath()
	}
	v.SetConfigFile(configFile)
	v.SetConfigType(fileType)
	if err := v.ReadInConfig(); err != nil {
		// The default file is optional; an explicitly named one is not.
		if explicit || !isNotExist(err) {
			return Config{}, fmt.Errorf("reading config file %s: %w", configFile, err)
		}
	}

	cfg := Config{
		ModsDir:   v.GetString(KeyModsDir),
		BackupDir: v.GetString(KeyBackupDir),
		Target: modrinth.Target{
			GameVersion: strings.TrimSpace(v.GetString(KeyGameVersion)),
			Loader:      strings.ToLower(strings.TrimSpace(v.GetString(KeyLoader))),
		},
		APIURL:      v.GetString(KeyAPIURL),
		Mirror:      v.GetString(KeyMirror),
		Extension:   normalizeExtension(v.GetString(KeyExtension)),
		LogLevel:    v.GetString(KeyLogLevel),
		MetricsFile: v.GetString(KeyMetricsFile),
	}

	timeout, err := parseTimeout(v.GetString(KeyTimeout))
	if err != nil {
		return Config{}, err
	}
	cfg.Timeout = timeout

	if cfg.ModsDir != "" {
		abs, err := filepath.Abs(cfg.ModsDir)
		if err != nil {
			return Config{}, fmt.Errorf("resolving mods directory: %w", err)
		}
		cfg.ModsDir = abs
	}
	if cfg.BackupDir == "" && cfg.ModsDir != "" {
		cfg.BackupDir = filepath.Join(cfg.ModsDir, BackupDirName)
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports missing or inconsistent settings.
func (c Config) Validate() error {
	var errs []error
	if c.ModsDir == "" {
		errs = append(errs, fmt.Errorf("mods directory is required (--%s or %s)", flagNames[KeyModsDir], branding.EnvVar(KeyModsDir)))
	}
	if c.Target.GameVersion == "" {
		errs = append(errs, fmt.Errorf("game version is required (--%s or %s)", flagNames[KeyGameVersion], branding.EnvVar(KeyGameVersion)))
	}
	if c.Target.Loader == "" {
		errs = append(errs, fmt.Errorf("loader is required (--%s or %s)", flagNames[KeyLoader], branding.EnvVar(KeyLoader)))
	}
	if c.Extension == "" || c.Extension == "." {
		errs = append(errs, errors.New("extension must not be empty"))
	}
	if c.Timeout < MinTimeout {
		errs = append(errs, fmt.Errorf("timeout %s is too short; use a unit such as 60s", c.Timeout))
	}
	return errors.Join(errs...)
}

// WithDryRun returns a copy of c with DryRun set.
func (c Config) WithDryRun(dry bool) Config {
	c.DryRun = dry
	return c
}

// parseTimeout reads a duration such as "90s" or "2m". A bare integer,
// as YAML and env vars tend to produce, is taken as seconds.
func parseTimeout(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", raw, err)
	}
	return d, nil
}

func normalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

func isNotExist(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	return errors.As(err, &notFound) || errors.Is(err, os.ErrNotExist)
}
