// Package config resolves the settings for a run into one immutable Config
// value. Sources, highest precedence first: command-line flags, MODSYNC_*
// environment variables, the optional ~/.modsync/config.yaml file, and
// built-in defaults.
package config
