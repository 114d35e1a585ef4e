// Package cli defines the Cobra command tree for the modsync CLI. Each file
// registers one top-level command with the root command. Commands only
// resolve configuration, wire the internal packages together, and format
// output; the pipeline itself lives in internal/reconcile.
package cli
