// Package doctor runs health checks against a mods directory and the
// registry without modifying any installed mod.
package doctor

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/modsync/modsync/internal/config"
	"github.com/modsync/modsync/internal/reconcile"
)

// partSuffix matches the staging suffix the replacer uses for downloads.
const partSuffix = ".part"

// TagSource lists the loaders and game versions the registry recognises.
type TagSource interface {
	Loaders() ([]string, error)
	GameVersions() ([]string, error)
}

// Summary counts what the checks found.
type Summary struct {
	Problems int
	Fixed    int
}

// Check runs every check and writes one line per finding to w.
// When fix is true, repairable problems are repaired.
func Check(w io.Writer, cfg config.Config, tags TagSource, fix bool) Summary {
	var s Summary

	fmt.Fprintln(w, "Directories:")
	checkModsDir(w, cfg, &s)
	checkBackupDir(w, cfg.BackupDir, fix, &s)
	checkPartialDownloads(w, cfg.ModsDir, fix, &s)

	fmt.Fprintln(w, "Registry:")
	checkTarget(w, cfg, tags, &s)

	return s
}

func checkModsDir(w io.Writer, cfg config.Config, s *Summary) {
	artifacts, err := reconcile.Scan(cfg.ModsDir, cfg.Extension)
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", cfg.ModsDir, err)
		s.Problems++
		return
	}
	fmt.Fprintf(w, "  [ OK ] %s (%d %s file(s))\n", cfg.ModsDir, len(artifacts), cfg.Extension)
}

func checkBackupDir(w io.Writer, path string, fix bool, s *Summary) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		if !fix {
			// Created on the first update; not a problem on its own.
			fmt.Fprintf(w, "  [MISS] %s does not exist yet\n", path)
			return
		}
		if mkErr := os.MkdirAll(path, 0755); mkErr != nil {
			fmt.Fprintf(w, "  [FAIL] Could not create %s: %v\n", path, mkErr)
			s.Problems++
			return
		}
		fmt.Fprintf(w, "  [FIX ] Created %s\n", path)
		s.Fixed++
		return
	}
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s: %v\n", path, err)
		s.Problems++
		return
	}
	if !info.IsDir() {
		fmt.Fprintf(w, "  [FAIL] %s exists but is not a directory\n", path)
		s.Problems++
		return
	}

	probe, err := os.CreateTemp(path, ".modsync-doctor-*")
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s is not writable: %v\n", path, err)
		s.Problems++
		return
	}
	probe.Close()
	os.Remove(probe.Name())
	fmt.Fprintf(w, "  [ OK ] %s is writable\n", path)
}

// checkPartialDownloads reports staging files left by an interrupted update.
func checkPartialDownloads(w io.Writer, dir string, fix bool, s *Summary) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return // already reported by checkModsDir
	}

	found := false
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), partSuffix) {
			continue
		}
		found = true
		path := filepath.Join(dir, e.Name())
		fmt.Fprintf(w, "  [WARN] %s is an unfinished download\n", path)
		if !fix {
			s.Problems++
			continue
		}
		if rmErr := os.Remove(path); rmErr != nil {
			fmt.Fprintf(w, "  [FAIL] Could not remove %s: %v\n", path, rmErr)
			s.Problems++
			continue
		}
		fmt.Fprintf(w, "  [FIX ] Removed %s\n", path)
		s.Fixed++
	}
	if !found {
		fmt.Fprintln(w, "  [ OK ] no unfinished downloads")
	}
}

func checkTarget(w io.Writer, cfg config.Config, tags TagSource, s *Summary) {
	loaders, err := tags.Loaders()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] %s unreachable: %v\n", cfg.APIURL, err)
		s.Problems++
		return
	}
	if slices.Contains(loaders, cfg.Target.Loader) {
		fmt.Fprintf(w, "  [ OK ] loader %q is known\n", cfg.Target.Loader)
	} else {
		fmt.Fprintf(w, "  [FAIL] loader %q is not known to the registry\n", cfg.Target.Loader)
		s.Problems++
	}

	versions, err := tags.GameVersions()
	if err != nil {
		fmt.Fprintf(w, "  [FAIL] listing game versions: %v\n", err)
		s.Problems++
		return
	}
	if slices.Contains(versions, cfg.Target.GameVersion) {
		fmt.Fprintf(w, "  [ OK ] game version %q is known\n", cfg.Target.GameVersion)
	} else {
		fmt.Fprintf(w, "  [FAIL] game version %q is not known to the registry\n", cfg.Target.GameVersion)
		s.Problems++
	}
}
