package reconcile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrDirectory marks failures that stop the whole run.
var ErrDirectory = errors.New("directory error")

// Scan lists the files directly inside dir whose names end in ext
// (case-insensitive), sorted by name. Subdirectories are not descended.
func Scan(dir, ext string) ([]Artifact, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: listing %s: %v", ErrDirectory, dir, err)
	}

	ext = strings.ToLower(ext)
	var artifacts []Artifact
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ext) {
			continue
		}
		artifacts = append(artifacts, Artifact{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}

	sort.Slice(artifacts, func(i, j int) bool {
		return artifacts[i].Name < artifacts[j].Name
	})
	return artifacts, nil
}
