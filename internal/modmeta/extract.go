package modmeta

import (
	"archive/zip"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
)

// probe is one well-known descriptor location inside a mod jar.
type probe struct {
	format string
	path   string
	parse  func(data []byte) (*Descriptor, error)
}

var probes = []probe{
	{FormatFabric, "fabric.mod.json", parseFabric},
	{FormatQuilt, "quilt.mod.json", parseQuilt},
	{FormatNeoForge, "META-INF/neoforge.mods.toml", parseForge},
	{FormatForge, "META-INF/mods.toml", parseForge},
}

// maxDescriptorSize caps how much of a descriptor entry is read.
const maxDescriptorSize = 1 << 20

// Extractor reads embedded descriptors from mod jars.
type Extractor struct{}

// Extract implements the reconciler's extractor contract by calling the
// package-level Extract.
func (Extractor) Extract(path string) (*Descriptor, error) {
	return Extract(path)
}

// Extract opens the jar at path and returns the first descriptor found.
// Returns nil, nil when the archive carries none of the known descriptors.
func Extract(path string) (*Descriptor, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("%w: opening %s: %v", ErrMalformedArchive, path, err)
	}
	defer r.Close()

	entries := make(map[string]*zip.File, len(r.File))
	for _, f := range r.File {
		entries[f.Name] = f
	}

	for _, p := range probes {
		f, ok := entries[p.path]
		if !ok {
			continue
		}

		data, err := readEntry(f)
		if err != nil {
			return nil, fmt.Errorf("%w: reading %s in %s: %v", ErrMalformedArchive, p.path, path, err)
		}

		desc, err := p.parse(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s in %s: %v", ErrMalformedDescriptor, p.path, path, err)
		}
		desc.Format = p.format
		desc.Path = p.path
		return desc, nil
	}

	return nil, nil
}

func readEntry(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(io.LimitReader(rc, maxDescriptorSize))
}

func parseFabric(data []byte) (*Descriptor, error) {
	if err := validateJSON(FormatFabric, data); err != nil {
		return nil, err
	}
	var fd fabricDescriptor
	if err := json.Unmarshal(data, &fd); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &Descriptor{
		ID:      fd.ID,
		Name:    fd.Name,
		Version: cleanVersion(fd.Version),
	}, nil
}

func parseQuilt(data []byte) (*Descriptor, error) {
	if err := validateJSON(FormatQuilt, data); err != nil {
		return nil, err
	}
	var qd quiltDescriptor
	if err := json.Unmarshal(data, &qd); err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}
	return &Descriptor{
		ID:      qd.Loader.ID,
		Name:    qd.Loader.Metadata.Name,
		Version: cleanVersion(qd.Loader.Version),
	}, nil
}

func parseForge(data []byte) (*Descriptor, error) {
	var fd forgeDescriptor
	if _, err := toml.Decode(string(data), &fd); err != nil {
		return nil, fmt.Errorf("parsing TOML: %w", err)
	}
	if len(fd.Mods) == 0 || fd.Mods[0].ModID == "" {
		return nil, fmt.Errorf("no [[mods]] entry with a modId")
	}
	m := fd.Mods[0]
	return &Descriptor{
		ID:      m.ModID,
		Name:    m.DisplayName,
		Version: cleanVersion(m.Version),
	}, nil
}

// cleanVersion drops build-time placeholders such as "${version}" or
// "${file.jarVersion}" that were never substituted.
func cleanVersion(v string) string {
	v = strings.TrimSpace(v)
	if strings.Contains(v, "${") {
		return ""
	}
	return v
}
