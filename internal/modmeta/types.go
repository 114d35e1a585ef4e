package modmeta

import "errors"

// Descriptor formats, in the order Extract probes them.
const (
	FormatFabric   = "fabric"
	FormatQuilt    = "quilt"
	FormatNeoForge = "neoforge"
	FormatForge    = "forge"
)

var (
	// ErrMalformedArchive is returned when the artifact cannot be opened as a zip.
	ErrMalformedArchive = errors.New("malformed archive")
	// ErrMalformedDescriptor is returned when a descriptor entry exists but
	// cannot be parsed or lacks the mod id.
	ErrMalformedDescriptor = errors.New("malformed descriptor")
)

// Descriptor is the identifying subset of an embedded mod descriptor.
type Descriptor struct {
	Format  string // one of the Format constants
	Path    string // entry path inside the archive
	ID      string // mod id (often, but not always, the registry slug)
	Name    string // display name, may be empty
	Version string // declared version, empty when it is a build placeholder
}

// SearchText returns the best free-text query for this mod: the display
// name when present, otherwise the id.
func (d *Descriptor) SearchText() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

type fabricDescriptor struct {
	ID      string `json:"id"`
	Version string `json:"version"`
	Name    string `json:"name"`
}

type quiltDescriptor struct {
	Loader struct {
		ID       string `json:"id"`
		Version  string `json:"version"`
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	} `json:"quilt_loader"`
}

type forgeDescriptor struct {
	Mods []struct {
		ModID       string `toml:"modId"`
		Version     string `toml:"version"`
		DisplayName string `toml:"displayName"`
	} `toml:"mods"`
}
