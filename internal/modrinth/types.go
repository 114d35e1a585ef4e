package modrinth

import (
	"strings"
	"time"
)

// Target is the (game version, loader) pair every lookup is constrained to.
type Target struct {
	GameVersion string
	Loader      string
}

func (t Target) String() string {
	return t.Loader + "@" + t.GameVersion
}

// Version is one published release of a project.
type Version struct {
	ID            string    `json:"id"`
	ProjectID     string    `json:"project_id"`
	Name          string    `json:"name"`
	VersionNumber string    `json:"version_number"`
	VersionType   string    `json:"version_type"`
	GameVersions  []string  `json:"game_versions"`
	Loaders       []string  `json:"loaders"`
	Published     time.Time `json:"date_published"`
	Files         []File    `json:"files"`
}

// File is a downloadable file attached to a version.
type File struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
	Primary  bool   `json:"primary"`
	Size     int64  `json:"size"`
	Hashes   Hashes `json:"hashes"`
}

// Hashes holds the digests the registry publishes for a file.
type Hashes struct {
	SHA512 string `json:"sha512"`
	SHA1   string `json:"sha1"`
}

// PrimaryFile returns the first file whose name ends with ext
// (case-insensitive). Registry order is preserved, so the first match wins.
func (v *Version) PrimaryFile(ext string) (*File, bool) {
	ext = strings.ToLower(ext)
	for i := range v.Files {
		if strings.HasSuffix(strings.ToLower(v.Files[i].Filename), ext) {
			return &v.Files[i], true
		}
	}
	return nil, false
}

// SearchHit is one project returned by a search.
type SearchHit struct {
	ProjectID string `json:"project_id"`
	Slug      string `json:"slug"`
	Title     string `json:"title"`
}

type searchResponse struct {
	Hits      []SearchHit `json:"hits"`
	TotalHits int         `json:"total_hits"`
}

type hashUpdateRequest struct {
	Loaders      []string `json:"loaders"`
	GameVersions []string `json:"game_versions"`
}
