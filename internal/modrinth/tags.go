package modrinth

import "net/http"

type loaderTag struct {
	Name                  string   `json:"name"`
	SupportedProjectTypes []string `json:"supported_project_types"`
}

type gameVersionTag struct {
	Version     string `json:"version"`
	VersionType string `json:"version_type"`
}

// Loaders returns the names of every loader the registry knows about.
func (c *Client) Loaders() ([]string, error) {
	var tags []loaderTag
	if _, err := c.doJSON("list loaders", http.MethodGet, c.baseURL+"/tag/loader", nil, &tags); err != nil {
		return nil, err
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}

// GameVersions returns every game version the registry knows about,
// snapshots included.
func (c *Client) GameVersions() ([]string, error) {
	var tags []gameVersionTag
	if _, err := c.doJSON("list game versions", http.MethodGet, c.baseURL+"/tag/game_version", nil, &tags); err != nil {
		return nil, err
	}
	versions := make([]string, 0, len(tags))
	for _, t := range tags {
		versions = append(versions, t.Version)
	}
	return versions, nil
}
