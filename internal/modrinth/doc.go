// Package modrinth is a small client for the parts of the Modrinth v2 API
// needed to keep mods current: looking up the latest compatible version for
// a file hash, listing a project's compatible versions, free-text project
// search, and streaming a version file to disk.
//
// A 404 from any lookup means "no match" and is returned as a nil result,
// never as an error. Every other failure surfaces as *RegistryError.
package modrinth
