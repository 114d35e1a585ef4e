// Package modmeta reads the descriptor a mod jar carries about itself.
// Fabric and Quilt jars ship a JSON file at the archive root, Forge and
// NeoForge jars ship a TOML file under META-INF. The extracted id and
// display name give the reconciler a second way to find the mod in the
// registry when the content hash is unknown there.
package modmeta
