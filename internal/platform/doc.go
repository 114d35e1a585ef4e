// Package platform provides the small set of cross-platform filesystem
// operations the replacer needs: permission handling for installed
// artifacts and a rename that falls back to copy+remove when the source
// and destination live on different filesystems.
package platform
