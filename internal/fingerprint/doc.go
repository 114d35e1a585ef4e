// Package fingerprint computes the content hash used to identify an
// installed artifact in the registry. The registry indexes files by their
// SHA-512 digest, so that is the only algorithm offered here.
package fingerprint
