package fingerprint

import (
	"crypto/sha512"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
)

// ChunkSize is the read size used while hashing. Memory use stays bounded
// by this regardless of artifact size.
const ChunkSize = 8192

// Algorithm is the name the registry expects in its algorithm parameter.
const Algorithm = "sha512"

// ErrIO marks failures to read the artifact being hashed.
var ErrIO = errors.New("reading artifact")

// File returns the lowercase hex SHA-512 digest of the file at path.
func File(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w %s: %v", ErrIO, path, err)
	}
	defer f.Close()

	sum, err := Reader(f)
	if err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return sum, nil
}

// Reader hashes everything read from r.
func Reader(r io.Reader) (string, error) {
	h := sha512.New()
	buf := make([]byte, ChunkSize)
	for {
		n, readErr := r.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if readErr == io.EOF {
			break
		}
		if readErr != nil {
			return "", fmt.Errorf("%w: %v", ErrIO, readErr)
		}
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Bytes returns the digest of an in-memory buffer.
func Bytes(b []byte) string {
	sum := sha512.Sum512(b)
	return hex.EncodeToString(sum[:])
}
