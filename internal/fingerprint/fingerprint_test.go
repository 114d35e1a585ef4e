package fingerprint

import (
	"bytes"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestFile_KnownDigest(t *testing.T) {
	tmp := t.TempDir()
	path := filepath.Join(tmp, "empty.jar")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	got, err := File(path)
	if err != nil {
		t.Fatalf("File failed: %v", err)
	}
	// SHA-512 of the empty input.
	want := "cf83e1357eefb8bdf1542850d66d8007d620e4050b5715dc83f4a921d36ce9ce" +
		"47d0d13c5d85f2b0ff8318d2877eec2f63b931bd47417a81a538327af927da3e"
	if got != want {
		t.Errorf("File = %s, want %s", got, want)
	}
	if len(got) != 128 {
		t.Errorf("digest length = %d, want 128", len(got))
	}
}

func TestFile_MatchesBytesAcrossChunkBoundaries(t *testing.T) {
	tmp := t.TempDir()
	sizes := []int{0, 1, ChunkSize - 1, ChunkSize, ChunkSize + 1, 3*ChunkSize + 17}
	rng := rand.New(rand.NewSource(1))

	for _, size := range sizes {
		data := make([]byte, size)
		rng.Read(data)
		path := filepath.Join(tmp, "artifact.jar")
		if err := os.WriteFile(path, data, 0644); err != nil {
			t.Fatal(err)
		}

		got, err := File(path)
		if err != nil {
			t.Fatalf("size %d: File failed: %v", size, err)
		}
		if want := Bytes(data); got != want {
			t.Errorf("size %d: File and Bytes disagree", size)
		}
	}
}

func TestDeterministicAndDistinct(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	seen := make(map[string][]byte)

	for i := 0; i < 200; i++ {
		buf := make([]byte, 1+rng.Intn(4*ChunkSize))
		rng.Read(buf)

		first, err := Reader(bytes.NewReader(buf))
		if err != nil {
			t.Fatal(err)
		}
		second, err := Reader(bytes.NewReader(buf))
		if err != nil {
			t.Fatal(err)
		}
		if first != second {
			t.Fatalf("digest not deterministic for buffer %d", i)
		}

		if prev, ok := seen[first]; ok && !bytes.Equal(prev, buf) {
			t.Fatalf("distinct buffers produced the same digest %s", first)
		}
		seen[first] = buf
	}
}

func TestFile_Missing(t *testing.T) {
	_, err := File(filepath.Join(t.TempDir(), "missing.jar"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, ErrIO) {
		t.Errorf("error %v does not wrap ErrIO", err)
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestReader_Error(t *testing.T) {
	_, err := Reader(failingReader{})
	if !errors.Is(err, ErrIO) {
		t.Fatalf("expected ErrIO, got %v", err)
	}
	if !strings.Contains(err.Error(), "disk on fire") {
		t.Errorf("error lost cause: %v", err)
	}
}
