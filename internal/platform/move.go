package platform

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"
)

// rename is swapped out in tests to simulate a cross-device move.
var rename = os.Rename

// Move renames src to dst. When the rename fails because the paths are on
// different devices it copies src to dst and removes src afterwards, so at
// every point at least one of the two paths holds the full content.
func Move(src, dst string) error {
	err := rename(src, dst)
	if err == nil {
		return nil
	}
	if !isCrossDevice(err) {
		return err
	}

	if copyErr := CopyFile(src, dst); copyErr != nil {
		os.Remove(dst)
		return fmt.Errorf("copying across devices: %w", copyErr)
	}
	if rmErr := os.Remove(src); rmErr != nil {
		return fmt.Errorf("removing %s after copy: %w", src, rmErr)
	}
	return nil
}

// CopyFile copies src to dst, preserving the source permissions.
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Close()
}

func isCrossDevice(err error) bool {
	var linkErr *os.LinkError
	if !errors.As(err, &linkErr) {
		return false
	}
	return errors.Is(linkErr.Err, syscall.EXDEV)
}
