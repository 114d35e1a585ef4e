package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"syscall"
	"testing"
)

func TestMove(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "mod-1.0.jar")
	dst := filepath.Join(tmp, "backup", "mod-1.0.jar")

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(src, []byte("original"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Move(src, dst); err != nil {
		t.Fatalf("Move failed: %v", err)
	}

	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after move")
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading dst: %v", err)
	}
	if string(data) != "original" {
		t.Errorf("content mismatch: %s", data)
	}
}

func TestMove_OverwritesExisting(t *testing.T) {
	tmp := t.TempDir()
	src := filepath.Join(tmp, "a.jar")
	dst := filepath.Join(tmp, "b.jar")

	os.WriteFile(src, []byte("new"), 0644)
	os.WriteFile(dst, []byte("old"), 0644)

	if err := Move(src, dst); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	data, _ := os.ReadFile(dst)
	if string(data) != "new" {
		t.Errorf("dst = %q, want %q", data, "new")
	}
}

func TestMove_MissingSource(t *testing.T) {
	tmp := t.TempDir()
	err := Move(filepath.Join(tmp, "missing.jar"), filepath.Join(tmp, "dst.jar"))
	if err == nil {
		t.Error("expected error for missing source")
	}
}

func TestCopyFile(t *testing.T) {
	tmp := t.TempDir()

	src := filepath.Join(tmp, "src")
	dst := filepath.Join(tmp, "dst")

	os.WriteFile(src, []byte("copy test"), 0644)

	if err := CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile failed: %v", err)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading dst: %v", err)
	}
	if string(data) != "copy test" {
		t.Errorf("content mismatch: %s", data)
	}
}

func TestIsCrossDevice(t *testing.T) {
	exdev := &os.LinkError{Op: "rename", Old: "a", New: "b", Err: syscall.EXDEV}
	if !isCrossDevice(exdev) {
		t.Error("EXDEV link error not detected as cross-device")
	}
	if !isCrossDevice(fmt.Errorf("wrapped: %w", exdev)) {
		t.Error("wrapped EXDEV link error not detected")
	}
	notExist := &os.LinkError{Op: "rename", Old: "a", New: "b", Err: os.ErrNotExist}
	if isCrossDevice(notExist) {
		t.Error("ErrNotExist link error reported as cross-device")
	}
	if isCrossDevice(syscall.EXDEV) {
		t.Error("bare errno without a link error reported as cross-device")
	}
}

// forceCrossDevice makes every rename fail with EXDEV for the rest of the test.
func forceCrossDevice(t *testing.T) {
	t.Helper()
	orig := rename
	rename = func(oldpath, newpath string) error {
		return &os.LinkError{Op: "rename", Old: oldpath, New: newpath, Err: syscall.EXDEV}
	}
	t.Cleanup(func() { rename = orig })
}

func TestMove_CrossDeviceCopiesAndRemoves(t *testing.T) {
	forceCrossDevice(t)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "mod-1.0.jar")
	dst := filepath.Join(tmp, "backup-mod-1.0.jar")
	if err := os.WriteFile(src, []byte("jar bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := Move(src, dst); err != nil {
		t.Fatalf("Move failed: %v", err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Error("source still exists after cross-device move")
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading dst: %v", err)
	}
	if string(data) != "jar bytes" {
		t.Errorf("dst = %q", data)
	}
}

func TestMove_CrossDeviceCopyFailureKeepsSource(t *testing.T) {
	forceCrossDevice(t)
	tmp := t.TempDir()
	src := filepath.Join(tmp, "mod-1.0.jar")
	if err := os.WriteFile(src, []byte("jar bytes"), 0644); err != nil {
		t.Fatal(err)
	}
	// The destination's parent does not exist, so the copy cannot start.
	dst := filepath.Join(tmp, "missing", "mod-1.0.jar")

	if err := Move(src, dst); err == nil {
		t.Fatal("expected copy failure")
	}
	if data, err := os.ReadFile(src); err != nil || string(data) != "jar bytes" {
		t.Errorf("source damaged after failed copy: %v", err)
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("partial destination left behind")
	}
}

func TestMove_CrossDeviceRemovesPartialCopy(t *testing.T) {
	forceCrossDevice(t)
	tmp := t.TempDir()
	// A directory as source opens fine but fails on read, after dst exists.
	src := filepath.Join(tmp, "dir.jar")
	if err := os.Mkdir(src, 0755); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(tmp, "copy.jar")

	if err := Move(src, dst); err == nil {
		t.Fatal("expected copy failure")
	}
	if _, err := os.Stat(dst); !os.IsNotExist(err) {
		t.Error("half-written destination not removed")
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source removed after failed copy: %v", err)
	}
}
