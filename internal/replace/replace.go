package replace

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/modsync/modsync/internal/fingerprint"
	"github.com/modsync/modsync/internal/modrinth"
	"github.com/modsync/modsync/internal/platform"
)

// partSuffix marks an in-progress download. It never matches the managed
// extension, so a half-written file is not picked up as an artifact.
const partSuffix = ".part"

var (
	// ErrNoPrimaryFile is returned when a release lists no file with the
	// managed extension.
	ErrNoPrimaryFile = errors.New("release has no file with the managed extension")
	// ErrTargetExists is returned when the new file name is already taken
	// by another file in the mods directory.
	ErrTargetExists = errors.New("target file already exists")
	// ErrChecksumMismatch is returned when the downloaded bytes do not match
	// the digest the registry published.
	ErrChecksumMismatch = errors.New("checksum mismatch")
)

// UpdateFailedError reports a download that failed after the old file had
// already been moved to BackupPath.
type UpdateFailedError struct {
	Artifact   string
	BackupPath string
	Err        error
}

func (e *UpdateFailedError) Error() string {
	return fmt.Sprintf("updating %s failed, previous version kept at %s: %v", e.Artifact, e.BackupPath, e.Err)
}

func (e *UpdateFailedError) Unwrap() error { return e.Err }

// Downloader streams a release file into w.
type Downloader interface {
	Download(file *modrinth.File, w io.Writer) (int64, error)
}

// Installation describes a completed replacement.
type Installation struct {
	Name       string // installed file name
	BackupPath string // where the previous file now lives
	Bytes      int64  // bytes downloaded
}

// Replacer performs backup-then-download replacements inside one mods directory.
type Replacer struct {
	modsDir    string
	backupDir  string
	downloader Downloader
}

// New creates a Replacer for modsDir that keeps backups in backupDir.
func New(modsDir, backupDir string, dl Downloader) *Replacer {
	return &Replacer{
		modsDir:    modsDir,
		backupDir:  backupDir,
		downloader: dl,
	}
}

// BackupDir returns the directory receiving replaced files.
func (r *Replacer) BackupDir() string {
	return r.backupDir
}

// EnsureBackupDir creates the backup directory if it does not exist.
func (r *Replacer) EnsureBackupDir() error {
	if err := os.MkdirAll(r.backupDir, 0755); err != nil {
		return fmt.Errorf("creating backup directory %s: %w", r.backupDir, err)
	}
	return nil
}

// Replace moves artifactPath into the backup directory and installs the
// release's primary file (first file ending in ext) in its place.
//
// Errors returned before the move leave the mods directory untouched.
// Errors after the move are *UpdateFailedError.
func (r *Replacer) Replace(artifactPath string, release *modrinth.Version, ext string) (*Installation, error) {
	file, ok := release.PrimaryFile(ext)
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrNoPrimaryFile, ext)
	}
	if file.Filename != filepath.Base(file.Filename) || file.Filename == "." || file.Filename == ".." {
		return nil, fmt.Errorf("refusing unsafe file name %q", file.Filename)
	}

	name := filepath.Base(artifactPath)
	targetPath := filepath.Join(r.modsDir, file.Filename)
	if _, err := os.Stat(targetPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrTargetExists, file.Filename)
	}

	if err := r.EnsureBackupDir(); err != nil {
		return nil, err
	}

	// A second update of the same name overwrites its earlier backup.
	backupPath := filepath.Join(r.backupDir, name)
	if err := platform.Move(artifactPath, backupPath); err != nil {
		return nil, fmt.Errorf("backing up %s: %w", name, err)
	}

	n, err := r.install(file, targetPath)
	if err != nil {
		return nil, &UpdateFailedError{Artifact: name, BackupPath: backupPath, Err: err}
	}

	return &Installation{Name: file.Filename, BackupPath: backupPath, Bytes: n}, nil
}

// install downloads file to a .part sibling of targetPath, verifies it, and
// renames it into place. The .part file is removed on any failure.
func (r *Replacer) install(file *modrinth.File, targetPath string) (n int64, err error) {
	partPath := targetPath + partSuffix
	defer func() {
		if err != nil {
			os.Remove(partPath)
		}
	}()

	f, err := os.OpenFile(partPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, platform.ArtifactPerm)
	if err != nil {
		return 0, fmt.Errorf("creating download file: %w", err)
	}

	n, err = r.downloader.Download(file, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("closing download file: %w", closeErr)
	}
	if err != nil {
		return n, err
	}

	if want := file.Hashes.SHA512; want != "" {
		got, hashErr := fingerprint.File(partPath)
		if hashErr != nil {
			return n, hashErr
		}
		if got != want {
			return n, fmt.Errorf("%w for %s: expected %s, got %s", ErrChecksumMismatch, file.Filename, want, got)
		}
	}

	if err := platform.Chmod(partPath, platform.ArtifactPerm); err != nil {
		return n, fmt.Errorf("setting permissions: %w", err)
	}
	if err := os.Rename(partPath, targetPath); err != nil {
		return n, fmt.Errorf("installing %s: %w", file.Filename, err)
	}
	return n, nil
}
