package report

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/modsync/modsync/internal/modrinth"
	"github.com/modsync/modsync/internal/reconcile"
)

func sampleReport() *reconcile.Report {
	start := time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)
	return &reconcile.Report{
		RunID:    "run-1",
		Target:   modrinth.Target{GameVersion: "1.21.8", Loader: "fabric"},
		ModsDir:  "/mods",
		Started:  start,
		Finished: start.Add(1500 * time.Millisecond),
		Results: []reconcile.Result{
			{
				Artifact: reconcile.Artifact{Name: "modA-1.0.jar"},
				Decision: reconcile.UpToDate,
				Latest:   "modA-1.0.jar",
			},
			{
				Artifact:   reconcile.Artifact{Name: "modB-1.0.jar"},
				Decision:   reconcile.UpdateAvailable,
				Latest:     "modB-2.0.jar",
				Attempted:  true,
				Installed:  "modB-2.0.jar",
				BackupPath: "/mods/backup/modB-1.0.jar",
				Bytes:      1234567,
			},
			{
				Artifact:   reconcile.Artifact{Name: "modC-1.0.jar"},
				Decision:   reconcile.UpdateAvailable,
				Latest:     "modC-2.0.jar",
				Attempted:  true,
				Failed:     true,
				BackupPath: "/mods/backup/modC-1.0.jar",
				Err:        errors.New("registry returned status 503"),
			},
			{
				Artifact: reconcile.Artifact{Name: "mystery.jar"},
				Decision: reconcile.Unresolved,
			},
			{
				Artifact: reconcile.Artifact{Name: "jei.jar"},
				Decision: reconcile.UpToDate,
				Identity: reconcile.Identity{Kind: reconcile.IdentitySearch, Value: "JEI", Project: "u6dRKJwZ"},
				Latest:   "jei.jar",
			},
		},
	}
}

func TestPrint(t *testing.T) {
	DisableColor(true)

	var buf bytes.Buffer
	Print(&buf, sampleReport())
	out := buf.String()

	for _, want := range []string{
		"Checking /mods against fabric@1.21.8",
		"up to date",
		"modB-1.0.jar -> modB-2.0.jar",
		"UPDATE FAILED",
		"skipped",
		"mystery.jar",
		"matched by name search",
		"backup: /mods/backup/modC-1.0.jar",
		"registry returned status 503",
		"5 mod(s) checked in 1.5s",
		"1 updated",
		"2 up to date",
		"1 skipped",
		"1 UPDATE FAILED",
		"Downloaded 1,234,567 bytes.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Dry run") {
		t.Error("non-dry-run report mentions dry run")
	}
}

func TestPrint_DryRun(t *testing.T) {
	DisableColor(true)

	rep := &reconcile.Report{
		DryRun: true,
		Target: modrinth.Target{GameVersion: "1.21.8", Loader: "fabric"},
		Results: []reconcile.Result{{
			Artifact: reconcile.Artifact{Name: "modB-1.0.jar"},
			Decision: reconcile.UpdateAvailable,
			Latest:   "modB-2.0.jar",
		}},
	}

	var buf bytes.Buffer
	Print(&buf, rep)
	out := buf.String()

	if !strings.Contains(out, "Dry run") {
		t.Error("dry run banner missing")
	}
	if !strings.Contains(out, "update available") || !strings.Contains(out, "-> modB-2.0.jar") {
		t.Errorf("pending update not shown:\n%s", out)
	}
	if strings.Contains(out, "Downloaded") {
		t.Error("dry run should not report downloads")
	}
}

func TestWriteMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "modsync.prom")

	if err := WriteMetrics(path, sampleReport()); err != nil {
		t.Fatalf("WriteMetrics failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`modsync_artifacts{game_version="1.21.8",loader="fabric",status="updated"} 1`,
		`modsync_artifacts{game_version="1.21.8",loader="fabric",status="up_to_date"} 2`,
		`modsync_artifacts{game_version="1.21.8",loader="fabric",status="update_failed"} 1`,
		`modsync_artifacts{game_version="1.21.8",loader="fabric",status="lookup_failed"} 0`,
		`modsync_downloaded_bytes{game_version="1.21.8",loader="fabric"} 1.234567e+06`,
		`modsync_last_run_duration_seconds{game_version="1.21.8",loader="fabric"} 1.5`,
		"# HELP modsync_last_run_timestamp_seconds",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics missing %q:\n%s", want, out)
		}
	}
}

func TestWriteMetrics_BadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing-dir", "modsync.prom")
	if err := WriteMetrics(path, sampleReport()); err == nil {
		t.Error("expected error for unwritable path")
	}
}
